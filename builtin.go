// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package constraint

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/spf13/cast"
)

// Patterns shared with the router's typed constraints.
const (
	patternInt   = `-?\d+`
	patternUUID  = `[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[1-5][0-9a-fA-F]{3}-[89abAB][0-9a-fA-F]{3}-[0-9a-fA-F]{12}`
	patternDate  = `\d{4}-\d{2}-\d{2}`
	patternAlpha = `[a-zA-Z]*`
)

var (
	uuidRegex  = regexp.MustCompile("^" + patternUUID + "$")
	dateRegex  = regexp.MustCompile("^" + patternDate + "$")
	alphaRegex = regexp.MustCompile("^" + patternAlpha + "$")

	// decimalRegex accepts an optional sign, thousands separators and a
	// fraction, but no exponent.
	decimalRegex = regexp.MustCompile(`^[+-]?(\d[\d,]*(\.\d*)?|\.\d+)$`)
)

// IntConstraint matches 32-bit signed integers.
type IntConstraint struct{}

// Match implements Constraint.
func (IntConstraint) Match(key string, values Values, _ Direction) bool {
	v, ok := values.lookup(key)
	if !ok {
		return false
	}
	_, err := strconv.ParseInt(strings.TrimSpace(v), 10, 32)
	return err == nil
}

// Pattern implements Patterner.
func (IntConstraint) Pattern() string { return patternInt }

// String implements fmt.Stringer.
func (IntConstraint) String() string { return "int" }

// LongConstraint matches 64-bit signed integers.
type LongConstraint struct{}

// Match implements Constraint.
func (LongConstraint) Match(key string, values Values, _ Direction) bool {
	_, ok := parseLong(values, key)
	return ok
}

// Pattern implements Patterner.
func (LongConstraint) Pattern() string { return patternInt }

// String implements fmt.Stringer.
func (LongConstraint) String() string { return "long" }

// BoolConstraint matches "true" or "false", ignoring case.
type BoolConstraint struct{}

// Match implements Constraint.
func (BoolConstraint) Match(key string, values Values, _ Direction) bool {
	v, ok := values.lookup(key)
	if !ok {
		return false
	}
	v = strings.TrimSpace(v)
	return strings.EqualFold(v, "true") || strings.EqualFold(v, "false")
}

// String implements fmt.Stringer.
func (BoolConstraint) String() string { return "bool" }

// DateTimeConstraint matches values that parse as a date and time in any of
// the layouts cast understands (RFC3339, RFC1123, "2006-01-02 15:04:05", ...).
type DateTimeConstraint struct{}

// Match implements Constraint.
func (DateTimeConstraint) Match(key string, values Values, _ Direction) bool {
	v, ok := values.lookup(key)
	if !ok || strings.TrimSpace(v) == "" {
		return false
	}
	_, err := cast.ToTimeE(strings.TrimSpace(v))
	return err == nil
}

// String implements fmt.Stringer.
func (DateTimeConstraint) String() string { return "datetime" }

// DateConstraint matches RFC3339 full-dates (2006-01-02).
type DateConstraint struct{}

// Match implements Constraint.
func (DateConstraint) Match(key string, values Values, _ Direction) bool {
	v, ok := values.lookup(key)
	if !ok || !dateRegex.MatchString(v) {
		return false
	}
	_, err := time.Parse(time.DateOnly, v)
	return err == nil
}

// Pattern implements Patterner.
func (DateConstraint) Pattern() string { return patternDate }

// String implements fmt.Stringer.
func (DateConstraint) String() string { return "date" }

// DecimalConstraint matches fixed-point numbers such as "1,234.50".
type DecimalConstraint struct{}

// Match implements Constraint.
func (DecimalConstraint) Match(key string, values Values, _ Direction) bool {
	v, ok := values.lookup(key)
	if !ok {
		return false
	}
	return decimalRegex.MatchString(strings.TrimSpace(v))
}

// String implements fmt.Stringer.
func (DecimalConstraint) String() string { return "decimal" }

// FloatConstraint matches floating-point numbers, with or without exponent.
// Bits is 32 for float and 64 for double. Overflow is accepted and reads as
// infinity.
type FloatConstraint struct {
	Bits int
}

// Match implements Constraint.
func (c FloatConstraint) Match(key string, values Values, _ Direction) bool {
	v, ok := values.lookup(key)
	if !ok {
		return false
	}
	bits := c.Bits
	if bits != 32 {
		bits = 64
	}
	v = strings.ReplaceAll(strings.TrimSpace(v), ",", "")
	if unsigned := strings.TrimLeft(v, "+-"); strings.HasPrefix(unsigned, "0x") || strings.HasPrefix(unsigned, "0X") {
		return false
	}
	_, err := strconv.ParseFloat(v, bits)
	return err == nil || errors.Is(err, strconv.ErrRange)
}

// String implements fmt.Stringer.
func (c FloatConstraint) String() string {
	if c.Bits == 32 {
		return "float"
	}
	return "double"
}

// GUIDConstraint matches GUIDs in hyphenated, braced, URN or plain hex form,
// regardless of version.
type GUIDConstraint struct{}

// Match implements Constraint.
func (GUIDConstraint) Match(key string, values Values, _ Direction) bool {
	v, ok := values.lookup(key)
	if !ok {
		return false
	}
	return uuid.Validate(strings.TrimSpace(v)) == nil
}

// String implements fmt.Stringer.
func (GUIDConstraint) String() string { return "guid" }

// UUIDConstraint matches hyphenated RFC 4122 UUIDs of versions 1 to 5.
type UUIDConstraint struct{}

// Match implements Constraint.
func (UUIDConstraint) Match(key string, values Values, _ Direction) bool {
	v, ok := values.lookup(key)
	return ok && uuidRegex.MatchString(v)
}

// Pattern implements Patterner.
func (UUIDConstraint) Pattern() string { return patternUUID }

// String implements fmt.Stringer.
func (UUIDConstraint) String() string { return "uuid" }

// LengthConstraint matches strings whose length in characters lies in
// [Min, Max].
type LengthConstraint struct {
	Min int
	Max int

	// maxOnly records that the value came from maxlength.
	maxOnly bool
}

// NewMinLength returns a constraint for strings of at least n characters.
func NewMinLength(n int) (LengthConstraint, error) {
	if n < 0 {
		return LengthConstraint{}, fmt.Errorf("minimum length %d must be non-negative", n)
	}
	return LengthConstraint{Min: n, Max: -1}, nil
}

// NewMaxLength returns a constraint for strings of at most n characters.
func NewMaxLength(n int) (LengthConstraint, error) {
	if n < 0 {
		return LengthConstraint{}, fmt.Errorf("maximum length %d must be non-negative", n)
	}
	return LengthConstraint{Min: 0, Max: n, maxOnly: true}, nil
}

// NewLength returns a constraint for strings between minLen and maxLen
// characters inclusive.
func NewLength(minLen, maxLen int) (LengthConstraint, error) {
	if minLen < 0 {
		return LengthConstraint{}, fmt.Errorf("minimum length %d must be non-negative", minLen)
	}
	if maxLen < minLen {
		return LengthConstraint{}, fmt.Errorf("maximum length %d is less than minimum length %d", maxLen, minLen)
	}
	return LengthConstraint{Min: minLen, Max: maxLen}, nil
}

// Match implements Constraint. A negative Max means unbounded.
func (c LengthConstraint) Match(key string, values Values, _ Direction) bool {
	v, ok := values.lookup(key)
	if !ok {
		return false
	}
	n := utf8.RuneCountInString(v)
	if n < c.Min {
		return false
	}
	return c.Max < 0 || n <= c.Max
}

// String implements fmt.Stringer.
func (c LengthConstraint) String() string {
	switch {
	case c.Max < 0:
		return fmt.Sprintf("minlength(%d)", c.Min)
	case c.maxOnly:
		return fmt.Sprintf("maxlength(%d)", c.Max)
	case c.Min == c.Max:
		return fmt.Sprintf("length(%d)", c.Min)
	default:
		return fmt.Sprintf("length(%d,%d)", c.Min, c.Max)
	}
}

// RangeConstraint matches 64-bit integers in [Min, Max]. HasMin and HasMax
// select which bounds apply, so min(n) and max(n) share the type.
type RangeConstraint struct {
	Min, Max       int64
	HasMin, HasMax bool
}

// NewRange returns a constraint for integers between minVal and maxVal inclusive.
func NewRange(minVal, maxVal int64) (RangeConstraint, error) {
	if maxVal < minVal {
		return RangeConstraint{}, fmt.Errorf("maximum %d is less than minimum %d", maxVal, minVal)
	}
	return RangeConstraint{Min: minVal, Max: maxVal, HasMin: true, HasMax: true}, nil
}

// Match implements Constraint.
func (c RangeConstraint) Match(key string, values Values, _ Direction) bool {
	n, ok := parseLong(values, key)
	if !ok {
		return false
	}
	if c.HasMin && n < c.Min {
		return false
	}
	return !c.HasMax || n <= c.Max
}

// String implements fmt.Stringer.
func (c RangeConstraint) String() string {
	switch {
	case c.HasMin && c.HasMax:
		return fmt.Sprintf("range(%d,%d)", c.Min, c.Max)
	case c.HasMin:
		return fmt.Sprintf("min(%d)", c.Min)
	default:
		return fmt.Sprintf("max(%d)", c.Max)
	}
}

// RegexConstraint matches values against a case-insensitive regular
// expression. The expression is not anchored; write ^ and $ to match the
// whole value.
type RegexConstraint struct {
	expr *regexp.Regexp
	raw  string
}

// NewRegex compiles pattern into a RegexConstraint.
func NewRegex(pattern string) (*RegexConstraint, error) {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	return &RegexConstraint{expr: re, raw: pattern}, nil
}

// Match implements Constraint.
func (c *RegexConstraint) Match(key string, values Values, _ Direction) bool {
	v, ok := values.lookup(key)
	return ok && c.expr.MatchString(v)
}

// Pattern implements Patterner.
func (c *RegexConstraint) Pattern() string { return c.raw }

// String implements fmt.Stringer.
func (c *RegexConstraint) String() string { return "regex(" + c.raw + ")" }

// AlphaConstraint matches values made only of ASCII letters.
type AlphaConstraint struct{}

// Match implements Constraint.
func (AlphaConstraint) Match(key string, values Values, _ Direction) bool {
	v, ok := values.lookup(key)
	return ok && alphaRegex.MatchString(v)
}

// Pattern implements Patterner.
func (AlphaConstraint) Pattern() string { return patternAlpha }

// String implements fmt.Stringer.
func (AlphaConstraint) String() string { return "alpha" }

// RequiredConstraint matches any present, non-empty value.
type RequiredConstraint struct{}

// Match implements Constraint.
func (RequiredConstraint) Match(key string, values Values, _ Direction) bool {
	v, ok := values.lookup(key)
	return ok && v != ""
}

// String implements fmt.Stringer.
func (RequiredConstraint) String() string { return "required" }

// FileConstraint matches values whose last path segment has a file extension.
type FileConstraint struct{}

// Match implements Constraint.
func (FileConstraint) Match(key string, values Values, _ Direction) bool {
	v, ok := values.lookup(key)
	return ok && IsFileName(v)
}

// String implements fmt.Stringer.
func (FileConstraint) String() string { return "file" }

// NonFileConstraint matches values that are not file names. A missing value
// matches.
type NonFileConstraint struct{}

// Match implements Constraint.
func (NonFileConstraint) Match(key string, values Values, _ Direction) bool {
	v, ok := values.lookup(key)
	return !ok || !IsFileName(v)
}

// String implements fmt.Stringer.
func (NonFileConstraint) String() string { return "nonfile" }

// IsFileName reports whether the last '/'-separated segment of value contains
// a '.' followed by at least one character other than '.'.
func IsFileName(value string) bool {
	if value == "" {
		return false
	}
	if i := strings.LastIndexByte(value, '/'); i >= 0 {
		value = value[i+1:]
	}
	dot := strings.IndexByte(value, '.')
	if dot < 0 {
		return false
	}
	return strings.Trim(value[dot+1:], ".") != ""
}

// EnumConstraint matches one of a fixed set of values, case-sensitively.
type EnumConstraint struct {
	values []string
}

// NewEnum parses a comma-separated list of allowed values.
func NewEnum(list string) (*EnumConstraint, error) {
	var vals []string
	for v := range strings.SplitSeq(list, ",") {
		if v = strings.TrimSpace(v); v != "" {
			vals = append(vals, v)
		}
	}
	if len(vals) == 0 {
		return nil, errors.New("enum needs at least one value")
	}
	return &EnumConstraint{values: vals}, nil
}

// Values returns a copy of the allowed values.
func (c *EnumConstraint) Values() []string {
	return append([]string(nil), c.values...)
}

// Match implements Constraint.
func (c *EnumConstraint) Match(key string, values Values, _ Direction) bool {
	v, ok := values.lookup(key)
	if !ok {
		return false
	}
	for _, allowed := range c.values {
		if v == allowed {
			return true
		}
	}
	return false
}

// Pattern implements Patterner.
func (c *EnumConstraint) Pattern() string {
	escaped := make([]string, 0, len(c.values))
	for _, v := range c.values {
		escaped = append(escaped, regexp.QuoteMeta(v))
	}
	return "(" + strings.Join(escaped, "|") + ")"
}

// String implements fmt.Stringer.
func (c *EnumConstraint) String() string {
	return "enum(" + strings.Join(c.values, ",") + ")"
}

// parseLong reads the value for key as a base-10 int64.
func parseLong(values Values, key string) (int64, bool) {
	v, ok := values.lookup(key)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	return n, err == nil
}
