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

import "fmt"

// DefaultMap returns a new map holding the built-in constraints and
// transformers. The returned map is not frozen.
func DefaultMap() *Map {
	m := NewMap()
	if err := RegisterDefaults(m); err != nil {
		panic(fmt.Sprintf("constraint.DefaultMap: %v", err))
	}
	return m
}

// RegisterDefaults adds the built-in registrations to m.
//
//	int, long, bool, datetime, date, decimal, double, float, guid, uuid,
//	alpha, required, file, nonfile,
//	minlength(n), maxlength(n), length(n), length(min,max),
//	min(n), max(n), range(min,max), regex(pattern), enum(a,b,...),
//	slugify, lower (transformers)
func RegisterDefaults(m *Map) error {
	for _, d := range defaultRegistrations() {
		if err := m.Register(d.key, d.reg); err != nil {
			return err
		}
	}
	return nil
}

type defaultRegistration struct {
	key string
	reg Registration
}

// defaultRegistrations lists the built-ins in registration order.
func defaultRegistrations() []defaultRegistration {
	simple := func(key, name, desc string, c any) defaultRegistration {
		reg := Simple(name, func() any { return c })
		reg.Description = desc
		return defaultRegistration{key: key, reg: reg}
	}

	return []defaultRegistration{
		simple("int", "IntConstraint", "32-bit integer", IntConstraint{}),
		simple("long", "LongConstraint", "64-bit integer", LongConstraint{}),
		simple("bool", "BoolConstraint", "true or false", BoolConstraint{}),
		simple("datetime", "DateTimeConstraint", "date and time", DateTimeConstraint{}),
		simple("date", "DateConstraint", "RFC3339 full-date", DateConstraint{}),
		simple("decimal", "DecimalConstraint", "fixed-point number", DecimalConstraint{}),
		simple("double", "FloatConstraint", "64-bit floating-point number", FloatConstraint{Bits: 64}),
		simple("float", "FloatConstraint", "32-bit floating-point number", FloatConstraint{Bits: 32}),
		simple("guid", "GUIDConstraint", "GUID in any common form", GUIDConstraint{}),
		simple("uuid", "UUIDConstraint", "hyphenated RFC 4122 UUID", UUIDConstraint{}),
		simple("alpha", "AlphaConstraint", "ASCII letters only", AlphaConstraint{}),
		simple("required", "RequiredConstraint", "non-empty value", RequiredConstraint{}),
		simple("file", "FileConstraint", "file name with extension", FileConstraint{}),
		simple("nonfile", "NonFileConstraint", "anything but a file name", NonFileConstraint{}),
		{key: "minlength", reg: Registration{
			Name:        "LengthConstraint",
			Description: "at least n characters",
			Constructors: []Constructor{
				Ctor(func(a Args) (any, error) { return NewMinLength(a.Int(0)) }, Literal("minLength", KindInt)),
			},
		}},
		{key: "maxlength", reg: Registration{
			Name:        "LengthConstraint",
			Description: "at most n characters",
			Constructors: []Constructor{
				Ctor(func(a Args) (any, error) { return NewMaxLength(a.Int(0)) }, Literal("maxLength", KindInt)),
			},
		}},
		{key: "length", reg: Registration{
			Name:        "LengthConstraint",
			Description: "exactly n, or between min and max, characters",
			Constructors: []Constructor{
				Ctor(func(a Args) (any, error) { return NewLength(a.Int(0), a.Int(0)) }, Literal("length", KindInt)),
				Ctor(func(a Args) (any, error) { return NewLength(a.Int(0), a.Int(1)) },
					Literal("minLength", KindInt), Literal("maxLength", KindInt)),
			},
		}},
		{key: "min", reg: Registration{
			Name:        "RangeConstraint",
			Description: "integer of at least n",
			Constructors: []Constructor{
				Ctor(func(a Args) (any, error) {
					return RangeConstraint{Min: a.Int64(0), HasMin: true}, nil
				}, Literal("min", KindInt64)),
			},
		}},
		{key: "max", reg: Registration{
			Name:        "RangeConstraint",
			Description: "integer of at most n",
			Constructors: []Constructor{
				Ctor(func(a Args) (any, error) {
					return RangeConstraint{Max: a.Int64(0), HasMax: true}, nil
				}, Literal("max", KindInt64)),
			},
		}},
		{key: "range", reg: Registration{
			Name:        "RangeConstraint",
			Description: "integer between min and max",
			Constructors: []Constructor{
				Ctor(func(a Args) (any, error) { return NewRange(a.Int64(0), a.Int64(1)) },
					Literal("min", KindInt64), Literal("max", KindInt64)),
			},
		}},
		{key: "regex", reg: Registration{
			Name:        "RegexConstraint",
			Description: "case-insensitive regular expression",
			Constructors: []Constructor{
				Ctor(func(a Args) (any, error) { return NewRegex(a.String(0)) }, Literal("pattern", KindString)),
			},
		}},
		{key: "enum", reg: Registration{
			Name:        "EnumConstraint",
			Description: "one of a comma-separated list",
			Constructors: []Constructor{
				Ctor(func(a Args) (any, error) { return NewEnum(a.String(0)) }, Literal("values", KindString)),
			},
		}},
		simple("slugify", "SlugifyTransformer", "outbound slug transformer", SlugifyTransformer{}),
		simple("lower", "LowerTransformer", "outbound lower-case transformer", LowerTransformer{}),
	}
}
