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
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// maxAliasDepth bounds alias expansion.
const maxAliasDepth = 8

// activation is a successfully built instance and how it was built.
type activation struct {
	key       string
	reg       Registration
	instance  any
	arguments []string
}

// ResolvePolicy resolves expression against m and returns the built policy
// as T.
//
// An unknown key yields Outcome NotFound and an instance that is not a T
// yields Outcome WrongCapability; neither is an error. Errors are returned
// for an empty expression (ErrInvalidExpression) and for activation failures
// (*ActivationError).
//
// services may be nil when no registration declares service parameters.
func ResolvePolicy[T any](m *Map, services ServiceProvider, expression string) (Resolution[T], error) {
	var res Resolution[T]

	expr, err := ParseExpression(expression)
	if err != nil {
		return res, err
	}
	res.Key = expr.Key

	act, found, err := activate(m, services, expr, 0)
	if err != nil {
		return res, err
	}
	if !found {
		res.Outcome = NotFound
		return res, nil
	}

	res.Type = act.reg.Name
	res.Instance = act.instance
	res.Arguments = act.arguments

	policy, ok := act.instance.(T)
	if !ok {
		res.Outcome = WrongCapability
		return res, nil
	}
	res.Outcome = Resolved
	res.Policy = policy
	return res, nil
}

// activate looks the key up and builds an instance. found is false when the
// key is not registered.
func activate(m *Map, services ServiceProvider, expr Expression, depth int) (activation, bool, error) {
	reg, ok := m.Lookup(expr.Key)
	if !ok {
		return activation{}, false, nil
	}

	if reg.Alias != "" {
		return activateAlias(m, services, expr, reg, depth)
	}

	var args []string
	if reg.takesWholeArgument() {
		args = []string{expr.Arguments}
	} else {
		args = expr.SplitArguments()
	}

	ctor, err := selectConstructor(reg, len(args))
	if err != nil {
		return activation{}, true, &ActivationError{Key: expr.Key, Type: reg.Name, Op: "select", Err: err}
	}

	values, err := buildArgs(expr.Key, reg, ctor, args, services)
	if err != nil {
		return activation{}, true, err
	}

	instance, err := construct(ctor, values)
	if err != nil {
		return activation{}, true, &ActivationError{Key: expr.Key, Type: reg.Name, Op: "construct", Err: err}
	}

	return activation{key: expr.Key, reg: reg, instance: instance, arguments: args}, true, nil
}

// activateAlias expands an alias registration into its target expression.
func activateAlias(m *Map, services ServiceProvider, expr Expression, reg Registration, depth int) (activation, bool, error) {
	if len(expr.SplitArguments()) > 0 {
		return activation{}, true, &ActivationError{
			Key: expr.Key, Type: reg.Name, Op: "select",
			Err: fmt.Errorf("%w: alias takes no arguments", ErrNoMatchingConstructor),
		}
	}
	if depth >= maxAliasDepth {
		return activation{}, true, &ActivationError{Key: expr.Key, Type: reg.Name, Op: "alias", Err: ErrAliasDepth}
	}

	target, err := ParseExpression(reg.Alias)
	if err != nil {
		return activation{}, true, &ActivationError{Key: expr.Key, Type: reg.Name, Op: "alias", Err: err}
	}

	act, found, err := activate(m, services, target, depth+1)
	if err != nil {
		return activation{}, true, err
	}
	if !found {
		return activation{}, true, &ActivationError{
			Key: expr.Key, Type: reg.Name, Op: "alias",
			Err: fmt.Errorf("%w: target %q", ErrNotFound, target.Key),
		}
	}
	return act, true, nil
}

// selectConstructor picks the constructor whose literal parameter count equals
// argc. Among several, the one with the most parameters (the most services)
// wins; a tie is ambiguous.
func selectConstructor(reg Registration, argc int) (Constructor, error) {
	var candidates []Constructor
	for _, c := range reg.Constructors {
		if c.literalCount() == argc {
			candidates = append(candidates, c)
		}
	}

	if len(candidates) == 0 {
		return Constructor{}, fmt.Errorf("%w: %s has no constructor taking %d argument(s)",
			ErrNoMatchingConstructor, reg.Name, argc)
	}

	slices.SortStableFunc(candidates, func(a, b Constructor) int {
		return len(b.Params) - len(a.Params)
	})

	if len(candidates) > 1 && len(candidates[0].Params) == len(candidates[1].Params) {
		return Constructor{}, fmt.Errorf("%w: %s has several constructors with %d parameter(s)",
			ErrAmbiguousConstructor, reg.Name, len(candidates[0].Params))
	}

	return candidates[0], nil
}

// buildArgs fills the constructor parameters from literals and services.
func buildArgs(key string, reg Registration, ctor Constructor, literals []string, services ServiceProvider) (Args, error) {
	values := make(Args, len(ctor.Params))
	next := 0

	for i, p := range ctor.Params {
		if p.Kind == KindService {
			if services == nil {
				return nil, &ActivationError{Key: key, Type: reg.Name, Param: p.Name, Op: "service",
					Err: fmt.Errorf("%w: %q (no service provider)", ErrServiceUnavailable, p.Service)}
			}
			svc, ok := services.Service(p.Service)
			if !ok {
				return nil, &ActivationError{Key: key, Type: reg.Name, Param: p.Name, Op: "service",
					Err: fmt.Errorf("%w: %q", ErrServiceUnavailable, p.Service)}
			}
			values[i] = svc
			continue
		}

		v, err := convertLiteral(literals[next], p.Kind)
		if err != nil {
			return nil, &ActivationError{Key: key, Type: reg.Name, Param: p.Name, Op: "convert", Err: err}
		}
		values[i] = v
		next++
	}

	return values, nil
}

// convertLiteral converts a literal argument to the declared kind.
//
// Integers are parsed as base 10 so "010" is ten, not an octal literal;
// everything else goes through cast.
func convertLiteral(s string, kind ParamKind) (any, error) {
	var (
		v   any
		err error
	)

	switch kind {
	case KindString:
		return s, nil
	case KindInt:
		var n int64
		n, err = strconv.ParseInt(strings.TrimSpace(s), 10, strconv.IntSize)
		v = int(n)
	case KindInt64:
		v, err = strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	case KindFloat64:
		v, err = cast.ToFloat64E(strings.TrimSpace(s))
	case KindBool:
		v, err = cast.ToBoolE(strings.TrimSpace(s))
	case KindDuration:
		v, err = cast.ToDurationE(strings.TrimSpace(s))
	case KindTime:
		v, err = cast.ToTimeE(strings.TrimSpace(s))
	default:
		return nil, fmt.Errorf("%w: unsupported kind %s", ErrArgumentConversion, kind)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %q to %s: %w", ErrArgumentConversion, s, kind, err)
	}
	return v, nil
}

// construct invokes the factory, turning errors and panics into ErrFactoryFailed.
func construct(ctor Constructor, args Args) (instance any, err error) {
	defer func() {
		if r := recover(); r != nil {
			instance = nil
			err = fmt.Errorf("%w: panic: %v", ErrFactoryFailed, r)
		}
	}()

	instance, err = ctor.New(args)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFactoryFailed, err)
	}
	if instance == nil {
		return nil, fmt.Errorf("%w: factory returned nil", ErrFactoryFailed)
	}
	return instance, nil
}
