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
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// recordingConstraint remembers the arguments it was built with.
type recordingConstraint struct {
	args Args
}

func (recordingConstraint) Match(string, Values, Direction) bool { return true }

// notAConstraint is a registered type without Match.
type notAConstraint struct{}

// tenantStore is a service consumed by tenantConstraint.
type tenantStore struct {
	tenants map[string]bool
}

type tenantConstraint struct {
	field string
	store *tenantStore
}

func (c tenantConstraint) Match(key string, values Values, _ Direction) bool {
	v, ok := values.lookup(key)
	return ok && c.store.tenants[v]
}

func record(a Args) (any, error) {
	return recordingConstraint{args: append(Args(nil), a...)}, nil
}

// ResolverTestSuite covers constraint resolution end to end.
type ResolverTestSuite struct {
	suite.Suite
	m        *Map
	resolver *Resolver
	store    *tenantStore
}

func (s *ResolverTestSuite) SetupTest() {
	s.m = DefaultMap()
	s.store = &tenantStore{tenants: map[string]bool{"acme": true}}

	s.m.MustRegister("echo", Registration{
		Name:         "EchoConstraint",
		Constructors: []Constructor{Ctor(record, Literal("text", KindString))},
	})
	s.m.MustRegister("pair", Registration{
		Name:         "PairConstraint",
		Constructors: []Constructor{Ctor(record, Literal("a", KindString), Literal("b", KindString))},
	})
	s.m.MustRegister("none", Simple("NoArgConstraint", func() any { return recordingConstraint{} }))
	s.m.MustRegister("shape", Simple("Shape", func() any { return notAConstraint{} }))
	s.m.MustRegister("tenant", Registration{
		Name: "TenantConstraint",
		Constructors: []Constructor{
			Ctor(func(a Args) (any, error) {
				return tenantConstraint{field: a.String(0)}, nil
			}, Literal("field", KindString)),
			Ctor(func(a Args) (any, error) {
				return tenantConstraint{field: a.String(0), store: a.Service(1).(*tenantStore)}, nil
			}, Literal("field", KindString), ServiceParam("store", "tenants")),
		},
	})
	s.m.MustRegister("twins", Registration{
		Name: "TwinConstraint",
		Constructors: []Constructor{
			Ctor(record, Literal("a", KindInt)),
			Ctor(record, Literal("a", KindString)),
		},
	})
	s.m.MustRegister("typed", Registration{
		Name: "TypedConstraint",
		Constructors: []Constructor{
			Ctor(record, Literal("n", KindInt), Literal("f", KindFloat64), Literal("b", KindBool), Literal("d", KindDuration)),
		},
	})

	s.resolver = TestingResolverWithMap(s.T(), s.m, WithServices(Services{"tenants": s.store}))
}

func (s *ResolverTestSuite) TestKeyWithAndWithoutParentheses() {
	for _, expr := range []string{"none", "none()", "int", "int()", "echo", "echo()"} {
		res, err := s.resolver.Resolve(expr)
		s.Require().NoError(err, expr)
		s.Equal(Resolved, res.Outcome, expr)
		s.NotNil(res.Policy, expr)
	}
}

func (s *ResolverTestSuite) TestUnregisteredKeyIsNotFound() {
	res, err := s.resolver.Resolve("unregisteredName")
	s.Require().NoError(err)
	s.Equal(NotFound, res.Outcome)
	s.False(res.Found())
	s.Nil(res.Policy)
	s.Equal("unregisteredName", res.Key)
}

func (s *ResolverTestSuite) TestSingleLiteralKeepsCommas() {
	res, err := s.resolver.Resolve("echo(a,b,c)")
	s.Require().NoError(err)
	s.Require().Equal(Resolved, res.Outcome)

	s.Equal([]string{"a,b,c"}, res.Arguments)
	rc := res.Policy.(recordingConstraint)
	s.Equal("a,b,c", rc.args.String(0))
}

func (s *ResolverTestSuite) TestSingleLiteralIsNotTrimmed() {
	res, err := s.resolver.Resolve("echo( x , y )")
	s.Require().NoError(err)
	s.Equal([]string{" x , y "}, res.Arguments)
}

func (s *ResolverTestSuite) TestTwoLiteralsAreSplit() {
	res, err := s.resolver.Resolve("pair(a,b)")
	s.Require().NoError(err)
	s.Require().Equal(Resolved, res.Outcome)

	s.Equal([]string{"a", "b"}, res.Arguments)
	rc := res.Policy.(recordingConstraint)
	s.Equal("a", rc.args.String(0))
	s.Equal("b", rc.args.String(1))
}

func (s *ResolverTestSuite) TestSplitArgumentsAreTrimmed() {
	res, err := s.resolver.Resolve("pair( a , b )")
	s.Require().NoError(err)
	s.Equal([]string{"a", "b"}, res.Arguments)
}

func (s *ResolverTestSuite) TestEmptyExpressionIsInvalid() {
	for _, expr := range []string{"", "   ", "(1,2)"} {
		_, err := s.resolver.Resolve(expr)
		s.ErrorIs(err, ErrInvalidExpression, "%q", expr)
	}
}

func (s *ResolverTestSuite) TestKeyLookupIgnoresCase() {
	lower, err := s.resolver.Resolve("range(1,10)")
	s.Require().NoError(err)
	upper, err := s.resolver.Resolve("RANGE(1,10)")
	s.Require().NoError(err)
	mixed, err := s.resolver.Resolve("Range(1,10)")
	s.Require().NoError(err)

	s.Equal(lower.Policy, upper.Policy)
	s.Equal(lower.Policy, mixed.Policy)
	s.Equal("RANGE", upper.Key)
}

func (s *ResolverTestSuite) TestWrongCapability() {
	res, err := s.resolver.Resolve("shape")
	s.Require().NoError(err)
	s.Equal(WrongCapability, res.Outcome)
	s.True(res.Found())
	s.False(res.OK())
	s.Nil(res.Policy)
	s.Equal(notAConstraint{}, res.Instance)

	res, err = s.resolver.Resolve("slugify")
	s.Require().NoError(err)
	s.Equal(WrongCapability, res.Outcome)
}

func (s *ResolverTestSuite) TestServiceConstructorWins() {
	res, err := s.resolver.Resolve("tenant(id)")
	s.Require().NoError(err)
	s.Require().Equal(Resolved, res.Outcome)

	tc := res.Policy.(tenantConstraint)
	s.Same(s.store, tc.store)
	s.True(tc.Match("t", Values{"t": "acme"}, IncomingRequest))
	s.False(tc.Match("t", Values{"t": "other"}, IncomingRequest))
}

func (s *ResolverTestSuite) TestMissingServiceFails() {
	r := TestingResolverWithMap(s.T(), s.m)

	_, err := r.Resolve("tenant(id)")
	s.Require().Error(err)
	s.ErrorIs(err, ErrServiceUnavailable)

	var ae *ActivationError
	s.Require().ErrorAs(err, &ae)
	s.Equal("service", ae.Op)
	s.Equal("store", ae.Param)
	s.Equal("TenantConstraint", ae.Type)
}

func (s *ResolverTestSuite) TestAmbiguousConstructors() {
	_, err := s.resolver.Resolve("twins(1)")
	s.ErrorIs(err, ErrAmbiguousConstructor)
}

func (s *ResolverTestSuite) TestNoMatchingConstructor() {
	_, err := s.resolver.Resolve("range(1)")
	s.ErrorIs(err, ErrNoMatchingConstructor)

	_, err = s.resolver.Resolve("int(5)")
	s.ErrorIs(err, ErrNoMatchingConstructor)

	_, err = s.resolver.Resolve("pair(a,b,c)")
	s.ErrorIs(err, ErrNoMatchingConstructor)
}

func (s *ResolverTestSuite) TestLiteralConversionFailure() {
	_, err := s.resolver.Resolve("range(one,10)")
	s.Require().ErrorIs(err, ErrArgumentConversion)

	var ae *ActivationError
	s.Require().ErrorAs(err, &ae)
	s.Equal("convert", ae.Op)
	s.Equal("min", ae.Param)
}

func (s *ResolverTestSuite) TestTypedLiterals() {
	res, err := s.resolver.Resolve("typed(010, 2.5, true, 1m30s)")
	s.Require().NoError(err)

	rc := res.Policy.(recordingConstraint)
	s.Equal(10, rc.args.Int(0))
	s.InDelta(2.5, rc.args.Float64(1), 1e-9)
	s.True(rc.args.Bool(2))
	s.Equal("1m30s", rc.args.Duration(3).String())
}

func (s *ResolverTestSuite) TestFactoryErrorIsActivationError() {
	_, err := s.resolver.Resolve("range(10,1)")
	s.ErrorIs(err, ErrFactoryFailed)

	_, err = s.resolver.Resolve("regex([)")
	s.ErrorIs(err, ErrFactoryFailed)
}

func (s *ResolverTestSuite) TestFactoryPanicIsRecovered() {
	m := NewMap()
	m.MustRegister("boom", Registration{
		Constructors: []Constructor{Ctor(func(Args) (any, error) { panic("kaboom") })},
	})
	r := TestingResolverWithMap(s.T(), m)

	_, err := r.Resolve("boom")
	s.ErrorIs(err, ErrFactoryFailed)
	s.Contains(err.Error(), "kaboom")
}

func (s *ResolverTestSuite) TestAliasResolvesTarget() {
	s.Require().NoError(s.m.RegisterAlias("zip", `regex(^\d{5}$)`))

	res, err := s.resolver.Resolve("ZIP")
	s.Require().NoError(err)
	s.Require().Equal(Resolved, res.Outcome)
	s.Equal("RegexConstraint", res.Type)
	s.True(res.Policy.Match("z", Values{"z": "12345"}, IncomingRequest))
	s.False(res.Policy.Match("z", Values{"z": "1234"}, IncomingRequest))

	_, err = s.resolver.Resolve("zip(1)")
	s.ErrorIs(err, ErrNoMatchingConstructor)
}

func (s *ResolverTestSuite) TestConstraintFoldsOutcomes() {
	c, err := s.resolver.Constraint("min(3)")
	s.Require().NoError(err)
	s.True(c.Match("n", Values{"n": "3"}, IncomingRequest))

	_, err = s.resolver.Constraint("nope")
	s.ErrorIs(err, ErrNotFound)

	_, err = s.resolver.Constraint("lower")
	s.ErrorIs(err, ErrWrongCapability)
}

func (s *ResolverTestSuite) TestResolveTransformer() {
	res, err := s.resolver.ResolveTransformer("slugify")
	s.Require().NoError(err)
	s.Require().Equal(Resolved, res.Outcome)
	s.Equal("hello-world", res.Policy.TransformOutbound("Hello, World!"))

	res, err = s.resolver.ResolveTransformer("int")
	s.Require().NoError(err)
	s.Equal(WrongCapability, res.Outcome)
}

func TestResolverTestSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(ResolverTestSuite))
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	_, err := New(nil)
	require.ErrorIs(t, err, ErrNilMap)

	_, err = New(NewMap(), WithLogger(nil))
	require.ErrorIs(t, err, ErrNilLogger)

	r, err := New(NewMap(), WithLogger(slog.Default()))
	require.NoError(t, err)
	assert.NotNil(t, r.Map())
}

func TestMustNew_Panics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { MustNew(nil) })
}

func TestResolvePolicy_WithoutResolver(t *testing.T) {
	t.Parallel()

	res, err := ResolvePolicy[Constraint](DefaultMap(), nil, "length(2,4)")
	require.NoError(t, err)
	require.True(t, res.OK())
	assert.Equal(t, "LengthConstraint", res.Type)
	assert.True(t, res.Policy.Match("s", Values{"s": "abc"}, IncomingRequest))

	_, err = ResolvePolicy[Constraint](DefaultMap(), nil, "")
	assert.True(t, errors.Is(err, ErrInvalidExpression))
}

func TestResolve_DiagnosticsEmitted(t *testing.T) {
	t.Parallel()

	var kinds []DiagnosticKind
	handler := DiagnosticHandlerFunc(func(e DiagnosticEvent) {
		kinds = append(kinds, e.Kind)
	})

	m := DefaultMap()
	require.NoError(t, m.RegisterAlias("page", "range(1,1000)"))
	r := TestingResolverWithMap(t, m, WithDiagnostics(handler))

	_, _ = r.Resolve("missing")
	_, _ = r.Resolve("slugify")
	_, _ = r.Resolve("range(a,b)")
	_, _ = r.Resolve("page")
	_, _ = r.Resolve("int")

	assert.Equal(t, []DiagnosticKind{
		DiagNotFound,
		DiagWrongCapability,
		DiagActivationFailed,
		DiagAliasExpanded,
	}, kinds)
}
