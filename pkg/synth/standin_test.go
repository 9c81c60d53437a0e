package synth

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/synth/pkg/descriptor"
)

type clock interface {
	Now() time.Time
	Zone() string
	Tick()
	String() string
	Hash() uint64
}

type clockStandIn struct{ inv *Invoker }

func (c clockStandIn) Now() time.Time    { return Return[time.Time](c.inv, "Now") }
func (c clockStandIn) Zone() string      { return Return[string](c.inv, "Zone") }
func (c clockStandIn) Tick()             { _, _ = c.inv.Call("Tick") }
func (c clockStandIn) String() string    { return Return[string](c.inv, "String") }
func (c clockStandIn) Hash() uint64      { return Return[uint64](c.inv, "Hash") }
func (c clockStandIn) Invoker() *Invoker { return c.inv }

func newClock(inv *Invoker) clock { return clockStandIn{inv: inv} }

func TestStandIn_GeneratesReturnValues(t *testing.T) {
	g := MustNew(WithStandIn(newClock))

	c := MustMake[clock](g)
	require.NotNil(t, c)
	assert.False(t, c.Now().IsZero())
	assert.NotEmpty(t, c.Zone())
	assert.NotPanics(t, c.Tick)
}

func TestStandIn_Identity(t *testing.T) {
	g := MustNew(WithStandIn(newClock))

	a := MustMake[clock](g)
	b := MustMake[clock](g)

	inv := a.(clockStandIn).inv
	assert.Equal(t, fmt.Sprintf("standin(synth.clock)#%s", inv.ID()), a.String())
	assert.True(t, strings.HasPrefix(a.String(), "standin(synth.clock)#"))
	assert.Equal(t, a.String(), a.String(), "identity methods are stable")
	assert.Equal(t, a.Hash(), a.Hash())
	assert.NotEqual(t, a.String(), b.String())

	assert.True(t, inv.Equal(a))
	assert.True(t, inv.Equal(inv))
	assert.False(t, inv.Equal(b))
	assert.False(t, inv.Equal("standin"))
	assert.Equal(t, descriptor.For[clock](), inv.Interface())
}

func TestStandIn_UnknownMethod(t *testing.T) {
	g := MustNew(WithStandIn(newClock))
	inv := MustMake[clock](g).(clockStandIn).inv

	_, err := inv.Call("Missing")
	assert.Error(t, err)
	assert.Panics(t, func() { Return[string](inv, "Missing") })
}

func TestStandIn_StructMember(t *testing.T) {
	type scheduler struct {
		Clock clock
		Name  string
	}
	g := MustNew(WithStandIn(newClock))

	s := MustMake[scheduler](g)
	require.NotNil(t, s.Clock)
	assert.NotEmpty(t, s.Clock.Zone())
}

func TestStandIn_ResolverTakesPrecedence(t *testing.T) {
	g := MustNew(
		WithStandIn(func(inv *Invoker) shape { return nil }),
		WithResolver(Implement[shape, *circle]()),
	)

	assert.IsType(t, &circle{}, MustMake[shape](g))
}

func TestStandIn_BadAdapter(t *testing.T) {
	g := MustNew(WithStandIn(func(inv *Invoker) shape { return nil }))

	_, err := Make[shape](g)
	var unresolvable *UnresolvableTypeError
	assert.True(t, errors.As(err, &unresolvable), "got %v", err)
}

func TestStandIn_ErrorInterface(t *testing.T) {
	g := MustNew()

	err := MustMake[error](g)
	require.NotNil(t, err)
	assert.NotEmpty(t, err.Error())

	type result struct {
		Err error
	}
	r := MustMake[result](g)
	require.NotNil(t, r.Err)
}

func TestStandIn_RequiresInterface(t *testing.T) {
	_, err := New(WithStandIn(func(*Invoker) point { return point{} }))

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr), "got %v", err)
	assert.Equal(t, "stand-in", cfgErr.Component)
}

type token interface {
	Equal(other any) bool
}

type tokenStandIn struct{ inv *Invoker }

func (t tokenStandIn) Equal(other any) bool { return t.inv.Equal(other) }
func (t tokenStandIn) Invoker() *Invoker    { return t.inv }

func TestStandIn_EqualIsNeverGenerated(t *testing.T) {
	g := MustNew(WithStandIn(func(inv *Invoker) token { return tokenStandIn{inv: inv} }))

	a := MustMake[token](g)
	b := MustMake[token](g)
	assert.True(t, a.Equal(a))
	assert.False(t, a.Equal(b))

	_, err := a.(tokenStandIn).inv.Call("Equal")
	assert.ErrorContains(t, err, "use Invoker.Equal")
}
