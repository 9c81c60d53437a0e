package synth

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/synth/pkg/descriptor"
)

type shape interface {
	Area() float64
}

type circle struct{ R float64 }

func (c *circle) Area() float64 { return 3 * c.R * c.R }

type square struct{ S float64 }

func (s *square) Area() float64 { return s.S * s.S }

type drawing struct {
	Main   shape
	Extras []shape
}

func TestResolver_FirstAnswerWins(t *testing.T) {
	g := MustNew(WithResolver(
		ResolverFunc(func(descriptor.Type) (descriptor.Type, bool) { return descriptor.Type{}, false }),
		Implement[shape, *circle](),
		Implement[shape, *square](),
	))

	s, err := Make[shape](g)
	require.NoError(t, err)
	_, ok := s.(*circle)
	assert.True(t, ok, "got %T", s)
}

func TestResolver_NestedInterfaces(t *testing.T) {
	g := MustNew(
		WithArraySize(2, 2),
		WithResolver(Implementation(descriptor.For[shape](), descriptor.For[*square]())),
	)

	d := MustMake[drawing](g)
	require.IsType(t, &square{}, d.Main)
	require.Len(t, d.Extras, 2)
	for _, e := range d.Extras {
		assert.IsType(t, &square{}, e)
	}
}

func TestResolver_RejectsInterfaceResult(t *testing.T) {
	g := MustNew(WithResolver(
		Implementation(descriptor.For[shape](), descriptor.For[interface{ Area() float64 }]()),
	))

	_, err := Make[shape](g)
	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr), "got %v", err)
	assert.Equal(t, "resolver", cfgErr.Component)
	assert.Contains(t, cfgErr.Key, "#0")
	assert.Contains(t, err.Error(), "itself an interface")
}

func TestResolver_RejectsNonImplementation(t *testing.T) {
	g := MustNew(WithResolver(
		ResolverFunc(func(descriptor.Type) (descriptor.Type, bool) { return descriptor.Type{}, false }),
		Implement[shape, circle](), // methods are on *circle
	))

	_, err := Make[shape](g)
	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr), "got %v", err)
	assert.Contains(t, cfgErr.Key, "#1")
	assert.Contains(t, cfgErr.Key, "Implementation(synth.shape, synth.circle)")
	assert.Contains(t, err.Error(), "does not implement")
}

type ring struct {
	Inner shape
}

func (r *ring) Area() float64 { return 0 }

func TestResolver_ResolvedTypeJoinsThePath(t *testing.T) {
	var seen string
	g := MustNew(
		WithResolver(Implement[shape, *ring]()),
		WithTerminators(TerminatorFunc{Accept: func(n *Node) bool { seen = n.String(); return true }}),
	)

	s := MustMake[shape](g)
	r, ok := s.(*ring)
	require.True(t, ok, "got %T", s)
	assert.Nil(t, r.Inner)
	assert.Equal(t, "synth.shape -> *synth.ring -> synth.ring", seen)
}
