package synth

import (
	"fmt"
	"reflect"

	synerr "github.com/toyz/synth/internal/errors"
	"github.com/toyz/synth/pkg/descriptor"
)

// Resolver maps an interface descriptor to a concrete implementation
type Resolver interface {
	Resolve(t descriptor.Type) (descriptor.Type, bool)
}

// ResolverFunc adapts a function to the Resolver interface
type ResolverFunc func(t descriptor.Type) (descriptor.Type, bool)

func (f ResolverFunc) Resolve(t descriptor.Type) (descriptor.Type, bool) { return f(t) }

// Implementation resolves iface to concrete and declines everything else
func Implementation(iface, concrete descriptor.Type) Resolver {
	return &fixedResolver{iface: iface, concrete: concrete}
}

// Implement is the generic form of Implementation. C is usually a pointer type
// when the methods of I are declared on *C.
func Implement[I, C any]() Resolver {
	return Implementation(descriptor.For[I](), descriptor.For[C]())
}

type fixedResolver struct {
	iface, concrete descriptor.Type
}

func (r *fixedResolver) Resolve(t descriptor.Type) (descriptor.Type, bool) {
	if t == r.iface {
		return r.concrete, true
	}
	return descriptor.Type{}, false
}

func (r *fixedResolver) String() string {
	return fmt.Sprintf("Implementation(%s, %s)", r.iface, r.concrete)
}

// resolverChain consults resolvers in registration order; the first one that
// answers wins
type resolverChain []Resolver

func (c resolverChain) resolve(t descriptor.Type) (descriptor.Type, bool, error) {
	for i, r := range c {
		concrete, ok := r.Resolve(t)
		if !ok {
			continue
		}
		if err := checkResolution(t, concrete); err != nil {
			return descriptor.Type{}, false, synerr.ResolverError(i, resolverName(r), t.String(), concrete.String(), err.Error())
		}
		return concrete, true, nil
	}
	return descriptor.Type{}, false, nil
}

func checkResolution(iface, concrete descriptor.Type) error {
	switch {
	case concrete.IsZero() || concrete.IsUnbound():
		return fmt.Errorf("result is not a concrete type")
	case concrete.IsInterface():
		return fmt.Errorf("result is itself an interface")
	case !concrete.Reflect().Implements(iface.Reflect()):
		return fmt.Errorf("result does not implement the interface")
	}
	return nil
}

func resolverName(r Resolver) string {
	if s, ok := r.(fmt.Stringer); ok {
		return s.String()
	}
	return reflect.TypeOf(r).String()
}
