package synth

import (
	"fmt"
	"reflect"

	"github.com/toyz/synth/pkg/descriptor"
)

// Provider produces values for the descriptors it recognizes.
//
// Recognizes must be a pure function of its argument. Produce may recurse into
// the session to build nested values and may return the absence value
// (reflect.Value{}) to leave the destination at its zero value.
type Provider interface {
	Recognizes(t descriptor.Type) bool
	Produce(t descriptor.Type, s *Session) (reflect.Value, error)
}

// ProviderFunc is a Provider that recognizes every descriptor. It is meant for
// bindings, which are selected by type or name rather than by recognition.
type ProviderFunc func(t descriptor.Type, s *Session) (reflect.Value, error)

func (f ProviderFunc) Recognizes(descriptor.Type) bool { return true }

func (f ProviderFunc) Produce(t descriptor.Type, s *Session) (reflect.Value, error) {
	return f(t, s)
}

// Const always produces v. A nil v produces the absence value.
func Const(v any) Provider {
	value := reflect.ValueOf(v)
	return ProviderFunc(func(descriptor.Type, *Session) (reflect.Value, error) {
		return value, nil
	})
}

// Supply produces a fresh value from fn on every call and recognizes exactly T
func Supply[T any](fn func() T) Provider {
	return &typedProvider[T]{produce: func(*Session) (T, error) { return fn(), nil }}
}

// SupplyFunc is Supply with access to the session and an error return
func SupplyFunc[T any](fn func(s *Session) (T, error)) Provider {
	return &typedProvider[T]{produce: fn}
}

type typedProvider[T any] struct {
	produce func(*Session) (T, error)
}

func (p *typedProvider[T]) Recognizes(t descriptor.Type) bool {
	return t == descriptor.For[T]()
}

func (p *typedProvider[T]) Produce(_ descriptor.Type, s *Session) (reflect.Value, error) {
	v, err := p.produce(s)
	if err != nil {
		return reflect.Value{}, err
	}
	return reflect.ValueOf(&v).Elem(), nil
}

// Match combines a recognition predicate with a production function
func Match(recognizes func(descriptor.Type) bool, produce ProviderFunc) Provider {
	return &matchProvider{recognizes: recognizes, produce: produce}
}

type matchProvider struct {
	recognizes func(descriptor.Type) bool
	produce    ProviderFunc
}

func (p *matchProvider) Recognizes(t descriptor.Type) bool { return p.recognizes(t) }

func (p *matchProvider) Produce(t descriptor.Type, s *Session) (reflect.Value, error) {
	return p.produce(t, s)
}

// coerce adapts a produced value to rt. Assignable values pass through; values
// of the same underlying kind are converted, so a provider producing int can
// serve a named type declared as int.
func coerce(v reflect.Value, rt reflect.Type) (reflect.Value, error) {
	if !v.IsValid() {
		return v, nil
	}
	if v.Type() == rt {
		return v, nil
	}
	if v.Type().AssignableTo(rt) {
		out := reflect.New(rt).Elem()
		out.Set(v)
		return out, nil
	}
	if v.Kind() == rt.Kind() && v.Type().ConvertibleTo(rt) {
		return v.Convert(rt), nil
	}
	// providers often return the interface-typed value they were handed
	if v.Kind() == reflect.Interface && !v.IsNil() {
		return coerce(v.Elem(), rt)
	}
	return reflect.Value{}, fmt.Errorf("value of type %s is not assignable to %s", v.Type(), rt)
}
