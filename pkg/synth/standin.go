package synth

import (
	"encoding/binary"
	"fmt"
	"reflect"

	"github.com/google/uuid"

	"github.com/toyz/synth/pkg/descriptor"
)

// Invoker backs a stand-in: an object implementing an interface whose methods
// return generated values. Adapters registered with WithStandIn wrap an
// Invoker and forward each method to Call or Return.
//
// Identity methods never generate: String and GoString render the stand-in as
// standin(<interface>)#<id>, Hash derives from the id and Equal compares ids.
type Invoker struct {
	iface reflect.Type
	id    uuid.UUID
	gen   *Generator
}

func newInvoker(g *Generator, iface reflect.Type) (*Invoker, error) {
	id, err := uuid.NewRandomFromReader(g.rand)
	if err != nil {
		return nil, err
	}
	return &Invoker{iface: iface, id: id, gen: g}, nil
}

// ID returns the stand-in's identity
func (i *Invoker) ID() uuid.UUID { return i.id }

// Interface returns the interface the stand-in implements
func (i *Invoker) Interface() descriptor.Type { return descriptor.Of(i.iface) }

func (i *Invoker) String() string {
	return fmt.Sprintf("standin(%s)#%s", i.iface, i.id)
}

// Hash returns a stable hash of the stand-in's identity
func (i *Invoker) Hash() uint64 {
	return binary.BigEndian.Uint64(i.id[:8])
}

// Equal reports whether other is, or is backed by, the same stand-in
func (i *Invoker) Equal(other any) bool {
	switch o := other.(type) {
	case *Invoker:
		return o != nil && o.id == i.id
	case interface{ Invoker() *Invoker }:
		inv := o.Invoker()
		return inv != nil && inv.id == i.id
	}
	return false
}

// Call generates the first result of method in a fresh session and returns
// the absence value for methods without results. Identity methods answer from
// the invoker's id.
func (i *Invoker) Call(method string) (reflect.Value, error) {
	m, ok := i.iface.MethodByName(method)
	if !ok {
		return reflect.Value{}, fmt.Errorf("%s has no method %s", i.iface, method)
	}
	if m.Type.NumOut() == 0 {
		return reflect.Value{}, nil
	}
	out := m.Type.Out(0)

	switch method {
	case "String", "GoString":
		if out.Kind() == reflect.String {
			return reflect.ValueOf(i.String()).Convert(out), nil
		}
	case "Equal":
		if out.Kind() == reflect.Bool {
			return reflect.Value{}, fmt.Errorf("%s.Equal compares identities, use Invoker.Equal with the argument", i.iface)
		}
	case "Hash":
		if out.Kind() >= reflect.Uint && out.Kind() <= reflect.Uint64 {
			v := reflect.New(out).Elem()
			v.SetUint(i.Hash())
			return v, nil
		}
	}

	return i.gen.GenerateValue(descriptor.Of(out))
}

// Return is the typed form of Call for adapters. A generation failure panics,
// since interface methods have no way to report it.
func Return[T any](i *Invoker, method string) T {
	var zero T
	v, err := i.Call(method)
	if err != nil {
		panic(fmt.Errorf("stand-in %s: %w", i, err))
	}
	if !v.IsValid() {
		return zero
	}
	if t, ok := v.Interface().(T); ok {
		return t
	}
	return zero
}

// generatedError is the built-in stand-in for the error interface
type generatedError struct {
	inv *Invoker
}

func (e generatedError) Error() string      { return Return[string](e.inv, "Error") }
func (e generatedError) Invoker() *Invoker { return e.inv }

func errorStandIn(inv *Invoker) any { return generatedError{inv: inv} }
