package synth

import (
	"reflect"

	synerr "github.com/toyz/synth/internal/errors"
)

// Terminator supplies a terminal value when generation re-enters a type that
// is already under construction
type Terminator interface {
	CanTerminate(cycle *Node) bool
	Terminate(cycle *Node) (reflect.Value, error)
}

// NilTerminator accepts every cycle and returns the absence value, leaving the
// self-referencing position at its zero value (nil pointer, nil slice, ...).
// It is the default terminator.
type NilTerminator struct{}

func (NilTerminator) CanTerminate(*Node) bool { return true }

func (NilTerminator) Terminate(*Node) (reflect.Value, error) { return reflect.Value{}, nil }

// StubTerminator returns a shallow stub of the cycling type: a zero struct, an
// allocated pointer to a zero value, or an empty slice, map or channel.
type StubTerminator struct{}

func (StubTerminator) CanTerminate(cycle *Node) bool {
	return cycle.Type().Reflect() != nil
}

func (StubTerminator) Terminate(cycle *Node) (reflect.Value, error) {
	rt := cycle.Type().Reflect()
	switch rt.Kind() {
	case reflect.Pointer:
		return reflect.New(rt.Elem()).Convert(rt), nil
	case reflect.Slice:
		return reflect.MakeSlice(rt, 0, 0), nil
	case reflect.Map:
		return reflect.MakeMap(rt), nil
	case reflect.Chan:
		return reflect.MakeChan(rt, 0), nil
	case reflect.Interface, reflect.Func:
		return reflect.Value{}, nil
	default:
		return reflect.Zero(rt), nil
	}
}

// TerminatorFunc adapts a pair of functions to the Terminator interface. A nil
// Accept accepts every cycle.
type TerminatorFunc struct {
	Accept func(cycle *Node) bool
	Value  func(cycle *Node) (reflect.Value, error)
}

func (f TerminatorFunc) CanTerminate(cycle *Node) bool {
	return f.Accept == nil || f.Accept(cycle)
}

func (f TerminatorFunc) Terminate(cycle *Node) (reflect.Value, error) {
	if f.Value == nil {
		return reflect.Value{}, nil
	}
	return f.Value(cycle)
}

// terminatorChain tries terminators in registration order
type terminatorChain []Terminator

func (c terminatorChain) resolve(cycle *Node) (reflect.Value, error) {
	for _, t := range c {
		if t.CanTerminate(cycle) {
			return t.Terminate(cycle)
		}
	}
	t := cycle.Type()
	return reflect.Value{}, synerr.NewCycleError(t.String(), cycle.String()+" -> "+t.String())
}
