// Package descriptor models the types a generator is asked to produce.
//
// A Type is an immutable, comparable value: two descriptors built for the same
// Go type are equal with ==, so they can be used directly as map keys and as
// entries of a generation path. Four kinds exist:
//
//   - Named: a concrete type that is not a container (int, time.Time, a struct, an interface)
//   - Parameterized: a built-in generic container (map, pointer, chan, func) or an
//     instantiated generic named type such as Box[int]
//   - ArrayOf: slices and fixed-length arrays
//   - Unbound: a type variable or wildcard that carries no Go type at all
package descriptor

import (
	"fmt"
	"reflect"
	"strings"
)

// Kind classifies a Type
type Kind uint8

const (
	Invalid Kind = iota
	Named
	Parameterized
	ArrayOf
	Unbound
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case Named:
		return "Named"
	case Parameterized:
		return "Parameterized"
	case ArrayOf:
		return "ArrayOf"
	case Unbound:
		return "Unbound"
	default:
		return "Invalid"
	}
}

// Type describes a generation target
type Type struct {
	kind Kind
	rt   reflect.Type
	name string // variable name, Unbound only
}

// Of returns the descriptor of rt. A nil rt yields the zero (Invalid) Type.
func Of(rt reflect.Type) Type {
	if rt == nil {
		return Type{}
	}
	return Type{kind: kindOf(rt), rt: rt}
}

// For returns the descriptor of T
func For[T any]() Type {
	return Of(reflect.TypeOf((*T)(nil)).Elem())
}

// Var returns an Unbound descriptor for the type variable or wildcard name
func Var(name string) Type {
	return Type{kind: Unbound, name: name}
}

func kindOf(rt reflect.Type) Kind {
	switch rt.Kind() {
	case reflect.Slice, reflect.Array:
		return ArrayOf
	case reflect.Map, reflect.Pointer, reflect.Chan, reflect.Func:
		return Parameterized
	}
	if isInstantiated(rt) {
		return Parameterized
	}
	return Named
}

func isInstantiated(rt reflect.Type) bool {
	return rt.Name() != "" && strings.Contains(rt.Name(), "[")
}

// Kind returns the descriptor kind
func (t Type) Kind() Kind { return t.kind }

// Reflect returns the backing Go type, nil for Unbound and Invalid descriptors
func (t Type) Reflect() reflect.Type { return t.rt }

// IsZero reports whether t is the Invalid descriptor
func (t Type) IsZero() bool { return t.kind == Invalid }

// IsUnbound reports whether t is a type variable or wildcard
func (t Type) IsUnbound() bool { return t.kind == Unbound }

// IsInterface reports whether t denotes an interface type
func (t Type) IsInterface() bool {
	return t.rt != nil && t.rt.Kind() == reflect.Interface
}

// IsStruct reports whether t denotes a struct type
func (t Type) IsStruct() bool {
	return t.rt != nil && t.rt.Kind() == reflect.Struct
}

// IsPrimitive reports whether t is backed by a basic kind (bool, numbers, string)
func (t Type) IsPrimitive() bool {
	if t.rt == nil {
		return false
	}
	switch t.rt.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	}
	return false
}

// Elem returns the element descriptor of pointers, slices, arrays, maps and
// channels, and the zero Type for everything else
func (t Type) Elem() Type {
	if t.rt == nil {
		return Type{}
	}
	switch t.rt.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Array, reflect.Map, reflect.Chan:
		return Of(t.rt.Elem())
	}
	return Type{}
}

// Key returns the key descriptor of a map
func (t Type) Key() Type {
	if t.rt == nil || t.rt.Kind() != reflect.Map {
		return Type{}
	}
	return Of(t.rt.Key())
}

// Args returns the ordered type arguments of built-in containers:
// map → [key, elem]; pointer, chan, slice, array → [elem];
// func → parameters followed by results. Instantiated generic named types
// need a Catalog to resolve their arguments, see TypeArgs.
func (t Type) Args() []Type {
	if t.rt == nil {
		return nil
	}
	switch t.rt.Kind() {
	case reflect.Map:
		return []Type{t.Key(), t.Elem()}
	case reflect.Pointer, reflect.Slice, reflect.Array, reflect.Chan:
		return []Type{t.Elem()}
	case reflect.Func:
		args := make([]Type, 0, t.rt.NumIn()+t.rt.NumOut())
		for i := 0; i < t.rt.NumIn(); i++ {
			args = append(args, Of(t.rt.In(i)))
		}
		for i := 0; i < t.rt.NumOut(); i++ {
			args = append(args, Of(t.rt.Out(i)))
		}
		return args
	}
	return nil
}

// TypeArgs returns the type arguments of an instantiated generic named type,
// resolving argument names through c. Other kinds return Args().
func (t Type) TypeArgs(c *Catalog) ([]Type, error) {
	if t.rt == nil || !isInstantiated(t.rt) {
		return t.Args(), nil
	}
	name := t.rt.Name()
	open := strings.Index(name, "[")
	expr, err := parseArgList(name[open:])
	if err != nil {
		return nil, fmt.Errorf("type arguments of %s: %w", t, err)
	}
	args := make([]Type, 0, len(expr))
	for _, e := range expr {
		arg, err := c.resolve(e)
		if err != nil {
			return nil, fmt.Errorf("type arguments of %s: %w", t, err)
		}
		args = append(args, arg)
	}
	return args, nil
}

// Name returns the short type name without package qualifier, or the variable name
func (t Type) Name() string {
	switch {
	case t.kind == Unbound:
		return t.name
	case t.rt == nil:
		return ""
	case t.rt.Name() != "":
		return t.rt.Name()
	default:
		return t.rt.String()
	}
}

// String renders the descriptor the way reflect renders Go types; unbound
// variables render as ?name
func (t Type) String() string {
	switch {
	case t.kind == Unbound:
		return "?" + t.name
	case t.rt == nil:
		return "<invalid>"
	default:
		return t.rt.String()
	}
}

// Qualified renders t with full package paths, e.g. github.com/google/uuid.UUID
func (t Type) Qualified() string {
	if t.kind == Unbound {
		return t.String()
	}
	if t.rt == nil {
		return "<invalid>"
	}
	return qualified(t.rt)
}

func qualified(rt reflect.Type) string {
	if rt.Name() != "" {
		if rt.PkgPath() == "" {
			return rt.Name()
		}
		return rt.PkgPath() + "." + rt.Name()
	}
	switch rt.Kind() {
	case reflect.Pointer:
		return "*" + qualified(rt.Elem())
	case reflect.Slice:
		return "[]" + qualified(rt.Elem())
	case reflect.Array:
		return fmt.Sprintf("[%d]%s", rt.Len(), qualified(rt.Elem()))
	case reflect.Map:
		return "map[" + qualified(rt.Key()) + "]" + qualified(rt.Elem())
	case reflect.Chan:
		switch rt.ChanDir() {
		case reflect.RecvDir:
			return "<-chan " + qualified(rt.Elem())
		case reflect.SendDir:
			return "chan<- " + qualified(rt.Elem())
		default:
			return "chan " + qualified(rt.Elem())
		}
	case reflect.Func:
		var b strings.Builder
		b.WriteString("func(")
		for i := 0; i < rt.NumIn(); i++ {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(qualified(rt.In(i)))
		}
		b.WriteString(")")
		switch rt.NumOut() {
		case 0:
		case 1:
			b.WriteString(" " + qualified(rt.Out(0)))
		default:
			b.WriteString(" (")
			for i := 0; i < rt.NumOut(); i++ {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(qualified(rt.Out(i)))
			}
			b.WriteString(")")
		}
		return b.String()
	}
	return rt.String()
}

// GoString implements fmt.GoStringer
func (t Type) GoString() string {
	return fmt.Sprintf("descriptor.%s(%s)", t.kind, t.String())
}
