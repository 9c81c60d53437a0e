package synth

import (
	"fmt"
	"reflect"

	synerr "github.com/toyz/synth/internal/errors"
	"github.com/toyz/synth/pkg/descriptor"
)

// Session is one top-level call tree. Providers receive the session so nested
// values are generated on the same path; a Session must not be shared across
// goroutines.
type Session struct {
	gen  *Generator
	path *Path
}

// Generator returns the generator that owns the session
func (s *Session) Generator() *Generator { return s.gen }

// Path returns the live generation path
func (s *Session) Path() *Path { return s.path }

// Rand returns the generator's random source
func (s *Session) Rand() *Rand { return s.gen.rand }

func (s *Session) size(b Bounds) int {
	return s.Rand().Between(b.Min, b.Max)
}

// Generate produces a value of t on this session's path. Re-entering a type
// that is already being built is handed to the terminator chain.
func (s *Session) Generate(t descriptor.Type) (reflect.Value, error) {
	if t.IsZero() {
		return reflect.Value{}, synerr.NewUnresolvableTypeError(t.String(), "invalid descriptor")
	}

	if cycle := s.path.Enter(t); cycle != nil {
		s.gen.log.Debugf("cycle on %s: %s -> %s", t, cycle, t)
		v, err := s.gen.terminators.resolve(cycle)
		if err != nil {
			return reflect.Value{}, err
		}
		return s.fit(t, v)
	}
	defer s.path.Exit()

	v, err := s.generate(t)
	if err != nil {
		return reflect.Value{}, err
	}
	return s.fit(t, v)
}

// fit coerces a produced value to t
func (s *Session) fit(t descriptor.Type, v reflect.Value) (reflect.Value, error) {
	if !v.IsValid() || t.IsUnbound() {
		return v, nil
	}
	out, err := coerce(v, t.Reflect())
	if err != nil {
		return reflect.Value{}, synerr.NewConstructionError(t.String(), err)
	}
	return out, nil
}

func (s *Session) generate(t descriptor.Type) (reflect.Value, error) {
	if p, ok := s.gen.table.Global(t); ok {
		return p.Produce(t, s)
	}

	for _, p := range s.gen.providers {
		if p.Recognizes(t) {
			return p.Produce(t, s)
		}
	}

	switch rt := t.Reflect(); {
	case t.IsUnbound():
		return reflect.Value{}, nil
	case isLeaf(rt):
		if s.gen.cfg.requireProviders {
			return reflect.Value{}, synerr.NewMissingProviderError(t.String())
		}
		return zeroLeaf(rt), nil
	case t.IsInterface():
		return s.generateInterface(t)
	case t.IsStruct():
		return s.construct(t)
	}

	return reflect.Value{}, synerr.NewUnresolvableTypeError(t.String(), "no provider recognizes this type")
}

func (s *Session) generateInterface(t descriptor.Type) (reflect.Value, error) {
	iface := t.Reflect()

	concrete, ok, err := s.gen.resolvers.resolve(t)
	if err != nil {
		return reflect.Value{}, err
	}
	if ok {
		v, err := s.Generate(concrete)
		if err != nil || !v.IsValid() {
			return reflect.Value{}, err
		}
		out := reflect.New(iface).Elem()
		out.Set(v)
		return out, nil
	}

	if adapter, ok := s.gen.cfg.standIns[iface]; ok {
		inv, err := newInvoker(s.gen, iface)
		if err != nil {
			return reflect.Value{}, err
		}
		obj := reflect.ValueOf(adapter(inv))
		if !obj.IsValid() || !obj.Type().Implements(iface) {
			return reflect.Value{}, synerr.NewUnresolvableTypeError(t.String(), "stand-in adapter returned a value that does not implement the interface")
		}
		out := reflect.New(iface).Elem()
		out.Set(obj)
		return out, nil
	}

	if iface.NumMethod() == 0 {
		return reflect.Value{}, nil
	}
	return reflect.Value{}, synerr.NewUnresolvableTypeError(t.String(), "interface has no resolver and no stand-in")
}

// construct allocates a struct through its constructor or as a zero value and
// populates the remaining members
func (s *Session) construct(t descriptor.Type) (reflect.Value, error) {
	ptr, err := s.allocate(t)
	if err != nil {
		return reflect.Value{}, err
	}
	if err := s.populate(t, ptr); err != nil {
		return reflect.Value{}, err
	}
	return ptr.Elem(), nil
}

// allocate returns a pointer to a new instance of t
func (s *Session) allocate(t descriptor.Type) (reflect.Value, error) {
	rt := t.Reflect()
	ctors := s.gen.introspector.Constructors(t)
	if len(ctors) == 0 {
		return reflect.New(rt), nil
	}

	ctor := ctors[0]
	args := make([]reflect.Value, len(ctor.Params))
	for i, p := range ctor.Params {
		v, err := element(s, p)
		if err != nil {
			return reflect.Value{}, err
		}
		args[i] = v
	}

	out, err := invoke(ctor.Fn, args)
	if err != nil {
		return reflect.Value{}, synerr.NewConstructionError(t.String(), err)
	}

	res := out[0]
	if res.Kind() == reflect.Pointer {
		if res.IsNil() {
			return reflect.Value{}, synerr.NewConstructionError(t.String(), fmt.Errorf("constructor returned nil"))
		}
		return res, nil
	}
	ptr := reflect.New(rt)
	ptr.Elem().Set(res)
	return ptr, nil
}

// populate fills the members of *ptr that are still zero. Setters go first and
// are best effort; fields a setter did not handle are assigned directly.
// Embedded structs that are no longer zero are filled member by member.
func (s *Session) populate(t descriptor.Type, ptr reflect.Value) error {
	elem := ptr.Elem()
	fields := s.gen.introspector.Fields(t)
	handled := make(map[string]bool)

	for _, st := range s.gen.introspector.Setters(t) {
		if f, ok := fieldNamed(fields, st.Field); ok && !elem.FieldByIndex(f.Index).IsZero() {
			handled[st.Field] = true
			continue
		}
		v, err := s.member(t, st.Param, st.Field)
		if err != nil {
			return err
		}
		if !v.IsValid() {
			continue
		}
		if err := callSetter(ptr, st, v); err != nil {
			s.gen.log.Debugf("setter %s.%s failed: %v", t, st.Method, err)
			continue
		}
		handled[st.Field] = true
	}

	for _, f := range fields {
		if handled[f.Name] {
			continue
		}
		dst := elem.FieldByIndex(f.Index)
		// a promoted setter may already have touched an embedded struct
		if f.Embedded && (!f.Exported || !dst.IsZero()) {
			if err := s.populate(f.Type, dst.Addr()); err != nil {
				return err
			}
			continue
		}
		if !dst.IsZero() {
			continue
		}
		v, err := s.member(t, f.Type, f.Name)
		if err != nil {
			return err
		}
		if !v.IsValid() {
			continue
		}
		if err := assign(dst, f, v); err != nil {
			return synerr.NewFieldConstructionError(t.String(), f.Name, err)
		}
	}
	return nil
}

// member produces the value of one member of container, honouring bindings
func (s *Session) member(container, t descriptor.Type, name string) (reflect.Value, error) {
	if p, ok := s.gen.table.Resolve(container, t, name); ok {
		return p.Produce(t, s)
	}
	return s.Generate(t)
}

func fieldNamed(fields []Field, name string) (Field, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func assign(dst reflect.Value, f Field, v reflect.Value) error {
	if !f.Exported || !dst.CanSet() {
		return fmt.Errorf("field is not settable")
	}
	cv, err := coerce(v, dst.Type())
	if err != nil {
		return err
	}
	dst.Set(cv)
	return nil
}

func callSetter(ptr reflect.Value, st Setter, v reflect.Value) error {
	m := ptr.MethodByName(st.Method)
	if !m.IsValid() {
		return fmt.Errorf("method %s not found", st.Method)
	}
	arg, err := coerce(v, m.Type().In(0))
	if err != nil {
		return err
	}
	_, err = invoke(m, []reflect.Value{arg})
	return err
}

// invoke calls fn, turning a panic or a trailing non-nil error into an error
func invoke(fn reflect.Value, args []reflect.Value) (out []reflect.Value, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			out = nil
			if e, ok := rec.(error); ok {
				err = fmt.Errorf("panic: %w", e)
			} else {
				err = fmt.Errorf("panic: %v", rec)
			}
		}
	}()

	out = fn.Call(args)
	if n := len(out); n > 0 && fn.Type().Out(n-1) == errorType && !out[n-1].IsNil() {
		return nil, out[n-1].Interface().(error)
	}
	return out, nil
}
