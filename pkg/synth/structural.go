package synth

import (
	"fmt"
	"reflect"

	synerr "github.com/toyz/synth/internal/errors"
	"github.com/toyz/synth/pkg/descriptor"
)

// Structural providers build container values by recursing into the session
// for every element. They decline leaf types so that []byte and uuid.UUID are
// left to the leaf providers.

func structuralProviders(enums map[reflect.Type][]reflect.Value) []Provider {
	return []Provider{
		&enumProvider{values: enums},
		arrayProvider{},
		mapProvider{},
		channelProvider{},
		pointerProvider{},
		futureProvider{},
		streamProvider{},
	}
}

// element generates one element of a container, substituting the zero value
// for absence
func element(s *Session, t descriptor.Type) (reflect.Value, error) {
	v, err := s.Generate(t)
	if err != nil {
		return reflect.Value{}, err
	}
	if !v.IsValid() {
		return reflect.Zero(t.Reflect()), nil
	}
	return v, nil
}

// arrayProvider fills slices with a bounded number of elements and fixed
// arrays completely
type arrayProvider struct{}

func (arrayProvider) Recognizes(t descriptor.Type) bool {
	return t.Kind() == descriptor.ArrayOf && !isLeaf(t.Reflect())
}

func (arrayProvider) Produce(t descriptor.Type, s *Session) (reflect.Value, error) {
	rt := t.Reflect()
	var out reflect.Value
	if rt.Kind() == reflect.Array {
		out = reflect.New(rt).Elem()
	} else {
		n := s.size(s.gen.cfg.arraySize)
		out = reflect.MakeSlice(rt, n, n)
	}

	elem := t.Elem()
	for i := 0; i < out.Len(); i++ {
		v, err := element(s, elem)
		if err != nil {
			return reflect.Value{}, err
		}
		out.Index(i).Set(v)
	}
	return out, nil
}

// mapProvider fills maps with a bounded number of distinct keys
type mapProvider struct{}

// maxKeyAttempts bounds key draws per wanted entry before giving up on
// distinctness
const maxKeyAttempts = 10

func (mapProvider) Recognizes(t descriptor.Type) bool {
	rt := t.Reflect()
	return rt != nil && rt.Kind() == reflect.Map
}

func (mapProvider) Produce(t descriptor.Type, s *Session) (reflect.Value, error) {
	rt := t.Reflect()
	bounds := s.gen.cfg.mapSize
	want := s.size(bounds)
	out := reflect.MakeMapWithSize(rt, want)

	for attempts := 0; out.Len() < want && attempts < want*maxKeyAttempts; attempts++ {
		k, err := element(s, t.Key())
		if err != nil {
			return reflect.Value{}, err
		}
		if out.MapIndex(k).IsValid() {
			continue
		}
		v, err := element(s, t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetMapIndex(k, v)
	}

	if out.Len() < bounds.Min {
		return reflect.Value{}, synerr.NewUnresolvableTypeError(t.String(),
			fmt.Sprintf("produced %d distinct keys, at least %d required", out.Len(), bounds.Min))
	}
	return out, nil
}

// channelProvider returns a closed, buffered channel holding a bounded number
// of elements, so consumers can range over it without blocking
type channelProvider struct{}

func (channelProvider) Recognizes(t descriptor.Type) bool {
	rt := t.Reflect()
	return rt != nil && rt.Kind() == reflect.Chan
}

func (channelProvider) Produce(t descriptor.Type, s *Session) (reflect.Value, error) {
	rt := t.Reflect()
	n := s.size(s.gen.cfg.collectionSize)

	ch := reflect.MakeChan(reflect.ChanOf(reflect.BothDir, rt.Elem()), n)
	for i := 0; i < n; i++ {
		v, err := element(s, t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		ch.Send(v)
	}
	ch.Close()

	if ch.Type() == rt {
		return ch, nil
	}
	out := reflect.New(rt).Elem()
	out.Set(ch)
	return out, nil
}

// pointerProvider allocates the pointee and fills it. When the pointee cannot
// be produced the pointer stays nil.
type pointerProvider struct{}

func (pointerProvider) Recognizes(t descriptor.Type) bool {
	rt := t.Reflect()
	return rt != nil && rt.Kind() == reflect.Pointer
}

func (pointerProvider) Produce(t descriptor.Type, s *Session) (reflect.Value, error) {
	rt := t.Reflect()
	v, err := s.Generate(t.Elem())
	if err != nil {
		return reflect.Value{}, err
	}
	if !v.IsValid() {
		return reflect.Zero(rt), nil
	}
	p := reflect.New(rt.Elem())
	p.Elem().Set(v)
	if p.Type() != rt {
		p = p.Convert(rt)
	}
	return p, nil
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// futureProvider produces func() T and func() (T, error). The value is
// generated lazily on every call, in a fresh session.
type futureProvider struct{}

func (futureProvider) Recognizes(t descriptor.Type) bool {
	rt := t.Reflect()
	if rt == nil || rt.Kind() != reflect.Func || rt.NumIn() != 0 || rt.IsVariadic() {
		return false
	}
	switch rt.NumOut() {
	case 1:
		return true
	case 2:
		return rt.Out(1) == errorType
	}
	return false
}

func (futureProvider) Produce(t descriptor.Type, s *Session) (reflect.Value, error) {
	rt := t.Reflect()
	g := s.gen
	out := descriptor.Of(rt.Out(0))

	fn := reflect.MakeFunc(rt, func([]reflect.Value) []reflect.Value {
		v, err := g.GenerateValue(out)
		if !v.IsValid() {
			v = reflect.Zero(out.Reflect())
		}
		if rt.NumOut() == 1 {
			if err != nil {
				panic(err)
			}
			return []reflect.Value{v}
		}
		errv := reflect.Zero(errorType)
		if err != nil {
			errv = reflect.ValueOf(&err).Elem()
		}
		return []reflect.Value{v, errv}
	})
	return fn, nil
}

// streamProvider produces iter.Seq and iter.Seq2 shaped functions. Elements
// are generated eagerly so every iteration yields the same sequence.
type streamProvider struct{}

func (streamProvider) Recognizes(t descriptor.Type) bool {
	rt := t.Reflect()
	if rt == nil || rt.Kind() != reflect.Func || rt.NumIn() != 1 || rt.NumOut() != 0 {
		return false
	}
	yield := rt.In(0)
	return yield.Kind() == reflect.Func &&
		(yield.NumIn() == 1 || yield.NumIn() == 2) &&
		yield.NumOut() == 1 && yield.Out(0).Kind() == reflect.Bool
}

func (streamProvider) Produce(t descriptor.Type, s *Session) (reflect.Value, error) {
	rt := t.Reflect()
	yield := rt.In(0)
	n := s.size(s.gen.cfg.collectionSize)

	items := make([][]reflect.Value, n)
	for i := range items {
		items[i] = make([]reflect.Value, yield.NumIn())
		for j := range items[i] {
			v, err := element(s, descriptor.Of(yield.In(j)))
			if err != nil {
				return reflect.Value{}, err
			}
			items[i][j] = v
		}
	}

	fn := reflect.MakeFunc(rt, func(args []reflect.Value) []reflect.Value {
		y := args[0]
		for _, item := range items {
			if !y.Call(item)[0].Bool() {
				break
			}
		}
		return nil
	})
	return fn, nil
}

// enumProvider picks one of the values registered with WithEnum
type enumProvider struct {
	values map[reflect.Type][]reflect.Value
}

func (p *enumProvider) Recognizes(t descriptor.Type) bool {
	_, ok := p.values[t.Reflect()]
	return ok
}

func (p *enumProvider) Produce(t descriptor.Type, s *Session) (reflect.Value, error) {
	values := p.values[t.Reflect()]
	return values[s.Rand().IntN(len(values))], nil
}
