package synth

import (
	"reflect"
	"time"

	"github.com/google/uuid"

	"github.com/toyz/synth/pkg/descriptor"
)

var (
	timeType     = reflect.TypeOf(time.Time{})
	durationType = reflect.TypeOf(time.Duration(0))
	uuidType     = reflect.TypeOf(uuid.UUID{})
)

// epoch is the zero-like default for time.Time when no provider is registered
var epoch = time.Unix(0, 0).UTC()

// LeafProvider produces random values for one family of built-in types
type LeafProvider struct {
	name  string
	match func(rt reflect.Type) bool
	gen   func(rt reflect.Type, s *Session) reflect.Value
}

func (p *LeafProvider) Recognizes(t descriptor.Type) bool {
	rt := t.Reflect()
	return rt != nil && p.match(rt)
}

func (p *LeafProvider) Produce(t descriptor.Type, s *Session) (reflect.Value, error) {
	return p.gen(t.Reflect(), s), nil
}

func (p *LeafProvider) String() string { return p.name + " leaf provider" }

// Bools produces random booleans
func Bools() *LeafProvider {
	return &LeafProvider{
		name:  "bool",
		match: func(rt reflect.Type) bool { return rt.Kind() == reflect.Bool },
		gen: func(rt reflect.Type, s *Session) reflect.Value {
			v := reflect.New(rt).Elem()
			v.SetBool(s.Rand().Bool())
			return v
		},
	}
}

// Ints produces signed integers in [-10000, 10000), truncated to the target width
func Ints() *LeafProvider {
	return &LeafProvider{
		name: "int",
		match: func(rt reflect.Type) bool {
			switch rt.Kind() {
			case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
				return rt != durationType
			}
			return false
		},
		gen: func(rt reflect.Type, s *Session) reflect.Value {
			v := reflect.New(rt).Elem()
			v.SetInt(s.Rand().Int64N(20000) - 10000)
			return v
		},
	}
}

// Uints produces unsigned integers in [0, 10000), truncated to the target width
func Uints() *LeafProvider {
	return &LeafProvider{
		name: "uint",
		match: func(rt reflect.Type) bool {
			switch rt.Kind() {
			case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
				return true
			}
			return false
		},
		gen: func(rt reflect.Type, s *Session) reflect.Value {
			v := reflect.New(rt).Elem()
			v.SetUint(uint64(s.Rand().Int64N(10000)))
			return v
		},
	}
}

// Floats produces floating point values in [-1000, 1000)
func Floats() *LeafProvider {
	return &LeafProvider{
		name: "float",
		match: func(rt reflect.Type) bool {
			return rt.Kind() == reflect.Float32 || rt.Kind() == reflect.Float64
		},
		gen: func(rt reflect.Type, s *Session) reflect.Value {
			v := reflect.New(rt).Elem()
			v.SetFloat(s.Rand().Float64()*2000 - 1000)
			return v
		},
	}
}

// Complexes produces complex values whose parts are in [-1000, 1000)
func Complexes() *LeafProvider {
	return &LeafProvider{
		name: "complex",
		match: func(rt reflect.Type) bool {
			return rt.Kind() == reflect.Complex64 || rt.Kind() == reflect.Complex128
		},
		gen: func(rt reflect.Type, s *Session) reflect.Value {
			r := s.Rand()
			v := reflect.New(rt).Elem()
			v.SetComplex(complex(r.Float64()*2000-1000, r.Float64()*2000-1000))
			return v
		},
	}
}

const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Strings produces alphanumeric strings whose length honours WithStringSize
func Strings() *LeafProvider {
	return &LeafProvider{
		name:  "string",
		match: func(rt reflect.Type) bool { return rt.Kind() == reflect.String },
		gen: func(rt reflect.Type, s *Session) reflect.Value {
			r := s.Rand()
			buf := make([]byte, s.size(s.gen.cfg.stringSize))
			for i := range buf {
				buf[i] = alphabet[r.IntN(len(alphabet))]
			}
			v := reflect.New(rt).Elem()
			v.SetString(string(buf))
			return v
		},
	}
}

// Bytes produces random byte slices sized like arrays
func Bytes() *LeafProvider {
	return &LeafProvider{
		name:  "bytes",
		match: isBytes,
		gen: func(rt reflect.Type, s *Session) reflect.Value {
			buf := make([]byte, s.size(s.gen.cfg.arraySize))
			_, _ = s.Rand().Read(buf)
			return reflect.ValueOf(buf).Convert(rt)
		},
	}
}

// Times produces UTC instants between 2000-01-01 and 2030-01-01, truncated to
// the second
func Times() *LeafProvider {
	lo := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC).Unix()
	hi := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC).Unix()
	return &LeafProvider{
		name:  "time",
		match: func(rt reflect.Type) bool { return rt == timeType },
		gen: func(rt reflect.Type, s *Session) reflect.Value {
			return reflect.ValueOf(time.Unix(lo+s.Rand().Int64N(hi-lo), 0).UTC())
		},
	}
}

// Durations produces durations in [0, 24h) with millisecond precision
func Durations() *LeafProvider {
	return &LeafProvider{
		name:  "duration",
		match: func(rt reflect.Type) bool { return rt == durationType },
		gen: func(rt reflect.Type, s *Session) reflect.Value {
			d := time.Duration(s.Rand().Int64N(int64(24*time.Hour/time.Millisecond))) * time.Millisecond
			return reflect.ValueOf(d)
		},
	}
}

// UUIDs produces version 4 UUIDs drawn from the generator's random source, so
// seeded generators produce repeatable identifiers
func UUIDs() *LeafProvider {
	return &LeafProvider{
		name:  "uuid",
		match: func(rt reflect.Type) bool { return rt == uuidType },
		gen: func(rt reflect.Type, s *Session) reflect.Value {
			id, err := uuid.NewRandomFromReader(s.Rand())
			if err != nil {
				// Rand.Read never fails
				panic(err)
			}
			return reflect.ValueOf(id)
		},
	}
}

// DefaultLeafProviders returns the leaf providers a generator uses unless
// WithLeafProviders replaces them
func DefaultLeafProviders() []Provider {
	return []Provider{
		Bools(), Ints(), Uints(), Floats(), Complexes(),
		Strings(), Bytes(), Times(), Durations(), UUIDs(),
	}
}

func isBytes(rt reflect.Type) bool {
	return rt.Kind() == reflect.Slice && rt.Elem().Kind() == reflect.Uint8
}

// isLeaf reports whether rt belongs to a leaf category. Structural providers
// leave leaf types alone even when their kind would match.
func isLeaf(rt reflect.Type) bool {
	if rt == nil {
		return false
	}
	if rt == timeType || rt == durationType || rt == uuidType || isBytes(rt) {
		return true
	}
	return descriptor.Of(rt).IsPrimitive()
}

// zeroLeaf returns the fixed default for a leaf type without a provider.
// A rune is an int32, so a character defaults to 0 like any other integer;
// time.Time defaults to the epoch and byte slices to an empty slice.
func zeroLeaf(rt reflect.Type) reflect.Value {
	switch {
	case rt == timeType:
		return reflect.ValueOf(epoch)
	case isBytes(rt):
		return reflect.MakeSlice(rt, 0, 0)
	default:
		return reflect.Zero(rt)
	}
}
