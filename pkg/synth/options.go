package synth

import (
	"fmt"
	"math/rand/v2"
	"reflect"

	synerr "github.com/toyz/synth/internal/errors"
	"github.com/toyz/synth/pkg/descriptor"
)

// Bounds is an inclusive [Min, Max] size range
type Bounds struct {
	Min, Max int
}

func (b Bounds) validate(name string) *synerr.ConfigurationError {
	if b.Min < 0 || b.Max < 0 || b.Min > b.Max {
		return synerr.BoundsError(name, b.Min, b.Max)
	}
	return nil
}

var defaultBounds = Bounds{Min: 1, Max: 5}

// Logger receives generator diagnostics. *utils.DiagnosticSystem satisfies it.
type Logger interface {
	Debugf(format string, args ...interface{})
	Warnf(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{}) {}
func (nopLogger) Warnf(string, ...interface{})  {}

// Option configures a Generator. Options that receive invalid input record an
// error which New reports.
type Option func(*config)

type config struct {
	arraySize      Bounds
	collectionSize Bounds
	mapSize        Bounds
	stringSize     Bounds

	requireProviders bool
	source           rand.Source

	providers   []Provider
	leaves      []Provider
	bindings    []Binding
	resolvers   []Resolver
	terminators []Terminator

	enums        map[reflect.Type][]reflect.Value
	constructors map[reflect.Type][]Constructor
	ctorCount    int
	standIns     map[reflect.Type]func(*Invoker) any
	introspector Introspector
	logger       Logger

	errs *synerr.MultipleErrors
}

func defaultConfig() *config {
	return &config{
		arraySize:      defaultBounds,
		collectionSize: defaultBounds,
		mapSize:        defaultBounds,
		stringSize:     Bounds{Min: 4, Max: 16},
		leaves:         DefaultLeafProviders(),
		terminators:    []Terminator{NilTerminator{}},
		enums:          make(map[reflect.Type][]reflect.Value),
		constructors:   make(map[reflect.Type][]Constructor),
		standIns:       map[reflect.Type]func(*Invoker) any{errorType: errorStandIn},
		logger:         nopLogger{},
	}
}

func (c *config) fail(err synerr.SynthError) {
	synerr.AddToMultiple(&c.errs, err)
}

func (c *config) validate() {
	bounds := []struct {
		name string
		b    Bounds
	}{
		{"array size", c.arraySize},
		{"collection size", c.collectionSize},
		{"map size", c.mapSize},
		{"string size", c.stringSize},
	}
	for _, e := range bounds {
		if err := e.b.validate(e.name); err != nil {
			c.fail(err)
		}
	}
	if len(c.terminators) == 0 {
		c.fail(synerr.NewConfigurationError("terminator", "", "at least one terminator is required"))
	}
}

// WithArraySize bounds the length of generated slices and []byte
func WithArraySize(min, max int) Option {
	return func(c *config) { c.arraySize = Bounds{min, max} }
}

// WithCollectionSize bounds the number of elements sent on generated channels
// and yielded by generated sequences
func WithCollectionSize(min, max int) Option {
	return func(c *config) { c.collectionSize = Bounds{min, max} }
}

// WithMapSize bounds the number of entries of generated maps
func WithMapSize(min, max int) Option {
	return func(c *config) { c.mapSize = Bounds{min, max} }
}

// WithStringSize bounds the length of generated strings
func WithStringSize(min, max int) Option {
	return func(c *config) { c.stringSize = Bounds{min, max} }
}

// WithRequireProviders makes a leaf type without a recognizing provider an
// error instead of a zero default
func WithRequireProviders(require bool) Option {
	return func(c *config) { c.requireProviders = require }
}

// WithSeed makes generation repeatable
func WithSeed(seed uint64) Option {
	return func(c *config) { c.source = seededSource(seed) }
}

// WithSource plugs a custom pseudorandom source
func WithSource(src rand.Source) Option {
	return func(c *config) {
		if src == nil {
			c.fail(synerr.NewConfigurationError("source", "", "random source is nil"))
			return
		}
		c.source = src
	}
}

// WithProvider adds custom providers. They are consulted before the built-in
// ones, in registration order.
func WithProvider(providers ...Provider) Option {
	return func(c *config) {
		for _, p := range providers {
			if p == nil {
				c.fail(synerr.NewConfigurationError("provider", "", "provider is nil"))
				continue
			}
			c.providers = append(c.providers, p)
		}
	}
}

// WithLeafProviders replaces the built-in leaf providers. Calling it with no
// arguments removes them, which combined with WithRequireProviders turns every
// leaf into an error unless a custom provider covers it.
func WithLeafProviders(providers ...Provider) Option {
	return func(c *config) { c.leaves = providers }
}

// WithBindings adds bindings. Duplicates are reported by New.
func WithBindings(bindings ...Binding) Option {
	return func(c *config) { c.bindings = append(c.bindings, bindings...) }
}

// WithResolver adds interface resolvers, consulted in registration order
func WithResolver(resolvers ...Resolver) Option {
	return func(c *config) { c.resolvers = append(c.resolvers, resolvers...) }
}

// WithTerminators replaces the terminator chain. The default chain holds a
// single NilTerminator.
func WithTerminators(terminators ...Terminator) Option {
	return func(c *config) { c.terminators = terminators }
}

// WithEnum restricts T to the given values
func WithEnum[T any](values ...T) Option {
	vs := make([]reflect.Value, len(values))
	for i := range values {
		vs[i] = reflect.ValueOf(&values[i]).Elem()
	}
	return WithEnumValues(descriptor.For[T](), vs...)
}

// WithEnumValues restricts t to the given values. It is the untyped form of
// WithEnum for types known only at runtime; every value must be assignable to t.
func WithEnumValues(t descriptor.Type, values ...reflect.Value) Option {
	return func(c *config) {
		rt := t.Reflect()
		if rt == nil {
			c.fail(synerr.NewConfigurationError("enum", t.String(), "type is unbound"))
			return
		}
		if len(values) == 0 {
			c.fail(synerr.NewConfigurationError("enum", t.String(), "no values"))
			return
		}
		if _, ok := c.enums[rt]; ok {
			c.fail(synerr.DuplicateError("enum", t))
			return
		}
		for i, v := range values {
			if !v.IsValid() || !v.Type().AssignableTo(rt) {
				c.fail(synerr.NewConfigurationError("enum", t.String(), fmt.Sprintf("value #%d is not a %s", i, t)))
				return
			}
		}
		c.enums[rt] = append([]reflect.Value(nil), values...)
	}
}

// WithConstructor registers factory functions. A factory returns T or *T for a
// struct type T, optionally followed by an error, and may take any number of
// parameters which are generated. When several factories build the same type,
// the one with the fewest parameters is used.
func WithConstructor(fns ...any) Option {
	return func(c *config) {
		for _, fn := range fns {
			ctor, rt, err := inspectConstructor(fn)
			if err != nil {
				c.fail(synerr.WrapConfigurationError("constructor", fmt.Sprintf("%T", fn), err))
				continue
			}
			ctor.Order = c.ctorCount
			c.ctorCount++
			c.constructors[rt] = append(c.constructors[rt], ctor)
		}
	}
}

func inspectConstructor(fn any) (Constructor, reflect.Type, error) {
	fv := reflect.ValueOf(fn)
	if fv.Kind() != reflect.Func || fv.IsNil() {
		return Constructor{}, nil, fmt.Errorf("constructor must be a non-nil function")
	}
	ft := fv.Type()
	if ft.IsVariadic() {
		return Constructor{}, nil, fmt.Errorf("variadic constructors are not supported")
	}
	switch {
	case ft.NumOut() == 1:
	case ft.NumOut() == 2 && ft.Out(1) == errorType:
	default:
		return Constructor{}, nil, fmt.Errorf("constructor must return T or (T, error)")
	}

	rt := ft.Out(0)
	if rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt.Kind() != reflect.Struct {
		return Constructor{}, nil, fmt.Errorf("constructor must build a struct, got %s", ft.Out(0))
	}

	params := make([]descriptor.Type, ft.NumIn())
	for i := range params {
		params[i] = descriptor.Of(ft.In(i))
	}
	return Constructor{Fn: fv, Params: params}, rt, nil
}

// WithStandIn registers the adapter that builds stand-ins for interface I.
// The adapter receives an Invoker whose Call method generates return values.
func WithStandIn[I any](adapter func(inv *Invoker) I) Option {
	return func(c *config) {
		t := descriptor.For[I]()
		if !t.IsInterface() {
			c.fail(synerr.NewConfigurationError("stand-in", t.String(), "type is not an interface"))
			return
		}
		if adapter == nil {
			c.fail(synerr.NewConfigurationError("stand-in", t.String(), "adapter is nil"))
			return
		}
		c.standIns[t.Reflect()] = func(inv *Invoker) any { return adapter(inv) }
	}
}

// WithIntrospector replaces reflection-based member discovery. Constructors
// registered with WithConstructor are ignored when a custom introspector is set.
func WithIntrospector(in Introspector) Option {
	return func(c *config) { c.introspector = in }
}

// WithLogger routes diagnostics (cycle truncation, swallowed setter failures)
func WithLogger(l Logger) Option {
	return func(c *config) {
		if l == nil {
			l = nopLogger{}
		}
		c.logger = l
	}
}
