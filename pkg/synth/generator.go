package synth

import (
	"fmt"
	"reflect"

	synerr "github.com/toyz/synth/internal/errors"
	"github.com/toyz/synth/pkg/descriptor"
)

// Generator builds values of arbitrary Go types. Its configuration is fixed
// by New; a Generator is safe for concurrent use and every top-level call
// walks its own path.
type Generator struct {
	cfg          *config
	table        *Table
	providers    []Provider
	resolvers    resolverChain
	terminators  terminatorChain
	introspector Introspector
	rand         *Rand
	log          Logger
}

// New builds a generator. Every invalid option, duplicate binding and bad
// size bound is reported together.
func New(opts ...Option) (*Generator, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	cfg.validate()

	table, err := NewTable(cfg.bindings...)
	if err != nil {
		if multi, ok := err.(*synerr.MultipleErrors); ok {
			for _, e := range multi.Errors {
				cfg.fail(e)
			}
		} else if se, ok := err.(synerr.SynthError); ok {
			cfg.fail(se)
		}
	}
	if cfg.errs != nil {
		return nil, cfg.errs.ErrOrNil()
	}

	providers := make([]Provider, 0, len(cfg.providers)+len(cfg.leaves)+8)
	providers = append(providers, cfg.providers...)
	providers = append(providers, structuralProviders(cfg.enums)...)
	providers = append(providers, cfg.leaves...)

	in := cfg.introspector
	if in == nil {
		in = newReflectIntrospector(cfg.constructors)
	}

	src := cfg.source
	if src == nil {
		src = timeSource()
	}

	return &Generator{
		cfg:          cfg,
		table:        table,
		providers:    providers,
		resolvers:    resolverChain(cfg.resolvers),
		terminators:  terminatorChain(cfg.terminators),
		introspector: in,
		rand:         newRand(src),
		log:          cfg.logger,
	}, nil
}

// MustNew is like New but panics on error
func MustNew(opts ...Option) *Generator {
	g, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return g
}

// Fork returns a generator sharing g's configuration with its own random
// source seeded with seed
func (g *Generator) Fork(seed uint64) *Generator {
	cp := *g
	cp.rand = newRand(seededSource(seed))
	return &cp
}

// Session starts a new top-level call tree with an empty path
func (g *Generator) Session() *Session {
	return &Session{gen: g, path: NewPath()}
}

// GenerateValue produces a value of t. The result is the absence value when t
// is unbound or was truncated by a cycle.
func (g *Generator) GenerateValue(t descriptor.Type) (reflect.Value, error) {
	return g.Session().Generate(t)
}

// Generate produces a value of t as an interface, nil for absence
func (g *Generator) Generate(t descriptor.Type) (any, error) {
	v, err := g.GenerateValue(t)
	if err != nil || !v.IsValid() {
		return nil, err
	}
	return v.Interface(), nil
}

// Fill populates the fields and setters of the struct ptr points to
func (g *Generator) Fill(ptr any) error {
	rv := reflect.ValueOf(ptr)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("fill: expected a non-nil pointer to a struct, got %T", ptr)
	}

	s := g.Session()
	t := descriptor.Of(rv.Elem().Type())
	s.path.Enter(t)
	defer s.path.Exit()
	return s.populate(t, rv)
}

// Make produces a value of T
func Make[T any](g *Generator) (T, error) {
	var zero T
	v, err := g.GenerateValue(descriptor.For[T]())
	if err != nil || !v.IsValid() {
		return zero, err
	}
	return v.Interface().(T), nil
}

// MustMake is like Make but panics on error
func MustMake[T any](g *Generator) T {
	v, err := Make[T](g)
	if err != nil {
		panic(err)
	}
	return v
}
