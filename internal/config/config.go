// Package config loads generator settings from YAML files.
//
// A file looks like:
//
//	seed: 42
//	array_size: {min: 1, max: 3}
//	bindings:
//	  - scope: global-type
//	    type: time.Duration
//	    value: 1500000000
//	  - scope: local-name
//	    container: models.user
//	    name: Email
//	    value: someone@example.com
//	enums:
//	  - type: models.role
//	    values: [admin, editor, viewer]
//
// Values are decoded into the Go type of the member they are produced for.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	synerr "github.com/toyz/synth/internal/errors"
	"github.com/toyz/synth/pkg/descriptor"
	"github.com/toyz/synth/pkg/synth"
)

var validate = validator.New()

// Bounds is an inclusive size range
type Bounds struct {
	Min int `yaml:"min" validate:"gte=0"`
	Max int `yaml:"max" validate:"gte=0,gtefield=Min"`
}

// Binding pins a literal value to a type or member name
type Binding struct {
	Scope     string    `yaml:"scope" validate:"required,oneof=global-type global-name local-type local-name"`
	Container string    `yaml:"container" validate:"required_if=Scope local-type,required_if=Scope local-name"`
	Type      string    `yaml:"type" validate:"required_if=Scope global-type,required_if=Scope local-type"`
	Name      string    `yaml:"name" validate:"required_if=Scope global-name,required_if=Scope local-name"`
	Value     yaml.Node `yaml:"value" validate:"-"`
}

// Enum restricts a type to a fixed set of values
type Enum struct {
	Type   string      `yaml:"type" validate:"required"`
	Values []yaml.Node `yaml:"values" validate:"min=1"`
}

// Config is the file format
type Config struct {
	Seed             *uint64 `yaml:"seed"`
	RequireProviders bool    `yaml:"require_providers"`

	ArraySize      *Bounds `yaml:"array_size"`
	CollectionSize *Bounds `yaml:"collection_size"`
	MapSize        *Bounds `yaml:"map_size"`
	StringSize     *Bounds `yaml:"string_size"`

	Bindings []Binding `yaml:"bindings" validate:"dive"`
	Enums    []Enum    `yaml:"enums" validate:"dive"`
}

// Load reads and validates the config file at path
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, synerr.WrapConfigurationError("file", path, err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return nil, synerr.WrapConfigurationError("file", path, err)
	}
	return cfg, nil
}

// Decode reads and validates a config from r. Unknown keys are rejected.
func Decode(r io.Reader) (*Config, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Parse decodes a config held in memory
func Parse(data []byte) (*Config, error) {
	return Decode(bytes.NewReader(data))
}

// Validate checks the struct constraints of the config
func (c *Config) Validate() error {
	var errs *synerr.MultipleErrors
	if err := validate.Struct(c); err != nil {
		var valErrs validator.ValidationErrors
		if !errors.As(err, &valErrs) {
			return err
		}
		for _, ve := range valErrs {
			synerr.AddToMultiple(&errs, synerr.NewConfigurationError("config", fieldPath(ve), describe(ve)))
		}
	}
	// a missing value leaves the node zero
	for i := range c.Bindings {
		if c.Bindings[i].Value.Kind == 0 {
			synerr.AddToMultiple(&errs, synerr.NewConfigurationError("config", fmt.Sprintf("Bindings[%d].Value", i), "is required"))
		}
	}
	return errs.ErrOrNil()
}

// fieldPath strips the root struct name from the validator namespace
func fieldPath(ve validator.FieldError) string {
	ns := ve.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describe(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required", "required_if":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", ve.Param())
	case "gtefield":
		return fmt.Sprintf("must not be less than %s", ve.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", ve.Param())
	case "min":
		return fmt.Sprintf("must hold at least %s item(s)", ve.Param())
	default:
		return fmt.Sprintf("failed %s validation", ve.Tag())
	}
}

// Options turns the config into generator options. Type expressions are
// resolved against catalog.
func (c *Config) Options(catalog *descriptor.Catalog) ([]synth.Option, error) {
	var opts []synth.Option
	if c.Seed != nil {
		opts = append(opts, synth.WithSeed(*c.Seed))
	}
	if c.RequireProviders {
		opts = append(opts, synth.WithRequireProviders(true))
	}

	sizes := []struct {
		b   *Bounds
		opt func(min, max int) synth.Option
	}{
		{c.ArraySize, synth.WithArraySize},
		{c.CollectionSize, synth.WithCollectionSize},
		{c.MapSize, synth.WithMapSize},
		{c.StringSize, synth.WithStringSize},
	}
	for _, s := range sizes {
		if s.b != nil {
			opts = append(opts, s.opt(s.b.Min, s.b.Max))
		}
	}

	var errs *synerr.MultipleErrors
	fail := func(component, key string, err error) {
		synerr.AddToMultiple(&errs, synerr.WrapConfigurationError(component, key, err))
	}

	bindings := make([]synth.Binding, 0, len(c.Bindings))
	for i := range c.Bindings {
		binding, err := c.Bindings[i].binding(catalog)
		if err != nil {
			fail("binding", fmt.Sprintf("bindings[%d]", i), err)
			continue
		}
		bindings = append(bindings, binding)
	}
	if len(bindings) > 0 {
		opts = append(opts, synth.WithBindings(bindings...))
	}

	for i, e := range c.Enums {
		t, values, err := e.values(catalog)
		if err != nil {
			fail("enum", fmt.Sprintf("enums[%d]", i), err)
			continue
		}
		opts = append(opts, synth.WithEnumValues(t, values...))
	}

	if err := errs.ErrOrNil(); err != nil {
		return nil, err
	}
	return opts, nil
}

// ParseScope maps a scope name to its synth.Scope
func ParseScope(name string) (synth.Scope, error) {
	for _, s := range []synth.Scope{synth.GlobalType, synth.GlobalName, synth.LocalType, synth.LocalName} {
		if s.String() == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown scope %q", name)
}

func (b *Binding) binding(catalog *descriptor.Catalog) (synth.Binding, error) {
	scope, err := ParseScope(b.Scope)
	if err != nil {
		return synth.Binding{}, err
	}

	out := synth.Binding{Scope: scope, Name: b.Name}
	if b.Container != "" {
		if out.Container, err = descriptor.Parse(b.Container, catalog); err != nil {
			return synth.Binding{}, err
		}
	}
	if b.Type != "" {
		if out.Type, err = descriptor.Parse(b.Type, catalog); err != nil {
			return synth.Binding{}, err
		}
		// surface bad literals now rather than on first use
		if _, err := decodeNode(&b.Value, out.Type.Reflect()); err != nil {
			return synth.Binding{}, err
		}
	}
	out.Provider = nodeProvider(&b.Value)
	return out, nil
}

func (e Enum) values(catalog *descriptor.Catalog) (descriptor.Type, []reflect.Value, error) {
	t, err := descriptor.Parse(e.Type, catalog)
	if err != nil {
		return descriptor.Type{}, nil, err
	}
	if t.Reflect() == nil {
		return descriptor.Type{}, nil, fmt.Errorf("enum type %s is unbound", t)
	}

	values := make([]reflect.Value, len(e.Values))
	for i := range e.Values {
		if values[i], err = decodeNode(&e.Values[i], t.Reflect()); err != nil {
			return descriptor.Type{}, nil, fmt.Errorf("value #%d: %w", i, err)
		}
	}
	return t, values, nil
}

// nodeProvider decodes node into whatever type it is asked for
func nodeProvider(node *yaml.Node) synth.Provider {
	return synth.ProviderFunc(func(t descriptor.Type, _ *synth.Session) (reflect.Value, error) {
		rt := t.Reflect()
		if rt == nil {
			var v any
			if err := node.Decode(&v); err != nil {
				return reflect.Value{}, err
			}
			return reflect.ValueOf(v), nil
		}
		return decodeNode(node, rt)
	})
}

func decodeNode(node *yaml.Node, rt reflect.Type) (reflect.Value, error) {
	ptr := reflect.New(rt)
	if err := node.Decode(ptr.Interface()); err != nil {
		return reflect.Value{}, fmt.Errorf("cannot decode line %d into %s: %w", node.Line, rt, err)
	}
	return ptr.Elem(), nil
}
