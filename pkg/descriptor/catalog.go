package descriptor

import (
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"

	"github.com/toyz/synth/internal/utils"
)

// Catalog maps type names to Go types so type expressions can be resolved at
// runtime. Every type is reachable under its qualified name
// (github.com/google/uuid.UUID) and, for package-level types, under its short
// name (uuid.UUID). Registering a name twice is an error.
type Catalog struct {
	names *utils.Registry[string, reflect.Type]
}

var builtins = []reflect.Type{
	reflect.TypeOf(false),
	reflect.TypeOf(""),
	reflect.TypeOf(int(0)),
	reflect.TypeOf(int8(0)),
	reflect.TypeOf(int16(0)),
	reflect.TypeOf(int32(0)),
	reflect.TypeOf(int64(0)),
	reflect.TypeOf(uint(0)),
	reflect.TypeOf(uint8(0)),
	reflect.TypeOf(uint16(0)),
	reflect.TypeOf(uint32(0)),
	reflect.TypeOf(uint64(0)),
	reflect.TypeOf(uintptr(0)),
	reflect.TypeOf(float32(0)),
	reflect.TypeOf(float64(0)),
	reflect.TypeOf(complex64(0)),
	reflect.TypeOf(complex128(0)),
	reflect.TypeOf((*error)(nil)).Elem(),
	reflect.TypeOf(time.Time{}),
	reflect.TypeOf(time.Duration(0)),
	reflect.TypeOf(uuid.UUID{}),
}

// aliases are builtin names identical to another type
var aliases = map[string]reflect.Type{
	"byte": reflect.TypeOf(uint8(0)),
	"rune": reflect.TypeOf(int32(0)),
	"any":  reflect.TypeOf((*any)(nil)).Elem(),
}

// NewCatalog creates a catalog seeded with the predeclared Go types,
// time.Time, time.Duration and uuid.UUID
func NewCatalog() *Catalog {
	c := NewEmptyCatalog()
	for _, rt := range builtins {
		if err := c.Add(rt); err != nil {
			panic(err)
		}
	}
	for name, rt := range aliases {
		if err := c.Register(name, rt); err != nil {
			panic(err)
		}
	}
	return c
}

// NewEmptyCatalog creates a catalog without any names
func NewEmptyCatalog() *Catalog {
	return &Catalog{
		names: utils.NewRegistry[string, reflect.Type]("catalog",
			utils.NotEmptyKeyValidator[reflect.Type]("type name"),
			utils.NoDuplicateValidator[string, reflect.Type]("type name"),
		),
	}
}

// Register binds an explicit name to rt
func (c *Catalog) Register(name string, rt reflect.Type) error {
	if rt == nil {
		return fmt.Errorf("catalog: nil type for %q", name)
	}
	return c.names.Register(name, rt)
}

// Add registers rt under its qualified name and, when it differs, its short name
func (c *Catalog) Add(rt reflect.Type) error {
	if rt == nil {
		return fmt.Errorf("catalog: nil type")
	}
	if rt.Name() == "" {
		return fmt.Errorf("catalog: type %s has no name, use Register", rt)
	}
	full, short := qualified(rt), shortName(rt)
	// both names go in or neither does
	if short != full && c.names.Has(short) {
		return fmt.Errorf("catalog: type name '%s' is already registered", short)
	}
	if err := c.names.Register(full, rt); err != nil {
		return err
	}
	if short != full {
		return c.names.Register(short, rt)
	}
	return nil
}

// AddType registers T, see Add
func AddType[T any](c *Catalog) error {
	return c.Add(reflect.TypeOf((*T)(nil)).Elem())
}

// Lookup returns the Go type registered under name
func (c *Catalog) Lookup(name string) (reflect.Type, bool) {
	return c.names.Get(name)
}

// Names returns every registered name in registration order
func (c *Catalog) Names() []string {
	return c.names.List()
}

// Clone returns an independent copy of c
func (c *Catalog) Clone() *Catalog {
	return &Catalog{names: c.names.Clone()}
}

// shortName is the name as Go prints it, package name plus type name. It
// matches Type.String.
func shortName(rt reflect.Type) string {
	return rt.String()
}
