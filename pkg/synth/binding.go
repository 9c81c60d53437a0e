package synth

import (
	"fmt"

	synerr "github.com/toyz/synth/internal/errors"
	"github.com/toyz/synth/internal/utils"
	"github.com/toyz/synth/pkg/descriptor"
)

// Scope selects which members a binding applies to
type Scope uint8

const (
	// GlobalType applies wherever the type is generated
	GlobalType Scope = iota + 1
	// GlobalName applies to any member with the name, in any container
	GlobalName
	// LocalType applies to members of the type inside one container type
	LocalType
	// LocalName applies to the named member of one container type
	LocalName
)

func (s Scope) String() string {
	switch s {
	case GlobalType:
		return "global-type"
	case GlobalName:
		return "global-name"
	case LocalType:
		return "local-type"
	case LocalName:
		return "local-name"
	default:
		return fmt.Sprintf("Scope(%d)", uint8(s))
	}
}

// Binding pins a provider to a type or member name
type Binding struct {
	Scope     Scope
	Container descriptor.Type // LocalType and LocalName only
	Type      descriptor.Type // GlobalType and LocalType only
	Name      string          // GlobalName and LocalName only
	Provider  Provider
}

// BindType overrides generation of t everywhere
func BindType(t descriptor.Type, p Provider) Binding {
	return Binding{Scope: GlobalType, Type: t, Provider: p}
}

// BindName overrides every member called name
func BindName(name string, p Provider) Binding {
	return Binding{Scope: GlobalName, Name: name, Provider: p}
}

// BindLocalType overrides members of type t declared on container
func BindLocalType(container, t descriptor.Type, p Provider) Binding {
	return Binding{Scope: LocalType, Container: container, Type: t, Provider: p}
}

// BindLocalName overrides the member called name declared on container
func BindLocalName(container descriptor.Type, name string, p Provider) Binding {
	return Binding{Scope: LocalName, Container: container, Name: name, Provider: p}
}

func (b Binding) key() (bindingKey, error) {
	switch b.Scope {
	case GlobalType:
		if b.Type.IsZero() {
			return bindingKey{}, fmt.Errorf("global-type binding requires a type")
		}
		return bindingKey{scope: b.Scope, t: b.Type}, nil
	case GlobalName:
		if b.Name == "" {
			return bindingKey{}, fmt.Errorf("global-name binding requires a name")
		}
		return bindingKey{scope: b.Scope, name: b.Name}, nil
	case LocalType:
		if b.Container.IsZero() || b.Type.IsZero() {
			return bindingKey{}, fmt.Errorf("local-type binding requires a container and a type")
		}
		return bindingKey{scope: b.Scope, container: b.Container, t: b.Type}, nil
	case LocalName:
		if b.Container.IsZero() || b.Name == "" {
			return bindingKey{}, fmt.Errorf("local-name binding requires a container and a name")
		}
		return bindingKey{scope: b.Scope, container: b.Container, name: b.Name}, nil
	default:
		return bindingKey{}, fmt.Errorf("unknown binding scope %s", b.Scope)
	}
}

type bindingKey struct {
	scope     Scope
	container descriptor.Type
	t         descriptor.Type
	name      string
}

func (k bindingKey) String() string {
	switch k.scope {
	case GlobalType:
		return k.t.String()
	case GlobalName:
		return k.name
	case LocalType:
		return k.container.String() + "/" + k.t.String()
	default:
		return k.container.String() + "." + k.name
	}
}

// Table holds bindings in four tiers. It is immutable once built and safe for
// concurrent lookups.
type Table struct {
	entries *utils.Registry[bindingKey, Provider]
}

// NewTable validates and indexes bindings. Two bindings with the same scope
// and key are rejected, as is a binding with an unknown scope or no provider.
func NewTable(bindings ...Binding) (*Table, error) {
	entries := utils.NewRegistry[bindingKey, Provider]("binding")
	var errs *synerr.MultipleErrors

	for _, b := range bindings {
		key, err := b.key()
		if err != nil {
			synerr.AddToMultiple(&errs, synerr.NewConfigurationError("binding", "", err.Error()))
			continue
		}
		if b.Provider == nil {
			synerr.AddToMultiple(&errs, synerr.NewConfigurationError("binding", key.String(), "provider is nil"))
			continue
		}
		if entries.Has(key) {
			synerr.AddToMultiple(&errs, synerr.DuplicateError(b.Scope.String()+" binding", key))
			continue
		}
		if err := entries.Register(key, b.Provider); err != nil {
			synerr.AddToMultiple(&errs, synerr.WrapConfigurationError("binding", key.String(), err))
		}
	}

	if errs != nil {
		return nil, errs.ErrOrNil()
	}
	entries.Freeze()
	return &Table{entries: entries}, nil
}

// Global returns the global-type binding for t
func (tb *Table) Global(t descriptor.Type) (Provider, bool) {
	return tb.entries.Get(bindingKey{scope: GlobalType, t: t})
}

// Resolve returns the binding for a member of container, consulting in order
// the local name, global name and local type tiers. Global type bindings are
// not consulted here; they apply when the member's type is generated.
func (tb *Table) Resolve(container, member descriptor.Type, name string) (Provider, bool) {
	if name != "" {
		if p, ok := tb.entries.Get(bindingKey{scope: LocalName, container: container, name: name}); ok {
			return p, true
		}
		if p, ok := tb.entries.Get(bindingKey{scope: GlobalName, name: name}); ok {
			return p, true
		}
	}
	return tb.entries.Get(bindingKey{scope: LocalType, container: container, t: member})
}

// Len returns the number of bindings
func (tb *Table) Len() int { return tb.entries.Size() }
