package errors

import "fmt"

// ConfigurationError is raised while a generator is being built: duplicate
// bindings, unknown binding scopes, invalid size bounds and misbehaving
// resolvers all end up here.
type ConfigurationError struct {
	*BaseError
	Component string // e.g. "binding", "bounds", "resolver"
	Key       string // offending key, if any
}

// NewConfigurationError creates a new configuration error
func NewConfigurationError(component, key, reason string) *ConfigurationError {
	message := fmt.Sprintf("invalid %s configuration: %s", component, reason)
	if key != "" {
		message = fmt.Sprintf("invalid %s configuration for '%s': %s", component, key, reason)
	}

	return &ConfigurationError{
		BaseError: New(ConfigurationErrorCode, message).
			WithContext("component", component).
			WithContext("key", key),
		Component: component,
		Key:       key,
	}
}

// SyntaxError reports a malformed type expression
type SyntaxError struct {
	*BaseError
	Expr   string
	Offset int
}

// NewSyntaxError creates a new syntax error for expr
func NewSyntaxError(expr string, offset int, cause error) *SyntaxError {
	return &SyntaxError{
		BaseError: Wrap(SyntaxErrorCode, fmt.Sprintf("invalid type expression %q", expr), cause).
			WithContext("offset", offset),
		Expr:   expr,
		Offset: offset,
	}
}

// CycleError is raised when a cycle is detected and no terminator accepts it
type CycleError struct {
	*BaseError
	Type string // type that closed the cycle
	Path string // rendered cycle segment, e.g. "A -> B -> A"
}

// NewCycleError creates a new unresolvable-cycle error
func NewCycleError(typeName, path string) *CycleError {
	return &CycleError{
		BaseError: New(CycleErrorCode, fmt.Sprintf("no terminator accepts cycle on '%s': %s", typeName, path)).
			WithContext("type", typeName).
			WithContext("path", path).
			WithSuggestion("register a terminator with WithTerminators that accepts this cycle"),
		Type: typeName,
		Path: path,
	}
}

// UnresolvableTypeError is raised for types the generator has no way to build
type UnresolvableTypeError struct {
	*BaseError
	Type   string
	Reason string
}

// NewUnresolvableTypeError creates a new unresolvable-type error
func NewUnresolvableTypeError(typeName, reason string) *UnresolvableTypeError {
	return &UnresolvableTypeError{
		BaseError: New(UnresolvableTypeErrorCode, fmt.Sprintf("cannot generate '%s': %s", typeName, reason)).
			WithContext("type", typeName),
		Type:   typeName,
		Reason: reason,
	}
}

// ConstructionError wraps a failure while building an instance. Field is empty
// when the constructor itself failed.
type ConstructionError struct {
	*BaseError
	Type  string
	Field string
}

// NewConstructionError creates a construction error for a failed constructor call
func NewConstructionError(typeName string, cause error) *ConstructionError {
	return &ConstructionError{
		BaseError: Wrap(ConstructionErrorCode, fmt.Sprintf("failed to construct '%s'", typeName), cause).
			WithContext("type", typeName),
		Type: typeName,
	}
}

// NewFieldConstructionError creates a construction error for a failed field assignment
func NewFieldConstructionError(typeName, field string, cause error) *ConstructionError {
	return &ConstructionError{
		BaseError: Wrap(ConstructionErrorCode, fmt.Sprintf("failed to assign field '%s' of '%s'", field, typeName), cause).
			WithContext("type", typeName).
			WithContext("field", field),
		Type:  typeName,
		Field: field,
	}
}

// MissingProviderError is raised for a primitive type without a provider when
// the generator requires explicit providers
type MissingProviderError struct {
	*BaseError
	Type string
}

// NewMissingProviderError creates a new missing-provider error
func NewMissingProviderError(typeName string) *MissingProviderError {
	return &MissingProviderError{
		BaseError: New(MissingProviderErrorCode, fmt.Sprintf("no provider recognizes primitive type '%s'", typeName)).
			WithContext("type", typeName).
			WithSuggestion("register a provider with WithProvider or drop WithRequireProviders"),
		Type: typeName,
	}
}
