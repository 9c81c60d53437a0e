package errors

import "fmt"

// Common error constructors used throughout the codebase

// DuplicateError reports a key registered twice within one component
func DuplicateError(component string, key interface{}) *ConfigurationError {
	return NewConfigurationError(component, fmt.Sprint(key), "already registered")
}

// BoundsError reports an invalid [min, max] size range
func BoundsError(name string, min, max int) *ConfigurationError {
	var reason string
	switch {
	case min < 0 || max < 0:
		reason = fmt.Sprintf("bounds must not be negative, got [%d, %d]", min, max)
	default:
		reason = fmt.Sprintf("min %d exceeds max %d", min, max)
	}
	err := NewConfigurationError("bounds", name, reason)
	err.WithContext("min", min).WithContext("max", max)
	return err
}

// ResolverError reports a resolver that returned an unusable type
func ResolverError(index int, resolver, abstract, result, reason string) *ConfigurationError {
	key := fmt.Sprintf("#%d (%s)", index, resolver)
	err := NewConfigurationError("resolver", key,
		fmt.Sprintf("resolved '%s' to '%s': %s", abstract, result, reason))
	err.WithContext("abstract", abstract).WithContext("result", result)
	return err
}

// WrapConfigurationError wraps an underlying failure of a configuration component
func WrapConfigurationError(component, key string, cause error) *ConfigurationError {
	message := fmt.Sprintf("invalid %s configuration for '%s'", component, key)
	return &ConfigurationError{
		BaseError: Wrap(ConfigurationErrorCode, message, cause).
			WithContext("component", component).
			WithContext("key", key),
		Component: component,
		Key:       key,
	}
}

// AddToMultiple adds an error to a MultipleErrors, creating it if nil
func AddToMultiple(multiple **MultipleErrors, err SynthError) {
	if *multiple == nil {
		*multiple = NewMultipleErrors()
	}
	(*multiple).Add(err)
}
