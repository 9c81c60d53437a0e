package synth

import synerr "github.com/toyz/synth/internal/errors"

// Error types returned by the generator. Use errors.As to inspect them; New
// may return several at once joined in a *MultipleErrors.
type (
	ConfigurationError    = synerr.ConfigurationError
	SyntaxError           = synerr.SyntaxError
	CycleError            = synerr.CycleError
	UnresolvableTypeError = synerr.UnresolvableTypeError
	ConstructionError     = synerr.ConstructionError
	MissingProviderError  = synerr.MissingProviderError
	MultipleErrors        = synerr.MultipleErrors
)
