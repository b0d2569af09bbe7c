package smile

import "errors"

var (
	// ErrInvalidArgument reports malformed inputs: out-of-domain model parameters,
	// bad parameter indices, non-positive forwards.
	ErrInvalidArgument = errors.New("smile: invalid argument")
	// ErrDomain reports a value that does not exist mathematically, as opposed to
	// a legitimate asymptotic value which is always returned.
	ErrDomain = errors.New("smile: value outside the domain of the approximation")
)
