package pricing

import "errors"

var (
	ErrInvalidArgument = errors.New("pricing: invalid argument")
	ErrNoConvergence   = errors.New("pricing: no convergence")
)
