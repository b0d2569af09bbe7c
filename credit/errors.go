package credit

import "errors"

var (
	ErrInvalidArgument = errors.New("credit: invalid argument")
	ErrNoConvergence   = errors.New("credit: root search did not converge")
)
