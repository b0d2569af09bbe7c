package calibrate

import "errors"

var (
	ErrInvalidArgument = errors.New("calibrate: invalid argument")
	ErrSingular        = errors.New("calibrate: singular system")
)
