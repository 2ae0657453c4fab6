package camera

import "errors"

var (
	// ErrInvalidParameter is returned when a transform cannot be built
	// from the supplied values (lens distance of zero, NaN inputs).
	ErrInvalidParameter = errors.New("invalid camera parameter")

	// ErrDegenerateProjection is returned for a point on the focal plane,
	// where the perspective divide is undefined.
	ErrDegenerateProjection = errors.New("degenerate projection")
)
