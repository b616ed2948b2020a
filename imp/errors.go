package imp

import "errors"

var (
	// ErrInvalidGeometry is returned for images that can't be resampled.
	ErrInvalidGeometry = errors.New("invalid image geometry")

	// ErrDegenerateRange is returned when the measured white point doesn't
	// lie above the black point, so no stretch can be computed.
	ErrDegenerateRange = errors.New("degenerate range")

	// ErrDecode is returned when an image file can't be read or parsed.
	ErrDecode = errors.New("couldn't decode image")
)
