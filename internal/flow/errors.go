package flow

import "errors"

// ValidationError reports malformed or out-of-range user input. The
// session is left untouched and the same stage is re-prompted.
type ValidationError struct {
	Hint string
}

func (e *ValidationError) Error() string {
	return "invalid input: " + e.Hint
}

// CapacityError reports that the photo limit for the current acrylic has
// been reached. The photo sequence is left untouched.
type CapacityError struct {
	Limit int
}

func (e *CapacityError) Error() string {
	return "photo limit reached"
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsCapacity reports whether err is a CapacityError.
func IsCapacity(err error) bool {
	var ce *CapacityError
	return errors.As(err, &ce)
}
