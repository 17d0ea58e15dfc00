package validation

import (
	"fmt"
	"time"

	gferrors "github.com/vnykmshr/streamkit/pkg/common/errors"
)

// ValidatePositive validates that an integer value is positive (> 0).
// Returns a ValidationError if the value is not positive.
func ValidatePositive(module, field string, value int) error {
	if value <= 0 {
		return gferrors.NewValidationError(module, field, value, "must be positive").
			WithHint("value must be greater than 0")
	}
	return nil
}

// ValidateNotNil validates that an interface value is not nil.
// Returns a ValidationError if the value is nil.
func ValidateNotNil(module, field string, value interface{}) error {
	if value == nil {
		return gferrors.NewValidationError(module, field, nil, "cannot be nil").
			WithHint("provide a valid " + field)
	}
	return nil
}

// ValidateNotEmpty validates that a string value is not empty.
// Returns a ValidationError if the string is empty.
func ValidateNotEmpty(module, field string, value string) error {
	if value == "" {
		return gferrors.NewValidationError(module, field, value, "cannot be empty").
			WithHint("provide a non-empty " + field)
	}
	return nil
}

// ValidatePositiveDuration validates that a duration is greater than zero.
func ValidatePositiveDuration(module, field string, value time.Duration) error {
	if value <= 0 {
		return gferrors.NewValidationError(module, field, value, "must be positive").
			WithHint("use a duration such as 20ms")
	}
	return nil
}

// ValidateBitString validates that a string is non-empty and consists only of
// the characters '0' and '1'. The returned error unwraps to ErrInvalidType.
func ValidateBitString(module, field string, value string) error {
	if value == "" {
		return gferrors.NewArgumentError(gferrors.ErrInvalidType, module, field, value, "cannot be empty").
			WithHint("a bit string needs at least one of '0' or '1'")
	}
	for i := 0; i < len(value); i++ {
		if c := value[i]; c != '0' && c != '1' {
			return gferrors.NewArgumentError(gferrors.ErrInvalidType, module, field, value,
				fmt.Sprintf("unexpected character %q at %d", c, i)).
				WithHint("only '0' and '1' are allowed")
		}
	}
	return nil
}
