package validation

import (
	stderrors "errors"
	"testing"
	"time"

	"github.com/vnykmshr/streamkit/pkg/common/errors"
)

// checkConfigError asserts err is a ValidationError unwrapping to
// ErrInvalidConfiguration, or nil when wantError is false.
func checkConfigError(t *testing.T, err error, wantError bool) {
	t.Helper()

	if !wantError {
		if err != nil {
			t.Errorf("expected no error, got %v", err)
		}
		return
	}
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.IsValidationError(err) {
		t.Errorf("expected ValidationError, got %T", err)
	}
	if !stderrors.Is(err, errors.ErrInvalidConfiguration) {
		t.Errorf("error should wrap ErrInvalidConfiguration, got %v", err)
	}
}

func TestValidatePositive(t *testing.T) {
	tests := []struct {
		name      string
		value     int
		wantError bool
	}{
		{"positive value", 10, false},
		{"one", 1, false},
		{"zero", 0, true},
		{"negative", -1, true},
		{"large negative", -1000000, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkConfigError(t, ValidatePositive("stream", "MaxBufferSize", tt.value), tt.wantError)
		})
	}
}

func TestValidateNotNil(t *testing.T) {
	tests := []struct {
		name      string
		value     interface{}
		wantError bool
	}{
		{"non-nil int", 123, false},
		{"non-nil struct", struct{}{}, false},
		{"non-nil map", map[string]int{}, false},
		{"nil value", nil, true},
		{"nil pointer", (*int)(nil), false}, // typed nil is not nil interface
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkConfigError(t, ValidateNotNil("bridge", "Redis", tt.value), tt.wantError)
		})
	}
}

func TestValidateNotEmpty(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		wantError bool
	}{
		{"non-empty", "streamkit:lines", false},
		{"whitespace", " ", false}, // Whitespace is not empty
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkConfigError(t, ValidateNotEmpty("bridge", "Key", tt.value), tt.wantError)
		})
	}
}

func TestValidatePositiveDuration(t *testing.T) {
	tests := []struct {
		name      string
		value     time.Duration
		wantError bool
	}{
		{"positive", 20 * time.Millisecond, false},
		{"one nanosecond", time.Nanosecond, false},
		{"zero", 0, true},
		{"negative", -time.Second, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkConfigError(t, ValidatePositiveDuration("stream", "PollInterval", tt.value), tt.wantError)
		})
	}
}

func TestValidationErrorDetails(t *testing.T) {
	t.Run("ValidatePositive", func(t *testing.T) {
		err := ValidatePositive("stream", "MaxBufferSize", -5)

		var valErr *errors.ValidationError
		if !stderrors.As(err, &valErr) {
			t.Fatalf("expected ValidationError, got %T", err)
		}
		if valErr.Module != "stream" {
			t.Errorf("Module = %q, want %q", valErr.Module, "stream")
		}
		if valErr.Field != "MaxBufferSize" {
			t.Errorf("Field = %q, want %q", valErr.Field, "MaxBufferSize")
		}
		if valErr.Value != -5 {
			t.Errorf("Value = %v, want %v", valErr.Value, -5)
		}
		if valErr.Reason != "must be positive" {
			t.Errorf("Reason = %q, want %q", valErr.Reason, "must be positive")
		}
		if valErr.Hint != "value must be greater than 0" {
			t.Errorf("Hint = %q, want %q", valErr.Hint, "value must be greater than 0")
		}
	})

	t.Run("ValidateNotEmpty", func(t *testing.T) {
		err := ValidateNotEmpty("bridge", "Key", "")

		var valErr *errors.ValidationError
		if !stderrors.As(err, &valErr) {
			t.Fatalf("expected ValidationError, got %T", err)
		}
		if valErr.Reason != "cannot be empty" {
			t.Errorf("Reason = %q, want %q", valErr.Reason, "cannot be empty")
		}
		if valErr.Hint != "provide a non-empty Key" {
			t.Errorf("Hint = %q, want %q", valErr.Hint, "provide a non-empty Key")
		}
	})

	t.Run("ValidatePositiveDuration", func(t *testing.T) {
		err := ValidatePositiveDuration("stream", "PollInterval", 0)
		want := "stream: invalid PollInterval=0s (must be positive) - use a duration such as 20ms"
		if err.Error() != want {
			t.Errorf("Error() = %q, want %q", err.Error(), want)
		}
	})
}

func TestValidateBitString(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		wantError bool
	}{
		{"single zero", "0", false},
		{"single one", "1", false},
		{"mixed", "01101", false},
		{"empty", "", true},
		{"digit two", "012", true},
		{"letters", "abc", true},
		{"whitespace", "0 1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBitString("stream", "items[0]", tt.value)
			if (err != nil) != tt.wantError {
				t.Fatalf("ValidateBitString(%q) error = %v, wantError %v", tt.value, err, tt.wantError)
			}
			if err == nil {
				return
			}
			if !stderrors.Is(err, errors.ErrInvalidType) {
				t.Errorf("error should wrap ErrInvalidType, got %v", err)
			}
			if stderrors.Is(err, errors.ErrInvalidConfiguration) {
				t.Error("element errors must not wrap ErrInvalidConfiguration")
			}
		})
	}
}
