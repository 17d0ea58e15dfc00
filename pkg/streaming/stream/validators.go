package stream

import (
	"errors"
	"fmt"

	gferrors "github.com/vnykmshr/streamkit/pkg/common/errors"
	"github.com/vnykmshr/streamkit/pkg/common/validation"
)

// Validator rejects elements a stream must not accept. A non-nil error
// stops the write before anything is buffered.
type Validator[T any] func(T) error

// All combines validators; the first failure wins.
func All[T any](validators ...Validator[T]) Validator[T] {
	return func(v T) error {
		for _, validate := range validators {
			if validate == nil {
				continue
			}
			if err := validate(v); err != nil {
				return err
			}
		}
		return nil
	}
}

// Integer is the set of integer element types an octet stream may carry.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Octet accepts integers in [0, 255].
func Octet[T Integer](v T) error {
	if v < 0 || uint64(v) > 255 {
		return gferrors.NewArgumentError(gferrors.ErrInvalidType, "stream", "octet", v, "must be in [0, 255]")
	}
	return nil
}

// BitString accepts non-empty strings made only of '0' and '1'.
func BitString(v string) error {
	return validation.ValidateBitString("stream", "bits", v)
}

// NewBytes creates a byte stream. The element type already bounds values to
// a single octet, so only cfg.Validator applies.
func NewBytes(cfg Config[byte]) (*Stream[byte], error) {
	return NewWithConfig(cfg)
}

// NewOctets creates an integer stream that rejects values outside [0, 255].
func NewOctets[T Integer](cfg Config[T]) (*Stream[T], error) {
	cfg.Validator = All[T](Octet[T], cfg.Validator)
	return NewWithConfig(cfg)
}

// NewBits creates a stream of bit strings such as "0110".
func NewBits(cfg Config[string]) (*Stream[string], error) {
	cfg.Validator = All[string](BitString, cfg.Validator)
	return NewWithConfig(cfg)
}

// checkItems runs the validator over every item before anything is buffered.
func (s *Stream[T]) checkItems(items []T) error {
	if s.validate == nil {
		return nil
	}
	for i, item := range items {
		err := s.validate(item)
		if err == nil {
			continue
		}
		if !errors.Is(err, gferrors.ErrInvalidType) {
			err = gferrors.NewArgumentError(gferrors.ErrInvalidType, "stream",
				fmt.Sprintf("items[%d]", i), item, err.Error())
		}
		return fmt.Errorf("stream %s: item %d: %w", s.name, i, err)
	}
	return nil
}
