// Package base64 encodes text as Base64 over its UTF-8 bytes, with a
// URL-compliant variant.
//
// Encode and Decode use the standard alphabet with '=' padding. The
// URL-compliant form substitutes '-' and '_' for '+' and '/' and drops the
// padding; RestoreURLCompliant reverses both.
package base64

import (
	stdbase64 "encoding/base64"
	"strings"

	gferrors "github.com/vnykmshr/streamkit/pkg/common/errors"
	"github.com/vnykmshr/streamkit/pkg/codec/utfconv"
)

// Encode returns the Base64 form of the UTF-8 bytes of s.
func Encode(s string) string {
	return stdbase64.StdEncoding.EncodeToString([]byte(s))
}

// EncodeUTF16 converts code units to UTF-8 and encodes the result.
// Unpaired surrogates are preserved.
func EncodeUTF16(units []uint16) string {
	return stdbase64.StdEncoding.EncodeToString(utfconv.UTF16ToUTF8(units))
}

// EncodeURLCompliant returns the unpadded URL-safe Base64 form of s.
func EncodeURLCompliant(s string) string {
	return stdbase64.RawURLEncoding.EncodeToString([]byte(s))
}

// Decode reverses Encode. The payload must be valid UTF-8 as accepted by
// utfconv.UTF8ToUTF16.
func Decode(s string) (string, error) {
	raw, err := decodeStd("Decode", s)
	if err != nil {
		return "", err
	}
	units, err := utfconv.UTF8ToUTF16(raw)
	if err != nil {
		return "", gferrors.NewOperationError("base64", "Decode", err)
	}
	return utfconv.DecodeString(units), nil
}

// DecodeUTF16 reverses EncodeUTF16.
func DecodeUTF16(s string) ([]uint16, error) {
	raw, err := decodeStd("DecodeUTF16", s)
	if err != nil {
		return nil, err
	}
	units, err := utfconv.UTF8ToUTF16(raw)
	if err != nil {
		return nil, gferrors.NewOperationError("base64", "DecodeUTF16", err)
	}
	return units, nil
}

// RestoreURLCompliant maps '-' and '_' back to '+' and '/' and restores
// '=' padding, producing input for Decode.
func RestoreURLCompliant(s string) string {
	s = strings.NewReplacer("-", "+", "_", "/").Replace(s)
	if pad := len(s) % 4; pad != 0 {
		s += strings.Repeat("=", 4-pad)
	}
	return s
}

// DecodeURLCompliant reverses EncodeURLCompliant.
func DecodeURLCompliant(s string) (string, error) {
	return Decode(RestoreURLCompliant(s))
}

func decodeStd(op, s string) ([]byte, error) {
	raw, err := stdbase64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, gferrors.NewOperationError("base64", op, gferrors.ErrInvalidFormat).
			WithContext(err.Error())
	}
	return raw, nil
}
