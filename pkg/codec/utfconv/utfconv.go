// Package utfconv converts between UTF-16 code units and UTF-8 bytes.
//
// Conversions are lossless for any sequence of UTF-16 code units: unpaired
// surrogates are carried through as three-byte sequences instead of being
// replaced, so UTF8ToUTF16(UTF16ToUTF8(u)) always returns u.
package utfconv

import (
	"fmt"
	"unicode"
	"unicode/utf16"

	gferrors "github.com/vnykmshr/streamkit/pkg/common/errors"
)

const (
	surrogateHighMin = 0xD800
	surrogateLowMin  = 0xDC00
	surrogateLowMax  = 0xDFFF
)

// UTF16ToUTF8 encodes code units as UTF-8. Surrogate pairs become one
// four-byte sequence.
func UTF16ToUTF8(units []uint16) []byte {
	out := make([]byte, 0, len(units)*3)

	for i := 0; i < len(units); i++ {
		cp := rune(units[i])
		if cp >= surrogateHighMin && cp < surrogateLowMin && i+1 < len(units) {
			if lo := rune(units[i+1]); lo >= surrogateLowMin && lo <= surrogateLowMax {
				cp = utf16.DecodeRune(cp, lo)
				i++
			}
		}
		out = appendCodePoint(out, cp)
	}

	return out
}

// appendCodePoint writes cp in the 1/2/3/4-byte class its range selects.
// utf8.AppendRune would replace surrogates, which must survive here.
func appendCodePoint(out []byte, cp rune) []byte {
	switch {
	case cp <= 0x7F:
		return append(out, byte(cp))
	case cp <= 0x7FF:
		return append(out,
			0xC0|byte(cp>>6),
			0x80|byte(cp)&0x3F)
	case cp <= 0xFFFF:
		return append(out,
			0xE0|byte(cp>>12),
			0x80|byte(cp>>6)&0x3F,
			0x80|byte(cp)&0x3F)
	default:
		return append(out,
			0xF0|byte(cp>>18),
			0x80|byte(cp>>12)&0x3F,
			0x80|byte(cp>>6)&0x3F,
			0x80|byte(cp)&0x3F)
	}
}

// UTF8ToUTF16 decodes UTF-8 into code units. Code points above U+FFFF become
// surrogate pairs. Stray continuation bytes, five- and six-byte lead bytes,
// malformed continuation bytes, truncated sequences and code points above
// U+10FFFF are rejected with an error wrapping ErrInvalidFormat.
func UTF8ToUTF16(b []byte) ([]uint16, error) {
	out := make([]uint16, 0, len(b))

	for i := 0; i < len(b); {
		lead := b[i]

		var n int
		var cp rune
		switch {
		case lead < 0x80:
			n, cp = 1, rune(lead)
		case lead < 0xC0:
			return nil, formatError(i, "unexpected continuation byte 0x%02X", lead)
		case lead < 0xE0:
			n, cp = 2, rune(lead&0x1F)
		case lead < 0xF0:
			n, cp = 3, rune(lead&0x0F)
		case lead < 0xF8:
			n, cp = 4, rune(lead&0x07)
		default:
			return nil, formatError(i, "unsupported lead byte 0x%02X", lead)
		}

		if i+n > len(b) {
			return nil, formatError(i, "truncated %d-byte sequence", n)
		}
		for j := 1; j < n; j++ {
			c := b[i+j]
			if c&0xC0 != 0x80 {
				return nil, formatError(i+j, "invalid continuation byte 0x%02X", c)
			}
			cp = cp<<6 | rune(c&0x3F)
		}

		switch {
		case cp > unicode.MaxRune:
			return nil, formatError(i, "code point U+%X out of range", cp)
		case cp > 0xFFFF:
			hi, lo := utf16.EncodeRune(cp)
			out = append(out, uint16(hi), uint16(lo))
		default:
			out = append(out, uint16(cp))
		}
		i += n
	}

	return out, nil
}

// EncodeString returns the UTF-16 code units of s. Invalid UTF-8 in s
// becomes U+FFFD.
func EncodeString(s string) []uint16 {
	return utf16.Encode([]rune(s))
}

// DecodeString returns the string for units. Unpaired surrogates become
// U+FFFD; use UTF16ToUTF8 to keep them.
func DecodeString(units []uint16) string {
	return string(utf16.Decode(units))
}

func formatError(offset int, format string, args ...interface{}) error {
	return gferrors.NewOperationError("utfconv", "UTF8ToUTF16", gferrors.ErrInvalidFormat).
		WithContext(fmt.Sprintf("offset %d: ", offset) + fmt.Sprintf(format, args...))
}
