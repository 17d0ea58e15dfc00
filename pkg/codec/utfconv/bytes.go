package utfconv

import (
	xunicode "golang.org/x/text/encoding/unicode"
)

// ByteOrder selects the serialization of UTF-16 code units.
type ByteOrder int

const (
	LittleEndian ByteOrder = iota
	BigEndian
)

func (o ByteOrder) endianness() xunicode.Endianness {
	if o == BigEndian {
		return xunicode.BigEndian
	}
	return xunicode.LittleEndian
}

// EncodeUTF16Bytes serializes s as UTF-16 in the given byte order, with a
// leading byte order mark when withBOM is set.
func EncodeUTF16Bytes(s string, order ByteOrder, withBOM bool) ([]byte, error) {
	bom := xunicode.IgnoreBOM
	if withBOM {
		bom = xunicode.UseBOM
	}
	return xunicode.UTF16(order.endianness(), bom).NewEncoder().Bytes([]byte(s))
}

// DecodeUTF16Bytes parses UTF-16 bytes. A leading byte order mark overrides
// order and is stripped.
func DecodeUTF16Bytes(b []byte, order ByteOrder) (string, error) {
	out, err := xunicode.UTF16(order.endianness(), xunicode.UseBOM).NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
