package base64

import (
	stdbase64 "encoding/base64"
	"errors"
	"fmt"
)

// Data is a byte slice that serializes to/from standard Base64 in JSON.
type Data []byte

// MarshalJSON implements json.Marshaler.
func (d Data) MarshalJSON() ([]byte, error) {
	return []byte(`"` + stdbase64.StdEncoding.EncodeToString(d) + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Data) UnmarshalJSON(data []byte) error {
	decoded, err := unmarshalJSON(data, stdbase64.StdEncoding)
	if err != nil || decoded == nil {
		return err
	}
	*d = decoded
	return nil
}

// String returns the Base64-encoded string representation.
func (d Data) String() string {
	return stdbase64.StdEncoding.EncodeToString(d)
}

// URLData is a byte slice that serializes to/from unpadded URL-safe Base64
// in JSON.
type URLData []byte

// MarshalJSON implements json.Marshaler.
func (d URLData) MarshalJSON() ([]byte, error) {
	return []byte(`"` + stdbase64.RawURLEncoding.EncodeToString(d) + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *URLData) UnmarshalJSON(data []byte) error {
	decoded, err := unmarshalJSON(data, stdbase64.RawURLEncoding)
	if err != nil || decoded == nil {
		return err
	}
	*d = decoded
	return nil
}

// String returns the URL-safe Base64 string representation.
func (d URLData) String() string {
	return stdbase64.RawURLEncoding.EncodeToString(d)
}

// unmarshalJSON decodes a JSON string. A JSON null yields nil, nil.
func unmarshalJSON(data []byte, enc *stdbase64.Encoding) ([]byte, error) {
	if len(data) == 0 {
		return nil, errors.New("unmarshal json base64 data: empty data")
	}
	switch data[0] {
	case 'n': // null
		return nil, nil
	case '"':
		if len(data) < 2 || data[len(data)-1] != '"' {
			return nil, errors.New("unmarshal json base64 data: invalid string")
		}
		decoded, err := enc.DecodeString(string(data[1 : len(data)-1]))
		if err != nil {
			return nil, err
		}
		if decoded == nil {
			decoded = []byte{}
		}
		return decoded, nil
	default:
		return nil, fmt.Errorf("invalid base64 data: %s", string(data))
	}
}
