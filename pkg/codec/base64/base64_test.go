package base64

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	gferrors "github.com/vnykmshr/streamkit/pkg/common/errors"
	"github.com/vnykmshr/streamkit/pkg/codec/utfconv"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"f", "Zg=="},
		{"fo", "Zm8="},
		{"foo", "Zm9v"},
		{"hello world", "aGVsbG8gd29ybGQ="},
		{"€", "4oKs"},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, Encode(tt.in), "Encode(%q)", tt.in)
	}
}

func TestEncodeURLCompliant(t *testing.T) {
	// 0xFB 0xFF encodes to "+/8=" in the standard alphabet.
	s := string([]byte{0xFB, 0xFF})
	require.Equal(t, "+/8=", Encode(s))
	require.Equal(t, "-_8", EncodeURLCompliant(s))
	require.Equal(t, "+/8=", RestoreURLCompliant("-_8"))
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"a",
		"ab",
		"abc",
		"The quick brown fox jumps over the lazy dog",
		"日本語",
		"emoji 😀 and 𝄞",
		strings.Repeat("~?>", 33),
	}

	for _, s := range inputs {
		got, err := Decode(Encode(s))
		require.NoError(t, err)
		require.Equal(t, s, got)

		got, err = DecodeURLCompliant(EncodeURLCompliant(s))
		require.NoError(t, err)
		require.Equal(t, s, got)

		got, err = Decode(RestoreURLCompliant(EncodeURLCompliant(s)))
		require.NoError(t, err)
		require.Equal(t, s, got)
	}
}

func TestUTF16RoundTrip(t *testing.T) {
	units := append(utfconv.EncodeString("pair 😀 "), 0xD800)

	enc := EncodeUTF16(units)
	got, err := DecodeUTF16(enc)
	require.NoError(t, err)
	require.Equal(t, units, got)
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode("not base64!")
	require.ErrorIs(t, err, gferrors.ErrInvalidFormat)

	// Valid Base64 of a stray continuation byte.
	_, err = Decode("gA==")
	require.ErrorIs(t, err, gferrors.ErrInvalidFormat)

	_, err = DecodeUTF16("gA==")
	require.ErrorIs(t, err, gferrors.ErrInvalidFormat)
}

func TestData_JSON(t *testing.T) {
	b, err := json.Marshal(Data("hello world"))
	require.NoError(t, err)
	require.Equal(t, `"aGVsbG8gd29ybGQ="`, string(b))

	var d Data
	require.NoError(t, json.Unmarshal(b, &d))
	require.Equal(t, "hello world", string(d))
	require.Equal(t, "aGVsbG8gd29ybGQ=", d.String())

	var empty Data
	require.NoError(t, json.Unmarshal([]byte(`""`), &empty))
	require.NotNil(t, empty)
	require.Len(t, empty, 0)

	var null Data
	require.NoError(t, json.Unmarshal([]byte(`null`), &null))
	require.Nil(t, null)

	require.Error(t, json.Unmarshal([]byte(`123`), &d))
}

func TestURLData_JSON(t *testing.T) {
	payload := struct {
		Token URLData `json:"token"`
	}{Token: URLData{0xFB, 0xFF}}

	b, err := json.Marshal(payload)
	require.NoError(t, err)
	require.JSONEq(t, `{"token":"-_8"}`, string(b))

	payload.Token = nil
	require.NoError(t, json.Unmarshal(b, &payload))
	require.Equal(t, URLData{0xFB, 0xFF}, payload.Token)
}
