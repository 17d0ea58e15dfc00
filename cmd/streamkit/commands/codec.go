package commands

import (
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vnykmshr/streamkit/pkg/codec/base64"
	"github.com/vnykmshr/streamkit/pkg/codec/utfconv"
)

func newBase64Cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "base64",
		Short: "Base64 encoding and decoding",
		Long: `Base64 over the UTF-8 bytes of text.

Input is taken from the arguments, or from stdin when none are given.
--url selects the URL-safe alphabet without padding.`,
	}

	var url bool
	encode := &cobra.Command{
		Use:   "encode [text]",
		Short: "Encode text as Base64",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := inputText(cmd, args)
			if err != nil {
				return err
			}
			if url {
				return printLine(cmd, base64.EncodeURLCompliant(text))
			}
			return printLine(cmd, base64.Encode(text))
		},
	}
	decode := &cobra.Command{
		Use:   "decode [data]",
		Short: "Decode Base64 into text",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := inputText(cmd, args)
			if err != nil {
				return err
			}
			data = strings.TrimSpace(data)

			var text string
			if url {
				text, err = base64.DecodeURLCompliant(data)
			} else {
				text, err = base64.Decode(data)
			}
			if err != nil {
				return err
			}
			return printLine(cmd, text)
		},
	}

	cmd.PersistentFlags().BoolVar(&url, "url", false, "Use the URL-safe alphabet")
	cmd.AddCommand(encode, decode)
	return cmd
}

func newUTF16Cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "utf16",
		Short: "UTF-16 conversion",
		Long: `Convert text to and from UTF-16.

By default code units are printed as space separated hex, e.g. "0048 0069".
--bytes le|be works on serialized bytes instead; --bom adds a byte order
mark when encoding.`,
	}

	var order string
	var bom bool
	encode := &cobra.Command{
		Use:   "encode [text]",
		Short: "Encode text as UTF-16",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := inputText(cmd, args)
			if err != nil {
				return err
			}
			if order != "" {
				bo, err := parseByteOrder(order)
				if err != nil {
					return err
				}
				b, err := utfconv.EncodeUTF16Bytes(text, bo, bom)
				if err != nil {
					return err
				}
				return printLine(cmd, hex.EncodeToString(b))
			}

			units, err := utfconv.UTF8ToUTF16([]byte(text))
			if err != nil {
				return err
			}
			return printLine(cmd, formatUnits(units))
		},
	}
	decode := &cobra.Command{
		Use:   "decode [units...]",
		Short: "Decode UTF-16 into text",
		RunE: func(cmd *cobra.Command, args []string) error {
			fields := args
			if len(fields) == 0 {
				text, err := inputText(cmd, nil)
				if err != nil {
					return err
				}
				fields = strings.Fields(text)
			}

			if order != "" {
				bo, err := parseByteOrder(order)
				if err != nil {
					return err
				}
				b, err := hex.DecodeString(strings.Join(fields, ""))
				if err != nil {
					return fmt.Errorf("parse bytes: %w", err)
				}
				text, err := utfconv.DecodeUTF16Bytes(b, bo)
				if err != nil {
					return err
				}
				return printLine(cmd, text)
			}

			units, err := parseUnits(fields)
			if err != nil {
				return err
			}
			return printLine(cmd, string(utfconv.UTF16ToUTF8(units)))
		},
	}

	cmd.PersistentFlags().StringVar(&order, "bytes", "", "Work on serialized bytes in this order (le or be)")
	encode.Flags().BoolVar(&bom, "bom", false, "Prefix a byte order mark (with --bytes)")
	cmd.AddCommand(encode, decode)
	return cmd
}

func parseByteOrder(s string) (utfconv.ByteOrder, error) {
	switch strings.ToLower(s) {
	case "le":
		return utfconv.LittleEndian, nil
	case "be":
		return utfconv.BigEndian, nil
	default:
		return 0, fmt.Errorf("unknown byte order %q, want le or be", s)
	}
}

func formatUnits(units []uint16) string {
	parts := make([]string, len(units))
	for i, u := range units {
		parts[i] = fmt.Sprintf("%04x", u)
	}
	return strings.Join(parts, " ")
}

func parseUnits(fields []string) ([]uint16, error) {
	units := make([]uint16, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(f), "0x"), 16, 16)
		if err != nil {
			return nil, fmt.Errorf("parse code unit %q: %w", f, err)
		}
		units = append(units, uint16(v))
	}
	return units, nil
}

// inputText returns the single argument, or all of stdin without its
// trailing newline.
func inputText(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	b, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimSuffix(string(b), "\n"), nil
}

func printLine(cmd *cobra.Command, s string) error {
	_, err := fmt.Fprintln(cmd.OutOrStdout(), s)
	return err
}
