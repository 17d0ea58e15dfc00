// Package main provides the streamkit CLI.
//
// Usage:
//
//	streamkit [flags] <command> [args]
//
// Commands:
//
//	base64 - Base64 encoding and decoding
//	utf16  - UTF-16 code unit and byte conversion
//	relay  - Copy stdin to stdout through a bounded byte stream
//	push   - Send stdin lines to a Redis list through a stream
//	pull   - Print items of a Redis list through a stream
//
// Configuration:
//
//	--config points at a YAML file; command flags override its values.
package main

import (
	"fmt"
	"os"

	"github.com/vnykmshr/streamkit/cmd/streamkit/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
