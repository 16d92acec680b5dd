// Package charset names the text encodings r-code string pools may be
// written in and adapts them to golang.org/x/text/encoding.
package charset

import (
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Charset pairs a human-readable name with the encoding used to decode
// null-terminated strings out of a type block's string pool.
type Charset struct {
	Name string
	enc  encoding.Encoding
}

// UTF8 is the module's default charset.
var UTF8 = Charset{Name: "utf-8", enc: unicode.UTF8}

// Windows1252 is the legacy encoding most commonly seen in ABL source
// compiled on Windows, used when strings are known to be legacy-encoded.
var Windows1252 = Charset{Name: "windows-1252", enc: charmap.Windows1252}

// Named resolves a charset by name, for CLI flags and config files.
func Named(name string) (Charset, error) {
	switch name {
	case "", "utf-8", "utf8":
		return UTF8, nil
	case "windows-1252", "cp1252":
		return Windows1252, nil
	default:
		return Charset{}, fmt.Errorf("unknown charset %q", name)
	}
}

// Decode converts raw bytes (no terminating NUL) to a string.
func (c *Charset) Decode(raw []byte) (string, error) {
	if c == nil || c.enc == nil {
		return string(raw), nil
	}
	out, err := c.enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
