package header

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Code page 1252 leaves 0x81, 0x8D, 0x8F, 0x90 and 0x9D undefined. They
// decode to the C1 control with the same value so they survive a load and
// save unchanged.
func decodeByte(b byte) rune {
	if r := charmap.Windows1252.DecodeByte(b); r != utf8.RuneError {
		return r
	}
	return rune(b)
}

func decode(b []byte) string {
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = decodeByte(c)
	}
	return string(runes)
}

func encode(s string) ([]byte, error) {
	b := make([]byte, 0, len(s))
	for _, r := range s {
		if c, ok := charmap.Windows1252.EncodeRune(r); ok {
			b = append(b, c)
			continue
		}
		if r < 0x100 && decodeByte(byte(r)) == r {
			b = append(b, byte(r))
			continue
		}
		return nil, fmt.Errorf("header: %q cannot be encoded as code page 1252", r)
	}
	return b, nil
}
