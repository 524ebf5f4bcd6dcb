package header

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ReadLines reads newline terminated lines from r up to and including the
// BODY sentinel, decoding each from code page 1252. A trailing carriage
// return is stripped. r is left positioned at the first byte of the body.
func ReadLines(r *bufio.Reader) ([]string, error) {
	var lines []string
	for {
		b, err := r.ReadBytes('\n')
		if err != nil {
			if err == io.EOF {
				return nil, fmt.Errorf("%w: missing %s", ErrCorrupt, Sentinel)
			}
			return nil, err
		}

		line := strings.TrimSuffix(strings.TrimSuffix(decode(b), "\n"), "\r")
		lines = append(lines, line)
		if line == Sentinel {
			return lines, nil
		}
	}
}

// SplitLines splits text on CRLF or LF line endings.
func SplitLines(text string) []string {
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}
