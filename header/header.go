/*
Package header implements the textual preamble of a map file.

The preamble is a sequence of key=value lines, each terminated by a newline
and encoded using code page 1252. A line consisting of exactly BODY ends the
preamble and the binary layers follow immediately after it. The first line is
an identification string with no = in it.

On read, lines may appear in any order and unknown keys are kept but ignored.
When a key appears more than once the last value wins. On write, the keys are
always emitted in the same fixed order the game client expects.
*/
package header

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// Magic identifies the file format and version
	Magic = "MAP V01.40 Furcadia"

	// Sentinel terminates the header
	Sentinel = "BODY"

	trimChars = "\n\t\x00"
)

// ErrCorrupt is returned when the header is missing the map dimensions or a
// numeric field cannot be parsed.
var ErrCorrupt = errors.New("header: corrupt header")

// Header holds the identification and feature settings of a map.
type Header struct {
	// Width is the stored width, half the display width.
	Width    int
	Height   int
	Revision int
	Patch    PatchSetting

	Name         string
	PatchArchive string
	Rating       string

	Encoded                bool
	AllowJoinSummon        bool
	AllowLeadFollow        bool
	AllowDreamURL          bool
	SwearFilter            bool
	PreventPlayerListing   bool
	ForceSittable          bool
	AllowShouting          bool
	AllowLarge             bool
	PreventTabListing      bool
	PreventSeasonalAvatars bool
	ParentalControls       bool
}

type flag struct {
	key string
	v   *bool
}

// Flags in the order they are written, split around the rating line
func (h *Header) flags() (before, after []flag) {
	before = []flag{
		{"encoded", &h.Encoded},
		{"allowjs", &h.AllowJoinSummon},
		{"allowlf", &h.AllowLeadFollow},
		{"allowfurl", &h.AllowDreamURL},
		{"swearfilter", &h.SwearFilter},
		{"nowho", &h.PreventPlayerListing},
		{"forcesittable", &h.ForceSittable},
		{"allowshouts", &h.AllowShouting},
	}
	after = []flag{
		{"allowlarge", &h.AllowLarge},
		{"notab", &h.PreventTabListing},
		{"nonovelty", &h.PreventSeasonalAvatars},
		{"parentalcontrols", &h.ParentalControls},
	}
	return
}

func trim(s string) string {
	return strings.TrimRight(s, trimChars)
}

// Parse consumes lines up to and including the BODY sentinel. It returns the
// consumed lines and the key/value pairs found in them. Each line is split on
// the first = only so values may contain = themselves.
func Parse(lines []string) ([]string, map[string]string) {
	values := make(map[string]string)
	for i, line := range lines {
		if line == Sentinel {
			return lines[:i+1], values
		}
		if kv := strings.SplitN(line, "=", 2); len(kv) == 2 {
			values[kv[0]] = kv[1]
		}
	}
	return lines, values
}

func atoi(values map[string]string, key string, v *int) error {
	s, ok := values[key]
	if !ok {
		return nil
	}
	i, err := strconv.Atoi(strings.TrimSpace(trim(s)))
	if err != nil {
		return fmt.Errorf("%w: %s=%q is not a number", ErrCorrupt, key, s)
	}
	*v = i
	return nil
}

// Apply overwrites the fields of h for every recognised key in values.
// Booleans are true only for "1".
func (h *Header) Apply(values map[string]string) error {
	patch := int(h.Patch)
	for _, f := range []struct {
		key string
		v   *int
	}{
		{"width", &h.Width},
		{"height", &h.Height},
		{"revision", &h.Revision},
		{"patcht", &patch},
	} {
		if err := atoi(values, f.key, f.v); err != nil {
			return err
		}
	}
	h.Patch = PatchSetting(patch)

	if h.Width < 0 || h.Height < 0 {
		return fmt.Errorf("%w: negative dimensions %dx%d", ErrCorrupt, h.Width, h.Height)
	}

	for _, f := range []struct {
		key string
		v   *string
	}{
		{"name", &h.Name},
		{"patchs", &h.PatchArchive},
		{"rating", &h.Rating},
	} {
		if s, ok := values[f.key]; ok {
			*f.v = trim(s)
		}
	}

	first, second := h.flags()
	for _, f := range append(first, second...) {
		if s, ok := values[f.key]; ok {
			*f.v = trim(s) == "1"
		}
	}

	return nil
}

// Decode builds a header from parsed values. Both width and height must be
// present.
func Decode(values map[string]string) (Header, error) {
	for _, key := range []string{"width", "height"} {
		if _, ok := values[key]; !ok {
			return Header{}, fmt.Errorf("%w: missing %s", ErrCorrupt, key)
		}
	}

	var h Header
	if err := h.Apply(values); err != nil {
		return Header{}, err
	}
	return h, nil
}

func itob(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// Lines returns the header in on-disk order, ending with the sentinel.
func (h Header) Lines() []string {
	lines := []string{
		Magic,
		"height=" + strconv.Itoa(h.Height),
		"width=" + strconv.Itoa(h.Width),
		"revision=" + strconv.Itoa(h.Revision),
		"patcht=" + strconv.Itoa(int(h.Patch)),
		"name=" + h.Name,
		"patchs=" + h.PatchArchive,
	}

	first, second := h.flags()
	for _, f := range first {
		lines = append(lines, f.key+"="+itob(*f.v))
	}
	lines = append(lines, "rating="+h.Rating)
	for _, f := range second {
		lines = append(lines, f.key+"="+itob(*f.v))
	}

	return append(lines, Sentinel)
}

// MarshalText encodes the header as code page 1252 text with every line,
// including the sentinel, terminated by a newline.
func (h Header) MarshalText() ([]byte, error) {
	var sb strings.Builder
	for _, line := range h.Lines() {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}

	return encode(sb.String())
}
