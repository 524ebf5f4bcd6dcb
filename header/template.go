package header

import "fmt"

// TemplateFunc returns the header text for a brand new map of the given
// height and stored width.
type TemplateFunc func(height, width int) string

const defaultTemplate = Magic + `
height=%d
width=%d
revision=0
patcht=0
name=
patchs=
encoded=0
allowjs=1
allowlf=1
allowfurl=1
swearfilter=0
nowho=0
forcesittable=0
allowshouts=1
rating=` + RatingEveryone + `
allowlarge=0
notab=0
nonovelty=0
parentalcontrols=0
` + Sentinel + `
`

// DefaultTemplate is the template used for new maps unless another is given.
func DefaultTemplate(height, width int) string {
	return fmt.Sprintf(defaultTemplate, height, width)
}

// FromTemplate builds the header for a new map. The dimensions always come
// from the arguments, whatever the template says.
func FromTemplate(fn TemplateFunc, height, width int) (Header, error) {
	if fn == nil {
		fn = DefaultTemplate
	}

	_, values := Parse(SplitLines(fn(height, width)))

	h := Header{
		Width:  width,
		Height: height,
	}
	if err := h.Apply(values); err != nil {
		return Header{}, err
	}
	h.Width, h.Height = width, height

	return h, nil
}
