/*
Package layer implements the five parallel byte layers that make up the body
of a map file.

Each layer is width * height * 2 bytes long where width is the stored (half)
width of the map. Every stored column packs two display columns. The floor,
object, region and effect layers address a display coordinate through its
stored column so both halves of a pair share a slot, one identifier every
other byte:

	(height*(x/2) + y) * 2

The wall layer is packed per display column instead, one byte per cell:

	height*x + y

The layers are written back to back in the order floor, object, wall, region,
effect. Files written before region and effect existed carry only the first
three.
*/
package layer

import (
	"errors"
	"fmt"
	"io"
)

// Kind identifies one of the layers.
type Kind int

// The layers in on-disk order.
const (
	Floor Kind = iota
	Object
	Wall
	Region
	Effect

	numKinds
)

// MaxID is the largest identifier a layer slot can hold.
const MaxID = 0xff

const legacyKinds = Region

var (
	// ErrOutOfRange is returned for coordinates outside the layer or
	// identifiers that do not fit in a slot.
	ErrOutOfRange = errors.New("layer: out of range")

	errNotEnough = fmt.Errorf("layer: not enough layer data: %w", io.ErrUnexpectedEOF)
)

var kindNames = [numKinds]string{"floor", "object", "wall", "region", "effect"}

func (k Kind) String() string {
	if k < 0 || k >= numKinds {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Kinds returns every layer in on-disk order.
func Kinds() []Kind {
	return []Kind{Floor, Object, Wall, Region, Effect}
}

// ByteCount returns the length of a single layer for a map with the given
// stored width and height.
func ByteCount(width, height int) int {
	return width * height * 2
}

func offsetHalfWidth(x, y, height int) int {
	return (height*(x/2) + y) * 2
}

func offsetFullWidth(x, y, height int) int {
	return height*x + y
}

// Store holds the layers of a single map. The zero value is an empty 0x0
// store.
type Store struct {
	width  int
	height int
	layers [numKinds][]byte
}

// New returns a store with zeroed layers sized for the given stored width and
// height.
func New(width, height int) *Store {
	s := &Store{
		width:  width,
		height: height,
	}
	for k := range s.layers {
		s.layers[k] = make([]byte, s.ByteCount())
	}
	return s
}

// Width returns the stored width, half the display width.
func (s *Store) Width() int {
	return s.width
}

// Height returns the number of rows.
func (s *Store) Height() int {
	return s.height
}

// ByteCount returns the length of each layer.
func (s *Store) ByteCount() int {
	return ByteCount(s.width, s.height)
}

func (s *Store) offset(k Kind, x, y int) (int, error) {
	if k < 0 || k >= numKinds {
		return 0, fmt.Errorf("%w: no such layer %v", ErrOutOfRange, k)
	}
	if x < 0 || x >= s.width*2 || y < 0 || y >= s.height {
		return 0, fmt.Errorf("%w: (%d, %d) outside %dx%d", ErrOutOfRange, x, y, s.width*2, s.height)
	}

	var pos int
	if k == Wall {
		pos = offsetFullWidth(x, y, s.height)
	} else {
		pos = offsetHalfWidth(x, y, s.height)
	}

	if pos >= len(s.layers[k]) {
		return 0, fmt.Errorf("%w: %v offset %d beyond %d bytes", ErrOutOfRange, k, pos, len(s.layers[k]))
	}
	return pos, nil
}

// Check reports whether (x, y) addresses a slot in every layer.
func (s *Store) Check(x, y int) error {
	for _, k := range Kinds() {
		if _, err := s.offset(k, x, y); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the identifier stored in layer k at display coordinate (x, y).
func (s *Store) Get(k Kind, x, y int) (uint16, error) {
	pos, err := s.offset(k, x, y)
	if err != nil {
		return 0, err
	}
	return uint16(s.layers[k][pos]), nil
}

// Set stores id in layer k at display coordinate (x, y). Identifiers above
// MaxID are rejected rather than truncated.
func (s *Store) Set(k Kind, x, y int, id uint16) error {
	if id > MaxID {
		return fmt.Errorf("%w: %v id %d exceeds %d", ErrOutOfRange, k, id, MaxID)
	}
	pos, err := s.offset(k, x, y)
	if err != nil {
		return err
	}
	s.layers[k][pos] = byte(id)
	return nil
}

// Bytes returns a copy of layer k.
func (s *Store) Bytes(k Kind) []byte {
	if k < 0 || k >= numKinds {
		return nil
	}
	return append([]byte(nil), s.layers[k]...)
}

// MarshalBinary returns all five layers concatenated in on-disk order. The
// short legacy form is never written.
func (s *Store) MarshalBinary() ([]byte, error) {
	n := s.ByteCount()
	b := make([]byte, 0, n*int(numKinds))
	for _, l := range s.layers {
		if len(l) != n {
			return nil, fmt.Errorf("layer: size mismatch, have %d want %d", len(l), n)
		}
		b = append(b, l...)
	}
	return b, nil
}

// UnmarshalBinary fills the layers from b using the dimensions the store was
// created with. If b only holds the floor, object and wall layers the region
// and effect layers are zeroed. Bytes beyond the fifth layer are ignored.
func (s *Store) UnmarshalBinary(b []byte) error {
	n := s.ByteCount()

	kinds := int(numKinds)
	switch {
	case len(b) >= n*int(numKinds):
	case len(b) == n*int(legacyKinds):
		kinds = int(legacyKinds)
	default:
		return errNotEnough
	}

	var layers [numKinds][]byte
	for k := range layers {
		layers[k] = make([]byte, n)
		if k < kinds {
			copy(layers[k], b[k*n:(k+1)*n])
		}
	}
	s.layers = layers

	return nil
}
