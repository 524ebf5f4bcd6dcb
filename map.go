package furcmap

import (
	"fmt"

	"github.com/bodgit/furcmap/header"
	"github.com/bodgit/furcmap/layer"
	"github.com/bodgit/furcmap/tile"
)

// Map is an open map document. It is not safe for concurrent use; callers
// sharing a Map must serialise access themselves.
type Map struct {
	header header.Header
	store  *layer.Store
	tiles  []*tile.View
}

// New creates an empty map width display columns wide and height rows tall
// using the default header template. An odd width loses its low bit as the
// map is stored in column pairs.
func New(width, height int) (*Map, error) {
	return NewWithTemplate(width, height, header.DefaultTemplate)
}

// NewWithTemplate is like New but takes the header values from fn.
func NewWithTemplate(width, height int, fn header.TemplateFunc) (*Map, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: negative dimensions %dx%d", ErrOutOfRange, width, height)
	}

	stored := width / 2

	h, err := header.FromTemplate(fn, height, stored)
	if err != nil {
		return nil, err
	}

	return build(h, layer.New(stored, height))
}

func build(h header.Header, s *layer.Store) (*Map, error) {
	m := &Map{
		header: h,
		store:  s,
	}
	if err := m.materialise(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Map) materialise() error {
	if m.Width() <= 0 || m.Height() <= 0 {
		m.tiles = nil
		return nil
	}

	tiles := make([]*tile.View, m.Width()*m.Height())
	for x := 0; x < m.Width(); x += 2 {
		for y := 0; y < m.Height(); y++ {
			even, err := tile.Read(m.store, x, y)
			if err != nil {
				return err
			}
			odd, err := tile.Read(m.store, x+1, y)
			if err != nil {
				return err
			}
			if err := tile.Link(even, odd); err != nil {
				return err
			}
			tiles[m.index(x, y)] = even
			tiles[m.index(x+1, y)] = odd
		}
	}
	m.tiles = tiles
	return nil
}

func (m *Map) index(x, y int) int {
	return y*m.Width() + x
}

func (m *Map) check(x, y int) error {
	if x < 0 || x >= m.Width() || y < 0 || y >= m.Height() {
		return fmt.Errorf("%w: (%d, %d) outside %dx%d", ErrOutOfRange, x, y, m.Width(), m.Height())
	}
	return nil
}

// Width returns the display width, twice the stored width.
func (m *Map) Width() int {
	return m.store.Width() * 2
}

// StoredWidth returns the width as written in the header.
func (m *Map) StoredWidth() int {
	return m.store.Width()
}

// Height returns the number of rows.
func (m *Map) Height() int {
	return m.store.Height()
}

// LayerByteCount returns the length of each layer in bytes.
func (m *Map) LayerByteCount() int {
	return m.store.ByteCount()
}

// Header returns a copy of the map settings.
func (m *Map) Header() header.Header {
	h := m.header
	h.Width, h.Height = m.StoredWidth(), m.Height()
	return h
}

// SetHeader replaces the map settings. The dimensions in h are ignored, a
// map cannot be resized.
func (m *Map) SetHeader(h header.Header) {
	h.Width, h.Height = m.StoredWidth(), m.Height()
	m.header = h
}

// Tile returns the live view at (x, y). Writes through the view are stored
// immediately.
func (m *Map) Tile(x, y int) (*tile.View, error) {
	if err := m.check(x, y); err != nil {
		return nil, err
	}
	return m.tiles[m.index(x, y)], nil
}

// SetTile copies the object, floor, real wall, region and effect of t, in
// that order, to (x, y) and replaces the view held for that coordinate. The
// coordinates of t itself are not used. Nothing is written unless every
// value is in range.
func (m *Map) SetTile(x, y int, t *tile.View) error {
	if t == nil {
		return errNilTile
	}
	if err := m.check(x, y); err != nil {
		return err
	}

	writes := []struct {
		k  layer.Kind
		id uint16
	}{
		{layer.Object, t.Object()},
		{layer.Floor, t.Floor()},
		{layer.Wall, t.RealWall()},
		{layer.Region, t.Region()},
		{layer.Effect, t.Effect()},
	}
	for _, w := range writes {
		if w.id > layer.MaxID {
			return fmt.Errorf("%w: %v id %d exceeds %d", ErrOutOfRange, w.k, w.id, layer.MaxID)
		}
	}
	for _, w := range writes {
		if err := m.store.Set(w.k, x, y, w.id); err != nil {
			return err
		}
	}

	v, err := tile.Read(m.store, x, y)
	if err != nil {
		return err
	}
	p := m.tiles[m.index(x^1, y)]
	if err := tile.Link(v, p); err != nil {
		return err
	}
	if err := p.Refresh(); err != nil {
		return err
	}
	m.tiles[m.index(x, y)] = v

	return nil
}

func (m *Map) get(k layer.Kind, x, y int) (uint16, error) {
	return m.store.Get(k, x, y)
}

func (m *Map) set(k layer.Kind, x, y int, id uint16) error {
	if err := m.check(x, y); err != nil {
		return err
	}
	if err := m.store.Set(k, x, y, id); err != nil {
		return err
	}
	for _, c := range []int{x &^ 1, x | 1} {
		if err := m.tiles[m.index(c, y)].Refresh(); err != nil {
			return err
		}
	}
	return nil
}

// GetFloorAt returns the floor at (x, y).
func (m *Map) GetFloorAt(x, y int) (uint16, error) { return m.get(layer.Floor, x, y) }

// SetFloorAt sets the floor at (x, y).
func (m *Map) SetFloorAt(x, y int, id uint16) error { return m.set(layer.Floor, x, y, id) }

// GetObjectAt returns the object at (x, y).
func (m *Map) GetObjectAt(x, y int) (uint16, error) { return m.get(layer.Object, x, y) }

// SetObjectAt sets the object at (x, y).
func (m *Map) SetObjectAt(x, y int, id uint16) error { return m.set(layer.Object, x, y, id) }

// GetWallAt returns the raw wall cell at (x, y).
func (m *Map) GetWallAt(x, y int) (uint16, error) { return m.get(layer.Wall, x, y) }

// SetWallAt sets the raw wall cell at (x, y).
func (m *Map) SetWallAt(x, y int, id uint16) error { return m.set(layer.Wall, x, y, id) }

// GetRegionAt returns the region at (x, y).
func (m *Map) GetRegionAt(x, y int) (uint16, error) { return m.get(layer.Region, x, y) }

// SetRegionAt sets the region at (x, y).
func (m *Map) SetRegionAt(x, y int, id uint16) error { return m.set(layer.Region, x, y, id) }

// GetEffectAt returns the effect at (x, y).
func (m *Map) GetEffectAt(x, y int) (uint16, error) { return m.get(layer.Effect, x, y) }

// SetEffectAt sets the effect at (x, y).
func (m *Map) SetEffectAt(x, y int, id uint16) error { return m.set(layer.Effect, x, y, id) }
