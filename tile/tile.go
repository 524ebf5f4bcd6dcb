/*
Package tile implements a per-coordinate view over the layers of a map.

A view carries the floor, object, region and effect identifiers of a display
coordinate plus two wall values. Two adjacent display columns 2n and 2n+1 share
one diagonal wall lattice: the even column owns its north-west wall and sees
its north-east wall through the odd column, the odd column owns its north-east
wall and sees its north-west wall through the even column. The wall a view
owns is its real wall.

A view bound to a layer.Store writes through to it immediately and re-reads
its own and its paired view's values so both halves stay in sync. A detached
view, as returned by New, only holds values and is used to describe a tile
before handing it to a map.
*/
package tile

import (
	"fmt"

	"github.com/bodgit/furcmap/layer"
)

// View is the set of identifiers at one display coordinate.
type View struct {
	x, y int

	floor  uint16
	object uint16
	wallNE uint16
	wallNW uint16
	region uint16
	effect uint16

	store *layer.Store
	pair  *View
}

// New returns a detached view for (x, y) with every identifier zero.
func New(x, y int) *View {
	return &View{x: x, y: y}
}

// Read returns a view of (x, y) bound to s with every value read eagerly.
func Read(s *layer.Store, x, y int) (*View, error) {
	if err := s.Check(x, y); err != nil {
		return nil, err
	}
	if err := s.Check(x^1, y); err != nil {
		return nil, err
	}

	v := &View{x: x, y: y, store: s}
	if err := v.reload(); err != nil {
		return nil, err
	}
	return v, nil
}

// Link pairs the views of the two display columns sharing a stored column so
// a write through either refreshes both.
func Link(a, b *View) error {
	if a.y != b.y || a.x^1 != b.x {
		return fmt.Errorf("tile: (%d, %d) and (%d, %d) do not share a column", a.x, a.y, b.x, b.y)
	}
	a.pair, b.pair = b, a
	return nil
}

func (v *View) reload() error {
	s := v.store
	for _, f := range []struct {
		k layer.Kind
		v *uint16
	}{
		{layer.Floor, &v.floor},
		{layer.Object, &v.object},
		{layer.Region, &v.region},
		{layer.Effect, &v.effect},
	} {
		id, err := s.Get(f.k, v.x, v.y)
		if err != nil {
			return err
		}
		*f.v = id
	}

	own, err := s.Get(layer.Wall, v.x, v.y)
	if err != nil {
		return err
	}
	mirror, err := s.Get(layer.Wall, v.x^1, v.y)
	if err != nil {
		return err
	}
	if v.even() {
		v.wallNW, v.wallNE = own, mirror
	} else {
		v.wallNE, v.wallNW = own, mirror
	}

	return nil
}

// Refresh re-reads every value of a bound view from its store. It is a no-op
// for detached views.
func (v *View) Refresh() error {
	if v.store == nil {
		return nil
	}
	return v.reload()
}

func (v *View) even() bool {
	return v.x%2 == 0
}

func (v *View) write(k layer.Kind, field *uint16, id uint16) error {
	if v.store == nil {
		if id > layer.MaxID {
			return fmt.Errorf("%w: %v id %d exceeds %d", layer.ErrOutOfRange, k, id, layer.MaxID)
		}
		*field = id
		return nil
	}

	if err := v.store.Set(k, v.x, v.y, id); err != nil {
		return err
	}
	if err := v.reload(); err != nil {
		return err
	}
	if v.pair != nil {
		return v.pair.reload()
	}
	return nil
}

// X returns the display column.
func (v *View) X() int { return v.x }

// Y returns the row.
func (v *View) Y() int { return v.y }

// Bound reports whether v writes through to a store.
func (v *View) Bound() bool { return v.store != nil }

func (v *View) Floor() uint16  { return v.floor }
func (v *View) Object() uint16 { return v.object }
func (v *View) WallNE() uint16 { return v.wallNE }
func (v *View) WallNW() uint16 { return v.wallNW }
func (v *View) Region() uint16 { return v.region }
func (v *View) Effect() uint16 { return v.effect }

func (v *View) SetFloor(id uint16) error  { return v.write(layer.Floor, &v.floor, id) }
func (v *View) SetObject(id uint16) error { return v.write(layer.Object, &v.object, id) }
func (v *View) SetRegion(id uint16) error { return v.write(layer.Region, &v.region, id) }
func (v *View) SetEffect(id uint16) error { return v.write(layer.Effect, &v.effect, id) }

// SetWallNE writes id to the wall cell at (x, y). On an even column that cell
// backs the north-west wall, so the value shows up there once re-read.
func (v *View) SetWallNE(id uint16) error { return v.write(layer.Wall, &v.wallNE, id) }

// SetWallNW writes id to the wall cell at (x, y). On an odd column that cell
// backs the north-east wall.
func (v *View) SetWallNW(id uint16) error { return v.write(layer.Wall, &v.wallNW, id) }

// RealWall returns the wall this view owns: north-west on even columns,
// north-east on odd ones.
func (v *View) RealWall() uint16 {
	if v.even() {
		return v.wallNW
	}
	return v.wallNE
}

// SetRealWall writes the wall this view owns. The paired view sees the new
// value as its mirrored wall.
func (v *View) SetRealWall(id uint16) error {
	if v.even() {
		return v.write(layer.Wall, &v.wallNW, id)
	}
	return v.write(layer.Wall, &v.wallNE, id)
}

func (v *View) String() string {
	return fmt.Sprintf("(%d, %d) floor=%d object=%d wallne=%d wallnw=%d region=%d effect=%d",
		v.x, v.y, v.floor, v.object, v.wallNE, v.wallNW, v.region, v.effect)
}
