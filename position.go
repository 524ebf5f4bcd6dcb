package furcmap

import "github.com/bodgit/furcmap/layer"

// Position is a raw snapshot of the layers at one display coordinate. Unlike
// a tile view it reports the single wall cell stored at (x, y) and does not
// follow later writes.
type Position struct {
	X, Y int

	Floor  uint16
	Object uint16
	Wall   uint16
	Region uint16
	Effect uint16
}

// Position returns a snapshot of (x, y).
func (m *Map) Position(x, y int) (Position, error) {
	if err := m.check(x, y); err != nil {
		return Position{}, err
	}

	p := Position{X: x, Y: y}
	for _, f := range []struct {
		k layer.Kind
		v *uint16
	}{
		{layer.Floor, &p.Floor},
		{layer.Object, &p.Object},
		{layer.Wall, &p.Wall},
		{layer.Region, &p.Region},
		{layer.Effect, &p.Effect},
	} {
		id, err := m.get(f.k, x, y)
		if err != nil {
			return Position{}, err
		}
		*f.v = id
	}
	return p, nil
}
