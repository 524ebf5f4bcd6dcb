/*
Package furcmap is a library for reading and writing dream map files.

A map file is a short key=value text header terminated by a BODY line,
followed by five binary layers: floor, object, wall, region and effect. Each
stored column of the map packs two display columns, so a map reported as W
tiles wide is stored with a width of W/2. See the header, layer and tile
packages for the details of each part.
*/
package furcmap

import (
	"errors"
	"fmt"
	"os"

	"github.com/bodgit/furcmap/header"
	"github.com/bodgit/furcmap/layer"
)

const (
	// Extension is the file extension used for map files
	Extension = ".map"
)

var (
	// ErrCorruptHeader is returned when a map header lacks its dimensions
	// or carries a non-numeric value for a numeric field.
	ErrCorruptHeader = header.ErrCorrupt

	// ErrOutOfRange is returned for coordinates outside the map and for
	// identifiers above layer.MaxID.
	ErrOutOfRange = layer.ErrOutOfRange

	// ErrAlreadyExists is returned by Save when the target exists and
	// overwriting was not requested. It also matches os.ErrExist.
	ErrAlreadyExists = fmt.Errorf("furcmap: map %w", os.ErrExist)

	errNilTile = errors.New("furcmap: nil tile")
)
