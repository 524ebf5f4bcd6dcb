package furcmap

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/bodgit/furcmap/header"
	"github.com/bodgit/furcmap/layer"
)

// Whether a body of n bytes can hold three layers of width x height without
// computing a product that might overflow
func bodyFits(width, height, n int) bool {
	if width == 0 || height == 0 {
		return true
	}
	return width <= n && height <= n/(width*2)/3
}

// Decode reads a complete map from r. Nothing is returned unless the whole
// map was read successfully.
func Decode(r io.Reader) (*Map, error) {
	br := bufio.NewReader(r)

	lines, err := header.ReadLines(br)
	if err != nil {
		return nil, err
	}
	_, values := header.Parse(lines)

	h, err := header.Decode(values)
	if err != nil {
		return nil, err
	}

	body, err := ioutil.ReadAll(br)
	if err != nil {
		return nil, err
	}

	if !bodyFits(h.Width, h.Height, len(body)) {
		return nil, fmt.Errorf("furcmap: body of %d bytes too short for %dx%d map: %w", len(body), h.Width, h.Height, io.ErrUnexpectedEOF)
	}

	s := layer.New(h.Width, h.Height)
	if err := s.UnmarshalBinary(body); err != nil {
		return nil, err
	}

	return build(h, s)
}

// Load decodes a map held in memory.
func Load(b []byte) (*Map, error) {
	return Decode(bytes.NewReader(b))
}

// Open reads the map stored in file.
func Open(file string) (*Map, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Decode(f)
}

// MarshalBinary encodes the header followed by all five layers.
func (m *Map) MarshalBinary() ([]byte, error) {
	h, err := m.Header().MarshalText()
	if err != nil {
		return nil, err
	}

	body, err := m.store.MarshalBinary()
	if err != nil {
		return nil, err
	}

	return append(h, body...), nil
}

// WriteTo writes the encoded map to w.
func (m *Map) WriteTo(w io.Writer) (int64, error) {
	b, err := m.MarshalBinary()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(b)
	return int64(n), err
}

// Save writes the map to file. If file exists and overwrite is false
// ErrAlreadyExists is returned and the file is left alone. The map is written
// to a temporary file alongside and moved into place so file either holds
// the complete map or is untouched. A replaced file always ends up with mode
// 0644 regardless of its previous permissions.
func (m *Map) Save(file string, overwrite bool) error {
	if !overwrite {
		switch _, err := os.Stat(file); {
		case err == nil:
			return fmt.Errorf("%w: %s", ErrAlreadyExists, file)
		case !os.IsNotExist(err):
			return err
		}
	}

	b, err := m.MarshalBinary()
	if err != nil {
		return err
	}

	f, err := ioutil.TempFile(filepath.Dir(file), "."+filepath.Base(file)+"-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	if err = f.Chmod(0644); err != nil {
		f.Close()
		return err
	}
	if _, err = f.Write(b); err != nil {
		f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}

	return place(f.Name(), file, overwrite)
}

// Moves tmp to file. Without overwrite a hard link is used as it fails if
// file has appeared since it was checked, tmp is then removed by the caller.
func place(tmp, file string, overwrite bool) error {
	if overwrite {
		return os.Rename(tmp, file)
	}

	if err := os.Link(tmp, file); err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("%w: %s", ErrAlreadyExists, file)
		}
		return err
	}
	return nil
}
