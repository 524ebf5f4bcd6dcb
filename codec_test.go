package furcmap

import (
	"bytes"
	"errors"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bodgit/furcmap/header"
	"github.com/bodgit/furcmap/layer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fill(t *testing.T, m *Map) {
	for x := 0; x < m.Width(); x++ {
		for y := 0; y < m.Height(); y++ {
			v, err := m.Tile(x, y)
			require.NoError(t, err)
			require.NoError(t, v.SetFloor(uint16(x+y)))
			require.NoError(t, v.SetObject(uint16(x*y%256)))
			require.NoError(t, v.SetRealWall(uint16(x+1)))
			require.NoError(t, v.SetRegion(uint16(y+1)))
			require.NoError(t, v.SetEffect(uint16(x^y)))
		}
	}
}

func TestRoundTrip(t *testing.T) {
	m, err := New(8, 5)
	require.NoError(t, err)
	fill(t, m)

	h := m.Header()
	h.Name = "Round=Trip"
	h.PatchArchive = `C:\patches\dream.fox`
	h.Revision = 42
	h.Rating = header.RatingAOClean
	h.Patch = header.UseLocalPath
	h.AllowLarge = true
	h.SwearFilter = true
	m.SetHeader(h)

	b, err := m.MarshalBinary()
	require.NoError(t, err)

	dup, err := Load(b)
	require.NoError(t, err)

	assert.Equal(t, m.Header(), dup.Header())
	for _, k := range layer.Kinds() {
		assert.Equal(t, m.store.Bytes(k), dup.store.Bytes(k), k.String())
	}

	for x := 0; x < m.Width(); x++ {
		for y := 0; y < m.Height(); y++ {
			a, err := m.Tile(x, y)
			require.NoError(t, err)
			b, err := dup.Tile(x, y)
			require.NoError(t, err)
			assert.Equal(t, a.String(), b.String())
		}
	}

	again, err := dup.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, b, again)
}

func TestMarshalBinaryLayout(t *testing.T) {
	m, err := New(2, 1)
	require.NoError(t, err)
	require.NoError(t, m.SetFloorAt(0, 0, 1))
	require.NoError(t, m.SetObjectAt(0, 0, 2))
	require.NoError(t, m.SetWallAt(1, 0, 3))
	require.NoError(t, m.SetRegionAt(0, 0, 4))
	require.NoError(t, m.SetEffectAt(0, 0, 5))

	b, err := m.MarshalBinary()
	require.NoError(t, err)

	i := bytes.Index(b, []byte("BODY\n"))
	require.True(t, i > 0)
	assert.True(t, strings.HasPrefix(string(b), header.Magic+"\nheight=1\nwidth=1\n"))
	assert.Equal(t, []byte{1, 0, 2, 0, 0, 3, 4, 0, 5, 0}, b[i+5:])
}

func TestDecodeHeaderAnyOrder(t *testing.T) {
	data := "MAP V01.40 Furcadia\nname=Test=Map\nwidth=1\nallowjs=1\nheight=1\nBODY\n" + "\x01\x00\x02\x00\x03\x04\x05\x00\x06\x00"

	m, err := Load([]byte(data))
	require.NoError(t, err)

	h := m.Header()
	assert.Equal(t, "Test=Map", h.Name)
	assert.True(t, h.AllowJoinSummon)
	assert.Equal(t, 2, m.Width())

	v, err := m.Tile(0, 0)
	require.NoError(t, err)
	assert.Equal(t, uint16(1), v.Floor())
	assert.Equal(t, uint16(2), v.Object())
	assert.Equal(t, uint16(3), v.WallNW())
	assert.Equal(t, uint16(4), v.WallNE())
	assert.Equal(t, uint16(5), v.Region())
	assert.Equal(t, uint16(6), v.Effect())
}

func TestDecodeLegacy(t *testing.T) {
	data := "MAP V01.40 Furcadia\nwidth=1\nheight=2\nBODY\n" + strings.Repeat("\x09", 12)

	m, err := Load([]byte(data))
	require.NoError(t, err)

	assert.Equal(t, make([]byte, 4), m.store.Bytes(layer.Region))
	assert.Equal(t, make([]byte, 4), m.store.Bytes(layer.Effect))

	v, err := m.Tile(1, 1)
	require.NoError(t, err)
	assert.Equal(t, uint16(9), v.Floor())
	assert.Equal(t, uint16(0), v.Effect())

	// Always saved with all five layers
	b, err := m.MarshalBinary()
	require.NoError(t, err)
	assert.True(t, bytes.HasSuffix(b, append([]byte("BODY\n"), append(bytes.Repeat([]byte{9}, 12), make([]byte, 8)...)...)))
}

func TestLoadSaveUndefinedBytes(t *testing.T) {
	data := []byte("MAP V01.40 Furcadia\nwidth=1\nheight=1\nname=A\x81B\nBODY\n" + strings.Repeat("\x00", 10))

	m, err := Load(data)
	require.NoError(t, err)

	b, err := m.MarshalBinary()
	require.NoError(t, err)
	assert.Contains(t, string(b), "\nname=A\x81B\n")

	dup, err := Load(b)
	require.NoError(t, err)
	assert.Equal(t, m.Header(), dup.Header())
}

func TestDecodeEmpty(t *testing.T) {
	m, err := Load([]byte("width=0\nheight=0\nBODY\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, m.Width())
	assert.Empty(t, m.tiles)
}

func TestDecodeZeroHeight(t *testing.T) {
	for _, width := range []string{"20000000000", "1000000000000000"} {
		start := time.Now()
		m, err := Load([]byte("width=" + width + "\nheight=0\nBODY\n"))
		require.NoError(t, err)
		assert.Less(t, time.Since(start), time.Second)

		assert.Equal(t, 0, m.LayerByteCount())
		assert.Empty(t, m.tiles)

		_, err = m.Tile(0, 0)
		assert.True(t, errors.Is(err, ErrOutOfRange))
	}
}

func TestDecodeErrors(t *testing.T) {
	tables := []struct {
		data string
		err  error
	}{
		{"MAP V01.40 Furcadia\nheight=1\nBODY\n", ErrCorruptHeader},
		{"MAP V01.40 Furcadia\nwidth=1\nBODY\n", ErrCorruptHeader},
		{"width=one\nheight=1\nBODY\n", ErrCorruptHeader},
		{"width=1\nheight=1\n", ErrCorruptHeader},
		{"width=1\nheight=1\nBODY\n\x00\x00", io.ErrUnexpectedEOF},
		{"width=1\nheight=1\nBODY\n" + strings.Repeat("\x00", 8), io.ErrUnexpectedEOF},
		{"width=100000000\nheight=100000000\nBODY\n", io.ErrUnexpectedEOF},
	}

	for _, table := range tables {
		m, err := Load([]byte(table.data))
		assert.Nil(t, m)
		assert.True(t, errors.Is(err, table.err), "%q: %v", table.data, err)
	}
}

func TestSave(t *testing.T) {
	dir, err := ioutil.TempDir("", "furcmap")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	file := filepath.Join(dir, "dream"+Extension)

	m, err := New(4, 4)
	require.NoError(t, err)
	fill(t, m)

	require.NoError(t, m.Save(file, false))

	dup, err := Open(file)
	require.NoError(t, err)
	assert.Equal(t, m.Header(), dup.Header())

	b, err := m.MarshalBinary()
	require.NoError(t, err)
	onDisk, err := ioutil.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, b, onDisk)

	// No leftover temporary files
	entries, err := ioutil.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSaveNoOverwrite(t *testing.T) {
	dir, err := ioutil.TempDir("", "furcmap")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	file := filepath.Join(dir, "existing"+Extension)
	require.NoError(t, ioutil.WriteFile(file, []byte("precious"), 0644))

	m, err := New(2, 2)
	require.NoError(t, err)

	err = m.Save(file, false)
	assert.True(t, errors.Is(err, ErrAlreadyExists))
	assert.True(t, errors.Is(err, os.ErrExist))

	b, err := ioutil.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, []byte("precious"), b)

	require.NoError(t, m.Save(file, true))
	dup, err := Open(file)
	require.NoError(t, err)
	assert.Equal(t, 2, dup.Width())
}

func TestPlace(t *testing.T) {
	dir, err := ioutil.TempDir("", "furcmap")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	tmp := filepath.Join(dir, "tmp")
	require.NoError(t, ioutil.WriteFile(tmp, []byte("new"), 0644))

	// The target turned up after Save checked for it
	file := filepath.Join(dir, "raced"+Extension)
	require.NoError(t, ioutil.WriteFile(file, []byte("precious"), 0644))

	err = place(tmp, file, false)
	assert.True(t, errors.Is(err, ErrAlreadyExists))
	b, err := ioutil.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, []byte("precious"), b)

	file = filepath.Join(dir, "fresh"+Extension)
	require.NoError(t, place(tmp, file, false))
	b, err = ioutil.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), b)
}

func TestSaveResetsMode(t *testing.T) {
	dir, err := ioutil.TempDir("", "furcmap")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	file := filepath.Join(dir, "dream"+Extension)
	require.NoError(t, ioutil.WriteFile(file, []byte("old"), 0600))

	m, err := New(2, 2)
	require.NoError(t, err)
	require.NoError(t, m.Save(file, true))

	fi, err := os.Stat(file)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), fi.Mode().Perm())
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join("testdata", "missing"+Extension))
	assert.True(t, os.IsNotExist(err))
}

func TestWriteTo(t *testing.T) {
	m, err := New(2, 2)
	require.NoError(t, err)

	var buf bytes.Buffer
	n, err := m.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)

	dup, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, m.Header(), dup.Header())
}
