package furcmap

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// MapDB is a catalogue of map files keyed by the CRC of their contents.
type MapDB struct {
	db *sql.DB
}

// Summary describes a catalogued map. Width is the display width.
type Summary struct {
	CRC      string
	Name     string
	Rating   string
	Revision int
	Width    int
	Height   int
	Paths    []string
}

// NewMapDB opens or creates the catalogue stored in file.
func NewMapDB(file string) (*MapDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on&_busy_timeout=5000", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS dream (id INTEGER PRIMARY KEY NOT NULL, crc TEXT NOT NULL UNIQUE, name TEXT NOT NULL, rating TEXT NOT NULL, revision INTEGER NOT NULL, width INTEGER NOT NULL, height INTEGER NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS location (dream_id INTEGER NOT NULL, path TEXT NOT NULL UNIQUE, FOREIGN KEY(dream_id) REFERENCES dream(id))"); err != nil {
		db.Close()
		return nil, err
	}

	return &MapDB{
		db: db,
	}, nil
}

// Close closes the catalogue.
func (db *MapDB) Close() error {
	return db.db.Close()
}

// Add records that the map m with checksum crc is stored at path.
func (db *MapDB) Add(path, crc string, m *Map) error {
	id, err := db.addDream(crc, m)
	if err != nil {
		return err
	}
	return db.addLocation(id, path)
}

func (db *MapDB) addDream(crc string, m *Map) (int64, error) {
	var id int64
	switch err := db.db.QueryRow("SELECT id FROM dream WHERE crc = ?", crc).Scan(&id); err {
	case sql.ErrNoRows:
		h := m.Header()
		result, err := db.db.Exec("INSERT OR IGNORE INTO dream (crc, name, rating, revision, width, height) VALUES (?, ?, ?, ?, ?, ?)", crc, h.Name, h.Rating, h.Revision, m.Width(), m.Height())
		if err != nil {
			return 0, err
		}
		if n, err := result.RowsAffected(); err == nil && n == 0 {
			// Another worker inserted the same map first
			if err := db.db.QueryRow("SELECT id FROM dream WHERE crc = ?", crc).Scan(&id); err != nil {
				return 0, err
			}
			return id, nil
		}
		return result.LastInsertId()
	case nil:
		return id, nil
	default:
		return 0, err
	}
}

func (db *MapDB) addLocation(dream int64, path string) error {
	if _, err := db.db.Exec("INSERT OR REPLACE INTO location (dream_id, path) VALUES (?, ?)", dream, path); err != nil {
		return err
	}
	return nil
}

func (db *MapDB) paths(dream int64) ([]string, error) {
	rows, err := db.db.Query("SELECT path FROM location WHERE dream_id = ? ORDER BY path", dream)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, rows.Err()
}

// FindByCRC returns the map with the given checksum or nil if there is none.
func (db *MapDB) FindByCRC(crc string) (*Summary, error) {
	var id int64
	s := new(Summary)
	switch err := db.db.QueryRow("SELECT id, crc, name, rating, revision, width, height FROM dream WHERE crc = ?", crc).Scan(&id, &s.CRC, &s.Name, &s.Rating, &s.Revision, &s.Width, &s.Height); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		paths, err := db.paths(id)
		if err != nil {
			return nil, err
		}
		s.Paths = paths
		return s, nil
	default:
		return nil, err
	}
}

// FindByName returns every map whose name matches the SQL LIKE pattern,
// ordered by name.
func (db *MapDB) FindByName(pattern string) ([]Summary, error) {
	rows, err := db.db.Query("SELECT id, crc, name, rating, revision, width, height FROM dream WHERE name LIKE ? ORDER BY name, crc", pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	var summaries []Summary
	for rows.Next() {
		var id int64
		var s Summary
		if err := rows.Scan(&id, &s.CRC, &s.Name, &s.Rating, &s.Revision, &s.Width, &s.Height); err != nil {
			return nil, err
		}
		ids = append(ids, id)
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	for i, id := range ids {
		if summaries[i].Paths, err = db.paths(id); err != nil {
			return nil, err
		}
	}

	return summaries, nil
}
