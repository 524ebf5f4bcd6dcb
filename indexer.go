package furcmap

import "log"

// Indexer scans directory trees for map files and records them in a MapDB.
type Indexer struct {
	db     *MapDB
	logger *log.Logger
}

// NewIndexer returns an Indexer writing to db. Maps that cannot be read are
// reported to logger and skipped.
func NewIndexer(db *MapDB, logger *log.Logger) *Indexer {
	return &Indexer{
		db:     db,
		logger: logger,
	}
}
