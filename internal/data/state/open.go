package state

import (
	"fmt"

	"github.com/hay-kot/cyclepanes/internal/core/kv"
	"github.com/hay-kot/cyclepanes/internal/data/db"
	"github.com/hay-kot/cyclepanes/internal/data/stores"
	"github.com/hay-kot/cyclepanes/internal/store/jsonfile"
	"github.com/rs/zerolog"
)

// Backend names a kv.KV implementation.
type Backend string

const (
	BackendJSON   Backend = "json"
	BackendSQLite Backend = "sqlite"
)

const (
	jsonFile   = jsonfile.FileName
	sqliteFile = db.FileName
)

// OpenStore opens the backend inside dataDir. The returned close function
// is never nil. A corrupt SQLite database is moved aside and recreated.
func OpenStore(backend Backend, dataDir string, log zerolog.Logger) (kv.KV, func() error, error) {
	noop := func() error { return nil }

	switch backend {
	case BackendJSON, "":
		return jsonfile.NewKVStore(Location(BackendJSON, dataDir), jsonfile.WithLogger(log)), noop, nil
	case BackendSQLite:
		database, err := db.Open(dataDir, db.DefaultOpenOptions())
		if err != nil && stores.IsCorruptionError(err) {
			backup, rerr := stores.RecoverFromCorruption(dataDir)
			if rerr != nil {
				return nil, noop, fmt.Errorf("recover database: %w", rerr)
			}
			log.Warn().Err(err).Str("backup", backup).Msg("database corrupt, settings reset to defaults")
			database, err = db.Open(dataDir, db.DefaultOpenOptions())
		}
		if err != nil {
			return nil, noop, err
		}
		return stores.NewKVStore(database), database.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown storage backend %q", backend)
	}
}
