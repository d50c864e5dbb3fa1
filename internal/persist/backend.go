package persist

import (
	"context"
	"strings"
	"time"

	"github.com/felixgeelhaar/ganttline/internal/errors"
	"github.com/felixgeelhaar/ganttline/internal/log"
)

// Driver names accepted by Open.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// Backend is a minimal key/value store for encoded documents.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// Config configures storage.
//
// Driver values:
//   - "memory": per-process map, lost on exit
//   - "file": one JSON document per key under the Path directory
//   - "sqlite": SQLite database file at Path
type Config struct {
	Driver      string
	Path        string
	Key         string
	BusyTimeout time.Duration // sqlite only; 0 means default
}

// Open initializes the configured backend.
func Open(cfg Config, logger *log.Logger) (Backend, error) {
	logger = log.OrDefault(logger)
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))

	switch driver {
	case "", DriverMemory:
		return NewMemory(), nil
	case DriverFile:
		return openFile(cfg, logger)
	case DriverSQLite, "sqlite3":
		return openSQLite(cfg, logger)
	default:
		return nil, errors.NewUnknownDriverError(cfg.Driver)
	}
}

func ioError(op string, err error) error {
	return errors.Wrap(errors.ErrCodeStoreIO, op, err)
}
