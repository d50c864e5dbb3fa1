package persist

import (
	"context"
	stderrors "errors"

	"github.com/zeebo/blake3"

	"github.com/felixgeelhaar/ganttline/internal/log"
	"github.com/felixgeelhaar/ganttline/internal/schedule"
)

// Adapter loads and saves the task collection through a Backend. It
// implements schedule.Persister.
type Adapter struct {
	backend Backend
	key     string
	log     *log.Logger

	digest    [32]byte
	hasDigest bool
}

var _ schedule.Persister = (*Adapter)(nil)

// NewAdapter creates an adapter storing under key (DefaultKey when empty).
func NewAdapter(backend Backend, key string, logger *log.Logger) *Adapter {
	if key == "" {
		key = DefaultKey
	}
	logger = log.OrDefault(logger)
	return &Adapter{backend: backend, key: key, log: logger.With("key", key)}
}

// Load reads the stored collection. Missing data and data written by
// another schema version both yield an empty collection.
func (a *Adapter) Load(ctx context.Context) ([]schedule.Task, error) {
	data, ok, err := a.backend.Get(ctx, a.key)
	if err != nil {
		return nil, err
	}
	if !ok {
		a.log.Debug("no stored tasks")
		return []schedule.Task{}, nil
	}

	tasks, err := Decode(data)
	var mismatch *SchemaMismatchError
	if stderrors.As(err, &mismatch) {
		a.log.Warn("discarding stored tasks", "found_version", mismatch.Found, "want_version", SchemaVersion)
		return []schedule.Task{}, nil
	}
	if err != nil {
		return nil, err
	}

	a.remember(data)
	a.log.Debug("tasks loaded", "count", len(tasks))
	return tasks, nil
}

// Save encodes and writes tasks. The write is skipped when the payload is
// identical to the last one loaded or written.
func (a *Adapter) Save(ctx context.Context, tasks []schedule.Task) error {
	data, err := Encode(tasks)
	if err != nil {
		return err
	}
	if a.hasDigest && blake3.Sum256(data) == a.digest {
		a.log.Debug("tasks unchanged, skipping write")
		return nil
	}
	if err := a.backend.Put(ctx, a.key, data); err != nil {
		return err
	}
	a.remember(data)
	return nil
}

// Close releases the backend.
func (a *Adapter) Close() error {
	return a.backend.Close()
}

func (a *Adapter) remember(data []byte) {
	a.digest = blake3.Sum256(data)
	a.hasDigest = true
}
