package health

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/felixgeelhaar/ganttline/internal/persist"
)

// StorageChecker reads the stored plan document and checks that it decodes.
type StorageChecker struct {
	backend persist.Backend
	key     string
}

// NewStorageChecker checks the document under key (persist.DefaultKey when
// empty).
func NewStorageChecker(backend persist.Backend, key string) *StorageChecker {
	if key == "" {
		key = persist.DefaultKey
	}
	return &StorageChecker{backend: backend, key: key}
}

// Name returns "storage".
func (c *StorageChecker) Name() string {
	return "storage"
}

// Check reads and decodes the stored document.
func (c *StorageChecker) Check(ctx context.Context) *Result {
	data, ok, err := c.backend.Get(ctx, c.key)
	if err != nil {
		return Unhealthy("storage cannot be read").WithDetail("error", err.Error())
	}
	if !ok {
		return Healthy("no tasks stored yet").WithDetail("key", c.key)
	}

	tasks, err := persist.Decode(data)
	var mismatch *persist.SchemaMismatchError
	switch {
	case stderrors.As(err, &mismatch):
		return Degraded(fmt.Sprintf("stored data uses schema version %d and will be replaced on the next change", mismatch.Found)).
			WithDetail("want_version", persist.SchemaVersion)
	case err != nil:
		return Unhealthy("stored data is corrupt").WithDetail("error", err.Error())
	}
	return Healthy(fmt.Sprintf("%d task(s) stored", len(tasks))).
		WithDetail("key", c.key).
		WithDetail("bytes", len(data))
}
