package persist

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/felixgeelhaar/ganttline/internal/log"
)

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// fileBackend keeps one JSON document per key in a directory:
//
//	<path>/<key>.json
//
// Writes go to a temp file in the same directory and are renamed into place,
// so a crash never leaves a half-written document behind.
type fileBackend struct {
	dir string
	log *log.Logger
}

func openFile(cfg Config, logger *log.Logger) (Backend, error) {
	dir := strings.TrimSpace(cfg.Path)
	if dir == "" {
		return nil, ioError("open file storage", fmt.Errorf("storage.path is required for file driver"))
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, ioError("create storage directory", err)
	}
	return &fileBackend{dir: dir, log: logger.With("driver", DriverFile, "dir", dir)}, nil
}

func (f *fileBackend) path(key string) string {
	return filepath.Join(f.dir, unsafeKeyChars.ReplaceAllString(key, "_")+".json")
}

func (f *fileBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	data, err := os.ReadFile(f.path(key))
	if stderrors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, ioError("read "+key, err)
	}
	return data, true, nil
}

func (f *fileBackend) Put(_ context.Context, key string, value []byte) error {
	target := f.path(key)
	tmp, err := os.CreateTemp(f.dir, filepath.Base(target)+".*.tmp")
	if err != nil {
		return ioError("create temp file", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return ioError("write "+key, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return ioError("sync "+key, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return ioError("close "+key, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		_ = os.Remove(tmpName)
		return ioError("replace "+key, err)
	}
	f.log.Debug("document written", "key", key, "bytes", len(value))
	return nil
}

func (f *fileBackend) Close() error {
	return nil
}
