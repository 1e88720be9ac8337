package pagecache

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"

	"github.com/KirkDiggler/lenna/internal/errors"
)

type fsRepository struct {
	dir string
}

// FSConfig contains configuration for the filesystem page cache.
type FSConfig struct {
	// Dir holds one <page_id>.json file per page. It is created if missing.
	Dir string
}

// Validate validates the FSConfig.
func (cfg *FSConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Dir == "" {
		return errors.InvalidArgument("dir cannot be empty")
	}
	return nil
}

// NewFS creates a filesystem-backed page cache.
func NewFS(cfg *FSConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create cache dir %s", cfg.Dir)
	}
	return &fsRepository{dir: cfg.Dir}, nil
}

// path escapes the id so page names with slashes stay inside dir.
func (r *fsRepository) path(id string) string {
	return filepath.Join(r.dir, url.PathEscape(id)+".json")
}

func (r *fsRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	id, err := validateGet(input)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(r.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFoundf("page %s not cached", id)
		}
		return nil, errors.Wrapf(err, "failed to read page %s", id)
	}

	entry, err := decodeEntry(id, data)
	if err != nil {
		return nil, err
	}
	return &GetOutput{Entry: entry}, nil
}

// Put writes tmp file, fsync, rename so readers never see a partial entry.
func (r *fsRepository) Put(ctx context.Context, input PutInput) (*PutOutput, error) {
	entry, err := validatePut(input)
	if err != nil {
		return nil, err
	}

	data, err := encodeEntry(entry)
	if err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp(r.dir, ".lenna-tmp-*")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create temp file for %s", entry.PageID)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return nil, errors.Wrapf(err, "failed to write page %s", entry.PageID)
	}
	if err := tmp.Sync(); err != nil {
		return nil, errors.Wrapf(err, "failed to sync page %s", entry.PageID)
	}
	if err := tmp.Close(); err != nil {
		return nil, errors.Wrapf(err, "failed to close page %s", entry.PageID)
	}
	if err := os.Rename(tmpName, r.path(entry.PageID)); err != nil {
		return nil, errors.Wrapf(err, "failed to rename page %s", entry.PageID)
	}
	success = true

	slog.DebugContext(ctx, "stored page on disk", "page_id", entry.PageID, "updateable", entry.Updateable)
	return &PutOutput{Entry: entry}, nil
}
