// Package local keeps uploaded files on disk. It backs development and tests
// when no bucket is configured.
package local

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"cv-analyzer/internal/shared/storage/object"
)

const (
	dirPerm  = 0o755
	tempGlob = ".upload-*"
)

type Store struct {
	root string
}

func New(root string) *Store {
	return &Store{root: root}
}

// Put writes r to a temp file next to the target, syncs it, then renames it
// into place so readers never see a partial upload. contentType is not kept.
func (s *Store) Put(ctx context.Context, key string, _ string, r io.Reader) (int64, error) {
	target, err := s.resolve(ctx, key)
	if err != nil {
		return 0, err
	}
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return 0, errors.Wrap(err, "create object dir")
	}

	tmp, err := os.CreateTemp(dir, tempGlob)
	if err != nil {
		return 0, errors.Wrap(err, "create temp file")
	}
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmp.Name())
		}
	}()

	n, err := io.Copy(tmp, r)
	if err == nil {
		err = tmp.Sync()
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return 0, errors.Wrapf(err, "write %s", key)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return 0, errors.Wrapf(err, "commit %s", key)
	}
	committed = true
	return n, nil
}

func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	target, err := s.resolve(ctx, key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(target)
	if err != nil {
		return nil, notFound(key, err)
	}
	return f, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	target, err := s.resolve(ctx, key)
	if err != nil {
		return err
	}
	return notFound(key, os.Remove(target))
}

// resolve maps a cleaned key below root.
func (s *Store) resolve(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	clean, err := object.CleanKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, filepath.FromSlash(clean)), nil
}

func notFound(key string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return errors.Wrap(object.ErrNotFound, key)
	}
	return err
}

var _ object.ObjectStore = (*Store)(nil)
