package jsonfile

import (
	"context"

	"github.com/spf13/afero"
)

// FileStore loads and saves JSON documents on an afero filesystem.
// It does not lock: concurrent writers to the same path race and the last
// rename wins.
type FileStore struct {
	fs afero.Fs
}

// NewFileStore creates a store backed by fsys.
func NewFileStore(fsys afero.Fs) *FileStore {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &FileStore{fs: fsys}
}

// NewOSStore creates a store on the real filesystem.
func NewOSStore() *FileStore {
	return NewFileStore(afero.NewOsFs())
}

// Fs exposes the underlying filesystem.
func (s *FileStore) Fs() afero.Fs {
	return s.fs
}

// Load decodes the document at path into out.
func (s *FileStore) Load(ctx context.Context, path string, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return Load(s.fs, path, out)
}

// Save writes v to path atomically.
func (s *FileStore) Save(ctx context.Context, path string, v any, opts WriteOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return Save(s.fs, path, v, opts)
}
