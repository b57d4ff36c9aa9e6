// Package file stores the model artifact as a single envelope file on the
// local filesystem.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"fraudrisk/pkg/domain"
	"fraudrisk/pkg/storage"
)

var _ storage.ArtifactBackend = (*File)(nil)

// File keeps the artifact envelope in one file on local disk.
type File struct {
	path string
}

// New returns a file backend writing to path. The parent directory is created
// on first save.
func New(path string) *File {
	return &File{path: path}
}

// SaveArtifact writes the envelope to a temporary file in the same directory
// and renames it over the target, so readers see either the old or the new
// artifact in full.
func (f *File) SaveArtifact(ctx context.Context, artifact domain.Artifact) error {
	if err := ctx.Err(); err != nil {
		return err //nolint: wrapcheck
	}

	b, err := storage.EncodeArtifact(artifact)
	if err != nil {
		return err
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("could not create artifact directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("could not create temporary artifact file: %w", err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()

		return fmt.Errorf("could not write artifact: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()

		return fmt.Errorf("could not sync artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("could not close artifact: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("could not replace artifact: %w", err)
	}

	return nil
}

// LoadArtifact reads the artifact file, or fails with
// storage.ErrArtifactNotFound when nothing was saved yet.
func (f *File) LoadArtifact(ctx context.Context) (*domain.Artifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err //nolint: wrapcheck
	}

	b, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, storage.ErrArtifactNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("could not read artifact: %w", err)
	}

	return storage.DecodeArtifact(b)
}

// Close is a no-op; no handle is held between calls.
func (f *File) Close() error {
	return nil
}
