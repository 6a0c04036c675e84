package disk

import (
	"context"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Store keeps media payloads as plain files under a base directory. It acts
// both as the upload store for the ingestion boundary and as the media
// resolver for locally referenced payloads.
type Store struct {
	baseDir string
}

func NewStore(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "Failed to create media directory")
	}

	return &Store{baseDir: baseDir}, nil
}

// Save writes the payload under a fresh uuid name and returns the path to
// use as the job's media reference.
func (s *Store) Save(data []byte, ext string) (string, error) {
	name := uuid.New().String()
	if ext != "" {
		name += "." + ext
	}

	path := filepath.Join(s.baseDir, name)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.Wrap(err, "Failed to write media file")
	}

	return path, nil
}

func (s *Store) Check(ctx context.Context, ref string) error {
	info, err := os.Stat(ref)
	if err != nil {
		return err
	}

	if info.IsDir() {
		return errors.Errorf("media reference %s is a directory", ref)
	}

	return nil
}

func (s *Store) Resolve(ctx context.Context, ref string) ([]byte, error) {
	return os.ReadFile(ref)
}
