package storage

import (
	"fmt"
	"os"
	"path"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

// FSStore keeps objects as files under a root directory.
type FSStore struct {
	fs afero.Fs
}

// NewFSStore returns a store rooted at dir on the operating system
// filesystem.
func NewFSStore(dir string) *FSStore {
	return &FSStore{fs: afero.NewBasePathFs(afero.NewOsFs(), dir)}
}

// NewMemStore returns a store backed by an in-memory filesystem.
func NewMemStore() *FSStore {
	return &FSStore{fs: afero.NewMemMapFs()}
}

func (s *FSStore) Load(objPath string) ([]byte, error) {
	data, err := afero.ReadFile(s.fs, objPath)
	if os.IsNotExist(err) {
		log.Debug("not found in storage", "path", objPath)
		return nil, fmt.Errorf("%w: %s", ErrNotFound, objPath)
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", objPath, err)
	}
	return data, nil
}

func (s *FSStore) Write(objPath string, data []byte) error {
	if err := s.fs.MkdirAll(path.Dir(objPath), 0o755); err != nil {
		return fmt.Errorf("creating parents of %s: %w", objPath, err)
	}
	if err := afero.WriteFile(s.fs, objPath, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", objPath, err)
	}
	log.Debug("object written", "path", objPath, "bytes", len(data))
	return nil
}

func (s *FSStore) Delete(objPath string) error {
	err := s.fs.Remove(objPath)
	if os.IsNotExist(err) {
		log.Debug("object does not exist", "path", objPath)
		return nil
	}
	if err != nil {
		return fmt.Errorf("deleting %s: %w", objPath, err)
	}
	log.Debug("object deleted", "path", objPath)
	return nil
}
