// Package storage persists fetched filings and chunked documents under a
// configurable prefix. A prefix of the form "bolt://path" selects a bbolt
// database, any other non-empty prefix selects a filesystem tree rooted
// there, and an empty prefix disables persistence entirely.
package storage

import (
	"errors"
	"strings"

	"github.com/charmbracelet/log"
)

// ErrNotFound is returned by Load when no object exists at the given path.
var ErrNotFound = errors.New("object not found in storage")

// Store is a flat byte-blob store keyed by slash-separated object paths.
type Store interface {
	// Load returns the object at objPath, or ErrNotFound.
	Load(objPath string) ([]byte, error)

	// Write stores the object at objPath, creating parents as needed.
	Write(objPath string, data []byte) error

	// Delete removes the object at objPath. Deleting a missing object
	// is not an error.
	Delete(objPath string) error
}

const boltScheme = "bolt://"

// Open builds a Store from a storage prefix.
func Open(prefix string) (Store, error) {
	switch {
	case prefix == "":
		log.Info("storage prefix not set, persistence disabled")
		return NopStore{}, nil
	case strings.HasPrefix(prefix, boltScheme):
		return NewBoltStore(strings.TrimPrefix(prefix, boltScheme))
	default:
		return NewFSStore(prefix), nil
	}
}

// NopStore discards writes and never finds anything.
type NopStore struct{}

func (NopStore) Load(objPath string) ([]byte, error) { return nil, ErrNotFound }
func (NopStore) Write(string, []byte) error          { return nil }
func (NopStore) Delete(string) error                 { return nil }
