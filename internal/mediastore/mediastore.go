// Package mediastore implements the blob store for uploaded banner media.
// Blobs are addressed by a generated storage key that preserves the original
// file extension and is never reused by a different upload.
package mediastore

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrNoExtension is returned when the uploaded filename has no extension.
	ErrNoExtension = errors.New("filename has no extension")
	// ErrDisallowedType is returned when the extension is not allow-listed.
	ErrDisallowedType = errors.New("invalid file type")
	// ErrInvalidKey is returned for a storage key that does not name a plain
	// file inside the store.
	ErrInvalidKey = errors.New("invalid storage key")
)

// allowedExtensions is the upload allow-list, lowercase without dot.
var allowedExtensions = map[string]struct{}{
	"png":  {},
	"jpg":  {},
	"jpeg": {},
	"gif":  {},
	"webp": {},
	"mp4":  {},
	"webm": {},
	"mov":  {},
}

// Store is a filesystem blob store rooted at a single directory.
type Store struct {
	root string
}

// New creates the store, making sure the root directory exists.
func New(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, err
	}

	return &Store{root: root}, nil
}

// NewKey generates a collision-resistant storage key for the given upload
// name, preserving its extension. The original name is otherwise ignored.
func NewKey(originalName string) (string, error) {
	ext := extension(originalName)
	if ext == "" {
		return "", ErrNoExtension
	}

	if _, ok := allowedExtensions[ext]; !ok {
		return "", ErrDisallowedType
	}

	id := uuid.New()

	return strings.ReplaceAll(id.String(), "-", "") + "." + ext, nil
}

// Save writes the blob under the given key.
func (s *Store) Save(key string, data []byte) error {
	path, err := s.Path(key)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o640)
}

// Remove deletes the blob for the given key. An already-missing blob is not
// an error.
func (s *Store) Remove(key string) error {
	path, err := s.Path(key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}

	return nil
}

// Exists reports whether a blob is stored under the given key.
func (s *Store) Exists(key string) bool {
	path, err := s.Path(key)
	if err != nil {
		return false
	}

	info, err := os.Stat(path)

	return err == nil && info.Mode().IsRegular()
}

// Path resolves a storage key to its on-disk path, rejecting keys that try
// to escape the store root.
func (s *Store) Path(key string) (string, error) {
	if key == "" || key != filepath.Base(key) {
		return "", ErrInvalidKey
	}

	return filepath.Join(s.root, key), nil
}

// extension returns the lowercase extension of name without the dot, or an
// empty string if there is none.
func extension(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx < 0 || idx == len(name)-1 {
		return ""
	}

	return strings.ToLower(name[idx+1:])
}
