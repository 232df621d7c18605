// Package storage persists GeoJSON documents on the local filesystem.
//
// The store is the engine's only I/O collaborator: it loads raw JSON by name
// and persists engine output, returning the absolute path as the retrieval
// handle. All names are validated against traversal before touching the disk.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/reforestai/geokit/internal/log"
)

var (
	// ErrNotFound is returned when the named document does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrInvalidName is returned when a document name fails validation.
	ErrInvalidName = errors.New("invalid document name")

	// ErrTooLarge is returned when a document exceeds the configured size cap.
	ErrTooLarge = errors.New("document too large")
)

// DefaultMaxDocumentSize caps how many bytes Load will read (64 MB). Feature
// collections are held fully in memory, so unbounded reads are an OOM hazard.
const DefaultMaxDocumentSize = 64 * 1024 * 1024

// Store reads and writes JSON documents under a base directory.
type Store struct {
	baseDir string
	maxSize int64
	logger  log.Logger
}

// Option configures optional Store behavior.
type Option func(*Store)

// WithMaxDocumentSize overrides the Load size cap.
func WithMaxDocumentSize(n int64) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxSize = n
		}
	}
}

// New creates a store rooted at baseDir, creating the directory if needed.
func New(baseDir string, logger log.Logger, opts ...Option) (*Store, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("base directory is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("resolve base directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, fmt.Errorf("create base directory: %w", err)
	}

	s := &Store{baseDir: abs, maxSize: DefaultMaxDocumentSize, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// BaseDir returns the absolute base directory.
func (s *Store) BaseDir() string {
	return s.baseDir
}

// ValidateName checks that a document name is safe to resolve under the base
// directory. Returns ErrInvalidName if validation fails.
//
// Rules: non-empty, at most 255 characters, no path separators, no null
// bytes, not "." or "..".
func ValidateName(name string) error {
	if name == "" || len(name) > 255 {
		return ErrInvalidName
	}
	for _, c := range name {
		if c == '/' || c == '\\' || c == '\x00' {
			return ErrInvalidName
		}
	}
	if name == "." || name == ".." {
		return ErrInvalidName
	}
	return nil
}

// Load reads and decodes the named JSON document. Numbers decode as float64
// per encoding/json defaults, which is what the engine expects.
func (s *Store) Load(name string) (any, error) {
	if err := ValidateName(name); err != nil {
		return nil, fmt.Errorf("%w: %q", err, name)
	}

	path := filepath.Join(s.baseDir, name)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", name, err)
	}
	if info.Size() > s.maxSize {
		return nil, fmt.Errorf("%w: %s is %d bytes (max %d)", ErrTooLarge, name, info.Size(), s.maxSize)
	}

	data, err := io.ReadAll(io.LimitReader(f, s.maxSize))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}

	s.logger.Debug("loaded document", "name", name, "bytes", len(data))
	return doc, nil
}

// Save marshals doc and writes it under name, returning the absolute path as
// the retrieval handle. An empty name generates "geokit-<uuid>.geojson".
func (s *Store) Save(doc any, name string) (string, error) {
	if name == "" {
		name = fmt.Sprintf("geokit-%s.geojson", uuid.NewString())
	}
	if err := ValidateName(name); err != nil {
		return "", fmt.Errorf("%w: %q", err, name)
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", name, err)
	}

	path := filepath.Join(s.baseDir, name)
	if err := os.WriteFile(path, data, 0o640); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}

	s.logger.Debug("saved document", "name", name, "bytes", len(data))
	return path, nil
}

// List returns the names of the regular files in the base directory, sorted.
// Dotfiles are skipped.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.baseDir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}
