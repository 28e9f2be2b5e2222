package storage

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Storage resolves artifact paths against a models directory.
type Storage struct {
	dataDir string
	logger  *slog.Logger

	mu sync.Mutex
}

// New creates a new Storage instance rooted at dataDir.
func New(dataDir string, logger *slog.Logger) *Storage {
	if logger == nil {
		logger = slog.Default()
	}
	return &Storage{
		dataDir: dataDir,
		logger:  logger,
	}
}

// Dir returns the models directory.
func (s *Storage) Dir() string {
	return s.dataDir
}

// Resolve returns path unchanged when absolute, otherwise joined to the
// models directory.
func (s *Storage) Resolve(path string) string {
	if filepath.IsAbs(path) || s.dataDir == "" {
		return path
	}
	return filepath.Join(s.dataDir, path)
}

// Exists reports whether the artifact at path is a regular file.
func (s *Storage) Exists(path string) bool {
	stat, err := os.Stat(s.Resolve(path))
	return err == nil && stat.Mode().IsRegular()
}
