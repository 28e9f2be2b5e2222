package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/globalsolution/ecoprev/internal/model"
)

// ModelStorage reads and writes model artifacts.
type ModelStorage struct {
	storage *Storage
}

// NewModelStorage creates a new ModelStorage.
func NewModelStorage(s *Storage) *ModelStorage {
	return &ModelStorage{storage: s}
}

// Saveable is an interface for objects that can be saved.
type Saveable interface {
	Save(w io.Writer) error
}

// ModelInfo describes a loaded artifact.
type ModelInfo struct {
	Name      string     `json:"name"`
	Model     string     `json:"model,omitempty"`
	Type      model.Type `json:"type"`
	Path      string     `json:"path"`
	Exists    bool       `json:"exists"`
	Size      int64      `json:"size,omitempty"`
	SHA256    string     `json:"sha256,omitempty"`
	UpdatedAt time.Time  `json:"updated_at,omitempty"`
	Features  []string   `json:"features,omitempty"`
}

// LoadModel populates m from the artifact at path. A missing artifact is an error.
func (ms *ModelStorage) LoadModel(name string, typ model.Type, path string, m model.Loadable) (ModelInfo, error) {
	ms.storage.mu.Lock()
	defer ms.storage.mu.Unlock()

	filePath := ms.storage.Resolve(path)
	info := ModelInfo{Name: name, Type: typ, Path: filePath}

	file, err := os.Open(filePath)
	if err != nil {
		return info, fmt.Errorf("failed to open %s model: %w", name, err)
	}
	defer file.Close()

	hash := sha256.New()
	tee := io.TeeReader(file, hash)

	if err := m.Load(tee); err != nil {
		return info, fmt.Errorf("failed to load %s model from %s: %w", name, filePath, err)
	}
	// Decoders may stop before EOF.
	if _, err := io.Copy(io.Discard, tee); err != nil {
		return info, fmt.Errorf("failed to read %s model: %w", name, err)
	}

	stat, err := file.Stat()
	if err != nil {
		return info, fmt.Errorf("failed to stat %s model: %w", name, err)
	}

	info.Exists = true
	info.Size = stat.Size()
	info.UpdatedAt = stat.ModTime()
	info.SHA256 = hex.EncodeToString(hash.Sum(nil))
	if named, ok := m.(interface{ Name() string }); ok {
		info.Model = named.Name()
	}
	if s, ok := m.(model.Schema); ok {
		info.Features = s.FeatureNames()
	}

	ms.storage.logger.Info("loaded model",
		"name", name,
		"type", typ,
		"path", filePath,
		"size", info.Size,
		"sha256", info.SHA256,
	)
	return info, nil
}

// SaveModel writes m to path atomically.
func (ms *ModelStorage) SaveModel(path string, m Saveable) error {
	ms.storage.mu.Lock()
	defer ms.storage.mu.Unlock()

	filePath := ms.storage.Resolve(path)
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create models directory: %w", err)
	}

	tempPath := filePath + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if err := m.Save(file); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to save model: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tempPath, filePath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	ms.storage.logger.Debug("saved model to disk", "path", filePath)
	return nil
}

// GetModelInfo stats the artifact at path without loading it.
func (ms *ModelStorage) GetModelInfo(name string, typ model.Type, path string) ModelInfo {
	filePath := ms.storage.Resolve(path)
	info := ModelInfo{Name: name, Type: typ, Path: filePath}

	stat, err := os.Stat(filePath)
	if err != nil {
		return info
	}

	info.Exists = true
	info.Size = stat.Size()
	info.UpdatedAt = stat.ModTime()
	return info
}
