package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"planner/internal/planner/models"
	"planner/internal/planner/serializer"
)

// ============================================================
// File Storage
// ============================================================

var validID = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// FileStore keeps one JSON file per document under root.
type FileStore struct {
	root string
}

func NewFileStore(root string) *FileStore {
	return &FileStore{root: root}
}

func (s *FileStore) Path(id string) string {
	return filepath.Join(s.root, id+".json")
}

func (s *FileStore) EnsureDir() error {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return fmt.Errorf("mkdir documents dir: %w", err)
	}
	return nil
}

// Save writes the document to a temp file and renames it over the old one,
// so readers never see a half-written document.
func (s *FileStore) Save(ctx context.Context, id string, doc *models.DrawingData) error {
	if !validID.MatchString(id) {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	data, err := serializer.Marshal(doc)
	if err != nil {
		return err
	}
	if err := s.EnsureDir(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.root, id+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.Path(id))
}

func (s *FileStore) Load(_ context.Context, id string) (*models.DrawingData, error) {
	if !validID.MatchString(id) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	data, err := os.ReadFile(s.Path(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}
	return serializer.Deserialize(data)
}
