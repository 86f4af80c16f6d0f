package repository

import (
	"context"
	"errors"

	"planner/internal/planner/autosave"
	"planner/internal/planner/models"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrInvalidID = errors.New("invalid document id")
)

// Repository stores whole documents by id. Load validates what it reads and
// never returns a partially decoded document.
type Repository interface {
	Save(ctx context.Context, id string, doc *models.DrawingData) error
	Load(ctx context.Context, id string) (*models.DrawingData, error)
}

// SaverFor binds repo to one document id so it can back an autosaver.
func SaverFor(repo Repository, id string) autosave.Saver {
	return autosave.SaverFunc(func(ctx context.Context, doc *models.DrawingData) error {
		return repo.Save(ctx, id, doc)
	})
}
