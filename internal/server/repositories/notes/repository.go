// Package notes persists the per-user note resource.
package notes

import (
	"context"

	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/google/uuid"
)

// Repository persists notes. A missing note yields common.ErrorNotFound.
// List returns one page, newest first, together with the total number of
// notes matching the filter.
type Repository interface {
	Create(ctx context.Context, note *models.Note) (*models.Note, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Note, error)
	List(ctx context.Context, filter models.NoteFilter) ([]models.Note, int, error)
	Update(ctx context.Context, id uuid.UUID, upd models.NoteUpdate) (*models.Note, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
