package tasks

import (
	"context"
	"time"

	"github.com/dmitrijs2005/taskboard/internal/server/models"
)

// Filter narrows a task listing. Zero values mean "no restriction".
// FreeText matches the title only, case-insensitively.
type Filter struct {
	FreeText string
	Status   string
	Priority string
}

// Patch carries the task fields a partial update may change. Nil fields
// are left untouched. UpdatedAt is always written.
type Patch struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	UpdatedAt   time.Time
}

type Repository interface {
	List(ctx context.Context, ownerID string, filter Filter) ([]*models.Task, error)
	Create(ctx context.Context, task *models.Task) (*models.Task, error)
	Update(ctx context.Context, ownerID, taskID string, patch Patch) (*models.Task, error)
	Delete(ctx context.Context, ownerID, taskID string) error
}
