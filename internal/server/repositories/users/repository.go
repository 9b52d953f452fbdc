package users

import (
	"context"

	"github.com/dmitrijs2005/taskboard/internal/server/models"
)

// Patch carries the user fields a profile update may change. Nil fields
// are left untouched.
type Patch struct {
	Username *string
	Email    *string
}

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	Exists(ctx context.Context, username, email string) (bool, error)
	Update(ctx context.Context, id string, patch Patch) (*models.User, error)
}
