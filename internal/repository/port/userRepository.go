package repository

import (
	"context"

	inbox "github.com/yashodhank/tincanz/internal/pkg/inbox/application/domain"
)

// UserRepository is the read side of the host application's user table.
// Missing users are reported as inbox.ErrUserNotFound.
type UserRepository interface {
	Create(ctx context.Context, user *inbox.User) error
	FindByID(ctx context.Context, id string) (*inbox.User, error)
	FindByEmail(ctx context.Context, email string) (*inbox.User, error)
	// FindByIDs returns the users that exist among ids; unknown ids are skipped.
	FindByIDs(ctx context.Context, ids []string) ([]inbox.User, error)
	List(ctx context.Context) ([]inbox.User, error)
}
