package usecase

import (
	"context"
	"fmt"

	inbox "github.com/yashodhank/tincanz/internal/pkg/inbox/application/domain"
	userport "github.com/yashodhank/tincanz/internal/repository/port"
)

// ListUsersUseCase backs the directory admins start new messages from.
type ListUsersUseCase struct {
	Users userport.UserRepository
}

func NewListUsersUseCase(users userport.UserRepository) *ListUsersUseCase {
	return &ListUsersUseCase{Users: users}
}

func (uc *ListUsersUseCase) Execute(ctx context.Context) ([]inbox.User, error) {
	users, err := uc.Users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return users, nil
}
