package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	inbox "github.com/yashodhank/tincanz/internal/pkg/inbox/application/domain"
	repository "github.com/yashodhank/tincanz/internal/pkg/inbox/persistence/repository/port"
)

// AssignConversationInput claims the conversation for Admin, or clears its owner when Release is set.
type AssignConversationInput struct {
	ConversationID string
	Admin          inbox.User
	Release        bool
}

type AssignConversationUseCase struct {
	Repo   repository.InboxRepository
	Counts *ConversationCountsUseCase
}

func NewAssignConversationUseCase(repo repository.InboxRepository, counts *ConversationCountsUseCase) *AssignConversationUseCase {
	return &AssignConversationUseCase{Repo: repo, Counts: counts}
}

func (uc *AssignConversationUseCase) Execute(ctx context.Context, in AssignConversationInput) error {
	id, ok := canonicalID(strings.TrimSpace(in.ConversationID))
	if !ok {
		return inbox.ErrConversationNotFound
	}

	var owner *string
	if !in.Release {
		if in.Admin.ID == "" {
			return fmt.Errorf("admin is required")
		}
		adminID := in.Admin.ID
		owner = &adminID
	}

	if err := uc.Repo.SetOwner(ctx, id, owner); err != nil {
		if errors.Is(err, inbox.ErrConversationNotFound) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	uc.Counts.Invalidate(ctx)
	return nil
}
