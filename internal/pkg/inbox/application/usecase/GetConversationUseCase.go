package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	inbox "github.com/yashodhank/tincanz/internal/pkg/inbox/application/domain"
	repository "github.com/yashodhank/tincanz/internal/pkg/inbox/persistence/repository/port"
	userport "github.com/yashodhank/tincanz/internal/repository/port"
)

type GetConversationInput struct {
	ConversationID string
}

// GetConversationUseCase loads a conversation as a thread: first message, then replies by creation time.
type GetConversationUseCase struct {
	Repo  repository.InboxRepository
	Users userport.UserRepository
}

func NewGetConversationUseCase(repo repository.InboxRepository, users userport.UserRepository) *GetConversationUseCase {
	return &GetConversationUseCase{Repo: repo, Users: users}
}

func (uc *GetConversationUseCase) Execute(ctx context.Context, in GetConversationInput) (inbox.Thread, error) {
	id, ok := canonicalID(strings.TrimSpace(in.ConversationID))
	if !ok {
		return inbox.Thread{}, inbox.ErrConversationNotFound
	}

	conv, err := uc.Repo.FindConversation(ctx, id)
	if errors.Is(err, inbox.ErrConversationNotFound) {
		return inbox.Thread{}, err
	}
	if err != nil {
		return inbox.Thread{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if conv.OwnerID != nil {
		owner, err := uc.Users.FindByID(ctx, *conv.OwnerID)
		if err != nil && !errors.Is(err, inbox.ErrUserNotFound) {
			return inbox.Thread{}, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		conv.Owner = owner
	}

	msgs, err := uc.Repo.ListMessages(ctx, conv.ID)
	if err != nil {
		return inbox.Thread{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	conv.MessageCount = len(msgs)
	return inbox.NewThread(*conv, msgs), nil
}
