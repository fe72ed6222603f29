package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	inbox "github.com/yashodhank/tincanz/internal/pkg/inbox/application/domain"
	repository "github.com/yashodhank/tincanz/internal/pkg/inbox/persistence/repository/port"
)

// ResolveConversationInput names the conversation a new message should join.
// A nil, blank or unknown ConversationID starts a new conversation owned by Admin.
type ResolveConversationInput struct {
	ConversationID *string
	Admin          inbox.User
}

// ResolveConversationUseCase finds the target conversation or drafts a new one.
// Drafts are not stored here; CreateMessageUseCase saves them with their first message.
type ResolveConversationUseCase struct {
	Repo repository.InboxRepository
	Now  func() time.Time
}

func NewResolveConversationUseCase(repo repository.InboxRepository) *ResolveConversationUseCase {
	return &ResolveConversationUseCase{Repo: repo, Now: time.Now}
}

func (uc *ResolveConversationUseCase) Execute(ctx context.Context, in ResolveConversationInput) (*inbox.Conversation, error) {
	if in.Admin.ID == "" {
		return nil, fmt.Errorf("admin is required")
	}

	if in.ConversationID != nil {
		if id, ok := canonicalID(strings.TrimSpace(*in.ConversationID)); ok {
			conv, err := uc.Repo.FindConversation(ctx, id)
			switch {
			case err == nil:
				return conv, nil
			case !errors.Is(err, inbox.ErrConversationNotFound):
				return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
			}
		}
	}

	return inbox.NewConversation(in.Admin, uc.Now()), nil
}
