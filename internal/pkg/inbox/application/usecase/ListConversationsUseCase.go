package usecase

import (
	"context"
	"fmt"
	"strings"

	inbox "github.com/yashodhank/tincanz/internal/pkg/inbox/application/domain"
	repository "github.com/yashodhank/tincanz/internal/pkg/inbox/persistence/repository/port"
)

// ListConversationsInput selects a listing tab. An empty Filter means "all".
type ListConversationsInput struct {
	Admin  inbox.User
	Filter string
}

type ListConversationsOutput struct {
	Mode          inbox.FilterMode
	Conversations []inbox.Conversation
}

type ListConversationsUseCase struct {
	Repo repository.InboxRepository
}

func NewListConversationsUseCase(repo repository.InboxRepository) *ListConversationsUseCase {
	return &ListConversationsUseCase{Repo: repo}
}

// Execute fails with inbox.ErrInvalidFilter for an unknown mode before touching storage.
func (uc *ListConversationsUseCase) Execute(ctx context.Context, in ListConversationsInput) (ListConversationsOutput, error) {
	mode := inbox.FilterAll
	if strings.TrimSpace(in.Filter) != "" {
		parsed, err := inbox.ParseFilterMode(in.Filter)
		if err != nil {
			return ListConversationsOutput{}, err
		}
		mode = parsed
	}

	all, err := uc.Repo.ListConversations(ctx)
	if err != nil {
		return ListConversationsOutput{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	convs, err := inbox.FilterConversations(all, mode, in.Admin)
	if err != nil {
		return ListConversationsOutput{}, err
	}
	return ListConversationsOutput{Mode: mode, Conversations: convs}, nil
}
