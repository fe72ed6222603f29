package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	cacheport "github.com/yashodhank/tincanz/internal/infrastructure/cache/port"
	inbox "github.com/yashodhank/tincanz/internal/pkg/inbox/application/domain"
	repository "github.com/yashodhank/tincanz/internal/pkg/inbox/persistence/repository/port"

	"github.com/google/uuid"
)

const (
	DefaultCountsTTL = 30 * time.Second

	countsGenerationKey = "inbox:counts:gen"
)

type ConversationCountsInput struct {
	Admin inbox.User
}

// ConversationCountsUseCase returns the number of conversations behind each listing tab.
// Results are cached per admin; any write bumps a shared generation so every admin's
// entry goes stale at once. A nil Cache computes on every call.
type ConversationCountsUseCase struct {
	Repo  repository.InboxRepository
	Cache cacheport.Cache
	TTL   time.Duration
}

func NewConversationCountsUseCase(repo repository.InboxRepository, cache cacheport.Cache) *ConversationCountsUseCase {
	return &ConversationCountsUseCase{Repo: repo, Cache: cache, TTL: DefaultCountsTTL}
}

func (uc *ConversationCountsUseCase) Execute(ctx context.Context, in ConversationCountsInput) (map[inbox.FilterMode]int, error) {
	key := ""
	if uc.Cache != nil {
		key = uc.cacheKey(ctx, in.Admin.ID)
		if counts, ok := uc.cached(ctx, key); ok {
			return counts, nil
		}
	}

	all, err := uc.Repo.ListConversations(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	counts := inbox.CountByMode(all, in.Admin)

	if key != "" {
		if raw, err := json.Marshal(counts); err == nil {
			// a failed write only costs a recount next time
			_ = uc.Cache.Set(ctx, key, string(raw), uc.TTL)
		}
	}
	return counts, nil
}

// Invalidate drops every cached counter. Cache errors are ignored; entries expire on their own.
func (uc *ConversationCountsUseCase) Invalidate(ctx context.Context) {
	if uc == nil || uc.Cache == nil {
		return
	}
	_ = uc.Cache.Set(ctx, countsGenerationKey, uuid.NewString(), 0)
}

func (uc *ConversationCountsUseCase) cacheKey(ctx context.Context, adminID string) string {
	gen, err := uc.Cache.Get(ctx, countsGenerationKey)
	if err != nil {
		if !errors.Is(err, cacheport.ErrMiss) {
			return ""
		}
		gen = "0"
	}
	return "inbox:counts:" + gen + ":" + adminID
}

func (uc *ConversationCountsUseCase) cached(ctx context.Context, key string) (map[inbox.FilterMode]int, bool) {
	if key == "" {
		return nil, false
	}
	raw, err := uc.Cache.Get(ctx, key)
	if err != nil {
		return nil, false
	}
	var counts map[inbox.FilterMode]int
	if err := json.Unmarshal([]byte(raw), &counts); err != nil {
		return nil, false
	}
	return counts, true
}
