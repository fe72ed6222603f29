package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	inbox "github.com/yashodhank/tincanz/internal/pkg/inbox/application/domain"
	repository "github.com/yashodhank/tincanz/internal/pkg/inbox/persistence/repository/port"
	userport "github.com/yashodhank/tincanz/internal/repository/port"
)

// CreateMessageInput carries an admin's submission. Params is the composer allow-list;
// ConversationID only selects the target and never reaches the message directly.
type CreateMessageInput struct {
	Admin          inbox.User
	ConversationID *string
	Params         inbox.ComposeParams
}

// CreateMessageResult is returned even when validation fails so the form can be redisplayed.
type CreateMessageResult struct {
	Message             *inbox.Message
	Conversation        *inbox.Conversation
	ConversationCreated bool
}

// CreateMessageUseCase composes, validates and stores one message.
// Nothing is written unless every check passes.
type CreateMessageUseCase struct {
	Repo     repository.InboxRepository
	Users    userport.UserRepository
	Resolver *ResolveConversationUseCase
	Counts   *ConversationCountsUseCase
	Now      func() time.Time
}

func NewCreateMessageUseCase(repo repository.InboxRepository, users userport.UserRepository, counts *ConversationCountsUseCase) *CreateMessageUseCase {
	return &CreateMessageUseCase{
		Repo:     repo,
		Users:    users,
		Resolver: NewResolveConversationUseCase(repo),
		Counts:   counts,
		Now:      time.Now,
	}
}

func (uc *CreateMessageUseCase) Execute(ctx context.Context, in CreateMessageInput) (CreateMessageResult, error) {
	msg := inbox.Compose(in.Params)
	if msg.AuthorID == "" {
		msg.AuthorID = in.Admin.ID
	}
	res := CreateMessageResult{Message: msg}

	conv, err := uc.Resolver.Execute(ctx, ResolveConversationInput{ConversationID: in.ConversationID, Admin: in.Admin})
	if err != nil {
		return res, err
	}
	res.Conversation = conv
	msg.AttachTo(conv)

	ve := &inbox.ValidationError{}
	var domainErr *inbox.ValidationError
	if err := msg.Validate(); errors.As(err, &domainErr) {
		ve = domainErr
	}
	if err := uc.checkReferences(ctx, msg, conv, ve); err != nil {
		return res, err
	}
	if err := ve.OrNil(); err != nil {
		return res, err
	}

	created := conv.IsNew
	msg.Stamp(uc.Now())
	if created {
		conv.CreatedAt = msg.CreatedAt
	}
	if err := uc.Repo.SaveMessage(ctx, conv, msg); err != nil {
		return res, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	res.ConversationCreated = created
	uc.Counts.Invalidate(ctx)
	return res, nil
}

// checkReferences verifies the ids that need a storage lookup: author, reply target, recipients.
func (uc *CreateMessageUseCase) checkReferences(ctx context.Context, msg *inbox.Message, conv *inbox.Conversation, ve *inbox.ValidationError) error {
	if msg.AuthorID != "" {
		if !isID(msg.AuthorID) {
			ve.Add("user_id", "is invalid")
		} else if _, err := uc.Users.FindByID(ctx, msg.AuthorID); err != nil {
			if !errors.Is(err, inbox.ErrUserNotFound) {
				return fmt.Errorf("%w: %v", ErrPersistence, err)
			}
			ve.Add("user_id", "is invalid")
		}
	}

	if msg.ReplyToID != nil && *msg.ReplyToID != msg.ID {
		switch {
		case !isID(*msg.ReplyToID):
			ve.Add("reply_to_id", "is invalid")
		case conv.IsNew:
			ve.Add("reply_to_id", "must belong to the same conversation")
		default:
			target, err := uc.Repo.FindMessage(ctx, *msg.ReplyToID)
			switch {
			case errors.Is(err, inbox.ErrMessageNotFound):
				ve.Add("reply_to_id", "is invalid")
			case err != nil:
				return fmt.Errorf("%w: %v", ErrPersistence, err)
			case target.ConversationID != conv.ID:
				ve.Add("reply_to_id", "must belong to the same conversation")
			}
		}
	}

	if len(msg.RecipientIDs) == 0 {
		return nil
	}
	lookup := make([]string, 0, len(msg.RecipientIDs))
	for _, id := range msg.RecipientIDs {
		if isID(id) {
			lookup = append(lookup, id)
		}
	}
	found, err := uc.Users.FindByIDs(ctx, lookup)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if len(found) != len(msg.RecipientIDs) {
		ve.Add("recipient_ids", "contains unknown users")
	}
	return nil
}
