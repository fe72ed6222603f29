package adapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	inbox "github.com/yashodhank/tincanz/internal/pkg/inbox/application/domain"
	repository "github.com/yashodhank/tincanz/internal/pkg/inbox/persistence/repository/port"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgInboxRepository struct {
	pool *pgxpool.Pool
}

func NewPgInboxRepository(pool *pgxpool.Pool) *PgInboxRepository {
	return &PgInboxRepository{pool: pool}
}

var _ repository.InboxRepository = (*PgInboxRepository)(nil)

var errNilPool = errors.New("PgInboxRepository: nil pool")

func (r *PgInboxRepository) FindConversation(ctx context.Context, id string) (*inbox.Conversation, error) {
	if r == nil || r.pool == nil {
		return nil, errNilPool
	}
	var c inbox.Conversation
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, owner_id::text, created_at
		FROM tincanz.conversation
		WHERE id = $1::uuid
	`, id).Scan(&c.ID, &c.OwnerID, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, inbox.ErrConversationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PgInboxRepository) ListConversations(ctx context.Context) ([]inbox.Conversation, error) {
	if r == nil || r.pool == nil {
		return nil, errNilPool
	}
	rows, err := r.pool.Query(ctx, `
		SELECT c.id::text, c.owner_id::text, c.created_at,
		       u.email, u.admin, u.created_at,
		       COALESCE(first_msg.content, ''), COALESCE(stats.total, 0)
		FROM tincanz.conversation c
		LEFT JOIN tincanz.users u ON u.id = c.owner_id
		LEFT JOIN LATERAL (
			SELECT m.content FROM tincanz.message m
			WHERE m.conversation_id = c.id
			ORDER BY m.created_at ASC, m.id ASC
			LIMIT 1
		) first_msg ON true
		LEFT JOIN LATERAL (
			SELECT count(*)::int AS total FROM tincanz.message m WHERE m.conversation_id = c.id
		) stats ON true
		ORDER BY c.created_at ASC, c.id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var convs []inbox.Conversation
	for rows.Next() {
		var (
			c          inbox.Conversation
			ownerEmail *string
			ownerAdmin *bool
			ownerSince *time.Time
		)
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.CreatedAt, &ownerEmail, &ownerAdmin, &ownerSince, &c.Preview, &c.MessageCount); err != nil {
			return nil, err
		}
		if c.OwnerID != nil && ownerEmail != nil {
			c.Owner = &inbox.User{ID: *c.OwnerID, Email: *ownerEmail}
			if ownerAdmin != nil {
				c.Owner.Admin = *ownerAdmin
			}
			if ownerSince != nil {
				c.Owner.CreatedAt = *ownerSince
			}
		}
		convs = append(convs, c)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return convs, nil
}

func (r *PgInboxRepository) SaveMessage(ctx context.Context, c *inbox.Conversation, m *inbox.Message) error {
	if r == nil || r.pool == nil {
		return errNilPool
	}
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if c.IsNew {
			if _, err := tx.Exec(ctx, `
				INSERT INTO tincanz.conversation (id, owner_id, created_at)
				VALUES ($1::uuid, $2::uuid, $3)
			`, c.ID, c.OwnerID, c.CreatedAt); err != nil {
				return fmt.Errorf("insert conversation: %w", err)
			}
		}

		if _, err := tx.Exec(ctx, `
			INSERT INTO tincanz.message (id, conversation_id, author_id, content, reply_to_id, created_at)
			VALUES ($1::uuid, $2::uuid, $3::uuid, $4, $5::uuid, $6)
		`, m.ID, m.ConversationID, m.AuthorID, m.Content, m.ReplyToID, m.CreatedAt); err != nil {
			return fmt.Errorf("insert message: %w", err)
		}

		if len(m.RecipientIDs) == 0 {
			return nil
		}
		batch := &pgx.Batch{}
		for pos, uid := range m.RecipientIDs {
			batch.Queue(`
				INSERT INTO tincanz.message_recipient (message_id, user_id, position)
				VALUES ($1::uuid, $2::uuid, $3)
			`, m.ID, uid, pos)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert recipients: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	c.IsNew = false
	return nil
}

func (r *PgInboxRepository) FindMessage(ctx context.Context, id string) (*inbox.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errNilPool
	}
	var m inbox.Message
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, conversation_id::text, author_id::text, content, reply_to_id::text, created_at
		FROM tincanz.message
		WHERE id = $1::uuid
	`, id).Scan(&m.ID, &m.ConversationID, &m.AuthorID, &m.Content, &m.ReplyToID, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, inbox.ErrMessageNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgInboxRepository) ListMessages(ctx context.Context, conversationID string) ([]inbox.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errNilPool
	}
	rows, err := r.pool.Query(ctx, `
		SELECT m.id::text, m.conversation_id::text, m.author_id::text, m.content, m.reply_to_id::text, m.created_at,
		       u.email, u.admin, u.created_at
		FROM tincanz.message m
		JOIN tincanz.users u ON u.id = m.author_id
		WHERE m.conversation_id = $1::uuid
		ORDER BY m.created_at ASC, m.id ASC
	`, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		msgs  []inbox.Message
		index = make(map[string]int)
	)
	for rows.Next() {
		var (
			msg    inbox.Message
			author inbox.User
		)
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.AuthorID, &msg.Content, &msg.ReplyToID, &msg.CreatedAt,
			&author.Email, &author.Admin, &author.CreatedAt); err != nil {
			return nil, err
		}
		author.ID = msg.AuthorID
		msg.Author = &author
		index[msg.ID] = len(msgs)
		msgs = append(msgs, msg)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	if len(msgs) == 0 {
		return msgs, nil
	}

	recRows, err := r.pool.Query(ctx, `
		SELECT mr.message_id::text, u.id::text, u.email, u.admin, u.created_at
		FROM tincanz.message_recipient mr
		JOIN tincanz.message m ON m.id = mr.message_id
		JOIN tincanz.users u ON u.id = mr.user_id
		WHERE m.conversation_id = $1::uuid
		ORDER BY mr.message_id, mr.position
	`, conversationID)
	if err != nil {
		return nil, err
	}
	defer recRows.Close()

	for recRows.Next() {
		var (
			messageID string
			u         inbox.User
		)
		if err := recRows.Scan(&messageID, &u.ID, &u.Email, &u.Admin, &u.CreatedAt); err != nil {
			return nil, err
		}
		i, ok := index[messageID]
		if !ok {
			continue
		}
		msgs[i].Recipients = append(msgs[i].Recipients, u)
		msgs[i].RecipientIDs = append(msgs[i].RecipientIDs, u.ID)
	}
	if recRows.Err() != nil {
		return nil, recRows.Err()
	}
	return msgs, nil
}

func (r *PgInboxRepository) SetOwner(ctx context.Context, conversationID string, ownerID *string) error {
	if r == nil || r.pool == nil {
		return errNilPool
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE tincanz.conversation
		SET owner_id = $2::uuid
		WHERE id = $1::uuid
	`, conversationID, ownerID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return inbox.ErrConversationNotFound
	}
	return nil
}
