package adapter

import (
	"context"
	"errors"

	inbox "github.com/yashodhank/tincanz/internal/pkg/inbox/application/domain"
	repository "github.com/yashodhank/tincanz/internal/repository/port"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

var _ repository.UserRepository = (*PgUserRepository)(nil)

func (r *PgUserRepository) Create(ctx context.Context, user *inbox.User) error {
	if r == nil || r.pool == nil {
		return errors.New("PgUserRepository: nil pool")
	}
	return r.pool.QueryRow(ctx, `
		INSERT INTO tincanz.users (id, email, admin)
		VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3)
		RETURNING id::text, created_at
	`, user.ID, user.Email, user.Admin).Scan(&user.ID, &user.CreatedAt)
}

func (r *PgUserRepository) FindByID(ctx context.Context, id string) (*inbox.User, error) {
	return r.findOne(ctx, "id = $1::uuid", id)
}

func (r *PgUserRepository) FindByEmail(ctx context.Context, email string) (*inbox.User, error) {
	return r.findOne(ctx, "lower(email) = lower($1)", email)
}

func (r *PgUserRepository) FindByIDs(ctx context.Context, ids []string) ([]inbox.User, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgUserRepository: nil pool")
	}
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, email, admin, created_at
		FROM tincanz.users
		WHERE id = ANY($1::uuid[])
		ORDER BY array_position($1::uuid[], id)
	`, ids)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanUser)
}

func (r *PgUserRepository) List(ctx context.Context) ([]inbox.User, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgUserRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, email, admin, created_at
		FROM tincanz.users
		ORDER BY created_at ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanUser)
}

func (r *PgUserRepository) findOne(ctx context.Context, where string, arg any) (*inbox.User, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgUserRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, "SELECT id::text, email, admin, created_at FROM tincanz.users WHERE "+where, arg)
	if err != nil {
		return nil, err
	}
	u, err := pgx.CollectOneRow(rows, scanUser)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, inbox.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func scanUser(row pgx.CollectableRow) (inbox.User, error) {
	var u inbox.User
	err := row.Scan(&u.ID, &u.Email, &u.Admin, &u.CreatedAt)
	return u, err
}
