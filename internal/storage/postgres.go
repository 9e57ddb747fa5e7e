package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/controlusuario/userbot/internal/domain"
	"github.com/controlusuario/userbot/internal/logger"
)

// PostgresStore implements UserStore on top of sqlx/Postgres.
type PostgresStore struct {
	db  *sqlx.DB
	log *slog.Logger
}

// NewPostgresStore wraps an open database handle.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{
		db:  db,
		log: logger.Component("storage.users"),
	}
}

const userColumns = `id, username, phone, first_name, last_name, plan, group_name, academy, verified, registered_at`

// FindByID returns the record for the given Telegram user id, or ErrNotFound.
func (s *PostgresStore) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	if err := s.db.GetContext(ctx, &u, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user %d: %w", id, err)
	}
	return &u, nil
}

// CreateIfAbsent inserts a fresh unverified record unless one already exists.
func (s *PostgresStore) CreateIfAbsent(ctx context.Context, id int64, username string) (bool, error) {
	start := time.Now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, username, verified, registered_at)
		 VALUES ($1, NULLIF($2, ''), FALSE, now())
		 ON CONFLICT (id) DO NOTHING`,
		id, username,
	)
	if err != nil {
		return false, fmt.Errorf("create user %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("create user %d: rows affected: %w", id, err)
	}
	created := affected == 1
	if created {
		s.log.Info("user created",
			slog.String("event", "users.create"),
			slog.Int64("user_id", id),
			slog.Duration("duration", logger.Took(start)),
		)
	}
	return created, nil
}

// UpdateFields applies a partial update of editable fields.
func (s *PostgresStore) UpdateFields(ctx context.Context, id int64, fields map[string]string) (int64, error) {
	if len(fields) == 0 {
		return 0, nil
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		if _, ok := columnFor[name]; !ok {
			return 0, fmt.Errorf("update user %d: unknown field %q", id, name)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	set := make([]string, 0, len(names))
	args := make([]any, 0, len(names)+1)
	for i, name := range names {
		set = append(set, fmt.Sprintf("%s = $%d", columnFor[name], i+1))
		args = append(args, fields[name])
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d", strings.Join(set, ", "), len(args))
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("update user %d: %w", id, err)
	}
	matched, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update user %d: rows affected: %w", id, err)
	}
	s.log.Debug("fields updated",
		slog.String("event", "users.update"),
		slog.Int64("user_id", id),
		slog.Int("fields", len(names)),
		slog.Int64("matched", matched),
	)
	return matched, nil
}

// SetVerified stores the phone collected by the final flow step and marks
// the user verified in a single write.
func (s *PostgresStore) SetVerified(ctx context.Context, id int64, phone string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET phone = $1, verified = TRUE WHERE id = $2`,
		phone, id,
	)
	if err != nil {
		return 0, fmt.Errorf("verify user %d: %w", id, err)
	}
	matched, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("verify user %d: rows affected: %w", id, err)
	}
	return matched, nil
}

// SetPhone stores the shared contact phone number. Re-sharing overwrites the
// previous value.
func (s *PostgresStore) SetPhone(ctx context.Context, id int64, phone string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET phone = $1 WHERE id = $2`, phone, id)
	if err != nil {
		return 0, fmt.Errorf("set phone for user %d: %w", id, err)
	}
	matched, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("set phone for user %d: rows affected: %w", id, err)
	}
	return matched, nil
}

// Count returns the total number of registered users.
func (s *PostgresStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// List returns users in stable creation order.
func (s *PostgresStore) List(ctx context.Context, offset, limit int) ([]domain.User, error) {
	var users []domain.User
	query := `SELECT ` + userColumns + ` FROM users ORDER BY registered_at, id OFFSET $1 LIMIT $2`
	if err := s.db.SelectContext(ctx, &users, query, offset, limit); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}
