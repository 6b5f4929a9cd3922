package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/aptiprep/backend/internal/domain/user"
)

// SaveUser inserts a user; a taken username yields ErrConflict.
func (s *SQLStore) SaveUser(ctx context.Context, u *user.User) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users (id, username, email, password_hash, role, created_at) VALUES ($1, $2, $3, $4, $5, $6)",
		u.ID, u.Username, u.Email, u.PasswordHash, string(u.Role), toMillis(u.CreatedAt),
	)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	return err
}

func (s *SQLStore) GetUser(ctx context.Context, id string) (*user.User, error) {
	return s.getUser(ctx, "id", id)
}

func (s *SQLStore) GetUserByUsername(ctx context.Context, username string) (*user.User, error) {
	return s.getUser(ctx, "username", username)
}

func (s *SQLStore) getUser(ctx context.Context, column, value string) (*user.User, error) {
	var u user.User
	var createdAt int64
	err := s.db.QueryRowContext(ctx,
		"SELECT id, username, email, password_hash, role, created_at FROM users WHERE "+column+" = $1", value,
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u.CreatedAt = fromMillis(createdAt)
	return &u, nil
}
