package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/aptiprep/backend/internal/domain/list"
)

const listColumns = "id, creator_id, title, description, visibility, is_favorites, created_at, updated_at"

// ============================================================================
// Lists
// ============================================================================

func (s *SQLStore) SaveList(ctx context.Context, l *list.List) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO lists ("+listColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7, $8)",
		l.ID, l.CreatorID, l.Title, l.Description, string(l.Visibility), l.IsFavorites,
		toMillis(l.CreatedAt), toMillis(l.UpdatedAt),
	)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	if err != nil {
		return err
	}
	if err := insertListItems(ctx, tx, l); err != nil {
		return err
	}
	return tx.Commit()
}

// EnsureFavorites creates the user's favorites list unless one exists and
// returns the stored list. Concurrent callers converge on one row through the
// partial unique index.
func (s *SQLStore) EnsureFavorites(ctx context.Context, userID string) (*list.List, error) {
	fav := list.NewFavorites(userID)
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO lists ("+listColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT DO NOTHING`,
		fav.ID, fav.CreatorID, fav.Title, fav.Description, string(fav.Visibility), true,
		toMillis(fav.CreatedAt), toMillis(fav.UpdatedAt),
	)
	if err != nil {
		return nil, err
	}
	return s.GetFavorites(ctx, userID)
}

func (s *SQLStore) GetFavorites(ctx context.Context, userID string) (*list.List, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+listColumns+" FROM lists WHERE creator_id = $1 AND is_favorites = TRUE", userID)
	return s.loadList(ctx, row)
}

func (s *SQLStore) GetList(ctx context.Context, id string) (*list.List, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+listColumns+" FROM lists WHERE id = $1", id)
	return s.loadList(ctx, row)
}

// UpdateList rewrites the header fields and replaces the question items.
func (s *SQLStore) UpdateList(ctx context.Context, l *list.List) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		"UPDATE lists SET title = $1, description = $2, visibility = $3, updated_at = $4 WHERE id = $5",
		l.Title, l.Description, string(l.Visibility), toMillis(l.UpdatedAt), l.ID,
	)
	if err != nil {
		return err
	}
	if err := expectOne(result); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM list_questions WHERE list_id = $1", l.ID); err != nil {
		return err
	}
	if err := insertListItems(ctx, tx, l); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteList removes a list. Favorites rows are never matched.
func (s *SQLStore) DeleteList(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM lists WHERE id = $1 AND is_favorites = FALSE", id)
	if err != nil {
		return err
	}
	return expectOne(result)
}

// AddListSave and RemoveListSave are idempotent set operations.
func (s *SQLStore) AddListSave(ctx context.Context, listID, userID string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO list_saves (list_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING", listID, userID)
	return err
}

func (s *SQLStore) RemoveListSave(ctx context.Context, listID, userID string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM list_saves WHERE list_id = $1 AND user_id = $2", listID, userID)
	return err
}

// ListsByCreator returns a user's lists with favorites first, then newest.
func (s *SQLStore) ListsByCreator(ctx context.Context, userID string) ([]*list.List, error) {
	return s.queryLists(ctx,
		"SELECT "+listColumns+" FROM lists WHERE creator_id = $1 ORDER BY is_favorites DESC, created_at DESC, id",
		userID)
}

func (s *SQLStore) ListsSavedBy(ctx context.Context, userID string) ([]*list.List, error) {
	return s.queryLists(ctx, `
		SELECT `+listColumns+` FROM lists
		WHERE id IN (SELECT list_id FROM list_saves WHERE user_id = $1)
		ORDER BY created_at DESC, id`,
		userID)
}

func (s *SQLStore) PublicLists(ctx context.Context, limit, offset int) ([]*list.List, error) {
	return s.queryLists(ctx, `
		SELECT `+listColumns+` FROM lists
		WHERE visibility = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3`,
		string(list.VisibilityPublic), limit, offset)
}

func insertListItems(ctx context.Context, tx *sql.Tx, l *list.List) error {
	for _, item := range l.Questions {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO list_questions (list_id, question_number, position) VALUES ($1, $2, $3)",
			l.ID, item.QuestionNumber, item.Order,
		)
		if isUniqueViolation(err) {
			return list.ErrDuplicateQuestion
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func scanList(row rowScanner) (*list.List, error) {
	var l list.List
	var createdAt, updatedAt int64
	err := row.Scan(&l.ID, &l.CreatorID, &l.Title, &l.Description, &l.Visibility, &l.IsFavorites, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	l.CreatedAt = fromMillis(createdAt)
	l.UpdatedAt = fromMillis(updatedAt)
	return &l, nil
}

func (s *SQLStore) loadList(ctx context.Context, row *sql.Row) (*list.List, error) {
	l, err := scanList(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.fillList(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *SQLStore) queryLists(ctx context.Context, query string, args ...any) ([]*list.List, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	var lists []*list.List
	for rows.Next() {
		l, err := scanList(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		lists = append(lists, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Children are loaded after the cursor is closed; sqlite runs on one connection.
	for _, l := range lists {
		if err := s.fillList(ctx, l); err != nil {
			return nil, err
		}
	}
	return lists, nil
}

func (s *SQLStore) fillList(ctx context.Context, l *list.List) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT question_number, position FROM list_questions WHERE list_id = $1 ORDER BY position", l.ID)
	if err != nil {
		return err
	}
	l.Questions = []list.Item{}
	for rows.Next() {
		var item list.Item
		if err := rows.Scan(&item.QuestionNumber, &item.Order); err != nil {
			rows.Close()
			return err
		}
		l.Questions = append(l.Questions, item)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	l.SavedBy, err = s.userSet(ctx, "SELECT user_id FROM list_saves WHERE list_id = $1 ORDER BY user_id", l.ID)
	return err
}

// userSet reads a single column of user ids.
func (s *SQLStore) userSet(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
