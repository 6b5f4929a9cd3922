package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/aptiprep/backend/internal/domain/questionlist"
)

const questionListColumns = `id, creator_id, title, description, questions, tags, is_public, is_official,
    created_at, updated_at`

// QuestionListFilter narrows browse queries over question lists.
type QuestionListFilter struct {
	Tag       string
	Official  *bool
	CreatorID string
	// PublicOnly restricts results to public lists.
	PublicOnly bool
	Limit      int
	Offset     int
}

// ============================================================================
// Question lists
// ============================================================================

func (s *SQLStore) SaveQuestionList(ctx context.Context, ql *questionlist.QuestionList) error {
	questionsJSON, tagsJSON, err := encodeQuestionList(ql)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO question_lists (id, creator_id, title, description, questions, tags, is_public, is_official,
		    total_questions, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		ql.ID, ql.CreatorID, ql.Title, ql.Description, questionsJSON, tagsJSON, ql.IsPublic, ql.IsOfficial,
		ql.TotalQuestions(), toMillis(ql.CreatedAt), toMillis(ql.UpdatedAt),
	)
	return err
}

// UpdateQuestionList rewrites the editable fields; is_official is not among them.
func (s *SQLStore) UpdateQuestionList(ctx context.Context, ql *questionlist.QuestionList) error {
	questionsJSON, tagsJSON, err := encodeQuestionList(ql)
	if err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx, `
		UPDATE question_lists
		SET title = $1, description = $2, questions = $3, tags = $4, is_public = $5, total_questions = $6,
		    updated_at = $7
		WHERE id = $8`,
		ql.Title, ql.Description, questionsJSON, tagsJSON, ql.IsPublic, ql.TotalQuestions(),
		toMillis(ql.UpdatedAt), ql.ID,
	)
	if err != nil {
		return err
	}
	return expectOne(result)
}

func (s *SQLStore) DeleteQuestionList(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM question_lists WHERE id = $1", id)
	if err != nil {
		return err
	}
	return expectOne(result)
}

func (s *SQLStore) GetQuestionList(ctx context.Context, id string) (*questionlist.QuestionList, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+questionListColumns+" FROM question_lists WHERE id = $1", id)
	ql, err := scanQuestionList(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.fillQuestionList(ctx, ql); err != nil {
		return nil, err
	}
	return ql, nil
}

// FindQuestionLists browses lists newest first.
func (s *SQLStore) FindQuestionLists(ctx context.Context, f QuestionListFilter) ([]*questionlist.QuestionList, error) {
	w := &where{}
	if f.PublicOnly {
		w.add("is_public = $%d", true)
	}
	if f.CreatorID != "" {
		w.add("creator_id = $%d", f.CreatorID)
	}
	if f.Official != nil {
		w.add("is_official = $%d", *f.Official)
	}
	if f.Tag != "" {
		tag, err := json.Marshal(f.Tag)
		if err != nil {
			return nil, err
		}
		w.add("tags LIKE $%d", "%"+string(tag)+"%")
	}
	query := "SELECT " + questionListColumns + " FROM question_lists" + w.String() + " ORDER BY created_at DESC, id"
	if f.Limit > 0 {
		query += " LIMIT " + w.next(f.Limit) + " OFFSET " + w.next(f.Offset)
	}

	return s.queryQuestionLists(ctx, query, w.args...)
}

// QuestionListsSavedBy returns the lists a user saved.
func (s *SQLStore) QuestionListsSavedBy(ctx context.Context, userID string) ([]*questionlist.QuestionList, error) {
	return s.queryQuestionLists(ctx, `
		SELECT `+questionListColumns+` FROM question_lists
		WHERE id IN (SELECT list_id FROM question_list_saves WHERE user_id = $1)
		ORDER BY created_at DESC, id`, userID)
}

func (s *SQLStore) queryQuestionLists(ctx context.Context, query string, args ...any) ([]*questionlist.QuestionList, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	var out []*questionlist.QuestionList
	for rows.Next() {
		ql, err := scanQuestionList(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, ql)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, ql := range out {
		if err := s.fillQuestionList(ctx, ql); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ToggleQuestionListLike flips userID's like and reports whether it is now set.
func (s *SQLStore) ToggleQuestionListLike(ctx context.Context, listID, userID string) (bool, error) {
	return s.toggleMember(ctx, "question_list_likes", listID, userID)
}

// ToggleQuestionListSave flips userID's save and reports whether it is now set.
func (s *SQLStore) ToggleQuestionListSave(ctx context.Context, listID, userID string) (bool, error) {
	return s.toggleMember(ctx, "question_list_saves", listID, userID)
}

// toggleMember removes (listID, userID) from a membership table when present
// and inserts it otherwise. Each branch is a single row statement.
func (s *SQLStore) toggleMember(ctx context.Context, table, listID, userID string) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM "+table+" WHERE list_id = $1 AND user_id = $2", listID, userID)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO "+table+" (list_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING", listID, userID)
	if err != nil {
		return false, err
	}
	return true, nil
}

func encodeQuestionList(ql *questionlist.QuestionList) (string, string, error) {
	questions := ql.Questions
	if questions == nil {
		questions = []int{}
	}
	questionsJSON, err := json.Marshal(questions)
	if err != nil {
		return "", "", err
	}
	tagsJSON, err := json.Marshal(nonNil(ql.Tags))
	if err != nil {
		return "", "", err
	}
	return string(questionsJSON), string(tagsJSON), nil
}

func scanQuestionList(row rowScanner) (*questionlist.QuestionList, error) {
	var ql questionlist.QuestionList
	var questionsJSON, tagsJSON string
	var createdAt, updatedAt int64
	err := row.Scan(&ql.ID, &ql.CreatorID, &ql.Title, &ql.Description, &questionsJSON, &tagsJSON,
		&ql.IsPublic, &ql.IsOfficial, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(questionsJSON), &ql.Questions); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(tagsJSON), &ql.Tags); err != nil {
		return nil, err
	}
	ql.CreatedAt = fromMillis(createdAt)
	ql.UpdatedAt = fromMillis(updatedAt)
	return &ql, nil
}

func (s *SQLStore) fillQuestionList(ctx context.Context, ql *questionlist.QuestionList) error {
	var err error
	ql.Likes, err = s.userSet(ctx,
		"SELECT user_id FROM question_list_likes WHERE list_id = $1 ORDER BY user_id", ql.ID)
	if err != nil {
		return err
	}
	ql.SavedBy, err = s.userSet(ctx,
		"SELECT user_id FROM question_list_saves WHERE list_id = $1 ORDER BY user_id", ql.ID)
	return err
}
