package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/aptiprep/backend/internal/domain/discussion"
)

const discussionColumns = "id, user_id, title, content, category, question_number, is_pinned, views, created_at, updated_at"

// ============================================================================
// Discussions
// ============================================================================

func (s *SQLStore) SaveDiscussion(ctx context.Context, d *discussion.Discussion) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO discussions ("+discussionColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)",
		d.ID, d.UserID, d.Title, d.Content, string(d.Category), d.QuestionNumber, d.IsPinned, d.Views,
		toMillis(d.CreatedAt), toMillis(d.UpdatedAt),
	)
	return err
}

// GetDiscussion loads a discussion with its reactions and replies.
func (s *SQLStore) GetDiscussion(ctx context.Context, id string) (*discussion.Discussion, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+discussionColumns+" FROM discussions WHERE id = $1", id)
	d, err := scanDiscussion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.fillReactions(ctx, d); err != nil {
		return nil, err
	}
	d.Replies, err = s.listReplies(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// IncrementViews bumps the view counter with a single statement.
func (s *SQLStore) IncrementViews(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "UPDATE discussions SET views = views + 1 WHERE id = $1", id)
	if err != nil {
		return err
	}
	return expectOne(result)
}

func (s *SQLStore) UpdateDiscussion(ctx context.Context, d *discussion.Discussion) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE discussions SET title = $1, content = $2, category = $3, is_pinned = $4, updated_at = $5
		WHERE id = $6`,
		d.Title, d.Content, string(d.Category), d.IsPinned, toMillis(d.UpdatedAt), d.ID,
	)
	if err != nil {
		return err
	}
	return expectOne(result)
}

func (s *SQLStore) DeleteDiscussion(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM discussions WHERE id = $1", id)
	if err != nil {
		return err
	}
	return expectOne(result)
}

// ListDiscussions returns pinned discussions first, then newest. Replies are
// not loaded; reactions are.
func (s *SQLStore) ListDiscussions(ctx context.Context, f discussion.Filter) ([]*discussion.Discussion, error) {
	w := &where{}
	if f.Category != "" {
		w.add("category = $%d", string(f.Category))
	}
	if f.QuestionNumber != nil {
		w.add("question_number = $%d", *f.QuestionNumber)
	}
	query := "SELECT " + discussionColumns + " FROM discussions" + w.String() +
		" ORDER BY is_pinned DESC, created_at DESC, id"
	if f.Limit > 0 {
		query += " LIMIT " + w.next(f.Limit) + " OFFSET " + w.next(f.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, err
	}
	var out []*discussion.Discussion
	for rows.Next() {
		d, err := scanDiscussion(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, d)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, d := range out {
		if err := s.fillReactions(ctx, d); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// SetDiscussionReaction stores r for the user, or clears it for ReactionNone.
func (s *SQLStore) SetDiscussionReaction(ctx context.Context, discussionID, userID string, r discussion.Reaction) error {
	return s.setReaction(ctx, "discussion_reactions", "discussion_id", discussionID, userID, r)
}

// ============================================================================
// Replies
// ============================================================================

func (s *SQLStore) SaveReply(ctx context.Context, r *discussion.Reply) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO discussion_replies (id, discussion_id, user_id, content, created_at) VALUES ($1, $2, $3, $4, $5)",
		r.ID, r.DiscussionID, r.UserID, r.Content, toMillis(r.CreatedAt),
	)
	return err
}

func (s *SQLStore) GetReply(ctx context.Context, id string) (*discussion.Reply, error) {
	var r discussion.Reply
	var createdAt int64
	err := s.db.QueryRowContext(ctx,
		"SELECT id, discussion_id, user_id, content, created_at FROM discussion_replies WHERE id = $1", id,
	).Scan(&r.ID, &r.DiscussionID, &r.UserID, &r.Content, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	r.CreatedAt = fromMillis(createdAt)
	if err := s.fillReplyReactions(ctx, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *SQLStore) DeleteReply(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM discussion_replies WHERE id = $1", id)
	if err != nil {
		return err
	}
	return expectOne(result)
}

func (s *SQLStore) SetReplyReaction(ctx context.Context, replyID, userID string, r discussion.Reaction) error {
	return s.setReaction(ctx, "reply_reactions", "reply_id", replyID, userID, r)
}

func (s *SQLStore) listReplies(ctx context.Context, discussionID string) ([]discussion.Reply, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, discussion_id, user_id, content, created_at FROM discussion_replies
		WHERE discussion_id = $1 ORDER BY created_at, id`, discussionID)
	if err != nil {
		return nil, err
	}
	replies := []discussion.Reply{}
	for rows.Next() {
		var r discussion.Reply
		var createdAt int64
		if err := rows.Scan(&r.ID, &r.DiscussionID, &r.UserID, &r.Content, &createdAt); err != nil {
			rows.Close()
			return nil, err
		}
		r.CreatedAt = fromMillis(createdAt)
		replies = append(replies, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range replies {
		if err := s.fillReplyReactions(ctx, &replies[i]); err != nil {
			return nil, err
		}
	}
	return replies, nil
}

// ============================================================================
// Reactions
// ============================================================================

// setReaction upserts one reaction row per (target, user); the primary key
// keeps like and dislike exclusive.
func (s *SQLStore) setReaction(ctx context.Context, table, keyColumn, targetID, userID string, r discussion.Reaction) error {
	if r == discussion.ReactionNone {
		_, err := s.db.ExecContext(ctx,
			"DELETE FROM "+table+" WHERE "+keyColumn+" = $1 AND user_id = $2", targetID, userID)
		return err
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO "+table+" ("+keyColumn+", user_id, reaction) VALUES ($1, $2, $3) "+
			"ON CONFLICT ("+keyColumn+", user_id) DO UPDATE SET reaction = excluded.reaction",
		targetID, userID, string(r),
	)
	return err
}

func (s *SQLStore) reactionSets(ctx context.Context, table, keyColumn, targetID string) (likes, dislikes []string, err error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id, reaction FROM "+table+" WHERE "+keyColumn+" = $1 ORDER BY user_id", targetID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	likes, dislikes = []string{}, []string{}
	for rows.Next() {
		var userID, reaction string
		if err := rows.Scan(&userID, &reaction); err != nil {
			return nil, nil, err
		}
		switch discussion.Reaction(reaction) {
		case discussion.ReactionLike:
			likes = append(likes, userID)
		case discussion.ReactionDislike:
			dislikes = append(dislikes, userID)
		}
	}
	return likes, dislikes, rows.Err()
}

func (s *SQLStore) fillReactions(ctx context.Context, d *discussion.Discussion) error {
	var err error
	d.Likes, d.Dislikes, err = s.reactionSets(ctx, "discussion_reactions", "discussion_id", d.ID)
	return err
}

func (s *SQLStore) fillReplyReactions(ctx context.Context, r *discussion.Reply) error {
	var err error
	r.Likes, r.Dislikes, err = s.reactionSets(ctx, "reply_reactions", "reply_id", r.ID)
	return err
}

func scanDiscussion(row rowScanner) (*discussion.Discussion, error) {
	var d discussion.Discussion
	var questionNumber sql.NullInt64
	var createdAt, updatedAt int64
	err := row.Scan(&d.ID, &d.UserID, &d.Title, &d.Content, &d.Category, &questionNumber, &d.IsPinned, &d.Views,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if questionNumber.Valid {
		n := int(questionNumber.Int64)
		d.QuestionNumber = &n
	}
	d.CreatedAt = fromMillis(createdAt)
	d.UpdatedAt = fromMillis(updatedAt)
	return &d, nil
}
