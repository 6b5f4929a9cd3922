package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aptiprep/backend/internal/domain/discussion"
	"github.com/aptiprep/backend/internal/domain/notification"
	"github.com/aptiprep/backend/internal/store"
)

type DiscussionStore interface {
	SaveDiscussion(ctx context.Context, d *discussion.Discussion) error
	GetDiscussion(ctx context.Context, id string) (*discussion.Discussion, error)
	IncrementViews(ctx context.Context, id string) error
	UpdateDiscussion(ctx context.Context, d *discussion.Discussion) error
	DeleteDiscussion(ctx context.Context, id string) error
	ListDiscussions(ctx context.Context, f discussion.Filter) ([]*discussion.Discussion, error)
	SetDiscussionReaction(ctx context.Context, discussionID, userID string, r discussion.Reaction) error
	SaveReply(ctx context.Context, r *discussion.Reply) error
	GetReply(ctx context.Context, id string) (*discussion.Reply, error)
	DeleteReply(ctx context.Context, id string) error
	SetReplyReaction(ctx context.Context, replyID, userID string, r discussion.Reaction) error
}

type DiscussionService struct {
	discussions DiscussionStore
	questions   QuestionStore
	notifier    Notifier
	logger      *slog.Logger
}

func NewDiscussionService(d DiscussionStore, q QuestionStore, n Notifier, logger *slog.Logger) *DiscussionService {
	return &DiscussionService{discussions: d, questions: q, notifier: n, logger: logger}
}

type DiscussionInput struct {
	Title          string
	Content        string
	Category       discussion.Category
	QuestionNumber *int
}

func (s *DiscussionService) Create(ctx context.Context, userID string, in DiscussionInput) (*discussion.Discussion, error) {
	d, err := discussion.New(userID, in.Title, in.Content, in.Category, in.QuestionNumber)
	if err != nil {
		return nil, invalid(err)
	}
	if d.QuestionNumber != nil {
		if err := requireQuestions(ctx, s.questions, []int{*d.QuestionNumber}); err != nil {
			return nil, err
		}
	}
	if err := s.discussions.SaveDiscussion(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// View returns a discussion with its replies and counts the view.
func (s *DiscussionService) View(ctx context.Context, id string) (*discussion.Discussion, error) {
	if err := s.discussions.IncrementViews(ctx, id); err != nil {
		return nil, err
	}
	return s.discussions.GetDiscussion(ctx, id)
}

func (s *DiscussionService) List(ctx context.Context, f discussion.Filter) ([]*discussion.Discussion, error) {
	if f.Category != "" && !f.Category.Valid() {
		return nil, invalid(discussion.ErrInvalidCategory)
	}
	return s.discussions.ListDiscussions(ctx, f)
}

// DiscussionPatch holds optional edits; nil fields are unchanged.
type DiscussionPatch struct {
	Title    *string
	Content  *string
	Category *discussion.Category
}

func (s *DiscussionService) Update(ctx context.Context, id, userID string, isAdmin bool, p DiscussionPatch) (*discussion.Discussion, error) {
	d, err := s.discussions.GetDiscussion(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := discussion.CanModify(d.UserID, userID, isAdmin); err != nil {
		return nil, forbidden(err)
	}
	if p.Title != nil {
		t := strings.TrimSpace(*p.Title)
		if t == "" {
			return nil, invalid(discussion.ErrTitleRequired)
		}
		d.Title = t
	}
	if p.Content != nil {
		if strings.TrimSpace(*p.Content) == "" {
			return nil, invalid(discussion.ErrContentRequired)
		}
		d.Content = *p.Content
	}
	if p.Category != nil {
		if !p.Category.Valid() {
			return nil, invalid(discussion.ErrInvalidCategory)
		}
		d.Category = *p.Category
	}
	d.UpdatedAt = time.Now().UTC()
	if err := s.discussions.UpdateDiscussion(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *DiscussionService) Delete(ctx context.Context, id, userID string, isAdmin bool) error {
	d, err := s.discussions.GetDiscussion(ctx, id)
	if err != nil {
		return err
	}
	if err := discussion.CanModify(d.UserID, userID, isAdmin); err != nil {
		return forbidden(err)
	}
	return s.discussions.DeleteDiscussion(ctx, id)
}

// TogglePin flips the pinned flag. Callers must be admins.
func (s *DiscussionService) TogglePin(ctx context.Context, id string, isAdmin bool) (*discussion.Discussion, error) {
	if !isAdmin {
		return nil, forbidden(discussion.ErrForbidden)
	}
	d, err := s.discussions.GetDiscussion(ctx, id)
	if err != nil {
		return nil, err
	}
	d.IsPinned = !d.IsPinned
	d.UpdatedAt = time.Now().UTC()
	if err := s.discussions.UpdateDiscussion(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// React applies a like/dislike toggle and returns the user's resulting reaction.
func (s *DiscussionService) React(ctx context.Context, id, userID string, r discussion.Reaction) (discussion.Reaction, error) {
	d, err := s.discussions.GetDiscussion(ctx, id)
	if err != nil {
		return discussion.ReactionNone, err
	}
	next, err := discussion.Toggle(discussion.ReactionOf(d.Likes, d.Dislikes, userID), r)
	if err != nil {
		return discussion.ReactionNone, invalid(err)
	}
	if err := s.discussions.SetDiscussionReaction(ctx, id, userID, next); err != nil {
		return discussion.ReactionNone, err
	}
	return next, nil
}

// Reply adds a reply and notifies the discussion owner when someone else answers.
func (s *DiscussionService) Reply(ctx context.Context, discussionID, userID, content string) (*discussion.Reply, error) {
	d, err := s.discussions.GetDiscussion(ctx, discussionID)
	if err != nil {
		return nil, err
	}
	r, err := discussion.NewReply(d.ID, userID, content)
	if err != nil {
		return nil, invalid(err)
	}
	if err := s.discussions.SaveReply(ctx, r); err != nil {
		return nil, err
	}
	if d.UserID != userID && s.notifier != nil {
		s.notifier.Notify(notification.New(d.UserID, notification.KindDiscussionReply,
			fmt.Sprintf("New reply on %q", d.Title),
			"/discussions/"+d.ID))
	}
	return r, nil
}

func (s *DiscussionService) DeleteReply(ctx context.Context, discussionID, replyID, userID string, isAdmin bool) error {
	r, err := s.replyOf(ctx, discussionID, replyID)
	if err != nil {
		return err
	}
	if err := discussion.CanModify(r.UserID, userID, isAdmin); err != nil {
		return forbidden(err)
	}
	return s.discussions.DeleteReply(ctx, replyID)
}

func (s *DiscussionService) ReactToReply(ctx context.Context, discussionID, replyID, userID string, reaction discussion.Reaction) (discussion.Reaction, error) {
	r, err := s.replyOf(ctx, discussionID, replyID)
	if err != nil {
		return discussion.ReactionNone, err
	}
	next, err := discussion.Toggle(discussion.ReactionOf(r.Likes, r.Dislikes, userID), reaction)
	if err != nil {
		return discussion.ReactionNone, invalid(err)
	}
	if err := s.discussions.SetReplyReaction(ctx, replyID, userID, next); err != nil {
		return discussion.ReactionNone, err
	}
	return next, nil
}

// replyOf loads a reply and checks it belongs to the discussion in the path.
func (s *DiscussionService) replyOf(ctx context.Context, discussionID, replyID string) (*discussion.Reply, error) {
	r, err := s.discussions.GetReply(ctx, replyID)
	if err != nil {
		return nil, err
	}
	if r.DiscussionID != discussionID {
		return nil, fmt.Errorf("reply %s: %w", replyID, store.ErrNotFound)
	}
	return r, nil
}
