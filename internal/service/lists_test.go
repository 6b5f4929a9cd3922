package service

import (
	"context"
	"errors"
	"testing"

	"github.com/aptiprep/backend/internal/domain/list"
	"github.com/aptiprep/backend/internal/domain/question"
	"github.com/aptiprep/backend/internal/store"
)

func newListService(t *testing.T) (*ListService, *store.SQLStore) {
	t.Helper()
	s := newSQLStore(t)
	for _, n := range []int{1, 2, 3} {
		if err := s.SaveQuestion(context.Background(), mcq(n, question.SectionVerbal, question.DifficultyEasy)); err != nil {
			t.Fatal(err)
		}
	}
	return NewListService(s, s, discardLogger()), s
}

func TestListVisibility(t *testing.T) {
	ls, _ := newListService(t)
	ctx := context.Background()

	private, err := ls.Create(ctx, "owner", ListInput{Title: "Mine", Visibility: list.VisibilityPrivate,
		Questions: []list.Item{{QuestionNumber: 1}}})
	if err != nil {
		t.Fatal(err)
	}
	public, err := ls.Create(ctx, "owner", ListInput{Title: "Shared", Visibility: list.VisibilityPublic})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		id      string
		viewer  string
		wantErr error
	}{
		{"owner reads private", private.ID, "owner", nil},
		{"stranger blocked from private", private.ID, "stranger", ErrForbidden},
		{"anonymous blocked from private", private.ID, "", ErrForbidden},
		{"anonymous reads public", public.ID, "", nil},
		{"missing list", "nope", "owner", store.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ls.Get(ctx, tt.id, tt.viewer)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestListCreateRejectsUnknownQuestion(t *testing.T) {
	ls, _ := newListService(t)
	_, err := ls.Create(context.Background(), "owner", ListInput{Title: "Bad",
		Questions: []list.Item{{QuestionNumber: 404}}})
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestFavoritesCannotBeDeleted(t *testing.T) {
	ls, _ := newListService(t)
	ctx := context.Background()

	fav, err := ls.Favorites(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if err := ls.Delete(ctx, fav.ID, "u1"); !errors.Is(err, list.ErrFavoritesUndeletable) {
		t.Errorf("creator delete: got %v", err)
	}
	if err := ls.Delete(ctx, fav.ID, "someone-else"); !errors.Is(err, list.ErrFavoritesUndeletable) {
		t.Errorf("stranger delete: got %v", err)
	}

	again, err := ls.Favorites(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if again.ID != fav.ID {
		t.Errorf("favorites re-provisioned: %s != %s", again.ID, fav.ID)
	}

	mine, err := ls.Mine(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(mine) != 1 || !mine[0].IsFavorites {
		t.Errorf("expected only the favorites list, got %d lists", len(mine))
	}
}

func TestListMutationsOwnerOnly(t *testing.T) {
	ls, _ := newListService(t)
	ctx := context.Background()

	l, err := ls.Create(ctx, "owner", ListInput{Title: "Drill", Visibility: list.VisibilityPublic})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := ls.AddQuestion(ctx, l.ID, "stranger", 1); !errors.Is(err, ErrForbidden) {
		t.Errorf("stranger add: got %v", err)
	}
	if err := ls.Delete(ctx, l.ID, "stranger"); !errors.Is(err, ErrForbidden) {
		t.Errorf("stranger delete: got %v", err)
	}

	for _, n := range []int{3, 1, 2} {
		if _, err := ls.AddQuestion(ctx, l.ID, "owner", n); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := ls.AddQuestion(ctx, l.ID, "owner", 1); !errors.Is(err, list.ErrDuplicateQuestion) {
		t.Errorf("duplicate add: got %v", err)
	}

	got, err := ls.RemoveQuestion(ctx, l.ID, "owner", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Questions) != 2 || got.Questions[0].QuestionNumber != 3 || got.Questions[1].Order != 2 {
		t.Errorf("unexpected items after removal: %+v", got.Questions)
	}

	if err := ls.Delete(ctx, l.ID, "owner"); err != nil {
		t.Errorf("owner delete: %v", err)
	}
}

func TestToggleSaveRules(t *testing.T) {
	ls, _ := newListService(t)
	ctx := context.Background()

	private, _ := ls.Create(ctx, "owner", ListInput{Title: "Secret"})
	public, _ := ls.Create(ctx, "owner", ListInput{Title: "Open", Visibility: list.VisibilityPublic})

	if _, err := ls.ToggleSave(ctx, private.ID, "stranger"); !errors.Is(err, list.ErrPrivateSave) {
		t.Errorf("stranger saving private list: got %v", err)
	}

	saved, err := ls.ToggleSave(ctx, public.ID, "reader")
	if err != nil || !saved {
		t.Fatalf("first toggle = %v, %v", saved, err)
	}
	list1, _ := ls.Saved(ctx, "reader")
	if len(list1) != 1 {
		t.Errorf("expected one saved list, got %d", len(list1))
	}
	saved, err = ls.ToggleSave(ctx, public.ID, "reader")
	if err != nil || saved {
		t.Fatalf("second toggle = %v, %v", saved, err)
	}

	saved, err = ls.ToggleSave(ctx, private.ID, "owner")
	if err != nil || !saved {
		t.Errorf("creator saving own private list = %v, %v", saved, err)
	}
}

func TestForkCopiesByValue(t *testing.T) {
	ls, _ := newListService(t)
	ctx := context.Background()

	src, err := ls.Create(ctx, "owner", ListInput{Title: "Source", Visibility: list.VisibilityPublic,
		Questions: []list.Item{{QuestionNumber: 1}, {QuestionNumber: 2}}})
	if err != nil {
		t.Fatal(err)
	}

	fork, err := ls.Fork(ctx, src.ID, "reader", "")
	if err != nil {
		t.Fatal(err)
	}
	if fork.CreatorID != "reader" || fork.Visibility != list.VisibilityPrivate || fork.Title != "Source (fork)" {
		t.Errorf("unexpected fork: %+v", fork)
	}

	if _, err := ls.AddQuestion(ctx, src.ID, "owner", 3); err != nil {
		t.Fatal(err)
	}
	stored, err := ls.Get(ctx, fork.ID, "reader")
	if err != nil {
		t.Fatal(err)
	}
	if len(stored.Questions) != 2 {
		t.Errorf("fork changed with source: %d questions", len(stored.Questions))
	}

	private, _ := ls.Create(ctx, "owner", ListInput{Title: "Hidden"})
	if _, err := ls.Fork(ctx, private.ID, "reader", ""); !errors.Is(err, ErrForbidden) {
		t.Errorf("fork of unreadable list: got %v", err)
	}
}
