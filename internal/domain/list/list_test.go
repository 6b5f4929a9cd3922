package list_test

import (
	"errors"
	"testing"

	"github.com/aptiprep/backend/internal/domain/list"
)

func newList(t *testing.T, creator string, v list.Visibility) *list.List {
	t.Helper()
	l, err := list.New(creator, "Percentages", "", v, []list.Item{
		{QuestionNumber: 7, Order: 2},
		{QuestionNumber: 3, Order: 1},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return l
}

func TestNew_RenumbersQuestions(t *testing.T) {
	l := newList(t, "alice", list.VisibilityPublic)

	want := []list.Item{{QuestionNumber: 3, Order: 1}, {QuestionNumber: 7, Order: 2}}
	for i, q := range l.Questions {
		if q != want[i] {
			t.Errorf("item %d: expected %+v, got %+v", i, want[i], q)
		}
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := list.New("alice", "  ", "", list.VisibilityPublic, nil); !errors.Is(err, list.ErrTitleRequired) {
		t.Errorf("expected ErrTitleRequired, got %v", err)
	}
	if _, err := list.New("alice", "x", "", "friends", nil); !errors.Is(err, list.ErrInvalidVisibility) {
		t.Errorf("expected ErrInvalidVisibility, got %v", err)
	}
	l, err := list.New("alice", "x", "", "", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.Visibility != list.VisibilityPrivate {
		t.Errorf("expected default visibility private, got %s", l.Visibility)
	}
}

func TestRenumber_StableForTies(t *testing.T) {
	got := list.Renumber([]list.Item{
		{QuestionNumber: 1, Order: 5},
		{QuestionNumber: 2, Order: 5},
		{QuestionNumber: 3, Order: 1},
	})
	wantNumbers := []int{3, 1, 2}
	for i, q := range got {
		if q.QuestionNumber != wantNumbers[i] || q.Order != i+1 {
			t.Errorf("position %d: got %+v", i, q)
		}
	}
}

func TestAppendRemove(t *testing.T) {
	l := newList(t, "alice", list.VisibilityPrivate)

	if err := l.Append(9); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := l.Append(9); !errors.Is(err, list.ErrDuplicateQuestion) {
		t.Errorf("expected ErrDuplicateQuestion, got %v", err)
	}
	if !l.Remove(3) {
		t.Fatal("expected #3 to be removed")
	}
	if l.Remove(3) {
		t.Error("expected second removal to report false")
	}

	want := []list.Item{{QuestionNumber: 7, Order: 1}, {QuestionNumber: 9, Order: 2}}
	if len(l.Questions) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(l.Questions))
	}
	for i := range want {
		if l.Questions[i] != want[i] {
			t.Errorf("item %d: expected %+v, got %+v", i, want[i], l.Questions[i])
		}
	}
}

func TestCanRead(t *testing.T) {
	private := newList(t, "alice", list.VisibilityPrivate)
	private.SavedBy = []string{"bob"}
	public := newList(t, "alice", list.VisibilityPublic)

	tests := []struct {
		name   string
		l      *list.List
		viewer string
		want   bool
	}{
		{"public anonymous", public, "", true},
		{"public stranger", public, "carol", true},
		{"private creator", private, "alice", true},
		{"private saver", private, "bob", true},
		{"private stranger", private, "carol", false},
		{"private anonymous", private, "", false},
	}

	for _, tt := range tests {
		if got := tt.l.CanRead(tt.viewer); got != tt.want {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
	}

	if err := private.CheckRead("carol"); !errors.Is(err, list.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

func TestCheckDelete_Favorites(t *testing.T) {
	fav := list.NewFavorites("alice")

	for _, viewer := range []string{"alice", "admin", "", "bob"} {
		if err := fav.CheckDelete(viewer); !errors.Is(err, list.ErrFavoritesUndeletable) {
			t.Errorf("viewer %q: expected ErrFavoritesUndeletable, got %v", viewer, err)
		}
	}

	if err := fav.CheckMutate("alice"); err != nil {
		t.Errorf("expected favorites contents to be mutable by owner, got %v", err)
	}
}

func TestCheckDelete_Ownership(t *testing.T) {
	l := newList(t, "alice", list.VisibilityPublic)

	if err := l.CheckDelete("alice"); err != nil {
		t.Errorf("expected creator to delete, got %v", err)
	}
	if err := l.CheckDelete("bob"); !errors.Is(err, list.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

func TestToggleSave(t *testing.T) {
	private := newList(t, "alice", list.VisibilityPrivate)
	private.SavedBy = []string{"bob"}
	public := newList(t, "alice", list.VisibilityPublic)

	tests := []struct {
		name   string
		l      *list.List
		viewer string
		want   list.SaveAction
		err    error
	}{
		{"saver removes", private, "bob", list.SaveRemove, nil},
		{"creator saves own private", private, "alice", list.SaveAdd, nil},
		{"stranger on private", private, "carol", 0, list.ErrPrivateSave},
		{"stranger on public", public, "carol", list.SaveAdd, nil},
		{"anonymous", public, "", 0, list.ErrForbidden},
	}

	for _, tt := range tests {
		got, err := tt.l.ToggleSave(tt.viewer)
		if !errors.Is(err, tt.err) {
			t.Errorf("%s: expected error %v, got %v", tt.name, tt.err, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: expected action %v, got %v", tt.name, tt.want, got)
		}
	}
}

func TestFork_Independent(t *testing.T) {
	src := newList(t, "alice", list.VisibilityPublic)

	fork, err := src.Fork("bob", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fork.CreatorID != "bob" || fork.Visibility != list.VisibilityPrivate {
		t.Errorf("expected private fork owned by bob, got %+v", fork)
	}
	if fork.ID == src.ID {
		t.Error("expected fork to get a new ID")
	}
	if fork.Title != "Percentages (fork)" {
		t.Errorf("unexpected fork title %q", fork.Title)
	}

	src.Questions[0].QuestionNumber = 99
	_ = src.Append(100)

	if fork.Questions[0].QuestionNumber != 3 || len(fork.Questions) != 2 {
		t.Errorf("expected fork questions unchanged, got %+v", fork.Questions)
	}
}

func TestFork_RequiresReadAccess(t *testing.T) {
	src := newList(t, "alice", list.VisibilityPrivate)

	if _, err := src.Fork("carol", ""); !errors.Is(err, list.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}

	src.SavedBy = []string{"carol"}
	if _, err := src.Fork("carol", "mine"); err != nil {
		t.Errorf("expected saver to fork, got %v", err)
	}
}
