package questionlist_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/aptiprep/backend/internal/domain/questionlist"
)

var (
	alice = questionlist.Viewer{ID: "alice"}
	bob   = questionlist.Viewer{ID: "bob"}
	admin = questionlist.Viewer{ID: "root", IsAdmin: true}
	anon  = questionlist.Viewer{}
)

func TestNew(t *testing.T) {
	ql, err := questionlist.New(alice, " Top 10 ", "", []int{4, 2, 9}, []string{"Speed", " speed", "TSD"}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ql.Title != "Top 10" {
		t.Errorf("expected trimmed title, got %q", ql.Title)
	}
	if ql.TotalQuestions() != 3 {
		t.Errorf("expected 3 questions, got %d", ql.TotalQuestions())
	}
	if ql.IsOfficial {
		t.Error("expected non-admin list not to be official")
	}
	if !reflect.DeepEqual(ql.Tags, []string{"speed", "tsd"}) {
		t.Errorf("unexpected tags %v", ql.Tags)
	}

	official, _ := questionlist.New(admin, "Official", "", nil, nil, true)
	if !official.IsOfficial {
		t.Error("expected admin-created list to be official")
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := questionlist.New(alice, "", "", nil, nil, false); !errors.Is(err, questionlist.ErrTitleRequired) {
		t.Errorf("expected ErrTitleRequired, got %v", err)
	}
	if _, err := questionlist.New(alice, "x", "", []int{1, 1}, nil, false); !errors.Is(err, questionlist.ErrDuplicateQuestion) {
		t.Errorf("expected ErrDuplicateQuestion, got %v", err)
	}
}

func TestApply_KeepsOfficialFlag(t *testing.T) {
	ql, _ := questionlist.New(admin, "Official", "", []int{1}, nil, true)

	private := false
	title := "Renamed"
	if err := ql.Apply(questionlist.Patch{Title: &title, IsPublic: &private, Questions: []int{5, 6}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ql.IsOfficial {
		t.Error("expected IsOfficial to survive updates")
	}
	if ql.Title != "Renamed" || ql.IsPublic || ql.TotalQuestions() != 2 {
		t.Errorf("patch not applied: %+v", ql)
	}

	empty := " "
	if err := ql.Apply(questionlist.Patch{Title: &empty}); !errors.Is(err, questionlist.ErrTitleRequired) {
		t.Errorf("expected ErrTitleRequired, got %v", err)
	}
}

func TestPolicy(t *testing.T) {
	private, _ := questionlist.New(alice, "Mine", "", nil, nil, false)
	public, _ := questionlist.New(alice, "Ours", "", nil, nil, true)

	if !public.CanRead(anon) {
		t.Error("expected public list readable anonymously")
	}
	if private.CanRead(bob) {
		t.Error("expected private list hidden from bob")
	}
	if !private.CanRead(admin) || !private.CanRead(alice) {
		t.Error("expected creator and admin to read private list")
	}

	if err := public.CheckMutate(bob); !errors.Is(err, questionlist.ErrForbidden) {
		t.Errorf("expected ErrForbidden for bob, got %v", err)
	}
	if err := public.CheckMutate(admin); err != nil {
		t.Errorf("expected admin override, got %v", err)
	}
	if err := public.CheckMutate(alice); err != nil {
		t.Errorf("expected creator to mutate, got %v", err)
	}

	if err := public.CheckInteract(anon); !errors.Is(err, questionlist.ErrForbidden) {
		t.Errorf("expected anonymous like to be rejected, got %v", err)
	}
	if err := private.CheckInteract(bob); !errors.Is(err, questionlist.ErrForbidden) {
		t.Errorf("expected bob to be rejected on private list, got %v", err)
	}
	if err := public.CheckInteract(bob); err != nil {
		t.Errorf("expected bob to like public list, got %v", err)
	}
}
