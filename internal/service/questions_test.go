package service

import (
	"context"
	"errors"
	"testing"

	"github.com/aptiprep/backend/internal/domain/question"
	"github.com/aptiprep/backend/internal/grader"
)

func TestQuestionServiceCheckAndImport(t *testing.T) {
	qs := newFakeQuestionStore(mcq(1, question.SectionVerbal, question.DifficultyEasy))
	svc := NewQuestionService(qs, grader.New(), discardLogger())
	ctx := context.Background()

	ok, err := svc.Check(ctx, 1, "a")
	if err != nil || !ok {
		t.Errorf("check correct answer = %v, %v", ok, err)
	}
	ok, err = svc.Check(ctx, 1, "B")
	if err != nil || ok {
		t.Errorf("check wrong answer = %v, %v", ok, err)
	}
	if _, err := svc.Check(ctx, 1, "  "); !errors.Is(err, ErrInvalid) {
		t.Errorf("empty answer: got %v", err)
	}

	edited := mcq(1, question.SectionVerbal, question.DifficultyHard)
	res, err := svc.Import(ctx, []*question.Question{edited, mcq(2, question.SectionLogical, question.DifficultyEasy)})
	if err != nil {
		t.Fatal(err)
	}
	if res.Created != 1 || res.Updated != 1 {
		t.Errorf("import = %+v, want 1 created / 1 updated", res)
	}

	bad := &question.Question{Number: 3, Text: "?", Section: "art"}
	if _, err := svc.Import(ctx, []*question.Question{bad}); !errors.Is(err, ErrInvalid) {
		t.Errorf("invalid import: got %v", err)
	}

	page, err := svc.List(ctx, question.Filter{}, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 2 || len(page.Questions) != 1 || page.Questions[0].Number != 2 {
		t.Errorf("unexpected page: total=%d len=%d", page.Total, len(page.Questions))
	}
}
