package question

import (
	"context"
	"testing"

	"github.com/pkarhu/deduction-api/internal/domain"
)

func TestMemrepoImportAndFetch(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	rows := []domain.Question{
		{ID: "b", Stage: 1, Prompt: "second", Answer: "24"},
		{ID: "a", Stage: 1, Prompt: "first", Answer: "24"},
		{ID: "c", Stage: 2, Prompt: "riddle", Answer: "the answer"},
	}
	if err := repo.Import(ctx, rows, false); err != nil {
		t.Fatalf("Import: %v", err)
	}

	q, err := repo.GetByStage(ctx, 1)
	if err != nil {
		t.Fatalf("GetByStage: %v", err)
	}
	if q == nil || q.ID != "a" {
		t.Fatalf("expected deterministic first question, got %+v", q)
	}

	if q, _ := repo.GetByStage(ctx, 9); q != nil {
		t.Fatalf("expected nil for empty stage, got %+v", q)
	}
}

func TestMemrepoImportClear(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	_ = repo.Import(ctx, []domain.Question{{ID: "old", Stage: 1, Prompt: "p", Answer: "a"}}, false)
	_ = repo.Import(ctx, []domain.Question{{ID: "new", Stage: 2, Prompt: "p", Answer: "a"}}, true)

	if q, _ := repo.GetByStage(ctx, 1); q != nil {
		t.Fatalf("clear did not drop old rows: %+v", q)
	}
	if q, _ := repo.GetByStage(ctx, 2); q == nil || q.ID != "new" {
		t.Fatalf("expected replacement row, got %+v", q)
	}
}

func TestMemrepoStats(t *testing.T) {
	repo := NewMemoryRepository().(*memrepo)
	ctx := context.Background()

	_ = repo.IncrementStat(ctx, domain.StatCorrectSubmissions, 1)
	_ = repo.IncrementStat(ctx, domain.StatCorrectSubmissions, 2)
	if got := repo.Stat(domain.StatCorrectSubmissions); got != 3 {
		t.Fatalf("stat = %d, want 3", got)
	}
}
