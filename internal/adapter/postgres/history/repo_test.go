package history_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/quicktranslate/internal/adapter/postgres/history"
	"github.com/heartmarshall/quicktranslate/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/quicktranslate/internal/domain"
)

// newRepo sets up a test DB with an empty history table.
// Tests in this package share the table, so they do not run in parallel.
func newRepo(t *testing.T) (*history.Repo, *pgxpool.Pool) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	testhelper.TruncateHistory(t, pool)
	return history.New(pool), pool
}

func newItem(text string, createdAt time.Time) *domain.HistoryItem {
	return &domain.HistoryItem{
		ID:         uuid.New(),
		Text:       text,
		SourceLang: "en",
		TargetLang: "ru",
		Result: domain.TranslationResult{
			Translation:   domain.StringPtr("перевод " + text),
			Phonetic:      domain.StringPtr("/" + text + "/"),
			ExampleSource: domain.StringPtr("An example with " + text + "."),
		},
		CreatedAt: createdAt.UTC().Truncate(time.Microsecond),
	}
}

// ---------------------------------------------------------------------------
// Create + ListRecent
// ---------------------------------------------------------------------------

func TestRepo_Create_AndListRecent(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	older := newItem("older", base)
	newer := newItem("newer", base.Add(time.Minute))

	for _, item := range []*domain.HistoryItem{older, newer} {
		if err := repo.Create(ctx, item); err != nil {
			t.Fatalf("Create(%s): unexpected error: %v", item.Text, err)
		}
	}

	got, err := repo.ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListRecent returned %d items, want 2", len(got))
	}
	if got[0].ID != newer.ID || got[1].ID != older.ID {
		t.Errorf("order mismatch: got %s, %s", got[0].Text, got[1].Text)
	}

	first := got[0]
	if !first.CreatedAt.Equal(newer.CreatedAt) {
		t.Errorf("CreatedAt mismatch: got %v, want %v", first.CreatedAt, newer.CreatedAt)
	}
	if domain.Deref(first.Result.Translation) != "перевод newer" {
		t.Errorf("Translation mismatch: got %v", first.Result.Translation)
	}
	if first.Result.ExampleTarget != nil {
		t.Errorf("ExampleTarget should stay NULL, got %q", *first.Result.ExampleTarget)
	}
	if first.SourceLang != "en" || first.TargetLang != "ru" {
		t.Errorf("languages mismatch: %s -> %s", first.SourceLang, first.TargetLang)
	}
}

func TestRepo_ListRecent_Limit(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	base := time.Now()
	for i := range 3 {
		if err := repo.Create(ctx, newItem("w", base.Add(time.Duration(i)*time.Second))); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	got, err := repo.ListRecent(ctx, 2)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("ListRecent(2) returned %d items", len(got))
	}

	got, err = repo.ListRecent(ctx, 0)
	if err != nil {
		t.Fatalf("ListRecent(0): %v", err)
	}
	if len(got) != 3 {
		t.Errorf("ListRecent(0) returned %d items, want default limit to cover all 3", len(got))
	}
}

func TestRepo_ListRecent_Empty(t *testing.T) {
	repo, _ := newRepo(t)

	got, err := repo.ListRecent(context.Background(), 5)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty history, got %d items", len(got))
	}
}

func TestRepo_Create_DuplicateID(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	item := newItem("dup", time.Now())
	if err := repo.Create(ctx, item); err != nil {
		t.Fatalf("Create: %v", err)
	}

	err := repo.Create(ctx, item)
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("second Create: got %v, want ErrAlreadyExists", err)
	}
}

func TestRepo_Create_EmptyTextRejected(t *testing.T) {
	repo, _ := newRepo(t)

	err := repo.Create(context.Background(), newItem("", time.Now()))
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("Create(empty text): got %v, want ErrValidation", err)
	}
}

// ---------------------------------------------------------------------------
// DeleteOlderThan
// ---------------------------------------------------------------------------

func TestRepo_DeleteOlderThan(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	threshold := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	stale := newItem("stale", threshold.Add(-time.Hour))
	fresh := newItem("fresh", threshold.Add(time.Hour))
	for _, item := range []*domain.HistoryItem{stale, fresh} {
		if err := repo.Create(ctx, item); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	deleted, err := repo.DeleteOlderThan(ctx, threshold)
	if err != nil {
		t.Fatalf("DeleteOlderThan: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}

	got, err := repo.ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(got) != 1 || got[0].ID != fresh.ID {
		t.Errorf("remaining items mismatch: %+v", got)
	}
}
