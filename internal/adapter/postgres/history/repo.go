// Package history implements the lookup history repository using PostgreSQL.
// Queries are built with squirrel and executed through pgx.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	postgres "github.com/heartmarshall/quicktranslate/internal/adapter/postgres"
	"github.com/heartmarshall/quicktranslate/internal/domain"
)

const (
	table        = "translation_history"
	defaultLimit = 20
	maxLimit     = 100
)

var columns = []string{
	"id", "text", "source_lang", "target_lang",
	"translation", "phonetic", "example_source", "example_target",
	"created_at",
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repo provides history persistence backed by PostgreSQL.
type Repo struct {
	q postgres.Querier
}

// New creates a new history repository. q is usually a *pgxpool.Pool.
func New(q postgres.Querier) *Repo {
	return &Repo{q: q}
}

// Create inserts one history item.
func (r *Repo) Create(ctx context.Context, item *domain.HistoryItem) error {
	query, args, err := psql.Insert(table).
		Columns(columns...).
		Values(
			item.ID, item.Text, item.SourceLang, item.TargetLang,
			item.Result.Translation, item.Result.Phonetic,
			item.Result.ExampleSource, item.Result.ExampleTarget,
			item.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert history: %w", err)
	}

	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, fmt.Sprintf("create history item %s", item.ID))
	}
	return nil
}

// ListRecent returns the newest items first. Limit is clamped to [1, 100],
// with 0 or less meaning 20.
func (r *Repo) ListRecent(ctx context.Context, limit int) ([]domain.HistoryItem, error) {
	query, args, err := psql.Select(columns...).
		From(table).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(clampLimit(limit))).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list history: %w", err)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "list history")
	}

	items, err := pgx.CollectRows(rows, scanItem)
	if err != nil {
		return nil, postgres.MapError(err, "list history")
	}
	return items, nil
}

// DeleteOlderThan removes items created before the threshold and returns
// how many were deleted.
func (r *Repo) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	query, args, err := psql.Delete(table).
		Where(squirrel.Lt{"created_at": before}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete history: %w", err)
	}

	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return 0, postgres.MapError(err, "delete history")
	}
	return tag.RowsAffected(), nil
}

func scanItem(row pgx.CollectableRow) (domain.HistoryItem, error) {
	var item domain.HistoryItem
	err := row.Scan(
		&item.ID, &item.Text, &item.SourceLang, &item.TargetLang,
		&item.Result.Translation, &item.Result.Phonetic,
		&item.Result.ExampleSource, &item.Result.ExampleTarget,
		&item.CreatedAt,
	)
	return item, err
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}
