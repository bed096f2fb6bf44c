package repository

import (
	"context"
	"database/sql"
	"fmt"

	"housing-intake/internal/common/errors"
)

// SequenceRepository hands out per-year reference numbers. The counter row is
// upserted atomically so concurrent callers never see the same value.
type SequenceRepository struct {
	db *sql.DB
}

func NewSequenceRepository(db *sql.DB) *SequenceRepository {
	return &SequenceRepository{db: db}
}

// Next returns the next counter value for the given year, starting at 1.
func (r *SequenceRepository) Next(ctx context.Context, year int) (int, error) {
	query := `
		INSERT INTO reference_counters (year, value)
		VALUES ($1, 1)
		ON CONFLICT (year) DO UPDATE SET value = reference_counters.value + 1
		RETURNING value
	`
	var value int
	if err := r.db.QueryRowContext(ctx, query, year).Scan(&value); err != nil {
		return 0, errors.NewDatabaseInsertFailedError(err)
	}
	return value, nil
}

// FormatReference renders a case reference like SH-2026-0042.
func FormatReference(year, value int) string {
	return fmt.Sprintf("SH-%d-%04d", year, value)
}
