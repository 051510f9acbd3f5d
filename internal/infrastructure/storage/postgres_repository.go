package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"ReputationMonitor/internal/domain"
	"ReputationMonitor/internal/ports"
)

// PostgresRepository persists harvest runs into Postgres for history and
// audit. The pipeline works without it; a nil db turns every call into a
// no-op.
type PostgresRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.RecordRepository = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// SaveRun stores the run header and its records in one transaction.
func (r *PostgresRepository) SaveRun(ctx context.Context, result domain.RunResult) error {
	if r.db == nil {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	runID, err := r.insertRun(ctx, tx, result)
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := r.insertRecords(ctx, tx, runID, result.Records); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}

	return nil
}

func (r *PostgresRepository) insertRun(ctx context.Context, tx *sql.Tx, result domain.RunResult) (int64, error) {
	query, args, err := r.builder.
		Insert("harvest_runs").
		Columns("source", "record_count", "classified", "backfilled").
		Values(string(result.Source), len(result.Records), result.Classified, result.Backfilled).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build run insert: %w", err)
	}

	var runID int64
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&runID); err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}

	return runID, nil
}

func (r *PostgresRepository) insertRecords(ctx context.Context, tx *sql.Tx, runID int64, records []domain.Record) error {
	if len(records) == 0 {
		return nil
	}

	insert := r.builder.
		Insert("harvest_records").
		Columns("run_id", "page", "posted_at", "text", "sentiment", "confidence")

	for _, record := range records {
		var postedAt sql.NullTime
		if record.Resolved() {
			postedAt = sql.NullTime{Time: record.PostedAt, Valid: true}
		}

		var sentiment sql.NullString
		var confidence sql.NullFloat64
		if record.Classified() {
			sentiment = sql.NullString{String: string(record.Sentiment), Valid: true}
			confidence = sql.NullFloat64{Float64: record.Confidence, Valid: true}
		}

		insert = insert.Values(runID, record.Page, postedAt, record.Text, sentiment, confidence)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("build records insert: %w", err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert records: %w", err)
	}

	return nil
}
