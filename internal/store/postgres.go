package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"prouni-simulator/internal/common/config"
	"prouni-simulator/internal/models"
)

const (
	schemaSQL = `
CREATE TABLE IF NOT EXISTS simulation_records (
	id          TEXT PRIMARY KEY,
	owner       TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL,
	engine      TEXT NOT NULL,
	eligible    BOOLEAN NOT NULL,
	score       DOUBLE PRECISION NOT NULL,
	record      JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS simulation_records_owner_created_idx
	ON simulation_records (owner, created_at DESC, id DESC);`

	insertSQL = `INSERT INTO simulation_records (id, owner, created_at, engine, eligible, score, record)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	listSQL = `SELECT record FROM simulation_records WHERE owner = $1 ORDER BY created_at DESC, id DESC`

	getSQL = `SELECT record FROM simulation_records WHERE owner = $1 AND id = $2`

	deleteSQL = `DELETE FROM simulation_records WHERE owner = $1 AND id = $2`
)

// PostgresRepository stores each record as a JSONB document plus the
// columns needed to scope and order it.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Driver() string { return config.StorePostgres }

// EnsureSchema creates the records table and its index if missing.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create simulation_records: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Insert(ctx context.Context, rec *models.OutcomeRecord) error {
	doc, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	_, err = r.db.ExecContext(ctx, insertSQL,
		rec.ID, rec.Owner, rec.CreatedAt, string(rec.Engine), rec.Eligible, rec.Score, doc,
	)
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context, owner string) ([]*models.OutcomeRecord, error) {
	rows, err := r.db.QueryContext(ctx, listSQL, owner)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var out []*models.OutcomeRecord
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		rec, err := decodeRecord(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) Get(ctx context.Context, owner, id string) (*models.OutcomeRecord, error) {
	var doc []byte
	err := r.db.QueryRowContext(ctx, getSQL, owner, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}
	return decodeRecord(doc)
}

func (r *PostgresRepository) Delete(ctx context.Context, owner, id string) error {
	res, err := r.db.ExecContext(ctx, deleteSQL, owner, id)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func decodeRecord(doc []byte) (*models.OutcomeRecord, error) {
	var rec models.OutcomeRecord
	if err := json.Unmarshal(doc, &rec); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return &rec, nil
}
