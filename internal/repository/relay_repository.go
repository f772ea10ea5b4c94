package repository

import (
	"context"
	"database/sql"

	"github.com/suar-net/relay/internal/model"
)

// relayRepository is the implementation of IRelayRepository.
type relayRepository struct {
	db *sql.DB
}

// NewRelayRepository is the constructor for relayRepository.
func NewRelayRepository(db *sql.DB) IRelayRepository {
	return &relayRepository{db: db}
}

// Create inserts the trace of one dispatched job.
func (r *relayRepository) Create(ctx context.Context, record *model.RelayRecord) error {
	query := `
		INSERT INTO relay_history (id, user_id, executed_at, verb, hostname, path, arguments, json_body, response_status_code, response_size, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.UserID,
		record.ExecutedAt,
		record.Verb,
		record.Hostname,
		record.Path,
		record.Arguments,
		record.JSONBody,
		record.ResponseStatusCode,
		record.ResponseSize,
		record.DurationMs,
	)

	return err
}

// GetByUserID retrieves the relay history of one user, newest first.
func (r *relayRepository) GetByUserID(ctx context.Context, userID int) ([]*model.RelayRecord, error) {
	query := `
		SELECT id, user_id, executed_at, verb, hostname, path, arguments, json_body, response_status_code, response_size, duration_ms
		FROM relay_history
		WHERE user_id = $1
		ORDER BY executed_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*model.RelayRecord
	for rows.Next() {
		var rec model.RelayRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.UserID,
			&rec.ExecutedAt,
			&rec.Verb,
			&rec.Hostname,
			&rec.Path,
			&rec.Arguments,
			&rec.JSONBody,
			&rec.ResponseStatusCode,
			&rec.ResponseSize,
			&rec.DurationMs,
		); err != nil {
			return nil, err
		}
		records = append(records, &rec)
	}

	return records, rows.Err()
}
