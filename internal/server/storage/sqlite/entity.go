package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/homekeeper/internal/models"
	"github.com/iudanet/homekeeper/internal/server/storage"
)

// GetEntity retrieves a single record, including tombstones
func (s *Storage) GetEntity(ctx context.Context, userID string, entityType models.EntityType, id string) (models.Record, error) {
	query := `SELECT data FROM entities WHERE user_id = ? AND type = ? AND id = ?`

	var data string
	err := s.db.QueryRowContext(ctx, query, userID, string(entityType), id).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrEntityNotFound
		}
		return nil, fmt.Errorf("failed to get entity: %w", err)
	}

	return decodeRecord(data)
}

// ListEntities retrieves all records of a type including tombstones
func (s *Storage) ListEntities(ctx context.Context, userID string, entityType models.EntityType) ([]models.Record, error) {
	query := `
		SELECT data FROM entities
		WHERE user_id = ? AND type = ?
		ORDER BY modified_at, id
	`

	rows, err := s.db.QueryContext(ctx, query, userID, string(entityType))
	if err != nil {
		return nil, fmt.Errorf("failed to query entities: %w", err)
	}
	defer rows.Close()

	records := make([]models.Record, 0)
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan entity: %w", err)
		}
		record, err := decodeRecord(data)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entities: %w", err)
	}

	return records, nil
}

// putEntity вставляет или заменяет запись внутри транзакции
func putEntity(ctx context.Context, tx *sql.Tx, userID string, entityType models.EntityType, record models.Record, modifiedAt time.Time) error {
	id := record.ID()
	if id == "" {
		return fmt.Errorf("failed to save %s: %w", entityType, models.ErrMissingID)
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal entity: %w", err)
	}

	query := `
		INSERT INTO entities (user_id, type, id, data, deleted, modified_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, type, id) DO UPDATE SET
			data = excluded.data,
			deleted = excluded.deleted,
			modified_at = excluded.modified_at
	`

	_, err = tx.ExecContext(ctx, query,
		userID,
		string(entityType),
		id,
		string(data),
		boolToInt(models.IsDeleted(record)),
		modifiedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to save entity: %w", err)
	}

	return nil
}

func decodeRecord(data string) (models.Record, error) {
	var record models.Record
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		return nil, fmt.Errorf("failed to decode entity: %w", err)
	}
	return record, nil
}
