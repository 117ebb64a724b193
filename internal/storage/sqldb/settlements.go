package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/standbys/internal/models"
	"github.com/mmynk/standbys/internal/storage"
)

// CreateSettlement records a new settlement.
func (s *Store) CreateSettlement(ctx context.Context, st *models.Settlement) error {
	if st.ID == "" {
		st.ID = uuid.New().String()
	}
	if st.CreatedAt.IsZero() {
		st.CreatedAt = time.Now().UTC()
	}

	_, err := s.exec(ctx, `
		INSERT INTO settlements (id, owner_id, resolution, note, created_at, dissolved_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		st.ID,
		st.OwnerID,
		string(st.Resolution),
		st.Note,
		millis(st.CreatedAt),
		nullMillis(st.DissolvedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create settlement: %w", err)
	}
	return nil
}

// GetSettlement retrieves a settlement by ID.
func (s *Store) GetSettlement(ctx context.Context, ownerID, id string) (*models.Settlement, error) {
	var (
		st         models.Settlement
		resolution string
		createdAt  int64
		dissolved  sql.NullInt64
	)
	err := s.queryRow(ctx, `
		SELECT id, owner_id, resolution, note, created_at, dissolved_at
		FROM settlements
		WHERE owner_id = ? AND id = ?`,
		ownerID, id,
	).Scan(&st.ID, &st.OwnerID, &resolution, &st.Note, &createdAt, &dissolved)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("settlement %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}

	st.Resolution = models.Resolution(resolution)
	st.CreatedAt = fromMillis(createdAt)
	st.DissolvedAt = fromNullMillis(dissolved)
	return &st, nil
}

// DissolveSettlement marks a settlement as dissolved. Dissolving twice keeps
// the first timestamp; unknown ids are ignored.
func (s *Store) DissolveSettlement(ctx context.Context, ownerID, id string, at time.Time) error {
	_, err := s.exec(ctx, `
		UPDATE settlements SET dissolved_at = ?
		WHERE owner_id = ? AND id = ? AND dissolved_at IS NULL`,
		millis(at), ownerID, id,
	)
	if err != nil {
		return fmt.Errorf("failed to dissolve settlement: %w", err)
	}
	return nil
}
