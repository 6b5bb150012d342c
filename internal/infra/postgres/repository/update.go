package repository

import (
	"context"
	"fmt"

	"github.com/lexibot/vocab-units-bot/internal/infra/postgres"
)

// UpdateRepository keeps an audit log of raw Telegram updates.
type UpdateRepository struct {
	db postgres.DBTX
}

// NewUpdateRepository creates a new UpdateRepository with the provided database pool.
func NewUpdateRepository(db postgres.DBTX) *UpdateRepository {
	return &UpdateRepository{db: db}
}

// Insert stores one raw update payload. Callers treat it as
// fire-and-forget: a failed insert never blocks turn handling.
func (r *UpdateRepository) Insert(ctx context.Context, payload []byte) error {
	query := `INSERT INTO updates (payload) VALUES ($1)`

	if _, err := r.db.Exec(ctx, query, payload); err != nil {
		return fmt.Errorf("insert update: %w", err)
	}

	return nil
}
