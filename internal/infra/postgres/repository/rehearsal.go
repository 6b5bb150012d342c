package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lexibot/vocab-units-bot/internal/domain/entities"
	"github.com/lexibot/vocab-units-bot/internal/infra/postgres"
)

var ErrRehearsalNotFound = errors.New("rehearsal not found")

// RehearsalRepository provides access to rehearsal sessions in the
// database. History is stored as a JSONB document; the referenced unit is
// rehydrated on every load so the engine always sees the full aggregate.
type RehearsalRepository struct {
	db         postgres.DBTX
	transactor *postgres.Transactor
}

// NewRehearsalRepository creates a new RehearsalRepository over the
// provided database pool.
func NewRehearsalRepository(pool *pgxpool.Pool) *RehearsalRepository {
	return &RehearsalRepository{
		db:         pool,
		transactor: postgres.NewTransactor(pool),
	}
}

// Create inserts a new rehearsal.
func (r *RehearsalRepository) Create(ctx context.Context, rehearsal *entities.Rehearsal) error {
	return createRehearsal(ctx, r.db, rehearsal)
}

// Update replaces the mutable fields of a rehearsal and bumps its
// modification timestamp.
func (r *RehearsalRepository) Update(ctx context.Context, rehearsal *entities.Rehearsal) error {
	return updateRehearsal(ctx, r.db, rehearsal)
}

// Replace persists a rehearsal handover atomically: the previous
// rehearsal (if any) is stopped and the new one created in a single
// transaction, so no state of the new rehearsal becomes visible while the
// old one is still active.
func (r *RehearsalRepository) Replace(ctx context.Context, stopped, created *entities.Rehearsal) error {
	return r.transactor.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if stopped != nil {
			if err := updateRehearsal(ctx, tx, stopped); err != nil {
				return err
			}
		}
		return createRehearsal(ctx, tx, created)
	})
}

// GetActiveByUserID retrieves the user's active rehearsal together with
// its unit.
func (r *RehearsalRepository) GetActiveByUserID(ctx context.Context, userID int64) (*entities.Rehearsal, error) {
	query := `
		SELECT r.id, r.user_id, r.status, r.history, r.started_at, r.updated_at,
		       u.id, u.user_id, u.name, u.articles, u.created_at, u.updated_at
		FROM rehearsals r
		JOIN units u ON u.id = r.unit_id
		WHERE r.user_id = $1 AND r.status = 'active'
		ORDER BY r.started_at DESC
		LIMIT 1
	`

	var (
		rehearsal entities.Rehearsal
		unit      entities.Unit
		history   []byte
		articles  []byte
	)

	err := r.db.QueryRow(ctx, query, userID).Scan(
		&rehearsal.ID,
		&rehearsal.UserID,
		&rehearsal.Status,
		&history,
		&rehearsal.StartedAt,
		&rehearsal.UpdatedAt,
		&unit.ID,
		&unit.UserID,
		&unit.Name,
		&articles,
		&unit.CreatedAt,
		&unit.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRehearsalNotFound
		}
		return nil, fmt.Errorf("get active rehearsal: %w", err)
	}

	if err := json.Unmarshal(history, &rehearsal.History); err != nil {
		return nil, fmt.Errorf("unmarshal history: %w", err)
	}
	if err := json.Unmarshal(articles, &unit.Articles); err != nil {
		return nil, fmt.Errorf("unmarshal articles: %w", err)
	}

	rehearsal.Unit = &unit
	return &rehearsal, nil
}

func createRehearsal(ctx context.Context, db postgres.DBTX, rehearsal *entities.Rehearsal) error {
	history, err := json.Marshal(historyOrEmpty(rehearsal.History))
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}

	query := `
		INSERT INTO rehearsals (id, user_id, unit_id, status, history)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING started_at, updated_at
	`

	err = db.QueryRow(
		ctx,
		query,
		rehearsal.ID,
		rehearsal.UserID,
		rehearsal.Unit.ID,
		rehearsal.Status,
		history,
	).Scan(&rehearsal.StartedAt, &rehearsal.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create rehearsal: %w", err)
	}

	return nil
}

func updateRehearsal(ctx context.Context, db postgres.DBTX, rehearsal *entities.Rehearsal) error {
	history, err := json.Marshal(historyOrEmpty(rehearsal.History))
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}

	query := `
		UPDATE rehearsals
		SET status = $1,
		    history = $2,
		    updated_at = now()
		WHERE id = $3
	`

	tag, err := db.Exec(ctx, query, rehearsal.Status, history, rehearsal.ID)
	if err != nil {
		return fmt.Errorf("update rehearsal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRehearsalNotFound
	}

	return nil
}

// historyOrEmpty keeps a nil history as a JSON array instead of null.
func historyOrEmpty(history []entities.HistoryItem) []entities.HistoryItem {
	if history == nil {
		return []entities.HistoryItem{}
	}
	return history
}
