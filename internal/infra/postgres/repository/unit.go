package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/lexibot/vocab-units-bot/internal/domain/entities"
	"github.com/lexibot/vocab-units-bot/internal/infra/postgres"
)

var ErrUnitNotFound = errors.New("unit not found")

// UnitRepository provides access to vocabulary units in the database.
// Articles are stored as a JSONB document to keep the aggregate in one row.
type UnitRepository struct {
	db postgres.DBTX
}

// NewUnitRepository creates a new UnitRepository with the provided database pool.
func NewUnitRepository(db postgres.DBTX) *UnitRepository {
	return &UnitRepository{db: db}
}

// Save inserts a unit or, when the user already has one with the same
// name, replaces its articles. Reports whether a new unit was created.
func (r *UnitRepository) Save(ctx context.Context, unit *entities.Unit) (bool, error) {
	articles, err := json.Marshal(unit.Articles)
	if err != nil {
		return false, fmt.Errorf("marshal articles: %w", err)
	}

	query := `
		INSERT INTO units (id, user_id, name, articles)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, name) DO UPDATE SET
			articles = EXCLUDED.articles,
			updated_at = now()
		RETURNING (xmax = 0) AS created, id, created_at, updated_at
	`

	var created bool
	err = r.db.QueryRow(ctx, query, unit.ID, unit.UserID, unit.Name, articles).Scan(
		&created,
		&unit.ID,
		&unit.CreatedAt,
		&unit.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("save unit: %w", err)
	}

	return created, nil
}

// GetByName retrieves a user's unit by its name.
func (r *UnitRepository) GetByName(ctx context.Context, userID int64, name string) (*entities.Unit, error) {
	query := `
		SELECT id, user_id, name, articles, created_at, updated_at
		FROM units
		WHERE user_id = $1 AND name = $2
	`

	unit, err := scanUnit(r.db.QueryRow(ctx, query, userID, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUnitNotFound
		}
		return nil, fmt.Errorf("get unit: %w", err)
	}

	return unit, nil
}

// ListByUserID retrieves all units of a user, most recently updated first.
func (r *UnitRepository) ListByUserID(ctx context.Context, userID int64) ([]*entities.Unit, error) {
	query := `
		SELECT id, user_id, name, articles, created_at, updated_at
		FROM units
		WHERE user_id = $1
		ORDER BY updated_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	defer rows.Close()

	var units []*entities.Unit
	for rows.Next() {
		unit, err := scanUnit(rows)
		if err != nil {
			return nil, fmt.Errorf("list units: %w", err)
		}
		units = append(units, unit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}

	return units, nil
}

func scanUnit(row pgx.Row) (*entities.Unit, error) {
	var (
		unit     entities.Unit
		articles []byte
	)

	err := row.Scan(
		&unit.ID,
		&unit.UserID,
		&unit.Name,
		&articles,
		&unit.CreatedAt,
		&unit.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(articles, &unit.Articles); err != nil {
		return nil, fmt.Errorf("unmarshal articles: %w", err)
	}

	return &unit, nil
}
