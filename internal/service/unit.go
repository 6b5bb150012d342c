package service

import (
	"context"

	"github.com/lexibot/vocab-units-bot/internal/domain/entities"
)

// UnitService manages the user's unit catalog. Units are write-once from
// the rehearsal engine's point of view; this service owns creation and
// listing.
type UnitService struct {
	repository UnitRepo
}

func NewUnitService(repository UnitRepo) *UnitService {
	return &UnitService{repository: repository}
}

// CreateOrUpdate stores a unit parsed from a user message, replacing the
// articles of an existing unit with the same name. Reports whether the
// unit was newly created.
func (s *UnitService) CreateOrUpdate(
	ctx context.Context, userID int64, name string, articles []entities.Article,
) (*entities.Unit, bool, error) {
	unit, err := entities.NewUnit(userID, name, articles)
	if err != nil {
		return nil, false, err
	}

	created, err := s.repository.Save(ctx, unit)
	if err != nil {
		return nil, false, err
	}

	return unit, created, nil
}

// List returns the user's units, most recently updated first.
func (s *UnitService) List(ctx context.Context, userID int64) ([]*entities.Unit, error) {
	return s.repository.ListByUserID(ctx, userID)
}

// Get returns the user's unit by name.
func (s *UnitService) Get(ctx context.Context, userID int64, name string) (*entities.Unit, error) {
	return s.repository.GetByName(ctx, userID, name)
}
