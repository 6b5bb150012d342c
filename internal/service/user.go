package service

import (
	"context"

	"github.com/lexibot/vocab-units-bot/internal/domain/entities"
)

type UserRepo interface {
	Save(ctx context.Context, user *entities.User) (bool, error)
	GetByID(ctx context.Context, userID int64) (*entities.User, error)
}

type UserService struct {
	repository UserRepo
}

func NewUserService(repository UserRepo) *UserService {
	return &UserService{repository: repository}
}

// EnsureUser creates the user on first contact and refreshes the chat id
// on later ones. Profile fields are kept from the first contact.
func (s *UserService) EnsureUser(
	ctx context.Context, userID, chatID int64, firstName, lastName, username string,
) (*entities.User, error) {
	user := entities.NewUser(userID, chatID, firstName, lastName, username)

	if _, err := s.repository.Save(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
