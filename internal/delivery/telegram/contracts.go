package telegram

import (
	"context"

	"github.com/lexibot/vocab-units-bot/internal/domain/entities"
	"github.com/lexibot/vocab-units-bot/internal/service"
)

type UserService interface {
	EnsureUser(ctx context.Context, userID, chatID int64, firstName, lastName, username string) (*entities.User, error)
}

type UnitService interface {
	CreateOrUpdate(ctx context.Context, userID int64, name string, articles []entities.Article) (*entities.Unit, bool, error)
	List(ctx context.Context, userID int64) ([]*entities.Unit, error)
}

type RehearsalService interface {
	Start(ctx context.Context, userID int64, unitName string) (*service.StartResult, error)
	Answer(ctx context.Context, userID int64, isKnown bool) (*service.AnswerResult, error)
	Reveal(ctx context.Context, userID int64) (entities.Article, error)
	Stop(ctx context.Context, userID int64) (*service.StopReport, error)
	TrackQuestionMessage(ctx context.Context, userID int64, messageID int) error
}

// UpdateLog records raw inbound updates for auditing.
type UpdateLog interface {
	Insert(ctx context.Context, payload []byte) error
}
