package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/lexibot/vocab-units-bot/internal/domain/entities"
)

// turn carries one inbound message through the handler pipeline.
type turn struct {
	update  tgbotapi.Update
	message *tgbotapi.Message
	edited  bool
	user    *entities.User
	chatID  int64
}

func (t *turn) text() string {
	return t.message.Text
}

// turnHandler inspects a turn and reports whether it handled it. An
// unhandled turn is passed to the next handler in the pipeline.
type turnHandler func(ctx context.Context, t *turn) (bool, error)

// runPipeline feeds the turn through the ordered handlers. The last
// handler (help) always claims the turn, so falling off the end only
// happens if the pipeline is misconfigured.
func (h *Handler) runPipeline(ctx context.Context, t *turn) {
	for _, handle := range h.pipeline {
		handled, err := handle(ctx, t)
		if err != nil {
			h.logger.Error("turn failed",
				zap.Int64("chat_id", t.chatID),
				zap.String("text", t.text()),
				zap.Error(err),
			)
			h.sendError(t.chatID, msgInternalError)
			return
		}
		if handled {
			return
		}
	}
}
