package telegram

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/lexibot/vocab-units-bot/internal/domain/entities"
	"github.com/lexibot/vocab-units-bot/internal/infra/postgres/repository"
)

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	// Remove the user's "clock" whatever happens next.
	defer func() {
		answer := tgbotapi.NewCallback(cb.ID, "")
		if _, err := h.bot.Request(answer); err != nil {
			h.logger.Warn("callback answer error", zap.Error(err))
		}
	}()

	if cb.Message == nil {
		return
	}

	data := decodeCallback(cb.Data)
	if data.Action != actionRehearsal || len(data.Params) == 0 {
		h.logger.Debug("unknown callback", zap.String("data", cb.Data))
		return
	}

	if _, err := h.users.EnsureUser(
		ctx,
		cb.From.ID,
		cb.Message.Chat.ID,
		cb.From.FirstName,
		cb.From.LastName,
		cb.From.UserName,
	); err != nil {
		h.logger.Error("failed to ensure user",
			zap.Int64("user_id", cb.From.ID),
			zap.Error(err),
		)
		return
	}

	switch data.Params[0] {
	case rehearsalShowTranslation:
		h.handleShowTranslation(ctx, cb)
	case rehearsalYes, rehearsalNo:
		h.handleAnswer(ctx, cb, data.Params[0] == rehearsalYes)
	default:
		h.logger.Debug("unknown rehearsal callback", zap.String("data", cb.Data))
	}
}

// handleShowTranslation edits the outstanding question in place to show
// the translation, keeping only the yes/no answers. The history is not
// advanced.
func (h *Handler) handleShowTranslation(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	article, err := h.rehearsals.Reveal(ctx, cb.From.ID)
	if errors.Is(err, repository.ErrRehearsalNotFound) || errors.Is(err, entities.ErrNoOutstandingQuestion) {
		// A stray button press long after the rehearsal ended.
		h.logger.Debug("reveal without active question", zap.Int64("user_id", cb.From.ID))
		return
	}
	if err != nil {
		h.logger.Error("failed to reveal translation",
			zap.Int64("user_id", cb.From.ID),
			zap.Error(err),
		)
		h.sendError(cb.Message.Chat.ID, msgInternalError)
		return
	}

	edit := newEdit(cb.Message.Chat.ID, cb.Message.MessageID, revealText(article))
	kb := revealKeyboard()
	edit.ReplyMarkup = &kb
	h.send(edit)
}

// handleAnswer records the yes/no answer and either asks the next word or
// sends the final report when the unit is exhausted.
func (h *Handler) handleAnswer(ctx context.Context, cb *tgbotapi.CallbackQuery, isKnown bool) {
	result, err := h.rehearsals.Answer(ctx, cb.From.ID, isKnown)
	if errors.Is(err, repository.ErrRehearsalNotFound) {
		h.logger.Debug("answer without active rehearsal", zap.Int64("user_id", cb.From.ID))
		return
	}
	if errors.Is(err, entities.ErrNoOutstandingQuestion) {
		// Caller sequencing bug: an answer arrived while no question was
		// outstanding. Abort the turn, write nothing.
		h.logger.Error("answer without outstanding question",
			zap.Int64("user_id", cb.From.ID),
		)
		return
	}
	if err != nil {
		h.logger.Error("failed to record answer",
			zap.Int64("user_id", cb.From.ID),
			zap.Error(err),
		)
		h.sendError(cb.Message.Chat.ID, msgInternalError)
		return
	}

	if result.Finished {
		h.send(newPlainMessage(cb.Message.Chat.ID, rehearsalFinishedText(result.Report)))
		return
	}

	h.askQuestion(ctx, cb.Message.Chat.ID, cb.From.ID, result.Word)
}
