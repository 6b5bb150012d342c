package telegram

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/lexibot/vocab-units-bot/internal/infra/postgres/repository"
	"github.com/lexibot/vocab-units-bot/internal/service"
)

// handleUnitMessage processes hashtag messages: the user sends them to
// create or, by editing the original message, change a unit.
func (h *Handler) handleUnitMessage(ctx context.Context, t *turn) (bool, error) {
	if !service.IsUnitMessage(t.text()) {
		return false, nil
	}

	name, articles, err := service.ParseUnit(t.text())
	var parseErr *service.ParseError
	if errors.As(err, &parseErr) {
		h.logger.Info("unit message was not parsed",
			zap.Int64("user_id", t.user.ID),
			zap.String("reason", parseErr.Reason),
		)
		h.send(newPlainMessage(t.chatID, parseErr.Reason+msgParseEditHint))
		return true, nil
	}
	if err != nil {
		return true, err
	}

	unit, created, err := h.units.CreateOrUpdate(ctx, t.user.ID, name, articles)
	if err != nil {
		return true, err
	}

	h.logger.Info("unit saved",
		zap.Int64("user_id", t.user.ID),
		zap.String("unit", unit.Name),
		zap.Bool("created", created),
	)
	h.send(newMessage(t.chatID, unitSavedText(unit, created)))
	return true, nil
}

// handleStartCommand greets the user on the standard /start command.
func (h *Handler) handleStartCommand(ctx context.Context, t *turn) (bool, error) {
	if !t.message.IsCommand() || t.message.Command() != "start" {
		return false, nil
	}

	h.logger.Info("start command", zap.Int64("user_id", t.user.ID))
	h.send(newMessage(t.chatID, welcomeText(t.user)))
	return true, nil
}

// handleUnitsCommand lists the user's units with their glimpses.
func (h *Handler) handleUnitsCommand(ctx context.Context, t *turn) (bool, error) {
	if !t.message.IsCommand() || t.message.Command() != "units" {
		return false, nil
	}

	units, err := h.units.List(ctx, t.user.ID)
	if err != nil {
		return true, err
	}

	if len(units) == 0 {
		h.send(newMessage(t.chatID, noUnitsText()))
		return true, nil
	}

	h.send(newMessage(t.chatID, unitListText(units)))
	return true, nil
}

// handleStopCommand stops the active rehearsal on explicit request.
func (h *Handler) handleStopCommand(ctx context.Context, t *turn) (bool, error) {
	if !t.message.IsCommand() || t.message.Command() != "stop" {
		return false, nil
	}

	report, err := h.rehearsals.Stop(ctx, t.user.ID)
	if errors.Is(err, repository.ErrRehearsalNotFound) {
		h.send(newPlainMessage(t.chatID, msgNoActiveRehearsal))
		return true, nil
	}
	if err != nil {
		return true, err
	}

	h.send(newPlainMessage(t.chatID, rehearsalStoppedText(report)))
	return true, nil
}

// handleUnitCommand starts a rehearsal for a /unit_<name> command,
// stopping and reporting any rehearsal already in progress.
func (h *Handler) handleUnitCommand(ctx context.Context, t *turn) (bool, error) {
	if !service.IsUnitCommand(t.text()) {
		return false, nil
	}

	name, err := service.ParseUnitCommand(t.text())
	var parseErr *service.ParseError
	if errors.As(err, &parseErr) {
		h.logger.Info("unit command was not parsed",
			zap.Int64("user_id", t.user.ID),
			zap.String("text", t.text()),
		)
		h.send(newPlainMessage(t.chatID, parseErr.Reason))
		return true, nil
	}
	if err != nil {
		return true, err
	}

	result, err := h.rehearsals.Start(ctx, t.user.ID, name)
	if errors.Is(err, repository.ErrUnitNotFound) {
		h.logger.Warn("unit not found",
			zap.Int64("user_id", t.user.ID),
			zap.String("unit", name),
		)
		h.send(newPlainMessage(t.chatID, unitNotFoundText(name)))
		return true, nil
	}
	if err != nil {
		return true, err
	}

	// Report the force-stopped rehearsal before the first new question.
	if result.Stopped != nil {
		h.send(newPlainMessage(t.chatID, rehearsalStoppedText(result.Stopped)))
	}

	h.askQuestion(ctx, t.chatID, t.user.ID, result.Word)
	return true, nil
}

// handleHelp is the pipeline tail: whatever no other handler claimed gets
// the command overview.
func (h *Handler) handleHelp(ctx context.Context, t *turn) (bool, error) {
	h.send(newMessage(t.chatID, helpText()))
	return true, nil
}

// askQuestion sends the next rehearsal question and remembers its message
// id so the reveal flow can edit it in place.
func (h *Handler) askQuestion(ctx context.Context, chatID, userID int64, word string) {
	msg := newMessage(chatID, questionText(word))
	msg.ReplyMarkup = questionKeyboard()

	sent, err := h.bot.Send(msg)
	if err != nil {
		h.logger.Error("failed to send question",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
		return
	}

	if err := h.rehearsals.TrackQuestionMessage(ctx, userID, sent.MessageID); err != nil {
		// Bookkeeping only: the rehearsal stays playable without it.
		h.logger.Warn("failed to track question message",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	}
}
