package telegram

import (
	"context"
	"encoding/json"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type Handler struct {
	bot        *tgbotapi.BotAPI
	logger     *zap.Logger
	users      UserService
	units      UnitService
	rehearsals RehearsalService
	updates    UpdateLog
	pipeline   []turnHandler
}

func NewHandler(
	bot *tgbotapi.BotAPI,
	logger *zap.Logger,
	users UserService,
	units UnitService,
	rehearsals RehearsalService,
	updates UpdateLog,
) *Handler {
	h := &Handler{
		bot:        bot,
		logger:     logger,
		users:      users,
		units:      units,
		rehearsals: rehearsals,
		updates:    updates,
	}

	// Order matters: unit definitions and commands are tried first, the
	// help fallback claims whatever is left.
	h.pipeline = []turnHandler{
		h.handleUnitMessage,
		h.handleStartCommand,
		h.handleUnitsCommand,
		h.handleStopCommand,
		h.handleUnitCommand,
		h.handleHelp,
	}

	return h
}

func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update := <-updates:
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	h.logUpdate(ctx, update)

	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	message := update.Message
	edited := false
	if message == nil {
		message = update.EditedMessage
		edited = true
	}
	if message == nil || message.From == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", message.Chat.ID),
		zap.String("text", message.Text),
		zap.Bool("edited", edited),
	)

	from := message.From
	user, err := h.users.EnsureUser(
		ctx,
		from.ID,
		message.Chat.ID,
		from.FirstName,
		from.LastName,
		from.UserName,
	)
	if err != nil {
		h.logger.Error("failed to ensure user",
			zap.Int64("user_id", from.ID),
			zap.Error(err),
		)
		h.sendError(message.Chat.ID, msgInternalError)
		return
	}

	h.runPipeline(ctx, &turn{
		update:  update,
		message: message,
		edited:  edited,
		user:    user,
		chatID:  message.Chat.ID,
	})
}

// logUpdate stores the raw update for auditing. Failures are logged and
// otherwise ignored; the turn goes on.
func (h *Handler) logUpdate(ctx context.Context, update tgbotapi.Update) {
	payload, err := json.Marshal(update)
	if err != nil {
		h.logger.Warn("failed to marshal update", zap.Error(err))
		return
	}

	if err := h.updates.Insert(ctx, payload); err != nil {
		h.logger.Warn("failed to store update", zap.Error(err))
	}
}

func (h *Handler) sendError(chatID int64, text string) {
	h.send(newPlainMessage(chatID, text))
}

func (h *Handler) send(c tgbotapi.Chattable) {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
	}
}
