package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/lexibot/vocab-units-bot/internal/config"
	"github.com/lexibot/vocab-units-bot/internal/delivery/telegram"
	"github.com/lexibot/vocab-units-bot/internal/infra/postgres"
	"github.com/lexibot/vocab-units-bot/internal/infra/postgres/repository"
	"github.com/lexibot/vocab-units-bot/internal/logger"
	"github.com/lexibot/vocab-units-bot/internal/service"
)

func main() {
	// A local .env is optional; real deployments set the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zl, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zl.Sync() }()

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		zl.Fatal("failed to create bot api", zap.Error(err))
	}
	zl.Info("authorized", zap.String("account", bot.Self.UserName))

	commands := []tgbotapi.BotCommand{
		{
			Command:     "start",
			Description: "Start the bot",
		},
		{
			Command:     "units",
			Description: "Show the list of available units",
		},
		{
			Command:     "stop",
			Description: "Stop the current rehearsal",
		},
		{
			Command:     "help",
			Description: "Help",
		},
	}
	if _, err := bot.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		zl.Warn("failed to set bot commands", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB.URL, postgres.PoolConfig{
		MaxConns:        cfg.DB.MaxConnections,
		MaxConnLifetime: cfg.DB.MaxConnLifetime,
	})
	if err != nil {
		zl.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	userRepo := repository.NewUserRepository(pool)
	unitRepo := repository.NewUnitRepository(pool)
	rehearsalRepo := repository.NewRehearsalRepository(pool)
	updateRepo := repository.NewUpdateRepository(pool)

	userService := service.NewUserService(userRepo)
	unitService := service.NewUnitService(unitRepo)
	rehearsalService := service.NewRehearsalService(unitRepo, rehearsalRepo)

	handler := telegram.NewHandler(
		bot,
		zl,
		userService,
		unitService,
		rehearsalService,
		updateRepo,
	)

	if err := handler.Run(ctx); err != nil && ctx.Err() == nil {
		zl.Fatal("handler stopped", zap.Error(err))
	}

	zl.Info("shutdown signal received")
}
