package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/controlusuario/userbot/internal/bot"
	"github.com/controlusuario/userbot/internal/config"
	"github.com/controlusuario/userbot/internal/database"
	"github.com/controlusuario/userbot/internal/flow"
	"github.com/controlusuario/userbot/internal/logger"
	"github.com/controlusuario/userbot/internal/session"
	"github.com/controlusuario/userbot/internal/storage"
	"github.com/controlusuario/userbot/internal/validation"
)

const defaultConfigPath = "config.yaml"

func main() {
	if err := run(); err != nil {
		log.Fatalf("userbot: %v", err)
	}
}

func run() error {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = defaultConfigPath
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	logger.Init(logger.Options{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Profile: cfg.Logging.Profile,
	})

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Component("db").Warn("close failed", slog.String("err", err.Error()))
		}
	}()

	if err := database.RunMigrations(cfg.Database); err != nil {
		return err
	}

	users := storage.NewPostgresStore(db)
	registry := validation.NewRegistry(cfg.Domains.Plans, cfg.Domains.Groups, cfg.Domains.Academies)
	sessions := session.NewMemoryStore()

	app, err := bot.New(cfg, bot.Deps{
		Machine:   flow.NewMachine(sessions, users, registry),
		Gate:      flow.NewGate(users),
		Paginator: flow.NewPaginator(users, cfg.Listing.PageSize),
		Users:     users,
		Registry:  registry,
	})
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return app.Run(ctx)
}
