// Package bot wires the user-administration flows onto the Telegram
// transport: commands, text routing into the state machine, inline keyboard
// callbacks, and paginated listings.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/controlusuario/userbot/internal/config"
	"github.com/controlusuario/userbot/internal/flow"
	"github.com/controlusuario/userbot/internal/logger"
	"github.com/controlusuario/userbot/internal/storage"
	"github.com/controlusuario/userbot/internal/validation"
)

// Deps carries the domain collaborators the transport layer depends on.
type Deps struct {
	Machine   *flow.Machine
	Gate      *flow.Gate
	Paginator *flow.Paginator
	Users     storage.UserStore
	Registry  *validation.Registry
}

// Bot is the composed Telegram application.
type Bot struct {
	cfg       *config.Config
	tb        *tele.Bot
	machine   *flow.Machine
	gate      *flow.Gate
	paginator *flow.Paginator
	users     storage.UserStore
	registry  *validation.Registry
	sender    *sender
	log       *slog.Logger
}

// New builds the bot, registers middleware and routes, and publishes the
// public command menu.
func New(cfg *config.Config, deps Deps) (*Bot, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bot: nil config provided")
	}

	tb, err := tele.NewBot(tele.Settings{
		Token:  cfg.Telegram.Token,
		Poller: buildPoller(cfg),
		Client: buildHTTPClient(),
	})
	if err != nil {
		return nil, fmt.Errorf("bot: initialization failed: %w", err)
	}

	b := &Bot{
		cfg:       cfg,
		tb:        tb,
		machine:   deps.Machine,
		gate:      deps.Gate,
		paginator: deps.Paginator,
		users:     deps.Users,
		registry:  deps.Registry,
		sender:    newSender(256, 4),
		log:       logger.Component("tg"),
	}
	b.wire()
	return b, nil
}

func (b *Bot) wire() {
	b.tb.Use(recoverMiddleware)
	if interval := time.Duration(b.cfg.RateLimit.IntervalMS) * time.Millisecond; interval > 0 {
		b.tb.Use(rateLimitMiddleware(interval))
	}
	b.tb.Use(loggerMiddleware)

	b.tb.Handle("/start", b.onStart)
	b.tb.Handle("/help", b.onHelp)
	b.tb.Handle("/verificar", b.adminOnly(b.cmdVerify))
	b.tb.Handle("/registrar", b.adminOnly(b.cmdRegister))
	b.tb.Handle("/modificar", b.adminOnly(b.cmdModify))
	b.tb.Handle("/listar", b.adminOnly(b.cmdList))
	b.tb.Handle("/cancelar", b.adminOnly(b.cmdCancel))
	b.tb.Handle(tele.OnText, b.onText)
	b.tb.Handle(tele.OnContact, b.onContact)
	b.tb.Handle(tele.OnCallback, b.onCallback)

	// Only user-facing commands go into the public menu; admin commands stay
	// unlisted.
	if err := b.tb.SetCommands([]tele.Command{
		{Text: "start", Description: "Comenzar el registro"},
		{Text: "help", Description: "Ayuda"},
	}); err != nil {
		b.log.Warn("set commands failed",
			slog.String("event", "tg.wire"),
			slog.String("err", err.Error()),
		)
	}
}

// Run starts the update loop and blocks until the context is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	b.log.Info("bot started",
		slog.String("event", "tg.start"),
		slog.String("mode", b.cfg.Telegram.RunMode),
		slog.Int("admins", len(b.cfg.Telegram.AdminIDs)),
	)

	done := make(chan struct{})
	go func() {
		b.tb.Start()
		close(done)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		b.tb.Stop()
		<-done
		runErr = ctx.Err()
	case <-done:
	}

	b.sender.close()
	b.log.Info("bot stopped", slog.String("event", "tg.stop"))

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	return nil
}

func buildPoller(cfg *config.Config) tele.Poller {
	if cfg.Telegram.RunMode == config.RunModeWebhook {
		return &tele.Webhook{
			Listen:   fmt.Sprintf("%s:%d", cfg.Webhook.Listen, cfg.Webhook.Port),
			Endpoint: &tele.WebhookEndpoint{PublicURL: cfg.Webhook.URL},
		}
	}
	timeoutSec := cfg.Telegram.LongPollTimeoutSeconds
	if timeoutSec <= 0 {
		timeoutSec = 10
	}
	return &tele.LongPoller{Timeout: time.Duration(timeoutSec) * time.Second}
}
