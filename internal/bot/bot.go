// Package bot is the Telegram presenter: it routes updates into the draft
// engine and renders the engine's views as messages and inline keyboards.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/hamyonapp/hamyon/internal/common"
	"github.com/hamyonapp/hamyon/internal/draft"
	"github.com/hamyonapp/hamyon/internal/model"
	"github.com/hamyonapp/hamyon/internal/nlp"
	"github.com/hamyonapp/hamyon/internal/receipt"
	"github.com/hamyonapp/hamyon/internal/service"
	"github.com/hamyonapp/hamyon/internal/speech"
)

// Config holds the Telegram transport settings.
type Config struct {
	Token string
	Debug bool
	// WebAppURL, when set, adds the companion web-app button to the main
	// menu.
	WebAppURL string
}

// Bot wires the Telegram API to the draft engine and its collaborators.
type Bot struct {
	api         *tgbot.Bot
	engine      *draft.Engine
	parser      *nlp.Parser
	storage     service.Storage
	transcriber speech.Transcriber
	extractor   receipt.Extractor
	logger      *slog.Logger
	token       string
	webAppURL   string
}

// New creates the bot and registers its handlers.
func New(cfg Config, engine *draft.Engine, parser *nlp.Parser, storage service.Storage, transcriber speech.Transcriber, extractor receipt.Extractor) (*Bot, error) {
	if cfg.Token == "" {
		return nil, errors.New("telegram token is required")
	}

	b := &Bot{
		engine:      engine,
		parser:      parser,
		storage:     storage,
		transcriber: transcriber,
		extractor:   extractor,
		logger:      common.ComponentLogger("bot"),
		token:       cfg.Token,
		webAppURL:   cfg.WebAppURL,
	}

	opts := []tgbot.Option{
		tgbot.WithDefaultHandler(b.handleUpdate),
	}
	if cfg.Debug {
		opts = append(opts, tgbot.WithDebug())
	}

	api, err := tgbot.New(cfg.Token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	b.api = api

	b.registerHandlers()
	return b, nil
}

// Start runs long polling until the context is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	me, err := b.api.GetMe(ctx)
	if err != nil {
		return fmt.Errorf("failed to get bot info: %w", err)
	}

	b.logger.Info("telegram bot started", "username", me.Username, "id", me.ID)
	b.api.Start(ctx)
	return nil
}

func (b *Bot) registerHandlers() {
	b.api.RegisterHandler(tgbot.HandlerTypeMessageText, "/start", tgbot.MatchTypeExact, b.handleStart)
	b.api.RegisterHandler(tgbot.HandlerTypeMessageText, "/help", tgbot.MatchTypeExact, b.handleHelp)
	b.api.RegisterHandler(tgbot.HandlerTypeMessageText, "/balance", tgbot.MatchTypeExact, b.handleBalance)
}

// handleUpdate is the default route: everything that is not a registered
// command lands here and is dispatched by update shape.
func (b *Bot) handleUpdate(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update)
	case update.Message == nil || update.Message.From == nil:
		// Nothing actionable (channel post, edit, etc.).
	case update.Message.Voice != nil:
		b.handleVoice(ctx, update)
	case len(update.Message.Photo) > 0:
		b.handlePhoto(ctx, update)
	case update.Message.Text != "":
		b.handleText(ctx, update)
	}
}

// lang returns the user's reply language, defaulting to Uzbek for users the
// storage does not know yet.
func (b *Bot) lang(ctx context.Context, telegramID int64) model.Language {
	user, err := b.storage.GetUser(ctx, telegramID)
	if err != nil {
		return model.LangUz
	}
	if !user.Language.Valid() {
		return model.LangUz
	}
	return user.Language
}

// send is the single exit point for replies, so send failures are logged
// in one place and never crash a handler.
func (b *Bot) send(ctx context.Context, chatID int64, text string, markup models.ReplyMarkup) {
	_, err := b.api.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: markup,
	})
	if err != nil {
		errorsTotal.WithLabelValues("send").Inc()
		b.logger.Error("failed to send message", "chat_id", chatID, "error", err)
	}
}

// sendView renders and sends an engine view, updating the open-drafts gauge.
func (b *Bot) sendView(ctx context.Context, chatID int64, v *draft.View, lang model.Language) {
	text, markup := renderView(v, b.parser.Vocabulary(), lang)
	b.send(ctx, chatID, text, markup)
	openDrafts.Set(float64(b.engine.Store().Len()))
}
