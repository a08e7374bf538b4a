package bot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/hamyonapp/hamyon/internal/draft"
	"github.com/hamyonapp/hamyon/internal/model"
	"github.com/hamyonapp/hamyon/internal/receipt"
	"github.com/hamyonapp/hamyon/internal/speech"
	"github.com/hamyonapp/hamyon/internal/stats"
)

func (b *Bot) handleStart(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	commandsProcessed.WithLabelValues("start").Inc()
	if update.Message == nil || update.Message.From == nil {
		return
	}

	from := update.Message.From
	chatID := update.Message.Chat.ID

	user, err := b.storage.GetOrCreateUser(ctx, from.ID, from.FirstName)
	if err != nil {
		errorsTotal.WithLabelValues("user_registration").Inc()
		b.logger.Error("failed to register user", "telegram_id", from.ID, "error", err)
		b.send(ctx, chatID, tr(model.LangUz, "save_fail"), nil)
		return
	}

	b.logger.Info("user started bot", "telegram_id", from.ID, "language", user.Language)
	b.send(ctx, chatID, tr(user.Language, "welcome"), b.mainMenu(user.Language))
}

func (b *Bot) handleHelp(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	commandsProcessed.WithLabelValues("help").Inc()
	if update.Message == nil || update.Message.From == nil {
		return
	}

	lang := b.lang(ctx, update.Message.From.ID)
	b.send(ctx, update.Message.Chat.ID, tr(lang, "help"), b.mainMenu(lang))
}

func (b *Bot) handleBalance(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	commandsProcessed.WithLabelValues("balance").Inc()
	if update.Message == nil || update.Message.From == nil {
		return
	}

	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	lang := b.lang(ctx, userID)

	b.send(ctx, chatID, b.balanceText(ctx, userID, lang), b.mainMenu(lang))
}

func (b *Bot) balanceText(ctx context.Context, userID int64, lang model.Language) string {
	balance, err := b.storage.GetBalance(ctx, userID)
	if err != nil {
		b.logger.Error("failed to read balance", "telegram_id", userID, "error", err)
		return tr(lang, "balance") + ": —"
	}

	text := fmt.Sprintf("%s: %s", tr(lang, "balance"), stats.FormatMoney(balance))
	if today, err := b.storage.TodayStats(ctx, userID); err == nil {
		text += fmt.Sprintf("\n\n%s:\n%s: %s\n%s: %s\n🧾 %d",
			tr(lang, "today"),
			tr(lang, "exp"), stats.FormatMoney(today.Expenses),
			tr(lang, "inc"), stats.FormatMoney(today.Income),
			today.Count)
	}
	return text
}

// handleText routes a free-text message. Order matters: an armed edit
// pointer consumes the message before quick-add parsing sees it.
func (b *Bot) handleText(ctx context.Context, update *models.Update) {
	messagesProcessed.WithLabelValues("text").Inc()

	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	text := strings.TrimSpace(update.Message.Text)
	if text == "" || strings.HasPrefix(text, "/") {
		return
	}
	lang := b.lang(ctx, userID)

	view, handled, err := b.engine.HandleText(userID, text)
	if handled {
		if err != nil {
			if errors.Is(err, draft.ErrNotFound) {
				b.send(ctx, chatID, tr(lang, "not_found"), b.mainMenu(lang))
				return
			}
			b.logger.Error("field edit failed", "telegram_id", userID, "error", err)
			b.send(ctx, chatID, tr(lang, "save_fail"), nil)
			return
		}
		b.sendView(ctx, chatID, view, lang)
		return
	}

	b.createFromText(ctx, chatID, userID, text, model.SourceText, lang)
}

// createFromText runs the quick-add parser and proposes a draft for every
// entry in the message.
func (b *Bot) createFromText(ctx context.Context, chatID, userID int64, text string, source model.Source, lang model.Language) {
	entries := b.parser.ParseMulti(text)
	if len(entries) == 0 {
		parseFailures.Inc()
		b.send(ctx, chatID, tr(lang, "cant"), b.mainMenu(lang))
		return
	}

	for _, entry := range entries {
		view, err := b.engine.Create(userID, entry, source, "")
		if err != nil {
			b.logger.Error("failed to create draft", "telegram_id", userID, "error", err)
			continue
		}
		draftsCreated.WithLabelValues(string(source)).Inc()
		b.sendView(ctx, chatID, view, lang)
	}
}

func (b *Bot) handleVoice(ctx context.Context, update *models.Update) {
	messagesProcessed.WithLabelValues("voice").Inc()

	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	lang := b.lang(ctx, userID)

	audio, err := b.downloadFile(ctx, update.Message.Voice.FileID)
	if err != nil {
		errorsTotal.WithLabelValues("download_file").Inc()
		b.logger.Error("failed to download voice file", "error", err)
		b.send(ctx, chatID, tr(lang, "voice_fail"), nil)
		return
	}

	started := time.Now()
	transcript, err := b.transcriber.Transcribe(ctx, bytes.NewReader(audio), "voice.ogg")
	transcriptionDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		if errors.Is(err, speech.ErrUnavailable) {
			b.send(ctx, chatID, tr(lang, "voice_unavail"), nil)
			return
		}
		errorsTotal.WithLabelValues("transcription").Inc()
		b.logger.Error("transcription failed", "error", err)
		b.send(ctx, chatID, tr(lang, "voice_fail"), nil)
		return
	}

	b.send(ctx, chatID, "🎤 "+transcript, nil)
	b.createFromText(ctx, chatID, userID, transcript, model.SourceVoice, lang)
}

func (b *Bot) handlePhoto(ctx context.Context, update *models.Update) {
	messagesProcessed.WithLabelValues("photo").Inc()

	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	lang := b.lang(ctx, userID)

	// The last photo size is the largest.
	photos := update.Message.Photo
	image, err := b.downloadFile(ctx, photos[len(photos)-1].FileID)
	if err != nil {
		errorsTotal.WithLabelValues("download_file").Inc()
		b.logger.Error("failed to download photo", "error", err)
		b.send(ctx, chatID, tr(lang, "photo_fail"), nil)
		return
	}

	started := time.Now()
	extraction, err := b.extractor.Extract(ctx, bytes.NewReader(image), "receipt.jpg")
	ocrDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		if errors.Is(err, receipt.ErrUnavailable) {
			b.send(ctx, chatID, tr(lang, "photo_unavail"), nil)
			return
		}
		errorsTotal.WithLabelValues("ocr").Inc()
		b.logger.Error("receipt extraction failed", "error", err)
		b.send(ctx, chatID, tr(lang, "photo_fail"), nil)
		return
	}

	view, err := b.engine.Create(userID, b.receiptEntry(extraction), model.SourceReceipt, extraction.Merchant)
	if err != nil {
		b.logger.Error("failed to create receipt draft", "telegram_id", userID, "error", err)
		b.send(ctx, chatID, tr(lang, "photo_fail"), nil)
		return
	}
	draftsCreated.WithLabelValues(string(model.SourceReceipt)).Inc()
	b.sendView(ctx, chatID, view, lang)
}

// receiptEntry builds a parsed entry from an OCR extraction. The merchant
// name goes through the resolver; an unknown merchant lands in "other".
func (b *Bot) receiptEntry(ex receipt.Extraction) model.ParsedEntry {
	category := "other"
	vocab := b.parser.Vocabulary()
	for _, token := range strings.Fields(strings.ToLower(ex.Merchant)) {
		if key := vocab.Resolve(token); vocab.Known(key) {
			category = key
			break
		}
	}
	return model.ParsedEntry{
		Category:    category,
		Description: ex.Merchant,
		RawText:     ex.RawText,
		Amount:      ex.Total,
	}
}

func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := b.api.GetFile(ctx, &tgbot.GetFileParams{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}

	url := fmt.Sprintf("https://api.telegram.org/file/bot%s/%s", b.token, file.FilePath)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create download request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("file download returned %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 20<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}
