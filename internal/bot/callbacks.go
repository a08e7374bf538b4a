package bot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/hamyonapp/hamyon/internal/draft"
	"github.com/hamyonapp/hamyon/internal/model"
	"github.com/hamyonapp/hamyon/internal/service"
	"github.com/hamyonapp/hamyon/internal/stats"
)

// handleCallback dispatches inline keyboard presses. Callback data is
// "<prefix>:<rest>"; the prefix picks the handler and the rest is parsed
// there. Unknown or stale data answers the query and does nothing else, so
// old keyboards never wedge a chat.
func (b *Bot) handleCallback(ctx context.Context, update *models.Update) {
	q := update.CallbackQuery

	var chatID int64
	if msg := q.Message.Message; msg != nil {
		chatID = msg.Chat.ID
	} else {
		b.answer(ctx, q.ID, "")
		return
	}

	userID := q.From.ID
	lang := b.lang(ctx, userID)

	parts := strings.SplitN(q.Data, ":", 2)
	action := parts[0]
	value := ""
	if len(parts) == 2 {
		value = parts[1]
	}
	callbacksProcessed.WithLabelValues(action).Inc()

	switch action {
	case "m":
		b.answer(ctx, q.ID, "")
		b.handleMenu(ctx, chatID, userID, value, lang)
	case "c":
		b.answer(ctx, q.ID, "")
		b.handleManualCategory(ctx, chatID, userID, value, lang)
	case "d":
		b.handleDraftAction(ctx, q.ID, chatID, userID, value, lang)
	case "dc":
		b.handleDraftCategory(ctx, q.ID, chatID, userID, value, lang)
	case "dt":
		b.handleDraftType(ctx, q.ID, chatID, userID, value, lang)
	case "l":
		b.handleLanguage(ctx, q.ID, chatID, userID, value)
	case "r":
		b.answer(ctx, q.ID, "")
		b.handleReport(ctx, chatID, userID, value, lang)
	case "export":
		b.answer(ctx, q.ID, "")
		b.handleExport(ctx, chatID, userID, lang)
	default:
		b.answer(ctx, q.ID, "")
	}
}

func (b *Bot) answer(ctx context.Context, callbackID, text string) {
	_, err := b.api.AnswerCallbackQuery(ctx, &tgbot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
	})
	if err != nil {
		b.logger.Warn("failed to answer callback query", "error", err)
	}
}

func (b *Bot) handleMenu(ctx context.Context, chatID, userID int64, menu string, lang model.Language) {
	vocab := b.parser.Vocabulary()
	switch menu {
	case "exp":
		b.send(ctx, chatID, tr(lang, "sel_exp"), categoryKeyboard(vocab, model.TxExpense, lang))
	case "inc":
		b.send(ctx, chatID, tr(lang, "sel_inc"), categoryKeyboard(vocab, model.TxIncome, lang))
	case "goals":
		b.sendGoals(ctx, chatID, userID, lang)
	case "debts":
		b.sendDebts(ctx, chatID, userID, lang)
	case "rep":
		b.send(ctx, chatID, tr(lang, "reports"), reportKeyboard(lang))
	case "set":
		b.send(ctx, chatID, tr(lang, "settings"), settingsKeyboard(lang))
	case "back":
		b.send(ctx, chatID, tr(lang, "choose"), b.mainMenu(lang))
	}
}

// handleManualCategory starts a menu-driven draft: the user picked a
// category before typing anything, so the draft opens waiting for an amount.
func (b *Bot) handleManualCategory(ctx context.Context, chatID, userID int64, value string, lang model.Language) {
	typePart, category, ok := strings.Cut(value, ":")
	if !ok {
		return
	}
	txType := model.TxType(typePart)
	if txType != model.TxExpense && txType != model.TxIncome {
		return
	}

	view, err := b.engine.CreateManual(userID, txType, category)
	if err != nil {
		b.logger.Error("failed to create manual draft", "telegram_id", userID, "error", err)
		b.send(ctx, chatID, tr(lang, "save_fail"), nil)
		return
	}
	draftsCreated.WithLabelValues("manual").Inc()
	b.sendView(ctx, chatID, view, lang)
}

func (b *Bot) handleDraftAction(ctx context.Context, callbackID string, chatID, userID int64, value string, lang model.Language) {
	action, draftID, ok := strings.Cut(value, ":")
	if !ok {
		b.answer(ctx, callbackID, "")
		return
	}

	var (
		view *draft.View
		err  error
	)
	switch action {
	case "confirm":
		view, err = b.engine.Confirm(ctx, userID, draftID)
	case "edit":
		view, err = b.engine.BeginEdit(userID, draftID)
	case "cancel":
		view, err = b.engine.Cancel(userID, draftID)
	case "back":
		view, err = b.engine.Back(userID, draftID)
	case "ecat":
		view, err = b.engine.Show(userID, draftID)
		if err == nil {
			b.answer(ctx, callbackID, "")
			b.send(ctx, chatID, tr(lang, "choose"), draftCategoryKeyboard(b.parser.Vocabulary(), view.Draft, lang))
			return
		}
	case "etype":
		view, err = b.engine.Show(userID, draftID)
		if err == nil {
			b.answer(ctx, callbackID, "")
			b.send(ctx, chatID, tr(lang, "etype"), typeKeyboard(draftID, lang))
			return
		}
	case "eamt":
		view, err = b.engine.PickField(userID, draftID, model.FieldAmount)
	case "edesc":
		view, err = b.engine.PickField(userID, draftID, model.FieldDescription)
	default:
		b.answer(ctx, callbackID, "")
		return
	}

	if err != nil {
		if errors.Is(err, draft.ErrNotFound) {
			b.answer(ctx, callbackID, tr(lang, "not_found"))
			return
		}
		if action == "confirm" {
			commitFailures.Inc()
		}
		errorsTotal.WithLabelValues("draft_action").Inc()
		b.logger.Error("draft action failed", "telegram_id", userID, "action", action, "error", err)
		b.answer(ctx, callbackID, "")
		b.send(ctx, chatID, tr(lang, "save_fail"), nil)
		return
	}

	b.answer(ctx, callbackID, "")
	b.sendView(ctx, chatID, view, lang)

	if view.State == model.StateSaved {
		if view.Receipt != nil && view.Receipt.Duplicate {
			return
		}
		draftsSaved.Inc()
		b.warnOnLimit(ctx, chatID, userID, view.Draft, lang)
	} else if view.State == model.StateCancelled {
		draftsCancelled.Inc()
	}
}

func (b *Bot) handleDraftCategory(ctx context.Context, callbackID string, chatID, userID int64, value string, lang model.Language) {
	draftID, category, ok := strings.Cut(value, ":")
	if !ok {
		b.answer(ctx, callbackID, "")
		return
	}

	view, err := b.engine.PickCategory(userID, draftID, category)
	if err != nil {
		if errors.Is(err, draft.ErrNotFound) {
			b.answer(ctx, callbackID, tr(lang, "not_found"))
			return
		}
		b.logger.Error("category pick failed", "telegram_id", userID, "error", err)
		b.answer(ctx, callbackID, "")
		return
	}
	b.answer(ctx, callbackID, "")
	b.sendView(ctx, chatID, view, lang)
}

func (b *Bot) handleDraftType(ctx context.Context, callbackID string, chatID, userID int64, value string, lang model.Language) {
	draftID, typePart, ok := strings.Cut(value, ":")
	if !ok {
		b.answer(ctx, callbackID, "")
		return
	}
	txType := model.TxType(typePart)
	if txType != model.TxExpense && txType != model.TxIncome && txType != model.TxDebt {
		b.answer(ctx, callbackID, "")
		return
	}

	view, err := b.engine.PickType(userID, draftID, txType)
	if err != nil {
		if errors.Is(err, draft.ErrNotFound) {
			b.answer(ctx, callbackID, tr(lang, "not_found"))
			return
		}
		b.logger.Error("type pick failed", "telegram_id", userID, "error", err)
		b.answer(ctx, callbackID, "")
		return
	}
	b.answer(ctx, callbackID, "")
	b.sendView(ctx, chatID, view, lang)
}

func (b *Bot) handleLanguage(ctx context.Context, callbackID string, chatID, userID int64, value string) {
	lang := model.Language(value)
	if lang != model.LangUz && lang != model.LangRu && lang != model.LangEn {
		b.answer(ctx, callbackID, "")
		return
	}

	if err := b.storage.SetLanguage(ctx, userID, lang); err != nil {
		b.logger.Error("failed to set language", "telegram_id", userID, "error", err)
		b.answer(ctx, callbackID, "")
		return
	}
	b.answer(ctx, callbackID, tr(lang, "lang_set"))
	b.send(ctx, chatID, tr(lang, "welcome"), b.mainMenu(lang))
}

func (b *Bot) handleReport(ctx context.Context, chatID, userID int64, value string, lang model.Language) {
	days := 7
	switch value {
	case "1":
		days = 1
	case "7":
		days = 7
	case "30":
		days = 30
	}

	period, err := b.storage.PeriodStats(ctx, userID, days)
	if err != nil {
		b.logger.Error("failed to build report", "telegram_id", userID, "days", days, "error", err)
		b.send(ctx, chatID, tr(lang, "save_fail"), nil)
		return
	}

	b.send(ctx, chatID, b.reportText(period, lang), reportKeyboard(lang))
}

func (b *Bot) reportText(period *service.PeriodStats, lang model.Language) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%d)\n\n", tr(lang, "reports"), period.Days)
	fmt.Fprintf(&sb, "%s: %s\n", tr(lang, "exp"), stats.FormatMoney(period.Expenses))
	fmt.Fprintf(&sb, "%s: %s\n", tr(lang, "inc"), stats.FormatMoney(period.Income))
	fmt.Fprintf(&sb, "🧾 %d\n", period.Count)

	vocab := b.parser.Vocabulary()
	for _, share := range stats.TopCategories(period, 5) {
		fmt.Fprintf(&sb, "\n📂 %s: %s", vocab.Label(share.Category, lang), stats.FormatMoney(share.Amount))
	}
	return sb.String()
}

func (b *Bot) handleExport(ctx context.Context, chatID, userID int64, lang model.Language) {
	txs, err := b.storage.ListTransactions(ctx, userID, service.TransactionFilter{})
	if err != nil {
		b.logger.Error("failed to list transactions for export", "telegram_id", userID, "error", err)
		b.send(ctx, chatID, tr(lang, "save_fail"), nil)
		return
	}

	var buf bytes.Buffer
	if err := stats.WriteCSV(&buf, stats.ExportRows(txs, b.parser.Vocabulary())); err != nil {
		b.logger.Error("failed to write export csv", "error", err)
		b.send(ctx, chatID, tr(lang, "save_fail"), nil)
		return
	}

	_, err = b.api.SendDocument(ctx, &tgbot.SendDocumentParams{
		ChatID: chatID,
		Document: &models.InputFileUpload{
			Filename: "transactions.csv",
			Data:     &buf,
		},
		Caption: tr(lang, "export"),
	})
	if err != nil {
		b.logger.Error("failed to send export document", "error", err)
	}
}

func (b *Bot) sendGoals(ctx context.Context, chatID, userID int64, lang model.Language) {
	goals, err := b.storage.ListGoals(ctx, userID)
	if err != nil {
		b.logger.Error("failed to list goals", "telegram_id", userID, "error", err)
		return
	}
	if len(goals) == 0 {
		b.send(ctx, chatID, tr(lang, "no_goals"), b.mainMenu(lang))
		return
	}

	var sb strings.Builder
	sb.WriteString(tr(lang, "goals"))
	for _, g := range goals {
		fmt.Fprintf(&sb, "\n🎯 %s: %s / %s (%d%%)",
			g.Name, stats.FormatMoney(g.Saved), stats.FormatMoney(g.Target), g.Progress())
	}
	b.send(ctx, chatID, sb.String(), b.mainMenu(lang))
}

func (b *Bot) sendDebts(ctx context.Context, chatID, userID int64, lang model.Language) {
	debts, err := b.storage.ListDebts(ctx, userID)
	if err != nil {
		b.logger.Error("failed to list debts", "telegram_id", userID, "error", err)
		return
	}
	if len(debts) == 0 {
		b.send(ctx, chatID, tr(lang, "no_debts"), b.mainMenu(lang))
		return
	}

	var sb strings.Builder
	sb.WriteString(tr(lang, "debts"))
	for _, d := range debts {
		arrow := "⬅️"
		if d.Direction == model.DebtLent {
			arrow = "➡️"
		}
		fmt.Fprintf(&sb, "\n%s %s: %s", arrow, d.Person, stats.FormatMoney(d.Amount))
	}
	b.send(ctx, chatID, sb.String(), b.mainMenu(lang))
}

// warnOnLimit notifies the user when a freshly saved expense crosses the
// category's monthly alert threshold.
func (b *Bot) warnOnLimit(ctx context.Context, chatID, userID int64, d model.Draft, lang model.Language) {
	if d.Type != model.TxExpense {
		return
	}

	limit, err := b.storage.GetLimit(ctx, userID, d.Category)
	if err != nil || limit == nil {
		return
	}
	spent, err := b.storage.CategorySpentThisMonth(ctx, userID, d.Category)
	if err != nil {
		return
	}
	if !limit.Alerting(spent) {
		return
	}

	pct := spent * 100 / limit.Monthly
	b.send(ctx, chatID, fmt.Sprintf(tr(lang, "limit_warn"),
		b.parser.Vocabulary().Label(d.Category, lang),
		stats.FormatMoney(spent), stats.FormatMoney(limit.Monthly), pct), nil)
}
