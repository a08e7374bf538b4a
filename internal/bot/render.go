package bot

import (
	"fmt"
	"strings"

	"github.com/go-telegram/bot/models"

	"github.com/hamyonapp/hamyon/internal/draft"
	"github.com/hamyonapp/hamyon/internal/model"
	"github.com/hamyonapp/hamyon/internal/nlp"
	"github.com/hamyonapp/hamyon/internal/stats"
)

// renderView turns the engine's presenter-agnostic View into message text
// and an inline keyboard. Every draft state has exactly one rendering.
func renderView(v *draft.View, vocab *nlp.Vocabulary, lang model.Language) (string, models.ReplyMarkup) {
	switch v.State {
	case model.StateProposed:
		text := draftCard(v.Draft, vocab, lang) + "\n\n" + tr(lang, "confirm_q")
		return text, confirmKeyboard(v.Draft.ID, lang)

	case model.StateEditMenu:
		text := draftCard(v.Draft, vocab, lang) + "\n\n" + tr(lang, "choose")
		return text, editMenuKeyboard(v.Draft.ID, lang)

	case model.StateEditingAmount:
		text := tr(lang, "enter_amt")
		if v.Retry {
			text = tr(lang, "cant") + "\n\n" + text
		}
		if cat, ok := vocab.Category(v.Draft.Category); ok {
			text = cat.Label(lang) + "\n" + text
		}
		return text, cancelKeyboard(v.Draft.ID, lang)

	case model.StateEditingDescription:
		return tr(lang, "enter_desc"), cancelKeyboard(v.Draft.ID, lang)

	case model.StateSaved:
		key := "saved"
		if v.Receipt != nil && v.Receipt.Duplicate {
			key = "dup"
		}
		text := tr(lang, key) + "\n" + draftCard(v.Draft, vocab, lang)
		if v.Receipt != nil && v.Draft.Type != model.TxDebt {
			text += fmt.Sprintf("\n%s: %s", tr(lang, "balance"), stats.FormatMoney(v.Receipt.Balance))
		}
		return text, nil

	case model.StateCancelled:
		return tr(lang, "cancelled"), nil

	default:
		return draftCard(v.Draft, vocab, lang), nil
	}
}

// draftCard is the field block shown wherever the draft is displayed.
func draftCard(d model.Draft, vocab *nlp.Vocabulary, lang model.Language) string {
	var lines []string
	lines = append(lines, tr(lang, "type_"+string(d.Type)))
	lines = append(lines, "📂 "+vocab.Label(d.Category, lang))
	lines = append(lines, "💵 "+stats.FormatMoney(d.Amount))
	if d.Description != "" {
		lines = append(lines, "📝 "+d.Description)
	}
	if d.Merchant != "" {
		lines = append(lines, "🏪 "+d.Merchant)
	}
	return strings.Join(lines, "\n")
}
