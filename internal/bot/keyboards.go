package bot

import (
	"fmt"

	"github.com/go-telegram/bot/models"

	"github.com/hamyonapp/hamyon/internal/model"
	"github.com/hamyonapp/hamyon/internal/nlp"
)

// Callback data is "prefix:value" (split once) like the rest of the
// handlers expect: m:<menu item>, c:<type>:<category>, d:<action>:<draft>,
// dc:<draft>:<category>, dt:<draft>:<type>, l:<lang>, r:<days>, export.

func (b *Bot) mainMenu(lang model.Language) models.ReplyMarkup {
	return mainMenuKeyboard(lang, b.webAppURL)
}

func mainMenuKeyboard(lang model.Language, webAppURL string) models.ReplyMarkup {
	rows := [][]models.InlineKeyboardButton{
		{
			{Text: tr(lang, "add_exp"), CallbackData: "m:exp"},
			{Text: tr(lang, "add_inc"), CallbackData: "m:inc"},
		},
		{
			{Text: tr(lang, "goals"), CallbackData: "m:goals"},
			{Text: tr(lang, "debts"), CallbackData: "m:debts"},
		},
		{
			{Text: tr(lang, "reports"), CallbackData: "m:rep"},
			{Text: tr(lang, "settings"), CallbackData: "m:set"},
		},
	}
	if webAppURL != "" {
		rows = append(rows, []models.InlineKeyboardButton{
			{Text: tr(lang, "open_app"), WebApp: &models.WebAppInfo{URL: webAppURL}},
		})
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// categoryKeyboard lists the vocabulary's categories of one type for the
// manual add flow, two per row.
func categoryKeyboard(vocab *nlp.Vocabulary, txType model.TxType, lang model.Language) models.ReplyMarkup {
	var rows [][]models.InlineKeyboardButton
	var row []models.InlineKeyboardButton
	for _, cat := range vocab.Categories(txType) {
		row = append(row, models.InlineKeyboardButton{
			Text:         cat.Label(lang),
			CallbackData: fmt.Sprintf("c:%s:%s", txType, cat.Key),
		})
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, []models.InlineKeyboardButton{
		{Text: tr(lang, "back"), CallbackData: "m:back"},
	})
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func confirmKeyboard(draftID string, lang model.Language) models.ReplyMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: tr(lang, "confirm"), CallbackData: "d:confirm:" + draftID},
				{Text: tr(lang, "edit"), CallbackData: "d:edit:" + draftID},
			},
			{
				{Text: tr(lang, "cancel"), CallbackData: "d:cancel:" + draftID},
			},
		},
	}
}

func editMenuKeyboard(draftID string, lang model.Language) models.ReplyMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: tr(lang, "ecat"), CallbackData: "d:ecat:" + draftID},
				{Text: tr(lang, "etype"), CallbackData: "d:etype:" + draftID},
			},
			{
				{Text: tr(lang, "eamt"), CallbackData: "d:eamt:" + draftID},
				{Text: tr(lang, "edesc"), CallbackData: "d:edesc:" + draftID},
			},
			{
				{Text: tr(lang, "back"), CallbackData: "d:back:" + draftID},
			},
		},
	}
}

// draftCategoryKeyboard re-picks a draft's category from the fixed
// vocabulary, an enumerated choice with no free-text suspension.
func draftCategoryKeyboard(vocab *nlp.Vocabulary, d model.Draft, lang model.Language) models.ReplyMarkup {
	var rows [][]models.InlineKeyboardButton
	var row []models.InlineKeyboardButton
	for _, cat := range vocab.Categories(d.Type) {
		row = append(row, models.InlineKeyboardButton{
			Text:         cat.Label(lang),
			CallbackData: fmt.Sprintf("dc:%s:%s", d.ID, cat.Key),
		})
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, []models.InlineKeyboardButton{
		{Text: tr(lang, "back"), CallbackData: "d:back:" + d.ID},
	})
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func typeKeyboard(draftID string, lang model.Language) models.ReplyMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: tr(lang, "type_expense"), CallbackData: fmt.Sprintf("dt:%s:%s", draftID, model.TxExpense)},
				{Text: tr(lang, "type_income"), CallbackData: fmt.Sprintf("dt:%s:%s", draftID, model.TxIncome)},
			},
			{
				{Text: tr(lang, "type_debt"), CallbackData: fmt.Sprintf("dt:%s:%s", draftID, model.TxDebt)},
				{Text: tr(lang, "back"), CallbackData: "d:back:" + draftID},
			},
		},
	}
}

func cancelKeyboard(draftID string, lang model.Language) models.ReplyMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: tr(lang, "cancel"), CallbackData: "d:cancel:" + draftID},
			},
		},
	}
}

func reportKeyboard(lang model.Language) models.ReplyMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: "📅 1", CallbackData: "r:1"},
				{Text: "📆 7", CallbackData: "r:7"},
				{Text: "🗓 30", CallbackData: "r:30"},
			},
			{
				{Text: tr(lang, "export"), CallbackData: "export"},
				{Text: tr(lang, "back"), CallbackData: "m:back"},
			},
		},
	}
}

func settingsKeyboard(lang model.Language) models.ReplyMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: "🇺🇿 O'zbek", CallbackData: "l:uz"},
				{Text: "🇷🇺 Русский", CallbackData: "l:ru"},
				{Text: "🇬🇧 English", CallbackData: "l:en"},
			},
			{
				{Text: tr(lang, "back"), CallbackData: "m:back"},
			},
		},
	}
}
