package bot

import "github.com/hamyonapp/hamyon/internal/model"

// translations is the reply string table. The parser understands all three
// languages at once regardless of this setting; the table only picks which
// language the bot answers in.
var translations = map[model.Language]map[string]string{
	model.LangUz: {
		"welcome":       "👋 Salom! Hamyon botga xush kelibsiz!\n\n✍️ \"Taksi 20k\" kabi yozing yoki menyudan tanlang.",
		"help":          "✍️ Tez kiritish: \"taksi 20000\", \"ovqat 45k tushlik\"\n🎤 Ovozli xabar ham bo'ladi\n📸 Chek rasmini yuboring\n\n/balance — balans",
		"balance":       "💰 Balans",
		"today":         "📅 Bugun",
		"exp":           "↘️ Xarajat",
		"inc":           "↗️ Daromad",
		"sel_exp":       "🧾 Xarajat kategoriyasi:",
		"sel_inc":       "💰 Daromad kategoriyasi:",
		"enter_amt":     "Summani yuboring:",
		"enter_desc":    "Izoh yuboring (o'chirish uchun \"-\"):",
		"confirm_q":     "Saqlaysizmi?",
		"saved":         "✅ Saqlandi",
		"dup":           "✅ Allaqachon saqlangan",
		"cancelled":     "❌ Bekor qilindi",
		"cant":          "❌ Summa aniqlanmadi",
		"not_found":     "🤷 Bunday yozuv topilmadi",
		"save_fail":     "⚠️ Saqlab bo'lmadi, yana urinib ko'ring",
		"choose":        "Nimani o'zgartiramiz?",
		"confirm":       "✅ Saqlash",
		"edit":          "✏️ O'zgartirish",
		"cancel":        "❌ Bekor",
		"back":          "◀️ Orqaga",
		"ecat":          "📂 Kategoriya",
		"eamt":          "💵 Summa",
		"edesc":         "📝 Izoh",
		"etype":         "🔄 Turi",
		"add_exp":       "➖ Xarajat",
		"add_inc":       "➕ Daromad",
		"goals":         "🎯 Maqsadlar",
		"debts":         "📋 Qarzlar",
		"reports":       "📊 Hisobot",
		"settings":      "⚙️ Sozlamalar",
		"open_app":      "📱 Ilovani ochish",
		"no_goals":      "🎯 Maqsadlar yo'q",
		"no_debts":      "📋 Qarzlar yo'q",
		"export":        "📥 Eksport",
		"limit_warn":    "⚠️ %s: %s/%s (%d%%)",
		"voice_unavail": "⚠️ Ovozli kiritish o'chirilgan",
		"photo_unavail": "⚠️ Chek o'qish o'chirilgan",
		"voice_fail":    "❌ Ovozni o'qib bo'lmadi",
		"photo_fail":    "❌ Chekni o'qib bo'lmadi",
		"lang_set":      "✅ Til o'zgartirildi",
		"type_expense":  "↘️ Xarajat",
		"type_income":   "↗️ Daromad",
		"type_debt":     "🤝 Qarz",
	},
	model.LangRu: {
		"welcome":       "👋 Привет! Добро пожаловать в Hamyon!\n\n✍️ Напишите \"Такси 20k\" или выберите в меню.",
		"help":          "✍️ Быстрый ввод: \"такси 20000\", \"еда 45k обед\"\n🎤 Можно голосовым\n📸 Пришлите фото чека\n\n/balance — баланс",
		"balance":       "💰 Баланс",
		"today":         "📅 Сегодня",
		"exp":           "↘️ Расход",
		"inc":           "↗️ Доход",
		"sel_exp":       "🧾 Категория расхода:",
		"sel_inc":       "💰 Категория дохода:",
		"enter_amt":     "Отправьте сумму:",
		"enter_desc":    "Отправьте описание (\"-\" чтобы убрать):",
		"confirm_q":     "Сохранить?",
		"saved":         "✅ Сохранено",
		"dup":           "✅ Уже сохранено",
		"cancelled":     "❌ Отменено",
		"cant":          "❌ Не понял сумму",
		"not_found":     "🤷 Запись не найдена",
		"save_fail":     "⚠️ Не удалось сохранить, попробуйте ещё раз",
		"choose":        "Что изменить?",
		"confirm":       "✅ Сохранить",
		"edit":          "✏️ Изменить",
		"cancel":        "❌ Отмена",
		"back":          "◀️ Назад",
		"ecat":          "📂 Категория",
		"eamt":          "💵 Сумма",
		"edesc":         "📝 Описание",
		"etype":         "🔄 Тип",
		"add_exp":       "➖ Расход",
		"add_inc":       "➕ Доход",
		"goals":         "🎯 Цели",
		"debts":         "📋 Долги",
		"reports":       "📊 Отчёт",
		"settings":      "⚙️ Настройки",
		"open_app":      "📱 Открыть приложение",
		"no_goals":      "🎯 Целей нет",
		"no_debts":      "📋 Долгов нет",
		"export":        "📥 Экспорт",
		"limit_warn":    "⚠️ %s: %s/%s (%d%%)",
		"voice_unavail": "⚠️ Голосовой ввод отключён",
		"photo_unavail": "⚠️ Чтение чеков отключено",
		"voice_fail":    "❌ Не удалось распознать голос",
		"photo_fail":    "❌ Не удалось прочитать чек",
		"lang_set":      "✅ Язык изменён",
		"type_expense":  "↘️ Расход",
		"type_income":   "↗️ Доход",
		"type_debt":     "🤝 Долг",
	},
	model.LangEn: {
		"welcome":       "👋 Hello! Welcome to Hamyon!\n\n✍️ Type \"Taxi 20k\" or pick from the menu.",
		"help":          "✍️ Quick add: \"taxi 20000\", \"food 45k lunch\"\n🎤 Voice messages work too\n📸 Send a receipt photo\n\n/balance — balance",
		"balance":       "💰 Balance",
		"today":         "📅 Today",
		"exp":           "↘️ Expenses",
		"inc":           "↗️ Income",
		"sel_exp":       "🧾 Expense category:",
		"sel_inc":       "💰 Income category:",
		"enter_amt":     "Send the amount:",
		"enter_desc":    "Send a description (\"-\" to clear):",
		"confirm_q":     "Save it?",
		"saved":         "✅ Saved",
		"dup":           "✅ Already saved",
		"cancelled":     "❌ Cancelled",
		"cant":          "❌ Couldn't read an amount",
		"not_found":     "🤷 Entry not found",
		"save_fail":     "⚠️ Couldn't save, try again",
		"choose":        "What should change?",
		"confirm":       "✅ Save",
		"edit":          "✏️ Edit",
		"cancel":        "❌ Cancel",
		"back":          "◀️ Back",
		"ecat":          "📂 Category",
		"eamt":          "💵 Amount",
		"edesc":         "📝 Description",
		"etype":         "🔄 Type",
		"add_exp":       "➖ Expense",
		"add_inc":       "➕ Income",
		"goals":         "🎯 Goals",
		"debts":         "📋 Debts",
		"reports":       "📊 Reports",
		"settings":      "⚙️ Settings",
		"open_app":      "📱 Open App",
		"no_goals":      "🎯 No goals yet",
		"no_debts":      "📋 No open debts",
		"export":        "📥 Export",
		"limit_warn":    "⚠️ %s: %s/%s (%d%%)",
		"voice_unavail": "⚠️ Voice input is disabled",
		"photo_unavail": "⚠️ Receipt scanning is disabled",
		"voice_fail":    "❌ Couldn't transcribe the voice message",
		"photo_fail":    "❌ Couldn't read the receipt",
		"lang_set":      "✅ Language updated",
		"type_expense":  "↘️ Expense",
		"type_income":   "↗️ Income",
		"type_debt":     "🤝 Debt",
	},
}

// tr looks up a reply string, falling back to Uzbek and then to the key
// itself so a missing entry never breaks a reply.
func tr(lang model.Language, key string) string {
	if table, ok := translations[lang]; ok {
		if s, ok := table[key]; ok {
			return s
		}
	}
	if s, ok := translations[model.LangUz][key]; ok {
		return s
	}
	return key
}
