package model

import "time"

// Language is a UI language code. The vocabulary understands all three
// languages at once; Language only selects reply strings.
type Language string

const (
	// LangUz is Uzbek (default).
	LangUz Language = "uz"
	// LangRu is Russian.
	LangRu Language = "ru"
	// LangEn is English.
	LangEn Language = "en"
)

// Valid reports whether l is a supported UI language.
func (l Language) Valid() bool {
	switch l {
	case LangUz, LangRu, LangEn:
		return true
	}
	return false
}

// User is a chat user identified by their Telegram id. Balance is the
// running sum of committed signed transaction amounts.
type User struct {
	CreatedAt  time.Time
	Name       string
	Language   Language
	TelegramID int64
	Balance    int64
}
