package model

// Category is one canonical vocabulary entry. Key is the stable identifier
// stored on transactions; display names exist per UI language.
type Category struct {
	Names map[Language]string
	Key   string
	Emoji string
	Type  TxType
}

// DisplayName returns the category's name in the given language, falling
// back to the key itself when the table has no entry.
func (c Category) DisplayName(lang Language) string {
	if name, ok := c.Names[lang]; ok && name != "" {
		return name
	}
	return c.Key
}

// Label is the emoji-prefixed display name used on keyboards.
func (c Category) Label(lang Language) string {
	if c.Emoji == "" {
		return c.DisplayName(lang)
	}
	return c.Emoji + " " + c.DisplayName(lang)
}
