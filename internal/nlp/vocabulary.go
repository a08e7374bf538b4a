package nlp

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hamyonapp/hamyon/internal/model"
)

//go:embed vocabulary.yaml
var defaultVocabulary []byte

type vocabularyFile struct {
	Categories []vocabularyEntry `yaml:"categories"`
}

type vocabularyEntry struct {
	Names   map[model.Language]string `yaml:"names"`
	Key     string                    `yaml:"key"`
	Emoji   string                    `yaml:"emoji"`
	Type    model.TxType              `yaml:"type"`
	Aliases []string                  `yaml:"aliases"`
}

// Vocabulary maps surface tokens to canonical category keys and carries the
// display metadata for each canonical category. It is immutable after load.
type Vocabulary struct {
	aliases map[string]string
	byKey   map[string]model.Category
	ordered []model.Category
}

// LoadVocabulary builds the vocabulary from the embedded default table.
func LoadVocabulary() (*Vocabulary, error) {
	return parseVocabulary(defaultVocabulary)
}

// LoadVocabularyFile builds the vocabulary from a replacement table on disk,
// for deployments that ship their own alias set.
func LoadVocabularyFile(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading vocabulary file: %w", err)
	}
	return parseVocabulary(data)
}

func parseVocabulary(data []byte) (*Vocabulary, error) {
	var file vocabularyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing vocabulary: %w", err)
	}
	if len(file.Categories) == 0 {
		return nil, fmt.Errorf("parsing vocabulary: no categories defined")
	}

	v := &Vocabulary{
		aliases: make(map[string]string),
		byKey:   make(map[string]model.Category),
		ordered: make([]model.Category, 0, len(file.Categories)),
	}
	for _, entry := range file.Categories {
		key := strings.ToLower(strings.TrimSpace(entry.Key))
		if key == "" {
			return nil, fmt.Errorf("parsing vocabulary: category with empty key")
		}
		if !entry.Type.Valid() {
			return nil, fmt.Errorf("parsing vocabulary: category %q has unknown type %q", key, entry.Type)
		}
		if _, exists := v.byKey[key]; exists {
			return nil, fmt.Errorf("parsing vocabulary: duplicate category %q", key)
		}

		names := make(map[model.Language]string, len(entry.Names))
		for lang, name := range entry.Names {
			names[lang] = name
		}
		cat := model.Category{
			Key:   key,
			Emoji: entry.Emoji,
			Type:  entry.Type,
			Names: names,
		}
		v.byKey[key] = cat
		v.ordered = append(v.ordered, cat)

		// The key itself always resolves.
		v.aliases[key] = key
		for _, alias := range entry.Aliases {
			a := strings.ToLower(strings.TrimSpace(alias))
			if a == "" {
				continue
			}
			if existing, ok := v.aliases[a]; ok && existing != key {
				return nil, fmt.Errorf("parsing vocabulary: alias %q maps to both %q and %q", a, existing, key)
			}
			v.aliases[a] = key
		}
	}
	return v, nil
}

// Resolve maps a surface token to its canonical category key. Unknown tokens
// pass through lowercased and trimmed, so resolution is total and never
// fails an otherwise valid entry.
func (v *Vocabulary) Resolve(token string) string {
	w := strings.ToLower(strings.TrimSpace(token))
	if key, ok := v.aliases[w]; ok {
		return key
	}
	return w
}

// Known reports whether key names a canonical vocabulary category.
func (v *Vocabulary) Known(key string) bool {
	_, ok := v.byKey[key]
	return ok
}

// TypeOf suggests the transaction type for a token or canonical key.
// Passthrough tokens default to expense, the overwhelmingly common case.
func (v *Vocabulary) TypeOf(token string) model.TxType {
	if cat, ok := v.byKey[v.Resolve(token)]; ok {
		return cat.Type
	}
	return model.TxExpense
}

// Category returns the vocabulary entry for a canonical key.
func (v *Vocabulary) Category(key string) (model.Category, bool) {
	cat, ok := v.byKey[key]
	return cat, ok
}

// Categories lists the canonical entries of one transaction type in table
// order, for keyboards and pickers.
func (v *Vocabulary) Categories(t model.TxType) []model.Category {
	var out []model.Category
	for _, cat := range v.ordered {
		if cat.Type == t {
			out = append(out, cat)
		}
	}
	return out
}

// All lists every canonical entry in table order.
func (v *Vocabulary) All() []model.Category {
	out := make([]model.Category, len(v.ordered))
	copy(out, v.ordered)
	return out
}

// Label formats a category key for display in the given language, falling
// back to the bare key for passthrough categories outside the table.
func (v *Vocabulary) Label(key string, lang model.Language) string {
	if cat, ok := v.byKey[key]; ok {
		return cat.Label(lang)
	}
	return key
}
