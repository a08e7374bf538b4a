package nlp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamyonapp/hamyon/internal/model"
)

func newTestVocabulary(t *testing.T) *Vocabulary {
	t.Helper()
	vocab, err := LoadVocabulary()
	require.NoError(t, err)
	return vocab
}

func TestVocabularyResolve(t *testing.T) {
	vocab := newTestVocabulary(t)

	tests := []struct {
		name  string
		token string
		want  string
	}{
		{name: "uzbek alias", token: "taksi", want: "transport"},
		{name: "english alias", token: "taxi", want: "transport"},
		{name: "russian alias", token: "такси", want: "transport"},
		{name: "case insensitive", token: "TAKSI", want: "transport"},
		{name: "cyrillic case insensitive", token: "Кафе", want: "food"},
		{name: "surrounding whitespace", token: "  kofe ", want: "food"},
		{name: "canonical key resolves to itself", token: "food", want: "food"},
		{name: "unknown passes through lowercased", token: "Parkovka", want: "parkovka"},
		{name: "shopping from russian store word", token: "магазин", want: "shopping"},
		{name: "loan maps to debt", token: "loan", want: "debt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, vocab.Resolve(tt.token))
		})
	}
}

func TestVocabularyTypeOf(t *testing.T) {
	vocab := newTestVocabulary(t)

	tests := []struct {
		name  string
		token string
		want  model.TxType
	}{
		{name: "salary is income", token: "salary", want: model.TxIncome},
		{name: "salary alias is income", token: "oylik", want: model.TxIncome},
		{name: "gift is income", token: "gift", want: model.TxIncome},
		{name: "business is income", token: "business", want: model.TxIncome},
		{name: "debt is debt", token: "debt", want: model.TxDebt},
		{name: "loan alias is debt", token: "loan", want: model.TxDebt},
		{name: "taxi is expense", token: "taxi", want: model.TxExpense},
		{name: "unknown defaults to expense", token: "whatever", want: model.TxExpense},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, vocab.TypeOf(tt.token))
		})
	}
}

func TestVocabularyCategories(t *testing.T) {
	vocab := newTestVocabulary(t)

	expenses := vocab.Categories(model.TxExpense)
	require.NotEmpty(t, expenses)
	for _, cat := range expenses {
		assert.Equal(t, model.TxExpense, cat.Type)
	}
	// Table order is preserved: food is the first expense category.
	assert.Equal(t, "food", expenses[0].Key)

	incomes := vocab.Categories(model.TxIncome)
	require.NotEmpty(t, incomes)
	assert.Equal(t, "salary", incomes[0].Key)

	debts := vocab.Categories(model.TxDebt)
	require.Len(t, debts, 1)
	assert.Equal(t, "debt", debts[0].Key)

	assert.Len(t, vocab.All(), len(expenses)+len(incomes)+len(debts))
}

func TestVocabularyKnownAndLabel(t *testing.T) {
	vocab := newTestVocabulary(t)

	assert.True(t, vocab.Known("food"))
	assert.False(t, vocab.Known("parkovka"))

	cat, ok := vocab.Category("food")
	require.True(t, ok)
	assert.Equal(t, "🍕", cat.Emoji)
	assert.Equal(t, "Продукты", cat.DisplayName(model.LangRu))
	assert.Equal(t, "🍕 Food", cat.Label(model.LangEn))

	// Passthrough categories display as their bare key.
	assert.Equal(t, "parkovka", vocab.Label("parkovka", model.LangUz))
}

func TestLoadVocabularyFile(t *testing.T) {
	t.Run("custom table", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "vocab.yaml")
		data := `categories:
  - key: coffee
    emoji: "☕"
    type: expense
    names: {uz: "Kofe", ru: "Кофе", en: "Coffee"}
    aliases: [kofe, кофе]
`
		require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

		vocab, err := LoadVocabularyFile(path)
		require.NoError(t, err)
		assert.Equal(t, "coffee", vocab.Resolve("kofe"))
		assert.Equal(t, "coffee", vocab.Resolve("КОФЕ"))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadVocabularyFile(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "vocab.yaml")
		require.NoError(t, os.WriteFile(path, []byte("categories: {broken"), 0o600))

		_, err := LoadVocabularyFile(path)
		assert.Error(t, err)
	})

	t.Run("empty table", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "vocab.yaml")
		require.NoError(t, os.WriteFile(path, []byte("categories: []"), 0o600))

		_, err := LoadVocabularyFile(path)
		assert.Error(t, err)
	})

	t.Run("conflicting alias", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "vocab.yaml")
		data := `categories:
  - key: food
    type: expense
    aliases: [kofe]
  - key: coffee
    type: expense
    aliases: [kofe]
`
		require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

		_, err := LoadVocabularyFile(path)
		assert.ErrorContains(t, err, "alias")
	})

	t.Run("unknown type", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "vocab.yaml")
		data := `categories:
  - key: food
    type: spending
`
		require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

		_, err := LoadVocabularyFile(path)
		assert.ErrorContains(t, err, "type")
	})
}
