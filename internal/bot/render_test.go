package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamyonapp/hamyon/internal/draft"
	"github.com/hamyonapp/hamyon/internal/model"
	"github.com/hamyonapp/hamyon/internal/nlp"
	"github.com/hamyonapp/hamyon/internal/receipt"
	"github.com/hamyonapp/hamyon/internal/service"
)

func testDraft() model.Draft {
	return model.Draft{
		ID:       "d1",
		UserID:   7,
		Type:     model.TxExpense,
		Category: "food",
		Amount:   25000,
		State:    model.StateProposed,
	}
}

func TestRenderProposed(t *testing.T) {
	vocab, err := nlp.LoadVocabulary()
	require.NoError(t, err)

	v := &draft.View{Draft: testDraft(), State: model.StateProposed}
	text, markup := renderView(v, vocab, model.LangEn)

	assert.Contains(t, text, "25 000 UZS")
	assert.Contains(t, text, tr(model.LangEn, "confirm_q"))
	assert.Contains(t, flattenCallbacks(t, markup), "d:confirm:d1")
}

func TestRenderEditingAmountRetry(t *testing.T) {
	vocab, err := nlp.LoadVocabulary()
	require.NoError(t, err)

	v := &draft.View{Draft: testDraft(), State: model.StateEditingAmount, Retry: true}
	text, markup := renderView(v, vocab, model.LangEn)

	assert.Contains(t, text, tr(model.LangEn, "cant"))
	assert.Contains(t, text, tr(model.LangEn, "enter_amt"))
	assert.Contains(t, flattenCallbacks(t, markup), "d:cancel:d1")
}

func TestRenderSaved(t *testing.T) {
	vocab, err := nlp.LoadVocabulary()
	require.NoError(t, err)

	d := testDraft()
	d.State = model.StateSaved

	v := &draft.View{
		Draft:   d,
		State:   model.StateSaved,
		Receipt: &service.CommitReceipt{TransactionID: 1, Balance: 175000},
	}
	text, markup := renderView(v, vocab, model.LangEn)

	assert.Contains(t, text, tr(model.LangEn, "saved"))
	assert.Contains(t, text, "175 000 UZS")
	assert.Nil(t, markup)
}

func TestRenderSavedDuplicate(t *testing.T) {
	vocab, err := nlp.LoadVocabulary()
	require.NoError(t, err)

	v := &draft.View{
		Draft:   testDraft(),
		State:   model.StateSaved,
		Receipt: &service.CommitReceipt{TransactionID: 1, Balance: 175000, Duplicate: true},
	}
	text, _ := renderView(v, vocab, model.LangEn)

	assert.Contains(t, text, tr(model.LangEn, "dup"))
}

func TestRenderSavedDebtHidesBalance(t *testing.T) {
	vocab, err := nlp.LoadVocabulary()
	require.NoError(t, err)

	d := testDraft()
	d.Type = model.TxDebt
	d.Category = "debt"
	d.Description = "Ali"

	v := &draft.View{
		Draft:   d,
		State:   model.StateSaved,
		Receipt: &service.CommitReceipt{TransactionID: 3, Balance: 175000},
	}
	text, _ := renderView(v, vocab, model.LangEn)

	assert.NotContains(t, text, "175 000")
	assert.Contains(t, text, "Ali")
}

func TestRenderCancelled(t *testing.T) {
	vocab, err := nlp.LoadVocabulary()
	require.NoError(t, err)

	v := &draft.View{Draft: testDraft(), State: model.StateCancelled}
	text, markup := renderView(v, vocab, model.LangRu)

	assert.Equal(t, tr(model.LangRu, "cancelled"), text)
	assert.Nil(t, markup)
}

func TestReceiptEntry(t *testing.T) {
	vocab, err := nlp.LoadVocabulary()
	require.NoError(t, err)
	b := &Bot{parser: nlp.NewParser(vocab)}

	tests := []struct {
		name     string
		merchant string
		want     string
	}{
		{name: "known merchant token", merchant: "Yandex Taksi", want: "transport"},
		{name: "unknown merchant", merchant: "Acme Widgets", want: "other"},
		{name: "empty merchant", merchant: "", want: "other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := b.receiptEntry(receipt.Extraction{Merchant: tt.merchant, Total: 50000})
			assert.Equal(t, tt.want, entry.Category)
			assert.Equal(t, int64(50000), entry.Amount)
			assert.Equal(t, tt.merchant, entry.Description)
		})
	}
}
