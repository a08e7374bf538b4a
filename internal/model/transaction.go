// Package model defines the domain types shared across the application.
package model

import "time"

// TxType classifies a transaction as money out, money in, or a debt event.
type TxType string

const (
	// TxExpense represents money leaving the wallet.
	TxExpense TxType = "expense"
	// TxIncome represents money entering the wallet.
	TxIncome TxType = "income"
	// TxDebt represents borrowing or lending; it never moves the balance.
	TxDebt TxType = "debt"
)

// Valid reports whether t is one of the known transaction types.
func (t TxType) Valid() bool {
	switch t {
	case TxExpense, TxIncome, TxDebt:
		return true
	}
	return false
}

// Source records which entry channel produced a transaction.
type Source string

const (
	// SourceText is a typed quick-add chat message.
	SourceText Source = "text"
	// SourceVoice is a transcribed voice message.
	SourceVoice Source = "voice"
	// SourceReceipt is a scanned receipt photo.
	SourceReceipt Source = "receipt"
	// SourceManual is the button-driven add flow.
	SourceManual Source = "manual"
	// SourceApp is the companion app HTTP API.
	SourceApp Source = "app"
)

// Transaction is a committed ledger row. Amount is stored signed in whole
// soums: negative for expenses, positive for income.
type Transaction struct {
	Date        time.Time
	DraftID     string
	Category    string
	Description string
	Type        TxType
	Source      Source
	ID          int64
	UserID      int64
	Amount      int64
}

// SignedAmount converts a positive draft amount into the stored signed form.
func SignedAmount(t TxType, amount int64) int64 {
	if t == TxExpense {
		return -amount
	}
	return amount
}
