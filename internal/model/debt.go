package model

import "time"

// DebtDirection distinguishes money the user owes from money owed to them.
type DebtDirection string

const (
	// DebtBorrowed means the user took the money.
	DebtBorrowed DebtDirection = "borrowed"
	// DebtLent means the user gave the money.
	DebtLent DebtDirection = "lent"
)

// Debt is an open borrowed/lent record. Debts live outside the balance:
// settling one is what produces the ledger movement.
type Debt struct {
	CreatedAt time.Time
	Person    string
	Direction DebtDirection
	ID        int64
	UserID    int64
	Amount    int64
	Settled   bool
}
