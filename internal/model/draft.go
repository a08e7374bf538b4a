package model

import "time"

// DraftState is the position of a draft in its confirmation lifecycle.
type DraftState string

const (
	// StateProposed means the draft is rendered and awaiting confirm/edit/cancel.
	StateProposed DraftState = "proposed"
	// StateEditMenu means the field picker is shown.
	StateEditMenu DraftState = "edit_menu"
	// StateEditingAmount means the next free-text message replaces the amount.
	StateEditingAmount DraftState = "editing_amount"
	// StateEditingDescription means the next free-text message replaces the description.
	StateEditingDescription DraftState = "editing_description"
	// StateSaved is terminal: the draft was committed and removed.
	StateSaved DraftState = "saved"
	// StateCancelled is terminal: the draft was discarded and removed.
	StateCancelled DraftState = "cancelled"
)

// Terminal reports whether the state ends the draft's lifecycle.
func (s DraftState) Terminal() bool {
	return s == StateSaved || s == StateCancelled
}

// Editing reports whether the state suspends the conversation on a field.
func (s DraftState) Editing() bool {
	return s == StateEditingAmount || s == StateEditingDescription
}

// EditField names a draft field whose edit suspends the conversation
// until the user's next free-text message.
type EditField string

const (
	// FieldAmount routes the next message into the amount.
	FieldAmount EditField = "amount"
	// FieldDescription routes the next message into the description.
	FieldDescription EditField = "description"
)

// Draft is a proposed transaction awaiting user confirmation. Amount is
// always non-negative; the sign is applied at commit time from Type.
type Draft struct {
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ID          string
	Category    string
	Description string
	Merchant    string
	RawText     string
	Type        TxType
	Source      Source
	State       DraftState
	UserID      int64
	Amount      int64
}

// EditPointer marks which draft field the user's next free-text message
// should fill. At most one exists per user.
type EditPointer struct {
	DraftID string
	Field   EditField
}

// ParsedEntry is the immutable result of parsing one quick-add segment.
// Category is a canonical vocabulary key or a lowercased passthrough token;
// Amount is strictly positive; Description is empty when absent.
type ParsedEntry struct {
	Category    string
	Description string
	RawText     string
	Amount      int64
}
