package draft

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hamyonapp/hamyon/internal/model"
	"github.com/hamyonapp/hamyon/internal/nlp"
	"github.com/hamyonapp/hamyon/internal/service"
)

// Engine drives the draft confirmation state machine. Every operation is
// serialized per user through the store's bucket locks, returns a View for
// the presenter, and reports stale draft ids as ErrNotFound.
type Engine struct {
	store     *Store
	committer service.Committer
	vocab     *nlp.Vocabulary
}

// NewEngine creates an engine over the given store, persistence seam, and
// category vocabulary.
func NewEngine(store *Store, committer service.Committer, vocab *nlp.Vocabulary) *Engine {
	return &Engine{
		store:     store,
		committer: committer,
		vocab:     vocab,
	}
}

// Store exposes the underlying draft store, mainly for metrics.
func (e *Engine) Store() *Store {
	return e.store
}

// Create turns a parsed entry into a proposed draft awaiting confirmation.
// The transaction type is suggested by the entry's category; merchant is
// set for receipt-sourced entries and empty otherwise.
func (e *Engine) Create(userID int64, entry model.ParsedEntry, source model.Source, merchant string) (*View, error) {
	if entry.Amount <= 0 {
		return nil, fmt.Errorf("draft amount must be positive, got %d", entry.Amount)
	}

	now := time.Now()
	d := model.Draft{
		ID:          uuid.NewString(),
		UserID:      userID,
		Type:        e.vocab.TypeOf(entry.Category),
		Category:    entry.Category,
		Amount:      entry.Amount,
		Description: entry.Description,
		Merchant:    merchant,
		Source:      source,
		RawText:     entry.RawText,
		State:       model.StateProposed,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	e.store.Put(d)

	slog.Debug("draft created",
		"user_id", userID,
		"draft_id", d.ID,
		"category", d.Category,
		"amount", d.Amount,
		"source", source)
	return proposedView(d), nil
}

// CreateManual starts the button-driven add flow: a provisional draft with
// the chosen type and category that goes straight to the amount prompt. It
// only reaches Proposed once a positive amount arrives, so Confirm is never
// offered on an empty draft.
func (e *Engine) CreateManual(userID int64, txType model.TxType, category string) (*View, error) {
	if !txType.Valid() {
		return nil, fmt.Errorf("invalid transaction type %q", txType)
	}

	now := time.Now()
	d := model.Draft{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      txType,
		Category:  e.vocab.Resolve(category),
		Source:    model.SourceManual,
		State:     model.StateEditingAmount,
		CreatedAt: now,
		UpdatedAt: now,
	}

	var view *View
	err := e.store.withUser(userID, func(b *userBucket) error {
		stored := d
		b.drafts[d.ID] = &stored
		b.pointer = &model.EditPointer{DraftID: d.ID, Field: model.FieldAmount}
		view = editingView(stored, model.FieldAmount, false)
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Debug("manual draft started", "user_id", userID, "draft_id", d.ID, "category", d.Category)
	return view, nil
}

// Show re-renders a draft in its current state.
func (e *Engine) Show(userID int64, draftID string) (*View, error) {
	var view *View
	err := e.store.withUser(userID, func(b *userBucket) error {
		d, ok := b.drafts[draftID]
		if !ok {
			return ErrNotFound
		}
		view = e.viewFor(*d)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (e *Engine) viewFor(d model.Draft) *View {
	switch d.State {
	case model.StateEditMenu:
		return editMenuView(d)
	case model.StateEditingAmount:
		return editingView(d, model.FieldAmount, false)
	case model.StateEditingDescription:
		return editingView(d, model.FieldDescription, false)
	default:
		return proposedView(d)
	}
}

// BeginEdit moves a proposed draft to the field picker.
func (e *Engine) BeginEdit(userID int64, draftID string) (*View, error) {
	return e.mutate(userID, draftID, func(b *userBucket, d *model.Draft) *View {
		d.State = model.StateEditMenu
		return editMenuView(*d)
	})
}

// Back returns from the field picker to the proposal.
func (e *Engine) Back(userID int64, draftID string) (*View, error) {
	return e.mutate(userID, draftID, func(b *userBucket, d *model.Draft) *View {
		d.State = model.StateProposed
		return proposedView(*d)
	})
}

// PickField suspends the conversation on one free-text field: the user's
// next message fills it.
func (e *Engine) PickField(userID int64, draftID string, field model.EditField) (*View, error) {
	if field != model.FieldAmount && field != model.FieldDescription {
		return nil, fmt.Errorf("invalid edit field %q", field)
	}
	return e.mutate(userID, draftID, func(b *userBucket, d *model.Draft) *View {
		if field == model.FieldAmount {
			d.State = model.StateEditingAmount
		} else {
			d.State = model.StateEditingDescription
		}
		b.pointer = &model.EditPointer{DraftID: draftID, Field: field}
		return editingView(*d, field, false)
	})
}

// PickCategory applies an enumerated category choice immediately and
// returns the draft to Proposed. No conversation suspension is involved.
func (e *Engine) PickCategory(userID int64, draftID, category string) (*View, error) {
	key := e.vocab.Resolve(category)
	return e.mutate(userID, draftID, func(b *userBucket, d *model.Draft) *View {
		d.Category = key
		d.State = model.StateProposed
		return proposedView(*d)
	})
}

// PickType applies an enumerated type choice immediately and returns the
// draft to Proposed.
func (e *Engine) PickType(userID int64, draftID string, txType model.TxType) (*View, error) {
	if !txType.Valid() {
		return nil, fmt.Errorf("invalid transaction type %q", txType)
	}
	return e.mutate(userID, draftID, func(b *userBucket, d *model.Draft) *View {
		d.Type = txType
		d.State = model.StateProposed
		return proposedView(*d)
	})
}

// HandleText consumes the user's free-text message when an edit pointer is
// set. The boolean reports whether the message was consumed; when it is
// false the caller should continue with quick-add parsing. A consumed
// message against a vanished draft clears the pointer and returns
// ErrNotFound.
func (e *Engine) HandleText(userID int64, text string) (*View, bool, error) {
	var (
		view    *View
		handled bool
	)
	err := e.store.withUser(userID, func(b *userBucket) error {
		if b.pointer == nil {
			return nil
		}
		handled = true
		ptr := *b.pointer

		d, ok := b.drafts[ptr.DraftID]
		if !ok {
			b.pointer = nil
			return ErrNotFound
		}

		switch ptr.Field {
		case model.FieldAmount:
			// Explicit amount input: digits win, no prose floor.
			amount, ok := nlp.Digits(text)
			if !ok {
				// Stay suspended and ask again.
				view = editingView(*d, model.FieldAmount, true)
				return nil
			}
			d.Amount = amount
		case model.FieldDescription:
			trimmed := strings.TrimSpace(text)
			if trimmed == "-" {
				d.Description = ""
			} else {
				d.Description = trimmed
			}
		}

		d.State = model.StateProposed
		d.UpdatedAt = time.Now()
		b.pointer = nil
		view = proposedView(*d)
		return nil
	})
	if err != nil {
		return nil, handled, err
	}
	return view, handled, nil
}

// Confirm commits the draft through the persistence seam. Success removes
// the draft (a later Confirm on the same id is a stale reference, not a
// double commit). Failure returns the error with the draft left as it was,
// ready for another attempt.
func (e *Engine) Confirm(ctx context.Context, userID int64, draftID string) (*View, error) {
	var view *View
	err := e.store.withUser(userID, func(b *userBucket) error {
		d, ok := b.drafts[draftID]
		if !ok {
			return ErrNotFound
		}
		if d.Amount <= 0 {
			// A stale keyboard confirmed a draft still waiting for its
			// amount; re-prompt instead of committing nothing.
			view = editingView(*d, model.FieldAmount, true)
			return nil
		}

		receipt, err := e.committer.CommitTransaction(ctx, model.Transaction{
			DraftID:     d.ID,
			UserID:      d.UserID,
			Type:        d.Type,
			Category:    d.Category,
			Description: d.Description,
			Source:      d.Source,
			Amount:      model.SignedAmount(d.Type, d.Amount),
		})
		if err != nil {
			return fmt.Errorf("committing draft %s: %w", d.ID, err)
		}

		snapshot := *d
		delete(b.drafts, draftID)
		if b.pointer != nil && b.pointer.DraftID == draftID {
			b.pointer = nil
		}
		view = savedView(snapshot, receipt)

		slog.Info("draft committed",
			"user_id", userID,
			"draft_id", draftID,
			"category", snapshot.Category,
			"amount", snapshot.Amount,
			"duplicate", receipt.Duplicate)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// Cancel discards the draft from any live state and clears the edit pointer
// if it referenced this draft. Cancel is always available and always final.
func (e *Engine) Cancel(userID int64, draftID string) (*View, error) {
	var view *View
	err := e.store.withUser(userID, func(b *userBucket) error {
		d, ok := b.drafts[draftID]
		if !ok {
			return ErrNotFound
		}
		snapshot := *d
		delete(b.drafts, draftID)
		if b.pointer != nil && b.pointer.DraftID == draftID {
			b.pointer = nil
		}
		view = cancelledView(snapshot)
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Debug("draft cancelled", "user_id", userID, "draft_id", draftID)
	return view, nil
}

// mutate runs a state change on a live draft under the user lock.
func (e *Engine) mutate(userID int64, draftID string, fn func(*userBucket, *model.Draft) *View) (*View, error) {
	var view *View
	err := e.store.withUser(userID, func(b *userBucket) error {
		d, ok := b.drafts[draftID]
		if !ok {
			return ErrNotFound
		}
		d.UpdatedAt = time.Now()
		view = fn(b, d)
		// A pointer lives only while its draft is in an editing state;
		// any transition elsewhere releases the suspended conversation.
		if b.pointer != nil && b.pointer.DraftID == draftID && !d.State.Editing() {
			b.pointer = nil
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}
