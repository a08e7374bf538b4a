// Package draft holds proposed transactions between parse and commit: an
// in-memory store keyed by (user, draft) and the confirm/edit/cancel state
// machine that drives them.
package draft

import (
	"github.com/hamyonapp/hamyon/internal/model"
	"github.com/hamyonapp/hamyon/internal/service"
)

// Action is something the user may do next with a draft. Presenters map
// actions to keyboards, REPL commands, or whatever their surface offers.
type Action string

const (
	// ActionConfirm commits the draft.
	ActionConfirm Action = "confirm"
	// ActionEdit opens the field picker.
	ActionEdit Action = "edit"
	// ActionCancel discards the draft.
	ActionCancel Action = "cancel"
	// ActionEditCategory re-picks the category from the vocabulary.
	ActionEditCategory Action = "edit_category"
	// ActionEditAmount routes the next message into the amount.
	ActionEditAmount Action = "edit_amount"
	// ActionEditDescription routes the next message into the description.
	ActionEditDescription Action = "edit_description"
	// ActionEditType re-picks the transaction type.
	ActionEditType Action = "edit_type"
	// ActionBack returns from the field picker to the proposal.
	ActionBack Action = "back"
)

// View is the presenter-agnostic render instruction every engine operation
// returns: a draft snapshot, where it is in its lifecycle, and the legal
// next actions. How it looks is the presenter's business.
type View struct {
	// Receipt is set on saved views only.
	Receipt *service.CommitReceipt
	State   model.DraftState
	Actions []Action
	Draft   model.Draft
	// Retry marks a re-prompt after input that could not be applied.
	Retry bool
}

func proposedView(d model.Draft) *View {
	return &View{
		Draft:   d,
		State:   model.StateProposed,
		Actions: []Action{ActionConfirm, ActionEdit, ActionCancel},
	}
}

func editMenuView(d model.Draft) *View {
	return &View{
		Draft: d,
		State: model.StateEditMenu,
		Actions: []Action{
			ActionEditCategory,
			ActionEditAmount,
			ActionEditDescription,
			ActionEditType,
			ActionBack,
		},
	}
}

func editingView(d model.Draft, field model.EditField, retry bool) *View {
	state := model.StateEditingAmount
	if field == model.FieldDescription {
		state = model.StateEditingDescription
	}
	return &View{
		Draft:   d,
		State:   state,
		Actions: []Action{ActionCancel},
		Retry:   retry,
	}
}

func savedView(d model.Draft, receipt service.CommitReceipt) *View {
	return &View{
		Draft:   d,
		State:   model.StateSaved,
		Receipt: &receipt,
	}
}

func cancelledView(d model.Draft) *View {
	return &View{
		Draft: d,
		State: model.StateCancelled,
	}
}
