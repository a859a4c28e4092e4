package workflow

import (
	"context"
	"strings"

	appErrors "github.com/Otwaboy/Agaspay-Capstone-sub004/pkg/errors"
)

// State is a dialog's position in the confirmation flow.
type State string

const (
	StateIdle        State = "idle"
	StateConfirmOpen State = "confirm_open"
	StateReasonOpen  State = "reason_open"
	StateSubmitting  State = "submitting"
)

// MinReasonLength is the trimmed-length floor for rejection reasons, checked
// before the mutation executor is invoked. The backend enforces its own.
const MinReasonLength = 10

// SubmitFunc performs the confirmed mutation. For reason dialogs the entered
// reason is passed through; confirm dialogs receive "".
type SubmitFunc func(ctx context.Context, reason string) error

// Dialog gates one destructive action behind a confirm step, optionally
// collecting a reason first. A dialog belongs to a single page and a single
// targeted record; it is not safe for concurrent use.
type Dialog struct {
	target        string
	requireReason bool
	state         State
	reason        string
	err           error
}

// NewConfirm builds a plain confirmation dialog for the target record.
func NewConfirm(target string) *Dialog {
	return &Dialog{target: target, state: StateIdle}
}

// NewReason builds a dialog that requires a reason before submitting.
func NewReason(target string) *Dialog {
	return &Dialog{target: target, requireReason: true, state: StateIdle}
}

// Open moves an idle dialog to its open state.
func (d *Dialog) Open() error {
	if d.state != StateIdle {
		return appErrors.Clone(appErrors.ErrValidation, "dialog already open")
	}
	if d.requireReason {
		d.state = StateReasonOpen
	} else {
		d.state = StateConfirmOpen
	}
	d.err = nil
	return nil
}

// SetReason records in-progress reason text. Ignored unless the reason
// dialog is open.
func (d *Dialog) SetReason(reason string) {
	if d.state == StateReasonOpen {
		d.reason = reason
	}
}

// CanSubmit reports whether the submit control is enabled.
func (d *Dialog) CanSubmit() bool {
	switch d.state {
	case StateConfirmOpen:
		return true
	case StateReasonOpen:
		return len(strings.TrimSpace(d.reason)) >= MinReasonLength
	default:
		return false
	}
}

// Submit runs fn with the entered reason. On success the dialog resets to
// idle with all text discarded; on failure it stays open with the error
// retained so the host can show the backend's message.
func (d *Dialog) Submit(ctx context.Context, fn SubmitFunc) error {
	if !d.CanSubmit() {
		if d.state == StateReasonOpen {
			return appErrors.Clone(appErrors.ErrValidation, "reason must be at least 10 characters")
		}
		return appErrors.Clone(appErrors.ErrValidation, "dialog is not open")
	}

	reopen := d.state
	d.state = StateSubmitting
	d.err = nil

	err := fn(ctx, strings.TrimSpace(d.reason))
	if err != nil {
		// Never silently close on failure.
		d.state = reopen
		d.err = err
		return err
	}

	d.reset()
	return nil
}

// Cancel closes the dialog and discards entered text. Refused while a submit
// is in flight, since the backend may still complete it.
func (d *Dialog) Cancel() error {
	if d.state == StateSubmitting {
		return appErrors.Clone(appErrors.ErrValidation, "cannot cancel while submitting")
	}
	d.reset()
	return nil
}

// State returns the current dialog state.
func (d *Dialog) State() State {
	return d.state
}

// Target returns the record id the dialog was opened for.
func (d *Dialog) Target() string {
	return d.target
}

// Err returns the error from the last failed submit, if any.
func (d *Dialog) Err() error {
	return d.err
}

// Reason returns the in-progress reason text.
func (d *Dialog) Reason() string {
	return d.reason
}

func (d *Dialog) reset() {
	d.state = StateIdle
	d.reason = ""
	d.err = nil
}
