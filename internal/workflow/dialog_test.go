package workflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/Otwaboy/Agaspay-Capstone-sub004/pkg/errors"
)

func TestConfirmFlow(t *testing.T) {
	d := NewConfirm("con-002")
	assert.Equal(t, StateIdle, d.State())
	assert.False(t, d.CanSubmit())

	require.NoError(t, d.Open())
	assert.Equal(t, StateConfirmOpen, d.State())
	assert.True(t, d.CanSubmit())

	var gotReason string
	err := d.Submit(context.Background(), func(ctx context.Context, reason string) error {
		gotReason = reason
		return nil
	})
	require.NoError(t, err)
	assert.Empty(t, gotReason, "confirm dialogs carry no reason")
	assert.Equal(t, StateIdle, d.State())
}

func TestReasonGate(t *testing.T) {
	d := NewReason("con-002")
	require.NoError(t, d.Open())
	assert.Equal(t, StateReasonOpen, d.State())

	cases := []struct {
		name   string
		reason string
		ok     bool
	}{
		{"empty", "", false},
		{"nine chars", "too short", false},
		{"whitespace padding does not count", "   short    ", false},
		{"exactly ten", "1234567890", true},
		{"long enough", "duplicate application", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d.SetReason(tc.reason)
			assert.Equal(t, tc.ok, d.CanSubmit())
		})
	}
}

func TestSubmitBlockedWhileReasonTooShort(t *testing.T) {
	d := NewReason("con-002")
	require.NoError(t, d.Open())
	d.SetReason("nope")

	called := false
	err := d.Submit(context.Background(), func(ctx context.Context, reason string) error {
		called = true
		return nil
	})
	require.Error(t, err)
	assert.True(t, appErrors.IsCode(err, appErrors.ErrValidation.Code))
	assert.False(t, called, "the mutation never runs on an invalid reason")
	assert.Equal(t, StateReasonOpen, d.State())
}

func TestSubmitPassesTrimmedReason(t *testing.T) {
	d := NewReason("con-002")
	require.NoError(t, d.Open())
	d.SetReason("  incomplete requirements  ")

	var gotReason string
	err := d.Submit(context.Background(), func(ctx context.Context, reason string) error {
		gotReason = reason
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "incomplete requirements", gotReason)
	assert.Equal(t, StateIdle, d.State())
	assert.Empty(t, d.Reason(), "entered text is discarded on success")
}

func TestFailedSubmitStaysOpen(t *testing.T) {
	d := NewReason("con-002")
	require.NoError(t, d.Open())
	d.SetReason("incomplete requirements")

	backendErr := appErrors.Clone(appErrors.ErrValidation, "Connection is no longer pending")
	err := d.Submit(context.Background(), func(ctx context.Context, reason string) error {
		return backendErr
	})
	require.Error(t, err)

	assert.Equal(t, StateReasonOpen, d.State(), "the dialog never silently closes on failure")
	assert.Equal(t, backendErr, d.Err())
	assert.Equal(t, "incomplete requirements", d.Reason(), "entered text survives a failure")
}

func TestCancelRefusedWhileSubmitting(t *testing.T) {
	d := NewConfirm("arc-001")
	require.NoError(t, d.Open())

	var stateDuring State
	var cancelErr error
	err := d.Submit(context.Background(), func(ctx context.Context, reason string) error {
		stateDuring = d.State()
		cancelErr = d.Cancel()
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, StateSubmitting, stateDuring)
	require.Error(t, cancelErr, "cancel is refused while the backend may still complete")
	assert.Equal(t, StateIdle, d.State())

	// Once idle, cancel is a no-op.
	assert.NoError(t, d.Cancel())
}

func TestDoubleOpenRejected(t *testing.T) {
	d := NewConfirm("con-002")
	require.NoError(t, d.Open())
	assert.Error(t, d.Open())
}
