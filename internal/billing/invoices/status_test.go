package invoices

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestApplyTransitionStampsSentOnce(t *testing.T) {
	inv := &Invoice{Status: StatusDraft}
	first := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	second := first.Add(48 * time.Hour)

	require.NoError(t, ApplyTransition(inv, StatusSent, first))
	require.NotNil(t, inv.SentAt)
	require.Equal(t, first, *inv.SentAt)
	require.Equal(t, first, inv.UpdatedAt)

	// re-sending keeps the original sent_at
	require.NoError(t, ApplyTransition(inv, StatusSent, second))
	require.Equal(t, first, *inv.SentAt)
	require.Equal(t, second, inv.UpdatedAt)
}

func TestApplyTransitionPaid(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	inv := &Invoice{Status: StatusSent}

	require.NoError(t, ApplyTransition(inv, StatusPaid, now))
	require.Equal(t, StatusPaid, inv.Status)
	require.NotNil(t, inv.PaidAt)
	require.Equal(t, now, *inv.PaidAt)
	require.Nil(t, inv.SentAt)
}

func TestApplyTransitionRejectsBackward(t *testing.T) {
	now := time.Now()

	paid := &Invoice{Status: StatusPaid}
	require.ErrorIs(t, ApplyTransition(paid, StatusDraft, now), ErrInvalidStatus)
	require.ErrorIs(t, ApplyTransition(paid, StatusCancelled, now), ErrInvalidStatus)

	cancelled := &Invoice{Status: StatusCancelled}
	require.ErrorIs(t, ApplyTransition(cancelled, StatusSent, now), ErrInvalidStatus)

	sent := &Invoice{Status: StatusSent}
	require.ErrorIs(t, ApplyTransition(sent, StatusDraft, now), ErrInvalidStatus)
}

func TestApplyTransitionCancelBeforePaid(t *testing.T) {
	now := time.Now()

	draft := &Invoice{Status: StatusDraft}
	require.NoError(t, ApplyTransition(draft, StatusCancelled, now))
	require.Equal(t, StatusCancelled, draft.Status)

	sent := &Invoice{Status: StatusSent}
	require.NoError(t, ApplyTransition(sent, StatusCancelled, now))
}

func TestApplyTransitionUnknownStatus(t *testing.T) {
	inv := &Invoice{Status: StatusDraft}
	require.ErrorIs(t, ApplyTransition(inv, Status("overdue"), time.Now()), ErrInvalidStatus)
}
