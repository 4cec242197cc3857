package invoices

import (
	"errors"
	"fmt"
	"time"

	"github.com/rainline/rainline/internal/platform/httpx"
)

// ErrInvalidStatus is returned when a transition is not allowed from the
// invoice's current status.
var ErrInvalidStatus = fmt.Errorf("%w: invalid status transition", httpx.ErrConflict)

// CanTransition reports whether an invoice may move from one stored status to
// another. The lifecycle only moves forward: draft → sent → paid, with
// cancellation possible until the invoice is paid.
func CanTransition(from, to Status) bool {
	switch from {
	case StatusDraft:
		return to == StatusSent || to == StatusPaid || to == StatusCancelled
	case StatusSent:
		// re-sending is allowed and keeps the original sent_at
		return to == StatusSent || to == StatusPaid || to == StatusCancelled
	default:
		// paid and cancelled are terminal
		return false
	}
}

// ApplyTransition moves inv to the new status and stamps the transition
// timestamps: sent_at only the first time the invoice is sent, paid_at on
// payment, updated_at always.
func ApplyTransition(inv *Invoice, to Status, now time.Time) error {
	if inv == nil {
		return errors.New("invoices: nil invoice")
	}
	if !to.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidStatus, to)
	}
	if !CanTransition(inv.Status, to) {
		return fmt.Errorf("%w: %s → %s", ErrInvalidStatus, inv.Status, to)
	}

	switch to {
	case StatusSent:
		if inv.SentAt == nil {
			sentAt := now
			inv.SentAt = &sentAt
		}
	case StatusPaid:
		paidAt := now
		inv.PaidAt = &paidAt
	}

	inv.Status = to
	inv.UpdatedAt = now
	return nil
}
