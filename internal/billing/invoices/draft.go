package invoices

import (
	"fmt"
	"strings"
	"time"

	"github.com/rainline/rainline/internal/billing/shared"
	"github.com/rainline/rainline/internal/platform/httpx"
)

// Draft is the in-memory working copy of an invoice being created or edited.
// It is decoupled from any persisted row until the service submits it.
type Draft struct {
	ID             int64
	Number         string
	CustomerID     int64
	QuoteID        *int64
	IssueDate      time.Time
	DueDate        time.Time
	TaxRate        float64
	DiscountAmount float64
	PaymentTerms   string
	Notes          *string
	PaymentDetails *string
	Items          []Item
}

// NewDraft initialises a create-flow draft: issued today, due after dueInDays,
// one blank item so the form never renders empty.
func NewDraft(now time.Time, taxRate float64, dueInDays int) *Draft {
	issue := now.Truncate(24 * time.Hour)
	return &Draft{
		IssueDate: issue,
		DueDate:   issue.AddDate(0, 0, dueInDays),
		TaxRate:   taxRate,
		Items: []Item{
			{Quantity: 1, Unit: UnitPiece},
		},
	}
}

// DraftOf deep-copies a persisted invoice into an edit-flow draft. Items keep
// their IDs so the replacement write can reference the rows being replaced.
func DraftOf(inv *Invoice) *Draft {
	d := &Draft{
		ID:             inv.ID,
		Number:         inv.Number,
		CustomerID:     inv.CustomerID,
		IssueDate:      inv.IssueDate,
		DueDate:        inv.DueDate,
		TaxRate:        inv.TaxRate,
		DiscountAmount: inv.DiscountAmount,
		PaymentTerms:   inv.PaymentTerms,
		Items:          make([]Item, len(inv.Items)),
	}
	if inv.QuoteID != nil {
		v := *inv.QuoteID
		d.QuoteID = &v
	}
	if inv.Notes != nil {
		v := *inv.Notes
		d.Notes = &v
	}
	if inv.PaymentDetails != nil {
		v := *inv.PaymentDetails
		d.PaymentDetails = &v
	}
	copy(d.Items, inv.Items)
	for i := range d.Items {
		if inv.Items[i].Description != nil {
			v := *inv.Items[i].Description
			d.Items[i].Description = &v
		}
	}
	return d
}

// SetItemQuantity updates one item's quantity and recomputes its total.
func (d *Draft) SetItemQuantity(i, quantity int) error {
	if err := d.checkIndex(i); err != nil {
		return err
	}
	d.Items[i].Quantity = quantity
	d.Items[i].Total = shared.ItemTotal(quantity, d.Items[i].UnitPrice)
	return nil
}

// SetItemUnitPrice updates one item's unit price and recomputes its total.
func (d *Draft) SetItemUnitPrice(i int, unitPrice float64) error {
	if err := d.checkIndex(i); err != nil {
		return err
	}
	d.Items[i].UnitPrice = unitPrice
	d.Items[i].Total = shared.ItemTotal(d.Items[i].Quantity, unitPrice)
	return nil
}

// SetItemName updates one item's name. The total is untouched.
func (d *Draft) SetItemName(i int, name string) error {
	if err := d.checkIndex(i); err != nil {
		return err
	}
	d.Items[i].Name = name
	return nil
}

// AddItem appends a blank item with the form defaults.
func (d *Draft) AddItem() {
	d.Items = append(d.Items, Item{Quantity: 1, Unit: UnitPiece})
}

// RemoveItem deletes the item at i. An invoice always keeps at least one
// item, so removal from a single-item draft is a no-op.
func (d *Draft) RemoveItem(i int) {
	if len(d.Items) <= 1 {
		return
	}
	if i < 0 || i >= len(d.Items) {
		return
	}
	d.Items = append(d.Items[:i], d.Items[i+1:]...)
}

// Totals recomputes the invoice aggregates from the current items.
func (d *Draft) Totals() shared.Totals {
	lineTotals := make([]float64, len(d.Items))
	for i, item := range d.Items {
		lineTotals[i] = shared.ItemTotal(item.Quantity, item.UnitPrice)
	}
	return shared.InvoiceTotals(lineTotals, d.TaxRate, d.DiscountAmount)
}

// Validate checks the draft before any write is attempted.
func (d *Draft) Validate() error {
	if d.CustomerID == 0 {
		return fmt.Errorf("%w: customer is required", httpx.ErrValidation)
	}
	if d.IssueDate.IsZero() {
		return fmt.Errorf("%w: issue date is required", httpx.ErrValidation)
	}
	if d.DueDate.IsZero() {
		return fmt.Errorf("%w: due date is required", httpx.ErrValidation)
	}
	if d.DueDate.Before(d.IssueDate) {
		return fmt.Errorf("%w: due date must not precede issue date", httpx.ErrValidation)
	}
	if len(d.Items) == 0 {
		return fmt.Errorf("%w: at least one item is required", httpx.ErrValidation)
	}
	for i, item := range d.Items {
		if strings.TrimSpace(item.Name) == "" {
			return fmt.Errorf("%w: item %d has no name", httpx.ErrValidation, i+1)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: item %d quantity must be positive", httpx.ErrValidation, i+1)
		}
		if item.UnitPrice < 0 {
			return fmt.Errorf("%w: item %d unit price must not be negative", httpx.ErrValidation, i+1)
		}
		if item.Unit != "" && !item.Unit.Valid() {
			return fmt.Errorf("%w: item %d has unknown unit %q", httpx.ErrValidation, i+1, item.Unit)
		}
	}
	return nil
}

func (d *Draft) checkIndex(i int) error {
	if i < 0 || i >= len(d.Items) {
		return fmt.Errorf("invoices: item index %d out of range", i)
	}
	return nil
}
