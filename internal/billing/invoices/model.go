package invoices

import "time"

// Status enumerates stored invoice statuses. Overdue is intentionally absent:
// it is derived from the due date at read time and never persisted.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSent      Status = "sent"
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether s is a storable status.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusPaid, StatusCancelled:
		return true
	}
	return false
}

// Unit enumerates the units a line item can be billed in.
type Unit string

const (
	UnitPiece       Unit = "pcs"
	UnitSet         Unit = "set"
	UnitMeter       Unit = "m"
	UnitSquareMeter Unit = "m²"
	UnitHour        Unit = "hrs"
)

// Valid reports whether u is a known unit.
func (u Unit) Valid() bool {
	switch u {
	case UnitPiece, UnitSet, UnitMeter, UnitSquareMeter, UnitHour:
		return true
	}
	return false
}

// Invoice is a billing document issued to a customer. Monetary aggregates are
// derived from the items at save time and persisted redundantly for display.
type Invoice struct {
	ID             int64      `json:"id" db:"id"`
	Number         string     `json:"invoice_number" db:"invoice_number"`
	CustomerID     int64      `json:"customer_id" db:"customer_id"`
	QuoteID        *int64     `json:"quote_id,omitempty" db:"quote_id"`
	Status         Status     `json:"status" db:"status"`
	IssueDate      time.Time  `json:"issue_date" db:"issue_date"`
	DueDate        time.Time  `json:"due_date" db:"due_date"`
	Subtotal       float64    `json:"subtotal" db:"subtotal"`
	TaxRate        float64    `json:"tax_rate" db:"tax_rate"`
	TaxAmount      float64    `json:"tax_amount" db:"tax_amount"`
	DiscountAmount float64    `json:"discount_amount" db:"discount_amount"`
	TotalAmount    float64    `json:"total_amount" db:"total_amount"`
	PaymentTerms   string     `json:"payment_terms" db:"payment_terms"`
	Notes          *string    `json:"notes,omitempty" db:"notes"`
	PaymentDetails *string    `json:"payment_details,omitempty" db:"payment_details"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
	SentAt         *time.Time `json:"sent_at,omitempty" db:"sent_at"`
	PaidAt         *time.Time `json:"paid_at,omitempty" db:"paid_at"`
	Items          []Item     `json:"items,omitempty" db:"-"`
}

// Item is one billable entry on an invoice. Items have no lifecycle of their
// own: edits replace the full item set of the parent invoice.
type Item struct {
	ID          int64   `json:"id" db:"id"`
	InvoiceID   int64   `json:"invoice_id" db:"invoice_id"`
	Name        string  `json:"name" db:"name"`
	Description *string `json:"description,omitempty" db:"description"`
	Quantity    int     `json:"quantity" db:"quantity"`
	Unit        Unit    `json:"unit" db:"unit"`
	UnitPrice   float64 `json:"unit_price" db:"unit_price"`
	Total       float64 `json:"total" db:"total"`
}

// InvoiceWithCustomer carries the customer columns the list screens join in.
type InvoiceWithCustomer struct {
	Invoice
	CompanyName   string `json:"company_name" db:"company_name"`
	ContactPerson string `json:"contact_person" db:"contact_person"`
}
