package invoices

import "time"

// ItemRequest is one line item as submitted by the edit form. The ID is set
// when the form is editing an existing row; totals are always recomputed
// server-side, never taken from the client.
type ItemRequest struct {
	ID          int64   `json:"id,omitempty"`
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description,omitempty"`
	Quantity    int     `json:"quantity" validate:"required,gt=0"`
	Unit        Unit    `json:"unit" validate:"omitempty,oneof=pcs set m m² hrs"`
	UnitPrice   float64 `json:"unit_price" validate:"gte=0"`
}

// CreateInvoiceRequest creates a new invoice with at least one item. Send
// stamps the invoice as sent immediately instead of leaving it in draft.
type CreateInvoiceRequest struct {
	CustomerID     int64         `json:"customer_id" validate:"required,gt=0"`
	QuoteID        *int64        `json:"quote_id,omitempty"`
	IssueDate      time.Time     `json:"issue_date" validate:"required"`
	DueDate        time.Time     `json:"due_date" validate:"required"`
	TaxRate        float64       `json:"tax_rate" validate:"gte=0,lte=100"`
	DiscountAmount float64       `json:"discount_amount" validate:"gte=0"`
	PaymentTerms   string        `json:"payment_terms,omitempty"`
	Notes          *string       `json:"notes,omitempty"`
	PaymentDetails *string       `json:"payment_details,omitempty"`
	Send           bool          `json:"send,omitempty"`
	Items          []ItemRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdateInvoiceRequest edits header fields and, when Items is present,
// replaces the full item list.
type UpdateInvoiceRequest struct {
	CustomerID     *int64         `json:"customer_id,omitempty" validate:"omitempty,gt=0"`
	QuoteID        *int64         `json:"quote_id,omitempty"`
	IssueDate      *time.Time     `json:"issue_date,omitempty"`
	DueDate        *time.Time     `json:"due_date,omitempty"`
	TaxRate        *float64       `json:"tax_rate,omitempty" validate:"omitempty,gte=0,lte=100"`
	DiscountAmount *float64       `json:"discount_amount,omitempty" validate:"omitempty,gte=0"`
	PaymentTerms   *string        `json:"payment_terms,omitempty"`
	Notes          *string        `json:"notes,omitempty"`
	PaymentDetails *string        `json:"payment_details,omitempty"`
	Items          *[]ItemRequest `json:"items,omitempty" validate:"omitempty,min=1,dive"`
}

// ChangeStatusRequest moves an invoice through its lifecycle.
type ChangeStatusRequest struct {
	Status Status `json:"status" validate:"required"`
}

// ListInvoicesRequest narrows the repository fetch. Search and sorting are
// applied as projections over the fetched collection.
type ListInvoicesRequest struct {
	Status     *Status `json:"status,omitempty"`
	CustomerID *int64  `json:"customer_id,omitempty"`
	Limit      int     `json:"limit" validate:"gte=0,lte=1000"`
	Offset     int     `json:"offset" validate:"gte=0"`
}

// ListResponse is the list endpoint payload.
type ListResponse struct {
	Invoices []InvoiceWithCustomer `json:"invoices"`
	Total    int                   `json:"total"`
}
