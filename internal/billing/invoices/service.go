package invoices

import (
	"context"
	"fmt"
	"time"

	"github.com/rainline/rainline/internal/billing/customers"
	"github.com/rainline/rainline/internal/billing/shared"
)

// ServiceConfig carries the form defaults applied to new drafts.
type ServiceConfig struct {
	DefaultTaxRate   float64
	DefaultDueInDays int
}

// Service orchestrates the invoice lifecycle: drafts, totals, transactional
// persistence and status transitions.
type Service struct {
	repo         Repository
	customerRepo customers.Repository
	cfg          ServiceConfig
}

func NewService(repo Repository, customerRepo customers.Repository, cfg ServiceConfig) *Service {
	if cfg.DefaultTaxRate == 0 {
		cfg.DefaultTaxRate = 16
	}
	if cfg.DefaultDueInDays == 0 {
		cfg.DefaultDueInDays = 30
	}
	return &Service{repo: repo, customerRepo: customerRepo, cfg: cfg}
}

// NewDraft returns the initialised create-form state.
func (s *Service) NewDraft(now time.Time) *Draft {
	return NewDraft(now, s.cfg.DefaultTaxRate, s.cfg.DefaultDueInDays)
}

// Create validates the draft, computes totals, and writes the header and all
// items inside one transaction, so a failed item insert never leaves an
// orphan header behind. The invoice number is assigned from the server-side
// sequence in the same transaction.
func (s *Service) Create(ctx context.Context, req CreateInvoiceRequest) (*Invoice, error) {
	draft := draftFromCreate(req)
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.customerRepo.Get(ctx, req.CustomerID); err != nil {
		return nil, fmt.Errorf("verify customer: %w", err)
	}

	totals := draft.Totals()
	now := time.Now()

	inv := Invoice{
		CustomerID:     draft.CustomerID,
		QuoteID:        draft.QuoteID,
		Status:         StatusDraft,
		IssueDate:      draft.IssueDate,
		DueDate:        draft.DueDate,
		Subtotal:       totals.Subtotal,
		TaxRate:        draft.TaxRate,
		TaxAmount:      totals.TaxAmount,
		DiscountAmount: totals.DiscountAmount,
		TotalAmount:    totals.Total,
		PaymentTerms:   draft.PaymentTerms,
		Notes:          draft.Notes,
		PaymentDetails: draft.PaymentDetails,
	}
	if req.Send {
		if err := ApplyTransition(&inv, StatusSent, now); err != nil {
			return nil, err
		}
	}

	var invoiceID int64
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		number, err := repo.GenerateNumber(ctx, draft.IssueDate)
		if err != nil {
			return err
		}
		inv.Number = number

		invoiceID, err = repo.Create(ctx, inv)
		if err != nil {
			return err
		}

		for _, item := range draft.Items {
			item.InvoiceID = invoiceID
			if _, err := repo.InsertItem(ctx, item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.repo.Get(ctx, invoiceID)
}

// Update edits header fields and, when items are supplied, replaces the full
// item set. The delete and re-insert run in the same transaction as the
// header update. Paid and cancelled invoices are immutable.
func (s *Service) Update(ctx context.Context, id int64, req UpdateInvoiceRequest) (*Invoice, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	if existing.Status == StatusPaid || existing.Status == StatusCancelled {
		return nil, fmt.Errorf("%w: %s invoices cannot be edited", ErrInvalidStatus, existing.Status)
	}

	draft := DraftOf(existing)
	applyUpdate(draft, req)
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	if req.CustomerID != nil {
		if _, err := s.customerRepo.Get(ctx, *req.CustomerID); err != nil {
			return nil, fmt.Errorf("verify customer: %w", err)
		}
	}

	totals := draft.Totals()
	updates := map[string]any{
		"customer_id":     draft.CustomerID,
		"issue_date":      draft.IssueDate,
		"due_date":        draft.DueDate,
		"subtotal":        totals.Subtotal,
		"tax_rate":        draft.TaxRate,
		"tax_amount":      totals.TaxAmount,
		"discount_amount": totals.DiscountAmount,
		"total_amount":    totals.Total,
		"payment_terms":   draft.PaymentTerms,
	}
	// zero and empty values clear the stored optional fields back to NULL
	if req.QuoteID != nil {
		if *req.QuoteID == 0 {
			updates["quote_id"] = nil
		} else {
			updates["quote_id"] = *req.QuoteID
		}
	}
	if req.Notes != nil {
		updates["notes"] = optionalText(*req.Notes)
	}
	if req.PaymentDetails != nil {
		updates["payment_details"] = optionalText(*req.PaymentDetails)
	}

	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		if err := repo.Update(ctx, id, updates); err != nil {
			return err
		}
		if req.Items == nil {
			return nil
		}
		if err := repo.DeleteItems(ctx, id); err != nil {
			return err
		}
		for _, item := range draft.Items {
			item.ID = 0
			item.InvoiceID = id
			if _, err := repo.InsertItem(ctx, item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update invoice: %w", err)
	}

	return s.repo.Get(ctx, id)
}

// ChangeStatus applies a lifecycle transition with its timestamp stamping and
// persists the result.
func (s *Service) ChangeStatus(ctx context.Context, id int64, to Status) (*Invoice, error) {
	inv, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get invoice: %w", err)
	}

	if err := ApplyTransition(inv, to, time.Now()); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, inv); err != nil {
		return nil, err
	}

	return s.repo.Get(ctx, id)
}

// Delete hard-deletes the invoice. Item rows cascade at the store.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*Invoice, error) {
	return s.repo.Get(ctx, id)
}

// QueryOptions are the read-side projections applied after the fetch.
type QueryOptions struct {
	Search     string
	SortKey    SortKey
	Descending bool
}

// List fetches invoices with their customer columns and applies the search
// and sort projections. A search query is matched against the whole filtered
// collection, not just the requested page, and Total then reports the number
// of matches.
func (s *Service) List(ctx context.Context, req ListInvoicesRequest, opts QueryOptions) ([]InvoiceWithCustomer, int, error) {
	key := opts.SortKey
	if key == "" {
		key = SortByCreatedAt
	}

	if opts.Search == "" {
		list, total, err := s.repo.List(ctx, req)
		if err != nil {
			return nil, 0, err
		}
		return SortBy(list, key, opts.Descending), total, nil
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := req.Offset

	all, err := ListAll(ctx, s.repo, req)
	if err != nil {
		return nil, 0, err
	}

	matched := SortBy(Search(all, opts.Search), key, opts.Descending)
	total := len(matched)
	if offset >= total {
		return nil, total, nil
	}
	matched = matched[offset:]
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func draftFromCreate(req CreateInvoiceRequest) *Draft {
	d := &Draft{
		CustomerID:     req.CustomerID,
		QuoteID:        req.QuoteID,
		IssueDate:      req.IssueDate,
		DueDate:        req.DueDate,
		TaxRate:        req.TaxRate,
		DiscountAmount: req.DiscountAmount,
		PaymentTerms:   req.PaymentTerms,
		Notes:          req.Notes,
		PaymentDetails: req.PaymentDetails,
	}
	d.Items = itemsFromRequests(req.Items)
	return d
}

func applyUpdate(d *Draft, req UpdateInvoiceRequest) {
	if req.CustomerID != nil {
		d.CustomerID = *req.CustomerID
	}
	if req.QuoteID != nil {
		d.QuoteID = req.QuoteID
	}
	if req.IssueDate != nil {
		d.IssueDate = *req.IssueDate
	}
	if req.DueDate != nil {
		d.DueDate = *req.DueDate
	}
	if req.TaxRate != nil {
		d.TaxRate = *req.TaxRate
	}
	if req.DiscountAmount != nil {
		d.DiscountAmount = *req.DiscountAmount
	}
	if req.PaymentTerms != nil {
		d.PaymentTerms = *req.PaymentTerms
	}
	if req.Notes != nil {
		d.Notes = req.Notes
	}
	if req.PaymentDetails != nil {
		d.PaymentDetails = req.PaymentDetails
	}
	if req.Items != nil {
		d.Items = itemsFromRequests(*req.Items)
	}
}

// optionalText maps the empty string to NULL so a blank field clears the
// stored value.
func optionalText(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// itemsFromRequests builds items with server-computed totals; client-supplied
// totals are ignored.
func itemsFromRequests(reqs []ItemRequest) []Item {
	items := make([]Item, len(reqs))
	for i, ir := range reqs {
		unit := ir.Unit
		if unit == "" {
			unit = UnitPiece
		}
		items[i] = Item{
			ID:          ir.ID,
			Name:        ir.Name,
			Description: ir.Description,
			Quantity:    ir.Quantity,
			Unit:        unit,
			UnitPrice:   ir.UnitPrice,
		}
		items[i].Total = shared.ItemTotal(ir.Quantity, ir.UnitPrice)
	}
	return items
}
