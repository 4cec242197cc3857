package invoices

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rainline/rainline/internal/platform/db"
	"github.com/rainline/rainline/internal/platform/httpx"
)

// ErrNotFound indicates the invoice does not exist.
var ErrNotFound = fmt.Errorf("%w: invoice", httpx.ErrNotFound)

// Repository is the only boundary allowed to touch the invoice tables.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	Get(ctx context.Context, id int64) (*Invoice, error)
	List(ctx context.Context, req ListInvoicesRequest) ([]InvoiceWithCustomer, int, error)
	Create(ctx context.Context, inv Invoice) (int64, error)
	Update(ctx context.Context, id int64, updates map[string]any) error
	InsertItem(ctx context.Context, item Item) (int64, error)
	DeleteItems(ctx context.Context, invoiceID int64) error
	UpdateStatus(ctx context.Context, inv *Invoice) error
	Delete(ctx context.Context, id int64) error
	GenerateNumber(ctx context.Context, date time.Time) (string, error)
}

// listPageSize bounds a single ListAll fetch; callers page until a short page.
const listPageSize = 500

// ListAll fetches every invoice matching the filters, paging through the
// store so collection-wide reads are never truncated by the per-query limit.
// Limit and Offset on the request are ignored.
func ListAll(ctx context.Context, repo Repository, req ListInvoicesRequest) ([]InvoiceWithCustomer, error) {
	req.Limit = listPageSize
	req.Offset = 0

	var out []InvoiceWithCustomer
	for {
		page, _, err := repo.List(ctx, req)
		if err != nil {
			return nil, err
		}
		out = append(out, page...)
		if len(page) < listPageSize {
			return out, nil
		}
		req.Offset += listPageSize
	}
}

type dbtx interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

type repository struct {
	db   dbtx
	pool *pgxpool.Pool
}

// NewRepository constructs the PostgreSQL-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, pool: r.pool})
	})
}

const invoiceColumns = `id, invoice_number, customer_id, quote_id, status, issue_date, due_date,
	subtotal, tax_rate, tax_amount, discount_amount, total_amount,
	payment_terms, notes, payment_details, created_at, updated_at, sent_at, paid_at`

func (r *repository) Get(ctx context.Context, id int64) (*Invoice, error) {
	row := r.db.QueryRow(ctx, fmt.Sprintf(`SELECT %s FROM invoices WHERE id = $1`, invoiceColumns), id)
	inv, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("invoices: get %d: %w", id, err)
	}

	items, err := r.itemsFor(ctx, []int64{id})
	if err != nil {
		return nil, fmt.Errorf("invoices: get %d items: %w", id, err)
	}
	inv.Items = items[id]
	return inv, nil
}

func (r *repository) List(ctx context.Context, req ListInvoicesRequest) ([]InvoiceWithCustomer, int, error) {
	conditions := []string{"TRUE"}
	var args []interface{}
	argPos := 1

	if req.Status != nil {
		conditions = append(conditions, fmt.Sprintf("i.status = $%d", argPos))
		args = append(args, *req.Status)
		argPos++
	}
	if req.CustomerID != nil {
		conditions = append(conditions, fmt.Sprintf("i.customer_id = $%d", argPos))
		args = append(args, *req.CustomerID)
		argPos++
	}

	whereClause := "WHERE " + conditions[0]
	for i := 1; i < len(conditions); i++ {
		whereClause += " AND " + conditions[i]
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM invoices i %s", whereClause)
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("invoices: count: %w", err)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 100
	}

	query := fmt.Sprintf(`
		SELECT i.id, i.invoice_number, i.customer_id, i.quote_id, i.status, i.issue_date, i.due_date,
		       i.subtotal, i.tax_rate, i.tax_amount, i.discount_amount, i.total_amount,
		       i.payment_terms, i.notes, i.payment_details, i.created_at, i.updated_at, i.sent_at, i.paid_at,
		       c.company_name, c.contact_person
		FROM invoices i
		JOIN customers c ON i.customer_id = c.id
		%s
		ORDER BY i.created_at DESC, i.id DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argPos, argPos+1)
	args = append(args, limit, req.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("invoices: list: %w", err)
	}
	defer rows.Close()

	var list []InvoiceWithCustomer
	var ids []int64
	for rows.Next() {
		var rec InvoiceWithCustomer
		if err := scanInvoiceInto(rows, &rec.Invoice, &rec.CompanyName, &rec.ContactPerson); err != nil {
			return nil, 0, fmt.Errorf("invoices: list scan: %w", err)
		}
		list = append(list, rec)
		ids = append(ids, rec.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("invoices: list rows: %w", err)
	}

	items, err := r.itemsFor(ctx, ids)
	if err != nil {
		return nil, 0, fmt.Errorf("invoices: list items: %w", err)
	}
	for i := range list {
		list[i].Items = items[list[i].ID]
	}

	return list, total, nil
}

func (r *repository) Create(ctx context.Context, inv Invoice) (int64, error) {
	var quoteID pgtype.Int8
	if inv.QuoteID != nil {
		quoteID = pgtype.Int8{Int64: *inv.QuoteID, Valid: true}
	}
	var sentAt pgtype.Timestamptz
	if inv.SentAt != nil {
		sentAt = pgtype.Timestamptz{Time: *inv.SentAt, Valid: true}
	}

	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO invoices (
			invoice_number, customer_id, quote_id, status, issue_date, due_date,
			subtotal, tax_rate, tax_amount, discount_amount, total_amount,
			payment_terms, notes, payment_details, sent_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW(), NOW())
		RETURNING id`,
		inv.Number,
		inv.CustomerID,
		quoteID,
		inv.Status,
		inv.IssueDate,
		inv.DueDate,
		inv.Subtotal,
		inv.TaxRate,
		inv.TaxAmount,
		inv.DiscountAmount,
		inv.TotalAmount,
		inv.PaymentTerms,
		textOrNull(inv.Notes),
		textOrNull(inv.PaymentDetails),
		sentAt,
	).Scan(&id)
	if err != nil {
		return 0, wrapPgError("invoices: create", err)
	}
	return id, nil
}

func (r *repository) Update(ctx context.Context, id int64, updates map[string]any) error {
	query := "UPDATE invoices SET updated_at = NOW()"
	var args []interface{}
	argPos := 1

	// column order kept stable so queries are reproducible in logs
	for _, col := range []string{
		"customer_id", "quote_id", "issue_date", "due_date",
		"subtotal", "tax_rate", "tax_amount", "discount_amount", "total_amount",
		"payment_terms", "notes", "payment_details",
	} {
		if v, ok := updates[col]; ok {
			query += fmt.Sprintf(", %s = $%d", col, argPos)
			args = append(args, v)
			argPos++
		}
	}

	query += fmt.Sprintf(" WHERE id = $%d", argPos)
	args = append(args, id)

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return wrapPgError("invoices: update", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) InsertItem(ctx context.Context, item Item) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO invoice_items (invoice_id, name, description, quantity, unit, unit_price, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		item.InvoiceID,
		item.Name,
		textOrNull(item.Description),
		item.Quantity,
		item.Unit,
		item.UnitPrice,
		item.Total,
	).Scan(&id)
	if err != nil {
		return 0, wrapPgError("invoices: insert item", err)
	}
	return id, nil
}

func (r *repository) DeleteItems(ctx context.Context, invoiceID int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1`, invoiceID); err != nil {
		return fmt.Errorf("invoices: delete items: %w", err)
	}
	return nil
}

func (r *repository) UpdateStatus(ctx context.Context, inv *Invoice) error {
	var sentAt, paidAt pgtype.Timestamptz
	if inv.SentAt != nil {
		sentAt = pgtype.Timestamptz{Time: *inv.SentAt, Valid: true}
	}
	if inv.PaidAt != nil {
		paidAt = pgtype.Timestamptz{Time: *inv.PaidAt, Valid: true}
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE invoices
		SET status = $1, sent_at = $2, paid_at = $3, updated_at = $4
		WHERE id = $5`,
		inv.Status, sentAt, paidAt, inv.UpdatedAt, inv.ID,
	)
	if err != nil {
		return fmt.Errorf("invoices: update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	// invoice_items cascade at the storage layer
	tag, err := r.db.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("invoices: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GenerateNumber assigns the next per-month sequence number server-side. The
// sequence row is upserted atomically, so concurrent creates never collide.
func (r *repository) GenerateNumber(ctx context.Context, date time.Time) (string, error) {
	period := date.Format("200601")
	var seq int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO document_sequences (doc_type, period, seq)
		VALUES ($1, $2, 1)
		ON CONFLICT (doc_type, period)
		DO UPDATE SET seq = document_sequences.seq + 1
		RETURNING seq
	`, "INV", period).Scan(&seq)
	if err != nil {
		return "", fmt.Errorf("invoices: generate number: %w", err)
	}
	return fmt.Sprintf("INV-%s-%04d", period, seq), nil
}

func (r *repository) itemsFor(ctx context.Context, invoiceIDs []int64) (map[int64][]Item, error) {
	out := make(map[int64][]Item, len(invoiceIDs))
	if len(invoiceIDs) == 0 {
		return out, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, invoice_id, name, description, quantity, unit, unit_price, total
		FROM invoice_items
		WHERE invoice_id = ANY($1)
		ORDER BY id`, invoiceIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item Item
		var description pgtype.Text
		if err := rows.Scan(&item.ID, &item.InvoiceID, &item.Name, &description,
			&item.Quantity, &item.Unit, &item.UnitPrice, &item.Total); err != nil {
			return nil, err
		}
		if description.Valid {
			item.Description = &description.String
		}
		out[item.InvoiceID] = append(out[item.InvoiceID], item)
	}
	return out, rows.Err()
}

func scanInvoice(row pgx.Row) (*Invoice, error) {
	var inv Invoice
	if err := scanInvoiceInto(row, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

// scanInvoiceInto reads the invoiceColumns order, plus any extra columns
// appended by joins.
func scanInvoiceInto(row pgx.Row, inv *Invoice, extra ...any) error {
	var quoteID pgtype.Int8
	var notes, paymentDetails pgtype.Text
	var sentAt, paidAt pgtype.Timestamptz

	dest := []any{
		&inv.ID, &inv.Number, &inv.CustomerID, &quoteID, &inv.Status, &inv.IssueDate, &inv.DueDate,
		&inv.Subtotal, &inv.TaxRate, &inv.TaxAmount, &inv.DiscountAmount, &inv.TotalAmount,
		&inv.PaymentTerms, &notes, &paymentDetails, &inv.CreatedAt, &inv.UpdatedAt, &sentAt, &paidAt,
	}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return err
	}

	if quoteID.Valid {
		inv.QuoteID = &quoteID.Int64
	}
	if notes.Valid {
		inv.Notes = &notes.String
	}
	if paymentDetails.Valid {
		inv.PaymentDetails = &paymentDetails.String
	}
	if sentAt.Valid {
		inv.SentAt = &sentAt.Time
	}
	if paidAt.Valid {
		inv.PaidAt = &paidAt.Time
	}
	return nil
}

func textOrNull(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}

// wrapPgError classifies constraint violations so handlers can answer with
// the right status code instead of a blanket 500.
func wrapPgError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return fmt.Errorf("%s: %w: %s", op, httpx.ErrDuplicate, pgErr.ConstraintName)
		case "23503":
			return fmt.Errorf("%s: %w: %s", op, httpx.ErrValidation, pgErr.ConstraintName)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
