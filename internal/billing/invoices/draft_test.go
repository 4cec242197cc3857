package invoices

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rainline/rainline/internal/platform/httpx"
)

func TestNewDraftDefaults(t *testing.T) {
	now := time.Date(2026, 5, 4, 15, 30, 0, 0, time.UTC)
	d := NewDraft(now, 16, 30)

	require.Equal(t, now.Truncate(24*time.Hour), d.IssueDate)
	require.Equal(t, d.IssueDate.AddDate(0, 0, 30), d.DueDate)
	require.Equal(t, 16.0, d.TaxRate)
	require.Len(t, d.Items, 1)
	require.Equal(t, 1, d.Items[0].Quantity)
	require.Equal(t, UnitPiece, d.Items[0].Unit)
}

func TestDraftItemRecompute(t *testing.T) {
	d := NewDraft(time.Now(), 16, 30)
	require.NoError(t, d.SetItemName(0, "Drip line 16mm"))
	require.NoError(t, d.SetItemUnitPrice(0, 12.5))
	require.Equal(t, 12.5, d.Items[0].Total)

	require.NoError(t, d.SetItemQuantity(0, 4))
	require.Equal(t, 50.0, d.Items[0].Total)

	require.Error(t, d.SetItemQuantity(5, 1))
}

func TestDraftRemoveItemKeepsAtLeastOne(t *testing.T) {
	d := NewDraft(time.Now(), 16, 30)
	d.RemoveItem(0)
	require.Len(t, d.Items, 1)

	d.AddItem()
	require.Len(t, d.Items, 2)
	d.RemoveItem(0)
	require.Len(t, d.Items, 1)
	d.RemoveItem(0)
	require.Len(t, d.Items, 1)
}

func TestDraftOfCopiesDeep(t *testing.T) {
	desc := "spare part"
	notes := "deliver to warehouse"
	inv := &Invoice{
		ID:         7,
		Number:     "INV-202605-0001",
		CustomerID: 3,
		IssueDate:  time.Now(),
		DueDate:    time.Now().AddDate(0, 1, 0),
		TaxRate:    16,
		Notes:      &notes,
		Items: []Item{
			{ID: 11, Name: "Valve", Description: &desc, Quantity: 2, Unit: UnitPiece, UnitPrice: 30, Total: 60},
		},
	}

	d := DraftOf(inv)
	require.Equal(t, inv.ID, d.ID)
	require.Len(t, d.Items, 1)
	require.Equal(t, int64(11), d.Items[0].ID)

	require.NoError(t, d.SetItemName(0, "Filter"))
	*d.Items[0].Description = "changed"
	*d.Notes = "changed"
	require.Equal(t, "Valve", inv.Items[0].Name)
	require.Equal(t, "spare part", *inv.Items[0].Description)
	require.Equal(t, "deliver to warehouse", *inv.Notes)
}

func TestDraftValidate(t *testing.T) {
	base := func() *Draft {
		d := NewDraft(time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC), 16, 30)
		d.CustomerID = 1
		_ = d.SetItemName(0, "Sprinkler head")
		return d
	}

	require.NoError(t, base().Validate())

	noCustomer := base()
	noCustomer.CustomerID = 0
	require.ErrorIs(t, noCustomer.Validate(), httpx.ErrValidation)

	blankName := base()
	require.NoError(t, blankName.SetItemName(0, "   "))
	require.ErrorIs(t, blankName.Validate(), httpx.ErrValidation)

	noDue := base()
	noDue.DueDate = time.Time{}
	require.ErrorIs(t, noDue.Validate(), httpx.ErrValidation)

	dueBeforeIssue := base()
	dueBeforeIssue.DueDate = dueBeforeIssue.IssueDate.AddDate(0, 0, -1)
	require.ErrorIs(t, dueBeforeIssue.Validate(), httpx.ErrValidation)

	badQty := base()
	badQty.Items[0].Quantity = 0
	require.ErrorIs(t, badQty.Validate(), httpx.ErrValidation)

	negativePrice := base()
	negativePrice.Items[0].UnitPrice = -1
	require.ErrorIs(t, negativePrice.Validate(), httpx.ErrValidation)
}

func TestDraftTotals(t *testing.T) {
	d := NewDraft(time.Now(), 10, 30)
	require.NoError(t, d.SetItemName(0, "A"))
	require.NoError(t, d.SetItemQuantity(0, 2))
	require.NoError(t, d.SetItemUnitPrice(0, 50))

	totals := d.Totals()
	require.Equal(t, 100.0, totals.Subtotal)
	require.Equal(t, 10.0, totals.TaxAmount)
	require.Equal(t, 110.0, totals.Total)
}
