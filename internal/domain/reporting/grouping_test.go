package reporting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stocktrack/internal/core/id"
	"stocktrack/internal/domain/inventory"
)

func item(shortCode string, qty int64, owner id.ID) inventory.Item {
	return inventory.Item{
		ID:        id.New(),
		ShortCode: shortCode,
		FullCode:  shortCode + "-FULL",
		Quantity:  qty,
		CreatedBy: owner,
	}
}

func TestGroupItems_SumsPerCodeAndOwner(t *testing.T) {
	x := id.New()
	y := id.New()
	names := map[id.ID]string{x: "xavier", y: "yvonne"}

	items := []inventory.Item{
		item("A1", 1, x),
		item("A1", 2, x),
		item("A1", 7, y),
		item("B2", 4, y),
	}

	report := GroupItems(items, names)

	require.Len(t, report.ByCodeAndOwner, 3)
	assert.Equal(t, OwnerGroup{ShortCode: "A1", OwnerID: x, OwnerName: "xavier", Quantity: 3, ItemCount: 2}, report.ByCodeAndOwner[0])
	assert.Equal(t, OwnerGroup{ShortCode: "A1", OwnerID: y, OwnerName: "yvonne", Quantity: 7, ItemCount: 1}, report.ByCodeAndOwner[1])
	assert.Equal(t, "B2", report.ByCodeAndOwner[2].ShortCode)

	require.Len(t, report.ByCodeTotals, 2)
	assert.Equal(t, CodeGroup{ShortCode: "A1", Quantity: 10, ItemCount: 3}, report.ByCodeTotals[0])
	assert.Equal(t, CodeGroup{ShortCode: "B2", Quantity: 4, ItemCount: 1}, report.ByCodeTotals[1])
}

func TestGroupItems_TotalsSortedByQuantityDescending(t *testing.T) {
	owner := id.New()
	items := []inventory.Item{
		item("C3", 5, owner),
		item("A1", 5, owner),
		item("B2", 50, owner),
	}

	report := GroupItems(items, nil)

	require.Len(t, report.ByCodeTotals, 3)
	assert.Equal(t, "B2", report.ByCodeTotals[0].ShortCode)
	// Equal quantities fall back to short code order.
	assert.Equal(t, "A1", report.ByCodeTotals[1].ShortCode)
	assert.Equal(t, "C3", report.ByCodeTotals[2].ShortCode)
}

func TestGroupItems_UnknownOwnerStillGroups(t *testing.T) {
	ghost := id.New()
	items := []inventory.Item{
		item("A1", 2, ghost),
		item("A1", 3, ghost),
	}

	report := GroupItems(items, map[id.ID]string{})

	require.Len(t, report.ByCodeAndOwner, 1)
	assert.Empty(t, report.ByCodeAndOwner[0].OwnerName)
	assert.Equal(t, int64(5), report.ByCodeAndOwner[0].Quantity)
}

func TestGroupItems_Empty(t *testing.T) {
	report := GroupItems(nil, nil)
	assert.Empty(t, report.ByCodeAndOwner)
	assert.Empty(t, report.ByCodeTotals)
}
