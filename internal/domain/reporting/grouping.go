// Package reporting builds grouped summary views over the item catalog.
// Grouping is pure computation over already-loaded items; visibility
// filtering happens upstream in the inventory service.
package reporting

import (
	"sort"

	"stocktrack/internal/core/id"
	"stocktrack/internal/domain/inventory"
)

// OwnerGroup is one (short code, owner) bucket with its summed quantity.
type OwnerGroup struct {
	ShortCode string `json:"shortCode"`
	OwnerID   id.ID  `json:"ownerId"`
	OwnerName string `json:"ownerName"`
	Quantity  int64  `json:"quantity"`
	ItemCount int    `json:"itemCount"`
}

// CodeGroup is one short-code bucket summed across all owners.
type CodeGroup struct {
	ShortCode string `json:"shortCode"`
	Quantity  int64  `json:"quantity"`
	ItemCount int    `json:"itemCount"`
}

// GroupedReport holds both grouping views over the same item set.
type GroupedReport struct {
	ByCodeAndOwner []OwnerGroup `json:"byCodeAndOwner"`
	ByCodeTotals   []CodeGroup  `json:"byCodeTotals"`
}

// GroupItems builds both report views. ownerNames maps account IDs to
// display names; unknown owners get an empty name but still group
// correctly by ID.
//
// ByCodeAndOwner is sorted by short code then owner name, both ascending.
// Name before ID keeps the rows readable when rendered as a table; the
// owner ID is the final tie-breaker so the order stays total even when
// two accounts share a display name.
// ByCodeTotals is sorted by quantity descending, short code ascending as
// the tie-breaker.
func GroupItems(items []inventory.Item, ownerNames map[id.ID]string) GroupedReport {
	type ownerKey struct {
		shortCode string
		ownerID   id.ID
	}

	owners := make(map[ownerKey]*OwnerGroup)
	codes := make(map[string]*CodeGroup)

	for _, item := range items {
		ok := ownerKey{shortCode: item.ShortCode, ownerID: item.CreatedBy}
		og, found := owners[ok]
		if !found {
			og = &OwnerGroup{
				ShortCode: item.ShortCode,
				OwnerID:   item.CreatedBy,
				OwnerName: ownerNames[item.CreatedBy],
			}
			owners[ok] = og
		}
		og.Quantity += item.Quantity
		og.ItemCount++

		cg, found := codes[item.ShortCode]
		if !found {
			cg = &CodeGroup{ShortCode: item.ShortCode}
			codes[item.ShortCode] = cg
		}
		cg.Quantity += item.Quantity
		cg.ItemCount++
	}

	report := GroupedReport{
		ByCodeAndOwner: make([]OwnerGroup, 0, len(owners)),
		ByCodeTotals:   make([]CodeGroup, 0, len(codes)),
	}
	for _, og := range owners {
		report.ByCodeAndOwner = append(report.ByCodeAndOwner, *og)
	}
	for _, cg := range codes {
		report.ByCodeTotals = append(report.ByCodeTotals, *cg)
	}

	sort.Slice(report.ByCodeAndOwner, func(i, j int) bool {
		a, b := report.ByCodeAndOwner[i], report.ByCodeAndOwner[j]
		if a.ShortCode != b.ShortCode {
			return a.ShortCode < b.ShortCode
		}
		if a.OwnerName != b.OwnerName {
			return a.OwnerName < b.OwnerName
		}
		return a.OwnerID.String() < b.OwnerID.String()
	})
	sort.Slice(report.ByCodeTotals, func(i, j int) bool {
		a, b := report.ByCodeTotals[i], report.ByCodeTotals[j]
		if a.Quantity != b.Quantity {
			return a.Quantity > b.Quantity
		}
		return a.ShortCode < b.ShortCode
	})
	return report
}
