package dto

import (
	"time"

	"stocktrack/internal/domain/inventory"
)

// CreateItemRequest carries fields for item creation.
type CreateItemRequest struct {
	ShortCode   string `json:"shortCode" binding:"required"`
	FullCode    string `json:"fullCode" binding:"required"`
	Description string `json:"description" binding:"required"`
	Quantity    int64  `json:"quantity" binding:"gte=0"`
}

// UpdateItemRequest carries fields for item edits.
type UpdateItemRequest struct {
	ShortCode   string `json:"shortCode" binding:"required"`
	FullCode    string `json:"fullCode" binding:"required"`
	Description string `json:"description" binding:"required"`
	Quantity    int64  `json:"quantity" binding:"gte=0"`
}

// ItemResponse is the item shape returned by the API.
type ItemResponse struct {
	ID          string    `json:"id"`
	ShortCode   string    `json:"shortCode"`
	FullCode    string    `json:"fullCode"`
	Description string    `json:"description"`
	Quantity    int64     `json:"quantity"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	CreatedBy   string    `json:"createdBy"`
	UpdatedBy   string    `json:"updatedBy"`
}

// FromItem maps a domain item to the response shape.
func FromItem(i *inventory.Item) ItemResponse {
	return ItemResponse{
		ID:          i.ID.String(),
		ShortCode:   i.ShortCode,
		FullCode:    i.FullCode,
		Description: i.Description,
		Quantity:    i.Quantity,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
		CreatedBy:   i.CreatedBy.String(),
		UpdatedBy:   i.UpdatedBy.String(),
	}
}

// FromItems maps a slice of items.
func FromItems(list []inventory.Item) []ItemResponse {
	out := make([]ItemResponse, 0, len(list))
	for i := range list {
		out = append(out, FromItem(&list[i]))
	}
	return out
}
