package dto

import (
	"time"

	"stocktrack/internal/domain/inventory"
)

// ApplyMovementRequest records one IN or OUT movement against an item.
type ApplyMovementRequest struct {
	Direction  string     `json:"direction" binding:"required,oneof=IN OUT"`
	Quantity   int64      `json:"quantity" binding:"required,gt=0"`
	Note       string     `json:"note"`
	OccurredAt *time.Time `json:"occurredAt"`
}

// MovementResponse is a single ledger entry.
type MovementResponse struct {
	ID         string    `json:"id"`
	ItemID     string    `json:"itemId"`
	Direction  string    `json:"direction"`
	Quantity   int64     `json:"quantity"`
	OccurredAt time.Time `json:"occurredAt"`
	Note       string    `json:"note,omitempty"`
	RecordedBy string    `json:"recordedBy"`
}

// ApplyMovementResponse returns the recorded movement and the updated item.
type ApplyMovementResponse struct {
	Movement MovementResponse `json:"movement"`
	Item     ItemResponse     `json:"item"`
}

// FromMovement maps a domain movement to the response shape.
func FromMovement(m *inventory.Movement) MovementResponse {
	return MovementResponse{
		ID:         m.ID.String(),
		ItemID:     m.ItemID.String(),
		Direction:  string(m.Direction),
		Quantity:   m.Quantity,
		OccurredAt: m.OccurredAt,
		Note:       m.Note,
		RecordedBy: m.RecordedBy.String(),
	}
}

// FromMovements maps a slice of movements.
func FromMovements(list []inventory.Movement) []MovementResponse {
	out := make([]MovementResponse, 0, len(list))
	for i := range list {
		out = append(out, FromMovement(&list[i]))
	}
	return out
}
