package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/itemchain/pkg/auth"
	"github.com/ghuser/itemchain/pkg/httpx"
	domainevents "github.com/ghuser/itemchain/services/item/domain/events"
	"github.com/ghuser/itemchain/services/item/domain/models"
)

// ItemResponse is the public representation of an item record.
type ItemResponse struct {
	Index      int64     `json:"index"       example:"0"`
	Identifier string    `json:"identifier"  example:"Test Item"`
	Price      int64     `json:"price"       example:"100"`
	State      int       `json:"state"       example:"0"`
	StateName  string    `json:"state_name"  example:"created"`
	EscrowID   uuid.UUID `json:"escrow_id"   example:"550e8400-e29b-41d4-a716-446655440000"`
	CreatedAt  time.Time `json:"created_at"  example:"2024-01-15T10:30:00Z"`
	UpdatedAt  time.Time `json:"updated_at"  example:"2024-01-15T10:30:00Z"`
} // @name ItemResponse

// EscrowResponse is the public representation of an escrow unit.
type EscrowResponse struct {
	ID             uuid.UUID `json:"id"              example:"550e8400-e29b-41d4-a716-446655440000"`
	ItemIndex      int64     `json:"item_index"      example:"0"`
	ExpectedPrice  int64     `json:"expected_price"  example:"100"`
	AmountReceived int64     `json:"amount_received" example:"0"`
	Settled        bool      `json:"settled"         example:"false"`
} // @name EscrowResponse

// EventResponse is one SupplyChainSetup lifecycle event.
type EventResponse struct {
	EventID    uuid.UUID `json:"event_id"    example:"123e4567-e89b-12d3-a456-426614174000"`
	Version    int       `json:"version"     example:"1"`
	ItemIndex  int64     `json:"item_index"  example:"0"`
	State      int       `json:"state"       example:"1"`
	EscrowID   uuid.UUID `json:"escrow_id"   example:"550e8400-e29b-41d4-a716-446655440000"`
	OccurredAt time.Time `json:"occurred_at" example:"2024-01-15T10:31:00Z"`
} // @name EventResponse

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error  string `json:"error"            example:"only full payments accepted"`
	Kind   string `json:"kind,omitempty"   example:"invalid_amount"`
	Detail string `json:"detail,omitempty" example:"item 0 costs 100, got 10"`
} // @name ErrorResponse

func toItemResponse(item *models.Item) ItemResponse {
	return ItemResponse{
		Index:      item.Index,
		Identifier: item.Identifier,
		Price:      item.Price.Int64(),
		State:      int(item.State),
		StateName:  item.State.String(),
		EscrowID:   item.EscrowID,
		CreatedAt:  item.CreatedAt,
		UpdatedAt:  item.UpdatedAt,
	}
}

func toEscrowResponse(escrow *models.Escrow) EscrowResponse {
	return EscrowResponse{
		ID:             escrow.ID,
		ItemIndex:      escrow.ItemIndex,
		ExpectedPrice:  escrow.ExpectedPrice.Int64(),
		AmountReceived: escrow.AmountReceived,
		Settled:        escrow.IsSettled(),
	}
}

func toEventResponse(evt domainevents.SupplyChainSetupEvent) EventResponse {
	return EventResponse{
		EventID:    evt.EventID,
		Version:    evt.Version,
		ItemIndex:  evt.ItemIndex,
		State:      evt.State,
		EscrowID:   evt.EscrowID,
		OccurredAt: evt.OccurredAt,
	}
}

// callerIdentity returns the authenticated caller, writing a 401 when the
// request carries none.
func callerIdentity(w http.ResponseWriter, r *http.Request) (models.Identity, bool) {
	identity, err := auth.IdentityFromCtx(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "authentication required")
		return "", false
	}
	return models.Identity(identity), true
}
