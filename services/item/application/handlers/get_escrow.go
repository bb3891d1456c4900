package handlers

import (
	"net/http"

	"github.com/ghuser/itemchain/pkg/errhttp"
	"github.com/ghuser/itemchain/pkg/httpx"
	pkgvalidator "github.com/ghuser/itemchain/pkg/validator"
	appsvcs "github.com/ghuser/itemchain/services/item/application/services"
)

// GetEscrowHandler handles GET /escrow/{id} requests.
type GetEscrowHandler struct {
	svc          *appsvcs.Services
	isProduction bool
}

// NewGetEscrowHandler returns a GetEscrowHandler backed by the given services.
func NewGetEscrowHandler(svc *appsvcs.Services, isProduction bool) *GetEscrowHandler {
	return &GetEscrowHandler{svc: svc, isProduction: isProduction}
}

// Execute returns an escrow's received amount and settlement state.
//
//	@Summary		Get escrow
//	@Tags			escrows
//	@Produce		json
//	@Param			id	path		string	true	"Escrow ID"	format(uuid)
//	@Success		200	{object}	EscrowResponse
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/escrow/{id} [get]
func (h *GetEscrowHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, ok := pkgvalidator.PathUUID(w, r, "id")
	if !ok {
		return
	}

	escrow, err := h.svc.Item.GetEscrow(r.Context(), id)
	if err != nil {
		errhttp.WriteError(w, err, h.isProduction)
		return
	}

	httpx.JSON(w, http.StatusOK, toEscrowResponse(escrow))
}
