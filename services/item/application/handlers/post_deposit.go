package handlers

import (
	"net/http"

	"github.com/ghuser/itemchain/pkg/errhttp"
	"github.com/ghuser/itemchain/pkg/httpx"
	pkgvalidator "github.com/ghuser/itemchain/pkg/validator"
	appsvcs "github.com/ghuser/itemchain/services/item/application/services"
)

// PostDepositHandler handles POST /escrow/{id}/deposit requests.
type PostDepositHandler struct {
	svc          *appsvcs.Services
	isProduction bool
}

// NewPostDepositHandler returns a PostDepositHandler backed by the given services.
func NewPostDepositHandler(svc *appsvcs.Services, isProduction bool) *PostDepositHandler {
	return &PostDepositHandler{svc: svc, isProduction: isProduction}
}

// Execute transfers value directly into an escrow.
//
//	@Summary		Deposit into escrow
//	@Description	Transfers value straight into an escrow; on acceptance the owning item advances to Paid
//	@Tags			escrows
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Escrow ID"	format(uuid)
//	@Param			request	body		PaymentRequest	true	"Deposit"
//	@Success		200		{object}	EscrowResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/escrow/{id}/deposit [post]
func (h *PostDepositHandler) Execute(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	id, ok := pkgvalidator.PathUUID(w, r, "id")
	if !ok {
		return
	}
	req, ok := pkgvalidator.ValidateRequest[PaymentRequest](w, r)
	if !ok {
		return
	}

	escrow, err := h.svc.Item.DepositToEscrow(r.Context(), id, *req.Value, caller)
	if err != nil {
		errhttp.WriteError(w, err, h.isProduction)
		return
	}

	httpx.JSON(w, http.StatusOK, toEscrowResponse(escrow))
}
