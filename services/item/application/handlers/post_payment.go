package handlers

import (
	"net/http"

	"github.com/ghuser/itemchain/pkg/errhttp"
	"github.com/ghuser/itemchain/pkg/httpx"
	pkgvalidator "github.com/ghuser/itemchain/pkg/validator"
	appsvcs "github.com/ghuser/itemchain/services/item/application/services"
)

// PaymentRequest carries the value transferred with a payment or deposit.
type PaymentRequest struct {
	Value *int64 `json:"value" validate:"required" example:"100"`
} // @name PaymentRequest

// PostPaymentHandler handles POST /item/{index}/payment requests.
type PostPaymentHandler struct {
	svc          *appsvcs.Services
	isProduction bool
}

// NewPostPaymentHandler returns a PostPaymentHandler backed by the given services.
func NewPostPaymentHandler(svc *appsvcs.Services, isProduction bool) *PostPaymentHandler {
	return &PostPaymentHandler{svc: svc, isProduction: isProduction}
}

// Execute pays for an item through the registry.
//
//	@Summary		Pay for item
//	@Description	Pays exactly the item price into its escrow and advances the item from Created to Paid
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Param			index	path		int				true	"Item index"
//	@Param			request	body		PaymentRequest	true	"Payment"
//	@Success		200		{object}	ItemResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/item/{index}/payment [post]
func (h *PostPaymentHandler) Execute(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	index, ok := pkgvalidator.PathInt64(w, r, "index")
	if !ok {
		return
	}
	req, ok := pkgvalidator.ValidateRequest[PaymentRequest](w, r)
	if !ok {
		return
	}

	item, err := h.svc.Item.TriggerPayment(r.Context(), index, *req.Value, caller)
	if err != nil {
		errhttp.WriteError(w, err, h.isProduction)
		return
	}

	httpx.JSON(w, http.StatusOK, toItemResponse(item))
}
