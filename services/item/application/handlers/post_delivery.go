package handlers

import (
	"net/http"

	"github.com/ghuser/itemchain/pkg/errhttp"
	"github.com/ghuser/itemchain/pkg/httpx"
	pkgvalidator "github.com/ghuser/itemchain/pkg/validator"
	appsvcs "github.com/ghuser/itemchain/services/item/application/services"
)

// PostDeliveryHandler handles POST /item/{index}/delivery requests.
type PostDeliveryHandler struct {
	svc          *appsvcs.Services
	isProduction bool
}

// NewPostDeliveryHandler returns a PostDeliveryHandler backed by the given services.
func NewPostDeliveryHandler(svc *appsvcs.Services, isProduction bool) *PostDeliveryHandler {
	return &PostDeliveryHandler{svc: svc, isProduction: isProduction}
}

// Execute confirms delivery of a paid item. Only the registry owner may call it.
//
//	@Summary		Deliver item
//	@Description	Advances a Paid item to Delivered; restricted to the registry owner
//	@Tags			items
//	@Produce		json
//	@Param			index	path		int	true	"Item index"
//	@Success		200		{object}	ItemResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Router			/item/{index}/delivery [post]
func (h *PostDeliveryHandler) Execute(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	index, ok := pkgvalidator.PathInt64(w, r, "index")
	if !ok {
		return
	}

	item, err := h.svc.Item.TriggerDelivery(r.Context(), index, caller)
	if err != nil {
		errhttp.WriteError(w, err, h.isProduction)
		return
	}

	httpx.JSON(w, http.StatusOK, toItemResponse(item))
}
