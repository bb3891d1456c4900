package handlers

import (
	"net/http"

	"github.com/ghuser/itemchain/pkg/errhttp"
	"github.com/ghuser/itemchain/pkg/httpx"
	pkgvalidator "github.com/ghuser/itemchain/pkg/validator"
	appsvcs "github.com/ghuser/itemchain/services/item/application/services"
)

// GetItemHandler handles GET /item/{index} requests.
type GetItemHandler struct {
	svc          *appsvcs.Services
	isProduction bool
}

// NewGetItemHandler returns a GetItemHandler backed by the given services.
func NewGetItemHandler(svc *appsvcs.Services, isProduction bool) *GetItemHandler {
	return &GetItemHandler{svc: svc, isProduction: isProduction}
}

// Execute returns one item record.
//
//	@Summary		Get item
//	@Tags			items
//	@Produce		json
//	@Param			index	path		int	true	"Item index"
//	@Success		200		{object}	ItemResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/item/{index} [get]
func (h *GetItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	index, ok := pkgvalidator.PathInt64(w, r, "index")
	if !ok {
		return
	}

	item, err := h.svc.Item.GetByIndex(r.Context(), index)
	if err != nil {
		errhttp.WriteError(w, err, h.isProduction)
		return
	}

	httpx.JSON(w, http.StatusOK, toItemResponse(item))
}
