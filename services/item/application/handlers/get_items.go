package handlers

import (
	"net/http"

	"github.com/ghuser/itemchain/pkg/errhttp"
	"github.com/ghuser/itemchain/pkg/httpx"
	pkgvalidator "github.com/ghuser/itemchain/pkg/validator"
	appsvcs "github.com/ghuser/itemchain/services/item/application/services"
	"github.com/ghuser/itemchain/services/item/domain/repositories"
)

// ListItemsResponse is one page of items plus the registry's item count.
type ListItemsResponse struct {
	Items  []ItemResponse `json:"items"`
	Count  int64          `json:"count"  example:"1"`
	Limit  int            `json:"limit"  example:"20"`
	Offset int            `json:"offset" example:"0"`
} // @name ListItemsResponse

// GetItemsHandler handles GET /item requests.
type GetItemsHandler struct {
	svc          *appsvcs.Services
	isProduction bool
}

// NewGetItemsHandler returns a GetItemsHandler backed by the given services.
func NewGetItemsHandler(svc *appsvcs.Services, isProduction bool) *GetItemsHandler {
	return &GetItemsHandler{svc: svc, isProduction: isProduction}
}

// Execute lists items in index order.
//
//	@Summary		List items
//	@Description	Returns a page of items in creation order and the total item count
//	@Tags			items
//	@Produce		json
//	@Param			limit	query		int	false	"Page size (1-100)"	default(20)
//	@Param			offset	query		int	false	"Items to skip"		default(0)
//	@Success		200		{object}	ListItemsResponse
//	@Failure		400		{object}	ErrorResponse
//	@Router			/item [get]
func (h *GetItemsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	limit, ok := pkgvalidator.QueryInt(w, r, "limit", appsvcs.DefaultPageSize, 1, appsvcs.MaxPageSize)
	if !ok {
		return
	}
	offset, ok := pkgvalidator.QueryInt(w, r, "offset", 0, 0, 1<<31-1)
	if !ok {
		return
	}

	items, total, err := h.svc.Item.List(r.Context(), repositories.QueryOpts{Limit: limit, Offset: offset})
	if err != nil {
		errhttp.WriteError(w, err, h.isProduction)
		return
	}

	resp := ListItemsResponse{
		Items:  make([]ItemResponse, len(items)),
		Count:  total,
		Limit:  limit,
		Offset: offset,
	}
	for i, item := range items {
		resp.Items[i] = toItemResponse(item)
	}
	httpx.JSON(w, http.StatusOK, resp)
}
