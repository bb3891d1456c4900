package handlers

import (
	"net/http"

	"github.com/ghuser/itemchain/pkg/errhttp"
	"github.com/ghuser/itemchain/pkg/httpx"
	pkgvalidator "github.com/ghuser/itemchain/pkg/validator"
	appsvcs "github.com/ghuser/itemchain/services/item/application/services"
)

// CreateItemRequest is the request body for POST /item.
type CreateItemRequest struct {
	Identifier string `json:"identifier" example:"Test Item"`
	Price      *int64 `json:"price"      validate:"required" example:"100"`
} // @name CreateItemRequest

// PostItemHandler handles POST /item requests.
type PostItemHandler struct {
	svc          *appsvcs.Services
	isProduction bool
}

// NewPostItemHandler returns a PostItemHandler backed by the given services.
func NewPostItemHandler(svc *appsvcs.Services, isProduction bool) *PostItemHandler {
	return &PostItemHandler{svc: svc, isProduction: isProduction}
}

// Execute registers a new item with its own escrow.
//
//	@Summary		Create item
//	@Description	Registers an item in state Created at the next index, with an escrow expecting exactly its price
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateItemRequest	true	"Item creation request"
//	@Success		201		{object}	ItemResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/item [post]
func (h *PostItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	if _, ok := callerIdentity(w, r); !ok {
		return
	}

	req, ok := pkgvalidator.ValidateRequest[CreateItemRequest](w, r)
	if !ok {
		return
	}

	item, err := h.svc.Item.Create(r.Context(), req.Identifier, *req.Price)
	if err != nil {
		errhttp.WriteError(w, err, h.isProduction)
		return
	}

	httpx.JSON(w, http.StatusCreated, toItemResponse(item))
}
