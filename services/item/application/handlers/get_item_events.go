package handlers

import (
	"net/http"

	"github.com/ghuser/itemchain/pkg/errhttp"
	"github.com/ghuser/itemchain/pkg/httpx"
	pkgvalidator "github.com/ghuser/itemchain/pkg/validator"
	appsvcs "github.com/ghuser/itemchain/services/item/application/services"
)

// GetItemEventsHandler handles GET /item/{index}/events requests.
type GetItemEventsHandler struct {
	svc          *appsvcs.Services
	isProduction bool
}

// NewGetItemEventsHandler returns a GetItemEventsHandler backed by the given services.
func NewGetItemEventsHandler(svc *appsvcs.Services, isProduction bool) *GetItemEventsHandler {
	return &GetItemEventsHandler{svc: svc, isProduction: isProduction}
}

// Execute returns the item's lifecycle events in emission order.
//
//	@Summary		List item events
//	@Tags			items
//	@Produce		json
//	@Param			index	path		int	true	"Item index"
//	@Success		200		{array}		EventResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/item/{index}/events [get]
func (h *GetItemEventsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	index, ok := pkgvalidator.PathInt64(w, r, "index")
	if !ok {
		return
	}

	evts, err := h.svc.Item.Events(r.Context(), index)
	if err != nil {
		errhttp.WriteError(w, err, h.isProduction)
		return
	}

	resp := make([]EventResponse, len(evts))
	for i, evt := range evts {
		resp[i] = toEventResponse(evt)
	}
	httpx.JSON(w, http.StatusOK, resp)
}
