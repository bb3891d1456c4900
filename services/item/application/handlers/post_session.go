package handlers

import (
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/ghuser/itemchain/pkg/auth"
	"github.com/ghuser/itemchain/pkg/httpx"
	"github.com/ghuser/itemchain/pkg/logger"
	pkgvalidator "github.com/ghuser/itemchain/pkg/validator"
)

// SessionRequest is the request body for POST /session.
type SessionRequest struct {
	Identity string `json:"identity" validate:"required,notblank,printable,max=256" example:"registry-owner"`
} // @name SessionRequest

// SessionResponse echoes the identity bound to the new session.
type SessionResponse struct {
	Identity string `json:"identity" example:"registry-owner"`
} // @name SessionResponse

// PostSessionHandler handles POST /session requests. It binds any claimed
// identity to the caller's session and is only mounted in development.
type PostSessionHandler struct {
	store sessions.Store
	log   logger.Logger
}

// NewPostSessionHandler returns a PostSessionHandler writing to store.
func NewPostSessionHandler(store sessions.Store, log logger.Logger) *PostSessionHandler {
	return &PostSessionHandler{store: store, log: log}
}

// Execute establishes a session for the given identity.
//
//	@Summary		Open session
//	@Description	Development only: binds the supplied caller identity to a session cookie
//	@Tags			session
//	@Accept			json
//	@Produce		json
//	@Param			request	body		SessionRequest	true	"Caller identity"
//	@Success		200		{object}	SessionResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/session [post]
func (h *PostSessionHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[SessionRequest](w, r)
	if !ok {
		return
	}

	if err := auth.Login(w, r, h.store, req.Identity); err != nil {
		h.log.ErrorContext(r.Context(), "failed to open session", "error", err)
		httpx.JSONError(w, http.StatusInternalServerError, "failed to open session")
		return
	}

	h.log.InfoContext(r.Context(), "session opened", "caller", req.Identity)
	httpx.JSON(w, http.StatusOK, SessionResponse{Identity: req.Identity})
}
