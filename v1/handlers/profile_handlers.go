package handlers

import (
	"net/http"

	"github.com/legalese-navigator/portal-backend/shared/utils"
	"github.com/legalese-navigator/portal-backend/v1/middleware"
)

// handleMe returns the authenticated user's profile as derived from the
// verified token, so the dashboard never parses the JWT itself
func (h *V1Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	user, err := middleware.GetUserFromRequest(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, user)
}
