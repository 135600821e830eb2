package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/legalese-navigator/portal-backend/shared/utils"
	"github.com/legalese-navigator/portal-backend/v1/middleware"
	"github.com/legalese-navigator/portal-backend/v1/models"
)

// handleAdmin handles admin console routes
func (h *V1Handler) handleAdmin(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/admin")
	parts := strings.Split(strings.Trim(path, "/"), "/")

	if len(parts) < 1 || parts[0] == "" {
		utils.RespondWithError(w, http.StatusNotFound, "Endpoint not found")
		return
	}

	switch parts[0] {
	case "stats":
		if len(parts) == 1 && r.Method == http.MethodGet {
			h.getDashboardStats(w, r)
			return
		}
	case "activity":
		if len(parts) == 1 && r.Method == http.MethodGet {
			h.getActivityLog(w, r)
			return
		}
	case "system-status":
		if len(parts) == 1 && r.Method == http.MethodGet {
			h.getSystemStatus(w, r)
			return
		}
	case "users":
		h.handleAdminUsers(w, r, parts[1:])
		return
	}

	utils.RespondWithError(w, http.StatusNotFound, "Endpoint not found")
}

// handleAdminUsers handles the user directory routes under /api/v1/admin/users
func (h *V1Handler) handleAdminUsers(w http.ResponseWriter, r *http.Request, parts []string) {
	// Collection endpoint: GET and POST /api/v1/admin/users
	if len(parts) == 0 {
		switch r.Method {
		case http.MethodGet:
			h.getUsers(w, r)
		case http.MethodPost:
			h.createAdmin(w, r)
		default:
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	userId := parts[0]
	if userId == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "User ID is required")
		return
	}

	// Status endpoint: PUT /api/v1/admin/users/:userId/status
	if len(parts) == 2 && parts[1] == "status" {
		if r.Method != http.MethodPut {
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		h.setUserStatus(w, r, userId)
		return
	}

	utils.RespondWithError(w, http.StatusNotFound, "Endpoint not found")
}

func (h *V1Handler) getDashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.adminService.GetDashboardStats(r.Context())
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, stats)
}

func (h *V1Handler) getActivityLog(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if limitParam := r.URL.Query().Get("limit"); limitParam != "" {
		parsed, err := strconv.Atoi(limitParam)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Limit must be numeric")
			return
		}
		limit = parsed
	}

	entries, err := h.activityService.GetActivities(limit)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, utils.CreateCollectionResponse(entries, len(entries)))
}

func (h *V1Handler) getSystemStatus(w http.ResponseWriter, r *http.Request) {
	entries, err := h.activityService.GetSystemStatus()
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, utils.CreateCollectionResponse(entries, len(entries)))
}

func (h *V1Handler) getUsers(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")

	users, err := h.adminService.GetUsers(r.Context(), search)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, utils.CreateCollectionResponse(users, len(users)))
}

func (h *V1Handler) setUserStatus(w http.ResponseWriter, r *http.Request, userId string) {
	user, err := middleware.GetUserFromRequest(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	// Admins cannot ban themselves; the console would lock out its operator
	if userId == user.IdpUserID {
		utils.RespondWithError(w, http.StatusBadRequest, "Cannot change the status of your own account")
		return
	}

	var req models.UserStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.adminService.SetUserStatus(r.Context(), userId, &req, user.Email); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, map[string]string{"message": "User status updated"})
}

func (h *V1Handler) createAdmin(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromRequest(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.CreateAdminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := h.adminService.CreateAdmin(r.Context(), &req, user.Email)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondWithSuccess(w, http.StatusCreated, created)
}
