package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/legalese-navigator/portal-backend/shared/utils"
	"github.com/legalese-navigator/portal-backend/v1/middleware"
	"github.com/legalese-navigator/portal-backend/v1/models"
	"gorm.io/gorm"
)

// handleConsultations handles consultation-related routes
func (h *V1Handler) handleConsultations(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/consultations")
	parts := strings.Split(strings.Trim(path, "/"), "/")

	// Handle collection endpoint: GET /api/v1/consultations and POST /api/v1/consultations
	if len(parts) == 1 && parts[0] == "" {
		switch r.Method {
		case http.MethodGet:
			h.getAllConsultations(w, r)
		case http.MethodPost:
			h.createConsultation(w, r, false)
		default:
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	if len(parts) < 1 || parts[0] == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Consultation ID is required")
		return
	}

	consultationId := parts[0]

	// Handle base consultation endpoint: GET and DELETE /api/v1/consultations/:consultationId
	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			h.getConsultation(w, r, consultationId)
		case http.MethodDelete:
			h.deleteConsultation(w, r, consultationId)
		default:
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	// Handle decision endpoint: PUT /api/v1/consultations/:consultationId/decision
	if len(parts) == 2 && parts[1] == "decision" {
		if r.Method != http.MethodPut {
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		h.decideConsultation(w, r, consultationId)
		return
	}

	utils.RespondWithError(w, http.StatusNotFound, "Endpoint not found")
}

// createConsultation handles intake from both the public form and the
// authenticated dashboard. Authenticated submissions get the caller's user
// ID attached so decision notifications can reach them.
func (h *V1Handler) createConsultation(w http.ResponseWriter, r *http.Request, public bool) {
	var req models.CreateConsultationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if public {
		// Anonymous intake never carries a user binding, whatever the
		// payload claims
		req.UserID = nil
	} else {
		user, err := middleware.GetUserFromRequest(r)
		if err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		req.UserID = &user.IdpUserID
	}

	consultation, err := h.consultationService.CreateConsultation(&req)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondWithSuccess(w, http.StatusCreated, consultation)
}

// getAllConsultations lists consultations. Admin and system callers see all
// rows and may filter; members are scoped to their own submissions.
func (h *V1Handler) getAllConsultations(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromRequest(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	filter := &models.ConsultationFilter{}

	if statusParam := r.URL.Query().Get("status"); statusParam != "" {
		status := models.ConsultationStatus(statusParam)
		if !status.IsValid() {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid status filter")
			return
		}
		filter.Status = &status
	}

	if search := r.URL.Query().Get("search"); search != "" {
		filter.Search = &search
	}

	if user.HasPermission(models.PermissionReadAllConsultations) {
		if userId := r.URL.Query().Get("userId"); userId != "" {
			filter.UserID = &userId
		}
	} else {
		filter.UserID = &user.IdpUserID
	}

	consultations, err := h.consultationService.GetConsultations(filter)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, utils.CreateCollectionResponse(consultations, len(consultations)))
}

func (h *V1Handler) getConsultation(w http.ResponseWriter, r *http.Request, consultationId string) {
	user, err := middleware.GetUserFromRequest(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	consultation, err := h.consultationService.GetConsultation(consultationId)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Consultation not found")
		return
	}

	// Members can only read their own submissions
	if !user.HasPermission(models.PermissionReadAllConsultations) {
		if consultation.UserID == nil || *consultation.UserID != user.IdpUserID {
			utils.RespondWithError(w, http.StatusForbidden, "Access denied to this resource")
			return
		}
	}

	utils.RespondWithSuccess(w, http.StatusOK, consultation)
}

func (h *V1Handler) decideConsultation(w http.ResponseWriter, r *http.Request, consultationId string) {
	user, err := middleware.GetUserFromRequest(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	if !user.HasPermission(models.PermissionDecideConsultation) {
		utils.RespondWithError(w, http.StatusForbidden, "Insufficient permissions")
		return
	}

	var req models.DecideConsultationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	consultation, err := h.consultationService.DecideConsultation(consultationId, &req, user.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Consultation not found")
			return
		}
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, consultation)
}

func (h *V1Handler) deleteConsultation(w http.ResponseWriter, r *http.Request, consultationId string) {
	user, err := middleware.GetUserFromRequest(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	if !user.HasPermission(models.PermissionDeleteConsultation) {
		utils.RespondWithError(w, http.StatusForbidden, "Insufficient permissions")
		return
	}

	if err := h.consultationService.DeleteConsultation(consultationId, user.Email); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Consultation not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, map[string]string{"message": "Consultation deleted"})
}
