package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/legalese-navigator/portal-backend/shared/utils"
	"github.com/legalese-navigator/portal-backend/v1/middleware"
)

// handleTemplates handles document template catalog routes
func (h *V1Handler) handleTemplates(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/templates")
	parts := strings.Split(strings.Trim(path, "/"), "/")

	// Handle collection endpoint: GET /api/v1/templates
	if len(parts) == 1 && parts[0] == "" {
		if r.Method != http.MethodGet {
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		h.getTemplates(w, r)
		return
	}

	if len(parts) < 1 || parts[0] == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Template ID is required")
		return
	}

	templateId, err := strconv.Atoi(parts[0])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Template ID must be numeric")
		return
	}

	// Handle single template endpoint: GET /api/v1/templates/:templateId
	if len(parts) == 1 {
		if r.Method != http.MethodGet {
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		h.getTemplate(w, r, templateId)
		return
	}

	// Handle download endpoint: POST /api/v1/templates/:templateId/download
	if len(parts) == 2 && parts[1] == "download" {
		if r.Method != http.MethodPost {
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		h.downloadTemplate(w, r, templateId)
		return
	}

	utils.RespondWithError(w, http.StatusNotFound, "Endpoint not found")
}

func (h *V1Handler) getTemplates(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	category := r.URL.Query().Get("category")

	templates := h.templateService.GetTemplates(search, category)
	utils.RespondWithSuccess(w, http.StatusOK, utils.CreateCollectionResponse(templates, len(templates)))
}

func (h *V1Handler) getTemplate(w http.ResponseWriter, r *http.Request, templateId int) {
	template, err := h.templateService.GetTemplate(templateId)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, template)
}

func (h *V1Handler) downloadTemplate(w http.ResponseWriter, r *http.Request, templateId int) {
	user, err := middleware.GetUserFromRequest(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	download, err := h.templateService.DownloadTemplate(templateId, user.Email)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, download)
}
