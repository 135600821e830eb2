package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/legalese-navigator/portal-backend/shared/utils"
	"github.com/legalese-navigator/portal-backend/v1/middleware"
	"gorm.io/gorm"
)

// handleNotifications handles notification-related routes. Every operation
// is scoped to the authenticated user; there is no cross-user access, admin
// or otherwise.
func (h *V1Handler) handleNotifications(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromRequest(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/v1/notifications")
	parts := strings.Split(strings.Trim(path, "/"), "/")

	// Handle collection endpoint: GET /api/v1/notifications
	if len(parts) == 1 && parts[0] == "" {
		if r.Method != http.MethodGet {
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		h.getNotifications(w, r, user.IdpUserID)
		return
	}

	if len(parts) < 1 || parts[0] == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Notification ID is required")
		return
	}

	// Handle realtime endpoint: GET /api/v1/notifications/stream
	if len(parts) == 1 && parts[0] == "stream" {
		if r.Method != http.MethodGet {
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		h.hub.ServeWS(w, r)
		return
	}

	// Handle bulk endpoint: PUT /api/v1/notifications/read-all
	if len(parts) == 1 && parts[0] == "read-all" {
		if r.Method != http.MethodPut {
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		h.markAllNotificationsRead(w, r, user.IdpUserID)
		return
	}

	notificationId := parts[0]

	// Handle single-row endpoint: DELETE /api/v1/notifications/:notificationId
	if len(parts) == 1 {
		if r.Method != http.MethodDelete {
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		h.deleteNotification(w, r, notificationId, user.IdpUserID)
		return
	}

	// Handle read endpoint: PUT /api/v1/notifications/:notificationId/read
	if len(parts) == 2 && parts[1] == "read" {
		if r.Method != http.MethodPut {
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		h.markNotificationRead(w, r, notificationId, user.IdpUserID)
		return
	}

	utils.RespondWithError(w, http.StatusNotFound, "Endpoint not found")
}

func (h *V1Handler) getNotifications(w http.ResponseWriter, r *http.Request, userID string) {
	notifications, err := h.notificationService.GetNotificationsForUser(userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	unread, err := h.notificationService.GetUnreadCount(userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	response := utils.CreateCollectionResponse(notifications, len(notifications))
	response["unreadCount"] = unread
	utils.RespondWithSuccess(w, http.StatusOK, response)
}

func (h *V1Handler) markNotificationRead(w http.ResponseWriter, r *http.Request, notificationId, userID string) {
	notification, err := h.notificationService.MarkRead(notificationId, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Notification not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, notification)
}

func (h *V1Handler) markAllNotificationsRead(w http.ResponseWriter, r *http.Request, userID string) {
	count, err := h.notificationService.MarkAllRead(userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, map[string]int64{"updated": count})
}

func (h *V1Handler) deleteNotification(w http.ResponseWriter, r *http.Request, notificationId, userID string) {
	if err := h.notificationService.DeleteNotification(notificationId, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Notification not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, map[string]string{"message": "Notification deleted"})
}
