package services

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/legalese-navigator/portal-backend/v1/models"
	"gorm.io/gorm"
)

// NotificationService handles the per-user notification center
type NotificationService struct {
	db *gorm.DB
}

// NewNotificationService creates a new notification service
func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// GetNotificationsForUser returns a user's notifications, newest first
func (s *NotificationService) GetNotificationsForUser(userID string) ([]models.NotificationResponse, error) {
	var notifications []models.Notification
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load notifications: %w", err)
	}

	responses := make([]models.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		responses = append(responses, toNotificationResponse(&notifications[i]))
	}

	return responses, nil
}

// GetUnreadCount returns the number of unread notifications for a user
func (s *NotificationService) GetUnreadCount(userID string) (int64, error) {
	var count int64
	err := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead marks a single notification as read. Marking an already-read
// notification is a no-op, not an error.
func (s *NotificationService) MarkRead(notificationID, userID string) (*models.NotificationResponse, error) {
	var notification models.Notification
	err := s.db.First(&notification, "notification_id = ? AND user_id = ?", notificationID, userID).Error
	if err != nil {
		return nil, err
	}

	if !notification.IsRead {
		notification.IsRead = true
		if err := s.db.Save(&notification).Error; err != nil {
			return nil, fmt.Errorf("failed to mark notification read: %w", err)
		}
	}

	response := toNotificationResponse(&notification)
	return &response, nil
}

// MarkAllRead marks every unread notification for the user as read and
// returns the number of rows affected
func (s *NotificationService) MarkAllRead(userID string) (int64, error) {
	result := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", result.Error)
	}

	slog.Info("Marked notifications read", "userID", userID, "count", result.RowsAffected)
	return result.RowsAffected, nil
}

// DeleteNotification removes a notification. Scoped to the owner so one user
// can never delete another user's rows.
func (s *NotificationService) DeleteNotification(notificationID, userID string) error {
	result := s.db.Delete(&models.Notification{}, "notification_id = ? AND user_id = ?", notificationID, userID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete notification: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// toNotificationResponse converts a notification entity to its API shape
func toNotificationResponse(n *models.Notification) models.NotificationResponse {
	return models.NotificationResponse{
		NotificationID: n.NotificationID,
		UserID:         n.UserID,
		Title:          n.Title,
		Message:        n.Message,
		IsRead:         n.IsRead,
		CreatedAt:      n.CreatedAt.Format(time.RFC3339),
	}
}
