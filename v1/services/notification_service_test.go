package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/legalese-navigator/portal-backend/v1/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedNotification(t *testing.T, db *gorm.DB, userID, title string, read bool) models.Notification {
	notification := models.Notification{
		NotificationID: "ntf_" + uuid.New().String(),
		UserID:         userID,
		Title:          title,
		Message:        "Your consultation request has been reviewed.",
		IsRead:         read,
	}
	require.NoError(t, db.Create(&notification).Error)
	return notification
}

func TestNotificationService_GetNotificationsForUser(t *testing.T) {
	db := setupTestDB(t)
	service := NewNotificationService(db)

	seedNotification(t, db, "user-1", "First", false)
	seedNotification(t, db, "user-1", "Second", true)
	seedNotification(t, db, "user-2", "Other user", false)

	results, err := service.GetNotificationsForUser("user-1")
	require.NoError(t, err)
	assert.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, "user-1", r.UserID)
	}

	empty, err := service.GetNotificationsForUser("user-3")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestNotificationService_GetUnreadCount(t *testing.T) {
	db := setupTestDB(t)
	service := NewNotificationService(db)

	seedNotification(t, db, "user-1", "Unread one", false)
	seedNotification(t, db, "user-1", "Unread two", false)
	seedNotification(t, db, "user-1", "Already read", true)
	seedNotification(t, db, "user-2", "Other user", false)

	count, err := service.GetUnreadCount("user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestNotificationService_MarkRead(t *testing.T) {
	t.Run("MarkRead_Success", func(t *testing.T) {
		db := setupTestDB(t)
		service := NewNotificationService(db)

		notification := seedNotification(t, db, "user-1", "Unread", false)

		resp, err := service.MarkRead(notification.NotificationID, "user-1")
		require.NoError(t, err)
		assert.True(t, resp.IsRead)

		var stored models.Notification
		require.NoError(t, db.First(&stored, "notification_id = ?", notification.NotificationID).Error)
		assert.True(t, stored.IsRead)
	})

	t.Run("MarkRead_Idempotent", func(t *testing.T) {
		db := setupTestDB(t)
		service := NewNotificationService(db)

		notification := seedNotification(t, db, "user-1", "Already read", true)

		resp, err := service.MarkRead(notification.NotificationID, "user-1")
		require.NoError(t, err)
		assert.True(t, resp.IsRead)
	})

	t.Run("MarkRead_OtherUsersRowIsInvisible", func(t *testing.T) {
		db := setupTestDB(t)
		service := NewNotificationService(db)

		notification := seedNotification(t, db, "user-1", "Unread", false)

		_, err := service.MarkRead(notification.NotificationID, "user-2")
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

		var stored models.Notification
		require.NoError(t, db.First(&stored, "notification_id = ?", notification.NotificationID).Error)
		assert.False(t, stored.IsRead)
	})
}

func TestNotificationService_MarkAllRead(t *testing.T) {
	db := setupTestDB(t)
	service := NewNotificationService(db)

	seedNotification(t, db, "user-1", "Unread one", false)
	seedNotification(t, db, "user-1", "Unread two", false)
	seedNotification(t, db, "user-1", "Already read", true)
	seedNotification(t, db, "user-2", "Other user", false)

	updated, err := service.MarkAllRead("user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated)

	count, err := service.GetUnreadCount("user-1")
	require.NoError(t, err)
	assert.Zero(t, count)

	// Other users' rows are untouched
	otherCount, err := service.GetUnreadCount("user-2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), otherCount)
}

func TestNotificationService_DeleteNotification(t *testing.T) {
	t.Run("DeleteNotification_Success", func(t *testing.T) {
		db := setupTestDB(t)
		service := NewNotificationService(db)

		notification := seedNotification(t, db, "user-1", "To delete", false)

		require.NoError(t, service.DeleteNotification(notification.NotificationID, "user-1"))

		var count int64
		require.NoError(t, db.Model(&models.Notification{}).Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("DeleteNotification_OtherUsersRowIsInvisible", func(t *testing.T) {
		db := setupTestDB(t)
		service := NewNotificationService(db)

		notification := seedNotification(t, db, "user-1", "Protected", false)

		err := service.DeleteNotification(notification.NotificationID, "user-2")
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

		var count int64
		require.NoError(t, db.Model(&models.Notification{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})
}
