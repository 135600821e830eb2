package services

import (
	"testing"
	"time"

	"github.com/legalese-navigator/portal-backend/v1/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityService_Record(t *testing.T) {
	db := setupTestDB(t)
	service := NewActivityService(db)

	service.Record("admin@example.com", "consultation.approved", models.ResourceTypeConsultations, "con_123", models.ActivityStatusSuccess)

	// Record persists asynchronously
	require.Eventually(t, func() bool {
		var count int64
		db.Model(&models.ActivityLogEntry{}).Count(&count)
		return count == 1
	}, 2*time.Second, 10*time.Millisecond)

	var entry models.ActivityLogEntry
	require.NoError(t, db.First(&entry).Error)
	assert.Equal(t, "consultation.approved", entry.ActivityType)
	require.NotNil(t, entry.UserName)
	assert.Equal(t, "admin@example.com", *entry.UserName)
	require.NotNil(t, entry.Details)
	assert.Contains(t, *entry.Details, "con_123")
	assert.Contains(t, entry.Description, "consultation.approved")
}

func TestActivityService_GetActivities(t *testing.T) {
	db := setupTestDB(t)
	service := NewActivityService(db)

	for i := 0; i < 5; i++ {
		entry := models.ActivityLogEntry{
			ActivityID:   "act_" + time.Now().Format("150405.000000") + string(rune('a'+i)),
			ActivityType: "consultation.approved",
			Description:  "consultation.approved on CONSULTATIONS con_x",
		}
		require.NoError(t, db.Create(&entry).Error)
	}

	t.Run("LimitApplies", func(t *testing.T) {
		entries, err := service.GetActivities(3)
		require.NoError(t, err)
		assert.Len(t, entries, 3)
	})

	t.Run("ZeroLimitUsesDefault", func(t *testing.T) {
		entries, err := service.GetActivities(0)
		require.NoError(t, err)
		assert.Len(t, entries, 5)
	})

	t.Run("OversizedLimitUsesDefault", func(t *testing.T) {
		entries, err := service.GetActivities(500)
		require.NoError(t, err)
		assert.Len(t, entries, 5)
	})
}

func TestActivityService_SystemStatus(t *testing.T) {
	db := setupTestDB(t)
	service := NewActivityService(db)

	t.Run("RecordSystemStatus_InsertsAndUpserts", func(t *testing.T) {
		require.NoError(t, service.RecordSystemStatus("Document Service", models.SystemStatusOperational))
		require.NoError(t, service.RecordSystemStatus("Consultation Booking", models.SystemStatusOperational))

		entries, err := service.GetSystemStatus()
		require.NoError(t, err)
		require.Len(t, entries, 2)

		// Upsert replaces the status instead of adding a row
		require.NoError(t, service.RecordSystemStatus("Document Service", models.SystemStatusPartialOutage))

		entries, err = service.GetSystemStatus()
		require.NoError(t, err)
		require.Len(t, entries, 2)

		// Ordered by service name
		assert.Equal(t, "Consultation Booking", entries[0].ServiceName)
		assert.Equal(t, "Document Service", entries[1].ServiceName)
		assert.Equal(t, models.SystemStatusPartialOutage, entries[1].Status)
	})
}
