package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestBaseModel_Hooks(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Skipf("Skipping test: could not connect to test database: %v", err)
		return
	}

	assert.NoError(t, db.AutoMigrate(&Consultation{}))

	t.Run("BeforeCreate_SetsTimestamps", func(t *testing.T) {
		consultation := Consultation{
			ConsultationID: "con_base_create",
			Name:           "Jane Doe",
			Email:          "jane@example.com",
			Message:        "I need help drafting a will",
			Status:         string(ConsultationStatusPending),
		}

		assert.NoError(t, db.Create(&consultation).Error)
		assert.False(t, consultation.CreatedAt.IsZero())
		assert.False(t, consultation.UpdatedAt.IsZero())
		assert.WithinDuration(t, time.Now(), consultation.CreatedAt, 5*time.Second)
	})

	t.Run("BeforeUpdate_BumpsUpdatedAt", func(t *testing.T) {
		consultation := Consultation{
			ConsultationID: "con_base_update",
			Name:           "John Smith",
			Email:          "john@example.com",
			Message:        "Lease review",
			Status:         string(ConsultationStatusPending),
		}
		assert.NoError(t, db.Create(&consultation).Error)
		originalUpdatedAt := consultation.UpdatedAt

		time.Sleep(10 * time.Millisecond)
		consultation.Status = string(ConsultationStatusApproved)
		assert.NoError(t, db.Save(&consultation).Error)

		var reloaded Consultation
		assert.NoError(t, db.First(&reloaded, "consultation_id = ?", consultation.ConsultationID).Error)
		assert.True(t, reloaded.UpdatedAt.After(originalUpdatedAt))
	})
}
