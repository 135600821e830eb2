package services

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/legalese-navigator/portal-backend/v1/models"
	"gorm.io/gorm"
)

// ActivityRecorder records admin-visible activity entries. Implementations
// must never block the calling request path.
type ActivityRecorder interface {
	Record(actor string, activityType string, resource models.ResourceType, resourceID string, status models.ActivityStatus)
}

// ActivityService writes and reads the admin activity feed
type ActivityService struct {
	db *gorm.DB
}

// NewActivityService creates a new activity service
func NewActivityService(db *gorm.DB) *ActivityService {
	return &ActivityService{db: db}
}

// Record persists an activity entry asynchronously (fire-and-forget). A
// failed insert is logged and dropped; the feed is best-effort by contract.
func (s *ActivityService) Record(actor string, activityType string, resource models.ResourceType, resourceID string, status models.ActivityStatus) {
	entry := models.ActivityLogEntry{
		ActivityID:   "act_" + uuid.New().String(),
		ActivityType: activityType,
		Description:  describeActivity(activityType, resource, resourceID, status),
	}
	if actor != "" {
		entry.UserName = &actor
	}
	details := fmt.Sprintf("resource=%s id=%s status=%s", resource, resourceID, status)
	entry.Details = &details

	go func() {
		if err := s.db.Create(&entry).Error; err != nil {
			slog.Warn("Failed to record activity", "activityType", activityType, "resource", resource, "error", err)
		}
	}()
}

// GetActivities returns the most recent activity entries, newest first
func (s *ActivityService) GetActivities(limit int) ([]models.ActivityLogEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var entries []models.ActivityLogEntry
	err := s.db.Order("created_at DESC").Limit(limit).Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load activity log: %w", err)
	}
	return entries, nil
}

// GetSystemStatus returns the per-service health rows for the admin console
func (s *ActivityService) GetSystemStatus() ([]models.SystemStatusEntry, error) {
	var entries []models.SystemStatusEntry
	err := s.db.Order("service_name ASC").Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load system status: %w", err)
	}
	return entries, nil
}

// RecordSystemStatus upserts a service health row. Used by operations
// tooling through the system role.
func (s *ActivityService) RecordSystemStatus(serviceName, status string) error {
	var entry models.SystemStatusEntry
	err := s.db.First(&entry, "service_name = ?", serviceName).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		entry = models.SystemStatusEntry{
			StatusID:    "sts_" + uuid.New().String(),
			ServiceName: serviceName,
			Status:      status,
			LastUpdated: time.Now(),
		}
		return s.db.Create(&entry).Error
	case err != nil:
		return fmt.Errorf("failed to load system status row: %w", err)
	}

	entry.Status = status
	entry.LastUpdated = time.Now()
	return s.db.Save(&entry).Error
}

// describeActivity builds the human-readable feed line
func describeActivity(activityType string, resource models.ResourceType, resourceID string, status models.ActivityStatus) string {
	if status == models.ActivityStatusFailure {
		return fmt.Sprintf("%s failed on %s %s", activityType, resource, resourceID)
	}
	return fmt.Sprintf("%s on %s %s", activityType, resource, resourceID)
}
