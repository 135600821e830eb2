package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/legalese-navigator/portal-backend/v1/middleware"
	"github.com/legalese-navigator/portal-backend/v1/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NotificationPublisher pushes committed notification events to connected
// realtime clients. Implemented by the websocket hub and the redis bridge.
type NotificationPublisher interface {
	Publish(event *models.NotificationEvent) error
}

// NotificationWorker drains the notification outbox table and delivers
// events to the realtime publisher
type NotificationWorker struct {
	db           *gorm.DB
	publisher    NotificationPublisher
	pollInterval time.Duration
	batchSize    int
}

// NewNotificationWorker creates a new notification worker
func NewNotificationWorker(db *gorm.DB, publisher NotificationPublisher) *NotificationWorker {
	return &NotificationWorker{
		db:           db,
		publisher:    publisher,
		pollInterval: 5 * time.Second,
		batchSize:    20,
	}
}

// Start starts the background worker that processes notification jobs
func (w *NotificationWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	slog.Info("Notification worker started", "pollInterval", w.pollInterval, "batchSize", w.batchSize)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Notification worker stopped")
			return
		case <-ticker.C:
			w.processJobs()
		}
	}
}

// processJobs claims and delivers a batch of pending notification jobs
func (w *NotificationWorker) processJobs() {
	now := time.Now()

	// Reset jobs stuck in "processing" from crashed workers
	stuckThreshold := now.Add(-5 * time.Minute)
	if err := w.db.Model(&models.NotificationJob{}).
		Where("status = ?", models.NotificationJobStatusProcessing).
		Where("updated_at < ?", stuckThreshold).
		Update("status", models.NotificationJobStatusPending).Error; err != nil {
		slog.Warn("Failed to clean up stuck processing jobs", "error", err)
	}

	var jobs []models.NotificationJob

	// Row-level locking so concurrent workers never claim the same job
	err := w.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("status = ?", models.NotificationJobStatusPending).
			Where("(next_retry_at IS NULL OR next_retry_at <= ?)", now).
			Order("created_at ASC").
			Limit(w.batchSize).
			Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Find(&jobs).Error; err != nil {
			return err
		}

		if len(jobs) > 0 {
			jobIDs := make([]string, len(jobs))
			for i := range jobs {
				jobIDs[i] = jobs[i].JobID
			}

			if err := tx.Model(&models.NotificationJob{}).
				Where("job_id IN ?", jobIDs).
				Update("status", models.NotificationJobStatusProcessing).Error; err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		slog.Error("Failed to fetch pending notification jobs", "error", err)
		return
	}

	if len(jobs) == 0 {
		return
	}

	slog.Debug("Processing notification jobs", "count", len(jobs))

	for i := range jobs {
		w.processJob(&jobs[i])
	}
}

// processJob delivers a single notification job
func (w *NotificationWorker) processJob(job *models.NotificationJob) {
	now := time.Now()
	err := w.deliver(job)

	newRetryCount := job.RetryCount + 1

	updates := map[string]interface{}{
		"processed_at": now,
		"retry_count":  newRetryCount,
	}

	if err != nil {
		errorMsg := err.Error()
		updates["error"] = &errorMsg

		// RetryCount starts at 0; once newRetryCount passes MaxRetries the
		// job is abandoned for good
		if newRetryCount > job.MaxRetries {
			updates["status"] = models.NotificationJobStatusFailed
			updates["next_retry_at"] = nil
			middleware.ObserveNotificationDelivery("failed")
			slog.Error("Notification job failed after max retries",
				"jobID", job.JobID,
				"notificationID", job.NotificationID,
				"retryCount", newRetryCount,
				"maxRetries", job.MaxRetries,
				"error", err)
		} else {
			// Exponential backoff: base delay 1 minute, doubled per retry
			baseDelay := time.Minute
			backoffDelay := baseDelay * time.Duration(1<<job.RetryCount)
			nextRetryAt := now.Add(backoffDelay)
			updates["next_retry_at"] = &nextRetryAt
			updates["status"] = models.NotificationJobStatusPending
			middleware.ObserveNotificationDelivery("retried")

			slog.Warn("Notification job failed, will retry",
				"jobID", job.JobID,
				"notificationID", job.NotificationID,
				"retryCount", newRetryCount,
				"maxRetries", job.MaxRetries,
				"error", err,
				"nextRetryAt", nextRetryAt)
		}
	} else {
		updates["status"] = models.NotificationJobStatusCompleted
		updates["error"] = nil
		updates["next_retry_at"] = nil
		middleware.ObserveNotificationDelivery("delivered")
		slog.Info("Notification job completed",
			"jobID", job.JobID,
			"notificationID", job.NotificationID)
	}

	if updateErr := w.db.Model(job).Updates(updates).Error; updateErr != nil {
		slog.Error("Failed to update notification job status",
			"jobID", job.JobID,
			"error", updateErr)
	}
}

// deliver loads the notification row and pushes it to the publisher
func (w *NotificationWorker) deliver(job *models.NotificationJob) error {
	var notification models.Notification
	if err := w.db.First(&notification, "notification_id = ?", job.NotificationID).Error; err != nil {
		return fmt.Errorf("notification row missing for job: %w", err)
	}

	event := &models.NotificationEvent{
		NotificationID: notification.NotificationID,
		UserID:         notification.UserID,
		Title:          notification.Title,
		Message:        notification.Message,
		CreatedAt:      notification.CreatedAt.Format(time.RFC3339),
	}

	if w.publisher == nil {
		return fmt.Errorf("no publisher configured")
	}

	return w.publisher.Publish(event)
}
