package services

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/legalese-navigator/portal-backend/v1/middleware"
	"github.com/legalese-navigator/portal-backend/v1/models"
	"gorm.io/gorm"
)

// ConsultationService handles consultation intake and moderation
type ConsultationService struct {
	db       *gorm.DB
	activity ActivityRecorder
}

// NewConsultationService creates a new consultation service
func NewConsultationService(db *gorm.DB, activity ActivityRecorder) *ConsultationService {
	return &ConsultationService{db: db, activity: activity}
}

// CreateConsultation creates a new consultation request. Submissions always
// start as pending regardless of what the client sends.
func (s *ConsultationService) CreateConsultation(req *models.CreateConsultationRequest) (*models.ConsultationResponse, error) {
	if err := validateConsultationRequest(req); err != nil {
		return nil, err
	}

	consultation := models.Consultation{
		ConsultationID: "con_" + uuid.New().String(),
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Message:        req.Message,
		Status:         string(models.ConsultationStatusPending),
		UserID:         req.UserID,
	}

	if err := s.db.Create(&consultation).Error; err != nil {
		return nil, fmt.Errorf("failed to create consultation: %w", err)
	}

	slog.Info("Consultation created", "consultationID", consultation.ConsultationID, "email", consultation.Email)

	response := toConsultationResponse(&consultation)
	return &response, nil
}

// GetConsultation retrieves a consultation by ID
func (s *ConsultationService) GetConsultation(consultationID string) (*models.ConsultationResponse, error) {
	var consultation models.Consultation
	err := s.db.First(&consultation, "consultation_id = ?", consultationID).Error
	if err != nil {
		return nil, err
	}

	response := toConsultationResponse(&consultation)
	return &response, nil
}

// GetConsultations retrieves consultations matching the filter. Status and
// search predicates compose in a single query.
func (s *ConsultationService) GetConsultations(filter *models.ConsultationFilter) ([]models.ConsultationResponse, error) {
	var consultations []models.Consultation
	query := s.db.Model(&models.Consultation{})

	if filter != nil {
		if filter.Status != nil && *filter.Status != "" {
			query = query.Where("status = ?", string(*filter.Status))
		}
		if filter.Search != nil && *filter.Search != "" {
			pattern := "%" + strings.ToLower(*filter.Search) + "%"
			query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(phone) LIKE ? OR LOWER(message) LIKE ?", pattern, pattern, pattern, pattern)
		}
		if filter.UserID != nil && *filter.UserID != "" {
			query = query.Where("user_id = ?", *filter.UserID)
		}
	}

	query = query.Order("created_at DESC")

	if err := query.Find(&consultations).Error; err != nil {
		return nil, err
	}

	responses := make([]models.ConsultationResponse, 0, len(consultations))
	for i := range consultations {
		responses = append(responses, toConsultationResponse(&consultations[i]))
	}

	return responses, nil
}

// DecideConsultation applies an admin moderation decision. The status update,
// the notification row, and the delivery job commit in one transaction so a
// decision can never be recorded without its notification.
func (s *ConsultationService) DecideConsultation(consultationID string, req *models.DecideConsultationRequest, decidedBy string) (*models.ConsultationResponse, error) {
	if !req.Status.IsValid() {
		return nil, fmt.Errorf("invalid status: %s", req.Status)
	}
	if req.Status == models.ConsultationStatusPending {
		return nil, fmt.Errorf("cannot set a consultation back to pending")
	}

	var consultation models.Consultation
	if err := s.db.First(&consultation, "consultation_id = ?", consultationID).Error; err != nil {
		return nil, fmt.Errorf("consultation not found: %w", err)
	}

	current := models.ConsultationStatus(consultation.Status)
	if !current.CanTransitionTo(req.Status) {
		return nil, fmt.Errorf("cannot transition consultation from %s to %s", current, req.Status)
	}

	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", tx.Error)
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	// Guarded update: only a still-pending row takes the decision, so two
	// admins racing on the same consultation cannot both commit
	result := tx.Model(&models.Consultation{}).
		Where("consultation_id = ? AND status = ?", consultationID, string(models.ConsultationStatusPending)).
		Updates(map[string]interface{}{"status": string(req.Status), "review": req.Review})
	if result.Error != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to update consultation: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		var latest models.Consultation
		if err := s.db.First(&latest, "consultation_id = ?", consultationID).Error; err != nil {
			return nil, fmt.Errorf("consultation not found: %w", err)
		}
		return nil, fmt.Errorf("cannot transition consultation from %s to %s", latest.Status, req.Status)
	}

	consultation.Status = string(req.Status)
	consultation.Review = req.Review

	// Notifications only exist for submissions tied to an account
	var jobID string
	if consultation.UserID != nil && *consultation.UserID != "" {
		notification := models.Notification{
			NotificationID: "ntf_" + uuid.New().String(),
			UserID:         *consultation.UserID,
			Title:          decisionTitle(req.Status),
			Message:        decisionMessage(consultation.Message, req.Status),
		}

		if err := tx.Create(&notification).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to create notification: %w", err)
		}

		job := models.NotificationJob{
			JobID:          "job_" + uuid.New().String(),
			NotificationID: notification.NotificationID,
			UserID:         notification.UserID,
			Status:         models.NotificationJobStatusPending,
			RetryCount:     0,
			MaxRetries:     5,
		}

		if err := tx.Create(&job).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to create notification job: %w", err)
		}
		jobID = job.JobID
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	middleware.ObserveConsultationDecision(string(req.Status))
	slog.Info("Consultation decision recorded",
		"consultationID", consultation.ConsultationID,
		"status", consultation.Status,
		"decidedBy", decidedBy,
		"jobID", jobID)

	if s.activity != nil {
		s.activity.Record(decidedBy, "consultation."+string(req.Status), models.ResourceTypeConsultations, consultation.ConsultationID, models.ActivityStatusSuccess)
	}

	response := toConsultationResponse(&consultation)
	return &response, nil
}

// DeleteConsultation removes a consultation
func (s *ConsultationService) DeleteConsultation(consultationID string, deletedBy string) error {
	result := s.db.Delete(&models.Consultation{}, "consultation_id = ?", consultationID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete consultation: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	slog.Info("Consultation deleted", "consultationID", consultationID, "deletedBy", deletedBy)

	if s.activity != nil {
		s.activity.Record(deletedBy, "consultation.delete", models.ResourceTypeConsultations, consultationID, models.ActivityStatusSuccess)
	}

	return nil
}

// validateConsultationRequest checks required fields and length limits
func validateConsultationRequest(req *models.CreateConsultationRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if len(req.Name) > models.MaxNameLength {
		return fmt.Errorf("name exceeds %d characters", models.MaxNameLength)
	}
	if strings.TrimSpace(req.Email) == "" {
		return fmt.Errorf("email is required")
	}
	if len(req.Email) > models.MaxEmailLength {
		return fmt.Errorf("email exceeds %d characters", models.MaxEmailLength)
	}
	if !strings.Contains(req.Email, "@") {
		return fmt.Errorf("email is not valid")
	}
	if strings.TrimSpace(req.Message) == "" {
		return fmt.Errorf("message is required")
	}
	if len(req.Message) > models.MaxMessageLength {
		return fmt.Errorf("message exceeds %d characters", models.MaxMessageLength)
	}
	if req.Phone != nil && len(*req.Phone) > models.MaxPhoneLength {
		return fmt.Errorf("phone exceeds %d characters", models.MaxPhoneLength)
	}
	return nil
}

// decisionTitle maps a decision status to the notification title
func decisionTitle(status models.ConsultationStatus) string {
	if status == models.ConsultationStatusApproved {
		return models.NotificationTitleConsultationApproved
	}
	return models.NotificationTitleConsultationRejected
}

// decisionMessage builds the notification body with a truncated excerpt of
// the original consultation message. Truncation counts runes so a multibyte
// character at the boundary is never split.
func decisionMessage(original string, status models.ConsultationStatus) string {
	excerpt := original
	if runes := []rune(excerpt); len(runes) > models.ConsultationExcerptLength {
		excerpt = string(runes[:models.ConsultationExcerptLength]) + "..."
	}
	return fmt.Sprintf("Your consultation request %q has been %s.", excerpt, status)
}

// toConsultationResponse converts a consultation entity to its API shape
func toConsultationResponse(c *models.Consultation) models.ConsultationResponse {
	return models.ConsultationResponse{
		ConsultationID: c.ConsultationID,
		Name:           c.Name,
		Email:          c.Email,
		Phone:          c.Phone,
		Message:        c.Message,
		Status:         c.Status,
		UserID:         c.UserID,
		Review:         c.Review,
		CreatedAt:      c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      c.UpdatedAt.Format(time.RFC3339),
	}
}
