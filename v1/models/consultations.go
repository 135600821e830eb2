package models

// Consultation represents a user-submitted request for legal consultation,
// moderated by an admin via approve/reject
type Consultation struct {
	ConsultationID string  `gorm:"primarykey;column:consultation_id" json:"consultationId"`
	Name           string  `gorm:"column:name;not null" json:"name"`
	Email          string  `gorm:"column:email;not null" json:"email"`
	Phone          *string `gorm:"column:phone" json:"phone,omitempty"`
	Message        string  `gorm:"column:message;not null" json:"message"`
	Status         string  `gorm:"column:status;not null;default:pending" json:"status"`
	UserID         *string `gorm:"column:user_id" json:"userId,omitempty"` // nil for anonymous submissions
	Review         *string `gorm:"column:review" json:"review,omitempty"`
	BaseModel
}

// TableName sets the table name for GORM
func (Consultation) TableName() string {
	return "consultations"
}

// CreateConsultationRequest is the intake payload from the public scheduling
// form or the dashboard
type CreateConsultationRequest struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   *string `json:"phone,omitempty"`
	Message string  `json:"message"`
	UserID  *string `json:"userId,omitempty"`
}

// DecideConsultationRequest carries an admin moderation decision
type DecideConsultationRequest struct {
	Status ConsultationStatus `json:"status"`
	Review *string            `json:"review,omitempty"`
}

// ConsultationFilter combines the server-side predicates for listing
// consultations. Status filter and substring search compose in a single
// query instead of clobbering each other client-side.
type ConsultationFilter struct {
	Status *ConsultationStatus
	Search *string
	UserID *string
}

// ConsultationResponse is the API representation of a consultation
type ConsultationResponse struct {
	ConsultationID string  `json:"consultationId"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Phone          *string `json:"phone,omitempty"`
	Message        string  `json:"message"`
	Status         string  `json:"status"`
	UserID         *string `json:"userId,omitempty"`
	Review         *string `json:"review,omitempty"`
	CreatedAt      string  `json:"createdAt"`
	UpdatedAt      string  `json:"updatedAt"`
}
