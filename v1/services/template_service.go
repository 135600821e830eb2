package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/legalese-navigator/portal-backend/v1/models"
)

// TemplateService serves the static document template catalog
type TemplateService struct {
	catalog  []models.DocumentTemplate
	activity ActivityRecorder
}

// NewTemplateService creates a new template service over the built-in catalog
func NewTemplateService(activity ActivityRecorder) *TemplateService {
	return &TemplateService{catalog: models.DocumentTemplates, activity: activity}
}

// GetTemplates returns templates matching the search term and category.
// Search is case-insensitive over name and description; category "all" or
// empty matches everything.
func (s *TemplateService) GetTemplates(search, category string) []models.DocumentTemplate {
	results := make([]models.DocumentTemplate, 0, len(s.catalog))

	term := strings.ToLower(strings.TrimSpace(search))
	for _, tpl := range s.catalog {
		if category != "" && category != models.CategoryAll && tpl.Category != category {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(tpl.Name), term) &&
			!strings.Contains(strings.ToLower(tpl.Description), term) {
			continue
		}
		results = append(results, tpl)
	}

	return results
}

// GetTemplate returns a single template by ID
func (s *TemplateService) GetTemplate(id int) (*models.DocumentTemplate, error) {
	for i := range s.catalog {
		if s.catalog[i].ID == id {
			return &s.catalog[i], nil
		}
	}
	return nil, fmt.Errorf("template %d not found", id)
}

// DownloadTemplate produces a download descriptor for an authenticated user
func (s *TemplateService) DownloadTemplate(id int, requestedBy string) (*models.DocumentDownload, error) {
	tpl, err := s.GetTemplate(id)
	if err != nil {
		return nil, err
	}

	download := &models.DocumentDownload{
		TemplateID:  tpl.ID,
		Name:        tpl.Name,
		FileName:    templateFileName(tpl.Name),
		Format:      "docx",
		RequestedBy: requestedBy,
		RequestedAt: time.Now().Format(time.RFC3339),
	}

	if s.activity != nil {
		s.activity.Record(requestedBy, "template.download", models.ResourceTypeTemplates, fmt.Sprintf("%d", tpl.ID), models.ActivityStatusSuccess)
	}

	return download, nil
}

// templateFileName converts a template name to its download file name
func templateFileName(name string) string {
	slug := strings.ToLower(name)
	slug = strings.ReplaceAll(slug, " ", "-")
	return slug + ".docx"
}
