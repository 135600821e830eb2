package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/legalese-navigator/portal-backend/idp"
	"github.com/legalese-navigator/portal-backend/idp/idpfactory"
	"github.com/legalese-navigator/portal-backend/shared/utils"
	"github.com/legalese-navigator/portal-backend/v1/realtime"
	"github.com/legalese-navigator/portal-backend/v1/services"

	"gorm.io/gorm"
)

// V1Handler handles all V1 API routes
type V1Handler struct {
	consultationService *services.ConsultationService
	notificationService *services.NotificationService
	templateService     *services.TemplateService
	adminService        *services.AdminService
	activityService     *services.ActivityService
	hub                 *realtime.Hub
}

// NewV1Handler creates a new V1 handler
func NewV1Handler(db *gorm.DB, hub *realtime.Hub) (*V1Handler, error) {
	idpProvider, err := buildIdpProvider()
	if err != nil {
		// The admin directory degrades to its mock fallback without an IdP;
		// everything else works normally
		slog.Warn("Identity provider not configured, admin user management degraded", "error", err)
	}

	activityService := services.NewActivityService(db)

	return &V1Handler{
		consultationService: services.NewConsultationService(db, activityService),
		notificationService: services.NewNotificationService(db),
		templateService:     services.NewTemplateService(activityService),
		adminService:        services.NewAdminService(db, idpProvider, activityService),
		activityService:     activityService,
		hub:                 hub,
	}, nil
}

// buildIdpProvider constructs the identity provider client from environment
// configuration
func buildIdpProvider() (idp.IdentityProviderAPI, error) {
	baseURL := os.Getenv("ASGARDEO_BASE_URL")
	clientID := os.Getenv("ASGARDEO_CLIENT_ID")
	clientSecret := os.Getenv("ASGARDEO_CLIENT_SECRET")

	if baseURL == "" || clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("missing required environment variables (ASGARDEO_BASE_URL, ASGARDEO_CLIENT_ID, ASGARDEO_CLIENT_SECRET)")
	}

	var scopes []string
	if asgScopesEnv := os.Getenv("ASGARDEO_SCOPES"); asgScopesEnv != "" {
		scopes = strings.Fields(asgScopesEnv)
	}

	return idpfactory.NewIdpAPIProvider(idpfactory.FactoryConfig{
		ProviderType: idp.ProviderAsgardeo,
		BaseURL:      baseURL,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Scopes:       scopes,
	})
}

// SetupV1Routes configures all V1 API routes
func (h *V1Handler) SetupV1Routes(mux *http.ServeMux) {
	// Public intake route, mounted outside the authenticated surface
	mux.Handle("/api/v1/public/consultations", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handlePublicConsultations)))

	// Consultation routes
	mux.Handle("/api/v1/consultations", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleConsultations)))
	mux.Handle("/api/v1/consultations/", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleConsultations)))

	// Notification routes
	mux.Handle("/api/v1/notifications", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleNotifications)))
	mux.Handle("/api/v1/notifications/", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleNotifications)))

	// Template routes
	mux.Handle("/api/v1/templates", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleTemplates)))
	mux.Handle("/api/v1/templates/", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleTemplates)))

	// Profile route
	mux.Handle("/api/v1/me", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleMe)))

	// Admin routes
	mux.Handle("/api/v1/admin/", utils.PanicRecoveryMiddleware(http.HandlerFunc(h.handleAdmin)))
}

// handlePublicConsultations handles the unauthenticated intake endpoint used
// by the marketing site's scheduling form
func (h *V1Handler) handlePublicConsultations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	h.createConsultation(w, r, true)
}
