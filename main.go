package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/legalese-navigator/portal-backend/shared/utils"
	v1 "github.com/legalese-navigator/portal-backend/v1"
	v1handlers "github.com/legalese-navigator/portal-backend/v1/handlers"
	v1middleware "github.com/legalese-navigator/portal-backend/v1/middleware"
	v1models "github.com/legalese-navigator/portal-backend/v1/models"
	"github.com/legalese-navigator/portal-backend/v1/realtime"
	"github.com/legalese-navigator/portal-backend/v1/services"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load .env file if it exists (optional - fails silently if not found)
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{AddSource: true}))
	slog.SetDefault(logger)

	slog.Info("Starting Legalese Portal Backend initialization")

	v1middleware.RegisterMetrics()

	// Initialize GORM database connection
	dbConfig := v1.NewDatabaseConfig()
	gormDB, err := v1.ConnectGormDB(dbConfig)
	if err != nil {
		slog.Error("Failed to connect to GORM database", "error", err)
		os.Exit(1)
	}

	// Realtime hub delivers notification events to connected websocket clients.
	// When REDIS_ADDR is set, events are published through Redis so every
	// instance behind a load balancer sees them.
	hub := realtime.NewHub()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var publisher services.NotificationPublisher = hub
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		bridge, err := realtime.NewRedisBridge(
			redisAddr,
			os.Getenv("REDIS_PASSWORD"),
			0,
			hub,
		)
		if err != nil {
			slog.Error("Failed to connect to Redis", "error", err, "addr", redisAddr)
			os.Exit(1)
		}
		defer bridge.Close()
		go bridge.Subscribe(ctx)
		publisher = bridge
		slog.Info("Redis notification bridge enabled", "addr", redisAddr)
	}

	// Outbox worker drains pending notification jobs and pushes them out.
	worker := services.NewNotificationWorker(gormDB, publisher)
	go worker.Start(ctx)

	// Initialize V1 handlers
	v1Handler, err := v1handlers.NewV1Handler(gormDB, hub)
	if err != nil {
		slog.Error("Failed to initialize V1 handler", "error", err)
		os.Exit(1)
	}

	// Create a mux for API routes
	apiMux := http.NewServeMux()
	v1Handler.SetupV1Routes(apiMux) // All /api/v1/... routes go here

	// Setup JWT Authentication middleware
	// Validate required environment variables first
	asgardeoBaseURL := os.Getenv("ASGARDEO_BASE_URL")
	if asgardeoBaseURL == "" {
		slog.Error("ASGARDEO_BASE_URL environment variable is required")
		os.Exit(1)
	}

	// Support multiple valid client IDs for different portals
	memberPortalClientID := os.Getenv("ASGARDEO_MEMBER_PORTAL_CLIENT_ID")
	adminPortalClientID := os.Getenv("ASGARDEO_ADMIN_PORTAL_CLIENT_ID")

	if memberPortalClientID == "" && adminPortalClientID == "" {
		slog.Error("At least one of ASGARDEO_MEMBER_PORTAL_CLIENT_ID or ASGARDEO_ADMIN_PORTAL_CLIENT_ID must be set")
		os.Exit(1)
	}

	var validClientIDs []string
	if memberPortalClientID != "" {
		validClientIDs = append(validClientIDs, memberPortalClientID)
	}
	if adminPortalClientID != "" {
		validClientIDs = append(validClientIDs, adminPortalClientID)
	}

	jwtConfig := v1middleware.JWTAuthConfig{
		JWKSURL:        utils.GetEnvOrDefault("ASGARDEO_JWKS_URL", asgardeoBaseURL+"/oauth2/jwks"),
		ExpectedIssuer: utils.GetEnvOrDefault("ASGARDEO_TOKEN_URL", asgardeoBaseURL+"/oauth2/token"),
		ValidClientIDs: validClientIDs,
		OrgName:        utils.GetEnvOrDefault("ASGARDEO_ORG_NAME", ""),
		Timeout:        10 * time.Second,
	}

	// Validate JWT configuration before proceeding
	if err := jwtConfig.Validate(); err != nil {
		slog.Error("Invalid JWT configuration", "error", err)
		os.Exit(1)
	}

	jwtAuthMiddleware := v1middleware.NewJWTAuthMiddleware(jwtConfig)

	// Setup Authorization middleware with configurable security policy
	authMode := utils.GetEnvOrDefault("AUTHORIZATION_MODE", "fail_closed")
	strictMode := utils.GetEnvOrDefault("AUTHORIZATION_STRICT_MODE", "false") == "true"

	var authConfig v1middleware.AuthorizationConfig
	switch authMode {
	case "fail_closed":
		authConfig.Mode = v1models.AuthorizationModeFailClosed
	case "fail_open_admin":
		authConfig.Mode = v1models.AuthorizationModeFailOpenAdmin
	case "fail_open_admin_system":
		authConfig.Mode = v1models.AuthorizationModeFailOpenAdminSystem
	default:
		slog.Error("Invalid authorization mode. Valid options: fail_closed, fail_open_admin, fail_open_admin_system", "mode", authMode)
		os.Exit(1)
	}
	authConfig.StrictMode = strictMode

	authorizationMiddleware := v1middleware.NewAuthorizationMiddlewareWithConfig(authConfig)

	// Rate limit public traffic by client IP
	rateLimit := v1middleware.RateLimitMiddleware(120, time.Minute)

	// Apply middleware chain (CORS -> Metrics -> Rate Limit -> JWT Auth -> Authorization) to the API mux ONLY
	protectedAPIHandler := v1middleware.CORSMiddleware()(
		v1middleware.MetricsMiddleware()(
			rateLimit(
				jwtAuthMiddleware.AuthenticateJWT(
					authorizationMiddleware.AuthorizeRequest(apiMux),
				),
			),
		),
	)

	// Create the MAIN (top-level) mux for all incoming traffic
	topLevelMux := http.NewServeMux()

	// Register public routes directly on the top-level mux
	topLevelMux.Handle("/health", utils.PanicRecoveryMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		type DBHealth struct {
			Status   string `json:"status"`
			Error    string `json:"error,omitempty"`
			Database string `json:"database,omitempty"`
		}
		type HealthStatus struct {
			Status    string              `json:"status"`
			Service   string              `json:"service"`
			Databases map[string]DBHealth `json:"databases"`
		}

		status := HealthStatus{
			Status:  "healthy",
			Service: "portal-backend",
			Databases: map[string]DBHealth{
				"v1": {Status: "unknown"},
			},
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if gormDB == nil {
			status.Databases["v1"] = DBHealth{Status: "unhealthy", Error: "GORM connection is nil"}
			status.Status = "unhealthy"
		} else {
			sqlDB, err := gormDB.DB()
			if err != nil {
				status.Databases["v1"] = DBHealth{Status: "unhealthy", Error: fmt.Sprintf("failed to get sql.DB: %v", err)}
				status.Status = "unhealthy"
			} else if err := sqlDB.PingContext(ctx); err != nil {
				status.Databases["v1"] = DBHealth{Status: "unhealthy", Error: err.Error()}
				status.Status = "unhealthy"
			} else {
				status.Databases["v1"] = DBHealth{Status: "healthy", Database: dbConfig.Database}
			}
		}

		statusCode := http.StatusOK
		if status.Status != "healthy" {
			statusCode = http.StatusServiceUnavailable
		}

		utils.RespondWithJSON(w, statusCode, status)
	})))

	topLevelMux.Handle("/metrics", promhttp.Handler())

	// Register the protected API routes to the top-level mux
	// All traffic to /api/v1/ (and its sub-paths) will pass through the middleware chain
	topLevelMux.Handle("/api/v1/", protectedAPIHandler)

	serverConfig := utils.DefaultServerConfig()
	server := utils.CreateServer(serverConfig, topLevelMux)

	slog.Info("Legalese Portal Backend starting",
		"port", serverConfig.Port,
		"authorization_mode", authMode)

	if err := utils.StartServerWithGracefulShutdown(server, "portal-backend"); err != nil {
		os.Exit(1)
	}

	// Stop worker and close database connection after the server drains
	cancel()
	if sqlDB, err := gormDB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("Failed to close database connection", "error", err)
		}
	}

	slog.Info("Legalese Portal Backend exited")
}
