package api

import (
	"github.com/gin-gonic/gin"

	"github.com/navarrastar/contact-ingest/pkg/clients/systeme"
	"github.com/navarrastar/contact-ingest/pkg/config"
	"github.com/navarrastar/contact-ingest/pkg/middleware"
	"github.com/navarrastar/contact-ingest/pkg/services"
	"github.com/navarrastar/contact-ingest/pkg/telemetry"
)

// ContactPaths are the routes accepting submissions.
var ContactPaths = []string{"/", "/api/contact"}

// NewServiceFromConfig wires the systeme.io client into the ingest service.
func NewServiceFromConfig(cfg *config.Config) services.ContactIngestService {
	client := systeme.NewClient(cfg.APIKey, cfg.APIBase, telemetry.NewHTTPClient(cfg.HTTPTimeout))
	return services.NewContactIngestService(client, cfg)
}

// NewHandlersFromConfig builds handlers backed by NewServiceFromConfig.
func NewHandlersFromConfig(cfg *config.Config) *Handlers {
	return NewHandlers(NewServiceFromConfig(cfg))
}

// NewRouter registers every route on a fresh gin engine.
func NewRouter(h *Handlers) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true

	router.Use(
		middleware.RequestLogger(),
		middleware.Recovery(),
		telemetry.Middleware(),
		middleware.CORS(),
	)
	router.NoMethod(h.MethodNotAllowed)
	router.NoRoute(h.NotFound)

	for _, path := range ContactPaths {
		router.POST(path, h.HandleContact)
		router.OPTIONS(path, h.Preflight)
	}
	router.GET("/health", h.HealthCheck)
	router.GET("/metrics", gin.WrapH(telemetry.MetricsHandler()))

	return router
}
