package handler

import (
	"encoding/json"
	"net/http"
	"path"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/navarrastar/contact-ingest/pkg/api"
	"github.com/navarrastar/contact-ingest/pkg/config"
	"github.com/navarrastar/contact-ingest/pkg/logger"
	"github.com/navarrastar/contact-ingest/pkg/middleware"
	"github.com/navarrastar/contact-ingest/pkg/models"
)

var (
	once    sync.Once
	router  http.Handler
	initErr error
)

func setup() {
	cfg, err := config.LoadConfig()
	if err != nil {
		initErr = err
		return
	}
	logger.Setup(cfg.LogLevel)
	gin.SetMode(gin.ReleaseMode)
	router = api.NewRouter(api.NewHandlersFromConfig(cfg))
}

// Handler is the entry point for Vercel serverless functions. The router is
// built on the first invocation and reused while the instance stays warm.
func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(setup)

	if initErr != nil {
		log.Error().Err(initErr).Msg("Failed to initialize handler")
		for k, v := range middleware.CORSHeaders {
			w.Header().Set(k, v)
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		if err := json.NewEncoder(w).Encode(models.FaultBody(initErr)); err != nil {
			log.Error().Err(err).Msg("Failed to write error response")
		}
		return
	}

	r.URL.Path = routePath(r.URL.Path)
	r.URL.RawPath = ""
	router.ServeHTTP(w, r)
}

// routePath maps the function's mount path (/api, /api/index,
// /api/systeme-contact or any rewrite target) onto the router. Only the
// health and metrics endpoints keep their own route.
func routePath(p string) string {
	switch base := path.Base(p); base {
	case "health", "metrics":
		return "/" + base
	}
	return "/"
}
