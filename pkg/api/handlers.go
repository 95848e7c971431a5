package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/navarrastar/contact-ingest/pkg/models"
	"github.com/navarrastar/contact-ingest/pkg/services"
)

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	contactService services.ContactIngestService
}

// NewHandlers creates a new Handlers instance
func NewHandlers(contactService services.ContactIngestService) *Handlers {
	return &Handlers{
		contactService: contactService,
	}
}

// HealthCheck handler for monitoring
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Preflight answers CORS preflight requests. The CORS middleware normally
// aborts first; this keeps OPTIONS routable without it.
func (h *Handlers) Preflight(c *gin.Context) {
	c.Status(http.StatusOK)
}

// NotFound answers unrouted paths with a JSON error.
func (h *Handlers) NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
}

// MethodNotAllowed rejects anything but POST and OPTIONS.
func (h *Handlers) MethodNotAllowed(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
}

// HandleContact processes a signup form submission
func (h *Handlers) HandleContact(c *gin.Context) {
	raw, err := readBody(c)
	if err != nil {
		// An unreadable body is treated like an empty one.
		log.Ctx(c.Request.Context()).Warn().Err(err).Msg("Error reading request body")
	}

	res := h.contactService.Ingest(c.Request.Context(), models.ParseBody(raw))
	c.JSON(res.Status, res.Body)
}

// readBody prefers bytes an earlier middleware already consumed and cached
// through ShouldBindBodyWith, falling back to the raw stream.
func readBody(c *gin.Context) ([]byte, error) {
	if cached, ok := c.Get(gin.BodyBytesKey); ok {
		if b, ok := cached.([]byte); ok {
			return b, nil
		}
	}
	if c.Request.Body == nil {
		return nil, nil
	}
	return io.ReadAll(c.Request.Body)
}
