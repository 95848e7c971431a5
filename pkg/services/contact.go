package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/navarrastar/contact-ingest/pkg/clients/systeme"
	"github.com/navarrastar/contact-ingest/pkg/config"
	"github.com/navarrastar/contact-ingest/pkg/models"
	"github.com/navarrastar/contact-ingest/pkg/telemetry"
	"github.com/navarrastar/contact-ingest/pkg/utils"
)

// ErrUnknownContactShape is returned when a create/update response carries
// no identifier at any known location.
var ErrUnknownContactShape = errors.New("cannot determine contact identifier")

// Result is the transport-agnostic response to one submission.
type Result struct {
	Status int
	Body   map[string]interface{}
}

// TagAttempt describes one rejected tag-assignment call.
type TagAttempt struct {
	Status   int                    `json:"status"`
	Payload  map[string]interface{} `json:"payload"`
	Response string                 `json:"response"`
}

// TagPayload builds one tag-assignment body for a tag id.
type TagPayload func(tagID int) map[string]interface{}

// DefaultTagPayloads are tried in order; the upstream has accepted both key
// spellings across API versions.
var DefaultTagPayloads = []TagPayload{
	func(tagID int) map[string]interface{} { return map[string]interface{}{"tagId": tagID} },
	func(tagID int) map[string]interface{} { return map[string]interface{}{"tag_id": tagID} },
}

// ContactIngestService defines the interface for handling form submissions
type ContactIngestService interface {
	Ingest(ctx context.Context, payload models.Payload) Result
}

type contactIngestServiceImpl struct {
	client      systeme.Client
	config      *config.Config
	tagPayloads []TagPayload
}

// NewContactIngestService creates a new submission service
func NewContactIngestService(client systeme.Client, config *config.Config) ContactIngestService {
	return &contactIngestServiceImpl{
		client:      client,
		config:      config,
		tagPayloads: DefaultTagPayloads,
	}
}

// Ingest runs the whole submission workflow. It never panics; every fault
// becomes a 500 result.
func (s *contactIngestServiceImpl) Ingest(ctx context.Context, payload models.Payload) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = s.fault(ctx, fmt.Errorf("panic: %v", r))
		}
	}()

	sub := models.SubmissionFromBody(payload.Fields, s.config.SlotField)
	if missing := sub.Validate(); len(missing) > 0 {
		for i, field := range missing {
			if field == "slot" {
				missing[i] = s.config.SlotField
			}
		}
		return s.finish("invalid", http.StatusBadRequest, map[string]interface{}{
			"error":    fmt.Sprintf("email, lastName and %s are required", s.config.SlotField),
			"fields":   missing,
			"received": payload.Received,
		})
	}

	if !s.config.HasAPIKey() {
		log.Ctx(ctx).Error().Msg("SIO_API_KEY is not set")
		return s.finish("missing_credential", http.StatusInternalServerError, map[string]interface{}{
			"error": "missing SIO_API_KEY",
		})
	}

	tagID, err := s.config.SlotTags.Resolve(sub.Slot)
	if errors.Is(err, config.ErrSlotNotConfigured) {
		return s.finish("unknown_slot", http.StatusBadRequest, map[string]interface{}{
			"error": "tag not configured for this slot",
			"slot":  sub.Slot,
		})
	}
	if err != nil {
		return s.fault(ctx, err)
	}

	logger := log.Ctx(ctx).With().
		Str("email_hash", utils.HashEmail(sub.Email)).
		Str("slot", sub.Slot).
		Int("tag_id", tagID).
		Logger()
	logger.Info().Msg("Processing submission")

	created, err := s.client.CreateContact(ctx, sub.Email, sub.LastName)
	if err != nil {
		telemetry.ObserveUpstream("create_contact", 0)
		return s.fault(ctx, err)
	}
	telemetry.ObserveUpstream("create_contact", created.StatusCode)

	if !created.OK() {
		logger.Warn().Int("status", created.StatusCode).Msg("systeme.io rejected contact")
		return s.finish("upstream_rejected", created.StatusCode, map[string]interface{}{
			"error":    "create/update contact failed",
			"step":     "create/update contact",
			"status":   created.StatusCode,
			"response": created.Body(),
		})
	}

	contactID, err := ContactID(created.JSON)
	if err != nil {
		logger.Error().Str("response", utils.Truncate(created.Raw, s.config.DetailLimit)).Msg("no contact identifier in response")
		return s.finish("unknown_contact_shape", http.StatusInternalServerError, map[string]interface{}{
			"error":    err.Error(),
			"response": created.Body(),
		})
	}
	logger = logger.With().Str("contact_id", contactID).Logger()

	attempts := make([]TagAttempt, 0, len(s.tagPayloads))
	for _, build := range s.tagPayloads {
		tagBody := build(tagID)
		resp, err := s.client.AssignTag(ctx, contactID, tagBody)
		if err != nil {
			telemetry.ObserveUpstream("assign_tag", 0)
			return s.fault(ctx, err)
		}
		telemetry.ObserveUpstream("assign_tag", resp.StatusCode)

		if resp.OK() {
			logger.Info().Int("attempt", len(attempts)+1).Msg("Contact tagged")
			return s.finish("tagged", http.StatusOK, map[string]interface{}{"ok": true})
		}

		attempts = append(attempts, TagAttempt{
			Status:   resp.StatusCode,
			Payload:  tagBody,
			Response: utils.Truncate(resp.Raw, s.config.DetailLimit),
		})
	}

	logger.Warn().Int("attempts", len(attempts)).Msg("Contact created but tag not applied")
	return s.finish("tag_failed", http.StatusMultiStatus, map[string]interface{}{
		"ok":       true,
		"warning":  "contact created but tag not applied",
		"attempts": attempts,
	})
}

func (s *contactIngestServiceImpl) finish(outcome string, status int, body map[string]interface{}) Result {
	telemetry.ObserveSubmission(outcome, status)
	return Result{Status: status, Body: body}
}

func (s *contactIngestServiceImpl) fault(ctx context.Context, err error) Result {
	log.Ctx(ctx).Error().Err(err).Msg("Error processing submission")
	return s.finish("fault", http.StatusInternalServerError, models.FaultBody(err))
}

// ContactID extracts the contact identifier from a create/update response:
// the top-level "id" first, then "contact.id".
func ContactID(body interface{}) (string, error) {
	m, ok := body.(map[string]interface{})
	if !ok {
		return "", ErrUnknownContactShape
	}
	if id, ok := idValue(m["id"]); ok {
		return id, nil
	}
	if nested, ok := m["contact"].(map[string]interface{}); ok {
		if id, ok := idValue(nested["id"]); ok {
			return id, nil
		}
	}
	return "", ErrUnknownContactShape
}

func idValue(v interface{}) (string, bool) {
	switch t := v.(type) {
	case float64:
		if t == 0 {
			return "", false
		}
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case string:
		t = strings.TrimSpace(t)
		return t, t != ""
	}
	return "", false
}
