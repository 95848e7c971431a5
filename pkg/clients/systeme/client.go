package systeme

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"
)

// Client defines the interface for interacting with the systeme.io contact API
type Client interface {
	CreateContact(ctx context.Context, email, lastName string) (*Response, error)
	AssignTag(ctx context.Context, contactID string, payload map[string]interface{}) (*Response, error)
}

// Response is an upstream reply read to completion. JSON is nil when the
// body is not valid JSON.
type Response struct {
	StatusCode int
	Raw        string
	JSON       interface{}
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Body returns the parsed JSON when available, otherwise the raw text.
func (r *Response) Body() interface{} {
	if r.JSON != nil {
		return r.JSON
	}
	return r.Raw
}

type clientImpl struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new systeme.io client. A nil httpClient falls back to
// http.DefaultClient.
func NewClient(apiKey, baseURL string, httpClient *http.Client) Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &clientImpl{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

func (c *clientImpl) CreateContact(ctx context.Context, email, lastName string) (*Response, error) {
	payload := map[string]interface{}{
		"email":    email,
		"lastName": lastName,
	}

	resp, err := c.post(ctx, "/api/contacts", payload)
	if err != nil {
		return nil, fmt.Errorf("error creating contact: %w", err)
	}

	log.Ctx(ctx).Debug().Int("status", resp.StatusCode).Msg("systeme.io create/update contact")
	return resp, nil
}

func (c *clientImpl) AssignTag(ctx context.Context, contactID string, payload map[string]interface{}) (*Response, error) {
	path := fmt.Sprintf("/api/contacts/%s/tags", url.PathEscape(contactID))

	resp, err := c.post(ctx, path, payload)
	if err != nil {
		return nil, fmt.Errorf("error assigning tag: %w", err)
	}

	log.Ctx(ctx).Debug().
		Str("contact_id", contactID).
		Int("status", resp.StatusCode).
		Msg("systeme.io assign tag")
	return resp, nil
}

func (c *clientImpl) post(ctx context.Context, path string, payload map[string]interface{}) (*Response, error) {
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("error creating payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")
	req.Header.Add("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// Read the whole body before parsing so failures keep the raw text.
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	out := &Response{StatusCode: resp.StatusCode, Raw: string(body)}
	var parsed interface{}
	if err := json.Unmarshal(body, &parsed); err == nil {
		out.JSON = parsed
	}
	return out, nil
}
