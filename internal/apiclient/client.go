// Package apiclient is a typed HTTP client for the EHSAS API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ehsas/internal/alumni"
	"ehsas/internal/content"
	"ehsas/internal/notify"
)

// APIError is a non-2xx response carrying the API's error body.
type APIError struct {
	Status int
	Code   string `json:"error"`
	Detail string `json:"detail"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ehsas api %d %s: %s", e.Status, e.Code, e.Detail)
}

// Session is a successful admin login.
type Session struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Token string `json:"token"`
}

// Stats mirrors GET /admin/stats.
type Stats struct {
	TotalAlumni          int                 `json:"total_alumni"`
	PendingRegistrations int                 `json:"pending_registrations"`
	TotalEvents          int                 `json:"total_events"`
	BatchDistribution    []alumni.BatchCount `json:"batch_distribution"`
}

// Client calls the API. Token is sent as a bearer credential when set.
type Client struct {
	BaseURL string
	Prefix  string
	Token   string
	HTTP    *http.Client
}

// New creates a client for baseURL, e.g. http://localhost:8001.
func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Prefix:  "/api",
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Health checks /healthz.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, c.BaseURL+"/healthz", nil, nil)
}

// Root returns the API banner message.
func (c *Client) Root(ctx context.Context) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	err := c.call(ctx, http.MethodGet, "/", nil, &out)
	return out.Message, err
}

// Login authenticates and stores the token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var out Session
	body := map[string]string{"email": email, "password": password}
	if err := c.call(ctx, http.MethodPost, "/auth/admin/login", body, &out); err != nil {
		return nil, err
	}
	c.Token = out.Token
	return &out, nil
}

// Register submits a registration and returns the new record id.
func (c *Client) Register(ctx context.Context, r alumni.Registration) (string, error) {
	var out struct {
		ID string `json:"id"`
	}
	err := c.call(ctx, http.MethodPost, "/alumni/register", r, &out)
	return out.ID, err
}

// ListAlumni queries the public directory. query may carry batch,
// profession, city and status.
func (c *Client) ListAlumni(ctx context.Context, query url.Values) ([]alumni.Alumni, error) {
	path := "/alumni"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	var out []alumni.Alumni
	err := c.call(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func (c *Client) ListPending(ctx context.Context) ([]alumni.Alumni, error) {
	var out []alumni.Alumni
	err := c.call(ctx, http.MethodGet, "/alumni/pending", nil, &out)
	return out, err
}

func (c *Client) ListAll(ctx context.Context) ([]alumni.Alumni, error) {
	var out []alumni.Alumni
	err := c.call(ctx, http.MethodGet, "/alumni/all", nil, &out)
	return out, err
}

// Approve returns the EHSAS id assigned to the record.
func (c *Client) Approve(ctx context.Context, id string) (string, error) {
	var out struct {
		EhsasID string `json:"ehsas_id"`
	}
	err := c.call(ctx, http.MethodPut, "/alumni/"+url.PathEscape(id)+"/approve", nil, &out)
	return out.EhsasID, err
}

func (c *Client) Reject(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodPut, "/alumni/"+url.PathEscape(id)+"/reject", nil, nil)
}

func (c *Client) Stats(ctx context.Context) (*Stats, error) {
	var out Stats
	if err := c.call(ctx, http.MethodGet, "/admin/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Notifications(ctx context.Context) ([]notify.Notification, error) {
	var out []notify.Notification
	err := c.call(ctx, http.MethodGet, "/admin/notifications", nil, &out)
	return out, err
}

func (c *Client) MarkRead(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodPut, "/admin/notifications/"+url.PathEscape(id)+"/read", nil, nil)
}

// Events lists events; activeOnly=false requires no token but shows hidden ones.
func (c *Client) Events(ctx context.Context, activeOnly bool) ([]content.Event, error) {
	var out []content.Event
	err := c.call(ctx, http.MethodGet, fmt.Sprintf("/events?active_only=%t", activeOnly), nil, &out)
	return out, err
}

func (c *Client) CreateEvent(ctx context.Context, in content.EventInput) (*content.Event, error) {
	var out content.Event
	if err := c.call(ctx, http.MethodPost, "/events", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateEvent(ctx context.Context, id string, in content.EventInput) error {
	return c.call(ctx, http.MethodPut, "/events/"+url.PathEscape(id), in, nil)
}

func (c *Client) DeleteEvent(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, "/events/"+url.PathEscape(id), nil, nil)
}

// Spotlight lists featured profiles, or every profile when all is set.
func (c *Client) Spotlight(ctx context.Context, all bool) ([]content.Spotlight, error) {
	path := "/spotlight"
	if all {
		path = "/spotlight/all"
	}
	var out []content.Spotlight
	err := c.call(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func (c *Client) CreateSpotlight(ctx context.Context, in content.SpotlightInput) (*content.Spotlight, error) {
	var out content.Spotlight
	if err := c.call(ctx, http.MethodPost, "/spotlight", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateSpotlight(ctx context.Context, id string, in content.SpotlightInput) error {
	return c.call(ctx, http.MethodPut, "/spotlight/"+url.PathEscape(id), in, nil)
}

func (c *Client) DeleteSpotlight(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, "/spotlight/"+url.PathEscape(id), nil, nil)
}

func (c *Client) call(ctx context.Context, method, path string, in, out any) error {
	return c.do(ctx, method, c.BaseURL+c.Prefix+path, in, out)
}

func (c *Client) do(ctx context.Context, method, target string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("ehsas api request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		raw, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(raw, apiErr) != nil || apiErr.Code == "" {
			apiErr.Detail = strings.TrimSpace(string(raw))
		}
		return apiErr
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
