// Package cloudinary uploads event and spotlight images to Cloudinary.
package cloudinary

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.cloudinary.com/v1_1"

var (
	// ErrNotConfigured is returned by a nil client.
	ErrNotConfigured = errors.New("cloudinary: not configured")
	// ErrNotImage rejects payloads that are not images.
	ErrNotImage = errors.New("cloudinary: payload is not an image")
)

// Kind selects the sub-folder an asset is filed under.
type Kind string

const (
	KindEvent     Kind = "events"
	KindSpotlight Kind = "spotlight"
)

// ParseKind accepts "events" or "spotlight".
func ParseKind(s string) (Kind, bool) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindEvent, KindSpotlight:
		return k, true
	}
	return "", false
}

// unsigned parameters are sent but left out of the signature.
var unsigned = map[string]bool{"api_key": true, "file": true, "resource_type": true, "signature": true}

// Client talks to the Cloudinary upload API.
type Client struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
	BaseURL   string
	HTTP      *http.Client
	now       func() time.Time
}

// New creates a client, or nil when any credential is missing.
func New(cloudName, apiKey, apiSecret, folder string) *Client {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil
	}
	return &Client{
		CloudName: cloudName,
		APIKey:    apiKey,
		APISecret: apiSecret,
		Folder:    folder,
		BaseURL:   defaultBaseURL,
		HTTP:      &http.Client{Timeout: 30 * time.Second},
		now:       time.Now,
	}
}

// UploadResult is the subset of the Cloudinary response the API returns.
type UploadResult struct {
	PublicID  string `json:"public_id"`
	SecureURL string `json:"secure_url"`
	URL       string `json:"url"`
	Format    string `json:"format"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Bytes     int    `json:"bytes"`
}

// UploadDataURL uploads a base64 image data URL ("data:image/png;base64,...").
func (c *Client) UploadDataURL(ctx context.Context, kind Kind, dataURL string) (*UploadResult, error) {
	if !strings.HasPrefix(dataURL, "data:image/") || !strings.Contains(dataURL, ";base64,") {
		return nil, ErrNotImage
	}
	return c.upload(ctx, kind, func(w *multipart.Writer) error {
		return w.WriteField("file", dataURL)
	})
}

// UploadFile uploads raw image bytes. The content is sniffed, not trusted
// from the filename.
func (c *Client) UploadFile(ctx context.Context, kind Kind, data []byte, filename string) (*UploadResult, error) {
	if !strings.HasPrefix(http.DetectContentType(data), "image/") {
		return nil, ErrNotImage
	}
	return c.upload(ctx, kind, func(w *multipart.Writer) error {
		part, err := w.CreateFormFile("file", path.Base(filename))
		if err != nil {
			return fmt.Errorf("cloudinary: create form file: %w", err)
		}
		_, err = part.Write(data)
		return err
	})
}

func (c *Client) upload(ctx context.Context, kind Kind, writeFile func(*multipart.Writer) error) (*UploadResult, error) {
	if c == nil {
		return nil, ErrNotConfigured
	}
	form := c.params(kind)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k := range form {
		if err := w.WriteField(k, form.Get(k)); err != nil {
			return nil, err
		}
	}
	if err := writeFile(w); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("cloudinary: close form: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s/image/upload", strings.TrimRight(c.BaseURL, "/"), url.PathEscape(c.CloudName))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("cloudinary: read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("cloudinary: upload rejected (%d): %s", resp.StatusCode, errorMessage(body))
	}

	var result UploadResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("cloudinary: decode response: %w", err)
	}
	return &result, nil
}

// params builds the signed form fields for one upload.
func (c *Client) params(kind Kind) url.Values {
	form := url.Values{}
	form.Set("api_key", c.APIKey)
	form.Set("timestamp", strconv.FormatInt(c.now().Unix(), 10))
	form.Set("folder", path.Join(c.Folder, string(kind)))
	form.Set("tags", "ehsas,"+string(kind))
	form.Set("signature", c.signature(form))
	return form
}

// signature is sha1 over the sorted "k=v" pairs joined by "&", followed by
// the API secret.
func (c *Client) signature(form url.Values) string {
	keys := make([]string, 0, len(form))
	for k := range form {
		if !unsigned[k] && form.Get(k) != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(form.Get(k))
	}
	b.WriteString(c.APISecret)
	sum := sha1.Sum([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

func errorMessage(body []byte) string {
	var e struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil && e.Error.Message != "" {
		return e.Error.Message
	}
	return strings.TrimSpace(string(body))
}
