package notes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/csheth/jot/internal/logging"
)

const (
	defaultTimeout  = 30 * time.Second
	listingCacheTTL = 10 * time.Second
	listingCacheKey = "notes"
	errorBodyLimit  = 512
)

// Config configures a Client.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *logging.Logger
}

// Client talks to the notes backend over HTTP.
type Client struct {
	base    *url.URL
	timeout time.Duration
	http    *http.Client
	listing *cache.Cache
	log     *logging.Logger
}

// NewClient validates the base URL and builds a client.
func NewClient(cfg Config) (*Client, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		return nil, errors.New("notes: server URL is required")
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("notes: parse server URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("notes: unsupported server URL scheme %q", base.Scheme)
	}
	base.Path = strings.TrimRight(base.Path, "/")

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		base:    base,
		timeout: timeout,
		http:    httpClient,
		listing: cache.New(listingCacheTTL, time.Minute),
		log:     cfg.Logger,
	}, nil
}

// BaseURL reports the backend address.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// List returns every note in backend insertion order with Index populated.
func (c *Client) List(ctx context.Context) ([]Note, error) {
	var out []Note
	if err := c.getJSON(ctx, "list", "/notes", nil, &out); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Index = i
	}
	c.listing.Set(listingCacheKey, out, cache.DefaultExpiration)
	return out, nil
}

// Search returns the notes whose content contains query, case-insensitively.
// The backend does not report positions, so Index is -1.
func (c *Client) Search(ctx context.Context, query string) ([]Note, error) {
	var out []Note
	params := url.Values{"q": []string{query}}
	if err := c.getJSON(ctx, "search", "/notes/search", params, &out); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Index = -1
	}
	return out, nil
}

// Get returns the note at a backend index.
func (c *Client) Get(ctx context.Context, index int) (Note, error) {
	var out Note
	if err := c.getJSON(ctx, "get", "/notes/"+strconv.Itoa(index), nil, &out); err != nil {
		return Note{}, err
	}
	out.Index = index
	return out, nil
}

// Create stores a new note. The body is the JSON encoding of text.
func (c *Client) Create(ctx context.Context, text string) error {
	payload, err := json.Marshal(text)
	if err != nil {
		return err
	}
	resp, err := c.do(ctx, "create", http.MethodPost, "/notes", nil, bytes.NewReader(payload), "application/json")
	if err != nil {
		return err
	}
	resp.Body.Close()
	c.invalidate()
	return nil
}

// Delete removes the note at a backend index.
func (c *Client) Delete(ctx context.Context, index int) error {
	resp, err := c.do(ctx, "delete", http.MethodDelete, "/notes/"+strconv.Itoa(index), nil, nil, "")
	if err != nil {
		return err
	}
	resp.Body.Close()
	c.invalidate()
	return nil
}

// Content returns the raw text of the note at a backend index.
func (c *Client) Content(ctx context.Context, index int) (string, error) {
	resp, err := c.do(ctx, "content", http.MethodGet, "/notes/"+strconv.Itoa(index)+"/content", nil, nil, "")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("notes: read content: %w", err)
	}
	return string(body), nil
}

// Upload sends one file as multipart field "file" and returns the path the
// backend stored it under.
func (c *Client) Upload(ctx context.Context, name, contentType string, data io.Reader) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, data); err != nil {
		return "", fmt.Errorf("notes: read %s: %w", name, err)
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	resp, err := c.do(ctx, "upload", http.MethodPost, "/upload", nil, &body, writer.FormDataContentType())
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	c.invalidate()

	var path string
	if err := json.NewDecoder(resp.Body).Decode(&path); err != nil {
		return "", fmt.Errorf("notes: decode upload response: %w", err)
	}
	if path == "" {
		return "", errors.New("notes: upload returned an empty path")
	}
	return path, nil
}

func (c *Client) invalidate() {
	c.listing.Delete(listingCacheKey)
}

func (c *Client) getJSON(ctx context.Context, op, path string, params url.Values, out any) error {
	resp, err := c.do(ctx, op, http.MethodGet, path, params, nil, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("notes: decode %s response: %w", op, err)
	}
	return nil
}

// do issues a request and turns non-2xx answers into *StatusError. The caller
// closes the body on success.
func (c *Client) do(ctx context.Context, op, method, path string, params url.Values, body io.Reader, contentType string) (*http.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)

	target := *c.base
	target.Path = c.base.Path + path
	if len(params) > 0 {
		target.RawQuery = params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		cancel()
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		cancel()
		c.log.Warn("notes", "request failed", map[string]any{"op": op, "url": target.String(), "error": err})
		return nil, fmt.Errorf("notes: %s: %w", op, err)
	}
	c.log.Debug("notes", "request complete", map[string]any{
		"op":       op,
		"method":   method,
		"url":      target.String(),
		"status":   resp.StatusCode,
		"duration": time.Since(started).String(),
	})
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		resp.Body.Close()
		cancel()
		return nil, &StatusError{Op: op, Code: resp.StatusCode, Status: resp.Status, Body: string(snippet)}
	}
	resp.Body = &cancelBody{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

// cancelBody releases the request timeout once the body is closed.
type cancelBody struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelBody) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}
