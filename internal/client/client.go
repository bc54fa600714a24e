// Package client talks to the openleaf document API over HTTP. Its Save
// method makes *Client usable as an autosave.Saver.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/AashishRichhariya/openleaf/internal/domain/models"
)

const (
	// DefaultBaseURL is where a locally started server listens.
	DefaultBaseURL = "http://localhost:8080"
	// DefaultTimeout bounds each request.
	DefaultTimeout = 15 * time.Second
)

// ErrNotFound is returned by Save when updating a document that does not
// exist.
var ErrNotFound = errors.New("document not found")

// APIError is a non-2xx response other than a not-found.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
}

// Client calls the document API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the server at baseURL.
func New(baseURL string) *Client {
	return NewWithHTTPClient(baseURL, &http.Client{Timeout: DefaultTimeout})
}

// NewWithHTTPClient creates a client that sends requests through hc.
func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: hc}
}

type saveRequest struct {
	Content       json.RawMessage `json:"content"`
	ReadOnly      bool            `json:"read_only"`
	IsNewDocument bool            `json:"is_new_document"`
}

// Save stores content under slug. isNew selects create over update.
func (c *Client) Save(ctx context.Context, slug string, content json.RawMessage, readOnly, isNew bool) (models.Document, error) {
	if len(content) == 0 {
		content = json.RawMessage("null")
	}
	var doc models.Document
	err := c.do(ctx, http.MethodPut, documentPath(slug), saveRequest{
		Content:       content,
		ReadOnly:      readOnly,
		IsNewDocument: isNew,
	}, &doc)
	if err != nil {
		return models.Document{}, err
	}
	return doc, nil
}

// Fetch returns the document stored under slug, or nil when there is none.
func (c *Client) Fetch(ctx context.Context, slug string) (*models.Document, error) {
	var doc models.Document
	if err := c.do(ctx, http.MethodGet, documentPath(slug), nil, &doc); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doc, nil
}

// Exists reports whether a document is stored under slug.
func (c *Client) Exists(ctx context.Context, slug string) (bool, error) {
	var resp struct {
		Exists bool `json:"exists"`
	}
	if err := c.do(ctx, http.MethodGet, documentPath(slug)+"/exists", nil, &resp); err != nil {
		return false, err
	}
	return resp.Exists, nil
}

// NewSlug asks the server for an unused slug.
func (c *Client) NewSlug(ctx context.Context) (string, error) {
	var resp struct {
		Slug string `json:"slug"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/slugs", nil, &resp); err != nil {
		return "", err
	}
	return resp.Slug, nil
}

func documentPath(slug string) string {
	return "/api/documents/" + url.PathEscape(slug)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		var e struct {
			Error string `json:"error"`
		}
		msg := strings.TrimSpace(string(data))
		if json.Unmarshal(data, &e) == nil && e.Error != "" {
			msg = e.Error
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}
