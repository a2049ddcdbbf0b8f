// Copyright (c) 2025 The LLM Security Playground Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package backend provides the HTTP client for the playground backend API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the backend client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeUnreachable
	ErrTypeTimeout
	ErrTypeBackend
	ErrTypeInvalidResponse
)

// Sentinel errors for easy checking.
var (
	ErrUnreachable = &ClientError{Type: ErrTypeUnreachable, Message: "backend is not reachable"}
	ErrTimeout     = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
)

// IsUnreachable reports whether err indicates the backend could not be reached.
func IsUnreachable(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeUnreachable
	}
	return errors.Is(err, ErrUnreachable)
}

// Detail extracts the human-readable failure description from err.
// Backend-supplied detail is preferred; transport failures get a generic form.
func Detail(err error) string {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Message
	}
	if err != nil {
		return "request failed: " + err.Error()
	}
	return "request failed"
}

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the backend client.
type ClientConfig struct {
	// BaseURL is the playground backend base URL (default: http://127.0.0.1:8000)
	BaseURL string

	// Timeout for requests (default: 60s; chat against a local model is slow)
	Timeout time.Duration
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL: "http://127.0.0.1:8000",
		Timeout: 60 * time.Second,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the playground backend.
// It is safe for concurrent use.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
}

// NewClient creates a new backend client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a new backend client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://127.0.0.1:8000"
	}
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// =============================================================================
// HEALTH
// =============================================================================

// Health probes GET /health. A transport failure is reported as
// ErrTypeUnreachable; any 200 body is returned for status mapping by the
// session controller.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var result HealthResponse
	if err := c.getJSON(ctx, "/health", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// =============================================================================
// MODES
// =============================================================================

// Modes fetches the mode catalog from GET /modes.
func (c *Client) Modes(ctx context.Context) (map[string]ModeInfo, error) {
	var result ModesResponse
	if err := c.getJSON(ctx, "/modes", &result); err != nil {
		return nil, err
	}
	return result.Modes, nil
}

// =============================================================================
// CHAT
// =============================================================================

// Chat sends a message via POST /chat and returns the assistant response.
func (c *Client) Chat(ctx context.Context, chatReq ChatRequest) (*ChatResponse, error) {
	body, err := json.Marshal(chatReq)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/chat", bytes.NewReader(body))
	if err != nil {
		return nil, &ClientError{Type: ErrTypeUnreachable, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, ErrUnreachable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errorFromResponse(resp, "chat request failed")
	}

	var result ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}

	return &result, nil
}

// =============================================================================
// UPLOAD
// =============================================================================

// Upload sends one or more local files via multipart POST /upload, tagged
// with the session id and mode that should receive the documents.
func (c *Client) Upload(ctx context.Context, paths []string, sessionID, mode string) (*UploadResponse, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, &ClientError{Type: ErrTypeBackend, Message: "cannot read " + filepath.Base(path), Cause: err}
		}
		part, err := writer.CreateFormFile("files", filepath.Base(path))
		if err == nil {
			_, err = io.Copy(part, f)
		}
		f.Close()
		if err != nil {
			return nil, &ClientError{Type: ErrTypeBackend, Message: "cannot read " + filepath.Base(path), Cause: err}
		}
	}

	if err := writer.WriteField("session_id", sessionID); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to build request", Cause: err}
	}
	if err := writer.WriteField("mode", mode); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to build request", Cause: err}
	}
	if err := writer.Close(); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to build request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/upload", &buf)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeUnreachable, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, ErrUnreachable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errorFromResponse(resp, "upload failed")
	}

	var result UploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}

	return &result, nil
}

// =============================================================================
// CONVERSATIONS
// =============================================================================

// Conversation fetches server-side history via GET /conversations/{id}.
func (c *Client) Conversation(ctx context.Context, conversationID, mode string) (*ConversationResponse, error) {
	path := "/conversations/" + url.PathEscape(conversationID) + "?mode=" + url.QueryEscape(mode)
	var result ConversationResponse
	if err := c.getJSON(ctx, path, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteConversation clears server-side history via DELETE /conversations/{id}.
func (c *Client) DeleteConversation(ctx context.Context, conversationID, mode string) error {
	path := c.config.BaseURL + "/conversations/" + url.PathEscape(conversationID) + "?mode=" + url.QueryEscape(mode)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return &ClientError{Type: ErrTypeUnreachable, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrTimeout
		}
		return ErrUnreachable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errorFromResponse(resp, "clear failed")
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

// =============================================================================
// SESSION DOCUMENTS
// =============================================================================

// SessionDocuments lists the backend's documents for a session via
// GET /sessions/{id}/documents.
func (c *Client) SessionDocuments(ctx context.Context, sessionID, mode string) (*DocumentsResponse, error) {
	path := "/sessions/" + url.PathEscape(sessionID) + "/documents?mode=" + url.QueryEscape(mode)
	var result DocumentsResponse
	if err := c.getJSON(ctx, path, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// =============================================================================
// ANALYSIS
// =============================================================================

// Analyze submits an adversarial attempt for assessment via POST /analyze.
func (c *Client) Analyze(ctx context.Context, attempt string) (*Analysis, error) {
	body, err := json.Marshal(map[string]string{"attempt": attempt})
	if err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/analyze", bytes.NewReader(body))
	if err != nil {
		return nil, &ClientError{Type: ErrTypeUnreachable, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, ErrUnreachable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errorFromResponse(resp, "analyze request failed")
	}

	var result AnalyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}

	return &result.Analysis, nil
}

// =============================================================================
// HELPERS
// =============================================================================

// getJSON performs a GET against path and decodes the 200 body into out.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+path, nil)
	if err != nil {
		return &ClientError{Type: ErrTypeUnreachable, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrTimeout
		}
		return ErrUnreachable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errorFromResponse(resp, "request failed")
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}
	return nil
}

// errorFromResponse builds a ClientError from a non-200 response, preferring
// the backend's detail field when the body carries one.
func errorFromResponse(resp *http.Response, generic string) error {
	var body errorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Detail != "" {
		return &ClientError{Type: ErrTypeBackend, Message: body.Detail}
	}
	return &ClientError{Type: ErrTypeBackend, Message: generic + ": " + resp.Status}
}
