// Copyright (c) 2025 The LLM Security Playground Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package backend provides the HTTP client for the playground backend API.
package backend

import "time"

// =============================================================================
// HEALTH
// =============================================================================

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
	Ollama string `json:"ollama,omitempty"`
	Error  string `json:"error,omitempty"`
}

// =============================================================================
// MODES
// =============================================================================

// ModeInfo describes a single testing mode as reported by the backend.
type ModeInfo struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Architecture string `json:"architecture"`
	Details      string `json:"details"`
}

// ModesResponse is the body of GET /modes.
type ModesResponse struct {
	Modes map[string]ModeInfo `json:"modes"`
}

// =============================================================================
// CHAT
// =============================================================================

// ChatRequest is the body of POST /chat.
// ConversationID is omitted until the backend assigns one; the backend treats
// absence as the start of a new conversation.
type ChatRequest struct {
	Message        string `json:"message"`
	Mode           string `json:"mode"`
	ConversationID string `json:"conversation_id,omitempty"`
	SessionID      string `json:"session_id"`
}

// ChatResponse is the body of a successful POST /chat.
type ChatResponse struct {
	Response       string         `json:"response"`
	ConversationID string         `json:"conversation_id"`
	Mode           string         `json:"mode,omitempty"`
	Timestamp      string         `json:"timestamp"`
	Metadata       map[string]any `json:"metadata"`
}

// Time parses the backend-supplied timestamp. Falls back to the local clock
// when the backend sends something unparseable, so message ordering never
// depends on a well-formed timestamp.
func (r *ChatResponse) Time() time.Time {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05.999999"} {
		if t, err := time.Parse(layout, r.Timestamp); err == nil {
			return t
		}
	}
	return time.Now()
}

// =============================================================================
// UPLOAD
// =============================================================================

// UploadedFile describes one stored file in an upload response.
type UploadedFile struct {
	FileID   string `json:"file_id,omitempty"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

// UploadResponse is the body of a successful POST /upload.
type UploadResponse struct {
	UploadedFiles []UploadedFile `json:"uploaded_files"`
	SessionID     string         `json:"session_id,omitempty"`
}

// =============================================================================
// CONVERSATIONS AND DOCUMENTS
// =============================================================================

// HistoryMessage is one entry of a server-side conversation history.
type HistoryMessage struct {
	Role      string         `json:"role"`
	Content   string         `json:"content"`
	Timestamp string         `json:"timestamp"`
	Metadata  map[string]any `json:"metadata"`
}

// ConversationResponse is the body of GET /conversations/{id}.
type ConversationResponse struct {
	ConversationID string           `json:"conversation_id"`
	History        []HistoryMessage `json:"history"`
}

// DocumentInfo describes one document held by the backend for a session.
type DocumentInfo struct {
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
	UploadTime string `json:"upload_time"`
	SessionID  string `json:"session_id"`
	Size       int64  `json:"size"`
	Status     string `json:"status"`
}

// DocumentsResponse is the body of GET /sessions/{id}/documents.
type DocumentsResponse struct {
	SessionID string         `json:"session_id"`
	Documents []DocumentInfo `json:"documents"`
}

// =============================================================================
// ANALYSIS
// =============================================================================

// Analysis is the backend's assessment of an adversarial attempt.
type Analysis struct {
	AttemptType        string   `json:"attempt_type"`
	SuccessProbability float64  `json:"success_probability"`
	RiskLevel          string   `json:"risk_level"`
	DetectedTechniques []string `json:"detected_techniques"`
	Recommendations    []string `json:"recommendations"`
}

// AnalyzeResponse is the body of POST /analyze.
type AnalyzeResponse struct {
	Analysis Analysis `json:"analysis"`
}

// errorBody is the shape of backend error responses. The detail field is
// optional; callers fall back to a generic description when it is absent.
type errorBody struct {
	Detail string `json:"detail"`
}
