// Copyright (c) 2025 The LLM Security Playground Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file defines the Bubble Tea messages that carry backend results into
// the update loop. All state mutation happens in Update; the commands that
// produce these messages live in model.go and only perform I/O.
package chat

import (
	"github.com/nyxragon/LLM-Security-Playground/internal/backend"
)

// HealthResultMsg carries the outcome of a health probe.
type HealthResultMsg struct {
	Resp *backend.HealthResponse
	Err  error
}

// ModesResultMsg carries the fetched mode catalog.
type ModesResultMsg struct {
	Modes map[string]backend.ModeInfo
	Err   error
}

// ChatResultMsg carries the outcome of a chat send.
type ChatResultMsg struct {
	Resp *backend.ChatResponse
	Err  error
}

// UploadResultMsg carries the outcome of one upload batch. Several of these
// may be in flight at once; they fold into the conversation in arrival order.
type UploadResultMsg struct {
	Resp *backend.UploadResponse
	Err  error
}

// ClearResultMsg carries the outcome of a server-side conversation delete.
// Failures are ignored: the local reset already happened.
type ClearResultMsg struct {
	Err error
}

// DocumentsResultMsg carries the backend's document list for this session.
type DocumentsResultMsg struct {
	Resp *backend.DocumentsResponse
	Err  error
}

// AnalyzeResultMsg carries the backend's assessment of an adversarial attempt.
type AnalyzeResultMsg struct {
	Attempt  string
	Analysis *backend.Analysis
	Err      error
}

// HistoryResultMsg carries the server-side history of the bound conversation.
type HistoryResultMsg struct {
	Resp *backend.ConversationResponse
	Err  error
}
