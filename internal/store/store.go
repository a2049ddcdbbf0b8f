// Copyright (c) 2025 The LLM Security Playground Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store owns the conversation state machine: the append-only message
// history, the attachment list, the backend-assigned conversation id, and the
// single-send in-flight guard.
//
// The store performs no I/O. Mutating operations validate preconditions,
// update state, and hand back a request descriptor for the transport layer to
// execute; results are folded back in through the Apply methods. All calls
// happen on the UI event loop, so no locking is needed.
package store

import (
	"strings"

	"github.com/nyxragon/LLM-Security-Playground/internal/backend"
	"github.com/nyxragon/LLM-Security-Playground/internal/model"
)

// Store is the conversation state machine.
type Store struct {
	conversationID string
	messages       []*model.Message
	attachments    []model.Attachment
	inFlight       bool
}

// New creates an empty, unbound conversation store.
func New() *Store {
	return &Store{}
}

// =============================================================================
// STATE ACCESS
// =============================================================================

// ConversationID returns the backend-assigned id, or "" while unbound.
func (s *Store) ConversationID() string {
	return s.conversationID
}

// Bound reports whether the backend has assigned a conversation id.
func (s *Store) Bound() bool {
	return s.conversationID != ""
}

// Messages returns the ordered message history. Insertion order is the
// display order.
func (s *Store) Messages() []*model.Message {
	return s.messages
}

// Attachments returns the ordered attachment list.
func (s *Store) Attachments() []model.Attachment {
	return s.attachments
}

// InFlight reports whether a chat send is awaiting completion.
func (s *Store) InFlight() bool {
	return s.inFlight
}

// IsEmpty reports whether the conversation has no messages.
func (s *Store) IsEmpty() bool {
	return len(s.messages) == 0
}

// MessageCount returns the number of messages.
func (s *Store) MessageCount() int {
	return len(s.messages)
}

// LastMessage returns the most recent message, or nil if empty.
func (s *Store) LastMessage() *model.Message {
	if len(s.messages) == 0 {
		return nil
	}
	return s.messages[len(s.messages)-1]
}

// =============================================================================
// CHAT SEND
// =============================================================================

// BeginSend starts a chat send. Preconditions: trimmed text is non-empty, no
// send is in flight, and the backend is healthy. Any violation is a silent
// no-op (ok == false, no request, no state change).
//
// On acceptance the user message is appended immediately with the client
// clock, the in-flight guard is set, and the request to execute is returned.
func (s *Store) BeginSend(text, mode, sessionID string, healthy bool) (backend.ChatRequest, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || s.inFlight || !healthy {
		return backend.ChatRequest{}, false
	}

	s.messages = append(s.messages, model.NewUserMessage(trimmed))
	s.inFlight = true

	return backend.ChatRequest{
		Message:        trimmed,
		Mode:           mode,
		ConversationID: s.conversationID,
		SessionID:      sessionID,
	}, true
}

// ApplyChatSuccess folds a successful chat response into the conversation:
// the assistant message is appended with the backend's content, timestamp,
// and metadata, and the conversation id is adopted if none is bound yet.
// A bound id is never overwritten.
func (s *Store) ApplyChatSuccess(resp *backend.ChatResponse) *model.Message {
	msg := model.NewAssistantMessage(resp.Response, resp.Time(), resp.Metadata)
	s.messages = append(s.messages, msg)

	if s.conversationID == "" && resp.ConversationID != "" {
		s.conversationID = resp.ConversationID
	}

	s.inFlight = false
	return msg
}

// ApplyChatFailure folds a failed chat send into the conversation as a
// flagged system message. The failure never propagates past this boundary.
func (s *Store) ApplyChatFailure(err error) *model.Message {
	msg := model.NewErrorMessage(backend.Detail(err))
	s.messages = append(s.messages, msg)
	s.inFlight = false
	return msg
}

// =============================================================================
// UPLOADS
// =============================================================================

// AddUpload appends accepted attachments and one upload notice summarizing
// them. Upload results are not guarded by the in-flight flag and may
// interleave with chat messages in arrival order.
func (s *Store) AddUpload(attachments []model.Attachment, notice string) *model.Message {
	s.attachments = append(s.attachments, attachments...)
	msg := model.NewUploadNotice(notice)
	s.messages = append(s.messages, msg)
	return msg
}

// AppendError appends a flagged error message without touching the in-flight
// guard. Used for failures outside the chat send path (uploads, commands).
func (s *Store) AppendError(detail string) *model.Message {
	msg := model.NewErrorMessage(detail)
	s.messages = append(s.messages, msg)
	return msg
}

// AppendSystem appends an informational system message.
func (s *Store) AppendSystem(content string) *model.Message {
	msg := model.NewSystemMessage(content)
	s.messages = append(s.messages, msg)
	return msg
}

// =============================================================================
// CLEAR
// =============================================================================

// Clear empties the message and attachment sequences and unbinds the
// conversation. Returns the previously bound id so the caller can clear the
// server side as well. The in-flight guard is left alone: a response to an
// outstanding send still completes and clears it.
func (s *Store) Clear() string {
	previous := s.conversationID
	s.conversationID = ""
	s.messages = nil
	s.attachments = nil
	return previous
}
