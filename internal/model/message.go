// Copyright (c) 2025 The LLM Security Playground Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	case RoleSystem:
		return "System"
	default:
		return string(r)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single message in a conversation.
// IDs exist only as render keys; ordering is the position in the
// conversation's message slice, never the ID or timestamp.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`

	// Metadata carries backend-supplied annotations for assistant messages
	// (guardrail scores, retrieval sources, timings). Opaque to the core.
	Metadata map[string]any `json:"metadata,omitempty"`

	// Flags for system messages
	IsError        bool `json:"is_error,omitempty"`
	IsUploadNotice bool `json:"is_upload_notice,omitempty"`
}

// NewMessage creates a new message with a generated ID and the local clock.
func NewMessage(role Role, content string) *Message {
	return &Message{
		ID:        generateID(),
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	}
}

// NewUserMessage creates a new user message stamped with the client clock.
func NewUserMessage(content string) *Message {
	return NewMessage(RoleUser, content)
}

// NewAssistantMessage creates an assistant message with a backend-supplied
// timestamp and annotation metadata.
func NewAssistantMessage(content string, createdAt time.Time, metadata map[string]any) *Message {
	return &Message{
		ID:        generateID(),
		Role:      RoleAssistant,
		Content:   content,
		CreatedAt: createdAt,
		Metadata:  metadata,
	}
}

// NewSystemMessage creates a new system message.
func NewSystemMessage(content string) *Message {
	return NewMessage(RoleSystem, content)
}

// NewErrorMessage creates a system message flagged as an error.
func NewErrorMessage(content string) *Message {
	msg := NewMessage(RoleSystem, content)
	msg.IsError = true
	return msg
}

// NewUploadNotice creates a system message flagged as an upload confirmation.
func NewUploadNotice(content string) *Message {
	msg := NewMessage(RoleSystem, content)
	msg.IsUploadNotice = true
	return msg
}

// =============================================================================
// MESSAGE METHODS
// =============================================================================

// Preview returns a truncated preview of the message content.
// Uses rune-based truncation to handle Unicode correctly. Widths too small
// for an ellipsis just cut the content.
func (m *Message) Preview(maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	runes := []rune(m.Content)
	if len(runes) <= maxLen {
		return m.Content
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// IsEmpty returns true if the message has no content.
func (m *Message) IsEmpty() bool {
	return strings.TrimSpace(m.Content) == ""
}

// =============================================================================
// ATTACHMENT TYPE
// =============================================================================

// Attachment is a file the backend accepted as document context for the
// active session and mode.
type Attachment struct {
	Filename  string `json:"filename"`
	SizeBytes int64  `json:"size_bytes"`
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// generateID creates a unique message ID.
func generateID() string {
	return "msg_" + uuid.NewString()
}
