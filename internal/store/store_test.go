// Copyright (c) 2025 The LLM Security Playground Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"errors"
	"testing"

	"github.com/nyxragon/LLM-Security-Playground/internal/backend"
	"github.com/nyxragon/LLM-Security-Playground/internal/model"
)

func TestBeginSendAppendsUserMessage(t *testing.T) {
	s := New()

	req, ok := s.BeginSend("  hello  ", "simple", "session_1_abc", true)
	if !ok {
		t.Fatal("expected send to be accepted")
	}
	if req.Message != "hello" {
		t.Errorf("expected trimmed message, got %q", req.Message)
	}
	if req.Mode != "simple" || req.SessionID != "session_1_abc" {
		t.Errorf("request fields not carried through: %+v", req)
	}
	if req.ConversationID != "" {
		t.Errorf("unbound conversation should send empty id, got %q", req.ConversationID)
	}
	if s.MessageCount() != 1 {
		t.Fatalf("expected 1 message, got %d", s.MessageCount())
	}
	if s.LastMessage().Role != model.RoleUser {
		t.Errorf("expected user message, got %s", s.LastMessage().Role)
	}
	if !s.InFlight() {
		t.Error("expected in-flight guard to be set")
	}
}

func TestBeginSendSilentNoOps(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		healthy bool
		prime   func(*Store)
	}{
		{"empty text", "", true, nil},
		{"whitespace only", "   \t\n", true, nil},
		{"unhealthy backend", "hello", false, nil},
		{"already in flight", "hello", true, func(s *Store) {
			s.BeginSend("first", "simple", "sid", true)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			if tt.prime != nil {
				tt.prime(s)
			}
			before := s.MessageCount()

			_, ok := s.BeginSend(tt.text, "simple", "sid", tt.healthy)
			if ok {
				t.Fatal("expected send to be rejected")
			}
			if s.MessageCount() != before {
				t.Errorf("rejected send changed state: %d -> %d", before, s.MessageCount())
			}
		})
	}
}

func TestApplyChatSuccessBindsConversationOnce(t *testing.T) {
	s := New()

	s.BeginSend("first", "simple", "sid", true)
	s.ApplyChatSuccess(&backend.ChatResponse{Response: "hi", ConversationID: "conv_1"})

	if s.ConversationID() != "conv_1" {
		t.Fatalf("expected conv_1, got %q", s.ConversationID())
	}
	if s.InFlight() {
		t.Error("in-flight guard should clear on success")
	}

	// Later responses must never rebind.
	req, _ := s.BeginSend("second", "simple", "sid", true)
	if req.ConversationID != "conv_1" {
		t.Errorf("expected bound id in request, got %q", req.ConversationID)
	}
	s.ApplyChatSuccess(&backend.ChatResponse{Response: "again", ConversationID: "conv_2"})
	if s.ConversationID() != "conv_1" {
		t.Errorf("bound id was overwritten: %q", s.ConversationID())
	}
}

func TestApplyChatSuccessPreservesMetadata(t *testing.T) {
	s := New()
	s.BeginSend("q", "rag", "sid", true)

	meta := map[string]any{"processing_time": 12.3, "sources": []any{"a.txt"}}
	msg := s.ApplyChatSuccess(&backend.ChatResponse{Response: "a", ConversationID: "c", Metadata: meta})

	if msg.Role != model.RoleAssistant {
		t.Errorf("expected assistant message, got %s", msg.Role)
	}
	if msg.Metadata["processing_time"] != 12.3 {
		t.Errorf("metadata not preserved: %v", msg.Metadata)
	}
}

func TestApplyChatFailureAppendsErrorMessage(t *testing.T) {
	s := New()
	s.BeginSend("hello", "simple", "sid", true)

	msg := s.ApplyChatFailure(errors.New("boom"))

	if !msg.IsError {
		t.Error("expected error flag on failure message")
	}
	if msg.Role != model.RoleSystem {
		t.Errorf("expected system role, got %s", msg.Role)
	}
	if s.InFlight() {
		t.Error("in-flight guard should clear on failure")
	}
	if s.ConversationID() != "" {
		t.Error("failure must not bind a conversation")
	}
	if s.MessageCount() != 2 {
		t.Errorf("expected user + error messages, got %d", s.MessageCount())
	}
}

func TestAddUploadInterleavesWithChat(t *testing.T) {
	s := New()
	s.BeginSend("analyzing", "rag", "sid", true)

	// Uploads are not guarded by the chat in-flight flag.
	msg := s.AddUpload([]model.Attachment{
		{Filename: "a.txt", SizeBytes: 10},
		{Filename: "b.txt", SizeBytes: 20},
	}, "Uploaded 2 files: a.txt, b.txt")

	if !msg.IsUploadNotice {
		t.Error("expected upload notice flag")
	}
	if len(s.Attachments()) != 2 {
		t.Fatalf("expected 2 attachments, got %d", len(s.Attachments()))
	}
	if !s.InFlight() {
		t.Error("upload must not clear the chat in-flight guard")
	}
}

func TestClearResetsEverythingAndReturnsBoundID(t *testing.T) {
	s := New()
	s.BeginSend("hello", "rag", "sid", true)
	s.ApplyChatSuccess(&backend.ChatResponse{Response: "hi", ConversationID: "conv_9"})
	s.AddUpload([]model.Attachment{{Filename: "a.txt"}}, "Uploaded 1 file: a.txt")

	previous := s.Clear()

	if previous != "conv_9" {
		t.Errorf("expected previously bound id, got %q", previous)
	}
	if !s.IsEmpty() || len(s.Attachments()) != 0 || s.Bound() {
		t.Error("clear must empty messages, attachments, and the bound id")
	}

	// A fresh send after clear starts a new server-side conversation.
	req, ok := s.BeginSend("fresh", "rag", "sid", true)
	if !ok || req.ConversationID != "" {
		t.Errorf("post-clear send should be unbound, got %q", req.ConversationID)
	}
}

func TestClearLeavesInFlightGuardAlone(t *testing.T) {
	s := New()
	s.BeginSend("hello", "simple", "sid", true)

	s.Clear()
	if !s.InFlight() {
		t.Fatal("clear must not drop the guard while a send is outstanding")
	}

	// The straggler response still completes and releases the guard.
	s.ApplyChatSuccess(&backend.ChatResponse{Response: "late", ConversationID: "conv_x"})
	if s.InFlight() {
		t.Error("late response should release the guard")
	}
}
