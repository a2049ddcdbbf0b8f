// Copyright (c) 2025 The LLM Security Playground Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"errors"
	"regexp"
	"testing"

	"github.com/nyxragon/LLM-Security-Playground/internal/backend"
	"github.com/nyxragon/LLM-Security-Playground/internal/modes"
	"github.com/nyxragon/LLM-Security-Playground/internal/store"
)

func newController() (*Controller, *store.Store) {
	st := store.New()
	return NewController(modes.NewCatalog(), st), st
}

func TestSessionIDFormat(t *testing.T) {
	c, _ := newController()

	pattern := regexp.MustCompile(`^session_\d+_[0-9a-z]{9}$`)
	if !pattern.MatchString(c.SessionID()) {
		t.Errorf("session id %q does not match expected format", c.SessionID())
	}
}

func TestSessionIDIsStable(t *testing.T) {
	c, st := newController()
	id := c.SessionID()

	c.ApplyHealth(&backend.HealthResponse{Status: "healthy"}, nil)
	st.BeginSend("hello", c.Mode(), id, c.Healthy())
	if _, err := c.ChangeMode(modes.RAG); err != nil {
		t.Fatal(err)
	}

	if c.SessionID() != id {
		t.Errorf("session id changed: %q -> %q", id, c.SessionID())
	}
}

func TestInitialState(t *testing.T) {
	c, _ := newController()

	if c.Mode() != modes.DefaultMode {
		t.Errorf("expected default mode, got %q", c.Mode())
	}
	if c.Status() != StatusChecking {
		t.Errorf("expected checking, got %s", c.Status())
	}
	if c.Healthy() {
		t.Error("sends must be blocked before the first health probe")
	}
}

func TestApplyHealth(t *testing.T) {
	tests := []struct {
		name string
		resp *backend.HealthResponse
		err  error
		want Status
	}{
		{"healthy", &backend.HealthResponse{Status: "healthy"}, nil, StatusHealthy},
		{"degraded", &backend.HealthResponse{Status: "starting"}, nil, StatusDegraded},
		{"empty status", &backend.HealthResponse{}, nil, StatusDegraded},
		{"transport failure", nil, errors.New("connection refused"), StatusUnreachable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newController()
			if got := c.ApplyHealth(tt.resp, tt.err); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestChangeModeResetsConversation(t *testing.T) {
	c, st := newController()
	c.ApplyHealth(&backend.HealthResponse{Status: "healthy"}, nil)

	st.BeginSend("hello", c.Mode(), c.SessionID(), true)
	st.ApplyChatSuccess(&backend.ChatResponse{Response: "hi", ConversationID: "conv_1"})
	st.AddUpload(nil, "Uploaded 0 files: ")

	previous, err := c.ChangeMode(modes.Guardrails)
	if err != nil {
		t.Fatal(err)
	}
	if previous != "conv_1" {
		t.Errorf("expected previously bound id, got %q", previous)
	}
	if c.Mode() != modes.Guardrails {
		t.Errorf("mode not switched: %q", c.Mode())
	}
	if !st.IsEmpty() || st.Bound() || len(st.Attachments()) != 0 {
		t.Error("mode change must reset messages, attachments, and the bound id")
	}
}

func TestChangeModeSameModeIsNoOp(t *testing.T) {
	c, st := newController()
	st.BeginSend("hello", c.Mode(), c.SessionID(), true)
	st.ApplyChatSuccess(&backend.ChatResponse{Response: "hi", ConversationID: "conv_1"})

	previous, err := c.ChangeMode(c.Mode())
	if err != nil {
		t.Fatal(err)
	}
	if previous != "" {
		t.Errorf("no-op change should not report a reset, got %q", previous)
	}
	if st.IsEmpty() || !st.Bound() {
		t.Error("no-op change must preserve the conversation")
	}
}

func TestChangeModeUnknownMode(t *testing.T) {
	c, st := newController()
	st.BeginSend("hello", c.Mode(), c.SessionID(), true)

	_, err := c.ChangeMode("turbo")
	if !errors.Is(err, ErrInvalidMode) {
		t.Fatalf("expected ErrInvalidMode, got %v", err)
	}
	if c.Mode() != modes.DefaultMode {
		t.Error("failed change must not switch modes")
	}
	if st.IsEmpty() {
		t.Error("failed change must not reset the conversation")
	}
}

func TestSupportsUploadsTracksMode(t *testing.T) {
	c, _ := newController()

	if c.SupportsUploads() {
		t.Error("simple mode should not accept uploads")
	}
	if _, err := c.ChangeMode(modes.RAG); err != nil {
		t.Fatal(err)
	}
	if !c.SupportsUploads() {
		t.Error("rag mode should accept uploads")
	}
}
