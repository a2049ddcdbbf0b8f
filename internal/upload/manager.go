// Copyright (c) 2025 The LLM Security Playground Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package upload drives document uploads for retrieval-backed modes. Uploads
// run outside the chat send guard: several batches may be in flight at once
// and their results fold into the conversation in arrival order.
package upload

import (
	"fmt"
	"strings"

	"github.com/nyxragon/LLM-Security-Playground/internal/backend"
	"github.com/nyxragon/LLM-Security-Playground/internal/model"
	"github.com/nyxragon/LLM-Security-Playground/internal/store"
)

// Request describes one upload batch handed to the transport layer.
type Request struct {
	Paths     []string
	SessionID string
	Mode      string
}

// Manager folds upload results into the conversation store.
type Manager struct {
	store *store.Store
}

// NewManager creates a manager writing results into st.
func NewManager(st *store.Store) *Manager {
	return &Manager{store: st}
}

// Begin validates an upload batch. An empty selection is a silent no-op.
// Batches are deliberately not serialized: the caller may start another
// before this one completes.
func (m *Manager) Begin(paths []string, sessionID, mode string) (Request, bool) {
	if len(paths) == 0 {
		return Request{}, false
	}
	return Request{Paths: paths, SessionID: sessionID, Mode: mode}, true
}

// ApplySuccess records the accepted files as attachments and appends a
// single notice summarizing the batch.
func (m *Manager) ApplySuccess(resp *backend.UploadResponse) *model.Message {
	attachments := make([]model.Attachment, 0, len(resp.UploadedFiles))
	names := make([]string, 0, len(resp.UploadedFiles))
	for _, f := range resp.UploadedFiles {
		attachments = append(attachments, model.Attachment{
			Filename:  f.Filename,
			SizeBytes: f.Size,
		})
		names = append(names, f.Filename)
	}
	return m.store.AddUpload(attachments, noticeText(names))
}

// ApplyFailure appends a flagged error message; no attachments are recorded.
func (m *Manager) ApplyFailure(err error) *model.Message {
	return m.store.AppendError(backend.Detail(err))
}

func noticeText(names []string) string {
	noun := "files"
	if len(names) == 1 {
		noun = "file"
	}
	return fmt.Sprintf("Uploaded %d %s: %s", len(names), noun, strings.Join(names, ", "))
}
