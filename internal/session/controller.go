// Copyright (c) 2025 The LLM Security Playground Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session tracks the client session identity, the active mode, and
// the backend health status. The session id is minted once at startup and
// never changes; everything else the controller owns can change at runtime.
package session

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/nyxragon/LLM-Security-Playground/internal/backend"
	"github.com/nyxragon/LLM-Security-Playground/internal/modes"
	"github.com/nyxragon/LLM-Security-Playground/internal/store"
)

// ErrInvalidMode is returned when a mode change names an unknown mode.
var ErrInvalidMode = errors.New("unknown mode")

// Status is the backend reachability state as last observed.
type Status int

const (
	// StatusChecking is the initial state before the first health probe.
	StatusChecking Status = iota
	// StatusHealthy means the backend reported itself healthy.
	StatusHealthy
	// StatusDegraded means the backend answered but is not healthy.
	StatusDegraded
	// StatusUnreachable means the health probe failed at the transport level.
	StatusUnreachable
)

func (s Status) String() string {
	switch s {
	case StatusChecking:
		return "checking"
	case StatusHealthy:
		return "healthy"
	case StatusDegraded:
		return "degraded"
	case StatusUnreachable:
		return "unreachable"
	default:
		return "unknown"
	}
}

// Controller owns the session id, the active mode, and the health status.
// It cascades mode changes into the conversation store.
type Controller struct {
	sessionID string
	mode      string
	status    Status
	catalog   *modes.Catalog
	store     *store.Store
}

// NewController mints a fresh session id and starts in the default mode with
// status checking.
func NewController(catalog *modes.Catalog, st *store.Store) *Controller {
	return &Controller{
		sessionID: newSessionID(time.Now()),
		mode:      modes.DefaultMode,
		status:    StatusChecking,
		catalog:   catalog,
		store:     st,
	}
}

// newSessionID builds "session_<epoch-millis>_<9-char base36 suffix>". The
// suffix keeps concurrent clients started in the same millisecond distinct.
func newSessionID(now time.Time) string {
	const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	var b strings.Builder
	for i := 0; i < 9; i++ {
		b.WriteByte(alphabet[rand.Intn(len(alphabet))])
	}
	return fmt.Sprintf("session_%d_%s", now.UnixMilli(), b.String())
}

// SessionID returns the immutable session identity.
func (c *Controller) SessionID() string {
	return c.sessionID
}

// Mode returns the active mode id.
func (c *Controller) Mode() string {
	return c.mode
}

// ModeInfo returns the catalog entry for the active mode.
func (c *Controller) ModeInfo() (modes.Info, bool) {
	return c.catalog.Get(c.mode)
}

// Status returns the last observed backend status.
func (c *Controller) Status() Status {
	return c.status
}

// Healthy reports whether chat sends are currently allowed.
func (c *Controller) Healthy() bool {
	return c.status == StatusHealthy
}

// SupportsUploads reports whether the active mode accepts document uploads.
func (c *Controller) SupportsUploads() bool {
	return modes.SupportsUploads(c.mode)
}

// =============================================================================
// HEALTH
// =============================================================================

// ApplyHealth folds a health probe result into the status. A transport
// failure maps to unreachable; a response that is anything but "healthy"
// maps to degraded.
func (c *Controller) ApplyHealth(resp *backend.HealthResponse, err error) Status {
	switch {
	case err != nil:
		c.status = StatusUnreachable
	case resp != nil && resp.Status == "healthy":
		c.status = StatusHealthy
	default:
		c.status = StatusDegraded
	}
	return c.status
}

// =============================================================================
// MODE CHANGE
// =============================================================================

// ChangeMode switches the active mode and resets the conversation: messages,
// attachments, and the bound conversation id all go, atomically from the
// event loop's point of view. Switching to the current mode is a no-op that
// preserves the conversation. Returns the conversation id that was bound
// before the reset, so the caller can clear the server side.
func (c *Controller) ChangeMode(id string) (previousConvID string, err error) {
	if !c.catalog.Has(id) {
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, id)
	}
	if id == c.mode {
		return "", nil
	}
	c.mode = id
	return c.store.Clear(), nil
}
