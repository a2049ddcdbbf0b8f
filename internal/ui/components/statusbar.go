// Copyright (c) 2025 The LLM Security Playground Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the playground TUI.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/nyxragon/LLM-Security-Playground/internal/session"
	"github.com/nyxragon/LLM-Security-Playground/internal/ui/styles"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// StatusBar is the bottom status bar: backend health, active mode, session
// identity, attachment count, and key hints.
type StatusBar struct {
	Status      session.Status
	Mode        string
	ModeName    string
	SessionID   string
	Attachments int
	Sending     bool
	Width       int
	theme       *styles.Theme
}

// NewStatusBar creates a new StatusBar component.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		Status: session.StatusChecking,
		Width:  80,
		theme:  theme,
	}
}

// statusIndicator renders the health segment with a shape indicator so the
// state reads without color.
func (s *StatusBar) statusIndicator() string {
	switch s.Status {
	case session.StatusHealthy:
		return s.theme.StatusHealthy.Render(styles.StatusIndicators.Success + " healthy")
	case session.StatusDegraded:
		return s.theme.StatusDegraded.Render(styles.StatusIndicators.Warning + " degraded")
	case session.StatusUnreachable:
		return s.theme.StatusUnreached.Render(styles.StatusIndicators.Error + " unreachable")
	default:
		return s.theme.StatusChecking.Render(styles.StatusIndicators.Pending + " checking")
	}
}

// Render renders the status bar at the configured width.
func (s *StatusBar) Render() string {
	var segments []string

	segments = append(segments, s.statusIndicator())

	mode := s.ModeName
	if mode == "" {
		mode = s.Mode
	}
	if mode != "" {
		// Mode names come from the backend; keep long ones from eating the bar.
		segments = append(segments, s.theme.ModeBadge.Render(runewidth.Truncate(mode, 24, "…")))
	}

	if s.Attachments > 0 {
		segments = append(segments, s.theme.AttachmentsBadge.Render(
			fmt.Sprintf("%d file(s)", s.Attachments)))
	}

	if s.Sending {
		segments = append(segments, s.theme.ThinkingText.Render("waiting..."))
	}

	left := strings.Join(segments, s.theme.ShortcutDesc.Render(" | "))

	right := s.theme.ShortcutKey.Render("/help") +
		s.theme.ShortcutDesc.Render(" commands  ") +
		s.theme.ShortcutKey.Render("ctrl+c") +
		s.theme.ShortcutDesc.Render(" quit")

	// Session id goes in the middle, dimmed; drop it first when space is tight.
	sid := s.theme.ShortcutDesc.Render(s.SessionID)

	gap := s.Width - lipgloss.Width(left) - lipgloss.Width(right) - lipgloss.Width(sid) - 4
	if gap < 1 {
		sid = ""
		gap = s.Width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	}
	if gap < 1 {
		gap = 1
	}

	var bar string
	if sid != "" {
		half := gap / 2
		bar = left + strings.Repeat(" ", half) + sid + strings.Repeat(" ", gap-half) + right
	} else {
		bar = left + strings.Repeat(" ", gap) + right
	}

	return s.theme.StatusBar.Width(s.Width).Render(bar)
}
