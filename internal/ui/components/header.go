// Copyright (c) 2025 The LLM Security Playground Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nyxragon/LLM-Security-Playground/internal/ui/styles"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Header is the single-line top bar: app title on the left, the active
// mode's architecture sketch on the right.
type Header struct {
	Title        string
	Architecture string
	Width        int
	theme        *styles.Theme
}

// NewHeader creates a new Header component.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title: "LLM Security Playground",
		Width: 80,
		theme: theme,
	}
}

// Render renders the header at the configured width.
func (h *Header) Render() string {
	title := h.theme.HeaderTitle.Render(h.Title)
	arch := h.theme.HeaderSubtitle.Render(h.Architecture)

	gap := h.Width - lipgloss.Width(title) - lipgloss.Width(arch) - 2
	if gap < 1 {
		arch = ""
		gap = h.Width - lipgloss.Width(title) - 2
	}
	if gap < 1 {
		gap = 1
	}

	return h.theme.Header.Width(h.Width).Render(title + strings.Repeat(" ", gap) + arch)
}
