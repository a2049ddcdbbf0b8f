// Copyright (c) 2025 The LLM Security Playground Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// submitInput handles the enter key: slash input dispatches a command,
// anything else goes to the chat pipeline. The store decides whether the
// send actually happens (blank input, backend unhealthy, or a response
// already in flight all no-op silently).
func (m *Model) submitInput() tea.Cmd {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return nil
	}

	if strings.HasPrefix(text, "/") {
		m.input.Reset()
		return m.handleCommand(text)
	}

	req, ok := m.store.BeginSend(text, m.session.Mode(), m.session.SessionID(), m.session.Healthy())
	if !ok {
		return nil
	}

	m.input.Reset()
	m.refreshViewport()
	return m.sendChatCmd(req)
}
