// Copyright (c) 2025 The LLM Security Playground Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nyxragon/LLM-Security-Playground/internal/modes"
	"github.com/nyxragon/LLM-Security-Playground/internal/session"
)

// =============================================================================
// COMMAND REGISTRY
// =============================================================================

// CommandHandler processes a slash command and returns an optional command.
type CommandHandler func(m *Model, args []string) tea.Cmd

// commandHandlers maps command names (without the slash) to handlers.
// Aliases point at the same handler.
var commandHandlers = map[string]CommandHandler{
	"help":    handleHelp,
	"h":       handleHelp,
	"?":       handleHelp,
	"mode":    handleMode,
	"modes":   handleModes,
	"clear":   handleClear,
	"c":       handleClear,
	"upload":  handleUpload,
	"u":       handleUpload,
	"docs":    handleDocs,
	"history": handleHistory,
	"analyze": handleAnalyze,
	"quit":    handleQuit,
	"q":       handleQuit,
	"exit":    handleQuit,
}

// handleCommand parses a slash command line and dispatches it.
func (m *Model) handleCommand(text string) tea.Cmd {
	parts := strings.Fields(text)
	if len(parts) == 0 {
		return nil
	}

	name := strings.ToLower(strings.TrimPrefix(parts[0], "/"))
	handler, ok := commandHandlers[name]
	if !ok {
		m.store.AppendError(fmt.Sprintf("Unknown command: /%s. Type /help for a list.", name))
		m.refreshViewport()
		return nil
	}

	cmd := handler(m, parts[1:])
	m.refreshViewport()
	return cmd
}

// =============================================================================
// HANDLERS
// =============================================================================

func handleHelp(m *Model, _ []string) tea.Cmd {
	var b strings.Builder
	b.WriteString("Commands:\n")
	b.WriteString("  /mode <id>       switch security mode (resets the conversation)\n")
	b.WriteString("  /modes           list available modes\n")
	b.WriteString("  /clear           reset the conversation (ctrl+l)\n")
	b.WriteString("  /upload <paths>  attach documents to this session\n")
	b.WriteString("  /docs            list documents stored for this session\n")
	b.WriteString("  /history         show the server's record of this conversation\n")
	b.WriteString("  /analyze <text>  assess an adversarial prompt without sending it\n")
	b.WriteString("  /quit            leave the playground")
	m.store.AppendSystem(b.String())
	return nil
}

func handleMode(m *Model, args []string) tea.Cmd {
	if len(args) == 0 {
		m.store.AppendError("Usage: /mode <id>. Type /modes to list options.")
		return nil
	}

	id := strings.ToLower(args[0])
	before := m.session.Mode()
	previous, err := m.session.ChangeMode(id)
	if err != nil {
		if errors.Is(err, session.ErrInvalidMode) {
			m.store.AppendError(fmt.Sprintf("Unknown mode %q. Type /modes to list options.", id))
		} else {
			m.store.AppendError(err.Error())
		}
		return nil
	}

	// Same mode: nothing changed, nothing to announce.
	if before == id {
		return nil
	}

	m.input.Placeholder = modes.GetPresentation(id).Placeholder

	if previous == "" {
		return nil
	}
	// The old conversation belonged to the previous mode's pipeline.
	return m.deleteConversationCmd(previous, before)
}

func handleModes(m *Model, _ []string) tea.Cmd {
	var b strings.Builder
	b.WriteString("Available modes:\n")

	for _, id := range m.catalog.IDs() {
		info, _ := m.catalog.Get(id)
		marker := " "
		if id == m.session.Mode() {
			marker = "*"
		}
		fmt.Fprintf(&b, "%s %s %-10s %s\n", marker, modes.GetPresentation(id).Icon, id, info.Description)
	}
	b.WriteString("\nSwitch with /mode <id>.")
	m.store.AppendSystem(b.String())
	return nil
}

func handleClear(m *Model, _ []string) tea.Cmd {
	return m.clearConversation()
}

func handleUpload(m *Model, args []string) tea.Cmd {
	if !m.session.SupportsUploads() {
		m.store.AppendError(fmt.Sprintf("Mode %q does not accept document uploads. Try rag or multiuser.", m.session.Mode()))
		return nil
	}
	if len(args) == 0 {
		m.store.AppendError("Usage: /upload <path> [path...]")
		return nil
	}

	req, ok := m.uploads.Begin(args, m.session.SessionID(), m.session.Mode())
	if !ok {
		return nil
	}
	return m.uploadCmd(req)
}

func handleDocs(m *Model, _ []string) tea.Cmd {
	return m.documentsCmd()
}

func handleHistory(m *Model, _ []string) tea.Cmd {
	id := m.store.ConversationID()
	if id == "" {
		m.store.AppendError("No conversation yet. Send a message first.")
		return nil
	}
	return m.historyCmd(id, m.session.Mode())
}

func handleAnalyze(m *Model, args []string) tea.Cmd {
	attempt := strings.TrimSpace(strings.Join(args, " "))
	if attempt == "" {
		m.store.AppendError("Usage: /analyze <prompt text>")
		return nil
	}
	return m.analyzeCmd(attempt)
}

func handleQuit(_ *Model, _ []string) tea.Cmd {
	return tea.Quit
}
