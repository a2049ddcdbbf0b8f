// Copyright (c) 2025 The LLM Security Playground Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/nyxragon/LLM-Security-Playground/internal/metadata"
	"github.com/nyxragon/LLM-Security-Playground/internal/model"
	"github.com/nyxragon/LLM-Security-Playground/internal/modes"
	"github.com/nyxragon/LLM-Security-Playground/internal/ui/components"
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// markdownRenderer renders assistant prose. Nil when initialization fails;
// rendering then falls back to plain wrapped text.
var markdownRenderer *glamour.TermRenderer

func init() {
	var err error
	markdownRenderer, err = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(76),
	)
	if err != nil {
		markdownRenderer = nil
	}
}

// renderMarkdown renders markdown for terminal display, returning the input
// unchanged if the renderer is unavailable or fails.
func renderMarkdown(content string) string {
	if markdownRenderer == nil {
		return content
	}
	rendered, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return strings.Trim(rendered, "\n")
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the full chat screen.
func (m *Model) View() string {
	if !m.ready {
		return "Starting..."
	}

	m.header.Width = m.width
	if info, ok := m.session.ModeInfo(); ok {
		m.header.Architecture = info.Architecture
	}

	m.statusBar.Width = m.width
	m.statusBar.Status = m.session.Status()
	m.statusBar.Mode = m.session.Mode()
	if info, ok := m.session.ModeInfo(); ok {
		m.statusBar.ModeName = info.Name
	}
	m.statusBar.SessionID = m.session.SessionID()
	m.statusBar.Attachments = len(m.store.Attachments())
	m.statusBar.Sending = m.store.InFlight()

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.header.Render(),
		m.viewport.View(),
		m.renderInput(),
		m.statusBar.Render(),
	)
}

// renderMessages renders the conversation log, or the welcome screen when the
// conversation is empty.
func (m *Model) renderMessages() string {
	msgs := m.store.Messages()
	if len(msgs) == 0 {
		return m.renderWelcome()
	}

	var blocks []string
	for _, msg := range msgs {
		switch msg.Role {
		case model.RoleUser:
			blocks = append(blocks, m.renderUserMessage(msg))
		case model.RoleAssistant:
			blocks = append(blocks, m.renderAssistantMessage(msg))
		case model.RoleSystem:
			blocks = append(blocks, m.renderSystemMessage(msg))
		}
	}

	if m.store.InFlight() {
		blocks = append(blocks, m.renderThinking())
	}

	return strings.Join(blocks, "\n\n")
}

// renderUserMessage renders a right-aligned user bubble.
func (m *Model) renderUserMessage(msg *model.Message) string {
	width := m.bubbleWidth()
	content := wrapText(msg.Content, width)

	bubble := m.theme.UserBubble.Render(content)
	block := bubble
	if !m.cfg.UI.CompactMode {
		meta := m.theme.MetaLabel.Render("You " + formatTimestamp(msg.CreatedAt))
		block = lipgloss.JoinVertical(lipgloss.Right, bubble, meta)
	}
	return lipgloss.PlaceHorizontal(m.viewport.Width, lipgloss.Right, block)
}

// renderAssistantMessage renders the assistant bubble with markdown prose,
// highlighted code blocks, and the backend's annotation pairs beneath.
func (m *Model) renderAssistantMessage(msg *model.Message) string {
	width := m.bubbleWidth()
	content := m.renderContentWithCodeBlocks(msg.Content, width)

	bubble := m.theme.AssistantBubble.Render(content)

	parts := []string{bubble}
	if !m.cfg.UI.CompactMode {
		parts = append(parts, m.theme.MetaLabel.Render("Assistant "+formatTimestamp(msg.CreatedAt)))
	}
	if m.cfg.UI.ShowMetadata {
		if annotations := m.renderAnnotations(msg.Metadata); annotations != "" {
			parts = append(parts, annotations)
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderContentWithCodeBlocks splits fenced code out of the content so prose
// goes through the markdown renderer and code through the highlighter.
func (m *Model) renderContentWithCodeBlocks(content string, width int) string {
	segments := strings.Split(content, "```")
	if len(segments) == 1 {
		return renderMarkdown(content)
	}

	var parts []string
	for i, segment := range segments {
		if segment == "" {
			continue
		}
		if i%2 == 0 {
			// Prose between fences.
			if text := strings.TrimSpace(segment); text != "" {
				parts = append(parts, renderMarkdown(text))
			}
			continue
		}

		// Fenced segment: first line may name the language.
		lang := ""
		code := segment
		if idx := strings.Index(segment, "\n"); idx >= 0 {
			lang = strings.TrimSpace(segment[:idx])
			code = segment[idx+1:]
		}
		block := components.NewCodeBlock(lang, strings.Trim(code, "\n"))
		block.SetMaxWidth(width)
		parts = append(parts, block.Render())
	}
	return strings.Join(parts, "\n")
}

// renderAnnotations renders metadata pairs as dim hint-colored lines.
func (m *Model) renderAnnotations(meta map[string]any) string {
	pairs := metadata.Format(meta)
	if len(pairs) == 0 {
		return ""
	}

	lines := make([]string, 0, len(pairs))
	for _, p := range pairs {
		valueStyle := m.theme.MetaValue
		switch p.Hint {
		case metadata.HintHigh:
			valueStyle = m.theme.MetaHigh
		case metadata.HintLow:
			valueStyle = m.theme.MetaLow
		case metadata.HintPositive:
			valueStyle = m.theme.MetaPositive
		case metadata.HintNegative:
			valueStyle = m.theme.MetaNegative
		}
		lines = append(lines, m.theme.MetaLabel.Render(p.Label+": ")+valueStyle.Render(p.Value))
	}
	return strings.Join(lines, "\n")
}

// renderSystemMessage renders notices centered and errors left-flagged.
func (m *Model) renderSystemMessage(msg *model.Message) string {
	width := m.bubbleWidth()
	content := msg.Content
	if !strings.Contains(content, "\n") {
		content = wrapText(content, width)
	}

	if msg.IsError {
		return m.theme.ErrorBubble.Render(content)
	}

	block := m.theme.SystemBubble.Render(content)
	if msg.IsUploadNotice {
		return lipgloss.PlaceHorizontal(m.viewport.Width, lipgloss.Center, block)
	}
	return block
}

// renderThinking shows the in-flight indicator while a response is pending.
func (m *Model) renderThinking() string {
	return m.spinner.View() + " " + m.theme.ThinkingText.Render("waiting for response...")
}

// renderInput renders the input box.
func (m *Model) renderInput() string {
	return m.theme.InputContainer.Width(m.width - 2).Render(m.input.View())
}

// renderWelcome renders the empty-conversation screen with the active mode's
// example prompts.
func (m *Model) renderWelcome() string {
	mode := m.session.Mode()
	pres := modes.GetPresentation(mode)

	var b strings.Builder
	b.WriteString(m.theme.WelcomeLogo.Render("LLM Security Playground"))
	b.WriteString("\n\n")

	if info, ok := m.session.ModeInfo(); ok {
		b.WriteString(m.theme.WelcomeInfo.Render(fmt.Sprintf("%s %s - %s", pres.Icon, info.Name, info.Description)))
		b.WriteString("\n\n")
	}

	if len(pres.Examples) > 0 {
		b.WriteString(m.theme.WelcomeInfo.Render("Try an attack prompt:"))
		b.WriteString("\n")
		for _, ex := range pres.Examples {
			b.WriteString(m.theme.WelcomeKey.Render("  > ") + m.theme.WelcomeInfo.Render(ex))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(m.theme.WelcomeKey.Render("/help") + m.theme.WelcomeInfo.Render(" lists commands"))

	box := m.theme.WelcomeBox.Render(b.String())
	return lipgloss.Place(m.viewport.Width, m.viewport.Height, lipgloss.Center, lipgloss.Center, box)
}

// bubbleWidth returns the content width for message bubbles.
func (m *Model) bubbleWidth() int {
	width := m.viewport.Width * 3 / 4
	if width < 20 {
		width = 20
	}
	return width
}
