// Copyright (c) 2025 The LLM Security Playground Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nyxragon/LLM-Security-Playground/internal/backend"
	"github.com/nyxragon/LLM-Security-Playground/internal/config"
	"github.com/nyxragon/LLM-Security-Playground/internal/modes"
	"github.com/nyxragon/LLM-Security-Playground/internal/session"
	"github.com/nyxragon/LLM-Security-Playground/internal/store"
	"github.com/nyxragon/LLM-Security-Playground/internal/ui/components"
	"github.com/nyxragon/LLM-Security-Playground/internal/ui/styles"
	"github.com/nyxragon/LLM-Security-Playground/internal/upload"
)

// =============================================================================
// MODEL
// =============================================================================

// Model is the chat view. All conversation state lives in the store, session
// controller, and upload manager; the model wires terminal events and backend
// results into them and renders the result.
type Model struct {
	client  *backend.Client
	cfg     *config.Config
	store   *store.Store
	uploads *upload.Manager
	session *session.Controller
	catalog *modes.Catalog

	theme     *styles.Theme
	header    *components.Header
	statusBar *components.StatusBar

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	width  int
	height int
	ready  bool
}

// New creates a chat model around an existing session.
func New(client *backend.Client, cfg *config.Config, st *store.Store, uploads *upload.Manager, ctrl *session.Controller, catalog *modes.Catalog) *Model {
	theme := styles.NewThemeWithPreference(cfg.UI.Theme)

	input := textinput.New()
	input.Placeholder = modes.GetPresentation(ctrl.Mode()).Placeholder
	input.Prompt = "> "
	input.CharLimit = 0
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = theme.Spinner

	return &Model{
		client:    client,
		cfg:       cfg,
		store:     st,
		uploads:   uploads,
		session:   ctrl,
		catalog:   catalog,
		theme:     theme,
		header:    components.NewHeader(theme),
		statusBar: components.NewStatusBar(theme),
		input:     input,
		spinner:   spin,
	}
}

// Init issues the single startup health probe and the mode catalog fetch.
// Health is checked exactly once; if the backend is down at startup, sends
// stay blocked for the lifetime of the session.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		m.checkHealthCmd(),
		m.fetchModesCmd(),
	)
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles all incoming messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleResize(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case HealthResultMsg:
		m.session.ApplyHealth(msg.Resp, msg.Err)
		return m, nil

	case ModesResultMsg:
		if msg.Err == nil {
			m.catalog.Merge(msg.Modes)
		}
		return m, nil

	case ChatResultMsg:
		if msg.Err != nil {
			m.store.ApplyChatFailure(msg.Err)
		} else {
			m.store.ApplyChatSuccess(msg.Resp)
		}
		m.refreshViewport()
		return m, nil

	case UploadResultMsg:
		if msg.Err != nil {
			m.uploads.ApplyFailure(msg.Err)
		} else {
			m.uploads.ApplySuccess(msg.Resp)
		}
		m.refreshViewport()
		return m, nil

	case ClearResultMsg:
		// The local reset already happened; a failed server-side delete
		// affects nothing the user can see.
		return m, nil

	case DocumentsResultMsg:
		if msg.Err != nil {
			m.store.AppendError(backend.Detail(msg.Err))
		} else {
			m.store.AppendSystem(formatDocuments(msg.Resp))
		}
		m.refreshViewport()
		return m, nil

	case AnalyzeResultMsg:
		if msg.Err != nil {
			m.store.AppendError(backend.Detail(msg.Err))
		} else {
			m.store.AppendSystem(formatAnalysis(msg.Attempt, msg.Analysis))
		}
		m.refreshViewport()
		return m, nil

	case HistoryResultMsg:
		if msg.Err != nil {
			m.store.AppendError(backend.Detail(msg.Err))
		} else {
			m.store.AppendSystem(formatHistory(msg.Resp))
		}
		m.refreshViewport()
		return m, nil
	}

	// Everything else (cursor blink, etc.) belongs to the input.
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleKey processes keyboard input.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "enter":
		return m, m.submitInput()

	case "ctrl+l":
		return m, m.clearConversation()

	case "pgup":
		m.viewport.HalfViewUp()
		return m, nil

	case "pgdown":
		m.viewport.HalfViewDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleResize recalculates layout when the terminal changes size.
func (m *Model) handleResize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)

	// Header, input box, and status bar are fixed-height chrome.
	chromeHeight := 2 + 3 + 1
	viewportHeight := msg.Height - chromeHeight
	if viewportHeight < 3 {
		viewportHeight = 3
	}

	if !m.ready {
		m.viewport = viewport.New(msg.Width, viewportHeight)
		m.ready = true
	} else {
		m.viewport.Width = msg.Width
		m.viewport.Height = viewportHeight
	}

	m.input.Width = msg.Width - 6
	m.refreshViewport()
}

// refreshViewport re-renders the message log and scrolls to the newest entry.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderMessages())
	m.viewport.GotoBottom()
}

// clearConversation resets the local conversation and, when a backend
// conversation was bound, asks the server to delete it too.
func (m *Model) clearConversation() tea.Cmd {
	previous := m.store.Clear()
	m.refreshViewport()
	if previous == "" {
		return nil
	}
	return m.deleteConversationCmd(previous, m.session.Mode())
}

// =============================================================================
// EFFECT COMMANDS
// =============================================================================

// requestContext builds the context used for a single backend call.
func (m *Model) requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), m.cfg.RequestTimeout())
}

func (m *Model) checkHealthCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()
		resp, err := m.client.Health(ctx)
		return HealthResultMsg{Resp: resp, Err: err}
	}
}

func (m *Model) fetchModesCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()
		fetched, err := m.client.Modes(ctx)
		return ModesResultMsg{Modes: fetched, Err: err}
	}
}

func (m *Model) sendChatCmd(req backend.ChatRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()
		resp, err := m.client.Chat(ctx, req)
		return ChatResultMsg{Resp: resp, Err: err}
	}
}

func (m *Model) uploadCmd(req upload.Request) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()
		resp, err := m.client.Upload(ctx, req.Paths, req.SessionID, req.Mode)
		return UploadResultMsg{Resp: resp, Err: err}
	}
}

func (m *Model) deleteConversationCmd(conversationID, mode string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()
		err := m.client.DeleteConversation(ctx, conversationID, mode)
		return ClearResultMsg{Err: err}
	}
}

func (m *Model) documentsCmd() tea.Cmd {
	sessionID := m.session.SessionID()
	mode := m.session.Mode()
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()
		resp, err := m.client.SessionDocuments(ctx, sessionID, mode)
		return DocumentsResultMsg{Resp: resp, Err: err}
	}
}

func (m *Model) historyCmd(conversationID, mode string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()
		resp, err := m.client.Conversation(ctx, conversationID, mode)
		return HistoryResultMsg{Resp: resp, Err: err}
	}
}

func (m *Model) analyzeCmd(attempt string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()
		analysis, err := m.client.Analyze(ctx, attempt)
		return AnalyzeResultMsg{Attempt: attempt, Analysis: analysis, Err: err}
	}
}
