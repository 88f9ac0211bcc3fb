package chat

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
	"github.com/savioxavier/termlink"

	"github.com/integrail/aibarnes/pkg/relay/dto"
)

const maxMessages = 10

var headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFF88")).Background(lipgloss.Color("#444444"))

type Relayer interface {
	Relay(ctx context.Context, prompt string) (*dto.Response, error)
}

type relayResultMsg struct {
	res *dto.Response
	err error
}

type Session struct {
	viewport      viewport.Model
	messages      []string
	textarea      textarea.Model
	senderStyle   lipgloss.Style
	responseStyle lipgloss.Style
	errorStyle    lipgloss.Style
	err           error
	relay         Relayer
	ctx           context.Context
	loader        spinner.Model
	inProgress    bool
	answered      int

	promptHistory        []string
	promptHistoryPointer int
	provider             string
	model                string
}

// NewSession builds the interactive model. Answers are labelled with the provider name.
func NewSession(ctx context.Context, r Relayer, provider, model string) *Session {
	ta := textarea.New()
	ta.Placeholder = "Ask something... (or press Ctrl^C to exit, use Up and Down to navigate)"
	ta.Focus()

	ta.Prompt = "┃ "
	ta.CharLimit = 4096

	ta.SetWidth(128)
	ta.SetHeight(4)

	// Remove cursor line styling
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()

	ta.ShowLineNumbers = false
	ta.KeyMap.InsertNewline.SetEnabled(false)

	vp := viewport.New(160, 24)
	vp.SetContent(`Welcome to aibarnes! Type a prompt and press Enter to send.`)

	return &Session{
		ctx:           ctx,
		relay:         r,
		textarea:      ta,
		messages:      []string{},
		viewport:      vp,
		senderStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
		responseStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		errorStyle:    lipgloss.NewStyle().Background(lipgloss.Color("330000")).Foreground(lipgloss.Color("#FF3333")),
		loader: spinner.New(
			spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("205"))),
			spinner.WithSpinner(spinner.Dot),
		),
		provider: provider,
		model:    model,
	}
}

// Err returns the last relay error, if any.
func (m *Session) Err() error {
	return m.err
}

func (m *Session) Init() tea.Cmd {
	return textarea.Blink
}

func (m *Session) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
	)

	if m.ctx.Err() != nil {
		return m, tea.Quit
	}

	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.inProgress {
			return m, nil
		}
		var cmd tea.Cmd
		m.loader, cmd = m.loader.Update(msg)
		return m, cmd
	case relayResultMsg:
		m.inProgress = false
		m.processResponse(msg.res, msg.err)
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyUp:
			if m.promptHistoryPointer < len(m.promptHistory) {
				m.promptHistoryPointer++
				m.textarea.SetValue(m.promptHistory[len(m.promptHistory)-m.promptHistoryPointer])
			}
			return m, nil
		case tea.KeyDown:
			if m.promptHistoryPointer > 1 {
				m.promptHistoryPointer--
				m.textarea.SetValue(m.promptHistory[len(m.promptHistory)-m.promptHistoryPointer])
			} else {
				m.promptHistoryPointer = 0
				m.textarea.SetValue("")
			}
			return m, nil
		case tea.KeyEnter:
			currentValue := strings.TrimSpace(m.textarea.Value())
			if currentValue == "" || m.inProgress {
				return m, nil
			}
			m.inProgress = true
			m.promptHistory = append(m.promptHistory, currentValue)
			m.promptHistoryPointer = 0
			m.messages = append(m.messages, m.senderStyle.Render("You: ")+currentValue)
			m.updateMessages()
			m.textarea.Reset()
			return m, tea.Batch(m.loader.Tick, m.relayCmd(currentValue))
		}
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)
	return m, tea.Batch(tiCmd, vpCmd)
}

func (m *Session) relayCmd(prompt string) tea.Cmd {
	return func() tea.Msg {
		res, err := m.relay.Relay(m.ctx, prompt)
		return relayResultMsg{res: res, err: err}
	}
}

func (m *Session) updateMessages() {
	if len(m.messages) > maxMessages {
		m.messages = m.messages[len(m.messages)-maxMessages:]
	}
	m.viewport.SetContent(strings.Join(m.messages, "\n"))
	m.viewport.GotoBottom()
}

func (m *Session) processResponse(res *dto.Response, err error) {
	defer m.updateMessages()
	if err != nil {
		m.err = err
		m.messages = append(m.messages, m.errorStyle.Render("ERROR: "+err.Error()))
		return
	}
	if res == nil {
		m.err = errors.New("empty response")
		m.messages = append(m.messages, m.errorStyle.Render("ERROR: empty response"))
		return
	}
	m.answered++
	abs, absErr := filepath.Abs(res.FileName)
	if absErr != nil {
		abs = res.FileName
	}
	speaker := m.responseStyle.Render(m.provider + ": ")
	m.messages = append(m.messages,
		speaker+res.PromptAnswer,
		speaker+"answer saved to "+
			termlink.ColorLink(filepath.Base(res.FileName), fmt.Sprintf("file://%s", abs), "italic green"),
	)
}

func (m *Session) View() string {
	dialogView := m.textarea.View()
	if m.inProgress {
		dialogView = m.loader.View() + " waiting for response..."
	}
	header := headerStyle.Render(fmt.Sprintf("Provider: %s, model: %s; answers saved: %d", m.provider, m.model, m.answered))
	return header + fmt.Sprintf(
		"\n\n%s\n\n%s",
		m.viewport.View(),
		dialogView,
	) + "\n\n"
}
