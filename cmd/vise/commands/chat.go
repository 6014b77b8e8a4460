package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/viseworks/vise/internal/agent"
	"github.com/viseworks/vise/internal/config"
	"github.com/viseworks/vise/internal/provider"
	"github.com/viseworks/vise/internal/render"
)

const chatSessionKey = "cli:default"

func NewChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat [message]",
		Short: "Chat with Vise",
		Long: `Start an interactive chat, or pass a message for a one-shot answer.
Inside the chat, /new resets the conversation and Esc quits.`,
		RunE: runChat,
	}
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	chatModel, err := provider.NewChatModel(ctx, cfg)
	if err != nil {
		fmt.Printf("Warning: %v\n", err)
		fmt.Println("Running without LLM (tools only mode)")
		chatModel = nil
	}

	loop, err := agent.NewLoop(cfg, chatModel)
	if err != nil {
		return fmt.Errorf("invalid workspace: %w", err)
	}
	if err := loop.RegisterDefaultTools(cfg); err != nil {
		return fmt.Errorf("failed to register tools: %w", err)
	}

	if len(args) > 0 {
		resp, err := loop.Process(ctx, chatSessionKey, strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Println(resp)
		return nil
	}

	p := tea.NewProgram(newChatModel(ctx, loop), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// mdRenderer abstracts glamour so rendering can be tested without a TTY.
type mdRenderer interface {
	Render(string) (string, error)
}

// renderResponseParts renders the reasoning trace and the visible reply
// separately. hasThink is false when there is no non-empty trace.
func renderResponseParts(content string, r mdRenderer) (think, main string, hasThink bool) {
	thinkRaw, mainRaw, found := render.SplitThink(content)

	main, err := r.Render(mainRaw)
	if err != nil {
		main = mainRaw
	}
	main = strings.TrimRight(main, "\n")

	if !found || thinkRaw == "" {
		return "", main, false
	}

	think, err = r.Render(thinkRaw)
	if err != nil {
		think = thinkRaw
	}
	think = strings.TrimRight(think, "\n")
	return think, main, true
}

var (
	userStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#8E4EC6"))

	assistantStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#2E8B57"))

	thinkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true)

	toolStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CD5C5C"))

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

type responseMsg struct {
	content string
	err     error
}

type toolEventMsg struct {
	name string
	done bool
	err  error
}

type model struct {
	ctx      context.Context
	loop     *agent.Loop
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model
	renderer mdRenderer

	transcript []string
	toolEvents chan toolEventMsg
	thinking   bool
	ready      bool
	width      int
	height     int
}

func newChatModel(ctx context.Context, loop *agent.Loop) *model {
	ta := textarea.New()
	ta.Placeholder = "Ask Vise anything..."
	ta.Focus()
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.CharLimit = 0

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := &model{
		ctx:        ctx,
		loop:       loop,
		viewport:   viewport.New(80, 20),
		textarea:   ta,
		spinner:    sp,
		toolEvents: make(chan toolEventMsg, 16),
	}

	loop.OnToolStart = func(name, args string) {
		m.toolEvents <- toolEventMsg{name: name}
	}
	loop.OnToolFinish = func(name, result string, err error) {
		m.toolEvents <- toolEventMsg{name: name, done: true, err: err}
	}

	return m
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spinner.Tick)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		taCmd tea.Cmd
		vpCmd tea.Cmd
		spCmd tea.Cmd
	)

	m.textarea, taCmd = m.textarea.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)
	m.spinner, spCmd = m.spinner.Update(msg)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - m.textarea.Height() - 2
		m.textarea.SetWidth(msg.Width)
		if r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(msg.Width-2),
		); err == nil {
			m.renderer = r
		}
		m.refreshViewport()
		m.ready = true

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEsc, tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyEnter:
			input := strings.TrimSpace(m.textarea.Value())
			m.textarea.Reset()
			if input == "" {
				break
			}
			if input == "/new" {
				if err := m.loop.Reset(chatSessionKey); err != nil {
					m.appendLine(errorStyle.Render("Error: " + err.Error()))
				} else {
					m.transcript = nil
					m.appendLine(footerStyle.Render("Conversation reset."))
				}
				break
			}
			if m.thinking {
				break
			}
			m.appendLine(userStyle.Render("You") + "\n" + input)
			m.thinking = true
			return m, tea.Batch(taCmd, vpCmd, spCmd, m.sendCmd(input), m.waitToolEvent())
		}

	case toolEventMsg:
		if msg.done {
			status := "ok"
			if msg.err != nil {
				status = "error"
			}
			m.appendLine(toolStyle.Render(fmt.Sprintf("· %s (%s)", msg.name, status)))
		} else {
			m.appendLine(toolStyle.Render("· running " + msg.name + "..."))
		}
		return m, tea.Batch(taCmd, vpCmd, spCmd, m.waitToolEvent())

	case responseMsg:
		m.thinking = false
		if msg.err != nil {
			m.appendLine(errorStyle.Render("Error: " + msg.err.Error()))
			break
		}
		think, main, hasThink := renderResponseParts(msg.content, m.markdown())
		block := assistantStyle.Render("Vise")
		if hasThink {
			block += "\n" + thinkStyle.Render(think)
		}
		block += "\n" + main
		m.appendLine(block)
	}

	return m, tea.Batch(taCmd, vpCmd, spCmd)
}

func (m *model) sendCmd(input string) tea.Cmd {
	return func() tea.Msg {
		content, err := m.loop.Process(m.ctx, chatSessionKey, input)
		return responseMsg{content: content, err: err}
	}
}

func (m *model) waitToolEvent() tea.Cmd {
	if m.toolEvents == nil {
		return nil
	}
	return func() tea.Msg {
		return <-m.toolEvents
	}
}

// markdown returns the active renderer, or a pass-through before the first
// window size message arrives.
func (m *model) markdown() mdRenderer {
	if m.renderer != nil {
		return m.renderer
	}
	return passthroughRenderer{}
}

type passthroughRenderer struct{}

func (passthroughRenderer) Render(s string) (string, error) { return s, nil }

func (m *model) appendLine(s string) {
	m.transcript = append(m.transcript, s)
	m.refreshViewport()
}

func (m *model) refreshViewport() {
	m.viewport.SetContent(strings.Join(m.transcript, "\n\n"))
	m.viewport.GotoBottom()
}

func (m *model) View() string {
	status := ""
	if m.thinking {
		status = m.spinner.View() + " thinking..."
	}

	footer := footerStyle.Render("Enter Send • /new Reset • Esc Quit")
	if status != "" {
		footer = status + "  " + footer
	}

	return fmt.Sprintf("%s\n%s\n%s", m.viewport.View(), m.textarea.View(), footer)
}
