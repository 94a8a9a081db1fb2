// Package tui is the terminal front of the streamer.
package tui

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mikhailv/fake-streamer/internal/emitter"
	"github.com/mikhailv/fake-streamer/streamer/internal/shell"
)

// callbackMsg carries an emitter callback onto the bubbletea update loop.
type callbackMsg func()

// Dispatcher marshals emitter callbacks onto the program's update loop.
// Callbacks sent after the program has exited are dropped by bubbletea, so the
// stream must be cancelled once Run returns.
func Dispatcher(p *tea.Program) emitter.Dispatcher {
	return func(fn func()) bool {
		p.Send(callbackMsg(fn))
		return true
	}
}

type Model struct {
	ctx     context.Context
	session *shell.Session

	width int
	err   error
}

func NewModel(ctx context.Context, session *shell.Session) *Model {
	return &Model{
		ctx:     ctx,
		session: session,
	}
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.session.Cancel()
			return m, tea.Quit
		case "s", "enter":
			m.start()
		case "c", "esc":
			m.session.Cancel()
		}
	case callbackMsg:
		msg()
	}
	return m, nil
}

func (m *Model) start() {
	if !m.session.State().CanStart() {
		return
	}
	_, err := m.session.Start(m.ctx)
	m.err = err
}

func (m *Model) View() string {
	var sb strings.Builder
	sb.WriteString(styleTitle.Render("Fake AI Streamer"))
	sb.WriteString("\n")
	sb.WriteString(styleTitle.Render("Step 1: Streaming mental model"))
	sb.WriteString("\n")
	sb.WriteString(styleHint.Render(`Press "s" to simulate an AI typing response. Cancel mid-stream with "c" to practice cancellation.`))
	sb.WriteString("\n")
	sb.WriteString(styleLabel.Render("Response"))
	sb.WriteString("\n")

	state := m.session.State()
	response := styleResponse
	if m.width > 4 {
		response = response.Width(m.width - 2)
	}
	sb.WriteString(response.Render(state.DisplayText()))
	sb.WriteString("\n\n")

	sb.WriteString(button("[s] Start streaming", state.CanStart()))
	sb.WriteString("   ")
	sb.WriteString(button("[c] Cancel", state.CanCancel()))
	sb.WriteString("   ")
	sb.WriteString(styleHint.Render("[q] Quit"))
	sb.WriteString("\n")

	if m.err != nil {
		sb.WriteString(styleError.Render("error: " + m.err.Error()))
		sb.WriteString("\n")
	}
	return sb.String()
}

// Run shows the terminal UI until the user quits or ctx is done.
func Run(ctx context.Context, logger *slog.Logger, text string, interval time.Duration, historySize int) error {
	var p *tea.Program
	em := emitter.New(
		emitter.WithLogger(logger),
		emitter.WithDispatcher(func(fn func()) bool { return Dispatcher(p)(fn) }),
	)
	session := shell.NewSession(logger, em, historySize)
	session.Configure(text, interval)
	p = tea.NewProgram(NewModel(ctx, session), tea.WithContext(ctx))

	logger.Info("terminal ui started")
	_, err := p.Run()
	session.Cancel()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		err = nil
	}
	logger.Info("terminal ui stopped", "err", err)
	return err
}
