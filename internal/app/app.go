// Package app is the terminal chat client: a Bubble Tea model over one
// learner's tutor session.
package app

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/bitlit/internal/i18n"
	"github.com/abhisek/bitlit/internal/learner"
	"github.com/abhisek/bitlit/internal/llm"
	"github.com/abhisek/bitlit/internal/progress"
	"github.com/abhisek/bitlit/internal/prompt"
	"github.com/abhisek/bitlit/internal/tutor"
	"github.com/abhisek/bitlit/internal/ui/components"
	"github.com/abhisek/bitlit/internal/ui/layout"
	"github.com/abhisek/bitlit/internal/ui/theme"
)

// PurposeTerminal labels completion events produced by the terminal chat.
const PurposeTerminal = "terminal-chat"

const persistTimeout = 5 * time.Second

// Options holds the dependencies of the chat client.
type Options struct {
	Registry  *learner.Registry
	LearnerID string
	// Mode and Language override the learner's current values when set.
	Mode     prompt.Mode
	Language i18n.Language
	Logger   *zap.Logger
}

// turnDoneMsg carries the outcome of a submitted turn.
type turnDoneMsg struct {
	res tutor.TurnResult
	err error
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	ctx      context.Context
	registry *learner.Registry
	learner  *learner.Learner
	logger   *zap.Logger

	input   components.ChatInput
	status  string
	waiting bool
	width   int
	height  int
}

func newAppModel(ctx context.Context, opts Options) (AppModel, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	l, err := opts.Registry.Get(ctx, opts.LearnerID)
	if err != nil {
		return AppModel{}, fmt.Errorf("load learner %s: %w", opts.LearnerID, err)
	}
	if opts.Language.Valid() {
		l.SetLanguage(opts.Language)
	}
	if opts.Mode.Valid() {
		l.Tutor.SelectMode(opts.Mode)
	}
	lang := l.Language()
	return AppModel{
		ctx:      ctx,
		registry: opts.Registry,
		learner:  l,
		logger:   logger,
		input:    components.NewChatInput(i18n.T(lang, i18n.ChatPlaceholder), 4000),
	}, nil
}

func (m AppModel) Init() tea.Cmd {
	return m.input.Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case turnDoneMsg:
		m.waiting = false
		m.input.SetDisabled(false)
		m.status = ""
		if msg.err != nil {
			m.status = msg.err.Error()
		} else if msg.res.XPAwarded > 0 {
			m.status = fmt.Sprintf("+%d %s", msg.res.XPAwarded, i18n.T(m.learner.Language(), i18n.XP))
		}
		return m, nil

	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg.String()); handled {
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleKey applies the chat key bindings. It reports false for keys that
// belong to the input.
func (m *AppModel) handleKey(key string) (tea.Cmd, bool) {
	switch key {
	case "ctrl+c", "esc":
		return tea.Quit, true
	case "enter":
		return m.submit(), true
	case "tab":
		m.cycleMode()
		return nil, true
	case "ctrl+t":
		m.learner.Tutor.SetCurriculumTopic((m.learner.Tutor.Topic() + 1) % prompt.TopicCount)
		return nil, true
	case "ctrl+l":
		m.toggleLanguage()
		return nil, true
	case "ctrl+r":
		m.learner.Tutor.ClearHistory()
		m.status = ""
		return nil, true
	}
	return nil, false
}

// submit starts a turn. The user message shows in the history at once;
// the reply arrives as a turnDoneMsg.
func (m *AppModel) submit() tea.Cmd {
	text := strings.TrimSpace(m.input.Value())
	if text == "" || m.waiting {
		return nil
	}
	m.input.Reset()
	m.waiting = true
	m.input.SetDisabled(true)
	m.status = i18n.T(m.learner.Language(), i18n.Thinking)

	ctx, l, reg, logger := m.ctx, m.learner, m.registry, m.logger
	// SubmitTurn appends the user message before it blocks on the
	// transport, so start it now and wait in the command.
	done := make(chan turnDoneMsg, 1)
	go func() {
		res, err := l.Tutor.SubmitTurn(llm.WithPurpose(ctx, PurposeTerminal), text)
		if err == nil && !res.Failed {
			pctx, cancel := context.WithTimeout(ctx, persistTimeout)
			if _, perr := reg.Persist(pctx, l.ID); perr != nil {
				logger.Warn("persist learner", zap.String("learner", l.ID), zap.Error(perr))
			}
			cancel()
		}
		done <- turnDoneMsg{res: res, err: err}
	}()
	return func() tea.Msg { return <-done }
}

func (m *AppModel) cycleMode() {
	modes := prompt.Modes()
	cur := m.learner.Tutor.Mode()
	for i, md := range modes {
		if md == cur {
			m.learner.Tutor.SelectMode(modes[(i+1)%len(modes)])
			return
		}
	}
	m.learner.Tutor.SelectMode(prompt.DefaultMode)
}

func (m *AppModel) toggleLanguage() {
	next := i18n.English
	if m.learner.Language() == i18n.English {
		next = i18n.Spanish
	}
	m.learner.SetLanguage(next)
	m.input.SetPlaceholder(i18n.T(next, i18n.ChatPlaceholder))

	ctx, cancel := context.WithTimeout(m.ctx, persistTimeout)
	defer cancel()
	if _, err := m.registry.Persist(ctx, m.learner.ID); err != nil {
		m.logger.Warn("persist learner", zap.String("learner", m.learner.ID), zap.Error(err))
	}
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	lang := m.learner.Language()
	state := m.learner.Tutor.State()
	sum := m.learner.Ledger.Summary()

	title := state.Mode.Label(lang)
	if state.Mode == prompt.Curriculum {
		title += " · " + state.TopicLabel
	}
	header := layout.RenderHeader(title, sum.Level, sum.XP, i18n.T(lang, i18n.Level), m.width)

	footer := layout.RenderFooter([]layout.KeyHint{
		{Key: "Enter", Description: "Send"},
		{Key: "Tab", Description: "Mode"},
		{Key: "Ctrl+T", Description: "Topic"},
		{Key: "Ctrl+L", Description: "EN/ES"},
		{Key: "Ctrl+R", Description: i18n.T(lang, i18n.ClearChat)},
		{Key: "Ctrl+C", Description: "Quit"},
	}, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)

	bar := components.XPBar(i18n.T(lang, i18n.XP), sum.XP, progress.XPPerLevel, m.width-4).View()
	bottom := []string{"", "  " + bar, "  " + m.input.View()}
	if m.status != "" {
		bottom = append([]string{"  " + theme.Hint.Render(m.status)}, bottom...)
	}

	historyHeight := max(contentHeight-len(bottom), 0)
	content := renderHistory(state.History, lang, m.width-4, historyHeight) + "\n" + strings.Join(bottom, "\n")

	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// renderHistory renders the tail of the conversation that fits in height.
func renderHistory(history []llm.Message, lang i18n.Language, width, height int) string {
	var lines []string
	for _, msg := range history {
		label := theme.UserLabel.Render("> ")
		body := theme.Body
		if msg.Role == llm.RoleAssistant {
			label = theme.TutorLabel.Render("₿ ")
			if isErrorText(lang, msg.Content) {
				body = theme.Failed
			}
		}
		wrapped := lipgloss.NewStyle().Width(max(width-2, 10)).Render(msg.Content)
		for i, line := range strings.Split(wrapped, "\n") {
			prefix := "  "
			if i == 0 {
				prefix = label
			}
			lines = append(lines, "  "+prefix+body.Render(line))
		}
		lines = append(lines, "")
	}
	if len(lines) > height {
		lines = lines[len(lines)-height:]
	}
	return strings.Join(lines, "\n")
}

func isErrorText(lang i18n.Language, s string) bool {
	for _, k := range []i18n.Key{i18n.ErrAPINotConfigured, i18n.ErrResponseFailed, i18n.ErrConnection, i18n.ErrNoResponse} {
		if s == i18n.T(lang, k) {
			return true
		}
	}
	return false
}

// Run starts the Bubble Tea program and persists the learner on exit.
func Run(ctx context.Context, opts Options) error {
	m, err := newAppModel(ctx, opts)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithContext(ctx))
	_, err = p.Run()
	if perr := opts.Registry.PersistAll(context.WithoutCancel(ctx)); perr != nil && m.logger != nil {
		m.logger.Warn("persist on exit", zap.Error(perr))
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
