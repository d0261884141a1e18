// Package tui is the terminal front end for paced reading.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/wordwrap"

	"github.com/metcalfc/pacer/internal/define"
	"github.com/metcalfc/pacer/internal/playback"
	"github.com/metcalfc/pacer/internal/segment"
)

const (
	minWPM  = 100
	maxWPM  = 1500
	wpmStep = 50
)

// Options configures a reading session.
type Options struct {
	// Title is shown in the status line.
	Title string
	// Source is the file to watch for edits. Empty disables watching.
	Source string
	// Reload re-registers the document after Source changes.
	Reload func(ctx context.Context) error
	// AutoStart begins playback as soon as the program starts.
	AutoStart bool
}

type (
	eventMsg  struct{ playback.Event }
	resultMsg struct {
		note string
		err  error
	}
	quitMsg          struct{ err error }
	sourceChangedMsg struct{}
)

// Model is the bubbletea model. Controller commands run inside tea.Cmds
// because the controller delivers events through Program.Send.
type Model struct {
	ctx   context.Context
	ctrl  *playback.Controller
	docID string
	opts  Options

	cfg    playback.Config
	status playback.Status
	help   help.Model

	note     string
	err      error
	quitErr  error
	quitting bool
	width    int
	height   int
}

// New creates a Model for the document docID.
func New(ctx context.Context, ctrl *playback.Controller, docID string, opts Options) Model {
	return Model{
		ctx:    ctx,
		ctrl:   ctrl,
		docID:  docID,
		opts:   opts,
		cfg:    ctrl.Config(),
		status: ctrl.Status(),
		help:   help.New(),
		width:  80,
		height: 24,
	}
}

func (m Model) Init() tea.Cmd {
	if m.opts.AutoStart {
		return m.start()
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case eventMsg:
		m.status = msg.Status
		if msg.Kind == playback.EventStarted {
			m.note, m.err = "", nil
		}
		return m, nil

	case resultMsg:
		if msg.err != nil {
			m.err = msg.err
		} else if msg.note != "" {
			m.note, m.err = msg.note, nil
		}
		return m, nil

	case sourceChangedMsg:
		return m, m.reload()

	case quitMsg:
		m.quitErr = msg.err
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, m.quit()

	case key.Matches(msg, keys.Toggle):
		if m.status.Busy {
			return m, m.pause()
		}
		return m, m.start()

	case key.Matches(msg, keys.Back):
		return m, m.step(m.ctrl.StepBackward)

	case key.Matches(msg, keys.Forward):
		return m, m.step(m.ctrl.StepForward)

	case key.Matches(msg, keys.Reset):
		return m, m.reset()

	case key.Matches(msg, keys.Faster):
		if m.cfg.WordsPerMinute < maxWPM {
			return m.configure(withRate(m.cfg, min(m.cfg.WordsPerMinute+wpmStep, maxWPM)))
		}

	case key.Matches(msg, keys.Slower):
		if m.cfg.WordsPerMinute > minWPM {
			return m.configure(withRate(m.cfg, max(m.cfg.WordsPerMinute-wpmStep, minWPM)))
		}

	case key.Matches(msg, keys.Mode):
		cfg := m.cfg
		if cfg.Mode == segment.WordGroups {
			cfg.Mode = segment.SentenceGroups
		} else {
			cfg.Mode = segment.WordGroups
		}
		return m.configure(cfg)

	case key.Matches(msg, keys.Size):
		cfg := m.cfg
		cfg.GroupSize = int(msg.String()[0] - '0')
		if cfg.GroupSize != m.cfg.GroupSize {
			return m.configure(cfg)
		}

	case key.Matches(msg, keys.Define):
		return m, m.define()

	case key.Matches(msg, keys.Copy):
		return m, m.copyUnit()

	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func withRate(cfg playback.Config, wpm int) playback.Config {
	cfg.WordsPerMinute = wpm
	return cfg
}

// configure applies cfg optimistically and sends it to the controller.
func (m Model) configure(cfg playback.Config) (tea.Model, tea.Cmd) {
	regroup := cfg.Mode != m.cfg.Mode || cfg.GroupSize != m.cfg.GroupSize
	m.cfg = cfg
	if !regroup && m.status.Busy {
		m.note, m.err = fmt.Sprintf("%d WPM from the next start", cfg.WordsPerMinute), nil
	}
	ctx, ctrl := m.ctx, m.ctrl
	return m, func() tea.Msg {
		return resultMsg{err: ctrl.Configure(ctx, cfg)}
	}
}

func (m Model) start() tea.Cmd {
	ctx, ctrl, id := m.ctx, m.ctrl, m.docID
	return func() tea.Msg {
		return resultMsg{err: ctrl.Start(ctx, id)}
	}
}

func (m Model) pause() tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		if err := ctrl.Pause(ctx); err != nil && !errors.Is(err, playback.ErrNotRunning) {
			return resultMsg{err: err}
		}
		return nil
	}
}

func (m Model) step(fn func() error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(); err != nil && !errors.Is(err, playback.ErrNoSession) {
			return resultMsg{err: err}
		}
		return nil
	}
}

func (m Model) reset() tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		if err := ctrl.Reset(ctx); err != nil {
			return resultMsg{err: err}
		}
		return resultMsg{note: "Back to the beginning."}
	}
}

func (m Model) define() tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		def, err := ctrl.Define(ctx)
		switch {
		case errors.Is(err, playback.ErrDefineUnavailable):
			return resultMsg{note: "Pause on a single word to look it up."}
		case errors.Is(err, define.ErrNotFound), err == nil && def == "":
			return resultMsg{note: "No definition found."}
		case err != nil:
			return resultMsg{err: err}
		}
		return resultMsg{note: def}
	}
}

func (m Model) copyUnit() tea.Cmd {
	unit := m.status.Unit
	if unit == "" {
		return nil
	}
	return func() tea.Msg {
		if err := clipboard.WriteAll(unit); err != nil {
			return resultMsg{err: fmt.Errorf("copy: %w", err)}
		}
		return resultMsg{note: "Copied to clipboard."}
	}
}

func (m Model) reload() tea.Cmd {
	if m.opts.Reload == nil {
		return nil
	}
	ctx, ctrl, reload, src := m.ctx, m.ctrl, m.opts.Reload, m.opts.Source
	return func() tea.Msg {
		if err := reload(ctx); err != nil {
			return resultMsg{err: fmt.Errorf("reload %s: %w", src, err)}
		}
		if err := ctrl.Stop(ctx); err != nil {
			return resultMsg{err: err}
		}
		return resultMsg{note: "Source changed. Press space to continue."}
	}
}

// quit stops playback, saving the position, before leaving.
func (m Model) quit() tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return quitMsg{err: ctrl.Stop(ctx)}
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	status := m.statusLine()
	body := m.body()
	footer := m.footer()
	controls := m.help.View(keys)

	// Status on top, note and controls at the bottom.
	avail := m.height - 2 - lipgloss.Height(controls)
	if avail < 1 {
		avail = 1
	}
	vPad := (avail - lipgloss.Height(body)) / 2
	if vPad < 0 {
		vPad = 0
	}

	var sb strings.Builder
	sb.WriteString(status)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("\n", vPad))
	sb.WriteString(body)
	remaining := avail - vPad - lipgloss.Height(body) + 1
	if remaining < 1 {
		remaining = 1
	}
	sb.WriteString(strings.Repeat("\n", remaining))
	sb.WriteString(footer)
	sb.WriteString("\n")
	sb.WriteString(controls)
	return sb.String()
}

func (m Model) statusLine() string {
	label := "Word"
	if m.cfg.Mode == segment.SentenceGroups {
		label = "Sentence"
	}
	current, total := m.status.Progress()

	var tag string
	switch m.status.State {
	case playback.StateIdle:
		tag = pausedStyle.Render(" [READY]")
	case playback.StatePaused:
		tag = pausedStyle.Render(" [PAUSED]")
	case playback.StateCompleted:
		tag = completeStyle.Render(" [DONE]")
	}

	text := fmt.Sprintf("%s %s/%s | %d WPM | %s × %d",
		label,
		humanize.Comma(int64(current)),
		humanize.Comma(int64(total)),
		m.cfg.WordsPerMinute,
		m.cfg.Mode,
		m.cfg.GroupSize,
	)
	if m.opts.Title != "" {
		text = m.opts.Title + " | " + text
	}
	return statusStyle.Render(text) + tag
}

func (m Model) body() string {
	center := lipgloss.NewStyle().Width(m.width).Align(lipgloss.Center)
	unit := m.status.Unit

	switch {
	case m.status.State == playback.StateCompleted:
		msg := "Reading complete!"
		if m.status.Elapsed > 0 {
			msg += " " + m.status.Elapsed.Round(time.Second).String()
		}
		return center.Render(completeStyle.Render(msg))

	case unit == "":
		return center.Render(controlsStyle.Render("Press space to start"))

	case m.status.Config.Mode == segment.WordGroups && segment.WordCount(unit) == 1:
		return anchorORP(formatWord(unit), unit, m.width)
	}

	width := m.width - 4
	if width < 10 {
		width = 10
	}
	return center.Render(wordStyle.Render(wordwrap.String(unit, width)))
}

func (m Model) footer() string {
	if m.err != nil {
		return errorStyle.Render(m.err.Error())
	}
	if m.note != "" {
		return noteStyle.Render(wordwrap.String(m.note, max(m.width-2, 10)))
	}
	return ""
}

// Err returns the error from saving the position on quit.
func (m Model) Err() error {
	return m.quitErr
}
