// Package tui runs the Snake game in a terminal with Bubble Tea.
package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/snakegame/snake-api/internal/client"
	"github.com/snakegame/snake-api/internal/game"
	"github.com/snakegame/snake-api/internal/game/render"
)

// ScoreReporter receives the final score of each game.
type ScoreReporter interface {
	Report(ctx context.Context, score int) (client.Outcome, error)
	Best() int
}

type Options struct {
	Engine   *game.Engine
	Reporter ScoreReporter
	// Player is shown in the header; empty means offline.
	Player string
	// ScreenshotDir receives ctrl+s captures. Defaults to the working directory.
	ScreenshotDir string
}

// tickMsg carries the generation it was scheduled for. Pausing, resuming or
// restarting bumps the generation so an older chain dies on its next message.
type tickMsg struct {
	gen int
}

type reportMsg struct {
	outcome client.Outcome
	err     error
}

type screenshotMsg struct {
	path string
	err  error
}

// Model is the game screen. It is used through a pointer because the engine
// hook writes back into it.
type Model struct {
	engine   *game.Engine
	reporter ScoreReporter
	keys     KeyMap
	help     help.Model

	player        string
	screenshotDir string
	now           func() time.Time

	gen       int
	pending   *int // final score waiting to be reported
	reporting bool
	best      int
	notice    string
	width     int
}

func New(opts Options) *Model {
	eng := opts.Engine
	if eng == nil {
		eng = game.New(game.DefaultConfig(), nil)
	}
	dir := opts.ScreenshotDir
	if dir == "" {
		dir = "."
	}

	m := &Model{
		engine:        eng,
		reporter:      opts.Reporter,
		keys:          DefaultKeyMap(),
		help:          help.New(),
		player:        opts.Player,
		screenshotDir: dir,
		now:           time.Now,
	}
	if m.reporter != nil {
		m.best = m.reporter.Best()
	}
	eng.OnGameOver(func(score int) {
		m.pending = &score
	})
	return m
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tickMsg:
		if msg.gen != m.gen || !m.engine.Ticking() {
			return m, nil
		}
		m.engine.Tick()
		if score, ok := m.takePending(); ok {
			return m, m.report(score)
		}
		return m, m.tick()

	case reportMsg:
		m.reporting = false
		m.best = max(m.best, msg.outcome.BestScore)
		m.notice = reportNotice(msg)
		return m, nil

	case screenshotMsg:
		if msg.err != nil {
			m.notice = "Screenshot failed: " + msg.err.Error()
		} else {
			m.notice = "Saved " + msg.path
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit

	case key.Matches(msg, m.keys.Start):
		if s := m.engine.State(); s == game.Playing || s == game.Paused {
			return nil
		}
		m.engine.Start()
		m.notice = ""
		m.gen++
		return m.tick()

	case key.Matches(msg, m.keys.Reset):
		m.engine.Reset()
		m.notice = ""
		m.gen++
		return nil

	case key.Matches(msg, m.keys.Screenshot):
		return m.screenshot()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return nil
	}

	before := m.engine.State()
	if !game.HandleKey(m.engine, msg.String()) || m.engine.State() == before {
		return nil
	}
	// Pause toggled.
	m.gen++
	if m.engine.Ticking() {
		return m.tick()
	}
	return nil
}

func (m *Model) tick() tea.Cmd {
	gen := m.gen
	return tea.Tick(m.engine.Interval(), func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

func (m *Model) takePending() (int, bool) {
	if m.pending == nil {
		return 0, false
	}
	score := *m.pending
	m.pending = nil
	return score, true
}

func (m *Model) report(score int) tea.Cmd {
	if m.reporter == nil {
		m.best = max(m.best, score)
		return nil
	}
	m.reporting = true
	reporter := m.reporter
	return func() tea.Msg {
		out, err := reporter.Report(context.Background(), score)
		return reportMsg{outcome: out, err: err}
	}
}

func reportNotice(msg reportMsg) string {
	switch {
	case errors.Is(msg.err, client.ErrOffline):
		return "Offline: score kept locally"
	case client.IsUnauthorized(msg.err):
		return "Session expired, log in again to save scores"
	case msg.err != nil:
		return "Could not save score: " + msg.err.Error()
	case msg.outcome.NewBest:
		return fmt.Sprintf("New personal best: %d!", msg.outcome.BestScore)
	}
	return "Score saved"
}

func (m *Model) screenshot() tea.Cmd {
	snap := m.engine.Snapshot()
	path := filepath.Join(m.screenshotDir, fmt.Sprintf("snake-%s.png", m.now().Format("20060102-150405")))
	return func() tea.Msg {
		return screenshotMsg{path: path, err: render.Save(path, snap, render.Options{})}
	}
}

// Best is the best score known to the screen.
func (m *Model) Best() int {
	return m.best
}

// Run blocks until the player quits or ctx ends.
func Run(ctx context.Context, m *Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
