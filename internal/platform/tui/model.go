package tui

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/tetrix-game/tetrix/internal/core"
	"github.com/tetrix-game/tetrix/internal/engine"
	"github.com/tetrix-game/tetrix/internal/registry"
	"github.com/tetrix-game/tetrix/internal/storage"
)

const (
	helpRows  = 1 // rows below the game screen
	statusTTL = 2 * time.Second
)

// Resizer is implemented by games that can relayout without restarting.
type Resizer interface {
	Resize(w, h int)
}

// GameOptions tune how a game session is hosted.
type GameOptions struct {
	Logger   *log.Logger
	WithMenu bool // allow going back to a menu after game over
}

var (
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229"))
)

// GameModel is the Bubble Tea model for playing a single game.
type GameModel struct {
	game        registry.Game
	screen      *core.Screen
	store       *storage.Store
	config      core.RuntimeConfig
	opts        GameOptions
	keys        *KeyMapper
	help        help.Model
	inputFrame  core.InputFrame
	gameState   core.GameState
	saveID      uuid.UUID // slot the running game is saved in
	status      string
	statusUntil time.Time
	quitting    bool
	backToMenu  bool
	scoreSaved  bool // score recorded for the current game over
}

// NewGameModel creates a model for the game and starts it.
func NewGameModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts GameOptions) GameModel {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	h := help.New()
	h.Width = cfg.ScreenW

	m := GameModel{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, max(cfg.ScreenH-helpRows, 1)),
		store:      store,
		config:     cfg,
		opts:       opts,
		keys:       NewKeyMapper(),
		help:       h,
		inputFrame: core.NewInputFrame(),
	}
	game.Reset(m.gameConfig())
	m.gameState = game.State()
	return m
}

// gameConfig is the runtime config minus the help bar.
func (m GameModel) gameConfig() core.RuntimeConfig {
	cfg := m.config
	cfg.ScreenH = max(cfg.ScreenH-helpRows, 1)
	return cfg
}

// Resume continues a saved game: the given slot, or with uuid.Nil the most
// recent save for this mode if there is one.
func (m *GameModel) Resume(id uuid.UUID) error {
	p, ok := m.game.(registry.Persistent)
	if !ok {
		return fmt.Errorf("%s cannot be resumed", m.game.Title())
	}
	if m.store == nil {
		return errors.New("no database to resume from")
	}

	var (
		slot storage.SaveSlot
		data engine.SaveData
		err  error
	)
	if id == uuid.Nil {
		slot, data, err = m.store.LatestSave(m.game.ID())
		if errors.Is(err, storage.ErrSaveNotFound) {
			return nil
		}
	} else {
		slot, data, err = m.store.LoadSave(id)
	}
	if err != nil {
		return err
	}
	if slot.Mode != m.game.ID() {
		return fmt.Errorf("save %s belongs to %s, not %s", slot.ID, slot.Mode, m.game.ID())
	}
	if err := p.Restore(data); err != nil {
		return err
	}
	m.saveID = slot.ID
	m.gameState = m.game.State()
	m.opts.Logger.Info("resumed game", "game", m.game.ID(), "save", slot.ID, "score", slot.Score)
	return nil
}

// Init starts the tick loop.
func (m GameModel) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.keys.MapMouseToFrame(msg, &m.inputFrame)
		return m, nil

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.keys.MapKeyToFrame(msg, &m.inputFrame) {
		m.quitting = true
		return m, tea.Quit
	}
	if m.opts.WithMenu && m.gameState.GameOver && key.Matches(msg, m.keys.Keys().Back) {
		m.backToMenu = true
	}
	return m, nil
}

// handleResize processes window resize events.
func (m GameModel) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	cfg := m.gameConfig()
	m.screen.Resize(cfg.ScreenW, cfg.ScreenH)
	m.help.Width = msg.Width

	if r, ok := m.game.(Resizer); ok {
		r.Resize(cfg.ScreenW, cfg.ScreenH)
	} else if !m.gameState.GameOver {
		m.game.Reset(cfg)
	}
	return m, nil
}

// handleTick processes simulation ticks.
func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	if m.inputFrame.Has(core.ActionRestart) && m.gameState.GameOver {
		m.config.Seed = time.Now().UnixNano()
		m.game.Reset(m.gameConfig())
		m.gameState = m.game.State()
		m.scoreSaved = false
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	if m.inputFrame.Has(core.ActionSave) {
		m.save()
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	if m.gameState.GameOver && !m.scoreSaved {
		m.recordGameOver()
		m.scoreSaved = true
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate)
}

// save writes the game in progress to its slot.
func (m *GameModel) save() {
	p, ok := m.game.(registry.Persistent)
	switch {
	case !ok:
		m.setStatus("This game cannot be saved")
		return
	case m.store == nil:
		m.setStatus("No database, cannot save")
		return
	case m.gameState.GameOver:
		return
	}

	data, err := p.Save()
	if err != nil {
		m.opts.Logger.Warn("nothing to save", "game", m.game.ID(), "err", err)
		m.setStatus("Nothing to save")
		return
	}
	id, err := m.store.PutSave(m.saveID, m.game.ID(), data)
	if err != nil {
		m.opts.Logger.Error("cannot save game", "game", m.game.ID(), "err", err)
		m.setStatus("Save failed")
		return
	}
	m.saveID = id
	m.opts.Logger.Info("saved game", "game", m.game.ID(), "save", id)
	m.setStatus("Game saved")
}

// recordGameOver stores the final score and drops the finished save.
func (m *GameModel) recordGameOver() {
	if m.store == nil {
		return
	}
	if m.gameState.Score > 0 {
		if _, err := m.store.SaveScore(m.game.ID(), m.gameState.Score, m.gameState.Lines); err != nil {
			m.opts.Logger.Warn("cannot save score", "game", m.game.ID(), "err", err)
		}
	}
	if m.saveID != uuid.Nil {
		if err := m.store.DeleteSave(m.saveID); err != nil {
			m.opts.Logger.Warn("cannot delete save", "save", m.saveID, "err", err)
		}
		m.saveID = uuid.Nil
	}
}

func (m *GameModel) setStatus(s string) {
	m.status = s
	m.statusUntil = time.Now().Add(statusTTL)
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)

	bar := helpStyle.Render(m.help.View(m.keys.Keys()))
	if m.status != "" && time.Now().Before(m.statusUntil) {
		bar = statusStyle.Render(m.status)
	}
	return RenderScreen(m.screen) + "\n" + bar
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// SaveID returns the slot the running game is saved in, or uuid.Nil.
func (m GameModel) SaveID() uuid.UUID {
	return m.saveID
}

// RunOptions control a local game run.
type RunOptions struct {
	Logger *log.Logger
	Resume bool      // continue a saved game
	SaveID uuid.UUID // slot to resume; uuid.Nil means the latest
}

// Run starts the Bubble Tea program for a single game.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts RunOptions) error {
	model := NewGameModel(game, store, cfg, GameOptions{Logger: opts.Logger})
	if opts.Resume {
		if err := model.Resume(opts.SaveID); err != nil {
			return err
		}
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err := p.Run()
	return err
}
