// Package tetrix adapts the block-placement engine to the platform's Game
// interface: it turns keys and mouse events into engine actions and draws
// the board, queue and HUD into a core.Screen.
package tetrix

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/tetrix-game/tetrix/internal/challenge"
	"github.com/tetrix-game/tetrix/internal/core"
	"github.com/tetrix-game/tetrix/internal/engine"
	"github.com/tetrix-game/tetrix/internal/engine/board"
	"github.com/tetrix-game/tetrix/internal/engine/drag"
	"github.com/tetrix-game/tetrix/internal/registry"
)

// Mode selects the supply.
type Mode string

const (
	ModeEndless   Mode = "tetrix"
	ModeChallenge Mode = "tetrix_challenge"
)

// Setup is shared by every game the registry creates.
type Setup struct {
	Settings  engine.Settings
	Challenge string // challenge ID to start on; empty means the first one
	Loader    *challenge.Loader
	Logger    *log.Logger
	Clock     engine.Clock
	Audio     engine.AudioSink // receives every intent after the HUD does
}

var (
	setupMu sync.RWMutex
	setup   = Setup{Settings: engine.DefaultSettings()}
)

// Configure replaces the setup used by games created afterwards.
func Configure(s Setup) {
	setupMu.Lock()
	defer setupMu.Unlock()
	setup = s
}

func currentSetup() Setup {
	setupMu.RLock()
	defer setupMu.RUnlock()
	s := setup
	if s.Logger == nil {
		s.Logger = log.New(io.Discard)
	}
	if s.Clock == nil {
		s.Clock = core.SystemClock{}
	}
	if s.Loader == nil {
		s.Loader = challenge.Builtin()
	}
	return s
}

func init() {
	registry.Register(string(ModeEndless), func() registry.Game {
		return New(ModeEndless)
	})
	registry.Register(string(ModeChallenge), func() registry.Game {
		return New(ModeChallenge)
	})
}

// Game is one player's session.
type Game struct {
	mode  Mode
	setup Setup
	eng   *engine.Engine
	hud   *hud

	levels []challenge.Challenge
	level  int
	failed error // challenge list could not be loaded

	seed    int64
	screenW int
	screenH int
	lay     layout

	cursor    board.Position
	slot      int
	mouseDrag bool
}

// New creates a game in the given mode with the current setup.
func New(mode Mode) *Game {
	return &Game{mode: mode, setup: currentSetup()}
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return string(g.mode)
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.mode == ModeChallenge {
		return "Tetrix Challenges"
	}
	return "Tetrix"
}

// Reset starts a new game. In challenge mode a won challenge moves on to
// the next one.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.seed = cfg.Seed
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH

	if g.mode == ModeChallenge {
		if err := g.loadLevels(); err != nil {
			g.failed = err
			g.setup.Logger.Error("cannot load challenges", "err", err)
			return
		}
		if g.eng != nil && g.eng.Snapshot().Won && g.level < len(g.levels)-1 {
			g.level++
		}
	}
	g.start()
}

func (g *Game) loadLevels() error {
	if g.levels != nil {
		return nil
	}
	levels, err := g.setup.Loader.LoadAll()
	if err != nil {
		return err
	}
	if len(levels) == 0 {
		return fmt.Errorf("%w: no challenges found", challenge.ErrUnknownChallenge)
	}
	g.levels = levels
	if g.setup.Challenge == "" {
		return nil
	}
	for i, c := range levels {
		if c.ID == g.setup.Challenge {
			g.level = i
			return nil
		}
	}
	return fmt.Errorf("%w: %s", challenge.ErrUnknownChallenge, g.setup.Challenge)
}

// start builds a fresh engine for the current mode and level.
func (g *Game) start() {
	g.hud = newHUD(g.setup.Clock, g.setup.Audio)
	settings := g.setup.Settings
	opts := []engine.Option{
		engine.WithClock(g.setup.Clock),
		engine.WithAudio(g.hud),
		engine.WithLogger(g.setup.Logger.With("game", g.ID())),
		engine.WithSeed(g.seed),
	}
	if c, ok := g.current(); ok {
		settings = c.Settings(settings)
		opts = append(opts, engine.WithPuzzle(c.Puzzle))
	}
	g.eng = engine.New(settings, opts...)

	size := g.eng.Settings().GridSize
	g.cursor = board.P((size+1)/2, (size+1)/2)
	g.slot = 0
	g.mouseDrag = false
	g.lay = computeLayout(g.screenW, g.screenH, size, settings.Visible)
}

// current returns the active challenge in challenge mode.
func (g *Game) current() (challenge.Challenge, bool) {
	if g.mode != ModeChallenge || g.level >= len(g.levels) {
		return challenge.Challenge{}, false
	}
	return g.levels[g.level], true
}

// Resize adapts the layout without restarting.
func (g *Game) Resize(w, h int) {
	g.screenW, g.screenH = w, h
	if g.eng != nil {
		g.lay = computeLayout(w, h, g.eng.Settings().GridSize, g.eng.Settings().Visible)
	}
}

// Step applies one tick of input and lets the engine advance.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.eng == nil {
		return core.StepResult{State: g.State()}
	}

	g.handlePointers(in.Pointers)
	g.handleKeys(in)

	res := g.eng.Dispatch(engine.Tick{})
	g.hud.observe(res)
	g.clampSlot()

	return core.StepResult{State: g.State(), Message: g.hud.message()}
}

// State reports score and status to the platform.
func (g *Game) State() core.GameState {
	if g.eng == nil {
		return core.GameState{}
	}
	snap := g.eng.Snapshot()
	return core.GameState{
		Score:    snap.Score,
		Lines:    snap.Stats.RowsCleared + snap.Stats.ColumnsCleared,
		GameOver: snap.GameOver,
		Won:      snap.Won,
	}
}

// ErrNotStarted is returned by Save when no board could be set up.
var ErrNotStarted = errors.New("tetrix: no game in progress")

// Snapshot exposes the engine view, mainly for tests. It is the zero
// snapshot while no engine runs.
func (g *Game) Snapshot() engine.Snapshot {
	if g.eng == nil {
		return engine.Snapshot{}
	}
	return g.eng.Snapshot()
}

// Save exports the game in progress.
func (g *Game) Save() (engine.SaveData, error) {
	if g.eng == nil {
		if g.failed != nil {
			return engine.SaveData{}, fmt.Errorf("%w: %w", ErrNotStarted, g.failed)
		}
		return engine.SaveData{}, ErrNotStarted
	}
	return g.eng.Save(), nil
}

// Restore resumes a saved game. A challenge save switches to its challenge
// first. On error the game keeps running on a fresh board.
func (g *Game) Restore(sd engine.SaveData) error {
	if g.mode == ModeChallenge {
		if err := g.loadLevels(); err != nil {
			return err
		}
		found := false
		for i, c := range g.levels {
			if c.ID == sd.Puzzle {
				g.level = i
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: %s", challenge.ErrUnknownChallenge, sd.Puzzle)
		}
		g.start()
	} else if g.eng == nil {
		g.start()
	}

	err := g.eng.Restore(sd)
	g.clampSlot()
	return err
}

func (g *Game) clampSlot() {
	n := len(g.Snapshot().Queue)
	if n == 0 {
		g.slot = 0
		return
	}
	g.slot = core.Clamp(g.slot, 0, n-1)
}

// holding reports whether a shape is in hand and can still be moved.
func (g *Game) holding() bool {
	switch g.eng.Snapshot().Drag.Phase {
	case drag.PhasePickingUp, drag.PhaseDragging:
		return true
	}
	return false
}

var (
	_ registry.Game       = (*Game)(nil)
	_ registry.Persistent = (*Game)(nil)
)
