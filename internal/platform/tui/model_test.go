package tui

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/tetrix-game/tetrix/internal/core"
	"github.com/tetrix-game/tetrix/internal/engine"
	"github.com/tetrix-game/tetrix/internal/registry"
	"github.com/tetrix-game/tetrix/internal/storage"
)

// fakeGame is a persistent game whose state the test drives directly.
type fakeGame struct {
	state    core.GameState
	resets   int
	steps    int
	confirm  bool
	slot     int
	pointers []core.PointerEvent
	restored *engine.SaveData
	w, h     int

	unsaveable bool
}

func (g *fakeGame) ID() string    { return "fake" }
func (g *fakeGame) Title() string { return "Fake" }

func (g *fakeGame) Reset(cfg core.RuntimeConfig) {
	g.resets++
	g.state = core.GameState{}
	g.w, g.h = cfg.ScreenW, cfg.ScreenH
}

func (g *fakeGame) Step(in core.InputFrame) core.StepResult {
	g.steps++
	g.confirm = in.Has(core.ActionConfirm)
	g.slot = in.Slot
	g.pointers = append([]core.PointerEvent(nil), in.Pointers...)
	return core.StepResult{State: g.state}
}

func (g *fakeGame) Render(s *core.Screen) {
	s.Clear()
	s.DrawText(0, 0, "fake board")
}

func (g *fakeGame) State() core.GameState { return g.state }

func (g *fakeGame) Save() (engine.SaveData, error) {
	if g.unsaveable {
		return engine.SaveData{}, errors.New("no game")
	}
	return engine.SaveData{Version: engine.SaveVersion, Score: g.state.Score}, nil
}

func (g *fakeGame) Restore(sd engine.SaveData) error {
	g.restored = &sd
	g.state.Score = sd.Score
	return nil
}

func (g *fakeGame) Resize(w, h int) { g.w, g.h = w, h }

var _ registry.Persistent = (*fakeGame)(nil)

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "tetrix.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testConfig() core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 60, ScreenH: 20, TickRate: 30, Seed: 1}
}

func send(t *testing.T, m GameModel, msgs ...tea.Msg) GameModel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		gm, ok := next.(GameModel)
		if !ok {
			t.Fatalf("Update returned %T", next)
		}
		m = gm
	}
	return m
}

var tick = TickMsg{}

func TestGameModelStartsGame(t *testing.T) {
	g := &fakeGame{}
	m := NewGameModel(g, nil, testConfig(), GameOptions{})

	if g.resets != 1 {
		t.Errorf("resets = %d, want 1", g.resets)
	}
	if g.h != 19 {
		t.Errorf("game height = %d, want 19 (one row for help)", g.h)
	}
	if m.Init() == nil {
		t.Error("Init should start the tick loop")
	}
}

func TestGameModelForwardsInput(t *testing.T) {
	g := &fakeGame{}
	m := NewGameModel(g, nil, testConfig(), GameOptions{})

	m = send(t, m,
		tea.KeyMsg{Type: tea.KeyEnter},
		runeKey("2"),
		tea.MouseMsg{X: 3, Y: 4, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft},
		tick,
	)
	if !g.confirm || g.slot != 1 || len(g.pointers) != 1 {
		t.Errorf("step saw confirm=%v slot=%d pointers=%v", g.confirm, g.slot, g.pointers)
	}

	// input is consumed by the tick
	send(t, m, tick)
	if g.confirm || g.slot != core.NoSlot || len(g.pointers) != 0 {
		t.Errorf("second step saw stale input: confirm=%v slot=%d pointers=%v", g.confirm, g.slot, g.pointers)
	}
}

func TestGameModelQuit(t *testing.T) {
	m := NewGameModel(&fakeGame{}, nil, testConfig(), GameOptions{})

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if !next.(GameModel).IsQuitting() {
		t.Error("ctrl+c should quit")
	}
	if cmd == nil {
		t.Error("ctrl+c should return tea.Quit")
	}
	if next.View() != "" {
		t.Error("quitting model should render nothing")
	}
}

func TestGameModelRecordsScoreOnce(t *testing.T) {
	store := openStore(t)
	g := &fakeGame{}
	m := NewGameModel(g, store, testConfig(), GameOptions{})

	g.state = core.GameState{Score: 40, Lines: 3, GameOver: true}
	m = send(t, m, tick, tick, tick)

	scores, err := store.TopScores("fake", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 1 {
		t.Fatalf("got %d scores, want 1", len(scores))
	}
	if scores[0].Score != 40 || scores[0].Lines != 3 {
		t.Errorf("score = %+v", scores[0])
	}

	// restart, then a second game over is recorded too
	m = send(t, m, runeKey("r"), tick)
	if g.resets != 2 {
		t.Fatalf("resets = %d, want 2", g.resets)
	}
	g.state = core.GameState{Score: 10, GameOver: true}
	send(t, m, tick)

	scores, _ = store.TopScores("fake", 10)
	if len(scores) != 2 {
		t.Errorf("got %d scores after second game, want 2", len(scores))
	}
}

func TestGameModelRestartOnlyAfterGameOver(t *testing.T) {
	g := &fakeGame{}
	m := NewGameModel(g, nil, testConfig(), GameOptions{})

	send(t, m, runeKey("r"), tick)
	if g.resets != 1 {
		t.Errorf("resets = %d, restart mid-game belongs to the game", g.resets)
	}
}

func TestGameModelSaveAndFinish(t *testing.T) {
	store := openStore(t)
	g := &fakeGame{}
	m := NewGameModel(g, store, testConfig(), GameOptions{})
	g.state.Score = 25

	m = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlS}, tick)
	id := m.SaveID()
	if id == uuid.Nil {
		t.Fatal("ctrl+s should create a save slot")
	}
	if !strings.Contains(m.View(), "Game saved") {
		t.Error("status bar should confirm the save")
	}

	// saving again reuses the slot
	g.state.Score = 30
	m = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlS}, tick)
	if m.SaveID() != id {
		t.Errorf("second save used slot %v, want %v", m.SaveID(), id)
	}
	slots, err := store.ListSaves(10)
	if err != nil {
		t.Fatalf("ListSaves() failed: %v", err)
	}
	if len(slots) != 1 || slots[0].Score != 30 {
		t.Fatalf("slots = %+v, want one slot with score 30", slots)
	}

	// a finished game drops its save
	g.state.GameOver = true
	m = send(t, m, tick)
	if m.SaveID() != uuid.Nil {
		t.Error("save slot should be cleared after game over")
	}
	slots, _ = store.ListSaves(10)
	if len(slots) != 0 {
		t.Errorf("finished game left %d saves", len(slots))
	}
}

func TestGameModelSaveWithoutStore(t *testing.T) {
	m := NewGameModel(&fakeGame{}, nil, testConfig(), GameOptions{})
	m = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlS}, tick)
	if !strings.Contains(m.View(), "No database") {
		t.Error("save without a store should say so")
	}
}

func TestGameModelSaveWithoutGame(t *testing.T) {
	store := openStore(t)
	m := NewGameModel(&fakeGame{unsaveable: true}, store, testConfig(), GameOptions{})

	m = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlS}, tick)
	if m.SaveID() != uuid.Nil {
		t.Error("no slot should be created")
	}
	if !strings.Contains(m.View(), "Nothing to save") {
		t.Error("status bar should say there is nothing to save")
	}
	slots, _ := store.ListSaves(10)
	if len(slots) != 0 {
		t.Errorf("got %d saves, want none", len(slots))
	}
}

func TestGameModelResume(t *testing.T) {
	store := openStore(t)
	id, err := store.PutSave(uuid.Nil, "fake", engine.SaveData{Version: engine.SaveVersion, Score: 77})
	if err != nil {
		t.Fatalf("PutSave() failed: %v", err)
	}

	g := &fakeGame{}
	m := NewGameModel(g, store, testConfig(), GameOptions{})
	if err := m.Resume(uuid.Nil); err != nil {
		t.Fatalf("Resume() failed: %v", err)
	}
	if g.restored == nil || g.restored.Score != 77 {
		t.Fatalf("restored = %+v, want score 77", g.restored)
	}
	if m.SaveID() != id {
		t.Errorf("SaveID = %v, want %v", m.SaveID(), id)
	}
}

func TestGameModelResumeWithoutSave(t *testing.T) {
	g := &fakeGame{}
	m := NewGameModel(g, openStore(t), testConfig(), GameOptions{})
	if err := m.Resume(uuid.Nil); err != nil {
		t.Fatalf("Resume() with no saves failed: %v", err)
	}
	if g.restored != nil {
		t.Error("nothing should be restored")
	}
}

func TestGameModelResumeSlot(t *testing.T) {
	store := openStore(t)
	older, err := store.PutSave(uuid.Nil, "fake", engine.SaveData{Version: engine.SaveVersion, Score: 5})
	if err != nil {
		t.Fatalf("PutSave() failed: %v", err)
	}
	if _, err := store.PutSave(uuid.Nil, "fake", engine.SaveData{Version: engine.SaveVersion, Score: 9}); err != nil {
		t.Fatalf("PutSave() failed: %v", err)
	}
	other, err := store.PutSave(uuid.Nil, "other", engine.SaveData{Version: engine.SaveVersion, Score: 1})
	if err != nil {
		t.Fatalf("PutSave() failed: %v", err)
	}

	g := &fakeGame{}
	m := NewGameModel(g, store, testConfig(), GameOptions{})
	if err := m.Resume(older); err != nil {
		t.Fatalf("Resume(older) failed: %v", err)
	}
	if g.restored == nil || g.restored.Score != 5 {
		t.Errorf("restored = %+v, want score 5", g.restored)
	}

	if err := m.Resume(other); err == nil {
		t.Error("resuming another mode's save should fail")
	}
	if err := m.Resume(uuid.New()); err == nil {
		t.Error("resuming a missing slot should fail")
	}
}

func TestGameModelResumeWithoutStore(t *testing.T) {
	m := NewGameModel(&fakeGame{}, nil, testConfig(), GameOptions{})
	if err := m.Resume(uuid.Nil); err == nil {
		t.Error("Resume without a database should fail")
	}
}

func TestGameModelResize(t *testing.T) {
	g := &fakeGame{}
	m := NewGameModel(g, nil, testConfig(), GameOptions{})

	m = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	if g.w != 100 || g.h != 39 {
		t.Errorf("game resized to %dx%d, want 100x39", g.w, g.h)
	}
	if g.resets != 1 {
		t.Error("a resizable game should not be reset")
	}
	if !strings.Contains(m.View(), "fake board") {
		t.Error("view should include the game screen")
	}
}

func TestGameModelBackToMenu(t *testing.T) {
	g := &fakeGame{}
	m := NewGameModel(g, nil, testConfig(), GameOptions{WithMenu: true})

	m = send(t, m, runeKey("b"))
	if m.BackToMenu() {
		t.Error("b should not leave a running game")
	}

	g.state.GameOver = true
	m = send(t, m, tick, runeKey("b"))
	if !m.BackToMenu() {
		t.Error("b after game over should go back to the menu")
	}
}
