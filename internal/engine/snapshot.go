package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/tetrix-game/tetrix/internal/engine/board"
	"github.com/tetrix-game/tetrix/internal/engine/drag"
	"github.com/tetrix-game/tetrix/internal/engine/shapes"
)

// Snapshot is a read-only view for renderers. It shares nothing with the
// Engine.
type Snapshot struct {
	Board    *board.Board
	Drag     drag.State
	Queue    []shapes.QueuedShape
	Hidden   int // shapes.Infinite for an endless supply
	Score    int
	Stats    Stats
	GameOver bool
	Won      bool
	Target   int
	Funds    bool // insufficient-funds feedback is showing
	Now      time.Time
}

// Snapshot copies the current state.
func (e *Engine) Snapshot() Snapshot {
	now := e.clock.Now()
	s := Snapshot{
		Board:    e.board.Clone(),
		Drag:     e.drag.State(),
		Queue:    e.queue.Visible(),
		Hidden:   e.queue.Hidden(),
		Score:    e.score,
		Stats:    e.stats,
		GameOver: e.gameOver,
		Won:      e.won,
		Funds:    e.FundsFlash(now),
		Now:      now,
	}
	if e.puzzle != nil {
		s.Target = e.puzzle.Target
	}
	return s
}

// SaveVersion is written into every SaveData.
const SaveVersion = 1

// SaveData is the persisted form of a game in progress. Any drag in
// flight is dropped; a pending commit is lost with it.
type SaveData struct {
	Version         int                `json:"version"`
	GridSize        int                `json:"gridSize"`
	Puzzle          string             `json:"puzzle,omitempty"`
	Score           int                `json:"score"`
	Stats           Stats              `json:"stats"`
	GameOver        bool               `json:"gameOver"`
	Won             bool               `json:"won,omitempty"`
	Tiles           []board.TileRecord `json:"tiles"`
	Queue           shapes.QueueRecord `json:"queue"`
	NextAnimationID uint64             `json:"nextAnimationId"`
}

// ErrGridMismatch means a save was made with a different grid size.
var ErrGridMismatch = errors.New("engine: saved grid size does not match")

// Save exports the game.
func (e *Engine) Save() SaveData {
	sd := SaveData{
		Version:         SaveVersion,
		GridSize:        e.board.Size(),
		Score:           e.score,
		Stats:           e.stats,
		GameOver:        e.gameOver,
		Won:             e.won,
		Tiles:           e.board.Records(),
		Queue:           e.queue.Record(),
		NextAnimationID: e.anims.Peek(),
	}
	if e.puzzle != nil {
		sd.Puzzle = e.puzzle.Name
	}
	return sd
}

// Restore loads a saved game. Animations that finished before now are
// dropped. If the saved board is unusable the engine keeps going on a fresh
// empty board and the returned error says why; the engine is valid either
// way.
func (e *Engine) Restore(sd SaveData) error {
	now := e.clock.Now()
	e.drag.Reset()
	e.fundsAt = time.Time{}

	var err error
	size := sd.GridSize
	if size == 0 {
		size = e.settings.GridSize
	}
	var b *board.Board
	if size != e.settings.GridSize {
		err = fmt.Errorf("%w: %d, playing %d", ErrGridMismatch, size, e.settings.GridSize)
	} else {
		b, err = board.Restore(size, e.settings.Background, sd.Tiles, now)
		if err != nil {
			err = fmt.Errorf("engine: restore board: %w", err)
		}
	}
	if err != nil {
		e.log.Warn("saved board rejected, starting empty", "err", err)
		e.reset()
		return err
	}

	e.board = b
	e.queue.Restore(sd.Queue)
	e.score = max(sd.Score, 0)
	e.stats = sd.Stats
	e.gameOver = sd.GameOver
	e.won = sd.Won

	e.anims.Advance(sd.NextAnimationID)
	for _, t := range b.Tiles() {
		for _, a := range t.Animations {
			e.anims.Advance(a.ID)
		}
	}
	e.checkEnd()
	return nil
}
