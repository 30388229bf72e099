// Package engine ties the board, queue, drag controller, scorer and
// animation scheduler into one game. An Engine is a single-writer state
// machine: every change goes through Dispatch, which applies one Action
// and returns what happened. It has no timers of its own; time comes from
// an injected Clock and advances when the caller dispatches Tick.
package engine

import (
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tetrix-game/tetrix/internal/engine/animation"
	"github.com/tetrix-game/tetrix/internal/engine/board"
	"github.com/tetrix-game/tetrix/internal/engine/clearing"
	"github.com/tetrix-game/tetrix/internal/engine/drag"
	"github.com/tetrix-game/tetrix/internal/engine/placement"
	"github.com/tetrix-game/tetrix/internal/engine/shapes"
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Stats are per-game counters.
type Stats struct {
	Placements     int `json:"placements"`
	RowsCleared    int `json:"rowsCleared"`
	ColumnsCleared int `json:"columnsCleared"`
	BestCombo      int `json:"bestCombo"` // most lines in one clear
	ComboPatterns  int `json:"comboPatterns"`
	PointsSpent    int `json:"pointsSpent"`
}

// Result reports the effect of one dispatched action.
type Result struct {
	Rejected bool
	Reason   string

	Phase        drag.Phase
	Score        int
	Cleared      clearing.ScoreData
	ComboLevel   int
	ComboPattern bool
	GameOver     bool
	Won          bool
}

// Engine is one game session.
type Engine struct {
	settings Settings
	clock    Clock
	audio    AudioSink
	log      *log.Logger
	seed     int64
	puzzle   *Puzzle

	board *board.Board
	gen   *shapes.Generator
	queue *shapes.Queue
	drag  *drag.Controller
	anims animation.Sequence

	score    int
	stats    Stats
	gameOver bool
	won      bool
	fundsAt  time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the time source. The default is the system clock.
func WithClock(c Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithAudio sets the sound intent sink. The default drops everything.
func WithAudio(a AudioSink) Option {
	return func(e *Engine) { e.audio = a }
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithSeed makes shape generation deterministic.
func WithSeed(seed int64) Option {
	return func(e *Engine) { e.seed = seed }
}

// WithPuzzle replaces the random supply with a fixed puzzle.
func WithPuzzle(p Puzzle) Option {
	return func(e *Engine) { e.puzzle = &p }
}

// New builds an Engine and starts a game. An invalid grid size or a
// multiplier below 1 is logged and replaced by the default value.
func New(s Settings, opts ...Option) *Engine {
	e := &Engine{
		settings: s,
		clock:    systemClock{},
		audio:    silent{},
		seed:     time.Now().UnixNano(),
		drag:     drag.New(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = log.New(io.Discard)
	}
	if e.settings.Multiplier < 1 {
		def := DefaultSettings().Multiplier
		e.log.Warn("invalid score multiplier, using default", "multiplier", e.settings.Multiplier, "default", def)
		e.settings.Multiplier = def
	}

	b, err := board.New(e.settings.GridSize, e.settings.Background)
	if err != nil {
		e.log.Warn("invalid grid size, using default", "size", e.settings.GridSize, "err", err)
		e.settings.GridSize = board.DefaultSize
		b, _ = board.New(board.DefaultSize, e.settings.Background)
	}
	e.board = b

	palette := e.settings.Palette
	if len(palette) == 0 {
		palette = shapes.UniformPalette()
	}
	e.gen = shapes.NewGenerator(rand.New(rand.NewSource(e.seed)), palette)
	e.queue = shapes.NewQueue(e.gen, e.settings.Visible, e.queueSize())
	e.reset()
	return e
}

func (e *Engine) queueSize() int {
	if e.puzzle != nil {
		return len(e.puzzle.Shapes)
	}
	return e.settings.QueueSize
}

// reset starts a fresh game, keeping ID sequences running.
func (e *Engine) reset() {
	e.board.Reset()
	e.drag.Reset()
	e.score = 0
	e.stats = Stats{}
	e.gameOver = false
	e.won = false
	e.fundsAt = time.Time{}

	if e.puzzle == nil {
		e.queue.Reset(e.settings.QueueSize)
		return
	}
	for _, p := range e.puzzle.Prefill {
		if !e.board.Fill(p.Position, p.Color) {
			e.log.Debug("puzzle prefill outside board", "puzzle", e.puzzle.Name, "pos", p.Position)
		}
	}
	e.queue.ResetWith(e.puzzle.Shapes)
}

// Settings returns the session constants.
func (e *Engine) Settings() Settings {
	return e.settings
}

// Puzzle returns the active puzzle, if any.
func (e *Engine) Puzzle() (Puzzle, bool) {
	if e.puzzle == nil {
		return Puzzle{}, false
	}
	return *e.puzzle, true
}

// Score returns the cumulative score.
func (e *Engine) Score() int {
	return e.score
}

// GameOver reports whether the game has ended.
func (e *Engine) GameOver() bool {
	return e.gameOver
}

// Dispatch applies one action. Actions that make no sense in the current
// state change nothing and come back with Rejected set.
func (e *Engine) Dispatch(a Action) Result {
	now := e.clock.Now()
	var res Result

	switch a := a.(type) {
	case SelectShape:
		res = e.selectShape(a)
	case UpdatePointer:
		res = e.refused(e.drag.Move(a.X, a.Y, e.board))
	case HoverAt:
		res = e.refused(e.drag.MoveTo(a.Position, e.board))
	case PlaceShape:
		res = e.placeShape(now)
	case CompletePlacement:
		res = e.completePlacement(now)
	case ReturnShape:
		res = e.returnShape(now)
	case CompleteReturn:
		res = e.refused(e.drag.CompleteReturn())
	case SpendPoints:
		res = e.spend(a.Amount, a.Reason, now)
	case RotateShape:
		res = e.rotate(a, now)
	case DiscardShape:
		res = e.discard(a, now)
	case AddScore:
		res = e.addScore(a.Points)
	case SubtractScore:
		res = e.subtractScore(a.Points)
	case ResetGame:
		e.reset()
	case Tick:
		res = e.tick(now)
	default:
		res = reject("unknown action")
	}

	if res.Rejected {
		e.log.Debug("action ignored", "action", a, "reason", res.Reason, "phase", e.drag.Phase())
	}
	res.Phase = e.drag.Phase()
	res.Score = e.score
	res.GameOver = e.gameOver
	res.Won = e.won
	return res
}

func reject(reason string) Result {
	return Result{Rejected: true, Reason: reason}
}

// refused turns a controller error into a rejection.
func (e *Engine) refused(err error) Result {
	if err != nil {
		return reject(err.Error())
	}
	return Result{}
}

func (e *Engine) play(s Sound, level int) {
	e.audio.Play(SoundEvent{Sound: s, Level: level})
}

func (e *Engine) selectShape(a SelectShape) Result {
	if e.gameOver {
		return reject("game over")
	}
	qs, ok := e.queue.At(a.Index)
	if !ok {
		return reject("shape index out of range")
	}
	if err := e.drag.Select(a.Index, qs.ID, qs.Shape, a.Offsets); err != nil {
		return reject(err.Error())
	}
	e.play(SoundPickUp, 0)
	return Result{}
}

func (e *Engine) placeShape(now time.Time) Result {
	phase, err := e.drag.Release(e.board, now, e.settings.Timing)
	if err != nil {
		return reject(err.Error())
	}
	if phase == drag.PhaseReturning {
		e.play(SoundInvalidPlacement, 0)
		return Result{}
	}
	if e.drag.SoundDue(now) {
		e.play(SoundClickIntoPlace, 0)
	}
	return Result{}
}

func (e *Engine) returnShape(now time.Time) Result {
	if err := e.drag.Cancel(now, e.settings.Timing); err != nil {
		return reject(err.Error())
	}
	e.play(SoundReturn, 0)
	return Result{}
}

// completePlacement is the second half of the commit: the board changes,
// lines clear and score is awarded here.
func (e *Engine) completePlacement(now time.Time) Result {
	if e.drag.Phase() != drag.PhasePlacing {
		return reject(drag.ErrWrongPhase.Error())
	}
	// completing early still plays the click exactly once
	if e.drag.TakeSound() {
		e.play(SoundClickIntoPlace, 0)
	}
	placed, err := e.drag.CompletePlacement()
	if err != nil {
		return reject(err.Error())
	}
	if !placement.IsValid(placed.Shape, placed.Location, e.board) {
		e.log.Warn("pending placement no longer fits", "at", placed.Location)
		return reject(drag.ErrCommitFailed.Error())
	}

	color := placed.Shape.Color()
	for _, p := range placement.Targets(placed.Shape, placed.Location) {
		e.board.Fill(p, color)
	}
	e.consume(placed)
	e.stats.Placements++

	res := Result{}
	cleared := clearing.Clear(e.board, e.settings.Multiplier)
	res.Cleared = cleared.Score
	if n := cleared.Lines(); n > 0 {
		animation.Generate(e.board, cleared.Rows, cleared.Columns, e.settings.Animation, now, &e.anims)
		e.score += cleared.Score.PointsEarned
		e.stats.RowsCleared += cleared.Score.RowsCleared
		e.stats.ColumnsCleared += cleared.Score.ColumnsCleared
		e.stats.BestCombo = max(e.stats.BestCombo, n)
		res.ComboLevel = clearing.ComboLevel(cleared)
		e.play(SoundClearCombo, res.ComboLevel)
	}
	if clearing.HasComboPattern(e.board) {
		e.stats.ComboPatterns++
		res.ComboPattern = true
		e.play(SoundComboPattern, 0)
	}
	e.checkEnd()
	return res
}

// consume removes the placed shape from the queue, by ID if the window
// shifted under it.
func (e *Engine) consume(placed drag.Placed) {
	idx := placed.Index
	if qs, ok := e.queue.At(idx); !ok || qs.ID != placed.ShapeID {
		idx = -1
		for i, qs := range e.queue.Visible() {
			if qs.ID == placed.ShapeID {
				idx = i
				break
			}
		}
	}
	if _, ok := e.queue.Consume(idx); !ok {
		e.log.Debug("placed shape missing from queue", "id", placed.ShapeID)
	}
}

// checkEnd ends the game when the finite supply runs out or nothing left
// in the window fits.
func (e *Engine) checkEnd() {
	if e.gameOver {
		return
	}
	if e.queue.Exhausted() {
		e.gameOver = true
		e.won = e.puzzle != nil && e.score >= e.puzzle.Target
		e.log.Debug("supply exhausted", "score", e.score, "won", e.won)
		e.play(SoundGameOver, 0)
		return
	}
	if !placement.AnyFits(e.queue.Visible(), e.board) {
		e.gameOver = true
		e.log.Debug("no shape fits", "score", e.score)
		e.play(SoundGameOver, 0)
	}
}

// spend takes amount from the score, or flags insufficient funds and
// changes nothing.
func (e *Engine) spend(amount int, reason string, now time.Time) Result {
	if amount < 0 {
		return reject("negative amount")
	}
	if amount > e.score {
		e.fundsAt = now
		e.play(SoundInsufficientFunds, 0)
		e.log.Debug("insufficient funds", "reason", reason, "cost", amount, "score", e.score)
		return reject("insufficient funds")
	}
	e.score -= amount
	e.stats.PointsSpent += amount
	return Result{}
}

func (e *Engine) rotate(a RotateShape, now time.Time) Result {
	if e.gameOver {
		return reject("game over")
	}
	if e.drag.Phase() != drag.PhaseNone {
		return reject(drag.ErrBusy.Error())
	}
	qs, ok := e.queue.At(a.Index)
	if !ok {
		return reject("shape index out of range")
	}
	if res := e.spend(e.settings.RotateCost, "rotate", now); res.Rejected {
		return res
	}
	e.queue.Replace(a.Index, qs.Shape.Rotate(a.Clockwise))
	return Result{}
}

func (e *Engine) discard(a DiscardShape, now time.Time) Result {
	if e.gameOver {
		return reject("game over")
	}
	if e.drag.Phase() != drag.PhaseNone {
		return reject(drag.ErrBusy.Error())
	}
	if _, ok := e.queue.At(a.Index); !ok {
		return reject("shape index out of range")
	}
	if res := e.spend(e.settings.DiscardCost, "discard", now); res.Rejected {
		return res
	}
	e.queue.Consume(a.Index)
	e.checkEnd()
	return Result{}
}

func (e *Engine) addScore(points int) Result {
	if points < 0 {
		return reject("negative amount")
	}
	e.score += points
	return Result{}
}

func (e *Engine) subtractScore(points int) Result {
	if points < 0 {
		return reject("negative amount")
	}
	e.score = max(e.score-points, 0)
	return Result{}
}

// tick fires the delayed placement sound, completes settled placements and
// returns, and drops finished animations.
func (e *Engine) tick(now time.Time) Result {
	var res Result
	if e.drag.SoundDue(now) {
		e.play(SoundClickIntoPlace, 0)
	}
	if e.drag.Settled(now) {
		res = e.completePlacement(now)
	}
	if e.drag.Returned(now) {
		_ = e.drag.CompleteReturn()
	}
	animation.Cleanup(e.board, now)
	return res
}

// FundsFlash reports whether insufficient-funds feedback should show at now.
func (e *Engine) FundsFlash(now time.Time) bool {
	return !e.fundsAt.IsZero() && now.Sub(e.fundsAt) < e.settings.InsufficientFunds
}
