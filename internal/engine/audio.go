package engine

// Sound is an abstract audio intent. Playing it is up to the caller.
type Sound uint8

const (
	SoundPickUp Sound = iota + 1
	SoundInvalidPlacement
	SoundClickIntoPlace
	SoundReturn
	SoundClearCombo
	SoundComboPattern
	SoundGameOver
	SoundInsufficientFunds
)

var soundNames = map[Sound]string{
	SoundPickUp:            "pick-up",
	SoundInvalidPlacement:  "invalid-placement",
	SoundClickIntoPlace:    "click-into-place",
	SoundReturn:            "return",
	SoundClearCombo:        "clear-combo",
	SoundComboPattern:      "combo-pattern",
	SoundGameOver:          "game-over",
	SoundInsufficientFunds: "insufficient-funds",
}

func (s Sound) String() string {
	if n, ok := soundNames[s]; ok {
		return n
	}
	return "unknown"
}

// SoundEvent is one emitted intent. Level is set for SoundClearCombo (1-4).
type SoundEvent struct {
	Sound Sound
	Level int
}

// AudioSink receives sound intents.
type AudioSink interface {
	Play(SoundEvent)
}

// AudioFunc adapts a function to AudioSink.
type AudioFunc func(SoundEvent)

// Play calls f.
func (f AudioFunc) Play(e SoundEvent) {
	f(e)
}

type silent struct{}

func (silent) Play(SoundEvent) {}

// Recorder is an AudioSink that keeps every event, for tests and replays.
type Recorder struct {
	Events []SoundEvent
}

// Play appends e.
func (r *Recorder) Play(e SoundEvent) {
	r.Events = append(r.Events, e)
}

// Sounds returns just the intents, in order.
func (r *Recorder) Sounds() []Sound {
	out := make([]Sound, len(r.Events))
	for i, e := range r.Events {
		out[i] = e.Sound
	}
	return out
}

// Reset forgets recorded events.
func (r *Recorder) Reset() {
	r.Events = nil
}
