package tetrix

import (
	"fmt"
	"time"

	"github.com/tetrix-game/tetrix/internal/engine"
)

// messageTTL is how long a status line stays up.
const messageTTL = 2 * time.Second

var comboNames = [...]string{"", "Single", "Double", "Triple", "Quad"}

// hud turns engine results and sound intents into a short status line.
// Terminals have no audio, so intents become text; the setup's sink still
// hears every one of them.
type hud struct {
	clock engine.Clock
	next  engine.AudioSink
	text  string
	until time.Time
}

func newHUD(clock engine.Clock, next engine.AudioSink) *hud {
	return &hud{clock: clock, next: next}
}

// Play implements engine.AudioSink.
func (h *hud) Play(ev engine.SoundEvent) {
	switch ev.Sound {
	case engine.SoundInvalidPlacement:
		h.say("Doesn't fit there")
	case engine.SoundInsufficientFunds:
		h.say("Not enough points")
	case engine.SoundComboPattern:
		h.say("Combo pattern!")
	}
	if h.next != nil {
		h.next.Play(ev)
	}
}

// observe reports clears, which carry more detail than their sound intent.
func (h *hud) observe(res engine.Result) {
	if res.Cleared.PointsEarned == 0 {
		return
	}
	name := comboNames[min(res.ComboLevel, len(comboNames)-1)]
	msg := fmt.Sprintf("%s! +%d", name, res.Cleared.PointsEarned)
	if res.ComboPattern {
		msg += "  combo pattern!"
	}
	h.say(msg)
}

func (h *hud) say(msg string) {
	h.text = msg
	h.until = h.clock.Now().Add(messageTTL)
}

// message returns the current status line, or "" once it has expired.
func (h *hud) message() string {
	if h.text == "" || !h.clock.Now().Before(h.until) {
		return ""
	}
	return h.text
}
