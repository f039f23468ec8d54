package tracker

import "time"

// Config carries the static per-tracker tuning. It never changes for the
// lifetime of a tracker.
type Config struct {
	// SlidingKeyInputEnabled globally allows crossing from key to key
	// without lifting. Sliding is additionally allowed when a contact
	// starts on a modifier key or on an overlay keyboard.
	SlidingKeyInputEnabled bool

	// KeyRepeatStartDelay is the time a repeatable key must be held before
	// repeat firing starts.
	KeyRepeatStartDelay time.Duration

	// LongPressKeyTimeout is the ordinary long-press timeout. It is tripled
	// while the keyboard is in a momentary symbols-mode switch, to tolerate
	// slower deliberate slides out of the mode key.
	LongPressKeyTimeout time.Duration

	// LongPressShiftKeyTimeout applies to shift keys only.
	LongPressShiftKeyTimeout time.Duration

	// TouchNoiseWindow and TouchNoiseDistance reject a down event landing
	// too soon and too close after the previous up: typical touch panel
	// bounce. Distance is in pixels and compared squared.
	TouchNoiseWindow   time.Duration
	TouchNoiseDistance int
}

// DefaultConfig is the stock handset tuning.
func DefaultConfig() Config {
	return Config{
		SlidingKeyInputEnabled:   false,
		KeyRepeatStartDelay:      400 * time.Millisecond,
		LongPressKeyTimeout:      400 * time.Millisecond,
		LongPressShiftKeyTimeout: 1200 * time.Millisecond,
		TouchNoiseWindow:         40 * time.Millisecond,
		TouchNoiseDistance:       16,
	}
}
