package tracker

import (
	"time"

	"touchtrack/model"
)

// NotAKey is the sentinel key index returned by hit-testing when no key is
// under the point.
const NotAKey = -1

// ActionSink receives the decoded key and text events emitted by a Tracker.
type ActionSink interface {
	OnPress(code int, withSliding bool)
	OnRelease(code int, withSliding bool)
	OnCodeInput(code int, nearbyCodes []int, x, y int)
	OnTextInput(text string)
	OnCancelInput()
}

// NopSink is the sink installed until a real listener is attached, so a
// tracker is always safely callable.
type NopSink struct{}

func (NopSink) OnPress(int, bool)            {}
func (NopSink) OnRelease(int, bool)          {}
func (NopSink) OnCodeInput(int, []int, int, int) {}
func (NopSink) OnTextInput(string)           {}
func (NopSink) OnCancelInput()               {}

// TimerPort schedules the repeat and long-press timers requested by a
// Tracker. Firings must be delivered back as ordinary events on the same
// dispatch thread, never as asynchronous interrupts.
type TimerPort interface {
	StartKeyRepeat(delay time.Duration, keyIndex int, t *Tracker)
	StartLongPress(delay time.Duration, keyIndex int, t *Tracker)
	StartLongPressShift(delay time.Duration, keyIndex int, t *Tracker)
	CancelLongPress()
	CancelKeyTimers()
}

// RenderPort receives key-visual-state and preview bubble requests.
type RenderPort interface {
	InvalidateKey(k *model.Key)
	ShowKeyPreview(keyIndex int, t *Tracker)
	CancelKeyPreview(t *Tracker)
	DismissKeyPreview(t *Tracker)
}

// KeyModel is a read-only ordered collection of keys plus the keyboard-level
// state the tracker consults. Implementations live in the layout package.
type KeyModel interface {
	Keys() []*model.Key
	KeyWidth() int

	IsManualTemporaryUppercase() bool
	NeedsSpacebarPreview(keyIndex int) bool

	// Spacebar language-switch gesture capability and state.
	SupportsLanguageSwitchGesture() bool
	ShouldTriggerLanguageSwitch(dx int) bool
	SetLanguageSwitchDrag(dx int)
	LanguageChangeDirection() int
}

// KeyLookup resolves coordinates to key indices. The nearbyCodes buffer,
// when non-nil, is filled with a debounced ranked list of plausible codes
// near the point.
type KeyLookup interface {
	KeyModel() KeyModel
	HitTest(x, y int, nearbyCodes []int) int
	NewNearbyCodes() []int
	HysteresisDistanceSquared() int
	// IsOverlayVariant reports whether this lookup serves a popup overlay
	// keyboard, on which sliding key input is always allowed.
	IsOverlayVariant() bool
}

// ModeQuery exposes input-method state the tracker needs but does not own:
// the momentary symbols-mode switch and the language-switch settings.
type ModeQuery interface {
	InMomentarySymbolsMode() bool
	LanguageSwitchEnabled() bool
	EnabledLocaleCount() int
}

type defaultModes struct{}

func (defaultModes) InMomentarySymbolsMode() bool { return false }
func (defaultModes) LanguageSwitchEnabled() bool  { return false }
func (defaultModes) EnabledLocaleCount() int      { return 1 }
