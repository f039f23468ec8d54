package layout

import (
	"touchtrack/model"
)

// Keyboard is a concrete key model: an ordered, read-only set of keys plus
// the keyboard-level state the tracker consults (manual temporary uppercase,
// spacebar language-switch drag).
type Keyboard struct {
	keys     []*model.Key
	keyWidth int

	manualTemporaryUppercase bool

	languageSwitchSupported     bool
	languageSwitchTriggerOffset int
	languageSwitchDrag          int
	spaceKeyIndex               int
}

// NewKeyboard builds a keyboard over the given keys. keyWidth is the most
// common key width of the layout; when zero it is taken from the first key.
func NewKeyboard(keys []*model.Key, keyWidth int) *Keyboard {
	if keyWidth == 0 && len(keys) > 0 {
		keyWidth = keys[0].Width
	}

	kb := &Keyboard{
		keys:          keys,
		keyWidth:      keyWidth,
		spaceKeyIndex: -1,
	}

	for i, key := range keys {
		if key.Code == model.CodeSpace {
			kb.spaceKeyIndex = i

			break
		}
	}

	return kb
}

func (kb *Keyboard) Keys() []*model.Key {
	return kb.keys
}

func (kb *Keyboard) KeyWidth() int {
	return kb.keyWidth
}

func (kb *Keyboard) SetManualTemporaryUppercase(v bool) {
	kb.manualTemporaryUppercase = v
}

func (kb *Keyboard) IsManualTemporaryUppercase() bool {
	return kb.manualTemporaryUppercase
}

// EnableLanguageSwitch turns on the spacebar slide-to-switch-language
// gesture. triggerOffset is the horizontal drag, in pixels, that starts the
// gesture and decides its direction on release.
func (kb *Keyboard) EnableLanguageSwitch(triggerOffset int) {
	kb.languageSwitchSupported = true
	kb.languageSwitchTriggerOffset = triggerOffset
}

func (kb *Keyboard) SupportsLanguageSwitchGesture() bool {
	return kb.languageSwitchSupported && kb.spaceKeyIndex >= 0
}

func (kb *Keyboard) ShouldTriggerLanguageSwitch(dx int) bool {
	return abs(dx) > kb.languageSwitchTriggerOffset
}

// SetLanguageSwitchDrag records the current drag offset driving the spacebar
// preview indicator. Zero resets the gesture state.
func (kb *Keyboard) SetLanguageSwitchDrag(dx int) {
	kb.languageSwitchDrag = dx
}

func (kb *Keyboard) LanguageSwitchDrag() int {
	return kb.languageSwitchDrag
}

// LanguageChangeDirection is +1 for a decisive right drag, -1 for left, 0
// when the drag never left the trigger window.
func (kb *Keyboard) LanguageChangeDirection() int {
	switch {
	case kb.languageSwitchDrag > kb.languageSwitchTriggerOffset:
		return 1
	case kb.languageSwitchDrag < -kb.languageSwitchTriggerOffset:
		return -1
	default:
		return 0
	}
}

// NeedsSpacebarPreview reports whether the spacebar must show a preview even
// though space keys are normally preview-exempt: true while the language
// switch indicator is being dragged.
func (kb *Keyboard) NeedsSpacebarPreview(keyIndex int) bool {
	return kb.languageSwitchSupported &&
		keyIndex == kb.spaceKeyIndex &&
		kb.languageSwitchDrag != 0
}

func abs(v int) int {
	if v < 0 {
		return -v
	}

	return v
}

// ModeState is a concrete ModeQuery: plain injected input-method state.
type ModeState struct {
	MomentarySymbols bool
	LanguageSwitch   bool
	LocaleCount      int
}

func (m *ModeState) InMomentarySymbolsMode() bool {
	return m.MomentarySymbols
}

func (m *ModeState) LanguageSwitchEnabled() bool {
	return m.LanguageSwitch
}

func (m *ModeState) EnabledLocaleCount() int {
	return m.LocaleCount
}
