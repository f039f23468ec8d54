package tracker

import (
	"errors"
	"log/slog"

	"touchtrack/model"
)

// Tracker is the per-pointer gesture state machine. One instance follows one
// physical contact from down to up or cancel, translating raw samples into
// press/release/commit events, repeat and long-press timer requests, and
// render requests. Several trackers cooperate through a shared Queue.
//
// All methods must be called from a single dispatch thread; timer firings
// are delivered as ordinary events on that thread, so no method is ever
// re-entered.
type Tracker struct {
	// ID is the pointer identity, stable for one contact's lifetime.
	ID int

	cfg                  Config
	noiseDistanceSquared int

	sink   ActionSink
	timer  TimerPort
	render RenderPort
	queue  *Queue
	modes  ModeQuery

	lookup                 KeyLookup
	keyboard               KeyModel
	keys                   []*model.Key
	keyQuarterWidthSquared int

	downTime int64
	upTime   int64

	// keyIndex is the key currently considered under the pointer; keyX and
	// keyY are the coordinates at which it was last established, used as the
	// hysteresis anchor instead of the live coordinate.
	keyIndex int
	keyX     int
	keyY     int

	lastX int
	lastY int

	layoutChanged bool

	// keyAlreadyProcessed is terminal for the remainder of one contact: once
	// set, no further key or text events fire until the next down resets it.
	keyAlreadyProcessed bool

	isRepeatableKey          bool
	isInSlidingKeyInput      bool
	isAllowedSlidingKeyInput bool
	ignoreModifierKey        bool

	isInSlidingLanguageSwitch bool
	spaceKeyIndex             int
}

// NewTracker wires a tracker to its collaborators. The lookup, timer and
// render ports are required; queue may be nil on hardware that cannot track
// distinct pointers, and modes may be nil when the host has no mode state.
func NewTracker(id int, lookup KeyLookup, timer TimerPort, render RenderPort, queue *Queue, modes ModeQuery, cfg Config) (*Tracker, error) {
	if lookup == nil || timer == nil || render == nil {
		return nil, errors.New("tracker: key lookup, timer port and render port are required")
	}

	if modes == nil {
		modes = defaultModes{}
	}

	t := &Tracker{
		ID:                   id,
		cfg:                  cfg,
		noiseDistanceSquared: cfg.TouchNoiseDistance * cfg.TouchNoiseDistance,
		sink:                 NopSink{},
		timer:                timer,
		render:               render,
		queue:                queue,
		modes:                modes,
		keyIndex:             NotAKey,
	}
	t.setKeyLookupInner(lookup)

	return t, nil
}

// SetActionSink attaches the listener for decoded events. A nil sink
// reinstalls the no-op default.
func (t *Tracker) SetActionSink(sink ActionSink) {
	if sink == nil {
		sink = NopSink{}
	}

	t.sink = sink
}

func (t *Tracker) setKeyLookupInner(lookup KeyLookup) {
	t.lookup = lookup
	t.keyboard = lookup.KeyModel()
	t.keys = t.keyboard.Keys()
	quarter := t.keyboard.KeyWidth() / 4
	t.keyQuarterWidthSquared = quarter * quarter
}

// SetKeyLookup swaps the layout under the tracker, e.g. on a shift or mode
// change. Cached key indices become stale and are re-resolved on the next
// event that needs one.
func (t *Tracker) SetKeyLookup(lookup KeyLookup) {
	if lookup == nil {
		panic("tracker: nil key lookup")
	}

	t.setKeyLookupInner(lookup)
	t.layoutChanged = true
}

func (t *Tracker) IsInSlidingKeyInput() bool {
	return t.isInSlidingKeyInput
}

func (t *Tracker) DownTime() int64 {
	return t.downTime
}

func (t *Tracker) LastX() int {
	return t.lastX
}

func (t *Tracker) LastY() int {
	return t.lastY
}

func (t *Tracker) isValidKeyIndex(keyIndex int) bool {
	return keyIndex >= 0 && keyIndex < len(t.keys)
}

// KeyAt returns the key at the given index, or nil when the index is out of
// range. Out-of-range indices degrade to "no key" rather than failing.
func (t *Tracker) KeyAt(keyIndex int) *model.Key {
	if !t.isValidKeyIndex(keyIndex) {
		return nil
	}

	return t.keys[keyIndex]
}

func (t *Tracker) isModifierIndex(keyIndex int) bool {
	key := t.KeyAt(keyIndex)

	return key != nil && model.IsModifierCode(key.Code)
}

// IsModifier reports whether the pointer currently sits on a modifier key.
func (t *Tracker) IsModifier() bool {
	return t.isModifierIndex(t.keyIndex)
}

func (t *Tracker) isOnModifierKey(x, y int) bool {
	return t.isModifierIndex(t.lookup.HitTest(x, y, nil))
}

// IsOnShiftKey reports whether the given point hits a shift key.
func (t *Tracker) IsOnShiftKey(x, y int) bool {
	key := t.KeyAt(t.lookup.HitTest(x, y, nil))

	return key != nil && key.Code == model.CodeShift
}

// KeyIndexAt resolves the key index under the given point.
func (t *Tracker) KeyIndexAt(x, y int) int {
	return t.lookup.HitTest(x, y, nil)
}

func (t *Tracker) isSpaceKey(keyIndex int) bool {
	key := t.KeyAt(keyIndex)

	return key != nil && key.Code == model.CodeSpace
}

// ReleaseKeyGraphics clears the pressed visual of the current key.
func (t *Tracker) ReleaseKeyGraphics() {
	t.setReleasedKeyGraphics(t.keyIndex)
}

func (t *Tracker) setReleasedKeyGraphics(keyIndex int) {
	key := t.KeyAt(keyIndex)
	if key == nil {
		return
	}

	key.OnReleased()
	t.render.InvalidateKey(key)
}

func (t *Tracker) setPressedKeyGraphics(keyIndex int) {
	key := t.KeyAt(keyIndex)
	if key == nil || !key.IsEnabled() {
		return
	}

	key.OnPressed()
	t.render.InvalidateKey(key)
}

// callListenerOnPressAndCheckLayoutChange reports whether the press callback
// swapped the layout, in which case the caller must re-resolve its key index
// against the new layout.
func (t *Tracker) callListenerOnPressAndCheckLayoutChange(key *model.Key, withSliding bool) bool {
	if t.ignoreModifierKey && model.IsModifierCode(key.Code) {
		return false
	}

	if !key.IsEnabled() {
		return false
	}

	t.sink.OnPress(key.Code, withSliding)
	layoutChanged := t.layoutChanged
	t.layoutChanged = false

	return layoutChanged
}

// The emitted code may differ from key.Code when the keyboard is in a
// shifted state, hence the separate code argument.
func (t *Tracker) callListenerOnCodeInput(key *model.Key, code int, codes []int, x, y int) {
	if t.ignoreModifierKey && model.IsModifierCode(key.Code) {
		return
	}

	if !key.IsEnabled() {
		return
	}

	t.sink.OnCodeInput(code, codes, x, y)
}

func (t *Tracker) callListenerOnTextInput(key *model.Key) {
	if !key.IsEnabled() {
		return
	}

	t.sink.OnTextInput(key.OutputText)
}

func (t *Tracker) callListenerOnRelease(key *model.Key, code int, withSliding bool) {
	if t.ignoreModifierKey && model.IsModifierCode(key.Code) {
		return
	}

	if !key.IsEnabled() {
		return
	}

	t.sink.OnRelease(code, withSliding)
}

func (t *Tracker) callListenerOnCancelInput() {
	t.sink.OnCancelInput()
}

func (t *Tracker) onDownKey(x, y int, eventTime int64) int {
	t.downTime = eventTime

	return t.onMoveToNewKey(t.onMoveKey(x, y), x, y)
}

func (t *Tracker) onMoveKey(x, y int) int {
	t.lastX = x
	t.lastY = y

	return t.lookup.HitTest(x, y, nil)
}

func (t *Tracker) onMoveToNewKey(keyIndex, x, y int) int {
	t.keyIndex = keyIndex
	t.keyX = x
	t.keyY = y

	return keyIndex
}

func (t *Tracker) onUpKey(x, y int, eventTime int64) int {
	t.upTime = eventTime
	t.keyIndex = NotAKey

	return t.onMoveKey(x, y)
}

// OnDown delivers a touch-down sample for this pointer.
func (t *Tracker) OnDown(x, y int, eventTime int64) {
	// Naive up-to-down noise filter: a down landing right after the
	// previous up, next to it, is panel bounce and is discarded entirely.
	deltaT := eventTime - t.upTime
	if deltaT < t.cfg.TouchNoiseWindow.Milliseconds() {
		dx := x - t.lastX
		dy := y - t.lastY
		distanceSquared := dx*dx + dy*dy

		if distanceSquared < t.noiseDistanceSquared {
			slog.Debug("ignoring potential touch noise",
				"pointer", t.ID,
				"deltaMs", deltaT,
				"distanceSquared", distanceSquared)

			t.keyAlreadyProcessed = true

			return
		}
	}

	if t.queue != nil {
		// Before a down on a modifier key is processed, every pointer
		// already being tracked must be released.
		if t.isOnModifierKey(x, y) {
			t.queue.ReleaseAll(eventTime)
		}

		t.queue.Add(t)
	}

	t.onDownInternal(x, y, eventTime)
}

func (t *Tracker) onDownInternal(x, y int, eventTime int64) {
	keyIndex := t.onDownKey(x, y, eventTime)

	// Sliding is allowed when enabled by configuration, when the contact
	// starts on a modifier key, or on an overlay keyboard.
	t.isAllowedSlidingKeyInput = t.cfg.SlidingKeyInputEnabled ||
		t.isModifierIndex(keyIndex) || t.lookup.IsOverlayVariant()

	t.layoutChanged = false
	t.keyAlreadyProcessed = false
	t.isRepeatableKey = false
	t.isInSlidingKeyInput = false
	t.isInSlidingLanguageSwitch = false
	t.ignoreModifierKey = false

	if !t.isValidKeyIndex(keyIndex) {
		return
	}

	// The press callback may swap the layout; re-resolve the index against
	// the new layout before going on.
	if t.callListenerOnPressAndCheckLayoutChange(t.KeyAt(keyIndex), false) {
		keyIndex = t.onDownKey(x, y, eventTime)
	}

	t.startRepeatKey(keyIndex)
	t.startLongPressTimer(keyIndex)
	t.showKeyPreview(keyIndex)
	t.setPressedKeyGraphics(keyIndex)
}

func (t *Tracker) startSlidingKeyInput(key *model.Key) {
	if !t.isInSlidingKeyInput {
		t.ignoreModifierKey = model.IsModifierCode(key.Code)
	}

	t.isInSlidingKeyInput = true
}

// OnMove delivers a move sample for this pointer.
func (t *Tracker) OnMove(x, y int, eventTime int64) {
	if t.keyAlreadyProcessed {
		return
	}

	if t.isInSlidingLanguageSwitch {
		// The gesture owns the pointer now: only the drag-proportional
		// spacebar indicator updates, no key events fire.
		t.keyboard.SetLanguageSwitchDrag(x - t.keyX)
		t.showKeyPreview(t.spaceKeyIndex)

		return
	}

	lastX := t.lastX
	lastY := t.lastY
	oldKeyIndex := t.keyIndex
	oldKey := t.KeyAt(oldKeyIndex)
	keyIndex := t.onMoveKey(x, y)

	if t.isValidKeyIndex(keyIndex) {
		switch {
		case oldKey == nil:
			// Slid onto a key from empty space: the new key is being
			// pressed now.
			if t.callListenerOnPressAndCheckLayoutChange(t.KeyAt(keyIndex), true) {
				keyIndex = t.onMoveKey(x, y)
			}

			t.onMoveToNewKey(keyIndex, x, y)
			t.startLongPressTimer(keyIndex)
			t.showKeyPreview(keyIndex)
			t.setPressedKeyGraphics(keyIndex)

		case t.isMajorEnoughMoveToBeOnNewKey(x, y, keyIndex):
			// Slid from the previous key onto a new one: release the old
			// key first, then press the new one.
			t.setReleasedKeyGraphics(oldKeyIndex)
			t.callListenerOnRelease(oldKey, oldKey.Code, true)
			t.startSlidingKeyInput(oldKey)
			t.timer.CancelKeyTimers()
			t.startRepeatKey(keyIndex)

			if t.isAllowedSlidingKeyInput {
				if t.callListenerOnPressAndCheckLayoutChange(t.KeyAt(keyIndex), true) {
					keyIndex = t.onMoveKey(x, y)
				}

				t.onMoveToNewKey(keyIndex, x, y)
				t.startLongPressTimer(keyIndex)
				t.setPressedKeyGraphics(keyIndex)
				t.showKeyPreview(keyIndex)
			} else {
				// Quick successive touches can reach us as one sudden move
				// when the panel firmware merges them. Translate such a
				// move into an up at the previous point followed by a down
				// at the current one.
				dx := x - lastX
				dy := y - lastY
				lastMoveSquared := dx*dx + dy*dy

				if lastMoveSquared >= t.keyQuarterWidthSquared {
					slog.Debug("sudden move translated to up/down",
						"pointer", t.ID,
						"upX", lastX, "upY", lastY,
						"downX", x, "downY", y)

					t.onUpInternal(lastX, lastY, eventTime, true)
					t.onDownInternal(x, y, eventTime)
				} else {
					t.keyAlreadyProcessed = true
					t.dismissKeyPreview()
					t.setReleasedKeyGraphics(oldKeyIndex)
				}
			}

		case t.isSpaceKey(keyIndex) && t.keyboard.SupportsLanguageSwitchGesture():
			// Resting on the spacebar: a decisive horizontal drag starts
			// the language-switch gesture, which is exclusive to this
			// pointer.
			if t.modes.LanguageSwitchEnabled() && t.modes.EnabledLocaleCount() > 1 {
				diff := x - t.keyX
				if t.keyboard.ShouldTriggerLanguageSwitch(diff) {
					t.isInSlidingLanguageSwitch = true
					t.spaceKeyIndex = keyIndex
					t.keyboard.SetLanguageSwitchDrag(diff)
					t.showKeyPreview(keyIndex)

					if t.queue != nil {
						t.queue.ReleaseAllExcept(t, eventTime, true)
					}
				}
			}
		}

		return
	}

	if oldKey != nil && t.isMajorEnoughMoveToBeOnNewKey(x, y, keyIndex) {
		// Slid out of the previous key into empty space: release it.
		t.setReleasedKeyGraphics(oldKeyIndex)
		t.callListenerOnRelease(oldKey, oldKey.Code, true)
		t.startSlidingKeyInput(oldKey)
		t.timer.CancelLongPress()

		if t.isAllowedSlidingKeyInput {
			t.onMoveToNewKey(keyIndex, x, y)
		} else {
			t.keyAlreadyProcessed = true
			t.dismissKeyPreview()
		}
	}
}

// OnUp delivers the touch-up sample ending this pointer's contact.
func (t *Tracker) OnUp(x, y int, eventTime int64) {
	if t.queue != nil {
		if t.IsModifier() {
			// A modifier's up releases every other tracked pointer first.
			t.queue.ReleaseAllExcept(t, eventTime, true)
		} else {
			t.queue.ReleaseAllOlderThan(t, eventTime)
		}

		t.queue.Remove(t)
	}

	t.onUpInternal(x, y, eventTime, true)
}

// OnPhantomUp finalizes this pointer because a sibling pointer's event
// logically requires it, without the pointer physically lifting. The pointer
// stays registered with the queue (the releasing sweep prunes it) and is
// marked processed afterwards.
func (t *Tracker) OnPhantomUp(x, y int, eventTime int64, updateVisual bool) {
	t.onUpInternal(x, y, eventTime, updateVisual)
	t.keyAlreadyProcessed = true
}

func (t *Tracker) onUpInternal(x, y int, eventTime int64, updateVisual bool) {
	t.timer.CancelKeyTimers()
	t.render.CancelKeyPreview(t)
	t.isInSlidingKeyInput = false

	// If hysteresis says the pointer moved off the anchor key, the up lands
	// at the live coordinates; otherwise reuse the anchor so the up cannot
	// land on a different key than the one visually pressed.
	var keyX, keyY int
	if t.isMajorEnoughMoveToBeOnNewKey(x, y, t.onMoveKey(x, y)) {
		keyX = x
		keyY = y
	} else {
		keyX = t.keyX
		keyY = t.keyY
	}

	keyIndex := t.onUpKey(keyX, keyY, eventTime)
	t.dismissKeyPreview()

	if updateVisual {
		t.setReleasedKeyGraphics(keyIndex)
	}

	if t.keyAlreadyProcessed {
		return
	}

	if t.isInSlidingLanguageSwitch {
		t.setReleasedKeyGraphics(t.spaceKeyIndex)

		if dir := t.keyboard.LanguageChangeDirection(); dir != 0 {
			code := model.CodePrevLanguage
			if dir > 0 {
				code = model.CodeNextLanguage
			}

			// Goes through the normal code-input path; this will swap the
			// layout.
			t.sink.OnCodeInput(code, []int{code}, keyX, keyY)
		}

		t.isInSlidingLanguageSwitch = false
		t.keyboard.SetLanguageSwitchDrag(0)

		return
	}

	if !t.isRepeatableKey {
		t.detectAndSendKey(keyIndex, keyX, keyY)
	}
}

// OnLongPressed marks the long press as the terminal action of this contact:
// the pointer stops emitting key events and every other pointer is released.
func (t *Tracker) OnLongPressed(eventTime int64) {
	t.keyAlreadyProcessed = true

	if t.queue != nil {
		t.queue.ReleaseAllExcept(t, eventTime, true)
		t.queue.Remove(t)
	}
}

// OnCancel aborts the contact: cleanup only, no key or text event fires.
func (t *Tracker) OnCancel(x, y int, eventTime int64) {
	if t.queue != nil {
		t.queue.ReleaseAllExcept(t, eventTime, true)
		t.queue.Remove(t)
	}

	t.onCancelInternal()
}

func (t *Tracker) onCancelInternal() {
	t.timer.CancelKeyTimers()
	t.render.CancelKeyPreview(t)
	t.dismissKeyPreview()
	t.setReleasedKeyGraphics(t.keyIndex)
	t.isInSlidingKeyInput = false
}

func (t *Tracker) startRepeatKey(keyIndex int) {
	key := t.KeyAt(keyIndex)
	if key != nil && key.Repeatable {
		t.dismissKeyPreview()
		t.OnRepeatKey(keyIndex)
		t.timer.StartKeyRepeat(t.cfg.KeyRepeatStartDelay, keyIndex, t)
		t.isRepeatableKey = true
	} else {
		t.isRepeatableKey = false
	}
}

// OnRepeatKey re-dispatches the key's code input at the key's resting
// coordinates. Fired by the repeat timer; alters no state-machine flags.
func (t *Tracker) OnRepeatKey(keyIndex int) {
	key := t.KeyAt(keyIndex)
	if key == nil {
		return
	}

	t.detectAndSendKey(keyIndex, key.X, key.Y)
}

// isMajorEnoughMoveToBeOnNewKey is the hysteresis test: moving within the
// anchor key never counts, and leaving it counts only once the point is far
// enough from the key's edge. Over empty space any resolved key counts.
func (t *Tracker) isMajorEnoughMoveToBeOnNewKey(x, y, newKey int) bool {
	if t.keys == nil || t.lookup == nil {
		panic("tracker: keyboard and/or key lookup not set")
	}

	curKey := t.keyIndex

	switch {
	case newKey == curKey:
		return false
	case t.isValidKeyIndex(curKey):
		return t.keys[curKey].SquaredDistanceToEdge(x, y) >= t.lookup.HysteresisDistanceSquared()
	default:
		return true
	}
}

// Modifier, delete, enter and space keys show no preview bubble, except the
// spacebar while the language-switch indicator is active.
func (t *Tracker) isKeyPreviewNotRequired(keyIndex int) bool {
	key := t.KeyAt(keyIndex)
	if key == nil || !key.IsEnabled() {
		return true
	}

	if t.keyboard.NeedsSpacebarPreview(keyIndex) {
		return false
	}

	code := key.Code

	return model.IsModifierCode(code) ||
		code == model.CodeDelete || code == model.CodeEnter || code == model.CodeSpace
}

func (t *Tracker) showKeyPreview(keyIndex int) {
	if t.isKeyPreviewNotRequired(keyIndex) {
		return
	}

	t.render.ShowKeyPreview(keyIndex, t)
}

func (t *Tracker) dismissKeyPreview() {
	t.render.DismissKeyPreview(t)
}

func (t *Tracker) startLongPressTimer(keyIndex int) {
	key := t.KeyAt(keyIndex)
	if key == nil {
		return
	}

	switch {
	case key.Code == model.CodeShift:
		t.timer.StartLongPressShift(t.cfg.LongPressShiftKeyTimeout, keyIndex, t)
	case key.HasUppercaseHint() && t.keyboard.IsManualTemporaryUppercase():
		// The key already produces its uppercase hint in this mode; a long
		// press would double-trigger the case toggle.
		return
	case t.modes.InMomentarySymbolsMode():
		// Longer timeout for sliding finger input started from the symbols
		// mode key.
		t.timer.StartLongPress(t.cfg.LongPressKeyTimeout*3, keyIndex, t)
	default:
		t.timer.StartLongPress(t.cfg.LongPressKeyTimeout, keyIndex, t)
	}
}

func (t *Tracker) detectAndSendKey(keyIndex, x, y int) {
	key := t.KeyAt(keyIndex)
	if key == nil {
		t.callListenerOnCancelInput()

		return
	}

	if key.OutputText != "" {
		t.callListenerOnTextInput(key)
		t.callListenerOnRelease(key, key.Code, false)

		return
	}

	code := key.Code
	codes := t.lookup.NewNearbyCodes()
	t.lookup.HitTest(x, y, codes)

	// In manual temporary uppercase mode a key with an uppercase hint
	// emits the hint character instead of its primary code.
	if t.keyboard.IsManualTemporaryUppercase() && key.HasUppercaseHint() {
		code = key.UppercaseHintCode()
		codes[0] = code
	}

	// Key debouncing may rank the emitted code second; swap so it leads.
	if len(codes) >= 2 && codes[0] != code && codes[1] == code {
		codes[1] = codes[0]
		codes[0] = code
	}

	t.callListenerOnCodeInput(key, code, codes, x, y)
	t.callListenerOnRelease(key, code, false)
}
