package tracker_test

import (
	"fmt"
	"time"

	"touchtrack/layout"
	"touchtrack/model"
	"touchtrack/tracker"
)

// sinkRecorder is a simple manual mock of the ActionSink interface that
// records calls in order.
type sinkRecorder struct {
	Calls      []string
	LastNearby []int
}

func (s *sinkRecorder) OnPress(code int, withSliding bool) {
	s.Calls = append(s.Calls, fmt.Sprintf("press(%d,%t)", code, withSliding))
}

func (s *sinkRecorder) OnRelease(code int, withSliding bool) {
	s.Calls = append(s.Calls, fmt.Sprintf("release(%d,%t)", code, withSliding))
}

func (s *sinkRecorder) OnCodeInput(code int, nearbyCodes []int, x, y int) {
	s.LastNearby = append([]int(nil), nearbyCodes...)
	s.Calls = append(s.Calls, fmt.Sprintf("code(%d)", code))
}

func (s *sinkRecorder) OnTextInput(text string) {
	s.Calls = append(s.Calls, fmt.Sprintf("text(%s)", text))
}

func (s *sinkRecorder) OnCancelInput() {
	s.Calls = append(s.Calls, "cancel")
}

// layoutSwappingSink swaps the tracker's lookup from inside the press
// callback, imitating a press that changes the keyboard layout.
type layoutSwappingSink struct {
	sinkRecorder

	Tracker *tracker.Tracker
	Next    tracker.KeyLookup
	OnCode  int
}

func (s *layoutSwappingSink) OnPress(code int, withSliding bool) {
	s.sinkRecorder.OnPress(code, withSliding)

	if code == s.OnCode && s.Next != nil {
		s.Tracker.SetKeyLookup(s.Next)
		s.Next = nil
	}
}

// timerRecorder is a manual mock of the TimerPort interface.
type timerRecorder struct {
	Calls []string
}

func (r *timerRecorder) StartKeyRepeat(delay time.Duration, keyIndex int, _ *tracker.Tracker) {
	r.Calls = append(r.Calls, fmt.Sprintf("repeat(%d,%s)", keyIndex, delay))
}

func (r *timerRecorder) StartLongPress(delay time.Duration, keyIndex int, _ *tracker.Tracker) {
	r.Calls = append(r.Calls, fmt.Sprintf("longpress(%d,%s)", keyIndex, delay))
}

func (r *timerRecorder) StartLongPressShift(delay time.Duration, keyIndex int, _ *tracker.Tracker) {
	r.Calls = append(r.Calls, fmt.Sprintf("longpress-shift(%d,%s)", keyIndex, delay))
}

func (r *timerRecorder) CancelLongPress() {
	r.Calls = append(r.Calls, "cancel-longpress")
}

func (r *timerRecorder) CancelKeyTimers() {
	r.Calls = append(r.Calls, "cancel-all")
}

// renderRecorder is a manual mock of the RenderPort interface.
type renderRecorder struct {
	Calls []string
}

func (r *renderRecorder) InvalidateKey(k *model.Key) {
	r.Calls = append(r.Calls, fmt.Sprintf("invalidate(%d,%t)", k.Code, k.Pressed))
}

func (r *renderRecorder) ShowKeyPreview(keyIndex int, _ *tracker.Tracker) {
	r.Calls = append(r.Calls, fmt.Sprintf("show(%d)", keyIndex))
}

func (r *renderRecorder) CancelKeyPreview(_ *tracker.Tracker) {
	r.Calls = append(r.Calls, "cancel-preview")
}

func (r *renderRecorder) DismissKeyPreview(_ *tracker.Tracker) {
	r.Calls = append(r.Calls, "dismiss")
}

// stubLookup returns a fixed key index and fills nearby codes verbatim,
// for exercising dispatch paths the geometric detector cannot easily reach.
type stubLookup struct {
	KB           *layout.Keyboard
	Index        int
	Codes        []int
	HysteresisSq int
	Overlay      bool
}

func (s *stubLookup) KeyModel() tracker.KeyModel {
	return s.KB
}

func (s *stubLookup) HitTest(_, _ int, nearbyCodes []int) int {
	if nearbyCodes != nil {
		copy(nearbyCodes, s.Codes)
	}

	return s.Index
}

func (s *stubLookup) NewNearbyCodes() []int {
	return make([]int, len(s.Codes))
}

func (s *stubLookup) HysteresisDistanceSquared() int {
	return s.HysteresisSq
}

func (s *stubLookup) IsOverlayVariant() bool {
	return s.Overlay
}

// Key indices of the test layout built by newTestKeyboard.
const (
	keyA = iota
	keyB
	keyC
	keyShift
	keySpace
	keyDelete
	keyCom
	keyQ
	keyDead
)

// newTestKeyboard builds a small three-row layout. Key width 40 makes the
// sudden-jump quarter-width threshold 10px (squared 100), and the space key
// is wide enough to drag for the language switch gesture.
func newTestKeyboard() *layout.Keyboard {
	keys := []*model.Key{
		{X: 0, Y: 0, Width: 40, Height: 50, Code: 'a', Label: "a"},
		{X: 40, Y: 0, Width: 40, Height: 50, Code: 'b', Label: "b"},
		{X: 80, Y: 0, Width: 40, Height: 50, Code: 'c', Label: "c"},

		{X: 0, Y: 50, Width: 40, Height: 50, Code: model.CodeShift, Label: "shift"},
		{X: 40, Y: 50, Width: 120, Height: 50, Code: model.CodeSpace, Label: "space"},
		{X: 160, Y: 50, Width: 40, Height: 50, Code: model.CodeDelete, Label: "del", Repeatable: true},

		{X: 0, Y: 100, Width: 40, Height: 50, Code: '.', Label: ".com", OutputText: ".com"},
		{X: 40, Y: 100, Width: 40, Height: 50, Code: 'q', Label: "q", HintLabel: "Q"},
		{X: 80, Y: 100, Width: 40, Height: 50, Code: 'x', Label: "x", Disabled: true},
	}

	return layout.NewKeyboard(keys, 40)
}

// testConfig uses a wide noise window and a 10px noise distance so the
// noise filter scenarios are easy to hit deliberately.
func testConfig() tracker.Config {
	return tracker.Config{
		KeyRepeatStartDelay:      400 * time.Millisecond,
		LongPressKeyTimeout:      400 * time.Millisecond,
		LongPressShiftKeyTimeout: 1200 * time.Millisecond,
		TouchNoiseWindow:         500 * time.Millisecond,
		TouchNoiseDistance:       10,
	}
}

type fixture struct {
	Keyboard *layout.Keyboard
	Detector *layout.Detector
	Sink     *sinkRecorder
	Timer    *timerRecorder
	Render   *renderRecorder
	Queue    *tracker.Queue
	Modes    *layout.ModeState
}

func newFixture() *fixture {
	kb := newTestKeyboard()

	return &fixture{
		Keyboard: kb,
		Detector: layout.NewDetector(kb, 8),
		Sink:     &sinkRecorder{},
		Timer:    &timerRecorder{},
		Render:   &renderRecorder{},
		Queue:    tracker.NewQueue(),
		Modes:    &layout.ModeState{LocaleCount: 1},
	}
}

func (f *fixture) newTracker(id int, cfg tracker.Config) *tracker.Tracker {
	t, err := tracker.NewTracker(id, f.Detector, f.Timer, f.Render, f.Queue, f.Modes, cfg)
	if err != nil {
		panic(err)
	}

	t.SetActionSink(f.Sink)

	return t
}

func (f *fixture) reset() {
	f.Sink.Calls = nil
	f.Timer.Calls = nil
	f.Render.Calls = nil
}
