package feed_test

import (
	"fmt"
	"time"

	"touchtrack/layout"
	"touchtrack/model"
	"touchtrack/tracker"
)

// recordingSink records decoded events in call order.
type recordingSink struct {
	Calls []string
}

func (s *recordingSink) OnPress(code int, _ bool) {
	s.Calls = append(s.Calls, fmt.Sprintf("press(%d)", code))
}

func (s *recordingSink) OnRelease(code int, _ bool) {
	s.Calls = append(s.Calls, fmt.Sprintf("release(%d)", code))
}

func (s *recordingSink) OnCodeInput(code int, _ []int, _, _ int) {
	s.Calls = append(s.Calls, fmt.Sprintf("code(%d)", code))
}

func (s *recordingSink) OnTextInput(text string) {
	s.Calls = append(s.Calls, fmt.Sprintf("text(%s)", text))
}

func (s *recordingSink) OnCancelInput() {
	s.Calls = append(s.Calls, "cancel")
}

func (s *recordingSink) codeCount(code int) int {
	n := 0

	for _, call := range s.Calls {
		if call == fmt.Sprintf("code(%d)", code) {
			n++
		}
	}

	return n
}

func testDetector() *layout.Detector {
	keys := []*model.Key{
		{X: 0, Y: 0, Width: 40, Height: 50, Code: 'a', Label: "a"},
		{X: 40, Y: 0, Width: 40, Height: 50, Code: 'b', Label: "b"},
		{X: 80, Y: 0, Width: 40, Height: 50, Code: model.CodeDelete, Label: "del", Repeatable: true},
	}

	return layout.NewDetector(layout.NewKeyboard(keys, 40), 8)
}

func testTrackerConfig() tracker.Config {
	return tracker.Config{
		KeyRepeatStartDelay:      time.Millisecond,
		LongPressKeyTimeout:      time.Millisecond,
		LongPressShiftKeyTimeout: time.Millisecond,
		TouchNoiseWindow:         0,
		TouchNoiseDistance:       0,
	}
}
