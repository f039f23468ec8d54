package feed

import (
	"time"

	"touchtrack/tracker"
)

// Scheduler implements tracker.TimerPort on top of the dispatch loop: every
// firing is posted back onto the loop and runs as an ordinary event, never
// as an asynchronous interrupt. Generation counters make a firing that lost
// the race against its cancellation a no-op.
//
// Start and Cancel methods are only ever called from the loop goroutine (the
// tracker calls them while processing an event), and posted closures run on
// the same goroutine, so the counters need no locking.
type Scheduler struct {
	post func(func())
	now  func() int64

	// RepeatInterval paces repeat firings after the initial delay.
	RepeatInterval time.Duration

	// OnLongPress and OnLongPressShift let the host attach behavior to a
	// firing (popup keyboard, caps toggle). The default marks the contact
	// long-pressed and releases the sibling pointers.
	OnLongPress      func(keyIndex int, t *tracker.Tracker)
	OnLongPressShift func(keyIndex int, t *tracker.Tracker)

	repeatGen    int
	longPressGen int
}

// NewScheduler builds a scheduler posting firings through post. now supplies
// the timestamp stamped on synthesized events; nil means wall clock.
func NewScheduler(post func(func()), now func() int64) *Scheduler {
	if now == nil {
		now = func() int64 { return time.Now().UnixMilli() }
	}

	return &Scheduler{
		post:           post,
		now:            now,
		RepeatInterval: 50 * time.Millisecond,
	}
}

func (s *Scheduler) StartKeyRepeat(delay time.Duration, keyIndex int, t *tracker.Tracker) {
	s.repeatGen++
	s.armRepeat(delay, keyIndex, t, s.repeatGen)
}

func (s *Scheduler) armRepeat(delay time.Duration, keyIndex int, t *tracker.Tracker, gen int) {
	time.AfterFunc(delay, func() {
		s.post(func() {
			if gen != s.repeatGen {
				return
			}

			t.OnRepeatKey(keyIndex)
			s.armRepeat(s.RepeatInterval, keyIndex, t, gen)
		})
	})
}

func (s *Scheduler) StartLongPress(delay time.Duration, keyIndex int, t *tracker.Tracker) {
	s.longPressGen++
	gen := s.longPressGen

	time.AfterFunc(delay, func() {
		s.post(func() {
			if gen != s.longPressGen {
				return
			}

			if s.OnLongPress != nil {
				s.OnLongPress(keyIndex, t)

				return
			}

			t.OnLongPressed(s.now())
		})
	})
}

func (s *Scheduler) StartLongPressShift(delay time.Duration, keyIndex int, t *tracker.Tracker) {
	s.longPressGen++
	gen := s.longPressGen

	time.AfterFunc(delay, func() {
		s.post(func() {
			if gen != s.longPressGen {
				return
			}

			if s.OnLongPressShift != nil {
				s.OnLongPressShift(keyIndex, t)

				return
			}

			t.OnLongPressed(s.now())
		})
	})
}

func (s *Scheduler) CancelLongPress() {
	s.longPressGen++
}

func (s *Scheduler) CancelKeyTimers() {
	s.repeatGen++
	s.longPressGen++
}
