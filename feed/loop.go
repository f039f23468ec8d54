package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"touchtrack/model"
	"touchtrack/tracker"
)

// Loop is the single-threaded dispatch loop: raw trace lines and timer
// firings are consumed by one goroutine, so every tracker method runs to
// completion before the next event is accepted.
type Loop struct {
	lookup tracker.KeyLookup
	modes  tracker.ModeQuery
	sink   tracker.ActionSink
	render tracker.RenderPort
	cfg    tracker.Config

	queue     *tracker.Queue
	scheduler *Scheduler
	trackers  map[int]*tracker.Tracker

	posted chan func()
}

// NewLoop wires the dispatch loop. sink and render may be nil for headless
// decoding (a no-op sink and an slog render port are installed).
func NewLoop(lookup tracker.KeyLookup, modes tracker.ModeQuery, sink tracker.ActionSink, render tracker.RenderPort, cfg tracker.Config) (*Loop, error) {
	if lookup == nil {
		return nil, errors.New("feed: key lookup is required")
	}

	if sink == nil {
		sink = tracker.NopSink{}
	}

	if render == nil {
		render = &LogRender{}
	}

	l := &Loop{
		lookup:   lookup,
		modes:    modes,
		sink:     sink,
		render:   render,
		cfg:      cfg,
		queue:    tracker.NewQueue(),
		trackers: make(map[int]*tracker.Tracker),
		posted:   make(chan func(), 16),
	}
	l.scheduler = NewScheduler(l.Post, nil)

	return l, nil
}

// Scheduler exposes the loop's timer port for host configuration.
func (l *Loop) Scheduler() *Scheduler {
	return l.scheduler
}

// Post queues fn to run on the dispatch goroutine. Used by the scheduler's
// timer callbacks.
func (l *Loop) Post(fn func()) {
	l.posted <- fn
}

func (l *Loop) trackerFor(id int) (*tracker.Tracker, error) {
	if t, ok := l.trackers[id]; ok {
		return t, nil
	}

	t, err := tracker.NewTracker(id, l.lookup, l.scheduler, l.render, l.queue, l.modes, l.cfg)
	if err != nil {
		return nil, fmt.Errorf("could not create tracker for pointer %d: %w", id, err)
	}

	t.SetActionSink(l.sink)
	l.trackers[id] = t

	return t, nil
}

// Deliver routes one touch sample to its pointer's tracker.
func (l *Loop) Deliver(ev *model.TouchEvent) error {
	t, err := l.trackerFor(ev.PointerID)
	if err != nil {
		return err
	}

	switch ev.Type {
	case model.TouchDown:
		t.OnDown(ev.X, ev.Y, ev.Time)
	case model.TouchMove:
		t.OnMove(ev.X, ev.Y, ev.Time)
	case model.TouchUp:
		t.OnUp(ev.X, ev.Y, ev.Time)
	case model.TouchCancel:
		t.OnCancel(ev.X, ev.Y, ev.Time)
	}

	return nil
}

// Run consumes trace lines until the channel closes or the context is
// canceled. Malformed lines are logged and skipped; lines that are not touch
// samples at all are ignored.
func (l *Loop) Run(ctx context.Context, lines <-chan string) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.posted:
			fn()
		case line, ok := <-lines:
			if !ok {
				return nil
			}

			ev, err := ParseLine(line)
			if err != nil {
				slog.WarnContext(ctx, "skipping malformed trace line", "error", err, "line", line)

				continue
			}

			if ev == nil {
				continue
			}

			if err := l.Deliver(ev); err != nil {
				return err
			}
		}
	}
}
