package tracker

// Queue is the cross-pointer policy object. It keeps the active trackers in
// touch order and lets one tracker's event force siblings to finalize with a
// phantom up. It holds no gesture state of its own.
//
// All methods run on the single event dispatch thread; releasing a member
// runs that member's finalize-up synchronously, and finalize-up never calls
// back into the queue, so the release loops cannot re-enter.
type Queue struct {
	trackers []*Tracker
}

func NewQueue() *Queue {
	return &Queue{}
}

func (q *Queue) Size() int {
	return len(q.trackers)
}

// Add appends the tracker in touch order. Adding a tracker that is already
// queued is a no-op.
func (q *Queue) Add(t *Tracker) {
	if q.indexOf(t) >= 0 {
		return
	}

	q.trackers = append(q.trackers, t)
}

// Remove deletes the tracker by identity, keeping the order of the rest.
func (q *Queue) Remove(t *Tracker) {
	i := q.indexOf(t)
	if i < 0 {
		return
	}

	q.trackers = append(q.trackers[:i], q.trackers[i+1:]...)
}

// ReleaseAllOlderThan delivers a phantom up, at each member's own last
// coordinates, to every member queued strictly before ref, and removes them.
// Members queued after ref are untouched. Prevents stuck ghost presses: the
// newest pointer's release force-resolves earlier pending pointers.
func (q *Queue) ReleaseAllOlderThan(ref *Tracker, eventTime int64) {
	pos := q.indexOf(ref)
	if pos < 0 {
		return
	}

	for _, t := range q.trackers[:pos] {
		t.OnPhantomUp(t.LastX(), t.LastY(), eventTime, true)
	}

	q.trackers = append(q.trackers[:0], q.trackers[pos:]...)
}

// ReleaseAllExcept phantom-releases every member but ref, in touch order.
// Used when a gesture becomes exclusive to one pointer.
func (q *Queue) ReleaseAllExcept(ref *Tracker, eventTime int64, updateVisual bool) {
	kept := q.trackers[:0]

	for _, t := range q.trackers {
		if t == ref {
			kept = append(kept, t)

			continue
		}

		t.OnPhantomUp(t.LastX(), t.LastY(), eventTime, updateVisual)
	}

	q.trackers = kept
}

// ReleaseAll phantom-releases and removes every member. Runs before a
// modifier key's down is accepted, so the modifier press happens-after all
// sibling releases.
func (q *Queue) ReleaseAll(eventTime int64) {
	for _, t := range q.trackers {
		t.OnPhantomUp(t.LastX(), t.LastY(), eventTime, true)
	}

	q.trackers = q.trackers[:0]
}

func (q *Queue) indexOf(t *Tracker) int {
	for i, cur := range q.trackers {
		if cur == t {
			return i
		}
	}

	return -1
}
