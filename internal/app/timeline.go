package app

import "time"

type scheduled struct {
	due  time.Duration
	seq  uint64
	name string
	fn   func()
}

// timeline runs deferred actions against an accumulated clock. Actions due in
// the same Advance fire in due order, ties in scheduling order. An action
// scheduled while another fires is timed from the firing action's due time,
// so chained sequences do not drift with tick granularity.
type timeline struct {
	now    time.Duration
	cursor time.Duration
	seq    uint64
	queue  []scheduled
}

// After schedules fn to run d after the current cursor.
func (tl *timeline) After(d time.Duration, name string, fn func()) {
	if d < 0 {
		d = 0
	}
	tl.seq++
	tl.queue = append(tl.queue, scheduled{due: tl.cursor + d, seq: tl.seq, name: name, fn: fn})
}

// Advance moves the clock forward by dt and fires every action now due.
func (tl *timeline) Advance(dt time.Duration) {
	if dt > 0 {
		tl.now += dt
	}
	for {
		i := tl.nextDue()
		if i < 0 {
			break
		}
		s := tl.queue[i]
		tl.queue = append(tl.queue[:i], tl.queue[i+1:]...)
		tl.cursor = s.due
		s.fn()
	}
	tl.cursor = tl.now
}

// Flush fires actions that are already due without moving the clock.
func (tl *timeline) Flush() {
	tl.Advance(0)
}

func (tl *timeline) nextDue() int {
	best := -1
	for i, s := range tl.queue {
		if s.due > tl.now {
			continue
		}
		if best < 0 || s.due < tl.queue[best].due || (s.due == tl.queue[best].due && s.seq < tl.queue[best].seq) {
			best = i
		}
	}
	return best
}

// CancelAll drops every pending action.
func (tl *timeline) CancelAll() {
	tl.queue = nil
}
