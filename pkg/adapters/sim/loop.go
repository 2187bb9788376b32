package sim

import (
	"sort"
	"time"

	"github.com/aretw0/wayfinder/pkg/ports"
)

type timer struct {
	at       time.Duration
	seq      int
	task     func()
	canceled bool
}

// FrameLoop is a single-threaded scheduler driven by a virtual clock.
// Posted tasks run on Flush; delayed tasks run when Advance reaches them.
type FrameLoop struct {
	now    time.Duration
	seq    int
	queue  []func()
	timers []*timer
}

// NewFrameLoop creates a loop at virtual time zero.
func NewFrameLoop() *FrameLoop {
	return &FrameLoop{}
}

// Post queues task for the next frame.
func (l *FrameLoop) Post(task func()) {
	l.queue = append(l.queue, task)
}

// PostDelayed schedules task d after the current virtual time.
func (l *FrameLoop) PostDelayed(d time.Duration, task func()) ports.CancelFunc {
	l.seq++
	t := &timer{at: l.now + d, seq: l.seq, task: task}
	l.timers = append(l.timers, t)
	return func() { t.canceled = true }
}

// Flush runs queued tasks until the queue is empty, including tasks they post.
func (l *FrameLoop) Flush() {
	for len(l.queue) > 0 {
		task := l.queue[0]
		l.queue = l.queue[1:]
		task()
	}
}

// Advance moves the clock forward by d, running due timers in order.
func (l *FrameLoop) Advance(d time.Duration) {
	target := l.now + d
	l.Flush()
	for {
		t := l.nextDue(target)
		if t == nil {
			break
		}
		l.now = t.at
		t.task()
		l.Flush()
	}
	l.now = target
}

// Drain advances until no timer is pending.
func (l *FrameLoop) Drain() {
	l.Flush()
	for {
		t := l.nextDue(time.Duration(1<<62 - 1))
		if t == nil {
			return
		}
		l.now = t.at
		t.task()
		l.Flush()
	}
}

// Now returns the virtual time.
func (l *FrameLoop) Now() time.Duration {
	return l.now
}

// Pending returns the number of queued tasks and live timers.
func (l *FrameLoop) Pending() int {
	n := len(l.queue)
	for _, t := range l.timers {
		if !t.canceled {
			n++
		}
	}
	return n
}

func (l *FrameLoop) nextDue(limit time.Duration) *timer {
	live := l.timers[:0]
	for _, t := range l.timers {
		if !t.canceled {
			live = append(live, t)
		}
	}
	l.timers = live
	if len(l.timers) == 0 {
		return nil
	}
	sort.SliceStable(l.timers, func(i, j int) bool {
		if l.timers[i].at == l.timers[j].at {
			return l.timers[i].seq < l.timers[j].seq
		}
		return l.timers[i].at < l.timers[j].at
	})
	t := l.timers[0]
	if t.at > limit {
		return nil
	}
	l.timers = l.timers[1:]
	return t
}
