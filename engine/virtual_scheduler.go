package engine

import (
	"container/heap"
	"sync"
	"time"
)

// VirtualScheduler is a deterministic scheduler driven by explicit Advance calls
// Used by tests and the timeline replay command; no wall-clock waits
type VirtualScheduler struct {
	mu    sync.Mutex
	now   time.Time
	seq   uint64
	queue timerQueue
}

// NewVirtualScheduler creates a virtual scheduler starting at the given time
func NewVirtualScheduler(start time.Time) *VirtualScheduler {
	return &VirtualScheduler{now: start}
}

// Now returns the current virtual time
func (s *VirtualScheduler) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// AfterFunc registers fn to run once virtual time reaches now+d
func (s *VirtualScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	if d < 0 {
		d = 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	t := &virtualTimer{
		sched: s,
		due:   s.now.Add(d),
		seq:   s.seq,
		fn:    fn,
	}
	heap.Push(&s.queue, t)
	return t
}

// Advance moves virtual time forward by d, firing due callbacks in order
// Callbacks observe Now() equal to their own due time
// Callbacks scheduled while firing run in the same call if they fall due before the target
func (s *VirtualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now.Add(d)
	s.mu.Unlock()
	s.AdvanceTo(target)
}

// AdvanceTo moves virtual time to t, firing due callbacks in order
func (s *VirtualScheduler) AdvanceTo(t time.Time) {
	for {
		s.mu.Lock()
		if len(s.queue) == 0 || s.queue[0].due.After(t) {
			if t.After(s.now) {
				s.now = t
			}
			s.mu.Unlock()
			return
		}
		next := heap.Pop(&s.queue).(*virtualTimer)
		next.fired = true
		if next.due.After(s.now) {
			s.now = next.due
		}
		fn := next.fn
		s.mu.Unlock()

		fn()
	}
}

// Pending returns the number of callbacks waiting to fire
func (s *VirtualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// NextDue returns the due time of the earliest pending callback
func (s *VirtualScheduler) NextDue() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		return time.Time{}, false
	}
	return s.queue[0].due, true
}

type virtualTimer struct {
	sched *VirtualScheduler
	due   time.Time
	seq   uint64
	fn    func()
	index int
	fired bool
}

func (t *virtualTimer) Stop() bool {
	s := t.sched
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.fired || t.index < 0 {
		return false
	}
	heap.Remove(&s.queue, t.index)
	return true
}

// timerQueue orders by due time, then registration order
type timerQueue []*virtualTimer

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	if q[i].due.Equal(q[j].due) {
		return q[i].seq < q[j].seq
	}
	return q[i].due.Before(q[j].due)
}

func (q timerQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *timerQueue) Push(x any) {
	t := x.(*virtualTimer)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}
