package engine

import (
	"sync"
	"sync/atomic"
	"time"
)

// LoopScheduler runs wall-clock timers whose callbacks are handed to the host loop
// Timer goroutines never execute callbacks themselves; they post onto Tasks()
// and the loop goroutine runs them, keeping all state single-threaded
type LoopScheduler struct {
	clock TimeProvider
	tasks chan func()
	done  chan struct{}

	mu     sync.Mutex
	timers map[*loopTimer]struct{}
	closed bool

	closeOnce sync.Once
}

// NewLoopScheduler creates a scheduler with the given task buffer size
func NewLoopScheduler(buffer int) *LoopScheduler {
	if buffer < 1 {
		buffer = 1
	}
	return &LoopScheduler{
		clock:  NewMonotonicTimeProvider(),
		tasks:  make(chan func(), buffer),
		done:   make(chan struct{}),
		timers: make(map[*loopTimer]struct{}),
	}
}

// Now returns wall-clock time
func (s *LoopScheduler) Now() time.Time {
	return s.clock.Now()
}

// Tasks returns the channel the host loop must drain and execute
func (s *LoopScheduler) Tasks() <-chan func() {
	return s.tasks
}

// AfterFunc schedules fn for execution on the host loop after d
func (s *LoopScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	t := &loopTimer{sched: s, fn: fn}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		t.stopped.Store(true)
		return t
	}
	s.timers[t] = struct{}{}

	t.timer = time.AfterFunc(d, func() {
		if t.stopped.Load() {
			return
		}
		select {
		case s.tasks <- t.run:
		case <-s.done:
		}
	})
	return t
}

// RunPending executes all queued callbacks without blocking, returns count run
func (s *LoopScheduler) RunPending() int {
	n := 0
	for {
		select {
		case task := <-s.tasks:
			task()
			n++
		default:
			return n
		}
	}
}

// Close stops every outstanding timer and releases blocked timer goroutines
func (s *LoopScheduler) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		for t := range s.timers {
			t.stopped.Store(true)
			t.timer.Stop()
		}
		clear(s.timers)
		s.mu.Unlock()
		close(s.done)
	})
}

func (s *LoopScheduler) forget(t *loopTimer) {
	s.mu.Lock()
	delete(s.timers, t)
	s.mu.Unlock()
}

type loopTimer struct {
	sched   *LoopScheduler
	timer   *time.Timer
	fn      func()
	stopped atomic.Bool
	fired   atomic.Bool
}

// run executes on the loop goroutine; a Stop between post and drain wins
func (t *loopTimer) run() {
	if t.stopped.Load() {
		return
	}
	if !t.fired.CompareAndSwap(false, true) {
		return
	}
	t.sched.forget(t)
	t.fn()
}

func (t *loopTimer) Stop() bool {
	if t.fired.Load() || !t.stopped.CompareAndSwap(false, true) {
		return false
	}
	if t.timer != nil {
		t.timer.Stop()
	}
	t.sched.forget(t)
	return true
}
