package engine

import "time"

// Timer is a handle to a pending one-shot callback
type Timer interface {
	// Stop prevents the callback from running
	// Returns false if the callback already ran or the timer was already stopped
	Stop() bool
}

// Scheduler runs one-shot callbacks after a delay
// Implementations guarantee callbacks execute on the owner's logical thread:
// VirtualScheduler inside Advance, LoopScheduler inside the host loop's task drain
type Scheduler interface {
	TimeProvider
	AfterFunc(d time.Duration, fn func()) Timer
}
