package icpa

import (
	"sync"
	"time"
)

// JobFunc is invoked by the scheduler when a job comes due.
type JobFunc func(jobId string)

// Scheduler fires a callback at or after a wall clock instant, at most once
// per job id while the timer is armed. The id to timer mapping is purely in
// memory; recovery rebuilds it from the job store after a restart.
type Scheduler struct {
	mutex  sync.Mutex
	timers map[string]*time.Timer
	closed bool
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		timers: map[string]*time.Timer{},
	}
}

// Schedule arms a timer for the given job. A due time that is now or past
// fires on a background goroutine without blocking the caller. Scheduling an
// id that is already armed is a no-op, which makes recovery safe to run
// against jobs the ingestion path may have scheduled concurrently.
func (s *Scheduler) Schedule(jobId string, dueAt time.Time, fn JobFunc) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.closed {
		return
	}

	if _, armed := s.timers[jobId]; armed {
		return
	}

	delay := time.Until(dueAt)
	if delay < 0 {
		delay = 0
	}

	s.timers[jobId] = time.AfterFunc(delay, func() {
		s.mutex.Lock()
		delete(s.timers, jobId)
		s.mutex.Unlock()

		fn(jobId)
	})
}

// Cancel disarms the timer for a job if one is armed.
func (s *Scheduler) Cancel(jobId string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if timer, armed := s.timers[jobId]; armed {
		timer.Stop()
		delete(s.timers, jobId)
	}
}

// Shutdown disarms every timer and rejects further scheduling. Callbacks
// that already started running are not interrupted.
func (s *Scheduler) Shutdown() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.closed = true

	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
}
