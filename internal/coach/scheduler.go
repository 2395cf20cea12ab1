package coach

import (
	"fmt"
	"time"
)

// phase names a kind of deferred task. At most one task per phase is live.
type phase int

const (
	phaseRoadmap phase = iota
	phaseFollowUp
	phaseFarewell
	phaseClose
)

func (p phase) String() string {
	switch p {
	case phaseRoadmap:
		return "roadmap"
	case phaseFollowUp:
		return "follow_up"
	case phaseFarewell:
		return "farewell"
	case phaseClose:
		return "close"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

type task struct {
	id    uint64
	timer Timer
}

// scheduler keeps the live deferred tasks of one session.
// It is guarded by the session mutex; fire callbacks must claim their task
// under that mutex before touching session state.
type scheduler struct {
	clock Clock
	seq   uint64
	tasks map[phase]task
}

func newScheduler(clock Clock) *scheduler {
	if clock == nil {
		clock = realClock{}
	}
	return &scheduler{
		clock: clock,
		tasks: make(map[phase]task),
	}
}

// schedule replaces the live task of the phase with a new one and returns its id.
func (s *scheduler) schedule(p phase, d time.Duration, fire func(id uint64)) uint64 {
	s.cancel(p)

	s.seq++
	id := s.seq
	timer := s.clock.AfterFunc(d, func() { fire(id) })
	s.tasks[p] = task{id: id, timer: timer}

	return id
}

// claim removes the task if id is still the live one for the phase.
func (s *scheduler) claim(p phase, id uint64) bool {
	t, ok := s.tasks[p]
	if !ok || t.id != id {
		return false
	}
	delete(s.tasks, p)
	return true
}

func (s *scheduler) cancel(p phase) {
	t, ok := s.tasks[p]
	if !ok {
		return
	}
	t.timer.Stop()
	delete(s.tasks, p)
}

func (s *scheduler) cancelAll() {
	for p := range s.tasks {
		s.cancel(p)
	}
}

func (s *scheduler) pending() bool {
	return len(s.tasks) > 0
}
