package coach

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/spigell/skillbridge/internal/ai"
)

type manualClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*manualTimer
}

type manualTimer struct {
	clock   *manualClock
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := &manualTimer{clock: c, at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves time forward and runs due callbacks in order on the calling goroutine.
func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d
	c.mu.Unlock()

	for {
		c.mu.Lock()
		var next *manualTimer
		for _, t := range c.timers {
			if t.fired || t.stopped || t.at > target {
				continue
			}
			if next == nil || t.at < next.at {
				next = t
			}
		}
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		next.fired = true
		c.now = next.at
		c.mu.Unlock()

		next.f()
	}
}

func (c *manualClock) active() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, t := range c.timers {
		if !t.fired && !t.stopped {
			n++
		}
	}
	return n
}

type askResult struct {
	reply *ai.Reply
	err   error
}

// fakeAssistant answers from a queue. With block set, Ask waits for release or ctx.
type fakeAssistant struct {
	mu       sync.Mutex
	requests []ai.Request
	results  []askResult
	block    bool
	release  chan askResult
	done     chan error
}

func newFakeAssistant(results ...askResult) *fakeAssistant {
	return &fakeAssistant{
		results: results,
		release: make(chan askResult),
		done:    make(chan error, 64),
	}
}

func (f *fakeAssistant) Ask(ctx context.Context, req ai.Request) (*ai.Reply, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	block := f.block
	var res askResult
	if !block {
		if len(f.results) > 0 {
			res = f.results[0]
			f.results = f.results[1:]
		} else {
			res = askResult{reply: &ai.Reply{Text: "ok"}}
		}
	}
	f.mu.Unlock()

	if block {
		select {
		case res = <-f.release:
		case <-ctx.Done():
			res = askResult{err: ctx.Err()}
		}
	}

	select {
	case f.done <- res.err:
	default:
	}
	return res.reply, res.err
}

func (f *fakeAssistant) Requests() []ai.Request {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]ai.Request, len(f.requests))
	copy(out, f.requests)
	return out
}

func plain(text string) askResult {
	return askResult{reply: &ai.Reply{Text: text}}
}

func waitFor(t *testing.T, s *Session, cond func(Snapshot) bool) Snapshot {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		snap := s.Snapshot()
		if cond(snap) {
			return snap
		}
		select {
		case <-s.Changes():
		case <-deadline:
			t.Fatalf("condition not met: mode=%s messages=%d", snap.Mode, len(snap.Messages))
		}
	}
}

func waitDone(t *testing.T, f *fakeAssistant) error {
	t.Helper()

	select {
	case err := <-f.done:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("assistant call did not finish")
		return nil
	}
}

func modeIs(m Mode) func(Snapshot) bool {
	return func(s Snapshot) bool { return s.Mode == m }
}

func contents(messages []Message) []string {
	out := make([]string, 0, len(messages))
	for _, m := range messages {
		out = append(out, m.Sender.String()+": "+m.Content)
	}
	return out
}

func assertLog(t *testing.T, got []Message, want ...string) {
	t.Helper()

	g := contents(got)
	if len(g) != len(want) {
		t.Fatalf("expected %d messages %q, got %d %q", len(want), want, len(g), g)
	}
	for i := range want {
		if g[i] != want[i] {
			t.Fatalf("message %d: expected %q, got %q", i, want[i], g[i])
		}
	}
}
