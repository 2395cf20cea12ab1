package coach

import "fmt"

// Mode is the state of a session.
type Mode int

const (
	// ModeMenu presents the canned actions.
	ModeMenu Mode = iota
	// ModeFreeInput accepts typed text.
	ModeFreeInput
	// ModeRoadmapAwaitingSkill waits for the skill name of the roadmap flow.
	ModeRoadmapAwaitingSkill
	// ModePending waits for outstanding work and rejects input.
	ModePending
	// ModeClosed is terminal.
	ModeClosed
)

func (m Mode) String() string {
	switch m {
	case ModeMenu:
		return "menu"
	case ModeFreeInput:
		return "free_input"
	case ModeRoadmapAwaitingSkill:
		return "roadmap_awaiting_skill"
	case ModePending:
		return "pending"
	case ModeClosed:
		return "closed"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// AcceptsText reports whether typed text is expected in this mode.
func (m Mode) AcceptsText() bool {
	return m == ModeFreeInput || m == ModeRoadmapAwaitingSkill
}
