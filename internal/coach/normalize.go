package coach

import (
	"strings"

	"github.com/spigell/skillbridge/internal/ai"
)

const (
	// RoadmapHeader opens every structured roadmap reply.
	RoadmapHeader = "Here is your personalized learning roadmap:"
	// EmptyReply replaces a reply without usable text.
	EmptyReply = "I couldn't generate a response."
)

// Normalize turns a reply into a single displayable content string.
// Structured plans become a header line followed by one block per entry in input order.
func Normalize(reply *ai.Reply) string {
	if reply == nil {
		return EmptyReply
	}

	if reply.Structured {
		return formatPlan(reply.Plan)
	}

	text := strings.TrimSpace(reply.Text)
	if text == "" {
		return EmptyReply
	}

	return text
}

func formatPlan(plan []ai.WeekPlan) string {
	var b strings.Builder
	b.WriteString(RoadmapHeader)

	for _, entry := range plan {
		b.WriteString("\n\n")
		b.WriteString(strings.TrimSpace(entry.Week))
		b.WriteString(": ")
		b.WriteString(strings.TrimSpace(entry.Topic))
		b.WriteString("\n")
		b.WriteString(oneLine(entry.Details))
	}

	return b.String()
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
