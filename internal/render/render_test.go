package render

import (
	"regexp"
	"strings"
	"testing"

	"github.com/muesli/reflow/ansi"

	"github.com/spigell/skillbridge/internal/coach"
)

var escapes = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func plainText(s string) string {
	return escapes.ReplaceAllString(s, "")
}

func TestMarkdownBlocks(t *testing.T) {
	r := New(80)

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "heading and paragraph",
			input: "# Plan\n\nStart with **Go** and *tests*.",
			want:  []string{"Plan", "Start with Go and tests."},
		},
		{
			name:  "bullet list",
			input: "- Docker\n- Kubernetes",
			want:  []string{"• Docker\n• Kubernetes"},
		},
		{
			name:  "ordered list",
			input: "1. Read\n2. Practice",
			want:  []string{"1. Read\n2. Practice"},
		},
		{
			name:  "soft breaks are kept",
			input: "Week 1: Basics\nLearn syntax",
			want:  []string{"Week 1: Basics\nLearn syntax"},
		},
		{
			name:  "link keeps destination",
			input: "See [docs](https://go.dev).",
			want:  []string{"See docs (https://go.dev)."},
		},
		{
			name:  "code block is indented",
			input: "```\nfmt.Println(1)\n```",
			want:  []string{"  fmt.Println(1)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := plainText(r.markdown(tt.input, r.width))
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Fatalf("expected %q in %q", want, got)
				}
			}
		})
	}
}

func TestMarkdownRendersRoadmap(t *testing.T) {
	r := New(80)

	content := coach.RoadmapHeader + "\n\nWeek 1: Basics\nLearn syntax\n\nWeek 2: Ownership\nBorrow checker"
	got := plainText(r.markdown(content, r.width))

	want := coach.RoadmapHeader + "\n\nWeek 1: Basics\nLearn syntax\n\nWeek 2: Ownership\nBorrow checker"
	if got != want {
		t.Fatalf("unexpected roadmap rendering:\n%q\nwant\n%q", got, want)
	}
}

func TestMarkdownWrapsToWidth(t *testing.T) {
	r := New(30)

	got := r.markdown(strings.Repeat("practice makes progress ", 10), r.width)
	for _, line := range strings.Split(got, "\n") {
		if w := ansi.PrintableRuneWidth(line); w > 30 {
			t.Fatalf("line %q is %d columns wide", line, w)
		}
	}
}

func TestMessageLabels(t *testing.T) {
	r := New(60)

	user := plainText(r.Message(coach.Message{Sender: coach.SenderUser, Content: "**not markdown**"}))
	if !strings.HasPrefix(user, "You\n") {
		t.Fatalf("unexpected user rendering %q", user)
	}
	if !strings.Contains(user, "  **not markdown**") {
		t.Fatalf("user text should be printed as typed, got %q", user)
	}

	assistant := plainText(r.Message(coach.Message{Sender: coach.SenderAssistant, Content: "- one\n- two"}))
	if assistant != "Coach\n  • one\n  • two" {
		t.Fatalf("unexpected assistant rendering %q", assistant)
	}
}

func TestNewClampsWidth(t *testing.T) {
	if got := New(0).width; got != defaultWidth {
		t.Fatalf("expected default width, got %d", got)
	}
	if got := New(5).width; got != minWidth {
		t.Fatalf("expected minimum width, got %d", got)
	}
}
