package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/spigell/skillbridge/internal/coach"
	"github.com/spigell/skillbridge/internal/render"
)

const (
	commandMenu    = "/menu"
	commandQuit    = "/quit"
	commandRestart = "/restart"

	hintThinking  = "The coach is thinking..."
	hintRestarted = "Conversation restarted."
)

// action is what the user picked at a prompt.
type action struct {
	input   coach.Input
	close   bool
	restart bool
}

// terminal drives a session from an interactive terminal.
type terminal struct {
	session  *coach.Session
	sc       coach.SessionContext
	renderer *render.Renderer
	out      io.Writer

	printed int
	hinted  bool

	selectMenu func(items []string) (int, error)
	readLine   func(label string) (string, error)
}

func newTerminal(session *coach.Session, sc coach.SessionContext, renderer *render.Renderer, out io.Writer) *terminal {
	return &terminal{
		session:    session,
		sc:         sc,
		renderer:   renderer,
		out:        out,
		selectMenu: promptSelect,
		readLine:   promptLine,
	}
}

func promptSelect(items []string) (int, error) {
	prompt := promptui.Select{
		Label: "How can I help?",
		Items: items,
		Size:  len(items),
	}

	idx, _, err := prompt.Run()
	return idx, err
}

func promptLine(label string) (string, error) {
	prompt := promptui.Prompt{
		Label: label,
	}

	return prompt.Run()
}

// run loops until the session is closed. Ctrl-C at a prompt or a cancelled
// ctx discards the session.
func (t *terminal) run(ctx context.Context) error {
	for {
		snap := t.settle(ctx)
		if snap.Mode == coach.ModeClosed {
			return nil
		}

		act, err := t.next(snap)
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			t.session.Discard()
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		switch {
		case act.close:
			err = t.session.Close()
		case act.restart:
			if err = t.session.Reset(t.sc); err == nil {
				fmt.Fprintln(t.out, t.renderer.Hint(hintRestarted))
				t.printed = 0
			}
		default:
			err = t.session.Dispatch(ctx, act.input)
		}

		if errors.Is(err, coach.ErrBusy) {
			continue
		}
		if err != nil && !errors.Is(err, coach.ErrClosed) {
			return err
		}
	}
}

// settle prints new messages and waits while a request or a deferred task is outstanding.
func (t *terminal) settle(ctx context.Context) coach.Snapshot {
	for {
		snap := t.session.Snapshot()
		t.print(snap)

		if snap.Mode == coach.ModeClosed {
			return snap
		}
		if snap.Mode != coach.ModePending && !snap.Scheduled {
			return snap
		}

		select {
		case <-t.session.Changes():
		case <-ctx.Done():
			t.session.Discard()
		}
	}
}

func (t *terminal) print(snap coach.Snapshot) {
	messages := snap.Messages
	if len(messages) < t.printed {
		t.printed = 0
	}

	for _, m := range messages[t.printed:] {
		fmt.Fprintln(t.out, t.renderer.Message(m))
		fmt.Fprintln(t.out)
	}
	t.printed = len(messages)

	pending := snap.Mode == coach.ModePending && !snap.Closing
	if pending && !t.hinted {
		fmt.Fprintln(t.out, t.renderer.Hint(hintThinking))
	}
	t.hinted = pending
}

func (t *terminal) next(snap coach.Snapshot) (action, error) {
	if snap.MenuVisible() {
		options := coach.Menu()
		labels := make([]string, 0, len(options)+1)
		for _, option := range options {
			labels = append(labels, option.Label)
		}
		labels = append(labels, coach.CloseLabel)

		idx, err := t.selectMenu(labels)
		if err != nil {
			return action{}, err
		}
		if idx < 0 || idx > len(options) {
			return action{}, fmt.Errorf("menu index %d out of range", idx)
		}
		if idx == len(options) {
			return action{close: true}, nil
		}
		return action{input: options[idx].Input}, nil
	}

	if !snap.Mode.AcceptsText() {
		return action{}, fmt.Errorf("no input expected in mode %s", snap.Mode)
	}

	label := fmt.Sprintf("Your question (%s, %s, %s)", commandMenu, commandRestart, commandQuit)
	if snap.Mode == coach.ModeRoadmapAwaitingSkill {
		label = "Skill to learn"
	}

	line, err := t.readLine(label)
	if err != nil {
		return action{}, err
	}

	switch strings.TrimSpace(line) {
	case commandMenu:
		return action{input: coach.ShowMenu{}}, nil
	case commandQuit:
		return action{close: true}, nil
	case commandRestart:
		return action{restart: true}, nil
	}

	return action{input: coach.RawText{Text: line}}, nil
}
