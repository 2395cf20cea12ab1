package coach

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"

	"github.com/spigell/skillbridge/internal/ai"
	"github.com/spigell/skillbridge/internal/logger"
)

const (
	MessageRoadmapRequest    = "I want to generate a skill roadmap."
	MessageRoadmapQuestion   = "That sounds exciting! Which specific skill do you want to learn? (e.g., Python, System Design, Leadership)"
	MessageFollowUp          = "Is there anything else I can help you with?"
	MessageConnectionFailed  = "Oops! I couldn't connect to the server. Please try again."
	MessageFarewellUser      = "No, I'm done. Thank you!"
	MessageFarewellAssistant = "You're welcome! Best of luck with your job search!"

	greetingFormat = "Hi there! I'm your AI Career Coach. I've analyzed your resume for the %s role. How can I help you today?"
)

var (
	// ErrBusy is returned for input received while the session is pending.
	ErrBusy = errors.New("session is busy")
	// ErrClosed is returned for any operation on a closed session.
	ErrClosed = errors.New("session is closed")
	// ErrUnknownInput is returned for an input outside the known variants.
	ErrUnknownInput = errors.New("unknown input")
)

// SessionContext is the resume and role a session is created for.
type SessionContext struct {
	ResumeText string
	TargetRole string
}

// Greeting returns the first assistant message of a session.
func Greeting(role string) string {
	if role = strings.TrimSpace(role); role == "" {
		role = ai.DefaultRole
	}
	return fmt.Sprintf(greetingFormat, role)
}

// Snapshot is a copy of the observable session state.
type Snapshot struct {
	Messages []Message
	Mode     Mode
	// Closing is set from Close until the session reaches ModeClosed.
	Closing bool
	// Scheduled reports a live deferred task, such as the follow-up question.
	Scheduled bool
}

// MenuVisible reports whether the canned menu should be shown.
func (s Snapshot) MenuVisible() bool {
	return s.Mode == ModeMenu && !s.Closing
}

// Option configures a Session.
type Option func(*Session)

// WithConfig sets the session timings.
func WithConfig(cfg Config) Option {
	return func(s *Session) {
		s.cfg = cfg
	}
}

// WithClock replaces the clock used for deferred tasks.
func WithClock(clock Clock) Option {
	return func(s *Session) {
		s.clock = clock
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		s.logger = l
	}
}

// Session is the conversational assistant state machine for one resume and role.
// All events (input, request completion, timer firing) are serialized by mu.
type Session struct {
	mu sync.Mutex

	id    string
	cfg   Config
	clock Clock
	sc    SessionContext

	log     *Log
	mode    Mode
	closing bool

	// generation is bumped by Reset, Close and Discard; results of requests
	// started under an older generation are dropped.
	generation    uint64
	cancelRequest context.CancelFunc

	tasks      *scheduler
	dispatcher *dispatcher
	changes    chan struct{}
	logger     *zap.Logger
}

// NewSession creates a session in ModeMenu seeded with the greeting.
func NewSession(assistant ai.Assistant, sc SessionContext, opts ...Option) (*Session, error) {
	if assistant == nil {
		return nil, errors.New("assistant is required")
	}

	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("generate session id: %w", err)
	}

	s := &Session{
		id:      id,
		cfg:     DefaultConfig(),
		sc:      sc,
		mode:    ModeMenu,
		changes: make(chan struct{}, 1),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.cfg = s.cfg.withDefaults()
	s.logger = logger.WithFields(s.logger, logger.SessionFields(id, sc.TargetRole)...)
	s.tasks = newScheduler(s.clock)
	s.log = NewLog(Greeting(sc.TargetRole))
	s.dispatcher = &dispatcher{
		assistant: assistant,
		timeout:   s.cfg.RequestTimeout,
		logger:    s.logger,
	}

	s.logger.Debug("session created")

	return s, nil
}

func (s *Session) ID() string {
	return s.id
}

// Changes returns a channel receiving a value after state changes.
// Notifications coalesce; read Snapshot after each one.
func (s *Session) Changes() <-chan struct{} {
	return s.changes
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		Messages:  s.log.Messages(),
		Mode:      s.mode,
		Closing:   s.closing,
		Scheduled: s.tasks.pending(),
	}
}

// Dispatch handles one user input.
// Input is rejected with ErrBusy while pending or closing and ErrClosed once closed.
// Prompts run asynchronously; ctx bounds the resulting request.
func (s *Session) Dispatch(ctx context.Context, in Input) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.mode == ModeClosed:
		return ErrClosed
	case s.mode == ModePending, s.closing:
		return ErrBusy
	}

	switch in := in.(type) {
	case FreeTextTrigger:
		s.tasks.cancel(phaseFollowUp)
		s.setMode(ModeFreeInput)
	case ShowMenu:
		s.tasks.cancel(phaseFollowUp)
		s.setMode(ModeMenu)
	case RoadmapFlow:
		s.startRoadmap()
	case Prompt:
		s.prompt(ctx, in.Text)
	case RawText:
		s.prompt(ctx, in.Text)
	default:
		return fmt.Errorf("%w: %T", ErrUnknownInput, in)
	}

	s.changed()
	return nil
}

// Close starts the farewell flow: a user farewell now, the assistant farewell
// after FarewellDelay and ModeClosed after a further CloseDelay.
// The session keeps its mode while closing and rejects input with ErrBusy.
// Pending work is abandoned, so a pending session falls back to ModeMenu
// with the menu hidden.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode == ModeClosed {
		return ErrClosed
	}
	if s.closing {
		return nil
	}

	s.invalidate()
	s.closing = true
	s.log.Append(SenderUser, MessageFarewellUser)
	if s.mode == ModePending {
		s.setMode(ModeMenu)
	}

	s.after(phaseFarewell, s.cfg.FarewellDelay, func() {
		s.log.Append(SenderAssistant, MessageFarewellAssistant)
		s.after(phaseClose, s.cfg.CloseDelay, func() {
			s.closing = false
			s.setMode(ModeClosed)
		})
	})

	s.changed()
	return nil
}

// Reset starts over for a new resume and role: the log is re-seeded,
// deferred tasks and the in-flight request are invalidated.
func (s *Session) Reset(sc SessionContext) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode == ModeClosed {
		return ErrClosed
	}

	s.invalidate()
	s.sc = sc
	s.closing = false
	s.log.Reset(Greeting(sc.TargetRole))
	s.setMode(ModeMenu)

	s.logger.Debug("session reset", zap.String(logger.FieldRole, sc.TargetRole))

	s.changed()
	return nil
}

// Discard tears the session down immediately without farewell messages.
func (s *Session) Discard() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode == ModeClosed {
		return
	}

	s.invalidate()
	s.closing = false
	s.setMode(ModeClosed)
	s.changed()
}

func (s *Session) startRoadmap() {
	s.tasks.cancel(phaseFollowUp)
	s.log.Append(SenderUser, MessageRoadmapRequest)
	s.setMode(ModePending)

	s.after(phaseRoadmap, s.cfg.RoadmapDelay, func() {
		s.log.Append(SenderAssistant, MessageRoadmapQuestion)
		s.setMode(ModeRoadmapAwaitingSkill)
	})
}

func (s *Session) prompt(ctx context.Context, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		s.logger.Debug("ignoring empty input")
		return
	}

	s.tasks.cancel(phaseFollowUp)
	s.log.Append(SenderUser, text)
	s.setMode(ModePending)

	if ctx == nil {
		ctx = context.Background()
	}
	reqCtx, cancel := context.WithCancel(ctx)
	s.cancelRequest = cancel

	go s.complete(reqCtx, s.generation, text, s.sc)
}

// complete runs outside the lock and reports the outcome back to the session.
func (s *Session) complete(ctx context.Context, generation uint64, text string, sc SessionContext) {
	content, err := s.dispatcher.send(ctx, text, sc)

	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation {
		s.logger.Debug("dropping reply of a superseded request", zap.Error(err))
		return
	}

	s.cancelRequest()
	s.cancelRequest = nil

	if err != nil {
		s.logger.Warn("assistant request failed", zap.Error(err))
		s.log.Append(SenderAssistant, MessageConnectionFailed)
		s.setMode(ModeMenu)
		s.changed()
		return
	}

	s.log.Append(SenderAssistant, content)
	s.logger.Debug("reply appended", zap.Int("messages", s.log.Len()))
	s.setMode(ModeFreeInput)
	s.after(phaseFollowUp, s.cfg.FollowUpDelay, func() {
		s.log.Append(SenderAssistant, MessageFollowUp)
		s.setMode(ModeMenu)
	})
	s.changed()
}

// after schedules fn under the session lock once d elapses.
// fn only runs if its task is still the live one for the phase.
func (s *Session) after(p phase, d time.Duration, fn func()) {
	s.tasks.schedule(p, d, func(id uint64) {
		s.mu.Lock()
		defer s.mu.Unlock()

		if !s.tasks.claim(p, id) {
			return
		}

		s.logger.Debug("deferred task fired", zap.Stringer("phase", p))
		fn()
		s.changed()
	})
}

// invalidate stops every deferred task and abandons the in-flight request.
func (s *Session) invalidate() {
	s.generation++
	s.tasks.cancelAll()
	if s.cancelRequest != nil {
		s.cancelRequest()
		s.cancelRequest = nil
	}
}

func (s *Session) setMode(m Mode) {
	if s.mode == m {
		return
	}
	s.logger.Debug("mode changed",
		zap.Stringer("from", s.mode),
		zap.Stringer("to", m),
	)
	s.mode = m
}

func (s *Session) changed() {
	select {
	case s.changes <- struct{}{}:
	default:
	}
}
