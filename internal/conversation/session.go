package conversation

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/botmitra/whatsbiz-platform/internal/business"
	"github.com/botmitra/whatsbiz-platform/internal/observability/metrics"
	"github.com/botmitra/whatsbiz-platform/pkg/logging"
)

var (
	// ErrReplyInFlight is returned when a submission arrives while a remote
	// call is outstanding. There is no queuing: the UI must prevent
	// double-send rather than the session silently dropping turns.
	ErrReplyInFlight = errors.New("conversation: reply already in flight")

	// ErrEmptyMessage rejects submissions with no text and no attachment at
	// the boundary. It is a no-op condition, not an error state.
	ErrEmptyMessage = errors.New("conversation: empty message")
)

// ReplyProvider is the session's view of the remote reply service.
type ReplyProvider interface {
	GetBotReply(ctx context.Context, message string, history []ChatMessage, profile business.Profile, attachment *Attachment) string
}

// Session drives one simulated chat: it owns the append-only turn log,
// enforces at-most-one in-flight remote call, and publishes turns and lead
// candidates to the surrounding application. Each session is single-writer;
// instances share nothing.
type Session struct {
	id       string
	replies  ReplyProvider
	profiles business.Store
	logger   *logging.Logger
	metrics  *metrics.ChatMetrics

	onTurn func(Turn)
	onLead func(LeadCandidate)
	now    func() time.Time
	window int

	mu       sync.Mutex
	turns    []Turn
	awaiting bool
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithTurnSink registers a callback invoked for every appended turn.
func WithTurnSink(fn func(Turn)) SessionOption {
	return func(s *Session) { s.onTurn = fn }
}

// WithLeadSink registers a callback invoked for every extracted lead candidate.
func WithLeadSink(fn func(LeadCandidate)) SessionOption {
	return func(s *Session) { s.onLead = fn }
}

// WithSessionID overrides the generated session identifier.
func WithSessionID(id string) SessionOption {
	return func(s *Session) {
		if id != "" {
			s.id = id
		}
	}
}

// WithInitialHistory seeds the turn log, e.g. when resuming a persisted
// session. Seeded turns are not re-emitted to the turn sink.
func WithInitialHistory(turns []Turn) SessionOption {
	return func(s *Session) {
		s.turns = append([]Turn(nil), turns...)
	}
}

// WithHistoryWindow overrides how many trailing turns are replayed to the
// model. Zero or negative keeps DefaultHistoryWindow.
func WithHistoryWindow(n int) SessionOption {
	return func(s *Session) { s.window = n }
}

// WithClock overrides the timestamp source, for tests.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSession creates a chat session bound to a reply provider and the
// business profile store it reads before every turn.
func NewSession(replies ReplyProvider, profiles business.Store, logger *logging.Logger, m *metrics.ChatMetrics, opts ...SessionOption) *Session {
	if replies == nil {
		panic("conversation: reply provider cannot be nil")
	}
	if profiles == nil {
		panic("conversation: profile store cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}

	s := &Session{
		id:       uuid.NewString(),
		replies:  replies,
		profiles: profiles,
		logger:   logger,
		metrics:  m,
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// History returns a copy of the turn log.
func (s *Session) History() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Turn(nil), s.turns...)
}

// Greet appends the opening bot turn on a fresh session.
func (s *Session) Greet(ctx context.Context) {
	s.mu.Lock()
	if len(s.turns) > 0 {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	profile, err := s.profiles.Get(ctx)
	if err != nil {
		s.logger.Error("failed to load profile for greeting", "error", err, "session_id", s.id)
		profile = business.DefaultProfile()
	}

	greeting := Turn{
		Role:      RoleBot,
		Content:   "Namaste! I am the " + profile.Name + " AI assistant. How can I help you today?",
		Timestamp: s.now(),
	}
	s.append(greeting)
}

// Submit runs one chat turn: it appends the user's message optimistically,
// calls the remote model with the windowed history, and appends the sanitized
// bot reply. Every accepted submission resolves to exactly one bot turn;
// failures arrive as the fallback apology, never as an error. Submissions
// while a reply is in flight are rejected with ErrReplyInFlight.
func (s *Session) Submit(ctx context.Context, text string, attachment *Attachment) error {
	if strings.TrimSpace(text) == "" && attachment == nil {
		return ErrEmptyMessage
	}

	s.mu.Lock()
	if s.awaiting {
		s.mu.Unlock()
		return ErrReplyInFlight
	}
	s.awaiting = true
	window := WindowHistory(s.turns, s.window)
	userTurn := Turn{Role: RoleCustomer, Content: text, Timestamp: s.now()}
	s.turns = append(s.turns, userTurn)
	s.mu.Unlock()

	s.emitTurn(userTurn)

	defer func() {
		s.mu.Lock()
		s.awaiting = false
		s.mu.Unlock()
	}()

	profile, err := s.profiles.Get(ctx)
	if err != nil {
		s.logger.Error("failed to load business profile", "error", err, "session_id", s.id)
		profile = business.DefaultProfile()
	}

	raw := s.replies.GetBotReply(ctx, text, window, profile, attachment)

	candidate, captured := ExtractLeadCapture(raw)
	if !captured && HasLeadMarker(raw) {
		// Kept silent for the customer; counted for prompt debugging.
		s.metrics.ObserveMalformedLeadMarker()
		s.logger.Warn("lead marker present but unparsable", "session_id", s.id)
	}

	botTurn := Turn{Role: RoleBot, Content: StripLeadCapture(raw), Timestamp: s.now()}
	s.append(botTurn)

	if captured {
		s.metrics.ObserveLeadCapture()
		if s.onLead != nil {
			s.onLead(candidate)
		}
	}

	outcome := "ok"
	if raw == FallbackReply {
		outcome = "fallback"
	}
	s.metrics.ObserveTurn(outcome)
	return nil
}

func (s *Session) append(t Turn) {
	s.mu.Lock()
	s.turns = append(s.turns, t)
	s.mu.Unlock()
	s.emitTurn(t)
}

func (s *Session) emitTurn(t Turn) {
	if s.onTurn != nil {
		s.onTurn(t)
	}
}
