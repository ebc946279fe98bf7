package webchat

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/websocket"

	"github.com/botmitra/whatsbiz-platform/internal/business"
	"github.com/botmitra/whatsbiz-platform/internal/conversation"
	"github.com/botmitra/whatsbiz-platform/internal/dashboard"
	"github.com/botmitra/whatsbiz-platform/internal/leads"
	"github.com/botmitra/whatsbiz-platform/internal/notify"
	"github.com/botmitra/whatsbiz-platform/internal/observability/metrics"
	"github.com/botmitra/whatsbiz-platform/pkg/logging"
)

// TranscriptStore persists chat turns across reconnects.
type TranscriptStore interface {
	Append(ctx context.Context, sessionID string, turn conversation.Turn) error
	List(ctx context.Context, sessionID string, limit int64) ([]conversation.Turn, error)
	Sessions(ctx context.Context) ([]string, error)
}

// Handler manages simulated WhatsApp chat sessions over WebSocket, with an
// HTTP fallback for clients that cannot hold a socket open.
type Handler struct {
	replies    conversation.ReplyProvider
	profiles   business.Store
	leadsRepo  leads.Repository
	notifier   *notify.Service
	stats      *dashboard.Tracker
	transcript TranscriptStore
	metrics    *metrics.ChatMetrics
	logger     *logging.Logger

	historyWindow int
	greeting      bool

	mu       sync.Mutex
	sessions map[string]*conversation.Session
	conns    map[string]*websocket.Conn // sessionID -> active connection
}

// HandlerOption configures the web chat handler.
type HandlerOption func(*Handler)

// WithHistoryWindow sets how many trailing turns sessions replay to the model.
func WithHistoryWindow(n int) HandlerOption {
	return func(h *Handler) { h.historyWindow = n }
}

// WithGreeting toggles the automatic opening bot message on fresh sessions.
func WithGreeting(enabled bool) HandlerOption {
	return func(h *Handler) { h.greeting = enabled }
}

// NewHandler creates a web chat handler. transcript and notifier may be nil.
func NewHandler(
	replies conversation.ReplyProvider,
	profiles business.Store,
	leadsRepo leads.Repository,
	notifier *notify.Service,
	stats *dashboard.Tracker,
	transcript TranscriptStore,
	m *metrics.ChatMetrics,
	logger *logging.Logger,
	opts ...HandlerOption,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	h := &Handler{
		replies:    replies,
		profiles:   profiles,
		leadsRepo:  leadsRepo,
		notifier:   notifier,
		stats:      stats,
		transcript: transcript,
		metrics:    m,
		logger:     logger,
		greeting:   true,
		sessions:   make(map[string]*conversation.Session),
		conns:      make(map[string]*websocket.Conn),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// InboundMessage is what the chat widget sends.
type InboundMessage struct {
	Type       string `json:"type"` // "message", "ping"
	Text       string `json:"text"`
	Attachment *struct {
		Data     string `json:"data"`
		MIMEType string `json:"mime_type"`
		Name     string `json:"name"`
	} `json:"attachment,omitempty"`
}

// OutboundMessage is what we send to the widget.
type OutboundMessage struct {
	Type      string           `json:"type"` // "message", "typing", "history", "session", "lead", "error", "pong"
	Text      string           `json:"text,omitempty"`
	Role      string           `json:"role,omitempty"`
	SessionID string           `json:"session_id,omitempty"`
	Timestamp string           `json:"timestamp,omitempty"`
	Messages  []HistoryMessage `json:"messages,omitempty"`
	Lead      *leads.Lead      `json:"lead,omitempty"`
}

// HistoryMessage is a simplified turn for history responses.
type HistoryMessage struct {
	Role      string `json:"role"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

func generateSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return uuid.NewString()
	}
	return hex.EncodeToString(b)
}

// HandleWebSocket upgrades to WebSocket and handles real-time chat.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.Handler(func(conn *websocket.Conn) {
		h.serveWS(conn, r)
	}).ServeHTTP(w, r)
}

func (h *Handler) serveWS(conn *websocket.Conn, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		sessionID = generateSessionID()
	}

	session := h.session(r.Context(), sessionID)

	h.mu.Lock()
	h.conns[sessionID] = conn
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		if h.conns[sessionID] == conn {
			delete(h.conns, sessionID)
		}
		h.mu.Unlock()
	}()

	_ = websocket.JSON.Send(conn, OutboundMessage{Type: "session", SessionID: sessionID})

	if turns := session.History(); len(turns) > 0 {
		_ = websocket.JSON.Send(conn, OutboundMessage{Type: "history", Messages: toHistory(turns)})
	} else if h.greeting {
		session.Greet(r.Context())
	}

	h.logger.Info("webchat: connection opened", "session_id", sessionID)

	for {
		var msg InboundMessage
		if err := websocket.JSON.Receive(conn, &msg); err != nil {
			h.logger.Debug("webchat: connection closed", "session_id", sessionID, "error", err)
			return
		}

		switch msg.Type {
		case "ping":
			_ = websocket.JSON.Send(conn, OutboundMessage{Type: "pong"})
		case "message":
			h.submit(r.Context(), session, msg)
		}
	}
}

func (h *Handler) submit(ctx context.Context, session *conversation.Session, msg InboundMessage) {
	var attachment *conversation.Attachment
	if msg.Attachment != nil {
		attachment = &conversation.Attachment{
			Data:     msg.Attachment.Data,
			MIMEType: msg.Attachment.MIMEType,
			Name:     msg.Attachment.Name,
		}
	}

	h.sendTo(session.ID(), OutboundMessage{Type: "typing"})

	err := session.Submit(ctx, msg.Text, attachment)
	switch {
	case err == nil:
	case errors.Is(err, conversation.ErrEmptyMessage):
		// Nothing to do.
	case errors.Is(err, conversation.ErrReplyInFlight):
		h.sendTo(session.ID(), OutboundMessage{Type: "error", Text: "A reply is already on its way."})
	default:
		h.logger.Error("webchat: submit failed", "error", err, "session_id", session.ID())
		h.sendTo(session.ID(), OutboundMessage{Type: "error", Text: "Sorry, something went wrong. Please try again."})
	}
}

// session returns the live session for the given id, creating and wiring it
// on first use.
func (h *Handler) session(ctx context.Context, sessionID string) *conversation.Session {
	h.mu.Lock()
	if s, ok := h.sessions[sessionID]; ok {
		h.mu.Unlock()
		return s
	}
	h.mu.Unlock()

	var seed []conversation.Turn
	if h.transcript != nil {
		turns, err := h.transcript.List(ctx, sessionID, 0)
		if err != nil {
			h.logger.Error("webchat: failed to load transcript", "error", err, "session_id", sessionID)
		} else {
			seed = turns
		}
	}

	s := conversation.NewSession(h.replies, h.profiles, h.logger, h.metrics,
		conversation.WithSessionID(sessionID),
		conversation.WithHistoryWindow(h.historyWindow),
		conversation.WithInitialHistory(seed),
		conversation.WithTurnSink(func(t conversation.Turn) { h.onTurn(sessionID, t) }),
		conversation.WithLeadSink(func(c conversation.LeadCandidate) { h.onLead(sessionID, c) }),
	)

	h.mu.Lock()
	if existing, ok := h.sessions[sessionID]; ok {
		h.mu.Unlock()
		return existing
	}
	h.sessions[sessionID] = s
	h.mu.Unlock()

	if len(seed) == 0 && h.stats != nil {
		h.stats.RecordChat()
	}
	return s
}

func (h *Handler) onTurn(sessionID string, t conversation.Turn) {
	if h.transcript != nil {
		if err := h.transcript.Append(context.Background(), sessionID, t); err != nil {
			h.logger.Error("webchat: failed to persist turn", "error", err, "session_id", sessionID)
		}
	}

	h.sendTo(sessionID, OutboundMessage{
		Type:      "message",
		Role:      t.Role,
		Text:      t.Content,
		Timestamp: t.Timestamp.Format(time.RFC3339),
	})
}

func (h *Handler) onLead(sessionID string, c conversation.LeadCandidate) {
	req := leads.FromCandidate(c.Name, c.Requirement)
	lead, err := h.leadsRepo.Create(context.Background(), &req)
	if err != nil {
		h.logger.Error("webchat: failed to store lead", "error", err, "session_id", sessionID)
		return
	}

	if h.stats != nil {
		h.stats.RecordLead()
	}
	if h.notifier != nil {
		h.notifier.NotifyLeadCaptured(context.Background(), lead)
	}

	h.logger.Info("lead captured from chat", "session_id", sessionID, "lead_id", lead.ID)
	h.sendTo(sessionID, OutboundMessage{Type: "lead", Lead: lead})
}

func (h *Handler) sendTo(sessionID string, msg OutboundMessage) {
	h.mu.Lock()
	conn, ok := h.conns[sessionID]
	h.mu.Unlock()
	if !ok {
		return
	}
	_ = websocket.JSON.Send(conn, msg)
}

// HandleMessage is the HTTP fallback for sending a chat message. The bot
// reply is returned in the response once the turn resolves.
func (h *Handler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID  string `json:"session_id"`
		Text       string `json:"text"`
		Attachment *struct {
			Data     string `json:"data"`
			MIMEType string `json:"mime_type"`
			Name     string `json:"name"`
		} `json:"attachment,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.SessionID == "" {
		req.SessionID = generateSessionID()
	}

	session := h.session(r.Context(), req.SessionID)
	if h.greeting {
		session.Greet(r.Context())
	}

	var attachment *conversation.Attachment
	if req.Attachment != nil {
		attachment = &conversation.Attachment{
			Data:     req.Attachment.Data,
			MIMEType: req.Attachment.MIMEType,
			Name:     req.Attachment.Name,
		}
	}

	err := session.Submit(r.Context(), req.Text, attachment)
	switch {
	case err == nil:
	case errors.Is(err, conversation.ErrEmptyMessage):
		http.Error(w, "text or attachment required", http.StatusBadRequest)
		return
	case errors.Is(err, conversation.ErrReplyInFlight):
		http.Error(w, "reply already in flight", http.StatusConflict)
		return
	default:
		h.logger.Error("webchat: submit failed", "error", err, "session_id", req.SessionID)
		http.Error(w, "failed to process message", http.StatusInternalServerError)
		return
	}

	turns := session.History()
	var reply HistoryMessage
	if len(turns) > 0 {
		last := turns[len(turns)-1]
		reply = HistoryMessage{
			Role:      last.Role,
			Text:      last.Content,
			Timestamp: last.Timestamp.Format(time.RFC3339),
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"session_id": req.SessionID,
		"reply":      reply,
	})
}

// HandleHistory returns the turn log for a session.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}

	session := h.session(r.Context(), sessionID)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"session_id": sessionID,
		"messages":   toHistory(session.History()),
	})
}

// HandleSessions lists known session ids for the inbox view.
func (h *Handler) HandleSessions(w http.ResponseWriter, r *http.Request) {
	ids := make(map[string]struct{})

	if h.transcript != nil {
		persisted, err := h.transcript.Sessions(r.Context())
		if err != nil {
			h.logger.Error("webchat: failed to list sessions", "error", err)
		}
		for _, id := range persisted {
			ids[id] = struct{}{}
		}
	}

	h.mu.Lock()
	for id := range h.sessions {
		ids[id] = struct{}{}
	}
	h.mu.Unlock()

	out := make([]string, 0, len(ids))
	for id := range ids {
		out = append(out, id)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"sessions": out})
}

func toHistory(turns []conversation.Turn) []HistoryMessage {
	out := make([]HistoryMessage, 0, len(turns))
	for _, t := range turns {
		out = append(out, HistoryMessage{
			Role:      t.Role,
			Text:      t.Content,
			Timestamp: t.Timestamp.Format(time.RFC3339),
		})
	}
	return out
}
