package dashboard

import (
	"encoding/json"
	"math"
	"net/http"
	"sync"

	"github.com/botmitra/whatsbiz-platform/pkg/logging"
)

// Stats is the dashboard's headline snapshot.
type Stats struct {
	TotalChats     int64   `json:"total_chats"`
	TotalLeads     int64   `json:"total_leads"`
	ConversionRate float64 `json:"conversion_rate"`
}

// Tracker keeps in-memory demo counters fed by chat-session events.
// Conversion rate is leads/chats rounded to one decimal, and total chats is
// floored at total leads so the rate never exceeds 100%.
type Tracker struct {
	mu    sync.Mutex
	chats int64
	leads int64
}

// NewTracker creates a tracker starting from the given seed values.
func NewTracker(seedChats, seedLeads int64) *Tracker {
	if seedChats < seedLeads {
		seedChats = seedLeads
	}
	return &Tracker{chats: seedChats, leads: seedLeads}
}

// RecordChat counts one completed chat turn exchange.
func (t *Tracker) RecordChat() {
	t.mu.Lock()
	t.chats++
	t.mu.Unlock()
}

// RecordLead counts one captured lead, flooring chats at leads.
func (t *Tracker) RecordLead() {
	t.mu.Lock()
	t.leads++
	if t.chats < t.leads {
		t.chats = t.leads
	}
	t.mu.Unlock()
}

// Snapshot returns the current stats with the derived conversion rate.
func (t *Tracker) Snapshot() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := Stats{
		TotalChats: t.chats,
		TotalLeads: t.leads,
	}
	if t.chats > 0 {
		s.ConversionRate = math.Round(float64(t.leads)/float64(t.chats)*1000) / 10
	}
	return s
}

// Handler serves the dashboard stats endpoint.
type Handler struct {
	tracker *Tracker
	logger  *logging.Logger
}

// NewHandler creates a dashboard stats handler.
func NewHandler(tracker *Tracker, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		tracker: tracker,
		logger:  logger,
	}
}

// GetStats handles GET /api/dashboard/stats.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.tracker.Snapshot()); err != nil {
		h.logger.Error("failed to encode dashboard stats", "error", err)
	}
}
