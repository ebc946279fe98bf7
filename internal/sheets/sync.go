package sheets

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/botmitra/whatsbiz-platform/pkg/logging"
)

// The simulated sync walks these stages on a fixed timer. It is a
// presentation-only state machine and shares no state with the chat pipeline.
var syncStages = []string{
	"Authenticating...",
	"Connecting Sheet...",
	"Mapping Data...",
	"Pushing Rows...",
	"Sync Complete!",
}

// ErrSyncInProgress rejects a start while a sync is already running.
var ErrSyncInProgress = errors.New("sheets: sync already in progress")

// Status is a point-in-time view of the simulated sync.
type Status struct {
	Running    bool   `json:"running"`
	Stage      string `json:"stage,omitempty"`
	LastSynced string `json:"last_synced,omitempty"`
}

// Syncer runs at most one timer-driven fake spreadsheet sync at a time.
type Syncer struct {
	stageWait time.Duration
	logger    *logging.Logger

	mu         sync.Mutex
	running    bool
	stage      string
	lastSynced time.Time
}

// NewSyncer creates a syncer with the given per-stage delay.
func NewSyncer(stageWait time.Duration, logger *logging.Logger) *Syncer {
	if stageWait <= 0 {
		stageWait = 800 * time.Millisecond
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Syncer{
		stageWait: stageWait,
		logger:    logger,
	}
}

// Start begins a sync run in the background. Only one run may be in flight.
func (s *Syncer) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrSyncInProgress
	}
	s.running = true
	s.stage = syncStages[0]
	s.mu.Unlock()

	go s.run()
	return nil
}

func (s *Syncer) run() {
	for _, stage := range syncStages {
		s.mu.Lock()
		s.stage = stage
		s.mu.Unlock()
		time.Sleep(s.stageWait)
	}

	s.mu.Lock()
	s.running = false
	s.stage = ""
	s.lastSynced = time.Now().UTC()
	s.mu.Unlock()

	s.logger.Info("sheet sync completed")
}

// Status returns the current sync state.
func (s *Syncer) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{
		Running: s.running,
		Stage:   s.stage,
	}
	if !s.lastSynced.IsZero() {
		st.LastSynced = s.lastSynced.Format(time.RFC3339)
	}
	return st
}

// Handler exposes the simulated sync over HTTP.
type Handler struct {
	syncer *Syncer
	logger *logging.Logger
}

// NewHandler creates a sheets sync handler.
func NewHandler(syncer *Syncer, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		syncer: syncer,
		logger: logger,
	}
}

// StartSync handles POST /api/sheets/sync.
func (h *Handler) StartSync(w http.ResponseWriter, r *http.Request) {
	if err := h.syncer.Start(); err != nil {
		if errors.Is(err, ErrSyncInProgress) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		h.logger.Error("failed to start sheet sync", "error", err)
		http.Error(w, "failed to start sync", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(h.syncer.Status())
}

// GetStatus handles GET /api/sheets/sync.
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(h.syncer.Status())
}
