package business

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/botmitra/whatsbiz-platform/pkg/logging"
)

// FAQSuggester asks the model for knowledge-base suggestions.
// An empty slice means "nothing generated", not an error.
type FAQSuggester interface {
	SuggestFAQs(ctx context.Context, profile Profile) []FAQ
}

// Handler handles HTTP requests for the business profile.
type Handler struct {
	store     Store
	suggester FAQSuggester
	logger    *logging.Logger
}

// NewHandler creates a new business profile handler.
func NewHandler(store Store, suggester FAQSuggester, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		store:     store,
		suggester: suggester,
		logger:    logger,
	}
}

// GetProfile handles GET /api/business
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.store.Get(r.Context())
	if err != nil {
		h.logger.Error("failed to load business profile", "error", err)
		http.Error(w, "failed to load profile", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(profile)
}

// UpdateProfile handles PUT /api/business
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var profile Profile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.store.Put(r.Context(), profile); err != nil {
		if errors.Is(err, ErrMissingName) || errors.Is(err, ErrInvalidLanguage) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("failed to save business profile", "error", err)
		http.Error(w, "failed to save profile", http.StatusInternalServerError)
		return
	}

	h.logger.Info("business profile updated", "name", profile.Name, "faqs", len(profile.FAQs))

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(profile)
}

// SuggestFAQsResponse is the response for FAQ suggestions.
type SuggestFAQsResponse struct {
	FAQs      []FAQ `json:"faqs"`
	Generated bool  `json:"generated"`
}

// SuggestFAQs handles POST /api/business/faqs/suggest.
// A failed generation returns 200 with an empty list so the UI can show a
// "could not generate" notice instead of an error page.
func (h *Handler) SuggestFAQs(w http.ResponseWriter, r *http.Request) {
	if h.suggester == nil {
		http.Error(w, "faq suggestions not configured", http.StatusServiceUnavailable)
		return
	}

	profile, err := h.store.Get(r.Context())
	if err != nil {
		h.logger.Error("failed to load business profile", "error", err)
		http.Error(w, "failed to load profile", http.StatusInternalServerError)
		return
	}

	// Allow the caller to suggest against unsaved form values.
	if r.ContentLength > 0 {
		var draft Profile
		if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if draft.Name != "" {
			profile.Name = draft.Name
		}
		if draft.Description != "" {
			profile.Description = draft.Description
		}
	}

	faqs := h.suggester.SuggestFAQs(r.Context(), profile)
	resp := SuggestFAQsResponse{
		FAQs:      faqs,
		Generated: len(faqs) > 0,
	}
	if resp.FAQs == nil {
		resp.FAQs = []FAQ{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
