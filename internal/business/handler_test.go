package business

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSuggester struct {
	faqs        []FAQ
	lastProfile Profile
}

func (s *stubSuggester) SuggestFAQs(ctx context.Context, profile Profile) []FAQ {
	s.lastProfile = profile
	return s.faqs
}

func TestHandler_GetProfile(t *testing.T) {
	h := NewHandler(NewMemoryStore(), nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/business/profile", nil)
	rec := httptest.NewRecorder()
	h.GetProfile(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var p Profile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, "Elite Coaching Classes", p.Name)
	assert.Len(t, p.FAQs, 5)
}

func TestHandler_UpdateProfile(t *testing.T) {
	store := NewMemoryStore()
	h := NewHandler(store, nil, nil)

	body := `{"name":"Sharma Sweets","industry":"Food","description":"Sweets","faqs":[],"language_preference":"Hindi"}`
	req := httptest.NewRequest(http.MethodPut, "/api/business/profile", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.UpdateProfile(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	saved, _ := store.Get(context.Background())
	assert.Equal(t, "Sharma Sweets", saved.Name)
}

func TestHandler_UpdateProfileValidation(t *testing.T) {
	h := NewHandler(NewMemoryStore(), nil, nil)

	req := httptest.NewRequest(http.MethodPut, "/api/business/profile", strings.NewReader(`{"name":"","language_preference":"Hindi"}`))
	rec := httptest.NewRecorder()
	h.UpdateProfile(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodPut, "/api/business/profile", strings.NewReader(`not json`))
	rec = httptest.NewRecorder()
	h.UpdateProfile(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_SuggestFAQs(t *testing.T) {
	suggester := &stubSuggester{faqs: []FAQ{
		{Question: "Q1", Answer: "A1"},
		{Question: "Q2", Answer: "A2"},
	}}
	h := NewHandler(NewMemoryStore(), suggester, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/business/faqs/suggest", nil)
	rec := httptest.NewRecorder()
	h.SuggestFAQs(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp SuggestFAQsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Generated)
	assert.Len(t, resp.FAQs, 2)
}

func TestHandler_SuggestFAQs_EmptyIsNotAnError(t *testing.T) {
	h := NewHandler(NewMemoryStore(), &stubSuggester{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/business/faqs/suggest", nil)
	rec := httptest.NewRecorder()
	h.SuggestFAQs(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp SuggestFAQsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Generated)
	assert.NotNil(t, resp.FAQs)
	assert.Empty(t, resp.FAQs)
}

func TestHandler_SuggestFAQs_UsesDraftValues(t *testing.T) {
	suggester := &stubSuggester{faqs: []FAQ{{Question: "Q", Answer: "A"}}}
	h := NewHandler(NewMemoryStore(), suggester, nil)

	body := `{"name":"Corner Bakery","description":"Fresh bread daily"}`
	req := httptest.NewRequest(http.MethodPost, "/api/business/faqs/suggest", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.SuggestFAQs(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Corner Bakery", suggester.lastProfile.Name)
	assert.Equal(t, "Fresh bread daily", suggester.lastProfile.Description)
}

func TestHandler_SuggestFAQs_NotConfigured(t *testing.T) {
	h := NewHandler(NewMemoryStore(), nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/business/faqs/suggest", nil)
	rec := httptest.NewRecorder()
	h.SuggestFAQs(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
