package dashboard

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker_Snapshot(t *testing.T) {
	tracker := NewTracker(248, 42)

	s := tracker.Snapshot()
	assert.Equal(t, int64(248), s.TotalChats)
	assert.Equal(t, int64(42), s.TotalLeads)
	assert.InDelta(t, 16.9, s.ConversionRate, 1e-9)
}

func TestTracker_RecordChat(t *testing.T) {
	tracker := NewTracker(0, 0)
	tracker.RecordChat()
	tracker.RecordChat()

	s := tracker.Snapshot()
	assert.Equal(t, int64(2), s.TotalChats)
	assert.Zero(t, s.ConversionRate)
}

func TestTracker_LeadFloorsChats(t *testing.T) {
	// More leads than chats would read as >100% conversion, so the chat
	// counter is pulled up to match.
	tracker := NewTracker(1, 1)
	tracker.RecordLead()
	tracker.RecordLead()

	s := tracker.Snapshot()
	assert.Equal(t, int64(3), s.TotalLeads)
	assert.Equal(t, int64(3), s.TotalChats)
	assert.InDelta(t, 100.0, s.ConversionRate, 1e-9)
}

func TestTracker_SeedFloor(t *testing.T) {
	tracker := NewTracker(5, 10)
	s := tracker.Snapshot()
	assert.Equal(t, int64(10), s.TotalChats)
}

func TestTracker_OneDecimalRounding(t *testing.T) {
	tracker := NewTracker(3, 1)
	s := tracker.Snapshot()
	// 1/3 = 33.333... rounds to 33.3.
	assert.InDelta(t, 33.3, s.ConversionRate, 1e-9)
}

func TestTracker_ZeroChats(t *testing.T) {
	s := NewTracker(0, 0).Snapshot()
	assert.Zero(t, s.ConversionRate)
}

func TestHandler_GetStats(t *testing.T) {
	h := NewHandler(NewTracker(248, 42), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/stats", nil)
	rec := httptest.NewRecorder()
	h.GetStats(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var s Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
	assert.Equal(t, int64(248), s.TotalChats)
	assert.InDelta(t, 16.9, s.ConversionRate, 1e-9)
}
