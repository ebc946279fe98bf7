package sheets

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForIdle(t *testing.T, s *Syncer) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		if !s.Status().Running {
			return
		}
		select {
		case <-deadline:
			t.Fatal("sync did not finish in time")
		case <-time.After(time.Millisecond):
		}
	}
}

func TestSyncer_RunsToCompletion(t *testing.T) {
	s := NewSyncer(time.Millisecond, nil)

	require.NoError(t, s.Start())
	assert.True(t, s.Status().Running)

	waitForIdle(t, s)

	st := s.Status()
	assert.False(t, st.Running)
	assert.Empty(t, st.Stage)
	assert.NotEmpty(t, st.LastSynced)
}

func TestSyncer_RejectsConcurrentStart(t *testing.T) {
	s := NewSyncer(5*time.Millisecond, nil)

	require.NoError(t, s.Start())
	assert.ErrorIs(t, s.Start(), ErrSyncInProgress)

	waitForIdle(t, s)

	// A finished sync can be started again.
	require.NoError(t, s.Start())
	waitForIdle(t, s)
}

func TestSyncer_IdleStatus(t *testing.T) {
	s := NewSyncer(time.Millisecond, nil)

	st := s.Status()
	assert.False(t, st.Running)
	assert.Empty(t, st.Stage)
	assert.Empty(t, st.LastSynced)
}

func TestHandler_StartAndPoll(t *testing.T) {
	s := NewSyncer(20*time.Millisecond, nil)
	h := NewHandler(s, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/sheets/sync", nil)
	rec := httptest.NewRecorder()
	h.StartSync(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)
	var st Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.True(t, st.Running)

	// Starting again while running conflicts.
	rec = httptest.NewRecorder()
	h.StartSync(rec, httptest.NewRequest(http.MethodPost, "/api/sheets/sync", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)

	waitForIdle(t, s)

	rec = httptest.NewRecorder()
	h.GetStatus(rec, httptest.NewRequest(http.MethodGet, "/api/sheets/sync", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.False(t, st.Running)
	assert.NotEmpty(t, st.LastSynced)
}
