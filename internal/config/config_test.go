package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.GeminiReplyModel != "gemini-3-flash-preview" {
		t.Errorf("unexpected default reply model: %s", cfg.GeminiReplyModel)
	}
	if cfg.HistoryWindow != 8 {
		t.Errorf("expected history window 8, got %d", cfg.HistoryWindow)
	}
	if cfg.TranscriptTTL != 24*time.Hour {
		t.Errorf("expected transcript TTL 24h, got %s", cfg.TranscriptTTL)
	}
	if !cfg.AllowFakePayments {
		t.Error("expected fake payments enabled by default in demo mode")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("HISTORY_WINDOW", "4")
	t.Setenv("ALLOW_FAKE_PAYMENTS", "false")
	t.Setenv("SHEET_SYNC_STAGE_WAIT", "50ms")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg := Load()

	if cfg.Port != "9999" {
		t.Errorf("expected port 9999, got %s", cfg.Port)
	}
	if cfg.HistoryWindow != 4 {
		t.Errorf("expected history window 4, got %d", cfg.HistoryWindow)
	}
	if cfg.AllowFakePayments {
		t.Error("expected fake payments disabled")
	}
	if cfg.SheetSyncStageWait != 50*time.Millisecond {
		t.Errorf("expected 50ms stage wait, got %s", cfg.SheetSyncStageWait)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example" {
		t.Errorf("unexpected origins: %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoad_BadValuesFallBack(t *testing.T) {
	t.Setenv("HISTORY_WINDOW", "not-a-number")
	t.Setenv("TRANSCRIPT_TTL", "soon")

	cfg := Load()

	if cfg.HistoryWindow != 8 {
		t.Errorf("expected fallback window 8, got %d", cfg.HistoryWindow)
	}
	if cfg.TranscriptTTL != 24*time.Hour {
		t.Errorf("expected fallback TTL 24h, got %s", cfg.TranscriptTTL)
	}
}
