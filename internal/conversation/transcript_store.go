package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const defaultTranscriptTTL = 24 * time.Hour

// TranscriptStore mirrors session transcripts into Redis so the live-chat
// inbox can read them after the owning session is gone. Entirely optional:
// with a nil store the pipeline stays in process memory.
type TranscriptStore struct {
	redis  *redis.Client
	ttl    time.Duration
	tracer trace.Tracer
}

// NewTranscriptStore creates a Redis-backed transcript mirror.
func NewTranscriptStore(client *redis.Client, ttl time.Duration, tracer trace.Tracer) *TranscriptStore {
	if client == nil {
		panic("conversation: redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = defaultTranscriptTTL
	}
	if tracer == nil {
		tracer = otel.Tracer("whatsbiz.internal.conversation.transcript")
	}
	return &TranscriptStore{
		redis:  client,
		ttl:    ttl,
		tracer: tracer,
	}
}

// Append pushes one turn onto the session's transcript and refreshes its TTL.
func (s *TranscriptStore) Append(ctx context.Context, sessionID string, turn Turn) error {
	ctx, span := s.tracer.Start(ctx, "conversation.append_transcript")
	defer span.End()

	data, err := json.Marshal(turn)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("conversation: failed to marshal turn: %w", err)
	}

	pipe := s.redis.TxPipeline()
	pipe.RPush(ctx, transcriptKey(sessionID), data)
	pipe.Expire(ctx, transcriptKey(sessionID), s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		return fmt.Errorf("conversation: failed to persist turn: %w", err)
	}
	return nil
}

// List returns up to limit trailing turns for a session, oldest first.
// An unknown session yields an empty transcript, not an error.
func (s *TranscriptStore) List(ctx context.Context, sessionID string, limit int64) ([]Turn, error) {
	ctx, span := s.tracer.Start(ctx, "conversation.list_transcript")
	defer span.End()

	if limit <= 0 {
		limit = 50
	}

	raw, err := s.redis.LRange(ctx, transcriptKey(sessionID), -limit, -1).Result()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("conversation: failed to load transcript: %w", err)
	}

	turns := make([]Turn, 0, len(raw))
	for _, item := range raw {
		var t Turn
		if err := json.Unmarshal([]byte(item), &t); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("conversation: failed to decode turn: %w", err)
		}
		turns = append(turns, t)
	}
	return turns, nil
}

// Sessions lists the session IDs with a live transcript, for the inbox view.
func (s *TranscriptStore) Sessions(ctx context.Context) ([]string, error) {
	ctx, span := s.tracer.Start(ctx, "conversation.list_sessions")
	defer span.End()

	var (
		cursor uint64
		ids    []string
	)
	for {
		keys, next, err := s.redis.Scan(ctx, cursor, "transcript:*", 100).Result()
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("conversation: failed to scan transcripts: %w", err)
		}
		for _, key := range keys {
			ids = append(ids, key[len("transcript:"):])
		}
		if next == 0 {
			return ids, nil
		}
		cursor = next
	}
}

func transcriptKey(sessionID string) string {
	return fmt.Sprintf("transcript:%s", sessionID)
}
