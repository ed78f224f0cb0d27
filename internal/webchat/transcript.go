package webchat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/citasmed/consultorio-backend/internal/assistant"
)

const transcriptKeyPrefix = "webchat_transcript:"

// transcriptTTL keeps idle session transcripts for a month.
const transcriptTTL = 30 * 24 * time.Hour

// TranscriptMessage is one persisted chat message. Draft fields ride along
// so dialogue state survives a reconnect.
type TranscriptMessage struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"` // "user" or "assistant"
	Body      string    `json:"body"`
	Timestamp time.Time `json:"timestamp"`

	PendingAppointment *assistant.Draft `json:"pending_appointment,omitempty"`
	AppointmentData    *assistant.Draft `json:"appointment_data,omitempty"`
}

// Turn converts a persisted message back into a dialogue turn.
func (m TranscriptMessage) Turn() assistant.Turn {
	return assistant.Turn{
		Role:               assistant.Role(m.Role),
		Content:            m.Body,
		PendingAppointment: m.PendingAppointment,
		AppointmentData:    m.AppointmentData,
	}
}

// TranscriptStore persists session transcripts in Redis.
type TranscriptStore struct {
	redis       *redis.Client
	tracer      trace.Tracer
	maxMessages int64
}

// NewTranscriptStore creates a transcript store. A nil client yields a nil
// store; all methods are nil-safe.
func NewTranscriptStore(redisClient *redis.Client, maxMessages int64) *TranscriptStore {
	if redisClient == nil {
		return nil
	}
	if maxMessages <= 0 {
		maxMessages = 250
	}
	return &TranscriptStore{
		redis:       redisClient,
		tracer:      otel.Tracer("consultorio.internal.webchat.transcript"),
		maxMessages: maxMessages,
	}
}

// Append stores one message at the tail of the session transcript.
func (s *TranscriptStore) Append(ctx context.Context, sessionID string, msg TranscriptMessage) error {
	if s == nil || s.redis == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if sessionID == "" {
		return errors.New("webchat: transcript sessionID required")
	}

	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("webchat: marshal transcript message: %w", err)
	}

	ctx, span := s.tracer.Start(ctx, "webchat.transcript.append")
	defer span.End()

	key := transcriptKey(sessionID)
	pipe := s.redis.TxPipeline()
	pipe.RPush(ctx, key, data)
	pipe.Expire(ctx, key, transcriptTTL)
	pipe.LTrim(ctx, key, -s.maxMessages, -1)
	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		return fmt.Errorf("webchat: append transcript message: %w", err)
	}
	return nil
}

// List returns the most recent messages in chronological order. limit <= 0
// returns the whole transcript.
func (s *TranscriptStore) List(ctx context.Context, sessionID string, limit int64) ([]TranscriptMessage, error) {
	if s == nil || s.redis == nil {
		return nil, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if sessionID == "" {
		return nil, errors.New("webchat: transcript sessionID required")
	}

	ctx, span := s.tracer.Start(ctx, "webchat.transcript.list")
	defer span.End()

	start := int64(0)
	if limit > 0 {
		start = -limit
	}

	key := transcriptKey(sessionID)
	raw, err := s.redis.LRange(ctx, key, start, -1).Result()
	if err != nil {
		span.RecordError(err)
		if err == redis.Nil {
			return []TranscriptMessage{}, nil
		}
		return nil, fmt.Errorf("webchat: list transcript: %w", err)
	}

	out := make([]TranscriptMessage, 0, len(raw))
	for _, item := range raw {
		var msg TranscriptMessage
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			span.RecordError(err)
			continue
		}
		out = append(out, msg)
	}
	return out, nil
}

func transcriptKey(sessionID string) string {
	return transcriptKeyPrefix + sessionID
}
