package webchat

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citasmed/consultorio-backend/internal/assistant"
)

func newTestStore(t *testing.T, maxMessages int64) *TranscriptStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewTranscriptStore(client, maxMessages)
}

func TestTranscriptAppendAndList(t *testing.T) {
	store := newTestStore(t, 50)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "sess-1", TranscriptMessage{Role: "user", Body: "hola"}))
	require.NoError(t, store.Append(ctx, "sess-1", TranscriptMessage{
		Role: "assistant",
		Body: "respuesta",
		AppointmentData: &assistant.Draft{
			Date: "2024-01-16", Time: "10:00", Patient: "Juan", Reason: "Consulta general",
		},
	}))

	msgs, err := store.List(ctx, "sess-1", 0)
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	assert.Equal(t, "hola", msgs[0].Body)
	assert.NotEmpty(t, msgs[0].ID)
	assert.False(t, msgs[0].Timestamp.IsZero())

	require.NotNil(t, msgs[1].AppointmentData)
	assert.Equal(t, "Juan", msgs[1].AppointmentData.Patient)

	turn := msgs[1].Turn()
	assert.Equal(t, assistant.RoleAssistant, turn.Role)
	require.NotNil(t, turn.AppointmentData)
	assert.Equal(t, "10:00", turn.AppointmentData.Time)
}

func TestTranscriptListLimit(t *testing.T) {
	store := newTestStore(t, 50)
	ctx := context.Background()

	for _, body := range []string{"uno", "dos", "tres"} {
		require.NoError(t, store.Append(ctx, "sess-1", TranscriptMessage{Role: "user", Body: body}))
	}

	msgs, err := store.List(ctx, "sess-1", 2)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "dos", msgs[0].Body)
	assert.Equal(t, "tres", msgs[1].Body)
}

func TestTranscriptTrimsToMax(t *testing.T) {
	store := newTestStore(t, 3)
	ctx := context.Background()

	for _, body := range []string{"1", "2", "3", "4", "5"} {
		require.NoError(t, store.Append(ctx, "sess-1", TranscriptMessage{Role: "user", Body: body}))
	}

	msgs, err := store.List(ctx, "sess-1", 0)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "3", msgs[0].Body)
	assert.Equal(t, "5", msgs[2].Body)
}

func TestTranscriptSessionsIsolated(t *testing.T) {
	store := newTestStore(t, 50)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "sess-1", TranscriptMessage{Role: "user", Body: "hola"}))

	msgs, err := store.List(ctx, "sess-2", 0)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestTranscriptNilStoreSafe(t *testing.T) {
	var store *TranscriptStore

	assert.NoError(t, store.Append(context.Background(), "sess-1", TranscriptMessage{Body: "x"}))
	msgs, err := store.List(context.Background(), "sess-1", 0)
	assert.NoError(t, err)
	assert.Nil(t, msgs)
}

func TestTranscriptRequiresSessionID(t *testing.T) {
	store := newTestStore(t, 50)

	assert.Error(t, store.Append(context.Background(), "", TranscriptMessage{Body: "x"}))
	_, err := store.List(context.Background(), "", 0)
	assert.Error(t, err)
}
