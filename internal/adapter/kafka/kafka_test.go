package kafka

import (
	"context"
	"log/slog"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/hail-damage-service/internal/config"
	"github.com/couchcryptid/hail-damage-service/internal/domain"
)

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2024, 4, 26, 15, 10, 0, 0, time.UTC)
	event := domain.HailEvent{
		ID:         domain.EventID("2024-04-26", "Curitiba", 30),
		Date:       "2024-04-26",
		City:       "Curitiba",
		HailSizeMM: 30,
		Category:   domain.SizeLarge,
		CreatedAt:  now,
	}

	msg, err := serializeToMessage(event)
	require.NoError(t, err)

	assert.Equal(t, []byte(event.ID), msg.Key)
	assert.Contains(t, string(msg.Value), `"hail_size_category":"large"`)
	assert.Contains(t, string(msg.Value), `"city":"Curitiba"`)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "hail_size_category", msg.Headers[0].Key)
	assert.Equal(t, []byte("large"), msg.Headers[0].Value)
	assert.Equal(t, "created_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[1].Value)
}

func TestNewWriter(t *testing.T) {
	w := NewWriter(&config.Config{KafkaBrokers: []string{"b1:9092", "b2:9092"}, KafkaTopic: "hail-events"}, slog.Default())
	t.Cleanup(func() { _ = w.Close() })

	assert.Equal(t, "hail-events", w.writer.Topic)
	assert.Equal(t, kafkago.RequireAll, w.writer.RequiredAcks)
	assert.IsType(t, &kafkago.Hash{}, w.writer.Balancer)
}

func TestLoadBatch_EmptyIsNoop(t *testing.T) {
	w := NewWriter(&config.Config{KafkaBrokers: []string{"localhost:1"}, KafkaTopic: "hail-events"}, slog.Default())
	t.Cleanup(func() { _ = w.Close() })

	assert.NoError(t, w.LoadBatch(context.Background(), nil))
}
