package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	headlineDomain "github.com/davicafu/newslab/internal/headline/domain"
	sharedEvents "github.com/davicafu/newslab/internal/shared/events"
	"github.com/davicafu/newslab/tests/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func pageUpdatedPayload(t *testing.T, titles ...string) []byte {
	t.Helper()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	items := make([]*headlineDomain.Headline, len(titles))
	for i, title := range titles {
		items[i] = &headlineDomain.Headline{
			ID:          uuid.New(),
			Title:       title,
			URL:         "https://example.com/" + title,
			Source:      "bbc-news",
			PublishedAt: base,
			CreatedAt:   base,
		}
	}
	evt, err := sharedEvents.NewIntegrationEvent(headlineDomain.PageUpdated, headlineDomain.NewPage(items, 0))
	assert.NoError(t, err)
	payload, err := json.Marshal(evt)
	assert.NoError(t, err)
	return payload
}

func TestPageUpdateConsumer_LogsBatch(t *testing.T) {
	analytics := &mocks.InMemoryAnalytics{}
	consumer := NewPageUpdateConsumer(analytics, zap.NewNop())

	consumer.HandleMessage(context.Background(), "key", pageUpdatedPayload(t, "a", "b", "c"))

	assert.Len(t, analytics.Batches, 1)
	assert.Len(t, analytics.Batches[0], 3)
	assert.Equal(t, "a", analytics.Batches[0][0].Title)
}

func TestPageUpdateConsumer_IgnoresUnknownEventType(t *testing.T) {
	analytics := &mocks.InMemoryAnalytics{}
	consumer := NewPageUpdateConsumer(analytics, zap.NewNop())

	evt, err := sharedEvents.NewIntegrationEvent("user.registered", map[string]string{"id": "42"})
	assert.NoError(t, err)
	payload, err := json.Marshal(evt)
	assert.NoError(t, err)

	consumer.HandleMessage(context.Background(), "key", payload)
	assert.Empty(t, analytics.Batches)
}

func TestPageUpdateConsumer_IgnoresMalformedPayload(t *testing.T) {
	analytics := &mocks.InMemoryAnalytics{}
	consumer := NewPageUpdateConsumer(analytics, zap.NewNop())

	consumer.HandleMessage(context.Background(), "key", []byte("{not json"))
	assert.Empty(t, analytics.Batches)
}

func TestPageUpdateConsumer_SkipsEmptyPages(t *testing.T) {
	analytics := &mocks.InMemoryAnalytics{}
	consumer := NewPageUpdateConsumer(analytics, zap.NewNop())

	consumer.HandleMessage(context.Background(), "key", pageUpdatedPayload(t))
	assert.Empty(t, analytics.Batches)
}

func TestPageUpdateConsumer_AnalyticsFailureIsNonFatal(t *testing.T) {
	analytics := &mocks.InMemoryAnalytics{Err: errors.New("clickhouse down")}
	consumer := NewPageUpdateConsumer(analytics, zap.NewNop())

	// No entra en pánico ni reintenta: el lote se descarta con un warning.
	consumer.HandleMessage(context.Background(), "key", pageUpdatedPayload(t, "a"))
	assert.Empty(t, analytics.Batches)
}
