package events

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	headlineDomain "github.com/davicafu/newslab/internal/headline/domain"
	sharedEvents "github.com/davicafu/newslab/internal/shared/events"
	sharedUtils "github.com/davicafu/newslab/internal/shared/infra/utils"
)

// PageUpdateConsumer procesa eventos de página emitidos por el relayer y
// vuelca los titulares al almacén analítico.
type PageUpdateConsumer struct {
	analytics headlineDomain.HeadlineAnalytics
	log       *zap.Logger
}

func NewPageUpdateConsumer(analytics headlineDomain.HeadlineAnalytics, log *zap.Logger) *PageUpdateConsumer {
	return &PageUpdateConsumer{
		analytics: analytics,
		log:       log,
	}
}

func (c *PageUpdateConsumer) HandleMessage(ctx context.Context, key string, payload []byte) {
	var base sharedEvents.IntegrationEvent
	if err := json.Unmarshal(payload, &base); err != nil {
		c.log.Warn("Failed to unmarshal integration event", zap.String("key", key), zap.Error(err))
		return
	}

	switch base.Type {
	case headlineDomain.PageUpdated:
		sharedUtils.UnmarshalAndHandle[headlineDomain.Page](c.log, base.Data, func(page headlineDomain.Page) {
			if len(page.Items) == 0 {
				return
			}
			if err := c.analytics.LogBatch(ctx, page.Items); err != nil {
				c.log.Warn("⚠️ No se pudo registrar el lote en analítica", zap.Error(err))
				return
			}
			c.log.Debug("Lote registrado en analítica", zap.Int("items", len(page.Items)))
		})
	default:
		c.log.Debug("Tipo de evento ignorado", zap.String("type", base.Type))
	}
}
