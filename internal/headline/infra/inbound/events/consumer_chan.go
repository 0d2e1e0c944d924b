package events

import (
	"context"

	infraEvents "github.com/davicafu/newslab/internal/shared/infra/events"
)

// BackgroundConsumerChan consume eventos de un canal en memoria (bus local)
// y los entrega al handler hasta que el contexto se cancela.
func BackgroundConsumerChan(ctx context.Context, ch <-chan interface{}, handler infraEvents.MessageHandler) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-ch:
				if !ok {
					return
				}
				if payload, ok := evt.([]byte); ok {
					handler.HandleMessage(ctx, "", payload)
				}
			}
		}
	}()
}
