package relayer

import (
	"context"

	"go.uber.org/zap"

	"github.com/davicafu/newslab/internal/headline/application"
	headlineDomain "github.com/davicafu/newslab/internal/headline/domain"
	sharedEvents "github.com/davicafu/newslab/internal/shared/events"
	sharedBus "github.com/davicafu/newslab/internal/shared/platform/bus"
)

// StreamRelayer consume un PageStream y re-publica cada página nueva como
// evento de integración en el bus. Convierte el feed de polling en eventos
// para los consumidores downstream (analítica, notificaciones...).
type StreamRelayer struct {
	stream    *application.PageStream
	publisher sharedBus.EventBus
	log       *zap.Logger
}

func NewStreamRelayer(stream *application.PageStream, publisher sharedBus.EventBus, log *zap.Logger) *StreamRelayer {
	return &StreamRelayer{
		stream:    stream,
		publisher: publisher,
		log:       log,
	}
}

// Run consume el stream hasta que termina y devuelve su fallo terminal, o nil
// si el stream se detuvo por cancelación del contexto.
func (r *StreamRelayer) Run(ctx context.Context) error {
	r.log.Info("🚀 Stream relayer iniciado")

	for page := range r.stream.Start(ctx) {
		evt, err := sharedEvents.NewIntegrationEvent(headlineDomain.PageUpdated, page)
		if err != nil {
			r.log.Warn("⚠️ No se pudo serializar la página", zap.Error(err))
			continue
		}

		if err := r.publisher.Publish(ctx, evt); err != nil {
			r.log.Warn("⚠️ No se pudo publicar la página", zap.Error(err))
			continue
		}

		r.log.Info("✅ Página publicada",
			zap.Int("items", len(page.Items)),
			zap.Bool("has_more", page.HasMore),
		)
	}

	if err := r.stream.Err(); err != nil {
		r.log.Error("Stream terminado con fallo", zap.Error(err))
		return err
	}

	r.log.Info("🛑 Stream relayer detenido.")
	return nil
}
