package events

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/segmentio/kafka-go"

	sharedUtils "github.com/davicafu/newslab/internal/shared/infra/utils"
	sharedBus "github.com/davicafu/newslab/internal/shared/platform/bus"
)

type KafkaPublisher struct {
	writer *kafka.Writer
	log    *zap.Logger
}

func NewKafkaPublisher(writer *kafka.Writer, log *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: writer, log: log}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	var key []byte
	if keyer, ok := event.(sharedBus.Keyer); ok {
		key = []byte(keyer.PartitionKey())
	}

	msg := kafka.Message{
		Key:   key,
		Value: data,
	}

	// Reintentos cortos ante fallos transitorios del broker.
	if err := sharedUtils.Retry(ctx, 3, 500*time.Millisecond, func() error {
		return p.writer.WriteMessages(ctx, msg)
	}); err != nil {
		p.log.Error("Error publicando en Kafka", zap.Error(err))
		return err
	}

	p.log.Debug("Evento publicado correctamente", zap.Any("event", event))
	return nil
}

// Verificación estática
var _ sharedBus.EventBus = (*KafkaPublisher)(nil)
