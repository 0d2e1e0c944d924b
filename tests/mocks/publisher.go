package mocks

import (
	"context"
	"sync"

	sharedBus "github.com/davicafu/newslab/internal/shared/platform/bus"
	"github.com/stretchr/testify/mock"
)

// MockPublisher simula un publisher con expectativas de testify.
type MockPublisher struct {
	mock.Mock
}

var _ sharedBus.EventBus = (*MockPublisher)(nil)

func (m *MockPublisher) Publish(ctx context.Context, event interface{}) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// RecordingPublisher guarda los eventos publicados para inspección directa.
type RecordingPublisher struct {
	mu     sync.Mutex
	Events []interface{}
	Err    error // si se fija, Publish falla
}

var _ sharedBus.EventBus = (*RecordingPublisher)(nil)

func (p *RecordingPublisher) Publish(ctx context.Context, event interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.Events = append(p.Events, event)
	return nil
}

func (p *RecordingPublisher) Published() []interface{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]interface{}, len(p.Events))
	copy(out, p.Events)
	return out
}
