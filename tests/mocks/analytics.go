package mocks

import (
	"context"
	"sync"
	"time"

	headlineDomain "github.com/davicafu/newslab/internal/headline/domain"
)

// InMemoryAnalytics acumula los lotes registrados, para verificar el
// consumidor de páginas sin ClickHouse.
type InMemoryAnalytics struct {
	mu      sync.Mutex
	Batches [][]*headlineDomain.Headline
	Err     error
}

var _ headlineDomain.HeadlineAnalytics = (*InMemoryAnalytics)(nil)

func (a *InMemoryAnalytics) LogBatch(ctx context.Context, headlines []*headlineDomain.Headline) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Err != nil {
		return a.Err
	}
	a.Batches = append(a.Batches, headlines)
	return nil
}

func (a *InMemoryAnalytics) GetDailyTrend(ctx context.Context, start, end time.Time) ([]headlineDomain.DailyHeadlineTrend, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	count := int64(0)
	sources := map[headlineDomain.SourceRef]struct{}{}
	for _, batch := range a.Batches {
		for _, h := range batch {
			count++
			sources[h.Source] = struct{}{}
		}
	}
	if count == 0 {
		return nil, nil
	}
	return []headlineDomain.DailyHeadlineTrend{{
		Day:       start,
		Headlines: count,
		Sources:   int64(len(sources)),
	}}, nil
}
