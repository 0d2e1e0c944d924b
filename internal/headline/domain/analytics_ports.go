package domain

import (
	"context"
	"time"
)

// DailyHeadlineTrend agrega titulares emitidos por día.
type DailyHeadlineTrend struct {
	Day       time.Time
	Headlines int64
	Sources   int64
}

// HeadlineAnalytics registra lotes de titulares emitidos por el stream para
// su explotación analítica.
type HeadlineAnalytics interface {
	LogBatch(ctx context.Context, headlines []*Headline) error
	GetDailyTrend(ctx context.Context, start, end time.Time) ([]DailyHeadlineTrend, error)
}
