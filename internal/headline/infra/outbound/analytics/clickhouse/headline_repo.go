package clickhouse

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	headlineDomain "github.com/davicafu/newslab/internal/headline/domain"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// HeadlineAnalyticsRepo implementa HeadlineAnalytics para ClickHouse.
type HeadlineAnalyticsRepo struct {
	db *sql.DB
}

// NewHeadlineAnalyticsRepo es el constructor.
func NewHeadlineAnalyticsRepo(addr string, dbName string) (*HeadlineAnalyticsRepo, error) {
	conn := clickhouse.OpenDB(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: dbName,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
	})

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("could not ping clickhouse: %w", err)
	}

	return &HeadlineAnalyticsRepo{db: conn}, nil
}

var _ headlineDomain.HeadlineAnalytics = (*HeadlineAnalyticsRepo)(nil)

// LogBatch inserta un lote de titulares emitidos. ClickHouse funciona mejor
// con inserciones en lotes, así que el lote completo va en una transacción.
func (r *HeadlineAnalyticsRepo) LogBatch(ctx context.Context, headlines []*headlineDomain.Headline) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO headlines_log (id, title, source, categories, event_countries, published_at, event_time)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	eventTime := time.Now()
	for _, h := range headlines {
		cats := make([]string, len(h.Categories))
		for i, c := range h.Categories {
			cats[i] = string(c)
		}
		countries := make([]string, len(h.EventCountries))
		for i, c := range h.EventCountries {
			countries[i] = string(c)
		}
		if _, err := stmt.ExecContext(
			ctx,
			h.ID,
			h.Title,
			string(h.Source),
			strings.Join(cats, ","),
			strings.Join(countries, ","),
			h.PublishedAt,
			eventTime,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to exec statement for headline %s: %w", h.ID, err)
		}
	}

	return tx.Commit()
}

// GetDailyTrend agrega los titulares emitidos por día dentro del rango.
func (r *HeadlineAnalyticsRepo) GetDailyTrend(ctx context.Context, start, end time.Time) ([]headlineDomain.DailyHeadlineTrend, error) {
	query := `
		SELECT
			toStartOfDay(event_time) AS day,
			count() AS headlines,
			uniqExact(source) AS sources
		FROM headlines_log
		WHERE event_time BETWEEN ? AND ?
		GROUP BY day
		ORDER BY day
	`
	rows, err := r.db.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily trend: %w", err)
	}
	defer rows.Close()

	var trends []headlineDomain.DailyHeadlineTrend
	for rows.Next() {
		var t headlineDomain.DailyHeadlineTrend
		if err := rows.Scan(&t.Day, &t.Headlines, &t.Sources); err != nil {
			return nil, err
		}
		trends = append(trends, t)
	}
	return trends, rows.Err()
}
