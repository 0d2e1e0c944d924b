package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	headlineDomain "github.com/davicafu/newslab/internal/headline/domain"
	sharedUtils "github.com/davicafu/newslab/internal/shared/infra/utils"
	sharedQuery "github.com/davicafu/newslab/internal/shared/platform/query"
	"github.com/google/uuid"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// HeadlineRepoPostgres implementa HeadlineDataSource sobre Postgres.
// Orden interno: published_at DESC, id DESC (estable entre llamadas).
type HeadlineRepoPostgres struct {
	db *sql.DB
}

func NewHeadlineRepoPostgres(db *sql.DB) *HeadlineRepoPostgres {
	return &HeadlineRepoPostgres{db: db}
}

var _ headlineDomain.HeadlineDataSource = (*HeadlineRepoPostgres)(nil)

const headlineColumns = `id, title, description, url, image_url, source, categories, event_countries, published_at, created_at`

// Orden del feed; el empate se resuelve por id en la misma dirección.
var feedSort = sharedQuery.Sort{Field: "published_at", Desc: true}

func orderBy(sort sharedQuery.Sort) string {
	dir := sharedUtils.Ternary(sort.Desc, "DESC", "ASC")
	return fmt.Sprintf(" ORDER BY %s %s, id %s", sort.Field, dir, dir)
}

// ------------------ Helpers de mapeo ------------------

func refsToStrings[T ~string](refs []T) []string {
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = string(r)
	}
	return out
}

func scanHeadline(scanner interface{ Scan(...interface{}) error }) (*headlineDomain.Headline, error) {
	var h headlineDomain.Headline
	var idStr string
	var catsJSON, countriesJSON []byte
	if err := scanner.Scan(&idStr, &h.Title, &h.Description, &h.URL, &h.ImageURL,
		&h.Source, &catsJSON, &countriesJSON, &h.PublishedAt, &h.CreatedAt); err != nil {
		return nil, err
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid headline id %q", idStr)
	}
	h.ID = id
	if err := json.Unmarshal(catsJSON, &h.Categories); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(countriesJSON, &h.EventCountries); err != nil {
		return nil, err
	}
	return &h, nil
}

// Traduce el filtro compuesto a SQL: OR dentro de cada campo (?| / ANY),
// AND entre campos (concatenación de cláusulas WHERE).
func (r *HeadlineRepoPostgres) applyFilter(f headlineDomain.Filter, args []interface{}) ([]string, []interface{}) {
	var clauses []string
	for _, c := range f.ToConditions() {
		switch v := c.Value.(type) {
		case []headlineDomain.CategoryRef:
			args = append(args, refsToStrings(v))
			clauses = append(clauses, fmt.Sprintf("categories ?| $%d", len(args)))
		case []headlineDomain.SourceRef:
			args = append(args, refsToStrings(v))
			clauses = append(clauses, fmt.Sprintf("source = ANY($%d)", len(args)))
		case []headlineDomain.CountryRef:
			args = append(args, refsToStrings(v))
			clauses = append(clauses, fmt.Sprintf("event_countries ?| $%d", len(args)))
		}
	}
	return clauses, args
}

// anchor resuelve la posición de orden del registro del cursor. Un cursor
// cuyo registro ya no existe devuelve ErrHeadlineNotFound en lugar de
// degradar silenciosamente a una página vacía.
func (r *HeadlineRepoPostgres) anchor(ctx context.Context, cursor uuid.UUID, kind error) (time.Time, string, error) {
	var publishedAt time.Time
	var id string
	err := r.db.QueryRowContext(ctx,
		"SELECT published_at, id FROM headlines WHERE id=$1", cursor.String()).Scan(&publishedAt, &id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, "", headlineDomain.ErrHeadlineNotFound
		}
		return time.Time{}, "", fmt.Errorf("%w: %w", kind, err)
	}
	return publishedAt, id, nil
}

// ------------------ Lectura ------------------

func (r *HeadlineRepoPostgres) List(ctx context.Context, q headlineDomain.ListQuery) ([]*headlineDomain.Headline, error) {
	var args []interface{}
	clauses, args := r.applyFilter(q.Filter, args)

	// Cursor: estrictamente después del registro indicado según el orden
	// (published_at, id) DESC.
	if q.Cursor != nil {
		publishedAt, id, err := r.anchor(ctx, *q.Cursor, headlineDomain.ErrFetchFailed)
		if err != nil {
			return nil, err
		}
		args = append(args, publishedAt, id)
		clauses = append(clauses, fmt.Sprintf(
			"(published_at, id) < ($%d, $%d)", len(args)-1, len(args)))
	}

	query := "SELECT " + headlineColumns + " FROM headlines"
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += orderBy(feedSort)
	if q.Limit > 0 {
		args = append(args, q.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	return r.queryHeadlines(ctx, headlineDomain.ErrFetchFailed, query, args...)
}

func (r *HeadlineRepoPostgres) GetByID(ctx context.Context, id uuid.UUID) (*headlineDomain.Headline, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+headlineColumns+" FROM headlines WHERE id=$1", id.String())

	h, err := scanHeadline(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, headlineDomain.ErrHeadlineNotFound
		}
		return nil, fmt.Errorf("%w: %w", headlineDomain.ErrFetchFailed, err)
	}
	return h, nil
}

func (r *HeadlineRepoPostgres) Search(ctx context.Context, text string, limit int, cursor *uuid.UUID) ([]*headlineDomain.Headline, error) {
	args := []interface{}{"%" + strings.ToLower(text) + "%"}
	clauses := []string{"(LOWER(title) LIKE $1 OR LOWER(description) LIKE $1)"}

	if cursor != nil {
		publishedAt, id, err := r.anchor(ctx, *cursor, headlineDomain.ErrSearchFailed)
		if err != nil {
			return nil, err
		}
		args = append(args, publishedAt, id)
		clauses = append(clauses, fmt.Sprintf(
			"(published_at, id) < ($%d, $%d)", len(args)-1, len(args)))
	}

	query := "SELECT " + headlineColumns + " FROM headlines WHERE " + strings.Join(clauses, " AND ") +
		orderBy(feedSort)
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	return r.queryHeadlines(ctx, headlineDomain.ErrSearchFailed, query, args...)
}

// queryHeadlines etiqueta cualquier fallo con el centinela de la operación
// que lo invoca, de modo que cada ruta lleve exactamente una familia.
func (r *HeadlineRepoPostgres) queryHeadlines(ctx context.Context, kind error, query string, args ...interface{}) ([]*headlineDomain.Headline, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", kind, err)
	}
	defer rows.Close()

	var headlines []*headlineDomain.Headline
	for rows.Next() {
		h, err := scanHeadline(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", kind, err)
		}
		headlines = append(headlines, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", kind, err)
	}
	return headlines, nil
}

// ------------------ Escritura ------------------

func (r *HeadlineRepoPostgres) Create(ctx context.Context, h *headlineDomain.Headline) (*headlineDomain.Headline, error) {
	catsJSON, _ := json.Marshal(h.Categories)
	countriesJSON, _ := json.Marshal(h.EventCountries)

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO headlines (id, title, description, url, image_url, source, categories, event_countries, published_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		h.ID.String(), h.Title, h.Description, h.URL, h.ImageURL, string(h.Source),
		catsJSON, countriesJSON, h.PublishedAt, h.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", headlineDomain.ErrCreateFailed, err)
	}
	return h, nil
}

func (r *HeadlineRepoPostgres) Update(ctx context.Context, h *headlineDomain.Headline) (*headlineDomain.Headline, error) {
	catsJSON, _ := json.Marshal(h.Categories)
	countriesJSON, _ := json.Marshal(h.EventCountries)

	res, err := r.db.ExecContext(ctx,
		`UPDATE headlines SET title=$1, description=$2, url=$3, image_url=$4, source=$5,
		        categories=$6, event_countries=$7, published_at=$8
		 WHERE id=$9`,
		h.Title, h.Description, h.URL, h.ImageURL, string(h.Source),
		catsJSON, countriesJSON, h.PublishedAt, h.ID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", headlineDomain.ErrUpdateFailed, err)
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return nil, headlineDomain.ErrHeadlineNotFound
	}
	return h, nil
}

func (r *HeadlineRepoPostgres) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM headlines WHERE id=$1`, id.String())
	if err != nil {
		return fmt.Errorf("%w: %w", headlineDomain.ErrDeleteFailed, err)
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return headlineDomain.ErrHeadlineNotFound
	}
	return nil
}

// ------------------ Inicialización ------------------

func InitPostgres(db *sql.DB) error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS headlines (
		id UUID PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		url TEXT NOT NULL,
		image_url TEXT NOT NULL DEFAULT '',
		source TEXT NOT NULL,
		categories JSONB NOT NULL DEFAULT '[]',
		event_countries JSONB NOT NULL DEFAULT '[]',
		published_at TIMESTAMP NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
	CREATE INDEX IF NOT EXISTS idx_headlines_order ON headlines (published_at DESC, id DESC)`)
	return err
}
