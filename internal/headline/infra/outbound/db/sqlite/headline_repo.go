package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	// _ "github.com/mattn/go-sqlite3" // better performance but requires gcc
	_ "modernc.org/sqlite"

	headlineDomain "github.com/davicafu/newslab/internal/headline/domain"
)

// HeadlineRepoSQLite implementa HeadlineDataSource sobre SQLite. Las
// referencias multivaluadas (categorías, países) se guardan como JSON y se
// filtran con json_each. Orden interno: published_at DESC, id DESC.
type HeadlineRepoSQLite struct {
	db *sql.DB
}

func NewHeadlineRepoSQLite(db *sql.DB) *HeadlineRepoSQLite {
	return &HeadlineRepoSQLite{db: db}
}

var _ headlineDomain.HeadlineDataSource = (*HeadlineRepoSQLite)(nil)

const headlineColumns = `id, title, description, url, image_url, source, categories, event_countries, published_at, created_at`

// ------------------ Helpers ------------------

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func scanHeadline(scanner interface{ Scan(...interface{}) error }) (*headlineDomain.Headline, error) {
	var h headlineDomain.Headline
	var idStr, catsJSON, countriesJSON string
	if err := scanner.Scan(&idStr, &h.Title, &h.Description, &h.URL, &h.ImageURL,
		&h.Source, &catsJSON, &countriesJSON, &h.PublishedAt, &h.CreatedAt); err != nil {
		return nil, err
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid headline id %q", idStr)
	}
	h.ID = id
	if err := json.Unmarshal([]byte(catsJSON), &h.Categories); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(countriesJSON), &h.EventCountries); err != nil {
		return nil, err
	}
	return &h, nil
}

// Traduce el filtro a cláusulas SQL: IN / json_each para el OR dentro de
// cada campo, AND entre campos.
func applyFilter(f headlineDomain.Filter, args []interface{}) ([]string, []interface{}) {
	var clauses []string
	for _, c := range f.ToConditions() {
		switch v := c.Value.(type) {
		case []headlineDomain.CategoryRef:
			clauses = append(clauses, fmt.Sprintf(
				"EXISTS (SELECT 1 FROM json_each(headlines.categories) WHERE json_each.value IN (%s))",
				placeholders(len(v))))
			for _, ref := range v {
				args = append(args, string(ref))
			}
		case []headlineDomain.SourceRef:
			clauses = append(clauses, fmt.Sprintf("source IN (%s)", placeholders(len(v))))
			for _, ref := range v {
				args = append(args, string(ref))
			}
		case []headlineDomain.CountryRef:
			clauses = append(clauses, fmt.Sprintf(
				"EXISTS (SELECT 1 FROM json_each(headlines.event_countries) WHERE json_each.value IN (%s))",
				placeholders(len(v))))
			for _, ref := range v {
				args = append(args, string(ref))
			}
		}
	}
	return clauses, args
}

// anchor resuelve la posición de orden del registro del cursor. Un cursor
// cuyo registro ya no existe devuelve ErrHeadlineNotFound en lugar de
// degradar silenciosamente a una página vacía.
func (r *HeadlineRepoSQLite) anchor(ctx context.Context, cursor uuid.UUID, kind error) (time.Time, string, error) {
	var publishedAt time.Time
	var id string
	err := r.db.QueryRowContext(ctx,
		"SELECT published_at, id FROM headlines WHERE id=?", cursor.String()).Scan(&publishedAt, &id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, "", headlineDomain.ErrHeadlineNotFound
		}
		return time.Time{}, "", fmt.Errorf("%w: %w", kind, err)
	}
	return publishedAt, id, nil
}

// ------------------ Lectura ------------------

func (r *HeadlineRepoSQLite) List(ctx context.Context, q headlineDomain.ListQuery) ([]*headlineDomain.Headline, error) {
	var args []interface{}
	clauses, args := applyFilter(q.Filter, args)

	if q.Cursor != nil {
		publishedAt, id, err := r.anchor(ctx, *q.Cursor, headlineDomain.ErrFetchFailed)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, "(published_at, id) < (?, ?)")
		args = append(args, publishedAt, id)
	}

	query := "SELECT " + headlineColumns + " FROM headlines"
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY published_at DESC, id DESC"
	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}

	return r.queryHeadlines(ctx, headlineDomain.ErrFetchFailed, query, args...)
}

func (r *HeadlineRepoSQLite) GetByID(ctx context.Context, id uuid.UUID) (*headlineDomain.Headline, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+headlineColumns+" FROM headlines WHERE id=?", id.String())

	h, err := scanHeadline(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, headlineDomain.ErrHeadlineNotFound
		}
		return nil, fmt.Errorf("%w: %w", headlineDomain.ErrFetchFailed, err)
	}
	return h, nil
}

func (r *HeadlineRepoSQLite) Search(ctx context.Context, text string, limit int, cursor *uuid.UUID) ([]*headlineDomain.Headline, error) {
	pattern := "%" + strings.ToLower(text) + "%"
	clauses := []string{"(LOWER(title) LIKE ? OR LOWER(description) LIKE ?)"}
	args := []interface{}{pattern, pattern}

	if cursor != nil {
		publishedAt, id, err := r.anchor(ctx, *cursor, headlineDomain.ErrSearchFailed)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, "(published_at, id) < (?, ?)")
		args = append(args, publishedAt, id)
	}

	query := "SELECT " + headlineColumns + " FROM headlines WHERE " + strings.Join(clauses, " AND ") +
		" ORDER BY published_at DESC, id DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	return r.queryHeadlines(ctx, headlineDomain.ErrSearchFailed, query, args...)
}

// queryHeadlines etiqueta cualquier fallo con el centinela de la operación
// que lo invoca, de modo que cada ruta lleve exactamente una familia.
func (r *HeadlineRepoSQLite) queryHeadlines(ctx context.Context, kind error, query string, args ...interface{}) ([]*headlineDomain.Headline, error) {
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

func (r *HeadlineRepoSQLite) Create(ctx context.Context, h *headlineDomain.Headline) (*headlineDomain.Headline, error) {
	catsJSON, _ := json.Marshal(h.Categories)
	countriesJSON, _ := json.Marshal(h.EventCountries)

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO headlines (id, title, description, url, image_url, source, categories, event_countries, published_at, created_at)
		 VALUES (?,?,?,?,?,?,?,?,?,?)`,
		h.ID.String(), h.Title, h.Description, h.URL, h.ImageURL, string(h.Source),
		string(catsJSON), string(countriesJSON), h.PublishedAt, h.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", headlineDomain.ErrCreateFailed, err)
	}
	return h, nil
}

func (r *HeadlineRepoSQLite) Update(ctx context.Context, h *headlineDomain.Headline) (*headlineDomain.Headline, error) {
	catsJSON, _ := json.Marshal(h.Categories)
	countriesJSON, _ := json.Marshal(h.EventCountries)

	res, err := r.db.ExecContext(ctx,
		`UPDATE headlines SET title=?, description=?, url=?, image_url=?, source=?,
		        categories=?, event_countries=?, published_at=?
		 WHERE id=?`,
		h.Title, h.Description, h.URL, h.ImageURL, string(h.Source),
		string(catsJSON), string(countriesJSON), h.PublishedAt, h.ID.String(),
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

func (r *HeadlineRepoSQLite) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM headlines WHERE id=?`, id.String())
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

func InitSQLite(db *sql.DB) error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS headlines (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		url TEXT NOT NULL,
		image_url TEXT NOT NULL DEFAULT '',
		source TEXT NOT NULL,
		categories TEXT NOT NULL DEFAULT '[]',
		event_countries TEXT NOT NULL DEFAULT '[]',
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
