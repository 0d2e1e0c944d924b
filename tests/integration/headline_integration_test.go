package integration

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	headlineDomain "github.com/davicafu/newslab/internal/headline/domain"
	"github.com/davicafu/newslab/internal/headline/infra/outbound/db/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	_ "modernc.org/sqlite"
)

func setupHeadlineDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite", ":memory:")
	assert.NoError(t, err)
	assert.NoError(t, sqlite.InitSQLite(db))
	return db
}

func makeHeadline(title string, publishedAt time.Time, categories []headlineDomain.CategoryRef, source headlineDomain.SourceRef, countries []headlineDomain.CountryRef) *headlineDomain.Headline {
	return &headlineDomain.Headline{
		ID:             uuid.New(),
		Title:          title,
		Description:    "descripción de " + title,
		URL:            "https://example.com/" + title,
		Source:         source,
		Categories:     categories,
		EventCountries: countries,
		PublishedAt:    publishedAt,
		CreatedAt:      publishedAt,
	}
}

func TestHeadlineSQLiteIntegration_CreateGetUpdateDelete(t *testing.T) {
	db := setupHeadlineDB(t)
	defer db.Close()

	repo := sqlite.NewHeadlineRepoSQLite(db)
	ctx := context.Background()

	h := makeHeadline("titular", time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		[]headlineDomain.CategoryRef{"politics"}, "bbc-news", []headlineDomain.CountryRef{"es"})

	// Crear
	created, err := repo.Create(ctx, h)
	assert.NoError(t, err)
	assert.Equal(t, h.ID, created.ID)

	// Obtener
	got, err := repo.GetByID(ctx, h.ID)
	assert.NoError(t, err)
	assert.Equal(t, h.Title, got.Title)
	assert.Equal(t, h.Categories, got.Categories)
	assert.Equal(t, h.EventCountries, got.EventCountries)
	assert.True(t, h.PublishedAt.Equal(got.PublishedAt))

	// Actualizar
	got.Title = "titular actualizado"
	_, err = repo.Update(ctx, got)
	assert.NoError(t, err)
	again, err := repo.GetByID(ctx, h.ID)
	assert.NoError(t, err)
	assert.Equal(t, "titular actualizado", again.Title)

	// Eliminar
	assert.NoError(t, repo.Delete(ctx, h.ID))
	_, err = repo.GetByID(ctx, h.ID)
	assert.ErrorIs(t, err, headlineDomain.ErrHeadlineNotFound)
}

func TestHeadlineSQLiteIntegration_UpdateAndDeleteMissing(t *testing.T) {
	db := setupHeadlineDB(t)
	defer db.Close()

	repo := sqlite.NewHeadlineRepoSQLite(db)
	ctx := context.Background()

	ghost := makeHeadline("fantasma", time.Now().UTC(), nil, "bbc-news", nil)
	_, err := repo.Update(ctx, ghost)
	assert.ErrorIs(t, err, headlineDomain.ErrHeadlineNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, uuid.New()), headlineDomain.ErrHeadlineNotFound)
}

func TestHeadlineSQLiteIntegration_CursorPagination(t *testing.T) {
	db := setupHeadlineDB(t)
	defer db.Close()

	repo := sqlite.NewHeadlineRepoSQLite(db)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	var seeded []*headlineDomain.Headline
	for i := 0; i < 5; i++ {
		h := makeHeadline(fmt.Sprintf("titular-%d", i), base.Add(-time.Duration(i)*time.Hour),
			nil, "bbc-news", nil)
		_, err := repo.Create(ctx, h)
		assert.NoError(t, err)
		seeded = append(seeded, h)
	}

	// Primera página: los dos más recientes.
	page1, err := repo.List(ctx, headlineDomain.ListQuery{Limit: 2})
	assert.NoError(t, err)
	assert.Len(t, page1, 2)
	assert.Equal(t, seeded[0].ID, page1[0].ID)
	assert.Equal(t, seeded[1].ID, page1[1].ID)

	// Segunda página: estrictamente después del cursor.
	cursor := page1[1].ID
	page2, err := repo.List(ctx, headlineDomain.ListQuery{Limit: 2, Cursor: &cursor})
	assert.NoError(t, err)
	assert.Len(t, page2, 2)
	assert.Equal(t, seeded[2].ID, page2[0].ID)
	assert.Equal(t, seeded[3].ID, page2[1].ID)

	// Última página parcial.
	cursor = page2[1].ID
	page3, err := repo.List(ctx, headlineDomain.ListQuery{Limit: 2, Cursor: &cursor})
	assert.NoError(t, err)
	assert.Len(t, page3, 1)
	assert.Equal(t, seeded[4].ID, page3[0].ID)
}

func TestHeadlineSQLiteIntegration_DeletedCursorAnchor(t *testing.T) {
	db := setupHeadlineDB(t)
	defer db.Close()

	repo := sqlite.NewHeadlineRepoSQLite(db)
	ctx := context.Background()

	h := makeHeadline("titular", time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), nil, "bbc-news", nil)
	_, err := repo.Create(ctx, h)
	assert.NoError(t, err)

	// Un cursor cuyo registro ya no existe no degrada a página vacía:
	// el data source lo señala con ErrHeadlineNotFound.
	ghost := uuid.New()
	_, err = repo.List(ctx, headlineDomain.ListQuery{Limit: 2, Cursor: &ghost})
	assert.ErrorIs(t, err, headlineDomain.ErrHeadlineNotFound)

	_, err = repo.Search(ctx, "titular", 2, &ghost)
	assert.ErrorIs(t, err, headlineDomain.ErrHeadlineNotFound)
}

func TestHeadlineSQLiteIntegration_OneErrorKindPerOperation(t *testing.T) {
	db := setupHeadlineDB(t)
	repo := sqlite.NewHeadlineRepoSQLite(db)
	ctx := context.Background()

	// Cerrar la conexión fuerza el fallo de cualquier consulta posterior.
	assert.NoError(t, db.Close())

	_, err := repo.List(ctx, headlineDomain.ListQuery{Limit: 2})
	assert.ErrorIs(t, err, headlineDomain.ErrFetchFailed)
	assert.NotErrorIs(t, err, headlineDomain.ErrSearchFailed)

	_, err = repo.Search(ctx, "titular", 2, nil)
	assert.ErrorIs(t, err, headlineDomain.ErrSearchFailed)
	assert.NotErrorIs(t, err, headlineDomain.ErrFetchFailed)
}

func TestHeadlineSQLiteIntegration_CompoundFilter(t *testing.T) {
	db := setupHeadlineDB(t)
	defer db.Close()

	repo := sqlite.NewHeadlineRepoSQLite(db)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	matching := makeHeadline("economia-bbc", base,
		[]headlineDomain.CategoryRef{"economy", "markets"}, "bbc-news", []headlineDomain.CountryRef{"gb"})
	wrongSource := makeHeadline("economia-otro", base.Add(-time.Hour),
		[]headlineDomain.CategoryRef{"economy"}, "el-pais", []headlineDomain.CountryRef{"es"})
	wrongCategory := makeHeadline("deportes-bbc", base.Add(-2*time.Hour),
		[]headlineDomain.CategoryRef{"sports"}, "bbc-news", []headlineDomain.CountryRef{"gb"})

	for _, h := range []*headlineDomain.Headline{matching, wrongSource, wrongCategory} {
		_, err := repo.Create(ctx, h)
		assert.NoError(t, err)
	}

	// OR dentro del campo: basta con una categoría en común.
	byCategory, err := repo.List(ctx, headlineDomain.ListQuery{Filter: headlineDomain.Filter{
		Categories: []headlineDomain.CategoryRef{"markets", "politics"},
	}})
	assert.NoError(t, err)
	assert.Len(t, byCategory, 1)
	assert.Equal(t, matching.ID, byCategory[0].ID)

	// AND entre campos: categoría y fuente a la vez.
	combined, err := repo.List(ctx, headlineDomain.ListQuery{Filter: headlineDomain.Filter{
		Categories: []headlineDomain.CategoryRef{"economy"},
		Sources:    []headlineDomain.SourceRef{"bbc-news"},
	}})
	assert.NoError(t, err)
	assert.Len(t, combined, 1)
	assert.Equal(t, matching.ID, combined[0].ID)

	// Filtro por países del evento.
	byCountry, err := repo.List(ctx, headlineDomain.ListQuery{Filter: headlineDomain.Filter{
		EventCountries: []headlineDomain.CountryRef{"es"},
	}})
	assert.NoError(t, err)
	assert.Len(t, byCountry, 1)
	assert.Equal(t, wrongSource.ID, byCountry[0].ID)
}

func TestHeadlineSQLiteIntegration_Search(t *testing.T) {
	db := setupHeadlineDB(t)
	defer db.Close()

	repo := sqlite.NewHeadlineRepoSQLite(db)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	h1 := makeHeadline("Elecciones generales", base, nil, "el-pais", nil)
	h2 := makeHeadline("Resultados ELECCIONES locales", base.Add(-time.Hour), nil, "bbc-news", nil)
	h3 := makeHeadline("Liga de campeones", base.Add(-2*time.Hour), nil, "bbc-news", nil)

	for _, h := range []*headlineDomain.Headline{h1, h2, h3} {
		_, err := repo.Create(ctx, h)
		assert.NoError(t, err)
	}

	// Búsqueda sin distinción de mayúsculas, ordenada por publicación.
	found, err := repo.Search(ctx, "elecciones", 10, nil)
	assert.NoError(t, err)
	assert.Len(t, found, 2)
	assert.Equal(t, h1.ID, found[0].ID)
	assert.Equal(t, h2.ID, found[1].ID)

	// Paginada con cursor.
	cursor := found[0].ID
	rest, err := repo.Search(ctx, "elecciones", 10, &cursor)
	assert.NoError(t, err)
	assert.Len(t, rest, 1)
	assert.Equal(t, h2.ID, rest[0].ID)
}
