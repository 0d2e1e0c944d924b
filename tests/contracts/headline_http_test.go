package contracts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/davicafu/newslab/internal/headline/application"
	headlineDomain "github.com/davicafu/newslab/internal/headline/domain"
	headlineHTTP "github.com/davicafu/newslab/internal/headline/infra/inbound/http"
	"github.com/davicafu/newslab/tests/mocks"
)

// pageHTTPResponse define el contrato JSON de una página de titulares.
type pageHTTPResponse struct {
	Data struct {
		Items []struct {
			ID          string   `json:"id"`
			Title       string   `json:"title"`
			URL         string   `json:"url"`
			Source      string   `json:"source"`
			Categories  []string `json:"categories"`
			PublishedAt string   `json:"published_at"`
		} `json:"items"`
		Cursor  *string `json:"cursor"`
		HasMore bool    `json:"has_more"`
	} `json:"data"`
}

func setupRouter(t *testing.T) (*gin.Engine, *mocks.InMemoryHeadlineRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := mocks.NewInMemoryHeadlineRepo()
	service := application.NewHeadlineService(repo, zap.NewNop())
	handler := headlineHTTP.NewHeadlineHandler(service)

	router := gin.New()
	headlineHTTP.RegisterHeadlineRoutes(router, handler)
	return router, repo
}

func seedRepo(t *testing.T, repo *mocks.InMemoryHeadlineRepo, n int) []*headlineDomain.Headline {
	t.Helper()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	out := make([]*headlineDomain.Headline, n)
	for i := 0; i < n; i++ {
		h := &headlineDomain.Headline{
			ID:          uuid.New(),
			Title:       fmt.Sprintf("titular-%d", i),
			URL:         fmt.Sprintf("https://example.com/titular-%d", i),
			Source:      "bbc-news",
			Categories:  []headlineDomain.CategoryRef{"politics"},
			PublishedAt: base.Add(-time.Duration(i) * time.Hour),
			CreatedAt:   base,
		}
		_, err := repo.Create(context.Background(), h)
		assert.NoError(t, err)
		out[i] = h
	}
	return out
}

func TestListHeadlines_HTTPContract(t *testing.T) {
	router, repo := setupRouter(t)
	seeded := seedRepo(t, repo, 3)

	req := httptest.NewRequest(http.MethodGet, "/headlines/?limit=2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp pageHTTPResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Data.Items, 2)
	assert.True(t, resp.Data.HasMore)
	assert.NotNil(t, resp.Data.Cursor)
	assert.Equal(t, seeded[1].ID.String(), *resp.Data.Cursor)
	assert.Equal(t, seeded[0].Title, resp.Data.Items[0].Title)
	assert.Equal(t, []string{"politics"}, resp.Data.Items[0].Categories)

	// Segunda página vía cursor.
	req2 := httptest.NewRequest(http.MethodGet, "/headlines/?limit=2&cursor="+*resp.Data.Cursor, nil)
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)

	assert.Equal(t, http.StatusOK, rec2.Code)
	var resp2 pageHTTPResponse
	assert.NoError(t, json.Unmarshal(rec2.Body.Bytes(), &resp2))
	assert.Len(t, resp2.Data.Items, 1)
	assert.False(t, resp2.Data.HasMore)
	assert.Equal(t, seeded[2].ID.String(), resp2.Data.Items[0].ID)
}

func TestListHeadlines_FilterQueryParams(t *testing.T) {
	router, repo := setupRouter(t)
	seeded := seedRepo(t, repo, 2)

	other := &headlineDomain.Headline{
		ID:          uuid.New(),
		Title:       "deportes",
		URL:         "https://example.com/deportes",
		Source:      "el-pais",
		Categories:  []headlineDomain.CategoryRef{"sports"},
		PublishedAt: time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC),
		CreatedAt:   time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC),
	}
	_, err := repo.Create(context.Background(), other)
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet,
		"/headlines/?categories=politics,economy&sources=bbc-news", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp pageHTTPResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Data.Items, 2)
	assert.Equal(t, seeded[0].ID.String(), resp.Data.Items[0].ID)
}

func TestListHeadlines_InvalidCursor(t *testing.T) {
	router, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/headlines/?cursor=not-a-uuid", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid cursor")
}

func TestGetHeadline_HTTPContract(t *testing.T) {
	router, repo := setupRouter(t)
	seeded := seedRepo(t, repo, 1)

	req := httptest.NewRequest(http.MethodGet, "/headlines/"+seeded[0].ID.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), seeded[0].Title)

	// No existente → 404 con mensaje estándar.
	req2 := httptest.NewRequest(http.MethodGet, "/headlines/"+uuid.NewString(), nil)
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)

	assert.Equal(t, http.StatusNotFound, rec2.Code)
	assert.Contains(t, rec2.Body.String(), "headline not found")
}

func TestCreateHeadline_HTTPContract(t *testing.T) {
	router, repo := setupRouter(t)

	body, _ := json.Marshal(map[string]interface{}{
		"title":        "nuevo titular",
		"url":          "https://example.com/nuevo",
		"source":       "bbc-news",
		"categories":   []string{"politics"},
		"published_at": "2024-03-01T12:00:00Z",
	})
	req := httptest.NewRequest(http.MethodPost, "/headlines/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Len(t, repo.Headlines, 1)

	// Sin título → 400 por binding.
	bad, _ := json.Marshal(map[string]interface{}{
		"url":    "https://example.com/sin-titulo",
		"source": "bbc-news",
	})
	req2 := httptest.NewRequest(http.MethodPost, "/headlines/", bytes.NewReader(bad))
	req2.Header.Set("Content-Type", "application/json")
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)

	assert.Equal(t, http.StatusBadRequest, rec2.Code)
}

func TestDeleteHeadline_HTTPContract(t *testing.T) {
	router, repo := setupRouter(t)
	seeded := seedRepo(t, repo, 1)

	req := httptest.NewRequest(http.MethodDelete, "/headlines/"+seeded[0].ID.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, repo.Headlines)
}

func TestSearchHeadlines_HTTPContract(t *testing.T) {
	router, repo := setupRouter(t)
	seedRepo(t, repo, 3)

	req := httptest.NewRequest(http.MethodGet, "/headlines/search?q=titular-1&limit=5", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp pageHTTPResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Data.Items, 1)
	assert.Equal(t, "titular-1", resp.Data.Items[0].Title)
}
