package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/davicafu/newslab/internal/headline/application"
	"github.com/davicafu/newslab/internal/headline/domain"
	"github.com/davicafu/newslab/pkg/utils"
)

// HeadlineHandler encapsula los endpoints HTTP relacionados con titulares.
type HeadlineHandler struct {
	service *application.HeadlineService
}

// NewHeadlineHandler crea un nuevo HeadlineHandler
func NewHeadlineHandler(service *application.HeadlineService) *HeadlineHandler {
	return &HeadlineHandler{service: service}
}

// ---------------- Helpers ----------------

func splitRefs[T ~string](raw string) []T {
	if raw == "" {
		return nil
	}
	var refs []T
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			refs = append(refs, T(part))
		}
	}
	return refs
}

func parseCursor(c *gin.Context) (*uuid.UUID, bool) {
	raw := c.Query("cursor")
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		utils.SendBadRequest(c, "invalid cursor")
		return nil, false
	}
	return &id, true
}

func parseLimit(c *gin.Context) int {
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return 0
}

// ---------------- Handlers ----------------

// ListHeadlines endpoint GET /headlines
// Query params: limit, cursor, categories, sources, countries (listas separadas por comas).
func (h *HeadlineHandler) ListHeadlines(c *gin.Context) {
	cursor, ok := parseCursor(c)
	if !ok {
		return
	}

	req := domain.PageRequest{
		Limit:  parseLimit(c),
		Cursor: cursor,
		Filter: domain.Filter{
			Categories:     splitRefs[domain.CategoryRef](c.Query("categories")),
			Sources:        splitRefs[domain.SourceRef](c.Query("sources")),
			EventCountries: splitRefs[domain.CountryRef](c.Query("countries")),
		},
	}

	page, err := h.service.FetchPage(c.Request.Context(), req)
	if err != nil {
		utils.SendInternalServerError(c, err.Error())
		return
	}

	utils.SendSuccess(c, http.StatusOK, page)
}

// GetHeadline endpoint GET /headlines/:id
func (h *HeadlineHandler) GetHeadline(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.SendBadRequest(c, "invalid headline id")
		return
	}

	headline, err := h.service.GetHeadline(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrHeadlineNotFound) {
			utils.SendNotFound(c, "headline not found")
			return
		}
		utils.SendInternalServerError(c, err.Error())
		return
	}

	utils.SendSuccess(c, http.StatusOK, headline)
}

type headlineRequest struct {
	Title          string   `json:"title" binding:"required"`
	Description    string   `json:"description"`
	URL            string   `json:"url" binding:"required,url"`
	ImageURL       string   `json:"image_url"`
	Source         string   `json:"source" binding:"required"`
	Categories     []string `json:"categories"`
	EventCountries []string `json:"event_countries"`
	PublishedAt    string   `json:"published_at" binding:"required"` // RFC3339
}

func (req headlineRequest) toDomain(id uuid.UUID, createdAt time.Time) (*domain.Headline, error) {
	publishedAt, err := time.Parse(time.RFC3339, req.PublishedAt)
	if err != nil {
		return nil, err
	}

	var cats []domain.CategoryRef
	for _, c := range req.Categories {
		cats = append(cats, domain.CategoryRef(c))
	}
	var countries []domain.CountryRef
	for _, c := range req.EventCountries {
		countries = append(countries, domain.CountryRef(c))
	}

	return &domain.Headline{
		ID:             id,
		Title:          req.Title,
		Description:    req.Description,
		URL:            req.URL,
		ImageURL:       req.ImageURL,
		Source:         domain.SourceRef(req.Source),
		Categories:     cats,
		EventCountries: countries,
		PublishedAt:    publishedAt.UTC(),
		CreatedAt:      createdAt,
	}, nil
}

// CreateHeadline endpoint POST /headlines
func (h *HeadlineHandler) CreateHeadline(c *gin.Context) {
	var req headlineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	headline, err := req.toDomain(uuid.New(), time.Now().UTC())
	if err != nil {
		utils.SendBadRequest(c, "invalid published_at format, use RFC3339")
		return
	}

	created, err := h.service.CreateHeadline(c.Request.Context(), headline)
	if err != nil {
		utils.SendInternalServerError(c, err.Error())
		return
	}

	utils.SendSuccess(c, http.StatusCreated, created)
}

// UpdateHeadline endpoint PUT /headlines/:id
func (h *HeadlineHandler) UpdateHeadline(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.SendBadRequest(c, "invalid headline id")
		return
	}

	var req headlineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	current, err := h.service.GetHeadline(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrHeadlineNotFound) {
			utils.SendNotFound(c, "headline not found")
			return
		}
		utils.SendInternalServerError(c, err.Error())
		return
	}

	headline, err := req.toDomain(id, current.CreatedAt)
	if err != nil {
		utils.SendBadRequest(c, "invalid published_at format, use RFC3339")
		return
	}

	updated, err := h.service.UpdateHeadline(c.Request.Context(), headline)
	if err != nil {
		if errors.Is(err, domain.ErrHeadlineNotFound) {
			utils.SendNotFound(c, "headline not found")
			return
		}
		utils.SendInternalServerError(c, err.Error())
		return
	}

	utils.SendSuccess(c, http.StatusOK, updated)
}

// DeleteHeadline endpoint DELETE /headlines/:id
func (h *HeadlineHandler) DeleteHeadline(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.SendBadRequest(c, "invalid headline id")
		return
	}

	if err := h.service.DeleteHeadline(c.Request.Context(), id); err != nil {
		if errors.Is(err, domain.ErrHeadlineNotFound) {
			utils.SendNotFound(c, "headline not found")
			return
		}
		utils.SendInternalServerError(c, err.Error())
		return
	}

	utils.SendNoContent(c)
}

// SearchHeadlines endpoint GET /headlines/search?q=...
func (h *HeadlineHandler) SearchHeadlines(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		utils.SendBadRequest(c, "missing query parameter 'q'")
		return
	}

	cursor, ok := parseCursor(c)
	if !ok {
		return
	}

	page, err := h.service.SearchHeadlines(c.Request.Context(), query, parseLimit(c), cursor)
	if err != nil {
		utils.SendInternalServerError(c, err.Error())
		return
	}

	utils.SendSuccess(c, http.StatusOK, page)
}
