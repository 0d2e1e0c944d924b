package domain

import (
	"time"

	sharedBus "github.com/davicafu/newslab/internal/shared/platform/bus"
	"github.com/google/uuid"
)

// ---------- Referencias de filtrado ----------

// CategoryRef identifica una categoría editorial (ej. "politics", "tech").
type CategoryRef string

// SourceRef identifica un medio de origen (ej. "bbc-news").
type SourceRef string

// CountryRef es un código de país ISO-3166 alpha-2 en minúsculas (ej. "es").
type CountryRef string

// ---------- Entidad ----------

// Headline representa un titular de noticias. El ID es estable y se usa
// como cursor de paginación.
type Headline struct {
	ID             uuid.UUID     `json:"id"`
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	URL            string        `json:"url"`
	ImageURL       string        `json:"image_url"`
	Source         SourceRef     `json:"source"`
	Categories     []CategoryRef `json:"categories"`
	EventCountries []CountryRef  `json:"event_countries"`
	PublishedAt    time.Time     `json:"published_at"`
	CreatedAt      time.Time     `json:"created_at"`
}

func (h *Headline) PartitionKey() string {
	return h.ID.String()
}

// Equal compara todos los campos del titular (igualdad estructural).
func (h *Headline) Equal(other *Headline) bool {
	if h == nil || other == nil {
		return h == other
	}
	if h.ID != other.ID ||
		h.Title != other.Title ||
		h.Description != other.Description ||
		h.URL != other.URL ||
		h.ImageURL != other.ImageURL ||
		h.Source != other.Source ||
		!h.PublishedAt.Equal(other.PublishedAt) ||
		!h.CreatedAt.Equal(other.CreatedAt) {
		return false
	}
	if len(h.Categories) != len(other.Categories) {
		return false
	}
	for i, c := range h.Categories {
		if c != other.Categories[i] {
			return false
		}
	}
	if len(h.EventCountries) != len(other.EventCountries) {
		return false
	}
	for i, c := range h.EventCountries {
		if c != other.EventCountries[i] {
			return false
		}
	}
	return true
}

// Verificación estática para asegurar que Headline implementa la interfaz
var _ sharedBus.Keyer = (*Headline)(nil)
