package domain

import (
	"github.com/google/uuid"
)

// PageRequest describe una petición de página: límite (0 = ausente), cursor
// opaco (nil = primera página) y filtro compuesto.
type PageRequest struct {
	Limit  int
	Cursor *uuid.UUID
	Filter Filter
}

// Page es una página inmutable de titulares con su cursor de continuación.
type Page struct {
	Items   []*Headline `json:"items"`
	Cursor  *uuid.UUID  `json:"cursor,omitempty"`
	HasMore bool        `json:"has_more"`
}

// NewPage construye una página a partir de la lista plana que devolvió el
// data source, aplicando los invariantes:
//   - Cursor = ID del último elemento si la lista no está vacía; nil si vacía.
//   - HasMore = true sólo cuando la lista llena exactamente el límite pedido.
//     Es una heurística: el data source no expone un "hay más" explícito, así
//     que una página de tamaño exacto se interpreta como señal de continuación.
//     Con límite ausente (0) HasMore es siempre false.
func NewPage(items []*Headline, limit int) *Page {
	p := &Page{Items: items}
	if len(items) > 0 {
		last := items[len(items)-1].ID
		p.Cursor = &last
	}
	p.HasMore = limit > 0 && len(items) == limit
	return p
}

// Equal compara dos páginas estructuralmente: items (campo a campo), cursor
// y HasMore.
func (p *Page) Equal(other *Page) bool {
	if p == nil || other == nil {
		return p == other
	}
	if p.HasMore != other.HasMore {
		return false
	}
	if (p.Cursor == nil) != (other.Cursor == nil) {
		return false
	}
	if p.Cursor != nil && *p.Cursor != *other.Cursor {
		return false
	}
	if len(p.Items) != len(other.Items) {
		return false
	}
	for i, h := range p.Items {
		if !h.Equal(other.Items[i]) {
			return false
		}
	}
	return true
}
