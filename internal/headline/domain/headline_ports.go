package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ---------- Errores de dominio ----------
//
// Un error por familia de operación. Los adapters envuelven el mensaje del
// driver con %w sobre el centinela correspondiente; los callers distinguen
// la familia con errors.Is en lugar de inspeccionar el texto.
var (
	ErrFetchFailed      = errors.New("headline fetch failed")
	ErrHeadlineNotFound = errors.New("headline not found")
	ErrCreateFailed     = errors.New("headline create failed")
	ErrUpdateFailed     = errors.New("headline update failed")
	ErrDeleteFailed     = errors.New("headline delete failed")
	ErrSearchFailed     = errors.New("headline search failed")
)

// ---------- Interfaces (Ports) ----------

// ListQuery agrupa los parámetros de una consulta de listado.
// Cursor == nil significa "desde el principio"; en otro caso la consulta
// empieza estrictamente después del registro con ese ID, según el orden
// interno (estable entre llamadas) que mantenga el data source.
type ListQuery struct {
	Limit  int // 0 = sin límite
	Cursor *uuid.UUID
	Filter Filter
}

// HeadlineDataSource define el contrato con el almacén externo de titulares.
//
// Obligación del adapter sobre Filter: dentro de un campo no ausente la
// pertenencia es OR (coincide con cualquier referencia del conjunto); entre
// campos la combinación es AND. Un campo ausente no impone restricción.
type HeadlineDataSource interface {
	// List devuelve titulares ordenados de forma estable y consistente
	// entre llamadas. El orden concreto lo decide el adapter.
	List(ctx context.Context, q ListQuery) ([]*Headline, error)

	// Debe devolver ErrHeadlineNotFound si no existe.
	GetByID(ctx context.Context, id uuid.UUID) (*Headline, error)

	Create(ctx context.Context, h *Headline) (*Headline, error)

	// Debe devolver ErrHeadlineNotFound si el titular no existe.
	Update(ctx context.Context, h *Headline) (*Headline, error)

	// Debe devolver ErrHeadlineNotFound si el titular no existe.
	Delete(ctx context.Context, id uuid.UUID) error

	// Search pagina igual que List; el matching de texto lo decide el adapter.
	Search(ctx context.Context, query string, limit int, cursor *uuid.UUID) ([]*Headline, error)
}
