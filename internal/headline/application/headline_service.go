package application

import (
	"context"
	"errors"
	"fmt"

	headlineDomain "github.com/davicafu/newslab/internal/headline/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HeadlineService define los casos de uso de lectura/escritura sobre
// titulares. Es una frontera de propagación pura: delega cada operación en el
// data source sin re-filtrar, reintentar ni fusionar campos.
type HeadlineService struct {
	source headlineDomain.HeadlineDataSource
	log    *zap.Logger
}

// NewHeadlineService es el constructor del servicio.
func NewHeadlineService(source headlineDomain.HeadlineDataSource, log *zap.Logger) *HeadlineService {
	return &HeadlineService{
		source: source,
		log:    log,
	}
}

// wrapFailure garantiza que el error lleve la familia de la operación. Si el
// data source ya tipó el fallo con ese centinela se propaga sin re-envolver;
// un error crudo se envuelve conservando la cadena original.
func wrapFailure(kind, err error) error {
	if errors.Is(err, kind) {
		return err
	}
	return fmt.Errorf("%w: %w", kind, err)
}

// FetchPage ejecuta una única consulta de listado y ensambla la página con su
// cursor de continuación. Cada llamada vuelve a consultar el data source.
func (s *HeadlineService) FetchPage(ctx context.Context, req headlineDomain.PageRequest) (*headlineDomain.Page, error) {
	items, err := s.source.List(ctx, headlineDomain.ListQuery{
		Limit:  req.Limit,
		Cursor: req.Cursor,
		Filter: req.Filter,
	})
	if err != nil {
		s.log.Error("Fallo al listar titulares", zap.Error(err))
		return nil, wrapFailure(headlineDomain.ErrFetchFailed, err)
	}
	return headlineDomain.NewPage(items, req.Limit), nil
}

// FetchOne busca un titular por ID. "No encontrado" es un resultado esperado
// y recuperable: devuelve (nil, false, nil) en lugar de error. Cualquier otro
// fallo del data source se propaga como ErrFetchFailed.
func (s *HeadlineService) FetchOne(ctx context.Context, id uuid.UUID) (*headlineDomain.Headline, bool, error) {
	h, err := s.source.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, headlineDomain.ErrHeadlineNotFound) {
			return nil, false, nil
		}
		return nil, false, wrapFailure(headlineDomain.ErrFetchFailed, err)
	}
	return h, true, nil
}

// GetHeadline es la variante estricta de FetchOne: la ausencia se convierte
// en ErrHeadlineNotFound para los callers que exigen existencia.
func (s *HeadlineService) GetHeadline(ctx context.Context, id uuid.UUID) (*headlineDomain.Headline, error) {
	h, found, err := s.FetchOne(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, headlineDomain.ErrHeadlineNotFound
	}
	return h, nil
}

// CreateHeadline delega la creación; el data source es dueño de la
// corrección de la escritura.
func (s *HeadlineService) CreateHeadline(ctx context.Context, h *headlineDomain.Headline) (*headlineDomain.Headline, error) {
	created, err := s.source.Create(ctx, h)
	if err != nil {
		s.log.Error("Fallo al crear titular", zap.Error(err))
		return nil, wrapFailure(headlineDomain.ErrCreateFailed, err)
	}
	return created, nil
}

// UpdateHeadline delega la actualización y devuelve el titular tal cual lo
// devuelve el data source, sin fusión de campos.
func (s *HeadlineService) UpdateHeadline(ctx context.Context, h *headlineDomain.Headline) (*headlineDomain.Headline, error) {
	updated, err := s.source.Update(ctx, h)
	if err != nil {
		return nil, wrapFailure(headlineDomain.ErrUpdateFailed, err)
	}
	return updated, nil
}

// DeleteHeadline delega el borrado.
func (s *HeadlineService) DeleteHeadline(ctx context.Context, id uuid.UUID) error {
	if err := s.source.Delete(ctx, id); err != nil {
		return wrapFailure(headlineDomain.ErrDeleteFailed, err)
	}
	return nil
}

// SearchHeadlines pagina igual que FetchPage, delegando el matching de texto
// en el data source.
func (s *HeadlineService) SearchHeadlines(ctx context.Context, query string, limit int, cursor *uuid.UUID) (*headlineDomain.Page, error) {
	items, err := s.source.Search(ctx, query, limit, cursor)
	if err != nil {
		s.log.Error("Fallo al buscar titulares", zap.String("query", query), zap.Error(err))
		return nil, wrapFailure(headlineDomain.ErrSearchFailed, err)
	}
	return headlineDomain.NewPage(items, limit), nil
}
