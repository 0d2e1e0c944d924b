package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"

	headlineDomain "github.com/davicafu/newslab/internal/headline/domain"
	"github.com/google/uuid"
)

// InMemoryHeadlineRepo simula un HeadlineDataSource con orden estable
// (published_at DESC, id DESC) y soporte de cursor y filtros. Los campos
// Fail* permiten inyectar fallos por operación en los tests.
type InMemoryHeadlineRepo struct {
	Headlines map[uuid.UUID]*headlineDomain.Headline
	mu        sync.Mutex

	// Número de llamadas a List, útil para verificar el polling.
	ListCalls int

	FailList   error
	FailGet    error
	FailCreate error
	FailUpdate error
	FailDelete error
	FailSearch error
}

var _ headlineDomain.HeadlineDataSource = (*InMemoryHeadlineRepo)(nil)

func NewInMemoryHeadlineRepo() *InMemoryHeadlineRepo {
	return &InMemoryHeadlineRepo{
		Headlines: make(map[uuid.UUID]*headlineDomain.Headline),
	}
}

// ordered devuelve los titulares en el orden interno del repo.
func (r *InMemoryHeadlineRepo) ordered() []*headlineDomain.Headline {
	list := make([]*headlineDomain.Headline, 0, len(r.Headlines))
	for _, h := range r.Headlines {
		list = append(list, h)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].PublishedAt.Equal(list[j].PublishedAt) {
			return list[i].PublishedAt.After(list[j].PublishedAt)
		}
		return list[i].ID.String() > list[j].ID.String()
	})
	return list
}

func matchesFilter(h *headlineDomain.Headline, f headlineDomain.Filter) bool {
	// AND entre campos, OR dentro de cada campo.
	if len(f.Sources) > 0 {
		ok := false
		for _, s := range f.Sources {
			if h.Source == s {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if len(f.Categories) > 0 {
		ok := false
	categories:
		for _, want := range f.Categories {
			for _, have := range h.Categories {
				if have == want {
					ok = true
					break categories
				}
			}
		}
		if !ok {
			return false
		}
	}
	if len(f.EventCountries) > 0 {
		ok := false
	countries:
		for _, want := range f.EventCountries {
			for _, have := range h.EventCountries {
				if have == want {
					ok = true
					break countries
				}
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

// paginate corta la lista ordenada a partir del cursor y hasta el límite.
// Un cursor cuyo registro ya no existe devuelve ErrHeadlineNotFound, como
// los adapters reales.
func (r *InMemoryHeadlineRepo) paginate(list []*headlineDomain.Headline, limit int, cursor *uuid.UUID) ([]*headlineDomain.Headline, error) {
	start := 0
	if cursor != nil {
		if _, ok := r.Headlines[*cursor]; !ok {
			return nil, headlineDomain.ErrHeadlineNotFound
		}
		for i, h := range list {
			if h.ID == *cursor {
				start = i + 1
				break
			}
		}
	}
	list = list[start:]
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (r *InMemoryHeadlineRepo) List(ctx context.Context, q headlineDomain.ListQuery) ([]*headlineDomain.Headline, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ListCalls++
	if r.FailList != nil {
		return nil, r.FailList
	}

	var filtered []*headlineDomain.Headline
	for _, h := range r.ordered() {
		if matchesFilter(h, q.Filter) {
			filtered = append(filtered, h)
		}
	}
	return r.paginate(filtered, q.Limit, q.Cursor)
}

func (r *InMemoryHeadlineRepo) GetByID(ctx context.Context, id uuid.UUID) (*headlineDomain.Headline, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailGet != nil {
		return nil, r.FailGet
	}
	h, ok := r.Headlines[id]
	if !ok {
		return nil, headlineDomain.ErrHeadlineNotFound
	}
	return h, nil
}

func (r *InMemoryHeadlineRepo) Create(ctx context.Context, h *headlineDomain.Headline) (*headlineDomain.Headline, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailCreate != nil {
		return nil, r.FailCreate
	}
	r.Headlines[h.ID] = h
	return h, nil
}

func (r *InMemoryHeadlineRepo) Update(ctx context.Context, h *headlineDomain.Headline) (*headlineDomain.Headline, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailUpdate != nil {
		return nil, r.FailUpdate
	}
	if _, ok := r.Headlines[h.ID]; !ok {
		return nil, headlineDomain.ErrHeadlineNotFound
	}
	r.Headlines[h.ID] = h
	return h, nil
}

func (r *InMemoryHeadlineRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailDelete != nil {
		return r.FailDelete
	}
	if _, ok := r.Headlines[id]; !ok {
		return headlineDomain.ErrHeadlineNotFound
	}
	delete(r.Headlines, id)
	return nil
}

func (r *InMemoryHeadlineRepo) Search(ctx context.Context, query string, limit int, cursor *uuid.UUID) ([]*headlineDomain.Headline, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailSearch != nil {
		return nil, r.FailSearch
	}

	needle := strings.ToLower(query)
	var matched []*headlineDomain.Headline
	for _, h := range r.ordered() {
		if strings.Contains(strings.ToLower(h.Title), needle) ||
			strings.Contains(strings.ToLower(h.Description), needle) {
			matched = append(matched, h)
		}
	}
	return r.paginate(matched, limit, cursor)
}
