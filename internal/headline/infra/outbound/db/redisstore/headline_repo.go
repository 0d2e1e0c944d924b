package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	headlineDomain "github.com/davicafu/newslab/internal/headline/domain"
)

const (
	headlineKeyPrefix = "headline:"
	orderKey          = "headlines:order"
)

// HeadlineRepoRedis implementa HeadlineDataSource sobre Redis: un valor JSON
// por titular y un sorted set para el orden estable. El score es
// -publishedAt (unix nano), de modo que el rango ascendente recorre del más
// reciente al más antiguo; los empates se resuelven por el orden
// lexicográfico del miembro (el ID), consistente entre llamadas.
type HeadlineRepoRedis struct {
	client *redis.Client
}

func NewHeadlineRepoRedis(client *redis.Client) *HeadlineRepoRedis {
	return &HeadlineRepoRedis{client: client}
}

var _ headlineDomain.HeadlineDataSource = (*HeadlineRepoRedis)(nil)

func headlineKey(id uuid.UUID) string {
	return headlineKeyPrefix + id.String()
}

// ------------------ Helpers ----------------

func matchesFilter(h *headlineDomain.Headline, f headlineDomain.Filter) bool {
	// AND entre campos; dentro de cada campo basta una coincidencia (OR).
	if len(f.Sources) > 0 {
		found := false
		for _, s := range f.Sources {
			if h.Source == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if len(f.Categories) > 0 && !overlaps(h.Categories, f.Categories) {
		return false
	}
	if len(f.EventCountries) > 0 && !overlaps(h.EventCountries, f.EventCountries) {
		return false
	}
	return true
}

func overlaps[T comparable](have, want []T) bool {
	for _, h := range have {
		for _, w := range want {
			if h == w {
				return true
			}
		}
	}
	return false
}

func (r *HeadlineRepoRedis) load(ctx context.Context, id string, kind error) (*headlineDomain.Headline, error) {
	data, err := r.client.Get(ctx, headlineKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, headlineDomain.ErrHeadlineNotFound
		}
		return nil, fmt.Errorf("%w: %w", kind, err)
	}
	var h headlineDomain.Headline
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("%w: %w", kind, err)
	}
	return &h, nil
}

// scan recorre el sorted set desde la posición siguiente al cursor y aplica
// 'accept' hasta reunir 'limit' titulares (todos si limit == 0). Los fallos
// se etiquetan con el centinela de la operación que lo invoca.
func (r *HeadlineRepoRedis) scan(ctx context.Context, cursor *uuid.UUID, limit int, kind error, accept func(*headlineDomain.Headline) bool) ([]*headlineDomain.Headline, error) {
	start := int64(0)
	if cursor != nil {
		rank, err := r.client.ZRank(ctx, orderKey, cursor.String()).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return nil, headlineDomain.ErrHeadlineNotFound
			}
			return nil, fmt.Errorf("%w: %w", kind, err)
		}
		start = rank + 1
	}

	const batch = 64
	var out []*headlineDomain.Headline
	for {
		ids, err := r.client.ZRange(ctx, orderKey, start, start+batch-1).Result()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", kind, err)
		}
		if len(ids) == 0 {
			return out, nil
		}
		for _, id := range ids {
			h, err := r.load(ctx, id, kind)
			if err != nil {
				if errors.Is(err, headlineDomain.ErrHeadlineNotFound) {
					continue // miembro huérfano en el índice
				}
				return nil, err
			}
			if !accept(h) {
				continue
			}
			out = append(out, h)
			if limit > 0 && len(out) == limit {
				return out, nil
			}
		}
		start += batch
	}
}

// ------------------ Lectura ------------------

func (r *HeadlineRepoRedis) List(ctx context.Context, q headlineDomain.ListQuery) ([]*headlineDomain.Headline, error) {
	return r.scan(ctx, q.Cursor, q.Limit, headlineDomain.ErrFetchFailed, func(h *headlineDomain.Headline) bool {
		return matchesFilter(h, q.Filter)
	})
}

func (r *HeadlineRepoRedis) GetByID(ctx context.Context, id uuid.UUID) (*headlineDomain.Headline, error) {
	return r.load(ctx, id.String(), headlineDomain.ErrFetchFailed)
}

func (r *HeadlineRepoRedis) Search(ctx context.Context, text string, limit int, cursor *uuid.UUID) ([]*headlineDomain.Headline, error) {
	needle := strings.ToLower(text)
	return r.scan(ctx, cursor, limit, headlineDomain.ErrSearchFailed, func(h *headlineDomain.Headline) bool {
		return strings.Contains(strings.ToLower(h.Title), needle) ||
			strings.Contains(strings.ToLower(h.Description), needle)
	})
}

// ------------------ Escritura ------------------

func (r *HeadlineRepoRedis) store(ctx context.Context, h *headlineDomain.Headline, kind error) error {
	data, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("%w: %w", kind, err)
	}
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, headlineKey(h.ID), data, 0)
	pipe.ZAdd(ctx, orderKey, &redis.Z{
		Score:  -float64(h.PublishedAt.UnixNano()),
		Member: h.ID.String(),
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %w", kind, err)
	}
	return nil
}

func (r *HeadlineRepoRedis) Create(ctx context.Context, h *headlineDomain.Headline) (*headlineDomain.Headline, error) {
	if err := r.store(ctx, h, headlineDomain.ErrCreateFailed); err != nil {
		return nil, err
	}
	return h, nil
}

func (r *HeadlineRepoRedis) Update(ctx context.Context, h *headlineDomain.Headline) (*headlineDomain.Headline, error) {
	exists, err := r.client.Exists(ctx, headlineKey(h.ID)).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", headlineDomain.ErrUpdateFailed, err)
	}
	if exists == 0 {
		return nil, headlineDomain.ErrHeadlineNotFound
	}
	if err := r.store(ctx, h, headlineDomain.ErrUpdateFailed); err != nil {
		return nil, err
	}
	return h, nil
}

func (r *HeadlineRepoRedis) Delete(ctx context.Context, id uuid.UUID) error {
	removed, err := r.client.Del(ctx, headlineKey(id)).Result()
	if err != nil {
		return fmt.Errorf("%w: %w", headlineDomain.ErrDeleteFailed, err)
	}
	if removed == 0 {
		return headlineDomain.ErrHeadlineNotFound
	}
	if err := r.client.ZRem(ctx, orderKey, id.String()).Err(); err != nil {
		return fmt.Errorf("%w: %w", headlineDomain.ErrDeleteFailed, err)
	}
	return nil
}
