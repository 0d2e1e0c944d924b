package application

import (
	"context"
	"sync"
	"time"

	headlineDomain "github.com/davicafu/newslab/internal/headline/domain"
	"go.uber.org/zap"
)

// PageFetcher es la dependencia mínima del stream.
type PageFetcher interface {
	FetchPage(ctx context.Context, req headlineDomain.PageRequest) (*headlineDomain.Page, error)
}

// PageStream convierte FetchPage en un feed push: re-ejecuta la misma
// consulta a intervalo fijo (time.Ticker, planificación a ritmo fijo) y emite
// sólo las páginas estructuralmente distintas de la última emitida.
//
// Un PageStream es de un solo uso: Start arranca el bucle una única vez y
// re-consumirlo exige construir una instancia nueva. El canal se cierra con
// la cancelación del contexto o con el primer fallo de fetch; tras el cierre,
// Err distingue el fallo terminal de la cancelación.
type PageStream struct {
	fetcher  PageFetcher
	req      headlineDomain.PageRequest
	interval time.Duration
	log      *zap.Logger

	startOnce sync.Once
	pages     chan *headlineDomain.Page

	mu  sync.Mutex
	err error
}

// NewPageStream es el constructor del stream.
func NewPageStream(fetcher PageFetcher, req headlineDomain.PageRequest, interval time.Duration, log *zap.Logger) *PageStream {
	return &PageStream{
		fetcher:  fetcher,
		req:      req,
		interval: interval,
		log:      log,
		pages:    make(chan *headlineDomain.Page),
	}
}

// Start arranca el bucle de polling y devuelve el canal de páginas. Llamadas
// posteriores devuelven el mismo canal sin rearrancar nada.
func (s *PageStream) Start(ctx context.Context) <-chan *headlineDomain.Page {
	s.startOnce.Do(func() {
		go s.run(ctx)
	})
	return s.pages
}

// Err devuelve el fallo terminal del stream, o nil si el canal se cerró por
// cancelación. Sólo es significativo una vez cerrado el canal.
func (s *PageStream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *PageStream) run(ctx context.Context) {
	defer close(s.pages)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info("🚀 Page stream iniciado", zap.Duration("interval", s.interval))

	var last *headlineDomain.Page

	// Tick 0: la primera página se consulta inmediatamente, sin espera inicial.
	if !s.tick(ctx, &last) {
		return
	}

	for {
		select {
		case <-ctx.Done():
			s.log.Info("🛑 Page stream detenido.")
			return
		case <-ticker.C:
			if !s.tick(ctx, &last) {
				return
			}
		}
	}
}

// tick ejecuta un fetch y emite la página si cambió. Devuelve false cuando el
// bucle debe terminar (cancelación o fallo terminal).
func (s *PageStream) tick(ctx context.Context, last **headlineDomain.Page) bool {
	page, err := s.fetcher.FetchPage(ctx, s.req)

	// Un resultado que llega tras la cancelación no se emite ni arma más ticks.
	if ctx.Err() != nil {
		s.log.Info("🛑 Page stream detenido.")
		return false
	}

	if err != nil {
		s.setErr(err)
		s.log.Warn("⚠️ Fetch fallido, stream terminado", zap.Error(err))
		return false
	}

	if page.Equal(*last) {
		s.log.Debug("Página sin cambios, emisión suprimida")
		return true
	}

	select {
	case s.pages <- page:
		*last = page
		return true
	case <-ctx.Done():
		return false
	}
}

func (s *PageStream) setErr(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}
