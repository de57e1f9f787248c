package optimizer

import (
	"errors"
	"sync"

	"github.com/raykavin/depthrun/pkg/core"
	"github.com/raykavin/depthrun/pkg/exchange"
)

// worker owns the state of one replay, it is used by a single batch at a time
type worker struct {
	book   *core.MarketBook
	broker *exchange.Simulator
	source core.DepthSource
}

// workerPool creates workers on demand and recycles them between batches
type workerPool struct {
	mu    sync.Mutex
	build func() (*worker, error)
	idle  []*worker
	all   []*worker
}

func newWorkerPool(cfg *Config) *workerPool {
	return &workerPool{
		build: func() (*worker, error) {
			source, err := cfg.Source()
			if err != nil {
				return nil, asDataSourceError(err)
			}

			book := core.NewMarketBook(core.WithHistoryLimit(cfg.BookHistory))
			return &worker{
				book:   book,
				broker: exchange.NewSimulator(book, exchange.WithSlippage(cfg.Slippage)),
				source: source,
			}, nil
		},
	}
}

func (p *workerPool) acquire() (*worker, error) {
	p.mu.Lock()
	if n := len(p.idle); n > 0 {
		w := p.idle[n-1]
		p.idle = p.idle[:n-1]
		p.mu.Unlock()
		return w, nil
	}
	p.mu.Unlock()

	w, err := p.build()
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.all = append(p.all, w)
	p.mu.Unlock()
	return w, nil
}

func (p *workerPool) release(w *worker) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.idle = append(p.idle, w)
}

// close releases the source of every worker
func (p *workerPool) close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	for _, w := range p.all {
		if err := w.source.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	p.all, p.idle = nil, nil
	return errors.Join(errs...)
}

func asDataSourceError(err error) error {
	if errors.Is(err, core.ErrDataSource) || errors.Is(err, core.ErrConfiguration) {
		return err
	}
	return core.DataSourceError("%w", err)
}
