package worker

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Pool manages a fixed number of acceptor workers. Every worker runs
// http.Server.Serve on its own view of one shared listener, so the pool size
// is the number of goroutines concurrently accepting connections.
type Pool struct {
	size     int
	srv      *http.Server
	ln       *sharedListener
	logger   *zap.Logger
	onAccept func(workerID int)

	g *errgroup.Group
}

// NewPool creates a pool of size workers serving srv on ln.
// onAccept is optional (nil = no-op).
func NewPool(
	size int,
	srv *http.Server,
	ln net.Listener,
	logger *zap.Logger,
	onAccept func(workerID int),
) *Pool {
	if onAccept == nil {
		onAccept = func(int) {}
	}
	return &Pool{
		size:     size,
		srv:      srv,
		ln:       &sharedListener{Listener: ln},
		logger:   logger,
		onAccept: onAccept,
	}
}

// Size returns the configured number of workers.
func (p *Pool) Size() int { return p.size }

// Start launches all workers as goroutines. The returned context is
// cancelled when ctx is cancelled or as soon as any worker fails; the caller
// is expected to shut the server down at that point and then call Wait.
func (p *Pool) Start(ctx context.Context) context.Context {
	g, gctx := errgroup.WithContext(ctx)
	p.g = g

	for id := range p.size {
		l := &workerListener{sharedListener: p.ln, id: id, onAccept: p.onAccept}
		log := p.logger.With(zap.Int("worker_id", id))

		g.Go(func() error {
			log.Info("worker started")
			err := p.srv.Serve(l)
			log.Info("worker stopping")
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("worker %d: %w", id, err)
		})
	}

	return gctx
}

// Wait blocks until every worker has returned and reports the first worker
// failure, if any. Start must have been called.
func (p *Pool) Wait() error {
	return p.g.Wait()
}

// Close closes the shared listener. Used when the pool is abandoned before
// Start, e.g. on a startup failure after a successful bind.
func (p *Pool) Close() error {
	return p.ln.Close()
}
