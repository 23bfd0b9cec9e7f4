package worker

import (
	"context"
	"net"
	"sync"
)

// sharedListener closes the underlying listener at most once, no matter how
// many worker views wrap it. http.Server.Shutdown closes every listener it
// tracks, so without this each worker after the first would report an error.
type sharedListener struct {
	net.Listener
	once     sync.Once
	closeErr error
}

func (l *sharedListener) Close() error {
	l.once.Do(func() { l.closeErr = l.Listener.Close() })
	return l.closeErr
}

// workerListener is one worker's view of the shared listener. Every
// connection it accepts is tagged with the worker's ID.
type workerListener struct {
	*sharedListener
	id       int
	onAccept func(workerID int)
}

func (l *workerListener) Accept() (net.Conn, error) {
	c, err := l.sharedListener.Accept()
	if err != nil {
		return nil, err
	}
	l.onAccept(l.id)
	return &Conn{Conn: c, workerID: l.id}, nil
}

// Conn is a connection accepted by a pool worker.
type Conn struct {
	net.Conn
	workerID int
}

// WorkerID reports which worker accepted the connection.
func (c *Conn) WorkerID() int { return c.workerID }

type contextKey string

const workerIDKey contextKey = "worker_id"

// ConnContext is meant for http.Server.ConnContext. It stores the accepting
// worker's ID on every request context served over c.
func ConnContext(ctx context.Context, c net.Conn) context.Context {
	if wc, ok := c.(*Conn); ok {
		return context.WithValue(ctx, workerIDKey, wc.workerID)
	}
	return ctx
}

// IDFromContext returns the ID stored by ConnContext.
// ok is false for requests that did not arrive through a pool worker.
func IDFromContext(ctx context.Context) (id int, ok bool) {
	id, ok = ctx.Value(workerIDKey).(int)
	return
}
