package vectorstore

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/tangerg/codewiki/internal/codewikierr"
)

// ConnectTimeout and RequestTimeout are spec's vector-store-adapter
// timeouts: 10s to open a connection, 30s per request.
const (
	ConnectTimeout = 10 * time.Second
	RequestTimeout = 30 * time.Second
)

// pingInterval is how often Conn re-checks a live connection's health.
const pingInterval = 30 * time.Second

// Pinger is implemented by a backend's low-level client: a cheap
// liveness check Conn calls on its ticking schedule.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Conn is the shared lazy-connection discipline both backends embed:
// the underlying client is opened on first use behind a mutex (so
// concurrent first callers serialize rather than double-connect, the
// same shape internal/llm/kernel's Manager.Get uses to cache a kernel
// per config key), then pinged every 30 seconds on a background
// goroutine. A failed ping marks the connection closed, and the next
// Client call opens it again.
type Conn[T Pinger] struct {
	open func(ctx context.Context) (T, error)

	mu     sync.Mutex
	client T
	opened bool

	startOnce sync.Once
}

// NewConn wraps open, the backend-specific dial function, in a Conn.
func NewConn[T Pinger](open func(ctx context.Context) (T, error)) *Conn[T] {
	return &Conn[T]{open: open}
}

// Client returns the live client, opening it on first call.
func (c *Conn[T]) Client(ctx context.Context) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.opened {
		return c.client, nil
	}
	connectCtx, cancel := context.WithTimeout(ctx, ConnectTimeout)
	defer cancel()
	client, err := c.open(connectCtx)
	if err != nil {
		var zero T
		return zero, codewikierr.Wrap(codewikierr.KindTransientRemote, "open vector store connection", err)
	}
	c.client = client
	c.opened = true
	c.startOnce.Do(func() { go c.pingLoop() })
	return c.client, nil
}

func (c *Conn[T]) pingLoop() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for range ticker.C {
		c.mu.Lock()
		client, opened := c.client, c.opened
		c.mu.Unlock()
		if !opened {
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), ConnectTimeout)
		err := client.Ping(ctx)
		cancel()
		if err != nil {
			c.mu.Lock()
			c.opened = false
			c.mu.Unlock()
		}
	}
}

// HTTPClient builds the shared *http.Client both backends use for their
// net/http-based requests, with RequestTimeout as its overall deadline.
func HTTPClient() *http.Client {
	return &http.Client{Timeout: RequestTimeout}
}
