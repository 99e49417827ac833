package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ms-events/internal/config"
	"ms-events/internal/logger"

	"github.com/uptrace/bun"
	"golang.org/x/sync/singleflight"
)

// Options are fixed per process. Commands are never buffered: nothing runs
// against the database until GetConnection has returned a handle.
type Options struct {
	MaxPoolSize            int
	ServerSelectionTimeout time.Duration
	SocketTimeout          time.Duration
}

var DefaultOptions = Options{
	MaxPoolSize:            10,
	ServerSelectionTimeout: 5 * time.Second,
	SocketTimeout:          45 * time.Second,
}

// Dialer opens and verifies a new handle.
type Dialer func(ctx context.Context, uri, dbName string, opts Options) (*bun.DB, error)

// Manager owns the process-scoped connection state: the cached handle and
// the in-flight connect attempt. It is the only writer of either.
type Manager struct {
	uri    string
	dbName string
	opts   Options
	dial   Dialer
	logger *logger.Logger

	mu    sync.Mutex
	conn  *bun.DB
	gen   uint64 // bumped by Close
	group singleflight.Group
}

type Option func(*Manager)

func WithDialer(d Dialer) Option {
	return func(m *Manager) { m.dial = d }
}

func WithOptions(opts Options) Option {
	return func(m *Manager) { m.opts = opts }
}

func NewManager(cfg config.DatabaseConfig, log *logger.Logger, opts ...Option) *Manager {
	m := &Manager{
		uri:    cfg.URI,
		dbName: cfg.Name,
		opts:   DefaultOptions,
		dial:   Dial,
		logger: log,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = logger.Nop()
	}
	return m
}

const connectKey = "connect"

// GetConnection returns the cached handle, connecting first if needed.
// Callers arriving while a connect is in flight wait for that attempt instead
// of starting another. A failed attempt is reported to every waiter and then
// forgotten. If ctx ends first the caller returns ctx.Err() while the attempt
// keeps running and may still populate the cache.
func (m *Manager) GetConnection(ctx context.Context) (*bun.DB, error) {
	if m.uri == "" {
		return nil, &config.ConfigError{Key: "DATABASE_URI", Reason: "is required"}
	}
	if conn := m.cached(); conn != nil {
		return conn, nil
	}

	dialCtx := context.WithoutCancel(ctx)
	ch := m.group.DoChan(connectKey, func() (interface{}, error) {
		// A previous attempt may have finished between the cache check and here.
		m.mu.Lock()
		gen, cached := m.gen, m.conn
		m.mu.Unlock()
		if cached != nil {
			return cached, nil
		}

		conn, err := m.dial(dialCtx, m.uri, m.dbName, m.opts)
		if err != nil {
			m.logger.Error("DATABASE", fmt.Sprintf("❌ Database connection error: %v", err))
			return nil, &ConnectionError{Err: err}
		}

		m.mu.Lock()
		if gen != m.gen {
			m.mu.Unlock()
			m.logger.Warn("DATABASE", "Manager closed during connect, discarding handle")
			conn.Close()
			return nil, ErrClosed
		}
		m.conn = conn
		m.mu.Unlock()

		m.logger.Info("DATABASE", "✅ Database connected successfully")
		return conn, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*bun.DB), nil
	}
}

func (m *Manager) cached() *bun.DB {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.conn
}

// Close releases the cached handle, if any. A connect still in flight closes
// its own handle when it finishes; a later GetConnection dials afresh.
func (m *Manager) Close() error {
	m.mu.Lock()
	conn := m.conn
	m.conn = nil
	m.gen++
	m.mu.Unlock()
	m.group.Forget(connectKey)

	if conn == nil {
		return nil
	}
	m.logger.Info("DATABASE", "Closing database connection")
	return conn.Close()
}

// ConnectionGetter is what repositories hold instead of a handle. *Manager
// satisfies it.
type ConnectionGetter interface {
	GetConnection(ctx context.Context) (*bun.DB, error)
}

// Static serves an already open handle.
type Static struct {
	DB *bun.DB
}

func (s Static) GetConnection(context.Context) (*bun.DB, error) {
	return s.DB, nil
}
