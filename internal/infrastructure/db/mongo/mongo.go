package mongo

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sxc/scholarhub/internal/core/domain"
	"github.com/sxc/scholarhub/internal/pkg/metrics"
)

const (
	defaultTimeout        = 10 * time.Second
	defaultSocketTimeout  = 45 * time.Second
	defaultHealthInterval = 5 * time.Second
	defaultMaxPoolSize    = 10
)

// Config captures the settings required to establish a MongoDB connection.
type Config struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
	SocketTimeout  time.Duration
	MaxPoolSize    uint64
	RetryWrites    bool
	// HealthInterval is how long a successful ping is trusted before
	// IsHealthy pings again.
	HealthInterval time.Duration
	// OnConnect runs after every successful connect. A failure discards the
	// client, so no request ever sees a connection the hook rejected.
	OnConnect func(ctx context.Context, db *mongo.Database) error
}

func (c Config) withDefaults() Config {
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = defaultTimeout
	}
	if c.SocketTimeout <= 0 {
		c.SocketTimeout = defaultSocketTimeout
	}
	if c.MaxPoolSize == 0 {
		c.MaxPoolSize = defaultMaxPoolSize
	}
	if c.HealthInterval <= 0 {
		c.HealthInterval = defaultHealthInterval
	}
	return c
}

// ConnectionError reports a failed attempt to open the document store. It
// matches domain.ErrStoreUnavailable with errors.Is.
type ConnectionError struct {
	Cause error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("document store unavailable: %v", e.Cause)
}

func (e *ConnectionError) Unwrap() []error {
	return []error{domain.ErrStoreUnavailable, e.Cause}
}

// Provider hands repositories a live database and receives their errors so
// a broken connection can be dropped.
type Provider interface {
	Acquire(ctx context.Context) (*mongo.Database, error)
	ReportError(err error)
}

// Gateway owns the process-wide MongoDB client. It connects on first use,
// reconnects after invalidation and never exposes a client that failed its
// initial ping.
type Gateway struct {
	cfg Config
	log zerolog.Logger

	mu       sync.Mutex
	client   *mongo.Client
	db       *mongo.Database
	lastPing time.Time
	connects int
}

// NewGateway returns a Gateway. No I/O happens until Acquire.
func NewGateway(cfg Config, log zerolog.Logger) *Gateway {
	return &Gateway{cfg: cfg.withDefaults(), log: log}
}

// Acquire returns the cached database, connecting first if needed.
func (g *Gateway) Acquire(ctx context.Context) (*mongo.Database, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.db != nil {
		return g.db, nil
	}
	return g.connectLocked(ctx)
}

func (g *Gateway) connectLocked(ctx context.Context) (*mongo.Database, error) {
	connectCtx, cancel := context.WithTimeout(ctx, g.cfg.ConnectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(g.cfg.URI).
		SetConnectTimeout(g.cfg.ConnectTimeout).
		SetServerSelectionTimeout(g.cfg.ConnectTimeout).
		SetSocketTimeout(g.cfg.SocketTimeout).
		SetMaxPoolSize(g.cfg.MaxPoolSize).
		SetRetryWrites(g.cfg.RetryWrites)

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, &ConnectionError{Cause: fmt.Errorf("mongo connect: %w", err)}
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, &ConnectionError{Cause: fmt.Errorf("mongo ping: %w", err)}
	}

	db := client.Database(g.cfg.Database)
	if g.cfg.OnConnect != nil {
		if err := g.cfg.OnConnect(ctx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, &ConnectionError{Cause: fmt.Errorf("mongo on-connect: %w", err)}
		}
	}

	if g.connects > 0 {
		metrics.StoreReconnectsTotal.Inc()
	}
	g.connects++
	g.client = client
	g.db = db
	g.lastPing = time.Now()
	g.log.Info().Str("database", g.cfg.Database).Int("connects", g.connects).Msg("connected to MongoDB")
	return g.db, nil
}

// IsHealthy pings the current client unless a ping succeeded within
// HealthInterval. A failed ping invalidates the client. It returns false
// when no client is connected.
func (g *Gateway) IsHealthy(ctx context.Context) bool {
	g.mu.Lock()
	client := g.client
	fresh := time.Since(g.lastPing) < g.cfg.HealthInterval
	g.mu.Unlock()

	if client == nil {
		return false
	}
	if fresh {
		return true
	}

	pingCtx, cancel := context.WithTimeout(ctx, g.cfg.ConnectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		g.log.Warn().Err(err).Msg("MongoDB health check failed")
		g.invalidate(client)
		return false
	}

	g.mu.Lock()
	if g.client == client {
		g.lastPing = time.Now()
	}
	g.mu.Unlock()
	return true
}

// Ensure makes sure a healthy connection exists, reconnecting if needed.
func (g *Gateway) Ensure(ctx context.Context) error {
	if g.IsHealthy(ctx) {
		return nil
	}
	_, err := g.Acquire(ctx)
	return err
}

// Invalidate drops the cached client so the next Acquire reconnects.
func (g *Gateway) Invalidate() {
	g.mu.Lock()
	client := g.client
	g.mu.Unlock()
	if client != nil {
		g.invalidate(client)
	}
}

// invalidate drops client if it is still the current one.
func (g *Gateway) invalidate(client *mongo.Client) {
	g.mu.Lock()
	if g.client != client {
		g.mu.Unlock()
		return
	}
	g.client, g.db = nil, nil
	g.lastPing = time.Time{}
	g.mu.Unlock()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
		defer cancel()
		_ = client.Disconnect(ctx)
	}()
}

// ReportError invalidates the connection when err indicates it is broken.
func (g *Gateway) ReportError(err error) {
	if isConnectivityError(err) {
		g.log.Warn().Err(err).Msg("dropping MongoDB connection")
		g.Invalidate()
	}
}

// Close disconnects the client, if any.
func (g *Gateway) Close(ctx context.Context) error {
	g.mu.Lock()
	client := g.client
	g.client, g.db = nil, nil
	g.mu.Unlock()
	if client == nil {
		return nil
	}
	return client.Disconnect(ctx)
}

func isConnectivityError(err error) bool {
	if err == nil {
		return false
	}
	return mongo.IsNetworkError(err) ||
		mongo.IsTimeout(err) ||
		errors.Is(err, mongo.ErrClientDisconnected)
}
