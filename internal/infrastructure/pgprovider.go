// Package pgprovider owns the PostgreSQL connection pool backing the
// durable search cache.
package pgprovider

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Logger interface {
	Errorf(format string, args ...any)
	Infof(format string, args ...any)
}

type Options struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string

	MinConns       int32
	MaxConns       int32
	ConnLifetime   time.Duration
	ConnectTimeout time.Duration
}

// DSN builds the connection string, escaping credentials.
func (o Options) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s",
		url.QueryEscape(o.Username), url.QueryEscape(o.Password),
		o.Host, o.Port, o.Database,
	)
}

type Provider struct {
	db     *pgxpool.Pool
	logger Logger
	opts   Options
}

func NewProvider(logger Logger, opts Options) *Provider {
	return &Provider{
		logger: logger,
		opts:   opts,
	}
}

func (p *Provider) Open(ctx context.Context) error {
	cfg, err := pgxpool.ParseConfig(p.opts.DSN())
	if err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	cfg.MinConns = p.opts.MinConns
	cfg.MaxConns = p.opts.MaxConns
	cfg.MaxConnLifetime = p.opts.ConnLifetime
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("create pool: %w", err)
	}

	pingCtx := ctx
	if p.opts.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, p.opts.ConnectTimeout)
		defer cancel()
	}
	if pingErr := pool.Ping(pingCtx); pingErr != nil {
		pool.Close()

		return fmt.Errorf("ping database: %w", pingErr)
	}

	p.db = pool
	p.logger.Infof("Connected to PostgreSQL: %s/%s", p.opts.Host, p.opts.Database)

	return nil
}

func (p *Provider) DB() *pgxpool.Pool {
	return p.db
}

func (p *Provider) Close() {
	if p.db != nil {
		p.db.Close()
		p.logger.Infof("PostgreSQL connection closed")
	}
}

func (p *Provider) Stats() *pgxpool.Stat {
	if p.db != nil {
		return p.db.Stat()
	}

	return nil
}
