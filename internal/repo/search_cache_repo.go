// Package repo implements the durable search-cache tier over PostgreSQL.
// The store is a pure optimization: every error here is reported to the
// caller so it can be swallowed and logged, never surfaced to a user.
package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"ytbuzz/internal/models"
)

// PgDriver is the subset of pgxpool.Pool the repository needs.
type PgDriver interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type Logger interface {
	Errorf(format string, args ...any)
	Warnf(format string, args ...any)
	Infof(format string, args ...any)
}

// SearchCacheRepo reads and writes search_cache rows keyed by the content
// hash of (keyword, filters).
type SearchCacheRepo struct {
	db      PgDriver
	logger  Logger
	timeout time.Duration
}

func NewSearchCacheRepo(db PgDriver, logger Logger, timeout time.Duration) *SearchCacheRepo {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &SearchCacheRepo{
		db:      db,
		logger:  logger,
		timeout: timeout,
	}
}

// GetResult returns the cached result for cacheKey if a non-expired row
// exists, nil otherwise. A hit bumps the row's telemetry counters in the
// background; failures there only get logged.
func (r *SearchCacheRepo) GetResult(ctx context.Context, cacheKey string) (*models.SearchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var payload []byte
	err := r.db.QueryRow(ctx,
		`SELECT result
		   FROM search_cache
		  WHERE cache_key = $1 AND expires_at > now()`,
		cacheKey,
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select search_cache: %w", err)
	}

	var result models.SearchResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("decode cached result: %w", err)
	}

	r.logger.Infof("cache: durable hit %.8s...", cacheKey)
	go r.recordHit(cacheKey)

	return &result, nil
}

// recordHit updates hit_count and last_accessed best-effort, detached from
// the request context.
func (r *SearchCacheRepo) recordHit(cacheKey string) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	_, err := r.db.Exec(ctx,
		`UPDATE search_cache
		    SET hit_count = hit_count + 1, last_accessed = now()
		  WHERE cache_key = $1`,
		cacheKey,
	)
	if err != nil {
		r.logger.Warnf("cache: hit telemetry update failed for %.8s...: %v", cacheKey, err)
	}
}

// SaveResult upserts the row for cacheKey, resetting telemetry and setting
// a fresh expiry now+ttl. Last write wins.
func (r *SearchCacheRepo) SaveResult(
	ctx context.Context,
	cacheKey, keyword string,
	filters *models.SearchFilters,
	result *models.SearchResult,
	ttl time.Duration,
) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	var filtersJSON []byte
	if f := filters.Normalized(); f != nil {
		filtersJSON, err = json.Marshal(f)
		if err != nil {
			return fmt.Errorf("encode filters: %w", err)
		}
	}

	expiresAt := time.Now().UTC().Add(ttl)

	_, err = r.db.Exec(ctx,
		`INSERT INTO search_cache (cache_key, keyword, filters, result, expires_at, hit_count, last_accessed)
		 VALUES ($1, $2, $3, $4, $5, 0, now())
		 ON CONFLICT (cache_key) DO UPDATE
		    SET keyword = EXCLUDED.keyword,
		        filters = EXCLUDED.filters,
		        result = EXCLUDED.result,
		        expires_at = EXCLUDED.expires_at,
		        hit_count = 0,
		        last_accessed = now()`,
		cacheKey, keyword, filtersJSON, payload, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("upsert search_cache: %w", err)
	}

	r.logger.Infof("cache: saved %.8s... (ttl=%s)", cacheKey, ttl)
	return nil
}
