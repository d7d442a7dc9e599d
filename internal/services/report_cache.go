package services

import (
  "context"
  "encoding/json"
  "fmt"
  "os"
  "strings"
  "time"

  "github.com/redis/go-redis/v9"
  "github.com/clinvia/clinvia-backend/internal/compare"
  "github.com/clinvia/clinvia-backend/internal/logger"
)

// ReportCache keeps rendered comparison reports in redis so repeated views
// of a patient dashboard don't recompute the window search. Entries are
// invalidated whenever an analytic is added or removed.
type ReportCache interface {
  Get(ctx context.Context, patientID int64) (*compare.Report, bool)
  Set(ctx context.Context, patientID int64, report *compare.Report)
  Invalidate(ctx context.Context, patientID int64) error
}

type reportCache struct {
  log *logger.Logger
  rdb *redis.Client
  ttl time.Duration
}

func NewReportCache(log *logger.Logger) (ReportCache, error) {
  addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
  if addr == "" {
    return nil, fmt.Errorf("missing REDIS_ADDR")
  }

  rdb := redis.NewClient(&redis.Options{
    Addr:        addr,
    DialTimeout: 5 * time.Second,
  })

  ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
  defer cancel()
  if err := rdb.Ping(ctx).Err(); err != nil {
    return nil, fmt.Errorf("redis ping: %w", err)
  }

  ttl := 15 * time.Minute
  if v := strings.TrimSpace(os.Getenv("COMPARE_CACHE_TTL_SECONDS")); v != "" {
    if d, err := time.ParseDuration(v + "s"); err == nil && d > 0 {
      ttl = d
    }
  }

  return &reportCache{
    log: log.With("service", "ReportCache"),
    rdb: rdb,
    ttl: ttl,
  }, nil
}

func reportCacheKey(patientID int64) string {
  return fmt.Sprintf("compare:report:%d", patientID)
}

func (c *reportCache) Get(ctx context.Context, patientID int64) (*compare.Report, bool) {
  raw, err := c.rdb.Get(ctx, reportCacheKey(patientID)).Bytes()
  if err != nil {
    if err != redis.Nil {
      c.log.Warn("report cache get failed", "error", err)
    }
    return nil, false
  }
  var report compare.Report
  if err := json.Unmarshal(raw, &report); err != nil {
    c.log.Warn("report cache entry corrupt, dropping", "error", err)
    _ = c.rdb.Del(ctx, reportCacheKey(patientID)).Err()
    return nil, false
  }
  return &report, true
}

func (c *reportCache) Set(ctx context.Context, patientID int64, report *compare.Report) {
  if report == nil {
    return
  }
  raw, err := json.Marshal(report)
  if err != nil {
    c.log.Warn("report cache marshal failed", "error", err)
    return
  }
  if err := c.rdb.Set(ctx, reportCacheKey(patientID), raw, c.ttl).Err(); err != nil {
    c.log.Warn("report cache set failed", "error", err)
  }
}

func (c *reportCache) Invalidate(ctx context.Context, patientID int64) error {
  return c.rdb.Del(ctx, reportCacheKey(patientID)).Err()
}
