package sql

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// QueryStats holds query execution statistics.
type QueryStats struct {
	// TotalQueries is the total number of queries executed.
	TotalQueries atomic.Int64
	// TotalExecs is the total number of exec statements executed.
	TotalExecs atomic.Int64
	// TotalInserts is the total number of insert statements executed.
	TotalInserts atomic.Int64
	// TotalDuration is the total time spent executing statements.
	TotalDuration atomic.Int64 // nanoseconds
	// SlowQueries is the count of statements exceeding the slow threshold.
	SlowQueries atomic.Int64
	// Errors is the count of statement errors.
	Errors atomic.Int64
}

// Stats returns a snapshot of the current statistics.
func (s *QueryStats) Stats() StatsSnapshot {
	return StatsSnapshot{
		TotalQueries:  s.TotalQueries.Load(),
		TotalExecs:    s.TotalExecs.Load(),
		TotalInserts:  s.TotalInserts.Load(),
		TotalDuration: time.Duration(s.TotalDuration.Load()),
		SlowQueries:   s.SlowQueries.Load(),
		Errors:        s.Errors.Load(),
	}
}

// Reset resets all statistics to zero.
func (s *QueryStats) Reset() {
	s.TotalQueries.Store(0)
	s.TotalExecs.Store(0)
	s.TotalInserts.Store(0)
	s.TotalDuration.Store(0)
	s.SlowQueries.Store(0)
	s.Errors.Store(0)
}

// StatsSnapshot is a point-in-time snapshot of query statistics.
type StatsSnapshot struct {
	TotalQueries  int64
	TotalExecs    int64
	TotalInserts  int64
	TotalDuration time.Duration
	SlowQueries   int64
	Errors        int64
}

// Total returns the number of statements executed.
func (s StatsSnapshot) Total() int64 {
	return s.TotalQueries + s.TotalExecs + s.TotalInserts
}

// AvgDuration returns the average statement duration.
func (s StatsSnapshot) AvgDuration() time.Duration {
	total := s.Total()
	if total == 0 {
		return 0
	}
	return s.TotalDuration / time.Duration(total)
}

// String returns a human-readable summary of the statistics.
func (s StatsSnapshot) String() string {
	return fmt.Sprintf(
		"queries=%d execs=%d inserts=%d duration=%s avg=%s slow=%d errors=%d",
		s.TotalQueries, s.TotalExecs, s.TotalInserts, s.TotalDuration, s.AvgDuration(),
		s.SlowQueries, s.Errors,
	)
}

// SlowQueryHook is a function called when a slow statement is detected.
type SlowQueryHook func(ctx context.Context, query string, duration time.Duration)

type statementKind int

const (
	kindQuery statementKind = iota
	kindExec
	kindInsert
)

// StatsDriver wraps an Executor with statement statistics collection.
type StatsDriver struct {
	Executor
	stats         *QueryStats
	slowThreshold time.Duration
	slowHook      SlowQueryHook
	mu            sync.RWMutex
}

// StatsOption configures the StatsDriver.
type StatsOption func(*StatsDriver)

// WithSlowThreshold sets the threshold for slow statement detection.
// Default is 100ms.
func WithSlowThreshold(d time.Duration) StatsOption {
	return func(s *StatsDriver) {
		s.slowThreshold = d
	}
}

// WithSlowQueryHook sets a callback function for slow statements.
func WithSlowQueryHook(hook SlowQueryHook) StatsOption {
	return func(s *StatsDriver) {
		s.slowHook = hook
	}
}

// WithSlowQueryLog logs slow statements to the given logger, or to the
// default logger if nil.
func WithSlowQueryLog(logger *slog.Logger) StatsOption {
	if logger == nil {
		logger = slog.Default()
	}
	return WithSlowQueryHook(func(ctx context.Context, query string, duration time.Duration) {
		logger.WarnContext(ctx, "slow query detected", "duration", duration, "query", query)
	})
}

// NewStatsDriver wraps an Executor with statistics collection.
//
// Example:
//
//	drv, _ := sql.Open("postgres", dsn)
//	stats := sql.NewStatsDriver(drv,
//	    sql.WithSlowThreshold(200*time.Millisecond),
//	    sql.WithSlowQueryLog(nil),
//	)
//	em := persist.New(stats)
//
//	// Later, check statistics:
//	fmt.Println(stats.QueryStats().Stats())
func NewStatsDriver(exec Executor, opts ...StatsOption) *StatsDriver {
	s := &StatsDriver{
		Executor:      exec,
		stats:         &QueryStats{},
		slowThreshold: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// QueryStats returns the underlying QueryStats for reading statistics.
func (d *StatsDriver) QueryStats() *QueryStats {
	return d.stats
}

// SlowThreshold returns the current slow statement threshold.
func (d *StatsDriver) SlowThreshold() time.Duration {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.slowThreshold
}

// SetSlowThreshold updates the slow statement threshold.
func (d *StatsDriver) SetSlowThreshold(threshold time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.slowThreshold = threshold
}

// Query executes a query and records statistics.
func (d *StatsDriver) Query(ctx context.Context, query string) (*ResultSet, error) {
	start := time.Now()
	rs, err := d.Executor.Query(ctx, query)
	d.record(ctx, query, start, err, kindQuery)
	return rs, err
}

// Exec executes a statement and records statistics.
func (d *StatsDriver) Exec(ctx context.Context, query string) error {
	start := time.Now()
	err := d.Executor.Exec(ctx, query)
	d.record(ctx, query, start, err, kindExec)
	return err
}

// Insert executes an insert statement and records statistics.
func (d *StatsDriver) Insert(ctx context.Context, query, idColumn string) (int64, error) {
	start := time.Now()
	id, err := d.Executor.Insert(ctx, query, idColumn)
	d.record(ctx, query, start, err, kindInsert)
	return id, err
}

func (d *StatsDriver) record(ctx context.Context, query string, start time.Time, err error, kind statementKind) {
	duration := time.Since(start)
	switch kind {
	case kindQuery:
		d.stats.TotalQueries.Add(1)
	case kindExec:
		d.stats.TotalExecs.Add(1)
	case kindInsert:
		d.stats.TotalInserts.Add(1)
	}
	d.stats.TotalDuration.Add(int64(duration))

	if err != nil {
		d.stats.Errors.Add(1)
	}

	d.mu.RLock()
	threshold := d.slowThreshold
	hook := d.slowHook
	d.mu.RUnlock()

	if duration > threshold {
		d.stats.SlowQueries.Add(1)
		if hook != nil {
			hook(ctx, query, duration)
		}
	}
}

// DebugDriver wraps an Executor with statement logging.
type DebugDriver struct {
	Executor
	logger *slog.Logger
	level  slog.Level
}

// DebugOption configures the DebugDriver.
type DebugOption func(*DebugDriver)

// DebugWithLogger sets the logger statements are written to.
func DebugWithLogger(logger *slog.Logger) DebugOption {
	return func(d *DebugDriver) {
		d.logger = logger
	}
}

// DebugWithLevel sets the level statements are logged at. Default is Info.
func DebugWithLevel(level slog.Level) DebugOption {
	return func(d *DebugDriver) {
		d.level = level
	}
}

// NewDebugDriver wraps an Executor with statement logging.
//
// Example:
//
//	drv, _ := sql.Open("sqlite", "file:app.db")
//	em := persist.New(sql.NewDebugDriver(drv))
func NewDebugDriver(exec Executor, opts ...DebugOption) *DebugDriver {
	d := &DebugDriver{
		Executor: exec,
		logger:   slog.Default(),
		level:    slog.LevelInfo,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Query logs and executes a query.
func (d *DebugDriver) Query(ctx context.Context, query string) (*ResultSet, error) {
	d.logger.Log(ctx, d.level, "query", "statement", query)
	return d.Executor.Query(ctx, query)
}

// Exec logs and executes a statement.
func (d *DebugDriver) Exec(ctx context.Context, query string) error {
	d.logger.Log(ctx, d.level, "exec", "statement", query)
	return d.Executor.Exec(ctx, query)
}

// Insert logs and executes an insert statement.
func (d *DebugDriver) Insert(ctx context.Context, query, idColumn string) (int64, error) {
	d.logger.Log(ctx, d.level, "insert", "statement", query, "id_column", idColumn)
	return d.Executor.Insert(ctx, query, idColumn)
}

// Dialect returns the dialect of the wrapped executor, or "" if unknown.
func (d *StatsDriver) Dialect() string { return DialectOf(d.Executor) }

// Dialect returns the dialect of the wrapped executor, or "" if unknown.
func (d *DebugDriver) Dialect() string { return DialectOf(d.Executor) }

// DialectOf returns the dialect name reported by exec, or "" if exec does
// not report one.
func DialectOf(exec Executor) string {
	if d, ok := exec.(interface{ Dialect() string }); ok {
		return d.Dialect()
	}
	return ""
}

// Ensure interfaces are implemented.
var (
	_ Executor = (*StatsDriver)(nil)
	_ Executor = (*DebugDriver)(nil)
)
