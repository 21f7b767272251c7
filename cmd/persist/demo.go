package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	flag "github.com/spf13/pflag"

	"github.com/syssam/persist"
	"github.com/syssam/persist/dialect"
	"github.com/syssam/persist/dialect/sql"
	"github.com/syssam/persist/internal/domain"
)

func cmdDemo(ctx context.Context, args []string, out, errOut io.Writer) error {
	flagSet := flag.NewFlagSet("demo", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	configPath := flagSet.StringP("config", "c", "", "Config file (YAML or JSONC)")
	driver := flagSet.String("driver", dialect.SQLite, "database/sql driver name")
	dsn := flagSet.String("dsn", "", "Data source name [default: temporary SQLite file]")
	verbose := flagSet.BoolP("verbose", "v", false, "Log every statement")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	cfg := &persist.Config{Driver: *driver, DSN: *dsn}
	if *configPath != "" {
		loaded, err := persist.LoadConfig(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if cfg.DSN == "" && cfg.Driver == dialect.SQLite {
		dir, err := os.MkdirTemp("", "persist-demo")
		if err != nil {
			return err
		}
		defer os.RemoveAll(dir)
		cfg.DSN = "file:" + filepath.Join(dir, "demo.db")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level := slog.LevelInfo
	if *verbose || cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: level}))

	drv, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return err
	}
	defer drv.Close()
	stats := sql.NewStatsDriver(drv, sql.WithSlowThreshold(time.Second), sql.WithSlowQueryLog(logger))
	opts := []persist.Option{persist.WithLogger(logger)}
	if cfg.Dialect != "" {
		d, err := dialect.For(cfg.Dialect)
		if err != nil {
			return err
		}
		opts = append(opts, persist.WithDialect(d))
	}
	em := persist.New(stats, opts...)

	if err := demo(ctx, em, out); err != nil {
		return err
	}
	fmt.Fprintln(out, stats.QueryStats().Stats())
	return writeMetrics(out, stats.QueryStats())
}

// demo walks a person and an account through their lifecycle.
func demo(ctx context.Context, em *persist.EntityManager, out io.Writer) error {
	for _, e := range []any{&domain.Person{}, &domain.Account{}} {
		_ = em.DropTable(ctx, e)
		if err := em.CreateTable(ctx, e); err != nil {
			return err
		}
	}

	p := domain.NewPerson("ann", 30, "ann@example.com")
	if err := em.Persist(ctx, p); err != nil {
		return err
	}
	fmt.Fprintf(out, "persisted person %d (%s)\n", *p.ID, em.Context().Status(p))

	found, err := persist.Find[domain.Person](ctx, em, *p.ID)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "found person %d: %s <%s>\n", *found.ID, found.Name(), found.Email)

	found.SetName("annie")
	if err := em.Merge(ctx, found); err != nil {
		return err
	}
	fmt.Fprintf(out, "merged person %d: %s\n", *found.ID, found.Name())

	a := domain.NewAccount(found.Email, 125.5, time.Now().UTC().Truncate(time.Second))
	if err := em.Persist(ctx, a); err != nil {
		return err
	}
	accounts, err := persist.FindAll[domain.Account](ctx, em)
	if err != nil {
		return err
	}
	for _, acc := range accounts {
		fmt.Fprintf(out, "account %d: %s balance=%.2f ref=%s\n", *acc.ID, acc.Owner, *acc.Balance, acc.Ref)
	}

	if err := em.Remove(ctx, found); err != nil {
		return err
	}
	if _, err := persist.Find[domain.Person](ctx, em, *p.ID); !persist.IsNotFound(err) {
		return fmt.Errorf("person %d still stored: %v", *p.ID, err)
	}
	fmt.Fprintf(out, "removed person %d\n", *p.ID)
	return nil
}

// writeMetrics prints the statement metrics in a flat name{labels} value form.
func writeMetrics(out io.Writer, stats *sql.QueryStats) error {
	reg := prometheus.NewRegistry()
	if err := reg.Register(sql.NewStatsCollector("persist", stats)); err != nil {
		return err
	}
	families, err := reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, l := range m.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%q", l.GetName(), l.GetValue()))
			}
			name := mf.GetName()
			if len(labels) > 0 {
				name += "{" + strings.Join(labels, ",") + "}"
			}
			fmt.Fprintf(out, "%s %g\n", name, m.GetCounter().GetValue())
		}
	}
	return nil
}
