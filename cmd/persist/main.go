// Command persist prints the DDL of the sample entities, generates their
// field accessors and runs a short demo against a database.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

var errUsage = errors.New("usage")

func run(ctx context.Context, args []string, out, errOut io.Writer) error {
	if len(args) == 0 {
		fmt.Fprintln(errOut, usage())
		return errUsage
	}
	switch args[0] {
	case "ddl":
		return cmdDDL(args[1:], out)
	case "gen":
		return cmdGen(ctx, args[1:], out)
	case "demo":
		return cmdDemo(ctx, args[1:], out, errOut)
	case "help", "-h", "--help":
		fmt.Fprintln(out, usage())
		return nil
	default:
		return fmt.Errorf("unknown command: %s\n%s", args[0], usage())
	}
}

func usage() string {
	return `persist sample entity tool

Commands:
  ddl [-d dialect] [--drop] [-o file]          Print CREATE TABLE statements
  gen [-o dir]                                 Write generated field accessors
  demo [-c config] [--driver d --dsn s] [-v]   Run a persist/find/merge/remove demo

Dialects: h2 (default), mysql, postgres, sqlite

Examples:
  persist ddl -d postgres
  persist gen -o internal/domain
  persist demo --driver sqlite --dsn file:demo.db -v`
}
