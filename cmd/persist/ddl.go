package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/natefinch/atomic"
	flag "github.com/spf13/pflag"

	"github.com/syssam/persist/dialect"
	"github.com/syssam/persist/dialect/sql/sqlgen"
	"github.com/syssam/persist/internal/domain"
	"github.com/syssam/persist/schema"
)

// entities lists the sample entities in creation order.
var entities = []any{domain.Person{}, domain.Order{}, domain.OrderItem{}, domain.Account{}}

func cmdDDL(args []string, out io.Writer) error {
	flagSet := flag.NewFlagSet("ddl", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	name := flagSet.StringP("dialect", "d", dialect.H2, "SQL dialect")
	drop := flagSet.Bool("drop", false, "Emit DROP TABLE statements first")
	output := flagSet.StringP("output", "o", "", "Write to file instead of stdout")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	dl, err := dialect.For(*name)
	if err != nil {
		return err
	}
	script, err := ddl(dl, *drop)
	if err != nil {
		return err
	}
	if *output == "" {
		_, err := io.WriteString(out, script)
		return err
	}
	if err := atomic.WriteFile(*output, strings.NewReader(script)); err != nil {
		return fmt.Errorf("write %s: %w", *output, err)
	}
	fmt.Fprintf(out, "wrote %s\n", *output)
	return nil
}

// ddl returns the script creating the tables of the sample entities.
func ddl(dl dialect.Dialect, drop bool) (string, error) {
	var b strings.Builder
	descs := make([]*schema.Descriptor, 0, len(entities))
	for _, e := range entities {
		d, err := schema.Describe(e)
		if err != nil {
			return "", err
		}
		descs = append(descs, d)
	}
	if drop {
		for i := len(descs) - 1; i >= 0; i-- {
			b.WriteString(sqlgen.DropTable(descs[i]))
			b.WriteByte('\n')
		}
	}
	for _, d := range descs {
		b.WriteString(sqlgen.CreateTable(d, dl))
		b.WriteByte('\n')
	}
	return b.String(), nil
}
