package main

import (
	"context"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"

	"github.com/syssam/persist/compiler/gen"
	"github.com/syssam/persist/internal/domain"
)

func cmdGen(ctx context.Context, args []string, out io.Writer) error {
	flagSet := flag.NewFlagSet("gen", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	dir := flagSet.StringP("output", "o", "internal/domain", "Directory of the entity package")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	g, err := gen.New(gen.Config{Dir: *dir}, domain.Account{})
	if err != nil {
		return err
	}
	paths, err := g.Generate(ctx)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Fprintf(out, "wrote %s\n", p)
	}
	return nil
}
