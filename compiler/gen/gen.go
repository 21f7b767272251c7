package gen

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"reflect"
	"runtime"
	"sort"
	"sync"

	"github.com/dave/jennifer/jen"
	"github.com/natefinch/atomic"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/imports"

	"github.com/syssam/persist/schema"
)

// Header is the first line of every generated file.
const Header = "Code generated by persist. DO NOT EDIT."

// Config configures a Generator.
type Config struct {
	// Dir is the output directory. It must be the directory of the package
	// declaring the entities, since accessors are methods on them.
	Dir string
	// Package overrides the package name. Default is the last element of
	// the entity package path.
	Package string
	// Workers bounds the number of files rendered in parallel. Default is
	// GOMAXPROCS.
	Workers int
	// Registry describes the entities. Default is schema.DefaultRegistry().
	Registry *schema.Registry
}

// Generator writes accessor files for a set of entities.
type Generator struct {
	cfg   Config
	descs []*schema.Descriptor
}

// New describes entities and returns a Generator for them. Entities are
// values, pointers or reflect.Types of mapped structs.
func New(cfg Config, entities ...any) (*Generator, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("gen: output directory is required")
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	if cfg.Registry == nil {
		cfg.Registry = schema.DefaultRegistry()
	}
	g := &Generator{cfg: cfg}
	seen := make(map[reflect.Type]bool)
	for _, e := range entities {
		d, err := cfg.Registry.Describe(e)
		if err != nil {
			return nil, err
		}
		if d.Type.Name() == "" || d.Type.PkgPath() == "" {
			return nil, fmt.Errorf("gen: %s is not a named type", d.Type)
		}
		if !seen[d.Type] {
			seen[d.Type] = true
			g.descs = append(g.descs, d)
		}
	}
	return g, nil
}

// Generate writes one accessor file per entity and returns the written
// paths in sorted order.
func (g *Generator) Generate(ctx context.Context) ([]string, error) {
	if err := os.MkdirAll(g.cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("gen: create output directory: %w", err)
	}
	var (
		mu    sync.Mutex
		paths []string
	)
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.cfg.Workers)
	for _, d := range g.descs {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p := filepath.Join(g.cfg.Dir, FileName(d))
			src, err := g.Render(d)
			if err != nil {
				return err
			}
			if err := atomic.WriteFile(p, bytes.NewReader(src)); err != nil {
				return fmt.Errorf("gen: write %s: %w", p, err)
			}
			mu.Lock()
			paths = append(paths, p)
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// FileName returns the name of the accessor file of d.
func FileName(d *schema.Descriptor) string {
	return schema.SnakeCase(d.Name) + "_persist.go"
}

// Render returns the formatted accessor source of d.
func (g *Generator) Render(d *schema.Descriptor) ([]byte, error) {
	var buf bytes.Buffer
	if err := g.File(d).Render(&buf); err != nil {
		return nil, fmt.Errorf("gen: render %s: %w", d.Name, err)
	}
	src, err := imports.Process(FileName(d), buf.Bytes(), nil)
	if err != nil {
		return nil, fmt.Errorf("gen: format %s: %w", d.Name, err)
	}
	return src, nil
}

// File builds the accessor file of d.
func (g *Generator) File(d *schema.Descriptor) *jen.File {
	pkg := g.cfg.Package
	if pkg == "" {
		pkg = path.Base(d.Type.PkgPath())
	}
	f := jen.NewFilePathName(d.Type.PkgPath(), pkg)
	f.HeaderComment(Header)

	recv := func() *jen.Statement { return jen.Id("e").Op("*").Id(d.Type.Name()) }
	f.Comment("PersistField returns the value of the field mapped to column.")
	f.Func().Params(recv()).Id("PersistField").Params(jen.Id("column").String()).Params(jen.Id("any"), jen.Bool()).Block(
		jen.Switch(jen.Id("column")).BlockFunc(func(sw *jen.Group) {
			for _, c := range d.Columns {
				sw.Case(jen.Lit(c.Name)).Block(
					jen.Return(jen.Id("e").Dot(c.Field), jen.True()),
				)
			}
		}),
		jen.Return(jen.Nil(), jen.False()),
	)

	f.Comment("SetPersistField sets the field mapped to column. value must have the")
	f.Comment("exact type of the field.")
	f.Func().Params(recv()).Id("SetPersistField").Params(jen.Id("column").String(), jen.Id("value").Id("any")).Error().Block(
		jen.Switch(jen.Id("column")).BlockFunc(func(sw *jen.Group) {
			for _, c := range d.Columns {
				sw.Case(jen.Lit(c.Name)).Block(
					jen.List(jen.Id("v"), jen.Id("ok")).Op(":=").Id("value").Assert(typeCode(c.GoType)),
					jen.If(jen.Op("!").Id("ok")).Block(
						jen.Return(jen.Qual("fmt", "Errorf").Call(jen.Lit("persist: column %q expects %T, got %T"), jen.Id("column"), jen.Id("v"), jen.Id("value"))),
					),
					jen.Id("e").Dot(c.Field).Op("=").Id("v"),
				)
			}
			sw.Default().Block(
				jen.Return(jen.Qual("fmt", "Errorf").Call(jen.Lit("persist: unknown column %q"), jen.Id("column"))),
			)
		}),
		jen.Return(jen.Nil()),
	)
	return f
}

// typeCode returns the jennifer code of a field type.
func typeCode(t reflect.Type) jen.Code {
	switch {
	case t.Kind() == reflect.Pointer:
		return jen.Op("*").Add(typeCode(t.Elem()))
	case t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8 && t.Elem().PkgPath() == "":
		return jen.Index().Byte()
	case t.Kind() == reflect.Slice:
		return jen.Index().Add(typeCode(t.Elem()))
	case t.Kind() == reflect.Array:
		return jen.Index(jen.Lit(t.Len())).Add(typeCode(t.Elem()))
	case t.PkgPath() != "":
		return jen.Qual(t.PkgPath(), t.Name())
	default:
		return jen.Id(t.String())
	}
}
