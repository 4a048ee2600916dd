// Package binding assembles the pybind11 module definition for a whole
// interface: direct registrations where they suffice, synthesized lambdas
// where they do not.
package binding

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"

	"github.com/chazu/wrapgen/cache"
	"github.com/chazu/wrapgen/descriptor"
	"github.com/chazu/wrapgen/lambda"
)

var log = commonlog.GetLogger("wrapgen.binding")

// ModuleVar is the variable PYBIND11_MODULE binds the module to.
const ModuleVar = "m"

// Generator renders interfaces into module documents.
type Generator struct {
	synth   *lambda.Synthesizer
	module  string
	workers int
	cache   *cache.Store
}

// Option configures a Generator.
type Option func(*Generator)

// WithIdioms sets the C++ spellings used in wrappers.
func WithIdioms(id lambda.Idioms) Option {
	return func(g *Generator) { g.synth = lambda.NewSynthesizer(id) }
}

// WithModule sets the module name used when the interface names none.
func WithModule(name string) Option {
	return func(g *Generator) { g.module = name }
}

// WithWorkers bounds how many functions render concurrently.
func WithWorkers(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.workers = n
		}
	}
}

// WithCache consults and fills s for every registration.
func WithCache(s *cache.Store) Option {
	return func(g *Generator) { g.cache = s }
}

// NewGenerator creates a Generator.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		synth:   lambda.NewSynthesizer(lambda.DefaultIdioms),
		workers: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Stats counts how each registration was produced.
type Stats struct {
	Direct    int
	Wrapped   int
	CacheHits int
}

// Document is a rendered module definition.
type Document struct {
	Module string
	Lines  []string
	Stats  Stats
}

// String joins the lines into file contents.
func (d *Document) String() string {
	return strings.Join(d.Lines, "\n") + "\n"
}

type rendered struct {
	lines   []string
	wrapped bool
	hit     bool
}

// Generate renders iface. Functions render concurrently; the document
// lists them in declaration order.
func (g *Generator) Generate(ctx context.Context, iface *descriptor.Interface) (*Document, error) {
	module := iface.Module
	if module == "" {
		module = g.module
	}
	if module == "" {
		return nil, errors.New("binding: no module name")
	}

	bindings := iface.Bindings()
	out := make([]rendered, len(bindings))

	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(g.workers)
	for i, b := range bindings {
		grp.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := g.renderCached(gctx, b)
			if err != nil {
				return fmt.Errorf("rendering %s: %w", b.Function.Name, err)
			}
			out[i] = r
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}

	doc := &Document{Module: module}
	indent := g.synth.Idioms.Indent
	doc.Lines = append(doc.Lines,
		"// Code generated by wrapgen. DO NOT EDIT.",
		"",
		"#include <pybind11/pybind11.h>",
		"#include <pybind11/stl.h>",
		"",
		"namespace py = pybind11;",
		"",
		"PYBIND11_MODULE("+module+", "+ModuleVar+") {",
	)

	emit := func(r rendered) {
		for _, line := range r.lines {
			doc.Lines = append(doc.Lines, indent+line)
		}
		if r.wrapped {
			doc.Stats.Wrapped++
		} else {
			doc.Stats.Direct++
		}
		if r.hit {
			doc.Stats.CacheHits++
		}
	}

	next := 0
	for range iface.Functions {
		emit(out[next])
		next++
	}
	for _, c := range iface.Classes {
		doc.Lines = append(doc.Lines, indent+ClassDecl(c.Descriptor()))
		for range c.Functions {
			emit(out[next])
			next++
		}
	}
	doc.Lines = append(doc.Lines, "}")

	log.Infof("generated module %s: %d direct, %d wrapped, %d from cache",
		module, doc.Stats.Direct, doc.Stats.Wrapped, doc.Stats.CacheHits)
	return doc, nil
}

func (g *Generator) renderCached(ctx context.Context, b descriptor.Binding) (rendered, error) {
	wrapped := lambda.NeedsWrapper(&b.Function)
	if g.cache == nil {
		return rendered{lines: g.Render(b), wrapped: wrapped}, nil
	}

	key, err := cache.Key(Target(b.Class), b, g.synth.Idioms)
	if err != nil {
		return rendered{}, err
	}
	lines, err := g.cache.Get(ctx, key)
	switch {
	case err == nil:
		return rendered{lines: lines, wrapped: wrapped, hit: true}, nil
	case !errors.Is(err, cache.ErrMiss):
		log.Warningf("cache lookup for %s failed: %v", b.Function.Name, err)
	}

	lines = g.Render(b)
	if err := g.cache.Put(ctx, key, lines); err != nil {
		log.Warningf("cache store for %s failed: %v", b.Function.Name, err)
	}
	return rendered{lines: lines, wrapped: wrapped}, nil
}

// Render produces the registration statement for one binding, choosing
// the direct path when no wrapper is needed.
func (g *Generator) Render(b descriptor.Binding) []string {
	target := Target(b.Class)
	suffix := b.Suffix
	if suffix == "" {
		suffix = ArgSuffix(&b.Function)
	}
	if lambda.NeedsWrapper(&b.Function) {
		log.Debugf("wrapping %s: %v", b.Function.Name, lambda.Reasons(&b.Function))
		fn := b.Function
		if fn.IsClassMethod {
			// Static members are called without a receiver, so the call
			// needs the class scope.
			fn.DisplayName = b.Function.Display()
			fn.Name = qualified(&fn, b.Class)
		}
		return g.synth.Synthesize(target, &fn, b.Class, suffix)
	}
	return []string{Direct(target, &b.Function, b.Class, suffix)}
}
