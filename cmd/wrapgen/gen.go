package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/chazu/wrapgen/binding"
	"github.com/chazu/wrapgen/cache"
	"github.com/chazu/wrapgen/lambda"
	"github.com/chazu/wrapgen/manifest"
)

type genOptions struct {
	output  string
	module  string
	workers int
	force   bool
	files   []string
}

func parseGenArgs(args []string) (genOptions, error) {
	var opts genOptions
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-o", "--output", "-module", "--module", "-j", "--workers":
			if i+1 >= len(args) {
				return opts, fmt.Errorf("%s requires a value", args[i])
			}
			val := args[i+1]
			i++
			switch args[i-1] {
			case "-o", "--output":
				opts.output = val
			case "-module", "--module":
				opts.module = val
			default:
				n, err := strconv.Atoi(val)
				if err != nil || n < 1 {
					return opts, fmt.Errorf("bad worker count %q", val)
				}
				opts.workers = n
			}
		case "-f", "--force":
			opts.force = true
		default:
			opts.files = append(opts.files, args[i])
		}
	}
	return opts, nil
}

// runGen processes the `wrapgen gen` subcommand.
// Usage:
//
//	wrapgen gen                    # inputs and output from wrapgen.toml
//	wrapgen gen api.toml           # ad-hoc, document to stdout
//	wrapgen gen -o out.cc api.toml
//	wrapgen gen -f                 # regenerate even if the lock is current
func runGen(ctx context.Context, args []string, stdout io.Writer) error {
	opts, err := parseGenArgs(args)
	if err != nil {
		return err
	}

	var (
		m        *manifest.Manifest
		inputs   = opts.files
		output   = opts.output
		idioms   = lambda.DefaultIdioms
		cacheDir string
		genOpts  []binding.Option
	)

	if len(inputs) == 0 {
		m, err = manifest.FindAndLoad(".")
		if err != nil {
			return fmt.Errorf("loading manifest: %w", err)
		}
		if m == nil {
			return fmt.Errorf("no %s found and no interface files specified", manifest.FileName)
		}
		inputs, err = m.InputPaths()
		if err != nil {
			return err
		}
		if len(inputs) == 0 {
			return fmt.Errorf("no interface files match [module] inputs in %s", filepath.Join(m.Dir, manifest.FileName))
		}
		if output == "" {
			output = m.OutputPath()
		}
		idioms = m.LambdaIdioms()
		cacheDir = m.CachePath()
		genOpts = append(genOpts, binding.WithModule(m.Module.Name), binding.WithWorkers(m.Cache.Workers))
	}
	if opts.module != "" {
		genOpts = append(genOpts, binding.WithModule(opts.module))
	}
	if opts.workers > 0 {
		genOpts = append(genOpts, binding.WithWorkers(opts.workers))
	}

	// The manifest participates in the lock so idiom changes regenerate.
	var current *manifest.LockFile
	if m != nil && !toStdout(output) {
		locked, err := manifest.LockInputs(append(slices.Clone(inputs), filepath.Join(m.Dir, manifest.FileName)))
		if err != nil {
			return err
		}
		current = &manifest.LockFile{Inputs: locked, Output: output, Module: m.Module.Name}
		if opts.module != "" {
			current.Module = opts.module
		}

		lf, err := manifest.ReadLock(m.LockFilePath())
		if err != nil {
			return err
		}
		if !opts.force && lf.UpToDate(current) {
			log.Infof("%s is up to date", output)
			return nil
		}
	}

	iface, err := loadInterfaces(ctx, inputs)
	if err != nil {
		return err
	}

	if cacheDir != "" {
		store, err := cache.Open(cacheDir)
		if err != nil {
			return err
		}
		defer store.Close()
		genOpts = append(genOpts, binding.WithCache(store))
	}

	genOpts = append(genOpts, binding.WithIdioms(idioms))
	doc, err := binding.NewGenerator(genOpts...).Generate(ctx, iface)
	if err != nil {
		return err
	}

	data := []byte(doc.String())
	if toStdout(output) {
		_, err := stdout.Write(data)
		return err
	}

	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	log.Infof("wrote %s (%d direct, %d wrapped)", output, doc.Stats.Direct, doc.Stats.Wrapped)

	if current != nil {
		current.OutputHash = manifest.HashBytes(data)
		if err := manifest.WriteLock(m.LockFilePath(), current); err != nil {
			return fmt.Errorf("writing lock file: %w", err)
		}
	}
	return nil
}

func toStdout(output string) bool {
	return output == "" || output == "-"
}
