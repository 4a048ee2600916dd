package main

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/chazu/wrapgen/descriptor"
)

// loadInterfaces reads every file concurrently and merges them in the
// order given.
func loadInterfaces(ctx context.Context, paths []string) (*descriptor.Interface, error) {
	if len(paths) == 0 {
		return nil, errors.New("no interface files")
	}

	ifaces := make([]*descriptor.Interface, len(paths))
	g, _ := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			iface, err := descriptor.LoadFile(path)
			if err != nil {
				return err
			}
			ifaces[i] = iface
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return descriptor.Merge(ifaces...)
}
