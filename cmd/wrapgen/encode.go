package main

import (
	"context"
	"fmt"
	"os"

	"github.com/chazu/wrapgen/descriptor"
)

// runEncode processes the `wrapgen encode` subcommand: every input is
// loaded, merged and written as one canonical CBOR document.
func runEncode(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: wrapgen encode files... out.cbor")
	}
	inputs, output := args[:len(args)-1], args[len(args)-1]

	iface, err := loadInterfaces(context.Background(), inputs)
	if err != nil {
		return err
	}
	data, err := descriptor.MarshalInterface(iface)
	if err != nil {
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	log.Infof("encoded %d file(s) to %s (%d bytes)", len(inputs), output, len(data))
	return nil
}
