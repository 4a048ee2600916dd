package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/chazu/wrapgen/lambda"
)

// runCheck processes the `wrapgen check` subcommand. It prints one line
// per registration:
//
//	divmod: wrapper (out-params)
//	ns::Counter.value: direct
func runCheck(args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("check requires at least one interface file")
	}

	iface, err := loadInterfaces(context.Background(), args)
	if err != nil {
		return err
	}

	for _, b := range iface.Bindings() {
		name := b.Function.Display()
		if b.Class != nil {
			name = b.Class.ReceiverType + "." + name
		}

		reasons := lambda.Reasons(&b.Function)
		if len(reasons) == 0 {
			fmt.Fprintf(stdout, "%s: direct\n", name)
			continue
		}
		names := make([]string, len(reasons))
		for i, r := range reasons {
			names[i] = string(r)
		}
		fmt.Fprintf(stdout, "%s: wrapper (%s)\n", name, strings.Join(names, ", "))
	}
	return nil
}
