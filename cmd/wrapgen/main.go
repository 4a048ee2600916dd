// wrapgen - generates pybind11 module definitions from interface files
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

var log = commonlog.GetLogger("wrapgen")

func main() {
	verbose := flag.Bool("v", false, "Verbose output")
	debug := flag.Bool("debug", false, "Debug output (implies -v)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: wrapgen [options] <command> [args...]\n\n")
		fmt.Fprintf(os.Stderr, "Generates pybind11 bindings, wrapping functions in lambdas where\n")
		fmt.Fprintf(os.Stderr, "they cannot be registered by address.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nCommands:\n")
		fmt.Fprintf(os.Stderr, "  gen [-o out] [-f] [files...]  Generate the module (files default to wrapgen.toml inputs)\n")
		fmt.Fprintf(os.Stderr, "  check files...                Report which functions need a wrapper and why\n")
		fmt.Fprintf(os.Stderr, "  encode files... out.cbor      Merge interface files into one CBOR document\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  wrapgen gen                       # build from wrapgen.toml\n")
		fmt.Fprintf(os.Stderr, "  wrapgen gen -o out.cc api.toml    # ad-hoc\n")
		fmt.Fprintf(os.Stderr, "  wrapgen check api.yaml\n")
	}
	flag.Parse()

	verbosity := 0
	if *verbose {
		verbosity = 1
	}
	if *debug {
		verbosity = 2
	}
	commonlog.Configure(verbosity, nil)

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch args[0] {
	case "gen":
		err = runGen(ctx, args[1:], os.Stdout)
	case "check":
		err = runCheck(args[1:], os.Stdout)
	case "encode":
		err = runEncode(args[1:])
	case "help", "-h", "--help":
		flag.Usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n", args[0])
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
