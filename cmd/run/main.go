package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/echo-surface/binding"
	"github.com/wippyai/echo-surface/harness"
	"github.com/wippyai/echo-surface/surface"
)

func main() {
	var (
		opName      = flag.String("op", "", "Operation to call (optional)")
		argStr      = flag.String("args", "", "Arguments, comma-separated")
		list        = flag.Bool("list", false, "List operations and exit")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		verbose     = flag.Bool("v", false, "Verbose logging")
	)
	flag.Parse()

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		binding.SetLogger(logger)
		harness.SetLogger(logger)
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *list {
		listOps()
		return
	}

	if *opName != "" {
		if err := callOp(*opName, *argStr); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := runChecks(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func listOps() {
	fmt.Printf("Operations in %s:\n", binding.DefaultNamespace)
	for _, op := range binding.Ops() {
		fmt.Printf("  %s\n", formatSignature(op))
	}
}

func formatSignature(op binding.OpSpec) string {
	var params []string
	for _, p := range op.Params {
		params = append(params, witTypeStr(p))
	}
	sig := op.Name + "(" + strings.Join(params, ", ") + ")"
	if len(op.Results) > 0 {
		sig += " -> " + witTypeStr(op.Results[0])
	}
	return sig
}

func callOp(name, argStr string) error {
	op, ok := binding.LookupOp(name)
	if !ok {
		return fmt.Errorf("unknown operation %q, try -list", name)
	}

	var raw []string
	if argStr != "" {
		raw = strings.Split(argStr, ",")
	}
	if len(raw) < len(op.Params) {
		return fmt.Errorf("%s takes %d argument(s), got %d", name, len(op.Params), len(raw))
	}

	args := make([]any, len(op.Params))
	for i, p := range op.Params {
		value := raw[i]
		// The last argument swallows the rest, so strings may contain commas.
		if i == len(op.Params)-1 {
			value = strings.Join(raw[i:], ",")
		}
		v, err := convertArg(value, p)
		if err != nil {
			return err
		}
		args[i] = v
	}

	result, err := op.Invoke(surface.New(), args)
	if err != nil {
		return err
	}
	if result == nil {
		fmt.Println("ok")
		return nil
	}
	fmt.Printf("%v\n", result)
	return nil
}

func runChecks() error {
	results := harness.New().Run()
	for _, r := range results {
		status := "PASS"
		if !r.Passed {
			status = "FAIL"
		}
		fmt.Printf("%s  %s\n", status, r.Name)
		if r.Err != nil {
			fmt.Printf("      %v\n", r.Err)
		}
	}
	if failed := harness.Failed(results); len(failed) != 0 {
		return fmt.Errorf("%d of %d checks failed", len(failed), len(results))
	}
	fmt.Printf("\n%d checks passed\n", len(results))
	return nil
}
