// Command dlox is the driver for the bytecode compiler and VM: a REPL
// when invoked with no script, or a single-file interpreter otherwise
// (spec.md §4.7 "Driver"). It is deliberately thin — it owns none of the
// language semantics, only wiring scanner/compiler/VM together and
// mapping errors to exit codes.
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/urfave/cli.v1"

	"github.com/kristofer/dlox/pkg/compiler"
	"github.com/kristofer/dlox/pkg/heap"
	"github.com/kristofer/dlox/pkg/vm"
)

// Exit codes per spec.md §6.
const (
	exitOK         = 0
	exitCompileErr = 65
	exitRuntimeErr = 70
	exitUsageErr   = 64
)

var log = logrus.StandardLogger()

func main() {
	app := cli.NewApp()
	app.Name = "dlox"
	app.Usage = "a bytecode compiler and stack VM for a small dynamically-typed scripting language"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "trace, t",
			Usage: "log each executed instruction via the bytecode disassembler",
		},
		cli.StringFlag{
			Name:  "c",
			Usage: "run the given source string instead of a file or the REPL",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUsageErr)
	}
}

func run(ctx *cli.Context) error {
	if ctx.Bool("trace") {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}

	if src := ctx.String("c"); src != "" {
		os.Exit(interpret(src, ctx.Bool("trace")))
	}

	switch ctx.NArg() {
	case 0:
		runPrompt(ctx.Bool("trace"))
	case 1:
		os.Exit(runFile(ctx.Args().First(), ctx.Bool("trace")))
	default:
		fmt.Fprintln(os.Stderr, "Usage: dlox [-trace] [script]")
		os.Exit(exitUsageErr)
	}
	return nil
}

// runFile reads and interprets a single script file (spec.md §4.7).
func runFile(path string, trace bool) int {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not read file %q: %v\n", path, err)
		return exitUsageErr
	}
	return interpret(string(data), trace)
}

// runPrompt runs an interactive REPL. Per spec.md §4.7, the heap and
// globals persist across lines, but each line gets its own Compiler so
// compile errors on one line never corrupt later lines.
func runPrompt(trace bool) {
	h := heap.New()
	v := vm.New(os.Stdout, h)
	v.SetTrace(trace)

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for scanner.Scan() {
		line := scanner.Text()
		if line != "" {
			c := compiler.New(h)
			bc, err := c.Compile(line)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
			} else if err := v.Run(bc); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		}
		fmt.Print("> ")
	}
	fmt.Println()
}

// interpret compiles and runs source once, returning the process exit
// code spec.md §6 assigns: 0 success, 65 compile error, 70 runtime
// error.
func interpret(source string, trace bool) int {
	h := heap.New()
	c := compiler.New(h)
	bc, err := c.Compile(source)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitCompileErr
	}

	v := vm.New(os.Stdout, h)
	v.SetTrace(trace)
	if err := v.Run(bc); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitRuntimeErr
	}
	return exitOK
}
