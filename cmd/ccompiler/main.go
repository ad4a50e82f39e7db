// Command ccompiler is the driver for the C-subset-to-x86-64 compiler:
// <ccompiler> <input-file> [-o <output-file>] (§6.3).
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mauriciosalazarsh/ccx64/pkg/compiler"

	"github.com/sanity-io/litter"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("ccompiler", flag.ContinueOnError)
	output := fs.String("o", "output.s", "assembly output path")
	dumpTokens := fs.Bool("dump-tokens", false, "print the scanner's token stream")
	dumpAST := fs.Bool("dump-ast", false, "print the parsed AST")
	noFold := fs.Bool("no-constant-folding", false, "disable compile-time constant folding")
	noDeadCode := fs.Bool("no-dead-code-elimination", false, "disable dead-branch elimination")

	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: ccompiler <input-file> [-o <output-file>]")
		return 1
	}
	inputPath := fs.Arg(0)

	fullPath, err := filepath.Abs(inputPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "path error:", err)
		return 1
	}

	src, err := os.ReadFile(fullPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read error:", err)
		return 1
	}

	opts := compiler.DefaultCodeGenOptions()
	opts.EnableConstantFolding = !*noFold
	opts.EnableDeadCodeElimination = !*noDeadCode

	result, errs := compiler.Compile(string(src), opts)

	if *dumpTokens {
		litter.Dump(result.Tokens)
	}
	if *dumpAST && result.Program != nil {
		litter.Dump(result.Program)
	}

	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, "error:", e)
		}
		return 1
	}

	if err := os.WriteFile(*output, []byte(result.Assembly), 0o644); err != nil {
		fmt.Fprintln(os.Stderr, "write error:", err)
		return 1
	}

	return 0
}
