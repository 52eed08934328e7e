package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

var (
	compileOnly  bool
	assembleOnly bool
	outputName   string
	cellCount    uint
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "bfc [flags] file",
	Short: "compile Brainfuck to a 32-bit x86 executable",
	Long: "bfc compiles a Brainfuck source file into Intel-syntax IA-32\n" +
		"assembly, then runs the system assembler and linker to produce a\n" +
		"standalone executable. The -S and -c flags stop the pipeline after\n" +
		"the compile or assemble stage; -o names whichever artifact comes\n" +
		"out of the last stage run.",
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		d := driver{
			target: resolveTarget(compileOnly, assembleOnly),
			in:     args[0],
			out:    outputName,
			cells:  cellCount,
		}
		if verbose {
			d.logfn = log.Printf
		}
		d.tools = execTools{logfn: d.logfn}
		return d.run(cmd.Context())
	},
}

// resolveTarget picks the last stage to run; when both stop flags are
// given the earlier stop wins.
func resolveTarget(compileOnly, assembleOnly bool) stage {
	target := stageLink
	if assembleOnly {
		target = stageAssemble
	}
	if compileOnly {
		target = stageCompile
	}
	return target
}

func init() {
	flags := rootCmd.Flags()
	flags.BoolVarP(&compileOnly, "compile-only", "S", false, "compile only; do not assemble or link")
	flags.BoolVarP(&assembleOnly, "assemble-only", "c", false, "compile and assemble, but do not link")
	flags.StringVarP(&outputName, "output", "o", "", "write output to `file`")
	flags.UintVarP(&cellCount, "cells", "s", 4096, "allocate the specified number of `bytes`")
	flags.BoolVarP(&verbose, "verbose", "v", false, "trace compilation to stderr")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "bfc: %v\n", err)
		atexit.Exit(1)
	}
	atexit.Exit(0)
}
