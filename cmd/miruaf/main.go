// Command miruaf is the CLI entry point: an "analyze" command that walks
// a directory of MIR dumps reporting use-after-free findings, and a
// "dump-paths" debug subcommand. Replaces the teacher's
// cmd/malphas-haruspex, trading its --lsp/default flag split for cobra's
// two-subcommand shape and its single-file parse/typecheck/lower/analyze
// pipeline for discover/parse/enumerate/interpret.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/malphas-lang/mir-uaf/internal/diagnostics"
	"github.com/malphas-lang/mir-uaf/internal/driver"
	"github.com/malphas-lang/mir-uaf/internal/logevents"
	"github.com/malphas-lang/mir-uaf/internal/mir"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logFile string

	root := &cobra.Command{
		Use:   "miruaf",
		Short: "Detect use-after-free bugs in MIR text dumps",
	}
	root.PersistentFlags().StringVar(&logFile, "log-file", "detector.log", "path to the critical-level event log")

	root.AddCommand(newAnalyzeCmd(&logFile))
	root.AddCommand(newDumpPathsCmd())

	return root
}

func newAnalyzeCmd(logFile *string) *cobra.Command {
	var skipGlobs []string

	cmd := &cobra.Command{
		Use:   "analyze <dir>",
		Short: "Recursively analyze every MIR dump under dir",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, closeLog, err := logevents.New(*logFile)
			if err != nil {
				return fmt.Errorf("opening log file: %w", err)
			}
			defer closeLog()

			// A Driver-failure-class error (file read, missing directory)
			// aborts the run here per spec.md §6/§7: Run returns it rather
			// than folding it into a per-file result, so it propagates as a
			// nonzero exit below.
			results, err := driver.Run(cmd.Context(), args[0], logger, skipGlobs...)
			if err != nil {
				return err
			}

			var totalFindings int
			for _, r := range results {
				for _, f := range r.Findings {
					fmt.Println(f.String())
				}
				totalFindings += len(r.Findings)
			}

			fmt.Printf("analyzed %d files, %d findings\n", len(results), totalFindings)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&skipGlobs, "skip", nil, "glob pattern of MIR files to exclude from analysis (repeatable)")
	return cmd
}

// newDumpPathsCmd exposes the original's dump()/dump_flows() debug
// output as an explicit subcommand distinct from analyze, per
// SPEC_FULL.md's supplemented-features section.
func newDumpPathsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump-paths <file>",
		Short: "Print every enumerated basic-block path of the function in a MIR file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}

			diag := diagnostics.NewCollector()
			fn := mir.Build(strings.Split(string(raw), "\n"), args[0], diag)
			if fn == nil {
				return fmt.Errorf("no function recognized in %s", args[0])
			}

			fmt.Printf("Function: %s\n", fn.Name)
			for _, path := range mir.EnumeratePaths(fn) {
				labels := make([]string, len(path))
				for i, b := range path {
					labels[i] = b.Label
				}
				fmt.Println(strings.Join(labels, " -> "))
			}

			for _, d := range diag.Diagnostics() {
				fmt.Println(d)
			}
			return nil
		},
	}
}
