// Command zincc is the Zinc compiler driver: it parses and analyses a
// source file, lowers it to bytecode, runs the dead-function-elimination
// pass, and can disassemble or execute the resulting artefact. It replaces
// the teacher's bare flag-based cmd/retro/main.go with a cobra command
// tree, keeping the same option-wiring and non-zero-exit-on-error
// discipline.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	log     = logrus.New()
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "zincc",
		Short:         "Zinc: a circuit DSL compiler and bytecode VM",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			}
		},
	}
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug-level logging")
	cmd.AddCommand(newBuildCmd())
	cmd.AddCommand(newDisasmCmd())
	cmd.AddCommand(newRunCmd())
	return cmd
}

func main() {
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: false})
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "zincc:", err)
		os.Exit(1)
	}
}
