package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/matter-labs/zinc-sub006/generator"
	"github.com/matter-labs/zinc-sub006/vm"
)

func newDisasmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "disasm <artefact.znb>",
		Short: "disassemble a compiled artefact to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := generator.LoadApplication(args[0])
			if err != nil {
				return errors.Wrapf(err, "loading %s", args[0])
			}
			return vm.Disassemble(app, os.Stdout)
		},
	}
	return cmd
}
