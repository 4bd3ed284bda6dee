package main

import (
	"encoding/json"
	"math/big"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/matter-labs/zinc-sub006/generator"
	"github.com/matter-labs/zinc-sub006/vm"
)

func newRunCmd() *cobra.Command {
	var (
		inputPath string
		entry     string
		skeleton  bool
	)
	cmd := &cobra.Command{
		Use:   "run <artefact.znb>",
		Short: "execute a compiled artefact against a witness input.json",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := generator.LoadApplication(args[0])
			if err != nil {
				return errors.Wrapf(err, "loading %s", args[0])
			}
			if entry == "" {
				if len(app.Entries) == 0 {
					return errors.New("zincc: artefact declares no entry points")
				}
				entry = app.Entries[0].Name
			}

			if skeleton {
				sk, err := app.InputSkeleton(entry)
				if err != nil {
					return err
				}
				return writeJSON(os.Stdout, sk)
			}

			witness, err := readWitness(inputPath)
			if err != nil {
				return err
			}
			argSlots, err := app.FlattenArgs(entry, witness)
			if err != nil {
				return errors.Wrap(err, "decoding witness input")
			}

			instance := vm.New(app, nil)
			instance.SetDebugWriter(func(vals []*big.Int) {
				log.WithField("dbg", decimalStrings(vals)).Info("dbg()")
			})
			result, err := instance.Call(entry, argSlots)
			if err != nil {
				return errors.Wrap(err, "execution failed")
			}

			log.WithField("instructions", instance.InsCount()).Debug("run complete")
			return writeJSON(os.Stdout, map[string]any{
				"result":  decimalStrings(result),
				"storage": decimalStrings(instance.Storage()),
			})
		},
	}
	cmd.Flags().StringVarP(&inputPath, "input", "i", "input.json", "witness input file")
	cmd.Flags().StringVarP(&entry, "entry", "e", "", "entry point to call (default: the artefact's first)")
	cmd.Flags().BoolVar(&skeleton, "skeleton", false, "print the entry point's input.json skeleton and exit")
	return cmd
}

func readWitness(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	var witness map[string]any
	if err := json.Unmarshal(data, &witness); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	return witness, nil
}

func writeJSON(w *os.File, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func decimalStrings(vals []*big.Int) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = v.String()
	}
	return out
}
