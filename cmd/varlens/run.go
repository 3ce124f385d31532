package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/varlens/varlens/pkg/varlens"
)

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Execute a script and print its output",
	Args:  cobra.ExactArgs(1),
	RunE:  runExecution,
}

func runExecution(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	source, err := readSource(args[0])
	if err != nil {
		return err
	}

	rep := varlens.Run(cmd.Context(), source, varlens.Options{
		FilePath:    args[0],
		MaxValueLen: cfg.MaxValueLen,
	})
	fmt.Print(rep.PrintedOutput)

	if rep.Failed() {
		// The marked error line is already part of the printed output.
		os.Exit(1)
	}
	return nil
}
