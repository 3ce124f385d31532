package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/varlens/varlens/internal/render"
	"github.com/varlens/varlens/pkg/varlens"
)

var scopesCmd = &cobra.Command{
	Use:   "scopes <file>",
	Short: "Show the static line-to-scope map of a script without running it",
	Args:  cobra.ExactArgs(1),
	RunE:  scopesExecution,
}

func init() {
	scopesCmd.Flags().Bool("json", false, "emit the scope map as JSON")
}

func scopesExecution(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	source, err := readSource(args[0])
	if err != nil {
		return err
	}

	info, analyzeErr := varlens.Analyze(source, args[0])

	if asJSON {
		data, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	} else {
		render.Scopes(os.Stdout, info, colored(cfg))
	}

	if analyzeErr != nil {
		render.Failure(os.Stderr, analyzeErr.Error(), colored(cfg))
		os.Exit(1)
	}
	return nil
}
