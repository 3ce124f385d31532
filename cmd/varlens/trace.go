package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/varlens/varlens/internal/config"
	"github.com/varlens/varlens/internal/render"
	"github.com/varlens/varlens/internal/store"
	"github.com/varlens/varlens/pkg/varlens"
)

var traceCmd = &cobra.Command{
	Use:   "trace <file>",
	Short: "Execute a script and report every variable value change",
	Args:  cobra.ExactArgs(1),
	RunE:  traceExecution,
}

func init() {
	traceCmd.Flags().Bool("json", false, "emit the full result bundle as JSON")
	traceCmd.Flags().Bool("save", false, "persist the run to the history database")
}

func traceExecution(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	save, err := cmd.Flags().GetBool("save")
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

	if save {
		if err := saveRun(cfg, source, rep); err != nil {
			return err
		}
	}

	if asJSON {
		data, err := rep.ToJSON()
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Print(rep.PrintedOutput)
	fmt.Println()
	render.Trace(os.Stdout, rep.TraceMap, colored(cfg))
	if rep.Failed() {
		os.Exit(1)
	}
	return nil
}

func saveRun(cfg *config.Config, source string, rep *varlens.Report) error {
	path, err := cfg.ResolveHistoryPath()
	if err != nil {
		return err
	}
	st, err := store.Open(path)
	if err != nil {
		return err
	}
	defer st.Close()

	id, err := st.SaveRun(source, rep)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "saved run %s\n", id)
	return nil
}
