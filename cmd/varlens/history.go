package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/varlens/varlens/internal/render"
	"github.com/varlens/varlens/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect previously saved runs",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved runs, newest first",
	Args:  cobra.NoArgs,
	RunE:  historyListExecution,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one saved run with its full trace",
	Args:  cobra.ExactArgs(1),
	RunE:  historyShowExecution,
}

func init() {
	historyListCmd.Flags().Int("limit", 20, "maximum number of runs to list")
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
}

func openHistory(cmd *cobra.Command) (*store.Store, bool, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, false, err
	}
	path, err := cfg.ResolveHistoryPath()
	if err != nil {
		return nil, false, err
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, false, err
	}
	return st, colored(cfg), nil
}

func historyListExecution(cmd *cobra.Command, args []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	st, _, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.ListRuns(limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no saved runs")
		return nil
	}

	for _, run := range runs {
		status := "ok"
		if run.Failed {
			status = "failed"
		}
		fmt.Printf("%s  %s  %-6s  %s\n",
			run.ID, run.CreatedAt.Format("2006-01-02 15:04:05"), status, run.SourcePrefix)
	}
	return nil
}

func historyShowExecution(cmd *cobra.Command, args []string) error {
	st, useColor, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	run, err := st.GetRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run %s (%s)\n\n", run.ID, run.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Print(run.Output)
	fmt.Println()
	render.Trace(os.Stdout, run.Trace, useColor)
	if run.ErrorMessage != "" {
		render.Failure(os.Stderr, run.ErrorMessage, useColor)
	}
	return nil
}
