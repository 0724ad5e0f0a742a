// Package cli is the verticut command line: process one video, or watch a
// drop folder and process everything that lands in it.
package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/verticut/verticut/internal/logging"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	var (
		configPath string
		verbose    bool
	)

	root := &cobra.Command{
		Use:           "verticut",
		Short:         "Turn long gameplay recordings into vertical highlight shorts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Init(verbose)
		},
	}
	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to YAML config (defaults apply when omitted)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")

	process := &cobra.Command{
		Use:   "process <input>",
		Short: "Cut highlight shorts from one recording",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("out")
			return runProcess(cmd.Context(), configPath, args[0], out)
		},
	}
	process.Flags().String("out", "", "Output directory (overrides config)")

	watch := &cobra.Command{
		Use:   "watch",
		Short: "Watch the drop folder and process new recordings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), configPath)
		},
	}

	root.AddCommand(process, watch)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
