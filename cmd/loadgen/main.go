package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := options{}
	cmd := &cobra.Command{
		Use:          "loadgen",
		Short:        "Fire random route queries at a running server and summarise latency",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&opts.server, "server", "http://127.0.0.1:8000", "server base URL")
	fl.IntVar(&opts.clients, "clients", 4, "concurrent clients")
	fl.DurationVar(&opts.duration, "duration", 30*time.Second, "run length per client count")
	fl.IntSliceVar(&opts.sweep, "sweep", nil, "closed-loop client counts, e.g. 2,4,8,16 (overrides --clients)")
	fl.StringVar(&opts.csv, "csv", "", "write sweep results as CSV to this file")
	fl.BoolVar(&opts.clearCache, "clear-cache", true, "clear the server route cache before each run")
	fl.Uint64Var(&opts.seed, "seed", 0, "random seed (0 picks one from the clock)")
	return cmd
}
