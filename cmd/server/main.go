package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/atharv3903/logiroute/internal/config"
	"github.com/spf13/cobra"
)

type flags struct {
	configPath  string
	host        string
	port        int
	graphSource string
	graphFile   string
	dsn         string
	snapshotDir string
	logLevel    string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	f := &flags{}
	root := &cobra.Command{
		Use:           "server",
		Short:         "Shortest-path routing engine for a logistics network",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, f)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "YAML config file")
	pf.StringVar(&f.host, "host", "", "listen host")
	pf.IntVar(&f.port, "port", 0, "listen port")
	pf.StringVar(&f.graphSource, "graph-source", "", "graph source (embedded, file, mysql, badger)")
	pf.StringVar(&f.graphFile, "graph-file", "", "YAML graph file for the file source")
	pf.StringVar(&f.dsn, "dsn", "", "MySQL DSN, e.g. root:pass@tcp(127.0.0.1:3306)/logiroute")
	pf.StringVar(&f.snapshotDir, "snapshot-dir", "", "badger snapshot directory")
	pf.StringVar(&f.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Serve the HTTP API (default)",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runServe(cmd, f)
			},
		},
		newRouteCmd(f),
		newGraphCmd(f),
		newExportCmd(f),
	)
	return root
}

// loadConfig layers explicitly set flags over file and environment settings.
func loadConfig(cmd *cobra.Command, f *flags) (config.ServerConfig, *slog.Logger, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return cfg, nil, err
	}

	changed := cmd.Flags().Changed
	if changed("host") {
		cfg.Host = f.host
	}
	if changed("port") {
		cfg.Port = f.port
	}
	if changed("graph-source") {
		cfg.Graph.Source = f.graphSource
	}
	if changed("graph-file") {
		cfg.Graph.File = f.graphFile
	}
	if changed("dsn") {
		cfg.Graph.MySQLDSN = f.dsn
	}
	if changed("snapshot-dir") {
		cfg.Graph.SnapshotDir = f.snapshotDir
	}
	if changed("log-level") {
		cfg.Log.Level = f.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return cfg, nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, cfg.NewLogger(cmd.ErrOrStderr()), nil
}
