package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/atharv3903/logiroute/internal/algo"
	"github.com/atharv3903/logiroute/internal/db"
	"github.com/atharv3903/logiroute/internal/loader"
	"github.com/atharv3903/logiroute/internal/model"
	"github.com/atharv3903/logiroute/internal/snapshot"
	"github.com/spf13/cobra"

	_ "github.com/go-sql-driver/mysql"
)

func newRouteCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "route START END",
		Short: "Print the shortest route between two locations",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			g, err := loader.Load(cmd.Context(), cfg.GraphSource(), logger)
			if err != nil {
				return fmt.Errorf("load graph: %w", err)
			}

			r, err := algo.NewEngine(g).CalculateRoute(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\ndistance: %.2f\nstops: %d\nnodes visited: %d\n",
				strings.Join(r.Path, " -> "), r.Distance, r.Stops(), r.NodesVisited)
			return nil
		},
	}
}

func newGraphCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "graph",
		Short: "Print the loaded graph's nodes and edge count as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			g, err := loader.Load(cmd.Context(), cfg.GraphSource(), logger)
			if err != nil {
				return fmt.Errorf("load graph: %w", err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(model.GraphInfoResponse{
				Nodes:     g.SortedNodes(),
				NodeCount: g.NodeCount(),
				EdgeCount: g.EdgeCount(),
			})
		},
	}
}

func newExportCmd(f *flags) *cobra.Command {
	var to, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the loaded graph to a badger snapshot, a MySQL edges table or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			g, err := loader.Load(ctx, cfg.GraphSource(), logger)
			if err != nil {
				return fmt.Errorf("load graph: %w", err)
			}

			switch to {
			case "badger":
				// --snapshot-dir names the target here, not the source
				if f.snapshotDir == "" {
					return fmt.Errorf("export to badger needs --snapshot-dir")
				}
				snap, err := snapshot.Open(snapshot.Config{Path: f.snapshotDir, Logger: logger})
				if err != nil {
					return err
				}
				defer snap.Close()
				if err := snap.Save(ctx, g); err != nil {
					return err
				}
			case "mysql":
				if f.dsn == "" {
					return fmt.Errorf("export to mysql needs --dsn")
				}
				conn, err := sql.Open("mysql", f.dsn)
				if err != nil {
					return err
				}
				defer conn.Close()
				store := db.Store{DB: conn}
				if err := store.EnsureSchema(ctx); err != nil {
					return err
				}
				if err := store.ReplaceEdges(ctx, g.Edges()); err != nil {
					return err
				}
			case "yaml":
				w := cmd.OutOrStdout()
				if out != "" {
					file, err := os.Create(out)
					if err != nil {
						return err
					}
					defer file.Close()
					w = file
				}
				if err := loader.WriteYAML(w, g); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown export target %q (badger, mysql, yaml)", to)
			}

			logger.Info("graph exported", "to", to, "nodes", g.NodeCount(), "edges", g.EdgeCount()/2)
			return nil
		},
	}
	cmd.Flags().StringVar(&to, "to", "yaml", "export target (badger, mysql, yaml)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file for the yaml target (default stdout)")
	return cmd
}
