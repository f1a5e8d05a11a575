// Package loader turns a configured graph source into a graph.Store.
package loader

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/atharv3903/logiroute/internal/db"
	"github.com/atharv3903/logiroute/internal/graph"
	"github.com/atharv3903/logiroute/internal/snapshot"

	_ "github.com/go-sql-driver/mysql"
)

const (
	SourceEmbedded = "embedded"
	SourceFile     = "file"
	SourceMySQL    = "mysql"
	SourceBadger   = "badger"
)

var Sources = []string{SourceEmbedded, SourceFile, SourceMySQL, SourceBadger}

type Source struct {
	Kind        string
	File        string
	MySQLDSN    string
	SnapshotDir string
}

func (s Source) String() string {
	switch s.Kind {
	case SourceFile:
		return "file:" + s.File
	case SourceBadger:
		return "badger:" + s.SnapshotDir
	default:
		return s.Kind
	}
}

// Load reads the graph from src. It runs once at startup, before any query.
func Load(ctx context.Context, src Source, logger *slog.Logger) (*graph.Store, error) {
	var (
		g   *graph.Store
		err error
	)

	switch src.Kind {
	case SourceEmbedded, "":
		g, err = Default()
	case SourceFile:
		g, err = ReadYAMLFile(src.File)
	case SourceMySQL:
		g, err = loadMySQL(ctx, src.MySQLDSN)
	case SourceBadger:
		g, err = loadSnapshot(ctx, src.SnapshotDir, logger)
	default:
		return nil, fmt.Errorf("unknown graph source %q", src.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("load graph from %s: %w", src, err)
	}

	logger.Info("graph loaded",
		"source", src.String(),
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
	)
	return g, nil
}

func loadMySQL(ctx context.Context, dsn string) (*graph.Store, error) {
	conn, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	arcs, err := db.Store{DB: conn}.Arcs(ctx)
	if err != nil {
		return nil, err
	}

	b := graph.NewBuilder()
	for _, a := range arcs {
		b.AddArc(a.From, a.To, a.Weight)
	}
	return b.Build()
}

func loadSnapshot(ctx context.Context, dir string, logger *slog.Logger) (*graph.Store, error) {
	s, err := snapshot.Open(snapshot.Config{Path: dir, Logger: logger})
	if err != nil {
		return nil, err
	}
	defer s.Close()
	return s.Load(ctx)
}
