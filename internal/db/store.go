package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/atharv3903/logiroute/internal/model"
)

// Store reads and writes the edges table. Every row is one direction of an
// undirected edge, so a well formed table holds each edge twice.
type Store struct {
	DB *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS edges (
	src_node VARCHAR(191) NOT NULL,
	dst_node VARCHAR(191) NOT NULL,
	weight   DOUBLE       NOT NULL,
	PRIMARY KEY (src_node, dst_node)
)`

func (s Store) EnsureSchema(ctx context.Context) error {
	_, err := s.DB.ExecContext(ctx, schema)
	return err
}

// Arcs returns every row of the edges table.
func (s Store) Arcs(ctx context.Context) ([]model.Edge, error) {
	rows, err := s.DB.QueryContext(ctx, `
        SELECT src_node, dst_node, weight
        FROM edges
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	arcs := make([]model.Edge, 0, 64)

	for rows.Next() {
		var e model.Edge
		if err := rows.Scan(&e.From, &e.To, &e.Weight); err != nil {
			return nil, err
		}
		arcs = append(arcs, e)
	}

	return arcs, rows.Err()
}

// ReplaceEdges swaps the table contents for edges, writing both directions,
// in one transaction.
func (s Store) ReplaceEdges(ctx context.Context, edges []model.Edge) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM edges`); err != nil {
		return fmt.Errorf("clear edges: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO edges (src_node, dst_node, weight) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range edges {
		if _, err := stmt.ExecContext(ctx, e.From, e.To, e.Weight); err != nil {
			return fmt.Errorf("insert %s -> %s: %w", e.From, e.To, err)
		}
		if _, err := stmt.ExecContext(ctx, e.To, e.From, e.Weight); err != nil {
			return fmt.Errorf("insert %s -> %s: %w", e.To, e.From, err)
		}
	}

	return tx.Commit()
}
