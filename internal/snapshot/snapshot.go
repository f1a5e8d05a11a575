// Package snapshot persists a graph in BadgerDB so a server can start from a
// previously exported network without its original source.
//
// Layout: every Save writes a new generation, one key per node,
// "gen/<n>/node/<id>", whose value is the binary encoded adjacency of that
// node. The key "meta/current" names the generation Load reads and only moves
// once the new generation is fully written.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/atharv3903/logiroute/internal/graph"
	"github.com/dgraph-io/badger/v4"
	"github.com/kelindar/binary"
)

const currentKey = "meta/current"

func nodePrefix(gen uint64) string {
	return "gen/" + strconv.FormatUint(gen, 10) + "/node/"
}

var ErrEmptySnapshot = errors.New("snapshot holds no nodes")

type Config struct {
	// Path is the badger directory. Ignored when InMemory is set.
	Path     string
	InMemory bool
	// Logger receives badger's own log lines. Nil silences them.
	Logger *slog.Logger
}

type arc struct {
	To     string
	Weight float64
}

type Snapshot struct {
	db *badger.DB
}

func Open(cfg Config) (*Snapshot, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("snapshot path is required")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, fmt.Errorf("create snapshot directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}

	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &Snapshot{db: db}, nil
}

func (s *Snapshot) Close() error {
	return s.db.Close()
}

// Save replaces the snapshot contents with g. A failed Save leaves the
// previous generation readable.
func (s *Snapshot) Save(ctx context.Context, g *graph.Store) error {
	prev, hasPrev, err := s.current()
	if err != nil {
		return err
	}
	gen := prev + 1
	prefix := nodePrefix(gen)

	// leftovers of an earlier Save that failed before switching
	if err := s.db.DropPrefix([]byte(prefix)); err != nil {
		return fmt.Errorf("clear generation %d: %w", gen, err)
	}

	batch := s.db.NewWriteBatch()
	defer batch.Cancel()

	for _, id := range g.SortedNodes() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		nb, err := g.Neighbors(id)
		if err != nil {
			return err
		}
		arcs := make([]arc, 0, len(nb))
		for to, w := range nb {
			arcs = append(arcs, arc{To: to, Weight: w})
		}
		val, err := binary.Marshal(arcs)
		if err != nil {
			return fmt.Errorf("encode %s: %w", id, err)
		}
		if err := batch.Set([]byte(prefix+id), val); err != nil {
			return err
		}
	}
	if err := batch.Flush(); err != nil {
		return fmt.Errorf("write generation %d: %w", gen, err)
	}

	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(currentKey), []byte(strconv.FormatUint(gen, 10)))
	}); err != nil {
		return fmt.Errorf("switch to generation %d: %w", gen, err)
	}

	if hasPrev {
		if err := s.db.DropPrefix([]byte(nodePrefix(prev))); err != nil {
			return fmt.Errorf("drop generation %d: %w", prev, err)
		}
	}
	return nil
}

// current returns the generation Load reads. ok is false before the first Save.
func (s *Snapshot) current() (gen uint64, ok bool, err error) {
	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(currentKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			gen, err = strconv.ParseUint(string(val), 10, 64)
			ok = err == nil
			return err
		})
	})
	if err != nil {
		return 0, false, fmt.Errorf("read current generation: %w", err)
	}
	return gen, ok, nil
}

// Load rebuilds a graph from the snapshot. The result passes through
// graph.Builder, so a damaged snapshot fails instead of producing a broken store.
func (s *Snapshot) Load(ctx context.Context) (*graph.Store, error) {
	gen, ok, err := s.current()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrEmptySnapshot
	}

	b := graph.NewBuilder()
	nodes := 0

	err = s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(nodePrefix(gen))
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			id := string(item.Key()[len(prefix):])

			val, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			var arcs []arc
			if err := binary.Unmarshal(val, &arcs); err != nil {
				return fmt.Errorf("decode %s: %w", id, err)
			}

			b.AddNode(id)
			for _, a := range arcs {
				b.AddArc(id, a.To, a.Weight)
			}
			nodes++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if nodes == 0 {
		return nil, ErrEmptySnapshot
	}
	return b.Build()
}

type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
