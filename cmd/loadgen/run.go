package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/atharv3903/logiroute/internal/model"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
)

type options struct {
	server     string
	clients    int
	duration   time.Duration
	sweep      []int
	csv        string
	clearCache bool
	seed       uint64
}

type client struct {
	base string
	http *http.Client
}

func newClient(base string) *client {
	return &client{
		base: base,
		http: &http.Client{
			Timeout: 5 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        500,
				MaxIdleConnsPerHost: 500,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

func (c *client) getJSON(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, v)
}

func (c *client) postJSON(ctx context.Context, path string, body, v any) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(buf))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, v)
}

func (c *client) do(req *http.Request, v any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%s %s: %s", req.Method, req.URL.Path, resp.Status)
	}
	if v == nil {
		_, err = io.Copy(io.Discard, resp.Body)
		return err
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

func run(ctx context.Context, out io.Writer, opts options) error {
	c := newClient(opts.server)

	var info model.GraphInfoResponse
	if err := c.getJSON(ctx, "/api/v1/graph", &info); err != nil {
		return fmt.Errorf("fetch nodes: %w", err)
	}
	if len(info.Nodes) == 0 {
		return fmt.Errorf("server reports an empty graph")
	}
	fmt.Fprintf(out, "loaded %d nodes from %s\n", len(info.Nodes), opts.server)

	seed := opts.seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	counts := opts.sweep
	if len(counts) == 0 {
		counts = []int{opts.clients}
	}

	var results []result
	for i, n := range counts {
		if opts.clearCache {
			if err := c.postJSON(ctx, "/debug/clear_cache", nil, nil); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
		}

		fmt.Fprintf(out, "\n== %d clients for %s ==\n", n, opts.duration)
		res, err := runLoad(ctx, c, info.Nodes, n, opts.duration, seed+uint64(i))
		if err != nil {
			return err
		}

		var stats model.CacheStats
		if err := c.getJSON(ctx, "/debug/cache_stats", &stats); err != nil {
			fmt.Fprintf(out, "cache stats unavailable: %v\n", err)
		}
		printSummary(out, res, stats)
		results = append(results, res)
	}

	if len(opts.sweep) > 0 {
		fmt.Fprintln(out)
		if err := writeCSV(out, results); err != nil {
			return err
		}
		if opts.csv != "" {
			f, err := os.Create(opts.csv)
			if err != nil {
				return err
			}
			defer f.Close()
			if err := writeCSV(f, results); err != nil {
				return err
			}
			fmt.Fprintf(out, "saved %s\n", opts.csv)
		}
	}
	return nil
}

// runLoad keeps clients workers busy with random queries until dur elapses.
func runLoad(ctx context.Context, c *client, nodes []string, clients int, dur time.Duration, seed uint64) (result, error) {
	ctx, cancel := context.WithTimeout(ctx, dur)
	defer cancel()

	var (
		mu    sync.Mutex
		total recorder
	)

	began := time.Now()
	eg, ctx := errgroup.WithContext(ctx)
	for w := 0; w < clients; w++ {
		rng := rand.New(rand.NewSource(seed + uint64(w)))
		eg.Go(func() error {
			var local recorder
			for ctx.Err() == nil {
				req := map[string]string{
					"start": nodes[rng.Intn(len(nodes))],
					"end":   nodes[rng.Intn(len(nodes))],
				}

				var rr model.RouteResponse
				start := time.Now()
				err := c.postJSON(ctx, "/api/v1/route", req, &rr)
				lat := time.Since(start)

				if ctx.Err() != nil {
					// cut off by the deadline, not a server failure
					break
				}
				local.record(lat, rr.CacheHit, err)
			}
			mu.Lock()
			total.merge(local)
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return result{}, err
	}
	return total.result(clients, time.Since(began)), nil
}
