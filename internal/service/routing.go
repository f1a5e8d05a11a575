// Package service wraps the routing engine for request handlers: result
// caching, collapsing of identical concurrent queries, query deadlines,
// metrics and logging.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/atharv3903/logiroute/internal/algo"
	"github.com/atharv3903/logiroute/internal/cache"
	"github.com/atharv3903/logiroute/internal/graph"
	"github.com/atharv3903/logiroute/internal/metrics"
	"github.com/atharv3903/logiroute/internal/model"
	"golang.org/x/sync/singleflight"
)

var ErrQueryTimeout = errors.New("route query timed out")

type Config struct {
	// CacheSize bounds the route cache. Zero disables caching.
	CacheSize int
	// QueryTimeout bounds a single query. Zero means only the caller's
	// context applies.
	QueryTimeout time.Duration
}

type router interface {
	CalculateRoute(start, end string) (algo.Route, error)
}

type RoutingService struct {
	graph   *graph.Store
	engine  router
	cache   *cache.RouteCache
	flight  singleflight.Group
	timeout time.Duration
	metrics *metrics.Metrics
	log     *slog.Logger
}

func NewRoutingService(g *graph.Store, cfg Config, m *metrics.Metrics, logger *slog.Logger) *RoutingService {
	s := &RoutingService{
		graph:   g,
		engine:  algo.NewEngine(g),
		timeout: cfg.QueryTimeout,
		metrics: m,
		log:     logger,
	}
	if cfg.CacheSize > 0 {
		s.cache = cache.NewRouteCacheWithCap(cfg.CacheSize)
	}
	m.SetGraph(g.NodeCount(), g.EdgeCount())
	return s
}

// CalculateRoute answers a route query. The bool reports a cache hit.
//
// The search itself cannot be interrupted. When the deadline passes first the
// caller gets ErrQueryTimeout and the search finishes in the background.
func (s *RoutingService) CalculateRoute(ctx context.Context, start, end string) (algo.Route, bool, error) {
	began := time.Now()
	key := cache.RouteKey{Start: start, End: end}

	if s.cache != nil {
		r, ok := s.cache.Get(key)
		s.metrics.ObserveCache(ok)
		if ok {
			s.metrics.ObserveRoute(metrics.OutcomeOK, time.Since(began), r.NodesVisited, false)
			s.log.Debug("route cache hit", "start", start, "end", end)
			return r, true, nil
		}
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	ch := s.flight.DoChan(start+"\x00"+end, func() (any, error) {
		return s.engine.CalculateRoute(start, end)
	})

	var (
		route algo.Route
		err   error
	)
	select {
	case res := <-ch:
		err = res.Err
		if err == nil {
			route = res.Val.(algo.Route)
			// shared results hand out the same path slice
			route.Path = append([]string(nil), route.Path...)
		}
	case <-ctx.Done():
		err = fmt.Errorf("%w: %w", ErrQueryTimeout, ctx.Err())
	}

	took := time.Since(began)
	outcome := classify(err)
	s.metrics.ObserveRoute(outcome, took, route.NodesVisited, true)

	if err != nil {
		lvl := slog.LevelInfo
		if outcome == metrics.OutcomeTimeout || outcome == metrics.OutcomeError {
			lvl = slog.LevelWarn
		}
		s.log.Log(ctx, lvl, "route query failed",
			"start", start,
			"end", end,
			"outcome", outcome,
			"took", took,
			"err", err,
		)
		return algo.Route{}, false, err
	}

	if s.cache != nil {
		s.cache.Put(key, route)
	}
	s.log.Debug("route computed",
		"start", start,
		"end", end,
		"distance", route.Distance,
		"stops", route.Stops(),
		"nodes_visited", route.NodesVisited,
		"took", took,
	)
	return route, false, nil
}

// GraphInfo reports the loaded graph with nodes sorted for display.
// EdgeCount counts both directions of every edge.
func (s *RoutingService) GraphInfo() model.GraphInfoResponse {
	return model.GraphInfoResponse{
		Nodes:     s.graph.SortedNodes(),
		NodeCount: s.graph.NodeCount(),
		EdgeCount: s.graph.EdgeCount(),
	}
}

func (s *RoutingService) CacheStats() model.CacheStats {
	if s.cache == nil {
		return model.CacheStats{}
	}
	return s.cache.Stats()
}

func (s *RoutingService) ClearCache() {
	if s.cache != nil {
		s.cache.Clear()
	}
}

func classify(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, graph.ErrUnknownNode):
		return metrics.OutcomeUnknownNode
	case errors.Is(err, algo.ErrNoRoute):
		return metrics.OutcomeNoRoute
	case errors.Is(err, ErrQueryTimeout):
		return metrics.OutcomeTimeout
	default:
		return metrics.OutcomeError
	}
}
