package main

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/atharv3903/logiroute/internal/model"
)

type recorder struct {
	latencies []time.Duration
	requests  int64
	errors    int64
	hits      int64
}

func (r *recorder) record(lat time.Duration, hit bool, err error) {
	r.requests++
	if err != nil {
		r.errors++
		return
	}
	if hit {
		r.hits++
	}
	r.latencies = append(r.latencies, lat)
}

func (r *recorder) merge(o recorder) {
	r.latencies = append(r.latencies, o.latencies...)
	r.requests += o.requests
	r.errors += o.errors
	r.hits += o.hits
}

type result struct {
	Clients    int
	Requests   int64
	Errors     int64
	HitRate    float64
	Avg        time.Duration
	P50        time.Duration
	P95        time.Duration
	P99        time.Duration
	Throughput float64
}

func (r *recorder) result(clients int, elapsed time.Duration) result {
	res := result{
		Clients:  clients,
		Requests: r.requests,
		Errors:   r.errors,
	}
	if ok := r.requests - r.errors; ok > 0 {
		res.HitRate = float64(r.hits) / float64(ok) * 100
	}
	if elapsed > 0 {
		res.Throughput = float64(r.requests) / elapsed.Seconds()
	}
	res.Avg = average(r.latencies)
	res.P50, res.P95, res.P99 = percentiles(r.latencies)
	return res
}

func average(l []time.Duration) time.Duration {
	if len(l) == 0 {
		return 0
	}
	var sum time.Duration
	for _, x := range l {
		sum += x
	}
	return sum / time.Duration(len(l))
}

// percentiles uses nearest rank on a sorted copy.
func percentiles(l []time.Duration) (p50, p95, p99 time.Duration) {
	if len(l) == 0 {
		return 0, 0, 0
	}
	tmp := make([]time.Duration, len(l))
	copy(tmp, l)
	sort.Slice(tmp, func(i, j int) bool { return tmp[i] < tmp[j] })

	idx := func(p float64) int {
		i := int(float64(len(tmp)) * p)
		if i >= len(tmp) {
			i = len(tmp) - 1
		}
		return i
	}
	return tmp[idx(0.50)], tmp[idx(0.95)], tmp[idx(0.99)]
}

func printSummary(w io.Writer, r result, stats model.CacheStats) {
	fmt.Fprintln(w, "========== LOADGEN SUMMARY ==========")
	fmt.Fprintf(w, "Total Requests: %d\n", r.Requests)
	fmt.Fprintf(w, "Errors: %d\n", r.Errors)
	fmt.Fprintf(w, "Throughput: %.1f req/s\n", r.Throughput)
	fmt.Fprintf(w, "RouteCache Hit Rate: %.1f%%\n", r.HitRate)
	if stats.Gets > 0 {
		fmt.Fprintf(w, "Server Cache: gets=%d hits=%d puts=%d evictions=%d size=%d\n",
			stats.Gets, stats.Hits, stats.Puts, stats.Evictions, stats.Size)
	}
	fmt.Fprintf(w, "Latency avg=%v p50=%v p95=%v p99=%v\n", r.Avg, r.P50, r.P95, r.P99)
	fmt.Fprintln(w, "=====================================")
}

func writeCSV(w io.Writer, results []result) error {
	if _, err := fmt.Fprintln(w, "clients,avg_ms,p50_ms,p95_ms,p99_ms,throughput_rps,errors,total"); err != nil {
		return err
	}
	ms := func(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }
	for _, r := range results {
		if _, err := fmt.Fprintf(w, "%d,%.3f,%.3f,%.3f,%.3f,%.2f,%d,%d\n",
			r.Clients, ms(r.Avg), ms(r.P50), ms(r.P95), ms(r.P99),
			r.Throughput, r.Errors, r.Requests); err != nil {
			return err
		}
	}
	return nil
}
