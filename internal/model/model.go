package model

// Edge is one undirected connection. Stores keep it in both directions.
type Edge struct {
	From   string  `json:"from" yaml:"from"`
	To     string  `json:"to" yaml:"to"`
	Weight float64 `json:"weight" yaml:"weight"`
}

type RouteResponse struct {
	Path          []string `json:"path"`
	TotalDistance float64  `json:"total_distance"`
	NodesVisited  int      `json:"nodes_visited"`
	CacheHit      bool     `json:"cache_hit"`
}

type GraphInfoResponse struct {
	Nodes     []string `json:"nodes"`
	NodeCount int      `json:"node_count"`
	EdgeCount int      `json:"edge_count"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

type RootResponse struct {
	Message       string `json:"message"`
	Version       string `json:"version"`
	Documentation string `json:"documentation"`
}

type CacheStats struct {
	Gets      int `json:"gets"`
	Hits      int `json:"hits"`
	Puts      int `json:"puts"`
	Evictions int `json:"evictions"`
	Size      int `json:"size"`
}
