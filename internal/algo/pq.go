package algo

import "container/heap"

// pq is a binary min-heap keyed by tentative distance. A node may sit in it
// several times with stale distances; the search drops those on pop.
type pqItem struct {
	node string
	dist float64
}

type pq []pqItem

func (p pq) Len() int           { return len(p) }
func (p pq) Less(i, j int) bool { return p[i].dist < p[j].dist }
func (p pq) Swap(i, j int)      { p[i], p[j] = p[j], p[i] }

func (p *pq) Push(x any) {
	*p = append(*p, x.(pqItem))
}

func (p *pq) Pop() any {
	old := *p
	n := len(old)
	item := old[n-1]
	*p = old[:n-1]
	return item
}

func (p *pq) push(node string, dist float64) {
	heap.Push(p, pqItem{node: node, dist: dist})
}

func (p *pq) pop() pqItem {
	return heap.Pop(p).(pqItem)
}
