package txdep

import (
	"container/heap"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/parallel-evm/pevm/types"
)

// Partition is an ordered sequence of TxIds assigned to one worker.
type Partition []types.TxId

// Partitioner turns a Graph plus per-transaction weights into balanced
// Partitions, per spec 4.3.2. Weight defaults to RawTransferWeight
// until a round's measured runtimes replace it.
type Partitioner struct {
	graph   *Graph
	weights []int // indexed relative to graph.NumFinalityTxs; nil means "all RawTransferWeight"
}

// NewPartitioner wraps graph with no measured weights yet.
func NewPartitioner(graph *Graph) *Partitioner {
	return &Partitioner{graph: graph}
}

// SetWeights installs measured runtimes (or any other weight) for the
// next call to FetchBestPartitions, per 4.3.3/4.5.5 (measured runtimes
// preferred over the static prior once available).
func (p *Partitioner) SetWeights(weights []int) { p.weights = weights }

func (p *Partitioner) weightOf(index int) int {
	if p.weights == nil || index >= len(p.weights) {
		return RawTransferWeight
	}
	return p.weights[index]
}

// FetchBestPartitions returns at most partitionCount Partitions
// covering every non-finalized TxId exactly once, disjoint, each
// internally ascending.
func (p *Partitioner) FetchBestPartitions(partitionCount int) []Partition {
	n := p.graph.Len()
	if n == 0 {
		return nil
	}
	if p.graph.AllIndependent {
		return allIndependentPartitions(p.graph.NumFinalityTxs, n, partitionCount)
	}
	return p.generalPartitions(partitionCount)
}

// allIndependentPartitions is the fast path: K contiguous chunks of
// size ~= n/K, no graph walk required.
func allIndependentPartitions(numFinalityTxs, n, partitionCount int) []Partition {
	numPartitions := partitionCount
	if numPartitions > n {
		numPartitions = n
	}
	if numPartitions <= 0 {
		numPartitions = 1
	}
	remaining := n % numPartitions
	chunkSize := n / numPartitions

	out := make([]Partition, 0, numPartitions)
	start := numFinalityTxs
	for i := 0; i < numPartitions; i++ {
		size := chunkSize
		if i < remaining {
			size++
		}
		if size == 0 {
			continue
		}
		part := make(Partition, size)
		for j := 0; j < size; j++ {
			part[j] = start + j
		}
		out = append(out, part)
		start += size
	}
	return out
}

// group is a connected component discovered by the descending-TxId
// flood, tagged with its total weight.
type group struct {
	txs    []types.TxId // ascending
	weight int
}

// generalPartitions implements 4.3.2 step 2: walk TxIds in descending
// order, flood each unvisited node's connected component using both
// forward (Deps) and reverse (rdeps) adjacency, split singleton groups
// off for bulk round-robin distribution, then assign the remainder to
// partitions by min-weight-first.
func (p *Partitioner) generalPartitions(partitionCount int) []Partition {
	n := p.graph.Len()
	base := p.graph.NumFinalityTxs

	// Reverse adjacency: rdeps[i] lists j such that j depends on i
	// (i.e. i appears in Deps[j]).
	rdeps := make([][]int, n)
	for j, ds := range p.graph.Deps {
		for _, d := range ds {
			i := d - base
			rdeps[i] = append(rdeps[i], j)
		}
	}

	visited := make([]bool, n)
	var singletons []types.TxId
	var groups []group

	for idx := n - 1; idx >= 0; idx-- {
		if visited[idx] {
			continue
		}
		if len(p.graph.Deps[idx]) == 0 && len(rdeps[idx]) == 0 {
			visited[idx] = true
			singletons = append(singletons, base+idx)
			continue
		}
		// BFS flood over the connected component containing idx.
		queue := []int{idx}
		visited[idx] = true
		var members []int
		weight := 0
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			members = append(members, cur)
			weight += p.weightOf(cur)
			for _, d := range p.graph.Deps[cur] {
				ni := d - base
				if !visited[ni] {
					visited[ni] = true
					queue = append(queue, ni)
				}
			}
			for _, rj := range rdeps[cur] {
				if !visited[rj] {
					visited[rj] = true
					queue = append(queue, rj)
				}
			}
		}
		txs := make([]types.TxId, len(members))
		for i, m := range members {
			txs[i] = base + m
		}
		sortTxIds(txs)
		groups = append(groups, group{txs: txs, weight: weight})
	}

	numPartitions := partitionCount
	totalGroups := len(groups)
	if len(singletons) > 0 {
		totalGroups++
	}
	if numPartitions > totalGroups {
		numPartitions = totalGroups
	}
	if numPartitions <= 0 {
		numPartitions = 1
	}

	sets := make([]mapset.Set[types.TxId], numPartitions)
	pw := &partitionHeap{}
	heap.Init(pw)
	for i := 0; i < numPartitions; i++ {
		sets[i] = mapset.NewThreadUnsafeSet[types.TxId]()
		heap.Push(pw, &partitionWeight{index: i, weight: 0})
	}

	// Singletons: bulk round-robin, cheaper than one heap op each.
	for i, tx := range singletons {
		sets[i%numPartitions].Add(tx)
	}
	// Re-seed the heap with the singleton bulk-load weight.
	counts := make([]int, numPartitions)
	for i := range singletons {
		counts[i%numPartitions] += RawTransferWeight
	}
	*pw = partitionHeap{}
	heap.Init(pw)
	for i := 0; i < numPartitions; i++ {
		heap.Push(pw, &partitionWeight{index: i, weight: counts[i]})
	}

	// Descending-weight groups, min-weight-first assignment.
	sortGroupsDescending(groups)
	for _, g := range groups {
		top := heap.Pop(pw).(*partitionWeight)
		for _, tx := range g.txs {
			sets[top.index].Add(tx)
		}
		top.weight += g.weight
		heap.Push(pw, top)
	}

	out := make([]Partition, 0, numPartitions)
	for _, s := range sets {
		if s.Cardinality() == 0 {
			continue
		}
		txs := s.ToSlice()
		sortTxIds(txs)
		out = append(out, Partition(txs))
	}
	return out
}

func sortTxIds(s []types.TxId) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j] < s[j-1]; j-- {
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
}

func sortGroupsDescending(g []group) {
	for i := 1; i < len(g); i++ {
		for j := i; j > 0 && g[j].weight > g[j-1].weight; j-- {
			g[j], g[j-1] = g[j-1], g[j]
		}
	}
}

// partitionWeight is a min-heap entry keyed by current partition load.
type partitionWeight struct {
	index  int
	weight int
}

type partitionHeap []*partitionWeight

func (h partitionHeap) Len() int            { return len(h) }
func (h partitionHeap) Less(i, j int) bool  { return h[i].weight < h[j].weight }
func (h partitionHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *partitionHeap) Push(x interface{}) { *h = append(*h, x.(*partitionWeight)) }
func (h *partitionHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
