package rrtstar

import (
	"math"
	"sync"

	"go.viam.com/utils"
)

// Handle is an opaque payload handle returned by a spatial index query. The
// kernel treats it as a stable integer reference into its vertex arena; the
// index itself never interprets it.
type Handle int

type indexEntry struct {
	key    []float64
	handle Handle
}

// SpatialIndex is the contract the planner kernel depends on for
// nearest-neighbor and fixed-radius range queries. The kernel owns no index
// internals and relies only on this interface, so any concrete structure
// (this brute-force scan, a k-d tree, a grid) can be substituted without
// touching kernel code.
type SpatialIndex interface {
	Insert(key []float64, h Handle)
	Nearest(key []float64) (Handle, bool)
	Range(key []float64, radius float64) []Handle
	Len() int
	Reset()
}

// bruteForceIndex is a linear-scan SpatialIndex, grounded on the reference
// motion planner's own neighbor manager rather than an external k-d tree
// package. Below neighborsBeforeParallelization entries the scan runs
// inline; above it, the scan is split across a worker pool, mirroring
// nearestNeighbor.go's startNNworkers/nnWorker split.
type bruteForceIndex struct {
	mu      sync.RWMutex
	entries []indexEntry
}

// NewBruteForceSpatialIndex constructs an empty brute-force spatial index.
func NewBruteForceSpatialIndex() SpatialIndex {
	return &bruteForceIndex{}
}

func (idx *bruteForceIndex) Insert(key []float64, h Handle) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.entries = append(idx.entries, indexEntry{key: append([]float64(nil), key...), handle: h})
}

func (idx *bruteForceIndex) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}

func (idx *bruteForceIndex) Reset() {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.entries = nil
}

func (idx *bruteForceIndex) Nearest(key []float64) (Handle, bool) {
	idx.mu.RLock()
	entries := idx.entries
	idx.mu.RUnlock()

	if len(entries) == 0 {
		return 0, false
	}
	if len(entries) > neighborsBeforeParallelization {
		return parallelNearest(entries, key)
	}
	bestDist := math.Inf(1)
	best := Handle(0)
	found := false
	for _, e := range entries {
		d := keyDist(e.key, key)
		if d < bestDist {
			bestDist = d
			best = e.handle
			found = true
		}
	}
	return best, found
}

func (idx *bruteForceIndex) Range(key []float64, radius float64) []Handle {
	idx.mu.RLock()
	entries := idx.entries
	idx.mu.RUnlock()

	if len(entries) > neighborsBeforeParallelization {
		return parallelRange(entries, key, radius)
	}
	var out []Handle
	for _, e := range entries {
		if keyDist(e.key, key) <= radius {
			out = append(out, e.handle)
		}
	}
	return out
}

// parallelNearest fans the scan out across a worker pool once the index
// holds enough entries that a sequential scan is the dominant per-iteration
// cost, the same threshold and escape hatch nearestNeighbor.go uses.
func parallelNearest(entries []indexEntry, key []float64) (Handle, bool) {
	nCPU := numWorkers(len(entries))
	shardResults := make([]struct {
		handle Handle
		dist   float64
		found  bool
	}, nCPU)

	var wg sync.WaitGroup
	shardSize := (len(entries) + nCPU - 1) / nCPU
	for w := 0; w < nCPU; w++ {
		w := w
		start := w * shardSize
		end := start + shardSize
		if start >= len(entries) {
			continue
		}
		if end > len(entries) {
			end = len(entries)
		}
		wg.Add(1)
		utils.PanicCapturingGo(func() {
			defer wg.Done()
			bestDist := math.Inf(1)
			var best Handle
			found := false
			for _, e := range entries[start:end] {
				d := keyDist(e.key, key)
				if d < bestDist {
					bestDist = d
					best = e.handle
					found = true
				}
			}
			shardResults[w].handle = best
			shardResults[w].dist = bestDist
			shardResults[w].found = found
		})
	}
	wg.Wait()

	bestDist := math.Inf(1)
	var best Handle
	found := false
	for _, r := range shardResults {
		if r.found && r.dist < bestDist {
			bestDist = r.dist
			best = r.handle
			found = true
		}
	}
	return best, found
}

func parallelRange(entries []indexEntry, key []float64, radius float64) []Handle {
	nCPU := numWorkers(len(entries))
	shardResults := make([][]Handle, nCPU)

	var wg sync.WaitGroup
	shardSize := (len(entries) + nCPU - 1) / nCPU
	for w := 0; w < nCPU; w++ {
		w := w
		start := w * shardSize
		end := start + shardSize
		if start >= len(entries) {
			continue
		}
		if end > len(entries) {
			end = len(entries)
		}
		wg.Add(1)
		utils.PanicCapturingGo(func() {
			defer wg.Done()
			var out []Handle
			for _, e := range entries[start:end] {
				if keyDist(e.key, key) <= radius {
					out = append(out, e.handle)
				}
			}
			shardResults[w] = out
		})
	}
	wg.Wait()

	var out []Handle
	for _, r := range shardResults {
		out = append(out, r...)
	}
	return out
}

func numWorkers(n int) int {
	nCPU := n / neighborsBeforeParallelization
	if nCPU < 1 {
		nCPU = 1
	}
	if nCPU > 8 {
		nCPU = 8
	}
	return nCPU
}

func keyDist(a, b []float64) float64 {
	sumSq := 0.0
	for i := range a {
		d := a[i] - b[i]
		sumSq += d * d
	}
	return math.Sqrt(sumSq)
}
