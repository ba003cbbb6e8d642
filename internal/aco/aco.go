// Package aco implements the Ant Colony Optimizer (IACO, C5): a
// pheromone-guided constructive optimizer, seedable from a PSO position.
// Ants are plain owned records built from scratch each iteration (no
// shared references), matching SPEC_FULL.md's design note for replacing
// mutable-personal-best "classes" with value-owned buffers.
package aco

import (
	"math"

	"golang.org/x/sync/errgroup"

	"fog-compute/internal/allocation"
	"fog-compute/internal/costmodel"
	"fog-compute/internal/logging"
	"fog-compute/internal/metrics"
	"fog-compute/internal/model"
	"fog-compute/internal/rng"
)

// Config holds the defaults from SPEC_FULL §4.5.
type Config struct {
	ColonySize int
	Iterations int
	Alpha      float64
	Beta       float64
	Rho        float64
	Q          float64
	W1         float64
	W2         float64
	Parallel   bool
	Workers    int
}

// DefaultConfig returns the colony defaults of SPEC_FULL §4.5.
func DefaultConfig() Config {
	return Config{
		ColonySize: 30,
		Iterations: 100,
		Alpha:      1.0,
		Beta:       1.0,
		Rho:        0.5,
		Q:          100,
		W1:         0.6,
		W2:         0.4,
		Workers:    4,
	}
}

// Ant owns a complete path over the n tasks and its total path length.
type Ant struct {
	Path       []int
	PathLength float64
}

// Result is the outcome of a Solve call.
type Result struct {
	BestPath   []int
	BestLength float64
	Mapping    map[string]string
}

// Solve runs the ACO over idx's task/fog-node space, seeding pheromone
// from seedPosition (a PSO 0/1 position matrix, per C5) or uniformly at
// 1.0 when seedPosition is nil.
func Solve(cfg Config, idx model.Index, seedPosition [][]float64, src *rng.Source, logger logging.Logger) (Result, error) {
	if logger == nil {
		logger = logging.Nop()
	}
	n, m := idx.NumTasks(), idx.NumFogNodes()
	if n == 0 {
		return Result{Mapping: map[string]string{}}, nil
	}
	if m == 0 {
		return Result{}, &allocation.InvariantError{Assertion: "no-fog-nodes-available"}
	}

	tau := seedPheromone(n, m, seedPosition)
	overhead := precomputeOverhead(idx, n, m)

	var bestPath []int
	bestLength := math.Inf(1)

	for iter := 0; iter < cfg.Iterations; iter++ {
		var ants []*Ant
		if cfg.Parallel && cfg.ColonySize > 1 {
			ants = constructColonyParallel(tau, overhead, cfg, n, m, src)
			// Local updates are applied after construction, in ant
			// index order, so the result is deterministic regardless
			// of which goroutine finished first — see SPEC_FULL §5.
			for _, ant := range ants {
				localPheromoneUpdate(tau, overhead, ant, cfg)
			}
		} else {
			ants = make([]*Ant, cfg.ColonySize)
			for a := 0; a < cfg.ColonySize; a++ {
				ant := constructPath(tau, overhead, cfg, n, m, src)
				ants[a] = ant
				localPheromoneUpdate(tau, overhead, ant, cfg)
			}
		}

		for _, ant := range ants {
			if ant.PathLength < bestLength {
				bestLength = ant.PathLength
				bestPath = append([]int(nil), ant.Path...)
			}
		}

		globalPheromoneUpdate(tau, overhead, ants, cfg)

		logger.Debug("aco iteration complete", map[string]any{
			"iteration":   iter,
			"best_length": bestLength,
		})
	}

	metrics.RecordIterations("aco", cfg.Iterations)
	return Result{
		BestPath:   bestPath,
		BestLength: bestLength,
		Mapping:    pathMapping(bestPath, idx),
	}, nil
}

func seedPheromone(n, m int, seed [][]float64) [][]float64 {
	tau := make([][]float64, n)
	for i := 0; i < n; i++ {
		tau[i] = make([]float64, m)
		for j := 0; j < m; j++ {
			if seed != nil {
				tau[i][j] = seed[i][j] + 0.1
			} else {
				tau[i][j] = 1.0
			}
		}
	}
	return tau
}

// precomputeOverhead computes f_ij = w_t*T_ij + w_e*E_ij once, since it
// depends only on (task, node, device) — not on pheromone or iteration —
// and is reused by every ant in every iteration.
func precomputeOverhead(idx model.Index, n, m int) [][]float64 {
	overhead := make([][]float64, n)
	for i := 0; i < n; i++ {
		overhead[i] = make([]float64, m)
		task := idx.Task(i)
		device := idx.Devices[task.DeviceID]
		for j := 0; j < m; j++ {
			node := idx.FogNode(j)
			c := costmodel.Evaluate(task, node, device)
			overhead[i][j] = costmodel.WeightedCost(c)
		}
	}
	return overhead
}

func rowMean(row []float64) float64 {
	var sum float64
	for _, v := range row {
		sum += v
	}
	return sum / float64(len(row))
}

// constructPath builds one ant's complete path in task index order,
// reading the shared pheromone matrix without modifying it (SPEC_FULL
// §4.5 step 1). The local update of step 2 is applied by the caller:
// immediately after each ant finishes in serial mode, or after the whole
// colony is built in parallel mode.
func constructPath(tau, overhead [][]float64, cfg Config, n, m int, src *rng.Source) *Ant {
	path := make([]int, n)
	var pathSum float64
	for i := 0; i < n; i++ {
		mean := rowMean(tau[i])
		weights := make([]float64, m)
		var total float64
		for j := 0; j < m; j++ {
			f := overhead[i][j]
			etaLocal := 1.0
			if f != 0 {
				etaLocal = 1 / f
			}
			etaGlobal := 1.0
			if pathSum != 0 {
				etaGlobal = 1 / pathSum
			}
			eta := cfg.W1*etaLocal + cfg.W2*etaGlobal
			mu := math.Exp(-math.Abs(tau[i][j] - mean))
			g := math.Pow(tau[i][j], cfg.Alpha) * math.Pow(eta, cfg.Beta) * mu
			weights[j] = g
			total += g
		}

		chosen := m - 1
		if total > 0 {
			r := src.Next() * total
			var cum float64
			chosen = m - 1
			for j, w := range weights {
				cum += w
				if r <= cum {
					chosen = j
					break
				}
			}
		}
		path[i] = chosen
		pathSum += overhead[i][chosen]
	}
	return &Ant{Path: path, PathLength: pathSum}
}

// localPheromoneUpdate applies SPEC_FULL §4.5 step 2 along a single
// ant's path immediately after it finishes constructing.
func localPheromoneUpdate(tau, overhead [][]float64, ant *Ant, cfg Config) {
	for i, j := range ant.Path {
		f := overhead[i][j]
		var deposit float64
		if f != 0 {
			deposit = cfg.Q / f
		}
		tau[i][j] = (1-cfg.Rho)*tau[i][j] + deposit
	}
}

// globalPheromoneUpdate applies SPEC_FULL §4.5 step 4 once per
// iteration: evaporate every entry, then every ant deposits along its
// entire path.
func globalPheromoneUpdate(tau [][]float64, overhead [][]float64, ants []*Ant, cfg Config) {
	for i := range tau {
		for j := range tau[i] {
			tau[i][j] *= 1 - cfg.Rho
		}
	}
	for _, ant := range ants {
		var deposit float64
		if ant.PathLength != 0 {
			deposit = cfg.Q / ant.PathLength
		}
		for i, j := range ant.Path {
			tau[i][j] += deposit
		}
	}
}

// constructColonyParallel builds every ant's path concurrently against a
// read-only snapshot of tau, each ant drawing from its own worker
// substream (src.Child(a)).
func constructColonyParallel(tau, overhead [][]float64, cfg Config, n, m int, src *rng.Source) []*Ant {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 4
	}
	ants := make([]*Ant, cfg.ColonySize)
	var g errgroup.Group
	sem := make(chan struct{}, workers)
	for a := 0; a < cfg.ColonySize; a++ {
		a, worker := a, src.Child(a)
		sem <- struct{}{}
		g.Go(func() error {
			defer func() { <-sem }()
			ants[a] = constructPath(tau, overhead, cfg, n, m, worker)
			return nil
		})
	}
	_ = g.Wait()
	return ants
}

func pathMapping(path []int, idx model.Index) map[string]string {
	out := make(map[string]string, len(path))
	for i, j := range path {
		out[idx.TaskOrder[i]] = idx.FogNodeOrder[j]
	}
	return out
}
