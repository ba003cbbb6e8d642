// Package pso implements the binary Particle Swarm Optimizer (IPSO, C4):
// a swarm of binary position matrices evolved in continuous velocity
// space. Grounded on the teacher's TaskHeap-style owned-buffer idiom
// (each particle exclusively owns its position/velocity/personal-best
// buffers — SPEC_FULL.md's design note on replacing shared-reference
// "classes" with plain owned records).
package pso

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

// Config holds the defaults from SPEC_FULL §4.4.
type Config struct {
	SwarmSize  int
	Iterations int
	WMax       float64
	WMin       float64
	C1         float64
	C2         float64
	VMax       float64
	// Parallel evaluates particles across a bounded worker pool instead
	// of serially. See SPEC_FULL.md §5: reproducible per mode, not
	// bit-identical across modes.
	Parallel bool
	Workers  int
}

// DefaultConfig returns the swarm defaults of SPEC_FULL §4.4.
func DefaultConfig() Config {
	return Config{
		SwarmSize:  30,
		Iterations: 100,
		WMax:       0.9,
		WMin:       0.4,
		C1:         2.0,
		C2:         2.0,
		VMax:       4.0,
		Workers:    4,
	}
}

// Particle owns a binary position matrix, a same-shaped velocity
// matrix, and a personal-best copy. No shared references between
// particles.
type Particle struct {
	Position     [][]float64
	Velocity     [][]float64
	BestPosition [][]float64
	BestFitness  float64
}

// Result is the outcome of a Solve call.
type Result struct {
	BestPosition [][]float64
	BestFitness  float64
	Mapping      map[string]string
}

func cloneMatrix(m [][]float64) [][]float64 {
	out := make([][]float64, len(m))
	for i, row := range m {
		out[i] = append([]float64(nil), row...)
	}
	return out
}

func newMatrix(n, m int) [][]float64 {
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, m)
	}
	return out
}

func sigmoid(x float64) float64 { return 1 / (1 + math.Exp(-x)) }

// randomOneHotRow sets row[j]=1 for a uniformly random j, 0 elsewhere.
func randomOneHotRow(row []float64, src *rng.Source) {
	j := src.IntN(len(row))
	for k := range row {
		row[k] = 0
	}
	row[j] = 1
}

// rebuildRow collapses a velocity row to a one-hot position row via the
// logistic function and argmax, preserving the single-assignment
// invariant by construction.
func rebuildRow(velocity []float64, position []float64) {
	best := 0
	bestVal := math.Inf(-1)
	for j, v := range velocity {
		s := sigmoid(v)
		if s > bestVal {
			bestVal = s
			best = j
		}
	}
	for k := range position {
		position[k] = 0
	}
	position[best] = 1
}

// fitnessOf evaluates a particle's position matrix against idx.
func fitnessOf(position [][]float64, idx model.Index) float64 {
	contributions := make([]costmodel.Contribution, 0, len(position))
	for i, row := range position {
		j := rowAssignment(row)
		task := idx.Task(i)
		node := idx.FogNode(j)
		device := idx.Devices[task.DeviceID]
		contributions = append(contributions, costmodel.Evaluate(task, node, device))
	}
	return costmodel.Fitness(costmodel.Objective(contributions))
}

// rowAssignment returns the column holding the row's single 1. Per C3,
// if (due to a bug) no column holds 1, the task is unassigned; Solve
// guarantees this never happens via rebuildRow's argmax, so this
// defaults to 0 only as an unreachable safety net.
func rowAssignment(row []float64) int {
	for j, v := range row {
		if v == 1 {
			return j
		}
	}
	return 0
}

func mapping(position [][]float64, idx model.Index) map[string]string {
	out := make(map[string]string, len(position))
	for i, row := range position {
		j := rowAssignment(row)
		out[idx.TaskOrder[i]] = idx.FogNodeOrder[j]
	}
	return out
}

// Solve runs the binary PSO over idx's task/fog-node space and returns
// the global-best position, its fitness, and the converted mapping.
func Solve(cfg Config, idx model.Index, src *rng.Source, logger logging.Logger) (Result, error) {
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

	particles := make([]*Particle, cfg.SwarmSize)
	for p := range particles {
		pos := newMatrix(n, m)
		vel := newMatrix(n, m)
		for i := 0; i < n; i++ {
			randomOneHotRow(pos[i], src)
			for j := 0; j < m; j++ {
				vel[i][j] = (src.Next()*2 - 1) * cfg.VMax
			}
		}
		particles[p] = &Particle{
			Position:     pos,
			Velocity:     vel,
			BestPosition: cloneMatrix(pos),
			BestFitness:  fitnessOf(pos, idx),
		}
	}

	globalBest := cloneMatrix(particles[0].BestPosition)
	globalBestFitness := particles[0].BestFitness
	for _, p := range particles[1:] {
		if p.BestFitness > globalBestFitness {
			globalBestFitness = p.BestFitness
			globalBest = cloneMatrix(p.BestPosition)
		}
	}

	phi := cfg.C1 + cfg.C2
	for k := 0; k < cfg.Iterations; k++ {
		w := inertia(cfg, k, src)
		eta := contraction(phi)

		step := func(p *Particle, worker *rng.Source) {
			for i := 0; i < n; i++ {
				for j := 0; j < m; j++ {
					r1, r2 := worker.Next(), worker.Next()
					v := eta * (w*p.Velocity[i][j] +
						cfg.C1*r1*(p.BestPosition[i][j]-p.Position[i][j]) +
						cfg.C2*r2*(globalBest[i][j]-p.Position[i][j]))
					p.Velocity[i][j] = clamp(v, -cfg.VMax, cfg.VMax)
				}
				rebuildRow(p.Velocity[i], p.Position[i])
			}
			fitness := fitnessOf(p.Position, idx)
			if fitness > p.BestFitness {
				p.BestFitness = fitness
				p.BestPosition = cloneMatrix(p.Position)
			}
		}

		if cfg.Parallel && len(particles) > 1 {
			runParallel(particles, cfg, src, step)
		} else {
			for _, p := range particles {
				step(p, src)
			}
		}

		for _, p := range particles {
			if p.BestFitness > globalBestFitness {
				globalBestFitness = p.BestFitness
				globalBest = cloneMatrix(p.BestPosition)
			}
		}

		logger.Debug("pso iteration complete", map[string]any{
			"iteration":          k,
			"global_best_fitness": globalBestFitness,
		})
	}

	metrics.RecordIterations("pso", cfg.Iterations)
	return Result{
		BestPosition: globalBest,
		BestFitness:  globalBestFitness,
		Mapping:      mapping(globalBest, idx),
	}, nil
}

// runParallel evaluates step for every particle concurrently, each
// drawing from its own worker substream (src.Child(i)) so the batch
// stays reproducible under a fixed seed — a different, documented
// partitioning than the serial path (SPEC_FULL §5).
func runParallel(particles []*Particle, cfg Config, src *rng.Source, step func(*Particle, *rng.Source)) {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 4
	}
	var g errgroup.Group
	sem := make(chan struct{}, workers)
	for i, p := range particles {
		p, worker := p, src.Child(i)
		sem <- struct{}{}
		g.Go(func() error {
			defer func() { <-sem }()
			step(p, worker)
			return nil
		})
	}
	_ = g.Wait()
}

func inertia(cfg Config, k int, src *rng.Source) float64 {
	threshold := 0.7 * float64(cfg.Iterations)
	if float64(k) < threshold {
		return cfg.WMax - (cfg.WMax-cfg.WMin)*float64(k)/float64(cfg.Iterations)
	}
	u := src.Next()
	return cfg.WMin + (cfg.WMax-cfg.WMin)*u
}

func contraction(phi float64) float64 {
	if phi <= 4 {
		return 1
	}
	return 2 / math.Abs(2-phi-math.Sqrt(phi*phi-4*phi))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
