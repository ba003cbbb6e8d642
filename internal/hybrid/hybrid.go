// Package hybrid implements HH (C6): the deterministic PSO->ACO chain.
// PSO explores the combinatorial space quickly; seeding ACO's pheromone
// with PSO's global-best solution biases the colony toward that region
// for refinement. Iteration counts are halved relative to running either
// solver standalone because the two stages share one budget.
package hybrid

import (
	"fog-compute/internal/aco"
	"fog-compute/internal/allocation"
	"fog-compute/internal/costmodel"
	"fog-compute/internal/logging"
	"fog-compute/internal/model"
	"fog-compute/internal/pso"
	"fog-compute/internal/rng"
)

// Config bundles the halved-iteration PSO/ACO settings HH drives.
type Config struct {
	PSO pso.Config
	ACO aco.Config
}

// DefaultConfig returns the SPEC_FULL §4.6 settings: 30 particles / 50
// iterations, then 30 ants / 50 iterations.
func DefaultConfig() Config {
	psoCfg := pso.DefaultConfig()
	psoCfg.SwarmSize = 30
	psoCfg.Iterations = 50

	acoCfg := aco.DefaultConfig()
	acoCfg.ColonySize = 30
	acoCfg.Iterations = 50

	return Config{PSO: psoCfg, ACO: acoCfg}
}

// Solve runs PSO then ACO over idx and evaluates the resulting
// allocation via the cost model.
func Solve(cfg Config, idx model.Index, src *rng.Source, logger logging.Logger) (allocation.Allocation, []costmodel.Contribution, error) {
	if logger == nil {
		logger = logging.Nop()
	}
	if idx.NumTasks() == 0 {
		return allocation.Empty(), nil, nil
	}

	psoResult, err := pso.Solve(cfg.PSO, idx, src, logger)
	if err != nil {
		return allocation.Allocation{}, nil, err
	}

	acoResult, err := aco.Solve(cfg.ACO, idx, psoResult.BestPosition, src, logger)
	if err != nil {
		return allocation.Allocation{}, nil, err
	}

	return allocation.Evaluate(idx, acoResult.Mapping)
}
