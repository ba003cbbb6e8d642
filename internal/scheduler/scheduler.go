package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"

	"fog-compute/internal/aco"
	"fog-compute/internal/allocation"
	"fog-compute/internal/baseline"
	"fog-compute/internal/costmodel"
	"fog-compute/internal/experiment"
	"fog-compute/internal/hybrid"
	"fog-compute/internal/logging"
	"fog-compute/internal/metrics"
	"fog-compute/internal/model"
	"fog-compute/internal/offload"
	"fog-compute/internal/pso"
	"fog-compute/internal/rng"
)

// SolverOptions carries the optional per-particle/per-ant parallel
// worker pool setting of SPEC_FULL §5 from the caller (CLI/HTTP config)
// into the PSO/ACO solvers. The zero value matches each solver's serial
// DefaultConfig.
type SolverOptions struct {
	Parallel bool
	Workers  int
}

func (o SolverOptions) applyTo(psoCfg *pso.Config, acoCfg *aco.Config) {
	if o.Parallel {
		psoCfg.Parallel = true
		acoCfg.Parallel = true
	}
	if o.Workers > 0 {
		psoCfg.Workers = o.Workers
		acoCfg.Workers = o.Workers
	}
}

// Handle validates req and dispatches it to the algorithm named by
// req.Mode, per SPEC_FULL §6/§4.10. It returns exactly one of a
// *Response, *CompareResponse, *offload.Result, or
// *experiment.Result, matching req.Mode. opts configures the optional
// parallel solver mode; callers that don't care can omit it.
func Handle(ctx context.Context, req Request, logger logging.Logger, opts ...SolverOptions) (result any, err error) {
	if logger == nil {
		logger = logging.Nop()
	}
	if err := validate(req); err != nil {
		return nil, err
	}
	var solverOpts SolverOptions
	if len(opts) > 0 {
		solverOpts = opts[0]
	}

	start := time.Now()
	callID := uuid.NewString()
	logger.Info("scheduling call started", map[string]any{"callId": callID, "mode": string(req.Mode)})
	idx := model.BuildIndex(req.Tasks, req.Devices, req.FogNodes)
	src := rng.NewSource(req.Seed)

	defer func() {
		metrics.ObserveSchedulingDuration(string(req.Mode), time.Since(start))
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		fitness := 0.0
		if resp, ok := result.(*Response); ok {
			fitness = resp.Fitness
		}
		metrics.RecordRun(string(req.Mode), outcome, fitness)
	}()

	resp, err := dispatch(req, idx, src, logger, start, solverOpts)
	switch v := resp.(type) {
	case *Response:
		v.CallID = callID
	case *CompareResponse:
		v.CallID = callID
	}
	return resp, err
}

func dispatch(req Request, idx model.Index, src *rng.Source, logger logging.Logger, start time.Time, solverOpts SolverOptions) (any, error) {
	switch req.Mode {
	case ModeHH:
		hybridCfg := hybrid.DefaultConfig()
		solverOpts.applyTo(&hybridCfg.PSO, &hybridCfg.ACO)
		return runSingle(idx, src, logger, start, func() (allocation.Allocation, []costmodel.Contribution, error) {
			return hybrid.Solve(hybridCfg, idx, src, logger)
		})
	case ModeIPSOOnly:
		psoCfg := pso.DefaultConfig()
		acoCfg := aco.DefaultConfig()
		solverOpts.applyTo(&psoCfg, &acoCfg)
		return runSingle(idx, src, logger, start, func() (allocation.Allocation, []costmodel.Contribution, error) {
			res, err := pso.Solve(psoCfg, idx, src, logger)
			if err != nil {
				return allocation.Allocation{}, nil, err
			}
			return allocation.Evaluate(idx, res.Mapping)
		})
	case ModeIACOOnly:
		psoCfg := pso.DefaultConfig()
		acoCfg := aco.DefaultConfig()
		solverOpts.applyTo(&psoCfg, &acoCfg)
		return runSingle(idx, src, logger, start, func() (allocation.Allocation, []costmodel.Contribution, error) {
			res, err := aco.Solve(acoCfg, idx, nil, src, logger)
			if err != nil {
				return allocation.Allocation{}, nil, err
			}
			return allocation.Evaluate(idx, res.Mapping)
		})
	case ModeFCFS:
		return runSingle(idx, src, logger, start, func() (allocation.Allocation, []costmodel.Contribution, error) {
			return baseline.FCFS(idx)
		})
	case ModeRR:
		return runSingle(idx, src, logger, start, func() (allocation.Allocation, []costmodel.Contribution, error) {
			return baseline.RoundRobin(idx)
		})
	case ModeMinMin:
		return runSingle(idx, src, logger, start, func() (allocation.Allocation, []costmodel.Contribution, error) {
			return baseline.MinMin(idx)
		})
	case ModeCompare:
		return runCompare(idx, req.Seed, logger, solverOpts)
	case ModeThreeTier:
		res, err := offload.Solve(idx, req.Cloud, src, logger)
		if err != nil {
			return nil, classify(err)
		}
		return &res, nil
	case ModeExperiment:
		tag := experiment.Tag(req.Experiment.Kind)
		cfg := experiment.Config{Tag: tag, Seed: req.Seed, Repeats: req.Experiment.Iterations}
		res := experiment.Run(cfg, logger)
		return &res, nil
	default:
		return nil, NewValidationError("mode", "unrecognised scheduling mode")
	}
}

func runSingle(idx model.Index, src *rng.Source, logger logging.Logger, start time.Time,
	solve func() (allocation.Allocation, []costmodel.Contribution, error)) (*Response, error) {
	alloc, contributions, err := solve()
	if err != nil {
		return nil, classify(err)
	}
	if err := nonInfinite(alloc.Fitness); err != nil {
		return nil, err
	}
	return &Response{
		Allocations:     alloc.FogAssignment,
		TotalDelay:      alloc.TotalDelay,
		TotalEnergy:     alloc.TotalEnergy,
		Fitness:         alloc.Fitness,
		Reliability:     alloc.Reliability,
		PerTask:         toPerTask(contributions),
		ExecutionTimeMs: time.Since(start).Milliseconds(),
	}, nil
}

func runCompare(idx model.Index, seed *uint32, logger logging.Logger, solverOpts SolverOptions) (*CompareResponse, error) {
	run := func(solve func(src *rng.Source) (allocation.Allocation, []costmodel.Contribution, error)) (AlgorithmSummary, error) {
		t0 := time.Now()
		alloc, _, err := solve(rng.NewSource(seed))
		if err != nil {
			return AlgorithmSummary{}, err
		}
		return AlgorithmSummary{
			Delay: alloc.TotalDelay, Energy: alloc.TotalEnergy, Reliability: alloc.Reliability,
			ExecutionTimeMs: time.Since(t0).Milliseconds(),
		}, nil
	}

	hybridCfg := hybrid.DefaultConfig()
	psoCfg := pso.DefaultConfig()
	acoCfg := aco.DefaultConfig()
	solverOpts.applyTo(&hybridCfg.PSO, &hybridCfg.ACO)
	solverOpts.applyTo(&psoCfg, &acoCfg)

	hh, err := run(func(src *rng.Source) (allocation.Allocation, []costmodel.Contribution, error) {
		return hybrid.Solve(hybridCfg, idx, src, logger)
	})
	if err != nil {
		return nil, classify(err)
	}
	ipso, err := run(func(src *rng.Source) (allocation.Allocation, []costmodel.Contribution, error) {
		res, err := pso.Solve(psoCfg, idx, src, logger)
		if err != nil {
			return allocation.Allocation{}, nil, err
		}
		return allocation.Evaluate(idx, res.Mapping)
	})
	if err != nil {
		return nil, classify(err)
	}
	iaco, err := run(func(src *rng.Source) (allocation.Allocation, []costmodel.Contribution, error) {
		res, err := aco.Solve(acoCfg, idx, nil, src, logger)
		if err != nil {
			return allocation.Allocation{}, nil, err
		}
		return allocation.Evaluate(idx, res.Mapping)
	})
	if err != nil {
		return nil, classify(err)
	}
	rr, err := run(func(*rng.Source) (allocation.Allocation, []costmodel.Contribution, error) {
		return baseline.RoundRobin(idx)
	})
	if err != nil {
		return nil, classify(err)
	}
	minMin, err := run(func(*rng.Source) (allocation.Allocation, []costmodel.Contribution, error) {
		return baseline.MinMin(idx)
	})
	if err != nil {
		return nil, classify(err)
	}

	return &CompareResponse{HH: hh, IPSO: ipso, IACO: iaco, RR: rr, MinMin: minMin}, nil
}

func toPerTask(contributions []costmodel.Contribution) []PerTask {
	out := make([]PerTask, len(contributions))
	for i, c := range contributions {
		out[i] = PerTask{
			TaskID:            c.TaskID,
			NodeID:            c.NodeID,
			ExecutionTime:     c.Execution,
			TransmissionTime:  c.Transmission,
			TotalDelay:        c.Delay,
			EnergyConsumption: c.Energy,
			Fitness:           costmodel.Fitness(costmodel.WeightedCost(c)),
		}
	}
	return out
}

// classify maps internal solver/allocation errors onto the facade's
// exported Error kinds. Anything not already a *Error is treated as an
// unreachable internal invariant violation (SPEC_FULL §7).
func classify(err error) error {
	if err == nil {
		return nil
	}
	if se, ok := err.(*Error); ok {
		return se
	}
	return NewSchedulingError(err.Error())
}
