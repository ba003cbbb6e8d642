package scheduler

import (
	"fmt"
	"math"
)

// validate enforces SPEC_FULL §6's "input validation beyond the schema":
// positive numerics, weights in [0,1], existence of device ids
// referenced by tasks, and at least one fog node.
func validate(req Request) error {
	if len(req.FogNodes) == 0 {
		return NewValidationError("fogNodes", "must contain at least one fog node")
	}

	deviceIDs := make(map[string]struct{}, len(req.Devices))
	for i, d := range req.Devices {
		path := fmt.Sprintf("devices[%d]", i)
		if d.ID == "" {
			return NewValidationError(path+".id", "must not be empty")
		}
		if d.TxPower <= 0 {
			return NewValidationError(path+".transmissionPower", "must be positive")
		}
		if d.IdlePower <= 0 {
			return NewValidationError(path+".idlePower", "must be positive")
		}
		if d.WeightDelay < 0 || d.WeightDelay > 1 {
			return NewValidationError(path+".delayWeight", "must be in [0,1]")
		}
		if d.WeightEnergy < 0 || d.WeightEnergy > 1 {
			return NewValidationError(path+".energyWeight", "must be in [0,1]")
		}
		if d.ResidualEnergy < 0 {
			return NewValidationError(path+".residualEnergy", "must be non-negative")
		}
		deviceIDs[d.ID] = struct{}{}
	}

	for i, n := range req.FogNodes {
		path := fmt.Sprintf("fogNodes[%d]", i)
		if n.ID == "" {
			return NewValidationError(path+".id", "must not be empty")
		}
		if n.Compute <= 0 {
			return NewValidationError(path+".computingResource", "must be positive")
		}
		if n.Storage <= 0 {
			return NewValidationError(path+".storageCapacity", "must be positive")
		}
		if n.Bandwidth <= 0 {
			return NewValidationError(path+".networkBandwidth", "must be positive")
		}
		if n.CurrentLoad < 0 || n.CurrentLoad > 1 {
			return NewValidationError(path+".currentLoad", "must be in [0,1]")
		}
	}

	for i, t := range req.Tasks {
		path := fmt.Sprintf("tasks[%d]", i)
		if t.ID == "" {
			return NewValidationError(path+".id", "must not be empty")
		}
		if t.DataSize <= 0 {
			return NewValidationError(path+".dataSize", "must be positive")
		}
		if t.Intensity <= 0 {
			return NewValidationError(path+".computationIntensity", "must be positive")
		}
		if t.MaxTolerance <= 0 {
			return NewValidationError(path+".maxToleranceTime", "must be positive")
		}
		if t.ExpectedCompletion <= 0 {
			return NewValidationError(path+".expectedCompletionTime", "must be positive")
		}
		if t.Priority < 1 || t.Priority > 5 {
			return NewValidationError(path+".priority", "must be in [1,5]")
		}
		if _, ok := deviceIDs[t.DeviceID]; !ok {
			return NewValidationError(path+".deviceId", fmt.Sprintf("references unknown device %q", t.DeviceID))
		}
	}

	if req.Cloud != nil {
		c := req.Cloud
		if c.ID == "" {
			return NewValidationError("cloud.id", "must not be empty")
		}
		if c.Compute <= 0 {
			return NewValidationError("cloud.computingResource", "must be positive")
		}
		if c.Bandwidth <= 0 {
			return NewValidationError("cloud.wanBandwidth", "must be positive")
		}
		if c.LatencyPenaltyMs < 0 {
			return NewValidationError("cloud.latencyPenalty", "must be non-negative")
		}
		if c.CostPerUnit < 0 {
			return NewValidationError("cloud.costPerComputationUnit", "must be non-negative")
		}
	}

	if req.Mode == ModeExperiment {
		if req.Experiment == nil {
			return NewValidationError("experiment", "required when mode=Experiment")
		}
		if req.Experiment.Iterations < 1 {
			return NewValidationError("experiment.iterations", "must be >= 1")
		}
	}

	return nil
}

// nonInfinite rejects NaN objectives, which SPEC_FULL §7 treats as fatal
// arithmetic anomalies rather than validation failures.
func nonInfinite(v float64) error {
	if math.IsNaN(v) {
		return NewSchedulingError("nan-in-objective")
	}
	return nil
}
