// Package allocation implements C3: the public solution representation
// returned by every scheduler, and the single conversion/evaluation path
// every solver funnels through. Allocations are immutable once returned;
// the solvers that build them (PSO, ACO, baselines) mutate their own
// compact internal representations and convert to an Allocation exactly
// once, at the end of the solve.
package allocation

import (
	"fog-compute/internal/costmodel"
	"fog-compute/internal/model"
)

// Allocation is the output entity of every scheduler.
type Allocation struct {
	FogAssignment  map[string]string // task id -> fog node id, for fog-bound tasks
	CloudOffloaded []string
	LocalProcessed []string
	TotalDelay     float64
	TotalEnergy    float64
	Fitness        float64
	Reliability    float64
}

// Evaluate computes an Allocation and its per-task cost contributions
// for a complete task->node mapping over idx's fog-bound tasks. Every
// task id in idx.TaskOrder must appear exactly once in mapping; this is
// the single point where that invariant is checked (testable property 2).
func Evaluate(idx model.Index, mapping map[string]string) (Allocation, []costmodel.Contribution, error) {
	contributions := make([]costmodel.Contribution, 0, len(idx.TaskOrder))
	for _, taskID := range idx.TaskOrder {
		nodeID, ok := mapping[taskID]
		if !ok {
			return Allocation{}, nil, ErrUnassignedTask(taskID)
		}
		node, ok := idx.FogNodes[nodeID]
		if !ok {
			return Allocation{}, nil, ErrUnknownNode(taskID, nodeID)
		}
		task := idx.Tasks[taskID]
		device := idx.Devices[task.DeviceID]
		contributions = append(contributions, costmodel.Evaluate(task, node, device))
	}

	var totalDelay, totalEnergy float64
	for _, c := range contributions {
		totalDelay += c.Delay
		totalEnergy += c.Energy
	}
	alloc := Allocation{
		FogAssignment: mapping,
		TotalDelay:    totalDelay,
		TotalEnergy:   totalEnergy,
		// The persisted Fitness is 1/(totalDelay+totalEnergy), distinct
		// from the weighted ranking objective solvers optimise over
		// internally — that one is never persisted.
		Fitness:     costmodel.Fitness(totalDelay + totalEnergy),
		Reliability: costmodel.Reliability(contributions),
	}
	return alloc, contributions, nil
}

// Empty returns the Allocation for an empty task batch (boundary
// behaviour: totalDelay=0, totalEnergy=0, reliability=100).
func Empty() Allocation {
	return Allocation{
		FogAssignment: map[string]string{},
		Reliability:   100,
		Fitness:       costmodel.Fitness(0),
	}
}
