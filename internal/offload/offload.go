// Package offload implements the three-tier offload policy (C8): for
// each task independently, decide among local / fog / cloud execution,
// then hands the fog-bound subset to HH for the actual node assignment.
package offload

import (
	"fmt"
	"math"

	"github.com/samber/lo"

	"fog-compute/internal/costmodel"
	"fog-compute/internal/hybrid"
	"fog-compute/internal/logging"
	"fog-compute/internal/model"
	"fog-compute/internal/rng"
)

// Target names one of the three execution tiers.
type Target string

const (
	TargetLocal Target = "local"
	TargetFog   Target = "fog"
	TargetCloud Target = "cloud"
)

// overloadedThreshold is the strict upper bound on a fog node's current
// load for it to be a fog candidate (SPEC_FULL §8 boundary: 0.9 itself
// is still a valid candidate, the rule is strict ">").
const overloadedThreshold = 0.9

// Decision records the offload outcome for one task.
type Decision struct {
	TaskID          string  `json:"taskId"`
	OffloadTarget   Target  `json:"offloadTarget"`
	TargetID        string  `json:"targetId"`
	Reason          string  `json:"reason"`
	EstimatedDelay  float64 `json:"estimatedDelay"`
	EstimatedEnergy float64 `json:"estimatedEnergy"`
	EstimatedCost   float64 `json:"estimatedCost"`
}

// Result is the combined assignment report of SPEC_FULL §6
// (mode=ThreeTier).
type Result struct {
	FogAllocations  map[string]string `json:"fogAllocations"`
	CloudOffloaded  []string          `json:"cloudOffloaded"`
	LocalProcessed  []string          `json:"localProcessed"`
	Decisions       []Decision        `json:"decisions"`
	TotalFogDelay   float64           `json:"totalFogDelay"`
	TotalCloudDelay float64           `json:"totalCloudDelay"`
	TotalCost       float64           `json:"totalCost"`
}

// localProcessingTime estimates L = D*theta*1e-6 seconds. SPEC_FULL §9
// resolves the open question on this constant's scaling: preserved
// literally as documented, affecting only the local-vs-fog comparison.
func localProcessingTime(task model.Task) float64 {
	return task.DataSize * task.Intensity * 1e-6
}

// Solve classifies every task in idx into local/fog/cloud, runs HH on
// the fog-bound subset, and returns the combined report.
func Solve(idx model.Index, cloud *model.CloudNode, src *rng.Source, logger logging.Logger) (Result, error) {
	if logger == nil {
		logger = logging.Nop()
	}

	decisions := make([]Decision, 0, len(idx.TaskOrder))
	var localIDs, cloudIDs, fogIDs []string

	for _, taskID := range idx.TaskOrder {
		task := idx.Tasks[taskID]
		device := idx.Devices[task.DeviceID]

		localTime := localProcessingTime(task)
		localCandidate := localTime <= task.MaxTolerance && !device.Mobile

		fogNodeID, fogDelay, fogEnergy, overloaded := bestFogCandidate(idx, task, device)

		switch {
		case localCandidate && localTime < fogDelay:
			localIDs = append(localIDs, taskID)
			decisions = append(decisions, Decision{
				TaskID: taskID, OffloadTarget: TargetLocal,
				TargetID: task.DeviceID, Reason: "local execution time is below the best fog delay",
				EstimatedDelay: localTime,
			})

		case fogNodeID != "":
			fogIDs = append(fogIDs, taskID)
			decisions = append(decisions, Decision{
				TaskID: taskID, OffloadTarget: TargetFog,
				TargetID: fogNodeID, Reason: "fog candidate satisfies deadline and energy bounds",
				EstimatedDelay: fogDelay, EstimatedEnergy: fogEnergy,
			})

		case cloud != nil && cloud.Available:
			cloudIDs = append(cloudIDs, taskID)
			te := costmodel.CloudExecutionTime(task.DataSize, task.Intensity, cloud.Compute, cloud.Bandwidth, cloud.LatencyPenaltyMs)
			cost := costmodel.CloudCost(task.DataSize, task.Intensity, cloud.CostPerUnit)
			energy := costmodel.CloudEnergy(task.DataSize, cloud.Bandwidth, device.TxPower, device.IdlePower, te)
			reason := "no viable local or fog candidate, offloaded to cloud"
			if overloaded {
				reason = "all fog nodes overloaded, offloaded to cloud"
			}
			decisions = append(decisions, Decision{
				TaskID: taskID, OffloadTarget: TargetCloud,
				TargetID: cloud.ID, Reason: reason,
				EstimatedDelay: te, EstimatedEnergy: energy, EstimatedCost: cost,
			})

		default:
			fallbackID := leastLoadedNode(idx)
			fogIDs = append(fogIDs, taskID)
			c := costmodel.Evaluate(task, idx.FogNodes[fallbackID], device)
			degraded := Decision{
				TaskID: taskID, OffloadTarget: TargetFog,
				TargetID: fallbackID,
				Reason:   "degraded fallback: no tier satisfied its constraints, assigned to the least-loaded fog node",
				EstimatedDelay: c.Delay, EstimatedEnergy: c.Energy,
			}
			logger.Warn("offload decision degraded", map[string]any{"description": DescribeDegraded(degraded)})
			decisions = append(decisions, degraded)
		}
	}

	fogIdx := idx.Sub(fogIDs)
	fogAlloc, _, err := hybrid.Solve(hybrid.DefaultConfig(), fogIdx, src, logger)
	if err != nil {
		return Result{}, err
	}

	// The provisional fog delay/energy recorded above during classification
	// is only used to decide the tier; once HH has picked the actual node
	// for the fog-bound subset, refresh each fog decision to reflect it.
	decisionByTask := lo.KeyBy(decisions, func(d Decision) string { return d.TaskID })
	for _, taskID := range fogIDs {
		nodeID := fogAlloc.FogAssignment[taskID]
		task := idx.Tasks[taskID]
		device := idx.Devices[task.DeviceID]
		c := costmodel.Evaluate(task, idx.FogNodes[nodeID], device)
		d := decisionByTask[taskID]
		d.TargetID = nodeID
		d.EstimatedDelay = c.Delay
		d.EstimatedEnergy = c.Energy
		decisionByTask[taskID] = d
	}
	for i, d := range decisions {
		if refreshed, ok := decisionByTask[d.TaskID]; ok {
			decisions[i] = refreshed
		}
	}

	result := Result{
		FogAllocations: fogAlloc.FogAssignment,
		CloudOffloaded: cloudIDs,
		LocalProcessed: localIDs,
		Decisions:      decisions,
	}
	for _, d := range decisions {
		switch d.OffloadTarget {
		case TargetFog:
			result.TotalFogDelay += d.EstimatedDelay
		case TargetCloud:
			result.TotalCloudDelay += d.EstimatedDelay
			result.TotalCost += d.EstimatedCost
		}
	}
	return result, nil
}

// bestFogCandidate returns the id, delay, and energy of the node with
// the smallest delay among non-overloaded nodes whose delay and energy
// both satisfy the task's bounds. Ties favour the earliest-seen node.
// The fourth return value reports whether every node was overloaded.
func bestFogCandidate(idx model.Index, task model.Task, device model.TerminalDevice) (nodeID string, delay, energy float64, allOverloaded bool) {
	allOverloaded = true
	best := math.Inf(1)
	for _, id := range idx.FogNodeOrder {
		node := idx.FogNodes[id]
		if node.CurrentLoad > overloadedThreshold {
			continue
		}
		allOverloaded = false
		c := costmodel.Evaluate(task, node, device)
		if c.Delay > task.MaxTolerance || c.Energy > device.ResidualEnergy {
			continue
		}
		if nodeID == "" || c.Delay < best {
			nodeID = id
			best = c.Delay
			delay = c.Delay
			energy = c.Energy
		}
	}
	if nodeID == "" {
		return "", math.Inf(1), 0, allOverloaded
	}
	return nodeID, delay, energy, allOverloaded
}

func leastLoadedNode(idx model.Index) string {
	best := ""
	bestLoad := math.Inf(1)
	for _, id := range idx.FogNodeOrder {
		load := idx.FogNodes[id].CurrentLoad
		if best == "" || load < bestLoad {
			best = id
			bestLoad = load
		}
	}
	return best
}

// DescribeDegraded formats a degraded decision for logging; Solve's
// degraded-fallback branch uses it to flag that decision in a Warn line
// without re-deriving the reason string.
func DescribeDegraded(d Decision) string {
	return fmt.Sprintf("task %s degraded to fog node %s: %s", d.TaskID, d.TargetID, d.Reason)
}
