// Package baseline implements the three comparison schedulers of C7:
// FCFS, Round-Robin, and Min-Min. None of them are production paths —
// they exist so the experiment harness (C9) has something to compare HH
// against.
package baseline

import (
	"sort"

	"fog-compute/internal/allocation"
	"fog-compute/internal/costmodel"
	"fog-compute/internal/model"
)

// FCFS iterates tasks in input order, assigning each to the fog node
// with the smallest simulated current load, then charging 0.1*delay to
// that node's simulated load. Ties favour the earliest-seen node.
func FCFS(idx model.Index) (allocation.Allocation, []costmodel.Contribution, error) {
	simulatedLoad := make(map[string]float64, len(idx.FogNodeOrder))
	for _, id := range idx.FogNodeOrder {
		simulatedLoad[id] = idx.FogNodes[id].CurrentLoad
	}

	mapping := make(map[string]string, len(idx.TaskOrder))
	for _, taskID := range idx.TaskOrder {
		task := idx.Tasks[taskID]
		device := idx.Devices[task.DeviceID]

		bestNode := ""
		bestLoad := 0.0
		bestDelay := 0.0
		for _, nodeID := range idx.FogNodeOrder {
			load := simulatedLoad[nodeID]
			if bestNode == "" || load < bestLoad {
				bestNode = nodeID
				bestLoad = load
				bestDelay = delay(task, idx.FogNodes[nodeID], device)
			}
		}
		mapping[taskID] = bestNode
		simulatedLoad[bestNode] += bestDelay * 0.1
	}

	return allocation.Evaluate(idx, mapping)
}

// RoundRobin assigns task i to node (i mod m).
func RoundRobin(idx model.Index) (allocation.Allocation, []costmodel.Contribution, error) {
	m := len(idx.FogNodeOrder)
	mapping := make(map[string]string, len(idx.TaskOrder))
	for i, taskID := range idx.TaskOrder {
		mapping[taskID] = idx.FogNodeOrder[i%m]
	}
	return allocation.Evaluate(idx, mapping)
}

// MinMin processes a copy of the tasks sorted by ascending data size;
// for each, it chooses the node minimising delay(task,node) +
// accumulatedLoad(node), then adds the chosen delay to that node's
// accumulated load.
func MinMin(idx model.Index) (allocation.Allocation, []costmodel.Contribution, error) {
	sorted := make([]string, len(idx.TaskOrder))
	copy(sorted, idx.TaskOrder)
	sort.SliceStable(sorted, func(i, j int) bool {
		return idx.Tasks[sorted[i]].DataSize < idx.Tasks[sorted[j]].DataSize
	})

	accumulatedLoad := make(map[string]float64, len(idx.FogNodeOrder))

	mapping := make(map[string]string, len(idx.TaskOrder))
	for _, taskID := range sorted {
		task := idx.Tasks[taskID]
		device := idx.Devices[task.DeviceID]

		bestNode := ""
		bestScore := 0.0
		bestDelay := 0.0
		for _, nodeID := range idx.FogNodeOrder {
			d := delay(task, idx.FogNodes[nodeID], device)
			score := d + accumulatedLoad[nodeID]
			if bestNode == "" || score < bestScore {
				bestNode = nodeID
				bestScore = score
				bestDelay = d
			}
		}
		mapping[taskID] = bestNode
		accumulatedLoad[bestNode] += bestDelay
	}

	return allocation.Evaluate(idx, mapping)
}

func delay(task model.Task, node model.FogNode, device model.TerminalDevice) float64 {
	c := costmodel.Evaluate(task, node, device)
	return c.Delay
}
