// Package costmodel implements the pure, side-effect-free cost formulas
// of C2: transmission time, execution time, delay, energy, the weighted
// objective, fitness, and reliability. Nothing here allocates solver
// state or logs; SPEC_FULL.md's design notes call out keeping these
// leaves pure so solvers can call them freely inside hot loops.
package costmodel

import (
	"math"

	"fog-compute/internal/model"
)

// TransmissionTime is TR = D / B, seconds.
func TransmissionTime(dataSizeMb, bandwidthMbps float64) float64 {
	return dataSizeMb / bandwidthMbps
}

// ExecutionTime is TE = (D * 1e6 * 8 * theta) / C, seconds. D is
// converted from megabits to bits before multiplying by cycles/bit.
func ExecutionTime(dataSizeMb, intensity, compute float64) float64 {
	return (dataSizeMb * 1e6 * 8 * intensity) / compute
}

// Delay is T = TR + TE.
func Delay(tr, te float64) float64 { return tr + te }

// Energy is E = TR*p_tx + TE*p_idle.
func Energy(tr, te, txPower, idlePower float64) float64 {
	return tr*txPower + te*idlePower
}

// Contribution is one task's delay/energy breakdown against a specific
// node, carrying enough of the device's weights and bounds to compute
// the weighted objective and reliability without a second lookup.
type Contribution struct {
	TaskID         string
	NodeID         string
	Transmission   float64
	Execution      float64
	Delay          float64
	Energy         float64
	MaxTolerance   float64
	ResidualEnergy float64
	WeightDelay    float64
	WeightEnergy   float64
}

// Evaluate computes the full Contribution of assigning task to node,
// charging energy to device.
func Evaluate(task model.Task, node model.FogNode, device model.TerminalDevice) Contribution {
	tr := TransmissionTime(task.DataSize, node.Bandwidth)
	te := ExecutionTime(task.DataSize, task.Intensity, node.Compute)
	delay := Delay(tr, te)
	energy := Energy(tr, te, device.TxPower, device.IdlePower)
	return Contribution{
		TaskID:         task.ID,
		NodeID:         node.ID,
		Transmission:   tr,
		Execution:      te,
		Delay:          delay,
		Energy:         energy,
		MaxTolerance:   task.MaxTolerance,
		ResidualEnergy: device.ResidualEnergy,
		WeightDelay:    device.WeightDelay,
		WeightEnergy:   device.WeightEnergy,
	}
}

// WeightedCost is the per-task overhead w_t*T + w_e*E used both as the
// objective summand and as the ACO overhead f_ij.
func WeightedCost(c Contribution) float64 {
	return c.WeightDelay*c.Delay + c.WeightEnergy*c.Energy
}

// Objective sums WeightedCost over every contribution in an allocation.
func Objective(cs []Contribution) float64 {
	var total float64
	for _, c := range cs {
		total += WeightedCost(c)
	}
	return total
}

// Fitness is 1/objective, +Inf when the objective is zero. The solvers
// rank candidates by Fitness of the weighted objective and never store
// that value; allocation.Evaluate applies Fitness to
// totalDelay+totalEnergy for the Allocation's reported Fitness field.
func Fitness(objective float64) float64 {
	if objective == 0 {
		return math.Inf(1)
	}
	return 1 / objective
}

// Reliability is the percentage of contributions whose delay and energy
// both satisfy their bounds. Both constraints must hold; infinite
// residual energy trivially satisfies the energy bound.
func Reliability(cs []Contribution) float64 {
	if len(cs) == 0 {
		return 100
	}
	var ok int
	for _, c := range cs {
		if c.Delay <= c.MaxTolerance && c.Energy <= c.ResidualEnergy {
			ok++
		}
	}
	return 100 * float64(ok) / float64(len(cs))
}

// CloudExecutionTime is TE_cloud = (D*theta)/C_cloud + D/B_cloud +
// latencyPenalty/1000, seconds. Used only by the three-tier policy.
func CloudExecutionTime(dataSizeMb, intensity, cloudCompute, cloudBandwidth, latencyPenaltyMs float64) float64 {
	return (dataSizeMb*intensity)/cloudCompute + dataSizeMb/cloudBandwidth + latencyPenaltyMs/1000
}

// CloudCost is D*theta*costPerUnit.
func CloudCost(dataSizeMb, intensity, costPerUnit float64) float64 {
	return dataSizeMb * intensity * costPerUnit
}

// CloudEnergy is the energy charged to the device for a cloud-offloaded
// task: p_tx*(D/B_cloud) + p_idle*TE_cloud.
func CloudEnergy(dataSizeMb, cloudBandwidth, txPower, idlePower, teCloud float64) float64 {
	return txPower*(dataSizeMb/cloudBandwidth) + idlePower*teCloud
}
