// Package model defines the data entities shared by every scheduling
// component: terminal devices, tasks, fog nodes, and cloud nodes. All
// entities are immutable for the lifetime of a scheduling call.
package model

import "math"

// TerminalDevice produces tasks. ResidualEnergy may be math.Inf(1) for
// devices that never run out (mains-powered, non-mobile).
type TerminalDevice struct {
	ID             string  `json:"id"`
	TxPower        float64 `json:"transmissionPower"` // W
	IdlePower      float64 `json:"idlePower"`         // W
	Mobile         bool    `json:"mobile"`
	WeightDelay    float64 `json:"delayWeight"`    // w_t
	WeightEnergy   float64 `json:"energyWeight"`   // w_e
	ResidualEnergy float64 `json:"residualEnergy"` // J, may be +Inf
}

// Task is a unit of computation produced by exactly one device.
type Task struct {
	ID                 string  `json:"id"`
	DataSize           float64 `json:"dataSize"`              // D, megabits
	Intensity          float64 `json:"computationIntensity"`  // theta, cycles/bit
	MaxTolerance       float64 `json:"maxToleranceTime"`       // T_max, seconds
	ExpectedCompletion float64 `json:"expectedCompletionTime"` // seconds
	DeviceID           string  `json:"deviceId"`
	Priority           int     `json:"priority"` // 1-5
}

// FogNode executes fog-bound tasks.
type FogNode struct {
	ID          string  `json:"id"`
	Compute     float64 `json:"computingResource"` // C, cycles/s
	Storage     float64 `json:"storageCapacity"`   // GB, unused by the core but part of the contract
	Bandwidth   float64 `json:"networkBandwidth"`  // B, Mbps
	CurrentLoad float64 `json:"currentLoad"`       // [0,1]
}

// CloudNode is the overflow executor consulted by the three-tier policy.
type CloudNode struct {
	ID               string  `json:"id"`
	Compute          float64 `json:"computingResource"`
	Bandwidth        float64 `json:"wanBandwidth"`
	LatencyPenaltyMs float64 `json:"latencyPenalty"`
	CostPerUnit      float64 `json:"costPerComputationUnit"`
	Available        bool    `json:"available"`
}

// Index is the precomputed id-to-entity lookup for a single scheduling
// call. Solvers address tasks and fog nodes by dense row/column index
// (TaskOrder[i], FogNodeOrder[j]) instead of repeating linear id
// searches — see SPEC_FULL.md's "nested lookup by id" redesign note.
type Index struct {
	Tasks        map[string]Task
	TaskOrder    []string
	Devices      map[string]TerminalDevice
	FogNodes     map[string]FogNode
	FogNodeOrder []string
}

// BuildIndex constructs an Index once per scheduling call. Callers are
// expected to validate referential integrity (unknown device ids) before
// calling this; BuildIndex itself does no validation.
func BuildIndex(tasks []Task, devices []TerminalDevice, fogNodes []FogNode) Index {
	idx := Index{
		Tasks:        make(map[string]Task, len(tasks)),
		TaskOrder:    make([]string, len(tasks)),
		Devices:      make(map[string]TerminalDevice, len(devices)),
		FogNodes:     make(map[string]FogNode, len(fogNodes)),
		FogNodeOrder: make([]string, len(fogNodes)),
	}
	for i, t := range tasks {
		idx.Tasks[t.ID] = t
		idx.TaskOrder[i] = t.ID
	}
	for _, d := range devices {
		idx.Devices[d.ID] = d
	}
	for j, n := range fogNodes {
		idx.FogNodes[n.ID] = n
		idx.FogNodeOrder[j] = n.ID
	}
	return idx
}

// NumTasks returns n, the row count used by PSO/ACO.
func (idx Index) NumTasks() int { return len(idx.TaskOrder) }

// NumFogNodes returns m, the column count used by PSO/ACO.
func (idx Index) NumFogNodes() int { return len(idx.FogNodeOrder) }

// Task returns the task at row i.
func (idx Index) Task(i int) Task { return idx.Tasks[idx.TaskOrder[i]] }

// FogNode returns the fog node at column j.
func (idx Index) FogNode(j int) FogNode { return idx.FogNodes[idx.FogNodeOrder[j]] }

// Device returns the owning device of the task at row i.
func (idx Index) Device(i int) TerminalDevice {
	return idx.Devices[idx.Task(i).DeviceID]
}

// Sub returns a new Index restricted to the given task ids, keeping the
// same fog node ordering and device set. Used by the three-tier policy
// to hand HH only the fog-bound subset of a batch.
func (idx Index) Sub(taskIDs []string) Index {
	sub := Index{
		Tasks:        make(map[string]Task, len(taskIDs)),
		TaskOrder:    make([]string, len(taskIDs)),
		Devices:      idx.Devices,
		FogNodes:     idx.FogNodes,
		FogNodeOrder: idx.FogNodeOrder,
	}
	for i, id := range taskIDs {
		sub.Tasks[id] = idx.Tasks[id]
		sub.TaskOrder[i] = id
	}
	return sub
}

// PositiveInfinity is re-exported for callers building ResidualEnergy
// values without importing math directly.
var PositiveInfinity = math.Inf(1)
