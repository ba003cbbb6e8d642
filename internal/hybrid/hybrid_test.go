package hybrid

import (
	"testing"

	"github.com/stretchr/testify/require"

	"fog-compute/internal/model"
	"fog-compute/internal/rng"
)

func TestScenarioS1ChoosesCheaperNode(t *testing.T) {
	device := model.TerminalDevice{
		ID: "d", TxPower: 0.1, IdlePower: 0.05, WeightDelay: 1, WeightEnergy: 0,
		ResidualEnergy: model.PositiveInfinity,
	}
	task := model.Task{ID: "t", DataSize: 10, Intensity: 200, MaxTolerance: 10, DeviceID: "d"}
	nodeA := model.FogNode{ID: "A", Compute: 2e9, Bandwidth: 100}
	nodeB := model.FogNode{ID: "B", Compute: 1e9, Bandwidth: 50}
	idx := model.BuildIndex([]model.Task{task}, []model.TerminalDevice{device}, []model.FogNode{nodeA, nodeB})

	seed := uint32(1)
	alloc, _, err := Solve(DefaultConfig(), idx, rng.NewSource(&seed), nil)
	require.NoError(t, err)
	require.Equal(t, "A", alloc.FogAssignment["t"])
	require.InDelta(t, 8.1, alloc.TotalDelay, 1e-9)
	require.Equal(t, 100.0, alloc.Reliability)
}

func TestEmptyBatch(t *testing.T) {
	idx := model.BuildIndex(nil, nil, []model.FogNode{{ID: "A", Compute: 1, Bandwidth: 1}})
	seed := uint32(1)
	alloc, _, err := Solve(DefaultConfig(), idx, rng.NewSource(&seed), nil)
	require.NoError(t, err)
	require.Zero(t, alloc.TotalDelay)
	require.Equal(t, 100.0, alloc.Reliability)
}

func TestDeterminismAcrossRuns(t *testing.T) {
	device := model.TerminalDevice{ID: "d", TxPower: 0.2, IdlePower: 0.1, WeightDelay: 0.6, WeightEnergy: 0.4, ResidualEnergy: 50}
	tasks := []model.Task{
		{ID: "t1", DataSize: 5, Intensity: 100, MaxTolerance: 5, DeviceID: "d"},
		{ID: "t2", DataSize: 8, Intensity: 150, MaxTolerance: 8, DeviceID: "d"},
	}
	nodes := []model.FogNode{
		{ID: "A", Compute: 1.5e9, Bandwidth: 80, CurrentLoad: 0.1},
		{ID: "B", Compute: 1e9, Bandwidth: 60, CurrentLoad: 0.2},
		{ID: "C", Compute: 2e9, Bandwidth: 120, CurrentLoad: 0.05},
	}
	idx := model.BuildIndex(tasks, []model.TerminalDevice{device}, nodes)

	seed := uint32(2024)
	a1, _, err := Solve(DefaultConfig(), idx, rng.NewSource(&seed), nil)
	require.NoError(t, err)
	a2, _, err := Solve(DefaultConfig(), idx, rng.NewSource(&seed), nil)
	require.NoError(t, err)
	require.Equal(t, a1.TotalDelay, a2.TotalDelay)
	require.Equal(t, a1.TotalEnergy, a2.TotalEnergy)
	for id, node := range a1.FogAssignment {
		require.Equal(t, node, a2.FogAssignment[id], "mapping diverged for task %s", id)
	}
}
