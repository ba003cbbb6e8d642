package pso

import (
	"testing"

	"fog-compute/internal/model"
	"fog-compute/internal/rng"
)

func buildSingleTaskIndex() model.Index {
	device := model.TerminalDevice{
		ID: "d1", TxPower: 0.1, IdlePower: 0.05, WeightDelay: 1, WeightEnergy: 0,
		ResidualEnergy: model.PositiveInfinity,
	}
	task := model.Task{ID: "t1", DataSize: 10, Intensity: 200, MaxTolerance: 10, DeviceID: "d1"}
	nodeA := model.FogNode{ID: "A", Compute: 2e9, Bandwidth: 100}
	nodeB := model.FogNode{ID: "B", Compute: 1e9, Bandwidth: 50}
	return model.BuildIndex([]model.Task{task}, []model.TerminalDevice{device}, []model.FogNode{nodeA, nodeB})
}

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.SwarmSize = 6
	cfg.Iterations = 10
	return cfg
}

func TestEveryRowHasExactlyOneOne(t *testing.T) {
	idx := buildSingleTaskIndex()
	seed := uint32(1)
	res, err := Solve(smallConfig(), idx, rng.NewSource(&seed), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, row := range res.BestPosition {
		count := 0
		for _, v := range row {
			if v == 1 {
				count++
			} else if v != 0 {
				t.Fatalf("row %d has a non-binary entry: %v", i, v)
			}
		}
		if count != 1 {
			t.Fatalf("row %d has %d ones, want exactly 1", i, count)
		}
	}
}

func TestSingleTaskIdentityPrefersCheaperNode(t *testing.T) {
	idx := buildSingleTaskIndex()
	seed := uint32(42)
	res, err := Solve(smallConfig(), idx, rng.NewSource(&seed), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Node A (2e9 cycles/s, 100 Mbps) strictly dominates node B
	// (1e9, 50 Mbps) on both delay components for this task, so the
	// minimum w_t*T + w_e*E choice is unambiguous: A.
	if res.Mapping["t1"] != "A" {
		t.Fatalf("expected task t1 assigned to node A, got %s", res.Mapping["t1"])
	}
}

func TestDeterministicGivenSeed(t *testing.T) {
	idx := buildSingleTaskIndex()
	seed := uint32(7)
	r1, err := Solve(smallConfig(), idx, rng.NewSource(&seed), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r2, err := Solve(smallConfig(), idx, rng.NewSource(&seed), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r1.BestFitness != r2.BestFitness {
		t.Fatalf("same seed produced different fitness: %v != %v", r1.BestFitness, r2.BestFitness)
	}
	if r1.Mapping["t1"] != r2.Mapping["t1"] {
		t.Fatalf("same seed produced different mapping")
	}
}

func TestEmptyTaskSetReturnsEmptyMapping(t *testing.T) {
	idx := model.BuildIndex(nil, nil, []model.FogNode{{ID: "A", Compute: 1, Bandwidth: 1}})
	seed := uint32(1)
	res, err := Solve(smallConfig(), idx, rng.NewSource(&seed), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Mapping) != 0 {
		t.Fatalf("expected empty mapping, got %v", res.Mapping)
	}
}

func TestNoFogNodesIsSchedulingError(t *testing.T) {
	idx := model.BuildIndex([]model.Task{{ID: "t1", DataSize: 1, Intensity: 1, MaxTolerance: 1, DeviceID: "d1"}},
		[]model.TerminalDevice{{ID: "d1", ResidualEnergy: model.PositiveInfinity}}, nil)
	seed := uint32(1)
	if _, err := Solve(smallConfig(), idx, rng.NewSource(&seed), nil); err == nil {
		t.Fatalf("expected an error when no fog nodes are available")
	}
}

func TestParallelModeProducesValidPositions(t *testing.T) {
	idx := buildSingleTaskIndex()
	cfg := smallConfig()
	cfg.Parallel = true
	cfg.Workers = 3
	seed := uint32(9)
	res, err := Solve(cfg, idx, rng.NewSource(&seed), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, row := range res.BestPosition {
		count := 0
		for _, v := range row {
			if v == 1 {
				count++
			}
		}
		if count != 1 {
			t.Fatalf("parallel mode violated the single-assignment invariant: %v", row)
		}
	}
}
