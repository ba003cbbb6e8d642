package allocation

import (
	"math"
	"testing"

	"fog-compute/internal/model"
)

func buildIndex() model.Index {
	device := model.TerminalDevice{
		ID: "d1", TxPower: 0.1, IdlePower: 0.05, WeightDelay: 1, WeightEnergy: 0,
		ResidualEnergy: model.PositiveInfinity,
	}
	task := model.Task{ID: "t1", DataSize: 10, Intensity: 200, MaxTolerance: 10, DeviceID: "d1"}
	nodeA := model.FogNode{ID: "A", Compute: 2e9, Bandwidth: 100}
	nodeB := model.FogNode{ID: "B", Compute: 1e9, Bandwidth: 50}
	return model.BuildIndex([]model.Task{task}, []model.TerminalDevice{device}, []model.FogNode{nodeA, nodeB})
}

func TestEvaluateHappyPath(t *testing.T) {
	idx := buildIndex()
	alloc, contribs, err := Evaluate(idx, map[string]string{"t1": "A"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(contribs) != 1 {
		t.Fatalf("expected 1 contribution, got %d", len(contribs))
	}
	if math.Abs(alloc.TotalDelay-8.1) > 1e-9 {
		t.Fatalf("total delay = %v, want 8.1", alloc.TotalDelay)
	}
	if alloc.Reliability != 100 {
		t.Fatalf("reliability = %v, want 100", alloc.Reliability)
	}
}

func TestEvaluateMissingAssignment(t *testing.T) {
	idx := buildIndex()
	if _, _, err := Evaluate(idx, map[string]string{}); err == nil {
		t.Fatalf("expected an error for an unassigned task")
	}
}

func TestEvaluateUnknownNode(t *testing.T) {
	idx := buildIndex()
	if _, _, err := Evaluate(idx, map[string]string{"t1": "Z"}); err == nil {
		t.Fatalf("expected an error for a mapping referencing an unknown node")
	}
}

func TestEvaluateIdempotent(t *testing.T) {
	idx := buildIndex()
	first, _, err := Evaluate(idx, map[string]string{"t1": "A"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, _, err := Evaluate(idx, first.FogAssignment)
	if err != nil {
		t.Fatalf("unexpected error re-evaluating: %v", err)
	}
	if first.TotalDelay != second.TotalDelay || first.TotalEnergy != second.TotalEnergy ||
		first.Fitness != second.Fitness || first.Reliability != second.Reliability {
		t.Fatalf("evaluate(evaluate(a)) diverged from evaluate(a): %+v != %+v", first, second)
	}
}

func TestEmptyBatch(t *testing.T) {
	e := Empty()
	if e.TotalDelay != 0 || e.TotalEnergy != 0 || e.Reliability != 100 {
		t.Fatalf("empty allocation boundary violated: %+v", e)
	}
}
