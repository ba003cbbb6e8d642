package costmodel

import (
	"math"
	"testing"

	"fog-compute/internal/model"
)

func TestEvaluateScenarioS1(t *testing.T) {
	device := model.TerminalDevice{
		ID: "d", TxPower: 0.1, IdlePower: 0.05, WeightDelay: 1, WeightEnergy: 0,
		ResidualEnergy: model.PositiveInfinity,
	}
	task := model.Task{ID: "t", DataSize: 10, Intensity: 200, MaxTolerance: 10, DeviceID: "d"}
	nodeA := model.FogNode{ID: "A", Compute: 2e9, Bandwidth: 100}

	c := Evaluate(task, nodeA, device)
	if got, want := c.Transmission, 0.1; math.Abs(got-want) > 1e-9 {
		t.Fatalf("transmission time = %v, want %v", got, want)
	}
	if got, want := c.Execution, 8.0; math.Abs(got-want) > 1e-9 {
		t.Fatalf("execution time = %v, want %v", got, want)
	}
	if got, want := c.Delay, 8.1; math.Abs(got-want) > 1e-9 {
		t.Fatalf("delay = %v, want %v", got, want)
	}
	if Reliability([]Contribution{c}) != 100 {
		t.Fatalf("expected full reliability under infinite residual energy and a satisfied deadline")
	}
}

func TestFitnessInfinityOnZeroObjective(t *testing.T) {
	if f := Fitness(0); !math.IsInf(f, 1) {
		t.Fatalf("Fitness(0) = %v, want +Inf", f)
	}
	if f := Fitness(2); f != 0.5 {
		t.Fatalf("Fitness(2) = %v, want 0.5", f)
	}
}

func TestReliabilityRequiresBothBounds(t *testing.T) {
	cs := []Contribution{
		{Delay: 1, MaxTolerance: 10, Energy: 1, ResidualEnergy: 10},  // ok
		{Delay: 11, MaxTolerance: 10, Energy: 1, ResidualEnergy: 10}, // delay fails
		{Delay: 1, MaxTolerance: 10, Energy: 11, ResidualEnergy: 10}, // energy fails
	}
	if r := Reliability(cs); math.Abs(r-100.0/3.0) > 1e-9 {
		t.Fatalf("reliability = %v, want %v", r, 100.0/3.0)
	}
}

func TestReliabilityEmptyBatchIsHundred(t *testing.T) {
	if r := Reliability(nil); r != 100 {
		t.Fatalf("empty batch reliability = %v, want 100", r)
	}
}

func TestCloudFormulas(t *testing.T) {
	te := CloudExecutionTime(10, 200, 4e9, 1000, 50)
	want := (10*200)/4e9 + 10.0/1000 + 50.0/1000
	if math.Abs(te-want) > 1e-9 {
		t.Fatalf("cloud execution time = %v, want %v", te, want)
	}
	if cost := CloudCost(10, 200, 0.001); math.Abs(cost-2.0) > 1e-9 {
		t.Fatalf("cloud cost = %v, want 2.0", cost)
	}
}
