package scheduler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"fog-compute/internal/model"
)

func sampleRequest(mode Mode) Request {
	seed := uint32(11)
	return Request{
		Mode: mode,
		Tasks: []model.Task{
			{ID: "t0", DataSize: 2, Intensity: 1000, MaxTolerance: 10, ExpectedCompletion: 10, DeviceID: "d0", Priority: 1},
			{ID: "t1", DataSize: 3, Intensity: 1200, MaxTolerance: 10, ExpectedCompletion: 10, DeviceID: "d0", Priority: 2},
		},
		Devices: []model.TerminalDevice{
			{ID: "d0", TxPower: 0.2, IdlePower: 0.05, WeightDelay: 0.5, WeightEnergy: 0.5, ResidualEnergy: 100},
		},
		FogNodes: []model.FogNode{
			{ID: "A", Compute: 2e9, Storage: 1e9, Bandwidth: 100, CurrentLoad: 0.1},
			{ID: "B", Compute: 1e9, Storage: 1e9, Bandwidth: 50, CurrentLoad: 0.2},
		},
		Seed: &seed,
	}
}

func TestHandleRejectsEmptyFogNodes(t *testing.T) {
	req := sampleRequest(ModeHH)
	req.FogNodes = nil
	_, err := Handle(context.Background(), req, nil)
	se, ok := err.(*Error)
	require.True(t, ok)
	require.Equal(t, KindValidation, se.Kind)
}

func TestHandleRejectsUnknownDeviceReference(t *testing.T) {
	req := sampleRequest(ModeHH)
	req.Tasks[0].DeviceID = "does-not-exist"
	_, err := Handle(context.Background(), req, nil)
	se, ok := err.(*Error)
	require.True(t, ok)
	require.Equal(t, KindValidation, se.Kind)
}

func TestHandleHHProducesResponse(t *testing.T) {
	resp, err := Handle(context.Background(), sampleRequest(ModeHH), nil)
	require.NoError(t, err)
	r, ok := resp.(*Response)
	require.True(t, ok, "expected *Response, got %T", resp)
	require.Len(t, r.Allocations, 2)
	require.Len(t, r.PerTask, 2)
}

func TestHandleBaselineModes(t *testing.T) {
	for _, mode := range []Mode{ModeFCFS, ModeRR, ModeMinMin, ModeIPSOOnly, ModeIACOOnly} {
		resp, err := Handle(context.Background(), sampleRequest(mode), nil)
		require.NoError(t, err, "mode %s", mode)
		_, ok := resp.(*Response)
		require.True(t, ok, "mode %s: expected *Response, got %T", mode, resp)
	}
}

func TestHandleCompareNamesExactlyFiveAlgorithms(t *testing.T) {
	resp, err := Handle(context.Background(), sampleRequest(ModeCompare), nil)
	require.NoError(t, err)
	cmp, ok := resp.(*CompareResponse)
	require.True(t, ok, "expected *CompareResponse, got %T", resp)
	require.GreaterOrEqual(t, cmp.HH.Reliability, 0.0)
	require.GreaterOrEqual(t, cmp.IPSO.Reliability, 0.0)
	require.GreaterOrEqual(t, cmp.IACO.Reliability, 0.0)
	require.GreaterOrEqual(t, cmp.RR.Reliability, 0.0)
	require.GreaterOrEqual(t, cmp.MinMin.Reliability, 0.0)
}

func TestHandleThreeTierReturnsOffloadResult(t *testing.T) {
	req := sampleRequest(ModeThreeTier)
	resp, err := Handle(context.Background(), req, nil)
	require.NoError(t, err)
	require.NotNil(t, resp)
}

func TestHandleExperimentRequiresExperimentField(t *testing.T) {
	req := sampleRequest(ModeExperiment)
	_, err := Handle(context.Background(), req, nil)
	se, ok := err.(*Error)
	require.True(t, ok)
	require.Equal(t, KindValidation, se.Kind)
}

func TestHandleExperimentRuns(t *testing.T) {
	req := sampleRequest(ModeExperiment)
	req.Experiment = &ExperimentRequest{Kind: "completion_time", Iterations: 1}
	resp, err := Handle(context.Background(), req, nil)
	require.NoError(t, err)
	require.NotNil(t, resp)
}

func TestHandleDeterministicGivenSeed(t *testing.T) {
	r1, err := Handle(context.Background(), sampleRequest(ModeHH), nil)
	require.NoError(t, err)
	r2, err := Handle(context.Background(), sampleRequest(ModeHH), nil)
	require.NoError(t, err)
	a, b := r1.(*Response), r2.(*Response)
	require.Equal(t, a.TotalDelay, b.TotalDelay)
	require.Equal(t, a.TotalEnergy, b.TotalEnergy)
}
