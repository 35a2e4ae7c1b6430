package storage

import (
	"math"
	"testing"
	"time"

	"github.com/san-kum/snowball/internal/solver"
	"github.com/san-kum/snowball/internal/sweep"
)

func TestSaveLoadSweep(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	points := []sweep.Point{
		{Multiplier: 0.85, Temperature: 241.2, Valid: true, Branch: "warm",
			Warm: solver.Result{Converged: true}, Cold: solver.Result{Converged: true}},
		{Multiplier: 0.95, Valid: false},
		{Multiplier: 1.05, Temperature: 290.1, Valid: true, Branch: "warm",
			Warm: solver.Result{Converged: true}},
	}

	meta := RunMetadata{Policy: "prefer-warm", MaxIterations: 1000, Tolerance: 0.01, Critical: 0.85}
	runID, err := st.SaveSweep(meta, points)
	if err != nil {
		t.Fatalf("save sweep: %v", err)
	}

	loaded, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Kind != "sweep" {
		t.Errorf("kind = %s, want sweep", loaded.Kind)
	}
	if loaded.Critical != 0.85 {
		t.Errorf("critical = %f, want 0.85", loaded.Critical)
	}

	header, cols, err := st.LoadPoints(runID)
	if err != nil {
		t.Fatalf("load points: %v", err)
	}
	if header[0] != "solar_multiplier" || header[1] != "temperature" {
		t.Errorf("unexpected header: %v", header)
	}
	if len(cols[0]) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(cols[0]))
	}
	if cols[0][0] != 0.85 {
		t.Errorf("first multiplier = %f, want 0.85", cols[0][0])
	}
	if !math.IsNaN(cols[1][1]) {
		t.Errorf("missing point should read back NaN, got %f", cols[1][1])
	}
	if math.Abs(cols[1][2]-290.1) > 1e-6 {
		t.Errorf("last temperature = %f, want 290.1", cols[1][2])
	}
}

func TestSaveLoadCurve(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	temps := []float64{200, 260, 320}
	balances := []float64{81.5, -12.3, -120.0}

	runID, err := st.SaveCurve(RunMetadata{SolarMultiplier: 1.0}, temps, balances)
	if err != nil {
		t.Fatalf("save curve: %v", err)
	}

	_, cols, err := st.LoadPoints(runID)
	if err != nil {
		t.Fatalf("load points: %v", err)
	}
	for i := range temps {
		if cols[0][i] != temps[i] {
			t.Errorf("temperature[%d] = %f, want %f", i, cols[0][i], temps[i])
		}
		if math.Abs(cols[1][i]-balances[i]) > 1e-9 {
			t.Errorf("balance[%d] = %f, want %f", i, cols[1][i], balances[i])
		}
	}
}

func TestSaveStampsTimestamp(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	before := time.Now().Add(-time.Second)

	sweepID, err := st.SaveSweep(RunMetadata{}, []sweep.Point{{Multiplier: 1.0, Temperature: 285.9, Valid: true}})
	if err != nil {
		t.Fatalf("save sweep: %v", err)
	}
	curveID, err := st.SaveCurve(RunMetadata{}, []float64{288}, []float64{0.5})
	if err != nil {
		t.Fatalf("save curve: %v", err)
	}

	for _, runID := range []string{sweepID, curveID} {
		meta, err := st.Load(runID)
		if err != nil {
			t.Fatalf("load %s: %v", runID, err)
		}
		if meta.Timestamp.IsZero() {
			t.Errorf("%s: stored run has zero timestamp", runID)
		}
		if meta.Timestamp.Before(before) || meta.Timestamp.After(time.Now().Add(time.Second)) {
			t.Errorf("%s: timestamp %v not near save time", runID, meta.Timestamp)
		}
	}
}

func TestListEmpty(t *testing.T) {
	st := New(t.TempDir() + "/never-created")

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestLoadUnknownRun(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("sweep_0"); err == nil {
		t.Error("expected error for unknown run id")
	}
}
