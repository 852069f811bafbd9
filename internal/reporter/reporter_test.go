package reporter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/efx-project/efx/internal/diagnostics"
	"github.com/efx-project/efx/internal/fixpoint"
	"github.com/efx-project/efx/internal/infer"
	"github.com/efx-project/efx/internal/registry"
	"github.com/efx-project/efx/internal/types"
)

func sampleResult() fixpoint.Result {
	functions := map[registry.MFA]infer.FunctionResult{
		{Module: "Main", Function: "run", Arity: 0}: {
			Type:   types.Atom,
			Effect: types.Label{Name: types.LState, Payload: []string{"counter"}},
		},
		{Module: "Main", Function: "helper", Arity: 1}: {
			Type:   types.Atom,
			Effect: types.Empty{},
		},
	}
	diags := &diagnostics.Bag{}
	diags.Add(diagnostics.FixpointDiverged(diagnostics.Span{}, "Main"))
	return fixpoint.Result{Functions: functions, Diags: diags}
}

func TestBuild_DeterministicOrder(t *testing.T) {
	report := Build(sampleResult())
	if len(report.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(report.Records))
	}
	if report.Records[0].Function != "helper" || report.Records[1].Function != "run" {
		t.Errorf("records not sorted: %+v", report.Records)
	}
	if len(report.Diagnostics) != 1 {
		t.Errorf("expected 1 diagnostic, got %d", len(report.Diagnostics))
	}
}

func TestJSONReporter_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	r := &JSONReporter{Path: path}
	if err := r.Write(Build(sampleResult())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading report: %v", err)
	}
	var decoded jsonReport
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decoding report: %v", err)
	}
	if len(decoded.Functions) != 2 {
		t.Errorf("expected 2 functions, got %d", len(decoded.Functions))
	}
}

func TestSQLiteReporter_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.db")
	r := &SQLiteReporter{Path: path}
	if err := r.Write(Build(sampleResult())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected sqlite file to exist: %v", err)
	}
}

func TestProtobufReporter_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.pb")
	r := &ProtobufReporter{Path: path}
	if err := r.Write(Build(sampleResult())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading report: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected non-empty protobuf output")
	}
}
