// Package reporter renders a fixpoint.Result as the analysis run's
// final output (spec.md §6 "Output"): one Record per analyzed function;
// no merged effect registry is written. Three Reporter
// implementations share the same Record shape: JSON (the default,
// matching the seed/generated registry files' own encoding/json use),
// sqlite (a queryable effect_report table in the shape of
// internal/registry's store), and protobuf (a dynamic wire message assembled without a
// .proto file or protoc step, grounded on the teacher's jhump/
// protoreflect-based dynamic proto handling in
// internal/evaluator/builtins_grpc.go).
package reporter

import (
	"sort"

	"github.com/efx-project/efx/internal/fixpoint"
	"github.com/efx-project/efx/internal/infer"
	"github.com/efx-project/efx/internal/registry"
)

// Record is one function's reported result: its MFA, compact effect
// token, and full type/effect strings for a human or a downstream tool
// to read, independent of any particular adapter's wire format.
type Record struct {
	Module   string
	Function string
	Arity    int
	Effect   string // compact token, e.g. "s[file_write/2]"
	Tag      string // bare severity letter, e.g. "s"
	Detail   []string
	Type     string // result.Type.String()
}

// Report is the full run output: every function's Record, in
// deterministic (Module, Function, Arity) order, plus the run's
// diagnostics rendered to strings.
type Report struct {
	Records     []Record
	Diagnostics []string
}

// Build converts a fixpoint.Result into a deterministically ordered
// Report.
func Build(result fixpoint.Result) Report {
	records := make([]Record, 0, len(result.Functions))
	for mfa, fr := range result.Functions {
		records = append(records, recordFor(mfa, fr))
	}
	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.Module != b.Module {
			return a.Module < b.Module
		}
		if a.Function != b.Function {
			return a.Function < b.Function
		}
		return a.Arity < b.Arity
	})

	diags := make([]string, 0, result.Diags.Len())
	for _, d := range result.Diags.Items() {
		diags = append(diags, d.Error())
	}

	return Report{Records: records, Diagnostics: diags}
}

func recordFor(mfa registry.MFA, fr infer.FunctionResult) Record {
	compact := fr.Compact()
	return Record{
		Module:   mfa.Module,
		Function: mfa.Function,
		Arity:    mfa.Arity,
		Effect:   compact.String(),
		Tag:      compact.Tag,
		Detail:   compact.Detail,
		Type:     fr.Type.String(),
	}
}

// Reporter writes a Report to some destination — a file, a database, a
// wire message — in its own adapter-specific encoding.
type Reporter interface {
	Write(report Report) error
}
