// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package exclusivity_test

import (
	"go/ast"
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/awslabs/ar-go-access/analysis"
	"github.com/awslabs/ar-go-access/analysis/config"
	"github.com/awslabs/ar-go-access/analysis/exclusivity"
	"github.com/awslabs/ar-go-access/internal/analysistest"
)

const conflictSrc = `
package sample

type rec struct {
	a int
	b int
}

func swap(x *int, y *int) {
	t := *x
	*x = *y
	*y = t
}

func sum(p *rec, q *rec) int {
	return p.a + q.b
}

func combine(p *rec, q *rec) {
	p.a = q.a
}

func run(f func(), x *int) {
	f()
	*x = 1
}

func badSame(r *rec) {
	swap(&r.a, &r.a) // @Conflict
}

func okDisjoint(r *rec) {
	swap(&r.a, &r.b)
}

func badOverlap(r *rec) {
	combine(r, r) // @Conflict
}

func okReads(r *rec) int {
	return sum(r, r)
}

func badClosure(r *rec) {
	f := func() { r.a = 2 }
	run(f, &r.a) // @Conflict
}
`

// analyzeSource runs the checker on src with cfg, building the directive map
// from the same source.
func analyzeSource(t *testing.T, cfg *config.Config, src string) exclusivity.Result {
	t.Helper()
	prog, _ := analysistest.BuildSSA(t, src)
	lp := analysis.LoadedProgram{Program: prog, Directives: parseDirectives(t, src)}
	result, err := exclusivity.Analyze(cfg, config.NewLogGroup(cfg), lp)
	if err != nil {
		t.Fatalf("analysis failed: %s", err)
	}
	return result
}

func parseDirectives(t *testing.T, src string) analysis.Directives {
	t.Helper()
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "main.go", src, parser.ParseComments)
	if err != nil {
		t.Fatalf("failed to parse source: %s", err)
	}
	pkgs := map[string]*ast.Package{"sample": {Name: "sample", Files: map[string]*ast.File{"main.go": f}}}
	return analysis.FindDirectives(pkgs, fset)
}

func conflictLines(result exclusivity.Result) map[int]bool {
	lines := make(map[int]bool)
	for _, c := range result.Conflicts {
		lines[c.Pos.Line] = true
	}
	return lines
}

func TestConflictsMatchAnnotations(t *testing.T) {
	result := analyzeSource(t, config.NewDefault(), conflictSrc)
	want := analysistest.ExpectedConflictLines(conflictSrc)
	got := conflictLines(result)
	for line := range want {
		if !got[line] {
			t.Errorf("expected a conflict on line %d", line)
		}
	}
	for line := range got {
		if !want[line] {
			t.Errorf("unexpected conflict on line %d", line)
		}
	}
	if len(result.Conflicts) != len(want) {
		t.Errorf("expected %d conflicts, got %d", len(want), len(result.Conflicts))
	}
	if result.CallSites == 0 {
		t.Errorf("expected some call sites to be inspected")
	}
}

func TestConflictDescriptionsNameBothSides(t *testing.T) {
	result := analyzeSource(t, config.NewDefault(), conflictSrc)
	var buf strings.Builder
	exclusivity.WriteConflicts(&buf, result)
	out := buf.String()
	for _, want := range []string{"swap", "combine", "modify", "param x"} {
		if !strings.Contains(out, want) {
			t.Errorf("conflict listing is missing %q:\n%s", want, out)
		}
	}
}

func TestDirectiveSuppressesConflict(t *testing.T) {
	suppressed := strings.Replace(conflictSrc, "swap(&r.a, &r.a) // @Conflict", "swap(&r.a, &r.a) //argax:ignore", 1)
	result := analyzeSource(t, config.NewDefault(), suppressed)
	want := analysistest.ExpectedConflictLines(suppressed)
	if len(result.Conflicts) != len(want) {
		t.Fatalf("expected %d conflicts after suppression, got %d", len(want), len(result.Conflicts))
	}
	for _, c := range result.Conflicts {
		if c.Fn.Name() == "badSame" {
			t.Errorf("conflict in badSame should have been suppressed by the directive")
		}
	}
}

func TestFilterSuppressesConflict(t *testing.T) {
	cfg := config.NewDefault()
	cfg.ExclusivityProblems = []config.ExclusivitySpec{
		{Filters: []config.CodeIdentifier{{Method: "swap"}}},
	}
	result := analyzeSource(t, cfg, conflictSrc)
	for _, c := range result.Conflicts {
		if c.First.Callee.Name() == "swap" || c.Second.Callee.Name() == "swap" {
			t.Errorf("conflicts involving swap should have been filtered, got %s", c.Pos)
		}
	}
	if len(result.Conflicts) != 2 {
		t.Errorf("expected 2 conflicts to survive the filter, got %d", len(result.Conflicts))
	}
}

func TestTargetRestrictsCheckedFunctions(t *testing.T) {
	cfg := config.NewDefault()
	cfg.ExclusivityProblems = []config.ExclusivitySpec{
		{Targets: []config.CodeIdentifier{{Method: "badOverlap"}}},
	}
	result := analyzeSource(t, cfg, conflictSrc)
	if len(result.Conflicts) != 1 {
		t.Fatalf("expected only the targeted function to be checked, got %d conflicts", len(result.Conflicts))
	}
	if result.Conflicts[0].Fn.Name() != "badOverlap" {
		t.Errorf("expected the conflict in badOverlap, got %s", result.Conflicts[0].Fn.Name())
	}
}

func TestMaxAlarmsBoundsFindings(t *testing.T) {
	cfg := config.NewDefault()
	cfg.MaxAlarms = 1
	result := analyzeSource(t, cfg, conflictSrc)
	if len(result.Conflicts) != 1 {
		t.Errorf("expected the alarm limit to keep 1 conflict, got %d", len(result.Conflicts))
	}
}
