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

package access

import (
	"testing"

	"github.com/awslabs/ar-go-access/analysis/config"
	"github.com/awslabs/ar-go-access/internal/analysistest"
	"golang.org/x/tools/go/ssa"
)

func newTestAnalysis(t *testing.T, src string) (*Analysis, *ssa.Package) {
	prog, pkg := analysistest.BuildSSA(t, src)
	cfg := config.NewDefault()
	logger := config.NewLogGroup(cfg)
	return NewAnalysis(prog, cfg, logger), pkg
}

// computeKind summarizes the named function and returns the kind of one slot.
func computeKind(t *testing.T, a *Analysis, pkg *ssa.Package, name string, slot int) AccessKind {
	t.Helper()
	fn := analysistest.FindFunction(t, pkg, name)
	s := a.GetOrCreateSummary(fn)
	return s.SummaryFor(slot).Kind()
}

const pointSrc = `
package sample

type point struct {
	x int
	y int
}

func getX(p *point) int {
	return p.x
}

func setX(p *point, v int) {
	p.x = v
}

func ignore(p *point) int {
	return 42
}

func byValue(v point) int {
	return v.x
}
`

func TestClassifyDirectRead(t *testing.T) {
	a, pkg := newTestAnalysis(t, pointSrc)
	fn := analysistest.FindFunction(t, pkg, "getX")
	s := a.GetOrCreateSummary(fn)
	if s.ArgumentCount() != 1 {
		t.Fatalf("expected 1 slot, got %d", s.ArgumentCount())
	}
	arg := s.SummaryFor(0)
	if arg.Kind() != Read {
		t.Errorf("expected read for a loaded field, got %s", arg.Kind())
	}
	if !arg.Accessed() || !arg.Pos().IsValid() {
		t.Errorf("expected a valid witness position for the read")
	}
}

func TestClassifyDirectWrite(t *testing.T) {
	a, pkg := newTestAnalysis(t, pointSrc)
	fn := analysistest.FindFunction(t, pkg, "setX")
	s := a.GetOrCreateSummary(fn)
	if s.ArgumentCount() != 2 {
		t.Fatalf("expected 2 slots, got %d", s.ArgumentCount())
	}
	if kind := s.SummaryFor(0).Kind(); kind != Modify {
		t.Errorf("expected modify for a stored field, got %s", kind)
	}
	// the int parameter carries no address
	if kind := s.SummaryFor(1).Kind(); kind != NoAccess {
		t.Errorf("expected none for a non-address parameter, got %s", kind)
	}
}

func TestClassifyUntouchedParameter(t *testing.T) {
	a, pkg := newTestAnalysis(t, pointSrc)
	if kind := computeKind(t, a, pkg, "ignore", 0); kind != NoAccess {
		t.Errorf("expected none for an untouched pointer, got %s", kind)
	}
}

func TestClassifyValueParameter(t *testing.T) {
	a, pkg := newTestAnalysis(t, pointSrc)
	if kind := computeKind(t, a, pkg, "byValue", 0); kind != NoAccess {
		t.Errorf("a struct passed by value carries no tracked address, got %s", kind)
	}
}

const escapeSrc = `
package sample

type point struct {
	x int
	y int
}

type consumer interface {
	Consume(*point)
}

var sink *point

func leak(p *point) {
	sink = p
}

func apply(f func(*point), p *point) {
	f(p)
}

func feed(c consumer, p *point) {
	c.Consume(p)
}
`

func TestClassifyEscapeToGlobal(t *testing.T) {
	a, pkg := newTestAnalysis(t, escapeSrc)
	if kind := computeKind(t, a, pkg, "leak", 0); kind != Modify {
		t.Errorf("an address stored to a global escapes, expected modify, got %s", kind)
	}
}

func TestClassifyEscapeToFunctionValue(t *testing.T) {
	a, pkg := newTestAnalysis(t, escapeSrc)
	fn := analysistest.FindFunction(t, pkg, "apply")
	s := a.GetOrCreateSummary(fn)
	if kind := s.SummaryFor(0).Kind(); kind != NoAccess {
		t.Errorf("a func-typed parameter is not tracked, got %s", kind)
	}
	if kind := s.SummaryFor(1).Kind(); kind != Modify {
		t.Errorf("an argument of an unresolved call escapes, expected modify, got %s", kind)
	}
}

func TestClassifyEscapeToInterfaceCall(t *testing.T) {
	a, pkg := newTestAnalysis(t, escapeSrc)
	fn := analysistest.FindFunction(t, pkg, "feed")
	s := a.GetOrCreateSummary(fn)
	if kind := s.SummaryFor(1).Kind(); kind != Modify {
		t.Errorf("an argument of an interface dispatch escapes, expected modify, got %s", kind)
	}
}

const predefinedSrc = `
package sample

import "sync"

type counter struct {
	mu sync.Mutex
	n  int
}

func withLock(mu *sync.Mutex) {
	mu.Lock()
	defer mu.Unlock()
}

func bump(c *counter, mu *sync.Mutex) {
	mu.Lock()
	c.n++
	mu.Unlock()
}
`

func TestClassifyPredefinedSummary(t *testing.T) {
	a, pkg := newTestAnalysis(t, predefinedSrc)
	if kind := computeKind(t, a, pkg, "withLock", 0); kind != Modify {
		t.Errorf("locking mutates the mutex, expected modify, got %s", kind)
	}
	// a predefined row resolves the call, so nothing is reported unresolved
	if n := len(a.unresolved); n != 0 {
		t.Errorf("expected no unresolved uses for predefined callees, got %d", n)
	}
}

func TestClassifyPredefinedDoesNotLeakToOtherArgs(t *testing.T) {
	a, pkg := newTestAnalysis(t, predefinedSrc)
	fn := analysistest.FindFunction(t, pkg, "bump")
	s := a.GetOrCreateSummary(fn)
	if kind := s.SummaryFor(0).Kind(); kind != Modify {
		t.Errorf("expected modify for the incremented counter, got %s", kind)
	}
	if kind := s.SummaryFor(1).Kind(); kind != Modify {
		t.Errorf("expected modify for the locked mutex, got %s", kind)
	}
}

const projectionSrc = `
package sample

type point struct {
	x int
	y int
}

type pair struct {
	left  point
	right point
}

type holder struct {
	inner *point
}

func readLeftX(p *pair) int {
	return p.left.x
}

func writeRightY(p *pair) {
	p.right.y = 7
}

func readThrough(h *holder) int {
	return h.inner.x
}

func writeThrough(h *holder) {
	h.inner.x = 1
}

func sumArray(xs *[4]int, i int) int {
	return xs[0] + xs[i]
}

func clearAt(xs *[4]int, i int) {
	xs[i] = 0
}
`

func TestClassifyNestedProjections(t *testing.T) {
	a, pkg := newTestAnalysis(t, projectionSrc)
	if kind := computeKind(t, a, pkg, "readLeftX", 0); kind != Read {
		t.Errorf("expected read through nested fields, got %s", kind)
	}
	if kind := computeKind(t, a, pkg, "writeRightY", 0); kind != Modify {
		t.Errorf("expected modify through nested fields, got %s", kind)
	}
}

func TestClassifyFollowsLoadedPointers(t *testing.T) {
	a, pkg := newTestAnalysis(t, projectionSrc)
	if kind := computeKind(t, a, pkg, "readThrough", 0); kind != Read {
		t.Errorf("expected read through a loaded pointer, got %s", kind)
	}
	// the write lands behind a loaded pointer and must still be seen
	if kind := computeKind(t, a, pkg, "writeThrough", 0); kind != Modify {
		t.Errorf("expected modify through a loaded pointer, got %s", kind)
	}
}

func TestClassifyDynamicIndex(t *testing.T) {
	a, pkg := newTestAnalysis(t, projectionSrc)
	if kind := computeKind(t, a, pkg, "sumArray", 0); kind != Read {
		t.Errorf("expected read for indexed loads, got %s", kind)
	}
	if kind := computeKind(t, a, pkg, "clearAt", 0); kind != Modify {
		t.Errorf("expected modify for an indexed store, got %s", kind)
	}
}
