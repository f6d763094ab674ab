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

// Package exclusivity implements a static exclusivity check on top of the
// access summaries: at every resolved call site it collects the addresses the
// call hands out, together with the summarized access kind of the slot each
// address lands in, and reports pairs that may touch overlapping memory with
// at least one modification. Two addresses overlap when they share the same
// local base value and the projection path of one is a prefix of the other's;
// no may-alias reasoning is attempted beyond that.
package exclusivity

import (
	"fmt"
	"go/token"

	"github.com/awslabs/ar-go-access/analysis"
	"github.com/awslabs/ar-go-access/analysis/access"
	"github.com/awslabs/ar-go-access/analysis/config"
	"github.com/awslabs/ar-go-access/analysis/lang"
	"github.com/awslabs/ar-go-access/analysis/summaries"
	"github.com/awslabs/ar-go-access/internal/funcutil"
	"github.com/awslabs/ar-go-access/internal/indextrie"
	"golang.org/x/exp/slices"
	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"
)

// Access is one side of a potential conflict: the memory reachable from Base
// through the projection Path, and the strongest kind of access the callee
// may perform on it according to its summary.
type Access struct {
	// Base is the local value the address was derived from
	Base ssa.Value

	// Path is the canonical projection path from Base to the passed address
	Path *indextrie.Node

	// Kind is the summarized access of the slot receiving the address
	Kind access.AccessKind

	// Callee is the function the address is handed to
	Callee *ssa.Function

	// Slot is the summary slot of Callee receiving the address
	Slot int
}

func (a Access) String() string {
	return fmt.Sprintf("%s of %s%s (%s of %s)",
		a.Kind, a.Base.Name(), a.Path, access.SlotName(a.Callee, a.Slot), a.Callee.RelString(nil))
}

// Conflict reports two accesses passed out at one call site that may touch
// overlapping memory, at least one of them modifying it.
type Conflict struct {
	// Fn is the function containing the call site
	Fn *ssa.Function

	// Call is the call handing out both addresses
	Call ssa.CallInstruction

	// Pos is the resolved position of the call
	Pos token.Position

	// First and Second are the two overlapping accesses, in argument order
	First  Access
	Second Access
}

// Result is the outcome of an exclusivity check.
type Result struct {
	// State is the summary analysis built while checking. Callers can reuse
	// it for reporting or further demands.
	State *access.Analysis

	// Conflicts lists the findings in function name then call site order.
	Conflicts []Conflict

	// CallSites counts the resolved call sites that were inspected.
	CallSites int
}

// Analyze checks every resolved call site of the functions selected by the
// configuration, building access summaries on demand. Unresolved call sites
// are not inspected here; the summaries already assume the worst for them and
// the precision report lists them.
func Analyze(cfg *config.Config, logger *config.LogGroup, lp analysis.LoadedProgram) (Result, error) {
	state := access.NewAnalysis(lp.Program, cfg, logger)
	res := Result{State: state}

	checked := selectFunctions(cfg, lp.Program)
	if len(checked) == 0 {
		return res, fmt.Errorf("no function to check matches the configuration")
	}
	logger.Infof("exclusivity: checking %d function(s)", len(checked))

	c := &checker{cfg: cfg, logger: logger, lp: lp, state: state, res: &res}
	for _, fn := range checked {
		if cfg.ExceedsMaxAlarms(len(res.Conflicts)) {
			logger.Warnf("exclusivity: alarm limit %d reached, stopping", cfg.MaxAlarms)
			break
		}
		c.checkFunction(fn)
	}
	return res, nil
}

// selectFunctions returns the functions whose call sites will be inspected:
// source functions matching the package filter and, when the configuration
// names explicit targets, one of the target identifiers. The slice is sorted
// by function name so findings and alarm limits are deterministic.
func selectFunctions(cfg *config.Config, prog *ssa.Program) []*ssa.Function {
	var fns []*ssa.Function
	for fn := range ssautil.AllFunctions(prog) {
		if lang.IsExternal(fn) || fn.Synthetic != "" || summaries.IsStdFunction(fn) {
			continue
		}
		pkg := lang.PackageNameFromFunction(fn)
		if !cfg.MatchPkgFilter(pkg) {
			continue
		}
		if !isTarget(cfg, fn, pkg) {
			continue
		}
		fns = append(fns, fn)
	}
	slices.SortFunc(fns, func(x, y *ssa.Function) bool {
		return x.RelString(nil) < y.RelString(nil)
	})
	return fns
}

// isTarget reports whether some exclusivity problem of the configuration
// selects fn. A configuration without problems, or a problem without explicit
// targets, selects every function passing the package filter.
func isTarget(cfg *config.Config, fn *ssa.Function, pkg string) bool {
	if len(cfg.ExclusivityProblems) == 0 {
		return true
	}
	cid := config.CodeIdentifier{Package: pkg, Method: fn.Name(), Receiver: receiverName(fn)}
	return funcutil.Exists(cfg.ExclusivityProblems, func(spec config.ExclusivitySpec) bool {
		return len(spec.Targets) == 0 || spec.IsTarget(cid)
	})
}

func receiverName(fn *ssa.Function) string {
	recv := fn.Signature.Recv()
	if recv == nil {
		return ""
	}
	return recv.Type().String()
}

type checker struct {
	cfg    *config.Config
	logger *config.LogGroup
	lp     analysis.LoadedProgram
	state  *access.Analysis
	res    *Result
}

// checkFunction inspects the resolved call sites of fn.
func (c *checker) checkFunction(fn *ssa.Function) {
	lang.IterateInstructions(fn, func(_ int, instr ssa.Instruction) {
		call, ok := instr.(ssa.CallInstruction)
		if !ok {
			return
		}
		callee := call.Common().StaticCallee()
		if callee == nil {
			return
		}
		c.res.CallSites++
		c.checkCallSite(fn, call, callee)
	})
}

// checkCallSite pairs up the accesses handed out by one call and records the
// overlapping ones.
func (c *checker) checkCallSite(fn *ssa.Function, call ssa.CallInstruction, callee *ssa.Function) {
	accs := c.collectAccesses(call, callee)
	for i := range accs {
		for j := i + 1; j < len(accs); j++ {
			a, b := accs[i], accs[j]
			if a.Base != b.Base || !a.Path.Overlaps(b.Path) {
				continue
			}
			if a.Kind != access.Modify && b.Kind != access.Modify {
				// two reads of the same memory are exclusive enough
				continue
			}
			c.recordConflict(fn, call, a, b)
		}
	}
}

// collectAccesses returns one access per address the call passes into the
// callee: address-typed arguments with the summarized kind of the parameter
// slot they land in, and the address bindings of closure literals passed as
// arguments, with the kinds of the free variable slots holding them.
func (c *checker) collectAccesses(call ssa.CallInstruction, callee *ssa.Function) []Access {
	var accs []Access
	for i, arg := range call.Common().Args {
		if mk, ok := arg.(*ssa.MakeClosure); ok {
			accs = append(accs, c.closureAccesses(mk)...)
			continue
		}
		if !access.IsAddressType(arg.Type()) {
			continue
		}
		kind := c.calleeKind(callee, i)
		if kind == access.NoAccess {
			continue
		}
		base, path := resolveBasePath(c.state.SubPathTrieRoot(), arg)
		accs = append(accs, Access{
			Base:   base,
			Path:   path,
			Kind:   kind,
			Callee: callee,
			Slot:   access.ParamSlot(callee, i),
		})
	}
	return accs
}

// closureAccesses lists the addresses a closure literal carries into a call
// through its bindings. The kinds come from the closure's free variable
// slots: they cover every invocation of the closure value by the callee.
func (c *checker) closureAccesses(mk *ssa.MakeClosure) []Access {
	target, ok := mk.Fn.(*ssa.Function)
	if !ok || lang.IsExternal(target) {
		return nil
	}
	sum := c.state.GetOrCreateSummary(target)
	var accs []Access
	for j, bound := range mk.Bindings {
		if !access.IsAddressType(bound.Type()) {
			continue
		}
		slot := access.FreeVarSlot(target, j)
		kind := sum.SummaryFor(slot).Kind()
		if kind == access.NoAccess {
			continue
		}
		base, path := resolveBasePath(c.state.SubPathTrieRoot(), lookThroughSpill(bound))
		accs = append(accs, Access{Base: base, Path: path, Kind: kind, Callee: target, Slot: slot})
	}
	return accs
}

// calleeKind returns the summarized access kind of parameter i of callee,
// falling back the same way the classifier does: predefined rows first, then
// the worst case for functions without an inspectable body.
func (c *checker) calleeKind(callee *ssa.Function, i int) access.AccessKind {
	if s, ok := summaries.AccessOfFunc(callee); ok {
		if i < len(s.Params) {
			return access.KindOfEffect(s.Params[i])
		}
		return access.Modify
	}
	if lang.IsExternal(callee) || summaries.IsStdFunction(callee) {
		return access.Modify
	}
	return c.state.GetOrCreateSummary(callee).SummaryFor(access.ParamSlot(callee, i)).Kind()
}

// recordConflict appends a finding unless a directive or a configured filter
// suppresses it, or the alarm limit has been reached.
func (c *checker) recordConflict(fn *ssa.Function, call ssa.CallInstruction, a, b Access) {
	pos := c.lp.Program.Fset.Position(call.Pos())
	if _, ok := c.lp.Directives[analysis.NewDirectivePos(pos)]; ok {
		c.logger.Debugf("exclusivity: conflict at %s suppressed by directive", pos)
		return
	}
	if c.isFiltered(a.Callee) || c.isFiltered(b.Callee) {
		return
	}
	if c.cfg.ExceedsMaxAlarms(len(c.res.Conflicts)) {
		return
	}
	c.res.Conflicts = append(c.res.Conflicts, Conflict{Fn: fn, Call: call, Pos: pos, First: a, Second: b})
}

// isFiltered reports whether a configured filter matches the callee of an
// access, in any exclusivity problem.
func (c *checker) isFiltered(callee *ssa.Function) bool {
	cid := config.CodeIdentifier{
		Package:  lang.PackageNameFromFunction(callee),
		Method:   callee.Name(),
		Receiver: receiverName(callee),
	}
	return funcutil.Exists(c.cfg.ExclusivityProblems, func(spec config.ExclusivitySpec) bool {
		return spec.IsFiltered(cid)
	})
}

// resolveBasePath walks the projection chain backwards from an address to the
// local value it was derived from, folding the field and constant index steps
// into a canonical path under root. A dynamic element index adds no step, so
// the element shares the path of the whole aggregate. Loads of capture cells
// resolve to the spilled address, so accesses through a capture and direct
// accesses to the captured variable compare under the same base.
func resolveBasePath(root *indextrie.Node, v ssa.Value) (ssa.Value, *indextrie.Node) {
	var rev []int
	base := v
walk:
	for {
		switch proj := base.(type) {
		case *ssa.FieldAddr:
			rev = append(rev, proj.Field)
			base = proj.X
		case *ssa.IndexAddr:
			if c, ok := proj.Index.(*ssa.Const); ok {
				if idx := int(c.Int64()); idx >= 0 {
					rev = append(rev, idx)
				}
			}
			base = proj.X
		case *ssa.UnOp:
			if proj.Op != token.MUL {
				break walk
			}
			spilled := lookThroughSpill(proj.X)
			if spilled == proj.X {
				break walk
			}
			base = spilled
		default:
			break walk
		}
	}
	path := root
	for i := len(rev) - 1; i >= 0; i-- {
		path = path.Child(rev[i])
	}
	return base, path
}

// lookThroughSpill resolves a closure binding to the address spilled into it.
// Captured variables are bound as their local cells; when the cell is written
// exactly once with an address, the accesses through the capture reach the
// memory behind that address.
func lookThroughSpill(v ssa.Value) ssa.Value {
	alloc, ok := v.(*ssa.Alloc)
	if !ok {
		return v
	}
	refs := alloc.Referrers()
	if refs == nil {
		return v
	}
	var stored ssa.Value
	for _, instr := range *refs {
		if st, ok := instr.(*ssa.Store); ok && st.Addr == alloc {
			if stored != nil {
				// reassigned capture, keep the cell as the base
				return v
			}
			stored = st.Val
		}
	}
	if stored != nil && access.IsAddressType(stored.Type()) {
		return stored
	}
	return v
}
