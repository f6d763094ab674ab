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
	"go/token"
	"go/types"

	"github.com/awslabs/ar-go-access/analysis/lang"
	"github.com/awslabs/ar-go-access/analysis/summaries"
	"github.com/awslabs/ar-go-access/internal/indextrie"
	"golang.org/x/tools/go/ssa"
)

// This file implements the use classification step of the analysis. The
// classifier inspects one function at a time: it enumerates the uses of each
// address-carrying formal, merges the direct accesses it recognizes into the
// function's summary, records an argument flow for every resolved call site
// and closure binding, and schedules the callees it discovers. It never
// recurses into callees itself; propagation is the engine's job.

// IsAddressType reports whether values of type t carry an address the
// analysis tracks accesses through.
func IsAddressType(t types.Type) bool {
	_, ok := t.Underlying().(*types.Pointer)
	return ok
}

// trackedValue pairs a value derived from a formal with the trie node
// canonicalizing the projection path from the formal to the value. origin is
// the instruction that derived the value, when that instruction is itself a
// referrer of the value and must not be classified as a use of it. cell marks
// a local spill slot holding the tracked address rather than the address
// itself: loading a cell yields the address back and does not touch the
// formal's memory.
type trackedValue struct {
	value  ssa.Value
	path   *indextrie.Node
	origin ssa.Instruction
	cell   bool
}

// classify enumerates the uses of every address-carrying formal of the
// node's function. Formals that do not carry an address keep their bottom
// summary: the function cannot access memory through them.
func (a *Analysis) classify(node *FunctionNode, order *scheduler) {
	node.classified = true
	fn := node.fn
	a.logger.Tracef("classifying %s", fn)
	for i, fv := range fn.FreeVars {
		if IsAddressType(fv.Type()) {
			a.classifyUses(node, FreeVarSlot(fn, i), fv, order)
		}
	}
	for i, param := range fn.Params {
		if IsAddressType(param.Type()) {
			a.classifyUses(node, ParamSlot(fn, i), param, order)
		}
	}
}

// classifyUses walks the def-use chains of root and of the values derived
// from it by projections, loads and spills, classifying every use reached.
func (a *Analysis) classifyUses(node *FunctionNode, slot int, root ssa.Value, order *scheduler) {
	visited := map[ssa.Value]bool{root: true}
	worklist := []trackedValue{{value: root, path: a.trie}}
	for len(worklist) > 0 {
		tv := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		refs := tv.value.Referrers()
		if refs == nil {
			continue
		}
		for _, instr := range *refs {
			if instr == tv.origin {
				continue
			}
			derived, ok := a.classifyUse(node, slot, tv, instr, order)
			if ok && !visited[derived.value] {
				visited[derived.value] = true
				worklist = append(worklist, derived)
			}
		}
	}
}

// classifyUse classifies a single use of the tracked value. It returns a new
// tracked value and true when the use derives another value reaching the
// formal's memory. Any use that is not recognized is treated as an escape of
// the address: the summary takes the top kind at that use.
//
//gocyclo:ignore
func (a *Analysis) classifyUse(node *FunctionNode, slot int, tv trackedValue, instr ssa.Instruction, order *scheduler) (trackedValue, bool) {
	switch use := instr.(type) {
	case *ssa.UnOp:
		if use.Op == token.MUL {
			if tv.cell {
				// loading the spill cell recovers the address
				return trackedValue{value: use, path: tv.path}, true
			}
			a.mergeDirect(node, slot, tv.path, Read, use.Pos())
			// a loaded pointer still reaches memory through the formal
			if IsAddressType(use.Type()) {
				return trackedValue{value: use, path: tv.path}, true
			}
		} else {
			a.mergeOpaque(node, slot, instr)
		}
	case *ssa.Store:
		if use.Addr == tv.value {
			if !tv.cell {
				a.mergeDirect(node, slot, tv.path, Modify, use.Pos())
			}
			// overwriting the spill cell reassigns the variable and leaves
			// the formal's memory untouched
		} else if cell, ok := use.Addr.(*ssa.Alloc); ok {
			// the address is saved in a local cell. This is how the builder
			// spills captured variables, so the cell is followed to reach
			// closure bindings and later loads of the saved address. The
			// spill itself writes the cell, not the formal's memory.
			return trackedValue{value: cell, path: tv.path, origin: instr, cell: true}, true
		} else {
			// the tracked address itself is written into memory
			a.mergeOpaque(node, slot, instr)
		}
	case *ssa.FieldAddr:
		if a.logger.LogsTrace() {
			a.logger.Tracef("%s: %s projects field %s", node.fn, SlotName(node.fn, slot), lang.FieldAddrFieldName(use))
		}
		return trackedValue{value: use, path: tv.path.Child(use.Field)}, true
	case *ssa.IndexAddr:
		if c, ok := use.Index.(*ssa.Const); ok {
			if idx := c.Int64(); idx >= 0 {
				return trackedValue{value: use, path: tv.path.Child(int(idx))}, true
			}
		}
		// a dynamic element shares the path of the whole aggregate
		return trackedValue{value: use, path: tv.path}, true
	case ssa.CallInstruction:
		a.classifyCallUse(node, slot, tv, use, order)
	case *ssa.MakeClosure:
		a.classifyClosureUse(node, slot, tv, use, order)
	case *ssa.DebugRef:
		// debug metadata, not a use
	default:
		a.mergeOpaque(node, slot, instr)
	}
	return trackedValue{}, false
}

// classifyCallUse handles the tracked value appearing at a call site. Calls
// through defer and go statements are calls: the access happens on some
// execution of the callee.
func (a *Analysis) classifyCallUse(node *FunctionNode, slot int, tv trackedValue, call ssa.CallInstruction, order *scheduler) {
	common := call.Common()
	callee := common.StaticCallee()
	if callee == nil {
		// indirect call, interface dispatch or builtin: the address escapes
		// to code the analysis cannot identify. The receiver of an invoke
		// counts as an argument here.
		for _, arg := range lang.GetArgs(call) {
			if arg == tv.value {
				a.mergeOpaque(node, slot, call)
				return
			}
		}
		return
	}
	for k, arg := range common.Args {
		if arg != tv.value {
			continue
		}
		if s, ok := summaries.AccessOfFunc(callee); ok {
			a.mergePredefined(node, slot, tv.path, s, k, call)
			continue
		}
		if lang.IsExternal(callee) || summaries.IsStdFunction(callee) {
			// no body to inspect, or a runtime function we choose not to
			// follow and have no predefined row for
			a.mergeOpaque(node, slot, call)
			continue
		}
		calleeNode := a.nodeFor(callee)
		node.recordFlow(ArgumentFlow{
			CallerArgIndex: slot,
			CalleeArgIndex: ParamSlot(callee, k),
			Callee:         calleeNode,
		})
		order.enqueue(calleeNode)
	}
}

// classifyClosureUse handles the tracked value being captured by a closure
// literal. The capture itself does not access the pointee; the accesses in
// the closure body are attributed through a flow into the free variable slot,
// which covers every later invocation of the closure value.
func (a *Analysis) classifyClosureUse(node *FunctionNode, slot int, tv trackedValue, mk *ssa.MakeClosure, order *scheduler) {
	target, ok := mk.Fn.(*ssa.Function)
	if !ok {
		a.mergeOpaque(node, slot, mk)
		return
	}
	for b, bound := range mk.Bindings {
		if bound != tv.value {
			continue
		}
		if lang.IsExternal(target) {
			a.mergeOpaque(node, slot, mk)
			continue
		}
		calleeNode := a.nodeFor(target)
		node.recordFlow(ArgumentFlow{
			CallerArgIndex: slot,
			CalleeArgIndex: FreeVarSlot(target, b),
			Callee:         calleeNode,
		})
		order.enqueue(calleeNode)
	}
}

// mergeDirect records a recognized access of the tracked formal. path is the
// canonical projection from the formal to the accessed location, printed in
// the trace so refined accesses can be told apart from whole-argument ones.
func (a *Analysis) mergeDirect(node *FunctionNode, slot int, path *indextrie.Node, kind AccessKind, pos token.Pos) {
	if node.summary.at(slot).MergeKind(kind, pos) && a.logger.LogsTrace() {
		a.logger.Tracef("%s: %s%s now %s at %s", node.fn, SlotName(node.fn, slot), path, kind, a.position(pos))
	}
}

// mergeOpaque records a use the classifier cannot follow. The address may
// escape through it, so the slot takes the top kind at that use.
func (a *Analysis) mergeOpaque(node *FunctionNode, slot int, instr ssa.Instruction) {
	if node.summary.at(slot).MergeKind(Modify, instr.Pos()) {
		if a.cfg.ReportUnresolved && !a.cfg.SilenceWarn {
			a.logger.Warnf("%s: %s assumed modified, unresolved use %s at %s",
				node.fn, SlotName(node.fn, slot), lang.FmtInstr(instr), a.position(instr.Pos()))
		}
		a.unresolved = append(a.unresolved, unresolvedUse{fn: node.fn, instr: instr, slot: slot})
	}
}

// mergePredefined applies the predefined effect row of a function the
// analysis does not inspect. A row that does not cover the parameter falls
// back to the conservative top kind.
func (a *Analysis) mergePredefined(node *FunctionNode, slot int, path *indextrie.Node, s summaries.AccessSummary, param int, call ssa.CallInstruction) {
	if param >= len(s.Params) {
		a.mergeOpaque(node, slot, call)
		return
	}
	if k := KindOfEffect(s.Params[param]); k != NoAccess {
		a.mergeDirect(node, slot, path, k, call.Pos())
	}
}
