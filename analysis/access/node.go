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
	"fmt"

	"golang.org/x/tools/go/ssa"
)

// FreeVarSlot returns the summary slot of free variable i of fn. Free
// variables occupy the leading slots.
func FreeVarSlot(fn *ssa.Function, i int) int { return i }

// ParamSlot returns the summary slot of parameter i of fn. Parameters follow
// the free variables.
func ParamSlot(fn *ssa.Function, i int) int { return len(fn.FreeVars) + i }

// SlotCount returns the number of summary slots of fn.
func SlotCount(fn *ssa.Function) int { return len(fn.FreeVars) + len(fn.Params) }

// SlotName names the formal occupying slot i of fn, for reporting.
func SlotName(fn *ssa.Function, i int) string {
	if i < len(fn.FreeVars) {
		return fmt.Sprintf("capture %s", fn.FreeVars[i].Name())
	}
	if j := i - len(fn.FreeVars); j < len(fn.Params) {
		return fmt.Sprintf("param %s", fn.Params[j].Name())
	}
	return fmt.Sprintf("slot %d", i)
}

// ArgumentFlow records that the value summarized at CallerArgIndex of some
// caller is passed straight to slot CalleeArgIndex of Callee, either as a
// call argument or as a pointer bound by a closure literal.
type ArgumentFlow struct {
	// CallerArgIndex is a summary slot of the caller recording the flow
	CallerArgIndex int

	// CalleeArgIndex is the summary slot the value lands in at the callee
	CalleeArgIndex int

	// Callee is the node of the function receiving the value
	Callee *FunctionNode
}

// FunctionNode ties one function to its access summary, the argument flows
// leaving it, and the set of nodes whose summaries were computed from it.
// Nodes are created and owned by an Analysis; the summary is allocated at its
// final slot count when the node is created.
type FunctionNode struct {
	fn      *ssa.Function
	id      uint32
	summary *FunctionSummary

	// flows are the recorded argument flows out of this function
	flows []ArgumentFlow

	// callers is the reverse view: the nodes that recorded a flow into this
	// node. Invalidation walks these edges.
	callers map[*FunctionNode]bool

	// classified is set once the function's uses have been enumerated
	classified bool

	// settled is set once the summary has reached its interprocedural
	// fixpoint; a settled summary never changes until it is invalidated
	settled bool
}

func newFunctionNode(fn *ssa.Function, id uint32) *FunctionNode {
	return &FunctionNode{
		fn:      fn,
		id:      id,
		summary: NewFunctionSummary(SlotCount(fn)),
		callers: make(map[*FunctionNode]bool),
	}
}

// Function returns the function the node summarizes.
func (n *FunctionNode) Function() *ssa.Function { return n.fn }

// Summary returns the access summary of the node.
func (n *FunctionNode) Summary() *FunctionSummary { return n.summary }

// Flows returns the argument flows recorded out of the node.
func (n *FunctionNode) Flows() []ArgumentFlow { return n.flows }

// Settled reports whether the summary has reached its fixpoint.
func (n *FunctionNode) Settled() bool { return n.settled }

// recordFlow appends an argument flow leaving n and registers n as a caller
// dependent of the callee in the same step, so the forward and the reverse
// view never diverge. Flow endpoints outside either summary are a defect in
// the classifier.
func (n *FunctionNode) recordFlow(flow ArgumentFlow) {
	if flow.CallerArgIndex < 0 || flow.CallerArgIndex >= n.summary.ArgumentCount() {
		panic(fmt.Sprintf("access: flow source slot %d outside summary of %s", flow.CallerArgIndex, n.fn))
	}
	if flow.CalleeArgIndex < 0 || flow.CalleeArgIndex >= flow.Callee.summary.ArgumentCount() {
		panic(fmt.Sprintf("access: flow target slot %d outside summary of %s", flow.CalleeArgIndex, flow.Callee.fn))
	}
	n.flows = append(n.flows, flow)
	flow.Callee.callers[n] = true
}

func (n *FunctionNode) String() string {
	return fmt.Sprintf("%s %s", n.fn.String(), n.summary.String())
}
