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
	"github.com/awslabs/ar-go-access/internal/graphutil"
)

// This file implements the bottom-up fixpoint of the analysis. A demand on
// one function discovers the call closure reachable through argument flows,
// classifies each function once, then propagates callee summaries to callers
// in strongly-connected-component order, iterating inside each component
// until nothing changes. The lattice has height two and summaries have fixed
// length, so every propagation pass either strictly increases some slot or
// terminates the component.

// scheduler is the demand worklist of a recomputation. A node is scheduled at
// most once; settled nodes are never scheduled since their summaries are
// final.
type scheduler struct {
	queue     []*FunctionNode
	scheduled map[*FunctionNode]bool
}

func newScheduler() *scheduler {
	return &scheduler{scheduled: make(map[*FunctionNode]bool)}
}

// enqueue schedules node unless it is settled or already scheduled.
func (s *scheduler) enqueue(node *FunctionNode) {
	if node.settled || s.scheduled[node] {
		return
	}
	s.scheduled[node] = true
	s.queue = append(s.queue, node)
}

// next pops the next node to process, nil when the worklist is empty.
func (s *scheduler) next() *FunctionNode {
	if len(s.queue) == 0 {
		return nil
	}
	node := s.queue[0]
	s.queue = s.queue[1:]
	return node
}

// recompute drives the summary of root and of every function it depends on
// to the interprocedural fixpoint. On return all discovered nodes are
// settled.
func (a *Analysis) recompute(root *FunctionNode) {
	order := newScheduler()
	order.enqueue(root)

	// Discovery: classify each scheduled function once. Classification
	// enqueues the unsettled callees it records flows to, so the loop stops
	// exactly when the unsettled dependency closure is classified.
	var discovered []*FunctionNode
	for node := order.next(); node != nil; node = order.next() {
		if !node.classified {
			a.classify(node, order)
		}
		discovered = append(discovered, node)
	}
	a.logger.Debugf("access: recomputing %s covers %d function(s)", root.fn, len(discovered))

	// Propagation: process components callees-first. Settled callees outside
	// the discovered set act as constants.
	components := graphutil.StronglyConnectedComponents(discovered, func(n *FunctionNode) []*FunctionNode {
		succs := make([]*FunctionNode, 0, len(n.flows))
		for _, flow := range n.flows {
			if !flow.Callee.settled {
				succs = append(succs, flow.Callee)
			}
		}
		return succs
	})
	for _, component := range components {
		for sweeps := 1; a.sweep(component); sweeps++ {
			a.logger.Tracef("access: component of %s not stable after sweep %d", component[0].fn, sweeps)
		}
	}

	for _, node := range discovered {
		node.settled = true
	}
}

// sweep pulls every callee summary across every flow of the component once,
// returning true if any slot changed.
func (a *Analysis) sweep(component []*FunctionNode) bool {
	changed := false
	for _, node := range component {
		for _, flow := range node.flows {
			if a.propagateFromCalleeToCaller(node, flow) {
				changed = true
			}
		}
	}
	return changed
}

// propagateFromCalleeToCaller folds the callee's record for the flow's target
// slot into the caller's record for the source slot.
func (a *Analysis) propagateFromCalleeToCaller(caller *FunctionNode, flow ArgumentFlow) bool {
	calleeArg := flow.Callee.summary.SummaryFor(flow.CalleeArgIndex)
	changed := caller.summary.at(flow.CallerArgIndex).MergeWith(calleeArg)
	if changed && a.logger.LogsTrace() {
		a.logger.Tracef("access: %s slot %d takes %s from %s slot %d",
			caller.fn, flow.CallerArgIndex, calleeArg.Kind(), flow.Callee.fn, flow.CalleeArgIndex)
	}
	return changed
}
