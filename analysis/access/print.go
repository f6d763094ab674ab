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

// This file implements the reporting side of the analysis: human-readable
// summary listings, a graphviz rendering of the argument flow graph, the
// recursion cycles of that graph and the unresolved-use precision report.

package access

import (
	"fmt"
	"io"
	"sort"

	"github.com/awslabs/ar-go-access/internal/formatutil"
	"github.com/awslabs/ar-go-access/internal/graphutil"
	"golang.org/x/exp/slices"
)

// sortedNodes returns the computed nodes sorted by function name, for stable
// output.
func (a *Analysis) sortedNodes() []*FunctionNode {
	nodes := make([]*FunctionNode, 0, len(a.nodes))
	for _, node := range a.nodes {
		nodes = append(nodes, node)
	}
	slices.SortFunc(nodes, func(x, y *FunctionNode) bool {
		return x.fn.RelString(nil) < y.fn.RelString(nil)
	})
	return nodes
}

// FprintSummaries writes every computed summary to w, one function block at a
// time, sorted by function name. Each tracked argument appears with its access
// kind and, when accessed, the position of one access establishing that kind.
func (a *Analysis) FprintSummaries(w io.Writer) {
	for _, node := range a.sortedNodes() {
		fmt.Fprintf(w, "%s:\n", formatutil.Sanitize(node.fn.RelString(nil)))
		for slot := 0; slot < SlotCount(node.fn); slot++ {
			s := node.summary.SummaryFor(slot)
			if s.Accessed() {
				fmt.Fprintf(w, "  %-6s %s at %s\n", s.Kind(), SlotName(node.fn, slot), a.position(s.Pos()))
			} else {
				fmt.Fprintf(w, "  %-6s %s\n", s.Kind(), SlotName(node.fn, slot))
			}
		}
	}
}

// FlowGraph returns the function-level argument flow graph over the computed
// nodes. Node ids are assigned in function name order and labels are the
// function names, so ids are stable for a given set of computed functions.
// Multiple argument flows between the same pair of functions collapse into a
// single edge.
func (a *Analysis) FlowGraph() *graphutil.FlowGraph {
	nodes := a.sortedNodes()
	labels := make([]string, len(nodes))
	ids := make(map[*FunctionNode]int, len(nodes))
	for i, node := range nodes {
		labels[i] = node.fn.RelString(nil)
		ids[node] = i
	}
	g := graphutil.NewFlowGraph(labels)
	for i, node := range nodes {
		for _, flow := range node.flows {
			g.AddEdge(i, ids[flow.Callee])
		}
	}
	return g
}

// WriteFlowGraph writes the argument flow graph to w in the graphviz format.
func (a *Analysis) WriteFlowGraph(w io.Writer) {
	g := a.FlowGraph()
	fmt.Fprintf(w, "digraph summaries {\n")
	for _, id := range g.Keys {
		fmt.Fprintf(w, "\t%q;\n", g.Label(id))
	}
	for _, id := range g.Keys {
		var targets []int64
		for e := range g.Edges[id] {
			targets = append(targets, e)
		}
		sort.Slice(targets, func(i, j int) bool { return targets[i] < targets[j] })
		for _, e := range targets {
			fmt.Fprintf(w, "\t%q -> %q;\n", g.Label(id), g.Label(e))
		}
	}
	fmt.Fprintf(w, "}\n")
}

// RecursionCycles returns the elementary cycles of the argument flow graph as
// sequences of function names. The first and last name of each cycle are
// equal. A function whose argument flows reach back into itself appears as a
// two-element cycle.
func (a *Analysis) RecursionCycles() [][]string {
	g := a.FlowGraph()
	cycles := graphutil.FindAllElementaryCycles(g)
	res := make([][]string, 0, len(cycles))
	for _, cycle := range cycles {
		names := make([]string, len(cycle))
		for i, id := range cycle {
			names[i] = g.Label(id)
		}
		res = append(res, names)
	}
	return res
}

// WriteUnresolved writes one line per use that forced a worst-case assumption,
// sorted by position, and returns the number of lines written. This is the
// precision report: each entry names an argument summarized as modified
// because an access to it could not be resolved.
func (a *Analysis) WriteUnresolved(w io.Writer) int {
	type line struct {
		pos  string
		text string
	}
	lines := make([]line, 0, len(a.unresolved))
	for _, u := range a.unresolved {
		pos := a.position(u.instr.Pos()).String()
		lines = append(lines, line{
			pos: pos,
			text: fmt.Sprintf("%s: %s of %s assumed modified by %s\n",
				pos,
				SlotName(u.fn, u.slot),
				formatutil.Sanitize(u.fn.RelString(nil)),
				formatutil.Sanitize(u.instr.String())),
		})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].pos < lines[j].pos })
	for _, l := range lines {
		io.WriteString(w, l.text)
	}
	return len(lines)
}
