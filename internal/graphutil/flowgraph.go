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

package graphutil

import (
	"gonum.org/v1/gonum/graph"
)

// FlowGraph is an abstraction over a directed graph with dense integer node
// ids and string labels, built to work with existing graph libraries. It
// implements the methods to satisfy yourbasic's graph.Iterator and Gonum's
// graph.Graph. Node ids run from 0 to Order()-1.
type FlowGraph struct {
	// The order of the graph
	order int

	// labels maps node ids to display labels
	labels map[int64]string

	// Keys are all the node ids present in this (sub)graph, sorted
	Keys []int64

	// Edges is an adjacency matrix: Edges[x][y] means there is a directed edge from x to y
	Edges map[int64]map[int64]bool
}

// NewFlowGraph returns a graph with one node per label and no edges. The node
// with id i carries labels[i].
func NewFlowGraph(labels []string) *FlowGraph {
	n := len(labels)
	labelMap := make(map[int64]string, n)
	edges := make(map[int64]map[int64]bool, n)
	keys := make([]int64, n)
	for i, label := range labels {
		keys[i] = int64(i)
		labelMap[int64(i)] = label
		edges[int64(i)] = map[int64]bool{}
	}
	return &FlowGraph{
		order:  n,
		labels: labelMap,
		Keys:   keys,
		Edges:  edges,
	}
}

// AddEdge adds the directed edge from id from to id to. Adding an edge twice
// or between unknown ids does nothing.
func (g *FlowGraph) AddEdge(from int, to int) {
	if e, ok := g.Edges[int64(from)]; ok {
		if _, ok := g.labels[int64(to)]; ok {
			e[int64(to)] = true
		}
	}
}

// Label returns the label of the node with the given id.
func (g *FlowGraph) Label(id int64) string {
	return g.labels[id]
}

// Subgraph returns a new graph that is the original graph with only the nodes in include. Only the edges that have
// both the origin and destination nodes in the include nodes are kept in the resulting graph.
// The subgraph's order and labels are the same as in the original, meaning that node ids stay consistent
// across subgraphs.
func Subgraph(original *FlowGraph, include []int64) *FlowGraph {
	member := make(map[int64]bool, len(include))
	edges := make(map[int64]map[int64]bool, len(include))
	keys := make([]int64, len(include))

	for j, i := range include {
		keys[j] = i
		member[i] = true
	}

	for _, i := range include {
		edges[i] = map[int64]bool{}
		for e := range original.Edges[i] {
			if member[e] {
				edges[i][e] = true
			}
		}
	}

	return &FlowGraph{
		order:  original.Order(),
		labels: original.labels,
		Keys:   keys,
		Edges:  edges,
	}
}

// Order implements the order of the graph.Iterator interface for the FlowGraph
func (g *FlowGraph) Order() int {
	return g.order
}

// Visit implements the graph.Iterator interface for the FlowGraph
func (g *FlowGraph) Visit(v int, do func(w int, c int64) (skip bool)) (aborted bool) {
	for w := range g.Edges[int64(v)] {
		if do(int(w), 1) {
			return true
		}
	}
	return false
}

// *************** Graph interface implementation **********************

// Node implements the Graph interface
func (g *FlowGraph) Node(v int64) graph.Node {
	if label, ok := g.labels[v]; ok {
		return FNode{id: v, label: label}
	}
	return nil
}

// Nodes returns the set of nodes in the graph
func (g *FlowGraph) Nodes() graph.Nodes {
	return &NodeSet{graph: g, ids: g.Keys, cur: -1}
}

// From returns the set of nodes reachable from the id in one edge
func (g *FlowGraph) From(id int64) graph.Nodes {
	var keys []int64
	for out := range g.Edges[id] {
		keys = append(keys, out)
	}
	return &NodeSet{graph: g, ids: keys, cur: -1}
}

// HasEdgeBetween returns a boolean indicating whether an edge exists between the two node identifiers
func (g *FlowGraph) HasEdgeBetween(xid, yid int64) bool {
	return g.Edges[xid][yid] || g.Edges[yid][xid]
}

// Edge returns the edge between the two identifiers (nil if none exists)
func (g *FlowGraph) Edge(uid, vid int64) graph.Edge {
	if g.Edges[uid][vid] {
		return FEdge{
			from: FNode{id: uid, label: g.labels[uid]},
			to:   FNode{id: vid, label: g.labels[vid]},
		}
	}
	return nil
}

// *************** Nodes implementation **********************

// FNode is a labeled node that implements the graph.Node interface
type FNode struct {
	id    int64
	label string
}

// ID returns the id of the node
func (n FNode) ID() int64 {
	return n.id
}

func (n FNode) String() string {
	return n.label
}

// NodeSet implements the graph.Nodes interface, an iterator over a set of nodes
type NodeSet struct {
	// graph is the graph the nodes belong to
	graph *FlowGraph

	// ids is the set of node ids in the iterator
	ids []int64

	// cur is the index of the current node; -1 before the first call to Next
	cur int
}

// Next moves the iterator to the next node and returns true if such a node exists. Otherwise, returns false
// and the current node is unchanged.
func (ns *NodeSet) Next() bool {
	if ns.cur < len(ns.ids)-1 {
		ns.cur++
		return true
	}
	return false
}

// Len returns the number of remaining nodes in the set
func (ns *NodeSet) Len() int {
	return len(ns.ids) - (ns.cur + 1)
}

// Reset rewinds the iterator to before the first node
func (ns *NodeSet) Reset() {
	ns.cur = -1
}

// Node returns the current node in the set
func (ns *NodeSet) Node() graph.Node {
	if ns.cur < 0 || ns.cur >= len(ns.ids) {
		return nil
	}
	id := ns.ids[ns.cur]
	return FNode{id: id, label: ns.graph.labels[id]}
}

// *************** Edge implementation **********************

// FEdge implements the graph.Edge interface
type FEdge struct {
	from FNode
	to   FNode
}

// From returns the origin of the edge
func (e FEdge) From() graph.Node {
	return e.from
}

// To returns the destination of the edge
func (e FEdge) To() graph.Node {
	return e.to
}

// ReversedEdge returns a new value representing the reversed edge
func (e FEdge) ReversedEdge() graph.Edge {
	return FEdge{from: e.to, to: e.from}
}
