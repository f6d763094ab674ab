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
	"sort"

	"github.com/yourbasic/graph"
)

// FindAllElementaryCycles finds all elementary cycles in the graph fg.
// This uses Donald B. Johnson's algorithm presented in
// "Finding All The Elementary Circuits of a Directed Graph", 1975.
// Each cycle is returned as a node id sequence whose first and last
// elements are equal. Single-node loops are collected up front because
// the component decomposition below only considers components with at
// least two nodes.
//
//	fg : the graph with cycles
func FindAllElementaryCycles(fg *FlowGraph) [][]int64 {
	s := &state{
		blocked: map[int64]bool{},
		blist:   map[int64]map[int64]bool{},
		stack:   []int64{},
		cycles:  [][]int64{},
	}
	for _, id := range fg.Keys {
		if fg.Edges[id][id] {
			s.cycles = append(s.cycles, []int64{id, id})
		}
	}
	remaining := fg.Keys
	for len(remaining) > 0 {
		sub := Subgraph(fg, remaining)
		components := graph.StrongComponents(sub)
		// Pick the component holding the smallest remaining node.
		var component []int
		least := int64(-1)
		for _, c := range components {
			if len(c) < 2 {
				continue
			}
			sort.Ints(c)
			if least < 0 || int64(c[0]) < least {
				least = int64(c[0])
				component = c
			}
		}
		if component == nil {
			return s.cycles
		}
		// Every cycle through the least node stays inside its component.
		scc := make([]int64, len(component))
		for j, n := range component {
			scc[j] = int64(n)
		}
		s.stack = []int64{}
		s.blocked = map[int64]bool{}
		s.blist = map[int64]map[int64]bool{}
		s.circuit(least, least, Subgraph(fg, scc))
		// Nodes up to and including the least one are exhausted: any node
		// below it sits in a trivial component, and components only shrink.
		var next []int64
		for _, id := range remaining {
			if id > least {
				next = append(next, id)
			}
		}
		remaining = next
	}
	return s.cycles
}

type state struct {
	blocked map[int64]bool
	blist   map[int64]map[int64]bool
	stack   []int64
	cycles  [][]int64
}

func (s *state) unblock(u int64) {
	s.blocked[u] = false
	for w := range s.blist[u] {
		if s.blocked[w] {
			s.unblock(w)
		}
	}
}

func (s *state) circuit(v int64, i int64, g *FlowGraph) bool {
	f := false
	s.stack = append(s.stack, v)
	s.blocked[v] = true
	for w := range g.Edges[v] {
		if w == i {
			// A single-node stack means a self-loop, already recorded.
			if len(s.stack) > 1 {
				stackCopy := make([]int64, len(s.stack))
				copy(stackCopy, s.stack)
				stackCopy = append(stackCopy, w)
				s.cycles = append(s.cycles, stackCopy)
			}
			f = true
		} else if !s.blocked[w] {
			if s.circuit(w, i, g) {
				f = true
			}
		}
	}

	if f {
		s.unblock(v)
	} else {
		for w := range g.Edges[v] {
			m := s.blist[w]
			if m != nil {
				s.blist[w][v] = true
			} else {
				s.blist[w] = map[int64]bool{v: true}
			}
		}
	}
	s.stack = s.stack[:len(s.stack)-1]
	return f
}
