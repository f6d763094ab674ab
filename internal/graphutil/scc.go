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

// StronglyConnectedComponents is an implementation of Tarjan's strongly connected component (SCC) algorithm
// for generic nodes T. The traversal is iterative, so deeply nested graphs do not consume call stack.
// successors returns a slice containing the targets of directed edges out from the given node; nodes reachable
// from the input nodes are included even when they are not listed in nodes.
// sccs is a slice of slices containing the nodes in each SCC. The order within each SCC is arbitrary.
// The order of SCCs is toposorted so that successors appear first; i.e. if the graph is a tree then
// in order from leaves towards the root. For summary-based bottom-up algorithms, the result is in
// the desired order to minimize recomputation.
func StronglyConnectedComponents[T comparable](nodes []T, successors func(T) []T) (sccs [][]T) {
	type frame struct {
		node T
		succ []T
		next int
	}

	stack := make([]T, 0, len(nodes))
	onStack := make(map[T]bool, len(nodes))
	index := make(map[T]int, len(nodes))
	lowlink := make(map[T]int, len(nodes))
	nextIndex := 0
	sccs = make([][]T, 0)

	var frames []frame

	open := func(v T) {
		index[v] = nextIndex
		lowlink[v] = nextIndex
		nextIndex++
		stack = append(stack, v)
		onStack[v] = true
		frames = append(frames, frame{node: v, succ: successors(v)})
	}

	for _, root := range nodes {
		if _, visited := index[root]; visited {
			continue
		}
		open(root)
		for len(frames) > 0 {
			f := &frames[len(frames)-1]
			descended := false
			for f.next < len(f.succ) {
				w := f.succ[f.next]
				f.next++
				if _, visited := index[w]; !visited {
					// open invalidates f by growing frames
					open(w)
					descended = true
					break
				}
				if onStack[w] && index[w] < lowlink[f.node] {
					lowlink[f.node] = index[w]
				}
			}
			if descended {
				continue
			}
			v := f.node
			frames = frames[:len(frames)-1]
			if lowlink[v] == index[v] {
				scc := make([]T, 0, 1)
				for {
					w := stack[len(stack)-1]
					stack = stack[:len(stack)-1]
					onStack[w] = false
					scc = append(scc, w)
					if w == v {
						break
					}
				}
				sccs = append(sccs, scc)
			}
			if len(frames) > 0 {
				parent := &frames[len(frames)-1]
				if lowlink[v] < lowlink[parent.node] {
					lowlink[parent.node] = lowlink[v]
				}
			}
		}
	}
	return sccs
}
