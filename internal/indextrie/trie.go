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

// Package indextrie implements a trie over integer projection indices.
// A node canonicalizes the sub-path obtained by applying its indices in order
// from the root: two walks that apply the same sequence of indices to the same
// root yield the same *Node, so sub-path equality is pointer equality and
// prefix queries are parent-chain walks.
package indextrie

import "strconv"

// RootIndex is the index reported by root nodes, which correspond to the
// object itself rather than any projection of it.
const RootIndex = -1

// Node is a node of an index trie. Nodes are created through New and Child
// only; the zero value is not usable.
type Node struct {
	parent   *Node
	index    int
	children map[int]*Node
}

// New returns the root of a fresh trie.
func New() *Node {
	return &Node{parent: nil, index: RootIndex}
}

// Child returns the child of n for index idx, allocating it on first use.
// Successive calls with equal indices return the same node.
func (n *Node) Child(idx int) *Node {
	if c, ok := n.children[idx]; ok {
		return c
	}
	if n.children == nil {
		n.children = make(map[int]*Node, 4)
	}
	c := &Node{parent: n, index: idx}
	n.children[idx] = c
	return c
}

// Index returns the projection index of n, RootIndex for roots.
func (n *Node) Index() int { return n.index }

// Parent returns the parent of n, nil for roots.
func (n *Node) Parent() *Node { return n.parent }

// IsRoot reports whether n is the root of its trie.
func (n *Node) IsRoot() bool { return n.parent == nil }

// Depth returns the number of projections applied between the root and n.
func (n *Node) Depth() int {
	d := 0
	for p := n; p.parent != nil; p = p.parent {
		d++
	}
	return d
}

// IsPrefixOf reports whether n lies on the path from the root to other,
// other included. Nodes of distinct tries are never prefixes of each other.
func (n *Node) IsPrefixOf(other *Node) bool {
	for p := other; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

// Overlaps reports whether one of n, other is a prefix of the other, that is,
// whether the memory they denote relative to a common base can intersect.
func (n *Node) Overlaps(other *Node) bool {
	return n.IsPrefixOf(other) || other.IsPrefixOf(n)
}

// String renders the path of n from the root, e.g. ".1.0" for index 1 then
// index 0. Roots render as the empty string.
func (n *Node) String() string {
	if n.parent == nil {
		return ""
	}
	return n.parent.String() + "." + strconv.Itoa(n.index)
}
