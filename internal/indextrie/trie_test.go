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

package indextrie

import "testing"

func TestChildIsCanonical(t *testing.T) {
	root := New()
	a := root.Child(0).Child(2)
	b := root.Child(0).Child(2)
	if a != b {
		t.Errorf("same index sequence returned distinct nodes: %p != %p", a, b)
	}
	if c := root.Child(0).Child(3); c == a {
		t.Errorf("distinct index sequences returned the same node")
	}
	if root.Child(0).Child(2) == root.Child(2).Child(0) {
		t.Errorf("index order was ignored: reversed sequences returned the same node")
	}
}

func TestRootProperties(t *testing.T) {
	root := New()
	if !root.IsRoot() || root.Parent() != nil {
		t.Errorf("fresh root is not a root")
	}
	if root.Index() != RootIndex {
		t.Errorf("root index is %d, expected %d", root.Index(), RootIndex)
	}
	if root.Depth() != 0 {
		t.Errorf("root depth is %d, expected 0", root.Depth())
	}
	if s := root.String(); s != "" {
		t.Errorf("root renders as %q, expected empty", s)
	}
}

func TestDepthAndString(t *testing.T) {
	n := New().Child(1).Child(0).Child(4)
	if n.Depth() != 3 {
		t.Errorf("depth is %d, expected 3", n.Depth())
	}
	if s := n.String(); s != ".1.0.4" {
		t.Errorf("path renders as %q, expected .1.0.4", s)
	}
}

func TestIsPrefixOf(t *testing.T) {
	root := New()
	parent := root.Child(2)
	child := parent.Child(5)
	sibling := parent.Child(6)

	if !parent.IsPrefixOf(parent) {
		t.Errorf("prefix relation is not reflexive")
	}
	if !root.IsPrefixOf(child) || !parent.IsPrefixOf(child) {
		t.Errorf("ancestors are not prefixes of descendants")
	}
	if child.IsPrefixOf(parent) {
		t.Errorf("descendant reported as prefix of ancestor")
	}
	if sibling.IsPrefixOf(child) || child.IsPrefixOf(sibling) {
		t.Errorf("siblings reported as prefixes of each other")
	}
}

func TestOverlaps(t *testing.T) {
	root := New()
	whole := root
	field := root.Child(0)
	other := root.Child(1)
	if !whole.Overlaps(field) || !field.Overlaps(whole) {
		t.Errorf("object does not overlap its own projection")
	}
	if field.Overlaps(other) {
		t.Errorf("disjoint fields reported as overlapping")
	}
}

func TestDistinctTriesDoNotAlias(t *testing.T) {
	a := New().Child(3)
	b := New().Child(3)
	if a == b {
		t.Errorf("nodes of distinct tries are identical")
	}
	if a.IsPrefixOf(b) || b.IsPrefixOf(a) {
		t.Errorf("nodes of distinct tries are related by prefix")
	}
}
