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
	"testing"

	"github.com/awslabs/ar-go-access/analysis/summaries"
)

var allKinds = []AccessKind{NoAccess, Read, Modify}

func TestLeastUpperBound(t *testing.T) {
	cases := []struct {
		a, b, expected AccessKind
	}{
		{NoAccess, NoAccess, NoAccess},
		{NoAccess, Read, Read},
		{NoAccess, Modify, Modify},
		{Read, Read, Read},
		{Read, Modify, Modify},
		{Modify, Modify, Modify},
	}
	for _, c := range cases {
		if got := LeastUpperBound(c.a, c.b); got != c.expected {
			t.Errorf("join(%s, %s) = %s, expected %s", c.a, c.b, got, c.expected)
		}
		// the join is commutative
		if LeastUpperBound(c.a, c.b) != LeastUpperBound(c.b, c.a) {
			t.Errorf("join(%s, %s) is not commutative", c.a, c.b)
		}
	}
	for _, k := range allKinds {
		// idempotent, bottom is neutral, top absorbs
		if LeastUpperBound(k, k) != k {
			t.Errorf("join(%s, %s) should be %s", k, k, k)
		}
		if LeastUpperBound(k, NoAccess) != k {
			t.Errorf("joining with the bottom element changed %s", k)
		}
		if LeastUpperBound(k, Modify) != Modify {
			t.Errorf("joining %s with the top element is not the top element", k)
		}
	}
}

func TestAccessKindString(t *testing.T) {
	if NoAccess.String() != "none" || Read.String() != "read" || Modify.String() != "modify" {
		t.Errorf("unexpected kind strings: %s %s %s", NoAccess, Read, Modify)
	}
}

func TestKindOfEffect(t *testing.T) {
	cases := []struct {
		effect   summaries.Effect
		expected AccessKind
	}{
		{summaries.NoEffect, NoAccess},
		{summaries.ReadsPointee, Read},
		{summaries.MutatesPointee, Modify},
	}
	for _, c := range cases {
		if got := KindOfEffect(c.effect); got != c.expected {
			t.Errorf("KindOfEffect(%v) = %s, expected %s", c.effect, got, c.expected)
		}
	}
}

func TestArgumentSummaryMergeKindUpgradesOnly(t *testing.T) {
	var s ArgumentSummary
	if s.Accessed() {
		t.Errorf("zero summary should not count as accessed")
	}
	readPos := token.Pos(10)
	if !s.MergeKind(Read, readPos) {
		t.Errorf("merging read into bottom should change the summary")
	}
	if s.Kind() != Read || s.Pos() != readPos {
		t.Errorf("expected read at %v, got %s at %v", readPos, s.Kind(), s.Pos())
	}
	// merging a lower or equal kind changes nothing, including the witness
	if s.MergeKind(NoAccess, token.Pos(99)) || s.MergeKind(Read, token.Pos(99)) {
		t.Errorf("merging a non-exceeding kind should not change the summary")
	}
	if s.Pos() != readPos {
		t.Errorf("witness position moved to %v without an upgrade", s.Pos())
	}
	modifyPos := token.Pos(20)
	if !s.MergeKind(Modify, modifyPos) {
		t.Errorf("upgrading read to modify should change the summary")
	}
	if s.Kind() != Modify || s.Pos() != modifyPos {
		t.Errorf("expected modify at %v, got %s at %v", modifyPos, s.Kind(), s.Pos())
	}
	// merging is idempotent at the top
	if s.MergeKind(Modify, token.Pos(30)) {
		t.Errorf("merging modify into modify should not change the summary")
	}
}

func TestArgumentSummaryMergeWith(t *testing.T) {
	var caller, callee ArgumentSummary
	callee.MergeKind(Read, token.Pos(5))
	if !caller.MergeWith(callee) {
		t.Errorf("merging a read record into bottom should change the caller")
	}
	if caller.Kind() != Read || caller.Pos() != token.Pos(5) {
		t.Errorf("caller should take kind and witness from the callee record")
	}
	if caller.MergeWith(callee) {
		t.Errorf("merging the same record twice should be a no-op")
	}
}

func TestFunctionSummary(t *testing.T) {
	fs := NewFunctionSummary(3)
	if fs.ArgumentCount() != 3 {
		t.Fatalf("expected 3 slots, got %d", fs.ArgumentCount())
	}
	for i := 0; i < 3; i++ {
		if fs.SummaryFor(i).Accessed() {
			t.Errorf("slot %d of a fresh summary should be bottom", i)
		}
	}
	fs.at(1).MergeKind(Read, token.Pos(1))
	fs.at(2).MergeKind(Modify, token.Pos(2))
	if s := fs.String(); s != "[0: none, 1: read, 2: modify]" {
		t.Errorf("unexpected summary string %q", s)
	}
}

func TestFunctionSummaryIndexPanics(t *testing.T) {
	fs := NewFunctionSummary(1)
	defer func() {
		if recover() == nil {
			t.Errorf("expected a panic for an out-of-range slot index")
		}
	}()
	fs.SummaryFor(1)
}
