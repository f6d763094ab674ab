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
	"go/token"

	"github.com/awslabs/ar-go-access/analysis/summaries"
)

// AccessKind ranks how a function may touch the memory reachable from one of
// its address-carrying formals. The kinds form a three-point chain
// NoAccess < Read < Modify; joining two kinds keeps the larger one.
type AccessKind uint8

const (
	// NoAccess means no use of the formal's memory was observed. It is the
	// bottom of the lattice and the initial value of every summary.
	NoAccess AccessKind = iota
	// Read means the memory may be loaded from but is never written.
	Read
	// Modify means the memory may be written, or escapes to code whose
	// behavior the analysis cannot see. It is the top of the lattice.
	Modify
)

func (k AccessKind) String() string {
	switch k {
	case NoAccess:
		return "none"
	case Read:
		return "read"
	case Modify:
		return "modify"
	default:
		return fmt.Sprintf("AccessKind(%d)", uint8(k))
	}
}

// LeastUpperBound returns the join of a and b in the access ordering.
func LeastUpperBound(a, b AccessKind) AccessKind {
	if a < b {
		return b
	}
	return a
}

// KindOfEffect translates a predefined effect row entry into the access kind
// it implies for the pointee.
func KindOfEffect(e summaries.Effect) AccessKind {
	switch e {
	case summaries.ReadsPointee:
		return Read
	case summaries.MutatesPointee:
		return Modify
	default:
		return NoAccess
	}
}

// ArgumentSummary is the per-argument element of a function summary: the
// strongest access kind observed so far together with the position of a use
// witnessing it. The zero value is the bottom element (no access, no
// position).
type ArgumentSummary struct {
	kind AccessKind
	pos  token.Pos
}

// Kind returns the access kind recorded for the argument.
func (s ArgumentSummary) Kind() AccessKind { return s.kind }

// Pos returns the position of a use witnessing the recorded kind, token.NoPos
// while the summary is still bottom.
func (s ArgumentSummary) Pos() token.Pos { return s.pos }

// Accessed reports whether any access was recorded.
func (s ArgumentSummary) Accessed() bool { return s.kind != NoAccess }

// MergeKind joins kind k, witnessed at pos, into the summary. It returns true
// if the summary changed. The merge only ever upgrades: joining a kind that
// does not exceed the current one leaves the summary, including its witness
// position, untouched, so merging is idempotent and insensitive to use order.
func (s *ArgumentSummary) MergeKind(k AccessKind, pos token.Pos) bool {
	if k <= s.kind {
		return false
	}
	s.kind = k
	s.pos = pos
	return true
}

// MergeWith joins another argument summary into s, returning true if s
// changed. This is the propagation step of the interprocedural fixpoint: the
// callee's record for an argument is folded into the caller's record for the
// value it passed.
func (s *ArgumentSummary) MergeWith(other ArgumentSummary) bool {
	return s.MergeKind(other.kind, other.pos)
}

func (s ArgumentSummary) String() string {
	return s.kind.String()
}

// FunctionSummary records one ArgumentSummary per address-carrying slot of a
// function. Slots are indexed with free variables first and parameters after
// them, so a function with n free variables stores Params[i] at index n+i.
// The length is fixed when the summary is allocated and never changes.
type FunctionSummary struct {
	args []ArgumentSummary
}

// NewFunctionSummary returns a bottom summary with argCount slots.
func NewFunctionSummary(argCount int) *FunctionSummary {
	return &FunctionSummary{args: make([]ArgumentSummary, argCount)}
}

// ArgumentCount returns the fixed number of slots of the summary.
func (fs *FunctionSummary) ArgumentCount() int { return len(fs.args) }

// SummaryFor returns the summary of the slot at index i. An index outside the
// fixed slot range is a defect in the caller, not a recoverable condition.
func (fs *FunctionSummary) SummaryFor(i int) ArgumentSummary {
	if i < 0 || i >= len(fs.args) {
		panic(fmt.Sprintf("access: argument index %d outside summary of length %d", i, len(fs.args)))
	}
	return fs.args[i]
}

// at returns the addressable slot at index i for merging.
func (fs *FunctionSummary) at(i int) *ArgumentSummary {
	if i < 0 || i >= len(fs.args) {
		panic(fmt.Sprintf("access: argument index %d outside summary of length %d", i, len(fs.args)))
	}
	return &fs.args[i]
}

func (fs *FunctionSummary) String() string {
	s := "["
	for i, a := range fs.args {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%d: %s", i, a.String())
	}
	return s + "]"
}
