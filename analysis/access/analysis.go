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

	"github.com/awslabs/ar-go-access/analysis/config"
	"github.com/awslabs/ar-go-access/internal/indextrie"
	"golang.org/x/tools/go/ssa"
)

// unresolvedUse records one use that forced a summary slot to the top kind,
// for the precision report.
type unresolvedUse struct {
	fn    *ssa.Function
	instr ssa.Instruction
	slot  int
}

// Analysis is the façade of the access summary analysis. It owns the summary
// cache, the sub-path trie shared by all summaries, and the analysis state
// needed to build summaries on demand. An Analysis is not safe for concurrent
// use; like the rest of the analyses it is driven from a single goroutine.
type Analysis struct {
	program *ssa.Program
	cfg     *config.Config
	logger  *config.LogGroup

	// nodes caches one FunctionNode per summarized function
	nodes map[*ssa.Function]*FunctionNode

	// trie canonicalizes the projection paths of all summaries
	trie *indextrie.Node

	// nextID numbers nodes in creation order
	nextID uint32

	// unresolved accumulates the uses that cost precision
	unresolved []unresolvedUse
}

// NewAnalysis returns an analysis over program, configured by cfg and logging
// to logger.
func NewAnalysis(program *ssa.Program, cfg *config.Config, logger *config.LogGroup) *Analysis {
	return &Analysis{
		program: program,
		cfg:     cfg,
		logger:  logger,
		nodes:   make(map[*ssa.Function]*FunctionNode),
		trie:    indextrie.New(),
	}
}

// Program returns the program under analysis.
func (a *Analysis) Program() *ssa.Program { return a.program }

// SubPathTrieRoot returns the root of the trie canonicalizing projection
// paths. All paths handed out by the analysis belong to this trie until
// InvalidateAll replaces it.
func (a *Analysis) SubPathTrieRoot() *indextrie.Node { return a.trie }

// GetOrCreateSummary returns the settled access summary of fn, computing it
// and the summaries it depends on if they are not cached. Without an
// intervening invalidation, repeated calls return the same summary with the
// same contents.
func (a *Analysis) GetOrCreateSummary(fn *ssa.Function) *FunctionSummary {
	node := a.nodeFor(fn)
	if !node.settled {
		a.recompute(node)
	}
	return node.summary
}

// nodeFor returns the cached node of fn, creating it with a bottom summary on
// first demand.
func (a *Analysis) nodeFor(fn *ssa.Function) *FunctionNode {
	if node, ok := a.nodes[fn]; ok {
		return node
	}
	node := newFunctionNode(fn, a.nextID)
	a.nextID++
	a.nodes[fn] = node
	a.logger.Tracef("access: node #%d created for %s (%d slot(s))", node.id, fn, node.summary.ArgumentCount())
	return node
}

// Size returns the number of cached summaries.
func (a *Analysis) Size() int { return len(a.nodes) }

// Functions returns the functions with a cached summary, in no particular
// order.
func (a *Analysis) Functions() []*ssa.Function {
	fns := make([]*ssa.Function, 0, len(a.nodes))
	for fn := range a.nodes {
		fns = append(fns, fn)
	}
	return fns
}

// Invalidate drops the cached summary of fn together with the summaries of
// every transitive caller dependent, since those were computed from it.
// Invalidating a function that was never summarized does nothing. Summaries
// of pure callees of fn survive and are reused by later demands.
func (a *Analysis) Invalidate(fn *ssa.Function) {
	start, ok := a.nodes[fn]
	if !ok {
		return
	}
	removed := map[*FunctionNode]bool{start: true}
	worklist := []*FunctionNode{start}
	for len(worklist) > 0 {
		node := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		for caller := range node.callers {
			if !removed[caller] {
				removed[caller] = true
				worklist = append(worklist, caller)
			}
		}
	}
	for node := range removed {
		delete(a.nodes, node.fn)
		// detach from the caller sets of surviving callees
		for _, flow := range node.flows {
			delete(flow.Callee.callers, node)
		}
	}
	a.dropUnresolved()
	a.logger.Debugf("access: invalidated %s and %d dependent summaries", fn, len(removed)-1)
}

// InvalidateAll empties the cache and replaces the sub-path trie, releasing
// everything the analysis has built.
func (a *Analysis) InvalidateAll() {
	a.nodes = make(map[*ssa.Function]*FunctionNode)
	a.trie = indextrie.New()
	a.unresolved = nil
	a.logger.Debugf("access: invalidated all summaries")
}

// dropUnresolved forgets the precision records of functions no longer cached.
func (a *Analysis) dropUnresolved() {
	kept := a.unresolved[:0]
	for _, u := range a.unresolved {
		if _, ok := a.nodes[u.fn]; ok {
			kept = append(kept, u)
		}
	}
	a.unresolved = kept
}

// position resolves an SSA position against the program's file set.
func (a *Analysis) position(pos token.Pos) token.Position {
	return a.program.Fset.Position(pos)
}
