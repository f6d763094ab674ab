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

/*
The access package computes, for every analyzed function, a summary recording
how the function accesses the memory reachable from each of its address-taken
arguments and captures. An access is one of three kinds, ordered
NoAccess < Read < Modify, and each recorded kind carries the position of a
use witnessing it. The analysis also owns a shared projection-path trie
([Analysis.SubPathTrieRoot]) that gives identical field and index chains
identical node identity, so consumers can compare sub-paths of the same base
by pointer.

The entry point is an [Analysis], built from an SSA program together with a
configuration and a logger:

	state := access.NewAnalysis(program, cfg, config.NewLogGroup(cfg))

Summaries are computed on demand. [Analysis.GetOrCreateSummary] classifies the
uses of the arguments of the requested function, discovers its callees, and
runs a bottom-up fixpoint over the strongly connected components of the
discovered call structure, so mutually recursive functions converge to a
stable summary:

	summary := state.GetOrCreateSummary(fn)
	kind := summary.SummaryFor(access.ParamSlot(fn, 0)).Kind()

Summary slots index the free variables of the function first and its
parameters after them, so closures and ordinary functions share one summary
shape.

Computed summaries are cached and reused across demands. When a function
changes, [Analysis.Invalidate] evicts its summary along with the summary of
every transitive caller, since those were computed from the stale callee
information. [Analysis.InvalidateAll] resets the whole cache.

Call sites whose callee cannot be resolved, and argument values that escape
through stores the classifier does not track, force the worst assumption
(Modify at the argument root). [Analysis.WriteUnresolved] reports those
program points, which is where the analysis loses precision.

An [Analysis] is not safe for concurrent use. Pipelines that analyze in
parallel must give each goroutine its own instance.
*/
package access
