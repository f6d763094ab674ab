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

// Package analysistest contains utilities for testing the analyses on small
// programs supplied as source strings. Programs are parsed, type-checked and
// lifted to SSA form in memory, with no dependency on a module layout.
package analysistest

import (
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"regexp"
	"strings"
	"testing"

	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"
)

// BuildSSA parses and type-checks src as a single-file package and returns
// the SSA program and package built from it. Imported packages are loaded
// through the default importer, so only their declarations are available and
// none of their function bodies. Fails the test on any error.
func BuildSSA(t *testing.T, src string) (*ssa.Program, *ssa.Package) {
	t.Helper()
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "main.go", src, parser.ParseComments)
	if err != nil {
		t.Fatalf("error parsing program: %v", err)
	}
	files := []*ast.File{file}
	tc := &types.Config{Importer: importer.Default()}
	pkg, _, err := ssautil.BuildPackage(tc, fset, types.NewPackage("test/program", ""), files, ssa.SanityCheckFunctions)
	if err != nil {
		t.Fatalf("error building SSA: %v", err)
	}
	return pkg.Prog, pkg
}

// FindFunction returns the package-level function with the given name.
// Fails the test if the package has no such function.
func FindFunction(t *testing.T, pkg *ssa.Package, name string) *ssa.Function {
	t.Helper()
	fn := pkg.Func(name)
	if fn == nil {
		t.Fatalf("no function %q in package %s", name, pkg.Pkg.Path())
	}
	return fn
}

// FindClosure returns the i-th anonymous function defined inside the named
// package-level function. Fails the test if there is no such closure.
func FindClosure(t *testing.T, pkg *ssa.Package, name string, i int) *ssa.Function {
	t.Helper()
	parent := FindFunction(t, pkg, name)
	if i < 0 || i >= len(parent.AnonFuncs) {
		t.Fatalf("function %q has %d anonymous functions, wanted index %d", name, len(parent.AnonFuncs), i)
	}
	return parent.AnonFuncs[i]
}

// Match annotations of the form "// @Conflict" marking lines where an
// exclusivity violation is expected.
var ConflictRegex = regexp.MustCompile(`//\s*@Conflict`)

// ExpectedConflictLines scans src for @Conflict annotations and returns the
// set of 1-based line numbers carrying one.
func ExpectedConflictLines(src string) map[int]bool {
	expected := map[int]bool{}
	for i, line := range strings.Split(src, "\n") {
		if ConflictRegex.MatchString(line) {
			expected[i+1] = true
		}
	}
	return expected
}
