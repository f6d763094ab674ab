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

package analysis

import (
	"go/ast"
	"go/parser"
	"go/token"
	"testing"
)

func TestNewDirective(t *testing.T) {
	tests := []struct {
		text string
		want DirectiveKind
		ok   bool
	}{
		{"//argax:ignore", DirectiveIgnore, true},
		{"// argax:ignore", DirectiveIgnore, true},
		{"//argax:nonsense", "", false},
		{"//argax:", "", false},
		{"// just a comment", "", false},
		{"//lint:ignore", "", false},
	}
	for _, test := range tests {
		d, ok := NewDirective(&ast.Comment{Text: test.text})
		if ok != test.ok {
			t.Errorf("NewDirective(%q) ok = %v, want %v", test.text, ok, test.ok)
			continue
		}
		if ok && d.Kind != test.want {
			t.Errorf("NewDirective(%q) kind = %q, want %q", test.text, d.Kind, test.want)
		}
	}
}

const directiveSrc = `package sample

func noisy() {
	println("checked")
	println("skipped") //argax:ignore
}

//argax:ignore
func quiet() {
	println("also checked")
}
`

func TestFindDirectives(t *testing.T) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "sample.go", directiveSrc, parser.ParseComments)
	if err != nil {
		t.Fatalf("failed to parse source: %s", err)
	}
	pkgs := map[string]*ast.Package{
		"sample": {Name: "sample", Files: map[string]*ast.File{"sample.go": f}},
	}

	directives := FindDirectives(pkgs, fset)
	if len(directives) != 2 {
		t.Fatalf("expected 2 directives, got %d", len(directives))
	}
	for _, line := range []int{5, 8} {
		d, ok := directives[DirectivePos{Filename: "sample.go", Line: line}]
		if !ok {
			t.Errorf("expected a directive on line %d", line)
			continue
		}
		if d.Kind != DirectiveIgnore {
			t.Errorf("directive on line %d has kind %q, want %q", line, d.Kind, DirectiveIgnore)
		}
		if d.Comment == nil {
			t.Errorf("directive on line %d has no comment", line)
		}
	}
	if _, ok := directives[DirectivePos{Filename: "sample.go", Line: 4}]; ok {
		t.Errorf("line 4 has no directive comment and should not be in the map")
	}
}

func TestNewDirectivePos(t *testing.T) {
	pos := NewDirectivePos(token.Position{Filename: "x.go", Line: 12, Column: 3, Offset: 120})
	if pos.Filename != "x.go" || pos.Line != 12 {
		t.Errorf("unexpected position %+v", pos)
	}
	// Column and offset are dropped so positions on the same line compare equal.
	other := NewDirectivePos(token.Position{Filename: "x.go", Line: 12, Column: 40, Offset: 157})
	if pos != other {
		t.Errorf("positions on the same line should be equal: %+v vs %+v", pos, other)
	}
}
