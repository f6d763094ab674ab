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

// Package refactor implements source rewriting operations. The rewrites are
// comment-level: sources are parsed with their decorations, modified and
// printed back, leaving the formatting of untouched lines intact.
package refactor

import (
	"bytes"
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/awslabs/ar-go-access/analysis"
	"github.com/awslabs/ar-go-access/analysis/config"
	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
	"github.com/dave/dst/dstutil"
)

// IgnoreComment is the directive comment appended to a suppressed line.
const IgnoreComment = "//argax:" + string(analysis.DirectiveIgnore)

// A Rewrite records the modifications applied to one file.
type Rewrite struct {
	// Filename is the path of the modified file.
	Filename string
	// Lines are the lines an ignore directive was appended to, sorted.
	Lines []int
}

// SuppressLines appends an ignore directive to the statement starting at each
// of the given positions and writes the modified files back in place. Lines
// that already carry a directive are left alone, and positions that do not
// point at a statement are reported through the logger. Returns one Rewrite
// per modified file, sorted by filename.
func SuppressLines(logger *config.LogGroup, positions []token.Position) ([]Rewrite, error) {
	pending := make(map[string]map[int]bool)
	for _, pos := range positions {
		if !pos.IsValid() {
			continue
		}
		if pending[pos.Filename] == nil {
			pending[pos.Filename] = make(map[int]bool)
		}
		pending[pos.Filename][pos.Line] = true
	}

	filenames := make([]string, 0, len(pending))
	for filename := range pending {
		filenames = append(filenames, filename)
	}
	sort.Strings(filenames)

	var rewrites []Rewrite
	for _, filename := range filenames {
		rewrite, err := suppressFile(filename, pending[filename])
		if err != nil {
			return rewrites, err
		}
		for line := range pending[filename] {
			logger.Warnf("no statement found at %s:%d, line not suppressed", filename, line)
		}
		if len(rewrite.Lines) > 0 {
			logger.Infof("suppressed %d line(s) in %s", len(rewrite.Lines), filename)
			rewrites = append(rewrites, rewrite)
		}
	}
	return rewrites, nil
}

// suppressFile rewrites a single file, removing every annotated line from
// lines. Lines left in the map had no statement to attach a directive to.
func suppressFile(filename string, lines map[int]bool) (Rewrite, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return Rewrite{}, fmt.Errorf("failed to read %s: %v", filename, err)
	}

	fset := token.NewFileSet()
	astFile, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return Rewrite{}, fmt.Errorf("failed to parse %s: %v", filename, err)
	}

	// The decorator tracks the mapping between ast and dst nodes. No type
	// information is needed to move comments around.
	dec := decorator.NewDecorator(fset)
	file, err := dec.DecorateFile(astFile)
	if err != nil {
		return Rewrite{}, fmt.Errorf("failed to decorate %s: %v", filename, err)
	}

	annotated := annotateStatements(dec, fset, file, lines)
	if len(annotated) == 0 {
		return Rewrite{Filename: filename}, nil
	}

	var buf bytes.Buffer
	if err := decorator.Fprint(&buf, file); err != nil {
		return Rewrite{}, fmt.Errorf("failed to print %s: %v", filename, err)
	}

	mode := fs.FileMode(0644)
	if info, err := os.Stat(filename); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(filename, buf.Bytes(), mode); err != nil {
		return Rewrite{}, fmt.Errorf("failed to write %s: %v", filename, err)
	}

	sort.Ints(annotated)
	return Rewrite{Filename: filename, Lines: annotated}, nil
}

// annotateStatements walks the file and appends the ignore directive to the
// end-of-line decorations of the outermost statement starting on each
// requested line. Annotated lines are removed from lines.
func annotateStatements(dec *decorator.Decorator, fset *token.FileSet, file *dst.File, lines map[int]bool) []int {
	var annotated []int
	dstutil.Apply(file, func(c *dstutil.Cursor) bool {
		if len(lines) == 0 {
			return false
		}
		stmt, ok := c.Node().(dst.Stmt)
		if !ok {
			return true
		}
		astNode, ok := dec.Ast.Nodes[stmt]
		if !ok {
			return true
		}
		line := fset.Position(astNode.Pos()).Line
		if !lines[line] {
			return true
		}
		delete(lines, line)
		decs := stmt.Decorations()
		for _, s := range decs.End.All() {
			if strings.Contains(s, "argax:") {
				return true
			}
		}
		decs.End.Append(IgnoreComment)
		annotated = append(annotated, line)
		return true
	}, nil)
	return annotated
}
