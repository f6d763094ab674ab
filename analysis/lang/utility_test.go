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

package lang

import (
	"testing"

	"github.com/awslabs/ar-go-access/internal/analysistest"
	"golang.org/x/tools/go/ssa"
)

const utilityTestProgram = `
package main

import "sync"

type T struct {
	x int
	y string
}

type Speaker interface {
	Speak() string
}

type dog struct{ sound string }

func (d *dog) Speak() string { return d.sound }

func setX(t *T, v int) {
	t.x = v
}

func lockIt(mu *sync.Mutex) {
	mu.Lock()
}

func speakTwice(s Speaker) string {
	return s.Speak() + s.Speak()
}

func main() {
	t := &T{}
	setX(t, 1)
	mu := &sync.Mutex{}
	lockIt(mu)
	d := &dog{sound: "woof"}
	_ = speakTwice(d)
}
`

func findCalls(fn *ssa.Function) []ssa.CallInstruction {
	var calls []ssa.CallInstruction
	IterateInstructions(fn, func(_ int, instr ssa.Instruction) {
		if call, ok := instr.(ssa.CallInstruction); ok {
			calls = append(calls, call)
		}
	})
	return calls
}

func TestPackageNameFromFunction(t *testing.T) {
	_, pkg := analysistest.BuildSSA(t, utilityTestProgram)
	setX := analysistest.FindFunction(t, pkg, "setX")
	if name := PackageNameFromFunction(setX); name != "test/program" {
		t.Errorf("expected package test/program for setX, got %q", name)
	}
	if name := PackageNameFromFunction(nil); name != "" {
		t.Errorf("expected empty package name for nil function, got %q", name)
	}
	lockIt := analysistest.FindFunction(t, pkg, "lockIt")
	calls := findCalls(lockIt)
	if len(calls) != 1 {
		t.Fatalf("expected one call in lockIt, got %d", len(calls))
	}
	callee := calls[0].Common().StaticCallee()
	if callee == nil {
		t.Fatalf("expected static callee for mu.Lock()")
	}
	if name := PackageNameFromFunction(callee); name != "sync" {
		t.Errorf("expected package sync for callee, got %q", name)
	}
	if !IsExternal(callee) {
		t.Errorf("imported function %s should be external", callee)
	}
	if IsExternal(setX) {
		t.Errorf("function %s built from source should not be external", setX)
	}
}

func TestPackageFromErrorName(t *testing.T) {
	cases := []struct {
		name     string
		expected string
	}{
		{"(*net/http.requestBodyReadError).Error", "net/http"},
		{"(encoding/json.jsonError).Error", "encoding/json"},
		{"(*github.com/aws/aws-sdk-go/aws/endpoints.EndpointNotFoundError).Error", "github.com/aws/aws-sdk-go/aws/endpoints"},
		{"notAnError", ""},
		{"(T).String", ""},
	}
	for _, c := range cases {
		if actual := packageFromErrorName(c.name); actual != c.expected {
			t.Errorf("packageFromErrorName(%q) = %q, expected %q", c.name, actual, c.expected)
		}
	}
}

func TestGetArgsIncludesInvokeReceiver(t *testing.T) {
	_, pkg := analysistest.BuildSSA(t, utilityTestProgram)
	speakTwice := analysistest.FindFunction(t, pkg, "speakTwice")
	calls := findCalls(speakTwice)
	if len(calls) != 2 {
		t.Fatalf("expected two calls in speakTwice, got %d", len(calls))
	}
	for _, call := range calls {
		if !call.Common().IsInvoke() {
			t.Fatalf("expected invoke-mode call, got %s", call)
		}
		args := GetArgs(call)
		if len(args) != 1 {
			t.Fatalf("expected one argument including receiver, got %d", len(args))
		}
		if args[0] != speakTwice.Params[0] {
			t.Errorf("expected receiver argument to be the parameter, got %v", args[0])
		}
	}
}

func TestFieldAddrFieldName(t *testing.T) {
	_, pkg := analysistest.BuildSSA(t, utilityTestProgram)
	setX := analysistest.FindFunction(t, pkg, "setX")
	var fieldAddrs []*ssa.FieldAddr
	IterateInstructions(setX, func(_ int, instr ssa.Instruction) {
		if fa, ok := instr.(*ssa.FieldAddr); ok {
			fieldAddrs = append(fieldAddrs, fa)
		}
	})
	if len(fieldAddrs) != 1 {
		t.Fatalf("expected one field address in setX, got %d", len(fieldAddrs))
	}
	if name := FieldAddrFieldName(fieldAddrs[0]); name != "x" {
		t.Errorf("expected field name x, got %q", name)
	}
}
