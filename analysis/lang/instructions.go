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

// Package lang provides functions to operate on the SSA representation of a program.
package lang

import (
	"fmt"

	"golang.org/x/tools/go/ssa"
)

// GetArgs returns the arguments of a function call including the receiver when the function called is a method.
// More precisely, it returns instr.Common().Args, but prepends instr.Common().Value if the call is "invoke" mode.
func GetArgs(instr ssa.CallInstruction) []ssa.Value {
	var args []ssa.Value
	if instr.Common().IsInvoke() {
		args = append(args, instr.Common().Value)
	}
	args = append(args, instr.Common().Args...)
	return args
}

// FmtInstr returns a string formatting instr to show the instruction type and operands.
// This is used mostly for debugging.
func FmtInstr(instr ssa.Instruction) string {
	switch instr := instr.(type) {
	case *ssa.FieldAddr:
		return fmt.Sprintf("[%v = %v (%T)]", instr.Name(), instr, instr)
	case *ssa.Store:
		return fmt.Sprintf("[*%v = %v (%T)]", instr.Addr.Name(), instr.Val.Name(), instr)
	case *ssa.UnOp:
		return fmt.Sprintf("[%v = %v%v (%T)]", instr.Name(), instr.Op, instr.X.Name(), instr)
	default:
		return fmt.Sprintf("[%v (%T)]", instr.String(), instr)
	}
}
