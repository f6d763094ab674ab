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

// Package summaries defines predefined access facts for functions the
// analyses do not inspect, mostly standard library functions. Predefined
// rows keep the analyses from descending into the runtime and give precise
// answers for functions implemented in assembly or otherwise without a body.
package summaries

import (
	"strings"

	"github.com/awslabs/ar-go-access/analysis/lang"
	"golang.org/x/tools/go/ssa"
)

// Effect describes what a call does to the memory reachable from one of its
// parameters.
type Effect uint8

const (
	// NoEffect means the pointee is not touched through this parameter
	NoEffect Effect = iota
	// ReadsPointee means the pointee may be read but is not written
	ReadsPointee
	// MutatesPointee means the pointee may be written
	MutatesPointee
)

// AccessSummary is the predefined row of one function: the effect of a call
// on the memory reachable from each parameter, receiver first. Parameters
// beyond the row's length have no predefined effect and callers should
// assume the worst for them.
type AccessSummary struct {
	Params []Effect
}

// row builds a summary from the effects listed parameter by parameter.
func row(effects ...Effect) AccessSummary {
	return AccessSummary{Params: effects}
}

// IsStdPackage returns true if the input package is in the standard library or the runtime. The standard library
// is defined internally as the list of packages in summaries.stdAccess
//
// Returns false if the input is nil.
func IsStdPackage(pkg *ssa.Package) bool {
	if pkg == nil {
		return false
	}
	return IsStdPackageName(pkg.Pkg.Path())
}

// IsStdPackageName returns true if the package name is a standard library or runtime package name.
func IsStdPackageName(name string) bool {
	_, ok := stdAccess[name]
	return ok || strings.HasPrefix(name, "runtime")
}

// IsStdFunction returns true if the input function is a function from the standard library or the runtime.
//
// Returns false if the input is nil.
func IsStdFunction(function *ssa.Function) bool {
	if function == nil {
		return false
	}
	return IsStdPackageName(lang.PackageNameFromFunction(function))
}

// IsUserDefinedFunction returns true when function is a user-defined function. A function is considered
// to be user-defined if it is not in the standard library or in the runtime.
func IsUserDefinedFunction(function *ssa.Function) bool {
	if function == nil {
		return false
	}
	pkgKey := lang.PackageNameFromFunction(function)
	if pkgKey == "" {
		return false
	}
	return !IsStdPackageName(pkgKey)
}

// AccessOfFunc returns the predefined access row of function and true if function has one,
// otherwise an empty row and false.
//
// Returns (AccessSummary{}, false) if function is nil.
func AccessOfFunc(function *ssa.Function) (AccessSummary, bool) {
	if function == nil {
		return AccessSummary{}, false
	}
	return AccessOfName(lang.PackageNameFromFunction(function), function.String())
}

// AccessOfName returns the predefined access row of the function named qualified in package pkg.
// The qualified name is the one produced by (*ssa.Function).String(), e.g. "(*sync.Mutex).Lock".
func AccessOfName(pkg string, qualified string) (AccessSummary, bool) {
	if rows, ok := stdAccess[pkg]; ok {
		s, ok := rows[qualified]
		return s, ok
	}
	return AccessSummary{}, false
}
