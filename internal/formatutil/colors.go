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

// Package formatutil decorates terminal output and sanitizes strings that
// end up in logs or reports.
package formatutil

import (
	"fmt"
	"strconv"

	"golang.org/x/term"
)

const reset = "\033[0m"

// styled returns a function rendering its arguments wrapped in the given ANSI
// escape code. The wrapping is skipped when stdout is not a terminal, so
// redirected output stays plain.
func styled(code string) func(...any) string {
	return func(args ...any) string {
		s := fmt.Sprint(args...)
		if !term.IsTerminal(1) {
			return s
		}
		return code + s + reset
	}
}

var (
	Bold   = styled("\033[1m")
	Faint  = styled("\033[2m")
	Red    = styled("\033[1;31m")
	Green  = styled("\033[1;32m")
	Yellow = styled("\033[1;33m")
)

// Sanitize escapes control characters and other non-printables so that
// attacker-chosen names cannot smuggle escape sequences into the logs.
func Sanitize(s string) string {
	q := strconv.Quote(s)
	return q[1 : len(q)-1]
}
