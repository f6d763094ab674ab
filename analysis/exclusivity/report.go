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

package exclusivity

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/awslabs/ar-go-access/analysis/config"
	"github.com/awslabs/ar-go-access/internal/formatutil"
)

// Report logs every finding of the result, one block per conflict, and a
// green all-clear when there is none. It returns the number of conflicts.
func Report(logger *config.LogGroup, result Result) int {
	if len(result.Conflicts) == 0 {
		logger.Infof("RESULT:\n\t\t%s", formatutil.Green("No exclusivity conflicts detected ✓")) // safe %s
		return 0
	}
	for _, conflict := range result.Conflicts {
		logger.Errorf("%s in %s:\n\tFirst:  %s\n\tSecond: %s\n\t%s",
			formatutil.Red("Conflicting accesses to overlapping memory"),
			formatutil.Sanitize(conflict.Fn.RelString(nil)),
			formatutil.Sanitize(conflict.First.String()),
			formatutil.Sanitize(conflict.Second.String()),
			conflict.Pos.String(), // safe %s (position string)
		)
	}
	logger.Errorf("RESULT:\n\t\t%s", formatutil.Red(fmt.Sprintf("%d exclusivity conflict(s) detected!", len(result.Conflicts))))
	return len(result.Conflicts)
}

// WriteConflicts writes one line per conflict to w, sorted by position, for
// report files and tests.
func WriteConflicts(w io.Writer, result Result) {
	lines := make([]string, 0, len(result.Conflicts))
	for _, conflict := range result.Conflicts {
		lines = append(lines, fmt.Sprintf("%s: %s: %s and %s\n",
			conflict.Pos,
			formatutil.Sanitize(conflict.Fn.RelString(nil)),
			formatutil.Sanitize(conflict.First.String()),
			formatutil.Sanitize(conflict.Second.String())))
	}
	sort.Strings(lines)
	for _, line := range lines {
		io.WriteString(w, line)
	}
}

// WriteReportFile writes the conflicts to a fresh conflicts-*.out file under
// the configured reports directory and returns its name.
func WriteReportFile(cfg *config.Config, result Result) (string, error) {
	f, err := os.CreateTemp(cfg.ReportsDir, "conflicts-*.out")
	if err != nil {
		return "", fmt.Errorf("could not create conflicts report file: %w", err)
	}
	defer f.Close()
	WriteConflicts(f, result)
	return f.Name(), nil
}
