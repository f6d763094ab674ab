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

// Package suppress implements the frontend of the conflict suppression rewriter.
// It runs the exclusivity check and appends an ignore directive to every
// conflicting call site, so that subsequent runs accept the code as is.
package suppress

import (
	"fmt"
	"go/token"
	"log"
	"os"
	"strings"
	"time"

	"github.com/awslabs/ar-go-access/analysis"
	"github.com/awslabs/ar-go-access/analysis/config"
	"github.com/awslabs/ar-go-access/analysis/exclusivity"
	"github.com/awslabs/ar-go-access/analysis/refactor"
	"github.com/awslabs/ar-go-access/cmd/argax/tools"
	"github.com/awslabs/ar-go-access/internal/formatutil"
	"github.com/awslabs/ar-go-access/internal/funcutil"
	"golang.org/x/tools/go/ssa"
)

// Usage is the usage documentation of the suppress sub-command.
const Usage = ` Insert ignore directives at the conflicting call sites of your packages.
Usage:
  argax suppress [options] <package path(s)>
Examples:
  % argax suppress -config config.yaml package...
`

// Run runs the exclusivity check and rewrites the conflicting call sites.
func Run(flags tools.CommonFlags) error {
	logger := log.New(os.Stdout, "", log.Flags())

	cfg, err := tools.LoadConfig(flags.ConfigPath)
	if err != nil {
		return err
	}

	// Override config parameters with command-line parameters
	if flags.Verbose {
		cfg.LogLevel = int(config.DebugLevel)
	}

	logger.Printf(formatutil.Faint("Argax suppress tool - " + analysis.Version))
	logger.Printf(formatutil.Faint("Reading sources") + "\n")

	loadOptions := analysis.LoadProgramOptions{
		BuildMode: ssa.InstantiateGenerics,
		LoadTests: flags.WithTest,
	}
	lp, err := analysis.LoadProgram(loadOptions, flags.FlagSet.Args())
	if err != nil {
		return fmt.Errorf("could not load program: %v", err)
	}

	lg := config.NewLogGroup(cfg)
	start := time.Now()
	result, err := exclusivity.Analyze(cfg, lg, lp)
	duration := time.Since(start)
	if err != nil {
		return fmt.Errorf("exclusivity analysis failed: %v", err)
	}

	lg.Infof("")
	lg.Infof(strings.Repeat("*", 80))
	lg.Infof("Analysis took %3.4f s", duration.Seconds())
	lg.Infof("")

	if len(result.Conflicts) == 0 {
		lg.Infof("RESULT:\n\t\t%s", formatutil.Green("No exclusivity conflicts to suppress ✓")) // safe %s
		return nil
	}

	positions := funcutil.Map(result.Conflicts, func(c exclusivity.Conflict) token.Position { return c.Pos })
	rewrites, err := refactor.SuppressLines(lg, positions)
	if err != nil {
		return fmt.Errorf("failed to rewrite sources: %v", err)
	}

	total := 0
	for _, rewrite := range rewrites {
		total += len(rewrite.Lines)
	}
	lg.Infof("RESULT:\n\t\t%s",
		formatutil.Green(fmt.Sprintf("%d conflicting line(s) suppressed in %d file(s) ✓", total, len(rewrites)))) // safe %s

	return nil
}
