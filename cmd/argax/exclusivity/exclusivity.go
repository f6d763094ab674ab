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

// Package exclusivity implements the frontend of the exclusivity checker.
package exclusivity

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/awslabs/ar-go-access/analysis"
	"github.com/awslabs/ar-go-access/analysis/access"
	"github.com/awslabs/ar-go-access/analysis/config"
	"github.com/awslabs/ar-go-access/analysis/exclusivity"
	"github.com/awslabs/ar-go-access/cmd/argax/tools"
	"github.com/awslabs/ar-go-access/internal/formatutil"
	"golang.org/x/tools/go/ssa"
)

// Usage is the usage documentation of the exclusivity sub-command.
const Usage = ` Check the call sites of your packages for conflicting accesses to overlapping memory.
Usage:
  argax exclusivity [options] <package path(s)>
Examples:
  % argax exclusivity -config config.yaml package...
`

// Run runs the exclusivity check with flags.
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

	logger.Printf(formatutil.Faint("Argax exclusivity tool - " + analysis.Version))
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
	lg.Infof("%d call site(s) checked with %d function summaries", result.CallSites, result.State.Size())
	lg.Infof("")

	exclusivity.Report(lg, result)

	if cfg.ReportConflicts && len(result.Conflicts) > 0 {
		name, err := exclusivity.WriteReportFile(cfg, result)
		if err != nil {
			return err
		}
		lg.Infof("Conflicts written in %s", name)
	}

	if cfg.ReportUnresolved {
		if err := reportUnresolved(cfg, lg, result.State); err != nil {
			return err
		}
	}

	return nil
}

func reportUnresolved(cfg *config.Config, lg *config.LogGroup, state *access.Analysis) error {
	f, err := os.OpenFile(cfg.ReportUnresolvedFile(), os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open unresolved report file: %w", err)
	}
	defer f.Close()
	if n := state.WriteUnresolved(f); n > 0 {
		lg.Warnf("%d unresolved use(s) written in %s", n, f.Name())
	}
	return nil
}
