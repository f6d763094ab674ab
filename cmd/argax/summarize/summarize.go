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

// Package summarize implements the frontend of the access summary computation.
package summarize

import (
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/awslabs/ar-go-access/analysis"
	"github.com/awslabs/ar-go-access/analysis/access"
	"github.com/awslabs/ar-go-access/analysis/config"
	"github.com/awslabs/ar-go-access/analysis/lang"
	"github.com/awslabs/ar-go-access/analysis/summaries"
	"github.com/awslabs/ar-go-access/cmd/argax/tools"
	"github.com/awslabs/ar-go-access/internal/formatutil"
	"golang.org/x/exp/slices"
	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"
)

const usage = ` Compute the access summaries of the functions in your packages.
Usage:
  argax summarize [options] <package path(s)>
Examples:
  % argax summarize -config config.yaml package...
`

// Flags represents the parsed flags for the summarize tool.
type Flags struct {
	tools.CommonFlags
	function string
	graph    string
	cycles   bool
}

// NewFlags returns the parsed flags for the summarize tool with args.
func NewFlags(args []string) (Flags, error) {
	flags := tools.NewUnparsedCommonFlags("summarize")
	function := flags.FlagSet.String("function", "", "summarize only the functions matching this regex")
	graph := flags.FlagSet.String("graph", "", "write the summary flow graph in DOT format to this file")
	cycles := flags.FlagSet.Bool("cycles", false, "print the recursion cycles of the flow graph")
	tools.SetUsage(flags.FlagSet, usage)
	if err := flags.FlagSet.Parse(args); err != nil {
		return Flags{}, fmt.Errorf("failed to parse command summarize with args %v: %v", args, err)
	}

	return Flags{
		CommonFlags: tools.CommonFlags{
			FlagSet:    flags.FlagSet,
			ConfigPath: *flags.ConfigPath,
			Verbose:    *flags.Verbose,
			WithTest:   *flags.WithTest,
		},
		function: *function,
		graph:    *graph,
		cycles:   *cycles,
	}, nil
}

// Run runs the summary computation with flags.
func Run(flags Flags) error {
	logger := log.New(os.Stdout, "", log.Flags())

	cfg, err := tools.LoadConfig(flags.ConfigPath)
	if err != nil {
		return err
	}

	// Override config parameters with command-line parameters
	if flags.Verbose {
		cfg.LogLevel = int(config.DebugLevel)
	}

	var functionRegex *regexp.Regexp
	if flags.function != "" {
		functionRegex, err = regexp.Compile(flags.function)
		if err != nil {
			return fmt.Errorf("invalid -function regex %q: %v", flags.function, err)
		}
	}

	logger.Printf(formatutil.Faint("Argax summarize tool - " + analysis.Version))
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
	state := access.NewAnalysis(lp.Program, cfg, lg)

	targets := selectFunctions(lp.Program, cfg, functionRegex)
	if len(targets) == 0 {
		return fmt.Errorf("no function to summarize matches the configuration")
	}

	start := time.Now()
	for _, fn := range targets {
		state.GetOrCreateSummary(fn)
	}
	duration := time.Since(start)

	lg.Infof("")
	lg.Infof(strings.Repeat("*", 80))
	lg.Infof("Analysis took %3.4f s", duration.Seconds())
	lg.Infof("")
	lg.Infof("RESULT:\n\t\t%s",
		formatutil.Green(fmt.Sprintf("%d function summaries computed ✓", state.Size()))) // safe %s

	if cfg.ReportSummaries {
		name, err := writeSummariesFile(cfg, state)
		if err != nil {
			return err
		}
		lg.Infof("Summaries written in %s", name)
	} else {
		state.FprintSummaries(os.Stdout)
	}

	if flags.graph != "" {
		f, err := os.Create(flags.graph)
		if err != nil {
			return fmt.Errorf("failed to create graph file %s: %v", flags.graph, err)
		}
		defer f.Close()
		state.WriteFlowGraph(f)
		lg.Infof("Flow graph written in %s", flags.graph)
	}

	if flags.cycles {
		cycles := state.RecursionCycles()
		if len(cycles) == 0 {
			lg.Infof("No recursion cycles in the summaries")
		}
		for _, cycle := range cycles {
			lg.Infof("recursion cycle: %s", strings.Join(cycle, " -> "))
		}
	}

	if cfg.ReportUnresolved {
		if err := reportUnresolved(cfg, lg, state); err != nil {
			return err
		}
	}

	return nil
}

// selectFunctions returns the functions to summarize, sorted by name. The
// selection follows the package filter of the config and the -function regex.
func selectFunctions(program *ssa.Program, cfg *config.Config, functionRegex *regexp.Regexp) []*ssa.Function {
	var targets []*ssa.Function
	for fn := range ssautil.AllFunctions(program) {
		if fn.Blocks == nil || fn.Synthetic != "" || summaries.IsStdFunction(fn) {
			continue
		}
		if !cfg.MatchPkgFilter(lang.PackageNameFromFunction(fn)) {
			continue
		}
		if functionRegex != nil && !functionRegex.MatchString(fn.RelString(nil)) {
			continue
		}
		targets = append(targets, fn)
	}
	slices.SortFunc(targets, func(a, b *ssa.Function) bool {
		return a.RelString(nil) < b.RelString(nil)
	})
	return targets
}

func writeSummariesFile(cfg *config.Config, state *access.Analysis) (string, error) {
	f, err := os.CreateTemp(cfg.ReportsDir, "summaries-*.out")
	if err != nil {
		return "", fmt.Errorf("failed to create summaries file: %w", err)
	}
	defer f.Close()
	state.FprintSummaries(f)
	return f.Name(), nil
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
