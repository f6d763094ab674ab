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

package main

import (
	"fmt"
	"os"

	"github.com/awslabs/ar-go-access/analysis"
	"github.com/awslabs/ar-go-access/cmd/argax/exclusivity"
	"github.com/awslabs/ar-go-access/cmd/argax/suppress"
	"github.com/awslabs/ar-go-access/cmd/argax/summarize"
	"github.com/awslabs/ar-go-access/cmd/argax/tools"
)

const usage = `Argax: Automated Reasoning Go Access analysis
Usage:
  argax [tool] [options] <package path(s)>
Tools:
  - summarize: computes the per-argument access summaries of the functions in a program
  - exclusivity: checks the call sites of a program for conflicting accesses to overlapping memory
  - suppress: inserts ignore directives at the conflicting call sites found by the exclusivity check
Examples:
  Compute the summaries: argax summarize --config=config.yaml package...
  Check the call sites: argax exclusivity --config=config.yaml package...`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "error: expected subcommand\n%s\n", usage)
		os.Exit(2)
	}

	// hardcode help flag
	if snd := os.Args[1]; snd == "-help" || snd == "--help" {
		fmt.Println(usage)
		return
	}

	// hardcode version flag
	if snd := os.Args[1]; snd == "-version" || snd == "--version" {
		fmt.Println(analysis.Version)
		return
	}

	args := os.Args[2:]
	switch cmd := os.Args[1]; cmd {
	case "summarize":
		flags, err := summarize.NewFlags(args)
		if err != nil {
			errExit(err)
		}
		if err := summarize.Run(flags); err != nil {
			errExit(err)
		}
	case "exclusivity":
		flags, err := tools.NewCommonFlags("exclusivity", args, exclusivity.Usage)
		if err != nil {
			errExit(err)
		}
		if err := exclusivity.Run(flags); err != nil {
			errExit(err)
		}
	case "suppress":
		flags, err := tools.NewCommonFlags("suppress", args, suppress.Usage)
		if err != nil {
			errExit(err)
		}
		if err := suppress.Run(flags); err != nil {
			errExit(err)
		}
	default:
		fmt.Fprintf(os.Stderr, "error: unexpected command: %v\n", cmd)
		fmt.Fprintf(os.Stderr, "usage:\n%s\n", usage)
	}
}

func errExit(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	hint := tools.HintForErrorMessage(err.Error())
	if hint != "" {
		fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
	}
	os.Exit(2)
}
