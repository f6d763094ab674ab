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

package config

import (
	"path/filepath"
	"testing"
)

func checkEqualOnNonEmptyFields(t *testing.T, cid1 CodeIdentifier, cid2 CodeIdentifier) {
	cid2c := compileRegexes(cid2)
	if !cid1.equalOnNonEmptyFields(cid2c) {
		t.Errorf("%v should be equal modulo empty fields to %v", cid1, cid2)
	}
}

func checkNotEqualOnNonEmptyFields(t *testing.T, cid1 CodeIdentifier, cid2 CodeIdentifier) {
	cid2c := compileRegexes(cid2)
	if cid1.equalOnNonEmptyFields(cid2c) {
		t.Errorf("%v should not be equal modulo empty fields to %v", cid1, cid2)
	}
}

func TestCodeIdentifier_equalOnNonEmptyFields_selfEquals(t *testing.T) {
	cid1 := CodeIdentifier{"a", "b", "", "", "", nil}
	checkEqualOnNonEmptyFields(t, cid1, cid1)
}

func TestCodeIdentifier_equalOnNonEmptyFields_emptyMatchesAny(t *testing.T) {
	cid1 := CodeIdentifier{"a", "b", "c", "d", "e", nil}
	cid2 := CodeIdentifier{"de", "234jbn", "23kjb", "d", "234", nil}
	cidEmpty := CodeIdentifier{}
	checkEqualOnNonEmptyFields(t, cid1, cidEmpty)
	checkEqualOnNonEmptyFields(t, cid2, cidEmpty)
}

func TestCodeIdentifier_equalOnNonEmptyFields_oneDiff(t *testing.T) {
	cid1 := CodeIdentifier{"a", "b", "", "", "", nil}
	cid2 := CodeIdentifier{"a", "", "", "", "", nil}
	checkEqualOnNonEmptyFields(t, cid1, cid2)
	checkNotEqualOnNonEmptyFields(t, cid2, cid1)
}

func TestCodeIdentifier_equalOnNonEmptyFields_regexes(t *testing.T) {
	cid1 := CodeIdentifier{"github.com/example/server", "HandleGet", "", "", "", nil}
	matching := CodeIdentifier{Package: "github.com/example/.*", Method: "Handle.*"}
	nonMatching := CodeIdentifier{Package: "github.com/example/.*", Method: "Serve.*"}
	checkEqualOnNonEmptyFields(t, cid1, matching)
	checkNotEqualOnNonEmptyFields(t, cid1, nonMatching)
}

func TestNewDefault(t *testing.T) {
	cfg := NewDefault()
	if cfg.LogLevel != int(InfoLevel) {
		t.Errorf("default log level is %d, expected %d", cfg.LogLevel, int(InfoLevel))
	}
	if !cfg.MatchPkgFilter("any/package/at/all") {
		t.Errorf("default config should match any package")
	}
	if cfg.ExceedsMaxAlarms(1000000) {
		t.Errorf("default config should not limit alarms")
	}
}

func TestLoadConfigFile(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "config.yaml"))
	if err != nil {
		t.Fatalf("could not load config: %v", err)
	}
	if cfg.PkgFilter != "github.com/example/server.*" {
		t.Errorf("pkg-filter not loaded, got %q", cfg.PkgFilter)
	}
	if cfg.LogLevel != 4 {
		t.Errorf("log-level not loaded, got %d", cfg.LogLevel)
	}
	if cfg.MaxAlarms != 10 || !cfg.ExceedsMaxAlarms(10) || cfg.ExceedsMaxAlarms(9) {
		t.Errorf("max-alarms not loaded correctly, got %d", cfg.MaxAlarms)
	}
	if !cfg.SilenceWarn {
		t.Errorf("silence-warn not loaded")
	}
	if len(cfg.ExclusivityProblems) != 1 {
		t.Fatalf("expected one exclusivity problem, got %d", len(cfg.ExclusivityProblems))
	}
	prob := cfg.ExclusivityProblems[0]
	target := CodeIdentifier{"github.com/example/server", "HandleRequest", "", "", "", nil}
	if !prob.IsTarget(target) {
		t.Errorf("%v should be a target of the loaded problem", target)
	}
	if !cfg.IsSomeTarget(target) {
		t.Errorf("%v should be a target of some loaded problem", target)
	}
	filtered := CodeIdentifier{"github.com/example/server/generated", "HandlePut", "", "", "", nil}
	if !prob.IsFiltered(filtered) {
		t.Errorf("%v should be filtered by the loaded problem", filtered)
	}
	if prob.IsFiltered(target) {
		t.Errorf("%v should not be filtered by the loaded problem", target)
	}
}

func TestMatchPkgFilter(t *testing.T) {
	cfg := NewDefault()
	cfg.PkgFilter = "github.com/example/.*"
	c2, err := Load(filepath.Join("testdata", "config.yaml"))
	if err != nil {
		t.Fatalf("could not load config: %v", err)
	}
	if !c2.MatchPkgFilter("github.com/example/server/internal") {
		t.Errorf("filter should match subpackages")
	}
	if c2.MatchPkgFilter("github.com/other/server") {
		t.Errorf("filter should not match other modules")
	}
	// without a compiled regex the filter falls back to prefix matching
	if !cfg.MatchPkgFilter("github.com/example/.*suffix") {
		t.Errorf("uncompiled filter should match by prefix")
	}
}
