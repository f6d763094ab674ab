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
	"fmt"
	"os"
	"path"
	"regexp"
	"strings"

	"github.com/awslabs/ar-go-access/internal/funcutil"
	"gopkg.in/yaml.v3"
)

var (
	// The global config file
	configFile string
)

// SetGlobalConfig sets the global config filename
func SetGlobalConfig(filename string) {
	configFile = filename
}

// LoadGlobal loads the config file that has been set by SetGlobalConfig
func LoadGlobal() (*Config, error) {
	return Load(configFile)
}

// Config holds the options of the access analyses and the exclusivity problem
// specifications. If some field is not defined in the config file, it will be
// empty/zero in the struct. Private fields are not populated from a yaml file,
// but computed after initialization.
type Config struct {
	Options

	sourceFile string

	// unresolvedreportfile is a file name in ReportsDir when ReportUnresolved is true
	unresolvedreportfile string

	// if the PkgFilter is specified
	pkgFilterRegex *regexp.Regexp

	// ExclusivityProblems lists the exclusivity checking specifications
	ExclusivityProblems []ExclusivitySpec `yaml:"exclusivity-problems"`
}

// ExclusivitySpec identifies one exclusivity checking problem: which functions
// to check and which findings to filter out.
type ExclusivitySpec struct {
	// Targets is the list of identifiers of the functions whose call sites are
	// checked. When empty, every function matching the package filter is
	// checked.
	Targets []CodeIdentifier

	// Filters contains a list of identifiers whose findings are not reported
	Filters []CodeIdentifier
}

type Options struct {
	// ReportsDir is the directory where all the reports will be stored. If the yaml config file this config struct
	// has been loaded from does not specify a ReportsDir but sets any Report* option to true, then ReportsDir will
	// be created in the folder the binary is called.
	ReportsDir string `yaml:"reports-dir"`

	// PkgFilter restricts the functions that are summarized and checked to those whose package matches the filter
	PkgFilter string `yaml:"pkg-filter"`

	// ReportSummaries can be set to true, in which case the access summaries will be reported in a file named
	// summaries-*.out in the reports directory
	ReportSummaries bool `yaml:"report-summaries"`

	// ReportConflicts specifies whether the exclusivity findings should be written to a file named conflicts-*.out
	// in the reports directory, in addition to being logged
	ReportConflicts bool `yaml:"report-conflicts"`

	// ReportUnresolved specifies whether the tool should report the call sites and escaping uses it cannot resolve.
	// Each such use forces the analysis to assume the worst access kind, so this is where precision is lost.
	ReportUnresolved bool `yaml:"report-unresolved"`

	// MaxAlarms sets a limit for the number of conflicts reported. If MaxAlarms > 0, then at most
	// MaxAlarms will be reported. Otherwise, if MaxAlarms <= 0, it is ignored.
	MaxAlarms int `yaml:"max-alarms"`

	// Loglevel controls the verbosity of the tool
	LogLevel int `yaml:"log-level"`

	// Suppress warnings
	SilenceWarn bool `yaml:"silence-warn"`
}

// NewDefault returns an empty default config.
func NewDefault() *Config {
	return &Config{
		sourceFile:           "",
		unresolvedreportfile: "",
		ExclusivityProblems:  nil,
		Options: Options{
			ReportsDir:       "",
			PkgFilter:        "",
			ReportSummaries:  false,
			ReportConflicts:  false,
			ReportUnresolved: false,
			MaxAlarms:        0,
			LogLevel:         int(InfoLevel),
			SilenceWarn:      false,
		},
	}
}

// Load reads a configuration from a file
func Load(filename string) (*Config, error) {
	cfg := NewDefault()
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}
	if errYaml := yaml.Unmarshal(b, cfg); errYaml != nil {
		return nil, fmt.Errorf("could not unmarshal config file: %w", errYaml)
	}

	cfg.sourceFile = filename

	if cfg.ReportSummaries || cfg.ReportConflicts || cfg.ReportUnresolved {
		err = setReportsDir(cfg, filename)
		if err != nil {
			return nil, err
		}
	}

	// If logLevel has not been specified (i.e. it is 0) set the default to Info
	if cfg.LogLevel == 0 {
		cfg.LogLevel = int(InfoLevel)
	}

	if cfg.PkgFilter != "" {
		r, err := regexp.Compile(cfg.PkgFilter)
		if err == nil {
			cfg.pkgFilterRegex = r
		}
	}

	for _, eSpec := range cfg.ExclusivityProblems {
		funcutil.MapInPlace(eSpec.Targets, compileRegexes)
		funcutil.MapInPlace(eSpec.Filters, compileRegexes)
	}

	return cfg, nil
}

func setReportsDir(c *Config, filename string) error {
	if c.ReportsDir == "" {
		tmpdir, err := os.MkdirTemp(path.Dir(filename), "*-report")
		if err != nil {
			return fmt.Errorf("could not create temp dir for reports")
		}
		c.ReportsDir = tmpdir
	} else {
		err := os.Mkdir(c.ReportsDir, 0750)
		if err != nil {
			if !os.IsExist(err) {
				return fmt.Errorf("could not create directory %s", c.ReportsDir)
			}
		}
	}

	if c.ReportUnresolved {
		reportFile, err := os.CreateTemp(c.ReportsDir, "unresolved-*.out")
		if err != nil {
			return fmt.Errorf("could not create report file for unresolved call sites")
		}
		c.unresolvedreportfile = reportFile.Name()
		reportFile.Close() // the file will be reopened as needed
	}
	return nil
}

// ReportUnresolvedFile returns the file name that will contain the list of unresolved call sites
func (c Config) ReportUnresolvedFile() string {
	return c.unresolvedreportfile
}

// RelPath returns filename path relative to the config source file
func (c Config) RelPath(filename string) string {
	return path.Join(path.Dir(c.sourceFile), filename)
}

// MatchPkgFilter returns true if the package name pkgname matches the package filter set in the config file. If no
// package filter has been set in the config file, the regex will match anything and return true. This function safely
// considers the case where a filter has been specified by the user, but it could not be compiled to a regex. The safe
// case is to check whether the package filter string is a prefix of the pkgname
func (c Config) MatchPkgFilter(pkgname string) bool {
	if c.pkgFilterRegex != nil {
		return c.pkgFilterRegex.MatchString(pkgname)
	} else if c.PkgFilter != "" {
		return strings.HasPrefix(pkgname, c.PkgFilter)
	} else {
		return true
	}
}

// Below are functions used to query the configuration on specific facts

// IsSomeTarget returns true if the code identifier matches a target in some exclusivity problem of the config
func (c Config) IsSomeTarget(cid CodeIdentifier) bool {
	for _, es := range c.ExclusivityProblems {
		if es.IsTarget(cid) {
			return true
		}
	}
	return false
}

// IsTarget returns true if the code identifier matches a target specification of the problem
func (es ExclusivitySpec) IsTarget(cid CodeIdentifier) bool {
	return ExistsCid(es.Targets, cid.equalOnNonEmptyFields)
}

// IsFiltered returns true if the code identifier matches a filter specification of the problem
func (es ExclusivitySpec) IsFiltered(cid CodeIdentifier) bool {
	return ExistsCid(es.Filters, cid.equalOnNonEmptyFields)
}

// Verbose returns true is the configuration verbosity setting is larger than Info (i.e. Debug or Trace)
func (c Config) Verbose() bool {
	return c.LogLevel >= int(DebugLevel)
}

// ExceedsMaxAlarms returns true if the input exceeds the maximum alarms parameter of the configuration.
// If the configuration setting is <= 0, then this returns false and any number of alarms may be reported.
func (c Config) ExceedsMaxAlarms(n int) bool {
	if c.MaxAlarms <= 0 {
		return false
	}
	return n >= c.MaxAlarms
}
