// Package config loads the pipeline configuration from defaults, a YAML file and the environment.
package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by Load. Nested keys are separated
// by a double underscore, PREFLIGHT_TEST__WRAPPER sets test.wrapper.
const EnvPrefix = "PREFLIGHT_"

// MemcheckEnv switches the test step to its memory-diagnostic runner.
const MemcheckEnv = EnvPrefix + "MEMCHECK"

var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	Workdir string        `koanf:"workdir" yaml:"workdir"`
	Lint    StepConfig    `koanf:"lint" yaml:"lint"`
	Build   StepConfig    `koanf:"build" yaml:"build"`
	Cleanup CleanupConfig `koanf:"cleanup" yaml:"cleanup"`
	Test    TestConfig    `koanf:"test" yaml:"test"`
	Doc     StepConfig    `koanf:"doc" yaml:"doc"`
	Publish PublishConfig `koanf:"publish" yaml:"publish"`
	Report  ReportConfig  `koanf:"report" yaml:"report"`
}

type StepConfig struct {
	Command []string `koanf:"command" yaml:"command"`
}

type CleanupConfig struct {
	Enabled  bool     `koanf:"enabled" yaml:"enabled"`
	Patterns []string `koanf:"patterns" yaml:"patterns"`
}

type TestConfig struct {
	Command  []string `koanf:"command" yaml:"command"`
	Memcheck bool     `koanf:"memcheck" yaml:"memcheck"`
	// Wrapper is the memory-diagnostic runner used when Memcheck is set.
	Wrapper []string `koanf:"wrapper" yaml:"wrapper"`
	// WrapperEnv is the variable the test tool reads its runner from. Empty means the
	// wrapper is prepended to the command.
	WrapperEnv string `koanf:"wrapper_env" yaml:"wrapper_env"`
}

type PublishConfig struct {
	Source      string `koanf:"source" yaml:"source"`
	Destination string `koanf:"destination" yaml:"destination"`
}

type ReportConfig struct {
	Graph   string `koanf:"graph" yaml:"graph"`
	Metrics string `koanf:"metrics" yaml:"metrics"`
}

// Default returns the configuration of a cargo project.
func Default() *Config {
	return &Config{
		Workdir: ".",
		Lint:    StepConfig{Command: []string{"cargo", "clippy"}},
		Build:   StepConfig{Command: []string{"cargo", "build"}},
		Cleanup: CleanupConfig{
			Enabled:  true,
			Patterns: []string{"tests/images/output/*.png"},
		},
		Test: TestConfig{
			Command:    []string{"cargo", "test"},
			Wrapper:    []string{"valgrind", "--error-exitcode=1", "--leak-check=full"},
			WrapperEnv: "CARGO_TARGET_X86_64_UNKNOWN_LINUX_GNU_RUNNER",
		},
		Doc: StepConfig{Command: []string{"cargo", "doc"}},
		Publish: PublishConfig{
			Source:      "target/doc",
			Destination: "public/doc",
		},
	}
}

// defaults flattens Default into koanf keys.
func defaults() map[string]any {
	def := Default()

	return map[string]any{
		"workdir":             def.Workdir,
		"lint.command":        def.Lint.Command,
		"build.command":       def.Build.Command,
		"cleanup.enabled":     def.Cleanup.Enabled,
		"cleanup.patterns":    def.Cleanup.Patterns,
		"test.command":        def.Test.Command,
		"test.memcheck":       def.Test.Memcheck,
		"test.wrapper":        def.Test.Wrapper,
		"test.wrapper_env":    def.Test.WrapperEnv,
		"doc.command":         def.Doc.Command,
		"publish.source":      def.Publish.Source,
		"publish.destination": def.Publish.Destination,
		"report.graph":        def.Report.Graph,
		"report.metrics":      def.Report.Metrics,
	}
}

// listKeys hold argv-like values; from the environment they are split on whitespace.
var listKeys = map[string]struct{}{
	"lint.command":     {},
	"build.command":    {},
	"cleanup.patterns": {},
	"test.command":     {},
	"test.wrapper":     {},
	"doc.command":      {},
}

func envValue(key, value string) (string, any) {
	key = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(key, EnvPrefix)), "__", ".")
	if key == "memcheck" {
		key = "test.memcheck"
	}

	if _, ok := listKeys[key]; ok {
		return key, strings.Fields(value)
	}

	return key, value
}

// splitScalars turns a list key written as a single string, such as
// `command: cargo clippy -D warnings`, into its words.
func splitScalars(k *koanf.Koanf) error {
	for key := range listKeys {
		value, ok := k.Get(key).(string)
		if !ok {
			continue
		}

		err := k.Set(key, strings.Fields(value))
		if err != nil {
			return errors.Wrapf(err, "unable to split %s", key)
		}
	}

	return nil
}

// Load reads the configuration. A missing file at path is not an error, the defaults
// and the environment are used instead.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		err := k.Load(file.Provider(path), yaml.Parser())
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(err, "unable to load %s", path)
		}
	}

	err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envValue), nil)
	if err != nil {
		return nil, errors.Wrap(err, "unable to load environment")
	}

	err = splitScalars(k)
	if err != nil {
		return nil, err
	}

	for key, value := range defaults() {
		if !k.Exists(key) {
			err := k.Set(key, value)
			if err != nil {
				return nil, errors.Wrapf(err, "unable to set default for %s", key)
			}
		}
	}

	var cfg Config
	err = k.Unmarshal("", &cfg)
	if err != nil {
		return nil, errors.Wrap(err, "unable to decode configuration")
	}

	return &cfg, nil
}

// Validate reports the first setting that would make a step unable to run.
func (c *Config) Validate() error {
	commands := map[string][]string{
		"lint.command":  c.Lint.Command,
		"build.command": c.Build.Command,
		"test.command":  c.Test.Command,
		"doc.command":   c.Doc.Command,
	}
	for _, key := range []string{"lint.command", "build.command", "test.command", "doc.command"} {
		if len(commands[key]) == 0 {
			return errors.Wrapf(ErrInvalid, "%s must not be empty", key)
		}
	}

	if c.Test.Memcheck && len(c.Test.Wrapper) == 0 {
		return errors.Wrap(ErrInvalid, "test.wrapper must be set when test.memcheck is enabled")
	}

	if c.Publish.Source == "" {
		return errors.Wrap(ErrInvalid, "publish.source must not be empty")
	}

	if c.Publish.Destination == "" {
		return errors.Wrap(ErrInvalid, "publish.destination must not be empty")
	}

	return nil
}

// Path resolves p against the working directory.
func (c *Config) Path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}

	return filepath.Join(c.Workdir, p)
}

// Write stores cfg as YAML at path. An existing file is only replaced when force is set.
func Write(cfg *Config, path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return errors.Errorf("%s already exists, use --force to overwrite it", path)
		}
	}

	content, err := yamlv3.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "unable to encode configuration")
	}

	err = os.WriteFile(path, content, 0o644)
	if err != nil {
		return errors.Wrapf(err, "unable to write %s", path)
	}

	return nil
}
