package fuzz

import (
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config defines the driver configuration.
type Config struct {
	Subject         string        `yaml:"subject"`           // Path to the subject executable.
	SubjectArgs     []string      `yaml:"subject_args"`      // Arguments passed to the subject.
	StepBudget      int64         `yaml:"step_budget"`       // Oracle step budget.
	MinLength       int           `yaml:"min_length"`        // Minimum generated program length.
	MaxLength       int           `yaml:"max_length"`        // Length at which open brackets are force-closed.
	Deadline        time.Duration `yaml:"deadline"`          // Wall clock limit for one subject run.
	CrashCode       int           `yaml:"crash_code"`        // Exit code the subject uses for a panic.
	OutOfRangeCode  int           `yaml:"out_of_range_code"` // Exit code agreeing with an oracle OutOfRange; 0 disables.
	PersistTimeouts bool          `yaml:"persist_timeouts"`  // Persist wall clock timeouts as artifacts?
	CompareOutput   bool          `yaml:"compare_output"`    // Compare subject stdout against the oracle?
	MaxIterations   int           `yaml:"max_iterations"`    // Stop after this many iterations; 0 runs forever.
	StopOnAnomaly   bool          `yaml:"stop_on_anomaly"`   // Stop after the first persisted artifact?
	ArtifactDir     string        `yaml:"artifact_dir"`      // Directory receiving artifacts.
	Seed            int64         `yaml:"seed"`              // Generator seed; 0 picks one from the clock.
	Progress        io.Writer     `yaml:"-"`                 // Receives one character per iteration.
}

// DefaultConfig returns the configuration used when nothing else is given.
func DefaultConfig() Config {
	return Config{
		SubjectArgs:   []string{"/dev/stdin"},
		StepBudget:    100000,
		MinLength:     100,
		MaxLength:     1000,
		Deadline:      5 * time.Second,
		CrashCode:     101,
		StopOnAnomaly: true,
		ArtifactDir:   ".",
	}
}

// Validate returns an error if c cannot drive a run.
func (c *Config) Validate() error {
	switch {
	case c.Subject == "":
		return errors.New("config: subject is required")
	case c.StepBudget <= 0:
		return errors.Errorf("config: step budget must be positive, have %d", c.StepBudget)
	case c.MinLength < 0:
		return errors.Errorf("config: negative min length %d", c.MinLength)
	case c.MaxLength < c.MinLength:
		return errors.Errorf("config: max length %d below min length %d", c.MaxLength, c.MinLength)
	case c.Deadline <= 0:
		return errors.Errorf("config: deadline must be positive, have %v", c.Deadline)
	case c.MaxIterations < 0:
		return errors.Errorf("config: negative iteration cap %d", c.MaxIterations)
	}
	return nil
}

// LoadConfig reads a YAML configuration file. Keys absent from the file
// keep their DefaultConfig values. The result is not validated, so
// callers can still override fields before calling Validate.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "read config")
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}

	return cfg, nil
}
