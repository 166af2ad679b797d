// Package config assembles the driver's run configuration from defaults,
// an optional .env file, environment overrides, and an optional scenario file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"mcp-fetch-driver/internal/driver"
)

// Config represents the full run configuration. No process-wide singletons;
// the entry point passes one of these down.
type Config struct {
	Target    TargetConfig
	Timeouts  TimeoutConfig
	Client    ClientConfig
	Journal   JournalConfig
	Logging   LoggingConfig
	Scenarios []driver.Scenario
}

// TargetConfig describes the child process to drive.
type TargetConfig struct {
	Command string
	Args    []string
	Dir     string
}

// String renders the full command line for display.
func (t TargetConfig) String() string {
	if len(t.Args) == 0 {
		return t.Command
	}
	return t.Command + " " + strings.Join(t.Args, " ")
}

// TimeoutConfig holds every deadline the driver enforces.
type TimeoutConfig struct {
	HandshakeSeconds      int
	CallSeconds           int
	FetchSeconds          int
	TerminateGraceSeconds int
}

func (t TimeoutConfig) Handshake() time.Duration {
	return time.Duration(t.HandshakeSeconds) * time.Second
}

func (t TimeoutConfig) Call() time.Duration {
	return time.Duration(t.CallSeconds) * time.Second
}

func (t TimeoutConfig) TerminateGrace() time.Duration {
	return time.Duration(t.TerminateGraceSeconds) * time.Second
}

// ClientConfig is the identity sent during the handshake.
type ClientConfig struct {
	Name    string
	Version string
}

// JournalConfig controls the optional run-history journal.
type JournalConfig struct {
	Enabled bool
	Path    string
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level string
	JSON  bool
}

// DefaultConfig returns the built-in configuration: the two canonical
// scenarios (a static page and a script-rendered SPA) against a locally
// installed target binary.
func DefaultConfig() *Config {
	return &Config{
		Target: TargetConfig{
			Command: "html-mcp-reader",
			Args:    []string{"mcp"},
			Dir:     ".",
		},
		Timeouts: TimeoutConfig{
			HandshakeSeconds:      10,
			CallSeconds:           30,
			FetchSeconds:          10,
			TerminateGraceSeconds: 5,
		},
		Client: ClientConfig{
			Name:    "mcp-fetch-driver",
			Version: "1.0.0",
		},
		Journal: JournalConfig{
			Enabled: false,
			Path:    "./data/driver-history.db",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Scenarios: []driver.Scenario{
			{
				Name: "Static HTML Test",
				URL:  "https://httpbin.org/html",
				Note: "should use the static fetcher",
			},
			{
				Name: "JavaScript SPA Test",
				URL:  "https://jsonplaceholder.typicode.com/",
				Note: "should detect and use the browser fetcher",
			},
		},
	}
}

// LoadConfig builds the configuration: defaults, then .env, then environment
// variables, then the scenario file named by MCP_DRIVER_SCENARIOS (if any).
func LoadConfig() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := DefaultConfig()
	applyEnv(cfg)

	if path := os.Getenv("MCP_DRIVER_SCENARIOS"); path != "" {
		scenarios, err := LoadScenarios(path)
		if err != nil {
			return nil, err
		}
		cfg.Scenarios = scenarios
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Target.Command = getEnvOrDefault("MCP_SERVER_COMMAND", cfg.Target.Command)
	if args := os.Getenv("MCP_SERVER_ARGS"); args != "" {
		cfg.Target.Args = strings.Fields(args)
	}
	cfg.Target.Dir = getEnvOrDefault("MCP_SERVER_DIR", cfg.Target.Dir)

	cfg.Timeouts.HandshakeSeconds = getIntEnv("MCP_DRIVER_HANDSHAKE_TIMEOUT", cfg.Timeouts.HandshakeSeconds)
	cfg.Timeouts.CallSeconds = getIntEnv("MCP_DRIVER_CALL_TIMEOUT", cfg.Timeouts.CallSeconds)
	cfg.Timeouts.FetchSeconds = getIntEnv("MCP_DRIVER_FETCH_TIMEOUT", cfg.Timeouts.FetchSeconds)
	cfg.Timeouts.TerminateGraceSeconds = getIntEnv("MCP_DRIVER_TERMINATE_GRACE", cfg.Timeouts.TerminateGraceSeconds)

	cfg.Client.Name = getEnvOrDefault("MCP_DRIVER_CLIENT_NAME", cfg.Client.Name)
	cfg.Client.Version = getEnvOrDefault("MCP_DRIVER_CLIENT_VERSION", cfg.Client.Version)

	if path := os.Getenv("MCP_DRIVER_JOURNAL_PATH"); path != "" {
		cfg.Journal.Enabled = true
		cfg.Journal.Path = path
	}

	cfg.Logging.Level = getEnvOrDefault("LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.JSON = getBoolEnv("LOG_JSON", cfg.Logging.JSON)
}

// Validate rejects configurations the driver cannot run with.
func (c *Config) Validate() error {
	if c.Target.Command == "" {
		return fmt.Errorf("target command must not be empty")
	}
	if len(c.Scenarios) == 0 {
		return fmt.Errorf("at least one scenario is required")
	}
	for i, sc := range c.Scenarios {
		if sc.Name == "" {
			return fmt.Errorf("scenario %d: name must not be empty", i+1)
		}
		if sc.URL == "" {
			return fmt.Errorf("scenario %d (%s): url must not be empty", i+1, sc.Name)
		}
	}
	if c.Timeouts.HandshakeSeconds <= 0 || c.Timeouts.CallSeconds <= 0 ||
		c.Timeouts.FetchSeconds <= 0 || c.Timeouts.TerminateGraceSeconds <= 0 {
		return fmt.Errorf("all timeouts must be positive")
	}
	return nil
}

type scenarioFile struct {
	Scenarios []driver.Scenario `yaml:"scenarios"`
}

// LoadScenarios reads a scenario list from a YAML file.
func LoadScenarios(path string) ([]driver.Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file %s: %w", path, err)
	}
	var file scenarioFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing scenario file %s: %w", path, err)
	}
	return file.Scenarios, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return defaultValue
	}
}
