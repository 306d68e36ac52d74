package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Environment variables read by stagehand. PORT is the only one the
// platform sets for us; the rest are our own namespace.
const (
	EnvPort      = "PORT"
	EnvManaged   = "STAGEHAND_MANAGED"
	EnvCookies   = "COOKIES_BASE64"
	EnvLogLevel  = "STAGEHAND_LOG_LEVEL"
	EnvRedisAddr = "STAGEHAND_REDIS_ADDR"
)

// DefaultFile is the config file looked up inside the project directory.
const DefaultFile = "stagehand.yaml"

// Config drives the whole bootstrap: what to install, where credentials
// live, and what to hand control to.
type Config struct {
	Dependencies DependenciesConfig `yaml:"dependencies"`
	Credentials  CredentialsConfig  `yaml:"credentials"`
	Server       LaunchConfig       `yaml:"server"`
	Worker       LaunchConfig       `yaml:"worker"`
	Redis        RedisConfig        `yaml:"redis"`
	ErrorHistory int                `yaml:"error_history"`
}

// DependenciesConfig describes the package install step.
type DependenciesConfig struct {
	// Probe is the executable whose resolvability defines success.
	Probe string `yaml:"probe"`
	// Packages is the full set installed by the primary attempt.
	Packages []string `yaml:"packages"`
}

// CredentialsConfig holds the two candidate credential locations,
// relative to the project directory. Primary wins; Fallback is copied
// into Primary only when Primary is absent.
type CredentialsConfig struct {
	Primary  string `yaml:"primary"`
	Fallback string `yaml:"fallback"`
}

// LaunchConfig is the argv of a downstream process. Elements may
// reference environment variables as ${PORT}; they are expanded at
// launch time. An empty Command in server mode selects the embedded
// dashboard.
type LaunchConfig struct {
	Command []string `yaml:"command"`
}

// RedisConfig selects the shared status store. Empty address means the
// in-memory store.
type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// Default returns the configuration the Radio FM deployment ships with.
func Default() Config {
	return Config{
		Dependencies: DependenciesConfig{
			Probe:    "ffmpeg",
			Packages: []string{"ffmpeg"},
		},
		Credentials: CredentialsConfig{
			Primary:  "cookies.txt",
			Fallback: filepath.Join("attached_assets", "cookies.txt"),
		},
		Worker: LaunchConfig{
			Command: []string{"python3", "run_bot_only.py"},
		},
		ErrorHistory: 50,
	}
}

// Load reads the config file from dir, layering it over Default. A
// missing file is not an error; the defaults describe a working
// deployment on their own.
func Load(dir string) (Config, error) {
	path := filepath.Join(dir, DefaultFile)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := Default()
		applyEnv(&cfg)
		return cfg, nil
	}
	return LoadFile(path)
}

// LoadFile reads the config file at path, layering it over Default.
// Unlike Load, an explicitly named file must exist.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if cfg.ErrorHistory <= 0 {
		cfg.ErrorHistory = Default().ErrorHistory
	}

	applyEnv(&cfg)
	return cfg, nil
}

// applyEnv lets the deployment environment override the file.
func applyEnv(cfg *Config) {
	if addr := os.Getenv(EnvRedisAddr); addr != "" {
		cfg.Redis.Address = addr
	}
}

// Port reads the serving port from the environment. Required in server
// mode, ignored otherwise.
func Port() (int, error) {
	raw := os.Getenv(EnvPort)
	if raw == "" {
		return 0, fmt.Errorf("%s environment variable is not set", EnvPort)
	}
	port, err := strconv.Atoi(raw)
	if err != nil || port <= 0 || port > 65535 {
		return 0, fmt.Errorf("invalid %s value %q", EnvPort, raw)
	}
	return port, nil
}
