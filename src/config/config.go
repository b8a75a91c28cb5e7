// Package config provides configuration management for gh-triage-mcp.
//
// Values come from environment variables and, optionally, a YAML file. The
// resulting Config is built once at startup and passed to the components
// that need it; nothing else reads the environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"gh-triage-mcp/src/errs"
)

const (
	DefaultAPIBaseURL      = "https://api.github.com"
	DefaultBazelLogsFolder = "Bazel Build and Test"
	DefaultUnzipPath       = "unzip"
	DefaultAnalysisTopic   = "ghtriage.log-analyses"
	DefaultLogLevel        = "info"
)

// Environment variable names. These are part of the user-facing contract:
// error messages tell callers to set them.
const (
	EnvToken      = "GITHUB_TOKEN"
	EnvOwner      = "GITHUB_OWNER"
	EnvRepo       = "GITHUB_REPO"
	EnvWorkflowID = "GITHUB_WORKFLOW_ID"
)

// Config holds the application configuration.
type Config struct {
	// GitHubToken is sent as a bearer token when non-empty.
	GitHubToken string
	// APIBaseURL is the REST API root, e.g. https://api.github.com.
	APIBaseURL string

	// Defaults used when a tool call omits owner, repo or workflow id.
	DefaultOwner      string
	DefaultRepo       string
	DefaultWorkflowID string

	// OutputDir is where log archives are downloaded and extracted.
	OutputDir string
	// BazelLogsFolder is the subfolder of an extracted archive holding the step logs.
	BazelLogsFolder string
	// UnzipPath is the external extraction utility.
	UnzipPath string

	LogLevel string
	LogFile  string

	// Optional sinks for analysis outcomes.
	PostgresDSN     string
	RedpandaBrokers []string
	AnalysisTopic   string
}

// Load reads configuration from the environment and, when path is non-empty,
// from a YAML file. Environment variables take precedence over the file.
func Load(path string) (*Config, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg := &Config{
		GitHubToken:       v.GetString("github.token"),
		APIBaseURL:        strings.TrimRight(v.GetString("github.api_url"), "/"),
		DefaultOwner:      v.GetString("github.owner"),
		DefaultRepo:       v.GetString("github.repo"),
		DefaultWorkflowID: v.GetString("github.workflow_id"),
		OutputDir:         v.GetString("logs.output_dir"),
		BazelLogsFolder:   v.GetString("logs.bazel_folder"),
		UnzipPath:         v.GetString("logs.unzip_path"),
		LogLevel:          v.GetString("log.level"),
		LogFile:           v.GetString("log.file"),
		PostgresDSN:       v.GetString("sinks.postgres_dsn"),
		RedpandaBrokers:   splitList(v.GetString("sinks.redpanda_brokers")),
		AnalysisTopic:     v.GetString("sinks.analysis_topic"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("github.api_url", DefaultAPIBaseURL)
	v.SetDefault("logs.output_dir", filepath.Join(os.TempDir(), "gh-triage-mcp"))
	v.SetDefault("logs.bazel_folder", DefaultBazelLogsFolder)
	v.SetDefault("logs.unzip_path", DefaultUnzipPath)
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("sinks.analysis_topic", DefaultAnalysisTopic)

	bind := func(key string, envs ...string) {
		_ = v.BindEnv(append([]string{key}, envs...)...)
	}
	bind("github.token", EnvToken, "GITHUB_PERSONAL_ACCESS_TOKEN")
	bind("github.api_url", "GITHUB_API_URL")
	bind("github.owner", EnvOwner)
	bind("github.repo", EnvRepo)
	bind("github.workflow_id", EnvWorkflowID)
	bind("logs.output_dir", "LOG_OUTPUT_DIR")
	bind("logs.bazel_folder", "BAZEL_LOGS_FOLDER")
	bind("logs.unzip_path", "UNZIP_PATH")
	bind("log.level", "LOG_LEVEL")
	bind("log.file", "LOG_FILE")
	bind("sinks.postgres_dsn", "POSTGRES_DSN")
	bind("sinks.redpanda_brokers", "REDPANDA_BROKERS")
	bind("sinks.analysis_topic", "ANALYSIS_TOPIC")

	return v
}

// Validate checks values that would otherwise fail much later.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid GitHub API URL %q", c.APIBaseURL)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("log output directory must not be empty")
	}
	if c.BazelLogsFolder == "" {
		return fmt.Errorf("bazel logs folder must not be empty")
	}
	return nil
}

// ResolveOwner returns owner, or the configured default when owner is empty.
func (c *Config) ResolveOwner(owner string) (string, error) {
	return resolve(owner, c.DefaultOwner, "owner", EnvOwner)
}

// ResolveRepo returns repo, or the configured default when repo is empty.
func (c *Config) ResolveRepo(repo string) (string, error) {
	return resolve(repo, c.DefaultRepo, "repo", EnvRepo)
}

// ResolveWorkflowID returns id, or the configured default when id is empty.
func (c *Config) ResolveWorkflowID(id string) (string, error) {
	return resolve(id, c.DefaultWorkflowID, "workflow_id", EnvWorkflowID)
}

func resolve(value, fallback, param, envVar string) (string, error) {
	if value != "" {
		return value, nil
	}
	if fallback != "" {
		return fallback, nil
	}
	return "", errs.Missing(param, envVar)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
