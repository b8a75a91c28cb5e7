package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gh-triage-mcp/src/errs"
)

func TestLoad_Environment(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		clearEnv(t)

		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load() unexpected error: %v", err)
		}

		if cfg.APIBaseURL != DefaultAPIBaseURL {
			t.Errorf("APIBaseURL = %q, want %q", cfg.APIBaseURL, DefaultAPIBaseURL)
		}
		if cfg.BazelLogsFolder != DefaultBazelLogsFolder {
			t.Errorf("BazelLogsFolder = %q, want %q", cfg.BazelLogsFolder, DefaultBazelLogsFolder)
		}
		if cfg.UnzipPath != DefaultUnzipPath {
			t.Errorf("UnzipPath = %q, want %q", cfg.UnzipPath, DefaultUnzipPath)
		}
		if cfg.GitHubToken != "" {
			t.Errorf("GitHubToken = %q, want empty", cfg.GitHubToken)
		}
		if cfg.OutputDir == "" {
			t.Error("OutputDir should have a default")
		}
	})

	t.Run("environment values", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GITHUB_TOKEN", "test-token-12345")
		t.Setenv("GITHUB_OWNER", "octo")
		t.Setenv("GITHUB_REPO", "widgets")
		t.Setenv("GITHUB_WORKFLOW_ID", "ci.yml")
		t.Setenv("GITHUB_API_URL", "https://ghe.example.com/api/v3/")
		t.Setenv("REDPANDA_BROKERS", "localhost:19092, other:9092")

		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load() unexpected error: %v", err)
		}

		if cfg.GitHubToken != "test-token-12345" {
			t.Errorf("GitHubToken = %q", cfg.GitHubToken)
		}
		if cfg.DefaultOwner != "octo" || cfg.DefaultRepo != "widgets" || cfg.DefaultWorkflowID != "ci.yml" {
			t.Errorf("defaults = %q/%q/%q", cfg.DefaultOwner, cfg.DefaultRepo, cfg.DefaultWorkflowID)
		}
		if cfg.APIBaseURL != "https://ghe.example.com/api/v3" {
			t.Errorf("APIBaseURL = %q, trailing slash should be trimmed", cfg.APIBaseURL)
		}
		if len(cfg.RedpandaBrokers) != 2 || cfg.RedpandaBrokers[1] != "other:9092" {
			t.Errorf("RedpandaBrokers = %v", cfg.RedpandaBrokers)
		}
	})

	t.Run("token alias", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GITHUB_PERSONAL_ACCESS_TOKEN", "pat-token")

		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load() unexpected error: %v", err)
		}
		if cfg.GitHubToken != "pat-token" {
			t.Errorf("GitHubToken = %q, want pat-token", cfg.GitHubToken)
		}
	})

	t.Run("invalid api url", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GITHUB_API_URL", "not a url")

		if _, err := Load(""); err == nil {
			t.Error("Load() expected error for invalid API URL, got nil")
		}
	})
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "github:\n  owner: file-owner\n  repo: file-repo\nlogs:\n  bazel_folder: Custom Folder\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GITHUB_REPO", "env-repo")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.DefaultOwner != "file-owner" {
		t.Errorf("DefaultOwner = %q, want file-owner", cfg.DefaultOwner)
	}
	if cfg.DefaultRepo != "env-repo" {
		t.Errorf("DefaultRepo = %q, environment should win over file", cfg.DefaultRepo)
	}
	if cfg.BazelLogsFolder != "Custom Folder" {
		t.Errorf("BazelLogsFolder = %q", cfg.BazelLogsFolder)
	}
}

func TestConfig_Resolve(t *testing.T) {
	cfg := &Config{DefaultOwner: "octo"}

	got, err := cfg.ResolveOwner("")
	if err != nil || got != "octo" {
		t.Errorf("ResolveOwner(\"\") = %q, %v; want octo", got, err)
	}

	got, err = cfg.ResolveOwner("explicit")
	if err != nil || got != "explicit" {
		t.Errorf("ResolveOwner(explicit) = %q, %v", got, err)
	}

	_, err = cfg.ResolveRepo("")
	if !errors.Is(err, errs.ErrMissingParameter) {
		t.Fatalf("ResolveRepo(\"\") error = %v, want ErrMissingParameter", err)
	}
	if !strings.Contains(err.Error(), "GITHUB_REPO") {
		t.Errorf("error %q should name GITHUB_REPO", err)
	}

	_, err = cfg.ResolveWorkflowID("")
	if err == nil || !strings.Contains(err.Error(), "GITHUB_WORKFLOW_ID") {
		t.Errorf("ResolveWorkflowID(\"\") error = %v, want mention of GITHUB_WORKFLOW_ID", err)
	}
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GITHUB_TOKEN", "GITHUB_PERSONAL_ACCESS_TOKEN", "GITHUB_API_URL",
		"GITHUB_OWNER", "GITHUB_REPO", "GITHUB_WORKFLOW_ID",
		"LOG_OUTPUT_DIR", "BAZEL_LOGS_FOLDER", "UNZIP_PATH", "LOG_LEVEL", "LOG_FILE",
		"POSTGRES_DSN", "REDPANDA_BROKERS", "ANALYSIS_TOPIC",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}
