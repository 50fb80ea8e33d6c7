package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"annunciator/internal/config"
	"annunciator/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	backend    *testsupport.FakeBackend
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("ANNUNCIATOR_API_TOKEN", "")
	t.Setenv("ANNUNCIATOR_BASE_URL", "")

	fb := testsupport.NewFakeBackend(t, "cli-token")
	cfg := testsupport.NewConfig(t,
		testsupport.WithBackendURL(fb.URL),
		testsupport.WithStation("ADI", "Gujarat"),
		testsupport.WithStubbedBinaries(),
	)
	cfg.Backend.APIToken = "cli-token"
	cfg.Backend.RetryAttempts = 1

	configPath := filepath.Join(homeDir, ".config", "annunciator", "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		backend:    fb,
		configPath: configPath,
		baseDir:    base,
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader("\n"))
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	testsupport.WriteFile(t, path, data)
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q\noutput:\n%s", needle, haystack)
	}
}

func eventArgs(extra ...string) []string {
	return append([]string{
		"--train", "12951",
		"--name", "Mumbai Rajdhani",
		"--from", "Mumbai Central",
		"--to", "New Delhi",
		"--platform", "1",
	}, extra...)
}
