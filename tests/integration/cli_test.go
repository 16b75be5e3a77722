//go:build integration

package integration

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCLI_Ask(t *testing.T) {
	skipIfNoAPIKey(t)

	result := runCLI(t, "ask", "Say 'hello' and nothing else.")

	if result.ExitCode != 0 {
		t.Errorf("Exit code = %d, want 0\nStderr: %s", result.ExitCode, result.Stderr)
	}

	if result.Stdout == "" {
		t.Error("Stdout is empty")
	}

	t.Logf("Output: %s", result.Stdout)
}

func TestCLI_Ask_Streaming(t *testing.T) {
	skipIfNoAPIKey(t)

	result := runCLI(t, "ask", "Count from 1 to 3.", "--stream")

	if result.ExitCode != 0 {
		t.Errorf("Exit code = %d, want 0\nStderr: %s", result.ExitCode, result.Stderr)
	}

	if result.Stdout == "" {
		t.Error("Stdout is empty")
	}

	t.Logf("Output: %s", result.Stdout)
}

func TestCLI_Ask_JSON(t *testing.T) {
	skipIfNoAPIKey(t)

	result := runCLI(t, "ask", "Say hello.", "--json")

	if result.ExitCode != 0 {
		t.Errorf("Exit code = %d, want 0\nStderr: %s", result.ExitCode, result.Stderr)
	}

	// Verify valid JSON
	var output map[string]any
	if err := json.Unmarshal([]byte(result.Stdout), &output); err != nil {
		t.Fatalf("Output is not valid JSON: %v\nOutput: %s", err, result.Stdout)
	}

	if _, ok := output["content"]; !ok {
		t.Error("JSON output missing 'content' field")
	}

	t.Logf("JSON Output: %s", result.Stdout)
}

func TestCLI_Ask_MissingKey(t *testing.T) {
	if os.Getenv("LUMEN_API_KEY") != "" {
		t.Skip("LUMEN_API_KEY set; cannot test missing-key path")
	}

	result := runCLI(t, "ask", "Hello")

	if result.ExitCode == 0 {
		t.Error("Expected non-zero exit code for missing API key")
	}

	if !strings.Contains(result.Stderr, "API key") {
		t.Errorf("Stderr should mention API key, got: %s", result.Stderr)
	}
}

func TestCLI_Init(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	result := runCLI(t, "init", "--config", configPath)

	if result.ExitCode != 0 {
		t.Errorf("Exit code = %d, want 0\nStderr: %s", result.ExitCode, result.Stderr)
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("Config file not created: %v", err)
	}

	if !strings.Contains(string(content), "default_model") {
		t.Error("config should contain 'default_model'")
	}

	// Second init must refuse to overwrite
	result = runCLI(t, "init", "--config", configPath)
	if result.ExitCode == 0 {
		t.Error("Expected non-zero exit code for existing config")
	}
	if !strings.Contains(result.Stderr, "exists") {
		t.Errorf("Stderr should mention exists, got: %s", result.Stderr)
	}
}

func TestCLI_Keys(t *testing.T) {
	// Use a unique key name to avoid conflicts
	name := "testkey-integration"
	testKey := "test-api-key-12345"

	// Set key
	result := runCLIWithStdin(t, testKey+"\n", "keys", "set", name)
	if result.ExitCode != 0 {
		t.Errorf("keys set exit code = %d, want 0\nStderr: %s", result.ExitCode, result.Stderr)
	}

	// List keys
	result = runCLI(t, "keys", "list")
	if result.ExitCode != 0 {
		t.Errorf("keys list exit code = %d, want 0\nStderr: %s", result.ExitCode, result.Stderr)
	}

	if !strings.Contains(result.Stdout, name) {
		t.Errorf("keys list should contain %s, got: %s", name, result.Stdout)
	}

	// Delete key
	result = runCLI(t, "keys", "delete", name)
	if result.ExitCode != 0 {
		t.Errorf("keys delete exit code = %d, want 0\nStderr: %s", result.ExitCode, result.Stderr)
	}

	// Verify deleted
	result = runCLI(t, "keys", "list")
	if strings.Contains(result.Stdout, name) {
		t.Errorf("keys list should not contain %s after delete", name)
	}
}

func TestCLI_Version(t *testing.T) {
	result := runCLI(t, "version")

	if result.ExitCode != 0 {
		t.Errorf("Exit code = %d, want 0", result.ExitCode)
	}

	if !strings.Contains(result.Stdout, "lumen") {
		t.Errorf("Version output should mention lumen, got: %s", result.Stdout)
	}
}

func TestCLI_Help(t *testing.T) {
	result := runCLI(t, "--help")

	if result.ExitCode != 0 {
		t.Errorf("Exit code = %d, want 0", result.ExitCode)
	}

	if !strings.Contains(result.Stdout, "lumen") {
		t.Error("Help should mention lumen")
	}

	// Check for main commands
	commands := []string{"ask", "imagine", "moderate", "keys", "init"}
	for _, cmd := range commands {
		if !strings.Contains(result.Stdout, cmd) {
			t.Errorf("Help should mention '%s' command", cmd)
		}
	}
}
