//go:build integration
// +build integration

package integration

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// TestFramework provides integration testing infrastructure: it builds
// the authadm binary once and runs it against a throwaway sqlite
// database in a temp directory.
type TestFramework struct {
	t          *testing.T
	tempDir    string
	binaryPath string
	configPath string
}

// NewTestFramework creates a new integration test framework
func NewTestFramework(t *testing.T) *TestFramework {
	return &TestFramework{t: t}
}

// Setup builds the binary and writes a config pointing at a fresh database
func (f *TestFramework) Setup() error {
	tempDir, err := os.MkdirTemp("", "authadm-integration-")
	if err != nil {
		return fmt.Errorf("failed to create temp dir: %w", err)
	}
	f.tempDir = tempDir

	f.binaryPath = filepath.Join(tempDir, "authadm")
	build := exec.Command("go", "build", "-o", f.binaryPath, "./cmd/authadm")
	build.Dir = repoRoot()
	if output, err := build.CombinedOutput(); err != nil {
		return fmt.Errorf("failed to build authadm binary: %w\n%s", err, output)
	}

	f.configPath = filepath.Join(tempDir, "config.toml")
	configContent := fmt.Sprintf(`
[database]
driver = "sqlite"
dsn = "%s"

[password]
bcrypt_cost = 4
`, filepath.Join(tempDir, "auth.db"))
	if err := os.WriteFile(f.configPath, []byte(configContent), 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Cleanup removes the temp directory
func (f *TestFramework) Cleanup() {
	if f.tempDir != "" {
		_ = os.RemoveAll(f.tempDir)
	}
}

// RunCommand executes authadm with the given arguments
func (f *TestFramework) RunCommand(args ...string) (string, string, error) {
	return f.RunCommandWithInput("", args...)
}

// RunCommandWithInput executes authadm feeding input on stdin, for
// commands that prompt
func (f *TestFramework) RunCommandWithInput(input string, args ...string) (string, string, error) {
	full := append([]string{"--config", f.configPath}, args...)
	cmd := exec.Command(f.binaryPath, full...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if input != "" {
		cmd.Stdin = strings.NewReader(input)
	}

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// repoRoot walks up from the working directory to the module root
func repoRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return "../.."
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			if _, err := os.Stat(filepath.Join(dir, "cmd", "authadm")); err == nil {
				return dir
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "../.."
		}
		dir = parent
	}
}
