package executor

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestExecute(t *testing.T) {
	requireShell(t)

	tests := []struct {
		name     string
		args     []string
		want     string
		wantExit int
	}{
		{"stdout captured", []string{"-c", "printf hello"}, "hello", 0},
		{"non-zero exit", []string{"-c", "echo boom >&2; exit 3"}, "", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := New().Execute(context.Background(), "sh", tt.args...)
			if tt.wantExit == 0 {
				if err != nil {
					t.Fatalf("Execute() error = %v", err)
				}
				if out != tt.want {
					t.Errorf("Execute() = %q, want %q", out, tt.want)
				}
				return
			}

			var exitErr *ExitError
			if !errors.As(err, &exitErr) {
				t.Fatalf("Execute() error = %v, want *ExitError", err)
			}
			if exitErr.ExitCode != tt.wantExit {
				t.Errorf("ExitCode = %d, want %d", exitErr.ExitCode, tt.wantExit)
			}
			if !strings.Contains(exitErr.Stderr, "boom") {
				t.Errorf("Stderr = %q, want it to contain boom", exitErr.Stderr)
			}
		})
	}
}

func TestExecuteInDir(t *testing.T) {
	requireShell(t)

	dir := t.TempDir()
	out, err := New().ExecuteInDir(context.Background(), dir, "sh", "-c", "pwd")
	if err != nil {
		t.Fatalf("ExecuteInDir() error = %v", err)
	}
	if !strings.Contains(out, dir) {
		t.Errorf("ExecuteInDir() = %q, want it to contain %q", out, dir)
	}
}

func TestExecuteMissingBinary(t *testing.T) {
	_, err := New().Execute(context.Background(), "definitely-not-a-real-binary-xyz")
	if err == nil {
		t.Fatal("Execute() should fail for a missing binary")
	}
}
