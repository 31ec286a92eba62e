package cli

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// clearEnv blanks the variables ParseInvocation reads so host settings do
// not leak into tests.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvYosys, EnvLogLevel, EnvJobs} {
		t.Setenv(k, "")
	}
}

func TestParseInvocation_DeterministicStruct(t *testing.T) {
	clearEnv(t)
	workDir := t.TempDir()
	args := []string{
		"--workdir", workDir,
		"--tasks", "defs/../tasks.yaml",
		"--result", "./out/..//result.json",
		"--trace", "traces/../trace.json",
	}

	inv1, err := ParseInvocation(args)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	inv2, err := ParseInvocation(args)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(inv1, inv2) {
		t.Fatalf("expected identical invocations, got\n%#v\n%#v", inv1, inv2)
	}

	if inv1.WorkDir != filepath.Clean(workDir) {
		t.Fatalf("workdir not canonicalized: %q", inv1.WorkDir)
	}
	if inv1.TasksPath != filepath.Join(workDir, "tasks.yaml") {
		t.Fatalf("tasks path not resolved/canonicalized: %q", inv1.TasksPath)
	}
	if inv1.ResultPath != filepath.Join(workDir, "result.json") {
		t.Fatalf("result path not resolved/canonicalized: %q", inv1.ResultPath)
	}
	if !inv1.Trace.Enabled || inv1.Trace.Path != filepath.Join(workDir, "trace.json") {
		t.Fatalf("trace not resolved/canonicalized: %#v", inv1.Trace)
	}
}

func TestParseInvocation_Defaults(t *testing.T) {
	clearEnv(t)
	inv, err := ParseInvocation([]string{"--workdir", t.TempDir(), "--tasks", "t.json"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inv.Yosys != "yosys" || inv.Jobs != 1 || inv.LogLevel != "info" || inv.LogFormat != "text" {
		t.Fatalf("unexpected defaults: %#v", inv)
	}
	if inv.ResultPath != "" || inv.Trace.Enabled {
		t.Fatalf("result and trace should be unset: %#v", inv)
	}
}

func TestParseInvocation_ResolvesRelativePathsAgainstWorkDir_NotCwd(t *testing.T) {
	clearEnv(t)
	workDir := t.TempDir()
	otherCwd := t.TempDir()

	oldCwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldCwd) })

	if err := os.Chdir(otherCwd); err != nil {
		t.Fatalf("Chdir failed: %v", err)
	}

	inv, err := ParseInvocation([]string{"--workdir", workDir, "--tasks", "t.hcl", "--result", "r.json"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inv.TasksPath != filepath.Join(workDir, "t.hcl") {
		t.Fatalf("expected tasks under workdir, got %q", inv.TasksPath)
	}
	if inv.ResultPath != filepath.Join(workDir, "r.json") {
		t.Fatalf("expected result under workdir, got %q", inv.ResultPath)
	}
}

func TestParseInvocation_EnvironmentDefaults(t *testing.T) {
	clearEnv(t)
	workDir := t.TempDir()
	args := []string{"--workdir", workDir, "--tasks", "t.json"}

	t.Setenv(EnvYosys, "/opt/yosys/bin/yosys")
	t.Setenv(EnvJobs, "4")
	t.Setenv(EnvLogLevel, "debug")

	inv, err := ParseInvocation(args)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inv.Yosys != "/opt/yosys/bin/yosys" || inv.Jobs != 4 || inv.LogLevel != "debug" {
		t.Fatalf("environment not applied: %#v", inv)
	}

	// Flags win.
	inv, err = ParseInvocation(append(args, "--yosys", "yowasp-yosys", "--jobs", "2", "--log-level", "warn"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inv.Yosys != "yowasp-yosys" || inv.Jobs != 2 || inv.LogLevel != "warn" {
		t.Fatalf("flags did not override environment: %#v", inv)
	}
}

func TestParseInvocation_DotEnvFile(t *testing.T) {
	clearEnv(t)
	workDir := t.TempDir()
	dotenv := "SYNTHWEAVER_YOSYS=/tools/yosys\nSYNTHWEAVER_JOBS=3\n"
	if err := os.WriteFile(filepath.Join(workDir, DotEnvFile), []byte(dotenv), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	inv, err := ParseInvocation([]string{"--workdir", workDir, "--tasks", "t.json"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inv.Yosys != "/tools/yosys" || inv.Jobs != 3 {
		t.Fatalf(".env not applied: %#v", inv)
	}

	// A real environment variable beats the file.
	t.Setenv(EnvYosys, "/env/yosys")
	inv, err = ParseInvocation([]string{"--workdir", workDir, "--tasks", "t.json"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inv.Yosys != "/env/yosys" {
		t.Fatalf("environment should beat .env, got %q", inv.Yosys)
	}
}

func TestParseInvocation_WorkDirIsMandatoryAndAbsolute(t *testing.T) {
	clearEnv(t)
	_, err := ParseInvocation([]string{"--tasks", "t.json"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if ExitCode(err) != ExitInvalidInvocation {
		t.Fatalf("expected exit code %d, got %d", ExitInvalidInvocation, ExitCode(err))
	}

	_, err = ParseInvocation([]string{"--workdir", "relative", "--tasks", "t.json"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if ExitCode(err) != ExitInvalidInvocation {
		t.Fatalf("expected exit code %d, got %d", ExitInvalidInvocation, ExitCode(err))
	}
}

func TestParseInvocation_InvalidValues(t *testing.T) {
	clearEnv(t)
	workDir := t.TempDir()
	cases := map[string][]string{
		"missing tasks":  {"--workdir", workDir},
		"bad jobs":       {"--workdir", workDir, "--tasks", "t.json", "--jobs", "0"},
		"non-int jobs":   {"--workdir", workDir, "--tasks", "t.json", "--jobs", "many"},
		"bad log level":  {"--workdir", workDir, "--tasks", "t.json", "--log-level", "trace"},
		"bad log format": {"--workdir", workDir, "--tasks", "t.json", "--log-format", "xml"},
		"empty yosys":    {"--workdir", workDir, "--tasks", "t.json", "--yosys", ""},
		"unknown flag":   {"--workdir", workDir, "--tasks", "t.json", "--mode", "clean"},
		"positional":     {"--workdir", workDir, "--tasks", "t.json", "extra"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseInvocation(args)
			if err == nil {
				t.Fatalf("expected error")
			}
			if ExitCode(err) != ExitInvalidInvocation {
				t.Fatalf("expected exit code %d, got %d (%v)", ExitInvalidInvocation, ExitCode(err), err)
			}
		})
	}
}
