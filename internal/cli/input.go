package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"synthweaver/internal/core"
)

const (
	ExitSuccess           = 0
	ExitTaskFailure       = 1
	ExitInvalidInvocation = 2
	ExitConfigError       = 3
	ExitInternalError     = 4
)

// Environment variables consulted for defaults when the matching flag is absent.
const (
	EnvYosys    = "SYNTHWEAVER_YOSYS"
	EnvLogLevel = "SYNTHWEAVER_LOG_LEVEL"
	EnvJobs     = "SYNTHWEAVER_JOBS"
)

// DotEnvFile is read from the work directory. Real environment variables win.
const DotEnvFile = ".env"

type TraceConfig struct {
	Enabled bool
	Path    string
}

// CLIInvocation is the fully canonicalized description of a run.
//
// All paths are normalized (Clean) and all relative paths are resolved relative
// to WorkDir. An empty ResultPath means the result document goes to stdout.
type CLIInvocation struct {
	TasksPath  string
	WorkDir    string
	ResultPath string
	Trace      TraceConfig
	Yosys      string
	Jobs       int
	LogLevel   string
	LogFormat  string

	OriginalTasks  string
	OriginalResult string
	OriginalTrace  string
}

type InvocationError struct {
	ExitCode int
	Message  string
}

func (e *InvocationError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func invalidInvocationf(format string, args ...any) error {
	return &InvocationError{ExitCode: ExitInvalidInvocation, Message: fmt.Sprintf(format, args...)}
}

// ParseInvocation parses CLI flags into a canonical CLIInvocation.
//
// --yosys, --log-level and --jobs fall back to SYNTHWEAVER_* environment
// variables, then to <workdir>/.env, then to built-in defaults.
func ParseInvocation(args []string) (CLIInvocation, error) {
	fs := flag.NewFlagSet("synthweaver", flag.ContinueOnError)
	fs.SetOutput(io.Discard) // parsing errors are returned, not printed

	var workDir string
	var tasksPath string
	var resultPath string
	var tracePath string
	var yosys string
	var jobs string
	var logLevel string
	var logFormat string

	fs.StringVar(&workDir, "workdir", "", "Absolute working directory. Required.")
	fs.StringVar(&tasksPath, "tasks", "", "Task file (.json, .yaml, .yml or .hcl). Required.")
	fs.StringVar(&resultPath, "result", "", "Result document path (default stdout).")
	fs.StringVar(&tracePath, "trace", "", "Trace output path (optional).")
	fs.StringVar(&yosys, "yosys", "", "Synthesis binary (default yosys).")
	fs.StringVar(&jobs, "jobs", "", "Maximum tasks run concurrently (default 1).")
	fs.StringVar(&logLevel, "log-level", "", "Log level: debug|info|warn|error (default info).")
	fs.StringVar(&logFormat, "log-format", "text", "Log format: text|json")

	if err := fs.Parse(args); err != nil {
		return CLIInvocation{}, invalidInvocationf("%v", err)
	}
	if fs.NArg() != 0 {
		return CLIInvocation{}, invalidInvocationf("unexpected positional arguments: %q", strings.Join(fs.Args(), " "))
	}

	if strings.TrimSpace(workDir) == "" {
		return CLIInvocation{}, invalidInvocationf("--workdir is required")
	}
	workDir = filepath.Clean(workDir)
	if !filepath.IsAbs(workDir) {
		return CLIInvocation{}, invalidInvocationf("--workdir must be an absolute path (got %q)", workDir)
	}
	if tasksPath == "" {
		return CLIInvocation{}, invalidInvocationf("--tasks is required")
	}

	env, err := loadEnv(workDir)
	if err != nil {
		return CLIInvocation{}, err
	}
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if !set["yosys"] {
		yosys = env.get(EnvYosys, core.DefaultTool)
	}
	if strings.TrimSpace(yosys) == "" {
		return CLIInvocation{}, invalidInvocationf("--yosys must not be empty")
	}
	if !set["log-level"] {
		logLevel = env.get(EnvLogLevel, "info")
	}
	if !set["jobs"] {
		jobs = env.get(EnvJobs, "1")
	}

	parsedLevel, err := parseLogLevel(logLevel)
	if err != nil {
		return CLIInvocation{}, err
	}
	parsedFormat, err := parseLogFormat(logFormat)
	if err != nil {
		return CLIInvocation{}, err
	}
	parsedJobs, err := parseJobs(jobs)
	if err != nil {
		return CLIInvocation{}, err
	}

	resolvedTasks, err := resolveUnderWorkDir(workDir, tasksPath)
	if err != nil {
		return CLIInvocation{}, err
	}

	inv := CLIInvocation{
		WorkDir:        workDir,
		TasksPath:      resolvedTasks,
		Yosys:          yosys,
		Jobs:           parsedJobs,
		LogLevel:       parsedLevel,
		LogFormat:      parsedFormat,
		OriginalTasks:  tasksPath,
		OriginalResult: resultPath,
		OriginalTrace:  tracePath,
	}

	if strings.TrimSpace(resultPath) != "" {
		inv.ResultPath, err = resolveUnderWorkDir(workDir, resultPath)
		if err != nil {
			return CLIInvocation{}, err
		}
	}
	if strings.TrimSpace(tracePath) != "" {
		resolvedTrace, err := resolveUnderWorkDir(workDir, tracePath)
		if err != nil {
			return CLIInvocation{}, err
		}
		inv.Trace = TraceConfig{Enabled: true, Path: resolvedTrace}
	}

	return inv, nil
}

// envDefaults layers the process environment over the work directory's .env file.
type envDefaults map[string]string

func loadEnv(workDir string) (envDefaults, error) {
	p := filepath.Join(workDir, DotEnvFile)
	vals, err := godotenv.Read(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return envDefaults{}, nil
		}
		return nil, &InvocationError{ExitCode: ExitConfigError, Message: fmt.Sprintf("read %s: %v", p, err)}
	}
	return envDefaults(vals), nil
}

func (e envDefaults) get(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return v
	}
	if v := strings.TrimSpace(e[key]); v != "" {
		return v
	}
	return fallback
}

func parseLogLevel(raw string) (string, error) {
	n := strings.ToLower(strings.TrimSpace(raw))
	switch n {
	case "debug", "info", "warn", "error":
		return n, nil
	default:
		return "", invalidInvocationf("invalid --log-level %q (expected debug|info|warn|error)", raw)
	}
}

func parseLogFormat(raw string) (string, error) {
	n := strings.ToLower(strings.TrimSpace(raw))
	switch n {
	case "text", "json":
		return n, nil
	default:
		return "", invalidInvocationf("invalid --log-format %q (expected text|json)", raw)
	}
}

func parseJobs(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 0, invalidInvocationf("invalid --jobs %q (expected a positive integer)", raw)
	}
	return n, nil
}

func resolveUnderWorkDir(workDir, p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		return "", invalidInvocationf("path must not be empty")
	}
	clean := filepath.Clean(p)
	if clean == "." {
		return "", invalidInvocationf("path must not be '.'")
	}
	if filepath.IsAbs(clean) {
		return clean, nil
	}
	return filepath.Clean(filepath.Join(workDir, clean)), nil
}

// ExitCode extracts a semantic exit code from a ParseInvocation error.
// If the error is not a known invocation error, it returns ExitInternalError.
func ExitCode(err error) int {
	var invErr *InvocationError
	if errors.As(err, &invErr) && invErr != nil {
		if invErr.ExitCode != 0 {
			return invErr.ExitCode
		}
		return ExitInvalidInvocation
	}
	if err == nil {
		return ExitSuccess
	}
	return ExitInternalError
}
