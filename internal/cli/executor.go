package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"synthweaver/internal/core"
	"synthweaver/internal/ctxlog"
	"synthweaver/internal/fileset"
	"synthweaver/internal/taskfile"
	"synthweaver/internal/trace"
)

// TaskResult is one entry of the result document.
type TaskResult struct {
	Name   string            `json:"name"`
	Kind   string            `json:"kind"`
	Status int               `json:"status"`
	Output []fileset.FileSet `json:"output"`
	Error  string            `json:"error,omitempty"`
}

// ResultDocument is written to --result (or stdout) after every run that got
// as far as loading its task file.
type ResultDocument struct {
	Tasks []TaskResult `json:"tasks"`
}

type CLIResult struct {
	ExitCode int
	Results  []TaskResult
}

// Executor wires an invocation to the task runner. Zero values select the
// real process runner and the process's stdout and stderr.
type Executor struct {
	Process core.ProcessRunner
	Stdout  io.Writer
	Stderr  io.Writer
}

// Execute runs inv with a default Executor.
func Execute(ctx context.Context, inv CLIInvocation) (CLIResult, error) {
	return Executor{}.Execute(ctx, inv)
}

// Execute maps a canonical CLIInvocation to task execution.
//
// Responsibilities:
//   - Load and validate the task file (config errors exit 3).
//   - Run tasks concurrently up to inv.Jobs.
//   - Write the result document and, when enabled, the trace.
//   - Translate task outcomes to semantic exit codes.
func (e Executor) Execute(ctx context.Context, inv CLIInvocation) (res CLIResult, execErr error) {
	res.ExitCode = ExitInternalError
	stdout, stderr := e.Stdout, e.Stderr
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	process := e.Process
	if process == nil {
		process = core.NewExecutor()
	}

	logger := newLogger(inv.LogLevel, inv.LogFormat, stderr)
	ctx = ctxlog.WithLogger(ctx, logger)

	logger.Debug("Invocation.",
		"workdir", inv.WorkDir,
		"tasks", inv.OriginalTasks,
		"result", inv.OriginalResult,
		"trace", inv.OriginalTrace,
		"yosys", inv.Yosys,
	)

	tf, err := taskfile.Load(inv.TasksPath, inv.WorkDir)
	if err != nil {
		res.ExitCode = ExitConfigError
		return res, err
	}
	logger.Info("Loaded tasks.", "file", tf.Path, "tasks", len(tf.Tasks), "jobs", inv.Jobs)

	if inv.Trace.Enabled {
		if err := os.MkdirAll(filepath.Dir(inv.Trace.Path), 0o755); err != nil {
			res.ExitCode = ExitConfigError
			return res, fmt.Errorf("create trace dir: %w", err)
		}
	}

	rec := trace.NewRecorder()
	runner := core.NewRunner(inv.Yosys, process)
	runner.Trace = rec

	results := make([]*core.Result, len(tf.Tasks))
	errs := make([]error, len(tf.Tasks))

	// Tasks are independent; one failing task does not cancel the others.
	var g errgroup.Group
	g.SetLimit(inv.Jobs)
	for i, task := range tf.Tasks {
		i, task := i, task
		g.Go(func() error {
			results[i], errs[i] = runner.Run(ctx, task)
			return nil
		})
	}
	_ = g.Wait()

	res.ExitCode = ExitSuccess
	res.Results = make([]TaskResult, len(tf.Tasks))
	var firstErr error
	for i, task := range tf.Tasks {
		tr := TaskResult{Name: task.Name, Kind: string(task.Kind), Status: core.StatusNotRun, Output: []fileset.FileSet{}}
		if r := results[i]; r != nil {
			tr.Status = r.Status
			tr.Output = r.Output
		}
		if errs[i] != nil {
			tr.Error = errs[i].Error()
			if firstErr == nil {
				firstErr = errs[i]
			}
		}
		res.ExitCode = max(res.ExitCode, exitCodeFor(results[i], errs[i]))
		res.Results[i] = tr
	}

	if err := writeResult(inv.ResultPath, stdout, ResultDocument{Tasks: res.Results}); err != nil {
		res.ExitCode = ExitInternalError
		return res, err
	}
	if inv.Trace.Enabled {
		b, err := rec.Trace(tf.Hash).CanonicalJSON()
		if err == nil {
			err = writeFileAtomic(inv.Trace.Path, b, 0o644)
		}
		if err != nil {
			res.ExitCode = ExitInternalError
			return res, fmt.Errorf("write trace: %w", err)
		}
	}

	logger.Info("Run complete.", "exit", res.ExitCode)
	return res, firstErr
}

// exitCodeFor ranks one task outcome. A task that never produced a Result
// failed validation or could not prepare its run directory; one that did
// but still errored could not run the tool at all.
func exitCodeFor(r *core.Result, err error) int {
	switch {
	case r == nil && err != nil:
		return ExitConfigError
	case err != nil:
		return ExitInternalError
	case r != nil && r.Status != 0:
		return ExitTaskFailure
	}
	return ExitSuccess
}

func writeResult(path string, stdout io.Writer, doc ResultDocument) error {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	b = append(b, '\n')
	if path == "" {
		_, err := stdout.Write(b)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create result dir: %w", err)
	}
	return writeFileAtomic(path, b, 0o644)
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	tmp, err := os.CreateTemp(dir, base+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	_ = tmp.Sync() // best-effort durability
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
