package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"synthweaver/internal/ctxlog"
	"synthweaver/internal/fileset"
	"synthweaver/internal/script"
	"synthweaver/internal/trace"
)

// DefaultTool is the synthesis binary used when none is configured.
const DefaultTool = "yosys"

// Runner executes tasks through the compose, execute, resolve sequence.
type Runner struct {
	// Tool is the synthesis binary placed at argv[0].
	Tool string

	// Process runs the tool.
	Process ProcessRunner

	// Trace receives one event per phase. Optional.
	Trace trace.Sink
}

// NewRunner creates a Runner that executes tool with process.
func NewRunner(tool string, process ProcessRunner) *Runner {
	if tool == "" {
		tool = DefaultTool
	}
	return &Runner{Tool: tool, Process: process, Trace: trace.NopSink{}}
}

// Run executes a task.
//
// Errors are returned only for construction failures (invalid task, run
// directory not writable, tool not startable, cancellation). A tool that
// exits nonzero is reported through Result.Status with a nil error. When an
// error is returned after the script was written, the Result is still
// populated with a nonzero Status and no output.
//
// Any predicted output left in the run directory by an earlier run is
// removed before the tool starts, so an artifact is always a file this run
// wrote.
func (r *Runner) Run(ctx context.Context, task *Task) (*Result, error) {
	if err := r.validateTask(task); err != nil {
		return nil, err
	}
	logger := ctxlog.FromContext(ctx).With("task", task.Name, "kind", string(task.Kind))

	if err := os.MkdirAll(task.RunDir, 0o755); err != nil {
		return nil, fmt.Errorf("create run dir: %w", err)
	}

	// Phase 1: compose and write the script.
	src := fileset.Classify(task.Inputs)
	plan, err := script.Compose(task.Kind, src, task.Params, task.RunDir)
	if err != nil {
		return nil, err
	}
	scriptPath := plan.ScriptPath(task.RunDir)
	if err := plan.Script.WriteFile(scriptPath); err != nil {
		return nil, err
	}
	digest := trace.Digest(plan.Script.Bytes())
	trace.SafeRecord(r.Trace, trace.TraceEvent{Kind: trace.EventTaskScripted, TaskID: task.Name, Digest: digest})
	logger.Debug("Script written.", "script", scriptPath, "sources", len(src.Files), "libraries", len(src.Libraries))

	res := &Result{
		Task:         task.Name,
		Kind:         task.Kind,
		Status:       StatusNotRun,
		Output:       []fileset.FileSet{},
		Script:       scriptPath,
		ScriptDigest: digest,
	}

	resolver := NewResolver(task.RunDir)
	if err := resolver.Clean(plan); err != nil {
		return res, err
	}

	// Phase 2: run the tool.
	argv := []string{r.Tool, "-l", plan.LogName, scriptPath}
	logger.Debug("Executing tool.", "argv", argv)
	status, err := r.Process.Execute(ctx, task.RunDir, argv, plan.LogName)
	if err != nil {
		if status == 0 {
			status = StatusNotRun
		}
		res.Status = status
		trace.SafeRecord(r.Trace, trace.TraceEvent{Kind: trace.EventTaskFailed, TaskID: task.Name, Reason: failureReason(ctx, status)})
		logger.Error("Tool did not complete.", "error", err)
		return res, fmt.Errorf("task %s: %w", task.Name, err)
	}
	res.Status = status
	if status != 0 {
		trace.SafeRecord(r.Trace, trace.TraceEvent{Kind: trace.EventTaskFailed, TaskID: task.Name, Reason: failureReason(ctx, status)})
		logger.Warn("Tool failed.", "status", status, "log", filepath.Join(task.RunDir, plan.LogName))
		return res, nil
	}
	trace.SafeRecord(r.Trace, trace.TraceEvent{Kind: trace.EventTaskExecuted, TaskID: task.Name})

	// Phase 3: resolve the predicted output.
	artifact, err := resolver.Resolve(status, plan, task.Name)
	if err != nil {
		return res, fmt.Errorf("resolving output: %w", err)
	}
	if artifact == nil {
		trace.SafeRecord(r.Trace, trace.TraceEvent{Kind: trace.EventTaskOutputAbsent, TaskID: task.Name})
		logger.Info("Task finished without output.", "expected", plan.Output)
		return res, nil
	}
	res.Output = append(res.Output, *artifact)
	trace.SafeRecord(r.Trace, trace.TraceEvent{
		Kind:      trace.EventTaskOutputResolved,
		TaskID:    task.Name,
		Artifacts: []string{filepath.Join(artifact.BaseDir, artifact.Files[0])},
	})
	logger.Info("Task finished.", "output", plan.Output, "attributes", artifact.Attributes)
	return res, nil
}

// validateTask ensures the task is valid before execution.
func (r *Runner) validateTask(task *Task) error {
	if task == nil {
		return fmt.Errorf("task is nil")
	}
	if task.Name == "" {
		return fmt.Errorf("task name is required")
	}
	if task.RunDir == "" {
		return fmt.Errorf("task %s: run directory is required", task.Name)
	}
	if !filepath.IsAbs(task.RunDir) {
		return fmt.Errorf("task %s: run directory must be absolute (got %q)", task.Name, task.RunDir)
	}
	if r.Process == nil {
		return fmt.Errorf("runner has no process runner")
	}
	return nil
}

func failureReason(ctx context.Context, status int) string {
	if ctx.Err() != nil {
		return "cancelled"
	}
	return "exit=" + strconv.Itoa(status)
}
