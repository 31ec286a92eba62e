package core

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
)

// ProcessRunner executes an external tool and reports its exit status.
//
// A nonzero status is not an error. An error means the tool could not be
// run to completion; the returned status is then nonzero as well.
type ProcessRunner interface {
	Execute(ctx context.Context, dir string, argv []string, logfile string) (int, error)
}

// Executor runs tools as child processes of the current program.
type Executor struct {
	// Env, when non-nil, replaces the inherited environment.
	Env []string
}

// NewExecutor creates an Executor that inherits the host environment.
func NewExecutor() *Executor {
	return &Executor{}
}

// Execute runs argv in dir and streams stdout and stderr into dir/logfile.
//
// The child is placed in its own process group. When ctx is cancelled the
// whole group is killed and StatusNotRun is returned with the context error.
func (e *Executor) Execute(ctx context.Context, dir string, argv []string, logfile string) (int, error) {
	if len(argv) == 0 {
		return StatusNotRun, fmt.Errorf("empty command")
	}

	logPath := logfile
	if !filepath.IsAbs(logPath) {
		logPath = filepath.Join(dir, logfile)
	}
	// O_APPEND keeps our writes at the end if the tool reopens the same log.
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return StatusNotRun, fmt.Errorf("open log: %w", err)
	}
	defer logFile.Close()

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = dir
	if e.Env != nil {
		cmd.Env = e.Env
	}
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	// Set process group so we can kill the entire process tree on cancellation
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		return StatusNotRun, fmt.Errorf("failed to start %s: %w", argv[0], err)
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	cancelled, err := waitOrKill(ctx, done, func() {
		if cmd.Process != nil {
			_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		}
	})
	if cancelled {
		return StatusNotRun, fmt.Errorf("execution cancelled: %w", ctx.Err())
	}

	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			// ExitCode is -1 when the child was killed by a signal.
			return exitErr.ExitCode(), nil
		}
		return StatusNotRun, fmt.Errorf("failed to execute %s: %w", argv[0], err)
	}
	return 0, nil
}

// waitOrKill waits for the child's exit on done. On cancellation it kills
// the child unless it has already exited, in which case the real exit is
// reported.
func waitOrKill(ctx context.Context, done <-chan error, kill func()) (bool, error) {
	select {
	case err := <-done:
		return false, err
	case <-ctx.Done():
	}
	select {
	case err := <-done:
		return false, err
	default:
	}
	kill()
	<-done
	return true, nil
}
