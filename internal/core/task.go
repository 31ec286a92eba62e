package core

import (
	"synthweaver/internal/fileset"
	"synthweaver/internal/script"
)

// Task is one invocation of a synthesis, formal or raw-script kind.
type Task struct {
	// Name identifies the task and becomes the Src of produced artifacts.
	Name string

	Kind script.Kind

	// RunDir is the absolute directory receiving the script, log and output.
	RunDir string

	// Inputs are the caller's collections, in discovery order. They are
	// never mutated.
	Inputs []fileset.FileSet

	// Params is the value returned by script.NewParams for Kind, or nil for
	// all defaults.
	Params any
}
