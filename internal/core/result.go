package core

import (
	"synthweaver/internal/fileset"
	"synthweaver/internal/script"
)

// StatusNotRun is the status reported when the tool did not run to
// completion, including cancellation.
const StatusNotRun = -1

// Result is the outcome of a single task run.
type Result struct {
	Task string
	Kind script.Kind

	// Status is the tool's exit status; 0 means success.
	Status int

	// Output holds zero or one artifacts. It is empty whenever Status is
	// nonzero, and also when the tool succeeded without producing the
	// predicted file.
	Output []fileset.FileSet

	// Script is the absolute path of the generated script.
	Script string

	// ScriptDigest is the sha256 of the script bytes.
	ScriptDigest string
}

// Succeeded reports whether the tool exited with status 0.
func (r *Result) Succeeded() bool {
	return r != nil && r.Status == 0
}
