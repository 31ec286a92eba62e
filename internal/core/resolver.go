package core

import (
	"fmt"
	"os"

	"synthweaver/internal/fileset"
	"synthweaver/internal/script"
)

// Resolver turns a tool's exit status and the composer's prediction into
// an output artifact.
type Resolver struct {
	// RunDir is where predicted outputs are looked up and the artifact's
	// BaseDir.
	RunDir string
}

// NewResolver creates a Resolver for a run directory.
func NewResolver(runDir string) *Resolver {
	return &Resolver{RunDir: runDir}
}

// Resolve returns the artifact for plan, or nil.
//
// No artifact is produced when status is nonzero, when the plan predicts no
// output, or when the predicted file is missing. A missing file after a
// successful run is not an error. Only an unexpected stat failure is.
func (r *Resolver) Resolve(status int, plan script.Plan, src string) (*fileset.FileSet, error) {
	if status != 0 || plan.Output == "" {
		return nil, nil
	}

	path := plan.OutputPath(r.RunDir)
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat output %q: %w", plan.Output, err)
	}
	if info.IsDir() {
		return nil, nil
	}

	attrs := make([]string, len(plan.Attributes))
	copy(attrs, plan.Attributes)

	return &fileset.FileSet{
		Type:       fileset.TypeFileSet,
		Src:        src,
		Filetype:   plan.Filetype,
		BaseDir:    r.RunDir,
		Files:      []string{plan.Output},
		Attributes: attrs,
	}, nil
}

// Clean removes a stale predicted output left by an earlier run in the
// same directory.
func (r *Resolver) Clean(plan script.Plan) error {
	if plan.Output == "" {
		return nil
	}
	if err := os.Remove(plan.OutputPath(r.RunDir)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing %q: %w", plan.Output, err)
	}
	return nil
}
