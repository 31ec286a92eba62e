package taskfile

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"synthweaver/internal/fileset"
	"synthweaver/internal/script"
)

// hclFile is the top-level structure of an HCL task file:
//
//	task "cpu" {
//	  kind   = "synth_ice40"
//	  rundir = "build/cpu"
//
//	  fileset "systemVerilogSource" {
//	    basedir = "${root}/rtl"
//	    files   = ["top.sv"]
//	  }
//
//	  params {
//	    top = "cpu"
//	    dff = true
//	  }
//	}
type hclFile struct {
	Tasks []*hclTask `hcl:"task,block"`
}

type hclTask struct {
	Name     string        `hcl:"name,label"`
	Kind     string        `hcl:"kind"`
	RunDir   string        `hcl:"rundir,optional"`
	FileSets []*hclFileSet `hcl:"fileset,block"`
	Params   *hclParams    `hcl:"params,block"`
}

type hclFileSet struct {
	Filetype   string   `hcl:"filetype,label"`
	Type       string   `hcl:"type,optional"`
	BaseDir    string   `hcl:"basedir,optional"`
	Files      []string `hcl:"files,optional"`
	IncDirs    []string `hcl:"incdirs,optional"`
	Attributes []string `hcl:"attributes,optional"`
}

// hclParams defers decoding until the task kind is known.
type hclParams struct {
	Body hcl.Body `hcl:",remain"`
}

// evalContext exposes the task file directory as `root` and the work
// directory as `workdir`.
func evalContext(root, workDir string) *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"root":    cty.StringVal(root),
			"workdir": cty.StringVal(workDir),
		},
	}
}

func decodeHCL(b []byte, filename, root, workDir string) ([]rawTask, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(b, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	ctx := evalContext(root, workDir)
	var f hclFile
	if diags := gohcl.DecodeBody(file.Body, ctx, &f); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	raws := make([]rawTask, 0, len(f.Tasks))
	for _, t := range f.Tasks {
		kind := script.Kind(t.Kind)
		params, err := newParams(t.Name, kind)
		if err != nil {
			return nil, err
		}
		if t.Params != nil {
			if diags := gohcl.DecodeBody(t.Params.Body, ctx, params); diags.HasErrors() {
				return nil, fmt.Errorf("task %q: decode params: %w", t.Name, diags)
			}
		}

		inputs := make([]fileset.FileSet, 0, len(t.FileSets))
		for _, fs := range t.FileSets {
			inputs = append(inputs, fileset.FileSet{
				Type:       fs.Type,
				Filetype:   fs.Filetype,
				BaseDir:    fs.BaseDir,
				Files:      fs.Files,
				IncDirs:    fs.IncDirs,
				Attributes: fs.Attributes,
			})
		}
		raws = append(raws, rawTask{Name: t.Name, Kind: kind, RunDir: t.RunDir, Inputs: inputs, Params: params})
	}
	return raws, nil
}
