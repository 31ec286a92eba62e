package taskfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"synthweaver/internal/core"
	"synthweaver/internal/fileset"
	"synthweaver/internal/script"
	"synthweaver/internal/trace"
)

// File is a loaded, validated task file.
type File struct {
	Path string

	// Hash is the digest of the file bytes.
	Hash string

	// Tasks are in file order.
	Tasks []*core.Task
}

// rawTask is the format-neutral shape every decoder produces.
type rawTask struct {
	Name   string
	Kind   script.Kind
	RunDir string
	Inputs []fileset.FileSet
	Params any
}

// Load reads path and returns its tasks. workDir must be absolute.
func Load(path, workDir string) (*File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read task file: %w", err)
	}

	root := filepath.Dir(path)
	var raws []rawTask
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		raws, err = decodeJSON(b)
	case ".yaml", ".yml":
		raws, err = decodeYAML(b)
	case ".hcl":
		raws, err = decodeHCL(b, path, root, workDir)
	default:
		return nil, fmt.Errorf("unsupported task file extension %q (expected .json, .yaml, .yml or .hcl)", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}
	if len(raws) == 0 {
		return nil, fmt.Errorf("parse task file %s: no tasks", path)
	}

	tasks, err := buildTasks(raws, root, workDir)
	if err != nil {
		return nil, err
	}
	return &File{Path: path, Hash: trace.Digest(b), Tasks: tasks}, nil
}

// newParams validates kind and allocates its parameter value.
func newParams(name string, kind script.Kind) (any, error) {
	p, err := script.NewParams(kind)
	if err != nil {
		return nil, fmt.Errorf("task %q: %w", name, err)
	}
	return p, nil
}

func buildTasks(raws []rawTask, root, workDir string) ([]*core.Task, error) {
	names := make(map[string]struct{}, len(raws))
	runDirs := make(map[string]string, len(raws))
	tasks := make([]*core.Task, 0, len(raws))

	for _, r := range raws {
		if strings.TrimSpace(r.Name) == "" {
			return nil, fmt.Errorf("task name is required")
		}
		if _, dup := names[r.Name]; dup {
			return nil, fmt.Errorf("duplicate task name %q", r.Name)
		}
		names[r.Name] = struct{}{}

		runDir := r.RunDir
		if runDir == "" {
			runDir = filepath.Join("build", r.Name)
		}
		runDir = resolve(workDir, runDir)
		if other, taken := runDirs[runDir]; taken {
			return nil, fmt.Errorf("tasks %q and %q share run directory %s", other, r.Name, runDir)
		}
		runDirs[runDir] = r.Name

		inputs := make([]fileset.FileSet, len(r.Inputs))
		for i, fs := range r.Inputs {
			if fs.Type == "" {
				fs.Type = fileset.TypeFileSet
			}
			switch {
			case strings.TrimSpace(fs.BaseDir) != "":
				fs.BaseDir = resolve(root, fs.BaseDir)
			case hasMembers(fs):
				fs.BaseDir = root
			}
			inputs[i] = fs
		}

		tasks = append(tasks, &core.Task{
			Name:   r.Name,
			Kind:   r.Kind,
			RunDir: runDir,
			Inputs: inputs,
			Params: r.Params,
		})
	}
	return tasks, nil
}

// hasMembers reports whether fs lists paths that need a base directory. A
// blank verilogIncDir marker, or a libertyLib set with no files, has none
// and stays blank so classification drops it.
func hasMembers(fs fileset.FileSet) bool {
	switch fs.Filetype {
	case fileset.FiletypeVerilogIncDir:
		return false
	case fileset.FiletypeLiberty:
		return len(fs.Files) > 0
	}
	return len(fs.Files) > 0 || len(fs.IncDirs) > 0
}

func resolve(base, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Clean(filepath.Join(base, p))
}
