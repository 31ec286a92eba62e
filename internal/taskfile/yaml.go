package taskfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"synthweaver/internal/fileset"
	"synthweaver/internal/script"
)

type yamlFile struct {
	Tasks []yamlTask `yaml:"tasks"`
}

type yamlTask struct {
	Name   string            `yaml:"name"`
	Kind   string            `yaml:"kind"`
	RunDir string            `yaml:"rundir,omitempty"`
	Inputs []fileset.FileSet `yaml:"inputs,omitempty"`
	Params yaml.Node         `yaml:"params,omitempty"`
}

func decodeYAML(b []byte) ([]rawTask, error) {
	var f yamlFile
	if err := decodeYAMLStrict(b, &f); err != nil {
		return nil, fmt.Errorf("parse task yaml: %w", err)
	}

	raws := make([]rawTask, 0, len(f.Tasks))
	for _, t := range f.Tasks {
		kind := script.Kind(t.Kind)
		params, err := newParams(t.Name, kind)
		if err != nil {
			return nil, err
		}
		if !t.Params.IsZero() {
			// yaml.Node.Decode has no strict mode; round-trip through a
			// strict decoder instead.
			pb, err := yaml.Marshal(&t.Params)
			if err != nil {
				return nil, fmt.Errorf("task %q: params: %w", t.Name, err)
			}
			if err := decodeYAMLStrict(pb, params); err != nil {
				return nil, fmt.Errorf("task %q: parse params: %w", t.Name, err)
			}
		}
		raws = append(raws, rawTask{Name: t.Name, Kind: kind, RunDir: t.RunDir, Inputs: t.Inputs, Params: params})
	}
	return raws, nil
}

func decodeYAMLStrict(b []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("empty document")
		}
		return err
	}
	return nil
}
