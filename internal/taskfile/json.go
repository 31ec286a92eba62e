package taskfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"synthweaver/internal/fileset"
	"synthweaver/internal/script"
)

type jsonFile struct {
	Tasks []jsonTask `json:"tasks"`
}

type jsonTask struct {
	Name   string            `json:"name"`
	Kind   string            `json:"kind"`
	RunDir string            `json:"rundir,omitempty"`
	Inputs []fileset.FileSet `json:"inputs,omitempty"`
	Params json.RawMessage   `json:"params,omitempty"`
}

// decodeJSON disallows unknown fields and trailing data.
func decodeJSON(b []byte) ([]rawTask, error) {
	var f jsonFile
	if err := decodeStrict(b, &f); err != nil {
		return nil, fmt.Errorf("parse task json: %w", err)
	}

	raws := make([]rawTask, 0, len(f.Tasks))
	for _, t := range f.Tasks {
		kind := script.Kind(t.Kind)
		params, err := newParams(t.Name, kind)
		if err != nil {
			return nil, err
		}
		if len(t.Params) > 0 {
			if err := decodeStrict(t.Params, params); err != nil {
				return nil, fmt.Errorf("task %q: parse params: %w", t.Name, err)
			}
		}
		raws = append(raws, rawTask{Name: t.Name, Kind: kind, RunDir: t.RunDir, Inputs: t.Inputs, Params: params})
	}
	return raws, nil
}

func decodeStrict(b []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	// Ensure there is no trailing garbage (including a second JSON value).
	var trailing any
	if err := dec.Decode(&trailing); err != io.EOF {
		if err == nil {
			return fmt.Errorf("trailing data")
		}
		return err
	}
	return nil
}
