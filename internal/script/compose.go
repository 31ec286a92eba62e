package script

import (
	"fmt"

	"synthweaver/internal/fileset"
)

// Compose dispatches to the composer for kind. params must be the value or
// pointer type returned by NewParams for that kind.
func Compose(kind Kind, src fileset.Sources, params any, runDir string) (Plan, error) {
	switch kind {
	case KindSynth:
		p, err := paramsAs[SynthParams](kind, params)
		if err != nil {
			return Plan{}, err
		}
		return ComposeSynth(src, p, runDir), nil
	case KindIce40, KindXilinx, KindLattice, KindGowin:
		p, err := paramsAs[TargetParams](kind, params)
		if err != nil {
			return Plan{}, err
		}
		t, _ := TargetFor(kind)
		return t.Compose(kind, src, p, runDir), nil
	case KindFormal:
		p, err := paramsAs[FormalParams](kind, params)
		if err != nil {
			return Plan{}, err
		}
		return ComposeFormal(src, p, runDir), nil
	case KindScript:
		p, err := paramsAs[ScriptParams](kind, params)
		if err != nil {
			return Plan{}, err
		}
		return ComposeScript(src, p, runDir), nil
	}
	return Plan{}, fmt.Errorf("unknown task kind %q", kind)
}

// paramsAs accepts T, *T, or nil (zero value).
func paramsAs[T any](kind Kind, params any) (T, error) {
	var zero T
	switch p := params.(type) {
	case nil:
		return zero, nil
	case T:
		return p, nil
	case *T:
		if p == nil {
			return zero, nil
		}
		return *p, nil
	}
	return zero, fmt.Errorf("task kind %q: unexpected parameter type %T", kind, params)
}
