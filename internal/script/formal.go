package script

import (
	"path/filepath"

	"synthweaver/internal/fileset"
)

// ComposeFormal builds the SMT2 model preparation script. Every source is
// read with -formal.
func ComposeFormal(src fileset.Sources, p FormalParams, runDir string) Plan {
	plan := Plan{
		Kind:       KindFormal,
		ScriptName: FormalScript,
		LogName:    FormalLog,
		Output:     FormalOutput,
		Filetype:   fileset.FiletypeSMT2,
		Attributes: topAttribute(nil, p.Top),
	}
	s := &plan.Script

	writeReads(s, src, true)

	if p.Top != "" {
		s.Add(newCommand("hierarchy").option("-top", p.Top).String())
	} else {
		s.Add("hierarchy -auto-top")
	}

	s.Add("proc")
	s.Add("opt")
	s.Add("memory -nordff -nomap")
	s.Add("opt -fast")

	s.Add(newCommand("write_smt2").
		flag(p.BV, "-bv").
		flag(p.Mem, "-mem").
		flag(p.Wires, "-wires").
		arg(filepath.Join(runDir, plan.Output)).
		String())

	appendArgs(s, p.Args)
	return plan
}
