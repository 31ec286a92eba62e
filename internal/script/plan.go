package script

import (
	"path/filepath"

	"synthweaver/internal/fileset"
)

// Kind names a composition variant.
type Kind string

const (
	KindSynth   Kind = "synth"
	KindIce40   Kind = "synth_ice40"
	KindXilinx  Kind = "synth_xilinx"
	KindLattice Kind = "synth_lattice"
	KindGowin   Kind = "synth_gowin"
	KindFormal  Kind = "formal"
	KindScript  Kind = "script"
)

// Kinds lists every supported kind in a stable order.
var Kinds = []Kind{KindSynth, KindIce40, KindXilinx, KindLattice, KindGowin, KindFormal, KindScript}

// Script, log and output file names written into the run directory.
const (
	SynthScript  = "synth.ys"
	FormalScript = "formal.ys"
	UserScript   = "user.ys"

	SynthLog  = "synth.log"
	FormalLog = "formal.log"
	ScriptLog = "script.log"

	FormalOutput = "model.smt2"

	DefaultFormat = "json"
)

// NetlistName returns the output file name used for a netlist format.
func NetlistName(format string) string {
	return "netlist." + format
}

// Plan is the result of composing a script for one run directory.
type Plan struct {
	Kind   Kind
	Script Script

	ScriptName string
	LogName    string

	// Output is the predicted output file name relative to the run
	// directory, or "" when the script writes no output.
	Output   string
	Filetype string

	// Attributes annotate the produced artifact in a fixed order.
	Attributes []string
}

// ScriptPath returns the absolute path of the script inside runDir.
func (p Plan) ScriptPath(runDir string) string {
	return filepath.Join(runDir, p.ScriptName)
}

// OutputPath returns the absolute predicted output path, or "".
func (p Plan) OutputPath(runDir string) string {
	if p.Output == "" {
		return ""
	}
	return filepath.Join(runDir, p.Output)
}

// writeReads emits include directories then one read per source.
func writeReads(s *Script, src fileset.Sources, formal bool) {
	for _, d := range src.IncDirs {
		s.Add(newCommand("read_verilog").arg("-incdir").arg(d).String())
	}
	for _, f := range src.Files {
		s.Add(newCommand("read_verilog").
			flag(formal, "-formal").
			flag(f.SystemVerilog, "-sv").
			arg(f.Path).
			String())
	}
}

func writeLibraries(s *Script, src fileset.Sources) {
	for _, lib := range src.Libraries {
		s.Add(newCommand("read_liberty").arg("-lib").arg(lib).String())
	}
}

func appendArgs(s *Script, args []string) {
	for _, a := range args {
		s.Add(a)
	}
}

func topAttribute(attrs []string, top string) []string {
	if top != "" {
		attrs = append(attrs, "top="+top)
	}
	return attrs
}

func formatOrDefault(format string) string {
	if format == "" {
		return DefaultFormat
	}
	return format
}
