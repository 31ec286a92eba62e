package script

import (
	"path/filepath"

	"synthweaver/internal/fileset"
)

// writers maps an output format to the generic write directive.
var writers = map[string]string{
	"json":    "write_json",
	"verilog": "write_verilog",
	"blif":    "write_blif",
	"edif":    "write_edif",
	"rtlil":   "write_rtlil",
}

// ComposeSynth builds the technology-independent synthesis script.
//
// With cell libraries present, flip-flop mapping, ABC mapping and
// statistics use only the first library. An unrecognized format produces no
// write directive and no predicted output.
func ComposeSynth(src fileset.Sources, p SynthParams, runDir string) Plan {
	format := formatOrDefault(p.OutputFormat)
	plan := Plan{
		Kind:       KindSynth,
		ScriptName: SynthScript,
		LogName:    SynthLog,
		Filetype:   fileset.FiletypeNetlist,
		Attributes: topAttribute([]string{"format=" + format}, p.Top),
	}
	s := &plan.Script

	writeReads(s, src, false)
	writeLibraries(s, src)

	s.Add(newCommand("synth").
		option("-top", p.Top).
		flag(p.Flatten, "-flatten").
		flag(p.NoFSM, "-nofsm").
		flag(p.NoABC, "-noabc").
		flag(p.Retime, "-retime").
		String())

	lib := src.PrimaryLibrary()
	if lib != "" {
		s.Add(newCommand("dfflibmap").option("-liberty", lib).String())
		s.Add(newCommand("abc").option("-liberty", lib).String())
	}

	s.Add("opt_clean")

	s.Add(newCommand("stat").option("-liberty", lib).String())

	if w, ok := writers[format]; ok {
		plan.Output = NetlistName(format)
		s.Add(newCommand(w).arg(filepath.Join(runDir, plan.Output)).String())
	}

	appendArgs(s, p.Args)
	return plan
}
