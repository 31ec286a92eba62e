package script

import (
	"path/filepath"

	"synthweaver/internal/fileset"
)

// Selector is the always-present device or family option of a target.
type Selector struct {
	// Option is the directive flag, e.g. "-device".
	Option string
	// Attribute is both the parameter name and the artifact attribute key.
	Attribute string
	Default   string
}

// Switch ties a boolean parameter to the flag it emits.
type Switch struct {
	Param string
	Flag  string
}

// Target describes one device family's synthesis directive.
type Target struct {
	Name     string
	Command  string
	Selector *Selector
	Switches []Switch

	// Writers maps supported output formats to the embedded write flag.
	Writers map[string]string
}

var (
	Ice40 = Target{
		Name:     "ice40",
		Command:  "synth_ice40",
		Selector: &Selector{Option: "-device", Attribute: "device", Default: "hx"},
		Switches: []Switch{
			{"dff", "-dff"},
			{"retime", "-retime"},
			{"nocarry", "-nocarry"},
			{"nobram", "-nobram"},
			{"dsp", "-dsp"},
			{"abc9", "-abc9"},
		},
		Writers: map[string]string{"json": "-json", "blif": "-blif", "edif": "-edif"},
	}

	Xilinx = Target{
		Name:     "xilinx",
		Command:  "synth_xilinx",
		Selector: &Selector{Option: "-family", Attribute: "family", Default: "xc7"},
		Switches: []Switch{
			{"flatten", "-flatten"},
			{"dff", "-dff"},
			{"retime", "-retime"},
			{"nobram", "-nobram"},
			{"nodsp", "-nodsp"},
			{"noiopad", "-noiopad"},
			{"noclkbuf", "-noclkbuf"},
			{"abc9", "-abc9"},
		},
		Writers: map[string]string{"json": "-json", "edif": "-edif", "blif": "-blif"},
	}

	Lattice = Target{
		Name:     "lattice",
		Command:  "synth_lattice",
		Selector: &Selector{Option: "-family", Attribute: "family", Default: "ecp5"},
		Switches: []Switch{
			{"dff", "-dff"},
			{"retime", "-retime"},
		},
		Writers: map[string]string{"json": "-json", "edif": "-edif"},
	}

	Gowin = Target{
		Name:    "gowin",
		Command: "synth_gowin",
		Writers: map[string]string{"json": "-json", "verilog": "-vout"},
	}
)

// TargetFor returns the descriptor used by a device-family kind.
func TargetFor(kind Kind) (Target, bool) {
	switch kind {
	case KindIce40:
		return Ice40, true
	case KindXilinx:
		return Xilinx, true
	case KindLattice:
		return Lattice, true
	case KindGowin:
		return Gowin, true
	}
	return Target{}, false
}

// Compose builds the family's script: reads, one self-contained synthesis
// directive, then caller directives. The write flag is embedded in the
// synthesis directive only for formats the family supports.
func (t Target) Compose(kind Kind, src fileset.Sources, p TargetParams, runDir string) Plan {
	format := formatOrDefault(p.OutputFormat)
	plan := Plan{
		Kind:       kind,
		ScriptName: SynthScript,
		LogName:    SynthLog,
		Filetype:   fileset.FiletypeNetlist,
	}
	s := &plan.Script

	writeReads(s, src, false)

	attrs := []string{"format=" + format, "target=" + t.Name}
	cmd := newCommand(t.Command)
	if t.Selector != nil {
		value := p.selected(t.Selector.Attribute)
		if value == "" {
			value = t.Selector.Default
		}
		cmd.arg(t.Selector.Option).arg(value)
		attrs = append(attrs, t.Selector.Attribute+"="+value)
	}
	cmd.option("-top", p.Top)
	for _, sw := range t.Switches {
		cmd.flag(p.switchOn(sw.Param), sw.Flag)
	}
	if opt, ok := t.Writers[format]; ok {
		plan.Output = NetlistName(format)
		cmd.arg(opt).arg(filepath.Join(runDir, plan.Output))
	}
	s.Add(cmd.String())

	appendArgs(s, p.Args)

	plan.Attributes = topAttribute(attrs, p.Top)
	return plan
}
