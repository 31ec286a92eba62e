package script

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"synthweaver/internal/fileset"
)

const runDir = "/run"

func svSources() fileset.Sources {
	return fileset.Classify([]fileset.FileSet{{
		Type:     fileset.TypeFileSet,
		Filetype: fileset.FiletypeSystemVerilog,
		BaseDir:  "/d",
		Files:    []string{"top.sv"},
	}})
}

func TestComposeSynth_SystemVerilogTopJSON(t *testing.T) {
	plan := ComposeSynth(svSources(), SynthParams{Top: "top", OutputFormat: "json"}, runDir)

	assert.Equal(t, []string{
		"read_verilog -sv /d/top.sv",
		"synth -top top",
		"opt_clean",
		"stat",
		"write_json /run/netlist.json",
	}, plan.Script.Lines())
	assert.Equal(t, "netlist.json", plan.Output)
	assert.Equal(t, []string{"format=json", "top=top"}, plan.Attributes)
	assert.Equal(t, SynthScript, plan.ScriptName)
	assert.Equal(t, SynthLog, plan.LogName)
	assert.Equal(t, fileset.FiletypeNetlist, plan.Filetype)
}

func TestComposeSynth_LibrariesUseFirstEntryForMapping(t *testing.T) {
	src := fileset.Sources{
		Files:     []fileset.SourceFile{{Path: "/d/a.v"}},
		IncDirs:   []string{"/d/inc"},
		Libraries: []string{"/pdk/a.lib", "/pdk/b.lib"},
	}
	p := SynthParams{Flatten: true, NoFSM: true, NoABC: true, Retime: true, OutputFormat: "verilog", Args: []string{"tee -o x.txt stat", "check"}}

	plan := ComposeSynth(src, p, runDir)

	assert.Equal(t, []string{
		"read_verilog -incdir /d/inc",
		"read_verilog /d/a.v",
		"read_liberty -lib /pdk/a.lib",
		"read_liberty -lib /pdk/b.lib",
		"synth -flatten -nofsm -noabc -retime",
		"dfflibmap -liberty /pdk/a.lib",
		"abc -liberty /pdk/a.lib",
		"opt_clean",
		"stat -liberty /pdk/a.lib",
		"write_verilog /run/netlist.verilog",
		"tee -o x.txt stat",
		"check",
	}, plan.Script.Lines())
	assert.Equal(t, []string{"format=verilog"}, plan.Attributes)
}

func TestComposeSynth_DefaultAndUnknownFormats(t *testing.T) {
	plan := ComposeSynth(fileset.Sources{}, SynthParams{}, runDir)
	assert.Equal(t, "netlist.json", plan.Output)
	assert.Contains(t, plan.Script.Lines(), "write_json /run/netlist.json")

	for _, f := range []string{"json", "verilog", "blif", "edif", "rtlil"} {
		plan := ComposeSynth(fileset.Sources{}, SynthParams{OutputFormat: f}, runDir)
		assert.Equal(t, "netlist."+f, plan.Output, f)
	}

	plan = ComposeSynth(fileset.Sources{}, SynthParams{OutputFormat: "aiger"}, runDir)
	assert.Equal(t, "", plan.Output)
	assert.Equal(t, []string{"synth", "opt_clean", "stat"}, plan.Script.Lines())
	assert.Equal(t, []string{"format=aiger"}, plan.Attributes)
}

func TestComposeSynth_EmptySourcesStillWellFormed(t *testing.T) {
	plan := ComposeSynth(fileset.Sources{}, SynthParams{Top: "x"}, runDir)
	assert.Equal(t, []string{
		"synth -top x",
		"opt_clean",
		"stat",
		"write_json /run/netlist.json",
	}, plan.Script.Lines())
}

func TestComposeSynth_FlagPresentOnlyWhenSet(t *testing.T) {
	flags := map[string]func(*SynthParams){
		"-flatten": func(p *SynthParams) { p.Flatten = true },
		"-nofsm":   func(p *SynthParams) { p.NoFSM = true },
		"-noabc":   func(p *SynthParams) { p.NoABC = true },
		"-retime":  func(p *SynthParams) { p.Retime = true },
	}
	for flag, set := range flags {
		var p SynthParams
		offPlan := ComposeSynth(fileset.Sources{}, p, runDir)
		off := offPlan.Script.Lines()[0]
		assert.NotContains(t, off, flag)

		set(&p)
		onPlan := ComposeSynth(fileset.Sources{}, p, runDir)
		on := onPlan.Script.Lines()[0]
		assert.Equal(t, "synth "+flag, on)
	}
}

func TestTargetCompose_Ice40DefaultDevice(t *testing.T) {
	plan := Ice40.Compose(KindIce40, fileset.Sources{}, TargetParams{Top: "cpu", DFF: true, OutputFormat: "blif"}, runDir)

	assert.Equal(t, []string{"synth_ice40 -device hx -top cpu -dff -blif /run/netlist.blif"}, plan.Script.Lines())
	assert.Equal(t, []string{"format=blif", "target=ice40", "device=hx", "top=cpu"}, plan.Attributes)
	assert.Equal(t, "netlist.blif", plan.Output)
	assert.Equal(t, KindIce40, plan.Kind)
}

func TestTargetCompose_FlagOrderFollowsTable(t *testing.T) {
	all := TargetParams{
		Top: "t", Device: "up", Family: "xcup",
		Flatten: true, DFF: true, Retime: true, NoCarry: true, NoBRAM: true, DSP: true,
		NoDSP: true, NoIOPad: true, NoClkBuf: true, ABC9: true,
		Args: []string{"stat"},
	}

	tests := []struct {
		name   string
		target Target
		kind   Kind
		want   string
		attrs  []string
	}{
		{
			"ice40", Ice40, KindIce40,
			"synth_ice40 -device up -top t -dff -retime -nocarry -nobram -dsp -abc9 -json /run/netlist.json",
			[]string{"format=json", "target=ice40", "device=up", "top=t"},
		},
		{
			"xilinx", Xilinx, KindXilinx,
			"synth_xilinx -family xcup -top t -flatten -dff -retime -nobram -nodsp -noiopad -noclkbuf -abc9 -json /run/netlist.json",
			[]string{"format=json", "target=xilinx", "family=xcup", "top=t"},
		},
		{
			"lattice", Lattice, KindLattice,
			"synth_lattice -family xcup -top t -dff -retime -json /run/netlist.json",
			[]string{"format=json", "target=lattice", "family=xcup", "top=t"},
		},
		{
			"gowin", Gowin, KindGowin,
			"synth_gowin -top t -json /run/netlist.json",
			[]string{"format=json", "target=gowin", "top=t"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := tt.target.Compose(tt.kind, fileset.Sources{}, all, runDir)
			assert.Equal(t, []string{tt.want, "stat"}, plan.Script.Lines())
			assert.Equal(t, tt.attrs, plan.Attributes)
		})
	}
}

func TestTargetCompose_DefaultFamilies(t *testing.T) {
	x := Xilinx.Compose(KindXilinx, fileset.Sources{}, TargetParams{}, runDir)
	assert.Equal(t, []string{"synth_xilinx -family xc7 -json /run/netlist.json"}, x.Script.Lines())
	assert.Equal(t, []string{"format=json", "target=xilinx", "family=xc7"}, x.Attributes)

	l := Lattice.Compose(KindLattice, fileset.Sources{}, TargetParams{}, runDir)
	assert.Equal(t, []string{"synth_lattice -family ecp5 -json /run/netlist.json"}, l.Script.Lines())
}

func TestTargetCompose_SupportedFormats(t *testing.T) {
	tests := []struct {
		target    Target
		supported []string
		rejected  []string
	}{
		{Ice40, []string{"json", "blif", "edif"}, []string{"verilog", "rtlil"}},
		{Xilinx, []string{"json", "edif", "blif"}, []string{"verilog", "rtlil"}},
		{Lattice, []string{"json", "edif"}, []string{"blif", "verilog"}},
		{Gowin, []string{"json", "verilog"}, []string{"edif", "blif"}},
	}
	for _, tt := range tests {
		for _, f := range tt.supported {
			plan := tt.target.Compose("", fileset.Sources{}, TargetParams{OutputFormat: f}, runDir)
			assert.Equal(t, NetlistName(f), plan.Output, "%s/%s", tt.target.Name, f)
		}
		for _, f := range tt.rejected {
			plan := tt.target.Compose("", fileset.Sources{}, TargetParams{OutputFormat: f}, runDir)
			assert.Equal(t, "", plan.Output, "%s/%s", tt.target.Name, f)
			assert.NotContains(t, plan.Script.Lines()[0], "/run/", "%s/%s", tt.target.Name, f)
		}
	}
}

func TestTargetCompose_GowinVerilogOut(t *testing.T) {
	plan := Gowin.Compose(KindGowin, fileset.Sources{}, TargetParams{OutputFormat: "verilog"}, runDir)
	assert.Equal(t, []string{"synth_gowin -vout /run/netlist.verilog"}, plan.Script.Lines())

	plan = Gowin.Compose(KindGowin, fileset.Sources{}, TargetParams{OutputFormat: "edif"}, runDir)
	assert.Equal(t, []string{"synth_gowin"}, plan.Script.Lines())
	assert.Equal(t, "", plan.Output)
}

func TestTargetCompose_NoLibraryReads(t *testing.T) {
	src := fileset.Sources{
		Files:     []fileset.SourceFile{{Path: "/d/a.v"}},
		Libraries: []string{"/pdk/a.lib"},
	}
	plan := Ice40.Compose(KindIce40, src, TargetParams{}, runDir)
	for _, l := range plan.Script.Lines() {
		assert.NotContains(t, l, "liberty")
	}
}

func TestComposeFormal(t *testing.T) {
	src := fileset.Sources{
		Files:   []fileset.SourceFile{{Path: "/d/a.v"}, {Path: "/d/b.sv", SystemVerilog: true}},
		IncDirs: []string{"/d/inc"},
	}

	plan := ComposeFormal(src, FormalParams{BV: true, Wires: true}, runDir)

	assert.Equal(t, []string{
		"read_verilog -incdir /d/inc",
		"read_verilog -formal /d/a.v",
		"read_verilog -formal -sv /d/b.sv",
		"hierarchy -auto-top",
		"proc",
		"opt",
		"memory -nordff -nomap",
		"opt -fast",
		"write_smt2 -bv -wires /run/model.smt2",
	}, plan.Script.Lines())
	assert.Equal(t, FormalOutput, plan.Output)
	assert.Empty(t, plan.Attributes)
	assert.Equal(t, fileset.FiletypeSMT2, plan.Filetype)
	assert.Equal(t, FormalLog, plan.LogName)
}

func TestComposeFormal_ExplicitTop(t *testing.T) {
	plan := ComposeFormal(fileset.Sources{}, FormalParams{Top: "dut", Mem: true, Args: []string{"stat"}}, runDir)
	assert.Equal(t, []string{
		"hierarchy -top dut",
		"proc",
		"opt",
		"memory -nordff -nomap",
		"opt -fast",
		"write_smt2 -mem /run/model.smt2",
		"stat",
	}, plan.Script.Lines())
	assert.Equal(t, []string{"top=dut"}, plan.Attributes)
}

func TestComposeScript(t *testing.T) {
	src := fileset.Sources{
		Files:     []fileset.SourceFile{{Path: "/d/a.v"}},
		Libraries: []string{"/pdk/a.lib"},
	}
	body := "synth -top a\nwrite_json netlist.json"

	plain := ComposeScript(src, ScriptParams{Script: body}, runDir)
	assert.Equal(t, []byte(body+"\n"), plain.Script.Bytes())
	assert.Equal(t, "", plain.Output)
	assert.Empty(t, plain.Attributes)
	assert.Equal(t, UserScript, plain.ScriptName)
	assert.Equal(t, ScriptLog, plain.LogName)

	withReads := ComposeScript(src, ScriptParams{Script: body, ReadRTL: true, OutputFormat: "json", Top: "a"}, runDir)
	assert.Equal(t, []string{
		"read_verilog /d/a.v",
		"read_liberty -lib /pdk/a.lib",
		body,
	}, withReads.Script.Lines())
	assert.Equal(t, "netlist.json", withReads.Output)
	assert.Equal(t, []string{"format=json", "top=a"}, withReads.Attributes)
}

func TestCompose_Dispatch(t *testing.T) {
	for _, k := range Kinds {
		params, err := NewParams(k)
		require.NoError(t, err)
		if sp, ok := params.(*ScriptParams); ok {
			sp.Script = "stat"
		}
		plan, err := Compose(k, fileset.Sources{}, params, runDir)
		require.NoError(t, err, k)
		assert.Equal(t, k, plan.Kind)
	}

	_, err := Compose("synth_quantum", fileset.Sources{}, nil, runDir)
	require.Error(t, err)

	_, err = Compose(KindFormal, fileset.Sources{}, SynthParams{}, runDir)
	require.Error(t, err)

	plan, err := Compose(KindGowin, fileset.Sources{}, TargetParams{Top: "g"}, runDir)
	require.NoError(t, err)
	assert.Equal(t, []string{"synth_gowin -top g -json /run/netlist.json"}, plan.Script.Lines())
}

func TestScript_WriteFileIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	src := svSources()
	p := SynthParams{Top: "top", Flatten: true}

	a := filepath.Join(dir, "a.ys")
	b := filepath.Join(dir, "b.ys")
	planA := ComposeSynth(src, p, dir)
	require.NoError(t, planA.Script.WriteFile(a))
	planB := ComposeSynth(src, p, dir)
	require.NoError(t, planB.Script.WriteFile(b))

	ab, err := os.ReadFile(a)
	require.NoError(t, err)
	bb, err := os.ReadFile(b)
	require.NoError(t, err)
	assert.Equal(t, ab, bb)
	assert.Equal(t, byte('\n'), ab[len(ab)-1])
}

func TestScript_WriteFileUnwritableDir(t *testing.T) {
	var s Script
	s.Add("stat")
	err := s.WriteFile(filepath.Join(t.TempDir(), "missing", "synth.ys"))
	require.Error(t, err)
}
