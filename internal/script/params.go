package script

import "fmt"

// SynthParams configures the technology-independent synth kind.
type SynthParams struct {
	Top          string   `json:"top,omitempty" yaml:"top,omitempty" hcl:"top,optional"`
	OutputFormat string   `json:"output_format,omitempty" yaml:"output_format,omitempty" hcl:"output_format,optional"`
	Flatten      bool     `json:"flatten,omitempty" yaml:"flatten,omitempty" hcl:"flatten,optional"`
	NoFSM        bool     `json:"nofsm,omitempty" yaml:"nofsm,omitempty" hcl:"nofsm,optional"`
	NoABC        bool     `json:"noabc,omitempty" yaml:"noabc,omitempty" hcl:"noabc,optional"`
	Retime       bool     `json:"retime,omitempty" yaml:"retime,omitempty" hcl:"retime,optional"`
	Args         []string `json:"args,omitempty" yaml:"args,omitempty" hcl:"args,optional"`
}

// TargetParams configures the device-family kinds. Each family reads only
// the switches in its descriptor; the rest are ignored.
type TargetParams struct {
	Top          string   `json:"top,omitempty" yaml:"top,omitempty" hcl:"top,optional"`
	Device       string   `json:"device,omitempty" yaml:"device,omitempty" hcl:"device,optional"`
	Family       string   `json:"family,omitempty" yaml:"family,omitempty" hcl:"family,optional"`
	OutputFormat string   `json:"output_format,omitempty" yaml:"output_format,omitempty" hcl:"output_format,optional"`
	Flatten      bool     `json:"flatten,omitempty" yaml:"flatten,omitempty" hcl:"flatten,optional"`
	DFF          bool     `json:"dff,omitempty" yaml:"dff,omitempty" hcl:"dff,optional"`
	Retime       bool     `json:"retime,omitempty" yaml:"retime,omitempty" hcl:"retime,optional"`
	NoCarry      bool     `json:"nocarry,omitempty" yaml:"nocarry,omitempty" hcl:"nocarry,optional"`
	NoBRAM       bool     `json:"nobram,omitempty" yaml:"nobram,omitempty" hcl:"nobram,optional"`
	DSP          bool     `json:"dsp,omitempty" yaml:"dsp,omitempty" hcl:"dsp,optional"`
	NoDSP        bool     `json:"nodsp,omitempty" yaml:"nodsp,omitempty" hcl:"nodsp,optional"`
	NoIOPad      bool     `json:"noiopad,omitempty" yaml:"noiopad,omitempty" hcl:"noiopad,optional"`
	NoClkBuf     bool     `json:"noclkbuf,omitempty" yaml:"noclkbuf,omitempty" hcl:"noclkbuf,optional"`
	ABC9         bool     `json:"abc9,omitempty" yaml:"abc9,omitempty" hcl:"abc9,optional"`
	Args         []string `json:"args,omitempty" yaml:"args,omitempty" hcl:"args,optional"`
}

// switchOn reports whether the named switch is set.
func (p TargetParams) switchOn(name string) bool {
	switch name {
	case "flatten":
		return p.Flatten
	case "dff":
		return p.DFF
	case "retime":
		return p.Retime
	case "nocarry":
		return p.NoCarry
	case "nobram":
		return p.NoBRAM
	case "dsp":
		return p.DSP
	case "nodsp":
		return p.NoDSP
	case "noiopad":
		return p.NoIOPad
	case "noclkbuf":
		return p.NoClkBuf
	case "abc9":
		return p.ABC9
	}
	return false
}

// selected returns the device or family parameter named by attr.
func (p TargetParams) selected(attr string) string {
	switch attr {
	case "device":
		return p.Device
	case "family":
		return p.Family
	}
	return ""
}

// FormalParams configures the formal kind.
type FormalParams struct {
	Top   string   `json:"top,omitempty" yaml:"top,omitempty" hcl:"top,optional"`
	BV    bool     `json:"bv,omitempty" yaml:"bv,omitempty" hcl:"bv,optional"`
	Mem   bool     `json:"mem,omitempty" yaml:"mem,omitempty" hcl:"mem,optional"`
	Wires bool     `json:"wires,omitempty" yaml:"wires,omitempty" hcl:"wires,optional"`
	Args  []string `json:"args,omitempty" yaml:"args,omitempty" hcl:"args,optional"`
}

// ScriptParams configures the raw script kind.
type ScriptParams struct {
	Script       string `json:"script" yaml:"script" hcl:"script"`
	ReadRTL      bool   `json:"read_rtl,omitempty" yaml:"read_rtl,omitempty" hcl:"read_rtl,optional"`
	OutputFormat string `json:"output_format,omitempty" yaml:"output_format,omitempty" hcl:"output_format,optional"`
	Top          string `json:"top,omitempty" yaml:"top,omitempty" hcl:"top,optional"`
}

// NewParams returns a pointer to the zero parameter value for kind, ready
// to be decoded into.
func NewParams(kind Kind) (any, error) {
	switch kind {
	case KindSynth:
		return &SynthParams{}, nil
	case KindIce40, KindXilinx, KindLattice, KindGowin:
		return &TargetParams{}, nil
	case KindFormal:
		return &FormalParams{}, nil
	case KindScript:
		return &ScriptParams{}, nil
	}
	return nil, fmt.Errorf("unknown task kind %q", kind)
}
