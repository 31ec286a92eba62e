package fileset

// TypeFileSet is the only collection type that takes part in classification.
const TypeFileSet = "std.FileSet"

// Filetype tags recognized on input collections.
const (
	FiletypeVerilog              = "verilogSource"
	FiletypeSystemVerilog        = "systemVerilogSource"
	FiletypeVerilogIncDir        = "verilogIncDir"
	FiletypeVerilogInclude       = "verilogInclude"
	FiletypeSystemVerilogInclude = "systemVerilogInclude"
	FiletypeLiberty              = "libertyLib"
)

// Filetype tags carried by produced artifacts.
const (
	FiletypeNetlist = "yosysNetlist"
	FiletypeSMT2    = "yosysSMT2"
)

// FileSet is a typed collection of files rooted at BaseDir.
//
// Input collections are supplied by the caller. Output artifacts use the same
// shape with Src set to the producing task name and exactly one file.
type FileSet struct {
	Type       string   `json:"type" yaml:"type"`
	Src        string   `json:"src,omitempty" yaml:"src,omitempty"`
	Filetype   string   `json:"filetype" yaml:"filetype"`
	BaseDir    string   `json:"basedir" yaml:"basedir"`
	Files      []string `json:"files,omitempty" yaml:"files,omitempty"`
	IncDirs    []string `json:"incdirs,omitempty" yaml:"incdirs,omitempty"`
	Attributes []string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// SourceFile is one RTL source in discovery order.
type SourceFile struct {
	Path          string
	SystemVerilog bool
}

// Sources is the classified view of a list of input collections.
type Sources struct {
	Files   []SourceFile
	IncDirs []string

	// Libraries lists cell-library files. The first entry drives mapping
	// and statistics.
	Libraries []string
}

// PrimaryLibrary returns the first cell library, or "" when there is none.
func (s Sources) PrimaryLibrary() string {
	if len(s.Libraries) == 0 {
		return ""
	}
	return s.Libraries[0]
}
