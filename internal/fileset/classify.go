package fileset

import (
	"path/filepath"
	"strings"
)

// Classify partitions inputs into sources, include directories and cell
// libraries. Collections that are not std.FileSet, or whose filetype is not
// recognized, are skipped.
//
// Member paths are joined onto the collection's BaseDir. A verilogIncDir
// marker contributes its BaseDir verbatim. A libertyLib collection with no
// files contributes its BaseDir as the library path.
func Classify(inputs []FileSet) Sources {
	var out Sources

	for _, fs := range inputs {
		if fs.Type != TypeFileSet {
			continue
		}
		switch fs.Filetype {
		case FiletypeVerilog, FiletypeSystemVerilog:
			sv := fs.Filetype == FiletypeSystemVerilog
			for _, f := range fs.Files {
				out.Files = append(out.Files, SourceFile{
					Path:          join(fs.BaseDir, f),
					SystemVerilog: sv,
				})
			}
			for _, d := range fs.IncDirs {
				out.IncDirs = append(out.IncDirs, join(fs.BaseDir, d))
			}
		case FiletypeVerilogIncDir:
			if strings.TrimSpace(fs.BaseDir) != "" {
				out.IncDirs = append(out.IncDirs, fs.BaseDir)
			}
		case FiletypeVerilogInclude, FiletypeSystemVerilogInclude:
			for _, d := range fs.IncDirs {
				out.IncDirs = append(out.IncDirs, join(fs.BaseDir, d))
			}
		case FiletypeLiberty:
			for _, f := range fs.Files {
				out.Libraries = append(out.Libraries, join(fs.BaseDir, f))
			}
			if len(fs.Files) == 0 && strings.TrimSpace(fs.BaseDir) != "" {
				out.Libraries = append(out.Libraries, fs.BaseDir)
			}
		}
	}

	return out
}

// join resolves p against base. Absolute members are kept as given.
func join(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
