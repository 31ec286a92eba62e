package script

import "synthweaver/internal/fileset"

// ComposeScript wraps a caller-supplied script body. With ReadRTL set the
// standard reads and library reads come first. The output is predicted only
// when OutputFormat is given.
func ComposeScript(src fileset.Sources, p ScriptParams, runDir string) Plan {
	plan := Plan{
		Kind:       KindScript,
		ScriptName: UserScript,
		LogName:    ScriptLog,
		Filetype:   fileset.FiletypeNetlist,
	}
	s := &plan.Script

	if p.ReadRTL {
		writeReads(s, src, false)
		writeLibraries(s, src)
	}
	s.Add(p.Script)

	if p.OutputFormat != "" {
		plan.Output = NetlistName(p.OutputFormat)
		plan.Attributes = topAttribute([]string{"format=" + p.OutputFormat}, p.Top)
	}
	return plan
}
