// Package taskfile loads task definitions from JSON, YAML or HCL files.
//
// All three formats describe the same thing: a list of named tasks, each
// with a kind, an optional run directory, input file sets and a parameter
// block whose shape depends on the kind. Loading is strict: unknown fields
// are rejected so a misspelled option never silently falls back to a tool
// default.
//
// Relative basedirs are resolved against the directory holding the task
// file, and a set with members but no basedir is rooted there too. Relative
// run directories are resolved against the work directory, so every path
// that reaches a script is absolute.
package taskfile
