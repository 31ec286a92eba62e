// Package fileset models the typed, attributed file collections exchanged
// between build tasks and classifies them into the source, include and
// cell-library lists a synthesis script reads.
//
// A FileSet is read-only once handed to this package. Classification keeps
// discovery order and never deduplicates, sorts or checks existence; those
// concerns belong to the synthesis tool.
package fileset
