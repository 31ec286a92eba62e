// Package script composes yosys control scripts.
//
// Each task kind has a composer that turns classified inputs and a parameter
// set into an ordered list of directives plus a Plan describing where the
// tool is expected to leave its output. Composition is pure: identical
// inputs give byte-identical scripts.
//
// The device-family kinds share a single composer driven by a Target
// descriptor; flag order within a family's synthesis directive follows the
// descriptor's switch table.
package script
