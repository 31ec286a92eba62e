// Package core runs a single synthesis task end to end.
//
// A run is a strict three-phase sequence:
//
//  1. Compose: classify the task's input collections, compose the script
//     for the task kind and write it into the run directory. The script is
//     closed before the tool starts.
//  2. Execute: invoke the tool through a ProcessRunner and wait for its
//     exit status.
//  3. Resolve: predict the output file, and only for status 0 with the
//     file present produce a typed output artifact.
//
// # Core Types
//
// Task: one invocation of a task kind against a run directory.
// Result: the exit status plus zero or one output artifacts.
// Resolver: turns an exit status and a Plan into an artifact.
//
// Runs share no mutable state; independent tasks may run concurrently as
// long as their run directories differ.
package core
