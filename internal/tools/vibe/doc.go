// Package vibe defines the vibe-tools tool roster.
//
// Each tool is a Definition: static metadata plus a Build function that maps
// validated arguments to a cmdline.Spec. Definitions never touch processes;
// Register wraps them into tools.Tool handlers that go through a tools.Runner.
package vibe
