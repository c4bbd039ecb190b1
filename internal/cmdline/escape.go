// Package cmdline turns structured vibe-tools invocations into executable form.
//
// A Spec is an ordered list of base tokens followed by FlagSpecs. It can be
// rendered two ways:
//
//	Line() -> single shell string, values double-quoted with Escape
//	Argv() -> argv slice for direct exec, no quoting
//
// Flag names are never escaped. They come from constants in the tool
// definitions; only values originate from the caller.
package cmdline

import "strings"

// Escape wraps raw in double quotes and backslash-escapes embedded double
// quotes. It does not neutralize $, backticks, ; or newlines: the result is
// only a well-formed double-quoted shell token.
func Escape(raw string) string {
	return `"` + strings.ReplaceAll(raw, `"`, `\"`) + `"`
}
