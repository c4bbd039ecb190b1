package cmdline

import "strings"

// Build appends each flag rendering to base, separated by single spaces.
// base is emitted as-is. With no flags the result is base unchanged.
func Build(base string, flags ...FlagSpec) string {
	var b strings.Builder
	b.WriteString(base)
	for _, f := range flags {
		for _, tok := range f.tokens(true) {
			b.WriteByte(' ')
			b.WriteString(tok)
		}
	}
	return b.String()
}

// Spec is a command description built fresh for each invocation.
type Spec struct {
	Base  []string
	Flags []FlagSpec
}

// New starts a spec from its base tokens, e.g. New("vibe-tools", "repo").
func New(base ...string) *Spec {
	return &Spec{Base: append([]string(nil), base...)}
}

// Add appends flags in order.
func (s *Spec) Add(flags ...FlagSpec) *Spec {
	s.Flags = append(s.Flags, flags...)
	return s
}

// AddIf appends flag only when cond holds. Tools use it for optional
// arguments that are omitted when absent or empty.
func (s *Spec) AddIf(cond bool, flag FlagSpec) *Spec {
	if cond {
		s.Flags = append(s.Flags, flag)
	}
	return s
}

// Line renders the spec as one shell command string.
func (s *Spec) Line() string {
	return Build(strings.Join(s.Base, " "), s.Flags...)
}

// Argv renders the spec as an argument vector; Argv()[0] is the program.
func (s *Spec) Argv() []string {
	argv := append([]string(nil), s.Base...)
	for _, f := range s.Flags {
		argv = append(argv, f.tokens(false)...)
	}
	return argv
}

// String implements fmt.Stringer with the shell rendering.
func (s *Spec) String() string {
	return s.Line()
}
