package cmdline

import "strconv"

// FlagSpec is one rendering rule appended after the base tokens.
// The set of implementations is closed to this package.
type FlagSpec interface {
	// tokens renders the flag. quote selects shell quoting for values.
	tokens(quote bool) []string
}

// Positional is a caller-supplied value placed without a flag name.
type Positional struct {
	Raw string
}

func (p Positional) tokens(quote bool) []string {
	if quote {
		return []string{Escape(p.Raw)}
	}
	return []string{p.Raw}
}

// Literal is a positional token emitted verbatim in both renderings.
// Use it only for values drawn from a closed set (enum members, integers).
type Literal struct {
	Raw string
}

func (l Literal) tokens(bool) []string {
	return []string{l.Raw}
}

// StringFlag renders as --name="value".
type StringFlag struct {
	Name  string
	Value string
}

func (f StringFlag) tokens(quote bool) []string {
	return []string{assign(f.Name, f.Value, quote)}
}

// NumericFlag renders as --name=value with the shortest decimal form.
type NumericFlag struct {
	Name  string
	Value float64
}

func (f NumericFlag) tokens(bool) []string {
	return []string{"--" + f.Name + "=" + FormatNumber(f.Value)}
}

// BooleanFlag renders --name when true, --no-name when false and nothing
// when Value is nil.
type BooleanFlag struct {
	Name  string
	Value *bool
}

func (f BooleanFlag) tokens(bool) []string {
	switch {
	case f.Value == nil:
		return nil
	case *f.Value:
		return []string{"--" + f.Name}
	default:
		return []string{"--no-" + f.Name}
	}
}

// RepeatedFlag renders one --name="value" per element, in order.
type RepeatedFlag struct {
	Name   string
	Values []string
}

func (f RepeatedFlag) tokens(quote bool) []string {
	out := make([]string, 0, len(f.Values))
	for _, v := range f.Values {
		out = append(out, assign(f.Name, v, quote))
	}
	return out
}

func assign(name, value string, quote bool) string {
	if quote {
		value = Escape(value)
	}
	return "--" + name + "=" + value
}

// FormatNumber renders v without exponent or trailing zeros: 42, 0.5, -3.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Bool returns a pointer to v, for BooleanFlag values.
func Bool(v bool) *bool {
	return &v
}
