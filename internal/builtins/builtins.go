// Package builtins is the static table of AWK's predefined variables and
// functions, mode-filtered between strict POSIX awk and gawk extensions.
package builtins

import "strings"

// Kind distinguishes a predefined variable from a predefined function.
type Kind int

const (
	Variable Kind = iota
	Function
)

// Builtin describes one predefined name.
type Builtin struct {
	Name          string
	Kind          Kind
	Parameters    []string
	FirstOptional int // index of first optional parameter, or len(Parameters) if none
	Gawk          bool
	Description   string
}

var table = []Builtin{
	{Name: "ARGC", Kind: Variable, Description: "Number of command-line arguments."},
	{Name: "ARGV", Kind: Variable, Description: "Array of command-line arguments, indexed from 0."},
	{Name: "CONVFMT", Kind: Variable, Description: "Conversion format for numbers, default \"%.6g\"."},
	{Name: "ENVIRON", Kind: Variable, Description: "Array of environment variables."},
	{Name: "FILENAME", Kind: Variable, Description: "Name of the current input file."},
	{Name: "FNR", Kind: Variable, Description: "Record number in the current input file."},
	{Name: "FS", Kind: Variable, Description: "Input field separator, default a single space."},
	{Name: "NF", Kind: Variable, Description: "Number of fields in the current record."},
	{Name: "NR", Kind: Variable, Description: "Total number of input records seen so far."},
	{Name: "OFMT", Kind: Variable, Description: "Output format for numbers, default \"%.6g\"."},
	{Name: "OFS", Kind: Variable, Description: "Output field separator, default a single space."},
	{Name: "ORS", Kind: Variable, Description: "Output record separator, default a newline."},
	{Name: "RS", Kind: Variable, Description: "Input record separator, default a newline."},
	{Name: "RSTART", Kind: Variable, Description: "Start index of the match set by the last match() call."},
	{Name: "RLENGTH", Kind: Variable, Description: "Length of the match set by the last match() call."},
	{Name: "SUBSEP", Kind: Variable, Description: "Subscript separator for multi-dimensional arrays."},

	{Name: "ARGIND", Kind: Variable, Gawk: true, Description: "Index of the current file in ARGV (gawk)."},
	{Name: "ERRNO", Kind: Variable, Gawk: true, Description: "Error message from the last failed getline/close (gawk)."},
	{Name: "FIELDWIDTHS", Kind: Variable, Gawk: true, Description: "Whitespace-separated list of field widths (gawk)."},
	{Name: "FPAT", Kind: Variable, Gawk: true, Description: "Regular expression describing the contents of fields (gawk)."},
	{Name: "IGNORECASE", Kind: Variable, Gawk: true, Description: "When non-zero, disables case sensitivity (gawk)."},
	{Name: "PROCINFO", Kind: Variable, Gawk: true, Description: "Array of information about the running process (gawk)."},
	{Name: "RT", Kind: Variable, Gawk: true, Description: "Actual text matched by RS for the current record (gawk)."},

	{Name: "length", Kind: Function, Parameters: []string{"s"}, FirstOptional: 0, Description: "Length of s, or of $0 when called with no argument."},
	{Name: "substr", Kind: Function, Parameters: []string{"s", "m", "n"}, FirstOptional: 2, Description: "Substring of s starting at m, of length n (n optional)."},
	{Name: "index", Kind: Function, Parameters: []string{"in", "find"}, FirstOptional: 2, Description: "Index of find within in, or 0 if absent."},
	{Name: "split", Kind: Function, Parameters: []string{"s", "a", "fs"}, FirstOptional: 2, Description: "Splits s into array a on fs, returns the number of fields."},
	{Name: "sub", Kind: Function, Parameters: []string{"re", "repl", "target"}, FirstOptional: 2, Description: "Substitutes the first match of re in target (default $0) with repl."},
	{Name: "gsub", Kind: Function, Parameters: []string{"re", "repl", "target"}, FirstOptional: 2, Description: "Substitutes every match of re in target (default $0) with repl."},
	{Name: "match", Kind: Function, Parameters: []string{"s", "re"}, FirstOptional: 2, Description: "Sets RSTART/RLENGTH to the location of re in s."},
	{Name: "sprintf", Kind: Function, Parameters: []string{"fmt", "args"}, FirstOptional: 1, Description: "Formats args according to fmt and returns the string."},
	{Name: "tolower", Kind: Function, Parameters: []string{"s"}, FirstOptional: 1, Description: "Lower-cased copy of s."},
	{Name: "toupper", Kind: Function, Parameters: []string{"s"}, FirstOptional: 1, Description: "Upper-cased copy of s."},
	{Name: "sin", Kind: Function, Parameters: []string{"x"}, FirstOptional: 1, Description: "Sine of x, in radians."},
	{Name: "cos", Kind: Function, Parameters: []string{"x"}, FirstOptional: 1, Description: "Cosine of x, in radians."},
	{Name: "atan2", Kind: Function, Parameters: []string{"y", "x"}, FirstOptional: 2, Description: "Arctangent of y/x, in radians."},
	{Name: "exp", Kind: Function, Parameters: []string{"x"}, FirstOptional: 1, Description: "e to the power x."},
	{Name: "log", Kind: Function, Parameters: []string{"x"}, FirstOptional: 1, Description: "Natural logarithm of x."},
	{Name: "sqrt", Kind: Function, Parameters: []string{"x"}, FirstOptional: 1, Description: "Square root of x."},
	{Name: "int", Kind: Function, Parameters: []string{"x"}, FirstOptional: 1, Description: "Truncates x toward zero."},
	{Name: "rand", Kind: Function, Parameters: []string{}, FirstOptional: 0, Description: "Pseudo-random number in [0, 1)."},
	{Name: "srand", Kind: Function, Parameters: []string{"seed"}, FirstOptional: 0, Description: "Seeds rand(), returns the previous seed."},
	{Name: "close", Kind: Function, Parameters: []string{"filename"}, FirstOptional: 1, Description: "Closes a file or pipe opened by print/getline."},
	{Name: "system", Kind: Function, Parameters: []string{"command"}, FirstOptional: 1, Description: "Runs command, returns its exit status."},
	{Name: "fflush", Kind: Function, Parameters: []string{"filename"}, FirstOptional: 0, Description: "Flushes buffered output."},

	{Name: "gensub", Kind: Function, Gawk: true, Parameters: []string{"re", "repl", "how", "target"}, FirstOptional: 3, Description: "Like sub/gsub but returns the result rather than mutating target (gawk)."},
	{Name: "strtonum", Kind: Function, Gawk: true, Parameters: []string{"s"}, FirstOptional: 1, Description: "Parses s as an int/octal/hex number (gawk)."},
	{Name: "systime", Kind: Function, Gawk: true, Parameters: []string{}, FirstOptional: 0, Description: "Current time in seconds since the epoch (gawk)."},
	{Name: "strftime", Kind: Function, Gawk: true, Parameters: []string{"format", "timestamp"}, FirstOptional: 0, Description: "Formats a timestamp (gawk)."},
	{Name: "mktime", Kind: Function, Gawk: true, Parameters: []string{"spec"}, FirstOptional: 1, Description: "Turns a time spec string into a timestamp (gawk)."},
	{Name: "asort", Kind: Function, Gawk: true, Parameters: []string{"source", "dest"}, FirstOptional: 1, Description: "Sorts array source by value into dest (gawk)."},
	{Name: "asorti", Kind: Function, Gawk: true, Parameters: []string{"source", "dest"}, FirstOptional: 1, Description: "Sorts array source by index into dest (gawk)."},
	{Name: "typeof", Kind: Function, Gawk: true, Parameters: []string{"x"}, FirstOptional: 1, Description: "Name of x's type (gawk)."},
}

var byName map[string]Builtin

func init() {
	byName = make(map[string]Builtin, len(table))
	for _, b := range table {
		byName[b.Name] = b
	}
}

// Lookup returns the builtin named name and whether it exists at all
// (regardless of mode); callers filter on .Gawk themselves via Visible.
func Lookup(name string) (Builtin, bool) {
	b, ok := byName[name]
	return b, ok
}

// Visible reports whether b should be offered under the given gawk mode.
func (b Builtin) Visible(gawkMode bool) bool {
	return gawkMode || !b.Gawk
}

// All returns every builtin visible under gawkMode, in table order.
func All(gawkMode bool) []Builtin {
	out := make([]Builtin, 0, len(table))
	for _, b := range table {
		if b.Visible(gawkMode) {
			out = append(out, b)
		}
	}
	return out
}

// Signature formats a function builtin's parameter list the way hover and
// completion-detail text present it, e.g. "substr(s, m[, n])".
func Signature(b Builtin) string {
	if b.Kind != Function {
		return b.Name
	}
	var sb strings.Builder
	sb.WriteString(b.Name)
	sb.WriteByte('(')
	for i, p := range b.Parameters {
		if i == b.FirstOptional {
			sb.WriteByte('[')
		}
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p)
	}
	if b.FirstOptional < len(b.Parameters) {
		sb.WriteByte(']')
	}
	sb.WriteByte(')')
	return sb.String()
}
