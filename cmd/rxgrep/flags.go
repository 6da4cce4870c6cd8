package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ajitpratap0/rxpool/pkg/regex"
)

// regexFlags are the pattern options shared by every matching command.
type regexFlags struct {
	caseless  bool
	dotAll    bool
	multiLine bool
	extended  bool
	ungreedy  bool
}

func (f *regexFlags) register(fl *pflag.FlagSet) {
	fl.BoolVarP(&f.caseless, "ignore-case", "i", false, "Case-insensitive matching")
	fl.BoolVarP(&f.dotAll, "dot-all", "s", false, "Let . match a newline")
	fl.BoolVarP(&f.multiLine, "multi-line", "m", false, "Let ^ and $ match at line boundaries")
	fl.BoolVarP(&f.extended, "extended", "x", false, "Ignore whitespace and #-comments in PATTERN")
	fl.BoolVarP(&f.ungreedy, "ungreedy", "U", false, "Make quantifiers lazy by default")
}

// compile builds pattern from the config file's regex options, with any
// flag given on the command line taking precedence.
func (a *app) compile(cmd *cobra.Command, pattern string, f *regexFlags) (*regex.Regex, error) {
	b := regex.FromConfig(a.cfg.RegexOptions())
	fl := cmd.Flags()
	if fl.Changed("ignore-case") {
		b.Caseless(f.caseless)
	}
	if fl.Changed("dot-all") {
		b.DotAll(f.dotAll)
	}
	if fl.Changed("multi-line") {
		b.MultiLine(f.multiLine)
	}
	if fl.Changed("extended") {
		b.Extended(f.extended)
	}
	if fl.Changed("ungreedy") {
		b.Ungreedy(f.ungreedy)
	}
	return b.Build(pattern)
}
