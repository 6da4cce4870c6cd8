package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/rxpool/pkg/regex"
)

func newReplaceCommand(a *app) *cobra.Command {
	var (
		rx  regexFlags
		all bool
		n   int
	)
	cmd := &cobra.Command{
		Use:   "replace PATTERN REPLACEMENT [TEXT]",
		Short: "Substitute matches of PATTERN",
		Long: `Substitute the first match of PATTERN in TEXT with REPLACEMENT, or in
every line of standard input when TEXT is omitted. REPLACEMENT may refer
to groups as $1 or ${name}.`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			re, err := a.compile(cmd, args[0], &rx)
			if err != nil {
				return err
			}
			limit := 1
			switch {
			case all:
				limit = -1
			case cmd.Flags().Changed("count"):
				limit = n
			}
			replace := func(s string) string { return re.ReplaceN(s, args[1], limit) }
			if len(args) == 3 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), replace(args[2]))
				return err
			}
			return eachLine(cmd.InOrStdin(), cmd.OutOrStdout(), replace)
		},
	}
	fl := cmd.Flags()
	rx.register(fl)
	fl.BoolVar(&all, "all", false, "Replace every match")
	fl.IntVarP(&n, "count", "n", 1, "Replace at most this many matches (negative for all)")
	return cmd
}

func newSplitCommand(a *app) *cobra.Command {
	var (
		rx regexFlags
		n  int
	)
	cmd := &cobra.Command{
		Use:   "split PATTERN TEXT",
		Short: "Split TEXT around matches of PATTERN, one piece per line",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			re, err := a.compile(cmd, args[0], &rx)
			if err != nil {
				return err
			}
			pieces := re.Split(args[1])
			if cmd.Flags().Changed("limit") {
				pieces = re.SplitN(args[1], n)
			}
			w := bufio.NewWriter(cmd.OutOrStdout())
			for _, p := range pieces {
				if _, err := fmt.Fprintln(w, strconv.Quote(p)); err != nil {
					return err
				}
			}
			return w.Flush()
		},
	}
	fl := cmd.Flags()
	rx.register(fl)
	fl.IntVarP(&n, "limit", "n", -1, "Return at most this many pieces (negative for all)")
	return cmd
}

func newEscapeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "escape TEXT",
		Short: "Print TEXT with every metacharacter escaped",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), regex.Escape(args[0]))
			return err
		},
	}
}

// eachLine applies fn to every line of r and writes the results to w.
func eachLine(r io.Reader, w io.Writer, fn func(string) string) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1<<20)
	out := bufio.NewWriter(w)
	for sc.Scan() {
		if _, err := fmt.Fprintln(out, fn(sc.Text())); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return out.Flush()
}
