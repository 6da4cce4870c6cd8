package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/rxpool/pkg/compression"
	"github.com/ajitpratap0/rxpool/pkg/errors"
)

func newCompressCommand() *cobra.Command {
	var (
		algorithm string
		level     string
		output    string
		decode    bool
	)
	cmd := &cobra.Command{
		Use:   "compress [FILE]",
		Short: "Compress or decompress FILE (or standard input)",
		Long: `Compress FILE, or standard input, with the chosen algorithm. Useful for
producing test inputs for grep, which reads the same formats.

With --decompress the format is detected from FILE's extension or magic
bytes.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var out io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output) // #nosec G304 - path given by the user
				if err != nil {
					return errors.Wrap(err, errors.ErrorTypeFile, "failed to create output")
				}
				defer f.Close()
				out = f
			}
			if decode {
				return decompress(cmd, args, out)
			}

			alg, err := compression.ParseAlgorithm(algorithm)
			if err != nil {
				return err
			}
			lvl, err := compression.ParseLevel(level)
			if err != nil {
				return err
			}

			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0]) // #nosec G304 - path given by the user
				if err != nil {
					return errors.Wrap(err, errors.ErrorTypeFile, "failed to open input")
				}
				defer f.Close()
				in = f
			}

			w, err := compression.NewWriter(out, alg, lvl)
			if err != nil {
				return err
			}
			if _, err := io.Copy(w, in); err != nil {
				_ = w.Close()
				return errors.Wrap(err, errors.ErrorTypeData, "compression failed")
			}
			return w.Close()
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&algorithm, "algorithm", "a", "gzip", "none, gzip, snappy, lz4, zstd, s2 or deflate")
	fl.StringVarP(&level, "level", "l", "default", "fastest, default, better or best")
	fl.StringVarP(&output, "output", "o", "", "Write to this file instead of standard output")
	fl.BoolVarP(&decode, "decompress", "d", false, "Decompress instead")
	return cmd
}

func decompress(cmd *cobra.Command, args []string, out io.Writer) error {
	var (
		r   io.ReadCloser
		err error
	)
	if len(args) == 1 {
		r, _, err = compression.Open(args[0])
	} else {
		// Standard input has no name; sniff the magic bytes only.
		r, _, err = compression.Sniff(cmd.InOrStdin())
	}
	if err != nil {
		return err
	}
	defer r.Close()
	if _, err := io.Copy(out, r); err != nil {
		return errors.Wrap(err, errors.ErrorTypeData, "decompression failed")
	}
	return nil
}
