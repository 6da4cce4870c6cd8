// Command rxgrep searches files with a pooled regex and exposes the
// pool's behaviour through a few companion commands.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ajitpratap0/rxpool/pkg/config"
	"github.com/ajitpratap0/rxpool/pkg/logger"
)

var version = "0.1.0"

// app carries state shared by all subcommands.
type app struct {
	configFile string
	logLevel   string
	cfg        *config.Config
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	root := newRootCommand()
	err := root.Execute()
	_ = logger.Sync()
	if err == errNoMatch {
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}

func newRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "rxgrep",
		Short: "rxgrep - parallel regex search over plain and compressed files",
		Long: `rxgrep matches a regular expression against many inputs at once.
Every worker shares one compiled pattern whose scratch space comes from a
lock-free owner slot or one of eight sharded stacks.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.PersistentFlags().StringVar(&a.configFile, "config", "", "Path to a YAML configuration file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides the config file")

	root.AddCommand(
		newGrepCommand(a),
		newReplaceCommand(a),
		newSplitCommand(a),
		newEscapeCommand(),
		newStressCommand(a),
		newCompressCommand(),
		newVersionCommand(),
	)
	return root
}

// setup loads configuration and initializes logging before any command.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configFile)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	} else if a.configFile == "" && os.Getenv(config.EnvPrefix+"_LOG_LEVEL") == "" {
		cfg.Log.Level = "warn"
	}
	if err := logger.Init(cfg.Log); err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "rxgrep v%s\n", version)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
