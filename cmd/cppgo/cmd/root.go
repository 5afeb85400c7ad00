package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	verbose bool

	// enabledCategories, minSeverity, and template feed every
	// diag.Logger the check/watch subcommands build; configFile is the
	// project's .cppgo.toml, loaded in check.go.
	configFile         string
	enabledCategories  []string
	minSeverity        string
	outputTemplate     string
	platformName       string
	persistFingerprint string

	// logger is the single *zap.Logger constructed once at process
	// startup (spec.md §9's "single initialization" rule) and handed to
	// every internal/driver.Driver this process builds.
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "cppgo",
	Short: "A cppcheck-style static analyzer for C and C++",
	Long: `cppgo is a Go implementation of a cppcheck-style static analyzer.

It tokenizes C/C++ translation units, runs value-flow analysis over them,
and dispatches a registry of checks (division by zero, buffer overruns,
suspicious comparisons, and more) against the result, reporting findings
through a cppcheck-compatible diagnostic stream.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		config.Encoding = "console"
		config.EncoderConfig.TimeKey = ""
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		} else {
			config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", ".cppgo.toml", "project configuration file")
	rootCmd.PersistentFlags().StringSliceVar(&enabledCategories, "enable", nil, "severity categories to report (default: all)")
	rootCmd.PersistentFlags().StringVar(&minSeverity, "min-severity", "", "minimum severity to report (default information)")
	rootCmd.PersistentFlags().StringVar(&outputTemplate, "template", "", "override the diagnostic rendering template")
	rootCmd.PersistentFlags().StringVar(&platformName, "platform", "", "platform definition name or path to a platform YAML file (default native64)")
	rootCmd.PersistentFlags().StringVar(&persistFingerprint, "persist-fingerprints", "", "path to a fingerprint database; suppresses findings already recorded there")
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}
