package cmd

import (
	"os"
	"time"

	"github.com/cwbudde/cppgo/internal/cctype"
	"github.com/cwbudde/cppgo/internal/diag"
	"github.com/cwbudde/cppgo/internal/diag/fingerprint"
	"github.com/cwbudde/cppgo/internal/driver"
	"github.com/cwbudde/cppgo/internal/libcfg"
	"github.com/cwbudde/cppgo/internal/platform"
	"github.com/spf13/cobra"
)

var (
	checkLibraryConfig string
	checkWorkers       int
	checkTimeout       time.Duration
)

var checkCmd = &cobra.Command{
	Use:   "check [paths...]",
	Short: "Analyze C/C++ source files or directories",
	Long: `check runs cppgo's tokenizer, value-flow analysis, and checker
registry over every discovered translation unit, then renders and reports
the aggregated findings.

Paths may be individual files or directories; directories are walked
recursively and filtered to recognized C/C++ extensions.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVar(&checkLibraryConfig, "library-config", "", "path to a library-behavior YAML file, merged over the builtin defaults")
	checkCmd.Flags().IntVar(&checkWorkers, "workers", 0, "number of translation units to analyze concurrently (0 = driver default)")
	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", 0, "per-file analysis timeout (0 = unbounded)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	foundAny, err := executeCheck(args)
	if err != nil {
		return err
	}
	if foundAny {
		os.Exit(1)
	}
	return nil
}

// executeCheck runs one full check pass over args and reports whether any
// finding survived filtering, without calling os.Exit itself — watch.go
// calls this directly so a finding during a watch loop doesn't terminate
// the process the loop is running in.
func executeCheck(args []string) (bool, error) {
	proj, err := loadProjectConfig(configFile)
	if err != nil {
		return false, err
	}

	paths, err := driver.Discover(args, proj.Include, proj.Exclude)
	if err != nil {
		return false, err
	}

	plat, err := resolvePlatform(firstNonEmpty(platformName, proj.Platform))
	if err != nil {
		return false, err
	}

	lib, err := resolveLibrary(firstNonEmpty(checkLibraryConfig, proj.LibraryConfig))
	if err != nil {
		return false, err
	}

	workers := checkWorkers
	if workers == 0 {
		workers = proj.Workers
	}

	d := driver.New(driver.Options{
		Platform:     plat,
		Library:      lib,
		Workers:      workers,
		PerTUTimeout: checkTimeout,
	}, logger)

	result := diag.NewLogger()
	if err := applySuppressions(result, proj.SuppressionsFile); err != nil {
		return false, err
	}
	applySeverityFilters(result, proj)
	tmpl := firstNonEmpty(outputTemplate, proj.Template)
	if tmpl == "" {
		tmpl = diag.DefaultTemplate
	}
	result.SetTemplate(tmpl)

	if err := d.Run(paths, result); err != nil {
		return false, err
	}

	messages := result.Published()

	fpPath := firstNonEmpty(persistFingerprint, proj.PersistFingerprints)
	if fpPath != "" {
		messages, err = persistAndFilterFingerprints(fpPath, messages, result.RunID())
		if err != nil {
			return false, err
		}
	}

	for _, m := range messages {
		os.Stdout.WriteString(diag.Render(tmpl, m) + "\n")
	}

	// Logger.Emit already dropped everything below the configured
	// minimum severity and disabled categories (spec.md §4.7), so any
	// message that survived here is itself "a finding above threshold"
	// per spec.md §6's exit-code contract.
	return len(messages) > 0, nil
}

func resolvePlatform(name string) (cctype.Platform, error) {
	if name == "" {
		name = "native64"
	}
	if p, ok := platform.Builtin(name); ok {
		return p, nil
	}
	return platform.Load(name)
}

func resolveLibrary(path string) (*libcfg.Library, error) {
	base := libcfg.Builtin()
	if path == "" {
		return base, nil
	}
	override, err := libcfg.Load(path)
	if err != nil {
		return nil, err
	}
	return base.Merge(override), nil
}

func applySuppressions(result *diag.Logger, path string) error {
	if path == "" {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	sups, err := diag.LoadSuppressions(f)
	if err != nil {
		return err
	}
	result.AddFileSuppressions(sups)
	return nil
}

func applySeverityFilters(result *diag.Logger, proj ProjectConfig) {
	sev := firstNonEmpty(minSeverity, proj.MinSeverity)
	if s, ok := diag.ParseSeverity(sev); ok {
		result.SetMinSeverity(s)
	}
	cats := enabledCategories
	if len(cats) == 0 {
		cats = proj.Enable
	}
	var parsed []diag.Severity
	for _, c := range cats {
		if s, ok := diag.ParseSeverity(c); ok {
			parsed = append(parsed, s)
		}
	}
	result.SetEnabledCategories(parsed)
}

func persistAndFilterFingerprints(path string, messages []diag.Message, runID string) ([]diag.Message, error) {
	store, err := fingerprint.Open(path)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return store.NewFindings(messages, runID)
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
