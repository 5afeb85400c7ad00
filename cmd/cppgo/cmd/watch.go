package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch [paths...]",
	Short: "Re-run check whenever a watched source file changes",
	Long: `watch recursively subscribes to every directory under paths and
re-runs check's analysis, debounced, whenever a .c/.cpp/.h file (or the
configured suppressions file) is created or written.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 200*time.Millisecond, "delay after the last change before re-running check")
}

var watchSkipDirs = map[string]bool{".git": true, "vendor": true, "node_modules": true, "build": true, "dist": true}

// runWatch is grounded on ternarybob-iter's index.Watcher: an fsnotify
// watcher feeding a debounce map drained by a ticker, rather than
// re-running analysis once per individual filesystem event.
func runWatch(cmd *cobra.Command, args []string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	for _, root := range args {
		if err := addWatchDirs(w, root); err != nil {
			return err
		}
	}

	proj, err := loadProjectConfig(configFile)
	if err != nil {
		return err
	}
	if proj.SuppressionsFile != "" {
		if err := w.Add(filepath.Dir(proj.SuppressionsFile)); err != nil {
			fmt.Fprintf(os.Stderr, "warning: cannot watch suppressions file directory: %v\n", err)
		}
	}

	var pendingMu sync.Mutex
	pending := map[string]time.Time{}

	runNow := func() {
		fmt.Fprintln(os.Stderr, "cppgo watch: re-running check")
		if _, err := executeCheck(args); err != nil {
			fmt.Fprintln(os.Stderr, "cppgo watch:", err)
		}
	}

	runNow()

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !watchRelevant(event.Name, proj.SuppressionsFile) {
				continue
			}
			pendingMu.Lock()
			pending[event.Name] = time.Now()
			pendingMu.Unlock()

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintln(os.Stderr, "cppgo watch: watcher error:", err)

		case <-ticker.C:
			pendingMu.Lock()
			ready := len(pending) > 0
			now := time.Now()
			for _, t := range pending {
				if now.Sub(t) < watchDebounce {
					ready = false
					break
				}
			}
			if ready {
				pending = map[string]time.Time{}
			}
			pendingMu.Unlock()
			if ready {
				runNow()
			}
		}
	}
}

func addWatchDirs(w *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if path != root && watchSkipDirs[info.Name()] {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			fmt.Fprintf(os.Stderr, "warning: cannot watch %s: %v\n", path, err)
		}
		return nil
	})
}

func watchRelevant(name, suppressionsFile string) bool {
	if name == suppressionsFile {
		return true
	}
	switch filepath.Ext(name) {
	case ".c", ".cc", ".cpp", ".cxx", ".h", ".hpp":
		return true
	default:
		return false
	}
}
