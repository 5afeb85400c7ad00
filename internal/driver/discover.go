package driver

import (
	"os"
	"path/filepath"
	"strings"
)

// sourceExtensions mirrors original_source/filelister.cpp's AcceptFile: the
// small fixed set of extensions worth tokenizing at all.
var sourceExtensions = map[string]bool{
	".c": true, ".cc": true, ".cpp": true, ".cxx": true, ".h": true, ".hpp": true,
}

// defaultExcludeDirs mirrors the directories every pack repo's own watcher/
// indexer skips by convention (vendor trees, VCS metadata, build output).
var defaultExcludeDirs = map[string]bool{
	".git": true, "vendor": true, "node_modules": true, "build": true, "dist": true,
}

// Discover walks roots (files or directories) and returns every path
// accepted as a translation unit, grounded on original_source/filelister.cpp's
// RecursiveAddFiles/AcceptFile: recurse into directories, skip unrecognized
// extensions, skip unwanted subtrees. include/exclude are additional
// substring filters applied to the path relative to its root (an explicit
// file argument is matched by the path as given; either list may be nil);
// include, when non-empty, requires at least one substring to match.
func Discover(roots []string, include, exclude []string) ([]string, error) {
	var out []string
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if acceptPath(root, include, exclude) {
				out = append(out, root)
			}
			continue
		}
		err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && defaultExcludeDirs[d.Name()] {
					return filepath.SkipDir
				}
				return nil
			}
			if !sourceExtensions[strings.ToLower(filepath.Ext(path))] {
				return nil
			}
			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				rel = path
			}
			if acceptPath(rel, include, exclude) {
				out = append(out, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func acceptPath(path string, include, exclude []string) bool {
	for _, pat := range exclude {
		if pat != "" && strings.Contains(path, pat) {
			return false
		}
	}
	if len(include) == 0 {
		return true
	}
	for _, pat := range include {
		if pat != "" && strings.Contains(path, pat) {
			return true
		}
	}
	return false
}
