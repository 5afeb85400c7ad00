// Command cppgo is a cppcheck-style static analyzer for C and C++ sources.
package main

import (
	"fmt"
	"os"

	"github.com/cwbudde/cppgo/cmd/cppgo/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
