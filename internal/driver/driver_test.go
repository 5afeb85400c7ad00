package driver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cwbudde/cppgo/internal/diag"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

// int f(int a){ int b = 0; return a / b; }: b is Known 0 at the division,
// so zerodiv is reported. Run end to end through the lexer this package owns, rather
// than a hand-built token.List, since that is the one new surface Run adds
// over internal/checker/checks's own fixture style.
func TestDriverRunFlagsZeroDivisionAcrossLexTokenizeValueflowChecker(t *testing.T) {
	dir := t.TempDir()
	path := writeTempFile(t, dir, "zerodiv.c", `
int f(int a) {
	int b = 0;
	return a / b;
}
`)

	d := New(Options{}, nil)
	logger := diag.NewLogger()
	require.NoError(t, d.Run([]string{path}, logger))

	var ids []string
	for _, m := range logger.Published() {
		ids = append(ids, m.ID)
	}
	require.Contains(t, ids, "zerodiv")
}

func TestDriverRunAggregatesMultipleTranslationUnits(t *testing.T) {
	dir := t.TempDir()
	a := writeTempFile(t, dir, "a.c", `
int f(int x) {
	int z = 0;
	return x / z;
}
`)
	b := writeTempFile(t, dir, "b.c", `
void g() {
	goto done;
done:
	return;
}
`)

	d := New(Options{Workers: 2}, nil)
	logger := diag.NewLogger()
	require.NoError(t, d.Run([]string{a, b}, logger))

	var ids []string
	for _, m := range logger.Published() {
		ids = append(ids, m.ID)
	}
	require.Contains(t, ids, "zerodiv")
	require.Contains(t, ids, "misra-c2012-15.1")
}

func TestDriverRunReportsLexErrorWithoutAbortingOtherFiles(t *testing.T) {
	dir := t.TempDir()
	bad := writeTempFile(t, dir, "bad.c", "int x = `;\n")
	good := writeTempFile(t, dir, "good.c", `
void g() {
	goto done;
done:
	return;
}
`)

	d := New(Options{}, nil)
	logger := diag.NewLogger()
	require.NoError(t, d.Run([]string{bad, good}, logger))

	var ids []string
	for _, m := range logger.Published() {
		ids = append(ids, m.ID)
	}
	require.Contains(t, ids, "analysisAborted")
	require.Contains(t, ids, "misra-c2012-15.1")
}
