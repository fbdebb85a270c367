package cmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peekknuf/eda/internal/frame"
	"github.com/peekknuf/eda/internal/profiler"
)

const carsCSV = `make,price,mileage,used
Audi,10,1000,true
BMW,20,NA,false
Opel,20,,true
VW,30,3000,false
`

// run executes the root command with args in an isolated home and
// working directory and returns what it printed.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	logger.SetOutput(io.Discard)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append(args, "--color", "never"))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func carsFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cars.csv")
	require.NoError(t, os.WriteFile(path, []byte(carsCSV), 0644))
	return path
}

func TestOverviewCommand(t *testing.T) {
	out, err := run(t, "overview", carsFile(t), "--column", "make", "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "Column Name     : make\n")
	assert.Contains(t, out, "DataFrame Shape : (4, 4)\n")
}

func TestOverviewUnknownColumn(t *testing.T) {
	_, err := run(t, "overview", carsFile(t), "--column", "colour", "--format", "text")
	var notFound *frame.ColumnNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestDistributionCommand(t *testing.T) {
	plot := filepath.Join(t.TempDir(), "price.svg")
	out, err := run(t, "distribution", carsFile(t), "--column", "price", "--bins", "4", "--plot", plot, "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "Statistical Calculations :")
	assert.Contains(t, out, "Median:       20.00\n")
	assert.FileExists(t, plot)
}

func TestMissingCommand(t *testing.T) {
	file := carsFile(t)

	out, err := run(t, "missing", file, "--limit", "20", "--column=", "--format", "text")
	require.NoError(t, err)
	assert.Equal(t, "mileage    50.00\n", out)

	out, err = run(t, "missing", file, "--limit", "60", "--column=", "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "No columns have missing values")

	out, err = run(t, "missing", file, "--column", "mileage", "--format", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"column":"mileage","percent":50}`, out)
}

func TestMixedCommand(t *testing.T) {
	out, err := run(t, "mixed", carsFile(t), "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "NO PROBLEM")
}

func TestHeadCommand(t *testing.T) {
	out, err := run(t, "head", carsFile(t), "-n", "2", "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "[2x4] DataFrame")
	assert.Contains(t, out, "Audi")
	assert.NotContains(t, out, "Opel")
}

func TestScanCommand(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.csv"), []byte(carsCSV), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.jsonl"), []byte(`{"x":1}`+"\n"+`{"x":null}`+"\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("# hi"), 0644))

	out, err := run(t, "scan", "--dir", dir, "--limit", "40", "--workers", "2", "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "File: "+filepath.Join(dir, "a.csv"))
	assert.Contains(t, out, "File: "+filepath.Join(dir, "b.jsonl"))
	assert.Contains(t, out, "mileage    50.00\n")
	assert.Contains(t, out, "x    50.00\n")
	assert.NotContains(t, out, "notes.md")
}

func TestDescribeCommand(t *testing.T) {
	out, err := run(t, "describe", carsFile(t), "--format", "text")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, []string{"price", "numeric", "4", "0", "20.00"}, strings.Fields(lines[3])[:5])
	assert.Equal(t, "Audi", strings.Fields(lines[2])[12])
}

func TestScanDescribe(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.csv"), []byte(carsCSV), 0644))

	out, err := run(t, "scan", "--dir", dir, "--describe", "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "File: "+filepath.Join(dir, "a.csv")+"\n")
	assert.Contains(t, out, "25%")
}

func TestMixedCommandFlagsBoolWithMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flags.csv")
	require.NoError(t, os.WriteFile(path, []byte("used,make\ntrue,a\n,b\nfalse,c\n"), 0644))

	out, err := run(t, "mixed", path, "--format", "text")
	require.NoError(t, err)
	assert.Equal(t, "Column used has mixed object types. (bool, missing)\n", out)
}

func TestOverviewCommandJSONWithInfinity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prices.csv")
	require.NoError(t, os.WriteFile(path, []byte("price\n10\ninf\n20\n"), 0644))

	out, err := run(t, "overview", path, "--column", "price", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"value": "+Inf"`)
}

func TestDistributionCommandRejectsHugeBins(t *testing.T) {
	_, err := run(t, "distribution", carsFile(t), "--column", "price", "--bins", "2000000000", "--plot=", "--format", "text")
	var invalid *profiler.InvalidArgumentError
	assert.ErrorAs(t, err, &invalid)
}
