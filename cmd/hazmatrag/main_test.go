package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
	"github.com/xuri/excelize/v2"
)

var catalogRows = [][]string{
	{"联合国编号", "名称和说明", "英文名称和说明", "类别或项别", "次要危险性", "包装类别", "特殊规定"},
	{"1133", "黏合剂", "ADHESIVES", "3", "", "I", "640D"},
	{"1133", "黏合剂", "ADHESIVES", "3", "", "II", "640E"},
	{"3480", "锂离子电池组", "LITHIUM ION BATTERIES", "9", "", "", "188 230 310"},
	{"1090", "丙酮", "ACETONE", "3", "", "II", ""},
}

const appendixMarkdown = `# 附录A 特殊规定

188 托运的锂电池和电池组如满足下列条件，不受本规定其他条款限制：对于锂金属或锂合金电池，锂含量不超过1克；对于锂离子电池，瓦特小时额定值不超过20Wh。

243 用于火花点火发动机的汽油、车用汽油和航空汽油，应当划入包装类别II，并且满足本规定对易燃液体运输和包装的全部要求。
`

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := newApp()
	app.Writer = &stdout
	app.ErrWriter = &stderr
	err := app.Run(append([]string{"hazmatrag", "--log-level", "error", "--color", "never"}, args...))
	return stdout.String(), stderr.String(), err
}

func writeCatalogCSV(t *testing.T, dir string) string {
	t.Helper()
	var b strings.Builder
	for _, row := range catalogRows {
		b.WriteString(strings.Join(row, ",") + "\n")
	}
	path := filepath.Join(dir, "catalog.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func findCommand(t *testing.T, app *cli.App, name string) *cli.Command {
	t.Helper()
	for _, cmd := range app.Commands {
		if cmd.Name == name {
			return cmd
		}
	}
	t.Fatalf("command %q not found", name)
	return nil
}

func TestAppCommands(t *testing.T) {
	app := newApp()
	for _, name := range []string{"query", "build", "stats", "reset", "rebuild", "convert"} {
		assert.NotNil(t, findCommand(t, app, name))
	}
}

func TestQueryCommandFlags(t *testing.T) {
	cmd := findCommand(t, newApp(), "query")

	t.Run("strategy defaults to auto", func(t *testing.T) {
		var strategy *cli.StringFlag
		for _, flag := range cmd.Flags {
			if f, ok := flag.(*cli.StringFlag); ok && f.Name == "strategy" {
				strategy = f
			}
		}
		require.NotNil(t, strategy)
		assert.Equal(t, "auto", strategy.Value)
	})

	t.Run("top-k defaults to the configured cap", func(t *testing.T) {
		var topK *cli.IntFlag
		for _, flag := range cmd.Flags {
			if f, ok := flag.(*cli.IntFlag); ok && f.Name == "top-k" {
				topK = f
			}
		}
		require.NotNil(t, topK)
		assert.Equal(t, 0, topK.Value)
	})

	t.Run("query text is required", func(t *testing.T) {
		_, _, err := run(t, "--data-dir", t.TempDir(), "query")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "query text is required")
	})

	t.Run("invalid strategy", func(t *testing.T) {
		_, _, err := run(t, "--data-dir", t.TempDir(), "query", "--strategy", "fuzzy", "UN1133")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "fuzzy")
	})
}

func TestBuildCommandRequiresCatalog(t *testing.T) {
	_, _, err := run(t, "--data-dir", t.TempDir(), "build")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog")
}

func TestInvalidLogLevel(t *testing.T) {
	app := newApp()
	app.Writer = &bytes.Buffer{}
	app.ErrWriter = &bytes.Buffer{}
	err := app.Run([]string{"hazmatrag", "--log-level", "chatty", "stats"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestInvalidBackend(t *testing.T) {
	_, _, err := run(t, "--data-dir", t.TempDir(), "--backend", "postgres", "stats")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog_backend")
}

func TestEndToEnd(t *testing.T) {
	dir := t.TempDir()
	dataDir := filepath.Join(dir, "db")
	catalogPath := writeCatalogCSV(t, dir)
	appendixPath := filepath.Join(dir, "appendix.md")
	require.NoError(t, os.WriteFile(appendixPath, []byte(appendixMarkdown), 0o644))

	out, _, err := run(t, "--data-dir", dataDir, "build", "--catalog", catalogPath, "--appendix", appendixPath, "--smoke")
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 4 catalog records (0 skipped)")
	assert.Contains(t, out, "Indexed 4 chemical documents and 2 regulation chunks")
	assert.Contains(t, out, "categories: 3=3, 9=1")
	assert.Contains(t, out, "UN1133: 2 chemicals")

	t.Run("build twice fails without overwrite", func(t *testing.T) {
		_, _, err := run(t, "--data-dir", dataDir, "build", "--catalog", catalogPath)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already")
	})

	t.Run("query as json", func(t *testing.T) {
		out, _, err := run(t, "--data-dir", dataDir, "query", "--strategy", "exact", "--json", "UN3480")
		require.NoError(t, err)

		var result struct {
			Query     string `json:"query"`
			Chemicals []struct {
				UNNumber   int    `json:"un_number"`
				SearchType string `json:"search_type"`
				Score      float64
			} `json:"chemicals"`
			Regulations []struct {
				ID string `json:"id"`
			} `json:"regulations"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		assert.Equal(t, "UN3480", result.Query)
		require.Len(t, result.Chemicals, 1)
		assert.Equal(t, 3480, result.Chemicals[0].UNNumber)
		assert.Equal(t, "exact_id", result.Chemicals[0].SearchType)
		assert.Equal(t, 1.0, result.Chemicals[0].Score)
		require.NotEmpty(t, result.Regulations)
	})

	t.Run("verbose query prints the flow", func(t *testing.T) {
		out, errOut, err := run(t, "--data-dir", dataDir, "query", "--verbose", "丙酮")
		require.NoError(t, err)
		assert.Contains(t, errOut, "Query flow:")
		assert.Contains(t, out, "Query: 丙酮")
		assert.Contains(t, out, "Chemicals (")
	})

	t.Run("stats as json", func(t *testing.T) {
		out, _, err := run(t, "--data-dir", dataDir, "stats", "--json")
		require.NoError(t, err)

		var stats map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &stats))
		assert.EqualValues(t, 4, stats["total_chemicals"])
		assert.EqualValues(t, 6, stats["total_documents"])
		assert.Equal(t, "badger", stats["catalog_backend"])
	})

	t.Run("reset then rebuild", func(t *testing.T) {
		out, _, err := run(t, "--data-dir", dataDir, "reset")
		require.NoError(t, err)
		assert.Contains(t, out, "Index reset")

		out, _, err = run(t, "--data-dir", dataDir, "stats")
		require.NoError(t, err)
		assert.Contains(t, out, "documents: 0")

		out, errOut, err := run(t, "--data-dir", dataDir, "rebuild", "--appendix", appendixPath)
		require.NoError(t, err)
		assert.Contains(t, out, "Indexed 4 chemical documents and 2 regulation chunks")
		assert.Contains(t, errOut, "Rebuild complete")
	})

	t.Run("rebuild rejects bad retries", func(t *testing.T) {
		_, _, err := run(t, "--data-dir", dataDir, "rebuild", "--max-retries", "0")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max-retries")
	})
}

func TestConvertCommand(t *testing.T) {
	dir := t.TempDir()
	xlsxPath := filepath.Join(dir, "catalog.xlsx")

	f := excelize.NewFile()
	for i, row := range catalogRows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		values := make([]any, len(row))
		for j, v := range row {
			values[j] = v
		}
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &values))
	}
	require.NoError(t, f.SaveAs(xlsxPath))
	require.NoError(t, f.Close())

	out, _, err := run(t, "convert", "--input", xlsxPath)
	require.NoError(t, err)

	csvPath := filepath.Join(dir, "catalog.csv")
	assert.Contains(t, out, "Wrote 4 rows to "+csvPath)
	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "\ufeff联合国编号"))

	_, _, err = run(t, "convert", "--input", filepath.Join(dir, "missing.xlsx"))
	require.Error(t, err)
}

func TestResolveColors(t *testing.T) {
	on, err := resolveColors("always")
	require.NoError(t, err)
	assert.True(t, on)

	off, err := resolveColors("never")
	require.NoError(t, err)
	assert.False(t, off)

	t.Setenv("NO_COLOR", "1")
	auto, err := resolveColors("auto")
	require.NoError(t, err)
	assert.False(t, auto)

	_, err = resolveColors("rainbow")
	require.Error(t, err)
}
