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

	"github.com/Rahamath-Saniya-ms/edi-pipeline/internal/projector"
)

const sampleInvoice = "ISA*00**00**01*SUPPLIER*01*BUYER*230315*0900*U*00401*000000777*0*P*>~" +
	"ST*810*0001~BIG*20230315*INV9**PO123~IT1*1*2*EA*4.00**VP*ITEM1~TDS*800~" +
	"SAC*C*D240***15.00**********Freight~"

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(append(args, "--env-file", filepath.Join(t.TempDir(), "none.env")))
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func isolateEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("EDI_CONFIG_FILE", "")
	t.Setenv("SQLITE_PATH", filepath.Join(dir, "edi.db"))
	t.Setenv("XLSX_EXPORT_DIR", "")
	t.Setenv("LOG_LEVEL", "error")
	return dir
}

func TestParseCommand(t *testing.T) {
	isolateEnv(t)
	path := writeFile(t, "inv.edi", sampleInvoice)

	out, err := runCLI(t, "", "parse", path)
	require.NoError(t, err)

	var got parseOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "inv.edi", got.Filename)
	assert.Equal(t, 6, got.Segments)
	assert.Empty(t, got.Diagnostics)
	require.Len(t, got.Tables.InvoiceHeaders, 1)
	assert.Equal(t, "INV-0a5e23ef", got.Tables.InvoiceHeaders[0].InvoiceID)
	require.Len(t, got.Tables.InvoiceCharges, 1)
	assert.Equal(t, "CHG-4781a973", got.Tables.InvoiceCharges[0].ChargeID)
	assert.Equal(t, 1, got.Counts[projector.InvoiceLines])
}

func TestParseCommand_StdinNeedsFilename(t *testing.T) {
	isolateEnv(t)
	out, err := runCLI(t, sampleInvoice, "parse", "-", "--filename", "inv.edi")
	require.NoError(t, err)
	assert.Contains(t, out, `"invoice_id": "INV-0a5e23ef"`)
}

func TestIngestCommand(t *testing.T) {
	isolateEnv(t)
	path := writeFile(t, "inv.edi", sampleInvoice)

	out, err := runCLI(t, "", "ingest", path)
	require.NoError(t, err)
	assert.Contains(t, out, "completed")

	// Same filename again is skipped.
	out, err = runCLI(t, "", "ingest", path)
	require.NoError(t, err)
	assert.Contains(t, out, "duplicate_skipped")

	out, err = runCLI(t, "", "ingest", "--force", path)
	require.NoError(t, err)
	assert.Contains(t, out, "completed")
}

func TestIngestCommand_DryRun(t *testing.T) {
	dir := isolateEnv(t)
	path := writeFile(t, "inv.edi", sampleInvoice)

	out, err := runCLI(t, "", "ingest", "--dry-run", path)
	require.NoError(t, err)
	assert.Contains(t, out, "completed")
	_, statErr := os.Stat(filepath.Join(dir, "edi.db"))
	assert.True(t, os.IsNotExist(statErr), "dry run must not open the database")
}

func TestIngestCommand_Errors(t *testing.T) {
	isolateEnv(t)

	_, err := runCLI(t, "", "ingest", filepath.Join(t.TempDir(), "missing.edi"))
	assert.ErrorContains(t, err, "1 of 1 files failed")

	_, err = runCLI(t, "", "ingest", "--run-id", "r1", "a.edi", "b.edi")
	assert.ErrorContains(t, err, "--run-id")

	_, err = runCLI(t, "", "ingest")
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := runCLI(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "ediingest dev"))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", parseLevel("debug").String())
	assert.Equal(t, "WARN", parseLevel("WARNING").String())
	assert.Equal(t, "ERROR", parseLevel("error").String())
	assert.Equal(t, "INFO", parseLevel("bogus").String())
}
