package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, dir string) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Name", "Age"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"Ada", 36}))
	_, err := f.NewSheet("Archive")
	require.NoError(t, err)
	require.NoError(t, f.SaveAs(filepath.Join(dir, "people.xlsx")))
}

func TestRunCmd(t *testing.T) {
	dir := t.TempDir()
	writeWorkbook(t, dir)
	profilePath := filepath.Join(dir, "people.yaml")
	require.NoError(t, os.WriteFile(profilePath, []byte("file: people.xlsx\n"), 0o600))

	var stdout bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetArgs([]string{"run", profilePath, "--log-mode", "prod"})
	require.NoError(t, root.Execute())

	var got []map[string]string
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &got))
	assert.Equal(t, []map[string]string{{"Name": "Ada", "Age": "36.0"}}, got)
}

func TestRunCmd_OutFile(t *testing.T) {
	dir := t.TempDir()
	writeWorkbook(t, dir)
	profilePath := filepath.Join(dir, "people.yaml")
	require.NoError(t, os.WriteFile(profilePath, []byte("file: people.xlsx\nwithout_header: true\n"), 0o600))
	outPath := filepath.Join(dir, "out.json")

	root := newRootCmd()
	root.SetArgs([]string{"run", profilePath, "--out", outPath})
	require.NoError(t, root.Execute())

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	var got [][]string
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, [][]string{{"Name", "Age"}, {"Ada", "36.0"}}, got)
}

func TestRunCmd_BadProfile(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"run", filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, root.Execute())
}

func TestSheetsCmd(t *testing.T) {
	dir := t.TempDir()
	writeWorkbook(t, dir)

	var stdout bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetArgs([]string{"sheets", filepath.Join(dir, "people.xlsx")})
	require.NoError(t, root.Execute())
	assert.Equal(t, "0\tSheet1\n1\tArchive\n", stdout.String())
}

func TestDescribeCmd(t *testing.T) {
	dir := t.TempDir()
	writeWorkbook(t, dir)

	var stdout bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetArgs([]string{"describe", filepath.Join(dir, "people.xlsx")})
	require.NoError(t, root.Execute())
	assert.Contains(t, stdout.String(), "[0] Sheet1: 1 rows x 2 columns")
	assert.Contains(t, stdout.String(), "[1] Archive: 0 rows x 0 columns")
}

func TestCheckCmd(t *testing.T) {
	dir := t.TempDir()
	writeWorkbook(t, dir)

	good := filepath.Join(dir, "good.yaml")
	require.NoError(t, os.WriteFile(good, []byte("file: people.xlsx\n"), 0o600))
	var stdout bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetArgs([]string{"check", good})
	require.NoError(t, root.Execute())
	assert.Equal(t, "good: ok (0 warnings)\n", stdout.String())

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("file: people.xlsx\nsheets: {all: true}\n"), 0o600))
	stdout.Reset()
	root = newRootCmd()
	root.SetOut(&stdout)
	root.SetArgs([]string{"check", bad})
	require.NoError(t, root.Execute(), "an empty second sheet only warns")
	assert.Contains(t, stdout.String(), "[WARN] Archive!A1: sheet is empty, no header found")
}
