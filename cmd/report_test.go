package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewReportCommand verifies the report command structure.
func TestNewReportCommand(t *testing.T) {
	cmd := NewReportCommand(testDeps())

	assert.Equal(t, "report", cmd.Use[:6], "command name should be report")
	assert.NotEmpty(t, cmd.Short, "command should have short description")
	assert.NotEmpty(t, cmd.Long, "command should have long description")

	outFlag := cmd.Flags().Lookup("out")
	require.NotNil(t, outFlag, "out flag should exist")
	assert.Equal(t, "string", outFlag.Value.Type(), "out flag should be string")
}

// TestReportCommand_RequiresInput verifies that the input path is required.
func TestReportCommand_RequiresInput(t *testing.T) {
	cmd := NewReportCommand(testDeps())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	assert.Error(t, err, "report command should require an input argument")
}

func TestReportCommand_WritesReport(t *testing.T) {
	out := filepath.Join(t.TempDir(), "report.txt")
	t.Cleanup(func() { reportOut = "" })

	deps := testDeps()
	cmd := NewReportCommand(deps)
	reportOut = out
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{writeFixture(t)})

	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "EXECUTIVE SUMMARY")
	assert.Contains(t, content, "ONLINE MEETINGS ANALYSIS")
	assert.Contains(t, content, "OFFLINE MEETINGS ANALYSIS")
	assert.Contains(t, content, "PARTICIPANT ANALYSIS")
	assert.Contains(t, content, "RECOMMENDATIONS")
	assert.Contains(t, content, "Sprint Planning")
	assert.Contains(t, content, "Workshop")

	assert.Contains(t, stdout.String(), "Report generated: "+out)
}

func TestReportCommand_DefaultsToConfigPath(t *testing.T) {
	t.Cleanup(func() { reportOut = "" })
	reportOut = ""

	deps := testDeps()
	deps.Config.ReportPath = filepath.Join(t.TempDir(), "default.txt")

	cmd := NewReportCommand(deps)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{writeFixture(t)})

	require.NoError(t, cmd.Execute())

	_, err := os.Stat(deps.Config.ReportPath)
	assert.NoError(t, err, "report should be written to the configured default path")
}

func TestWriteReportFile_UnwritablePath(t *testing.T) {
	deps := testDeps()
	require.NoError(t, deps.ensure())

	batch, err := loadBatch(deps, writeFixture(t))
	require.NoError(t, err)

	err = writeReportFile(batch, filepath.Join(t.TempDir(), "no", "such", "dir", "r.txt"))
	require.Error(t, err)
}
