package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRootCommand verifies the root command structure.
func TestRootCommand(t *testing.T) {
	assert.Equal(t, "studtrack", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

// TestRootCommand_Subcommands verifies all analysis commands are registered.
func TestRootCommand_Subcommands(t *testing.T) {
	expected := []string{"report", "summary", "chat", "activity", "views", "version"}

	registered := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		registered[c.Name()] = true
	}

	for _, name := range expected {
		assert.True(t, registered[name], "command %q should be registered", name)
	}
}

// TestRootCommand_PersistentFlags verifies the shared flags exist.
func TestRootCommand_PersistentFlags(t *testing.T) {
	for _, name := range []string{"config", "debug", "log-json", "skip-invalid", "show-metrics"} {
		flag := rootCmd.PersistentFlags().Lookup(name)
		require.NotNil(t, flag, "persistent flag %q should exist", name)
	}
}

// TestVersionCommand verifies version output.
func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)

	require.NoError(t, versionCmd.RunE(versionCmd, nil))

	assert.Contains(t, out.String(), "studtrack version")
	assert.Contains(t, out.String(), "commit:")
	assert.Contains(t, out.String(), "go version:")
}
