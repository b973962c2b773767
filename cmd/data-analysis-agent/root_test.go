package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRootCommandFlags verifies the flag surface matches the Viper keys the
// config loader binds.
func TestRootCommandFlags(t *testing.T) {
	for _, name := range []string{"config", "verbose", "dataset", "plan"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), "persistent flag %q should be registered", name)
	}
	for _, name := range []string{
		"output", "renderCharts", "entryTimeout", "concurrency",
		"topN", "percentDigits", "statDigits", "multiValueColumns", "multiValueSeparator",
	} {
		assert.NotNil(t, rootCmd.Flags().Lookup(name), "flag %q should be registered", name)
	}
}

func TestRootCommandShorthands(t *testing.T) {
	dataset := rootCmd.PersistentFlags().Lookup("dataset")
	require.NotNil(t, dataset)
	assert.Equal(t, "d", dataset.Shorthand)

	planFlag := rootCmd.PersistentFlags().Lookup("plan")
	require.NotNil(t, planFlag)
	assert.Equal(t, "p", planFlag.Shorthand)

	output := rootCmd.Flags().Lookup("output")
	require.NotNil(t, output)
	assert.Equal(t, "o", output.Shorthand)
}

func TestRootCommandMetadata(t *testing.T) {
	assert.Contains(t, rootCmd.Use, "data-analysis-agent")
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotNil(t, rootCmd.RunE)
}
