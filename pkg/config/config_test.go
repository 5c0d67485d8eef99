package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabsolver/tabsolver/pkg/format"
)

func TestDefaultOptionsValidate(t *testing.T) {
	opts := DefaultOptions()
	require.NoError(t, opts.Validate())

	mode, err := opts.Mode()
	require.NoError(t, err)
	assert.Equal(t, format.Default, mode)
}

func TestValidateRejectsUnknownValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Options)
	}{
		{"log level", func(o *Options) { o.LogLevel = "loud" }},
		{"log encoding", func(o *Options) { o.LogEncoding = "xml" }},
		{"index format", func(o *Options) { o.IndexFormat = "bogus" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.mutate(opts)
			assert.Error(t, opts.Validate())
		})
	}
}

func TestLoadSubstitutesEnvVars(t *testing.T) {
	t.Setenv("TABSOLVER_TEST_LEVEL", "debug")

	path := filepath.Join(t.TempDir(), "options.yaml")
	content := `
log_level: ${TABSOLVER_TEST_LEVEL}
log_encoding: console
interactive: true
index_format: disabled
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	opts := DefaultOptions()
	require.NoError(t, Load(path, opts))
	assert.Equal(t, "debug", opts.LogLevel)
	assert.Equal(t, "console", opts.LogEncoding)
	assert.True(t, opts.Interactive)
	assert.Equal(t, "disabled", opts.IndexFormat)
	require.NoError(t, opts.Validate())
}

func TestLoadMissingFile(t *testing.T) {
	err := Load(filepath.Join(t.TempDir(), "nope.yaml"), DefaultOptions())
	assert.Error(t, err)
}
