package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	yaml "gopkg.in/yaml.v3"
	"go.uber.org/zap/zapcore"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "htmlq.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfiguration_NoFile(t *testing.T) {
	cfg, err := LoadConfiguration("")
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, "normal", cfg.Logging.ConsoleLogger.Level)
	assert.False(t, cfg.Parsing.ReportErrors)
	assert.Equal(t, "html", cfg.Output.Format)
	assert.Equal(t, "\n", cfg.Output.Separator)
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	path := writeConfig(t, `version: 1
logging:
  console:
    level: debug
output:
  format: count
`)

	cfg, err := LoadConfiguration(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.ConsoleLogger.Level)
	assert.Equal(t, "count", cfg.Output.Format)
	// Values absent from the file keep their defaults.
	assert.Equal(t, "\n", cfg.Output.Separator)
}

func TestLoadConfiguration_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid yaml", "version: 1\noutput:\n  format: html\n  bad indent\n"},
		{"unknown field", "version: 1\nunknown: true\n"},
		{"wrong version", "version: 2\n"},
		{"bad format", "version: 1\noutput:\n  format: json\n"},
		{"bad level", "version: 1\nlogging:\n  console:\n    level: loud\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfiguration(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}

	_, err := LoadConfiguration(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestPrepareAndDump(t *testing.T) {
	data, err := Prepare()
	require.NoError(t, err)
	assert.Contains(t, string(data), "version: 1")

	cfg, err := LoadConfiguration("")
	require.NoError(t, err)
	cfg.Output.Format = "text"

	dumped, err := Dump(cfg)
	require.NoError(t, err)

	var back Config
	require.NoError(t, yaml.Unmarshal(dumped, &back))
	assert.Equal(t, *cfg, back)
}

func TestLoggingPrepare(t *testing.T) {
	tests := []struct {
		level     string
		wantInfo  bool
		wantDebug bool
	}{
		{"none", false, false},
		{"normal", true, false},
		{"debug", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			conf := LoggingConfig{ConsoleLogger: LoggerConfig{Level: tt.level}}
			log := conf.Prepare(zapcore.AddSync(&buf))

			log.Info("info message")
			log.Debug("debug message")
			require.NoError(t, log.Sync())

			assert.Equal(t, tt.wantInfo, bytes.Contains(buf.Bytes(), []byte("info message")))
			assert.Equal(t, tt.wantDebug, bytes.Contains(buf.Bytes(), []byte("debug message")))
		})
	}
}

func TestLoggingDebug(t *testing.T) {
	conf := LoggingConfig{ConsoleLogger: LoggerConfig{Level: "normal"}}
	conf.Debug()
	assert.Equal(t, "debug", conf.ConsoleLogger.Level)

	conf.ConsoleLogger.Level = "none"
	conf.Debug()
	assert.Equal(t, "none", conf.ConsoleLogger.Level)
}
