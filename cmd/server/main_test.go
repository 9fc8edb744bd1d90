package main

import (
	"bytes"
	"testing"

	"github.com/GriffinCanCode/jsexec/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyFlags(t *testing.T) {
	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--transport", "http", "--log-level", "debug"}))

	cfg := config.Default()
	f := flags{transport: "http", logLevel: "debug"}
	applyFlags(cmd, cfg, f)

	assert.Equal(t, config.TransportHTTP, cfg.Server.Transport)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "127.0.0.1:8765", cfg.Server.Addr)
	assert.False(t, cfg.Logging.Development)
}

func TestApplyFlagsLeavesEnvironmentWhenUnset(t *testing.T) {
	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags(nil))

	cfg := config.Default()
	cfg.Server.Transport = config.TransportHTTP
	applyFlags(cmd, cfg, flags{transport: config.TransportStdio})

	assert.Equal(t, config.TransportHTTP, cfg.Server.Transport)
}

func TestVersionCommand(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "jsexec "+Version)
}

func TestNewLogger(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Level = "warn"

	logger, err := newLogger(cfg)
	require.NoError(t, err)
	assert.NotNil(t, logger)

	cfg.Logging.Level = "shouty"
	_, err = newLogger(cfg)
	assert.Error(t, err)
}
