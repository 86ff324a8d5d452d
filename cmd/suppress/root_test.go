package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/account-hygiene/internal/sendgrid"
	"github.com/ignite/account-hygiene/internal/suppression"
)

func TestNewRootCmdHasSubcommands(t *testing.T) {
	cmd := NewRootCmd()

	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	assert.True(t, names["sweep"])
	assert.True(t, names["check"])
	assert.True(t, names["history"])
	assert.True(t, names["version"])
}

func TestBuildSweepConfigRequiresExactlyOneTarget(t *testing.T) {
	cmd := NewSweepCmd()
	_, err := buildSweepConfig(cmd)
	assert.Error(t, err)

	cmd = NewSweepCmd()
	require.NoError(t, cmd.Flags().Set("email", "x@example.com"))
	require.NoError(t, cmd.Flags().Set("csv", "emails.csv"))
	_, err = buildSweepConfig(cmd)
	assert.Error(t, err)
}

func TestBuildSweepConfigSingleEmail(t *testing.T) {
	cmd := NewSweepCmd()
	require.NoError(t, cmd.Flags().Set("email", "x@example.com"))
	require.NoError(t, cmd.Flags().Set("dry-run", "true"))
	require.NoError(t, cmd.Flags().Set("delay", "250ms"))
	require.NoError(t, cmd.Flags().Set("lists", "bounces,blocks"))

	cfg, err := buildSweepConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, suppression.ModeSingle, cfg.Mode)
	assert.Equal(t, "x@example.com", cfg.Email)
	assert.True(t, cfg.DryRun)
	assert.Equal(t, 250*time.Millisecond, cfg.Delay)
	assert.Equal(t, []sendgrid.ListType{sendgrid.ListBounces, sendgrid.ListBlocks}, cfg.Lists)
}

func TestBuildSweepConfigRejectsUnknownList(t *testing.T) {
	cmd := NewSweepCmd()
	require.NoError(t, cmd.Flags().Set("domain", "corp.io"))
	require.NoError(t, cmd.Flags().Set("lists", "bogus"))

	_, err := buildSweepConfig(cmd)
	assert.Error(t, err)
}
