package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jharring9/ByteBracket-CDK/internal/config"
)

func TestCdkArgs(t *testing.T) {
	tests := []struct {
		name   string
		action string
		flags  flags
		want   []string
	}{
		{
			name:   "synth without flags",
			action: "synth",
			want:   []string{"synth", "--all"},
		},
		{
			name:   "deploy off-season",
			action: "deploy",
			flags:  flags{offseason: true, offseasonSet: true},
			want:   []string{"deploy", "--all", "--require-approval", "never", "--concurrency", "100", "-c", "offseason=true"},
		},
		{
			name:   "diff forced in-season",
			action: "diff",
			flags:  flags{offseason: false, offseasonSet: true},
			want:   []string{"diff", "--all", "-c", "offseason=false"},
		},
		{
			name:   "destroy with config",
			action: "destroy",
			flags:  flags{configPath: "prod.yaml"},
			want:   []string{"destroy", "--all", "--force", "--concurrency", "100", "-c", "config=prod.yaml"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cdkArgs(tt.action, tt.flags))
		})
	}
}

func TestLoadConfigAppliesFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("serviceName: StagingBracket\n"), 0o600))

	cfg, err := loadConfig(flags{offseason: true, offseasonSet: true, configPath: path})
	require.NoError(t, err)

	assert.Equal(t, "StagingBracket", cfg.ServiceName)
	assert.True(t, cfg.Offseason)
}

func TestLoadConfigFallsBackToEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("region: eu-west-1\n"), 0o600))
	t.Setenv(config.EnvConfigPath, path)

	cfg, err := loadConfig(flags{})
	require.NoError(t, err)

	assert.Equal(t, "eu-west-1", cfg.Region)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("serviceName: \"\"\n"), 0o600))

	_, err := loadConfig(flags{configPath: path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "serviceName is required")
}

func TestLoadConfigKeepsFileSeasonWithoutFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("offseason: true\n"), 0o600))

	f := flags{configPath: path}
	cfg, err := loadConfig(f)
	require.NoError(t, err)

	assert.True(t, cfg.Offseason)
	assert.NotContains(t, cdkArgs("deploy", f), "offseason=false")
}

func TestLoadConfigFlagOverridesFileSeason(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("offseason: true\n"), 0o600))

	cfg, err := loadConfig(flags{offseason: false, offseasonSet: true, configPath: path})
	require.NoError(t, err)

	assert.False(t, cfg.Offseason)
}
