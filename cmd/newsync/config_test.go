package main

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(context.Background(), envconfig.MapLookuper(map[string]string{
		"NEWS_URL": "https://cloud.example.com/index.php/apps/news/api/v1-2",
	}))
	require.NoError(t, err)

	assert.Equal(t, "newsync.db", cfg.Database)
	assert.Equal(t, 10*time.Second, cfg.NewsTimeout)
	assert.Equal(t, 1, cfg.SyncInterval)
	assert.Equal(t, 30*time.Second, cfg.StageTimeout)
	assert.Equal(t, 4444, cfg.Port)
	assert.Equal(t, "*", cfg.CorsOrigin)
	assert.Equal(t, "newsync", cfg.NotificationTitle)
	assert.False(t, cfg.pushEnabled())
}

func TestLoadConfig_Overrides(t *testing.T) {
	cfg, err := loadConfig(context.Background(), envconfig.MapLookuper(map[string]string{
		"NEWS_URL":           "https://news.example",
		"SYNC_INTERVAL":      "3",
		"STAGE_TIMEOUT":      "5s",
		"PUSHOVER_APP_TOKEN": "app",
		"PUSHOVER_USER_ID":   "user",
	}))
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.SyncInterval)
	assert.Equal(t, 5*time.Second, cfg.StageTimeout)
	assert.True(t, cfg.pushEnabled())
}

func TestLoadConfig_Invalid(t *testing.T) {
	_, err := loadConfig(context.Background(), envconfig.MapLookuper(map[string]string{}))
	assert.Error(t, err, "NEWS_URL is required")

	_, err = loadConfig(context.Background(), envconfig.MapLookuper(map[string]string{
		"NEWS_URL":      "https://news.example",
		"SYNC_INTERVAL": "9",
	}))
	assert.Error(t, err)
}
