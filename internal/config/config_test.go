package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gazecenter/internal/errors"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PARTICIPANT_SOURCE", "PARTICIPANT_DIR", "DEFAULT_RADIUS_DEG", "PORT", "DATABASE_URL", "MQTT_BROKER", "GIN_MODE"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, SourceDirectory, cfg.Source.Kind)
	assert.Equal(t, "./data", cfg.Source.Dir)
	assert.Equal(t, 10.0, cfg.Analysis.DefaultRadiusDeg)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "gaze/summary", cfg.MQTT.Topic)
	assert.Empty(t, cfg.Database.URL)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown source", map[string]string{"PARTICIPANT_SOURCE": "ftp"}},
		{"bucket without name", map[string]string{"PARTICIPANT_SOURCE": "s3", "S3_BUCKET": ""}},
		{"radius out of range", map[string]string{"DEFAULT_RADIUS_DEG": "25"}},
		{"zero concurrency", map[string]string{"AGGREGATE_CONCURRENCY": "0"}},
		{"unknown gin mode", map[string]string{"GIN_MODE": "production"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PARTICIPANT_SOURCE", "")
			t.Setenv("DEFAULT_RADIUS_DEG", "")
			t.Setenv("AGGREGATE_CONCURRENCY", "")
			t.Setenv("GIN_MODE", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}
