package container

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gazecenter/adapters/gazefile"
	"gazecenter/adapters/objectstore"
	"gazecenter/internal/config"
)

func baseConfig(t *testing.T) *config.Config {
	return &config.Config{
		Source: config.SourceConfig{Kind: config.SourceDirectory, Dir: t.TempDir()},
		Analysis: config.AnalysisConfig{
			DefaultRadiusDeg:     10,
			AggregateConcurrency: 2,
			UploadRetention:      4,
		},
	}
}

func TestNewRejectsNilConfig(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}

func TestInitWithDefaults(t *testing.T) {
	c, err := New(baseConfig(t))
	require.NoError(t, err)
	require.NoError(t, c.Init(context.Background(), true))
	defer c.Shutdown(context.Background())

	assert.IsType(t, &gazefile.DirectorySource{}, c.Source)
	assert.Nil(t, c.DB)
	require.NotNil(t, c.SSEHub)
	assert.Len(t, c.Publisher, 1)
	assert.NotNil(t, c.Service)
}

func TestInitBucketSource(t *testing.T) {
	cfg := baseConfig(t)
	cfg.Source.Kind = config.SourceBucket
	cfg.Storage = config.StorageConfig{Endpoint: "localhost:9000", Bucket: "gaze", Prefix: "participants"}

	c, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, c.Init(context.Background(), false))

	assert.IsType(t, &objectstore.BucketSource{}, c.Source)
	assert.Equal(t, "s3://gaze/participants/", c.Source.Describe())
	assert.Empty(t, c.Publisher)
}
