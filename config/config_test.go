package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 20, cfg.Segmenter.MinSceneLength)
	assert.Equal(t, 200, cfg.Segmenter.MaxSceneLength)
	assert.Equal(t, 6.0, cfg.Segmenter.SceneDurationSeconds)
	assert.Equal(t, 6, cfg.Keywords.MaxKeywords)
	assert.Equal(t, 3, cfg.Keywords.MaxPrimary)
	assert.Equal(t, 0.5, cfg.Audio.ToleranceSeconds)
	assert.Equal(t, "portrait", cfg.Visuals.Orientation)
	assert.Equal(t, "720p", cfg.Video.Resolution)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "private", cfg.Upload.Visibility)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesAndFillsGaps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	yaml := "segmenter:\n  min_scene_length: 50\nvideo:\n  resolution: 1080p\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.Segmenter.MinSceneLength)
	assert.Equal(t, "1080p", cfg.Video.Resolution)
	// Untouched fields still get defaults.
	assert.Equal(t, 200, cfg.Segmenter.MaxSceneLength)
	assert.Equal(t, "libx264", cfg.Video.VideoCodec)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("segmenter: ["), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestQualityFor(t *testing.T) {
	q := QualityFor("1080p")
	assert.Equal(t, 1080, q.Width)
	assert.Equal(t, 1920, q.Height)

	// Unknown names fall back to 720p.
	q = QualityFor("4k")
	assert.Equal(t, 720, q.Width)
	assert.Equal(t, 1280, q.Height)
	assert.Equal(t, "2500k", q.Bitrate)
}
