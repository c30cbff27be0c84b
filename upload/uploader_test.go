package upload

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"script-to-video-pipeline/config"
)

func TestOauthClientRequiresCredentials(t *testing.T) {
	t.Setenv("YOUTUBE_CLIENT_ID", "")
	t.Setenv("YOUTUBE_CLIENT_SECRET", "")
	t.Setenv("YOUTUBE_REFRESH_TOKEN", "")

	u := New(config.Default().Upload)
	_, err := u.oauthClient(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "YOUTUBE_CLIENT_ID")
}

func TestOauthClientBuildsHTTPClient(t *testing.T) {
	t.Setenv("YOUTUBE_CLIENT_ID", "id")
	t.Setenv("YOUTUBE_CLIENT_SECRET", "secret")
	t.Setenv("YOUTUBE_REFRESH_TOKEN", "refresh")

	u := New(config.Default().Upload)
	client, err := u.oauthClient(context.Background())
	require.NoError(t, err)

	// The service layer requires a real *http.Client whose transport
	// injects the refreshed token.
	var _ *http.Client = client
	transport, ok := client.Transport.(*oauth2.Transport)
	require.True(t, ok)
	assert.NotNil(t, transport.Source)
}

func TestLogUploadWritesRecord(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, LogUpload(dir, "abc123", "https://www.youtube.com/watch?v=abc123", "video.mp4", "My Title"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Name(), "upload_")
	assert.Equal(t, ".json", filepath.Ext(entries[0].Name()))
}
