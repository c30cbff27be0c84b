package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"script-to-video-pipeline/config"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := config.Default()
	cfg.Paths.Temp = t.TempDir()
	cfg.Paths.Output = t.TempDir()
	return New(cfg)
}

func postJSON(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestProcessTextSegmentsScript(t *testing.T) {
	router := newTestServer(t).Router()

	w := postJSON(t, router, "/api/process-text", gin.H{
		"script": "The sun rose over the quiet city. A lone bicycle rider pedaled down Main Street while cafes opened their doors to the morning light.",
		"options": gin.H{
			"min_scene_length": 20,
			"max_scene_length": 80,
		},
	})

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Success     bool   `json:"success"`
		SessionID   string `json:"session_id"`
		TotalScenes int    `json:"total_scenes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.SessionID)
	assert.Equal(t, 2, resp.TotalScenes)
}

func TestProcessTextMissingScriptIs400(t *testing.T) {
	router := newTestServer(t).Router()
	w := postJSON(t, router, "/api/process-text", gin.H{"options": gin.H{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProcessTextEmptyScriptIsStageFailure(t *testing.T) {
	// A present-but-blank script is well-formed, so the stage runs and
	// reports failure in-band with HTTP 200.
	router := newTestServer(t).Router()
	w := postJSON(t, router, "/api/process-text", gin.H{"script": "   "})

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)
}

func TestStageEndpointsRequireSessionID(t *testing.T) {
	router := newTestServer(t).Router()
	for _, path := range []string{"/api/process-audio", "/api/process-visuals", "/api/process-video"} {
		w := postJSON(t, router, path, gin.H{"scenes": []gin.H{}})
		assert.Equal(t, http.StatusBadRequest, w.Code, "path %s", path)
	}
}

func TestServeVideoRejectsTraversal(t *testing.T) {
	router := newTestServer(t).Router()
	req := httptest.NewRequest(http.MethodGet, "/api/videos/..%2Fsecret.mp4", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.NotEqual(t, http.StatusOK, w.Code)
}

func TestServeVideoMissingFileIs404(t *testing.T) {
	router := newTestServer(t).Router()
	req := httptest.NewRequest(http.MethodGet, "/api/videos/compiled_video_nope.mp4", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCleanupReportsDeletedCount(t *testing.T) {
	srv := newTestServer(t)
	router := srv.Router()

	// Open a session via process-text, then clean it up.
	w := postJSON(t, router, "/api/process-text", gin.H{"script": "A short script that makes one scene."})
	var created struct {
		SessionID string `json:"session_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.SessionID)

	w = postJSON(t, router, "/api/cleanup", gin.H{"session_id": created.SessionID})
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Success bool `json:"success"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}
