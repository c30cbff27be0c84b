package render

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"script-to-video-pipeline/config"
	"script-to-video-pipeline/session"
	"script-to-video-pipeline/types"
)

func newTestSession(t *testing.T) *session.Session {
	t.Helper()
	sess, err := session.New(t.TempDir(), t.TempDir())
	require.NoError(t, err)
	return sess
}

func TestFormatVTTTime(t *testing.T) {
	assert.Equal(t, "00:00:00.000", formatVTTTime(0))
	assert.Equal(t, "00:00:06.500", formatVTTTime(6.5))
	assert.Equal(t, "00:01:05.250", formatVTTTime(65.25))
	assert.Equal(t, "01:00:00.000", formatVTTTime(3600))
	assert.Equal(t, "00:00:00.000", formatVTTTime(-1))
}

func TestSplitCaptions(t *testing.T) {
	text := "one two three four five six seven eight nine ten eleven twelve thirteen fourteen fifteen sixteen seventeen"
	captions := splitCaptions(text, 8)
	require.Len(t, captions, 3)
	assert.Equal(t, 8, len(strings.Fields(captions[0])))
	assert.Equal(t, 8, len(strings.Fields(captions[1])))
	assert.Equal(t, 1, len(strings.Fields(captions[2])))
}

func TestGenerateVTT(t *testing.T) {
	scenes := []*types.Scene{
		{ID: 1, Text: "The sun rose over the quiet city.", ActualDuration: 4},
		{ID: 2, Text: "A lone bicycle rider pedaled down Main Street.", ActualDuration: 6},
	}

	vtt := GenerateVTT(scenes, 8)

	assert.True(t, strings.HasPrefix(vtt, "WEBVTT\n\n"))
	assert.Contains(t, vtt, "00:00:00.000 --> 00:00:04.000")
	assert.Contains(t, vtt, "The sun rose over the quiet city.")
	// Scene 2 starts where scene 1 ended.
	assert.Contains(t, vtt, "00:00:04.000 -->")
}

func TestGenerateVTTDividesSceneEvenly(t *testing.T) {
	// 10 words at 4 per caption = 3 captions over 6 seconds = 2s each.
	scenes := []*types.Scene{
		{ID: 1, Text: "one two three four five six seven eight nine ten", ActualDuration: 6},
	}
	vtt := GenerateVTT(scenes, 4)
	assert.Contains(t, vtt, "00:00:00.000 --> 00:00:02.000")
	assert.Contains(t, vtt, "00:00:02.000 --> 00:00:04.000")
	assert.Contains(t, vtt, "00:00:04.000 --> 00:00:06.000")
}

func TestSubtitleStyleUsesConfiguredFields(t *testing.T) {
	cfg := config.Default().Video
	cfg.SubtitleFont = "Helvetica"
	cfg.SubtitleFontSize = 32
	cfg.SubtitleStroke = 3
	cfg.SubtitleMargin = 60

	style := subtitleStyle(cfg)
	assert.Contains(t, style, "FontName=Helvetica")
	assert.Contains(t, style, "FontSize=32")
	assert.Contains(t, style, "Outline=3")
	assert.Contains(t, style, "MarginV=60")
}

func TestBurnIntoKeepsCleanVideoOnFailure(t *testing.T) {
	c := NewCompiler(config.Default().Video, newTestSession(t))
	dir := t.TempDir()
	outPath := filepath.Join(dir, "compiled_video_test.mp4")
	subPath := filepath.Join(dir, "master_subtitles.vtt")
	require.NoError(t, os.WriteFile(outPath, []byte("not a real video"), 0644))
	require.NoError(t, os.WriteFile(subPath, []byte("WEBVTT\n"), 0644))

	// The encode fails on the bogus input; the original file must survive.
	c.burnInto(context.Background(), outPath, subPath)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "not a real video", string(data))
}

func TestRenderScenePreconditionsFailFast(t *testing.T) {
	r := NewRenderer(config.Default().Video, newTestSession(t))

	noAudio := &types.Scene{ID: 1, Duration: 6}
	render := r.RenderScene(context.Background(), noAudio)
	assert.False(t, render.Success)
	assert.Contains(t, render.Error, "no audio file")

	noVisual := &types.Scene{
		ID:       2,
		Duration: 6,
		Audio:    &types.AudioResult{Success: true, FilePath: "/nonexistent/audio.mp3"},
	}
	render = r.RenderScene(context.Background(), noVisual)
	assert.False(t, render.Success)
	assert.Contains(t, render.Error, "no downloaded visual")
}

func TestRenderSceneMissingFileOnDisk(t *testing.T) {
	r := NewRenderer(config.Default().Video, newTestSession(t))
	scene := &types.Scene{
		ID:       1,
		Duration: 6,
		Audio:    &types.AudioResult{FilePath: "/nonexistent/audio.mp3"},
		Visual: &types.VisualResult{
			Selected: &types.VisualSelection{LocalPath: "/nonexistent/visual.jpg", DownloadSuccess: true},
		},
	}
	render := r.RenderScene(context.Background(), scene)
	assert.False(t, render.Success)
	assert.Contains(t, render.Error, "audio missing")
}

func TestCompileFailsWithNoRenderedScenes(t *testing.T) {
	c := NewCompiler(config.Default().Video, newTestSession(t))
	scenes := []*types.Scene{{ID: 1, Text: "hello world", Duration: 6}}
	renders := []types.SceneRender{{SceneID: 1, Success: false, Error: "encode failed"}}

	result := c.Compile(context.Background(), scenes, renders)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "no scenes rendered")
}

func TestWriteConcatListPreservesOrder(t *testing.T) {
	dir := t.TempDir()
	listPath := filepath.Join(dir, "concat_list.txt")
	renders := []types.SceneRender{
		{SceneID: 1, Success: true, OutputPath: "/clips/temp_scene_1.mp4"},
		{SceneID: 3, Success: true, OutputPath: "/clips/temp_scene_3.mp4"},
		{SceneID: 4, Success: true, OutputPath: "/clips/temp_scene_4.mp4"},
	}

	require.NoError(t, writeConcatList(listPath, renders))

	data, err := os.ReadFile(listPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "temp_scene_1.mp4")
	assert.Contains(t, lines[1], "temp_scene_3.mp4")
	assert.Contains(t, lines[2], "temp_scene_4.mp4")
}

func TestSceneSummariesSkipFailedSceneWithoutReordering(t *testing.T) {
	scenes := []*types.Scene{
		{ID: 1, Text: "a", ActualDuration: 4, Audio: &types.AudioResult{FileName: "scene_1_audio.mp3"}},
		{ID: 2, Text: "b", ActualDuration: 5},
		{ID: 3, Text: "c", ActualDuration: 6, Audio: &types.AudioResult{FileName: "scene_3_audio.mp3"}},
		{ID: 4, Text: "d", ActualDuration: 3, Audio: &types.AudioResult{FileName: "scene_4_audio.mp3"}},
	}
	renders := map[int]types.SceneRender{
		1: {SceneID: 1, Success: true},
		2: {SceneID: 2, Success: false},
		3: {SceneID: 3, Success: true},
		4: {SceneID: 4, Success: true},
	}

	summaries := sceneSummaries(scenes, renders)
	require.Len(t, summaries, 4)

	assert.Equal(t, []int{1, 2, 3, 4}, []int{summaries[0].ID, summaries[1].ID, summaries[2].ID, summaries[3].ID})
	assert.False(t, summaries[1].Success)
	assert.Empty(t, summaries[1].StartTime)

	// Failed scene 2 occupies no timeline: scene 3 starts where scene 1 ended.
	assert.Equal(t, "00:00:04.000", summaries[0].EndTime)
	assert.Equal(t, "00:00:04.000", summaries[2].StartTime)
	assert.Equal(t, "00:00:10.000", summaries[2].EndTime)
	assert.Equal(t, "00:00:10.000", summaries[3].StartTime)
}
