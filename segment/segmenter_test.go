package segment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"script-to-video-pipeline/config"
)

func testConfig(min, max int) config.SegmenterConfig {
	cfg := config.Default().Segmenter
	cfg.MinSceneLength = min
	cfg.MaxSceneLength = max
	cfg.TargetSceneCount = 0
	return cfg
}

func TestCleanStripsUnsupportedCharacters(t *testing.T) {
	got := Clean("Hello 🌍  world!\n\tThis   has  £odd€ spacing.")
	assert.Equal(t, "Hello world! This has odd spacing.", got)
}

func TestSplitSentences(t *testing.T) {
	got := SplitSentences(`First sentence. Second one! A question? "Quoted end." trailing fragment`)
	require.Len(t, got, 5)
	assert.Equal(t, "First sentence.", got[0])
	assert.Equal(t, "Second one!", got[1])
	assert.Equal(t, "A question?", got[2])
	assert.Equal(t, `"Quoted end."`, got[3])
	assert.Equal(t, "trailing fragment", got[4])
}

func TestRunSplitsTwoSceneScript(t *testing.T) {
	input := "The sun rose over the quiet city. A lone bicycle rider pedaled down Main Street while cafes opened their doors to the morning light."

	result := New(testConfig(20, 80)).Run(context.Background(), input)

	require.True(t, result.Success)
	require.Equal(t, 2, result.TotalScenes)
	assert.Equal(t, "sentence", result.Strategy)
	assert.Equal(t, "The sun rose over the quiet city.", result.Scenes[0].Text)
	assert.Contains(t, result.Scenes[1].Text, "bicycle rider")

	for _, scene := range result.Scenes {
		assert.NotEmpty(t, scene.Text)
		assert.Greater(t, scene.Duration, 0.0)
		assert.Greater(t, scene.WordCount, 0)
	}
	assert.Equal(t, 1, result.Scenes[0].ID)
	assert.Equal(t, 2, result.Scenes[1].ID)
}

func TestRunEmptyInput(t *testing.T) {
	result := New(testConfig(20, 200)).Run(context.Background(), "   \n  ")
	assert.False(t, result.Success)
	assert.Zero(t, result.TotalScenes)
	assert.NotEmpty(t, result.Error)
}

func TestSentencePackingSoftCeiling(t *testing.T) {
	// The first sentence alone is under minLength, so the second is appended
	// even though the pair overshoots maxLength.
	s := &sentenceStrategy{minLength: 40, maxLength: 50}
	scenes, err := s.Split(context.Background(), "Hi there. This is a somewhat longer second sentence here.")
	require.NoError(t, err)
	require.Len(t, scenes, 1)
	assert.Greater(t, len(scenes[0]), 50)
}

func TestSentencePackingKeepsShortFinalRemainder(t *testing.T) {
	s := &sentenceStrategy{minLength: 20, maxLength: 40}
	scenes, err := s.Split(context.Background(), "This sentence is long enough to stand alone fine. Tiny end.")
	require.NoError(t, err)
	require.Len(t, scenes, 2)
	// Only the final remainder may fall below minLength.
	for _, scene := range scenes[:len(scenes)-1] {
		assert.GreaterOrEqual(t, len(scene), 20)
	}
	assert.Equal(t, "Tiny end.", scenes[1])
}

func TestParagraphStrategy(t *testing.T) {
	p := &paragraphStrategy{minLength: 20, maxLength: 80}
	text := "This is the opening paragraph of the script.\n\nAnd here is the second paragraph, also long enough."
	scenes, err := p.Split(context.Background(), text)
	require.NoError(t, err)
	require.Len(t, scenes, 2)
	assert.Contains(t, scenes[0], "opening paragraph")
	assert.Contains(t, scenes[1], "second paragraph")
}

func TestRunNeverEmitsEmptyScenes(t *testing.T) {
	result := New(testConfig(20, 200)).Run(context.Background(), "One short line of narration that fits a single scene.")
	require.True(t, result.Success)
	require.Equal(t, 1, result.TotalScenes)
	assert.NotEmpty(t, result.Scenes[0].Text)
}
