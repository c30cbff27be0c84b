package audio

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"script-to-video-pipeline/config"
	"script-to-video-pipeline/session"
	"script-to-video-pipeline/types"
)

func newTestSynthesizer(t *testing.T) *Synthesizer {
	t.Helper()
	sess, err := session.New(t.TempDir(), t.TempDir())
	require.NoError(t, err)
	cfg := config.Default().Audio
	cfg.InterSceneDelayMS = 1
	cfg.RetryDelayMS = 1
	return New(cfg, sess)
}

func TestRunWithNoScenesIsStageFatal(t *testing.T) {
	s := newTestSynthesizer(t)
	result := s.Run(context.Background(), nil)
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
}

func TestProcessSceneRejectsBlankText(t *testing.T) {
	s := newTestSynthesizer(t)
	scene := &types.Scene{ID: 1, Text: "   ", Duration: 6}
	res := s.processScene(context.Background(), scene)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "no speakable text")
}

func TestTTSArgsUseConfiguredLanguage(t *testing.T) {
	t.Setenv("TTS_VOICE", "")
	cfg := config.Default().Audio
	cfg.Language = "es"
	s := &Synthesizer{cfg: cfg}

	args := s.ttsArgs("hola", "out.mp3")
	assert.Equal(t, []string{"--voice", "es-ES-AlvaroNeural", "--text", "hola", "--write-media", "out.mp3"}, args)
}

func TestTTSArgsUnknownLanguageFallsBack(t *testing.T) {
	t.Setenv("TTS_VOICE", "")
	cfg := config.Default().Audio
	cfg.Language = "xx"
	s := &Synthesizer{cfg: cfg}

	args := s.ttsArgs("hi", "out.mp3")
	assert.Equal(t, defaultVoice, args[1])
}

func TestTTSArgsVoiceEnvOverride(t *testing.T) {
	t.Setenv("TTS_VOICE", "en-GB-RyanNeural")
	s := &Synthesizer{cfg: config.Default().Audio}

	args := s.ttsArgs("hi", "out.mp3")
	assert.Equal(t, "en-GB-RyanNeural", args[1])
}

func TestTTSArgsSlowAddsRate(t *testing.T) {
	t.Setenv("TTS_VOICE", "")
	cfg := config.Default().Audio
	cfg.Slow = true
	s := &Synthesizer{cfg: cfg}

	args := s.ttsArgs("hi", "out.mp3")
	assert.Contains(t, args, "--rate="+slowRate)

	cfg.Slow = false
	s = &Synthesizer{cfg: cfg}
	assert.NotContains(t, s.ttsArgs("hi", "out.mp3"), "--rate="+slowRate)
}

func TestEstimateByWPM(t *testing.T) {
	cfg := config.Default().Audio // 150 wpm
	s := &Synthesizer{cfg: cfg}

	// 750 characters = 150 five-char words = one minute of speech.
	text := make([]byte, 750)
	for i := range text {
		text[i] = 'a'
	}
	assert.InDelta(t, 60.0, s.estimateByWPM(string(text)), 1e-9)
}
