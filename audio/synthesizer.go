package audio

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"script-to-video-pipeline/config"
	"script-to-video-pipeline/media"
	"script-to-video-pipeline/session"
	"script-to-video-pipeline/types"
)

// Default edge-tts voice per narration language. TTS_VOICE overrides.
var voicesByLanguage = map[string]string{
	"en": "en-US-ChristopherNeural",
	"es": "es-ES-AlvaroNeural",
	"fr": "fr-FR-HenriNeural",
	"de": "de-DE-ConradNeural",
	"pt": "pt-BR-AntonioNeural",
	"hi": "hi-IN-MadhurNeural",
}

const defaultVoice = "en-US-ChristopherNeural"

// slowRate is the edge-tts rate adjustment used when slow narration is
// configured.
const slowRate = "-25%"

// voiceForLanguage maps a config language code to an edge-tts voice.
func voiceForLanguage(language string) string {
	if v, ok := voicesByLanguage[language]; ok {
		return v
	}
	return defaultVoice
}

// Synthesizer narrates scenes one at a time with an external TTS engine
// and annotates each scene with measured duration and fit analysis.
type Synthesizer struct {
	cfg  config.AudioConfig
	sess *session.Session
}

func New(cfg config.AudioConfig, sess *session.Session) *Synthesizer {
	return &Synthesizer{cfg: cfg, sess: sess}
}

// Run synthesizes narration for every scene sequentially. Individual scene
// failures are recorded on the scene and do not stop the stage; the stage
// fails only when no scene produced audio at all.
func (s *Synthesizer) Run(ctx context.Context, scenes []*types.Scene) *types.AudioStageResult {
	result := &types.AudioStageResult{
		SessionID: s.sess.ID,
		Scenes:    scenes,
	}
	if len(scenes) == 0 {
		result.Error = "no scenes to narrate"
		return result
	}

	log.Printf("[audio] narrating %d scenes (session %s)", len(scenes), s.sess.ID)

	for i, scene := range scenes {
		select {
		case <-ctx.Done():
			result.Error = ctx.Err().Error()
			return result
		default:
		}

		scene.Audio = s.processScene(ctx, scene)
		result.TotalScenesProcessed++
		if scene.Audio.Success {
			s.sess.AddAudioDuration(scene.Audio.Duration)
			s.sess.MarkProcessed(scene.ID)
		} else {
			result.FailedGenerations++
			log.Printf("[audio] scene %d failed: %s", scene.ID, scene.Audio.Error)
		}

		if i < len(scenes)-1 && s.cfg.InterSceneDelayMS > 0 {
			time.Sleep(time.Duration(s.cfg.InterSceneDelayMS) * time.Millisecond)
		}
	}

	succeeded := result.TotalScenesProcessed - result.FailedGenerations
	if succeeded == 0 {
		result.Error = "audio generation failed for every scene"
		return result
	}

	result.Success = true
	result.TotalAudioDuration = s.sess.TotalAudioDuration()
	result.AverageAudioDuration = result.TotalAudioDuration / float64(succeeded)
	log.Printf("[audio] done: %d/%d scenes, %.1fs total narration",
		succeeded, len(scenes), result.TotalAudioDuration)
	return result
}

func (s *Synthesizer) processScene(ctx context.Context, scene *types.Scene) *types.AudioResult {
	res := &types.AudioResult{TargetDuration: scene.Duration}

	text := CleanForSpeech(scene.Text)
	if text == "" {
		res.Error = "scene has no speakable text"
		return res
	}

	path := s.sess.AudioPath(scene.ID, s.cfg.Format)
	if err := s.synthesize(ctx, text, path); err != nil {
		res.Error = err.Error()
		return res
	}

	info, err := os.Stat(path)
	if err != nil || info.Size() == 0 {
		res.Error = fmt.Sprintf("tts produced no output at %s", path)
		return res
	}

	res.Success = true
	res.FilePath = path
	res.FileName = filepath.Base(path)
	res.FileSize = info.Size()
	res.EstimatedDuration = s.estimateByWPM(text)
	res.Duration = s.measureDuration(ctx, path, info.Size(), res.EstimatedDuration)
	res.FitQuality = FitQuality(res.Duration, scene.Duration)
	res.Optimization, res.PaddingNeeded, res.TrimmingNeeded =
		FitClassification(res.Duration, scene.Duration, s.cfg.ToleranceSeconds)

	// Rendering uses whole seconds; never let a clip round down to zero.
	scene.ActualDuration = math.Max(1, math.Ceil(res.Duration))

	log.Printf("[audio] scene %d: %.2fs (%s, %s)", scene.ID, res.Duration, res.FitQuality, res.Optimization)
	return res
}

// synthesize invokes the TTS engine with linear-backoff retries. The engine
// is edge-tts unless TTS_COMMAND overrides it.
func (s *Synthesizer) synthesize(ctx context.Context, text, outPath string) error {
	var lastErr error
	for attempt := 1; attempt <= s.cfg.MaxRetries; attempt++ {
		if lastErr = s.runTTS(ctx, text, outPath); lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Printf("[audio] tts attempt %d/%d failed: %v", attempt, s.cfg.MaxRetries, lastErr)
		if attempt < s.cfg.MaxRetries {
			time.Sleep(time.Duration(attempt*s.cfg.RetryDelayMS) * time.Millisecond)
		}
	}
	return fmt.Errorf("tts failed after %d attempts: %w", s.cfg.MaxRetries, lastErr)
}

func (s *Synthesizer) runTTS(ctx context.Context, text, outPath string) error {
	command := os.Getenv("TTS_COMMAND")
	if command == "" {
		command = "edge-tts"
	}

	cmd := exec.CommandContext(ctx, command, s.ttsArgs(text, outPath)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return fmt.Errorf("%s: %s", command, msg)
		}
		return fmt.Errorf("%s: %w", command, err)
	}
	return nil
}

// ttsArgs builds the engine arguments: voice from TTS_VOICE or the
// configured language, and a reduced rate when slow narration is on.
func (s *Synthesizer) ttsArgs(text, outPath string) []string {
	voice := os.Getenv("TTS_VOICE")
	if voice == "" {
		voice = voiceForLanguage(s.cfg.Language)
	}
	args := []string{
		"--voice", voice,
		"--text", text,
		"--write-media", outPath,
	}
	if s.cfg.Slow {
		args = append(args, "--rate="+slowRate)
	}
	return args
}

// measureDuration probes the audio file, falling back to a file-size
// estimate and finally the words-per-minute estimate when ffprobe is
// unavailable or the container is unreadable.
func (s *Synthesizer) measureDuration(ctx context.Context, path string, size int64, wpmEstimate float64) float64 {
	if d, err := media.ProbeDuration(ctx, path); err == nil && d > 0 {
		return d
	} else if err != nil {
		log.Printf("[audio] ffprobe failed for %s, estimating from file size: %v", path, err)
	}
	if s.cfg.BytesPerSecond > 0 && size > 0 {
		return math.Max(1, float64(size)/s.cfg.BytesPerSecond)
	}
	return math.Max(1, wpmEstimate)
}

// estimateByWPM predicts narration length from text alone, assuming
// five-character words at the configured speaking rate.
func (s *Synthesizer) estimateByWPM(text string) float64 {
	words := float64(len(text)) / 5
	return words / s.cfg.WordsPerMinute * 60
}
