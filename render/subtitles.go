package render

import (
	"context"
	"fmt"
	"os"
	"strings"

	"script-to-video-pipeline/config"
	"script-to-video-pipeline/media"
	"script-to-video-pipeline/types"
)

// GenerateVTT builds a WebVTT track covering the given scenes in order.
// Each scene's text is split into captions of at most maxWords words, and
// the scene's duration is divided evenly across its captions.
func GenerateVTT(scenes []*types.Scene, maxWords int) string {
	var b strings.Builder
	b.WriteString("WEBVTT\n\n")

	var offset float64
	cue := 1
	for _, scene := range scenes {
		duration := effectiveDuration(scene)
		captions := splitCaptions(scene.Text, maxWords)
		if len(captions) == 0 {
			offset += duration
			continue
		}

		per := duration / float64(len(captions))
		for i, caption := range captions {
			start := offset + float64(i)*per
			end := start + per
			fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n",
				cue, formatVTTTime(start), formatVTTTime(end), caption)
			cue++
		}
		offset += duration
	}
	return b.String()
}

// WriteVTT writes the subtitle track for the scenes to path.
func WriteVTT(scenes []*types.Scene, maxWords int, path string) error {
	if err := os.WriteFile(path, []byte(GenerateVTT(scenes, maxWords)), 0644); err != nil {
		return fmt.Errorf("write subtitles: %w", err)
	}
	return nil
}

// subtitleStyle renders the configured font, stroke and margin as an ASS
// force_style string for the ffmpeg subtitles filter.
func subtitleStyle(cfg config.VideoConfig) string {
	return fmt.Sprintf(
		"FontName=%s,FontSize=%d,PrimaryColour=&Hffffff,OutlineColour=&H000000,Outline=%g,MarginV=%d",
		cfg.SubtitleFont, cfg.SubtitleFontSize, cfg.SubtitleStroke, cfg.SubtitleMargin,
	)
}

// BurnSubtitles re-encodes a video with the subtitle track rendered into
// the frames.
func BurnSubtitles(ctx context.Context, videoPath, subtitlePath, outPath string, cfg config.VideoConfig) error {
	filter := fmt.Sprintf("subtitles=%s:force_style='%s'", subtitlePath, subtitleStyle(cfg))
	return media.Run(ctx,
		"-y",
		"-i", videoPath,
		"-vf", filter,
		"-c:a", "copy",
		outPath,
	)
}

// splitCaptions chunks text into caption lines of at most maxWords words.
func splitCaptions(text string, maxWords int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if maxWords <= 0 {
		maxWords = 8
	}
	var captions []string
	for start := 0; start < len(words); start += maxWords {
		end := start + maxWords
		if end > len(words) {
			end = len(words)
		}
		captions = append(captions, strings.Join(words[start:end], " "))
	}
	return captions
}

// formatVTTTime renders seconds as HH:MM:SS.mmm.
func formatVTTTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	h := int(seconds) / 3600
	m := (int(seconds) % 3600) / 60
	s := int(seconds) % 60
	ms := int((seconds - float64(int(seconds))) * 1000)
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}

// effectiveDuration is the clip length the compiler actually used.
func effectiveDuration(scene *types.Scene) float64 {
	if scene.ActualDuration > 0 {
		return scene.ActualDuration
	}
	return scene.Duration
}
