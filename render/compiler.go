package render

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"script-to-video-pipeline/config"
	"script-to-video-pipeline/media"
	"script-to-video-pipeline/session"
	"script-to-video-pipeline/types"
)

// Compiler concatenates rendered scene clips into the final video and
// reports a manifest with probed metadata and per-scene timestamps.
type Compiler struct {
	cfg  config.VideoConfig
	sess *session.Session
}

func NewCompiler(cfg config.VideoConfig, sess *session.Session) *Compiler {
	return &Compiler{cfg: cfg, sess: sess}
}

// Compile joins successfully rendered clips in scene order. It is
// stage-fatal only when no scene rendered at all; failed scenes are
// omitted from the output without reordering the rest.
func (c *Compiler) Compile(ctx context.Context, scenes []*types.Scene, renders []types.SceneRender) *types.CompileResult {
	started := time.Now()
	result := &types.CompileResult{SessionID: c.sess.ID}

	rendersByID := make(map[int]types.SceneRender, len(renders))
	var succeeded []types.SceneRender
	for _, r := range renders {
		rendersByID[r.SceneID] = r
		if r.Success {
			succeeded = append(succeeded, r)
		}
	}
	if len(succeeded) == 0 {
		result.Error = "no scenes rendered successfully"
		return result
	}

	listPath := c.sess.ConcatListPath()
	if err := writeConcatList(listPath, succeeded); err != nil {
		result.Error = err.Error()
		return result
	}

	outPath := c.sess.OutputVideoPath(c.cfg.OutputFormat)
	log.Printf("[compile] concatenating %d clips into %s", len(succeeded), filepath.Base(outPath))
	if err := media.Run(ctx,
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c", "copy",
		outPath,
	); err != nil {
		result.Error = fmt.Sprintf("concatenate: %v", err)
		return result
	}

	if c.cfg.IncludeSubtitles {
		subPath := c.sess.SubtitlePath()
		if err := WriteVTT(scenes, c.cfg.MaxCaptionWords, subPath); err != nil {
			log.Printf("[compile] subtitle generation failed, continuing without: %v", err)
		} else {
			result.SubtitleFile = subPath
			if c.cfg.BurnSubtitles {
				c.burnInto(ctx, outPath, subPath)
			}
		}
	}

	result.Metadata = c.probe(ctx, outPath, len(succeeded))
	result.Scenes = sceneSummaries(scenes, rendersByID)
	result.Success = true
	result.VideoPath = outPath
	result.FileName = filepath.Base(outPath)
	result.ProcessingSeconds = time.Since(started).Seconds()
	log.Printf("[compile] done in %.1fs: %s", result.ProcessingSeconds, result.FileName)
	return result
}

// burnInto renders the subtitle track into the compiled video in place.
// Any failure — the encode or the swap — leaves the clean video untouched.
func (c *Compiler) burnInto(ctx context.Context, outPath, subPath string) {
	burned := outPath + ".subbed." + c.cfg.OutputFormat
	if err := BurnSubtitles(ctx, outPath, subPath, burned, c.cfg); err != nil {
		log.Printf("[compile] subtitle burn failed, keeping clean video: %v", err)
		return
	}
	if err := os.Rename(burned, outPath); err != nil {
		log.Printf("[compile] could not replace video with subtitled cut, keeping clean video: %v", err)
	}
}

func (c *Compiler) probe(ctx context.Context, path string, totalScenes int) *types.VideoMetadata {
	meta := &types.VideoMetadata{
		TotalScenes:       totalScenes,
		IncludesSubtitles: c.cfg.IncludeSubtitles,
	}
	if info, err := os.Stat(path); err == nil {
		meta.FileSize = info.Size()
	}
	probed, err := media.Probe(ctx, path)
	if err != nil {
		log.Printf("[compile] probe failed for %s: %v", path, err)
		return meta
	}
	meta.Duration = probed.Duration
	meta.BitRate = probed.BitRate
	meta.Width = probed.Width
	meta.Height = probed.Height
	meta.FrameRate = probed.FrameRate
	meta.VideoCodec = probed.VideoCodec
	meta.AudioCodec = probed.AudioCodec
	return meta
}

// sceneSummaries computes each successful scene's start/end position on
// the compiled timeline. Failed scenes appear with empty timestamps so the
// manifest still accounts for them.
func sceneSummaries(scenes []*types.Scene, renders map[int]types.SceneRender) []types.CompiledScene {
	var summaries []types.CompiledScene
	var offset float64
	for _, scene := range scenes {
		render, ok := renders[scene.ID]
		summary := types.CompiledScene{
			ID:      scene.ID,
			Text:    scene.Text,
			Success: ok && render.Success,
		}
		if scene.Audio != nil {
			summary.AudioFile = scene.Audio.FileName
		}
		if scene.Visual != nil && scene.Visual.Selected != nil {
			summary.VisualUsed = scene.Visual.Selected.FileName
		}
		if summary.Success {
			duration := effectiveDuration(scene)
			summary.StartTime = formatVTTTime(offset)
			summary.EndTime = formatVTTTime(offset + duration)
			offset += duration
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

func writeConcatList(path string, renders []types.SceneRender) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write concat list: %w", err)
	}
	defer f.Close()
	for _, r := range renders {
		abs, err := filepath.Abs(r.OutputPath)
		if err != nil {
			abs = r.OutputPath
		}
		if _, err := fmt.Fprintf(f, "file '%s'\n", abs); err != nil {
			return fmt.Errorf("write concat list: %w", err)
		}
	}
	return nil
}
