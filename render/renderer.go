// Package render turns enriched scenes into per-scene clips and
// concatenates them into the final video.
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

// Renderer encodes one clip per scene: the downloaded still looped over
// the narration track, scaled and padded to the target resolution.
type Renderer struct {
	cfg  config.VideoConfig
	sess *session.Session
}

func NewRenderer(cfg config.VideoConfig, sess *session.Session) *Renderer {
	return &Renderer{cfg: cfg, sess: sess}
}

// RenderAll renders every scene in id order. Per-scene failures are
// recorded and skipped; the compiler works from the successes.
func (r *Renderer) RenderAll(ctx context.Context, scenes []*types.Scene) []types.SceneRender {
	renders := make([]types.SceneRender, 0, len(scenes))
	for i, scene := range scenes {
		render := r.RenderScene(ctx, scene)
		if !render.Success {
			log.Printf("[render] scene %d failed: %s", scene.ID, render.Error)
		}
		renders = append(renders, render)

		if i < len(scenes)-1 && r.cfg.InterSceneDelayMS > 0 {
			time.Sleep(time.Duration(r.cfg.InterSceneDelayMS) * time.Millisecond)
		}
	}
	return renders
}

// RenderScene encodes a single scene clip. Missing narration or visual
// assets fail the scene before the encoder is invoked.
func (r *Renderer) RenderScene(ctx context.Context, scene *types.Scene) types.SceneRender {
	render := types.SceneRender{SceneID: scene.ID}

	audioPath, visualPath, err := r.scenePaths(scene)
	if err != nil {
		render.Error = err.Error()
		return render
	}

	quality := config.QualityFor(r.cfg.Resolution)
	duration := scene.ActualDuration
	if duration <= 0 {
		duration = scene.Duration
	}

	outPath := r.sess.ClipPath(scene.ID)
	scalePad := fmt.Sprintf(
		"scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2,setsar=1",
		quality.Width, quality.Height, quality.Width, quality.Height,
	)
	args := []string{
		"-y",
		"-loop", "1",
		"-i", visualPath,
		"-i", audioPath,
		"-map", "0:v:0",
		"-map", "1:a:0",
		"-c:v", r.cfg.VideoCodec,
		"-c:a", r.cfg.AudioCodec,
		"-r", fmt.Sprintf("%d", r.cfg.Framerate),
		"-vf", scalePad,
		"-b:v", quality.Bitrate,
		"-t", fmt.Sprintf("%.2f", duration),
		"-pix_fmt", "yuv420p",
		outPath,
	}

	if err := media.Run(ctx, args...); err != nil {
		render.Error = fmt.Sprintf("encode scene %d: %v", scene.ID, err)
		return render
	}

	info, err := os.Stat(outPath)
	if err != nil || info.Size() == 0 {
		render.Error = fmt.Sprintf("encoder produced no output for scene %d", scene.ID)
		return render
	}

	render.Success = true
	render.OutputPath = outPath
	render.FileName = filepath.Base(outPath)
	render.FileSize = info.Size()
	render.Duration = duration
	render.Resolution = fmt.Sprintf("%dx%d", quality.Width, quality.Height)
	log.Printf("[render] scene %d: %s (%.1fs, %d bytes)", scene.ID, render.FileName, duration, info.Size())
	return render
}

// scenePaths validates the render preconditions: both the narration file
// and the downloaded visual must exist on disk.
func (r *Renderer) scenePaths(scene *types.Scene) (audioPath, visualPath string, err error) {
	if scene.Audio == nil || scene.Audio.FilePath == "" {
		return "", "", fmt.Errorf("scene %d has no audio file", scene.ID)
	}
	if scene.Visual == nil || scene.Visual.Selected == nil || scene.Visual.Selected.LocalPath == "" {
		return "", "", fmt.Errorf("scene %d has no downloaded visual", scene.ID)
	}
	audioPath = scene.Audio.FilePath
	visualPath = scene.Visual.Selected.LocalPath
	if info, err := os.Stat(audioPath); err != nil || info.Size() == 0 {
		return "", "", fmt.Errorf("scene %d audio missing at %s", scene.ID, audioPath)
	}
	if info, err := os.Stat(visualPath); err != nil || info.Size() == 0 {
		return "", "", fmt.Errorf("scene %d visual missing at %s", scene.ID, visualPath)
	}
	return audioPath, visualPath, nil
}
