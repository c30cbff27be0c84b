package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"script-to-video-pipeline/audio"
	"script-to-video-pipeline/config"
	"script-to-video-pipeline/keywords"
	"script-to-video-pipeline/render"
	"script-to-video-pipeline/segment"
	"script-to-video-pipeline/server"
	"script-to-video-pipeline/session"
	"script-to-video-pipeline/types"
	"script-to-video-pipeline/upload"
	"script-to-video-pipeline/visuals"
)

func main() {
	// Load .env (local dev only — CI uses real env)
	_ = godotenv.Load()

	var (
		inputPath  = flag.String("input", "", "path to the script text file")
		configPath = flag.String("config", "pipeline.yaml", "path to the config file")
		serve      = flag.Bool("serve", false, "run the HTTP API instead of a one-shot pipeline")
		publish    = flag.Bool("publish", false, "upload the compiled video to YouTube")
		title      = flag.String("title", "", "video title used when publishing")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *serve {
		if err := server.New(cfg).Run(); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
		return
	}

	if *inputPath == "" {
		log.Fatal("Usage: pipeline -input script.txt [-config pipeline.yaml] [-publish]")
	}
	script, err := os.ReadFile(*inputPath)
	if err != nil {
		log.Fatalf("Failed to read input script: %v", err)
	}

	sess, err := session.New(cfg.Paths.Temp, cfg.Paths.Output)
	if err != nil {
		log.Fatalf("Failed to create session: %v", err)
	}

	log.Printf("🎬 Pipeline starting — session %s", sess.ID)

	ctx := context.Background()
	state := &types.PipelineState{
		RunID:     sess.ID,
		StartedAt: time.Now().UTC().Format(time.RFC3339),
	}

	// Save state on exit
	defer func() {
		state.CompletedAt = time.Now().UTC().Format(time.RFC3339)
		saveJSON(sess.StatePath(), state)
		if state.Error != "" {
			log.Printf("❌ Pipeline failed: %s", state.Error)
			os.Exit(1)
		}
		log.Printf("✅ Pipeline complete! Video: %s", state.VideoFile)
	}()

	// ─────────────────────────────────────────────
	// STAGE 1: Segmentation + Keywords
	// ─────────────────────────────────────────────
	log.Println("\n━━━ STAGE 1: Segmentation ━━━")
	segResult := segment.New(cfg.Segmenter).Run(ctx, string(script))
	if !segResult.Success {
		state.Error = fmt.Sprintf("Stage 1 Segmentation: %s", segResult.Error)
		return
	}
	keywords.New(cfg.Keywords).AnnotateScenes(segResult.Scenes)
	state.Segmentation = segResult
	saveJSON(sess.StatePath(), state)

	scenes := segResult.Scenes

	// ─────────────────────────────────────────────
	// STAGE 2: Audio
	// ─────────────────────────────────────────────
	log.Println("\n━━━ STAGE 2: Narration ━━━")
	audioResult := audio.New(cfg.Audio, sess).Run(ctx, scenes)
	state.Audio = audioResult
	saveJSON(sess.StatePath(), state)
	if !audioResult.Success {
		state.Error = fmt.Sprintf("Stage 2 Narration: %s", audioResult.Error)
		return
	}

	// ─────────────────────────────────────────────
	// STAGE 3: Visuals
	// ─────────────────────────────────────────────
	log.Println("\n━━━ STAGE 3: Visuals ━━━")
	visualResult := visuals.New(cfg.Visuals, sess).Run(ctx, scenes)
	state.Visuals = visualResult
	saveJSON(sess.StatePath(), state)
	if !visualResult.Success {
		state.Error = fmt.Sprintf("Stage 3 Visuals: %s", visualResult.Error)
		return
	}

	// ─────────────────────────────────────────────
	// STAGE 4: Render + Compile
	// ─────────────────────────────────────────────
	log.Println("\n━━━ STAGE 4: Render + Compile ━━━")
	renders := render.NewRenderer(cfg.Video, sess).RenderAll(ctx, scenes)
	compileResult := render.NewCompiler(cfg.Video, sess).Compile(ctx, scenes, renders)
	state.Compile = compileResult
	saveJSON(sess.StatePath(), state)
	if !compileResult.Success {
		state.Error = fmt.Sprintf("Stage 4 Compile: %s", compileResult.Error)
		return
	}
	state.VideoFile = compileResult.VideoPath

	// ─────────────────────────────────────────────
	// STAGE 5: Publish (optional)
	// ─────────────────────────────────────────────
	if *publish {
		log.Println("\n━━━ STAGE 5: YouTube Upload ━━━")
		videoTitle := *title
		if videoTitle == "" {
			videoTitle = deriveTitle(scenes)
		}
		description := describeRun(scenes)
		videoID, videoURL, err := upload.New(cfg.Upload).Run(ctx, compileResult.VideoPath, videoTitle, description)
		if err != nil {
			state.Error = fmt.Sprintf("Stage 5 Upload: %v", err)
			return
		}
		state.YouTubeID = videoID
		state.YouTubeURL = videoURL
		_ = upload.LogUpload(cfg.Paths.Output, videoID, videoURL, compileResult.VideoPath, videoTitle)
	}
}

// deriveTitle uses the opening scene's strongest keywords as a title.
func deriveTitle(scenes []*types.Scene) string {
	if len(scenes) == 0 {
		return "Compiled Video"
	}
	first := scenes[0]
	if len(first.PrimaryKeywords) > 0 {
		title := ""
		for _, kw := range first.PrimaryKeywords {
			if title != "" {
				title += " "
			}
			title += kw
		}
		return title
	}
	if len(first.Text) > 60 {
		return first.Text[:60]
	}
	return first.Text
}

func describeRun(scenes []*types.Scene) string {
	return fmt.Sprintf("Generated video with %d scenes.", len(scenes))
}

func saveJSON(path string, v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Printf("Warning: could not marshal JSON for %s: %v", path, err)
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		log.Printf("Warning: could not create dir for %s: %v", path, err)
		return
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		log.Printf("Warning: could not save %s: %v", path, err)
	}
}
