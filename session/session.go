// Package session holds the per-run bookkeeping that every pipeline stage
// shares: the temp/output directories, the file-naming convention, and the
// accumulators used for diversity scoring and progress reporting. One
// Session per pipeline run — stages never touch process-wide state, so
// concurrent runs in the same process cannot interfere.
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is run-scoped mutable state, safe for use from HTTP handlers.
type Session struct {
	ID        string
	TempDir   string
	OutputDir string

	mu                 sync.Mutex
	totalAudioDuration float64
	processedScenes    map[int]bool
	photographers      map[string]bool
	downloads          int
}

// New creates the run directories and returns a fresh Session.
func New(tempRoot, outputRoot string) (*Session, error) {
	id := time.Now().UTC().Format("20060102T150405") + "_" + uuid.NewString()[:8]
	s := &Session{
		ID:              id,
		TempDir:         filepath.Join(tempRoot, id),
		OutputDir:       outputRoot,
		processedScenes: make(map[int]bool),
		photographers:   make(map[string]bool),
	}
	for _, dir := range []string{s.TempDir, s.OutputDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create session dir %s: %w", dir, err)
		}
	}
	return s, nil
}

// Resume reattaches to an existing session's directories, so a stage can be
// re-invoked against assets produced by an earlier call.
func Resume(id, tempRoot, outputRoot string) (*Session, error) {
	if id == "" || strings.ContainsAny(id, `/\`) {
		return nil, fmt.Errorf("invalid session id %q", id)
	}
	s := &Session{
		ID:              id,
		TempDir:         filepath.Join(tempRoot, id),
		OutputDir:       outputRoot,
		processedScenes: make(map[int]bool),
		photographers:   make(map[string]bool),
	}
	if err := os.MkdirAll(s.TempDir, 0755); err != nil {
		return nil, fmt.Errorf("resume session %s: %w", id, err)
	}
	return s, nil
}

// ─────────────────────────────────────────────
// File-naming convention
// ─────────────────────────────────────────────

// AudioPath is where a scene's narration file lives: scene_<id>_audio.<fmt>.
func (s *Session) AudioPath(sceneID int, format string) string {
	return filepath.Join(s.TempDir, fmt.Sprintf("scene_%d_audio.%s", sceneID, format))
}

// VisualPath is where a scene's downloaded visual lives: scene_<id>_<type>.<ext>.
func (s *Session) VisualPath(sceneID int, mediaType string) string {
	ext := "jpg"
	if mediaType == "video" {
		ext = "mp4"
	}
	return filepath.Join(s.TempDir, fmt.Sprintf("scene_%d_%s.%s", sceneID, mediaType, ext))
}

// ClipPath is where a scene's rendered clip lives: temp_scene_<id>.mp4.
func (s *Session) ClipPath(sceneID int) string {
	return filepath.Join(s.TempDir, fmt.Sprintf("temp_scene_%d.mp4", sceneID))
}

// ConcatListPath is the ffmpeg concat manifest for this run.
func (s *Session) ConcatListPath() string {
	return filepath.Join(s.TempDir, "concat_list.txt")
}

// SubtitlePath is the master WebVTT track for this run.
func (s *Session) SubtitlePath() string {
	return filepath.Join(s.TempDir, "master_subtitles.vtt")
}

// OutputVideoPath names the compiled video: compiled_video_<timestamp>.<fmt>.
func (s *Session) OutputVideoPath(format string) string {
	ts := time.Now().UTC().Format("20060102T150405")
	return filepath.Join(s.OutputDir, fmt.Sprintf("compiled_video_%s.%s", ts, format))
}

// StatePath is the run's JSON state snapshot.
func (s *Session) StatePath() string {
	return filepath.Join(s.OutputDir, fmt.Sprintf("pipeline_state_%s.json", s.ID))
}

// ─────────────────────────────────────────────
// Accumulators
// ─────────────────────────────────────────────

func (s *Session) AddAudioDuration(seconds float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.totalAudioDuration += seconds
}

func (s *Session) TotalAudioDuration() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalAudioDuration
}

func (s *Session) MarkProcessed(sceneID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.processedScenes[sceneID] = true
}

func (s *Session) ProcessedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.processedScenes)
}

// RecordDownload notes a completed visual download and its creator, feeding
// the diversity scoring of later scenes.
func (s *Session) RecordDownload(photographer string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.downloads++
	if photographer != "" {
		s.photographers[photographer] = true
	}
}

// PhotographerUsed reports whether a creator already appears in this run.
func (s *Session) PhotographerUsed(photographer string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.photographers[photographer]
}

// HasDownloads reports whether any visual was downloaded this run.
func (s *Session) HasDownloads() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.downloads > 0
}

// Cleanup removes the session temp directory and everything in it, returning
// how many entries were deleted. Compiled videos in OutputDir survive.
func (s *Session) Cleanup() (int, error) {
	entries, err := os.ReadDir(s.TempDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	if err := os.RemoveAll(s.TempDir); err != nil {
		return 0, fmt.Errorf("cleanup session %s: %w", s.ID, err)
	}
	return len(entries), nil
}
