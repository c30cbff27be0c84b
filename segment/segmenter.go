// Package segment splits a cleaned script into ordered, timed scenes. The
// semantic strategy is preferred; sentence and paragraph packing back it up,
// tried in declared order with the winning strategy reported on the result.
package segment

import (
	"context"
	"log"
	"math"
	"strings"

	"script-to-video-pipeline/config"
	"script-to-video-pipeline/types"
)

// Segmenter turns raw script text into scene records.
type Segmenter struct {
	cfg        config.SegmenterConfig
	strategies []Strategy
}

// New builds the strategy chain from config.
func New(cfg config.SegmenterConfig) *Segmenter {
	s := &Segmenter{cfg: cfg}
	if cfg.TargetSceneCount > 0 {
		s.strategies = append(s.strategies,
			newSemanticStrategy(cfg.GroqModel, cfg.Temperature, cfg.TargetSceneCount))
	}
	s.strategies = append(s.strategies,
		&sentenceStrategy{minLength: cfg.MinSceneLength, maxLength: cfg.MaxSceneLength},
		&paragraphStrategy{minLength: cfg.MinSceneLength, maxLength: cfg.MaxSceneLength},
	)
	return s
}

// Run cleans and segments the raw text. A result with zero scenes (empty
// input) carries Success=false — downstream stages treat that as terminal.
func (s *Segmenter) Run(ctx context.Context, rawText string) *types.SegmentResult {
	log.Println("[segment] Starting text preprocessing...")

	result := &types.SegmentResult{}
	result.Metadata.OriginalLength = len(rawText)

	cleaned := Clean(rawText)
	result.Metadata.CleanedLength = len(cleaned)
	if cleaned == "" {
		result.Error = "no usable text after cleaning"
		log.Println("[segment] ⚠️ Input empty after cleaning — zero scenes")
		return result
	}

	texts, strategy := s.split(ctx, cleaned)
	if len(texts) == 0 {
		result.Error = "segmentation produced no scenes"
		return result
	}

	// Safety pass: a semantic result with an oversized scene is re-segmented
	// along sentence boundaries with wider bounds.
	if strategy == "semantic" && anyLongerThan(texts, s.cfg.MaxSceneLength) {
		safety := &sentenceStrategy{minLength: s.cfg.SafetyMinLength, maxLength: s.cfg.SafetyMaxLength}
		if resplit, err := safety.Split(ctx, cleaned); err == nil && len(resplit) > 0 {
			log.Printf("[segment] Semantic scene over %d chars — re-split by sentences", s.cfg.MaxSceneLength)
			texts = resplit
			strategy = "sentence"
		}
	}

	scenes := s.buildScenes(texts)
	s.checkPacing(scenes)

	result.Success = true
	result.Strategy = strategy
	result.Scenes = scenes
	result.TotalScenes = len(scenes)
	result.EstimatedDuration = float64(len(scenes)) * s.cfg.SceneDurationSeconds
	result.Metadata.AverageSceneLength = len(cleaned) / len(scenes)

	log.Printf("[segment] ✅ Segmented into %d scenes (strategy: %s)", len(scenes), strategy)
	return result
}

// split tries each strategy in order and returns the first usable result
// along with the strategy name.
func (s *Segmenter) split(ctx context.Context, text string) ([]string, string) {
	for _, strat := range s.strategies {
		texts, err := strat.Split(ctx, text)
		if err != nil {
			log.Printf("[segment] Strategy %q failed: %v — trying next", strat.Name(), err)
			continue
		}
		if len(texts) == 0 {
			continue
		}
		return texts, strat.Name()
	}
	return nil, ""
}

func (s *Segmenter) buildScenes(texts []string) []*types.Scene {
	scenes := make([]*types.Scene, 0, len(texts))
	for i, text := range texts {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		words := len(strings.Fields(text))
		scenes = append(scenes, &types.Scene{
			ID:                   i + 1,
			Text:                 text,
			WordCount:            words,
			EstimatedReadingTime: int(math.Ceil(float64(words) / 3.0)),
			Duration:             s.cfg.SceneDurationSeconds,
		})
	}
	// Re-number in case any empty text was skipped: ids must stay dense.
	for i, sc := range scenes {
		sc.ID = i + 1
	}
	return scenes
}

// checkPacing logs scenes whose estimated speech time strays far from the
// target duration. Advisory only — nothing is modified.
func (s *Segmenter) checkPacing(scenes []*types.Scene) {
	for _, sc := range scenes {
		speech := float64(sc.WordCount) / s.cfg.WordsPerSecond
		switch {
		case speech > s.cfg.SceneDurationSeconds*1.2:
			log.Printf("[segment] ⚠️ Scene %d might be too long (%.1fs estimated)", sc.ID, speech)
		case speech < s.cfg.SceneDurationSeconds*0.6:
			log.Printf("[segment] ⚠️ Scene %d might be too short (%.1fs estimated)", sc.ID, speech)
		}
	}
}

func anyLongerThan(texts []string, max int) bool {
	for _, t := range texts {
		if len(t) > max {
			return true
		}
	}
	return false
}
