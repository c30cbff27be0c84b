package visuals

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"script-to-video-pipeline/config"
	"script-to-video-pipeline/types"
)

func newTestScorer(used bool, hasPrior bool) *scorer {
	cfg := config.Default().Visuals
	cfg.EnsureDiversity = true
	return &scorer{
		cfg:      cfg,
		used:     func(string) bool { return used },
		hasPrior: func() bool { return hasPrior },
	}
}

func TestScoringWeightsSumToOne(t *testing.T) {
	cfg := config.Default().Visuals
	sum := cfg.RelevanceWeight + cfg.QualityWeight + cfg.SuitabilityWeight + cfg.DiversityWeight
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestScoreIsWeightedCombination(t *testing.T) {
	s := newTestScorer(false, false)
	c := types.VisualCandidate{
		ID:          "pexels-photo-1",
		Type:        "image",
		Description: "city skyline at sunrise",
		Width:       1080,
		Height:      1920,
		AspectRatio: 1920.0 / 1080.0,
	}
	scene := &types.Scene{Keywords: []string{"city", "sunrise"}}

	s.Score(&c, scene)

	expected := c.RelevanceScore*s.cfg.RelevanceWeight +
		c.QualityScore*s.cfg.QualityWeight +
		c.SuitabilityScore*s.cfg.SuitabilityWeight +
		c.DiversityScore*s.cfg.DiversityWeight
	assert.InDelta(t, expected, c.TotalScore, 1e-9)

	for _, sub := range []float64{c.RelevanceScore, c.QualityScore, c.SuitabilityScore, c.DiversityScore} {
		assert.GreaterOrEqual(t, sub, 0.0)
		assert.LessOrEqual(t, sub, 10.0)
	}
}

func TestClampBounds(t *testing.T) {
	assert.Equal(t, 10.0, clamp(15.0))
	assert.Equal(t, 0.0, clamp(-2.0))
	assert.Equal(t, 7.5, clamp(7.5))
}

func TestRelevanceRewardsKeywordMatches(t *testing.T) {
	s := newTestScorer(false, false)
	scene := &types.Scene{
		Keywords: []string{"mountain", "snow"},
		Entities: []string{"alps"},
	}

	matching := types.VisualCandidate{Description: "snow covered mountain in the alps"}
	blank := types.VisualCandidate{Description: "office desk with laptop"}

	assert.Greater(t, s.relevance(&matching, scene), s.relevance(&blank, scene))
}

func TestQualityPrefersPortraitHighRes(t *testing.T) {
	s := newTestScorer(false, false)

	tall := types.VisualCandidate{Width: 1080, Height: 1920, AspectRatio: 1920.0 / 1080.0}
	wide := types.VisualCandidate{Width: 1920, Height: 1080, AspectRatio: 1080.0 / 1920.0}

	assert.Greater(t, s.quality(&tall), s.quality(&wide))
}

func TestSuitabilityPenalizesTextOverlays(t *testing.T) {
	s := newTestScorer(false, false)

	signage := types.VisualCandidate{AspectRatio: 1.7, Description: "storefront with neon sign"}
	clean := types.VisualCandidate{AspectRatio: 1.7, Description: "clean minimal background"}

	assert.Greater(t, s.suitability(&clean), s.suitability(&signage))
}

func TestDiversityPenalizesRepeatCreator(t *testing.T) {
	fresh := newTestScorer(false, true)
	repeat := newTestScorer(true, true)
	c := types.VisualCandidate{Photographer: "Ana"}

	assert.Greater(t, fresh.diversity(&c), repeat.diversity(&c))
}

func TestDiversityNeutralWhenDisabled(t *testing.T) {
	s := newTestScorer(true, true)
	s.cfg.EnsureDiversity = false
	c := types.VisualCandidate{Photographer: "Ana"}
	assert.Equal(t, s.cfg.Scoring.BaseScore, s.diversity(&c))
}

func TestBuildQueriesPriorityOrder(t *testing.T) {
	scene := &types.Scene{
		PrimaryKeywords: []string{"sunrise", "city", "cafe"},
		Keywords:        []string{"sunrise", "city", "cafe", "bicycle", "morning"},
		Entities:        []string{"main street"},
	}

	queries := buildQueries(scene)
	require.NotEmpty(t, queries)
	assert.Equal(t, "sunrise city cafe", queries[0])
	assert.LessOrEqual(t, len(queries), maxQueries)

	seen := make(map[string]bool)
	for _, q := range queries {
		assert.False(t, seen[q], "duplicate query %q", q)
		seen[q] = true
	}
}

func TestBuildQueriesFallsBackToGenericSet(t *testing.T) {
	queries := buildQueries(&types.Scene{})
	assert.Equal(t, genericQueries, queries)
}

func TestFallbackCandidateIsMarked(t *testing.T) {
	c := fallbackCandidate("https://example.com/fallback.jpeg")
	assert.True(t, c.IsFallback)
	assert.Equal(t, "image", c.Type)
	assert.Equal(t, "https://example.com/fallback.jpeg", c.DownloadURL)
}
