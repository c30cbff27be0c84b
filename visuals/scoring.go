package visuals

import (
	"strings"

	"script-to-video-pipeline/config"
	"script-to-video-pipeline/types"
)

var textOverlayHints = []string{"text", "logo", "sign", "words", "letters", "writing"}
var cleanLookHints = []string{"clean", "minimal", "simple"}

// scorer ranks visual candidates on four weighted axes. Diversity scoring
// reads per-run download history through the used/hasPrior callbacks.
type scorer struct {
	cfg      config.VisualsConfig
	used     func(photographer string) bool
	hasPrior func() bool
}

// Score fills in the four sub-scores and the weighted total on c.
func (s *scorer) Score(c *types.VisualCandidate, scene *types.Scene) {
	c.RelevanceScore = s.relevance(c, scene)
	c.QualityScore = s.quality(c)
	c.SuitabilityScore = s.suitability(c)
	c.DiversityScore = s.diversity(c)
	c.TotalScore = c.RelevanceScore*s.cfg.RelevanceWeight +
		c.QualityScore*s.cfg.QualityWeight +
		c.SuitabilityScore*s.cfg.SuitabilityWeight +
		c.DiversityScore*s.cfg.DiversityWeight
}

func (s *scorer) relevance(c *types.VisualCandidate, scene *types.Scene) float64 {
	sc := s.cfg.Scoring
	score := sc.BaseScore
	desc := strings.ToLower(c.Description)
	if desc != "" {
		for _, kw := range scene.Keywords {
			if strings.Contains(desc, strings.ToLower(kw)) {
				score += sc.KeywordMatchBonus
			}
		}
		for _, ent := range scene.Entities {
			if strings.Contains(desc, strings.ToLower(ent)) {
				score += sc.EntityMatchBonus
			}
		}
	}
	return clamp(score)
}

func (s *scorer) quality(c *types.VisualCandidate) float64 {
	sc := s.cfg.Scoring
	score := sc.BaseScore

	shorter, longer := c.Width, c.Height
	if shorter > longer {
		shorter, longer = longer, shorter
	}
	switch {
	case shorter >= 1080 && longer >= 1920:
		score += sc.HighResBonus
	case shorter >= 720 && longer >= 1280:
		score += sc.MediumResBonus
	}

	switch {
	case c.AspectRatio >= 1.6 && c.AspectRatio <= 1.8:
		score += sc.IdealPortraitBonus
	case c.AspectRatio >= 1.3 && c.AspectRatio <= 2.0:
		score += sc.AcceptablePortraitBonus
	case c.AspectRatio < 1.0:
		score -= sc.LandscapePenalty
	}

	if c.Type == "video" && c.Duration >= 5 && c.Duration <= 15 {
		score += sc.VideoDurationBonus
	}
	return clamp(score)
}

func (s *scorer) suitability(c *types.VisualCandidate) float64 {
	sc := s.cfg.Scoring
	score := sc.BaseScore

	if c.AspectRatio >= 1.5 {
		score += sc.TallAspectBonus
	} else if c.AspectRatio < 1.0 {
		score -= sc.WideAspectPenalty
	}

	desc := strings.ToLower(c.Description)
	if containsAny(desc, textOverlayHints) {
		score -= sc.TextOverlayPenalty
	}
	if containsAny(desc, cleanLookHints) {
		score += sc.CleanLookBonus
	}
	return clamp(score)
}

func (s *scorer) diversity(c *types.VisualCandidate) float64 {
	sc := s.cfg.Scoring
	score := sc.BaseScore
	if !s.cfg.EnsureDiversity {
		return clamp(score)
	}
	if c.Photographer != "" && s.used(c.Photographer) {
		score -= sc.RepeatCreatorPenalty
	}
	if s.hasPrior() {
		score += sc.SessionVarietyBonus
	}
	return clamp(score)
}

func containsAny(s string, hints []string) bool {
	for _, h := range hints {
		if strings.Contains(s, h) {
			return true
		}
	}
	return false
}

func clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 10 {
		return 10
	}
	return score
}
