package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Segmenter SegmenterConfig `yaml:"segmenter"`
	Keywords  KeywordsConfig  `yaml:"keywords"`
	Audio     AudioConfig     `yaml:"audio"`
	Visuals   VisualsConfig   `yaml:"visuals"`
	Video     VideoConfig     `yaml:"video"`
	Server    ServerConfig    `yaml:"server"`
	Upload    UploadConfig    `yaml:"upload"`
	Paths     PathsConfig     `yaml:"paths"`
}

type SegmenterConfig struct {
	MinSceneLength       int     `yaml:"min_scene_length"`
	MaxSceneLength       int     `yaml:"max_scene_length"`
	TargetSceneCount     int     `yaml:"target_scene_count"`
	SceneDurationSeconds float64 `yaml:"scene_duration_seconds"`
	WordsPerSecond       float64 `yaml:"words_per_second"`
	// Safety bounds for the sentence re-segmentation pass that runs when a
	// semantic segment exceeds MaxSceneLength.
	SafetyMinLength int `yaml:"safety_min_length"`
	SafetyMaxLength int `yaml:"safety_max_length"`

	GroqModel   string  `yaml:"groq_model"`
	Temperature float64 `yaml:"temperature"`
}

type KeywordsConfig struct {
	MaxKeywords     int `yaml:"max_keywords"`      // cap on the general keyword set
	MaxPrimary      int `yaml:"max_primary"`       // cap on primary keywords
	MaxEntities     int `yaml:"max_entities"`      // cap on raw entity hits
	MaxConcepts     int `yaml:"max_concepts"`      // cap on visual concepts (adjectives)
	MaxPhrases      int `yaml:"max_phrases"`       // cap on co-occurrence phrases
	MaxPhraseWords  int `yaml:"max_phrase_words"`  // longest phrase, in words
	MinPhraseChars  int `yaml:"min_phrase_chars"`  // shortest phrase, in characters
	MinKeywordChars int `yaml:"min_keyword_chars"` // length filter on the merged set
}

type AudioConfig struct {
	Language          string  `yaml:"language"`
	Slow              bool    `yaml:"slow"`
	Format            string  `yaml:"format"`
	WordsPerMinute    float64 `yaml:"words_per_minute"`
	BytesPerSecond    float64 `yaml:"bytes_per_second"` // file-size duration estimate fallback
	MaxRetries        int     `yaml:"max_retries"`
	RetryDelayMS      int     `yaml:"retry_delay_ms"`
	InterSceneDelayMS int     `yaml:"inter_scene_delay_ms"`
	ToleranceSeconds  float64 `yaml:"tolerance_seconds"` // fit classification band
}

type VisualsConfig struct {
	Orientation       string  `yaml:"orientation"`
	MaxResults        int     `yaml:"max_results"`
	PreferVideos      bool    `yaml:"prefer_videos"`
	EnsureDiversity   bool    `yaml:"ensure_diversity"`
	DownloadQuality   string  `yaml:"download_quality"`
	MaxAlternatives   int     `yaml:"max_alternatives"`
	InterSceneDelayMS int     `yaml:"inter_scene_delay_ms"`
	FallbackImageURL  string  `yaml:"fallback_image_url"`
	RelevanceWeight   float64 `yaml:"relevance_weight"`
	QualityWeight     float64 `yaml:"quality_weight"`
	SuitabilityWeight float64 `yaml:"suitability_weight"`
	DiversityWeight   float64 `yaml:"diversity_weight"`

	Scoring ScoringConfig `yaml:"scoring"`
}

// ScoringConfig names every bonus and penalty in candidate scoring. Each
// axis starts from BaseScore and is clamped to [0,10] after adjustments.
type ScoringConfig struct {
	BaseScore float64 `yaml:"base_score"`

	KeywordMatchBonus float64 `yaml:"keyword_match_bonus"` // per keyword found in description
	EntityMatchBonus  float64 `yaml:"entity_match_bonus"`  // per entity found in description

	HighResBonus            float64 `yaml:"high_res_bonus"`            // >= 1080x1920
	MediumResBonus          float64 `yaml:"medium_res_bonus"`          // >= 720x1280
	IdealPortraitBonus      float64 `yaml:"ideal_portrait_bonus"`      // aspect 1.6..1.8
	AcceptablePortraitBonus float64 `yaml:"acceptable_portrait_bonus"` // aspect 1.3..2.0
	LandscapePenalty        float64 `yaml:"landscape_penalty"`         // aspect < 1.0
	VideoDurationBonus      float64 `yaml:"video_duration_bonus"`      // clip runs 5..15s

	TallAspectBonus    float64 `yaml:"tall_aspect_bonus"`    // aspect >= 1.5
	WideAspectPenalty  float64 `yaml:"wide_aspect_penalty"`  // aspect < 1.0
	TextOverlayPenalty float64 `yaml:"text_overlay_penalty"` // description hints at text/logo/sign
	CleanLookBonus     float64 `yaml:"clean_look_bonus"`     // described as clean/minimal/simple

	RepeatCreatorPenalty float64 `yaml:"repeat_creator_penalty"` // creator already used this run
	SessionVarietyBonus  float64 `yaml:"session_variety_bonus"`  // any prior download this run
}

type VideoConfig struct {
	Resolution        string  `yaml:"resolution"` // 480p | 720p | 1080p
	Framerate         int     `yaml:"framerate"`
	VideoCodec        string  `yaml:"video_codec"`
	AudioCodec        string  `yaml:"audio_codec"`
	OutputFormat      string  `yaml:"output_format"`
	IncludeSubtitles  bool    `yaml:"include_subtitles"`
	BurnSubtitles     bool    `yaml:"burn_subtitles"`
	MaxCaptionWords   int     `yaml:"max_caption_words"`
	InterSceneDelayMS int     `yaml:"inter_scene_delay_ms"`
	SubtitleFont      string  `yaml:"subtitle_font"`
	SubtitleFontSize  int     `yaml:"subtitle_font_size"`
	SubtitleStroke    float64 `yaml:"subtitle_stroke"`
	SubtitleMargin    int     `yaml:"subtitle_margin"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type UploadConfig struct {
	Visibility        string   `yaml:"visibility"`
	CategoryID        string   `yaml:"category_id"`
	Tags              []string `yaml:"tags"`
	DefaultLanguage   string   `yaml:"default_language"`
	NotifySubscribers bool     `yaml:"notify_subscribers"`
	MadeForKids       bool     `yaml:"made_for_kids"`
}

type PathsConfig struct {
	Temp   string `yaml:"temp"`
	Output string `yaml:"output"`
}

// Load reads a YAML config file and fills unset fields with defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// Default returns the documented defaults for every tunable.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	s := &c.Segmenter
	if s.MinSceneLength == 0 {
		s.MinSceneLength = 20
	}
	if s.MaxSceneLength == 0 {
		s.MaxSceneLength = 200
	}
	if s.SceneDurationSeconds == 0 {
		s.SceneDurationSeconds = 6
	}
	if s.WordsPerSecond == 0 {
		s.WordsPerSecond = 2.5
	}
	if s.SafetyMinLength == 0 {
		s.SafetyMinLength = 80
	}
	if s.SafetyMaxLength == 0 {
		s.SafetyMaxLength = 250
	}
	if s.GroqModel == "" {
		s.GroqModel = "llama-3.3-70b-versatile"
	}
	if s.Temperature == 0 {
		s.Temperature = 0.3
	}

	k := &c.Keywords
	if k.MaxKeywords == 0 {
		k.MaxKeywords = 6
	}
	if k.MaxPrimary == 0 {
		k.MaxPrimary = 3
	}
	if k.MaxEntities == 0 {
		k.MaxEntities = 3
	}
	if k.MaxConcepts == 0 {
		k.MaxConcepts = 3
	}
	if k.MaxPhrases == 0 {
		k.MaxPhrases = 8
	}
	if k.MaxPhraseWords == 0 {
		k.MaxPhraseWords = 3
	}
	if k.MinPhraseChars == 0 {
		k.MinPhraseChars = 4
	}
	if k.MinKeywordChars == 0 {
		k.MinKeywordChars = 3
	}

	a := &c.Audio
	if a.Language == "" {
		a.Language = "en"
	}
	if a.Format == "" {
		a.Format = "mp3"
	}
	if a.WordsPerMinute == 0 {
		a.WordsPerMinute = 150
	}
	if a.BytesPerSecond == 0 {
		a.BytesPerSecond = 1500
	}
	if a.MaxRetries == 0 {
		a.MaxRetries = 3
	}
	if a.RetryDelayMS == 0 {
		a.RetryDelayMS = 1000
	}
	if a.InterSceneDelayMS == 0 {
		a.InterSceneDelayMS = 1000
	}
	if a.ToleranceSeconds == 0 {
		a.ToleranceSeconds = 0.5
	}

	v := &c.Visuals
	if v.Orientation == "" {
		v.Orientation = "portrait"
	}
	if v.MaxResults == 0 {
		v.MaxResults = 15
	}
	if v.DownloadQuality == "" {
		v.DownloadQuality = "large"
	}
	if v.MaxAlternatives == 0 {
		v.MaxAlternatives = 3
	}
	if v.InterSceneDelayMS == 0 {
		v.InterSceneDelayMS = 1000
	}
	if v.FallbackImageURL == "" {
		v.FallbackImageURL = "https://images.pexels.com/photos/3184291/pexels-photo-3184291.jpeg"
	}
	if v.RelevanceWeight == 0 {
		v.RelevanceWeight = 0.4
	}
	if v.QualityWeight == 0 {
		v.QualityWeight = 0.3
	}
	if v.SuitabilityWeight == 0 {
		v.SuitabilityWeight = 0.2
	}
	if v.DiversityWeight == 0 {
		v.DiversityWeight = 0.1
	}
	sc := &v.Scoring
	if sc.BaseScore == 0 {
		sc.BaseScore = 5.0
	}
	if sc.KeywordMatchBonus == 0 {
		sc.KeywordMatchBonus = 1.5
	}
	if sc.EntityMatchBonus == 0 {
		sc.EntityMatchBonus = 1.0
	}
	if sc.HighResBonus == 0 {
		sc.HighResBonus = 2.0
	}
	if sc.MediumResBonus == 0 {
		sc.MediumResBonus = 1.0
	}
	if sc.IdealPortraitBonus == 0 {
		sc.IdealPortraitBonus = 1.5
	}
	if sc.AcceptablePortraitBonus == 0 {
		sc.AcceptablePortraitBonus = 0.5
	}
	if sc.LandscapePenalty == 0 {
		sc.LandscapePenalty = 1.0
	}
	if sc.VideoDurationBonus == 0 {
		sc.VideoDurationBonus = 1.0
	}
	if sc.TallAspectBonus == 0 {
		sc.TallAspectBonus = 2.0
	}
	if sc.WideAspectPenalty == 0 {
		sc.WideAspectPenalty = 2.0
	}
	if sc.TextOverlayPenalty == 0 {
		sc.TextOverlayPenalty = 1.0
	}
	if sc.CleanLookBonus == 0 {
		sc.CleanLookBonus = 1.0
	}
	if sc.RepeatCreatorPenalty == 0 {
		sc.RepeatCreatorPenalty = 2.0
	}
	if sc.SessionVarietyBonus == 0 {
		sc.SessionVarietyBonus = 1.0
	}

	vid := &c.Video
	if vid.Resolution == "" {
		vid.Resolution = "720p"
	}
	if vid.Framerate == 0 {
		vid.Framerate = 30
	}
	if vid.VideoCodec == "" {
		vid.VideoCodec = "libx264"
	}
	if vid.AudioCodec == "" {
		vid.AudioCodec = "aac"
	}
	if vid.OutputFormat == "" {
		vid.OutputFormat = "mp4"
	}
	if vid.MaxCaptionWords == 0 {
		vid.MaxCaptionWords = 8
	}
	if vid.InterSceneDelayMS == 0 {
		vid.InterSceneDelayMS = 500
	}
	if vid.SubtitleFont == "" {
		vid.SubtitleFont = "Arial"
	}
	if vid.SubtitleFontSize == 0 {
		vid.SubtitleFontSize = 24
	}
	if vid.SubtitleStroke == 0 {
		vid.SubtitleStroke = 2
	}
	if vid.SubtitleMargin == 0 {
		vid.SubtitleMargin = 40
	}

	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}

	u := &c.Upload
	if u.Visibility == "" {
		u.Visibility = "private"
	}
	if u.CategoryID == "" {
		u.CategoryID = "22"
	}
	if u.DefaultLanguage == "" {
		u.DefaultLanguage = "en"
	}

	if c.Paths.Temp == "" {
		c.Paths.Temp = "temp"
	}
	if c.Paths.Output == "" {
		c.Paths.Output = "output"
	}
}

// Quality describes one output resolution preset.
type Quality struct {
	Width   int
	Height  int
	Bitrate string
}

// Qualities maps resolution names to encoder presets. The output is a
// vertical video, so width < height.
var Qualities = map[string]Quality{
	"480p":  {Width: 480, Height: 854, Bitrate: "1000k"},
	"720p":  {Width: 720, Height: 1280, Bitrate: "2500k"},
	"1080p": {Width: 1080, Height: 1920, Bitrate: "4000k"},
}

// QualityFor returns the preset for a resolution name, defaulting to 720p.
func QualityFor(resolution string) Quality {
	if q, ok := Qualities[resolution]; ok {
		return q
	}
	return Qualities["720p"]
}
