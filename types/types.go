package types

// Scene is the central pipeline entity: one narrated segment of the output
// video. It is created by the segmenter and enriched in place by every
// subsequent stage — never replaced.
type Scene struct {
	ID                   int     `json:"id"`
	Text                 string  `json:"text"`
	WordCount            int     `json:"word_count"`
	EstimatedReadingTime int     `json:"estimated_reading_time"`
	Duration             float64 `json:"duration"` // target display duration (seconds)

	Keywords        []string `json:"keywords,omitempty"`
	PrimaryKeywords []string `json:"primary_keywords,omitempty"`
	Entities        []string `json:"entities,omitempty"`
	VisualConcepts  []string `json:"visual_concepts,omitempty"`

	Audio  *AudioResult  `json:"audio,omitempty"`
	Visual *VisualResult `json:"visual,omitempty"`

	// ActualDuration is the ceiling of the measured narration duration and,
	// once set, overrides Duration for rendering. Always >= 1.
	ActualDuration float64 `json:"actual_duration,omitempty"`
}

// AudioResult is the outcome of narration synthesis for one scene.
type AudioResult struct {
	Success           bool    `json:"success"`
	FilePath          string  `json:"file_path,omitempty"`
	FileName          string  `json:"file_name,omitempty"`
	FileSize          int64   `json:"file_size,omitempty"`
	Duration          float64 `json:"duration"`
	EstimatedDuration float64 `json:"estimated_duration,omitempty"`
	TargetDuration    float64 `json:"target_duration"`
	Optimization      string  `json:"optimization,omitempty"` // perfect-fit | padding-needed | trim-needed
	FitQuality        string  `json:"fit_quality,omitempty"`  // excellent | good | fair | poor
	PaddingNeeded     float64 `json:"padding_needed,omitempty"`
	TrimmingNeeded    float64 `json:"trimming_needed,omitempty"`
	Error             string  `json:"error,omitempty"`
}

// VisualCandidate is an ephemeral scoring entity. It exists only during
// ranking; the top candidate is promoted into the scene's VisualResult.
type VisualCandidate struct {
	ID              string  `json:"id"`
	Type            string  `json:"type"` // image | video
	DownloadURL     string  `json:"download_url"`
	ThumbnailURL    string  `json:"thumbnail_url,omitempty"`
	Description     string  `json:"description,omitempty"`
	Photographer    string  `json:"photographer,omitempty"`
	PhotographerURL string  `json:"photographer_url,omitempty"`
	Width           int     `json:"width"`
	Height          int     `json:"height"`
	AspectRatio     float64 `json:"aspect_ratio"` // height / width
	Duration        float64 `json:"duration,omitempty"`
	Source          string  `json:"source,omitempty"`
	IsFallback      bool    `json:"is_fallback,omitempty"`

	RelevanceScore   float64 `json:"relevance_score"`
	QualityScore     float64 `json:"quality_score"`
	SuitabilityScore float64 `json:"suitability_score"`
	DiversityScore   float64 `json:"diversity_score"`
	TotalScore       float64 `json:"total_score"`
}

// VisualSelection is the downloaded winner of candidate ranking.
type VisualSelection struct {
	VisualCandidate
	LocalPath       string `json:"local_path,omitempty"`
	FileName        string `json:"file_name,omitempty"`
	FileSize        int64  `json:"file_size,omitempty"`
	DownloadSuccess bool   `json:"download_success"`
	DownloadError   string `json:"download_error,omitempty"`
	SelectionReason string `json:"selection_reason,omitempty"`
}

// VisualResult records how a scene's visual was found and chosen.
type VisualResult struct {
	Selected      *VisualSelection  `json:"selected,omitempty"`
	Alternatives  []VisualCandidate `json:"alternatives,omitempty"`
	SearchQuery   string            `json:"search_query,omitempty"`
	SearchResults int               `json:"search_results"`
}

// SegmentResult is the segmenter + keyword-extractor stage output.
type SegmentResult struct {
	Success           bool     `json:"success"`
	Error             string   `json:"error,omitempty"`
	TotalScenes       int      `json:"total_scenes"`
	EstimatedDuration float64  `json:"estimated_duration"`
	Strategy          string   `json:"strategy,omitempty"` // which segmentation strategy produced these scenes
	Scenes            []*Scene `json:"scenes"`

	Metadata struct {
		OriginalLength     int `json:"original_length"`
		CleanedLength      int `json:"cleaned_length"`
		AverageSceneLength int `json:"average_scene_length"`
	} `json:"metadata"`
}

// AudioStageResult is the audio-synthesis stage output.
type AudioStageResult struct {
	Success              bool     `json:"success"`
	Error                string   `json:"error,omitempty"`
	TotalScenesProcessed int      `json:"total_scenes_processed"`
	FailedGenerations    int      `json:"failed_generations"`
	TotalAudioDuration   float64  `json:"total_audio_duration"`
	AverageAudioDuration float64  `json:"average_audio_duration"`
	SessionID            string   `json:"session_id"`
	Scenes               []*Scene `json:"scenes"`
}

// VisualStageResult is the visual-resolver stage output.
type VisualStageResult struct {
	Success         bool     `json:"success"`
	Error           string   `json:"error,omitempty"`
	TotalDownloaded int      `json:"total_downloaded"`
	FailedDownloads int      `json:"failed_downloads"`
	SessionID       string   `json:"session_id"`
	Scenes          []*Scene `json:"scenes"`
}

// SceneRender is one scene's clip-render outcome.
type SceneRender struct {
	Success    bool    `json:"success"`
	SceneID    int     `json:"scene_id"`
	OutputPath string  `json:"output_path,omitempty"`
	FileName   string  `json:"file_name,omitempty"`
	FileSize   int64   `json:"file_size,omitempty"`
	Duration   float64 `json:"duration,omitempty"`
	Resolution string  `json:"resolution,omitempty"`
	Error      string  `json:"error,omitempty"`
}

// VideoMetadata is probed from the final compiled file.
type VideoMetadata struct {
	Duration          float64 `json:"duration"`
	BitRate           int64   `json:"bit_rate"`
	Width             int     `json:"width"`
	Height            int     `json:"height"`
	FrameRate         float64 `json:"frame_rate"`
	VideoCodec        string  `json:"video_codec"`
	AudioCodec        string  `json:"audio_codec"`
	FileSize          int64   `json:"file_size"`
	TotalScenes       int     `json:"total_scenes"`
	IncludesSubtitles bool    `json:"includes_subtitles"`
}

// CompiledScene summarizes one scene's place in the final video.
type CompiledScene struct {
	ID         int    `json:"id"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	Text       string `json:"text"`
	VisualUsed string `json:"visual_used"`
	AudioFile  string `json:"audio_file"`
	Success    bool   `json:"success"`
}

// CompileResult is the final stage's manifest.
type CompileResult struct {
	Success           bool            `json:"success"`
	Error             string          `json:"error,omitempty"`
	VideoPath         string          `json:"video_path,omitempty"`
	FileName          string          `json:"file_name,omitempty"`
	SubtitleFile      string          `json:"subtitle_file,omitempty"`
	Metadata          *VideoMetadata  `json:"metadata,omitempty"`
	Scenes            []CompiledScene `json:"scenes,omitempty"`
	ProcessingSeconds float64         `json:"processing_seconds"`
	SessionID         string          `json:"session_id"`
}

// PipelineState tracks one full driver run, snapshotted to disk after
// every stage.
type PipelineState struct {
	RunID        string             `json:"run_id"`
	StartedAt    string             `json:"started_at"`
	CompletedAt  string             `json:"completed_at,omitempty"`
	Segmentation *SegmentResult     `json:"segmentation,omitempty"`
	Audio        *AudioStageResult  `json:"audio,omitempty"`
	Visuals      *VisualStageResult `json:"visuals,omitempty"`
	Compile      *CompileResult     `json:"compile,omitempty"`
	VideoFile    string             `json:"video_file,omitempty"`
	YouTubeID    string             `json:"youtube_id,omitempty"`
	YouTubeURL   string             `json:"youtube_url,omitempty"`
	Error        string             `json:"error,omitempty"`
}
