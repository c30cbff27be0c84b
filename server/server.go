// Package server exposes each pipeline stage over HTTP so an external UI
// can drive a run stage by stage and stream the finished video.
package server

import (
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"script-to-video-pipeline/audio"
	"script-to-video-pipeline/config"
	"script-to-video-pipeline/keywords"
	"script-to-video-pipeline/render"
	"script-to-video-pipeline/segment"
	"script-to-video-pipeline/session"
	"script-to-video-pipeline/types"
	"script-to-video-pipeline/visuals"
)

// Server wires the stage endpoints to one shared config. Each request
// gets its own Session, so concurrent runs do not interfere.
type Server struct {
	cfg *config.Config
}

func New(cfg *config.Config) *Server {
	return &Server{cfg: cfg}
}

// Router builds the gin engine with all API routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()

	api := r.Group("/api")
	api.POST("/process-text", s.processText)
	api.POST("/process-audio", s.processAudio)
	api.POST("/process-visuals", s.processVisuals)
	api.POST("/process-video", s.processVideo)
	api.GET("/videos/:filename", s.serveVideo)
	api.POST("/cleanup", s.cleanup)

	return r
}

// Run starts the HTTP server on the configured address.
func (s *Server) Run() error {
	log.Printf("[server] listening on %s", s.cfg.Server.Addr)
	return s.Router().Run(s.cfg.Server.Addr)
}

type textRequest struct {
	Script  string `json:"script" binding:"required"`
	Options struct {
		MinSceneLength   int `json:"min_scene_length"`
		MaxSceneLength   int `json:"max_scene_length"`
		TargetSceneCount int `json:"target_scene_count"`
	} `json:"options"`
}

// processText runs segmentation + keyword extraction and opens a session
// for the later stages to resume.
func (s *Server) processText(c *gin.Context) {
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "script is required"})
		return
	}

	segCfg := s.cfg.Segmenter
	if req.Options.MinSceneLength > 0 {
		segCfg.MinSceneLength = req.Options.MinSceneLength
	}
	if req.Options.MaxSceneLength > 0 {
		segCfg.MaxSceneLength = req.Options.MaxSceneLength
	}
	if req.Options.TargetSceneCount > 0 {
		segCfg.TargetSceneCount = req.Options.TargetSceneCount
	}

	sess, err := session.New(s.cfg.Paths.Temp, s.cfg.Paths.Output)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "error": err.Error()})
		return
	}

	result := segment.New(segCfg).Run(c.Request.Context(), req.Script)
	if result.Success {
		keywords.New(s.cfg.Keywords).AnnotateScenes(result.Scenes)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":            result.Success,
		"error":              result.Error,
		"session_id":         sess.ID,
		"total_scenes":       result.TotalScenes,
		"estimated_duration": result.EstimatedDuration,
		"strategy":           result.Strategy,
		"scenes":             result.Scenes,
		"metadata":           result.Metadata,
	})
}

type stageRequest struct {
	SessionID string         `json:"session_id" binding:"required"`
	Scenes    []*types.Scene `json:"scenes" binding:"required"`
}

func (s *Server) processAudio(c *gin.Context) {
	req, sess, ok := s.resumeStage(c)
	if !ok {
		return
	}
	result := audio.New(s.cfg.Audio, sess).Run(c.Request.Context(), req.Scenes)
	c.JSON(http.StatusOK, result)
}

func (s *Server) processVisuals(c *gin.Context) {
	req, sess, ok := s.resumeStage(c)
	if !ok {
		return
	}
	result := visuals.New(s.cfg.Visuals, sess).Run(c.Request.Context(), req.Scenes)
	c.JSON(http.StatusOK, result)
}

func (s *Server) processVideo(c *gin.Context) {
	req, sess, ok := s.resumeStage(c)
	if !ok {
		return
	}
	renders := render.NewRenderer(s.cfg.Video, sess).RenderAll(c.Request.Context(), req.Scenes)
	result := render.NewCompiler(s.cfg.Video, sess).Compile(c.Request.Context(), req.Scenes, renders)
	c.JSON(http.StatusOK, result)
}

// serveVideo streams a compiled video. http.ServeFile handles range
// requests, which playback clients depend on.
func (s *Server) serveVideo(c *gin.Context) {
	filename := c.Param("filename")
	if filename == "" || strings.ContainsAny(filename, `/\`) || strings.Contains(filename, "..") {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid filename"})
		return
	}
	path := filepath.Join(s.cfg.Paths.Output, filename)
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "video not found"})
		return
	}
	http.ServeFile(c.Writer, c.Request, path)
}

type cleanupRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

func (s *Server) cleanup(c *gin.Context) {
	var req cleanupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "session_id is required"})
		return
	}
	sess, err := session.Resume(req.SessionID, s.cfg.Paths.Temp, s.cfg.Paths.Output)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	deleted, err := sess.Cleanup()
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "files_deleted": deleted, "session_id": req.SessionID})
}

// resumeStage parses the common stage request and reattaches its session.
func (s *Server) resumeStage(c *gin.Context) (*stageRequest, *session.Session, bool) {
	var req stageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "session_id and scenes are required"})
		return nil, nil, false
	}
	sess, err := session.Resume(req.SessionID, s.cfg.Paths.Temp, s.cfg.Paths.Output)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return nil, nil, false
	}
	return &req, sess, true
}
