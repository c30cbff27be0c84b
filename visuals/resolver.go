package visuals

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"script-to-video-pipeline/config"
	"script-to-video-pipeline/session"
	"script-to-video-pipeline/types"
)

const maxQueries = 5

// genericQueries covers scenes with no keyword signal at all.
var genericQueries = []string{"business professional", "technology", "modern lifestyle"}

// Resolver finds, scores and downloads one visual per scene.
type Resolver struct {
	cfg    config.VisualsConfig
	sess   *session.Session
	client *pexelsClient
}

func New(cfg config.VisualsConfig, sess *session.Session) *Resolver {
	return &Resolver{cfg: cfg, sess: sess, client: newPexelsClient(cfg.DownloadQuality)}
}

// Run resolves visuals for every scene sequentially. A failed download is
// recorded on the scene and does not stop the stage; the renderer treats
// the missing local path as that scene's failure.
func (r *Resolver) Run(ctx context.Context, scenes []*types.Scene) *types.VisualStageResult {
	result := &types.VisualStageResult{
		SessionID: r.sess.ID,
		Scenes:    scenes,
	}
	if len(scenes) == 0 {
		result.Error = "no scenes to resolve visuals for"
		return result
	}

	log.Printf("[visuals] resolving visuals for %d scenes (session %s)", len(scenes), r.sess.ID)

	for i, scene := range scenes {
		select {
		case <-ctx.Done():
			result.Error = ctx.Err().Error()
			return result
		default:
		}

		scene.Visual = r.resolveScene(ctx, scene)
		if scene.Visual.Selected != nil && scene.Visual.Selected.DownloadSuccess {
			result.TotalDownloaded++
		} else {
			result.FailedDownloads++
		}

		if i < len(scenes)-1 && r.cfg.InterSceneDelayMS > 0 {
			time.Sleep(time.Duration(r.cfg.InterSceneDelayMS) * time.Millisecond)
		}
	}

	result.Success = true
	log.Printf("[visuals] done: %d downloaded, %d failed", result.TotalDownloaded, result.FailedDownloads)
	return result
}

func (r *Resolver) resolveScene(ctx context.Context, scene *types.Scene) *types.VisualResult {
	queries := buildQueries(scene)
	candidates, usedQuery := r.collect(ctx, queries)

	result := &types.VisualResult{
		SearchQuery:   usedQuery,
		SearchResults: len(candidates),
	}

	if len(candidates) == 0 {
		log.Printf("[visuals] scene %d: no candidates, using fallback image", scene.ID)
		result.Selected = r.download(ctx, scene, fallbackCandidate(r.cfg.FallbackImageURL), "fallback: no search results")
		return result
	}

	sc := &scorer{cfg: r.cfg, used: r.sess.PhotographerUsed, hasPrior: r.sess.HasDownloads}
	for i := range candidates {
		sc.Score(&candidates[i], scene)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].TotalScore > candidates[j].TotalScore
	})

	top := candidates[0]
	reason := fmt.Sprintf("top score %.2f of %d candidates", top.TotalScore, len(candidates))
	result.Selected = r.download(ctx, scene, top, reason)

	limit := r.cfg.MaxAlternatives
	if limit > len(candidates)-1 {
		limit = len(candidates) - 1
	}
	if limit > 0 {
		result.Alternatives = candidates[1 : 1+limit]
	}
	return result
}

// collect runs the query chain against the search APIs, deduplicating by
// candidate id, until the result cap is reached or queries run out.
func (r *Resolver) collect(ctx context.Context, queries []string) ([]types.VisualCandidate, string) {
	var out []types.VisualCandidate
	seen := make(map[string]bool)
	var firstQuery string

	for _, query := range queries {
		if len(out) >= r.cfg.MaxResults {
			break
		}
		found, err := r.client.SearchPhotos(ctx, query, r.cfg.Orientation, r.cfg.MaxResults)
		if err != nil {
			log.Printf("[visuals] photo search %q failed: %v", query, err)
		}
		if r.cfg.PreferVideos && len(found) < r.cfg.MaxResults/2 {
			videos, err := r.client.SearchVideos(ctx, query, r.cfg.Orientation, r.cfg.MaxResults)
			if err != nil {
				log.Printf("[visuals] video search %q failed: %v", query, err)
			}
			found = append(found, videos...)
		}

		for _, c := range found {
			if seen[c.ID] {
				continue
			}
			seen[c.ID] = true
			out = append(out, c)
		}
		if len(found) > 0 && firstQuery == "" {
			firstQuery = query
		}
	}
	if firstQuery == "" && len(queries) > 0 {
		firstQuery = queries[0]
	}
	return out, firstQuery
}

// download fetches the winning candidate to the scene's local path. Failure
// is recorded on the selection, never raised.
func (r *Resolver) download(ctx context.Context, scene *types.Scene, c types.VisualCandidate, reason string) *types.VisualSelection {
	sel := &types.VisualSelection{
		VisualCandidate: c,
		SelectionReason: reason,
	}

	dest := r.sess.VisualPath(scene.ID, c.Type)
	size, err := r.client.Download(ctx, c.DownloadURL, dest)
	if err != nil {
		sel.DownloadError = err.Error()
		log.Printf("[visuals] scene %d: download failed: %v", scene.ID, err)
		return sel
	}

	sel.DownloadSuccess = true
	sel.LocalPath = dest
	sel.FileName = filepath.Base(dest)
	sel.FileSize = size
	r.sess.RecordDownload(c.Photographer)
	log.Printf("[visuals] scene %d: downloaded %s (%d bytes)", scene.ID, sel.FileName, size)
	return sel
}

// buildQueries derives up to five search queries from a scene's keyword
// sets, most specific first. Scenes without keyword signal fall back to a
// generic query set.
func buildQueries(scene *types.Scene) []string {
	var queries []string
	seen := make(map[string]bool)
	add := func(q string) {
		q = strings.TrimSpace(q)
		if q == "" || seen[q] || len(queries) >= maxQueries {
			return
		}
		seen[q] = true
		queries = append(queries, q)
	}

	if len(scene.PrimaryKeywords) > 0 {
		top := scene.PrimaryKeywords
		if len(top) > 3 {
			top = top[:3]
		}
		add(strings.Join(top, " "))
		for _, kw := range top {
			if len(kw) > 3 {
				add(kw)
			}
		}
	}

	secondary := 0
	for _, kw := range scene.Keywords {
		if secondary >= 2 {
			break
		}
		if len(kw) > 4 && !seen[kw] {
			add(kw)
			secondary++
		}
	}

	if len(scene.Entities) > 0 {
		add(scene.Entities[0])
	}

	if len(queries) == 0 {
		return genericQueries
	}
	return queries
}

func fallbackCandidate(imageURL string) types.VisualCandidate {
	return types.VisualCandidate{
		ID:          "fallback-image",
		Type:        "image",
		DownloadURL: imageURL,
		Description: "generic fallback visual",
		Source:      "fallback",
		IsFallback:  true,
	}
}
