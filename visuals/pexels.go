package visuals

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"script-to-video-pipeline/types"
)

const (
	photoSearchURL = "https://api.pexels.com/v1/search"
	videoSearchURL = "https://api.pexels.com/videos/search"

	photoTimeout    = 10 * time.Second
	videoTimeout    = 15 * time.Second
	downloadTimeout = 30 * time.Second
)

// pexelsClient wraps the Pexels photo and video search APIs.
type pexelsClient struct {
	apiKey  string
	quality string // preferred photo rendition: original | large2x | large | medium
}

func newPexelsClient(quality string) *pexelsClient {
	return &pexelsClient{apiKey: os.Getenv("PEXELS_API_KEY"), quality: quality}
}

type pexelsPhoto struct {
	ID              int    `json:"id"`
	Width           int    `json:"width"`
	Height          int    `json:"height"`
	Photographer    string `json:"photographer"`
	PhotographerURL string `json:"photographer_url"`
	Alt             string `json:"alt"`
	Src             struct {
		Original string `json:"original"`
		Large2x  string `json:"large2x"`
		Large    string `json:"large"`
		Medium   string `json:"medium"`
		Tiny     string `json:"tiny"`
	} `json:"src"`
}

type pexelsVideo struct {
	ID       int     `json:"id"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	Duration float64 `json:"duration"`
	Image    string  `json:"image"`
	User     struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	} `json:"user"`
	VideoFiles []struct {
		Quality string `json:"quality"`
		Width   int    `json:"width"`
		Height  int    `json:"height"`
		Link    string `json:"link"`
	} `json:"video_files"`
}

// SearchPhotos queries the photo API and adapts hits into candidates.
func (c *pexelsClient) SearchPhotos(ctx context.Context, query, orientation string, perPage int) ([]types.VisualCandidate, error) {
	var body struct {
		Photos []pexelsPhoto `json:"photos"`
	}
	if err := c.search(ctx, photoSearchURL, query, orientation, perPage, photoTimeout, &body); err != nil {
		return nil, err
	}

	candidates := make([]types.VisualCandidate, 0, len(body.Photos))
	for _, p := range body.Photos {
		download := photoURLForQuality(p, c.quality)
		candidates = append(candidates, types.VisualCandidate{
			ID:              "pexels-photo-" + strconv.Itoa(p.ID),
			Type:            "image",
			DownloadURL:     download,
			ThumbnailURL:    p.Src.Medium,
			Description:     p.Alt,
			Photographer:    p.Photographer,
			PhotographerURL: p.PhotographerURL,
			Width:           p.Width,
			Height:          p.Height,
			AspectRatio:     aspectRatio(p.Width, p.Height),
			Source:          "pexels",
		})
	}
	return candidates, nil
}

// SearchVideos queries the video API. The video endpoint caps per_page at 10.
func (c *pexelsClient) SearchVideos(ctx context.Context, query, orientation string, perPage int) ([]types.VisualCandidate, error) {
	if perPage > 10 {
		perPage = 10
	}
	var body struct {
		Videos []pexelsVideo `json:"videos"`
	}
	if err := c.search(ctx, videoSearchURL, query, orientation, perPage, videoTimeout, &body); err != nil {
		return nil, err
	}

	candidates := make([]types.VisualCandidate, 0, len(body.Videos))
	for _, v := range body.Videos {
		link := bestVideoFile(v)
		if link == "" {
			continue
		}
		candidates = append(candidates, types.VisualCandidate{
			ID:              "pexels-video-" + strconv.Itoa(v.ID),
			Type:            "video",
			DownloadURL:     link,
			ThumbnailURL:    v.Image,
			Photographer:    v.User.Name,
			PhotographerURL: v.User.URL,
			Width:           v.Width,
			Height:          v.Height,
			AspectRatio:     aspectRatio(v.Width, v.Height),
			Duration:        v.Duration,
			Source:          "pexels",
		})
	}
	return candidates, nil
}

func (c *pexelsClient) search(ctx context.Context, endpoint, query, orientation string, perPage int, timeout time.Duration, out interface{}) error {
	if c.apiKey == "" {
		return fmt.Errorf("PEXELS_API_KEY is not set")
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	params := url.Values{}
	params.Set("query", query)
	params.Set("orientation", orientation)
	params.Set("per_page", strconv.Itoa(perPage))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", c.apiKey)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("pexels search %q: %w", query, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("pexels search %q: status %d", query, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("pexels search %q: decode: %w", query, err)
	}
	return nil
}

// Download fetches an asset URL to a local path.
func (c *pexelsClient) Download(ctx context.Context, assetURL, destPath string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, downloadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, assetURL, nil)
	if err != nil {
		return 0, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("download %s: %w", assetURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("download %s: status %d", assetURL, resp.StatusCode)
	}

	f, err := os.Create(destPath)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	n, err := io.Copy(f, resp.Body)
	if err != nil {
		return 0, fmt.Errorf("write %s: %w", destPath, err)
	}
	if n == 0 {
		return 0, fmt.Errorf("download %s: empty body", assetURL)
	}
	return n, nil
}

// photoURLForQuality picks the configured rendition, falling back through
// progressively smaller sizes when the hit lacks it.
func photoURLForQuality(p pexelsPhoto, quality string) string {
	byName := map[string]string{
		"original": p.Src.Original,
		"large2x":  p.Src.Large2x,
		"large":    p.Src.Large,
		"medium":   p.Src.Medium,
	}
	if u := byName[quality]; u != "" {
		return u
	}
	for _, u := range []string{p.Src.Large, p.Src.Large2x, p.Src.Original, p.Src.Medium} {
		if u != "" {
			return u
		}
	}
	return ""
}

func bestVideoFile(v pexelsVideo) string {
	var link string
	bestHeight := 0
	for _, f := range v.VideoFiles {
		if f.Height > bestHeight {
			bestHeight = f.Height
			link = f.Link
		}
	}
	return link
}

func aspectRatio(width, height int) float64 {
	if width == 0 {
		return 0
	}
	return float64(height) / float64(width)
}
