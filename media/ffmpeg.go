// Package media wraps the ffmpeg and ffprobe binaries. Both are invoked as
// black-box subprocesses; ffmpeg failures carry the captured stderr so the
// caller can log the encoder's actual diagnostic.
package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Run executes ffmpeg with the given arguments. A non-zero exit wraps the
// tail of the captured diagnostic output.
func Run(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg: %w: %s", err, tail(stderr.String(), 800))
	}
	return nil
}

// ProbeDuration returns a media file's duration in seconds.
func ProbeDuration(ctx context.Context, path string) (float64, error) {
	out, err := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	).Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", path, err)
	}
	dur, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: bad duration %q", path, strings.TrimSpace(string(out)))
	}
	return dur, nil
}

// Metadata is the subset of ffprobe output the compiler reports.
type Metadata struct {
	Duration   float64
	BitRate    int64
	Width      int
	Height     int
	FrameRate  float64
	VideoCodec string
	AudioCodec string
}

type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
		BitRate  string `json:"bit_rate"`
	} `json:"format"`
	Streams []struct {
		CodecType  string `json:"codec_type"`
		CodecName  string `json:"codec_name"`
		Width      int    `json:"width"`
		Height     int    `json:"height"`
		RFrameRate string `json:"r_frame_rate"`
	} `json:"streams"`
}

// Probe reads duration, resolution, codecs and bitrate from a video file.
func Probe(ctx context.Context, path string) (*Metadata, error) {
	out, err := exec.CommandContext(ctx, "ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	).Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe %s: %w", path, err)
	}

	var raw probeOutput
	if err := json.Unmarshal(out, &raw); err != nil {
		return nil, fmt.Errorf("ffprobe %s: %w", path, err)
	}

	meta := &Metadata{
		VideoCodec: "unknown",
		AudioCodec: "unknown",
	}
	meta.Duration, _ = strconv.ParseFloat(raw.Format.Duration, 64)
	meta.BitRate, _ = strconv.ParseInt(raw.Format.BitRate, 10, 64)

	for _, s := range raw.Streams {
		switch s.CodecType {
		case "video":
			meta.VideoCodec = s.CodecName
			meta.Width = s.Width
			meta.Height = s.Height
			meta.FrameRate = ParseFrameRate(s.RFrameRate)
		case "audio":
			meta.AudioCodec = s.CodecName
		}
	}
	return meta, nil
}

// ParseFrameRate converts ffprobe's rational frame rate ("30/1", "30000/1001")
// to a float. Returns 0 on malformed input.
func ParseFrameRate(r string) float64 {
	num, den, ok := strings.Cut(r, "/")
	if !ok {
		f, _ := strconv.ParseFloat(r, 64)
		return f
	}
	n, err1 := strconv.ParseFloat(num, 64)
	d, err2 := strconv.ParseFloat(den, 64)
	if err1 != nil || err2 != nil || d == 0 {
		return 0
	}
	return n / d
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
