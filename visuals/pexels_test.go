package visuals

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testPhoto() pexelsPhoto {
	p := pexelsPhoto{ID: 1}
	p.Src.Original = "https://example.com/original.jpg"
	p.Src.Large2x = "https://example.com/large2x.jpg"
	p.Src.Large = "https://example.com/large.jpg"
	p.Src.Medium = "https://example.com/medium.jpg"
	return p
}

func TestPhotoURLForQuality(t *testing.T) {
	p := testPhoto()
	assert.Equal(t, p.Src.Original, photoURLForQuality(p, "original"))
	assert.Equal(t, p.Src.Large2x, photoURLForQuality(p, "large2x"))
	assert.Equal(t, p.Src.Large, photoURLForQuality(p, "large"))
	assert.Equal(t, p.Src.Medium, photoURLForQuality(p, "medium"))
}

func TestPhotoURLForQualityFallsBack(t *testing.T) {
	// Unknown quality name falls back through the available renditions.
	p := testPhoto()
	assert.Equal(t, p.Src.Large, photoURLForQuality(p, "huge"))

	// A hit missing the requested rendition uses the next available one.
	p.Src.Large2x = ""
	assert.Equal(t, p.Src.Large, photoURLForQuality(p, "large2x"))

	empty := pexelsPhoto{ID: 2}
	assert.Empty(t, photoURLForQuality(empty, "large"))
}

func TestAspectRatio(t *testing.T) {
	assert.InDelta(t, 1920.0/1080.0, aspectRatio(1080, 1920), 1e-9)
	assert.Equal(t, 0.0, aspectRatio(0, 1920))
}
