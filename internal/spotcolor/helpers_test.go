package spotcolor

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/rs/zerolog"
)

var (
	red   = color.NRGBA{255, 0, 0, 255}
	blue  = color.NRGBA{0, 0, 255, 255}
	green = color.NRGBA{0, 255, 0, 255}
	black = color.NRGBA{0, 0, 0, 255}
	white = color.NRGBA{255, 255, 255, 255}
	ink   = color.NRGBA{10, 10, 10, 255}
)

func testEngine() *Engine {
	return New(DefaultConfig(), zerolog.Nop())
}

// encodePNG encodes img as PNG bytes
func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return buf.Bytes()
}

// decodeNRGBA decodes PNG bytes produced by the simplifier
func decodeNRGBA(t *testing.T, data []byte) *pixelBuffer {
	t.Helper()
	buf, err := decodePixels(data, 0)
	if err != nil {
		t.Fatalf("failed to decode output: %v", err)
	}
	return buf
}

// fill paints the rectangle [x1,x2)x[y1,y2)
func fill(img *image.NRGBA, x1, y1, x2, y2 int, c color.NRGBA) {
	for y := y1; y < y2; y++ {
		for x := x1; x < x2; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
}

// solidImage creates a single-colour image
func solidImage(width, height int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	fill(img, 0, 0, width, height, c)
	return img
}

// splitImage creates a 100x100 image, red left half and blue right half
func splitImage() *image.NRGBA {
	img := solidImage(100, 100, red)
	fill(img, 50, 0, 100, 100, blue)
	return img
}

// noiseImage creates a 100x100 red image with 100 scattered blue pixels
func noiseImage() *image.NRGBA {
	img := solidImage(100, 100, red)
	for i := 0; i < 100; i++ {
		img.SetNRGBA((i*37)%100, (i*53+7)%100, blue)
	}
	return img
}

// logoImage creates a 100x100 white canvas with a 20x40 near-black block (8%)
func logoImage() *image.NRGBA {
	img := solidImage(100, 100, white)
	fill(img, 40, 30, 60, 70, ink)
	return img
}

// hueImage creates a 256x16 strip running once around the hue wheel
func hueImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 256, 16))
	for x := 0; x < 256; x++ {
		c := hueColor(x, 256)
		fill(img, x, 0, x+1, 16, c)
	}
	return img
}

// hueColor walks the six edges of the RGB hexagon
func hueColor(i, n int) color.NRGBA {
	t := i * 1536 / n
	f := uint8(t % 256)
	switch t / 256 {
	case 0:
		return color.NRGBA{255, f, 0, 255}
	case 1:
		return color.NRGBA{255 - f, 255, 0, 255}
	case 2:
		return color.NRGBA{0, 255, f, 255}
	case 3:
		return color.NRGBA{0, 255 - f, 255, 255}
	case 4:
		return color.NRGBA{f, 0, 255, 255}
	default:
		return color.NRGBA{255, 0, 255 - f, 255}
	}
}

// darkImage creates a black canvas (80%) with red, blue and green blocks
func darkImage() *image.NRGBA {
	img := solidImage(100, 100, black)
	fill(img, 10, 20, 30, 70, red)   // 1000 px
	fill(img, 40, 20, 60, 50, blue)  // 600 px
	fill(img, 70, 20, 90, 40, green) // 400 px
	return img
}

// distinctColors returns the set of RGB values in buf
func distinctColors(buf *pixelBuffer) map[ColorKey]int {
	return buf.histogram()
}

func key(c color.NRGBA) ColorKey {
	return ColorKey{R: c.R, G: c.G, B: c.B}
}
