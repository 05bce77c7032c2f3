package spotcolor

import (
	"bytes"
	"image"
	"strings"

	"emperror.dev/errors"
	"github.com/anthonynsimon/bild/imgio"
	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// Format names a lossless output encoding for simplified images.
type Format string

const (
	FormatPNG Format = "png"
	FormatBMP Format = "bmp"
)

// MimeType returns the media type of the format.
func (f Format) MimeType() string {
	switch f {
	case FormatBMP:
		return "image/bmp"
	default:
		return "image/png"
	}
}

func (f Format) encoder() (imgio.Encoder, error) {
	switch f {
	case FormatPNG, "":
		return imgio.PNGEncoder(), nil
	case FormatBMP:
		return imgio.BMPEncoder(), nil
	default:
		return nil, errors.Wrapf(ErrUnknownFormat, "format %q", string(f))
	}
}

// ParseFormat maps a format name to a Format. The empty string means PNG.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(name)); f {
	case "":
		return FormatPNG, nil
	case FormatPNG, FormatBMP:
		return f, nil
	default:
		return "", errors.Wrapf(ErrUnknownFormat, "format %q", name)
	}
}

// pixelBuffer is a decoded raster with non-premultiplied RGBA samples and a
// (0,0) origin. The classifier only reads it; the simplifier rewrites RGB in place.
type pixelBuffer struct {
	img *image.NRGBA
}

func (p *pixelBuffer) width() int  { return p.img.Rect.Dx() }
func (p *pixelBuffer) height() int { return p.img.Rect.Dy() }

// at returns the RGB key of pixel (x, y).
func (p *pixelBuffer) at(x, y int) ColorKey {
	i := p.img.PixOffset(x, y)
	s := p.img.Pix[i : i+3 : i+3]
	return ColorKey{R: s[0], G: s[1], B: s[2]}
}

// set overwrites the RGB of pixel (x, y), leaving alpha untouched.
func (p *pixelBuffer) set(x, y int, c ColorKey) {
	i := p.img.PixOffset(x, y)
	s := p.img.Pix[i : i+3 : i+3]
	s[0], s[1], s[2] = c.R, c.G, c.B
}

// histogram counts every pixel of the buffer.
func (p *pixelBuffer) histogram() histogram {
	h := make(histogram)
	w, ht := p.width(), p.height()
	for y := 0; y < ht; y++ {
		for x := 0; x < w; x++ {
			h[p.at(x, y)]++
		}
	}
	return h
}

// decodePixels sniffs, decodes and normalises encoded image bytes.
//
// Any failure is reported as ErrInvalidImage; maxPixels > 0 additionally
// rejects larger images with ErrImageTooLarge.
func decodePixels(data []byte, maxPixels int) (*pixelBuffer, error) {
	if len(data) == 0 {
		return nil, errors.Wrap(ErrInvalidImage, "empty input")
	}
	if mt := mimetype.Detect(data); !strings.HasPrefix(mt.String(), "image/") {
		return nil, errors.Wrapf(ErrInvalidImage, "unsupported content type %s", mt.String())
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidImage, "cannot decode image: %v", err)
	}

	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, errors.Wrapf(ErrInvalidImage, "image has zero dimension %dx%d", b.Dx(), b.Dy())
	}
	if maxPixels > 0 && b.Dx()*b.Dy() > maxPixels {
		return nil, errors.Wrapf(ErrImageTooLarge, "%dx%d exceeds %d pixels", b.Dx(), b.Dy(), maxPixels)
	}

	return &pixelBuffer{img: imaging.Clone(img)}, nil
}

// encode writes the buffer in the given lossless format.
func (p *pixelBuffer) encode(f Format) ([]byte, error) {
	enc, err := f.encoder()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := enc(&buf, p.img); err != nil {
		return nil, errors.Wrapf(ErrDecodeFailure, "%s: %v", f, err)
	}
	return buf.Bytes(), nil
}
