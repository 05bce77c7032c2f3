package spotcolor

import (
	"emperror.dev/errors"
)

// SimplificationResult is the outcome of Simplify.
type SimplificationResult struct {
	// Image holds the re-rendered image encoded in Format.
	Image    []byte `json:"-"`
	Format   Format `json:"format"`
	MimeType string `json:"mime_type"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`

	// SelectedColors are the representative colours every pixel was mapped
	// to, most significant first. At most the requested count.
	SelectedColors []ColorKey `json:"selected_colors"`

	// Background is the dominant edge colour, if one was detected.
	Background *ColorKey `json:"background,omitempty"`

	// BackgroundKept reports whether Background stayed in the candidate pool.
	BackgroundKept bool `json:"background_kept"`
}

// Simplify reduces an image to at most maxColors solid colours and encodes it as PNG.
//
// Parameters:
//   - data: Encoded image bytes.
//   - maxColors: Target colour count K, at least 1. Typically 2.
//
// Returns:
//   - *SimplificationResult: The re-rendered image and the selected colours.
//   - error: ErrInvalidColorCount, ErrInvalidImage or ErrDecodeFailure.
//
// # Algorithm
//
//  1. The most frequent colour on the one-pixel outer edge is the background
//     when it occurs more than EdgeFrequencyFactor*(width+height) times.
//  2. A near-white background stays in the candidate pool when at most K+1
//     other colours exist. Otherwise it is dropped when it covers more than
//     ExcludeShare of the image and at least K other colours remain.
//  3. Candidates are grouped greedily with Tolerance and the K largest groups
//     supply the representatives. With fewer than K groups the K most frequent
//     literal candidates are used instead.
//  4. Every pixel takes the RGB of its nearest representative; the first
//     representative wins ties. Alpha is preserved.
func (e *Engine) Simplify(data []byte, maxColors int) (*SimplificationResult, error) {
	return e.SimplifyAs(data, maxColors, FormatPNG)
}

// SimplifyAs is Simplify with an explicit lossless output format.
func (e *Engine) SimplifyAs(data []byte, maxColors int, format Format) (*SimplificationResult, error) {
	if maxColors < 1 {
		return nil, errors.Wrapf(ErrInvalidColorCount, "got %d", maxColors)
	}
	if _, err := format.encoder(); err != nil {
		return nil, err
	}
	buf, err := decodePixels(data, e.cfg.MaxPixels)
	if err != nil {
		return nil, err
	}

	res := e.simplifyPixels(buf, maxColors)

	out, err := buf.encode(format)
	if err != nil {
		return nil, err
	}
	res.Image = out
	res.Format = format
	res.MimeType = format.MimeType()
	return res, nil
}

// simplifyPixels selects the representatives and remaps buf in place.
func (e *Engine) simplifyPixels(buf *pixelBuffer, k int) *SimplificationResult {
	cfg := e.cfg.Simplifier
	hist := buf.histogram()
	candidates := hist.sorted()
	total := buf.width() * buf.height()

	res := &SimplificationResult{Width: buf.width(), Height: buf.height()}

	if bg, ok := buf.dominantEdgeColor(cfg.EdgeFrequencyFactor); ok {
		others := len(hist) - 1
		share := float64(hist[bg]) / float64(total)
		keep := true
		switch {
		case bg.nearWhite(cfg.WhiteThreshold) && others <= k+1:
			// logo on white, the white is an ink
		case share > cfg.ExcludeShare && others >= k:
			keep = false
			candidates = withoutColor(candidates, bg)
		}
		res.Background = &bg
		res.BackgroundKept = keep
		e.log.Debug().
			Str("background", bg.Hex()).
			Float64("share", share).
			Bool("kept", keep).
			Msg("detected edge background")
	}

	groups := groupColors(candidates, cfg.Tolerance, cfg.Weights)
	res.SelectedColors = selectRepresentatives(groups, candidates, k)
	e.log.Debug().
		Int("candidates", len(candidates)).
		Int("groups", len(groups)).
		Int("selected", len(res.SelectedColors)).
		Msg("selected representatives")

	remap(buf, res.SelectedColors, cfg.Weights)
	return res
}

// selectRepresentatives takes the k largest groups, or the k most frequent
// candidates when there are fewer than k groups.
func selectRepresentatives(groups []ColorGroup, candidates []colorCount, k int) []ColorKey {
	var out []ColorKey
	if len(groups) >= k {
		out = make([]ColorKey, k)
		for i := range out {
			out[i] = groups[i].Representative
		}
		return out
	}
	n := min(k, len(candidates))
	out = make([]ColorKey, n)
	for i := range out {
		out[i] = candidates[i].key
	}
	return out
}

// remap sets every pixel to its nearest palette colour, first match on ties.
func remap(buf *pixelBuffer, palette []ColorKey, w Weights) {
	if len(palette) == 0 {
		return
	}
	// nearest representative per literal colour
	nearest := make(map[ColorKey]ColorKey)
	width, height := buf.width(), buf.height()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := buf.at(x, y)
			to, ok := nearest[c]
			if !ok {
				to = nearestColor(c, palette, w)
				nearest[c] = to
			}
			buf.set(x, y, to)
		}
	}
}

func nearestColor(c ColorKey, palette []ColorKey, w Weights) ColorKey {
	best := palette[0]
	bestDist := Distance(c, best, w)
	for _, p := range palette[1:] {
		if d := Distance(c, p, w); d < bestDist {
			best, bestDist = p, d
		}
	}
	return best
}

func withoutColor(colors []colorCount, c ColorKey) []colorCount {
	out := make([]colorCount, 0, len(colors))
	for _, cc := range colors {
		if cc.key != c {
			out = append(out, cc)
		}
	}
	return out
}
