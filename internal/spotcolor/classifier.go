package spotcolor

import (
	"math"
)

// ImageType is the print category of an image.
type ImageType string

const (
	ImageTypeSpotColor ImageType = "spot-color"
	ImageTypeGradient  ImageType = "gradient"
	ImageTypeFullColor ImageType = "full-color"
)

// BackgroundPolicy names the rule applied to a background candidate.
type BackgroundPolicy string

const (
	// PolicyWhiteLogo keeps a near-white background around a simple logo as an ink.
	PolicyWhiteLogo BackgroundPolicy = "white-logo"
	// PolicyExcluded removes the colour from grouping.
	PolicyExcluded BackgroundPolicy = "excluded"
	// PolicyDesignElement keeps a border colour with a mid-range share as part of the design.
	PolicyDesignElement BackgroundPolicy = "design-element"
	// PolicyKept keeps the colour because no other rule applied.
	PolicyKept BackgroundPolicy = "kept"
)

// BackgroundDecision records how one background candidate was handled.
type BackgroundDecision struct {
	Color  ColorKey         `json:"color"`
	Hex    string           `json:"hex"`
	Share  float64          `json:"share"` // Fraction of all image pixels (0-1)
	Policy BackgroundPolicy `json:"policy"`
}

// PaletteEntry is a display colour. Percentage is an equal share of the
// palette, not a measured coverage.
type PaletteEntry struct {
	Hex        string   `json:"hex"`
	RGB        ColorKey `json:"rgb"`
	HSL        [3]int   `json:"hsl"`
	Percentage float64  `json:"percentage"`
}

// ClassificationResult is the outcome of Classify.
type ClassificationResult struct {
	// DominantColor is the representative of the largest colour group.
	DominantColor PaletteEntry `json:"dominant_color"`

	// Palette holds up to PaletteSize group representatives, largest first.
	Palette []PaletteEntry `json:"palette"`

	// TotalUniqueColors counts distinct literal colours in the whole image.
	TotalUniqueColors int `json:"total_unique_colors"`

	// EffectiveColorGroups counts groups after background handling and grouping.
	EffectiveColorGroups int `json:"effective_color_groups"`

	ImageType      ImageType `json:"image_type"`
	IsSpotColor    bool      `json:"is_spot_color"`
	SpotColorCount int       `json:"spot_color_count"`

	// DominanceRatio is set for two-group images: largest / (largest + second).
	DominanceRatio float64 `json:"dominance_ratio,omitempty"`

	// Background lists each border candidate and the rule applied to it.
	// Empty for pre-simplified input.
	Background []BackgroundDecision `json:"background,omitempty"`

	PreSimplified bool `json:"pre_simplified"`
}

// Classify decodes an image and classifies it for spot colour printing.
//
// Parameters:
//   - data: Encoded image bytes (PNG, JPEG, GIF, BMP, TIFF or WebP).
//   - preSimplified: True when data was produced by Simplify. Background
//     detection is skipped, a tighter grouping tolerance is used and the
//     result is always spot-color.
//
// Returns:
//   - *ClassificationResult: The classification and palette.
//   - error: ErrInvalidImage (or ErrImageTooLarge) when data cannot be analysed.
//
// # Decision
//
// With N effective groups after background handling and grouping:
//   - N <= 1: spot-color, one ink
//   - N == 2: spot-color with two inks unless the larger group's share of the
//     two exceeds DominanceCutoff, in which case gradient
//   - N <= GradientMaxGroups: gradient
//   - otherwise: full-color
func (e *Engine) Classify(data []byte, preSimplified bool) (*ClassificationResult, error) {
	buf, err := decodePixels(data, e.cfg.MaxPixels)
	if err != nil {
		return nil, err
	}
	return e.classifyPixels(buf, preSimplified), nil
}

func (e *Engine) classifyPixels(buf *pixelBuffer, preSimplified bool) *ClassificationResult {
	cfg := e.cfg.Classifier
	hist := buf.histogram()
	colors := hist.sorted()
	total := buf.width() * buf.height()

	log := e.log.With().
		Int("width", buf.width()).
		Int("height", buf.height()).
		Bool("pre_simplified", preSimplified).
		Logger()
	log.Debug().Int("unique_colors", len(hist)).Msg("counted colors")

	var decisions []BackgroundDecision
	if !preSimplified {
		band := borderBandWidth(buf.width(), cfg)
		candidates := backgroundCandidates(buf.bandHistogram(band), cfg.BackgroundBandShare)
		log.Debug().Int("band", band).Int("candidates", len(candidates)).Msg("sampled border band")

		decisions = e.backgroundPolicy(candidates, hist, total)
		colors = withoutExcluded(colors, decisions)
	}

	tol := cfg.OriginalTolerance
	if preSimplified {
		tol = cfg.PreSimplifiedTolerance
	}
	groups := groupColors(colors, tol, cfg.Weights)
	log.Debug().Float64("tolerance", tol).Int("groups", len(groups)).Msg("grouped colors")

	res := &ClassificationResult{
		TotalUniqueColors:    len(hist),
		EffectiveColorGroups: len(groups),
		Background:           decisions,
		PreSimplified:        preSimplified,
	}
	e.decide(res, groups)
	res.Palette = palette(groups, cfg.PaletteSize)
	if len(res.Palette) > 0 {
		res.DominantColor = res.Palette[0]
	}

	log.Debug().
		Str("image_type", string(res.ImageType)).
		Int("spot_colors", res.SpotColorCount).
		Float64("dominance", res.DominanceRatio).
		Msg("classified image")
	return res
}

// backgroundPolicy applies the background rules to each candidate in order:
// white logo background, exclusion, design element, otherwise kept.
func (e *Engine) backgroundPolicy(candidates []ColorKey, hist histogram, total int) []BackgroundDecision {
	cfg := e.cfg.Classifier
	if len(candidates) == 0 {
		return nil
	}
	foreground := len(hist) - len(candidates)

	decisions := make([]BackgroundDecision, 0, len(candidates))
	for _, c := range candidates {
		share := float64(hist[c]) / float64(total)
		var policy BackgroundPolicy
		switch {
		case c.nearWhite(cfg.WhiteThreshold) && foreground <= cfg.WhiteMaxForeground:
			policy = PolicyWhiteLogo
		case foreground >= 2 && share > cfg.ExcludeShare:
			policy = PolicyExcluded
		case share >= cfg.DesignElementMinShare && share <= cfg.DesignElementMaxShare:
			policy = PolicyDesignElement
		default:
			policy = PolicyKept
		}
		e.log.Debug().
			Str("color", c.Hex()).
			Float64("share", share).
			Int("foreground_colors", foreground).
			Str("policy", string(policy)).
			Msg("background candidate")
		decisions = append(decisions, BackgroundDecision{Color: c, Hex: c.Hex(), Share: share, Policy: policy})
	}
	return decisions
}

// withoutExcluded drops every colour whose decision is PolicyExcluded.
func withoutExcluded(colors []colorCount, decisions []BackgroundDecision) []colorCount {
	excluded := make(map[ColorKey]bool)
	for _, d := range decisions {
		if d.Policy == PolicyExcluded {
			excluded[d.Color] = true
		}
	}
	if len(excluded) == 0 {
		return colors
	}
	out := make([]colorCount, 0, len(colors))
	for _, cc := range colors {
		if !excluded[cc.key] {
			out = append(out, cc)
		}
	}
	return out
}

// decide fills the type, spot flag, ink count and dominance ratio.
func (e *Engine) decide(res *ClassificationResult, groups []ColorGroup) {
	cfg := e.cfg.Classifier
	n := len(groups)

	if res.PreSimplified {
		res.ImageType = ImageTypeSpotColor
		res.IsSpotColor = true
		res.SpotColorCount = min(n, 2)
		return
	}

	switch {
	case n <= 1:
		res.ImageType = ImageTypeSpotColor
		res.IsSpotColor = true
		res.SpotColorCount = 1
	case n == 2:
		first, second := groups[0].Frequency, groups[1].Frequency
		res.DominanceRatio = float64(first) / float64(first+second)
		if res.DominanceRatio <= cfg.DominanceCutoff {
			res.ImageType = ImageTypeSpotColor
			res.IsSpotColor = true
			res.SpotColorCount = 2
		} else {
			res.ImageType = ImageTypeGradient
		}
	case n <= cfg.GradientMaxGroups:
		res.ImageType = ImageTypeGradient
	default:
		res.ImageType = ImageTypeFullColor
	}
}

// palette returns up to size group representatives with equal percentages.
func palette(groups []ColorGroup, size int) []PaletteEntry {
	if len(groups) < size {
		size = len(groups)
	}
	if size == 0 {
		return []PaletteEntry{}
	}
	share := math.Round(100/float64(size)*100) / 100
	out := make([]PaletteEntry, size)
	for i, g := range groups[:size] {
		h, s, l := g.Representative.HSL()
		out[i] = PaletteEntry{
			Hex:        g.Representative.Hex(),
			RGB:        g.Representative,
			HSL:        [3]int{h, s, l},
			Percentage: share,
		}
	}
	return out
}
