package spotcolor

import (
	"fmt"
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
)

// ColorKey is a literal 8-bit RGB triple used as a grouping and lookup key.
type ColorKey struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Hex returns the colour as "#RRGGBB".
func (c ColorKey) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// HSL returns hue in degrees and saturation and lightness in percent.
func (c ColorKey) HSL() (h, s, l int) {
	hf, sf, lf := c.colorful().Hsl()
	if math.IsNaN(hf) {
		hf = 0
	}
	return int(hf), int(sf * 100), int(lf * 100)
}

func (c ColorKey) colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// packed orders keys as 0xRRGGBB for deterministic tie-breaks.
func (c ColorKey) packed() uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// nearWhite reports whether every channel is above threshold.
func (c ColorKey) nearWhite(threshold int) bool {
	return int(c.R) > threshold && int(c.G) > threshold && int(c.B) > threshold
}

// Distance is the weighted Euclidean distance between two colours.
func Distance(a, b ColorKey, w Weights) float64 {
	dr := float64(a.R) - float64(b.R)
	dg := float64(a.G) - float64(b.G)
	db := float64(a.B) - float64(b.B)
	return math.Sqrt(w.R*dr*dr + w.G*dg*dg + w.B*db*db)
}

// colorCount pairs a literal colour with its pixel count.
type colorCount struct {
	key   ColorKey
	count int
}

// histogram counts pixels per literal colour.
type histogram map[ColorKey]int

// total returns the number of pixels counted.
func (h histogram) total() int {
	n := 0
	for _, c := range h {
		n += c
	}
	return n
}

// sorted returns the colours by descending count, ties by packed RGB ascending.
func (h histogram) sorted() []colorCount {
	out := make([]colorCount, 0, len(h))
	for k, c := range h {
		out = append(out, colorCount{key: k, count: c})
	}
	sortCounts(out)
	return out
}

func sortCounts(cs []colorCount) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].count != cs[j].count {
			return cs[i].count > cs[j].count
		}
		return cs[i].key.packed() < cs[j].key.packed()
	})
}
