package spotcolor

import "math"

// borderBandWidth returns the width of the classifier's border band:
// min(maxWidth, fraction of the image width), never less than one pixel.
func borderBandWidth(width int, cfg ClassifierConfig) int {
	b := int(math.Floor(float64(width) * cfg.BorderBandFraction))
	if b > cfg.BorderBandMaxWidth {
		b = cfg.BorderBandMaxWidth
	}
	if b < 1 {
		b = 1
	}
	return b
}

// bandHistogram counts the colours of every pixel within band pixels of any edge.
func (p *pixelBuffer) bandHistogram(band int) histogram {
	h := make(histogram)
	w, ht := p.width(), p.height()
	for y := 0; y < ht; y++ {
		inRow := y < band || y >= ht-band
		for x := 0; x < w; x++ {
			if inRow || x < band || x >= w-band {
				h[p.at(x, y)]++
			}
		}
	}
	return h
}

// edgeHistogram counts the colours of the outermost rows and columns, each
// pixel once.
func (p *pixelBuffer) edgeHistogram() histogram {
	return p.bandHistogram(1)
}

// backgroundCandidates returns the band colours whose share of the band
// exceeds minShare, most frequent first.
func backgroundCandidates(band histogram, minShare float64) []ColorKey {
	total := band.total()
	if total == 0 {
		return nil
	}
	var out []ColorKey
	for _, cc := range band.sorted() {
		if float64(cc.count)/float64(total) > minShare {
			out = append(out, cc.key)
		}
	}
	return out
}

// dominantEdgeColor returns the most frequent edge colour when its count
// exceeds factor*(width+height).
func (p *pixelBuffer) dominantEdgeColor(factor float64) (ColorKey, bool) {
	edges := p.edgeHistogram().sorted()
	if len(edges) == 0 {
		return ColorKey{}, false
	}
	limit := factor * float64(p.width()+p.height())
	if float64(edges[0].count) > limit {
		return edges[0].key, true
	}
	return ColorKey{}, false
}
