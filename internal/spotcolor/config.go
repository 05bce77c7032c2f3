package spotcolor

import (
	"emperror.dev/errors"
	"github.com/BurntSushi/toml"
)

// Weights scales the squared channel differences of a colour distance.
type Weights struct {
	R float64 `toml:"r"`
	G float64 `toml:"g"`
	B float64 `toml:"b"`
}

var (
	// LuminanceWeights approximate human sensitivity to each channel.
	LuminanceWeights = Weights{R: 0.30, G: 0.59, B: 0.11}

	// UniformWeights give plain Euclidean RGB distance.
	UniformWeights = Weights{R: 1, G: 1, B: 1}
)

// ClassifierConfig holds the thresholds used by Classify.
type ClassifierConfig struct {
	// BorderBandMaxWidth caps the width of the sampled border band in pixels.
	BorderBandMaxWidth int `toml:"border_band_max_width"`

	// BorderBandFraction is the band width as a fraction of the image width.
	BorderBandFraction float64 `toml:"border_band_fraction"`

	// BackgroundBandShare is the share of band pixels a colour must exceed
	// to become a background candidate.
	BackgroundBandShare float64 `toml:"background_band_share"`

	// WhiteThreshold: every channel above it makes a colour near-white.
	WhiteThreshold int `toml:"white_threshold"`

	// WhiteMaxForeground is the largest non-background colour count for
	// which a white background is kept as an ink.
	WhiteMaxForeground int `toml:"white_max_foreground"`

	// ExcludeShare is the full-image share above which a background is excluded.
	ExcludeShare float64 `toml:"exclude_share"`

	// DesignElementMinShare and DesignElementMaxShare bound the band in which a
	// border colour is treated as part of the design.
	DesignElementMinShare float64 `toml:"design_element_min_share"`
	DesignElementMaxShare float64 `toml:"design_element_max_share"`

	// OriginalTolerance groups colours of an untouched upload.
	OriginalTolerance float64 `toml:"original_tolerance"`

	// PreSimplifiedTolerance groups colours of an already simplified image.
	PreSimplifiedTolerance float64 `toml:"pre_simplified_tolerance"`

	// DominanceCutoff: a two-group image whose larger group holds more than
	// this share is a gradient, not a two-colour design.
	DominanceCutoff float64 `toml:"dominance_cutoff"`

	// GradientMaxGroups is the largest group count still classified as gradient.
	GradientMaxGroups int `toml:"gradient_max_groups"`

	// PaletteSize caps the number of palette entries reported.
	PaletteSize int `toml:"palette_size"`

	Weights Weights `toml:"weights"`
}

// SimplifierConfig holds the thresholds used by Simplify.
type SimplifierConfig struct {
	// Tolerance groups candidate colours before selection.
	Tolerance float64 `toml:"tolerance"`

	// EdgeFrequencyFactor times (width + height) is the edge count the most
	// frequent edge colour must exceed to be the background.
	EdgeFrequencyFactor float64 `toml:"edge_frequency_factor"`

	WhiteThreshold int     `toml:"white_threshold"`
	ExcludeShare   float64 `toml:"exclude_share"`

	Weights Weights `toml:"weights"`
}

// Config holds every tunable of the engine.
type Config struct {
	// MaxPixels rejects larger images with ErrImageTooLarge. Zero disables the cap.
	MaxPixels int `toml:"max_pixels"`

	Classifier ClassifierConfig `toml:"classifier"`
	Simplifier SimplifierConfig `toml:"simplifier"`
}

// DefaultConfig returns the production thresholds.
func DefaultConfig() Config {
	return Config{
		Classifier: ClassifierConfig{
			BorderBandMaxWidth:     10,
			BorderBandFraction:     0.05,
			BackgroundBandShare:    0.30,
			WhiteThreshold:         240,
			WhiteMaxForeground:     2,
			ExcludeShare:           0.60,
			DesignElementMinShare:  0.10,
			DesignElementMaxShare:  0.80,
			OriginalTolerance:      85,
			PreSimplifiedTolerance: 30,
			DominanceCutoff:        0.95,
			GradientMaxGroups:      5,
			PaletteSize:            10,
			Weights:                LuminanceWeights,
		},
		Simplifier: SimplifierConfig{
			Tolerance:           40,
			EdgeFrequencyFactor: 0.5,
			WhiteThreshold:      240,
			ExcludeShare:        0.60,
			Weights:             UniformWeights,
		},
	}
}

// LoadConfig overlays a TOML document onto DefaultConfig and validates the result.
//
// Keys missing from the document keep their default values:
//
//	max_pixels = 25000000
//
//	[classifier]
//	original_tolerance = 80
//
//	[simplifier.weights]
//	r = 1.0
//	g = 1.0
//	b = 1.0
func LoadConfig(data []byte) (*Config, error) {
	conf := DefaultConfig()
	if err := toml.Unmarshal(data, &conf); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal config")
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return &conf, nil
}

// Validate reports the first out-of-range setting.
func (c Config) Validate() error {
	cl, si := c.Classifier, c.Simplifier
	switch {
	case c.MaxPixels < 0:
		return errors.Errorf("max_pixels must not be negative, got %d", c.MaxPixels)
	case cl.BorderBandMaxWidth < 1:
		return errors.Errorf("classifier.border_band_max_width must be positive, got %d", cl.BorderBandMaxWidth)
	case !inUnit(cl.BorderBandFraction):
		return errors.Errorf("classifier.border_band_fraction must be in [0,1], got %g", cl.BorderBandFraction)
	case !inUnit(cl.BackgroundBandShare):
		return errors.Errorf("classifier.background_band_share must be in [0,1], got %g", cl.BackgroundBandShare)
	case !inUnit(cl.ExcludeShare):
		return errors.Errorf("classifier.exclude_share must be in [0,1], got %g", cl.ExcludeShare)
	case !inUnit(cl.DesignElementMinShare) || !inUnit(cl.DesignElementMaxShare) ||
		cl.DesignElementMinShare > cl.DesignElementMaxShare:
		return errors.Errorf("classifier design element band [%g,%g] is invalid",
			cl.DesignElementMinShare, cl.DesignElementMaxShare)
	case !inUnit(cl.DominanceCutoff):
		return errors.Errorf("classifier.dominance_cutoff must be in [0,1], got %g", cl.DominanceCutoff)
	case cl.OriginalTolerance < 0 || cl.PreSimplifiedTolerance < 0 || si.Tolerance < 0:
		return errors.New("tolerances must not be negative")
	case cl.GradientMaxGroups < 2:
		return errors.Errorf("classifier.gradient_max_groups must be at least 2, got %d", cl.GradientMaxGroups)
	case cl.PaletteSize < 1:
		return errors.Errorf("classifier.palette_size must be positive, got %d", cl.PaletteSize)
	case cl.WhiteThreshold < 0 || cl.WhiteThreshold > 255 || si.WhiteThreshold < 0 || si.WhiteThreshold > 255:
		return errors.New("white_threshold must be in [0,255]")
	case !inUnit(si.ExcludeShare):
		return errors.Errorf("simplifier.exclude_share must be in [0,1], got %g", si.ExcludeShare)
	case si.EdgeFrequencyFactor < 0:
		return errors.Errorf("simplifier.edge_frequency_factor must not be negative, got %g", si.EdgeFrequencyFactor)
	case !cl.Weights.valid() || !si.Weights.valid():
		return errors.New("distance weights must not be negative and must not all be zero")
	}
	return nil
}

func (w Weights) valid() bool {
	return w.R >= 0 && w.G >= 0 && w.B >= 0 && w.R+w.G+w.B > 0
}

func inUnit(v float64) bool {
	return v >= 0 && v <= 1
}
