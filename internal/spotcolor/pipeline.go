package spotcolor

import (
	"emperror.dev/errors"
)

// PrepareResult is the outcome of Prepare.
type PrepareResult struct {
	// Original classifies the uploaded image.
	Original *ClassificationResult `json:"original"`

	// Simplified is set when Original was not spot-color.
	Simplified *SimplificationResult `json:"simplified,omitempty"`

	// Confirmation re-classifies Simplified in pre-simplified mode.
	Confirmation *ClassificationResult `json:"confirmation,omitempty"`

	// Accepted reports whether the upload, or its simplification, can be
	// printed with spot colours.
	Accepted bool `json:"accepted"`
}

// Prepare classifies an upload and, when it is not spot-color, simplifies it
// to maxColors colours and re-classifies the result.
//
// A PNG encoder failure is retried once as BMP.
func (e *Engine) Prepare(data []byte, maxColors int) (*PrepareResult, error) {
	original, err := e.Classify(data, false)
	if err != nil {
		return nil, err
	}
	res := &PrepareResult{Original: original}
	if original.IsSpotColor {
		res.Accepted = true
		return res, nil
	}

	simplified, err := e.SimplifyAs(data, maxColors, FormatPNG)
	if errors.Is(err, ErrDecodeFailure) {
		e.log.Warn().Err(err).Msg("png encoding failed, retrying as bmp")
		simplified, err = e.SimplifyAs(data, maxColors, FormatBMP)
	}
	if err != nil {
		return nil, err
	}
	res.Simplified = simplified

	confirmation, err := e.Classify(simplified.Image, true)
	if err != nil {
		return nil, errors.Wrap(err, "cannot classify simplified image")
	}
	res.Confirmation = confirmation
	res.Accepted = confirmation.IsSpotColor
	return res, nil
}
