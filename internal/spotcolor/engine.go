package spotcolor

import (
	"github.com/rs/zerolog"
)

// Engine runs classification and simplification with a fixed configuration.
//
// An Engine is immutable after New and safe for concurrent use.
type Engine struct {
	cfg Config
	log zerolog.Logger
}

// New creates an engine. Diagnostic events are written to logger at debug level;
// pass zerolog.Nop() to silence them.
func New(cfg Config, logger zerolog.Logger) *Engine {
	return &Engine{
		cfg: cfg,
		log: logger.With().Str("component", "spotcolor").Logger(),
	}
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

var defaultEngine = New(DefaultConfig(), zerolog.Nop())

// Classify runs Engine.Classify with the default configuration.
func Classify(data []byte, preSimplified bool) (*ClassificationResult, error) {
	return defaultEngine.Classify(data, preSimplified)
}

// Simplify runs Engine.Simplify with the default configuration.
func Simplify(data []byte, maxColors int) (*SimplificationResult, error) {
	return defaultEngine.Simplify(data, maxColors)
}
