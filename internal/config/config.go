package config

import (
	"errors"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ErrInvalidJSON is returned when a configuration document cannot be parsed.
var ErrInvalidJSON = errors.New("config: invalid JSON")

// Config carries the core's tunables.
type Config struct {
	// MultiClickWindow is the maximum time between pointer-downs that
	// still count as one multi-click sequence.
	MultiClickWindow time.Duration

	// MultiClickDistance is the maximum screen distance, in pixels,
	// between pointer-downs in one multi-click sequence.
	MultiClickDistance float64

	// MinBoxWidth is the minimum constraint width for drag-created
	// fixed-width entities.
	MinBoxWidth float64

	// BoxHeightFactor scales the font size into the minimum box height
	// for drag-created entities.
	BoxHeightFactor float64

	// DiagnosticInterval is the minimum spacing between desync
	// diagnostics.
	DiagnosticInterval time.Duration

	// DefaultFontID is the font for newly created entities.
	DefaultFontID int

	// DefaultFontSize is the font size for newly created entities.
	DefaultFontSize float64
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		MultiClickWindow:   500 * time.Millisecond,
		MultiClickDistance: 4,
		MinBoxWidth:        20,
		BoxHeightFactor:    1.2,
		DiagnosticInterval: 200 * time.Millisecond,
		DefaultFontID:      0,
		DefaultFontSize:    16,
	}
}

// Load parses a JSON document and overlays it on the defaults. Missing
// keys keep their default values; unknown keys are ignored.
func Load(data []byte) (Config, error) {
	if len(data) == 0 {
		return Default(), nil
	}
	if !gjson.ValidBytes(data) {
		return Config{}, ErrInvalidJSON
	}

	cfg := Default()
	doc := gjson.ParseBytes(data)

	if v := doc.Get("multiClickWindowMs"); v.Exists() {
		cfg.MultiClickWindow = time.Duration(v.Int()) * time.Millisecond
	}
	if v := doc.Get("multiClickDistancePx"); v.Exists() {
		cfg.MultiClickDistance = v.Float()
	}
	if v := doc.Get("minBoxWidth"); v.Exists() {
		cfg.MinBoxWidth = v.Float()
	}
	if v := doc.Get("boxHeightFactor"); v.Exists() {
		cfg.BoxHeightFactor = v.Float()
	}
	if v := doc.Get("diagnosticIntervalMs"); v.Exists() {
		cfg.DiagnosticInterval = time.Duration(v.Int()) * time.Millisecond
	}
	if v := doc.Get("defaultFontId"); v.Exists() {
		cfg.DefaultFontID = int(v.Int())
	}
	if v := doc.Get("defaultFontSize"); v.Exists() {
		cfg.DefaultFontSize = v.Float()
	}

	return cfg, nil
}

// Marshal renders the configuration as a JSON document.
func (c Config) Marshal() ([]byte, error) {
	out := []byte("{}")
	var err error

	set := func(path string, value any) {
		if err != nil {
			return
		}
		out, err = sjson.SetBytes(out, path, value)
	}

	set("multiClickWindowMs", c.MultiClickWindow.Milliseconds())
	set("multiClickDistancePx", c.MultiClickDistance)
	set("minBoxWidth", c.MinBoxWidth)
	set("boxHeightFactor", c.BoxHeightFactor)
	set("diagnosticIntervalMs", c.DiagnosticInterval.Milliseconds())
	set("defaultFontId", c.DefaultFontID)
	set("defaultFontSize", c.DefaultFontSize)

	if err != nil {
		return nil, err
	}
	return out, nil
}
