package config

import (
	"errors"
	"testing"
	"time"
)

func TestLoadEmptyReturnsDefaults(t *testing.T) {
	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg != Default() {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadPartialOverlay(t *testing.T) {
	cfg, err := Load([]byte(`{"multiClickWindowMs": 300, "minBoxWidth": 50}`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MultiClickWindow != 300*time.Millisecond {
		t.Errorf("window = %v, want 300ms", cfg.MultiClickWindow)
	}
	if cfg.MinBoxWidth != 50 {
		t.Errorf("min width = %v, want 50", cfg.MinBoxWidth)
	}
	// Untouched keys keep defaults.
	if cfg.MultiClickDistance != Default().MultiClickDistance {
		t.Errorf("distance = %v, want default", cfg.MultiClickDistance)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	_, err := Load([]byte("{not json"))
	if !errors.Is(err, ErrInvalidJSON) {
		t.Errorf("err = %v, want ErrInvalidJSON", err)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	in := Default()
	in.MultiClickWindow = 250 * time.Millisecond
	in.DefaultFontSize = 24

	data, err := in.Marshal()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	out, err := Load(data)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if out != in {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
}
