package vectorize

import (
	"errors"
	"testing"
)

func TestNewConfig(t *testing.T) {
	cfg := NewConfig()
	if cfg.MaxFeatures != 5000 {
		t.Errorf("MaxFeatures = %d, want 5000", cfg.MaxFeatures)
	}
	if cfg.MinTokenRunes != 2 {
		t.Errorf("MinTokenRunes = %d, want 2", cfg.MinTokenRunes)
	}
	if !cfg.Lowercase {
		t.Errorf("Lowercase = false, want true")
	}
	if len(cfg.StopWords) != len(DefaultStopWords) {
		t.Errorf("StopWords = %v, want defaults", cfg.StopWords)
	}

	cfg = NewConfig(WithMaxFeatures(10), WithMinTokenRunes(1), WithStopWords("x"), WithLowercase(false))
	if cfg.MaxFeatures != 10 || cfg.MinTokenRunes != 1 || cfg.Lowercase || len(cfg.StopWords) != 1 {
		t.Errorf("options not applied: %+v", cfg)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr bool
	}{
		{name: "defaults", cfg: DefaultConfig()},
		{name: "zero features", cfg: NewConfig(WithMaxFeatures(0)), wantErr: true},
		{name: "zero min runes", cfg: NewConfig(WithMinTokenRunes(0)), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() error = %v", err)
			}
		})
	}
}
