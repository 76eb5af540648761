package pile

import (
	"math"
	"testing"

	"github.com/matzehuels/cartpile/pkg/errors"
)

func TestRegionValidate(t *testing.T) {
	tests := []struct {
		name    string
		region  Region
		wantErr bool
	}{
		{"valid", Region{Left: 0, Right: 100, RowHeight: 30}, false},
		{"negative row height", Region{Left: -50, Right: 50, RowHeight: -30}, false},
		{"zero row height", Region{Left: 0, Right: 1, RowHeight: 0}, false},
		{"equal edges", Region{Left: 10, Right: 10, RowHeight: 30}, true},
		{"inverted edges", Region{Left: 100, Right: 0, RowHeight: 30}, true},
		{"nan left", Region{Left: math.NaN(), Right: 100}, true},
		{"inf right", Region{Left: 0, Right: math.Inf(1)}, true},
		{"nan row height", Region{Left: 0, Right: 100, RowHeight: math.NaN()}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.region.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Validate() code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidConfig)
			}
		})
	}
}

func TestRegionClamp(t *testing.T) {
	r := Region{Left: 0, Right: 100}
	tests := []struct {
		name  string
		x     float64
		width float64
		want  float64
	}{
		{"inside", 50, 20, 50},
		{"past left", -5, 20, 10},
		{"past right", 99, 20, 90},
		{"exact lower bound", 10, 20, 10},
		{"full width", 3, 100, 50},
		{"wider than region", 70, 140, 50},
		{"nan x", math.NaN(), 20, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Clamp(tt.x, tt.width); got != tt.want {
				t.Errorf("Clamp(%v, %v) = %v, want %v", tt.x, tt.width, got, tt.want)
			}
		})
	}
}

func TestJitterValidate(t *testing.T) {
	tests := []struct {
		name    string
		jitter  Jitter
		wantErr bool
	}{
		{"zero", Jitter{}, false},
		{"defaults", DefaultConfig().Jitter, false},
		{"negative x", Jitter{PositionX: -1}, true},
		{"negative y", Jitter{PositionY: -1}, true},
		{"negative rotation", Jitter{RotationDegrees: -0.5}, true},
		{"inf rotation", Jitter{RotationDegrees: math.Inf(1)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.jitter.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}
}
