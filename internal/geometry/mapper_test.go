package geometry

import (
	"errors"
	"math"
	"testing"
)

func TestFit(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		maxW, maxH    float64
		expectedScale float64
	}{
		{name: "wide image limited by width", width: 1000, height: 200, maxW: 500, maxH: 400, expectedScale: 0.5},
		{name: "tall image limited by height", width: 200, height: 800, maxW: 500, maxH: 400, expectedScale: 0.5},
		{name: "small image keeps native size", width: 64, height: 32, maxW: 500, maxH: 400, expectedScale: 1},
		{name: "exact fit", width: 500, height: 400, maxW: 500, maxH: 400, expectedScale: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := Fit(tt.width, tt.height, tt.maxW, tt.maxH)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if tr.Scale != tt.expectedScale {
				t.Errorf("Expected scale %v, got %v", tt.expectedScale, tr.Scale)
			}
			if tr.DisplayWidth != float64(tt.width)*tr.Scale || tr.DisplayHeight != float64(tt.height)*tr.Scale {
				t.Errorf("Display size %vx%v does not match scale %v", tr.DisplayWidth, tr.DisplayHeight, tr.Scale)
			}
			if tr.DisplayWidth > tt.maxW || tr.DisplayHeight > tt.maxH {
				t.Errorf("Display size %vx%v exceeds bounds %vx%v", tr.DisplayWidth, tr.DisplayHeight, tt.maxW, tt.maxH)
			}
		})
	}
}

func TestFitInvalidDimension(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		maxW, maxH    float64
	}{
		{name: "zero width", width: 0, height: 10, maxW: 500, maxH: 400},
		{name: "negative height", width: 10, height: -1, maxW: 500, maxH: 400},
		{name: "zero box width", width: 10, height: 10, maxW: 0, maxH: 400},
		{name: "negative box height", width: 10, height: 10, maxW: 500, maxH: -3},
		{name: "NaN box", width: 10, height: 10, maxW: math.NaN(), maxH: 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Fit(tt.width, tt.height, tt.maxW, tt.maxH)
			if !errors.Is(err, ErrInvalidDimension) {
				t.Errorf("Expected ErrInvalidDimension, got %v", err)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	for _, scale := range []float64{0.1, 0.333, 0.5, 1, 1.7} {
		for _, v := range []float64{0, 1, 12.5, 99.99, 1024} {
			got := ToDisplay(ToSource(v, scale), scale)
			if math.Abs(got-v) > 1e-9 {
				t.Errorf("Round trip of %v at scale %v gave %v", v, scale, got)
			}
		}
	}
}

func TestLocal(t *testing.T) {
	tr := Transform{Scale: 1, OriginX: 10, OriginY: 20}
	x, y := tr.Local(15, 25)
	if x != 5 || y != 5 {
		t.Errorf("Expected (5,5), got (%v,%v)", x, y)
	}
}
