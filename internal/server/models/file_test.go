package models

import "testing"

func TestDisplaySize(t *testing.T) {
	tests := []struct {
		sizeBytes int64
		want      float64
	}{
		{0, 0},
		{1, 0.01},
		{1024, 0.01},
		{10_000, 0.01},
		{1_000_000, 1},
		{1_234_567, 1.24},
		{2_500_000, 2.5},
		{100_000_001, 100.01},
	}

	for _, tt := range tests {
		if got := DisplaySize(tt.sizeBytes); got != tt.want {
			t.Errorf("DisplaySize(%d) = %v, want %v", tt.sizeBytes, got, tt.want)
		}
	}
}
