package mnist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOtsuThresholdBimodal(t *testing.T) {
	tests := []struct {
		name     string
		low      [2]int
		high     [2]int
		lowCount int
	}{
		{"dark background", [2]int{0, 30}, [2]int{240, 255}, 600},
		{"bright background", [2]int{20, 60}, [2]int{150, 190}, 150},
		{"narrow clusters", [2]int{100, 105}, [2]int{120, 125}, 392},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pixels := make([]float64, 0, ImageSize)
			for i := 0; i < ImageSize; i++ {
				r := tt.high
				if i < tt.lowCount {
					r = tt.low
				}
				pixels = append(pixels, float64(r[0]+i%(r[1]-r[0]+1)))
			}

			threshold := OtsuThreshold(pixels)
			assert.GreaterOrEqual(t, threshold, tt.low[1], "threshold %d", threshold)
			assert.Less(t, threshold, tt.high[0], "threshold %d", threshold)

			bin := Binarize(pixels)
			for i, p := range pixels {
				want := 0.0
				if p >= float64(tt.high[0]) {
					want = 1
				}
				assert.Equal(t, want, bin[i])
			}
		})
	}
}

func TestOtsuThresholdTable(t *testing.T) {
	tests := []struct {
		name   string
		pixels []float64
		want   int
	}{
		{"empty", nil, 0},
		{"uniform", []float64{90, 90, 90, 90}, 0},
		{"two values", []float64{5, 5, 200, 200}, 5},
		{"binary", []float64{0, 255}, 0},
		{"clamped", []float64{-4, 0, 300, 255}, 0},
		// Equal variances over the gap keep the lowest threshold.
		{"gap", []float64{10, 10, 50, 50}, 10},
		{"three levels", []float64{0, 0, 0, 100, 100, 100, 101}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OtsuThreshold(tt.pixels))
		})
	}
}

func TestBinarize(t *testing.T) {
	pixels := []float64{90, 90, 90}
	assert.Equal(t, []float64{1, 1, 1}, Binarize(pixels))
	assert.Equal(t, []float64{90, 90, 90}, pixels)

	assert.Equal(t, []float64{0, 0, 1, 1}, Binarize([]float64{5, 5, 200, 200}))
	assert.Empty(t, Binarize(nil))
}
