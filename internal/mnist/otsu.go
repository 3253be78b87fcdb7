package mnist

// OtsuThreshold returns the global threshold maximizing the between-class
// variance wB*(mB-mF)^2 over a 256-bin intensity histogram.
//
// Pixels are truncated to integers and clamped to [0, 255]. Candidate
// thresholds are scanned upwards and the scan stops as soon as the
// foreground becomes empty, so only thresholds below the maximum intensity
// are evaluated. Ties keep the lowest threshold. An image with a single
// intensity yields 0.
func OtsuThreshold(pixels []float64) int {
	var histogram [256]int
	for _, p := range pixels {
		histogram[bin(p)]++
	}

	var sum float64
	for i, n := range histogram {
		sum += float64(i * n)
	}

	var (
		sumB        float64
		wB          int
		maxVariance float64
		threshold   int
	)
	for i, n := range histogram {
		wB += n
		if wB == 0 {
			continue
		}
		wF := len(pixels) - wB
		if wF == 0 {
			break
		}

		sumB += float64(i * n)
		mB := sumB / float64(wB)
		mF := (sum - sumB) / float64(wF)

		variance := float64(wB) * (mB - mF) * (mB - mF)
		if variance > maxVariance {
			maxVariance = variance
			threshold = i
		}
	}
	return threshold
}

// Binarize maps every pixel to 0 when it is at or below the Otsu threshold
// of the image and to 1 otherwise. The input is left untouched.
func Binarize(pixels []float64) []float64 {
	threshold := float64(OtsuThreshold(pixels))
	out := make([]float64, len(pixels))
	for i, p := range pixels {
		if p > threshold {
			out[i] = 1
		}
	}
	return out
}

func bin(p float64) int {
	switch {
	case p <= 0 || p != p:
		return 0
	case p >= 255:
		return 255
	default:
		return int(p)
	}
}
