package net

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Sample is one training pair: an input vector and the expected output.
type Sample struct {
	Input    *mat.VecDense
	Expected *mat.VecDense
}

// OneHot returns a vector of length n with 1 at index class and 0
// elsewhere.
func OneHot(class, n int) (*mat.VecDense, error) {
	if class < 0 || class >= n {
		return nil, errors.Errorf("class %d out of range [0, %d)", class, n)
	}
	v := mat.NewVecDense(n, nil)
	v.SetVec(class, 1)
	return v, nil
}

// Split splits samples at index n into (samples[:n], samples[n:]).
// n is clamped to [0, len(samples)]. The halves share the backing array.
func Split(samples []Sample, n int) ([]Sample, []Sample) {
	if n < 0 {
		n = 0
	}
	if n > len(samples) {
		n = len(samples)
	}
	return samples[:n], samples[n:]
}
