// Package opt provides unit tests for the update rule.
package opt

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// TestSGDStepWeights tests w - lr * grad without momentum.
func TestSGDStepWeights(t *testing.T) {
	sgd := SGD{LearningRate: 0.1}

	w := mat.NewDense(1, 3, []float64{1.0, 2.0, 3.0})
	grad := mat.NewDense(1, 3, []float64{0.1, 0.2, 0.3})
	prev := mat.NewDense(1, 3, []float64{5, 5, 5})

	// Momentum is zero, so prev must be ignored
	sgd.StepWeights(w, grad, prev)

	expected := []float64{
		1.0 - 0.1*0.1, // 0.99
		2.0 - 0.1*0.2, // 1.98
		3.0 - 0.1*0.3, // 2.97
	}
	for i, want := range expected {
		if math.Abs(w.At(0, i)-want) > 1e-12 {
			t.Errorf("w[%d] = %v, want %v", i, w.At(0, i), want)
		}
	}
}

// TestSGDStepWeightsMomentum tests the momentum term.
func TestSGDStepWeightsMomentum(t *testing.T) {
	sgd := SGD{LearningRate: 0.5, Momentum: 0.9}

	w := mat.NewDense(2, 1, []float64{1, -1})
	grad := mat.NewDense(2, 1, []float64{0.2, 0.4})
	prev := mat.NewDense(2, 1, []float64{0.1, -0.1})

	sgd.StepWeights(w, grad, prev)

	assert.InDelta(t, 1-0.5*0.2+0.9*0.1, w.At(0, 0), 1e-12)
	assert.InDelta(t, -1-0.5*0.4-0.9*0.1, w.At(1, 0), 1e-12)
}

// TestSGDStepWeightsNoPrevious tests the first step with momentum set.
func TestSGDStepWeightsNoPrevious(t *testing.T) {
	sgd := SGD{LearningRate: 0.5, Momentum: 0.9}

	w := mat.NewDense(1, 1, []float64{1})
	sgd.StepWeights(w, mat.NewDense(1, 1, []float64{1}), nil)
	assert.InDelta(t, 0.5, w.At(0, 0), 1e-12)
}

// TestSGDStepBiasIgnoresMomentum tests that biases get plain SGD.
func TestSGDStepBiasIgnoresMomentum(t *testing.T) {
	sgd := SGD{LearningRate: 0.1, Momentum: 0.9}

	b := mat.NewVecDense(2, []float64{1, 2})
	sgd.StepBias(b, mat.NewVecDense(2, []float64{1, -1}))

	assert.InDeltaSlice(t, []float64{0.9, 2.1}, b.RawVector().Data, 1e-12)
}

func TestNewSGD(t *testing.T) {
	s, err := NewSGD(0.15, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.15, s.LearningRate)

	tests := []struct {
		lr, mu float64
	}{
		{0, 0},
		{-1, 0},
		{math.NaN(), 0},
		{0.1, -0.5},
		{0.1, math.NaN()},
	}
	for _, tt := range tests {
		_, err := NewSGD(tt.lr, tt.mu)
		assert.True(t, errors.Is(err, ErrInvalidConfig), "lr=%v mu=%v", tt.lr, tt.mu)
	}
}
