// Package loss provides unit tests for cost functions.
package loss

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/FlavioCFOliveira/GoDigits/internal/activations"
)

func vec(v ...float64) *mat.VecDense {
	return mat.NewVecDense(len(v), v)
}

// TestQuadraticFn tests the L1-squared quadratic cost.
func TestQuadraticFn(t *testing.T) {
	q := Quadratic{}

	tests := []struct {
		name     string
		a        *mat.VecDense
		y        *mat.VecDense
		expected float64
	}{
		{"Perfect prediction", vec(1, 0, 0), vec(1, 0, 0), 0},
		{"Single error", vec(0.5, 0), vec(1, 0), 0.125},        // 0.5 * 0.5^2
		{"L1 not L2", vec(0.5, 0.5), vec(0, 0), 0.5},           // 0.5 * (0.5+0.5)^2
		{"Mixed signs", vec(0.2, 0.9, 0.1), vec(0, 1, 0), 0.08}, // 0.5 * 0.4^2
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, q.Fn(tt.a, tt.y), 1e-12)
		})
	}
}

// TestQuadraticDelta tests (a - y) * sigmoid'(z).
func TestQuadraticDelta(t *testing.T) {
	z := vec(0.3, -1.2)
	s := activations.Sigmoid{}
	a := s.Fn(z)
	y := vec(1, 0)

	delta := Quadratic{}.Delta(z, a, y)
	require.Equal(t, 2, delta.Len())
	for i := 0; i < 2; i++ {
		want := (a.AtVec(i) - y.AtVec(i)) * s.Derivative(z.AtVec(i))
		assert.InDelta(t, want, delta.AtVec(i), 1e-15)
	}
}

// TestCrossEntropyFn tests the normalized cross-entropy cost.
func TestCrossEntropyFn(t *testing.T) {
	a := vec(0.8, 0.3)
	y := vec(1, 0)
	raw := -math.Log(0.8) - math.Log(0.7)

	assert.InDelta(t, raw, NewCrossEntropy(1).Fn(a, y), 1e-12)
	assert.InDelta(t, raw/50000, NewCrossEntropy(50000).Fn(a, y), 1e-15)
	assert.InDelta(t, raw/4, CrossEntropy{N: 4}.Fn(a, y), 1e-12)
}

// TestCrossEntropyNonPositiveN tests that N <= 0 falls back to 1.
func TestCrossEntropyNonPositiveN(t *testing.T) {
	a := vec(0.6)
	y := vec(1)
	want := -math.Log(0.6)

	assert.InDelta(t, want, NewCrossEntropy(0).Fn(a, y), 1e-12)
	assert.InDelta(t, want, CrossEntropy{}.Fn(a, y), 1e-12)
}

// TestCrossEntropyDelta tests that the delta ignores z.
func TestCrossEntropyDelta(t *testing.T) {
	a := vec(0.8, 0.3)
	y := vec(1, 0)

	d1 := CrossEntropy{N: 10}.Delta(vec(100, -100), a, y)
	d2 := CrossEntropy{N: 10}.Delta(vec(0, 0), a, y)

	assert.InDeltaSlice(t, []float64{-0.2, 0.3}, d1.RawVector().Data, 1e-12)
	assert.True(t, mat.Equal(d1, d2))
}

// TestLengthMismatchPanics tests error handling.
func TestLengthMismatchPanics(t *testing.T) {
	assert.Panics(t, func() { Quadratic{}.Fn(vec(1, 2), vec(1)) })
	assert.Panics(t, func() { CrossEntropy{N: 1}.Delta(vec(0), vec(1, 2), vec(1)) })
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("quadratic")
	require.NoError(t, err)
	assert.Equal(t, KindQuadratic, k)

	k, err = ParseKind("CrossEntropy")
	require.NoError(t, err)
	assert.Equal(t, KindCrossEntropy, k)

	_, err = ParseKind("hinge")
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	c, err := New(KindCrossEntropy, 200)
	require.NoError(t, err)
	assert.Equal(t, CrossEntropy{N: 200}, c)
	assert.Equal(t, "Cross Entropy Cost Function", c.Name())

	c, err = New(KindQuadratic, 200)
	require.NoError(t, err)
	assert.Equal(t, Quadratic{}, c)

	_, err = New(Kind(9), 1)
	assert.Error(t, err)
}
