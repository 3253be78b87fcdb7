// Package loss provides cost functions for the backpropagation trainer.
package loss

import (
	"math"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/FlavioCFOliveira/GoDigits/internal/activations"
)

// Cost is a loss function with the output-layer error signal used to seed
// backpropagation.
type Cost interface {
	// Name is a human readable name, used in log lines.
	Name() string

	// Fn computes the loss of a single sample given the network output a
	// and the expected output y.
	Fn(a, y *mat.VecDense) float64

	// Delta computes dC/dz for the output layer, where z is the output
	// layer's weighted input.
	Delta(z, a, y *mat.VecDense) *mat.VecDense
}

// Kind identifies a cost function in flags and configs.
type Kind int

const (
	KindQuadratic Kind = iota
	KindCrossEntropy
)

// String returns the flag name of the kind.
func (k Kind) String() string {
	switch k {
	case KindQuadratic:
		return "quadratic"
	case KindCrossEntropy:
		return "crossentropy"
	default:
		return "unknown"
	}
}

// ParseKind maps a flag value to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "quadratic", "mse":
		return KindQuadratic, nil
	case "crossentropy", "cross-entropy", "ce":
		return KindCrossEntropy, nil
	}
	return KindQuadratic, errors.Errorf("loss: unknown cost %q", s)
}

// New returns the cost for k. n is the cross-entropy normalization divisor
// and is ignored by the quadratic cost.
func New(k Kind, n int) (Cost, error) {
	switch k {
	case KindQuadratic:
		return Quadratic{}, nil
	case KindCrossEntropy:
		return NewCrossEntropy(n), nil
	}
	return nil, errors.Errorf("loss: unsupported kind %d", int(k))
}

// Quadratic cost: 0.5 * ||a - y||_1^2.
//
// The norm is the L1 norm squared rather than the Euclidean norm. Training
// curves produced with this package depend on that choice, so it is kept.
type Quadratic struct{}

// Name implements Cost.
func (Quadratic) Name() string { return "Quadratic Cost Function" }

// Fn computes 0.5 * (sum |a_i - y_i|)^2
func (Quadratic) Fn(a, y *mat.VecDense) float64 {
	checkLen("Quadratic", a, y)
	var diff mat.VecDense
	diff.SubVec(a, y)
	d := mat.Norm(&diff, 1)
	return 0.5 * d * d
}

// Delta computes (a - y) * sigmoid'(z), elementwise.
func (Quadratic) Delta(z, a, y *mat.VecDense) *mat.VecDense {
	checkLen("Quadratic", a, y)
	delta := mat.NewVecDense(a.Len(), nil)
	delta.SubVec(a, y)
	delta.MulElemVec(delta, activations.Sigmoid{}.Delta(z))
	return delta
}

// CrossEntropy cost normalized by a fixed divisor N, usually the size of
// the training set.
type CrossEntropy struct {
	N float64
}

// NewCrossEntropy creates a cross-entropy cost normalized by n samples.
// A non-positive n disables normalization.
func NewCrossEntropy(n int) CrossEntropy {
	if n <= 0 {
		n = 1
	}
	return CrossEntropy{N: float64(n)}
}

// Name implements Cost.
func (CrossEntropy) Name() string { return "Cross Entropy Cost Function" }

// Fn computes sum(-y*ln(a) - (1-y)*ln(1-a)) / N
func (c CrossEntropy) Fn(a, y *mat.VecDense) float64 {
	checkLen("CrossEntropy", a, y)
	n := c.N
	if n <= 0 {
		n = 1
	}

	var sum float64
	for i := 0; i < a.Len(); i++ {
		ai, yi := a.AtVec(i), y.AtVec(i)
		sum += (-yi*math.Log(ai) - (1-yi)*math.Log(1-ai)) / n
	}
	return sum
}

// Delta computes a - y. With sigmoid outputs the sigmoid derivative cancels,
// so z is not used.
func (CrossEntropy) Delta(z, a, y *mat.VecDense) *mat.VecDense {
	checkLen("CrossEntropy", a, y)
	delta := mat.NewVecDense(a.Len(), nil)
	delta.SubVec(a, y)
	return delta
}

func checkLen(name string, a, y *mat.VecDense) {
	if a.Len() != y.Len() {
		panic(name + ": prediction and target must have same length")
	}
}
