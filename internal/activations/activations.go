// Package activations provides activation functions for neuron layers.
package activations

import (
	"math"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Activation is an activation function with derivative.
type Activation interface {
	// Activate computes f(x)
	Activate(x float64) float64

	// Derivative computes f'(x) at the pre-activation value x
	Derivative(x float64) float64

	// Fn applies Activate elementwise and returns a new vector.
	Fn(z *mat.VecDense) *mat.VecDense

	// Delta applies Derivative elementwise and returns a new vector.
	// z is the weighted input of the layer, not its output.
	Delta(z *mat.VecDense) *mat.VecDense
}

// Kind identifies an activation function in layer specs and flags.
type Kind int

const (
	// KindNone marks a layer without activation (the input layer).
	KindNone Kind = iota
	KindSigmoid
)

// String returns the flag name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindSigmoid:
		return "sigmoid"
	default:
		return "unknown"
	}
}

// ParseKind maps a flag value to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return KindNone, nil
	case "sigmoid":
		return KindSigmoid, nil
	}
	return KindNone, errors.Errorf("activations: unknown activation %q", s)
}

// New returns the activation for k. KindNone yields a nil activation.
func New(k Kind) (Activation, error) {
	switch k {
	case KindNone:
		return nil, nil
	case KindSigmoid:
		return Sigmoid{}, nil
	}
	return nil, errors.Errorf("activations: unsupported kind %d", int(k))
}

// Sigmoid activation function.
type Sigmoid struct{}

// sigmoid computes the sigmoid function
func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// Activate computes sigmoid(x)
func (s Sigmoid) Activate(x float64) float64 {
	return sigmoid(x)
}

// Derivative computes sigmoid(x) * (1 - sigmoid(x))
func (s Sigmoid) Derivative(x float64) float64 {
	sigma := sigmoid(x)
	return sigma * (1 - sigma)
}

// Fn computes sigmoid over every element of z.
func (s Sigmoid) Fn(z *mat.VecDense) *mat.VecDense {
	return apply(z, s.Activate)
}

// Delta computes the sigmoid derivative over every element of z.
func (s Sigmoid) Delta(z *mat.VecDense) *mat.VecDense {
	return apply(z, s.Derivative)
}

func apply(z *mat.VecDense, f func(float64) float64) *mat.VecDense {
	n := z.Len()
	out := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		out.SetVec(i, f(z.AtVec(i)))
	}
	return out
}
