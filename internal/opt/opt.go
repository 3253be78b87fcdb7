// Package opt provides the parameter update rule used by the trainer.
package opt

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ErrInvalidConfig is returned for a non-positive learning rate or a
// negative momentum.
var ErrInvalidConfig = errors.New("invalid optimizer configuration")

// Optimizer updates layer parameters in place from their gradients.
type Optimizer interface {
	// StepWeights updates w in place. prev is the gradient applied on the
	// previous step, or nil if there was none.
	StepWeights(w, grad, prev *mat.Dense)

	// StepBias updates b in place.
	StepBias(b, grad *mat.VecDense)
}

// SGD is stochastic gradient descent with plain (non-Nesterov) momentum.
//
// Weights: w = w - lr*grad + momentum*prev.
// Biases:  b = b - lr*grad.
//
// Biases never receive the momentum term. Training results produced with
// this package rely on that asymmetry, so it is kept explicit here.
type SGD struct {
	LearningRate float64
	Momentum     float64
}

// NewSGD validates the hyperparameters and returns an SGD optimizer.
func NewSGD(learningRate, momentum float64) (*SGD, error) {
	if !(learningRate > 0) {
		return nil, errors.Wrapf(ErrInvalidConfig, "learning rate must be > 0, got %v", learningRate)
	}
	if !(momentum >= 0) {
		return nil, errors.Wrapf(ErrInvalidConfig, "momentum must be >= 0, got %v", momentum)
	}
	return &SGD{LearningRate: learningRate, Momentum: momentum}, nil
}

// StepWeights implements Optimizer. The momentum term is applied only when
// Momentum is non-zero and prev is not nil.
func (s SGD) StepWeights(w, grad, prev *mat.Dense) {
	w.Apply(func(i, j int, v float64) float64 {
		return v - s.LearningRate*grad.At(i, j)
	}, w)
	if s.Momentum != 0 && prev != nil {
		w.Apply(func(i, j int, v float64) float64 {
			return v + s.Momentum*prev.At(i, j)
		}, w)
	}
}

// StepBias implements Optimizer.
func (s SGD) StepBias(b, grad *mat.VecDense) {
	b.AddScaledVec(b, -s.LearningRate, grad)
}
