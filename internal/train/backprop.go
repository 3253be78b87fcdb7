// Package train provides the backpropagation trainer.
package train

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/FlavioCFOliveira/GoDigits/internal/layer"
	"github.com/FlavioCFOliveira/GoDigits/internal/loss"
	"github.com/FlavioCFOliveira/GoDigits/internal/net"
	"github.com/FlavioCFOliveira/GoDigits/internal/opt"
)

// ErrInvalidConfig is returned by New for unusable hyperparameters.
var ErrInvalidConfig = opt.ErrInvalidConfig

// WeightState holds the weight gradients of the previous sample, indexed by
// layer. Index 0 (the input layer) is always nil. It only feeds the momentum
// term and is overwritten after every sample.
type WeightState struct {
	Gradients []*mat.Dense
}

// BackPropagation trains a network one sample at a time.
//
// The trainer mutates the network's weights, biases and layer caches in
// place. For the duration of a run it must be the only user of the network.
//
// NaN and Inf values are not detected; a diverging learning rate shows up as
// NaN losses in the returned averages.
type BackPropagation struct {
	network   *net.Network
	cost      loss.Cost
	optimizer opt.Optimizer
	callbacks []Callback

	prev *WeightState
}

// Option configures a BackPropagation.
type Option func(*BackPropagation)

// WithCallbacks registers callbacks invoked by Train.
func WithCallbacks(cbs ...Callback) Option {
	return func(b *BackPropagation) {
		b.callbacks = append(b.callbacks, cbs...)
	}
}

// WithOptimizer replaces the default SGD update rule.
func WithOptimizer(o opt.Optimizer) Option {
	return func(b *BackPropagation) {
		b.optimizer = o
	}
}

// New creates a trainer for network using cost, learningRate > 0 and
// momentum >= 0.
func New(network *net.Network, cost loss.Cost, learningRate, momentum float64, opts ...Option) (*BackPropagation, error) {
	if network == nil || network.Len() < 2 {
		return nil, net.ErrTooFewLayers
	}
	if cost == nil {
		return nil, errors.Wrap(ErrInvalidConfig, "cost function is required")
	}
	sgd, err := opt.NewSGD(learningRate, momentum)
	if err != nil {
		return nil, err
	}

	b := &BackPropagation{
		network:   network,
		cost:      cost,
		optimizer: sgd,
	}
	for _, o := range opts {
		o(b)
	}
	return b, nil
}

// Network returns the network being trained.
func (b *BackPropagation) Network() *net.Network {
	return b.network
}

// Cost returns the cost function.
func (b *BackPropagation) Cost() loss.Cost {
	return b.cost
}

// State returns the gradients kept for the momentum term, or nil before the
// first iteration.
func (b *BackPropagation) State() *WeightState {
	return b.prev
}

// Reset drops the momentum state.
func (b *BackPropagation) Reset() {
	b.prev = nil
}

// Train runs one iteration per sample, in order, and returns the running
// average error: avg[i] is the mean loss over samples[0..i].
//
// On error the averages computed so far are returned with it.
func (b *BackPropagation) Train(samples []net.Sample) ([]float64, error) {
	for _, cb := range b.callbacks {
		cb.OnTrainBegin(b)
	}
	defer func() {
		for _, cb := range b.callbacks {
			cb.OnTrainEnd(b)
		}
	}()

	avg := make([]float64, 0, len(samples))
	var sum float64
	for i, s := range samples {
		e, err := b.Iteration(s)
		if err != nil {
			return avg, errors.Wrapf(err, "sample %d", i)
		}
		sum += e
		average := sum / float64(i+1)
		avg = append(avg, average)

		for _, cb := range b.callbacks {
			cb.OnSample(i, e, average, b)
		}
	}
	return avg, nil
}

// Iteration performs one forward pass, backpropagates the error through
// every layer and updates weights and biases. It returns the cost of the
// sample, computed from the output before the update.
//
// Deltas are carried from the output layer back to the first hidden layer:
//
//	delta_L   = cost.Delta(z_L, a_L, y)
//	delta_l-1 = (W_l^T * delta_l) ∘ act'(z_l-1)
//	dW_l      = delta_l * a_l-1^T,  db_l = delta_l
//
// All gradients are computed with the weights of the forward pass before
// any layer is updated.
func (b *BackPropagation) Iteration(sample net.Sample) (float64, error) {
	if sample.Input == nil || sample.Expected == nil {
		return 0, errors.Wrap(layer.ErrDimensionMismatch, "sample has nil vectors")
	}
	output := b.network.OutputLayer()
	if sample.Expected.Len() != output.NeuronCount() {
		return 0, errors.Wrapf(layer.ErrDimensionMismatch, "expected output has length %d, output layer has %d neurons",
			sample.Expected.Len(), output.NeuronCount())
	}

	result, err := b.network.FeedForward(sample.Input)
	if err != nil {
		return 0, err
	}

	last := b.network.Len() - 1
	weightGrads := make([]*mat.Dense, last+1)
	biasGrads := make([]*mat.VecDense, last+1)

	delta := b.cost.Delta(output.WeightedOutput(), output.Output(), sample.Expected)
	for l := last; l >= 1; l-- {
		curr := b.network.Layer(l)
		in := curr.Input()

		gw := mat.NewDense(delta.Len(), in.Len(), nil)
		gw.Outer(1, delta, in)
		weightGrads[l] = gw
		biasGrads[l] = delta

		if l > 1 {
			prev := b.network.Layer(l - 1)
			back := mat.NewVecDense(prev.NeuronCount(), nil)
			back.MulVec(curr.Weights().T(), delta)
			back.MulElemVec(back, prev.Activation().Delta(prev.WeightedOutput()))
			delta = back
		}
	}

	for l := last; l >= 1; l-- {
		curr := b.network.Layer(l)
		var prevGrad *mat.Dense
		if b.prev != nil {
			prevGrad = b.prev.Gradients[l]
		}
		b.optimizer.StepWeights(curr.Weights(), weightGrads[l], prevGrad)
		b.optimizer.StepBias(curr.Bias(), biasGrads[l])
	}
	b.prev = &WeightState{Gradients: weightGrads}

	return b.cost.Fn(result, sample.Expected), nil
}
