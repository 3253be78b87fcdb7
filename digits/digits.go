// Package digits trains sigmoid networks on the MNIST handwritten digits.
package digits

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/FlavioCFOliveira/GoDigits/internal/activations"
	"github.com/FlavioCFOliveira/GoDigits/internal/loss"
	"github.com/FlavioCFOliveira/GoDigits/internal/mnist"
	"github.com/FlavioCFOliveira/GoDigits/internal/net"
	"github.com/FlavioCFOliveira/GoDigits/internal/train"
)

// Re-export common types for easier access
type (
	Network   = net.Network
	LayerSpec = net.LayerSpec
	Sample    = net.Sample
	Callback  = train.Callback

	ActivationKind = activations.Kind
	CostKind       = loss.Kind
)

// Activation and cost kinds
const (
	None         = activations.KindNone
	Sigmoid      = activations.KindSigmoid
	Quadratic    = loss.KindQuadratic
	CrossEntropy = loss.KindCrossEntropy
)

// Errors
var (
	ErrTooFewLayers   = net.ErrTooFewLayers
	ErrNotFinalized   = net.ErrNotFinalized
	ErrInvalidConfig  = train.ErrInvalidConfig
	ErrBadMagicNumber = mnist.ErrBadMagicNumber
	ErrCountMismatch  = mnist.ErrCountMismatch
	ErrBadDimensions  = mnist.ErrBadDimensions
	ErrTruncated      = mnist.ErrTruncated
)

// Load decodes an MNIST label file and image file into samples.
func Load(labelPath, imagePath string) ([]Sample, error) {
	return mnist.Load(labelPath, imagePath)
}

// BuildNetwork creates and initializes a network from specs, input layer
// first. Weights are drawn from a PCG generator seeded with seed.
func BuildNetwork(specs []LayerSpec, seed uint64) (*Network, error) {
	return net.Build(specs, rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// MLP returns the specs of a fully connected sigmoid network with biases on
// every non-input layer.
func MLP(sizes ...int) []LayerSpec {
	specs := make([]LayerSpec, len(sizes))
	for i, n := range sizes {
		specs[i] = LayerSpec{NeuronCount: n}
		if i > 0 {
			specs[i].Activation = Sigmoid
			specs[i].HasBias = true
		}
	}
	return specs
}

// TrainEpoch runs one pass of per-sample backpropagation over samples and
// returns the running average error. Cross-entropy is normalized by the
// number of samples. The network is updated in place.
//
// Each call starts without momentum state; use the train package directly
// to carry it across epochs.
func TrainEpoch(network *Network, costKind CostKind, learningRate, momentum float64, samples []Sample, callbacks ...Callback) ([]float64, error) {
	cost, err := loss.New(costKind, len(samples))
	if err != nil {
		return nil, err
	}
	trainer, err := train.New(network, cost, learningRate, momentum, train.WithCallbacks(callbacks...))
	if err != nil {
		return nil, err
	}
	return trainer.Train(samples)
}

// Predict returns the output activations for x.
func Predict(network *Network, x *mat.VecDense) (*mat.VecDense, error) {
	return network.Predict(x)
}

// Classify returns the index of the largest output activation for x.
func Classify(network *Network, x *mat.VecDense) (int, error) {
	return network.Classify(x)
}

// Accuracy returns the fraction of samples classified correctly.
func Accuracy(network *Network, samples []Sample) (float64, error) {
	return network.Accuracy(samples)
}
