// Package layer provides the fully connected neuron layer used by the network.
package layer

import (
	"math"
	"math/rand/v2"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/FlavioCFOliveira/GoDigits/internal/activations"
)

var (
	// ErrDimensionMismatch is returned when a vector or matrix does not have
	// the shape the layer expects.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrNotInitialized is returned when a layer is evaluated before
	// Initialize has been called.
	ErrNotInitialized = errors.New("layer not initialized")
)

// Layer is a fully connected layer of neurons.
//
// A layer does not know its neighbours. The owning network passes the
// previous layer's size to Initialize and forwards outputs between layers
// in index order.
type Layer struct {
	act         activations.Activation
	neuronCount int
	hasBias     bool

	// Shape: [neuronCount x prevCount]; nil for the input layer
	weights *mat.Dense
	bias    *mat.VecDense

	// Caches of the last forward pass
	input          *mat.VecDense
	weightedOutput *mat.VecDense
	output         *mat.VecDense

	prevCount   int
	initialized bool
}

// New creates a layer with the given activation and size. The activation is
// nil for the input layer. Weights are allocated by Initialize.
func New(act activations.Activation, neuronCount int, hasBias bool) *Layer {
	return &Layer{
		act:         act,
		neuronCount: neuronCount,
		hasBias:     hasBias,
	}
}

// Initialize allocates and randomizes the layer parameters.
//
// prevCount is the neuron count of the previous layer; 0 marks the input
// layer, which gets a zero bias and no weights. Other layers draw weights
// from N(0, 1) scaled by 1/sqrt(prevCount), and biases from N(0, 1) when the
// layer has a bias, zeros otherwise. src may be nil to use the global source.
//
// Calling Initialize again re-randomizes the layer and clears its caches.
func (l *Layer) Initialize(prevCount int, src rand.Source) {
	l.prevCount = prevCount
	l.input, l.weightedOutput, l.output = nil, nil, nil
	l.bias = mat.NewVecDense(l.neuronCount, nil)

	if prevCount == 0 {
		l.weights = nil
		l.initialized = true
		return
	}

	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: src}
	if l.hasBias {
		for i := 0; i < l.neuronCount; i++ {
			l.bias.SetVec(i, normal.Rand())
		}
	}

	scale := 1 / math.Sqrt(float64(prevCount))
	data := make([]float64, l.neuronCount*prevCount)
	for i := range data {
		data[i] = normal.Rand() * scale
	}
	l.weights = mat.NewDense(l.neuronCount, prevCount, data)
	l.initialized = true
}

// SetInput stores the input vector for the next forward pass.
// The vector is aliased, not copied.
func (l *Layer) SetInput(x *mat.VecDense) {
	l.input = x
}

// FeedForward evaluates the layer on its current input.
//
// The input layer passes its input through unchanged and has no weighted
// output. Other layers compute z = W*x + b and a = act(z).
func (l *Layer) FeedForward() error {
	if !l.initialized {
		return ErrNotInitialized
	}
	if l.input == nil {
		return errors.Wrap(ErrNotInitialized, "layer has no input")
	}

	if l.IsInput() {
		l.weightedOutput = nil
		l.output = l.input
		return nil
	}

	rows, cols := l.weights.Dims()
	if cols != l.input.Len() {
		return errors.Wrapf(ErrDimensionMismatch, "weights are %dx%d, input has length %d", rows, cols, l.input.Len())
	}
	if l.act == nil {
		return errors.New("non-input layer has no activation")
	}

	z := mat.NewVecDense(rows, nil)
	z.MulVec(l.weights, l.input)
	z.AddVec(z, l.bias)

	l.weightedOutput = z
	l.output = l.act.Fn(z)
	return nil
}

// IsInput reports whether the layer was initialized as an input layer.
func (l *Layer) IsInput() bool {
	return l.prevCount == 0
}

// Initialized reports whether Initialize has been called.
func (l *Layer) Initialized() bool {
	return l.initialized
}

// Input returns the input of the last forward pass.
func (l *Layer) Input() *mat.VecDense {
	return l.input
}

// WeightedOutput returns z of the last forward pass, nil for the input layer.
func (l *Layer) WeightedOutput() *mat.VecDense {
	return l.weightedOutput
}

// Output returns the activation of the last forward pass.
func (l *Layer) Output() *mat.VecDense {
	return l.output
}

// Weights returns the weight matrix directly.
func (l *Layer) Weights() *mat.Dense {
	return l.weights
}

// Bias returns the bias vector directly.
func (l *Layer) Bias() *mat.VecDense {
	return l.bias
}

// SetWeights replaces the weight matrix. Its shape must be
// [NeuronCount x previous neuron count].
func (l *Layer) SetWeights(w *mat.Dense) error {
	if !l.initialized {
		return ErrNotInitialized
	}
	if l.IsInput() {
		return errors.Wrap(ErrDimensionMismatch, "input layer has no weights")
	}
	r, c := w.Dims()
	if r != l.neuronCount || c != l.prevCount {
		return errors.Wrapf(ErrDimensionMismatch, "weights must be %dx%d, got %dx%d", l.neuronCount, l.prevCount, r, c)
	}
	l.weights = w
	return nil
}

// SetBias replaces the bias vector. Its length must be NeuronCount.
func (l *Layer) SetBias(b *mat.VecDense) error {
	if !l.initialized {
		return ErrNotInitialized
	}
	if b.Len() != l.neuronCount {
		return errors.Wrapf(ErrDimensionMismatch, "bias must have length %d, got %d", l.neuronCount, b.Len())
	}
	l.bias = b
	return nil
}

// Activation returns the activation function used by this layer.
func (l *Layer) Activation() activations.Activation {
	return l.act
}

// NeuronCount returns the number of neurons in the layer.
func (l *Layer) NeuronCount() int {
	return l.neuronCount
}

// HasBias reports whether biases are randomized at initialization.
func (l *Layer) HasBias() bool {
	return l.hasBias
}

// InSize returns the previous layer's neuron count, 0 for the input layer.
func (l *Layer) InSize() int {
	return l.prevCount
}
