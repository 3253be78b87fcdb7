// Package net provides the neuron network and the sample type it trains on.
package net

import (
	"math/rand/v2"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/FlavioCFOliveira/GoDigits/internal/activations"
	"github.com/FlavioCFOliveira/GoDigits/internal/layer"
)

var (
	// ErrNotFinalized is returned when the network is evaluated before
	// Finalize.
	ErrNotFinalized = errors.New("network not finalized")

	// ErrTooFewLayers is returned when a network has fewer than two layers.
	ErrTooFewLayers = errors.New("network needs at least an input and an output layer")
)

// Network is an ordered list of layers. Layer 0 is the input layer and the
// last layer is the output layer; neighbours are found by index.
//
// A Network is not safe for concurrent use. A trainer mutates weights and
// per-layer caches in place and must be the only user during a run.
type Network struct {
	layers    []*layer.Layer
	finalized bool
}

// New creates an empty network.
func New() *Network {
	return &Network{}
}

// AddLayer appends l to the network. Layers must be added input first.
// Adding a layer invalidates a previous Finalize.
func (n *Network) AddLayer(l *layer.Layer) {
	n.layers = append(n.layers, l)
	n.finalized = false
}

// Finalize initializes every layer in order. The first layer becomes the
// input layer. Calling Finalize again re-randomizes all weights.
func (n *Network) Finalize(src rand.Source) error {
	if len(n.layers) < 2 {
		return errors.Wrapf(ErrTooFewLayers, "got %d", len(n.layers))
	}
	prev := 0
	for i, l := range n.layers {
		if i > 0 && l.Activation() == nil {
			return errors.Errorf("layer %d has no activation", i)
		}
		l.Initialize(prev, src)
		prev = l.NeuronCount()
	}
	n.finalized = true
	return nil
}

// Finalized reports whether Finalize succeeded since the last AddLayer.
func (n *Network) Finalized() bool {
	return n.finalized
}

// FeedForward sets x as the input of the input layer, evaluates every layer
// in order and returns the output layer's output.
func (n *Network) FeedForward(x *mat.VecDense) (*mat.VecDense, error) {
	if !n.finalized {
		return nil, ErrNotFinalized
	}

	curr := x
	for i, l := range n.layers {
		l.SetInput(curr)
		if err := l.FeedForward(); err != nil {
			return nil, errors.Wrapf(err, "layer %d", i)
		}
		curr = l.Output()
	}
	return curr, nil
}

// Predict returns the network output for x.
func (n *Network) Predict(x *mat.VecDense) (*mat.VecDense, error) {
	return n.FeedForward(x)
}

// Classify returns the index of the largest output component for x.
func (n *Network) Classify(x *mat.VecDense) (int, error) {
	out, err := n.FeedForward(x)
	if err != nil {
		return 0, err
	}
	return ArgMax(out), nil
}

// Evaluate returns how many samples are classified as their expected class.
func (n *Network) Evaluate(samples []Sample) (int, error) {
	correct := 0
	for i, s := range samples {
		class, err := n.Classify(s.Input)
		if err != nil {
			return correct, errors.Wrapf(err, "sample %d", i)
		}
		if class == ArgMax(s.Expected) {
			correct++
		}
	}
	return correct, nil
}

// Accuracy returns the fraction of correctly classified samples.
func (n *Network) Accuracy(samples []Sample) (float64, error) {
	if len(samples) == 0 {
		return 0, nil
	}
	correct, err := n.Evaluate(samples)
	if err != nil {
		return 0, err
	}
	return float64(correct) / float64(len(samples)), nil
}

// Len returns the number of layers.
func (n *Network) Len() int {
	return len(n.layers)
}

// Layer returns the i-th layer.
func (n *Network) Layer(i int) *layer.Layer {
	return n.layers[i]
}

// Layers returns the network's layers slice.
func (n *Network) Layers() []*layer.Layer {
	return n.layers
}

// InputLayer returns the first layer, or nil for an empty network.
func (n *Network) InputLayer() *layer.Layer {
	if len(n.layers) == 0 {
		return nil
	}
	return n.layers[0]
}

// OutputLayer returns the last layer, or nil for an empty network.
func (n *Network) OutputLayer() *layer.Layer {
	if len(n.layers) == 0 {
		return nil
	}
	return n.layers[len(n.layers)-1]
}

// LayerSpec describes one layer for Build.
type LayerSpec struct {
	NeuronCount int
	Activation  activations.Kind
	HasBias     bool
}

// Build creates and finalizes a network from specs. The first spec is the
// input layer; its activation is ignored.
func Build(specs []LayerSpec, src rand.Source) (*Network, error) {
	if len(specs) < 2 {
		return nil, errors.Wrapf(ErrTooFewLayers, "got %d specs", len(specs))
	}

	n := New()
	for i, spec := range specs {
		if spec.NeuronCount <= 0 {
			return nil, errors.Errorf("layer %d: neuron count must be > 0, got %d", i, spec.NeuronCount)
		}
		var act activations.Activation
		if i > 0 {
			a, err := activations.New(spec.Activation)
			if err != nil {
				return nil, errors.Wrapf(err, "layer %d", i)
			}
			if a == nil {
				return nil, errors.Errorf("layer %d: hidden and output layers need an activation", i)
			}
			act = a
		}
		n.AddLayer(layer.New(act, spec.NeuronCount, spec.HasBias))
	}

	if err := n.Finalize(src); err != nil {
		return nil, err
	}
	return n, nil
}

// ArgMax returns the index of the largest component of v. The first
// maximum wins ties.
func ArgMax(v *mat.VecDense) int {
	if v.Len() == 0 {
		return -1
	}
	return floats.MaxIdx(mat.Col(nil, 0, v))
}
