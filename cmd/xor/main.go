package main

import (
	"log"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/FlavioCFOliveira/GoDigits/internal/activations"
	"github.com/FlavioCFOliveira/GoDigits/internal/loss"
	"github.com/FlavioCFOliveira/GoDigits/internal/net"
	"github.com/FlavioCFOliveira/GoDigits/internal/train"
)

func main() {
	log.Println("=== XOR Training Example ===")

	// The XOR function cannot be solved by a single-layer perceptron
	// but can be solved by a multi-layer perceptron with hidden layers
	network, err := net.Build([]net.LayerSpec{
		{NeuronCount: 2},
		{NeuronCount: 3, Activation: activations.KindSigmoid, HasBias: true},
		{NeuronCount: 1, Activation: activations.KindSigmoid, HasBias: true},
	}, rand.NewPCG(42, 43))
	if err != nil {
		log.Fatalf("build network: %v", err)
	}
	log.Println("network architecture: 2-3-1, sigmoid, quadratic cost, learning rate 0.5, momentum 0.1")

	samples := []net.Sample{
		{Input: mat.NewVecDense(2, []float64{0, 0}), Expected: mat.NewVecDense(1, []float64{0})},
		{Input: mat.NewVecDense(2, []float64{0, 1}), Expected: mat.NewVecDense(1, []float64{1})},
		{Input: mat.NewVecDense(2, []float64{1, 0}), Expected: mat.NewVecDense(1, []float64{1})},
		{Input: mat.NewVecDense(2, []float64{1, 1}), Expected: mat.NewVecDense(1, []float64{0})},
	}

	trainer, err := train.New(network, loss.Quadratic{}, 0.5, 0.1)
	if err != nil {
		log.Fatalf("create trainer: %v", err)
	}

	for epoch := 0; epoch < 5000; epoch++ {
		avg, err := trainer.Train(samples)
		if err != nil {
			log.Fatalf("epoch %d: %v", epoch, err)
		}
		if epoch%500 == 0 {
			log.Printf("epoch %d, loss: %.6f", epoch, avg[len(avg)-1])
		}
	}

	for _, s := range samples {
		pred, err := network.Predict(s.Input)
		if err != nil {
			log.Fatalf("predict: %v", err)
		}
		log.Printf("input: %v, predicted: %.4f, target: %v", mat.Col(nil, 0, s.Input), pred.AtVec(0), s.Expected.AtVec(0))
	}
}
