package main

import (
	"flag"
	"log"
	"math/rand/v2"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/cpuid/v2"

	"github.com/FlavioCFOliveira/GoDigits/internal/activations"
	"github.com/FlavioCFOliveira/GoDigits/internal/loss"
	"github.com/FlavioCFOliveira/GoDigits/internal/mnist"
	"github.com/FlavioCFOliveira/GoDigits/internal/net"
	"github.com/FlavioCFOliveira/GoDigits/internal/train"
)

// MNIST digit classification with a 784-hidden-10 sigmoid network trained by
// per-sample backpropagation.
func main() {
	var (
		dataDir      = flag.String("data", "data", "directory holding the MNIST IDX files (plain or .gz)")
		learningRate = flag.Float64("lr", 0.15, "learning rate")
		momentum     = flag.Float64("momentum", 0, "momentum applied to weight updates")
		hidden       = flag.Int("hidden", 100, "hidden layer neurons")
		epochs       = flag.Int("epochs", 1, "training epochs")
		costName     = flag.String("cost", "quadratic", "cost function: quadratic or crossentropy")
		seed         = flag.Uint64("seed", 42, "weight initialization seed")
		split        = flag.Int("train", 50000, "training images; the rest of the training file is held out")
		csvPath      = flag.String("csv", "", "write the running average error to this CSV file")
		interval     = flag.Int("log-every", 10000, "log progress every n samples, 0 to disable")
	)
	flag.Parse()

	run := uuid.NewString()
	log.SetPrefix(run[:8] + " ")
	log.Printf("run %s on %s (%d cores, avx2=%v)", run, cpuid.CPU.BrandName, cpuid.CPU.PhysicalCores, cpuid.CPU.Supports(cpuid.AVX2))

	costKind, err := loss.ParseKind(*costName)
	if err != nil {
		log.Fatalf("%v", err)
	}

	samples := load(*dataDir, mnist.TrainLabels, mnist.TrainImages)
	trainSet, heldOut := net.Split(samples, *split)
	test := load(*dataDir, mnist.TestLabels, mnist.TestImages)
	log.Printf("loaded %d training, %d held-out and %d test samples", len(trainSet), len(heldOut), len(test))

	network, err := net.Build([]net.LayerSpec{
		{NeuronCount: mnist.ImageSize},
		{NeuronCount: *hidden, Activation: activations.KindSigmoid, HasBias: true},
		{NeuronCount: mnist.Classes, Activation: activations.KindSigmoid, HasBias: true},
	}, rand.NewPCG(*seed, *seed+1))
	if err != nil {
		log.Fatalf("build network: %v", err)
	}
	log.Printf("architecture: %d-%d-%d", mnist.ImageSize, *hidden, mnist.Classes)

	cost, err := loss.New(costKind, len(trainSet))
	if err != nil {
		log.Fatalf("%v", err)
	}

	callbacks := []train.Callback{train.NewLogger(log.Default(), *interval)}
	var curve *train.CSVLogger
	if *csvPath != "" {
		// Truncate once, then keep appending across epochs.
		if err := os.WriteFile(*csvPath, nil, 0644); err != nil {
			log.Fatalf("%v", err)
		}
		curve = train.NewCSVLogger(*csvPath, true)
		callbacks = append(callbacks, curve)
	}

	trainer, err := train.New(network, cost, *learningRate, *momentum, train.WithCallbacks(callbacks...))
	if err != nil {
		log.Fatalf("create trainer: %v", err)
	}

	for epoch := 1; epoch <= *epochs; epoch++ {
		start := time.Now()
		avg, err := trainer.Train(trainSet)
		if err != nil {
			log.Fatalf("epoch %d: %v", epoch, err)
		}
		if curve != nil && curve.Err() != nil {
			log.Fatalf("epoch %d: %v", epoch, curve.Err())
		}

		var final float64
		if len(avg) > 0 {
			final = avg[len(avg)-1]
		}
		log.Printf("epoch %d: average error %.6f, held-out accuracy %.2f%%, test accuracy %.2f%% (%v)",
			epoch, final, accuracy(network, heldOut), accuracy(network, test), time.Since(start).Round(time.Millisecond))
	}
}

func load(dir, labelName, imageName string) []net.Sample {
	labels, err := mnist.Locate(dir, labelName)
	if err != nil {
		log.Fatalf("%v", err)
	}
	images, err := mnist.Locate(dir, imageName)
	if err != nil {
		log.Fatalf("%v", err)
	}
	samples, err := mnist.Load(labels, images)
	if err != nil {
		log.Fatalf("load: %v", err)
	}
	return samples
}

func accuracy(network *net.Network, samples []net.Sample) float64 {
	acc, err := network.Accuracy(samples)
	if err != nil {
		log.Fatalf("evaluate: %v", err)
	}
	return acc * 100
}
