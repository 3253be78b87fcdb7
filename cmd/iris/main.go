package main

import (
	"flag"
	"log"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/FlavioCFOliveira/GoDigits/internal/activations"
	"github.com/FlavioCFOliveira/GoDigits/internal/loss"
	"github.com/FlavioCFOliveira/GoDigits/internal/net"
	"github.com/FlavioCFOliveira/GoDigits/internal/train"
)

// Iris dataset: 3 classes (Setosa, Versicolor, Virginica)
// Each sample has 4 features (sepal length, sepal width, petal length, petal width)
func main() {
	var (
		file     = flag.String("file", "", "CSV file with 4 feature columns and a class column; synthetic data if empty")
		labelCol = flag.Int("label", 4, "class column index")
		header   = flag.Bool("header", true, "CSV file has a header row")
		epochs   = flag.Int("epochs", 300, "training epochs")
		lr       = flag.Float64("lr", 0.1, "learning rate")
		seed     = flag.Uint64("seed", 42, "random seed")
	)
	flag.Parse()

	rng := rand.New(rand.NewPCG(*seed, *seed+1))

	var samples []net.Sample
	if *file != "" {
		var err error
		samples, err = net.LoadCSV(*file, *labelCol, 3, *header)
		if err != nil {
			log.Fatalf("load %s: %v", *file, err)
		}
	} else {
		samples = generateIrisData(rng)
	}
	log.Printf("training iris classifier (4-8-3 network) on %d samples", len(samples))

	network, err := net.Build([]net.LayerSpec{
		{NeuronCount: 4},
		{NeuronCount: 8, Activation: activations.KindSigmoid, HasBias: true},
		{NeuronCount: 3, Activation: activations.KindSigmoid, HasBias: true},
	}, rng)
	if err != nil {
		log.Fatalf("build network: %v", err)
	}

	trainer, err := train.New(network, loss.NewCrossEntropy(len(samples)), *lr, 0)
	if err != nil {
		log.Fatalf("create trainer: %v", err)
	}

	for epoch := 0; epoch < *epochs; epoch++ {
		rng.Shuffle(len(samples), func(i, j int) { samples[i], samples[j] = samples[j], samples[i] })
		avg, err := trainer.Train(samples)
		if err != nil {
			log.Fatalf("epoch %d: %v", epoch, err)
		}
		if epoch%50 == 0 || epoch == *epochs-1 {
			acc, err := network.Accuracy(samples)
			if err != nil {
				log.Fatalf("evaluate: %v", err)
			}
			log.Printf("epoch %d, loss: %.4f, accuracy: %.1f%%", epoch, avg[len(avg)-1], acc*100)
		}
	}

	for i := 0; i < 10 && i < len(samples); i++ {
		class, err := network.Classify(samples[i].Input)
		if err != nil {
			log.Fatalf("classify: %v", err)
		}
		log.Printf("sample %d: predicted=%d, actual=%d", i, class, net.ArgMax(samples[i].Expected))
	}
}

func generateIrisData(rng *rand.Rand) []net.Sample {
	// Mean values per class
	means := [][]float64{
		{5.0, 3.4, 1.5, 0.2}, // Setosa
		{5.9, 2.8, 4.3, 1.3}, // Versicolor
		{6.6, 3.0, 5.6, 2.0}, // Virginica
	}
	noise := []float64{0.2, 0.25, 0.25}

	samples := make([]net.Sample, 0, 90)
	for class, mean := range means {
		for i := 0; i < 30; i++ {
			x := mat.NewVecDense(len(mean), nil)
			for j, v := range mean {
				x.SetVec(j, v+(rng.Float64()*2-1)*noise[class])
			}
			y, _ := net.OneHot(class, len(means))
			samples = append(samples, net.Sample{Input: x, Expected: y})
		}
	}
	return samples
}
