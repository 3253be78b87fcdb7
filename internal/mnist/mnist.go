// Package mnist decodes the IDX label and image files of the MNIST
// handwritten digit dataset into training samples.
package mnist

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/FlavioCFOliveira/GoDigits/internal/net"
)

// IDX layout. All header fields are big-endian uint32.
const (
	LabelMagic = 2049
	ImageMagic = 2051

	Rows      = 28
	Cols      = 28
	ImageSize = Rows * Cols
	Classes   = 10

	countOffset  = 4
	rowsOffset   = 8
	colsOffset   = 12
	labelsOffset = 8
	pixelsOffset = 16
)

// Standard file names of the distributed dataset.
const (
	TrainLabels = "train-labels-idx1-ubyte"
	TrainImages = "train-images-idx3-ubyte"
	TestLabels  = "t10k-labels-idx1-ubyte"
	TestImages  = "t10k-images-idx3-ubyte"
)

// Load reads a label file and an image file and returns one sample per
// image, in file order. Files ending in ".gz" are decompressed.
//
// On any error no samples are returned.
func Load(labelPath, imagePath string) ([]net.Sample, error) {
	labels, err := readFile(labelPath)
	if err != nil {
		return nil, err
	}
	images, err := readFile(imagePath)
	if err != nil {
		return nil, err
	}
	return decode(labels, images, labelPath, imagePath)
}

// Decode is Load over already opened streams. Both are read to the end.
func Decode(labels, images io.Reader) ([]net.Sample, error) {
	lb, err := io.ReadAll(labels)
	if err != nil {
		return nil, errors.Wrap(err, "mnist: read labels")
	}
	ib, err := io.ReadAll(images)
	if err != nil {
		return nil, errors.Wrap(err, "mnist: read images")
	}
	return decode(lb, ib, "labels", "images")
}

// Locate returns the path of name inside dir, falling back to the gzipped
// file when the plain one does not exist.
func Locate(dir, name string) (string, error) {
	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	if _, err := os.Stat(path + ".gz"); err == nil {
		return path + ".gz", nil
	}
	return "", errors.Errorf("mnist: %s not found in %s", name, dir)
}

// ReadLabels parses a label file. Every label must be a digit.
func ReadLabels(r io.Reader) ([]uint8, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "mnist: read labels")
	}
	labels, derr := parseLabels(data)
	if derr != nil {
		derr.File = "labels"
		return nil, derr
	}
	return labels, nil
}

// ReadImages parses an image file into one Rows*Cols slice per image, with
// raw intensities in row-major order.
func ReadImages(r io.Reader) ([][]uint8, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "mnist: read images")
	}
	images, derr := parseImages(data)
	if derr != nil {
		derr.File = "images"
		return nil, derr
	}
	return images, nil
}

// OneHot encodes digit d as a Classes long vector.
func OneHot(d int) (*mat.VecDense, error) {
	return net.OneHot(d, Classes)
}

func decode(labelData, imageData []byte, labelName, imageName string) ([]net.Sample, error) {
	labels, derr := parseLabels(labelData)
	if derr != nil {
		derr.File = labelName
		return nil, derr
	}
	images, derr := parseImages(imageData)
	if derr != nil {
		derr.File = imageName
		return nil, derr
	}
	if len(labels) != len(images) {
		return nil, decodeErr(CountMismatch, "%d labels, %d images", len(labels), len(images))
	}

	samples := make([]net.Sample, len(images))
	pixels := make([]float64, ImageSize)
	for i, img := range images {
		for j, b := range img {
			pixels[j] = float64(b)
		}
		expected, err := OneHot(int(labels[i]))
		if err != nil {
			return nil, err
		}
		samples[i] = net.Sample{
			Input:    mat.NewVecDense(ImageSize, Binarize(pixels)),
			Expected: expected,
		}
	}
	return samples, nil
}

func parseLabels(data []byte) ([]uint8, *DecodeError) {
	if len(data) < labelsOffset {
		return nil, decodeErr(Truncated, "header is %d bytes", len(data))
	}
	if magic := binary.BigEndian.Uint32(data); magic != LabelMagic {
		return nil, decodeErr(BadMagicNumber, "got %d, want %d", magic, LabelMagic)
	}
	count := int(binary.BigEndian.Uint32(data[countOffset:]))
	body := data[labelsOffset:]
	if len(body) < count {
		return nil, decodeErr(Truncated, "%d labels declared, %d present", count, len(body))
	}

	labels := body[:count]
	for i, l := range labels {
		if l >= Classes {
			return nil, decodeErr(BadLabel, "label %d is %d", i, l)
		}
	}
	return labels, nil
}

func parseImages(data []byte) ([][]uint8, *DecodeError) {
	if len(data) < countOffset {
		return nil, decodeErr(Truncated, "header is %d bytes", len(data))
	}
	if magic := binary.BigEndian.Uint32(data); magic != ImageMagic {
		return nil, decodeErr(BadMagicNumber, "got %d, want %d", magic, ImageMagic)
	}
	if len(data) < pixelsOffset {
		return nil, decodeErr(Truncated, "header is %d bytes", len(data))
	}
	count := int(binary.BigEndian.Uint32(data[countOffset:]))
	rows := binary.BigEndian.Uint32(data[rowsOffset:])
	cols := binary.BigEndian.Uint32(data[colsOffset:])
	if rows != Rows || cols != Cols {
		return nil, decodeErr(BadDimensions, "got %dx%d, want %dx%d", rows, cols, Rows, Cols)
	}

	body := data[pixelsOffset:]
	if len(body)/ImageSize < count {
		return nil, decodeErr(Truncated, "%d images declared, %d present", count, len(body)/ImageSize)
	}

	images := make([][]uint8, count)
	for i := range images {
		images[i] = body[i*ImageSize : (i+1)*ImageSize]
	}
	return images, nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "mnist")
	}
	if !strings.HasSuffix(path, ".gz") {
		return data, nil
	}

	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(err, "mnist: %s", path)
	}
	defer zr.Close()
	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, errors.Wrapf(err, "mnist: %s", path)
	}
	return raw, nil
}
