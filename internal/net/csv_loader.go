package net

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// LoadCSV loads samples from a CSV file.
// labelCol is the index of the column holding the integer class; it is
// one-hot encoded over classes. All other columns are used as features in
// file order. hasHeader skips the first line if true.
func LoadCSV(filename string, labelCol, classes int, hasHeader bool) ([]Sample, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open file")
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read csv")
	}

	if len(records) == 0 {
		return nil, errors.New("csv file is empty")
	}

	startRow := 0
	if hasHeader {
		startRow = 1
	}

	if len(records) <= startRow {
		return nil, errors.New("csv file has no data rows")
	}

	numCols := len(records[0])
	if numCols < 2 {
		return nil, errors.New("csv file needs at least one feature and one label column")
	}
	if labelCol < 0 || labelCol >= numCols {
		return nil, errors.Errorf("label column %d out of range, file has %d columns", labelCol, numCols)
	}

	samples := make([]Sample, 0, len(records)-startRow)
	for i := startRow; i < len(records); i++ {
		record := records[i]
		if len(record) != numCols {
			return nil, errors.Errorf("inconsistent number of columns at row %d", i)
		}

		features := make([]float64, 0, numCols-1)
		var expected *mat.VecDense
		for j, valStr := range record {
			if j == labelCol {
				class, err := strconv.Atoi(valStr)
				if err != nil {
					return nil, errors.Wrapf(err, "failed to parse label at row %d", i)
				}
				if expected, err = OneHot(class, classes); err != nil {
					return nil, errors.Wrapf(err, "row %d", i)
				}
				continue
			}

			val, err := strconv.ParseFloat(valStr, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to parse value at row %d, col %d", i, j)
			}
			features = append(features, val)
		}

		samples = append(samples, Sample{
			Input:    mat.NewVecDense(len(features), features),
			Expected: expected,
		})
	}

	return samples, nil
}
