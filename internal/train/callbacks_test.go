package train

import (
	"bytes"
	"encoding/csv"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FlavioCFOliveira/GoDigits/internal/loss"
	"github.com/FlavioCFOliveira/GoDigits/internal/net"
)

func trainingSet() []net.Sample {
	return []net.Sample{
		sample([]float64{1, 0}, 1),
		sample([]float64{0, 1}, 0),
		sample([]float64{1, 1}, 1),
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(log.New(&buf, "", 0), 2)

	trainer, err := New(build(t, 4, 2, 2, 1), loss.Quadratic{}, 0.15, 0, WithCallbacks(logger))
	require.NoError(t, err)
	_, err = trainer.Train(trainingSet())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "training with Quadratic Cost Function", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "sample 2: error = "), lines[1])
}

func TestCSVLogger(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "curve.csv")
	logger := NewCSVLogger(filename, true)

	trainer, err := New(build(t, 4, 2, 2, 1), loss.Quadratic{}, 0.15, 0, WithCallbacks(logger))
	require.NoError(t, err)

	first, err := trainer.Train(trainingSet())
	require.NoError(t, err)
	_, err = trainer.Train(trainingSet())
	require.NoError(t, err)
	require.NoError(t, logger.Err())

	// Read back the CSV
	file, err := os.Open(filename)
	require.NoError(t, err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 7) // Header + 2 runs of 3 samples
	assert.Equal(t, []string{"sample", "loss", "average"}, records[0])
	assert.Equal(t, "1", records[1][0])
	assert.Equal(t, "6", records[6][0])
	assert.Equal(t, strconv.FormatFloat(first[2], 'f', 6, 64), records[3][2])
}

func TestCSVLoggerTruncates(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "curve.csv")
	require.NoError(t, os.WriteFile(filename, []byte("stale\n"), 0644))

	logger := NewCSVLogger(filename, false)
	trainer, err := New(build(t, 4, 2, 2, 1), loss.Quadratic{}, 0.15, 0, WithCallbacks(logger))
	require.NoError(t, err)
	_, err = trainer.Train(trainingSet())
	require.NoError(t, err)

	data, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "sample,loss,average\n"))
	assert.Equal(t, 4, strings.Count(string(data), "\n"))
}

func TestCSVLoggerOpenError(t *testing.T) {
	logger := NewCSVLogger(filepath.Join(t.TempDir(), "missing", "curve.csv"), false)
	trainer, err := New(build(t, 4, 2, 2, 1), loss.Quadratic{}, 0.15, 0, WithCallbacks(logger))
	require.NoError(t, err)

	_, err = trainer.Train(trainingSet())
	require.NoError(t, err)
	assert.Error(t, logger.Err())
}
