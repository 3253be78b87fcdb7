package train

import (
	"encoding/csv"
	"log"
	"os"
	"strconv"

	"github.com/pkg/errors"
)

// CSVLogger writes the running average error of every sample to a CSV
// file, for plotting learning curves.
//
// Rows are "sample,loss,average" with a one-based sample number. When
// Append is set, successive Train calls continue the sample numbering.
type CSVLogger struct {
	BaseCallback
	Filename string
	Append   bool

	file   *os.File
	writer *csv.Writer
	offset int
	last   int
	err    error
}

// NewCSVLogger creates a new CSVLogger.
func NewCSVLogger(filename string, append bool) *CSVLogger {
	return &CSVLogger{
		Filename: filename,
		Append:   append,
	}
}

// Err returns the first error met while writing, if any.
func (c *CSVLogger) Err() error {
	return c.err
}

func (c *CSVLogger) OnTrainBegin(b *BackPropagation) {
	mode := os.O_CREATE | os.O_WRONLY
	if c.Append {
		mode |= os.O_APPEND
	} else {
		mode |= os.O_TRUNC
	}

	file, err := os.OpenFile(c.Filename, mode, 0644)
	if err != nil {
		c.fail(errors.Wrapf(err, "csv logger: open %s", c.Filename))
		return
	}
	c.file = file
	c.writer = csv.NewWriter(file)
	if c.Append {
		c.offset = c.last
	} else {
		c.offset = 0
	}

	// Write header if not appending or if file is empty
	info, err := file.Stat()
	if err == nil && (info.Size() == 0 || !c.Append) {
		c.write([]string{"sample", "loss", "average"})
	}
}

func (c *CSVLogger) OnSample(i int, loss, average float64, b *BackPropagation) {
	if c.writer == nil {
		return
	}
	n := c.offset + i + 1
	c.last = n
	c.write([]string{
		strconv.Itoa(n),
		strconv.FormatFloat(loss, 'f', 6, 64),
		strconv.FormatFloat(average, 'f', 6, 64),
	})
}

func (c *CSVLogger) OnTrainEnd(b *BackPropagation) {
	if c.file == nil {
		return
	}
	c.writer.Flush()
	if err := c.writer.Error(); err != nil {
		c.fail(errors.Wrap(err, "csv logger: flush"))
	}
	if err := c.file.Close(); err != nil {
		c.fail(errors.Wrap(err, "csv logger: close"))
	}
	c.file = nil
	c.writer = nil
}

func (c *CSVLogger) write(record []string) {
	if err := c.writer.Write(record); err != nil {
		c.fail(errors.Wrap(err, "csv logger: write"))
	}
}

func (c *CSVLogger) fail(err error) {
	if c.err == nil {
		c.err = err
		log.Printf("%v", err)
	}
}
