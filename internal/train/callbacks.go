package train

import (
	"log"
)

// Callback defines the interface for training callbacks.
type Callback interface {
	OnTrainBegin(b *BackPropagation)
	OnTrainEnd(b *BackPropagation)
	// OnSample is called after every iteration with the zero-based sample
	// index, the sample's loss and the running average loss.
	OnSample(i int, loss, average float64, b *BackPropagation)
}

// BaseCallback provides default empty implementations for Callback.
type BaseCallback struct{}

func (c BaseCallback) OnTrainBegin(b *BackPropagation)                           {}
func (c BaseCallback) OnTrainEnd(b *BackPropagation)                             {}
func (c BaseCallback) OnSample(i int, loss, average float64, b *BackPropagation) {}

// Logger logs training progress every Interval samples.
type Logger struct {
	BaseCallback
	Interval int
	// Log defaults to the standard logger.
	Log *log.Logger
}

// NewLogger creates a Logger writing through l every interval samples.
func NewLogger(l *log.Logger, interval int) *Logger {
	return &Logger{Interval: interval, Log: l}
}

func (c *Logger) OnTrainBegin(b *BackPropagation) {
	c.printf("training with %s", b.Cost().Name())
}

func (c *Logger) OnSample(i int, loss, average float64, b *BackPropagation) {
	if c.Interval > 0 && (i+1)%c.Interval == 0 {
		c.printf("sample %d: error = %.6f, average = %.6f", i+1, loss, average)
	}
}

func (c *Logger) printf(format string, args ...any) {
	if c.Log != nil {
		c.Log.Printf(format, args...)
		return
	}
	log.Printf(format, args...)
}
