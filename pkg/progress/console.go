package progress

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/raykavin/depthrun/pkg/core"
	"github.com/raykavin/depthrun/pkg/logger"
	"github.com/schollz/progressbar/v3"
)

// ConsoleSink draws a progress bar and sends messages to a logger
type ConsoleSink struct {
	mu      sync.Mutex
	out     io.Writer
	log     logger.Logger
	bar     *progressbar.ProgressBar
	max     int64
	results int
}

// NewConsoleSink creates a sink drawing to out, stderr when nil
func NewConsoleSink(out io.Writer, log logger.Logger) *ConsoleSink {
	if out == nil {
		out = os.Stderr
	}
	return &ConsoleSink{out: out, log: log}
}

func (c *ConsoleSink) newBar(total int64) *progressbar.ProgressBar {
	return progressbar.NewOptions64(total,
		progressbar.OptionSetWriter(c.out),
		progressbar.OptionSetDescription("optimizing"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetPredictTime(false),
	)
}

// EnableProgress creates the bar
func (c *ConsoleSink) EnableProgress() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.bar == nil {
		c.max = 1
		c.bar = c.newBar(c.max)
	}
}

func (c *ConsoleSink) SetProgress(completed, total int64, label, eta string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.bar == nil {
		return
	}

	if total != c.max && total > 0 {
		c.max = total
		c.bar.ChangeMax64(total)
	}

	c.bar.Describe(fmt.Sprintf("%s ETA %s", label, eta))
	if err := c.bar.Set64(completed); err != nil {
		c.log.Warnf("update progressbar fail: %v", err)
	}
}

func (c *ConsoleSink) ShowProgress(message string) {
	c.log.Info(message)
}

func (c *ConsoleSink) SetResults(results []core.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = len(results)
}

// SignalCompleted closes the bar
func (c *ConsoleSink) SignalCompleted() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.bar != nil {
		_ = c.bar.Finish()
		fmt.Fprintln(c.out)
		c.bar = nil
	}
}

// Results returns the size of the latest ranking snapshot
func (c *ConsoleSink) Results() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.results
}
