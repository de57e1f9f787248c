package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// CSVReport writes the report as CSV, description lines are prefixed with #
type CSVReport struct {
	out    io.Writer
	closer io.Closer
	writer *csv.Writer
}

// NewCSVReport writes to out
func NewCSVReport(out io.Writer) *CSVReport {
	return &CSVReport{out: out, writer: csv.NewWriter(out)}
}

// CreateCSVReport creates the file at path
func CreateCSVReport(path string) (*CSVReport, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create report %s: %w", path, err)
	}

	report := NewCSVReport(file)
	report.closer = file
	return report, nil
}

func (c *CSVReport) Description(line string) error {
	c.writer.Flush()
	if err := c.writer.Error(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(c.out, "# %s\n", line)
	return err
}

func (c *CSVReport) Header(columns []string) error {
	return c.writer.Write(columns)
}

func (c *CSVReport) Row(columns []string) error {
	return c.writer.Write(columns)
}

// Close flushes the writer and closes the file
func (c *CSVReport) Close() error {
	c.writer.Flush()
	err := c.writer.Error()
	if c.closer != nil {
		if closeErr := c.closer.Close(); err == nil {
			err = closeErr
		}
	}
	return err
}
