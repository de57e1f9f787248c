package report

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
)

// TableReport renders the report as a text table on Close
type TableReport struct {
	out         io.Writer
	limit       int
	description []string
	header      []string
	rows        [][]string
}

// NewTableReport renders to out, keeping at most limit rows (all when limit <= 0)
func NewTableReport(out io.Writer, limit int) *TableReport {
	return &TableReport{out: out, limit: limit}
}

func (t *TableReport) Description(line string) error {
	t.description = append(t.description, line)
	return nil
}

func (t *TableReport) Header(columns []string) error {
	t.header = append([]string(nil), columns...)
	return nil
}

func (t *TableReport) Row(columns []string) error {
	if t.limit > 0 && len(t.rows) >= t.limit {
		return nil
	}
	t.rows = append(t.rows, append([]string(nil), columns...))
	return nil
}

// Close renders the table
func (t *TableReport) Close() error {
	for _, line := range t.description {
		if _, err := fmt.Fprintln(t.out, line); err != nil {
			return err
		}
	}

	table := tablewriter.NewWriter(t.out)
	table.SetHeader(t.header)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.AppendBulk(t.rows)
	table.Render()
	return nil
}
