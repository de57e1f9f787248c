package order

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
)

var returnsHeader = []string{"time", "position", "avg_fill_price", "pnl", "total_pnl"}

// WriteReturns writes one CSV row per fill: the fill time, the position after
// it, the fill price, the P&L of the fill and the cumulative P&L.
func (p *Performance) WriteReturns(w io.Writer) error {
	positions := p.manager.PositionsHistory()
	totals := p.manager.ProfitAndLossHistory()
	results := p.manager.TradeResults()

	out := csv.NewWriter(w)
	if err := out.Write(returnsHeader); err != nil {
		return err
	}

	for i, position := range positions {
		err := out.Write([]string{
			strconv.FormatInt(position.Time, 10),
			strconv.Itoa(position.Quantity),
			strconv.FormatFloat(position.AvgFillPrice, 'f', -1, 64),
			strconv.FormatFloat(results[i], 'f', 4, 64),
			strconv.FormatFloat(totals[i].Value, 'f', 4, 64),
		})
		if err != nil {
			return err
		}
	}

	out.Flush()
	return out.Error()
}

// SaveReturns writes the per fill returns to filename
func (p *Performance) SaveReturns(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := p.WriteReturns(file); err != nil {
		return err
	}
	return file.Close()
}
