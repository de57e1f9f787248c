package order

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/raykavin/depthrun/pkg/core"
	"github.com/raykavin/depthrun/pkg/metric"
)

// Performance derives the ranking metrics of a strategy from its position manager
type Performance struct {
	manager *Manager
}

// NewPerformance creates a performance summary over manager
func NewPerformance(manager *Manager) *Performance {
	return &Performance{manager: manager}
}

func (p *Performance) NetProfit() float64      { return p.manager.TotalProfitAndLoss() }
func (p *Performance) MaxDrawdown() float64    { return p.manager.MaxDrawdown() }
func (p *Performance) Trades() int             { return p.manager.Trades() }
func (p *Performance) ProfitFactor() float64   { return p.manager.ProfitFactor() }
func (p *Performance) KellyCriterion() float64 { return p.manager.KellyCriterion() }
func (p *Performance) Commission() float64     { return p.manager.TotalCommission() }

// PercentProfitable returns the share of profitable fills in percent
func (p *Performance) PercentProfitable() float64 {
	return metric.PercentProfitable(p.manager.ProfitableTrades(), p.manager.Trades())
}

// AverageProfitPerTrade returns net profit divided by the number of trades
func (p *Performance) AverageProfitPerTrade() float64 {
	trades := p.manager.Trades()
	if trades == 0 {
		return 0
	}
	return p.NetProfit() / float64(trades)
}

// Payoff returns the average winning fill over the average losing fill
func (p *Performance) Payoff() float64 {
	return metric.Payoff(p.manager.TradeResults())
}

// SQN returns the system quality number of the per fill P&L
func (p *Performance) SQN() float64 {
	return metric.SQN(p.manager.TradeResults())
}

// PerformanceIndex returns the composite score, see metric.PerformanceIndex
func (p *Performance) PerformanceIndex() float64 {
	return metric.PerformanceIndex(p.NetProfit(), p.MaxDrawdown(), p.ProfitFactor(), p.KellyCriterion())
}

// Result snapshots the metrics for params
func (p *Performance) Result(params core.Params) core.Result {
	return core.Result{
		Params:            params.Clone(),
		NetProfit:         p.NetProfit(),
		MaxDrawdown:       p.MaxDrawdown(),
		Trades:            p.Trades(),
		ProfitFactor:      p.ProfitFactor(),
		KellyCriterion:    p.KellyCriterion(),
		PerformanceIndex:  p.PerformanceIndex(),
		PercentProfitable: p.PercentProfitable(),
		AverageProfit:     p.AverageProfitPerTrade(),
	}
}

// String formats the performance as a text table
func (p *Performance) String() string {
	tableString := &strings.Builder{}
	table := tablewriter.NewWriter(tableString)

	contract := p.manager.Contract()
	data := [][]string{
		{"Symbol", contract.Symbol},
		{"Trades", strconv.Itoa(p.Trades())},
		{"% Profitable", fmt.Sprintf("%.1f", p.PercentProfitable())},
		{"Net Profit", fmt.Sprintf("%.2f %s", p.NetProfit(), contract.Currency)},
		{"Max Drawdown", fmt.Sprintf("%.2f", p.MaxDrawdown())},
		{"Profit Factor", fmt.Sprintf("%.2f", p.ProfitFactor())},
		{"Kelly", fmt.Sprintf("%.2f", p.KellyCriterion())},
		{"Avg Profit", fmt.Sprintf("%.2f", p.AverageProfitPerTrade())},
		{"Payoff", fmt.Sprintf("%.2f", p.Payoff())},
		{"SQN", fmt.Sprintf("%.2f", p.SQN())},
		{"Commission", fmt.Sprintf("%.2f", p.Commission())},
		{"Perf Index", fmt.Sprintf("%.2f", p.PerformanceIndex())},
	}

	table.AppendBulk(data)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})
	table.Render()

	return tableString.String()
}
