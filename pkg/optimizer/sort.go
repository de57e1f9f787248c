package optimizer

import (
	"strings"

	"github.com/raykavin/depthrun/pkg/core"
)

// SortCriteria selects the comparator of the rank store
type SortCriteria int

const (
	SortByNetProfit SortCriteria = iota
	SortByProfitFactor
	SortByMaxDrawdown
	SortByKelly
	SortByPerformanceIndex
	SortByTrades
)

var sortCriteriaNames = map[SortCriteria]string{
	SortByNetProfit:        "net-profit",
	SortByProfitFactor:     "profit-factor",
	SortByMaxDrawdown:      "max-drawdown",
	SortByKelly:            "kelly",
	SortByPerformanceIndex: "performance-index",
	SortByTrades:           "trades",
}

func (s SortCriteria) String() string {
	if name, ok := sortCriteriaNames[s]; ok {
		return name
	}
	return "unknown"
}

// ParseSortCriteria accepts the names returned by String, case and
// separators are ignored ("NET_PROFIT", "netprofit" and "net-profit" match).
func ParseSortCriteria(name string) (SortCriteria, error) {
	normalize := strings.NewReplacer("-", "", "_", "", " ", "")
	key := normalize.Replace(strings.ToLower(name))

	for criteria, criteriaName := range sortCriteriaNames {
		if normalize.Replace(criteriaName) == key {
			return criteria, nil
		}
	}
	return 0, core.ConfigurationError("unknown sort criteria %q", name)
}

// better reports whether a ranks before b. Max drawdown ranks ascending,
// every other criteria descending.
func (s SortCriteria) better(a, b core.Result) bool {
	switch s {
	case SortByProfitFactor:
		return a.ProfitFactor > b.ProfitFactor
	case SortByMaxDrawdown:
		return a.MaxDrawdown < b.MaxDrawdown
	case SortByKelly:
		return a.KellyCriterion > b.KellyCriterion
	case SortByPerformanceIndex:
		return a.PerformanceIndex > b.PerformanceIndex
	case SortByTrades:
		return a.Trades > b.Trades
	default:
		return a.NetProfit > b.NetProfit
	}
}
