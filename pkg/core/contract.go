package core

import "fmt"

// Contract contains the instrument metadata a strategy trades
type Contract struct {
	Symbol       string
	SecurityType string
	Exchange     string
	Currency     string

	Multiplier int     // Contract multiplier applied to every fill
	Commission float64 // Commission charged per contract
}

// GetSymbol returns the instrument symbol
func (c Contract) GetSymbol() string { return c.Symbol }

// GetMultiplier returns the contract multiplier, never less than one
func (c Contract) GetMultiplier() int {
	if c.Multiplier <= 0 {
		return 1
	}
	return c.Multiplier
}

// GetCommission returns the commission charged per contract
func (c Contract) GetCommission() float64 { return c.Commission }

func (c Contract) String() string {
	return fmt.Sprintf("%s %s@%s x%d", c.Symbol, c.SecurityType, c.Exchange, c.GetMultiplier())
}
