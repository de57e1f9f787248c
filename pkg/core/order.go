package core

import "fmt"

// SideType is the direction of an order
type SideType string

const (
	SideTypeBuy  SideType = "BUY"
	SideTypeSell SideType = "SELL"
)

// Order is a market order submitted by a position manager
type Order struct {
	ID       int64
	Contract Contract
	Side     SideType
	Quantity int
	Time     int64
}

func (o Order) String() string {
	return fmt.Sprintf("[%d] %s %d %s", o.ID, o.Side, o.Quantity, o.Contract.Symbol)
}

// Fill reports the execution of an order
type Fill struct {
	OrderID      int64
	Side         SideType
	Quantity     int
	AvgFillPrice float64
	Time         int64
}

// SignedQuantity returns the filled quantity, negative for sells
func (f Fill) SignedQuantity() int {
	if f.Side == SideTypeSell {
		return -f.Quantity
	}
	return f.Quantity
}

// Position is an entry of the position history appended on every fill
type Position struct {
	Time         int64
	Quantity     int
	AvgFillPrice float64
}

// ProfitAndLoss is an entry of the cumulative P&L history
type ProfitAndLoss struct {
	Time  int64
	Value float64
}
