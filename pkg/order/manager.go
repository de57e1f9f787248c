package order

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/raykavin/depthrun/pkg/core"
	"github.com/raykavin/depthrun/pkg/logger"
	"github.com/raykavin/depthrun/pkg/metric"
)

// Target is the strategy side of a position manager
type Target interface {
	Name() string
	// Position returns the desired signed position
	Position() int
	// Time returns the time of the event being processed, unix millis
	Time() int64
}

// Manager keeps track of the position and P&L of one strategy.
// Trade is called on every event, Update on every fill.
type Manager struct {
	target         Target
	contract       core.Contract
	multiplier     float64
	commissionRate float64

	broker core.Broker
	mode   core.Mode
	log    logger.Logger

	mu sync.Mutex

	position               int
	trades                 int
	profitableTrades       int
	unprofitableTrades     int
	profitAndLoss          float64
	totalProfitAndLoss     float64
	avgFillPrice           float64
	grossProfit            float64
	grossLoss              float64
	profitFactor           float64
	peakTotalProfitAndLoss float64
	maxDrawdown            float64
	totalBought            float64
	totalSold              float64
	commission             float64
	totalCommission        float64
	kellyCriterion         float64

	profitAndLossHistory []core.ProfitAndLoss
	positionsHistory     []core.Position
	tradeResults         []float64

	orderExecutionPending atomic.Bool
	nextOrderID           int64
}

// ManagerOption configures a Manager
type ManagerOption func(*Manager)

// WithBroker sets the broker receiving market orders
func WithBroker(broker core.Broker) ManagerOption {
	return func(m *Manager) { m.broker = broker }
}

// WithMode sets the execution mode
func WithMode(mode core.Mode) ManagerOption {
	return func(m *Manager) { m.mode = mode }
}

// WithLogger sets the logger used to report fills outside optimization
func WithLogger(log logger.Logger) ManagerOption {
	return func(m *Manager) { m.log = log }
}

// NewManager creates a position manager trading contract for target
func NewManager(target Target, contract core.Contract, options ...ManagerOption) *Manager {
	m := &Manager{
		target:         target,
		contract:       contract,
		multiplier:     float64(contract.GetMultiplier()),
		commissionRate: contract.GetCommission(),
		mode:           core.ModeBacktest,
		log:            logger.Nop(),
	}
	for _, option := range options {
		option(m)
	}
	return m
}

// Attach sets the broker receiving market orders
func (m *Manager) Attach(broker core.Broker) { m.broker = broker }

// SetMode sets the execution mode
func (m *Manager) SetMode(mode core.Mode) { m.mode = mode }

// SetLogger sets the fill logger
func (m *Manager) SetLogger(log logger.Logger) { m.log = log }

// Trade brings the position towards the target position with a market order.
// Nothing happens while a previous order is pending.
func (m *Manager) Trade() error {
	if m.orderExecutionPending.Load() {
		return nil
	}

	m.mu.Lock()
	position := m.position
	m.mu.Unlock()

	quantity := m.target.Position() - position
	if quantity == 0 {
		return nil
	}

	if m.broker == nil {
		return core.StrategyError("%s: no broker attached", m.target.Name())
	}

	side := core.SideTypeBuy
	if quantity < 0 {
		side = core.SideTypeSell
	}

	m.nextOrderID++
	order := core.Order{
		ID:       m.nextOrderID,
		Contract: m.contract,
		Side:     side,
		Quantity: abs(quantity),
		Time:     m.target.Time(),
	}

	m.orderExecutionPending.Store(true)
	if err := m.broker.PlaceMarketOrder(order, m); err != nil {
		m.orderExecutionPending.Store(false)
		return err
	}
	return nil
}

// Update accounts for a fill. It is serialized per manager.
func (m *Manager) Update(fill core.Fill) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer m.orderExecutionPending.Store(false)

	m.trades++
	quantity := fill.SignedQuantity()

	m.position += quantity
	m.avgFillPrice = fill.AvgFillPrice

	tradeAmount := m.avgFillPrice * float64(abs(quantity)) * m.multiplier
	if quantity > 0 {
		m.totalBought += tradeAmount
	} else {
		m.totalSold += tradeAmount
	}

	m.commission = float64(abs(quantity)) * m.commissionRate
	m.totalCommission += m.commission

	positionValue := float64(m.position) * m.avgFillPrice * m.multiplier
	previousTotal := m.totalProfitAndLoss
	m.totalProfitAndLoss = m.totalSold - m.totalBought + positionValue - m.totalCommission
	m.profitAndLoss = m.totalProfitAndLoss - previousTotal

	if m.profitAndLoss >= 0 {
		m.profitableTrades++
		m.grossProfit += m.profitAndLoss
	} else {
		m.unprofitableTrades++
		m.grossLoss += m.profitAndLoss
	}

	m.profitFactor = metric.ProfitFactorOf(m.grossProfit, m.grossLoss)

	previousPeak := m.peakTotalProfitAndLoss
	if m.totalProfitAndLoss > m.peakTotalProfitAndLoss {
		m.peakTotalProfitAndLoss = m.totalProfitAndLoss
	}
	if drawdown := m.peakTotalProfitAndLoss - m.totalProfitAndLoss; drawdown > m.maxDrawdown {
		m.maxDrawdown = drawdown
	}

	m.kellyCriterion = metric.Kelly(m.profitableTrades, m.unprofitableTrades, m.grossProfit, m.grossLoss)

	m.profitAndLossHistory = append(m.profitAndLossHistory, core.ProfitAndLoss{
		Time:  m.target.Time(),
		Value: m.totalProfitAndLoss,
	})
	m.positionsHistory = append(m.positionsHistory, core.Position{
		Time:         fill.Time,
		Quantity:     m.position,
		AvgFillPrice: m.avgFillPrice,
	})
	m.tradeResults = append(m.tradeResults, m.profitAndLoss)

	if m.mode != core.ModeOptimization {
		m.log.WithFields(map[string]any{
			"strategy": m.target.Name(),
			"order":    fill.OrderID,
			"price":    m.avgFillPrice,
			"position": m.position,
		}).Infof("order %d is filled", fill.OrderID)
	}

	return m.checkInvariants(previousPeak)
}

func (m *Manager) checkInvariants(previousPeak float64) error {
	switch {
	case m.trades != m.profitableTrades+m.unprofitableTrades:
		return core.InternalError("%s: %d trades but %d profitable and %d unprofitable",
			m.target.Name(), m.trades, m.profitableTrades, m.unprofitableTrades)
	case m.maxDrawdown < 0:
		return core.InternalError("%s: negative max drawdown %f", m.target.Name(), m.maxDrawdown)
	case m.peakTotalProfitAndLoss < previousPeak:
		return core.InternalError("%s: peak P&L fell from %f to %f", m.target.Name(), previousPeak, m.peakTotalProfitAndLoss)
	case m.maxDrawdown < m.peakTotalProfitAndLoss-m.totalProfitAndLoss:
		return core.InternalError("%s: max drawdown %f below current drawdown", m.target.Name(), m.maxDrawdown)
	}

	positionValue := float64(m.position) * m.avgFillPrice * m.multiplier
	identity := m.totalBought - m.totalSold + m.totalProfitAndLoss + m.totalCommission
	if tolerance := 1e-9 * math.Max(1, math.Abs(m.totalBought)+math.Abs(m.totalSold)); math.Abs(identity-positionValue) > tolerance {
		return core.InternalError("%s: unrealized P&L mismatch %f != %f", m.target.Name(), identity, positionValue)
	}
	return nil
}

// OrderExecutionPending reports whether an order is waiting for its fill
func (m *Manager) OrderExecutionPending() bool { return m.orderExecutionPending.Load() }

func (m *Manager) Contract() core.Contract         { return m.contract }
func (m *Manager) Position() int                   { return m.lockedInt(&m.position) }
func (m *Manager) Trades() int                     { return m.lockedInt(&m.trades) }
func (m *Manager) ProfitableTrades() int           { return m.lockedInt(&m.profitableTrades) }
func (m *Manager) UnprofitableTrades() int         { return m.lockedInt(&m.unprofitableTrades) }
func (m *Manager) AvgFillPrice() float64           { return m.lockedFloat(&m.avgFillPrice) }
func (m *Manager) ProfitAndLoss() float64          { return m.lockedFloat(&m.profitAndLoss) }
func (m *Manager) TotalProfitAndLoss() float64     { return m.lockedFloat(&m.totalProfitAndLoss) }
func (m *Manager) PeakTotalProfitAndLoss() float64 { return m.lockedFloat(&m.peakTotalProfitAndLoss) }
func (m *Manager) MaxDrawdown() float64            { return m.lockedFloat(&m.maxDrawdown) }
func (m *Manager) GrossProfit() float64            { return m.lockedFloat(&m.grossProfit) }
func (m *Manager) GrossLoss() float64              { return m.lockedFloat(&m.grossLoss) }
func (m *Manager) ProfitFactor() float64           { return m.lockedFloat(&m.profitFactor) }
func (m *Manager) KellyCriterion() float64         { return m.lockedFloat(&m.kellyCriterion) }
func (m *Manager) TotalBought() float64            { return m.lockedFloat(&m.totalBought) }
func (m *Manager) TotalSold() float64              { return m.lockedFloat(&m.totalSold) }
func (m *Manager) Commission() float64             { return m.lockedFloat(&m.commission) }
func (m *Manager) TotalCommission() float64        { return m.lockedFloat(&m.totalCommission) }

// ProfitAndLossHistory returns a copy of the cumulative P&L after each fill
func (m *Manager) ProfitAndLossHistory() []core.ProfitAndLoss {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]core.ProfitAndLoss(nil), m.profitAndLossHistory...)
}

// PositionsHistory returns a copy of the position after each fill
func (m *Manager) PositionsHistory() []core.Position {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]core.Position(nil), m.positionsHistory...)
}

// TradeResults returns a copy of the P&L change of each fill
func (m *Manager) TradeResults() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.tradeResults...)
}

func (m *Manager) lockedInt(field *int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *field
}

func (m *Manager) lockedFloat(field *float64) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *field
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
