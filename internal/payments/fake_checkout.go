package payments

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/botmitra/whatsbiz-platform/pkg/logging"
)

// Order status values for the simulated checkout.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusSucceeded  = "succeeded"
)

// ErrOrderNotFound is returned when an order id does not exist.
var ErrOrderNotFound = errors.New("payments: order not found")

// ErrFakePaymentsDisabled is returned when the demo checkout is not enabled.
var ErrFakePaymentsDisabled = errors.New("payments: fake payments disabled")

// Order is a demo checkout in progress. No real money moves.
type Order struct {
	ID        string    `json:"id"`
	PlanID    string    `json:"plan_id"`
	PlanName  string    `json:"plan_name"`
	Amount    int       `json:"amount"`
	Yearly    bool      `json:"yearly"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// FakeCheckoutService simulates a payment gateway for the demo dashboard.
// Orders move Pending -> Processing -> Succeeded on a fixed timer.
//
// This MUST be gated by configuration (ALLOW_FAKE_PAYMENTS) and should never
// be enabled in production.
type FakeCheckoutService struct {
	enabled bool
	delay   time.Duration
	logger  *logging.Logger

	mu     sync.Mutex
	orders map[string]*Order
}

// NewFakeCheckoutService creates the demo checkout provider. The delay is the
// time each order spends in the processing state.
func NewFakeCheckoutService(enabled bool, delay time.Duration, logger *logging.Logger) *FakeCheckoutService {
	if delay <= 0 {
		delay = 2 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &FakeCheckoutService{
		enabled: enabled,
		delay:   delay,
		logger:  logger,
		orders:  make(map[string]*Order),
	}
}

// CreateOrder opens a demo order for the given plan and starts the timer that
// drives it to completion.
func (s *FakeCheckoutService) CreateOrder(planID string, yearly bool) (*Order, error) {
	if !s.enabled {
		return nil, ErrFakePaymentsDisabled
	}
	plan, err := PlanByID(planID)
	if err != nil {
		return nil, err
	}

	amount := plan.MonthlyPrice
	if yearly {
		amount = plan.YearlyPrice
	}

	order := &Order{
		ID:        uuid.NewString(),
		PlanID:    plan.ID,
		PlanName:  plan.Name,
		Amount:    amount,
		Yearly:    yearly,
		Status:    StatusPending,
		CreatedAt: time.Now().UTC(),
	}

	// Snapshot before the settle goroutine can touch the stored order.
	s.mu.Lock()
	s.orders[order.ID] = order
	snapshot := copyOrder(order)
	s.mu.Unlock()

	go s.settle(order.ID)

	s.logger.Info("demo checkout opened", "order_id", order.ID, "plan", plan.ID, "amount", amount)
	return snapshot, nil
}

func (s *FakeCheckoutService) settle(orderID string) {
	s.setStatus(orderID, StatusProcessing)
	time.Sleep(s.delay)
	s.setStatus(orderID, StatusSucceeded)
}

func (s *FakeCheckoutService) setStatus(orderID, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if order, ok := s.orders[orderID]; ok && order.Status != StatusSucceeded {
		order.Status = status
	}
}

// CompleteOrder marks a demo order succeeded immediately, without waiting for
// the settlement timer.
func (s *FakeCheckoutService) CompleteOrder(orderID string) (*Order, error) {
	if !s.enabled {
		return nil, ErrFakePaymentsDisabled
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[orderID]
	if !ok {
		return nil, ErrOrderNotFound
	}
	order.Status = StatusSucceeded
	s.logger.Info("demo checkout completed", "order_id", orderID)
	return copyOrder(order), nil
}

// GetOrder returns the current state of a demo order.
func (s *FakeCheckoutService) GetOrder(orderID string) (*Order, error) {
	if !s.enabled {
		return nil, ErrFakePaymentsDisabled
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[orderID]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return copyOrder(order), nil
}

func copyOrder(o *Order) *Order {
	dup := *o
	return &dup
}
