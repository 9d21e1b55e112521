package services

import (
	"context"
	"sync"

	"github.com/equitydesk/equitydesk/internal/domain"
)

// MockPositionsService is an in-process PositionsService for tests.
type MockPositionsService struct {
	mu sync.RWMutex

	// Response data
	Positions     []domain.Position
	ExecuteResult *domain.ExecuteOrderResult

	// Call tracking
	Calls  map[string]int
	Orders []domain.Order

	// Error injection (one-shot per method)
	ErrorOnNext map[string][]error
}

var _ PositionsService = (*MockPositionsService)(nil)

func NewMockPositionsService() *MockPositionsService {
	return &MockPositionsService{
		Positions:   MockPositions(),
		Calls:       make(map[string]int),
		ErrorOnNext: make(map[string][]error),
	}
}

// FailNext queues errors returned by the next calls of method, in order.
func (m *MockPositionsService) FailNext(method string, errs ...error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ErrorOnNext[method] = append(m.ErrorOnNext[method], errs...)
}

// CallCount returns how many times method was invoked.
func (m *MockPositionsService) CallCount(method string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.Calls[method]
}

func (m *MockPositionsService) trackCall(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls[name]++
	if errs := m.ErrorOnNext[name]; len(errs) > 0 {
		m.ErrorOnNext[name] = errs[1:]
		return errs[0]
	}
	return nil
}

func (m *MockPositionsService) GetPositions(ctx context.Context) ([]domain.Position, error) {
	if err := m.trackCall("GetPositions"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Position, len(m.Positions))
	copy(out, m.Positions)
	return out, nil
}

func (m *MockPositionsService) GetMockPositions(ctx context.Context) ([]domain.Position, error) {
	if err := m.trackCall("GetMockPositions"); err != nil {
		return nil, err
	}
	return MockPositions(), nil
}

func (m *MockPositionsService) ExecuteOrder(ctx context.Context, order domain.Order) (*domain.ExecuteOrderResult, error) {
	err := m.trackCall("ExecuteOrder")
	m.mu.Lock()
	m.Orders = append(m.Orders, order)
	m.mu.Unlock()
	if err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.ExecuteResult != nil {
		r := *m.ExecuteResult
		return &r, nil
	}
	return &domain.ExecuteOrderResult{Success: true, OrderID: "ORD-MOCKORDER"}, nil
}

func (m *MockPositionsService) MockExecuteOrder(ctx context.Context, order domain.Order) (*domain.ExecuteOrderResult, error) {
	if err := m.trackCall("MockExecuteOrder"); err != nil {
		return nil, err
	}
	return MockExecuteResult(), nil
}
