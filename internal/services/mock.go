package services

import (
	"github.com/equitydesk/equitydesk/internal/domain"
	"github.com/equitydesk/equitydesk/pkg/idgen"
)

const mockExecuteMessage = "Order executed successfully (mock)"

var mockPositions = []domain.Position{
	{Symbol: "REL", Quantity: 60},
	{Symbol: "AAPL", Quantity: 100},
	{Symbol: "GOOGL", Quantity: -25},
	{Symbol: "MSFT", Quantity: 75},
	{Symbol: "TSLA", Quantity: -10},
	{Symbol: "AMZN", Quantity: 30},
}

// MockPositions returns a fresh copy of the fixture used when the API is unavailable.
func MockPositions() []domain.Position {
	out := make([]domain.Position, len(mockPositions))
	copy(out, mockPositions)
	return out
}

// MockExecuteResult is the canned success for the mock execution path.
func MockExecuteResult() *domain.ExecuteOrderResult {
	return &domain.ExecuteOrderResult{
		Success: true,
		Message: mockExecuteMessage,
		OrderID: idgen.OrderID(),
	}
}
