package services

import (
	"context"

	"github.com/equitydesk/equitydesk/internal/domain"
)

// OfflinePositionsService serves the local fixture without a backend. It
// keeps no state.
type OfflinePositionsService struct{}

var _ PositionsService = OfflinePositionsService{}

func NewOfflinePositionsService() OfflinePositionsService {
	return OfflinePositionsService{}
}

func (OfflinePositionsService) GetPositions(ctx context.Context) ([]domain.Position, error) {
	return MockPositions(), nil
}

func (OfflinePositionsService) GetMockPositions(ctx context.Context) ([]domain.Position, error) {
	return MockPositions(), nil
}

func (OfflinePositionsService) ExecuteOrder(ctx context.Context, order domain.Order) (*domain.ExecuteOrderResult, error) {
	return MockExecuteResult(), nil
}

func (OfflinePositionsService) MockExecuteOrder(ctx context.Context, order domain.Order) (*domain.ExecuteOrderResult, error) {
	return MockExecuteResult(), nil
}
