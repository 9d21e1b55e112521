package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/equitydesk/equitydesk/internal/domain"
)

func TestOfflinePositionsService(t *testing.T) {
	ctx := context.Background()
	svc := NewOfflinePositionsService()

	got, err := svc.GetPositions(ctx)
	require.NoError(t, err)
	assert.Equal(t, MockPositions(), got)

	order := domain.Order{TradeID: "1", Symbol: "AAPL", Quantity: 10, ActionType: domain.ActionTypeInsert, OrderType: domain.OrderTypeBuy}
	first, err := svc.ExecuteOrder(ctx, order)
	require.NoError(t, err)
	assert.True(t, first.Success)
	assert.Regexp(t, `^ORD-[A-Z0-9]{9}$`, first.OrderID)
	assert.NotEqual(t, "ORD-MOCKORDER", first.OrderID)

	second, err := svc.ExecuteOrder(ctx, order)
	require.NoError(t, err)
	assert.NotEqual(t, first.OrderID, second.OrderID)
}
