package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/equitydesk/equitydesk/internal/domain"
)

func TestMockPositionsService(t *testing.T) {
	ctx := context.Background()

	t.Run("default positions", func(t *testing.T) {
		m := NewMockPositionsService()
		got, err := m.GetPositions(ctx)
		require.NoError(t, err)
		assert.Len(t, got, 6)
		assert.Equal(t, 1, m.CallCount("GetPositions"))
	})

	t.Run("queued errors are consumed in order", func(t *testing.T) {
		m := NewMockPositionsService()
		e1, e2 := errors.New("first"), errors.New("second")
		m.FailNext("GetPositions", e1, e2)

		_, err := m.GetPositions(ctx)
		assert.Equal(t, e1, err)
		_, err = m.GetPositions(ctx)
		assert.Equal(t, e2, err)
		_, err = m.GetPositions(ctx)
		assert.NoError(t, err)
		assert.Equal(t, 3, m.CallCount("GetPositions"))
	})

	t.Run("execute records orders", func(t *testing.T) {
		m := NewMockPositionsService()
		m.ExecuteResult = &domain.ExecuteOrderResult{Success: false, Message: "nope"}

		res, err := m.ExecuteOrder(ctx, domain.Order{TradeID: "1"})
		require.NoError(t, err)
		assert.False(t, res.Success)
		require.Len(t, m.Orders, 1)
		assert.Equal(t, "1", m.Orders[0].TradeID)
	})
}
