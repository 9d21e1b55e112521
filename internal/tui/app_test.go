package tui

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/equitydesk/equitydesk/internal/services"
	"github.com/equitydesk/equitydesk/internal/views"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func key(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func newTestApp(svc services.PositionsService) *App {
	return New(Options{Service: svc, Fallback: views.FallbackMock, RedirectDelay: 10 * time.Millisecond})
}

// send feeds msg through Update and runs any returned command once.
func send(t *testing.T, a *App, msg tea.Msg) tea.Msg {
	t.Helper()
	_, cmd := a.Update(msg)
	if cmd == nil {
		return nil
	}
	return cmd()
}

func nextRoute(t *testing.T, a *App) string {
	t.Helper()
	select {
	case r := <-a.routes:
		return r
	case <-time.After(time.Second):
		t.Fatal("no navigation")
		return ""
	}
}

func TestApp_PositionsScreen(t *testing.T) {
	a := newTestApp(services.NewMockPositionsService())
	msg := a.enter(views.RoutePositions)()
	send(t, a, msg)

	out := a.View()
	assert.Contains(t, out, "Equity Positions")
	assert.Contains(t, out, "GOOGL")
	assert.Contains(t, out, "-25")
	assert.Contains(t, out, "SHORT")
	assert.Contains(t, out, "6 positions")
}

func TestApp_PositionsFailure(t *testing.T) {
	svc := services.NewMockPositionsService()
	svc.FailNext("GetPositions", errors.New("down"))
	svc.FailNext("GetMockPositions", errors.New("down"))
	a := newTestApp(svc)

	send(t, a, a.enter(views.RoutePositions)())
	assert.Contains(t, a.View(), "Failed to load positions data")

	// r 重新加载
	loaded := send(t, a, runes("r"))
	send(t, a, loaded)
	assert.Contains(t, a.View(), "GOOGL")
}

func TestApp_EmptyPositions(t *testing.T) {
	svc := services.NewMockPositionsService()
	svc.Positions = nil
	a := newTestApp(svc)

	send(t, a, a.enter(views.RoutePositions)())
	assert.Contains(t, a.View(), "No positions found")
}

func TestApp_NavigateToOrderAndBack(t *testing.T) {
	a := newTestApp(services.NewMockPositionsService())
	send(t, a, a.enter(views.RoutePositions)())

	send(t, a, runes("o"))
	route := nextRoute(t, a)
	assert.Equal(t, views.RouteOrderExecution, route)

	_, _ = a.Update(routeMsg(route))
	assert.Equal(t, views.RouteOrderExecution, a.Route())
	assert.Contains(t, a.View(), "Execute Order")

	send(t, a, key(tea.KeyEsc))
	assert.Equal(t, views.RoutePositions, nextRoute(t, a))
}

func fillOrder(t *testing.T, a *App) {
	t.Helper()
	send(t, a, runes("T1"))
	send(t, a, key(tea.KeyTab))
	send(t, a, runes("AAPL"))
	send(t, a, key(tea.KeyTab))
	send(t, a, runes("10"))
	send(t, a, key(tea.KeyTab))
	send(t, a, key(tea.KeyRight))
	send(t, a, key(tea.KeyTab))
	send(t, a, key(tea.KeyRight))
}

func TestApp_SubmitOrder(t *testing.T) {
	svc := services.NewMockPositionsService()
	a := newTestApp(svc)
	a.enter(views.RouteOrderExecution)
	fillOrder(t, a)

	snap := a.order.Snapshot()
	assert.Equal(t, "INSERT", snap.Values[views.FieldActionType])
	assert.Equal(t, "BUY", snap.Values[views.FieldOrderType])

	done := send(t, a, key(tea.KeyEnter))
	require.IsType(t, orderSubmittedMsg{}, done)
	send(t, a, done)

	out := a.View()
	assert.Contains(t, out, "Order executed successfully! Order ID: ORD-MOCKORDER")
	assert.Equal(t, 1, svc.CallCount("ExecuteOrder"))
	assert.Equal(t, views.RoutePositions, nextRoute(t, a))
}

func TestApp_SubmitInvalidShowsErrors(t *testing.T) {
	svc := services.NewMockPositionsService()
	a := newTestApp(svc)
	a.enter(views.RouteOrderExecution)

	send(t, a, send(t, a, key(tea.KeyCtrlS)))

	out := a.View()
	assert.Contains(t, out, "tradeId is required")
	assert.Contains(t, out, "orderType is required")
	assert.Zero(t, svc.CallCount("ExecuteOrder"))
}

func TestApp_EditAndReset(t *testing.T) {
	a := newTestApp(services.NewMockPositionsService())
	a.enter(views.RouteOrderExecution)

	send(t, a, runes("12"))
	send(t, a, key(tea.KeyBackspace))
	assert.Equal(t, "1", a.order.Snapshot().Values[views.FieldTradeID])

	send(t, a, key(tea.KeyTab))
	send(t, a, runes("aapl"))
	send(t, a, key(tea.KeyShiftTab))
	assert.Contains(t, a.View(), "Invalid symbol format")

	send(t, a, key(tea.KeyCtrlR))
	snap := a.order.Snapshot()
	assert.Empty(t, snap.Values[views.FieldTradeID])
	assert.Empty(t, snap.FieldErrors)
	assert.Equal(t, 0, a.focus)
}

func TestApp_CycleEnumBackwards(t *testing.T) {
	a := newTestApp(services.NewMockPositionsService())
	a.enter(views.RouteOrderExecution)
	a.focus = 3

	send(t, a, key(tea.KeyLeft))
	assert.Equal(t, "CANCEL", a.order.Snapshot().Values[views.FieldActionType])
	send(t, a, key(tea.KeyRight))
	assert.Equal(t, "INSERT", a.order.Snapshot().Values[views.FieldActionType])
}

func TestApp_Quit(t *testing.T) {
	a := newTestApp(services.NewMockPositionsService())
	send(t, a, a.enter(views.RoutePositions)())

	msg := send(t, a, runes("q"))
	assert.IsType(t, tea.QuitMsg{}, msg)
	assert.Empty(t, a.View())
}

func TestNew_RedirectDelay(t *testing.T) {
	svc := services.NewMockPositionsService()

	immediate := New(Options{Service: svc, RedirectDelay: 0})
	assert.Zero(t, immediate.redirectDelay)

	negative := New(Options{Service: svc, RedirectDelay: -time.Second})
	assert.Equal(t, views.DefaultRedirectDelay, negative.redirectDelay)
}
