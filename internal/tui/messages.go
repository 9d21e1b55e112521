package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// routeMsg 路由切换消息
type routeMsg string

// positionsLoadedMsg 持仓加载完成
type positionsLoadedMsg struct{ gen int }

// orderSubmittedMsg 订单提交完成
type orderSubmittedMsg struct {
	gen int
	err error
}

func waitForRoute(ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		route, ok := <-ch
		if !ok {
			return nil
		}
		return routeMsg(route)
	}
}
