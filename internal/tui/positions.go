package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/equitydesk/equitydesk/internal/views"
)

func (a *App) updatePositions(msg tea.KeyMsg) tea.Cmd {
	if a.positions == nil {
		return nil
	}
	switch msg.String() {
	case "q":
		return a.quit()
	case "r":
		return a.loadPositions()
	case "o", "enter":
		a.positions.ExecuteOrder()
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		a.cursor++
		a.clampCursor()
	}
	return nil
}

func (a *App) viewPositions() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render("EquityDesk | Equity Positions"))
	s.WriteString("\n\n")

	if a.positions == nil {
		return s.String()
	}
	snap := a.positions.Snapshot()
	s.WriteString(borderStyle.Render(a.renderPositionsBody(snap)))
	s.WriteString("\n\n")
	s.WriteString(mutedStyle.Render("r 刷新 • o/enter 下单 • ↑/↓ 选择 • q 退出"))
	return s.String()
}

func (a *App) renderPositionsBody(snap views.PositionsSnapshot) string {
	var s strings.Builder
	switch {
	case snap.State == views.StateFailed:
		s.WriteString(errorStyle.Render(snap.Error))
		s.WriteString("\n")
		s.WriteString(mutedStyle.Render("press r to retry"))
		if len(snap.Positions) == 0 {
			return s.String()
		}
		s.WriteString("\n\n")
	case snap.Loading() || (a.loads > 0 && snap.State != views.StateLoaded):
		s.WriteString(mutedStyle.Render("Loading positions..."))
		return s.String()
	case snap.State == views.StateLoaded && len(snap.Positions) == 0:
		s.WriteString(mutedStyle.Render("No positions found"))
		return s.String()
	}

	s.WriteString(titleStyle.Render(fmt.Sprintf("%-8s %12s  %-5s", "SYMBOL", "QUANTITY", "SIDE")))
	s.WriteString("\n")
	for i, p := range snap.Positions {
		side := longStyle.Render("LONG ")
		if p.IsShort() {
			side = shortStyle.Render("SHORT")
		}
		row := fmt.Sprintf("%-8s %12d  ", a.positions.Key(p), p.Quantity)
		if i == a.cursor {
			row = selectedStyle.Render(row)
		}
		s.WriteString(row + side)
		s.WriteString("\n")
	}
	s.WriteString(mutedStyle.Render(fmt.Sprintf("%d positions", len(snap.Positions))))
	return s.String()
}
