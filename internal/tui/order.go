package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/equitydesk/equitydesk/internal/domain"
	"github.com/equitydesk/equitydesk/internal/views"
)

var fieldLabels = map[string]string{
	views.FieldTradeID:    "Trade ID",
	views.FieldSymbol:     "Symbol",
	views.FieldQuantity:   "Quantity",
	views.FieldActionType: "Action Type",
	views.FieldOrderType:  "Order Type",
}

func enumOptions(field string) []string {
	switch field {
	case views.FieldActionType:
		out := make([]string, 0, 3)
		for _, t := range domain.ActionTypes() {
			out = append(out, t.String())
		}
		return out
	case views.FieldOrderType:
		out := make([]string, 0, 2)
		for _, t := range domain.OrderTypes() {
			out = append(out, t.String())
		}
		return out
	}
	return nil
}

func (a *App) focusedField() string {
	return views.OrderFields[a.focus]
}

func (a *App) moveFocus(delta int) {
	a.order.TouchField(a.focusedField())
	n := len(views.OrderFields)
	a.focus = (a.focus + delta + n) % n
}

func (a *App) updateOrder(msg tea.KeyMsg) tea.Cmd {
	if a.order == nil {
		return nil
	}
	field := a.focusedField()
	switch msg.String() {
	case "esc":
		a.order.GoBack()
	case "tab", "down":
		a.moveFocus(1)
	case "shift+tab", "up":
		a.moveFocus(-1)
	case "left":
		a.cycleEnum(field, -1)
	case "right":
		a.cycleEnum(field, 1)
	case "ctrl+s":
		return a.submitOrder()
	case "enter":
		if a.focus == len(views.OrderFields)-1 {
			a.order.TouchField(field)
			return a.submitOrder()
		}
		a.moveFocus(1)
	case "ctrl+r":
		a.order.ResetForm()
		a.focus = 0
	case "backspace":
		if enumOptions(field) != nil {
			return nil
		}
		r := []rune(a.order.Snapshot().Values[field])
		if len(r) > 0 {
			_ = a.order.SetField(field, string(r[:len(r)-1]))
		}
	default:
		if msg.Type == tea.KeyRunes && enumOptions(field) == nil {
			cur := a.order.Snapshot().Values[field]
			_ = a.order.SetField(field, cur+string(msg.Runes))
		}
	}
	return nil
}

func (a *App) cycleEnum(field string, delta int) {
	opts := enumOptions(field)
	if opts == nil {
		return
	}
	cur := a.order.Snapshot().Values[field]
	idx := -1
	for i, o := range opts {
		if o == cur {
			idx = i
		}
	}
	switch {
	case idx < 0 && delta > 0:
		idx = 0
	case idx < 0:
		idx = len(opts) - 1
	default:
		idx = (idx + delta + len(opts)) % len(opts)
	}
	_ = a.order.SetField(field, opts[idx])
}

func (a *App) viewOrder() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render("EquityDesk | Execute Order"))
	s.WriteString("\n\n")
	if a.order == nil {
		return s.String()
	}
	snap := a.order.Snapshot()

	var body strings.Builder
	for i, field := range views.OrderFields {
		marker := "  "
		label := fmt.Sprintf("%-12s", fieldLabels[field])
		if i == a.focus {
			marker = focusStyle.Render("› ")
			label = focusStyle.Render(label)
		}
		body.WriteString(marker + label + " " + renderFieldValue(field, snap.Values[field], i == a.focus))
		body.WriteString("\n")
		if msg := snap.FieldErrors[field]; msg != "" {
			body.WriteString("  " + errorStyle.Render(msg))
			body.WriteString("\n")
		}
	}

	body.WriteString("\n")
	switch {
	case snap.IsSubmitting || a.submitting:
		body.WriteString(mutedStyle.Render("Submitting order..."))
	case snap.SubmitSuccess && snap.Result != nil:
		body.WriteString(successStyle.Render("Order executed successfully! Order ID: " + snap.Result.OrderID))
		if snap.Mock {
			body.WriteString(mutedStyle.Render(" (mock)"))
		}
		body.WriteString("\n")
		body.WriteString(mutedStyle.Render("Redirecting to positions..."))
	case snap.SubmitError != "":
		body.WriteString(errorStyle.Render(snap.SubmitError))
	}

	s.WriteString(borderStyle.Render(body.String()))
	s.WriteString("\n\n")
	s.WriteString(mutedStyle.Render("tab/shift+tab 切换 • ←/→ 选择 • enter/ctrl+s 提交 • ctrl+r 重置 • esc 返回"))
	return s.String()
}

func renderFieldValue(field, value string, focused bool) string {
	if enumOptions(field) != nil {
		if value == "" {
			value = "select"
			return "< " + mutedStyle.Render(value) + " >"
		}
		return "< " + value + " >"
	}
	if focused {
		return value + "_"
	}
	if value == "" {
		return mutedStyle.Render("-")
	}
	return value
}
