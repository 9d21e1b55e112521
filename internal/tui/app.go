package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/equitydesk/equitydesk/internal/services"
	"github.com/equitydesk/equitydesk/internal/views"
	"github.com/equitydesk/equitydesk/pkg/logger"
)

// Options configures the terminal application.
type Options struct {
	Service       services.PositionsService
	Router        *views.Router
	Fallback      views.FallbackPolicy
	RedirectDelay time.Duration
}

// App 是终端界面的根模型，持有路由监听和当前页面。
type App struct {
	svc           services.PositionsService
	router        *views.Router
	fallback      views.FallbackPolicy
	redirectDelay time.Duration

	routes chan string
	ctx    context.Context
	cancel context.CancelFunc

	route     string
	gen       int
	positions *views.PositionsView
	order     *views.OrderExecutionView

	// 界面状态
	cursor     int
	focus      int
	loads      int
	submitting bool
	width      int
	quitting   bool
}

func New(opts Options) *App {
	if opts.Router == nil {
		opts.Router = views.NewRouter()
	}
	if opts.RedirectDelay < 0 {
		opts.RedirectDelay = views.DefaultRedirectDelay
	}
	ctx, cancel := context.WithCancel(context.Background())
	a := &App{
		svc:           opts.Service,
		router:        opts.Router,
		fallback:      opts.Fallback,
		redirectDelay: opts.RedirectDelay,
		routes:        make(chan string, 16),
		ctx:           ctx,
		cancel:        cancel,
	}
	// 路由可能在定时器 goroutine 中触发，通过 channel 交给事件循环
	opts.Router.OnNavigate(func(route string) {
		select {
		case a.routes <- route:
		default:
			logger.Warnf("route %s dropped: navigation queue full", route)
		}
	})
	return a
}

// Route returns the route of the active screen.
func (a *App) Route() string { return a.route }

func (a *App) Init() tea.Cmd {
	return tea.Batch(waitForRoute(a.routes), a.enter(a.router.Current()))
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width

	case routeMsg:
		return a, tea.Batch(waitForRoute(a.routes), a.enter(string(msg)))

	case positionsLoadedMsg:
		if msg.gen == a.gen && a.loads > 0 {
			a.loads--
			a.clampCursor()
		}

	case orderSubmittedMsg:
		if msg.gen == a.gen {
			a.submitting = false
			var verr *views.ValidationError
			if msg.err != nil && !errors.As(msg.err, &verr) && !errors.Is(msg.err, views.ErrViewClosed) {
				logger.Warnf("order submit: %v", msg.err)
			}
		}

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, a.quit()
		}
		switch a.route {
		case views.RouteOrderExecution:
			return a, a.updateOrder(msg)
		default:
			return a, a.updatePositions(msg)
		}
	}
	return a, nil
}

// enter 关闭旧页面并为新路由创建全新的页面
func (a *App) enter(route string) tea.Cmd {
	a.leave()
	a.gen++
	a.route = views.Resolve(route)
	logger.Debugf("enter route %s", a.route)

	switch a.route {
	case views.RouteOrderExecution:
		a.order = views.NewOrderExecutionView(a.svc, a.router, a.redirectDelay)
		a.focus = 0
		return nil
	default:
		a.positions = views.NewPositionsView(a.svc, a.router, a.fallback)
		a.cursor = 0
		return a.loadPositions()
	}
}

func (a *App) leave() {
	if a.positions != nil {
		a.positions.Close()
		a.positions = nil
	}
	if a.order != nil {
		a.order.Close()
		a.order = nil
	}
	a.loads = 0
	a.submitting = false
}

func (a *App) quit() tea.Cmd {
	a.quitting = true
	a.leave()
	a.cancel()
	return tea.Quit
}

func (a *App) loadPositions() tea.Cmd {
	view, gen, ctx := a.positions, a.gen, a.ctx
	a.loads++
	return func() tea.Msg {
		view.Load(ctx)
		return positionsLoadedMsg{gen: gen}
	}
}

func (a *App) submitOrder() tea.Cmd {
	if a.submitting {
		return nil
	}
	view, gen, ctx := a.order, a.gen, a.ctx
	a.submitting = true
	return func() tea.Msg {
		return orderSubmittedMsg{gen: gen, err: view.Submit(ctx)}
	}
}

func (a *App) clampCursor() {
	if a.positions == nil {
		return
	}
	n := len(a.positions.Snapshot().Positions)
	if a.cursor >= n {
		a.cursor = n - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

func (a *App) View() string {
	if a.quitting {
		return ""
	}
	switch a.route {
	case views.RouteOrderExecution:
		return a.viewOrder()
	default:
		return a.viewPositions()
	}
}

// Run starts the program on the alternate screen and blocks until it exits.
func Run(ctx context.Context, a *App) error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
