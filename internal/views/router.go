package views

import (
	"strings"
	"sync"
)

const (
	RoutePositions      = "/positions"
	RouteOrderExecution = "/order-execution"
)

// Navigator moves the application to another route.
type Navigator interface {
	Navigate(path string)
}

// Resolve maps a path onto a known route. The empty path and anything
// unknown resolve to the positions route.
func Resolve(path string) string {
	p := strings.TrimSpace(path)
	if p != "" && !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	p = strings.TrimSuffix(p, "/")
	switch p {
	case RoutePositions, RouteOrderExecution:
		return p
	default:
		return RoutePositions
	}
}

// Router records the current route and notifies a listener on every
// navigation. It is safe for concurrent use.
type Router struct {
	mu       sync.RWMutex
	current  string
	listener func(route string)
	history  []string
}

func NewRouter() *Router {
	return &Router{current: RoutePositions}
}

// OnNavigate registers the listener called after each navigation.
func (r *Router) OnNavigate(fn func(route string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listener = fn
}

func (r *Router) Navigate(path string) {
	route := Resolve(path)
	r.mu.Lock()
	r.current = route
	r.history = append(r.history, route)
	fn := r.listener
	r.mu.Unlock()

	if fn != nil {
		fn(route)
	}
}

func (r *Router) Current() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// History returns every route navigated to, oldest first.
func (r *Router) History() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.history))
	copy(out, r.history)
	return out
}
