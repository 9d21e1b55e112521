package views

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/equitydesk/equitydesk/internal/domain"
	"github.com/equitydesk/equitydesk/internal/services"
	"github.com/equitydesk/equitydesk/pkg/logger"
)

const loadPositionsFailedMessage = "Failed to load positions data"

// PositionsState is the positions view state machine.
type PositionsState int

const (
	StateIdle PositionsState = iota
	StateLoading
	StateLoaded
	StateFailed
)

func (s PositionsState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// FallbackPolicy picks the single fallback call made after a failed fetch.
type FallbackPolicy string

const (
	// FallbackMock serves the mock fixture.
	FallbackMock FallbackPolicy = "mock"
	// FallbackRetry queries the live endpoint a second time.
	FallbackRetry FallbackPolicy = "retry"
)

// PositionsSnapshot is a consistent copy of the view state for rendering.
type PositionsSnapshot struct {
	State     PositionsState
	Positions []domain.Position
	Error     string
}

func (s PositionsSnapshot) Loading() bool { return s.State == StateLoading }

// PositionsView drives the positions list: Idle -> Loading -> Loaded|Failed.
type PositionsView struct {
	svc      services.PositionsService
	nav      Navigator
	fallback FallbackPolicy
	log      *logrus.Entry

	mu        sync.Mutex
	state     PositionsState
	positions []domain.Position
	err       string
	gen       uint64
	cancel    context.CancelFunc
}

func NewPositionsView(svc services.PositionsService, nav Navigator, fallback FallbackPolicy) *PositionsView {
	if fallback != FallbackRetry {
		fallback = FallbackMock
	}
	return &PositionsView{
		svc:      svc,
		nav:      nav,
		fallback: fallback,
		log:      logger.WithField("view", "positions"),
	}
}

// Activate is called when the view is entered.
func (v *PositionsView) Activate(ctx context.Context) {
	v.Load(ctx)
}

// Refresh re-enters Loading from any state.
func (v *PositionsView) Refresh(ctx context.Context) {
	v.Load(ctx)
}

// Load fetches positions, making exactly one fallback call if the primary
// fetch fails. It blocks until a final state is reached or a newer load
// supersedes this one.
func (v *PositionsView) Load(ctx context.Context) {
	ctx, gen := v.begin(ctx)

	positions, err := v.svc.GetPositions(ctx)
	if err != nil {
		if v.stale(gen) {
			return
		}
		v.log.Warnf("API call failed, falling back (%s): %v", v.fallback, err)
		positions, err = v.fetchFallback(ctx)
		if err != nil {
			v.log.Errorf("fallback also failed: %v", err)
		}
	}
	v.finish(gen, positions, err)
}

func (v *PositionsView) fetchFallback(ctx context.Context) ([]domain.Position, error) {
	if v.fallback == FallbackRetry {
		return v.svc.GetPositions(ctx)
	}
	return v.svc.GetMockPositions(ctx)
}

func (v *PositionsView) begin(parent context.Context) (context.Context, uint64) {
	ctx, cancel := context.WithCancel(parent)

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.cancel != nil {
		v.cancel()
	}
	v.cancel = cancel
	v.gen++
	v.state = StateLoading
	v.err = ""
	return ctx, v.gen
}

func (v *PositionsView) stale(gen uint64) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return gen != v.gen
}

func (v *PositionsView) finish(gen uint64, positions []domain.Position, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if gen != v.gen {
		return
	}
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	if err != nil {
		v.state = StateFailed
		v.err = loadPositionsFailedMessage
		return
	}
	v.state = StateLoaded
	v.positions = positions
	v.err = ""
}

func (v *PositionsView) Snapshot() PositionsSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]domain.Position, len(v.positions))
	copy(out, v.positions)
	return PositionsSnapshot{State: v.state, Positions: out, Error: v.err}
}

// Key identifies a position within the displayed list.
func (v *PositionsView) Key(p domain.Position) string {
	return p.Symbol
}

// ExecuteOrder opens the order execution view.
func (v *PositionsView) ExecuteOrder() {
	v.nav.Navigate(RouteOrderExecution)
}

// Close cancels any in-flight load and discards its result.
func (v *PositionsView) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	v.gen++
	if v.state == StateLoading {
		v.state = StateIdle
	}
}
