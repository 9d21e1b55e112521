package views

import (
	"context"
	"sync"

	"github.com/equitydesk/equitydesk/internal/domain"
	"github.com/equitydesk/equitydesk/internal/services"
)

type recordingNav struct {
	mu     sync.Mutex
	routes []string
}

func (n *recordingNav) Navigate(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.routes = append(n.routes, path)
}

func (n *recordingNav) Routes() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.routes))
	copy(out, n.routes)
	return out
}

// blockingService holds GetPositions until release is closed or ctx ends.
type blockingService struct {
	*services.MockPositionsService
	started chan struct{}
	release chan struct{}
}

func newBlockingService() *blockingService {
	return &blockingService{
		MockPositionsService: services.NewMockPositionsService(),
		started:              make(chan struct{}, 8),
		release:              make(chan struct{}),
	}
}

func (b *blockingService) GetPositions(ctx context.Context) ([]domain.Position, error) {
	b.started <- struct{}{}
	select {
	case <-b.release:
		return b.MockPositionsService.GetPositions(ctx)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (b *blockingService) ExecuteOrder(ctx context.Context, order domain.Order) (*domain.ExecuteOrderResult, error) {
	b.started <- struct{}{}
	select {
	case <-b.release:
		return b.MockPositionsService.ExecuteOrder(ctx, order)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
