package shutdown

import (
	"context"
	"sync"

	"github.com/equitydesk/equitydesk/pkg/logger"
)

// Handler 关闭处理函数
type Handler func(ctx context.Context) error

type namedHandler struct {
	name string
	fn   Handler
}

// Manager 优雅关闭管理器，按注册顺序依次执行回调
type Manager struct {
	mu       sync.Mutex
	handlers []namedHandler
	once     sync.Once
}

// NewManager 创建新的关闭管理器
func NewManager() *Manager {
	return &Manager{}
}

// OnShutdown 注册关闭回调
func (m *Manager) OnShutdown(name string, handler Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers = append(m.handlers, namedHandler{name: name, fn: handler})
}

// Shutdown 执行所有关闭回调（阻塞调用，只执行一次）
// ctx 应该是一个带超时的 context；超时后剩余回调仍会执行，但会拿到已取消的 ctx
func (m *Manager) Shutdown(ctx context.Context) {
	m.once.Do(func() {
		m.mu.Lock()
		handlers := make([]namedHandler, len(m.handlers))
		copy(handlers, m.handlers)
		m.mu.Unlock()

		if len(handlers) == 0 {
			logger.Info("没有注册的关闭回调")
			return
		}

		logger.Infof("开始优雅关闭，共 %d 个回调", len(handlers))
		for _, h := range handlers {
			if err := h.fn(ctx); err != nil {
				logger.Warnf("关闭 %s 失败: %v", h.name, err)
				continue
			}
			logger.Debugf("关闭 %s 完成", h.name)
		}
		if err := ctx.Err(); err != nil {
			logger.Warnf("关闭超时: %v", err)
			return
		}
		logger.Info("所有关闭回调已完成")
	})
}
