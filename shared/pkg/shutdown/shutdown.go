package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
)

const gracePeriod = 15 * time.Second

// Manager cancels the root context on SIGINT/SIGTERM and runs the registered
// close tasks in reverse registration order.
type Manager struct {
	cancelFunc context.CancelFunc
	tasks      []func(context.Context) error
	mu         sync.Mutex
	done       chan struct{}
	log        *logrus.Entry
}

func NewManager(ctx context.Context, log *logrus.Entry) (context.Context, *Manager) {
	ctx, cancel := context.WithCancel(ctx)
	return ctx, &Manager{
		cancelFunc: cancel,
		done:       make(chan struct{}),
		log:        log,
	}
}

func (m *Manager) Register(task func(context.Context) error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = append(m.tasks, task)
}

func (m *Manager) StartListening() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		m.log.WithField("signal", sig.String()).Info("shutdown requested")
		m.Shutdown()
	}()
}

// Shutdown cancels the root context and runs every task once.
func (m *Manager) Shutdown() {
	m.cancelFunc()

	ctx, cancel := context.WithTimeout(context.Background(), gracePeriod)
	defer cancel()

	m.mu.Lock()
	tasks := m.tasks
	m.tasks = nil
	m.mu.Unlock()

	for i := len(tasks) - 1; i >= 0; i-- {
		if err := tasks[i](ctx); err != nil {
			m.log.WithError(err).Error("shutdown task failed")
		}
	}

	select {
	case <-m.done:
	default:
		close(m.done)
	}
	m.log.Info("graceful shutdown complete")
}

// Wait blocks until Shutdown has finished.
func (m *Manager) Wait() {
	<-m.done
}
