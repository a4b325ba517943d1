package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/suhome/internal/config"
	"github.com/suhome/internal/logger"
	"github.com/suhome/internal/queue"

	"github.com/hibiken/asynq"
)

const (
	guestCartPurgeInterval = time.Hour
)

// Service 异步队列服务
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
}

// NewService 创建异步队列服务
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:     "worker",
		server:   server,
		mux:      mux,
		consumer: consumer,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动任务处理与游客购物车清理，阻塞至 ctx 取消且清理循环退出
// 任务排空由 Stop 完成
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if err := s.server.Start(s.mux); err != nil {
		return err
	}
	var wg sync.WaitGroup
	if s.consumer != nil && s.consumer.Container != nil && s.consumer.CartService != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.runGuestCartPurgeLoop(ctx)
		}()
	}
	<-ctx.Done()
	wg.Wait()
	return nil
}

// Stop 停止拉取新任务并等待在途任务完成
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	done := make(chan struct{})
	go func() {
		s.server.Shutdown()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Service) runGuestCartPurgeLoop(ctx context.Context) {
	ttl := s.consumer.Config.Checkout.GuestCartTTL()
	if ttl <= 0 {
		return
	}
	runOnce := func() {
		removed, err := s.consumer.CartService.PurgeStaleGuestCarts(ctx, ttl)
		if err != nil {
			logger.Warnw("worker_guest_cart_purge_failed", "error", err)
			return
		}
		if removed > 0 {
			logger.Infow("worker_guest_cart_purged", "removed", removed)
		}
	}
	runOnce()

	ticker := time.NewTicker(guestCartPurgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
