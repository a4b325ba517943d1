package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Service 由 Runner 托管的长驻服务
// Start 阻塞至 ctx 取消或服务异常退出；Stop 负责排空在途请求/任务
type Service interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Runner 服务运行器
type Runner struct {
	services []Service
}

// NewRunner 创建服务运行器
func NewRunner(services ...Service) *Runner {
	return &Runner{services: services}
}

type serviceExit struct {
	name string
	err  error
}

// Run 启动全部服务，任一服务退出或 ctx 取消时逆序停止其余服务
// 返回前等待所有 Start 返回，调用方随后可安全关闭 DB / Redis / Kafka
func (r *Runner) Run(ctx context.Context, stopTimeout time.Duration, logger *zap.SugaredLogger) error {
	if r == nil || len(r.services) == 0 {
		return errors.New("no services to run")
	}
	for _, svc := range r.services {
		if svc == nil {
			return errors.New("service is nil")
		}
	}
	if stopTimeout <= 0 {
		stopTimeout = defaultShutdownTimeout
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	exits := make(chan serviceExit, len(r.services))
	var wg sync.WaitGroup
	for _, svc := range r.services {
		wg.Add(1)
		go func(svc Service) {
			defer wg.Done()
			name := svc.Name()
			infow(logger, "service_start", "service", name)
			err := svc.Start(ctx)
			if err != nil {
				errorw(logger, "service_exit", "service", name, "error", err)
			} else {
				infow(logger, "service_exit", "service", name)
			}
			exits <- serviceExit{name: name, err: err}
		}(svc)
	}

	var runErr error
	select {
	case <-ctx.Done():
		if !errors.Is(ctx.Err(), context.Canceled) {
			runErr = ctx.Err()
		}
	case exit := <-exits:
		if exit.err != nil {
			runErr = fmt.Errorf("%s: %w", exit.name, exit.err)
		}
	}
	cancel()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), stopTimeout)
	defer stopCancel()

	stopErrs := make([]error, 0, len(r.services))
	for i := len(r.services) - 1; i >= 0; i-- {
		svc := r.services[i]
		if err := svc.Stop(stopCtx); err != nil {
			errorw(logger, "service_stop_failed", "service", svc.Name(), "error", err)
			stopErrs = append(stopErrs, fmt.Errorf("stop %s: %w", svc.Name(), err))
		}
	}

	drained := make(chan struct{})
	go func() {
		wg.Wait()
		close(drained)
	}()
	select {
	case <-drained:
	case <-stopCtx.Done():
		errorw(logger, "service_drain_timeout", "timeout", stopTimeout.String())
		stopErrs = append(stopErrs, fmt.Errorf("services did not exit within %s", stopTimeout))
	}

	return errors.Join(append([]error{runErr}, stopErrs...)...)
}

func infow(logger *zap.SugaredLogger, msg string, kv ...interface{}) {
	if logger != nil {
		logger.Infow(msg, kv...)
	}
}

func errorw(logger *zap.SugaredLogger, msg string, kv ...interface{}) {
	if logger != nil {
		logger.Errorw(msg, kv...)
	}
}
