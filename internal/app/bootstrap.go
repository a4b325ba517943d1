package app

import (
	"context"
	"errors"
	"os/signal"

	"github.com/suhome/internal/config"
	"github.com/suhome/internal/logger"
	"github.com/suhome/internal/provider"
	"github.com/suhome/internal/router"
	"github.com/suhome/internal/worker"
)

// BuildRunner 构建服务运行器，返回的容器需在退出时关闭
func BuildRunner(cfg *config.Config, mode string) (*Runner, *provider.Container, error) {
	if cfg == nil {
		return nil, nil, errors.New("config is nil")
	}
	mode, err := ParseMode(mode)
	if err != nil {
		return nil, nil, err
	}

	container := provider.NewContainer(cfg)

	var services []Service

	// 初始化 HTTP 服务
	if mode == ModeAll || mode == ModeAPI {
		engine := router.SetupRouter(cfg, container)
		services = append(services, NewHTTPService(cfg.Server, engine))
	}

	// 初始化 Worker 服务；all 模式下队列未启用时只启动 HTTP
	if mode == ModeAll || mode == ModeWorker {
		consumer := worker.NewConsumer(container)
		workerService, err := worker.NewService(&cfg.Queue, consumer)
		switch {
		case err == nil:
			services = append(services, workerService)
		case mode == ModeWorker:
			container.Close()
			return nil, nil, err
		default:
			logger.Warnw("app_worker_skipped", "reason", err.Error())
		}
	}

	if len(services) == 0 {
		container.Close()
		return nil, nil, errors.New("no services initialized (check mode and config)")
	}

	return NewRunner(services...), container, nil
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, container, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}
	defer container.Close()

	ctx, stop := signal.NotifyContext(context.Background(), opts.Signals...)
	defer stop()

	opts.Logger.Infow("app_start", "addr", opts.Config.Server.Addr(), "mode", opts.Mode, "shutdown_timeout", opts.ShutdownTimeout.String())
	// Runner 返回时服务均已退出，随后 defer 关闭容器资源
	return runner.Run(ctx, opts.ShutdownTimeout, opts.Logger)
}
