package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Hypha-Media-UK/rotatr/backend/config"
	"github.com/Hypha-Media-UK/rotatr/backend/internal/api/handler"
	"github.com/Hypha-Media-UK/rotatr/backend/internal/api/router"
	"github.com/Hypha-Media-UK/rotatr/backend/internal/repository"
	"github.com/Hypha-Media-UK/rotatr/backend/internal/service"
	"github.com/Hypha-Media-UK/rotatr/backend/pkg/database"
	"github.com/Hypha-Media-UK/rotatr/backend/pkg/jwt"
	applogger "github.com/Hypha-Media-UK/rotatr/backend/pkg/logger"
	"github.com/Hypha-Media-UK/rotatr/backend/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// 本地开发从 .env 注入 ROTATR_* 变量，文件不存在不报错
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("ROTATR_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	logger, err := applogger.NewLogger(&cfg.Log, "server")
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("服务异常退出", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

// run 装配依赖并阻塞到收到 SIGINT/SIGTERM 或 HTTP 服务失败
func run(cfg *config.Config, logger *zap.Logger) error {
	logger.Info("rotatr 启动",
		zap.Int("port", cfg.Server.Port),
		zap.String("timezone", cfg.Staffing.Timezone),
		zap.Int("staffing_workers", cfg.Staffing.Workers),
		zap.Bool("alert_job", cfg.Staffing.AlertJobEnabled),
	)

	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("获取底层 sql.DB 失败: %w", err)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			logger.Error("关闭数据库连接失败", zap.Error(err))
		}
	}()

	if err := database.RunMigrations(sqlDB, logger); err != nil {
		return fmt.Errorf("数据库迁移失败: %w", err)
	}

	// Redis 可选：不可用时总览不缓存，告警生成不加锁，登录不限流，注销不生效
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 不可用，按无缓存模式运行", zap.Error(err))
		rdb = nil
	} else {
		defer rdb.Close()
	}

	jwtMgr := jwt.NewManager(&cfg.Auth)
	svc := service.NewService(cfg, repository.NewRepository(db), jwtMgr, rdb, logger)
	engine := router.Setup(cfg, handler.NewHandler(svc), jwtMgr, rdb, db, logger)

	var alertJob *service.AlertJob
	if cfg.Staffing.AlertJobEnabled {
		alertJob = service.NewAlertJob(svc.Staffing, &cfg.Staffing, logger)
		if err := alertJob.Start(); err != nil {
			return fmt.Errorf("启动告警定时任务失败: %w", err)
		}
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second, // 人手总览 XLSX 导出
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("HTTP 服务已监听", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP 服务异常: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("开始优雅关闭")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP 服务关闭异常", zap.Error(err))
		}
		// 正在生成的当日告警需要写完
		if alertJob != nil {
			select {
			case <-alertJob.Stop().Done():
			case <-shutdownCtx.Done():
				logger.Warn("等待告警任务结束超时")
			}
		}
		return nil
	})

	err = g.Wait()
	logger.Info("服务已关闭")
	return err
}
